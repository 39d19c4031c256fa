package generator

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestClient(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return NewClient(Config{URL: srv.URL, APIKey: "test-key"}, zerolog.New(io.Discard))
}

func TestGenerateQuestion(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/generate", r.URL.Path)
		assert.Equal(t, "Bearer test-key", r.Header.Get("Authorization"))

		var req map[string]string
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, "hard", req["difficulty"])

		json.NewEncoder(w).Encode(map[string]any{
			"equation":   "17 * 23",
			"prompt":     "What is 17 * 23?",
			"answer":     391,
			"difficulty": "hard",
		})
	})

	q, err := client.GenerateQuestion(context.Background(), "hard")
	require.NoError(t, err)
	assert.Equal(t, "17 * 23", q.Equation)
	assert.Equal(t, "What is 17 * 23?", q.Prompt)
	assert.Equal(t, 391, q.Answer)
	assert.Equal(t, "hard", q.Difficulty)
}

func TestGenerateQuestionFillsMissingDifficulty(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]any{
			"equation": "1 + 1",
			"prompt":   "What is 1 + 1?",
			"answer":   2,
		})
	})

	q, err := client.GenerateQuestion(context.Background(), "easy")
	require.NoError(t, err)
	assert.Equal(t, "easy", q.Difficulty)
}

func TestGenerateQuestionErrors(t *testing.T) {
	t.Run("empty body", func(t *testing.T) {
		client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			json.NewEncoder(w).Encode(map[string]any{})
		})
		_, err := client.GenerateQuestion(context.Background(), "easy")
		assert.Error(t, err)
	})

	t.Run("server error", func(t *testing.T) {
		client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusBadGateway)
		})
		_, err := client.GenerateQuestion(context.Background(), "easy")
		assert.ErrorContains(t, err, "status 502")
	})

	t.Run("unconfigured endpoint", func(t *testing.T) {
		client := NewClient(Config{}, zerolog.New(io.Discard))
		_, err := client.GenerateQuestion(context.Background(), "easy")
		assert.ErrorContains(t, err, "not configured")
	})
}

func TestClassify(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/classify", r.URL.Path)

		var req map[string]string
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, "3 * 4", req["equation"])

		json.NewEncoder(w).Encode(map[string]string{"category": "multiplication"})
	})

	category, err := client.Classify(context.Background(), "3 * 4")
	require.NoError(t, err)
	assert.Equal(t, "multiplication", category)
}

func TestClassifyEmptyCategory(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]string{})
	})

	_, err := client.Classify(context.Background(), "3 * 4")
	assert.ErrorContains(t, err, "empty category")
}
