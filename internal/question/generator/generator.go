package generator

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/examhall/examhall/internal/question"
)

// Config holds connection details for the equation-generator service.
type Config struct {
	URL     string
	APIKey  string
	Timeout time.Duration
}

// Client calls the external generator for questions and equation categories.
type Client struct {
	httpClient  *http.Client
	config      Config
	logger      zerolog.Logger
	generateURL string
	classifyURL string
}

func NewClient(cfg Config, logger zerolog.Logger) *Client {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 6 * time.Second
	}
	base := strings.TrimSuffix(cfg.URL, "/")

	return &Client{
		httpClient: &http.Client{
			Timeout: timeout,
		},
		config:      cfg,
		logger:      logger.With().Str("component", "question_generator").Logger(),
		generateURL: base + "/generate",
		classifyURL: base + "/classify",
	}
}

// GenerateQuestion requests one question of the given difficulty.
func (c *Client) GenerateQuestion(ctx context.Context, difficulty string) (question.Question, error) {
	if c.config.URL == "" {
		return question.Question{}, fmt.Errorf("generator endpoint not configured")
	}

	var resp generateResponse
	if err := c.post(ctx, c.generateURL, generateRequest{Difficulty: difficulty}, &resp); err != nil {
		return question.Question{}, err
	}

	if resp.Prompt == "" && resp.Equation == "" {
		return question.Question{}, fmt.Errorf("generator returned empty question")
	}

	q := question.Question{
		Equation:   resp.Equation,
		Prompt:     resp.Prompt,
		Answer:     resp.Answer,
		Difficulty: resp.Difficulty,
	}
	if q.Difficulty == "" {
		q.Difficulty = difficulty
	}
	return q, nil
}

// Classify asks the generator service which topic category an equation belongs to.
func (c *Client) Classify(ctx context.Context, equation string) (string, error) {
	if c.config.URL == "" {
		return "", fmt.Errorf("generator endpoint not configured")
	}

	var resp classifyResponse
	if err := c.post(ctx, c.classifyURL, classifyRequest{Equation: equation}, &resp); err != nil {
		return "", err
	}
	if resp.Category == "" {
		return "", fmt.Errorf("classifier returned empty category")
	}
	return resp.Category, nil
}

func (c *Client) post(ctx context.Context, url string, payload any, out any) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return err
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return err
	}
	httpReq.Header.Set("Content-Type", "application/json")
	if c.config.APIKey != "" {
		httpReq.Header.Set("Authorization", "Bearer "+c.config.APIKey)
	}

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		return fmt.Errorf("generator returned status %d", resp.StatusCode)
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode generator payload: %w", err)
	}
	return nil
}

type generateRequest struct {
	Difficulty string `json:"difficulty"`
}

type generateResponse struct {
	Equation   string `json:"equation"`
	Prompt     string `json:"prompt"`
	Answer     int    `json:"answer"`
	Difficulty string `json:"difficulty"`
}

type classifyRequest struct {
	Equation string `json:"equation"`
}

type classifyResponse struct {
	Category string `json:"category"`
}
