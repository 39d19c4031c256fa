package config

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setRequiredEnv(t *testing.T) {
	t.Helper()
	t.Setenv("PG_HOST", "localhost")
	t.Setenv("PG_USER", "examhall")
	t.Setenv("PG_PASSWORD", "secret")
	t.Setenv("PG_DATABASE", "examhall")
	t.Setenv("REDIS_ADDR", "localhost:6379")
	t.Setenv("GENERATOR_URL", "http://localhost:9000")
}

func TestLoadDefaults(t *testing.T) {
	setRequiredEnv(t)

	cfg, err := Load(context.Background())
	require.NoError(t, err)

	assert.Equal(t, "examhall", cfg.Name)
	assert.Equal(t, "development", cfg.Env)
	assert.Equal(t, "0.0.0.0:8080", cfg.HTTPAddr)
	assert.Equal(t, 20*time.Second, cfg.GracefulShutdownTimeout)
	assert.Equal(t, 5432, cfg.Postgres.Port)
	assert.Equal(t, "disable", cfg.Postgres.SSLMode)
	assert.Equal(t, 20, cfg.Redis.PoolSize)
	assert.Equal(t, 6*time.Second, cfg.Generator.HTTPTimeout)
	assert.Equal(t, "none", cfg.Exam.DefaultReveal)
	assert.Equal(t, int64(500), cfg.Exam.HistoryMaxEntries)
	assert.Equal(t, 2*time.Second, cfg.Exam.SideEffectTimeout)
	assert.Equal(t, 50, cfg.Exam.MaxQuestions)
}

func TestLoadOverrides(t *testing.T) {
	setRequiredEnv(t)
	t.Setenv("APP_ENV", "production")
	t.Setenv("HTTP_ADDR", "127.0.0.1:9999")
	t.Setenv("EXAM_MAX_QUESTIONS", "10")
	t.Setenv("EXAM_SIDE_EFFECT_TIMEOUT", "500ms")

	cfg, err := Load(context.Background())
	require.NoError(t, err)

	assert.Equal(t, "production", cfg.Env)
	assert.Equal(t, "127.0.0.1:9999", cfg.HTTPAddr)
	assert.Equal(t, 10, cfg.Exam.MaxQuestions)
	assert.Equal(t, 500*time.Millisecond, cfg.Exam.SideEffectTimeout)
}

func TestLoadMissingRequired(t *testing.T) {
	setRequiredEnv(t)
	t.Setenv("PG_HOST", "")

	_, err := Load(context.Background())
	assert.Error(t, err)
}
