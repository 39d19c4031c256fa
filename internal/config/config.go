package config

import (
	"context"
	"fmt"
	"time"

	"github.com/caarlos0/env/v10"
)

// App holds core runtime configuration shared across services.
type App struct {
	Name                    string        `env:"APP_NAME" envDefault:"examhall"`
	Env                     string        `env:"APP_ENV" envDefault:"development"`
	HTTPAddr                string        `env:"HTTP_ADDR" envDefault:"0.0.0.0:8080"`
	GracefulShutdownTimeout time.Duration `env:"GRACEFUL_SHUTDOWN_SECONDS" envDefault:"20s"`

	Postgres  Postgres
	Redis     Redis
	Generator Generator
	Exam      Exam
}

// Postgres captures connection info for the SQL database.
type Postgres struct {
	Host     string `env:"PG_HOST,notEmpty"`
	Port     int    `env:"PG_PORT" envDefault:"5432"`
	User     string `env:"PG_USER,notEmpty"`
	Password string `env:"PG_PASSWORD,notEmpty"`
	Database string `env:"PG_DATABASE,notEmpty"`
	SSLMode  string `env:"PG_SSL_MODE" envDefault:"disable"`
}

// Redis holds connection info for the answer history recorder.
type Redis struct {
	Addr     string `env:"REDIS_ADDR,notEmpty"`
	DB       int    `env:"REDIS_DB" envDefault:"0"`
	PoolSize int    `env:"REDIS_POOL_SIZE" envDefault:"20"`
}

// Generator configures the external equation-generator service.
type Generator struct {
	URL         string        `env:"GENERATOR_URL,notEmpty"`
	APIKey      string        `env:"GENERATOR_API_KEY"`
	HTTPTimeout time.Duration `env:"GENERATOR_HTTP_TIMEOUT" envDefault:"6s"`
}

// Exam groups orchestrator defaults.
type Exam struct {
	DefaultReveal     string        `env:"EXAM_DEFAULT_REVEAL" envDefault:"none"`
	HistoryMaxEntries int64         `env:"EXAM_HISTORY_MAX_ENTRIES" envDefault:"500"`
	SideEffectTimeout time.Duration `env:"EXAM_SIDE_EFFECT_TIMEOUT" envDefault:"2s"`
	MaxQuestions      int           `env:"EXAM_MAX_QUESTIONS" envDefault:"50"`
}

// Load parses environment variables into App config.
func Load(ctx context.Context) (*App, error) {
	cfg := &App{}
	if err := env.ParseWithOptions(cfg, env.Options{RequiredIfNoDef: true}); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}
	return cfg, nil
}
