package server

import (
	"context"
	"net/http"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"github.com/examhall/examhall/internal/config"
	"github.com/examhall/examhall/internal/exam"
	"github.com/examhall/examhall/internal/history"
	"github.com/examhall/examhall/internal/logging"
)

// NewHTTPServer wires all routes for the API service.
func NewHTTPServer(
	cfg *config.App,
	logger zerolog.Logger,
	pool *pgxpool.Pool,
	redisClient *redis.Client,
	examHandlers *exam.HTTPHandlers,
	historyHandler *history.HTTPHandler,
	wsHandler http.HandlerFunc,
) *http.Server {
	mux := http.NewServeMux()

	mux.HandleFunc("GET /healthz", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"status":"ok"}`))
	})

	mux.Handle("GET /metrics", promhttp.Handler())

	mux.HandleFunc("GET /v1/ping", func(w http.ResponseWriter, r *http.Request) {
		ctx := logging.IntoContext(r.Context(), logger)
		if err := pingDependencies(ctx, pool, redisClient); err != nil {
			logger.Error().Err(err).Msg("dependency ping failed")
			http.Error(w, "upstream error", http.StatusBadGateway)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"pong":true}`))
	})

	// Exam orchestration endpoints
	mux.HandleFunc("POST /v1/exams", counted(examsCreatedTotal, examHandlers.CreateExam))
	mux.HandleFunc("GET /v1/exams", examHandlers.ListExams)
	mux.HandleFunc("POST /v1/exams/{id}/participants", examHandlers.Register)
	mux.HandleFunc("POST /v1/exams/{id}/start", examHandlers.Start)
	mux.HandleFunc("GET /v1/exams/{id}/status", examHandlers.Status)
	mux.HandleFunc("POST /v1/exams/{id}/answers", counted(answerSubmissionsTotal, examHandlers.Submit))
	mux.HandleFunc("GET /v1/exams/{id}/all-answered", examHandlers.AllAnswered)
	mux.HandleFunc("POST /v1/exams/{id}/advance", counted(roundAdvancesTotal, examHandlers.Advance))
	mux.HandleFunc("GET /v1/exams/{id}/results", examHandlers.Results)

	// Answer history
	if historyHandler != nil {
		mux.HandleFunc("GET /v1/participants/{id}/history", historyHandler.HandleRecent)
	}

	// WebSocket endpoint for exam event watchers
	if wsHandler != nil {
		mux.HandleFunc("GET /ws/exams", wsHandler)
	}

	return &http.Server{
		Addr:    cfg.HTTPAddr,
		Handler: mux,
	}
}

func pingDependencies(ctx context.Context, pool *pgxpool.Pool, redisClient *redis.Client) error {
	if err := pool.Ping(ctx); err != nil {
		return err
	}
	if err := redisClient.Ping(ctx).Err(); err != nil {
		return err
	}
	return nil
}
