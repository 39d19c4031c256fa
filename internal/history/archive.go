package history

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/rs/zerolog"

	"github.com/examhall/examhall/internal/exam"
)

const insertAnswerEventSQL = `
INSERT INTO answer_events (exam_id, participant_id, prompt, equation, given_answer, correct_answer, category, is_correct, submitted_at)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
`

type execer interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
}

// Archiver persists answer events to Postgres for long-term analytics. Like
// the Recorder it implements exam.HistorySink and is invoked best-effort.
type Archiver struct {
	db     execer
	logger zerolog.Logger
}

func NewArchiver(db execer, logger zerolog.Logger) *Archiver {
	return &Archiver{
		db:     db,
		logger: logger.With().Str("component", "history_archive").Logger(),
	}
}

// Record inserts one answer event row.
func (a *Archiver) Record(ctx context.Context, ev exam.AnswerEvent) error {
	_, err := a.db.Exec(ctx, insertAnswerEventSQL,
		ev.ExamID,
		ev.ParticipantID,
		ev.Prompt,
		ev.Equation,
		ev.GivenAnswer,
		ev.CorrectAnswer,
		ev.Category,
		ev.IsCorrect,
		ev.SubmittedAt,
	)
	if err != nil {
		return fmt.Errorf("archive answer event: %w", err)
	}
	return nil
}

// Multi fans one answer event out to several sinks. Every sink is attempted;
// errors are joined so the notifier can log all of them at once.
func Multi(sinks ...exam.HistorySink) exam.HistorySink {
	return multiSink(sinks)
}

type multiSink []exam.HistorySink

func (m multiSink) Record(ctx context.Context, ev exam.AnswerEvent) error {
	var errs []error
	for _, sink := range m {
		if sink == nil {
			continue
		}
		if err := sink.Record(ctx, ev); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
