package account

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/rs/zerolog"
)

const ensureUserSQL = `
INSERT INTO accounts (participant_id)
VALUES ($1)
ON CONFLICT (participant_id) DO NOTHING
`

// execer is the slice of pgxpool.Pool the repository needs.
type execer interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
}

// Repository manages account records for human participants. EnsureUser is
// invoked best-effort from registration; the orchestrator never blocks on it.
type Repository struct {
	db     execer
	logger zerolog.Logger
}

func NewRepository(db execer, logger zerolog.Logger) *Repository {
	return &Repository{
		db:     db,
		logger: logger.With().Str("component", "accounts").Logger(),
	}
}

// EnsureUser creates the account record if absent. Idempotent.
func (r *Repository) EnsureUser(ctx context.Context, participantID string) error {
	tag, err := r.db.Exec(ctx, ensureUserSQL, participantID)
	if err != nil {
		return fmt.Errorf("ensure user %s: %w", participantID, err)
	}
	if tag.RowsAffected() > 0 {
		r.logger.Info().Str("participant_id", participantID).Msg("account created")
	}
	return nil
}
