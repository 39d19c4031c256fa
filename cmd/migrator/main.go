package main

import (
	"database/sql"
	"flag"
	"fmt"
	"os"
	"path/filepath"

	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/pressly/goose/v3"
	"github.com/rs/zerolog"
)

// Schema migration runner for the accounts and answer_events tables.
// Usage: migrator [-dir db/migrations] <up|down|status|version>
func main() {
	dir := flag.String("dir", "db/migrations", "directory containing migration files")
	flag.Parse()

	command := flag.Arg(0)
	if command == "" {
		command = "up"
	}

	logger := zerolog.New(os.Stderr).With().Timestamp().Logger()

	if err := run(logger, command, *dir); err != nil {
		logger.Fatal().Err(err).Str("command", command).Msg("migration failed")
	}
}

func run(logger zerolog.Logger, command, dir string) error {
	migrationDir, err := filepath.Abs(dir)
	if err != nil {
		return fmt.Errorf("resolve migration dir %q: %w", dir, err)
	}
	if _, err := os.Stat(migrationDir); err != nil {
		return fmt.Errorf("migration dir %q: %w", migrationDir, err)
	}

	db, err := sql.Open("pgx", dsnFromEnv())
	if err != nil {
		return fmt.Errorf("open database: %w", err)
	}
	defer db.Close()

	if err := db.Ping(); err != nil {
		return fmt.Errorf("ping database: %w", err)
	}

	logger.Info().Str("migration_dir", migrationDir).Str("command", command).Msg("running migrations")

	switch command {
	case "up":
		return goose.Up(db, migrationDir)
	case "down":
		return goose.Down(db, migrationDir)
	case "status":
		return goose.Status(db, migrationDir)
	case "version":
		version, err := goose.GetDBVersion(db)
		if err != nil {
			return err
		}
		logger.Info().Int64("version", version).Msg("current schema version")
		return nil
	default:
		return fmt.Errorf("unknown command %q, expected up, down, status or version", command)
	}
}

func dsnFromEnv() string {
	get := func(key, fallback string) string {
		if v := os.Getenv(key); v != "" {
			return v
		}
		return fallback
	}
	return fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		get("PG_HOST", "localhost"),
		get("PG_PORT", "5432"),
		get("PG_USER", "examhall"),
		get("PG_PASSWORD", ""),
		get("PG_DATABASE", "examhall"),
		get("PG_SSL_MODE", "disable"),
	)
}
