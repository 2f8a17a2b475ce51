package migration

import (
	"context"

	"gofeat/internal/errors"

	"github.com/jmoiron/sqlx"
)

// Migrator defines the interface for database migration operations
type Migrator interface {
	Run(ctx context.Context, db *sqlx.DB) error
	Version() string
}

// MigrationRunner handles database schema migrations
type MigrationRunner struct {
	version string
}

// NewRunner creates a new migration runner
func NewRunner() *MigrationRunner {
	return &MigrationRunner{
		version: "1.0.0",
	}
}

// Version returns the migration version
func (r *MigrationRunner) Version() string {
	return r.version
}

// Run executes all database migrations in the correct order. Every statement
// is idempotent so Run can be called on each start.
func (r *MigrationRunner) Run(ctx context.Context, db *sqlx.DB) error {
	if err := r.createRankingRunsTable(ctx, db); err != nil {
		return errors.Wrap(err, "failed to create ranking_runs table")
	}

	if err := r.createRankingScoresTable(ctx, db); err != nil {
		return errors.Wrap(err, "failed to create ranking_scores table")
	}

	if err := r.createIndexes(ctx, db); err != nil {
		return errors.Wrap(err, "failed to create indexes")
	}

	return nil
}

// Statements lists every statement Run executes, in order
func (r *MigrationRunner) Statements() []string {
	statements := []string{rankingRunsDDL, rankingScoresDDL}
	return append(statements, indexDDL...)
}

const rankingRunsDDL = `
		CREATE TABLE IF NOT EXISTS ranking_runs (
			run_id VARCHAR(64) PRIMARY KEY,
			response TEXT NOT NULL,
			row_count INTEGER NOT NULL,
			dropped_rows INTEGER NOT NULL DEFAULT 0,
			pair_mode VARCHAR(20) NOT NULL,
			fingerprint VARCHAR(64),
			failure_count INTEGER NOT NULL DEFAULT 0,
			runtime_ms BIGINT NOT NULL DEFAULT 0,
			report JSONB NOT NULL,
			created_at TIMESTAMP WITH TIME ZONE DEFAULT NOW()
		)
	`

const rankingScoresDDL = `
		CREATE TABLE IF NOT EXISTS ranking_scores (
			run_id VARCHAR(64) NOT NULL REFERENCES ranking_runs(run_id) ON DELETE CASCADE,
			metric VARCHAR(32) NOT NULL,
			rank INTEGER NOT NULL,
			label TEXT NOT NULL,
			value DOUBLE PRECISION NOT NULL,
			PRIMARY KEY (run_id, metric, rank)
		)
	`

var indexDDL = []string{
	"CREATE INDEX IF NOT EXISTS idx_ranking_runs_created_at ON ranking_runs(created_at DESC)",
	"CREATE INDEX IF NOT EXISTS idx_ranking_runs_response ON ranking_runs(response)",
	"CREATE INDEX IF NOT EXISTS idx_ranking_scores_label ON ranking_scores(label)",
}

func (r *MigrationRunner) createRankingRunsTable(ctx context.Context, db *sqlx.DB) error {
	_, err := db.ExecContext(ctx, rankingRunsDDL)
	return err
}

func (r *MigrationRunner) createRankingScoresTable(ctx context.Context, db *sqlx.DB) error {
	_, err := db.ExecContext(ctx, rankingScoresDDL)
	return err
}

func (r *MigrationRunner) createIndexes(ctx context.Context, db *sqlx.DB) error {
	for _, index := range indexDDL {
		if _, err := db.ExecContext(ctx, index); err != nil {
			return err
		}
	}
	return nil
}
