package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	stderrors "errors"
	"fmt"

	"gofeat/domain/core"
	"gofeat/domain/stats"
	"gofeat/internal/errors"
	"gofeat/ports"

	"github.com/jmoiron/sqlx"
)

// scoreBatchSize keeps each bulk insert well under the 65535 bind parameter limit
const scoreBatchSize = 1000

// ReportRepositoryImpl implements ReportRepository for PostgreSQL
type ReportRepositoryImpl struct {
	db *sqlx.DB
}

// NewReportRepository creates a new PostgreSQL report repository
func NewReportRepository(db *sqlx.DB) ports.ReportRepository {
	return &ReportRepositoryImpl{db: db}
}

// WriteReport stores the run header, the full report document and every
// ranked score in one transaction
func (r *ReportRepositoryImpl) WriteReport(ctx context.Context, report *stats.Report) error {
	document, err := json.Marshal(report)
	if err != nil {
		return errors.Wrap(err, "failed to encode report")
	}

	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return errors.DatabaseError(fmt.Sprintf("failed to begin transaction: %v", err))
	}
	defer tx.Rollback()

	_, err = tx.ExecContext(ctx, `
		INSERT INTO ranking_runs (run_id, response, row_count, dropped_rows, pair_mode, fingerprint, failure_count, runtime_ms, report, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
	`, report.RunID, report.Response, report.RowCount, report.DroppedRows, report.PairMode,
		report.Fingerprint, len(report.Failures), report.RuntimeMs, string(document), report.CreatedAt)
	if err != nil {
		return errors.DatabaseError(fmt.Sprintf("failed to insert run %s: %v", report.RunID, err))
	}

	scores := storedScores(report)
	for start := 0; start < len(scores); start += scoreBatchSize {
		end := start + scoreBatchSize
		if end > len(scores) {
			end = len(scores)
		}
		_, err := tx.NamedExecContext(ctx, `
			INSERT INTO ranking_scores (run_id, metric, rank, label, value)
			VALUES (:run_id, :metric, :rank, :label, :value)
		`, scores[start:end])
		if err != nil {
			return errors.DatabaseError(fmt.Sprintf("failed to insert scores for run %s: %v", report.RunID, err))
		}
	}

	return tx.Commit()
}

// GetRun retrieves the header of one run
func (r *ReportRepositoryImpl) GetRun(ctx context.Context, runID core.RunID) (*ports.RunSummary, error) {
	var summary ports.RunSummary
	err := r.db.GetContext(ctx, &summary, `
		SELECT run_id, response, row_count, pair_mode, fingerprint, failure_count, runtime_ms, created_at
		FROM ranking_runs
		WHERE run_id = $1
	`, runID)
	if stderrors.Is(err, sql.ErrNoRows) {
		return nil, errors.NotFound("run " + runID.String())
	}
	if err != nil {
		return nil, errors.DatabaseError(err.Error())
	}
	return &summary, nil
}

// ListRuns returns run headers, newest first
func (r *ReportRepositoryImpl) ListRuns(ctx context.Context, limit, offset int) ([]ports.RunSummary, error) {
	if limit <= 0 {
		limit = 50
	}
	if offset < 0 {
		offset = 0
	}

	runs := []ports.RunSummary{}
	err := r.db.SelectContext(ctx, &runs, `
		SELECT run_id, response, row_count, pair_mode, fingerprint, failure_count, runtime_ms, created_at
		FROM ranking_runs
		ORDER BY created_at DESC
		LIMIT $1 OFFSET $2
	`, limit, offset)
	if err != nil {
		return nil, errors.DatabaseError(err.Error())
	}
	return runs, nil
}

// GetScores returns every stored score of a run in rank order
func (r *ReportRepositoryImpl) GetScores(ctx context.Context, runID core.RunID) ([]ports.StoredScore, error) {
	scores := []ports.StoredScore{}
	err := r.db.SelectContext(ctx, &scores, `
		SELECT run_id, metric, rank, label, value
		FROM ranking_scores
		WHERE run_id = $1
		ORDER BY metric, rank
	`, runID)
	if err != nil {
		return nil, errors.DatabaseError(err.Error())
	}
	return scores, nil
}

// GetReportJSON returns the stored report document
func (r *ReportRepositoryImpl) GetReportJSON(ctx context.Context, runID core.RunID) (json.RawMessage, error) {
	var document []byte
	err := r.db.GetContext(ctx, &document, `SELECT report FROM ranking_runs WHERE run_id = $1`, runID)
	if stderrors.Is(err, sql.ErrNoRows) {
		return nil, errors.NotFound("run " + runID.String())
	}
	if err != nil {
		return nil, errors.DatabaseError(err.Error())
	}
	return json.RawMessage(document), nil
}

// storedScores flattens both ranked lists; rank starts at 1
func storedScores(report *stats.Report) []ports.StoredScore {
	scores := make([]ports.StoredScore, 0, len(report.MeanDifference)+len(report.BruteForce))
	for _, list := range [][]stats.ScoreRecord{report.MeanDifference, report.BruteForce} {
		for i, rec := range list {
			scores = append(scores, ports.StoredScore{
				RunID:  report.RunID,
				Metric: rec.Metric,
				Rank:   i + 1,
				Label:  rec.Label(),
				Value:  rec.Value,
			})
		}
	}
	return scores
}
