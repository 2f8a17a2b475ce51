package ports

import (
	"context"
	"encoding/json"

	"gofeat/domain/core"
	"gofeat/domain/stats"
)

// ReportWriter receives every finished report
type ReportWriter interface {
	WriteReport(ctx context.Context, report *stats.Report) error
}

// ReportRepository persists reports and answers queries about past runs
type ReportRepository interface {
	ReportWriter
	GetRun(ctx context.Context, runID core.RunID) (*RunSummary, error)
	ListRuns(ctx context.Context, limit, offset int) ([]RunSummary, error)
	GetScores(ctx context.Context, runID core.RunID) ([]StoredScore, error)
	// GetReportJSON returns the full report exactly as it was stored
	GetReportJSON(ctx context.Context, runID core.RunID) (json.RawMessage, error)
}

// RunSummary is the stored header of one ranking run
type RunSummary struct {
	RunID        core.RunID       `json:"run_id" db:"run_id"`
	Response     core.VariableKey `json:"response" db:"response"`
	RowCount     int              `json:"row_count" db:"row_count"`
	PairMode     stats.PairMode   `json:"pair_mode" db:"pair_mode"`
	Fingerprint  core.Hash        `json:"fingerprint" db:"fingerprint"`
	FailureCount int              `json:"failure_count" db:"failure_count"`
	RuntimeMs    int64            `json:"runtime_ms" db:"runtime_ms"`
	CreatedAt    core.Timestamp   `json:"created_at" db:"created_at"`
}

// StoredScore is one ranked scalar as persisted, without its bin detail
type StoredScore struct {
	RunID  core.RunID       `json:"run_id" db:"run_id"`
	Metric stats.MetricKind `json:"metric" db:"metric"`
	Rank   int              `json:"rank" db:"rank"`
	Label  string           `json:"label" db:"label"`
	Value  float64          `json:"value" db:"value"`
}
