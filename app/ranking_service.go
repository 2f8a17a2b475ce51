package app

import (
	"context"
	stderrors "errors"
	"fmt"

	"gofeat/adapters/stats/engine"
	"gofeat/domain/stats"
	"gofeat/internal"
	"gofeat/internal/errors"
	"gofeat/ports"
)

// RankingService loads a dataset, ranks its predictors and hands the report
// to every configured writer
type RankingService struct {
	engine  *engine.StatsEngine
	writers []ports.ReportWriter
	logger  *internal.Logger
}

// RankingRequest defines the inputs of one ranking run
type RankingRequest struct {
	Reader     ports.DatasetReader
	Response   string
	Predictors []string // empty means every column except the response
	PairMode   stats.PairMode
}

// NewRankingService creates a ranking service
func NewRankingService(statsEngine *engine.StatsEngine, logger *internal.Logger, writers ...ports.ReportWriter) *RankingService {
	if logger == nil {
		logger = internal.NopLogger()
	}
	return &RankingService{
		engine:  statsEngine,
		writers: writers,
		logger:  logger.With("RankingService"),
	}
}

// Run executes one ranking. When the engine succeeds every writer is called
// even if an earlier one fails; writer errors are joined and returned next to
// the report.
func (s *RankingService) Run(ctx context.Context, req RankingRequest) (*stats.Report, error) {
	if req.Reader == nil {
		return nil, errors.InvalidInput("no dataset reader configured")
	}

	frame, err := req.Reader.ReadFrame(ctx)
	if err != nil {
		return nil, errors.Wrap(err, "failed to load dataset")
	}
	s.logger.Info("loaded %d rows x %d columns", frame.RowCount(), frame.ColumnCount())

	report, err := s.engine.Run(ctx, frame, engine.Request{
		Response:   req.Response,
		Predictors: req.Predictors,
		PairMode:   req.PairMode,
	})
	if err != nil {
		return nil, errors.Wrap(err, "ranking failed")
	}
	s.logger.Info("run %s: %d predictors, %d pairs, %d failures in %dms",
		report.RunID, len(report.MeanDifference), len(report.BruteForce), len(report.Failures), report.RuntimeMs)

	var writeErrs []error
	for _, w := range s.writers {
		if err := w.WriteReport(ctx, report); err != nil {
			s.logger.Warn("report writer %T failed: %v", w, err)
			writeErrs = append(writeErrs, fmt.Errorf("%T: %w", w, err))
		}
	}
	if len(writeErrs) > 0 {
		return report, errors.Wrap(stderrors.Join(writeErrs...), "failed to write report")
	}
	return report, nil
}
