package engine

import (
	"context"
	"fmt"
	"math"
	"time"

	"gofeat/adapters/stats/senses"
	"gofeat/domain/core"
	"gofeat/domain/dataset"
	"gofeat/domain/stats"
	"gofeat/internal"
	"gofeat/internal/config"

	mstats "github.com/montanaflynn/stats"
	"golang.org/x/sync/errgroup"
)

// Request names the response and the predictors to score. An empty predictor
// list means every column except the response. An empty PairMode falls back
// to the engine default.
type Request struct {
	Response   string
	Predictors []string
	PairMode   stats.PairMode
}

// StatsEngine scores predictors and predictor pairs against a response
type StatsEngine struct {
	config      config.EngineConfig
	classifier  *Classifier
	senseEngine *senses.SenseEngine
	logger      *internal.Logger
}

// NewStatsEngine creates a new statistical engine. Zero config fields take
// their defaults.
func NewStatsEngine(cfg config.EngineConfig, logger *internal.Logger) *StatsEngine {
	defaults := config.DefaultEngineConfig()
	if cfg.Bins <= 0 {
		cfg.Bins = defaults.Bins
	}
	if cfg.DiscreteThreshold <= 0 {
		cfg.DiscreteThreshold = defaults.DiscreteThreshold
	}
	if cfg.Workers <= 0 {
		cfg.Workers = defaults.Workers
	}
	if cfg.PairMode == "" {
		cfg.PairMode = defaults.PairMode
	}
	if cfg.MaxPredictors <= 0 {
		cfg.MaxPredictors = defaults.MaxPredictors
	}
	if cfg.MaxPairs <= 0 {
		cfg.MaxPairs = defaults.MaxPairs
	}
	if logger == nil {
		logger = internal.NopLogger()
	}
	return &StatsEngine{
		config:      cfg,
		classifier:  NewClassifier(cfg.DiscreteThreshold),
		senseEngine: senses.NewSenseEngine(),
		logger:      logger.With("StatsEngine"),
	}
}

// Classifier exposes the engine's column classifier
func (e *StatsEngine) Classifier() *Classifier {
	return e.classifier
}

// prepared is the response-filtered view every score in a run works on
type prepared struct {
	frame        *dataset.Frame
	response     *dataset.Column
	responseKind stats.Kind
	y            []float64
	globalMean   float64
}

// predictorState is a classified predictor with its binning, shared
// read-only by the univariate pass and every pair it takes part in
type predictorState struct {
	descriptor stats.PredictorDescriptor
	column     *dataset.Column
	axis       *axis
}

func (e *StatsEngine) prepare(frame *dataset.Frame, response string) (*prepared, error) {
	if frame == nil {
		return nil, fmt.Errorf("%w: no dataset", core.ErrInsufficientData)
	}
	if !frame.Has(response) {
		return nil, core.NewInvalidColumnError(response)
	}
	filtered, err := frame.DropMissing(response)
	if err != nil {
		return nil, err
	}
	if filtered.RowCount() == 0 {
		return nil, fmt.Errorf("%w: no rows with a %s value", core.ErrInsufficientData, response)
	}

	col, _ := filtered.Column(response)
	y, err := encodeResponse(col)
	if err != nil {
		return nil, err
	}
	mean, err := mstats.Mean(y)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", core.ErrInsufficientData, err)
	}
	kind, err := e.classifier.Classify(filtered, response)
	if err != nil {
		return nil, err
	}

	return &prepared{
		frame:        filtered,
		response:     col,
		responseKind: kind,
		y:            y,
		globalMean:   mean,
	}, nil
}

// Run scores every requested predictor and predictor pair and returns the
// ranked report. Input problems (unknown columns, unusable response, limits)
// fail the run; a predictor or pair that cannot be scored is recorded in
// Report.Failures and the rest of the run continues.
func (e *StatsEngine) Run(ctx context.Context, frame *dataset.Frame, req Request) (*stats.Report, error) {
	start := time.Now()

	if frame == nil {
		return nil, fmt.Errorf("%w: no dataset", core.ErrInsufficientData)
	}
	if err := frame.Validate(); err != nil {
		return nil, err
	}
	predictors, err := e.resolvePredictors(frame, req)
	if err != nil {
		return nil, err
	}

	mode := req.PairMode
	if mode == "" {
		mode = e.config.PairMode
	}
	if len(predictors) > e.config.MaxPredictors {
		return nil, fmt.Errorf("%w: %d > %d", core.ErrTooManyPredictors, len(predictors), e.config.MaxPredictors)
	}
	if total := pairCount(len(predictors), mode); total > e.config.MaxPairs {
		return nil, fmt.Errorf("%w: %d > %d", core.ErrTooManyPairs, total, e.config.MaxPairs)
	}

	in, err := e.prepare(frame, req.Response)
	if err != nil {
		return nil, err
	}

	report := &stats.Report{
		RunID:        core.NewRunID(),
		Response:     core.VariableKey(req.Response),
		RowCount:     in.frame.RowCount(),
		DroppedRows:  frame.RowCount() - in.frame.RowCount(),
		ResponseMean: in.globalMean,
		PairMode:     mode,
		Fingerprint:  frame.Fingerprint(),
		CreatedAt:    core.Now(),
	}
	e.logger.Info("run %s: %d rows (%d dropped), %d predictors, response %s (%s), pair mode %s",
		report.RunID, report.RowCount, report.DroppedRows, len(predictors), req.Response, in.responseKind, mode)

	states := make([]predictorState, 0, len(predictors))
	for _, name := range predictors {
		d, err := e.classifier.describe(in.frame, name)
		if err != nil {
			e.logger.Warn("skipping predictor %s: %v", name, err)
			report.Failures = append(report.Failures, failure(stats.SinglePredictor(core.VariableKey(name)), stats.MetricMeanDifference, err))
			continue
		}
		report.Descriptors = append(report.Descriptors, d)

		col, _ := in.frame.Column(name)
		ax, err := buildAxis(col, d.Kind, e.config.Bins)
		if err != nil {
			e.logger.Warn("skipping predictor %s: %v", name, err)
			report.Failures = append(report.Failures, failure(stats.SinglePredictor(d.Key), stats.MetricMeanDifference, err))
			continue
		}
		if ax.degenerate {
			e.logger.Debug("predictor %s has zero range, collapsed to one bin", name)
		}
		states = append(states, predictorState{descriptor: d, column: col, axis: ax})
	}

	records := make([]stats.ScoreRecord, 0, len(states))
	for _, p := range states {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		table := meanDiffTable(p.descriptor, p.axis, in.y, in.globalMean)
		records = append(records, stats.ScoreRecord{
			Subject: stats.SinglePredictor(p.descriptor.Key),
			Metric:  stats.MetricMeanDifference,
			Value:   table.Metric(),
			Bins:    table,
		})
	}
	report.MeanDifference = stats.Rank(records)

	report.Associations = e.associations(ctx, in, states)
	report.Correlations = correlationTable(in.frame, report.Descriptors)

	pairRecords, pairFailures, err := e.sweepPairs(ctx, in, states, mode)
	if err != nil {
		return nil, err
	}
	report.BruteForce = stats.Rank(pairRecords)
	report.Failures = append(report.Failures, pairFailures...)

	report.RuntimeMs = time.Since(start).Milliseconds()
	e.logger.Info("run %s: scored %d predictors and %d pairs, %d failures in %dms",
		report.RunID, len(report.MeanDifference), len(report.BruteForce), len(report.Failures), report.RuntimeMs)
	return report, nil
}

// resolvePredictors validates the requested names against the frame. Unknown
// names and the response itself are rejected; duplicates are dropped.
func (e *StatsEngine) resolvePredictors(frame *dataset.Frame, req Request) ([]string, error) {
	if !frame.Has(req.Response) {
		return nil, core.NewInvalidColumnError(req.Response)
	}

	names := req.Predictors
	if len(names) == 0 {
		for _, name := range frame.ColumnNames() {
			if name != req.Response {
				names = append(names, name)
			}
		}
	}

	seen := make(map[string]struct{}, len(names))
	out := make([]string, 0, len(names))
	for _, name := range names {
		if !frame.Has(name) {
			return nil, core.NewInvalidColumnError(name)
		}
		if name == req.Response {
			return nil, fmt.Errorf("%w: response %q cannot also be a predictor", core.ErrInvalidColumn, name)
		}
		if _, dup := seen[name]; dup {
			e.logger.Debug("ignoring duplicate predictor %s", name)
			continue
		}
		seen[name] = struct{}{}
		out = append(out, name)
	}
	if len(out) == 0 {
		return nil, fmt.Errorf("%w: no predictors besides %s", core.ErrInsufficientData, req.Response)
	}
	return out, nil
}

type pairJob struct {
	first, second int
}

// pairCount returns how many pairs a mode visits for n predictors
func pairCount(n int, mode stats.PairMode) int {
	if mode == stats.PairModeAll {
		return n * n
	}
	return n * (n - 1) / 2
}

func enumeratePairs(n int, mode stats.PairMode) []pairJob {
	jobs := make([]pairJob, 0, pairCount(n, mode))
	for i := 0; i < n; i++ {
		j := i + 1
		if mode == stats.PairModeAll {
			j = 0
		}
		for ; j < n; j++ {
			jobs = append(jobs, pairJob{first: i, second: j})
		}
	}
	return jobs
}

type pairOutcome struct {
	record  *stats.ScoreRecord
	failure *stats.ScoreFailure
}

// sweepPairs scores every pair on a bounded worker pool. Each job writes only
// its own outcome slot. Cancellation is checked before each pair.
func (e *StatsEngine) sweepPairs(ctx context.Context, in *prepared, states []predictorState, mode stats.PairMode) ([]stats.ScoreRecord, []stats.ScoreFailure, error) {
	jobs := enumeratePairs(len(states), mode)
	outcomes := make([]pairOutcome, len(jobs))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(e.config.Workers)

	for idx, job := range jobs {
		if gctx.Err() != nil {
			break
		}
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			a, b := states[job.first], states[job.second]
			subject := stats.PredictorPair(a.descriptor.Key, b.descriptor.Key)
			strategy := stats.StrategyFor(a.descriptor.Kind, b.descriptor.Kind)

			m, value, err := interaction(a.descriptor.Key, b.descriptor.Key, strategy, a.axis, b.axis, in.y, in.globalMean)
			if err != nil {
				f := failure(subject, stats.MetricBruteForce, err)
				outcomes[idx].failure = &f
				return nil
			}
			outcomes[idx].record = &stats.ScoreRecord{
				Subject: subject,
				Metric:  stats.MetricBruteForce,
				Value:   value,
				Matrix:  m,
			}
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, nil, err
	}

	records := make([]stats.ScoreRecord, 0, len(jobs))
	var failures []stats.ScoreFailure
	for _, o := range outcomes {
		switch {
		case o.record != nil:
			records = append(records, *o.record)
		case o.failure != nil:
			e.logger.Warn("pair %s failed: %s", o.failure.Subject.Label(), o.failure.Reason)
			failures = append(failures, *o.failure)
		}
	}
	return records, failures, nil
}

// associations runs the applicable senses for every predictor against the response
func (e *StatsEngine) associations(ctx context.Context, in *prepared, states []predictorState) []stats.AssociationResult {
	responseKeys := in.response.Keys()
	inputs := make([]senses.SenseInput, len(states))
	for i, p := range states {
		inputs[i] = senses.SenseInput{
			Predictor:      p.descriptor.Key,
			Response:       core.VariableKey(in.response.Name),
			PredictorKind:  p.descriptor.Kind,
			ResponseKind:   in.responseKind,
			PredictorKeys:  p.column.Keys(),
			ResponseKeys:   responseKeys,
			ResponseValues: in.y,
		}
		if p.column.IsNumeric() {
			inputs[i].PredictorValues = p.column.Numeric
		}
	}

	var out []stats.AssociationResult
	for i, results := range e.senseEngine.AnalyzeAll(ctx, inputs) {
		for _, r := range results {
			pValue := r.PValue
			if math.IsNaN(pValue) {
				pValue = 1
			}
			out = append(out, stats.AssociationResult{
				Predictor:   states[i].descriptor.Key,
				Method:      r.SenseName,
				Value:       r.EffectSize,
				PValue:      pValue,
				Signal:      r.Signal,
				SampleSize:  r.SampleSize,
				Description: r.Description,
			})
		}
	}
	return out
}

func failure(subject stats.Subject, metric stats.MetricKind, err error) stats.ScoreFailure {
	return stats.ScoreFailure{Subject: subject, Metric: metric, Reason: err.Error()}
}
