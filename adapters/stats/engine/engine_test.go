package engine

import (
	"context"
	"errors"
	"math"
	"testing"

	"gofeat/domain/core"
	"gofeat/domain/dataset"
	"gofeat/domain/stats"
	"gofeat/internal"
	"gofeat/internal/config"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// runFrame: 20 rows where "signal" separates the response, "team" does not,
// and "empty" has no values at all.
func runFrame(t *testing.T) *dataset.Frame {
	x := seq(1, 20)
	y := make([]float64, len(x))
	team := make([]string, len(x))
	for i, v := range x {
		if v > 10 {
			y[i] = 1
		}
		team[i] = "a"
		if i%2 == 1 {
			team[i] = "b"
		}
	}
	return frameOf(t,
		num("signal", x...),
		txt("team", team...),
		num("empty", nans(len(x))...),
		num("won", y...),
	)
}

func TestRunRanksAndIsolatesFailures(t *testing.T) {
	e := newTestEngine(4)

	report, err := e.Run(context.Background(), runFrame(t), Request{Response: "won"})
	require.NoError(t, err)

	assert.NotEmpty(t, report.RunID)
	assert.Equal(t, 20, report.RowCount)
	assert.Equal(t, 0.5, report.ResponseMean)
	assert.Equal(t, stats.PairModeUnordered, report.PairMode)

	require.Len(t, report.MeanDifference, 2)
	assert.Equal(t, "signal", report.MeanDifference[0].Label())
	assert.InDelta(t, 0.25, report.MeanDifference[0].Value, 1e-12)
	assert.Equal(t, "team", report.MeanDifference[1].Label())
	assert.InDelta(t, 0.0, report.MeanDifference[1].Value, 1e-12)

	require.Len(t, report.BruteForce, 1)
	assert.Equal(t, "signal and team", report.BruteForce[0].Label())
	assert.NotNil(t, report.BruteForce[0].Matrix)

	require.Len(t, report.Failures, 1)
	assert.Equal(t, "empty", report.Failures[0].Subject.Label())
	assert.Equal(t, stats.MetricMeanDifference, report.Failures[0].Metric)

	_, ok := report.Descriptor("signal")
	assert.True(t, ok)
	_, ok = report.Descriptor("empty")
	assert.False(t, ok)
}

func TestRunAllPairModeIncludesSelfPairs(t *testing.T) {
	e := newTestEngine(2)

	report, err := e.Run(context.Background(), runFrame(t), Request{
		Response:   "won",
		Predictors: []string{"signal", "team"},
		PairMode:   stats.PairModeAll,
	})
	require.NoError(t, err)

	labels := stats.RankedLabels(report.BruteForce)
	assert.ElementsMatch(t, []string{"signal and signal", "signal and team", "team and signal", "team and team"}, labels)
	assert.Empty(t, report.Failures)
}

func TestRunIsDeterministicAcrossWorkerCounts(t *testing.T) {
	f := frameOf(t,
		num("a", 3, 1, 4, 1, 5, 9, 2, 6, 5, 3, 5, 8, 9, 7, 9, 3),
		num("b", 2, 7, 1, 8, 2, 8, 1, 8, 2, 8, 4, 5, 9, 0, 4, 5),
		txt("c", "x", "y", "x", "z", "y", "x", "z", "z", "y", "x", "x", "y", "z", "x", "y", "z"),
		num("d", 1, 0, 1, 0, 1, 1, 0, 0, 1, 0, 1, 1, 0, 1, 0, 1),
		num("y", 0, 1, 1, 0, 1, 1, 0, 1, 0, 0, 1, 1, 1, 0, 0, 1),
	)

	serial, err := newTestEngine(1).Run(context.Background(), f, Request{Response: "y"})
	require.NoError(t, err)
	parallel, err := newTestEngine(8).Run(context.Background(), f, Request{Response: "y"})
	require.NoError(t, err)

	assert.Equal(t, stats.RankedEntries(serial.BruteForce), stats.RankedEntries(parallel.BruteForce))
	assert.Equal(t, stats.RankedEntries(serial.MeanDifference), stats.RankedEntries(parallel.MeanDifference))
	assert.Len(t, serial.BruteForce, 6)
}

func TestRunDropsRowsWithMissingResponse(t *testing.T) {
	f := frameOf(t,
		txt("p", "A", "A", "A", "B", "B"),
		num("y", 1, 1, 1, 0, math.NaN()),
	)

	report, err := newTestEngine(1).Run(context.Background(), f, Request{Response: "y"})
	require.NoError(t, err)

	assert.Equal(t, 4, report.RowCount)
	assert.Equal(t, 1, report.DroppedRows)
	assert.InDelta(t, 0.1875, report.MeanDifference[0].Value, 1e-12)
}

func TestRunEncodesBinaryTextResponse(t *testing.T) {
	f := frameOf(t,
		txt("p", "A", "A", "A", "B"),
		txt("won", "yes", "yes", "yes", "no"),
	)

	report, err := newTestEngine(1).Run(context.Background(), f, Request{Response: "won"})
	require.NoError(t, err)

	assert.Equal(t, 0.75, report.ResponseMean)
	assert.InDelta(t, 0.1875, report.MeanDifference[0].Value, 1e-12)
	require.NotEmpty(t, report.Associations)
	assert.Equal(t, "correlation_ratio", report.Associations[0].Method)
}

func TestRunInputErrors(t *testing.T) {
	f := frameOf(t, txt("p", "A", "B", "C"), txt("grade", "x", "y", "z"), num("y", 1, 0, 1))
	e := newTestEngine(1)
	ctx := context.Background()

	_, err := e.Run(ctx, f, Request{Response: "nope"})
	assert.True(t, core.IsInvalidColumnError(err))

	_, err = e.Run(ctx, f, Request{Response: "y", Predictors: []string{"p", "missing"}})
	assert.True(t, core.IsInvalidColumnError(err))

	_, err = e.Run(ctx, f, Request{Response: "y", Predictors: []string{"y"}})
	assert.True(t, core.IsInvalidColumnError(err))

	_, err = e.Run(ctx, f, Request{Response: "grade", Predictors: []string{"p"}})
	assert.ErrorIs(t, err, core.ErrNonNumericResponse)

	_, err = e.Run(ctx, dataset.NewFrame(), Request{Response: "y"})
	assert.ErrorIs(t, err, core.ErrInsufficientData)
}

func TestRunGuardrails(t *testing.T) {
	f := frameOf(t, num("a", 1, 2), num("b", 1, 2), num("c", 1, 2), num("y", 0, 1))

	e := NewStatsEngine(config.EngineConfig{MaxPredictors: 2}, internal.NopLogger())
	_, err := e.Run(context.Background(), f, Request{Response: "y"})
	assert.ErrorIs(t, err, core.ErrTooManyPredictors)

	e = NewStatsEngine(config.EngineConfig{MaxPairs: 3}, internal.NopLogger())
	_, err = e.Run(context.Background(), f, Request{Response: "y"})
	assert.NoError(t, err)
	_, err = e.Run(context.Background(), f, Request{Response: "y", PairMode: stats.PairModeAll})
	assert.ErrorIs(t, err, core.ErrTooManyPairs)
}

func TestRunCanceled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := newTestEngine(2).Run(ctx, runFrame(t), Request{Response: "won"})
	assert.True(t, errors.Is(err, context.Canceled))
}

func TestRunIdempotent(t *testing.T) {
	e := newTestEngine(3)
	f := runFrame(t)

	first, err := e.Run(context.Background(), f, Request{Response: "won"})
	require.NoError(t, err)
	second, err := e.Run(context.Background(), f, Request{Response: "won"})
	require.NoError(t, err)

	assert.Equal(t, first.Fingerprint, second.Fingerprint)
	assert.Equal(t, stats.RankedEntries(first.MeanDifference), stats.RankedEntries(second.MeanDifference))
	assert.Equal(t, stats.RankedEntries(first.BruteForce), stats.RankedEntries(second.BruteForce))
	assert.NotEqual(t, first.RunID, second.RunID)
}

func TestRunCorrelationTable(t *testing.T) {
	x := seq(1, 10)
	double := make([]float64, len(x))
	inverse := make([]float64, len(x))
	for i, v := range x {
		double[i] = 2 * v
		inverse[i] = -v
	}
	f := frameOf(t, num("x", x...), num("double", double...), num("inverse", inverse...), num("y", x...))

	report, err := newTestEngine(2).Run(context.Background(), f, Request{Response: "y"})
	require.NoError(t, err)

	require.NotNil(t, report.Correlations)
	require.Len(t, report.Correlations.Rows, 3)
	assert.InDelta(t, 1.0, report.Correlations.Rows[0].R, 1e-9)
	assert.Equal(t, "x and double", report.Correlations.Rows[0].Label())
	assert.InDelta(t, -1.0, report.Correlations.Rows[2].R, 1e-9)
	assert.InDelta(t, 1.0, report.Correlations.At(1, 1), 1e-12)

	methods := map[string]int{}
	for _, a := range report.Associations {
		methods[a.Method]++
	}
	assert.Equal(t, 3, methods["pearson"])
	assert.Equal(t, 3, methods["spearman"])
}
