package engine

import (
	"fmt"
	"math"

	"gofeat/domain/core"
	"gofeat/domain/dataset"
	"gofeat/domain/stats"

	"gonum.org/v1/gonum/mat"
)

// ScorePair computes the brute-force interaction matrix and metric for an
// ordered predictor pair. Rows with a missing response are dropped first.
func (e *StatsEngine) ScorePair(frame *dataset.Frame, first, second stats.PredictorDescriptor, response string) (*stats.InteractionMatrix, float64, error) {
	in, err := e.prepare(frame, response)
	if err != nil {
		return nil, 0, err
	}
	c1, ok := in.frame.Column(string(first.Key))
	if !ok {
		return nil, 0, core.NewInvalidColumnError(string(first.Key))
	}
	c2, ok := in.frame.Column(string(second.Key))
	if !ok {
		return nil, 0, core.NewInvalidColumnError(string(second.Key))
	}

	strategy := stats.StrategyFor(first.Kind, second.Kind)
	rows, cols, err := pairAxes(strategy, c1, c2, e.config.Bins)
	if err != nil {
		return nil, 0, err
	}
	return interaction(first.Key, second.Key, strategy, rows, cols, in.y, in.globalMean)
}

// pairAxes bins both predictors according to the pair strategy
func pairAxes(strategy stats.PairStrategy, c1, c2 *dataset.Column, bins int) (*axis, *axis, error) {
	var rows, cols *axis
	var err error
	switch strategy {
	case stats.StrategyContinuousContinuous:
		if rows, err = buildAxis(c1, stats.KindContinuous, bins); err == nil {
			cols, err = buildAxis(c2, stats.KindContinuous, bins)
		}
	case stats.StrategyContinuousDiscrete:
		if rows, err = buildAxis(c1, stats.KindContinuous, bins); err == nil {
			cols, err = discreteAxis(c2)
		}
	case stats.StrategyDiscreteContinuous:
		if rows, err = discreteAxis(c1); err == nil {
			cols, err = buildAxis(c2, stats.KindContinuous, bins)
		}
	case stats.StrategyDiscreteDiscrete:
		if rows, err = discreteAxis(c1); err == nil {
			cols, err = discreteAxis(c2)
		}
	default:
		err = fmt.Errorf("unknown pair strategy %d", strategy)
	}
	return rows, cols, err
}

// interaction builds the R×C grid. Cell means cover rows in both bins and are
// NaN for empty cells until the grid is complete, then zero-filled. Cell
// weights are the product of the two marginal proportions, not the joint
// proportion.
func interaction(first, second core.VariableKey, strategy stats.PairStrategy, rows, cols *axis, y []float64, globalMean float64) (*stats.InteractionMatrix, float64, error) {
	rowKind, colKind := strategy.Axes()
	if rows.kind != rowKind || cols.kind != colKind {
		return nil, 0, fmt.Errorf("axes %s/%s do not match strategy %s", rows.kind, cols.kind, strategy)
	}
	if len(rows.codes) != len(y) || len(cols.codes) != len(y) {
		return nil, 0, core.NewLengthMismatchError(string(first), len(rows.codes), len(y))
	}

	r, c := rows.size(), cols.size()
	sums := make([]float64, r*c)
	counts := make([]int, r*c)
	for i := range y {
		ri, ci := rows.codes[i], cols.codes[i]
		if ri < 0 || ci < 0 {
			continue
		}
		sums[ri*c+ci] += y[i]
		counts[ri*c+ci]++
	}

	m := stats.NewInteractionMatrix(first, second, strategy, rows.labels, cols.labels)
	n := float64(len(y))
	for i := 0; i < r; i++ {
		rowShare := float64(rows.population[i]) / n
		for j := 0; j < c; j++ {
			mean := math.NaN()
			if k := counts[i*c+j]; k > 0 {
				mean = sums[i*c+j] / float64(k)
			}
			m.Means.Set(i, j, mean)
			m.PopRatios.Set(i, j, rowShare*float64(cols.population[j])/n)
		}
	}

	m.Means.Apply(func(_, _ int, v float64) float64 {
		if math.IsNaN(v) {
			return 0
		}
		return v
	}, m.Means)

	var weighted mat.Dense
	weighted.Apply(func(_, _ int, v float64) float64 {
		d := v - globalMean
		return d * d
	}, m.Means)
	weighted.MulElem(&weighted, m.PopRatios)

	return m, mat.Sum(&weighted), nil
}
