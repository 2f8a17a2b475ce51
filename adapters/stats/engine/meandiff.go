package engine

import (
	"gofeat/domain/core"
	"gofeat/domain/dataset"
	"gofeat/domain/stats"
)

// ScoreSingle computes the mean-difference table and metric for one
// predictor. Rows with a missing response are dropped first; the descriptor
// should come from classifying the same filtered rows.
func (e *StatsEngine) ScoreSingle(frame *dataset.Frame, descriptor stats.PredictorDescriptor, response string) (*stats.BinTable, float64, error) {
	in, err := e.prepare(frame, response)
	if err != nil {
		return nil, 0, err
	}
	col, ok := in.frame.Column(string(descriptor.Key))
	if !ok {
		return nil, 0, core.NewInvalidColumnError(string(descriptor.Key))
	}
	ax, err := buildAxis(col, descriptor.Kind, e.config.Bins)
	if err != nil {
		return nil, 0, err
	}
	table := meanDiffTable(descriptor, ax, in.y, in.globalMean)
	return table, table.Metric(), nil
}

// meanDiffTable fills one BinTable row per realized bin. Bin order follows
// the axis: ascending intervals for continuous predictors, first-seen values
// for discrete ones. Population proportions are taken over all rows.
func meanDiffTable(descriptor stats.PredictorDescriptor, ax *axis, y []float64, globalMean float64) *stats.BinTable {
	sums := make([]float64, ax.size())
	for i, code := range ax.codes {
		if code >= 0 {
			sums[code] += y[i]
		}
	}

	realized := make([]int, 0, ax.size())
	for b, pop := range ax.population {
		if pop > 0 {
			realized = append(realized, b)
		}
	}

	n := float64(len(y))
	table := stats.NewBinTable(descriptor.Key, descriptor.Kind, len(realized))
	table.Degenerate = ax.degenerate
	for row, b := range realized {
		pop := ax.population[b]
		binMean := sums[b] / float64(pop)
		diff := binMean - globalMean
		proportion := float64(pop) / n

		table.Labels[row] = ax.labels[b]
		if ax.kind == stats.KindContinuous {
			table.Lower[row] = ax.lower[b]
			table.Upper[row] = ax.upper[b]
		}
		table.Population[row] = pop
		table.BinMean[row] = binMean
		table.PopMean[row] = globalMean
		table.PopProportion[row] = proportion
		table.MeanSqDiff[row] = diff * diff
		table.MeanSqDiffWeighted[row] = diff * diff * proportion
	}
	return table
}
