package engine

import (
	"sort"

	"gofeat/adapters/stats/senses"
	"gofeat/domain/core"
	"gofeat/domain/dataset"
	"gofeat/domain/stats"

	"gonum.org/v1/gonum/mat"
)

// correlationTable computes Pearson r between every pair of continuous
// predictors. Each pair uses its own complete rows. Rows are listed once per
// unordered pair, strongest positive first.
func correlationTable(frame *dataset.Frame, descriptors []stats.PredictorDescriptor) *stats.CorrelationTable {
	var keys []core.VariableKey
	var columns [][]float64
	for _, d := range descriptors {
		if d.Kind != stats.KindContinuous {
			continue
		}
		col, ok := frame.Column(string(d.Key))
		if !ok || !col.IsNumeric() {
			continue
		}
		keys = append(keys, d.Key)
		columns = append(columns, col.Numeric)
	}
	if len(keys) < 2 {
		return nil
	}

	table := &stats.CorrelationTable{
		Predictors: keys,
		Matrix:     mat.NewSymDense(len(keys), nil),
	}
	for i := range keys {
		table.Matrix.SetSym(i, i, 1)
		for j := i + 1; j < len(keys); j++ {
			r, _ := senses.PearsonR(columns[i], columns[j])
			table.Matrix.SetSym(i, j, r)
			table.Rows = append(table.Rows, stats.CorrelationRow{R: r, First: keys[i], Second: keys[j]})
		}
	}

	sort.SliceStable(table.Rows, func(a, b int) bool {
		if table.Rows[a].R != table.Rows[b].R {
			return table.Rows[a].R > table.Rows[b].R
		}
		return table.Rows[a].Label() > table.Rows[b].Label()
	})
	return table
}
