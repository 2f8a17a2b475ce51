package stats

import "gofeat/domain/core"

// BinTable is the per-bin breakdown behind a mean-difference score. It is a
// struct of arrays; every slice has exactly Len() entries.
type BinTable struct {
	Predictor  core.VariableKey `json:"predictor"`
	Kind       Kind             `json:"kind"`
	Degenerate bool             `json:"degenerate,omitempty"`

	Labels []string `json:"labels"`
	// Lower and Upper hold the (lower, upper] interval edges of continuous bins
	// and are nil for discrete predictors.
	Lower []float64 `json:"lower,omitempty"`
	Upper []float64 `json:"upper,omitempty"`

	Population         []int     `json:"population"`
	BinMean            []float64 `json:"bin_mean"`
	PopMean            []float64 `json:"pop_mean"`
	PopProportion      []float64 `json:"pop_proportion"`
	MeanSqDiff         []float64 `json:"mean_sq_diff"`
	MeanSqDiffWeighted []float64 `json:"mean_sq_diff_weighted"`
}

// NewBinTable allocates a table with room for n bins
func NewBinTable(predictor core.VariableKey, kind Kind, n int) *BinTable {
	t := &BinTable{
		Predictor:          predictor,
		Kind:               kind,
		Labels:             make([]string, n),
		Population:         make([]int, n),
		BinMean:            make([]float64, n),
		PopMean:            make([]float64, n),
		PopProportion:      make([]float64, n),
		MeanSqDiff:         make([]float64, n),
		MeanSqDiffWeighted: make([]float64, n),
	}
	if kind == KindContinuous {
		t.Lower = make([]float64, n)
		t.Upper = make([]float64, n)
	}
	return t
}

// Len returns the number of bins
func (t *BinTable) Len() int {
	return len(t.Labels)
}

// TotalPopulation sums the bin populations
func (t *BinTable) TotalPopulation() int {
	total := 0
	for _, p := range t.Population {
		total += p
	}
	return total
}

// Metric sums the population-weighted squared differences
func (t *BinTable) Metric() float64 {
	sum := 0.0
	for _, w := range t.MeanSqDiffWeighted {
		sum += w
	}
	return sum
}
