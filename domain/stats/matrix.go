package stats

import (
	"encoding/json"

	"gofeat/domain/core"

	"gonum.org/v1/gonum/mat"
)

// PairStrategy selects how the two axes of a brute-force grid are binned
type PairStrategy int

const (
	StrategyContinuousContinuous PairStrategy = iota
	StrategyContinuousDiscrete
	StrategyDiscreteContinuous
	StrategyDiscreteDiscrete
)

// StrategyFor picks the strategy for a pair of predictor kinds
func StrategyFor(first, second Kind) PairStrategy {
	switch {
	case first == KindContinuous && second == KindContinuous:
		return StrategyContinuousContinuous
	case first == KindContinuous:
		return StrategyContinuousDiscrete
	case second == KindContinuous:
		return StrategyDiscreteContinuous
	default:
		return StrategyDiscreteDiscrete
	}
}

// Axes returns the kind of the row and column axis
func (s PairStrategy) Axes() (Kind, Kind) {
	switch s {
	case StrategyContinuousContinuous:
		return KindContinuous, KindContinuous
	case StrategyContinuousDiscrete:
		return KindContinuous, KindDiscrete
	case StrategyDiscreteContinuous:
		return KindDiscrete, KindContinuous
	default:
		return KindDiscrete, KindDiscrete
	}
}

func (s PairStrategy) String() string {
	switch s {
	case StrategyContinuousContinuous:
		return "continuous_continuous"
	case StrategyContinuousDiscrete:
		return "continuous_discrete"
	case StrategyDiscreteContinuous:
		return "discrete_continuous"
	default:
		return "discrete_discrete"
	}
}

// InteractionMatrix is the brute-force grid for one predictor pair. Rows are
// bins of the first predictor, columns bins of the second. Means holds the
// zero-filled cell response means, PopRatios the product-of-marginals weights.
type InteractionMatrix struct {
	Predictors [2]core.VariableKey
	Strategy   PairStrategy
	RowLabels  []string
	ColLabels  []string
	Means      *mat.Dense
	PopRatios  *mat.Dense
}

// NewInteractionMatrix allocates a zeroed grid sized from the axis labels.
// Both label slices must be non-empty.
func NewInteractionMatrix(first, second core.VariableKey, strategy PairStrategy, rowLabels, colLabels []string) *InteractionMatrix {
	r, c := len(rowLabels), len(colLabels)
	return &InteractionMatrix{
		Predictors: [2]core.VariableKey{first, second},
		Strategy:   strategy,
		RowLabels:  rowLabels,
		ColLabels:  colLabels,
		Means:      mat.NewDense(r, c, nil),
		PopRatios:  mat.NewDense(r, c, nil),
	}
}

// Dims returns the grid shape
func (m *InteractionMatrix) Dims() (int, int) {
	return len(m.RowLabels), len(m.ColLabels)
}

// Mean returns the response mean of cell (r, c)
func (m *InteractionMatrix) Mean(r, c int) float64 {
	return m.Means.At(r, c)
}

// PopRatio returns the population weight of cell (r, c)
func (m *InteractionMatrix) PopRatio(r, c int) float64 {
	return m.PopRatios.At(r, c)
}

type interactionMatrixJSON struct {
	Predictors [2]core.VariableKey `json:"predictors"`
	Strategy   string              `json:"strategy"`
	RowLabels  []string            `json:"row_labels"`
	ColLabels  []string            `json:"col_labels"`
	Means      [][]float64         `json:"means"`
	PopRatios  [][]float64         `json:"pop_ratios"`
}

// MarshalJSON renders the matrices as nested row arrays
func (m *InteractionMatrix) MarshalJSON() ([]byte, error) {
	return json.Marshal(interactionMatrixJSON{
		Predictors: m.Predictors,
		Strategy:   m.Strategy.String(),
		RowLabels:  m.RowLabels,
		ColLabels:  m.ColLabels,
		Means:      denseRows(m.Means),
		PopRatios:  denseRows(m.PopRatios),
	})
}

func denseRows(d *mat.Dense) [][]float64 {
	if d == nil {
		return nil
	}
	r, _ := d.Dims()
	rows := make([][]float64, r)
	for i := 0; i < r; i++ {
		rows[i] = mat.Row(nil, i, d)
	}
	return rows
}
