package stats

import (
	"gofeat/domain/core"

	"gonum.org/v1/gonum/mat"
)

// AssociationResult is the predictor-response association picked for one
// predictor (correlation ratio or Pearson r, depending on kinds).
type AssociationResult struct {
	Predictor   core.VariableKey `json:"predictor"`
	Method      string           `json:"method"`
	Value       float64          `json:"value"`
	PValue      float64          `json:"p_value"`
	Signal      string           `json:"signal"`
	SampleSize  int              `json:"sample_size"`
	Description string           `json:"description"`
}

// CorrelationRow is one off-diagonal entry of the correlation table
type CorrelationRow struct {
	R      float64          `json:"r"`
	First  core.VariableKey `json:"first"`
	Second core.VariableKey `json:"second"`
}

// Label renders the row's pair as "first and second"
func (r CorrelationRow) Label() string {
	return PredictorPair(r.First, r.Second).Label()
}

// CorrelationTable holds Pearson correlations between continuous predictors.
// Rows is ordered by descending r.
type CorrelationTable struct {
	Predictors []core.VariableKey `json:"predictors"`
	Matrix     *mat.SymDense      `json:"-"`
	Rows       []CorrelationRow   `json:"rows"`
}

// At returns the correlation between predictors i and j
func (t *CorrelationTable) At(i, j int) float64 {
	return t.Matrix.At(i, j)
}

// Report is everything one ranking run produces
type Report struct {
	RunID        core.RunID            `json:"run_id"`
	Response     core.VariableKey      `json:"response"`
	RowCount     int                   `json:"row_count"`
	DroppedRows  int                   `json:"dropped_rows"`
	ResponseMean float64               `json:"response_mean"`
	PairMode     PairMode              `json:"pair_mode"`
	Fingerprint  core.Hash             `json:"fingerprint"`
	Descriptors  []PredictorDescriptor `json:"descriptors"`

	// MeanDifference and BruteForce are already ranked
	MeanDifference []ScoreRecord       `json:"mean_difference"`
	BruteForce     []ScoreRecord       `json:"brute_force"`
	Associations   []AssociationResult `json:"associations"`
	Correlations   *CorrelationTable   `json:"correlations,omitempty"`
	Failures       []ScoreFailure      `json:"failures"`

	CreatedAt core.Timestamp `json:"created_at"`
	RuntimeMs int64          `json:"runtime_ms"`
}

// Descriptor looks up the descriptor of a predictor
func (r *Report) Descriptor(key core.VariableKey) (PredictorDescriptor, bool) {
	for _, d := range r.Descriptors {
		if d.Key == key {
			return d, true
		}
	}
	return PredictorDescriptor{}, false
}

// UnivariateEntries returns the ranked (metric, predictor) list
func (r *Report) UnivariateEntries() []RankedEntry {
	return RankedEntries(r.MeanDifference)
}

// PairwiseEntries returns the ranked (metric, "p1 and p2") list
func (r *Report) PairwiseEntries() []RankedEntry {
	return RankedEntries(r.BruteForce)
}
