package senses

import (
	"context"
	"math"

	"gofeat/domain/core"
	"gofeat/domain/stats"
)

// SenseInput carries one predictor and the response in both representations
// the senses need: grouping keys for discrete sides and float values for
// continuous ones. Missing entries are "" in Keys and NaN in Values.
type SenseInput struct {
	Predictor     core.VariableKey
	Response      core.VariableKey
	PredictorKind stats.Kind
	ResponseKind  stats.Kind

	PredictorKeys   []string
	PredictorValues []float64
	ResponseKeys    []string
	ResponseValues  []float64
}

// SenseResult represents the output of a single statistical sense
type SenseResult struct {
	SenseName   string                 `json:"sense_name"`
	EffectSize  float64                `json:"effect_size"`
	PValue      float64                `json:"p_value"`
	Signal      string                 `json:"signal"`      // "weak", "moderate", "strong", "very_strong"
	SampleSize  int                    `json:"sample_size"` // rows that entered the statistic
	Description string                 `json:"description"` // Human-readable explanation
	Metadata    map[string]interface{} `json:"metadata,omitempty"`
}

// StatisticalSense defines the interface for each statistical sense
type StatisticalSense interface {
	Name() string
	Description() string
	// Supports reports whether the sense applies to a predictor/response kind combination
	Supports(predictor, response stats.Kind) bool
	Analyze(ctx context.Context, in SenseInput) SenseResult
}

// SenseEngine picks and runs the association senses for each predictor
type SenseEngine struct {
	senses []StatisticalSense
}

// NewSenseEngine creates the default set: correlation ratio whenever one side
// is discrete, Pearson and Spearman when both are continuous.
func NewSenseEngine() *SenseEngine {
	return NewSenseEngineWith(
		NewCorrelationRatioSense(),
		NewPearsonSense(),
		NewSpearmanSense(),
	)
}

// NewSenseEngineWith builds an engine over an explicit sense list
func NewSenseEngineWith(senses ...StatisticalSense) *SenseEngine {
	return &SenseEngine{senses: senses}
}

// Select returns the senses that apply to the kind combination, in registration order
func (e *SenseEngine) Select(predictor, response stats.Kind) []StatisticalSense {
	var out []StatisticalSense
	for _, s := range e.senses {
		if s.Supports(predictor, response) {
			out = append(out, s)
		}
	}
	return out
}

// Analyze runs every applicable sense for one input
func (e *SenseEngine) Analyze(ctx context.Context, in SenseInput) []SenseResult {
	selected := e.Select(in.PredictorKind, in.ResponseKind)
	results := make([]SenseResult, 0, len(selected))
	for _, s := range selected {
		results = append(results, s.Analyze(ctx, in))
	}
	return results
}

// AnalyzeAll runs the applicable senses for every input concurrently. The
// result slice is index-aligned with inputs.
func (e *SenseEngine) AnalyzeAll(ctx context.Context, inputs []SenseInput) [][]SenseResult {
	results := make([][]SenseResult, len(inputs))

	type resultWithIndex struct {
		result []SenseResult
		index  int
	}

	resultChan := make(chan resultWithIndex, len(inputs))

	for i, in := range inputs {
		go func(in SenseInput, idx int) {
			if ctx.Err() != nil {
				resultChan <- resultWithIndex{index: idx}
				return
			}
			resultChan <- resultWithIndex{result: e.Analyze(ctx, in), index: idx}
		}(in, i)
	}

	for i := 0; i < len(inputs); i++ {
		res := <-resultChan
		results[res.index] = res.result
	}

	return results
}

// ListSenses returns all available sense names
func (e *SenseEngine) ListSenses() []string {
	names := make([]string, len(e.senses))
	for i, sense := range e.senses {
		names[i] = sense.Name()
	}
	return names
}

// classifySignal converts effect size to signal strength
func classifySignal(effectSize float64, senseType string) string {
	absEffect := math.Abs(effectSize)

	switch senseType {
	case "correlation_ratio":
		if absEffect < 0.1 {
			return "weak"
		} else if absEffect < 0.3 {
			return "moderate"
		} else if absEffect < 0.5 {
			return "strong"
		}
		return "very_strong"

	case "pearson", "spearman":
		if absEffect < 0.2 {
			return "weak"
		} else if absEffect < 0.5 {
			return "moderate"
		} else if absEffect < 0.8 {
			return "strong"
		}
		return "very_strong"

	default:
		if absEffect < 0.3 {
			return "weak"
		} else if absEffect < 0.6 {
			return "moderate"
		}
		return "strong"
	}
}

// completePairs drops rows where either side is NaN
func completePairs(x, y []float64) ([]float64, []float64) {
	n := len(x)
	if len(y) < n {
		n = len(y)
	}
	xs := make([]float64, 0, n)
	ys := make([]float64, 0, n)
	for i := 0; i < n; i++ {
		if math.IsNaN(x[i]) || math.IsNaN(y[i]) {
			continue
		}
		xs = append(xs, x[i])
		ys = append(ys, y[i])
	}
	return xs, ys
}
