package senses

import (
	"context"
	"fmt"
	"math"

	"gofeat/domain/stats"

	"gonum.org/v1/gonum/stat"
	"gonum.org/v1/gonum/stat/distuv"
)

// PearsonR returns the Pearson correlation over the complete (non-NaN) pairs
// of x and y and the number of pairs used. Undefined correlations (fewer than
// two pairs, or a constant side) are reported as 0.
func PearsonR(x, y []float64) (float64, int) {
	xs, ys := completePairs(x, y)
	if len(xs) < 2 {
		return 0, len(xs)
	}
	r := stat.Correlation(xs, ys, nil)
	if math.IsNaN(r) || math.IsInf(r, 0) {
		return 0, len(xs)
	}
	return clampUnit(r), len(xs)
}

// correlationPValue is the two-tailed t-test p-value for a correlation
// coefficient over n pairs
func correlationPValue(r float64, n int) float64 {
	if n < 3 {
		return 1.0
	}
	if math.Abs(r) >= 1 {
		return 0
	}
	df := float64(n - 2)
	t := r * math.Sqrt(df/(1-r*r))
	dist := distuv.StudentsT{Mu: 0, Sigma: 1, Nu: df}
	return 2 * (1 - dist.CDF(math.Abs(t)))
}

func clampUnit(r float64) float64 {
	if r > 1 {
		return 1
	}
	if r < -1 {
		return -1
	}
	return r
}

// PearsonSense detects linear relationships between continuous variables
type PearsonSense struct{}

// NewPearsonSense creates a new Pearson correlation sense
func NewPearsonSense() *PearsonSense {
	return &PearsonSense{}
}

// Name returns the sense name
func (s *PearsonSense) Name() string {
	return "pearson"
}

// Description returns a human-readable description
func (s *PearsonSense) Description() string {
	return "Detects linear relationships between continuous variables"
}

// Supports applies only when both sides are continuous
func (s *PearsonSense) Supports(predictor, response stats.Kind) bool {
	return predictor == stats.KindContinuous && response == stats.KindContinuous
}

// Analyze computes Pearson's r between predictor and response values
func (s *PearsonSense) Analyze(ctx context.Context, in SenseInput) SenseResult {
	r, n := PearsonR(in.PredictorValues, in.ResponseValues)
	if n < 3 {
		return SenseResult{
			SenseName:   s.Name(),
			PValue:      1.0,
			Signal:      "weak",
			SampleSize:  n,
			Description: "Insufficient data for Pearson correlation analysis",
		}
	}

	pValue := correlationPValue(r, n)
	signal := classifySignal(r, s.Name())

	return SenseResult{
		SenseName:   s.Name(),
		EffectSize:  r,
		PValue:      pValue,
		Signal:      signal,
		SampleSize:  n,
		Description: s.generateDescription(r, pValue, string(in.Predictor), string(in.Response)),
		Metadata: map[string]interface{}{
			"correlation_type": "linear",
			"r_squared":        r * r,
		},
	}
}

func (s *PearsonSense) generateDescription(r, pValue float64, varX, varY string) string {
	if pValue > 0.05 {
		return fmt.Sprintf("No significant linear relationship between %s and %s (r=%.3f, p=%.3f)", varX, varY, r, pValue)
	}
	direction := "positive"
	if r < 0 {
		direction = "negative"
	}
	return fmt.Sprintf("Significant %s linear relationship between %s and %s (r=%.3f, p=%.3f)", direction, varX, varY, r, pValue)
}
