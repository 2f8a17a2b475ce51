package senses

import (
	"context"
	"fmt"
	"math"

	"gofeat/domain/stats"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat/distuv"
)

// CorrelationRatio computes η between a categorical and a continuous array.
// Categories are factorized in first-seen order; rows with an empty category
// or a NaN value are ignored. The result is exactly 0 when there is no
// between-group variance, and 0 for mismatched or empty input.
func CorrelationRatio(categories []string, values []float64) float64 {
	eta, _, _ := correlationRatio(categories, values)
	return eta
}

// correlationRatio also returns the group count and the number of rows used
func correlationRatio(categories []string, values []float64) (float64, int, int) {
	if len(categories) != len(values) {
		return 0, 0, 0
	}

	// Values are shifted by the first kept observation so identical inputs
	// produce exact zeros instead of rounding residue.
	codes := make(map[string]int)
	var sums, counts, kept []float64
	shift := math.NaN()
	for i, cat := range categories {
		v := values[i]
		if cat == "" || math.IsNaN(v) {
			continue
		}
		if math.IsNaN(shift) {
			shift = v
		}
		v -= shift
		code, ok := codes[cat]
		if !ok {
			code = len(sums)
			codes[cat] = code
			sums = append(sums, 0)
			counts = append(counts, 0)
		}
		sums[code] += v
		counts[code]++
		kept = append(kept, v)
	}
	if len(kept) == 0 {
		return 0, 0, 0
	}

	grand := floats.Sum(sums) / floats.Sum(counts)

	numerator := 0.0
	for i := range sums {
		d := sums[i]/counts[i] - grand
		numerator += counts[i] * d * d
	}
	if numerator == 0 {
		return 0, len(sums), len(kept)
	}

	denominator := 0.0
	for _, v := range kept {
		d := v - grand
		denominator += d * d
	}
	if denominator == 0 {
		return 0, len(sums), len(kept)
	}

	eta := math.Sqrt(numerator / denominator)
	if eta > 1 {
		eta = 1
	}
	return eta, len(sums), len(kept)
}

// anovaPValue converts η into the p-value of the one-way ANOVA F test
func anovaPValue(eta float64, groups, n int) float64 {
	if groups < 2 || n-groups < 1 {
		return 1.0
	}
	eta2 := eta * eta
	if eta2 >= 1 {
		return 0
	}
	f := (eta2 / float64(groups-1)) / ((1 - eta2) / float64(n-groups))
	dist := distuv.F{D1: float64(groups - 1), D2: float64(n - groups)}
	return 1 - dist.CDF(f)
}

// CorrelationRatioSense measures how much response variance group membership
// explains whenever one side is discrete
type CorrelationRatioSense struct{}

// NewCorrelationRatioSense creates a new correlation ratio sense
func NewCorrelationRatioSense() *CorrelationRatioSense {
	return &CorrelationRatioSense{}
}

// Name returns the sense name
func (s *CorrelationRatioSense) Name() string {
	return "correlation_ratio"
}

// Description returns a human-readable description
func (s *CorrelationRatioSense) Description() string {
	return "Share of a continuous variable's variance explained by category membership"
}

// Supports applies whenever at least one side is discrete
func (s *CorrelationRatioSense) Supports(predictor, response stats.Kind) bool {
	return predictor == stats.KindDiscrete || response == stats.KindDiscrete
}

// Analyze groups the continuous side by the discrete side. With a discrete
// predictor the response values are grouped by predictor; otherwise the
// predictor values are grouped by response class.
func (s *CorrelationRatioSense) Analyze(ctx context.Context, in SenseInput) SenseResult {
	categories, values := in.PredictorKeys, in.ResponseValues
	grouping := string(in.Predictor)
	if in.PredictorKind != stats.KindDiscrete {
		categories, values = in.ResponseKeys, in.PredictorValues
		grouping = string(in.Response)
	}

	eta, groups, n := correlationRatio(categories, values)
	if n < 2 {
		return SenseResult{
			SenseName:   s.Name(),
			PValue:      1.0,
			Signal:      "weak",
			SampleSize:  n,
			Description: "Insufficient data for correlation ratio analysis",
		}
	}

	pValue := anovaPValue(eta, groups, n)
	signal := classifySignal(eta, s.Name())

	return SenseResult{
		SenseName:   s.Name(),
		EffectSize:  eta,
		PValue:      pValue,
		Signal:      signal,
		SampleSize:  n,
		Description: fmt.Sprintf("%s groups explain %.1f%% of the variance (η=%.3f, p=%.3f, %s)", grouping, 100*eta*eta, eta, pValue, signal),
		Metadata: map[string]interface{}{
			"grouping":    grouping,
			"groups":      groups,
			"eta_squared": eta * eta,
		},
	}
}
