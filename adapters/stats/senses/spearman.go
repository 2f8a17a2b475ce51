package senses

import (
	"context"
	"fmt"
	"math"
	"sort"

	"gofeat/domain/stats"

	"gonum.org/v1/gonum/stat"
)

// SpearmanSense detects monotonic relationships using rank correlation
type SpearmanSense struct{}

// NewSpearmanSense creates a new Spearman correlation sense
func NewSpearmanSense() *SpearmanSense {
	return &SpearmanSense{}
}

// Name returns the sense name
func (s *SpearmanSense) Name() string {
	return "spearman"
}

// Description returns a human-readable description
func (s *SpearmanSense) Description() string {
	return "Detects monotonic relationships robust to outliers and non-normality"
}

// Supports applies only when both sides are continuous
func (s *SpearmanSense) Supports(predictor, response stats.Kind) bool {
	return predictor == stats.KindContinuous && response == stats.KindContinuous
}

// Analyze computes Spearman's rank correlation coefficient
func (s *SpearmanSense) Analyze(ctx context.Context, in SenseInput) SenseResult {
	x, y := completePairs(in.PredictorValues, in.ResponseValues)
	if len(x) < 3 {
		return SenseResult{
			SenseName:   s.Name(),
			PValue:      1.0,
			Signal:      "weak",
			SampleSize:  len(x),
			Description: "Insufficient data for Spearman correlation analysis",
		}
	}

	rho := s.computeSpearmanCorrelation(x, y)
	pValue := correlationPValue(rho, len(x))
	signal := classifySignal(rho, s.Name())

	return SenseResult{
		SenseName:   s.Name(),
		EffectSize:  rho,
		PValue:      pValue,
		Signal:      signal,
		SampleSize:  len(x),
		Description: s.generateDescription(rho, pValue, string(in.Predictor), string(in.Response)),
		Metadata: map[string]interface{}{
			"correlation_type":   "rank",
			"robust_to_outliers": true,
		},
	}
}

// computeSpearmanCorrelation is Pearson's r over tie-averaged ranks
func (s *SpearmanSense) computeSpearmanCorrelation(x, y []float64) float64 {
	rho := stat.Correlation(s.computeRanks(x), s.computeRanks(y), nil)
	if math.IsNaN(rho) {
		return 0
	}
	return clampUnit(rho)
}

// computeRanks converts values to ranks, handling ties properly
func (s *SpearmanSense) computeRanks(data []float64) []float64 {
	n := len(data)
	if n == 0 {
		return []float64{}
	}

	type pair struct {
		value float64
		index int
	}

	pairs := make([]pair, n)
	for i, val := range data {
		pairs[i] = pair{value: val, index: i}
	}

	sort.Slice(pairs, func(i, j int) bool {
		return pairs[i].value < pairs[j].value
	})

	ranks := make([]float64, n)

	// Assign ranks, handling ties by averaging
	i := 0
	for i < n {
		j := i + 1
		for j < n && pairs[j].value == pairs[i].value {
			j++
		}

		avgRank := float64(i+1) + float64(j-i-1)/2.0
		for k := i; k < j; k++ {
			ranks[pairs[k].index] = avgRank
		}

		i = j
	}

	return ranks
}

func (s *SpearmanSense) generateDescription(rho, pValue float64, varX, varY string) string {
	if pValue > 0.05 {
		return fmt.Sprintf("No significant monotonic relationship between %s and %s (ρ=%.3f, p=%.3f)", varX, varY, rho, pValue)
	}

	direction := "positive"
	if rho < 0 {
		direction = "negative"
	}

	strength := ""
	absRho := math.Abs(rho)
	if absRho < 0.2 {
		strength = "weak"
	} else if absRho < 0.4 {
		strength = "moderate"
	} else if absRho < 0.6 {
		strength = "strong"
	} else if absRho < 0.8 {
		strength = "very strong"
	} else {
		strength = "perfect"
	}

	return fmt.Sprintf("%s %s monotonic relationship between %s and %s (ρ=%.3f, p=%.3f)", strength, direction, varX, varY, rho, pValue)
}
