package engine

import (
	"math"
	"testing"

	"gofeat/domain/dataset"
	"gofeat/domain/stats"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/mat"
)

func scorePair(t *testing.T, e *StatsEngine, f *dataset.Frame, first, second, response string) (*stats.InteractionMatrix, float64) {
	t.Helper()
	descriptors, err := e.Classifier().Describe(f, []string{first, second})
	require.NoError(t, err)
	m, value, err := e.ScorePair(f, descriptors[0], descriptors[1], response)
	require.NoError(t, err)
	return m, value
}

func TestBruteForceIndependentPredictorsScoreZero(t *testing.T) {
	e := newTestEngine(1)
	f := frameOf(t,
		txt("p1", "a", "a", "a", "a", "b", "b", "b", "b"),
		txt("p2", "x", "x", "y", "y", "x", "x", "y", "y"),
		num("y", 0, 1, 0, 1, 0, 1, 0, 1),
	)

	m, value := scorePair(t, e, f, "p1", "p2", "y")

	assert.Equal(t, 0.0, value)
	r, c := m.Dims()
	assert.Equal(t, 2, r)
	assert.Equal(t, 2, c)
	assert.Equal(t, stats.StrategyDiscreteDiscrete, m.Strategy)
}

func TestBruteForceHandComputed(t *testing.T) {
	e := newTestEngine(1)
	f := frameOf(t,
		txt("p1", "a", "a", "b", "b"),
		txt("p2", "x", "y", "x", "y"),
		num("y", 1, 0, 0, 0),
	)

	m, value := scorePair(t, e, f, "p1", "p2", "y")

	assert.Equal(t, 1.0, m.Mean(0, 0))
	assert.Equal(t, 0.0, m.Mean(1, 1))
	for i := 0; i < 2; i++ {
		for j := 0; j < 2; j++ {
			assert.Equal(t, 0.25, m.PopRatio(i, j))
		}
	}
	// 0.25 * (0.75² + 3 * 0.25²)
	assert.InDelta(t, 0.1875, value, 1e-12)
}

func TestBruteForceDiscreteSwapTransposes(t *testing.T) {
	e := newTestEngine(1)
	f := frameOf(t,
		txt("team", "a", "b", "c", "a", "b", "c", "a", "a", "b"),
		txt("side", "home", "home", "away", "away", "home", "away", "home", "away", "away"),
		num("won", 1, 0, 1, 1, 0, 0, 1, 1, 0),
	)

	m1, v1 := scorePair(t, e, f, "team", "side", "won")
	m2, v2 := scorePair(t, e, f, "side", "team", "won")

	assert.InDelta(t, v1, v2, 1e-12)
	assert.True(t, mat.EqualApprox(m1.Means.T(), m2.Means, 1e-12))
	assert.True(t, mat.EqualApprox(m1.PopRatios.T(), m2.PopRatios, 1e-12))
	assert.Equal(t, m1.RowLabels, m2.ColLabels)
}

func TestBruteForceMixedSwapKeepsScalar(t *testing.T) {
	x := seq(1, 12)
	e := newTestEngine(1)
	f := frameOf(t,
		num("x", x...),
		txt("g", "a", "b", "c", "a", "b", "c", "a", "b", "c", "a", "b", "c"),
		num("y", 0, 0, 1, 0, 1, 1, 0, 1, 1, 1, 1, 1),
	)

	m1, v1 := scorePair(t, e, f, "x", "g", "y")
	m2, v2 := scorePair(t, e, f, "g", "x", "y")

	assert.Equal(t, stats.StrategyContinuousDiscrete, m1.Strategy)
	assert.Equal(t, stats.StrategyDiscreteContinuous, m2.Strategy)
	r, c := m1.Dims()
	assert.Equal(t, 10, r)
	assert.Equal(t, 3, c)
	assert.InDelta(t, v1, v2, 1e-12)
	assert.True(t, mat.EqualApprox(m1.Means.T(), m2.Means, 1e-12))
}

func TestBruteForceContinuousGridZeroFillsEmptyCells(t *testing.T) {
	x := seq(1, 10)
	z := []float64{10, 9, 8, 7, 6, 5, 4, 3, 2, 1}
	e := newTestEngine(1)
	f := frameOf(t, num("x", x...), num("z", z...), num("y", 0, 0, 0, 0, 0, 1, 1, 1, 1, 1))

	m, value := scorePair(t, e, f, "x", "z", "y")

	r, c := m.Dims()
	require.Equal(t, 10, r)
	require.Equal(t, 10, c)
	for i := 0; i < r; i++ {
		for j := 0; j < c; j++ {
			assert.False(t, math.IsNaN(m.Mean(i, j)))
		}
	}
	// only the anti-diagonal is populated
	assert.Equal(t, 0.0, m.Mean(0, 0))
	assert.Equal(t, 1.0, m.Mean(9, 0))
	// product of marginals spreads weight over the whole grid
	assert.InDelta(t, 1.0, mat.Sum(m.PopRatios), 1e-12)
	assert.InDelta(t, 0.01, m.PopRatio(0, 0), 1e-12)
	assert.Greater(t, value, 0.0)
}

func TestBruteForceSelfPair(t *testing.T) {
	e := newTestEngine(1)
	f := frameOf(t, txt("p", "a", "a", "b", "b"), num("y", 1, 1, 0, 0))

	m, value := scorePair(t, e, f, "p", "p", "y")

	assert.Equal(t, 1.0, m.Mean(0, 0))
	assert.Equal(t, 0.0, m.Mean(0, 1), "empty off-diagonal cell is zero-filled")
	// 0.25*0.25 + 0.25*0.25 (zero-filled cells) + 0.25*0.25 + 0.25*0.25
	assert.InDelta(t, 0.25, value, 1e-12)
}
