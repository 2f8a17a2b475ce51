package stats

import (
	"testing"

	"gofeat/domain/core"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func record(label string, value float64) ScoreRecord {
	return ScoreRecord{Subject: SinglePredictor(core.VariableKey(label)), Metric: MetricMeanDifference, Value: value}
}

func TestRankDescending(t *testing.T) {
	records := []ScoreRecord{record("a", 0.1), record("b", 0.5), record("c", 0.3)}

	ranked := Rank(records)

	assert.Equal(t, []string{"b", "c", "a"}, labels(ranked))
	// input untouched
	assert.Equal(t, "a", records[0].Label())
}

func TestRankReverseInputSameOrder(t *testing.T) {
	records := []ScoreRecord{
		record("x1", 0.2), record("x2", 0.2), record("x3", 0.9),
		record("x4", 0), record("x5", 0.2),
	}
	reversed := make([]ScoreRecord, len(records))
	for i, r := range records {
		reversed[len(records)-1-i] = r
	}

	assert.Equal(t, labels(Rank(records)), labels(Rank(reversed)))
}

func TestRankTiesByLabelDescending(t *testing.T) {
	ranked := RankedLabels([]ScoreRecord{record("alpha", 1), record("gamma", 1), record("beta", 1)})
	assert.Equal(t, []string{"gamma", "beta", "alpha"}, ranked)
}

func TestRankedEntriesPairLabels(t *testing.T) {
	pair := ScoreRecord{Subject: PredictorPair("age", "fare"), Metric: MetricBruteForce, Value: 0.4}
	single := record("sex", 0.7)

	entries := RankedEntries([]ScoreRecord{pair, single})

	require.Len(t, entries, 2)
	assert.Equal(t, RankedEntry{Value: 0.7, Label: "sex"}, entries[0])
	assert.Equal(t, RankedEntry{Value: 0.4, Label: "age and fare"}, entries[1])
}

func TestRankEmpty(t *testing.T) {
	assert.Empty(t, Rank(nil))
}

func TestParsePairMode(t *testing.T) {
	tests := []struct {
		in      string
		want    PairMode
		wantErr bool
	}{
		{"", PairModeUnordered, false},
		{"unordered", PairModeUnordered, false},
		{" ALL ", PairModeAll, false},
		{"both", "", true},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParsePairMode(tt.in)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestStrategyForAxes(t *testing.T) {
	kinds := []Kind{KindContinuous, KindDiscrete}
	for _, a := range kinds {
		for _, b := range kinds {
			s := StrategyFor(a, b)
			ra, rb := s.Axes()
			assert.Equal(t, a, ra, s.String())
			assert.Equal(t, b, rb, s.String())
		}
	}
}

func TestBinTableTotals(t *testing.T) {
	bt := NewBinTable("x", KindDiscrete, 2)
	bt.Population[0], bt.Population[1] = 3, 1
	bt.MeanSqDiffWeighted[0], bt.MeanSqDiffWeighted[1] = 0.046875, 0.140625

	assert.Equal(t, 2, bt.Len())
	assert.Equal(t, 4, bt.TotalPopulation())
	assert.InDelta(t, 0.1875, bt.Metric(), 1e-12)
	assert.Nil(t, bt.Lower)
}

func labels(records []ScoreRecord) []string {
	out := make([]string, len(records))
	for i, r := range records {
		out[i] = r.Label()
	}
	return out
}
