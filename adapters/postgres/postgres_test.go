package postgres

import (
	"math"
	"testing"
	"time"

	"gofeat/domain/core"
	"gofeat/domain/dataset"
	"gofeat/domain/stats"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIsNumericType(t *testing.T) {
	for _, name := range []string{"INT4", "int8", "FLOAT8", "NUMERIC", "float4"} {
		assert.True(t, isNumericType(name), name)
	}
	for _, name := range []string{"TEXT", "VARCHAR", "BOOL", "TIMESTAMPTZ", ""} {
		assert.False(t, isNumericType(name), name)
	}
}

func TestCellConversions(t *testing.T) {
	v, err := cellFloat([]byte("2.5"))
	require.NoError(t, err)
	assert.Equal(t, 2.5, v)

	v, err = cellFloat(int64(7))
	require.NoError(t, err)
	assert.Equal(t, 7.0, v)

	v, err = cellFloat(nil)
	require.NoError(t, err)
	assert.True(t, math.IsNaN(v))

	_, err = cellFloat(true)
	assert.Error(t, err)

	assert.Equal(t, "", cellText(nil))
	assert.Equal(t, "SF", cellText([]byte("SF")))
	assert.Equal(t, "true", cellText(true))
	assert.Equal(t, "2024-03-01T00:00:00Z", cellText(time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)))
}

func TestBuildFrame(t *testing.T) {
	frame, err := buildFrame(
		[]string{"runs", "team"},
		[]bool{true, false},
		[][]interface{}{
			{int64(3), nil, []byte("4.5")},
			{"SF", nil, []byte("LA")},
		},
	)
	require.NoError(t, err)

	runs, ok := frame.Column("runs")
	require.True(t, ok)
	assert.Equal(t, dataset.ColumnNumeric, runs.Type)
	assert.Equal(t, 3.0, runs.Numeric[0])
	assert.True(t, math.IsNaN(runs.Numeric[1]))

	team, _ := frame.Column("team")
	assert.Equal(t, []string{"SF", "", "LA"}, team.Text)
}

func TestStoredScoresRankEachList(t *testing.T) {
	report := &stats.Report{
		RunID: core.RunID("run-1"),
		MeanDifference: []stats.ScoreRecord{
			{Subject: stats.SinglePredictor("b"), Metric: stats.MetricMeanDifference, Value: 0.4},
			{Subject: stats.SinglePredictor("a"), Metric: stats.MetricMeanDifference, Value: 0.1},
		},
		BruteForce: []stats.ScoreRecord{
			{Subject: stats.PredictorPair("a", "b"), Metric: stats.MetricBruteForce, Value: 0.2},
		},
	}

	scores := storedScores(report)
	require.Len(t, scores, 3)
	assert.Equal(t, 1, scores[0].Rank)
	assert.Equal(t, "b", scores[0].Label)
	assert.Equal(t, 2, scores[1].Rank)
	assert.Equal(t, 1, scores[2].Rank)
	assert.Equal(t, "a and b", scores[2].Label)
	assert.Equal(t, stats.MetricBruteForce, scores[2].Metric)
	assert.Equal(t, core.RunID("run-1"), scores[2].RunID)
}
