package engine

import (
	"math"
	"testing"

	"gofeat/domain/dataset"
	"gofeat/internal"
	"gofeat/internal/config"

	"github.com/stretchr/testify/require"
)

type testColumn struct {
	name string
	num  []float64
	text []string
}

func num(name string, values ...float64) testColumn {
	return testColumn{name: name, num: values}
}

func txt(name string, values ...string) testColumn {
	return testColumn{name: name, text: values}
}

func frameOf(t *testing.T, cols ...testColumn) *dataset.Frame {
	t.Helper()
	f := dataset.NewFrame()
	for _, c := range cols {
		if c.text != nil {
			require.NoError(t, f.AddText(c.name, c.text))
		} else {
			require.NoError(t, f.AddNumeric(c.name, c.num))
		}
	}
	return f
}

func newTestEngine(workers int) *StatsEngine {
	return NewStatsEngine(config.EngineConfig{Workers: workers}, internal.NopLogger())
}

func seq(from, to float64) []float64 {
	var out []float64
	for v := from; v <= to; v++ {
		out = append(out, v)
	}
	return out
}

func nans(n int) []float64 {
	out := make([]float64, n)
	for i := range out {
		out[i] = math.NaN()
	}
	return out
}
