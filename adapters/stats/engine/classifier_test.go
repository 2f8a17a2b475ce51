package engine

import (
	"errors"
	"math"
	"testing"

	"gofeat/domain/core"
	"gofeat/domain/dataset"
	"gofeat/domain/stats"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClassify(t *testing.T) {
	f := frameOf(t,
		txt("team", "a", "b", "a", "c", "b", "a", "c", "b"),
		num("seven", 1, 2, 3, 4, 5, 6, 7, 7),
		num("eight", 1, 2, 3, 4, 5, 6, 7, 8),
		num("sparse", math.NaN(), 1, 2, 3, 4, 5, 6, 7),
	)
	c := NewClassifier(0)

	tests := []struct {
		column string
		want   stats.Kind
	}{
		{"team", stats.KindDiscrete},
		{"seven", stats.KindDiscrete},
		{"eight", stats.KindContinuous},
		{"sparse", stats.KindDiscrete},
	}
	for _, tt := range tests {
		t.Run(tt.column, func(t *testing.T) {
			got, err := c.Classify(f, tt.column)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)

			again, err := c.Classify(f, tt.column)
			require.NoError(t, err)
			assert.Equal(t, got, again, "classification must be idempotent")
		})
	}
}

func TestClassifyTextWithManyValuesIsDiscrete(t *testing.T) {
	values := make([]string, 20)
	for i := range values {
		values[i] = string(rune('a' + i))
	}
	f := frameOf(t, txt("letters", values...))

	kind, err := NewClassifier(8).Classify(f, "letters")
	require.NoError(t, err)
	assert.Equal(t, stats.KindDiscrete, kind)
}

func TestClassifyErrors(t *testing.T) {
	f := frameOf(t, num("empty", nans(3)...))
	c := NewClassifier(8)

	_, err := c.Classify(f, "missing")
	assert.True(t, core.IsInvalidColumnError(err))

	_, err = c.Classify(f, "empty")
	assert.True(t, errors.Is(err, core.ErrInsufficientData))
}

func TestClassifyAfterFilteringCanChange(t *testing.T) {
	f := frameOf(t,
		num("x", 1, 2, 3, 4, 5, 6, 7, 8),
		num("y", 1, 1, 1, 1, 1, 1, 1, math.NaN()),
	)
	c := NewClassifier(8)

	before, err := c.Classify(f, "x")
	require.NoError(t, err)
	filtered, err := f.DropMissing("y")
	require.NoError(t, err)
	after, err := c.Classify(filtered, "x")
	require.NoError(t, err)

	assert.Equal(t, stats.KindContinuous, before)
	assert.Equal(t, stats.KindDiscrete, after)
}

func TestDescribe(t *testing.T) {
	f := frameOf(t, txt("team", "a", "b"), num("runs", 3, 4))

	descriptors, err := NewClassifier(8).Describe(f, []string{"team", "runs"})
	require.NoError(t, err)
	require.Len(t, descriptors, 2)
	assert.Equal(t, core.VariableKey("team"), descriptors[0].Key)
	assert.Equal(t, dataset.ColumnText, descriptors[0].DeclaredType)
	assert.Equal(t, 2, descriptors[1].Distinct)

	_, err = NewClassifier(8).Describe(f, []string{"team", "nope"})
	assert.True(t, core.IsInvalidColumnError(err))
}
