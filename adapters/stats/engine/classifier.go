package engine

import (
	"fmt"

	"gofeat/domain/core"
	"gofeat/domain/dataset"
	"gofeat/domain/stats"
)

// DefaultDiscreteThreshold is the distinct-value count at and above which a
// numeric column counts as continuous
const DefaultDiscreteThreshold = 8

// Classifier decides whether a column is continuous or discrete
type Classifier struct {
	DiscreteThreshold int
}

// NewClassifier creates a classifier; a non-positive threshold selects the default
func NewClassifier(threshold int) *Classifier {
	if threshold <= 0 {
		threshold = DefaultDiscreteThreshold
	}
	return &Classifier{DiscreteThreshold: threshold}
}

// Classify returns KindDiscrete for textual columns and for numeric columns
// with fewer distinct non-missing values than the threshold. It looks only at
// the frame it is given, so callers classify after any row filtering.
func (c *Classifier) Classify(frame *dataset.Frame, column string) (stats.Kind, error) {
	d, err := c.describe(frame, column)
	if err != nil {
		return "", err
	}
	return d.Kind, nil
}

// Describe classifies each named column. The first failure aborts.
func (c *Classifier) Describe(frame *dataset.Frame, columns []string) ([]stats.PredictorDescriptor, error) {
	out := make([]stats.PredictorDescriptor, 0, len(columns))
	for _, name := range columns {
		d, err := c.describe(frame, name)
		if err != nil {
			return nil, err
		}
		out = append(out, d)
	}
	return out, nil
}

func (c *Classifier) describe(frame *dataset.Frame, column string) (stats.PredictorDescriptor, error) {
	col, ok := frame.Column(column)
	if !ok {
		return stats.PredictorDescriptor{}, core.NewInvalidColumnError(column)
	}
	distinct := len(col.Distinct())
	if distinct == 0 {
		return stats.PredictorDescriptor{}, fmt.Errorf("%w: %s has no non-missing values", core.ErrInsufficientData, column)
	}

	kind := stats.KindContinuous
	if !col.IsNumeric() || distinct < c.DiscreteThreshold {
		kind = stats.KindDiscrete
	}

	return stats.PredictorDescriptor{
		Key:          core.VariableKey(column),
		Kind:         kind,
		DeclaredType: col.Type,
		Distinct:     distinct,
	}, nil
}
