package engine

import (
	"fmt"
	"math"
	"sort"
	"strconv"

	"gofeat/domain/core"
	"gofeat/domain/dataset"
	"gofeat/domain/stats"

	mstats "github.com/montanaflynn/stats"
)

// DefaultBins is the number of equal-width bins for continuous predictors
const DefaultBins = 10

// axis is one predictor's binning over the rows of a frame. codes holds the
// bin index of every row, -1 when the row is not assigned to any bin.
type axis struct {
	kind       stats.Kind
	labels     []string
	lower      []float64
	upper      []float64
	codes      []int
	population []int
	degenerate bool
}

func (a *axis) size() int {
	return len(a.labels)
}

// buildAxis bins a column according to its kind
func buildAxis(col *dataset.Column, kind stats.Kind, bins int) (*axis, error) {
	switch kind {
	case stats.KindContinuous:
		if !col.IsNumeric() {
			return nil, core.NewDegenerateBinningError(col.Name, "continuous binning needs a numeric column")
		}
		return continuousAxis(col.Name, col.Numeric, bins)
	case stats.KindDiscrete:
		return discreteAxis(col)
	}
	return nil, fmt.Errorf("unknown predictor kind %q", kind)
}

// cutEdges returns bins+1 right-closed interval edges spanning the observed
// range. The lowest edge is pushed down by 0.1% of the range so the minimum
// falls inside the first interval. A zero range is widened by 0.1% of the
// value on each side (0.001 absolute around zero).
func cutEdges(lo, hi float64, bins int) ([]float64, bool) {
	degenerate := lo == hi
	if degenerate {
		if lo != 0 {
			lo -= 0.001 * math.Abs(lo)
			hi += 0.001 * math.Abs(hi)
		} else {
			lo, hi = -0.001, 0.001
		}
	}

	edges := make([]float64, bins+1)
	step := (hi - lo) / float64(bins)
	for i := 0; i < bins; i++ {
		edges[i] = lo + float64(i)*step
	}
	edges[bins] = hi

	if !degenerate {
		edges[0] -= (hi - lo) * 0.001
	}
	return edges, degenerate
}

// binOf returns the index of the (edges[i], edges[i+1]] interval holding v,
// or -1 when v is NaN or outside every interval
func binOf(edges []float64, v float64) int {
	if math.IsNaN(v) {
		return -1
	}
	i := sort.SearchFloat64s(edges, v)
	if i == 0 || i == len(edges) {
		return -1
	}
	return i - 1
}

// continuousAxis cuts values into equal-width bins. Every bin is kept, even
// when empty.
func continuousAxis(name string, values []float64, bins int) (*axis, error) {
	if bins < 1 {
		bins = DefaultBins
	}
	valid := make([]float64, 0, len(values))
	for _, v := range values {
		if !math.IsNaN(v) && !math.IsInf(v, 0) {
			valid = append(valid, v)
		}
	}
	if len(valid) == 0 {
		return nil, core.NewDegenerateBinningError(name, "no finite values to cut")
	}

	lo, err := mstats.Min(valid)
	if err != nil {
		return nil, core.NewDegenerateBinningError(name, err.Error())
	}
	hi, err := mstats.Max(valid)
	if err != nil {
		return nil, core.NewDegenerateBinningError(name, err.Error())
	}

	edges, degenerate := cutEdges(lo, hi, bins)
	a := &axis{
		kind:       stats.KindContinuous,
		labels:     make([]string, bins),
		lower:      edges[:bins],
		upper:      edges[1:],
		codes:      make([]int, len(values)),
		population: make([]int, bins),
		degenerate: degenerate,
	}
	for i := 0; i < bins; i++ {
		a.labels[i] = intervalLabel(edges[i], edges[i+1])
	}
	for i, v := range values {
		code := -1
		if !math.IsInf(v, 0) {
			code = binOf(edges, v)
		}
		a.codes[i] = code
		if code >= 0 {
			a.population[code]++
		}
	}
	return a, nil
}

// discreteAxis uses one bin per distinct non-missing value, first-seen order
func discreteAxis(col *dataset.Column) (*axis, error) {
	distinct := col.Distinct()
	if len(distinct) == 0 {
		return nil, core.NewDegenerateBinningError(col.Name, "no non-missing values")
	}
	index := make(map[string]int, len(distinct))
	for i, key := range distinct {
		index[key] = i
	}

	a := &axis{
		kind:       stats.KindDiscrete,
		labels:     distinct,
		codes:      make([]int, col.Len()),
		population: make([]int, len(distinct)),
	}
	for i := range a.codes {
		if col.IsMissing(i) {
			a.codes[i] = -1
			continue
		}
		code := index[col.Key(i)]
		a.codes[i] = code
		a.population[code]++
	}
	return a, nil
}

func intervalLabel(lo, hi float64) string {
	return "(" + strconv.FormatFloat(lo, 'g', 4, 64) + ", " + strconv.FormatFloat(hi, 'g', 4, 64) + "]"
}
