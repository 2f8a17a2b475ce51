package stats

import (
	"fmt"
	"strings"

	"gofeat/domain/core"
	"gofeat/domain/dataset"
)

// Kind is the derived measurement kind of a predictor
type Kind string

const (
	KindContinuous Kind = "continuous"
	KindDiscrete   Kind = "discrete"
)

// PredictorDescriptor is a column name plus its derived kind. It is computed
// once per run and treated as fixed afterwards.
type PredictorDescriptor struct {
	Key          core.VariableKey   `json:"key"`
	Kind         Kind               `json:"kind"`
	DeclaredType dataset.ColumnType `json:"declared_type"`
	Distinct     int                `json:"distinct"`
}

// MetricKind names the scalar a ScoreRecord carries
type MetricKind string

const (
	MetricMeanDifference MetricKind = "mean_difference"
	MetricBruteForce     MetricKind = "brute_force"
)

// PairMode controls which predictor pairs the brute-force sweep visits
type PairMode string

const (
	// PairModeUnordered visits each unordered pair of distinct predictors once
	PairModeUnordered PairMode = "unordered"
	// PairModeAll visits every ordered pair, self-pairs included
	PairModeAll PairMode = "all"
)

// ParsePairMode parses a pair mode name, defaulting to unordered on ""
func ParsePairMode(s string) (PairMode, error) {
	switch PairMode(strings.ToLower(strings.TrimSpace(s))) {
	case "", PairModeUnordered:
		return PairModeUnordered, nil
	case PairModeAll:
		return PairModeAll, nil
	}
	return "", fmt.Errorf("unknown pair mode %q (want %q or %q)", s, PairModeUnordered, PairModeAll)
}

// Subject identifies what a score is about: one predictor or an ordered pair
type Subject struct {
	Predictors []core.VariableKey `json:"predictors"`
}

// SinglePredictor builds a subject for one predictor
func SinglePredictor(key core.VariableKey) Subject {
	return Subject{Predictors: []core.VariableKey{key}}
}

// PredictorPair builds a subject for an ordered predictor pair
func PredictorPair(first, second core.VariableKey) Subject {
	return Subject{Predictors: []core.VariableKey{first, second}}
}

// IsPair reports whether the subject is a predictor pair
func (s Subject) IsPair() bool {
	return len(s.Predictors) == 2
}

// Label renders the subject the way reports show it: "x" or "x and y"
func (s Subject) Label() string {
	parts := make([]string, len(s.Predictors))
	for i, p := range s.Predictors {
		parts[i] = string(p)
	}
	return strings.Join(parts, " and ")
}

// ScoreRecord is one immutable result per predictor or predictor pair.
// Exactly one of Bins and Matrix is set, depending on Metric.
type ScoreRecord struct {
	Subject Subject            `json:"subject"`
	Metric  MetricKind         `json:"metric"`
	Value   float64            `json:"value"`
	Bins    *BinTable          `json:"bins,omitempty"`
	Matrix  *InteractionMatrix `json:"matrix,omitempty"`
}

// Label is shorthand for Subject.Label
func (r ScoreRecord) Label() string {
	return r.Subject.Label()
}

// ScoreFailure records a predictor or pair that could not be scored. The rest
// of the run continues without it.
type ScoreFailure struct {
	Subject Subject    `json:"subject"`
	Metric  MetricKind `json:"metric"`
	Reason  string     `json:"reason"`
}
