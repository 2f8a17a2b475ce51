package stats

import "sort"

// RankedEntry is the (metric, label) view handed to reporting
type RankedEntry struct {
	Value float64 `json:"value"`
	Label string  `json:"label"`
}

// Rank returns a new slice ordered by descending metric. Ties fall back to
// descending subject label, so the order never depends on input order.
func Rank(records []ScoreRecord) []ScoreRecord {
	out := make([]ScoreRecord, len(records))
	copy(out, records)
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].Value != out[j].Value {
			return out[i].Value > out[j].Value
		}
		return out[i].Label() > out[j].Label()
	})
	return out
}

// RankedEntries ranks records and projects them to (metric, label) pairs
func RankedEntries(records []ScoreRecord) []RankedEntry {
	ranked := Rank(records)
	entries := make([]RankedEntry, len(ranked))
	for i, r := range ranked {
		entries[i] = RankedEntry{Value: r.Value, Label: r.Label()}
	}
	return entries
}

// RankedLabels ranks records and returns only their labels
func RankedLabels(records []ScoreRecord) []string {
	ranked := Rank(records)
	labels := make([]string, len(ranked))
	for i, r := range ranked {
		labels[i] = r.Label()
	}
	return labels
}
