package report

import (
	"fmt"
	"strings"

	"gofeat/domain/stats"
)

// MarkdownRenderer turns a report into a markdown document
type MarkdownRenderer struct {
	// MaxPairs caps the rows of the pairwise table; 0 renders every pair
	MaxPairs int
	// BinTables adds the per-predictor bin breakdown
	BinTables bool
}

// NewMarkdownRenderer creates a renderer with bin tables enabled
func NewMarkdownRenderer() *MarkdownRenderer {
	return &MarkdownRenderer{MaxPairs: 100, BinTables: true}
}

// Render builds the document
func (m *MarkdownRenderer) Render(r *stats.Report) string {
	var b strings.Builder

	fmt.Fprintf(&b, "# Predictor ranking for %s\n\n", r.Response)
	fmt.Fprintf(&b, "- Run: `%s`\n", r.RunID)
	fmt.Fprintf(&b, "- Rows: %d (%d dropped for a missing response)\n", r.RowCount, r.DroppedRows)
	fmt.Fprintf(&b, "- Response mean: %s\n", formatValue(r.ResponseMean))
	fmt.Fprintf(&b, "- Pair mode: %s\n", r.PairMode)
	if !r.Fingerprint.IsEmpty() {
		fmt.Fprintf(&b, "- Dataset fingerprint: `%s`\n", r.Fingerprint.Short())
	}
	fmt.Fprintf(&b, "- Runtime: %d ms\n\n", r.RuntimeMs)

	b.WriteString("## Predictors\n\n")
	b.WriteString("| Predictor | Kind | Column type | Distinct |\n|---|---|---|---|\n")
	for _, d := range r.Descriptors {
		fmt.Fprintf(&b, "| %s | %s | %s | %d |\n", cell(string(d.Key)), d.Kind, d.DeclaredType, d.Distinct)
	}
	b.WriteString("\n")

	b.WriteString("## Mean difference ranking\n\n")
	writeRanked(&b, r.MeanDifference, 0)

	b.WriteString("## Brute force ranking\n\n")
	writeRanked(&b, r.BruteForce, m.MaxPairs)

	if len(r.Associations) > 0 {
		b.WriteString("## Associations with the response\n\n")
		b.WriteString("| Predictor | Method | Value | p-value | Signal | n |\n|---|---|---|---|---|---|\n")
		for _, a := range r.Associations {
			fmt.Fprintf(&b, "| %s | %s | %s | %s | %s | %d |\n",
				cell(string(a.Predictor)), a.Method, formatValue(a.Value), formatValue(a.PValue), a.Signal, a.SampleSize)
		}
		b.WriteString("\n")
	}

	if r.Correlations != nil && len(r.Correlations.Rows) > 0 {
		b.WriteString("## Correlations between continuous predictors\n\n")
		b.WriteString("| r | Pair |\n|---|---|\n")
		for _, row := range r.Correlations.Rows {
			fmt.Fprintf(&b, "| %s | %s |\n", formatValue(row.R), cell(row.Label()))
		}
		b.WriteString("\n")
	}

	if m.BinTables && len(r.MeanDifference) > 0 {
		b.WriteString("## Bin tables\n\n")
		for _, rec := range r.MeanDifference {
			if rec.Bins != nil {
				writeBins(&b, rec.Bins)
			}
		}
	}

	if len(r.Failures) > 0 {
		b.WriteString("## Failures\n\n")
		b.WriteString("| Subject | Metric | Reason |\n|---|---|---|\n")
		for _, f := range r.Failures {
			fmt.Fprintf(&b, "| %s | %s | %s |\n", cell(f.Subject.Label()), f.Metric, cell(f.Reason))
		}
		b.WriteString("\n")
	}

	return b.String()
}

func writeRanked(b *strings.Builder, records []stats.ScoreRecord, limit int) {
	if len(records) == 0 {
		b.WriteString("_No scores._\n\n")
		return
	}
	shown := records
	if limit > 0 && len(shown) > limit {
		shown = shown[:limit]
	}
	b.WriteString("| Rank | Score | Subject |\n|---|---|---|\n")
	for i, rec := range shown {
		fmt.Fprintf(b, "| %d | %s | %s |\n", i+1, formatValue(rec.Value), cell(rec.Label()))
	}
	if len(shown) < len(records) {
		fmt.Fprintf(b, "\n_%d more not shown._\n", len(records)-len(shown))
	}
	b.WriteString("\n")
}

func writeBins(b *strings.Builder, t *stats.BinTable) {
	fmt.Fprintf(b, "### %s (%s)\n\n", t.Predictor, t.Kind)
	if t.Degenerate {
		b.WriteString("_All values are equal; the range was widened to a single bin._\n\n")
	}
	b.WriteString("| Bin | Population | Bin mean | Pop mean | Proportion | Sq diff | Weighted |\n|---|---|---|---|---|---|---|\n")
	for i := 0; i < t.Len(); i++ {
		fmt.Fprintf(b, "| %s | %d | %s | %s | %s | %s | %s |\n",
			cell(t.Labels[i]), t.Population[i], formatValue(t.BinMean[i]), formatValue(t.PopMean[i]),
			formatValue(t.PopProportion[i]), formatValue(t.MeanSqDiff[i]), formatValue(t.MeanSqDiffWeighted[i]))
	}
	fmt.Fprintf(b, "\nTotal: %s\n\n", formatValue(t.Metric()))
}

func formatValue(v float64) string {
	return fmt.Sprintf("%.6g", v)
}

// cell escapes text for a markdown table cell
func cell(s string) string {
	return strings.ReplaceAll(s, "|", `\|`)
}
