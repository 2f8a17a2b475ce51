package report

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"gofeat/domain/stats"
	"gofeat/internal"

	"github.com/gomarkdown/markdown"
	"github.com/gomarkdown/markdown/html"
	"github.com/gomarkdown/markdown/parser"
)

// FileWriter writes each report to <dir>/<run_id>.md and, when HTML is set,
// a rendered <dir>/<run_id>.html next to it
type FileWriter struct {
	dir      string
	html     bool
	renderer *MarkdownRenderer
	logger   *internal.Logger
}

// NewFileWriter creates a writer rooted at dir
func NewFileWriter(dir string, withHTML bool, logger *internal.Logger) *FileWriter {
	if logger == nil {
		logger = internal.NopLogger()
	}
	return &FileWriter{dir: dir, html: withHTML, renderer: NewMarkdownRenderer(), logger: logger.With("ReportWriter")}
}

// WriteReport implements ports.ReportWriter
func (w *FileWriter) WriteReport(ctx context.Context, r *stats.Report) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if err := os.MkdirAll(w.dir, 0o755); err != nil {
		return fmt.Errorf("failed to create report directory: %w", err)
	}

	doc := w.renderer.Render(r)
	mdPath := filepath.Join(w.dir, r.RunID.String()+".md")
	if err := os.WriteFile(mdPath, []byte(doc), 0o644); err != nil {
		return fmt.Errorf("failed to write %s: %w", mdPath, err)
	}
	w.logger.Info("wrote %s", mdPath)

	if !w.html {
		return nil
	}
	htmlPath := filepath.Join(w.dir, r.RunID.String()+".html")
	page := RenderHTML(doc, fmt.Sprintf("Predictor ranking for %s", r.Response))
	if err := os.WriteFile(htmlPath, page, 0o644); err != nil {
		return fmt.Errorf("failed to write %s: %w", htmlPath, err)
	}
	w.logger.Info("wrote %s", htmlPath)
	return nil
}

// RenderHTML converts a markdown document into a complete HTML page
func RenderHTML(doc, title string) []byte {
	p := parser.NewWithExtensions(parser.CommonExtensions)
	renderer := html.NewRenderer(html.RendererOptions{
		Title: title,
		Flags: html.CommonFlags | html.CompletePage,
	})
	return markdown.ToHTML([]byte(doc), p, renderer)
}

// TextWriter prints both ranked lists as plain "value  label" lines
type TextWriter struct {
	out io.Writer
	// Limit caps each list; 0 prints everything
	Limit int
}

// NewTextWriter creates a writer printing to out
func NewTextWriter(out io.Writer, limit int) *TextWriter {
	return &TextWriter{out: out, Limit: limit}
}

// WriteReport implements ports.ReportWriter
func (w *TextWriter) WriteReport(ctx context.Context, r *stats.Report) error {
	if _, err := fmt.Fprintf(w.out, "response: %s  rows: %d  run: %s\n", r.Response, r.RowCount, r.RunID); err != nil {
		return err
	}
	sections := []struct {
		title   string
		entries []stats.RankedEntry
	}{
		{"mean difference", r.UnivariateEntries()},
		{"brute force", r.PairwiseEntries()},
	}
	for _, s := range sections {
		if _, err := fmt.Fprintf(w.out, "\n%s (%d)\n", s.title, len(s.entries)); err != nil {
			return err
		}
		for i, e := range s.entries {
			if w.Limit > 0 && i >= w.Limit {
				break
			}
			if _, err := fmt.Fprintf(w.out, "%12.6g  %s\n", e.Value, e.Label); err != nil {
				return err
			}
		}
	}
	for _, f := range r.Failures {
		if _, err := fmt.Fprintf(w.out, "failed: %s (%s): %s\n", f.Subject.Label(), f.Metric, f.Reason); err != nil {
			return err
		}
	}
	return nil
}
