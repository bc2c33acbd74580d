package formatter

import (
	"fmt"
	"io"

	"github.com/jedib0t/go-pretty/v6/table"

	"github.com/tordrt/fdnorm/internal/analysis"
)

// TextFormatter formats reports as compact text
type TextFormatter struct {
	writer io.Writer
}

// NewTextFormatter creates a new text formatter
func NewTextFormatter(w io.Writer) *TextFormatter {
	return &TextFormatter{writer: w}
}

// Format writes the reports in compact text format
func (f *TextFormatter) Format(reports []analysis.Report) error {
	for i := range reports {
		if i > 0 {
			_, _ = fmt.Fprintln(f.writer) // Blank line between relations
		}
		f.formatReport(&reports[i])
	}
	return nil
}

func (f *TextFormatter) formatReport(r *analysis.Report) {
	if r.Skipped {
		_, _ = fmt.Fprintf(f.writer, "RELATION %s SKIPPED\n  %v\n", r.Name(), r.Err)
		return
	}

	_, _ = fmt.Fprintf(f.writer, "RELATION %s (%s)\n", r.Name(), r.NormalForm)
	_, _ = fmt.Fprintf(f.writer, "  ATTRIBUTES: %s\n", r.Relation.Columns)
	_, _ = fmt.Fprintf(f.writer, "  KEYS: %s\n", formatKeys(r.Keys))
	if !r.NonKey.Empty() {
		_, _ = fmt.Fprintf(f.writer, "  NON-KEY: %s\n", r.NonKey)
	}

	if len(r.Relation.FDs) > 0 {
		_, _ = fmt.Fprintln(f.writer)
		_, _ = fmt.Fprintln(f.writer, "  DEPENDENCIES:")
		for _, d := range r.Relation.FDs {
			_, _ = fmt.Fprintf(f.writer, "    %s\n", dependencyLabel(d))
		}
	}

	if len(r.Cover) > 0 {
		_, _ = fmt.Fprintln(f.writer)
		_, _ = fmt.Fprintln(f.writer, "  CANONICAL COVER:")
		for _, d := range r.Cover {
			_, _ = fmt.Fprintf(f.writer, "    %s\n", d)
		}
	}

	if r.Decomposed() {
		_, _ = fmt.Fprintln(f.writer)
		_, _ = fmt.Fprintf(f.writer, "  DECOMPOSITION (%s):\n", r.Target)
		f.renderDecomposition(r)
	}
}

func (f *TextFormatter) renderDecomposition(r *analysis.Report) {
	t := table.NewWriter()
	t.SetOutputMirror(f.writer)
	t.SetStyle(table.StyleLight)
	t.AppendHeader(table.Row{"Relation", "Attributes", "Origin", "Dependencies"})

	for _, d := range r.Decomposition {
		t.AppendRow(table.Row{d.Name, d.Columns.String(), d.OriginFD.String(), dependencyList(d.FDs)})
	}
	t.Render()
}
