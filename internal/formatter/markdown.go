package formatter

import (
	"fmt"
	"io"
	"strings"

	"github.com/tordrt/fdnorm/internal/analysis"
	"github.com/tordrt/fdnorm/internal/fd"
)

// MarkdownFormatter formats reports as markdown
type MarkdownFormatter struct {
	writer io.Writer
}

// NewMarkdownFormatter creates a new markdown formatter
func NewMarkdownFormatter(w io.Writer) *MarkdownFormatter {
	return &MarkdownFormatter{writer: w}
}

// Format writes the reports in markdown format
func (f *MarkdownFormatter) Format(reports []analysis.Report) error {
	_, _ = fmt.Fprintln(f.writer, "# Normalization Report")
	_, _ = fmt.Fprintln(f.writer)

	for i := range reports {
		f.FormatReport(&reports[i])
	}
	return nil
}

// FormatReport formats a single report (exported for use by multifile formatter)
func (f *MarkdownFormatter) FormatReport(r *analysis.Report) {
	_, _ = fmt.Fprintf(f.writer, "## %s\n\n", r.Name())

	if r.Skipped {
		_, _ = fmt.Fprintf(f.writer, "_Skipped: %v_\n\n", r.Err)
		return
	}

	_, _ = fmt.Fprintf(f.writer, "- **Normal form:** %s\n", r.NormalForm)
	_, _ = fmt.Fprintf(f.writer, "- **Attributes:** %s\n", r.Relation.Columns)
	_, _ = fmt.Fprintf(f.writer, "- **Candidate keys:** %s\n", formatKeys(r.Keys))
	if !r.NonKey.Empty() {
		_, _ = fmt.Fprintf(f.writer, "- **Non-key attributes:** %s\n", r.NonKey)
	}
	_, _ = fmt.Fprintln(f.writer)

	if len(r.Relation.FDs) > 0 {
		_, _ = fmt.Fprintln(f.writer, "### Dependencies")
		_, _ = fmt.Fprintln(f.writer)
		for _, d := range r.Relation.FDs {
			_, _ = fmt.Fprintf(f.writer, "- `%s`%s\n", d, markdownTags(d.IsKey, d.CatalogID))
		}
		_, _ = fmt.Fprintln(f.writer)
	}

	if len(r.Cover) > 0 {
		_, _ = fmt.Fprintln(f.writer, "### Canonical cover")
		_, _ = fmt.Fprintln(f.writer)
		for _, d := range r.Cover {
			_, _ = fmt.Fprintf(f.writer, "- `%s`\n", d)
		}
		_, _ = fmt.Fprintln(f.writer)
	}

	if r.Decomposed() {
		_, _ = fmt.Fprintf(f.writer, "### Decomposition into %s\n\n", r.Target)
		_, _ = fmt.Fprintln(f.writer, "| Relation | Attributes | Origin | Dependencies |")
		_, _ = fmt.Fprintln(f.writer, "|---|---|---|---|")
		for _, d := range r.Decomposition {
			_, _ = fmt.Fprintf(f.writer, "| %s | %s | `%s` | %s |\n",
				d.Name, d.Columns, d.OriginFD, markdownCode(dependencyList(d.FDs)))
		}
		_, _ = fmt.Fprintln(f.writer)
	}
}

func markdownTags(isKey bool, catalogID int) string {
	var tags []string
	if isKey {
		tags = append(tags, "key")
	}
	if catalogID != fd.Unpersisted {
		tags = append(tags, fmt.Sprintf("catalog #%d", catalogID))
	}
	if len(tags) == 0 {
		return ""
	}
	return " (" + strings.Join(tags, ", ") + ")"
}

func markdownCode(s string) string {
	if s == "" {
		return ""
	}
	return "`" + s + "`"
}
