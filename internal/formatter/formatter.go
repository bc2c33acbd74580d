package formatter

import (
	"fmt"
	"io"
	"strings"

	"github.com/tordrt/fdnorm/internal/analysis"
	"github.com/tordrt/fdnorm/internal/fd"
)

// Output formats
const (
	FormatText     = "text"
	FormatMarkdown = "markdown"
	FormatYAML     = "yaml"
)

// Formatter renders analysis reports
type Formatter interface {
	Format(reports []analysis.Report) error
}

// New returns the single-stream formatter for format
func New(format string, w io.Writer) (Formatter, error) {
	switch format {
	case FormatText:
		return NewTextFormatter(w), nil
	case FormatMarkdown:
		return NewMarkdownFormatter(w), nil
	case FormatYAML:
		return NewYAMLFormatter(w), nil
	default:
		return nil, fmt.Errorf("invalid format: %s (must be 'text', 'markdown' or 'yaml')", format)
	}
}

func formatKeys(keys []fd.AttrSet) string {
	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, "{"+k.String()+"}")
	}
	return strings.Join(parts, ", ")
}

// dependencyLabel renders a dependency with its key flag and catalog id
func dependencyLabel(d fd.Dependency) string {
	var tags []string
	if d.IsKey {
		tags = append(tags, "key")
	}
	if d.CatalogID != fd.Unpersisted {
		tags = append(tags, fmt.Sprintf("#%d", d.CatalogID))
	}
	if len(tags) == 0 {
		return d.String()
	}
	return d.String() + " [" + strings.Join(tags, ", ") + "]"
}

func dependencyList(deps []fd.Dependency) string {
	parts := make([]string, 0, len(deps))
	for _, d := range deps {
		parts = append(parts, d.String())
	}
	return strings.Join(parts, "; ")
}
