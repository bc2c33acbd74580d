package formatter

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"github.com/tordrt/fdnorm/internal/analysis"
)

// MultiFileFormatter writes reports to multiple files in a directory
type MultiFileFormatter struct {
	OutputDir    string
	OutputFormat string // "text", "markdown" or "yaml"
}

// NewMultiFileFormatter creates a new multi-file formatter
func NewMultiFileFormatter(outputDir, format string) *MultiFileFormatter {
	return &MultiFileFormatter{
		OutputDir:    outputDir,
		OutputFormat: format,
	}
}

// Format writes an overview file plus one file per relation
func (f *MultiFileFormatter) Format(reports []analysis.Report) error {
	// Reject unknown formats before touching the file system
	if _, err := New(f.OutputFormat, nil); err != nil {
		return err
	}

	// Create output directory if it doesn't exist
	if err := os.MkdirAll(f.OutputDir, 0755); err != nil {
		return fmt.Errorf("failed to create output directory: %w", err)
	}

	if err := f.writeOverview(reports); err != nil {
		return fmt.Errorf("failed to write overview: %w", err)
	}

	for i := range reports {
		if err := f.writeReportFile(&reports[i]); err != nil {
			return fmt.Errorf("failed to write report file for %s: %w", reports[i].Name(), err)
		}
	}

	return nil
}

// writeOverview writes the overview file
func (f *MultiFileFormatter) writeOverview(reports []analysis.Report) error {
	ext := f.getFileExtension()
	filename := filepath.Join(f.OutputDir, "_overview"+ext)

	file, err := os.Create(filename)
	if err != nil {
		return err
	}
	defer func() { _ = file.Close() }()

	// Sort relations alphabetically
	sorted := make([]*analysis.Report, 0, len(reports))
	for i := range reports {
		sorted = append(sorted, &reports[i])
	}
	sort.Slice(sorted, func(i, j int) bool {
		return sorted[i].Name() < sorted[j].Name()
	})

	switch f.OutputFormat {
	case FormatMarkdown:
		_, _ = fmt.Fprintf(file, "# Normalization Overview\n\n")
		_, _ = fmt.Fprintf(file, "Each relation has a corresponding file: `<relation_name>%s`\n\n", ext)
		_, _ = fmt.Fprintf(file, "## Relations\n\n")
		for _, r := range sorted {
			_, _ = fmt.Fprintf(file, "- **%s** (%s)\n", r.Name(), overviewStatus(r))
		}
	case FormatYAML:
		_, _ = fmt.Fprintf(file, "relations:\n")
		for _, r := range sorted {
			_, _ = fmt.Fprintf(file, "  %s: %q\n", r.Name(), overviewStatus(r))
		}
	default:
		_, _ = fmt.Fprintf(file, "NORMALIZATION OVERVIEW\n")
		_, _ = fmt.Fprintf(file, "Each relation has a file: <relation_name>%s\n\n", ext)
		for _, r := range sorted {
			_, _ = fmt.Fprintf(file, "%s (%s)\n", r.Name(), overviewStatus(r))
		}
	}

	return nil
}

func overviewStatus(r *analysis.Report) string {
	switch {
	case r.Skipped:
		return "skipped"
	case r.Decomposed():
		return fmt.Sprintf("%s, %d relations in %s", r.NormalForm, len(r.Decomposition), r.Target)
	default:
		return r.NormalForm.String()
	}
}

// writeReportFile writes a single report to its own file
func (f *MultiFileFormatter) writeReportFile(r *analysis.Report) error {
	filename := filepath.Join(f.OutputDir, r.Name()+f.getFileExtension())

	file, err := os.Create(filename)
	if err != nil {
		return err
	}
	defer func() { _ = file.Close() }()

	if f.OutputFormat == FormatMarkdown {
		// Skip the document title, one relation per file
		NewMarkdownFormatter(file).FormatReport(r)
		return nil
	}

	single, err := New(f.OutputFormat, file)
	if err != nil {
		return err
	}
	return single.Format([]analysis.Report{*r})
}

func (f *MultiFileFormatter) getFileExtension() string {
	switch f.OutputFormat {
	case FormatMarkdown:
		return ".md"
	case FormatYAML:
		return ".yaml"
	default:
		return ".txt"
	}
}
