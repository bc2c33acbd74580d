package analysis

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"golang.org/x/sync/errgroup"

	"github.com/tordrt/fdnorm/internal/fd"
)

// ErrComplexityExceeded marks a relation that was not analyzed because it has
// more attributes than the configured limit. It is advisory: the relation's
// report carries it and the batch continues.
var ErrComplexityExceeded = errors.New("relation exceeds attribute limit")

// CheckWidth returns ErrComplexityExceeded when r has more than limit
// attributes. A limit of 0 disables the check.
func CheckWidth(r fd.Relation, limit int) error {
	if limit > 0 && r.Columns.Len() > limit {
		return fmt.Errorf("%w: %s has %d attributes, limit is %d",
			ErrComplexityExceeded, r.Name, r.Columns.Len(), limit)
	}
	return nil
}

// Options configures an Analyzer
type Options struct {
	// MaxAttributes bounds the width of analyzed relations; 0 means no limit.
	// Key search is exponential in the number of attributes.
	MaxAttributes int
	// Target requests a decomposition for relations below it (2NF or 3NF).
	// Zero disables decomposition.
	Target fd.NormalForm
	// Logger is the structured logger (optional, uses discard if nil)
	Logger *slog.Logger
	// Concurrency limits relations analyzed at once; 0 means unlimited
	Concurrency int
}

// Analyzer computes reports for batches of relations
type Analyzer struct {
	opts   Options
	logger *slog.Logger
}

// New creates an analyzer
func New(opts Options) (*Analyzer, error) {
	if opts.Target != 0 && opts.Target != fd.Second && opts.Target != fd.Third {
		return nil, fmt.Errorf("cannot normalize into %s: %w", opts.Target, fd.ErrUnsupportedForm)
	}
	if opts.MaxAttributes < 0 {
		return nil, fmt.Errorf("max attributes must not be negative, got %d", opts.MaxAttributes)
	}

	logger := opts.Logger
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}

	return &Analyzer{opts: opts, logger: logger}, nil
}

// Analyze reports on every relation, in input order. Overlays are applied
// before analysis. Relations run in parallel; the analysis of a single
// relation is sequential.
func (a *Analyzer) Analyze(ctx context.Context, relations []fd.Relation) ([]Report, error) {
	reports := make([]Report, len(relations))

	g, gctx := errgroup.WithContext(ctx)
	if a.opts.Concurrency > 0 {
		g.SetLimit(a.opts.Concurrency)
	}

	for i, r := range relations {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			report, err := a.analyze(r)
			if err != nil {
				return err
			}
			reports[i] = report
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return reports, nil
}

func (a *Analyzer) analyze(r fd.Relation) (Report, error) {
	rel := r.Preview()
	logger := a.logger.With("relation", rel.Name)

	if err := rel.Validate(); err != nil {
		return Report{}, err
	}

	report := Report{Relation: rel}

	if err := CheckWidth(rel, a.opts.MaxAttributes); err != nil {
		report.Skipped = true
		report.Err = err
		logger.Warn("skipping relation", "attributes", rel.Columns.Len(), "limit", a.opts.MaxAttributes)
		return report, nil
	}

	logger.Debug("analyzing relation", "attributes", rel.Columns.Len(), "dependencies", len(rel.FDs))

	target := a.opts.Target
	summary, err := fd.Summarize(rel, target)
	if err != nil {
		return Report{}, fmt.Errorf("failed to analyze %s: %w", rel.Name, err)
	}
	report.Keys = summary.Keys
	report.NonKey = summary.NonKey
	report.Cover = summary.Cover
	report.NormalForm = summary.NormalForm
	if summary.Decomposition != nil {
		report.Target = target
		report.Decomposition = summary.Decomposition
		logger.Debug("normalized relation", "target", target.String(), "relations", len(report.Decomposition))
	}

	logger.Debug("classified relation", "normal_form", report.NormalForm.String(), "keys", len(report.Keys))
	return report, nil
}
