// Package workspace holds the preview and commit cycle of one relation.
//
// Proposed and withdrawn dependencies live in the relation's overlays until
// Commit writes them to the catalog. State changes are published as events
// on a buffered channel.
package workspace

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"slices"
	"sync"

	"github.com/google/uuid"

	"github.com/tordrt/fdnorm/internal/analysis"
	"github.com/tordrt/fdnorm/internal/db"
	"github.com/tordrt/fdnorm/internal/fd"
)

var (
	// ErrUnknownDependency is returned when withdrawing a dependency the
	// relation does not hold
	ErrUnknownDependency = errors.New("dependency not held by relation")

	// ErrNotInCatalog is returned when withdrawing a dependency derived from
	// storage constraints rather than stored in the catalog
	ErrNotInCatalog = errors.New("dependency is not stored in the catalog")
)

const defaultEventBuffer = 32

// Option configures a Workspace
type Option func(*Workspace)

// WithLogger sets the structured logger
func WithLogger(logger *slog.Logger) Option {
	return func(w *Workspace) {
		if logger != nil {
			w.logger = logger
		}
	}
}

// WithEventBuffer sets the capacity of the events channel
func WithEventBuffer(n int) Option {
	return func(w *Workspace) {
		w.buffer = n
	}
}

// WithMaxAttributes bounds the width of relations the workspace classifies
// or normalizes; 0 means no limit
func WithMaxAttributes(n int) Option {
	return func(w *Workspace) {
		w.maxAttributes = n
	}
}

// Workspace is a preview/commit session over one relation
type Workspace struct {
	mu       sync.Mutex
	id       string
	catalog  db.Catalog
	relation fd.Relation
	pending  []fd.DerivedRelation

	maxAttributes int
	buffer        int
	events        chan Event
	logger        *slog.Logger
}

// New opens a workspace on relation, committing to catalog
func New(catalog db.Catalog, relation fd.Relation, opts ...Option) *Workspace {
	w := &Workspace{
		id:       uuid.NewString(),
		catalog:  catalog,
		relation: relation.Clone(),
		buffer:   defaultEventBuffer,
		logger:   slog.New(slog.DiscardHandler),
	}
	for _, opt := range opts {
		opt(w)
	}
	w.events = make(chan Event, max(w.buffer, 0))
	w.logger = w.logger.With("session", w.id, "relation", relation.Name)
	return w
}

// ID returns the session id
func (w *Workspace) ID() string {
	return w.id
}

// Events returns the channel state changes are published on. Events are
// dropped when nobody drains it.
func (w *Workspace) Events() <-chan Event {
	return w.events
}

// Relation returns the committed relation, overlays included
func (w *Workspace) Relation() fd.Relation {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.relation.Clone()
}

// Propose adds dep to the proposed overlay
func (w *Workspace) Propose(dep fd.Dependency) error {
	return w.mutate(EventProposed, func() (bool, error) {
		if dep.LHS.Empty() || dep.RHS.Empty() {
			return false, fmt.Errorf("cannot propose %q: %w", dep, fd.ErrDegenerateDependency)
		}
		if !w.relation.Columns.ContainsAll(dep.Attributes()) {
			unknown := dep.Attributes().Minus(w.relation.Columns)
			return false, fmt.Errorf("cannot propose %q: unknown attributes %s: %w", dep, unknown, fd.ErrInvalidRelation)
		}

		same := func(o fd.Dependency) bool { return o.Compare(dep) == 0 }

		// proposing a withdrawn dependency cancels its removal
		if i := slices.IndexFunc(w.relation.Removed, same); i >= 0 {
			w.relation.Removed = slices.Delete(slices.Clone(w.relation.Removed), i, i+1)
			return true, nil
		}
		if slices.ContainsFunc(w.relation.FDs, same) || slices.ContainsFunc(w.relation.Additional, same) {
			return false, nil
		}

		dep.CatalogID = fd.Unpersisted
		dep.IsKey = false
		w.relation = w.relation.WithAdditional(dep)
		w.logger.Debug("proposed dependency", "dependency", dep.String())
		return true, nil
	})
}

// Withdraw takes dep back. A proposed dependency leaves the proposed
// overlay; a committed one is marked for removal.
func (w *Workspace) Withdraw(dep fd.Dependency) error {
	return w.mutate(EventWithdrawn, func() (bool, error) {
		same := func(o fd.Dependency) bool { return o.Compare(dep) == 0 }

		if i := slices.IndexFunc(w.relation.Additional, same); i >= 0 {
			w.relation.Additional = slices.Delete(slices.Clone(w.relation.Additional), i, i+1)
			w.logger.Debug("withdrew proposal", "dependency", dep.String())
			return true, nil
		}

		i := slices.IndexFunc(w.relation.FDs, same)
		if i < 0 {
			return false, fmt.Errorf("cannot withdraw %q: %w", dep, ErrUnknownDependency)
		}
		held := w.relation.FDs[i]
		if held.CatalogID == fd.Unpersisted {
			return false, fmt.Errorf("cannot withdraw %q: %w", dep, ErrNotInCatalog)
		}
		if slices.ContainsFunc(w.relation.Removed, func(o fd.Dependency) bool { return o.CatalogID == held.CatalogID }) {
			return false, nil
		}

		w.relation = w.relation.WithRemoved(held)
		w.logger.Debug("marked dependency for removal", "dependency", dep.String(), "catalog_id", held.CatalogID)
		return true, nil
	})
}

// Preview returns the relation with its overlays applied
func (w *Workspace) Preview() fd.Relation {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.relation.Preview()
}

// NormalForm classifies the preview. Relations wider than the attribute
// limit yield analysis.ErrComplexityExceeded.
func (w *Workspace) NormalForm() (fd.NormalForm, error) {
	return w.classify(w.Preview())
}

// CommittedNormalForm classifies the relation without its overlays
func (w *Workspace) CommittedNormalForm() (fd.NormalForm, error) {
	return w.classify(w.Relation())
}

// Normalize decomposes the preview into form. The result is kept as the
// pending decomposition until Discard.
func (w *Workspace) Normalize(form fd.NormalForm) ([]fd.DerivedRelation, error) {
	preview := w.Preview()
	if err := analysis.CheckWidth(preview, w.maxAttributes); err != nil {
		return nil, err
	}
	derived, err := fd.Normalize(preview, form)
	if err != nil {
		return nil, err
	}

	_ = w.mutate(EventNormalized, func() (bool, error) {
		w.pending = derived
		return true, nil
	})
	w.logger.Debug("normalized preview", "target", form.String(), "relations", len(derived))
	return slices.Clone(derived), nil
}

// Pending returns the decomposition computed by the last Normalize
func (w *Workspace) Pending() []fd.DerivedRelation {
	w.mu.Lock()
	defer w.mu.Unlock()
	return slices.Clone(w.pending)
}

// Commit writes the overlays to the catalog: proposals first, then
// removals. Each entry that reaches the catalog leaves its overlay right
// away, so after a failure Commit can be retried with what is left.
func (w *Workspace) Commit(ctx context.Context) error {
	return w.mutate(EventCommitted, func() (bool, error) {
		name := w.relation.Name

		for len(w.relation.Additional) > 0 {
			dep := w.relation.Additional[0]
			id, err := w.catalog.Add(ctx, name, dep)
			if err != nil {
				return false, fmt.Errorf("failed to commit %q: %w", dep, err)
			}
			dep.CatalogID = id
			w.relation.FDs = fd.SortDependencies(append(slices.Clone(w.relation.FDs), dep))
			w.relation.Additional = slices.Clone(w.relation.Additional[1:])
			w.logger.Debug("stored dependency", "dependency", dep.String(), "catalog_id", id)
		}

		for len(w.relation.Removed) > 0 {
			dep := w.relation.Removed[0]
			if err := w.catalog.Remove(ctx, name, dep.CatalogID); err != nil && !errors.Is(err, db.ErrDependencyNotFound) {
				return false, fmt.Errorf("failed to remove %q: %w", dep, err)
			}
			w.relation.FDs = slices.DeleteFunc(slices.Clone(w.relation.FDs), func(o fd.Dependency) bool {
				return o.CatalogID == dep.CatalogID
			})
			w.relation.Removed = slices.Clone(w.relation.Removed[1:])
			w.logger.Debug("removed dependency", "dependency", dep.String(), "catalog_id", dep.CatalogID)
		}
		return true, nil
	})
}

// Discard drops the overlays and the pending decomposition
func (w *Workspace) Discard() {
	_ = w.mutate(EventDiscarded, func() (bool, error) {
		w.relation.Additional = nil
		w.relation.Removed = nil
		w.pending = nil
		return true, nil
	})
}

// mutate runs fn under mu. When fn reports a change, the event is
// published after mu is released.
func (w *Workspace) mutate(kind EventKind, fn func() (bool, error)) error {
	w.mu.Lock()
	changed, err := fn()
	preview := w.relation.Preview()
	w.mu.Unlock()

	if changed {
		w.emit(kind, preview)
	}
	return err
}

func (w *Workspace) classify(r fd.Relation) (fd.NormalForm, error) {
	if err := analysis.CheckWidth(r, w.maxAttributes); err != nil {
		return 0, err
	}
	return fd.Classify(r)
}

// emit publishes an event without blocking. Relations wider than the
// attribute limit are not classified.
func (w *Workspace) emit(kind EventKind, preview fd.Relation) {
	ev := Event{Kind: kind, Session: w.id, Relation: preview.Name}
	if nf, err := w.classify(preview); err == nil {
		ev.NormalForm = nf
	}

	select {
	case w.events <- ev:
	default:
		w.logger.Debug("dropped event", "kind", kind.String())
	}
}
