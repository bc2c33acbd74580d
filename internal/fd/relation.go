package fd

import (
	"fmt"
	"slices"
)

// Relation is a snapshot of a table's attributes and functional dependencies.
//
// Additional and Removed are preview overlays: dependencies proposed but not
// committed, and committed dependencies marked for deletion.
type Relation struct {
	Name       string
	Columns    AttrSet
	FDs        []Dependency
	Additional []Dependency
	Removed    []Dependency
}

// NewRelation creates a relation with the given columns and dependencies
func NewRelation(name string, columns AttrSet, deps ...Dependency) Relation {
	return Relation{
		Name:    name,
		Columns: columns,
		FDs:     SortDependencies(deps),
	}
}

// DerivedRelation is a relation produced by a decomposition
type DerivedRelation struct {
	Relation
	// OriginFD is the dependency the relation was synthesized from
	OriginFD Dependency
	// OriginName is the name of the decomposed relation
	OriginName string
}

// Clone returns a copy that shares no slices with r
func (r Relation) Clone() Relation {
	return Relation{
		Name:       r.Name,
		Columns:    r.Columns,
		FDs:        slices.Clone(r.FDs),
		Additional: slices.Clone(r.Additional),
		Removed:    slices.Clone(r.Removed),
	}
}

// WithAdditional returns a copy of r with dep added to the proposed overlay
func (r Relation) WithAdditional(dep Dependency) Relation {
	out := r.Clone()
	out.Additional = append(out.Additional, dep)
	return out
}

// WithRemoved returns a copy of r with dep marked for removal
func (r Relation) WithRemoved(dep Dependency) Relation {
	out := r.Clone()
	out.Removed = append(out.Removed, dep)
	return out
}

// Preview returns the relation as it would look with its overlays committed:
// FDs ∪ Additional \ Removed. Persisted dependencies are removed by
// CatalogID, unpersisted ones by value. The result carries no overlays.
func (r Relation) Preview() Relation {
	removedIDs := make(map[int]bool)
	removedVals := make([]Dependency, 0, len(r.Removed))
	for _, d := range r.Removed {
		if d.CatalogID != Unpersisted {
			removedIDs[d.CatalogID] = true
		} else {
			removedVals = append(removedVals, d)
		}
	}

	all := make([]Dependency, 0, len(r.FDs)+len(r.Additional))
	all = append(all, r.FDs...)
	all = append(all, r.Additional...)

	kept := all[:0]
	for _, d := range all {
		if d.CatalogID != Unpersisted && removedIDs[d.CatalogID] {
			continue
		}
		if slices.ContainsFunc(removedVals, func(o Dependency) bool { return o.Compare(d) == 0 }) {
			continue
		}
		kept = append(kept, d)
	}

	return Relation{
		Name:    r.Name,
		Columns: r.Columns,
		FDs:     SortDependencies(kept),
	}
}

// Validate checks that the relation has columns and that every dependency
// has a non-empty LHS drawn from those columns
func (r Relation) Validate() error {
	if r.Columns.Empty() {
		return fmt.Errorf("relation %s has no attributes: %w", r.Name, ErrInvalidRelation)
	}
	for _, d := range r.FDs {
		if d.LHS.Empty() {
			return fmt.Errorf("relation %s: dependency %q has an empty left side: %w", r.Name, d, ErrInvalidRelation)
		}
		if !r.Columns.ContainsAll(d.Attributes()) {
			unknown := d.Attributes().Minus(r.Columns)
			return fmt.Errorf("relation %s: dependency %q references unknown attributes %s: %w", r.Name, d, unknown, ErrInvalidRelation)
		}
	}
	return nil
}

// validateForDecomposition additionally rejects dependencies with an empty RHS
func (r Relation) validateForDecomposition() error {
	if err := r.Validate(); err != nil {
		return err
	}
	for _, d := range r.FDs {
		if d.RHS.Empty() {
			return fmt.Errorf("relation %s: dependency %q has an empty right side: %w", r.Name, d, ErrDegenerateDependency)
		}
	}
	return nil
}
