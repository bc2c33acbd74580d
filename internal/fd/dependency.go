package fd

import (
	"fmt"
	"slices"
	"strings"
)

// Unpersisted is the CatalogID of a dependency that has not been stored yet
const Unpersisted = -1

// Dependency is a functional dependency LHS -> RHS
type Dependency struct {
	LHS AttrSet
	RHS AttrSet
	// IsKey marks the LHS as a key of the owning relation
	IsKey bool
	// CatalogID correlates the dependency with its catalog entry.
	// The engine never interprets it.
	CatalogID int
}

// NewDependency creates an unpersisted dependency lhs -> rhs
func NewDependency(lhs, rhs AttrSet) Dependency {
	return Dependency{LHS: lhs, RHS: rhs, CatalogID: Unpersisted}
}

// Compare orders dependencies by LHS, then by RHS
func (d Dependency) Compare(o Dependency) int {
	if c := d.LHS.Compare(o.LHS); c != 0 {
		return c
	}
	return d.RHS.Compare(o.RHS)
}

// Trivial reports whether the RHS is contained in the LHS
func (d Dependency) Trivial() bool {
	return d.LHS.ContainsAll(d.RHS)
}

// Attributes returns LHS ∪ RHS
func (d Dependency) Attributes() AttrSet {
	return d.LHS.Union(d.RHS)
}

func (d Dependency) String() string {
	return strings.Join(d.LHS.attrs, " ") + " -> " + strings.Join(d.RHS.attrs, " ")
}

// ParseDependency parses "A, B -> C". Attributes on either side may be
// separated by commas or whitespace.
func ParseDependency(s string) (Dependency, error) {
	lhs, rhs, ok := strings.Cut(s, "->")
	if !ok {
		return Dependency{}, fmt.Errorf("invalid dependency %q: missing \"->\"", s)
	}
	left := parseAttrList(lhs)
	right := parseAttrList(rhs)
	if left.Empty() || right.Empty() {
		return Dependency{}, fmt.Errorf("invalid dependency %q: %w", s, ErrDegenerateDependency)
	}
	return NewDependency(left, right), nil
}

func parseAttrList(s string) AttrSet {
	fields := strings.FieldsFunc(s, func(r rune) bool {
		return r == ',' || r == ' ' || r == '\t'
	})
	return NewAttrSet(fields...)
}

// SortDependencies returns the dependencies ordered by Compare with
// duplicates removed. Of two equal dependencies the first one wins.
func SortDependencies(deps []Dependency) []Dependency {
	out := slices.Clone(deps)
	slices.SortStableFunc(out, Dependency.Compare)
	return slices.CompactFunc(out, func(a, b Dependency) bool {
		return a.Compare(b) == 0
	})
}

// SplitRHS rewrites every dependency into single-attribute RHS form
func SplitRHS(deps []Dependency) []Dependency {
	var out []Dependency
	for _, d := range deps {
		for _, b := range d.RHS.attrs {
			out = append(out, NewDependency(d.LHS, fromSorted([]string{b})))
		}
	}
	return SortDependencies(out)
}

// MergeByLHS unions the RHS of all dependencies sharing an LHS. A merged
// dependency keeps the CatalogID of the first member and is a key dependency
// if any member was.
func MergeByLHS(deps []Dependency) []Dependency {
	sorted := SortDependencies(deps)
	var out []Dependency
	for _, d := range sorted {
		if n := len(out); n > 0 && out[n-1].LHS.Equal(d.LHS) {
			out[n-1].RHS = out[n-1].RHS.Union(d.RHS)
			out[n-1].IsKey = out[n-1].IsKey || d.IsKey
			continue
		}
		out = append(out, d)
	}
	return out
}
