package fd

import (
	"fmt"
	"slices"
)

// Normalize decomposes r into relations in the requested normal form.
// Only Second and Third are supported targets.
func Normalize(r Relation, form NormalForm) ([]DerivedRelation, error) {
	if err := r.validateForDecomposition(); err != nil {
		return nil, err
	}
	return normalize(r, form, candidateKeys(r))
}

func normalize(r Relation, form NormalForm, keys []AttrSet) ([]DerivedRelation, error) {
	switch form {
	case Second:
		return decompose2NF(r, keys), nil
	case Third:
		return synthesize3NF(r, keys), nil
	default:
		return nil, fmt.Errorf("cannot decompose into %s: %w", form, ErrUnsupportedForm)
	}
}

// Decompose2NF removes partial dependencies of non-key attributes on proper
// subsets of candidate keys.
//
// Every split moves the affected non-key attributes, together with the key
// subset that determines them, into a new relation; the remainder stays in
// the first derived relation. Relations contained in others are then
// dropped and the canonical cover of all dependencies is redistributed to
// the relations that hold every attribute of a dependency.
//
// The splits come from a single pass over the original candidate keys, so a
// derived relation may still be below 2NF with respect to its own keys.
// Classify the parts when every one of them has to be in 2NF.
func Decompose2NF(r Relation) ([]DerivedRelation, error) {
	if err := r.validateForDecomposition(); err != nil {
		return nil, err
	}
	return decompose2NF(r, candidateKeys(r)), nil
}

func decompose2NF(r Relation, keys []AttrSet) []DerivedRelation {
	nonKey := nonKeyAttributes(r.Columns, keys)

	retained := r.Columns
	var splits []DerivedRelation
	pool := slices.Clone(r.FDs)

	for _, x := range keys {
		for removed := range x.All() {
			y := x.Without(removed)
			moved := r.Closure(y).Intersect(nonKey).Intersect(retained)
			if moved.Empty() {
				continue
			}
			origin := NewDependency(y, moved)
			splits = append(splits, DerivedRelation{
				Relation: Relation{
					Columns: y.Union(moved),
					FDs:     []Dependency{origin},
				},
				OriginFD:   origin,
				OriginName: r.Name,
			})
			retained = retained.Minus(moved)
			pool = append(pool, origin)
		}
	}

	base := DerivedRelation{
		Relation:   Relation{Columns: retained},
		OriginFD:   keyDependency(keys[0], retained),
		OriginName: r.Name,
	}
	derived := append([]DerivedRelation{base}, splits...)
	for i := range derived {
		derived[i].Name = fmt.Sprintf("%s_%d", r.Name, i+1)
	}

	derived = dropContained(derived)
	distribute(derived, SplitRHS(canonicalCover(pool)))

	for i := range derived {
		rel := &derived[i].Relation
		rel.FDs = MergeByLHS(rel.FDs)
		for j := range rel.FDs {
			if IsKey(rel.FDs[j].LHS, *rel) {
				rel.FDs[j].IsKey = true
			}
		}
	}
	return derived
}

// Synthesize3NF builds a lossless, dependency-preserving 3NF decomposition
// from the canonical cover of r: one relation per cover dependency, plus a
// key relation when no synthesized relation contains a candidate key of r.
func Synthesize3NF(r Relation) ([]DerivedRelation, error) {
	if err := r.validateForDecomposition(); err != nil {
		return nil, err
	}
	return synthesize3NF(r, candidateKeys(r)), nil
}

func synthesize3NF(r Relation, keys []AttrSet) []DerivedRelation {
	cover := canonicalCover(r.FDs)

	single := SplitRHS(cover)
	var derived []DerivedRelation
	for _, dep := range cover {
		origin := dep
		origin.IsKey = true
		origin.CatalogID = Unpersisted

		rel := DerivedRelation{
			Relation:   Relation{Columns: dep.Attributes()},
			OriginFD:   origin,
			OriginName: r.Name,
		}
		for _, g := range single {
			if rel.Columns.ContainsAll(g.Attributes()) {
				rel.FDs = append(rel.FDs, g)
			}
		}
		rel.FDs = MergeByLHS(rel.FDs)
		for j := range rel.FDs {
			if rel.FDs[j].Compare(origin) == 0 {
				rel.FDs[j].IsKey = true
			}
		}
		derived = append(derived, rel)
	}

	if !containsAnyKey(derived, keys) {
		key := keys[0]
		origin := NewDependency(key, key)
		origin.IsKey = true
		derived = append(derived, DerivedRelation{
			Relation:   Relation{Columns: key, FDs: []Dependency{origin}},
			OriginFD:   origin,
			OriginName: r.Name,
		})
	}

	for i := range derived {
		derived[i].Name = fmt.Sprintf("%s_%d", r.Name, i+1)
	}
	return dropContained(derived)
}

// keyDependency returns key -> (columns \ key), or the identity key -> key
// when the key already spans the columns
func keyDependency(key, columns AttrSet) Dependency {
	rhs := columns.Minus(key)
	if rhs.Empty() {
		rhs = key
	}
	d := NewDependency(key, rhs)
	d.IsKey = true
	return d
}

func containsAnyKey(rels []DerivedRelation, keys []AttrSet) bool {
	for _, rel := range rels {
		for _, k := range keys {
			if rel.Columns.ContainsAll(k) {
				return true
			}
		}
	}
	return false
}

// dropContained removes every relation whose columns are a subset of an
// earlier kept relation's columns, or a proper subset of a later one's
func dropContained(rels []DerivedRelation) []DerivedRelation {
	removed := make([]bool, len(rels))
	for i := range rels {
		if removed[i] {
			continue
		}
		for j := range rels {
			if i == j || removed[j] {
				continue
			}
			if rels[i].Columns.ContainsAll(rels[j].Columns) {
				removed[j] = true
			}
		}
	}
	out := make([]DerivedRelation, 0, len(rels))
	for i, rel := range rels {
		if !removed[i] {
			out = append(out, rel)
		}
	}
	return out
}

// distribute replaces the dependencies of every relation with those deps
// whose attributes are all among the relation's columns
func distribute(rels []DerivedRelation, deps []Dependency) {
	for i := range rels {
		rels[i].FDs = nil
		for _, d := range deps {
			if rels[i].Columns.ContainsAll(d.Attributes()) {
				rels[i].FDs = append(rels[i].FDs, d)
			}
		}
	}
}
