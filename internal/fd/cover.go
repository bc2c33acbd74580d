package fd

// CanonicalCover reduces the dependencies of r to an equivalent minimal set.
//
// The reduction runs four steps on a private copy:
//  1. left reduction: drop every LHS attribute a of X -> Y with Y ⊆ (X\{a})+
//  2. right reduction: drop every RHS attribute b of X -> Y that is still
//     derivable from X once removed, using the current working set
//  3. drop dependencies whose RHS became empty
//  4. merge dependencies with identical LHS
//
// Dependencies and attributes are visited in their sorted order, so the
// result is reproducible. r itself is not modified.
func CanonicalCover(r Relation) ([]Dependency, error) {
	if err := r.Validate(); err != nil {
		return nil, err
	}
	return canonicalCover(r.FDs), nil
}

func canonicalCover(deps []Dependency) []Dependency {
	work := SortDependencies(deps)

	for i := range work {
		if work[i].RHS.Empty() {
			continue
		}
		for a := range work[i].LHS.All() {
			reduced := work[i].LHS.Without(a)
			if reduced.Empty() {
				continue
			}
			if Closure(reduced, work).ContainsAll(work[i].RHS) {
				work[i].LHS = reduced
			}
		}
	}

	for i := range work {
		for b := range work[i].RHS.All() {
			keep := work[i].RHS
			work[i].RHS = keep.Without(b)
			if !Closure(work[i].LHS, work).Contains(b) {
				work[i].RHS = keep
			}
		}
	}

	nonEmpty := work[:0]
	for _, d := range work {
		if !d.RHS.Empty() {
			nonEmpty = append(nonEmpty, d)
		}
	}

	return MergeByLHS(nonEmpty)
}
