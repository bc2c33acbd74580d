package fd

// Closure returns the attribute closure of attrs under deps: the largest set
// reachable by repeatedly adding the RHS of every dependency whose LHS is
// already contained. Passes over deps repeat until one adds nothing, which
// happens after at most |attributes| passes.
func Closure(attrs AttrSet, deps []Dependency) AttrSet {
	result := attrs
	for changed := true; changed; {
		changed = false
		for _, d := range deps {
			if result.ContainsAll(d.LHS) && !result.ContainsAll(d.RHS) {
				result = result.Union(d.RHS)
				changed = true
			}
		}
	}
	return result
}

// Closure returns the attribute closure of attrs under the relation's dependencies
func (r Relation) Closure(attrs AttrSet) AttrSet {
	return Closure(attrs, r.FDs)
}

// IsKey reports whether candidate functionally determines every column of r.
// Minimality is not checked; see CandidateKeys.
func IsKey(candidate AttrSet, r Relation) bool {
	return r.Closure(candidate).ContainsAll(r.Columns)
}
