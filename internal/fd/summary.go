package fd

// Summary holds the properties of a relation derived from one candidate key
// search
type Summary struct {
	Keys       []AttrSet
	NonKey     AttrSet
	Cover      []Dependency
	NormalForm NormalForm
	// Decomposition is set when a target above NormalForm was requested
	Decomposition []DerivedRelation
}

// Summarize validates r and computes its keys, non-key attributes,
// canonical cover and normal form. When target is non-zero and above the
// normal form, r is also decomposed into target. Keys are enumerated once
// for all of these.
func Summarize(r Relation, target NormalForm) (Summary, error) {
	if err := r.Validate(); err != nil {
		return Summary{}, err
	}

	keys := candidateKeys(r)
	s := Summary{
		Keys:   keys,
		NonKey: nonKeyAttributes(r.Columns, keys),
		Cover:  canonicalCover(r.FDs),
	}
	s.NormalForm = classify(r, keys, s.NonKey)

	if target == 0 || s.NormalForm >= target {
		return s, nil
	}
	if err := r.validateForDecomposition(); err != nil {
		return Summary{}, err
	}
	derived, err := normalize(r, target, keys)
	if err != nil {
		return Summary{}, err
	}
	s.Decomposition = derived
	return s, nil
}
