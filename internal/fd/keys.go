package fd

import "fmt"

// CandidateKeys returns every minimal attribute set whose closure covers all
// columns of r, ordered by size and then lexicographically.
//
// The search enumerates the full power set of the columns and therefore costs
// O(2^n) closure computations for n columns. No attribute cap is applied here;
// callers that need bounded latency must limit the relation width themselves.
func CandidateKeys(r Relation) ([]AttrSet, error) {
	if err := r.Validate(); err != nil {
		return nil, err
	}
	return candidateKeys(r), nil
}

func candidateKeys(r Relation) []AttrSet {
	var keys []AttrSet
	for s := range r.Columns.powerSet() {
		if !IsKey(s, r) {
			continue
		}
		minimal := true
		for a := range s.All() {
			if IsKey(s.Without(a), r) {
				minimal = false
				break
			}
		}
		if minimal {
			keys = append(keys, s)
		}
	}
	return keys
}

// NonKeyAttributes returns the columns of r that belong to no candidate key
func NonKeyAttributes(r Relation) (AttrSet, error) {
	keys, err := CandidateKeys(r)
	if err != nil {
		return AttrSet{}, err
	}
	return nonKeyAttributes(r.Columns, keys), nil
}

func nonKeyAttributes(columns AttrSet, keys []AttrSet) AttrSet {
	prime := AttrSet{}
	for _, k := range keys {
		prime = prime.Union(k)
	}
	return columns.Minus(prime)
}

// IsSuperkey reports whether attrs is a (not necessarily minimal) key of r.
// It returns an error if r is invalid or attrs is not a subset of its columns.
func IsSuperkey(attrs AttrSet, r Relation) (bool, error) {
	if err := r.Validate(); err != nil {
		return false, err
	}
	if !r.Columns.ContainsAll(attrs) {
		return false, fmt.Errorf("attributes %s are not columns of %s: %w", attrs.Minus(r.Columns), r.Name, ErrInvalidRelation)
	}
	return IsKey(attrs, r), nil
}
