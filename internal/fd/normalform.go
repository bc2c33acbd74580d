package fd

import (
	"fmt"
	"strings"
)

// NormalForm is the highest normal form a relation satisfies
type NormalForm int

const (
	First NormalForm = iota + 1
	Second
	Third
	BCNF
)

func (nf NormalForm) String() string {
	switch nf {
	case First:
		return "1NF"
	case Second:
		return "2NF"
	case Third:
		return "3NF"
	case BCNF:
		return "BCNF"
	default:
		return fmt.Sprintf("NormalForm(%d)", int(nf))
	}
}

// ParseNormalForm accepts "1nf", "2nf", "3nf" and "bcnf" in any case
func ParseNormalForm(s string) (NormalForm, error) {
	switch strings.ToUpper(strings.ReplaceAll(strings.TrimSpace(s), " ", "")) {
	case "1NF", "1":
		return First, nil
	case "2NF", "2":
		return Second, nil
	case "3NF", "3":
		return Third, nil
	case "BCNF":
		return BCNF, nil
	}
	return 0, fmt.Errorf("unknown normal form %q", s)
}

// Classify returns the highest normal form of r. The checks form a chain:
// 3NF is only tested once 2NF holds, BCNF only once 3NF holds.
func Classify(r Relation) (NormalForm, error) {
	if err := r.Validate(); err != nil {
		return 0, err
	}
	keys := candidateKeys(r)
	return classify(r, keys, nonKeyAttributes(r.Columns, keys)), nil
}

func classify(r Relation, keys []AttrSet, nonKey AttrSet) NormalForm {
	if !is2NF(r, keys, nonKey) {
		return First
	}
	if !is3NF(r, nonKey) {
		return Second
	}
	if !isBCNF(r, keys) {
		return Third
	}
	return BCNF
}

// is2NF fails when a proper subset of some candidate key determines a
// non-key attribute
func is2NF(r Relation, keys []AttrSet, nonKey AttrSet) bool {
	for _, k := range keys {
		for a := range k.All() {
			y := k.Without(a)
			if !r.Closure(y).Intersect(nonKey).Empty() {
				return false
			}
		}
	}
	return true
}

// is3NF requires every single-RHS dependency X -> b to be trivial, to have
// b in some candidate key, or to have a superkey X
func is3NF(r Relation, nonKey AttrSet) bool {
	for _, d := range SplitRHS(r.FDs) {
		if d.Trivial() {
			continue
		}
		if !nonKey.ContainsAll(d.RHS) {
			continue
		}
		if IsKey(d.LHS, r) {
			continue
		}
		return false
	}
	return true
}

// isBCNF requires the determinant of every non-trivial dependency to be a
// candidate key
func isBCNF(r Relation, keys []AttrSet) bool {
	isCandidate := make(map[string]bool, len(keys))
	for _, k := range keys {
		isCandidate[k.key()] = true
	}
	for a := range r.Columns.All() {
		for _, d := range r.FDs {
			if !d.RHS.Contains(a) || d.LHS.Contains(a) {
				continue
			}
			if !isCandidate[d.LHS.key()] {
				return false
			}
		}
	}
	return true
}
