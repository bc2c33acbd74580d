package fd

import (
	"iter"
	"slices"
	"strings"
)

// AttrSet is an immutable, lexicographically ordered set of attribute names.
// The backing slice is never modified after construction, so AttrSet values
// can be copied and shared freely.
type AttrSet struct {
	attrs []string
}

// NewAttrSet builds a set from the given names, sorting and de-duplicating them
func NewAttrSet(names ...string) AttrSet {
	if len(names) == 0 {
		return AttrSet{}
	}
	attrs := slices.Clone(names)
	slices.Sort(attrs)
	return AttrSet{attrs: slices.Compact(attrs)}
}

// fromSorted wraps an already sorted, duplicate-free slice without copying
func fromSorted(attrs []string) AttrSet {
	return AttrSet{attrs: attrs}
}

// Len returns the number of attributes in the set
func (s AttrSet) Len() int {
	return len(s.attrs)
}

// Empty reports whether the set has no attributes
func (s AttrSet) Empty() bool {
	return len(s.attrs) == 0
}

// Contains reports whether a is a member of the set
func (s AttrSet) Contains(a string) bool {
	_, found := slices.BinarySearch(s.attrs, a)
	return found
}

// ContainsAll reports whether s is a superset of other
func (s AttrSet) ContainsAll(other AttrSet) bool {
	i := 0
	for _, a := range other.attrs {
		for i < len(s.attrs) && s.attrs[i] < a {
			i++
		}
		if i == len(s.attrs) || s.attrs[i] != a {
			return false
		}
	}
	return true
}

// Union returns s ∪ other
func (s AttrSet) Union(other AttrSet) AttrSet {
	if other.Empty() {
		return s
	}
	if s.Empty() {
		return other
	}
	out := make([]string, 0, len(s.attrs)+len(other.attrs))
	i, j := 0, 0
	for i < len(s.attrs) && j < len(other.attrs) {
		switch {
		case s.attrs[i] < other.attrs[j]:
			out = append(out, s.attrs[i])
			i++
		case s.attrs[i] > other.attrs[j]:
			out = append(out, other.attrs[j])
			j++
		default:
			out = append(out, s.attrs[i])
			i++
			j++
		}
	}
	out = append(out, s.attrs[i:]...)
	out = append(out, other.attrs[j:]...)
	return fromSorted(out)
}

// Intersect returns s ∩ other
func (s AttrSet) Intersect(other AttrSet) AttrSet {
	var out []string
	for _, a := range s.attrs {
		if other.Contains(a) {
			out = append(out, a)
		}
	}
	return fromSorted(out)
}

// Minus returns s \ other
func (s AttrSet) Minus(other AttrSet) AttrSet {
	if other.Empty() {
		return s
	}
	var out []string
	for _, a := range s.attrs {
		if !other.Contains(a) {
			out = append(out, a)
		}
	}
	return fromSorted(out)
}

// With returns s ∪ {a}
func (s AttrSet) With(a string) AttrSet {
	return s.Union(fromSorted([]string{a}))
}

// Without returns s \ {a}
func (s AttrSet) Without(a string) AttrSet {
	idx, found := slices.BinarySearch(s.attrs, a)
	if !found {
		return s
	}
	out := make([]string, 0, len(s.attrs)-1)
	out = append(out, s.attrs[:idx]...)
	out = append(out, s.attrs[idx+1:]...)
	return fromSorted(out)
}

// Equal reports whether both sets hold the same attributes
func (s AttrSet) Equal(other AttrSet) bool {
	return slices.Equal(s.attrs, other.attrs)
}

// Compare orders sets attribute by attribute; a set that is a proper prefix
// of the other sorts first.
func (s AttrSet) Compare(other AttrSet) int {
	return slices.Compare(s.attrs, other.attrs)
}

// Slice returns a copy of the attributes in order
func (s AttrSet) Slice() []string {
	return slices.Clone(s.attrs)
}

// All iterates the attributes in order
func (s AttrSet) All() func(yield func(string) bool) {
	return func(yield func(string) bool) {
		for _, a := range s.attrs {
			if !yield(a) {
				return
			}
		}
	}
}

func (s AttrSet) String() string {
	return strings.Join(s.attrs, ", ")
}

// key returns a string usable as a map key for the set
func (s AttrSet) key() string {
	return strings.Join(s.attrs, "\x00")
}

// powerSet yields every subset of s ordered by size, then lexicographically.
// There are 2^|s| subsets; only the current one is held in memory.
func (s AttrSet) powerSet() iter.Seq[AttrSet] {
	return func(yield func(AttrSet) bool) {
		for size := 0; size <= len(s.attrs); size++ {
			if !yieldCombinations(s.attrs, size, yield) {
				return
			}
		}
	}
}

// yieldCombinations yields all size-k subsets of attrs in lexicographic
// order. It returns false once yield asks to stop.
func yieldCombinations(attrs []string, k int, yield func(AttrSet) bool) bool {
	idx := make([]int, k)
	for i := range idx {
		idx[i] = i
	}
	for {
		combo := make([]string, k)
		for i, p := range idx {
			combo[i] = attrs[p]
		}
		if !yield(fromSorted(combo)) {
			return false
		}

		// advance to the next combination
		i := k - 1
		for i >= 0 && idx[i] == len(attrs)-k+i {
			i--
		}
		if i < 0 {
			return true
		}
		idx[i]++
		for j := i + 1; j < k; j++ {
			idx[j] = idx[j-1] + 1
		}
	}
}
