package fd

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

func set(s string) AttrSet {
	return NewAttrSet(strings.Fields(s)...)
}

func dep(t testing.TB, s string) Dependency {
	t.Helper()
	d, err := ParseDependency(s)
	require.NoError(t, err)
	return d
}

func rel(t testing.TB, name, columns string, deps ...string) Relation {
	t.Helper()
	fds := make([]Dependency, 0, len(deps))
	for _, s := range deps {
		fds = append(fds, dep(t, s))
	}
	return NewRelation(name, set(columns), fds...)
}

func depStrings(deps []Dependency) []string {
	out := make([]string, 0, len(deps))
	for _, d := range deps {
		out = append(out, d.String())
	}
	return out
}

func setStrings(sets []AttrSet) []string {
	out := make([]string, 0, len(sets))
	for _, s := range sets {
		out = append(out, s.String())
	}
	return out
}

// sampleRelations is shared by the property tests
func sampleRelations(t testing.TB) []Relation {
	return []Relation{
		rel(t, "chain", "A B C", "A -> B", "B -> C"),
		rel(t, "transitive", "A B C D", "A B -> C", "C -> D"),
		rel(t, "partial", "A B C D", "A B -> D", "A -> C"),
		rel(t, "overlap", "A B C", "A B -> C", "C -> B"),
		rel(t, "redundant", "A B C", "A -> B", "B -> C", "A -> C", "A B -> C"),
		rel(t, "cyclic", "A B C D E", "A -> B", "B -> C", "C -> A", "A D -> E"),
		rel(t, "wide", "A B C D E F", "A -> B C", "C D -> E", "E -> F", "B -> D"),
		rel(t, "free", "A B"),
	}
}

// losslessByChase runs the tableau chase of the decomposition under deps and
// reports whether some row ends up fully distinguished
func losslessByChase(columns AttrSet, parts []DerivedRelation, deps []Dependency) bool {
	cols := columns.Slice()
	index := make(map[string]int, len(cols))
	for i, c := range cols {
		index[c] = i
	}

	// symbol 0 is distinguished; every other cell starts with a unique symbol
	rows := make([][]int, len(parts))
	next := 1
	for i, p := range parts {
		rows[i] = make([]int, len(cols))
		for j, c := range cols {
			if p.Columns.Contains(c) {
				continue
			}
			rows[i][j] = next
			next++
		}
	}

	for changed := true; changed; {
		changed = false
		for _, d := range deps {
			for i := range rows {
				for k := i + 1; k < len(rows); k++ {
					agree := true
					for a := range d.LHS.All() {
						if rows[i][index[a]] != rows[k][index[a]] {
							agree = false
							break
						}
					}
					if !agree {
						continue
					}
					for b := range d.RHS.All() {
						j := index[b]
						x, y := rows[i][j], rows[k][j]
						if x == y {
							continue
						}
						keep, drop := min(x, y), max(x, y)
						for r := range rows {
							if rows[r][j] == drop {
								rows[r][j] = keep
							}
						}
						changed = true
					}
				}
			}
		}
	}

	for _, row := range rows {
		distinguished := true
		for _, v := range row {
			if v != 0 {
				distinguished = false
				break
			}
		}
		if distinguished {
			return true
		}
	}
	return false
}
