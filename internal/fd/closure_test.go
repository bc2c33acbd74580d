package fd

import (
	"slices"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestClosure(t *testing.T) {
	r := rel(t, "r", "A B C D E", "A -> B", "B -> C", "C D -> E")

	tests := []struct {
		attrs string
		want  string
	}{
		{attrs: "A", want: "A, B, C"},
		{attrs: "B", want: "B, C"},
		{attrs: "A D", want: "A, B, C, D, E"},
		{attrs: "D", want: "D"},
		{attrs: "", want: ""},
	}

	for _, tt := range tests {
		t.Run(tt.attrs, func(t *testing.T) {
			assert.Equal(t, tt.want, r.Closure(set(tt.attrs)).String())
		})
	}
}

func TestClosureIgnoresDependencyOrder(t *testing.T) {
	forward := []Dependency{dep(t, "A -> B"), dep(t, "B -> C"), dep(t, "C -> D")}
	backward := []Dependency{dep(t, "C -> D"), dep(t, "B -> C"), dep(t, "A -> B")}

	assert.Equal(t, Closure(set("A"), forward), Closure(set("A"), backward))
}

func TestClosureChainScenario(t *testing.T) {
	r := rel(t, "r", "A B C", "A -> B", "B -> C")
	assert.Equal(t, "A, B, C", r.Closure(set("A")).String())
	assert.True(t, IsKey(set("A"), r))
	assert.False(t, IsKey(set("B"), r))
}

func TestClosureIsIdempotent(t *testing.T) {
	for _, r := range sampleRelations(t) {
		t.Run(r.Name, func(t *testing.T) {
			for a := range r.Columns.powerSet() {
				once := r.Closure(a)
				assert.True(t, once.Equal(r.Closure(once)), "closure of %s", a)
				assert.True(t, once.ContainsAll(a), "closure of %s must be extensive", a)
			}
		})
	}
}

func TestClosureIsMonotone(t *testing.T) {
	for _, r := range sampleRelations(t) {
		t.Run(r.Name, func(t *testing.T) {
			subsets := slices.Collect(r.Columns.powerSet())
			for _, a := range subsets {
				for _, b := range subsets {
					if !b.ContainsAll(a) {
						continue
					}
					assert.True(t, r.Closure(b).ContainsAll(r.Closure(a)), "%s ⊆ %s", a, b)
				}
			}
		})
	}
}
