package fd

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type derivedView struct {
	Name    string
	Columns string
	FDs     []string
	Origin  string
}

func view(rels []DerivedRelation) []derivedView {
	out := make([]derivedView, 0, len(rels))
	for _, r := range rels {
		out = append(out, derivedView{
			Name:    r.Name,
			Columns: r.Columns.String(),
			FDs:     depStrings(r.FDs),
			Origin:  r.OriginFD.String(),
		})
	}
	return out
}

func TestSynthesize3NF(t *testing.T) {
	tests := []struct {
		name string
		rel  Relation
		want []derivedView
	}{
		{
			name: "transitive through composite key",
			rel:  rel(t, "r", "A B C D", "A B -> C", "C -> D"),
			want: []derivedView{
				{Name: "r_1", Columns: "A, B, C", FDs: []string{"A B -> C"}, Origin: "A B -> C"},
				{Name: "r_2", Columns: "C, D", FDs: []string{"C -> D"}, Origin: "C -> D"},
			},
		},
		{
			name: "chain",
			rel:  rel(t, "r", "A B C", "A -> B", "B -> C"),
			want: []derivedView{
				{Name: "r_1", Columns: "A, B", FDs: []string{"A -> B"}, Origin: "A -> B"},
				{Name: "r_2", Columns: "B, C", FDs: []string{"B -> C"}, Origin: "B -> C"},
			},
		},
		{
			name: "key relation added",
			rel:  rel(t, "r", "A B C", "A -> B"),
			want: []derivedView{
				{Name: "r_1", Columns: "A, B", FDs: []string{"A -> B"}, Origin: "A -> B"},
				{Name: "r_2", Columns: "A, C", FDs: []string{"A C -> A C"}, Origin: "A C -> A C"},
			},
		},
		{
			name: "contained relation dropped",
			rel:  rel(t, "r", "A B C", "A B -> C", "C -> B"),
			want: []derivedView{
				{Name: "r_1", Columns: "A, B, C", FDs: []string{"A B -> C", "C -> B"}, Origin: "A B -> C"},
			},
		},
		{
			name: "no dependencies",
			rel:  rel(t, "r", "A B"),
			want: []derivedView{
				{Name: "r_1", Columns: "A, B", FDs: []string{"A B -> A B"}, Origin: "A B -> A B"},
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Synthesize3NF(tt.rel)
			require.NoError(t, err)
			assert.Equal(t, tt.want, view(got))
			for _, d := range got {
				assert.Equal(t, "r", d.OriginName)
				assert.True(t, d.OriginFD.IsKey)
			}
		})
	}
}

func TestSynthesize3NFMarksOriginDependency(t *testing.T) {
	got, err := Synthesize3NF(rel(t, "r", "A B C", "A B -> C", "C -> B"))
	require.NoError(t, err)
	require.Len(t, got, 1)
	require.Len(t, got[0].FDs, 2)

	assert.True(t, got[0].FDs[0].IsKey, "A B -> C is the origin dependency")
	assert.False(t, got[0].FDs[1].IsKey, "C -> B is not a key dependency")
}

func TestDecompose2NF(t *testing.T) {
	tests := []struct {
		name string
		rel  Relation
		want []derivedView
	}{
		{
			name: "partial dependency",
			rel:  rel(t, "r", "A B C D", "A B -> D", "A -> C"),
			want: []derivedView{
				{Name: "r_1", Columns: "A, B, D", FDs: []string{"A B -> D"}, Origin: "A B -> D"},
				{Name: "r_2", Columns: "A, C", FDs: []string{"A -> C"}, Origin: "A -> C"},
			},
		},
		{
			name: "two key subsets",
			rel:  rel(t, "r", "A B C D E", "A B -> E", "A -> C", "B -> D"),
			want: []derivedView{
				{Name: "r_1", Columns: "A, B, E", FDs: []string{"A B -> E"}, Origin: "A B -> E"},
				{Name: "r_2", Columns: "B, D", FDs: []string{"B -> D"}, Origin: "B -> D"},
				{Name: "r_3", Columns: "A, C", FDs: []string{"A -> C"}, Origin: "A -> C"},
			},
		},
		{
			name: "already in 2NF",
			rel:  rel(t, "r", "A B C D", "A B -> C", "C -> D"),
			want: []derivedView{
				{Name: "r_1", Columns: "A, B, C, D", FDs: []string{"A B -> C", "C -> D"}, Origin: "A B -> C D"},
			},
		},
		{
			name: "no dependencies",
			rel:  rel(t, "r", "A B"),
			want: []derivedView{
				{Name: "r_1", Columns: "A, B", FDs: []string{}, Origin: "A B -> A B"},
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Decompose2NF(tt.rel)
			require.NoError(t, err)
			assert.Equal(t, tt.want, view(got))
		})
	}
}

func TestDecompose2NFSplitsOnlyByOriginalKeys(t *testing.T) {
	// B -> E is partial within the split keyed by {B, C}
	r := rel(t, "r", "A B C D E", "B C -> D E", "B -> E")

	parts, err := Decompose2NF(r)
	require.NoError(t, err)
	require.Len(t, parts, 2)
	assert.Equal(t, "B, C, D, E", parts[1].Columns.String())

	nf, err := Classify(parts[1].Relation)
	require.NoError(t, err)
	assert.Equal(t, First, nf)
}

func TestDecompose2NFMarksKeyDependencies(t *testing.T) {
	got, err := Decompose2NF(rel(t, "r", "A B C D", "A B -> C", "C -> D"))
	require.NoError(t, err)
	require.Len(t, got, 1)
	require.Len(t, got[0].FDs, 2)

	assert.True(t, got[0].FDs[0].IsKey)
	assert.False(t, got[0].FDs[1].IsKey)
}

func TestDecompose2NFLeavesInputUntouched(t *testing.T) {
	r := rel(t, "r", "A B C D", "A B -> D", "A -> C")
	columns := r.Columns.String()
	deps := depStrings(r.FDs)

	_, err := Decompose2NF(r)
	require.NoError(t, err)

	assert.Equal(t, columns, r.Columns.String())
	assert.Equal(t, deps, depStrings(r.FDs))
}

func TestDecompositionRejectsBadInput(t *testing.T) {
	emptyRHS := rel(t, "r", "A B", "A -> B")
	emptyRHS.FDs = append(emptyRHS.FDs, NewDependency(set("B"), AttrSet{}))

	emptyLHS := rel(t, "r", "A B", "A -> B")
	emptyLHS.FDs = append(emptyLHS.FDs, NewDependency(AttrSet{}, set("B")))

	for _, form := range []NormalForm{Second, Third} {
		_, err := Normalize(emptyRHS, form)
		assert.ErrorIs(t, err, ErrDegenerateDependency, form.String())

		_, err = Normalize(emptyLHS, form)
		assert.ErrorIs(t, err, ErrInvalidRelation, form.String())

		_, err = Normalize(Relation{Name: "r"}, form)
		assert.ErrorIs(t, err, ErrInvalidRelation, form.String())

		_, err = Normalize(rel(t, "r", "A", "A -> B"), form)
		assert.ErrorIs(t, err, ErrInvalidRelation, form.String())
	}

	_, err := Normalize(rel(t, "r", "A B", "A -> B"), BCNF)
	assert.ErrorIs(t, err, ErrUnsupportedForm)
}

func TestDecompositionSoundness(t *testing.T) {
	for _, r := range sampleRelations(t) {
		for _, form := range []NormalForm{Second, Third} {
			t.Run(r.Name+"/"+form.String(), func(t *testing.T) {
				parts, err := Normalize(r, form)
				require.NoError(t, err)
				require.NotEmpty(t, parts)

				covered := AttrSet{}
				for _, p := range parts {
					covered = covered.Union(p.Columns)
					for _, d := range p.FDs {
						assert.True(t, p.Columns.ContainsAll(d.Attributes()), "%s holds foreign dependency %s", p.Name, d)
					}
				}
				assert.True(t, covered.Equal(r.Columns), "columns %s", covered)
				assert.True(t, losslessByChase(r.Columns, parts, r.FDs), "join is lossy")
			})
		}
	}
}

func TestSynthesize3NFPreservesDependencies(t *testing.T) {
	for _, r := range sampleRelations(t) {
		t.Run(r.Name, func(t *testing.T) {
			parts, err := Synthesize3NF(r)
			require.NoError(t, err)

			var union []Dependency
			for _, p := range parts {
				union = append(union, p.FDs...)
			}
			for _, d := range r.FDs {
				assert.True(t, Closure(d.LHS, union).ContainsAll(d.RHS), "%s is lost", d)
			}

			for _, p := range parts {
				nf, err := Classify(p.Relation)
				require.NoError(t, err)
				assert.True(t, nf >= Third, "%s is %s", p.Name, nf)
			}
		})
	}
}
