package analysis

import "github.com/tordrt/fdnorm/internal/fd"

// Report is the analysis result of one relation
type Report struct {
	// Relation is the analyzed relation with its overlays applied
	Relation fd.Relation
	Keys     []fd.AttrSet
	NonKey   fd.AttrSet
	Cover    []fd.Dependency

	NormalForm fd.NormalForm

	// Target and Decomposition are set when the relation was below the
	// requested normal form
	Target        fd.NormalForm
	Decomposition []fd.DerivedRelation

	// Skipped relations carry only Relation and Err
	Skipped bool
	Err     error
}

// Name returns the name of the analyzed relation
func (r *Report) Name() string {
	return r.Relation.Name
}

// Decomposed reports whether the report holds a decomposition
func (r *Report) Decomposed() bool {
	return len(r.Decomposition) > 0
}
