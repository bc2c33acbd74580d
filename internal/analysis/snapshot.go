package analysis

import (
	"context"
	"fmt"

	"github.com/tordrt/fdnorm/internal/db"
	"github.com/tordrt/fdnorm/internal/fd"
	"github.com/tordrt/fdnorm/internal/schema"
)

// Snapshot builds the relation of a table.
//
// Every primary key and unique constraint contributes a key dependency
// key -> (columns \ key); constraints covering a smaller constraint, or every
// column, add nothing. Catalog dependencies come first so a catalog entry
// wins over an equal key dependency, and their IsKey flag is taken from the
// storage uniqueness of their LHS.
func Snapshot(table *schema.Table, catalog []fd.Dependency) fd.Relation {
	columns := fd.NewAttrSet(table.ColumnNames()...)

	deps := make([]fd.Dependency, 0, len(catalog)+len(table.Indexes)+1)
	for _, dep := range catalog {
		dep.IsKey = table.IsUnique(dep.LHS.Slice())
		deps = append(deps, dep)
	}

	for _, key := range minimalKeys(table.UniqueKeys()) {
		rest := columns.Minus(key)
		if rest.Empty() {
			continue
		}
		dep := fd.NewDependency(key, rest)
		dep.IsKey = true
		deps = append(deps, dep)
	}

	return fd.NewRelation(table.Name, columns, deps...)
}

// minimalKeys drops duplicate keys and keys that contain another key
func minimalKeys(keys [][]string) []fd.AttrSet {
	sets := make([]fd.AttrSet, 0, len(keys))
	for _, k := range keys {
		sets = append(sets, fd.NewAttrSet(k...))
	}

	var minimal []fd.AttrSet
	for i, s := range sets {
		redundant := false
		for j, other := range sets {
			if i == j || !s.ContainsAll(other) {
				continue
			}
			// strict superset, or an equal key seen earlier
			if !s.Equal(other) || j < i {
				redundant = true
				break
			}
		}
		if !redundant {
			minimal = append(minimal, s)
		}
	}
	return minimal
}

// LoadRelations extracts tables from src and snapshots each one together
// with its catalog dependencies. The catalog tables are created if missing.
func LoadRelations(ctx context.Context, src db.Source, tables []string) ([]fd.Relation, error) {
	s, err := src.Extract(ctx, tables)
	if err != nil {
		return nil, fmt.Errorf("failed to extract schema: %w", err)
	}

	catalog := src.Catalog()
	if err := catalog.Ensure(ctx); err != nil {
		return nil, err
	}

	relations := make([]fd.Relation, 0, len(s.Tables))
	for i := range s.Tables {
		table := &s.Tables[i]
		deps, err := catalog.Load(ctx, table.Name)
		if err != nil {
			return nil, err
		}
		relations = append(relations, Snapshot(table, deps))
	}
	return relations, nil
}
