package schema

import "slices"

// Schema represents the tables read from a database
type Schema struct {
	Tables []Table
}

// Table represents a database table
type Table struct {
	Name       string
	Columns    []Column
	Indexes    []Index
	PrimaryKey []string
}

// Column represents a table column
type Column struct {
	Name     string
	Type     string
	Nullable bool
}

// Index represents a database index
type Index struct {
	Name     string
	Columns  []string
	IsUnique bool
}

// ColumnNames returns the column names in ordinal order
func (t *Table) ColumnNames() []string {
	names := make([]string, 0, len(t.Columns))
	for _, c := range t.Columns {
		names = append(names, c.Name)
	}
	return names
}

// UniqueKeys returns the column sets guaranteed unique by storage: the
// primary key first, then every unique index
func (t *Table) UniqueKeys() [][]string {
	var keys [][]string
	if len(t.PrimaryKey) > 0 {
		keys = append(keys, t.PrimaryKey)
	}
	for _, idx := range t.Indexes {
		if idx.IsUnique && len(idx.Columns) > 0 {
			keys = append(keys, idx.Columns)
		}
	}
	return keys
}

// IsUnique reports whether storage guarantees uniqueness of attrs, i.e.
// some primary key or unique index covers a subset of them
func (t *Table) IsUnique(attrs []string) bool {
	for _, key := range t.UniqueKeys() {
		covered := true
		for _, c := range key {
			if !slices.Contains(attrs, c) {
				covered = false
				break
			}
		}
		if covered {
			return true
		}
	}
	return false
}
