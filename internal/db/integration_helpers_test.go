//go:build integration
// +build integration

package db_test

import (
	"context"
	"testing"

	"github.com/tordrt/fdnorm/internal/db"
	"github.com/tordrt/fdnorm/internal/fd"
	"github.com/tordrt/fdnorm/internal/schema"
)

// verifyTablesExist checks that all expected tables are present in the schema
func verifyTablesExist(t *testing.T, s *schema.Schema, expectedTables []string) {
	t.Helper()

	if len(s.Tables) != len(expectedTables) {
		t.Errorf("Expected %d tables, got %d", len(expectedTables), len(s.Tables))
	}

	tableMap := make(map[string]bool)
	for _, table := range s.Tables {
		tableMap[table.Name] = true
	}

	for _, tableName := range expectedTables {
		if !tableMap[tableName] {
			t.Errorf("Expected table %s not found in schema", tableName)
		}
	}
}

// verifyColumns checks that expected columns exist in a table
func verifyColumns(t *testing.T, table *schema.Table, expectedColumns []string) {
	t.Helper()

	columnMap := make(map[string]bool)
	for _, col := range table.Columns {
		columnMap[col.Name] = true
	}

	for _, colName := range expectedColumns {
		if !columnMap[colName] {
			t.Errorf("Expected column %s not found in %s table", colName, table.Name)
		}
	}
}

// verifyPrimaryKey checks that a table has the expected primary key
func verifyPrimaryKey(t *testing.T, table *schema.Table, expectedPK []string) {
	t.Helper()

	if len(table.PrimaryKey) != len(expectedPK) {
		t.Errorf("Expected primary key %v, got %v", expectedPK, table.PrimaryKey)
		return
	}

	for i, pk := range expectedPK {
		if table.PrimaryKey[i] != pk {
			t.Errorf("Expected primary key %v, got %v", expectedPK, table.PrimaryKey)
			return
		}
	}
}

// verifyUnique checks that storage guarantees uniqueness of columns
func verifyUnique(t *testing.T, s *schema.Schema, tableName string, columns ...string) {
	t.Helper()

	table := findTable(s, tableName)
	if table == nil {
		t.Fatalf("Table %s not found", tableName)
		return
	}

	if !table.IsUnique(columns) {
		t.Errorf("Expected %v to be unique in %s", columns, tableName)
	}
}

// verifyIndex checks that an index exists with the expected columns
func verifyIndex(t *testing.T, s *schema.Schema, tableName, indexName string, expectedColumns []string) {
	t.Helper()

	table := findTable(s, tableName)
	if table == nil {
		t.Fatalf("Table %s not found", tableName)
		return
	}

	for _, idx := range table.Indexes {
		if idx.Name == indexName {
			if len(idx.Columns) != len(expectedColumns) {
				t.Errorf("Expected index %s on %v, got %v", indexName, expectedColumns, idx.Columns)
				return
			}
			for i, col := range expectedColumns {
				if idx.Columns[i] != col {
					t.Errorf("Expected index %s on %v, got %v", indexName, expectedColumns, idx.Columns)
					return
				}
			}
			return
		}
	}

	t.Errorf("Expected index %s on %s table not found", indexName, tableName)
}

// verifyCatalogRoundTrip adds, loads and removes one dependency on users
func verifyCatalogRoundTrip(t *testing.T, ctx context.Context, catalog db.Catalog) {
	t.Helper()

	if err := catalog.Ensure(ctx); err != nil {
		t.Fatalf("Failed to ensure catalog: %v", err)
	}

	dep := fd.NewDependency(fd.NewAttrSet("email"), fd.NewAttrSet("username"))
	id, err := catalog.Add(ctx, "users", dep)
	if err != nil {
		t.Fatalf("Failed to add dependency: %v", err)
	}

	loaded, err := catalog.Load(ctx, "users")
	if err != nil {
		t.Fatalf("Failed to load catalog: %v", err)
	}
	found := false
	for _, d := range loaded {
		if d.CatalogID == id {
			found = true
			if d.Compare(dep) != 0 {
				t.Errorf("Expected %s, got %s", dep, d)
			}
		}
	}
	if !found {
		t.Errorf("Dependency #%d not loaded", id)
	}

	if err := catalog.Remove(ctx, "users", id); err != nil {
		t.Fatalf("Failed to remove dependency: %v", err)
	}
}

// findTable is a helper function to find a table by name in the schema
func findTable(s *schema.Schema, tableName string) *schema.Table {
	for i := range s.Tables {
		if s.Tables[i].Name == tableName {
			return &s.Tables[i]
		}
	}
	return nil
}
