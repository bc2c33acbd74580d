//go:build integration
// +build integration

package db_test

import (
	"context"
	"os"
	"testing"

	"github.com/tordrt/fdnorm/internal/db"
)

func mysqlDSN() string {
	if dsn := os.Getenv("MYSQL_TEST_URL"); dsn != "" {
		return dsn
	}
	return "root:testpassword@tcp(localhost:3306)/testdb"
}

func TestMySQLExtraction(t *testing.T) {
	ctx := context.Background()

	client, err := db.NewMySQLClient(ctx, mysqlDSN())
	if err != nil {
		t.Fatalf("Failed to connect to MySQL: %v", err)
	}
	defer client.Close()

	extractor := db.NewMySQLExtractor(client, "testdb")

	s, err := extractor.ExtractSchema(ctx, []string{"users", "products", "orders", "order_items"})
	if err != nil {
		t.Fatalf("Failed to extract schema: %v", err)
	}

	verifyTablesExist(t, s, []string{"users", "products", "orders", "order_items"})

	table := findTable(s, "users")
	if table == nil {
		t.Fatal("Users table not found")
	}
	verifyPrimaryKey(t, table, []string{"id"})
	verifyColumns(t, table, []string{"id", "username", "email", "status", "created_at"})
	verifyUnique(t, s, "users", "username")
	verifyIndex(t, s, "products", "idx_category", []string{"category"})
}

func TestMySQLCatalog(t *testing.T) {
	ctx := context.Background()

	source, err := db.Open(ctx, "mysql://"+mysqlDSN(), "")
	if err != nil {
		t.Fatalf("Failed to open MySQL: %v", err)
	}
	defer source.Close(ctx)

	verifyCatalogRoundTrip(t, ctx, source.Catalog())
}
