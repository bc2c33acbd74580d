package db

import (
	"context"
	"fmt"

	"github.com/tordrt/fdnorm/internal/schema"
)

// MySQLExtractor handles schema extraction from MySQL
type MySQLExtractor struct {
	client     *MySQLClient
	schemaName string
}

// NewMySQLExtractor creates a new MySQL schema extractor
func NewMySQLExtractor(client *MySQLClient, schemaName string) *MySQLExtractor {
	return &MySQLExtractor{
		client:     client,
		schemaName: schemaName,
	}
}

// ExtractSchema extracts the tables named in tables.
// If tables is empty, extracts all tables in the database except the catalog.
func (e *MySQLExtractor) ExtractSchema(ctx context.Context, tables []string) (*schema.Schema, error) {
	tableNames, err := e.getTableNames(ctx, tables)
	if err != nil {
		return nil, fmt.Errorf("failed to get table names: %w", err)
	}

	return extractTables(ctx, tableNames, e.extractTable)
}

// getTableNames returns the list of tables to extract
func (e *MySQLExtractor) getTableNames(ctx context.Context, requestedTables []string) ([]string, error) {
	if len(requestedTables) > 0 {
		return requestedTables, nil
	}

	query := `
		SELECT table_name
		FROM information_schema.tables
		WHERE table_schema = ? AND table_type = 'BASE TABLE'
		ORDER BY table_name
	`

	rows, err := e.client.GetDB().QueryContext(ctx, query, e.schemaName)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var tables []string
	for rows.Next() {
		var tableName string
		if err := rows.Scan(&tableName); err != nil {
			return nil, err
		}
		if !isCatalogTable(tableName) {
			tables = append(tables, tableName)
		}
	}

	return tables, rows.Err()
}

// extractTable extracts columns, primary key and indexes of a single table
func (e *MySQLExtractor) extractTable(ctx context.Context, tableName string) (*schema.Table, error) {
	table := &schema.Table{Name: tableName}

	columns, err := e.extractColumns(ctx, tableName)
	if err != nil {
		return nil, fmt.Errorf("failed to extract columns: %w", err)
	}
	if len(columns) == 0 {
		return nil, fmt.Errorf("table %s not found in database %s", tableName, e.schemaName)
	}
	table.Columns = columns

	indexes, pk, err := e.extractIndexes(ctx, tableName)
	if err != nil {
		return nil, fmt.Errorf("failed to extract indexes: %w", err)
	}
	table.PrimaryKey = pk
	table.Indexes = indexes

	return table, nil
}

// extractColumns extracts column information for a table
func (e *MySQLExtractor) extractColumns(ctx context.Context, tableName string) ([]schema.Column, error) {
	query := `
		SELECT column_name, column_type, is_nullable
		FROM information_schema.columns
		WHERE table_schema = ? AND table_name = ?
		ORDER BY ordinal_position
	`

	rows, err := e.client.GetDB().QueryContext(ctx, query, e.schemaName, tableName)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var columns []schema.Column
	for rows.Next() {
		var col schema.Column
		var nullable string
		if err := rows.Scan(&col.Name, &col.Type, &nullable); err != nil {
			return nil, err
		}
		col.Nullable = nullable == "YES"
		columns = append(columns, col)
	}

	return columns, rows.Err()
}

// extractIndexes reads information_schema.statistics once and splits the
// PRIMARY index from the others
func (e *MySQLExtractor) extractIndexes(ctx context.Context, tableName string) ([]schema.Index, []string, error) {
	query := `
		SELECT index_name, non_unique, column_name
		FROM information_schema.statistics
		WHERE table_schema = ? AND table_name = ?
		ORDER BY index_name, seq_in_index
	`

	rows, err := e.client.GetDB().QueryContext(ctx, query, e.schemaName, tableName)
	if err != nil {
		return nil, nil, err
	}
	defer rows.Close()

	var pk []string
	var indexes []schema.Index
	for rows.Next() {
		var indexName, columnName string
		var nonUnique int
		if err := rows.Scan(&indexName, &nonUnique, &columnName); err != nil {
			return nil, nil, err
		}

		if indexName == "PRIMARY" {
			pk = append(pk, columnName)
			continue
		}

		if n := len(indexes); n > 0 && indexes[n-1].Name == indexName {
			indexes[n-1].Columns = append(indexes[n-1].Columns, columnName)
			continue
		}
		indexes = append(indexes, schema.Index{
			Name:     indexName,
			Columns:  []string{columnName},
			IsUnique: nonUnique == 0,
		})
	}

	return indexes, pk, rows.Err()
}
