package db

import (
	"context"
	"fmt"
	"strings"

	"github.com/tordrt/fdnorm/internal/schema"
)

// Driver names returned by ParseURL
const (
	DriverPostgres = "postgres"
	DriverMySQL    = "mysql"
	DriverSQLite   = "sqlite"
)

// Source is an open database that can describe its tables and holds their
// functional dependency catalog
type Source interface {
	// Extract reads the named tables, or every table when tables is empty
	Extract(ctx context.Context, tables []string) (*schema.Schema, error)
	Catalog() Catalog
	Close(ctx context.Context) error
}

// ParseURL detects the driver of a database URL and returns the connection
// string the driver expects
func ParseURL(url string) (driver, connectionStr string, err error) {
	if url == "" {
		return "", "", fmt.Errorf("database URL is required")
	}

	if strings.HasPrefix(url, "postgres://") || strings.HasPrefix(url, "postgresql://") {
		return DriverPostgres, url, nil
	}

	if strings.HasPrefix(url, "mysql://") {
		// Strip mysql:// prefix for the Go MySQL driver
		return DriverMySQL, strings.TrimPrefix(url, "mysql://"), nil
	}

	if strings.HasPrefix(url, "sqlite://") {
		// Strip sqlite:// prefix to get file path
		return DriverSQLite, strings.TrimPrefix(url, "sqlite://"), nil
	}

	return "", "", fmt.Errorf("invalid database URL scheme (must start with postgres://, mysql://, or sqlite://)")
}

// Open connects to the database behind url. schemaName selects the
// PostgreSQL schema or MySQL database; empty means "public" for PostgreSQL
// and the DSN's database for MySQL. SQLite ignores it.
func Open(ctx context.Context, url, schemaName string) (Source, error) {
	driver, connStr, err := ParseURL(url)
	if err != nil {
		return nil, err
	}

	switch driver {
	case DriverPostgres:
		client, err := NewPostgresClient(ctx, connStr)
		if err != nil {
			return nil, fmt.Errorf("failed to connect to PostgreSQL: %w", err)
		}
		if schemaName == "" {
			schemaName = "public"
		}
		return &postgresSource{
			client:    client,
			extractor: NewPostgresExtractor(client, schemaName),
			catalog:   NewPostgresCatalog(client.GetConnection()),
		}, nil

	case DriverMySQL:
		if schemaName == "" {
			schemaName, err = ParseDatabaseName(connStr)
			if err != nil {
				return nil, fmt.Errorf("failed to determine database name: %w (please specify a schema)", err)
			}
		}
		client, err := NewMySQLClient(ctx, connStr)
		if err != nil {
			return nil, fmt.Errorf("failed to connect to MySQL: %w", err)
		}
		return &mysqlSource{
			client:    client,
			extractor: NewMySQLExtractor(client, schemaName),
			catalog:   NewSQLCatalog(client.GetDB(), MySQLDialect),
		}, nil

	default:
		client, err := NewSQLiteClient(ctx, connStr)
		if err != nil {
			return nil, fmt.Errorf("failed to connect to SQLite: %w", err)
		}
		return &sqliteSource{
			client:    client,
			extractor: NewSQLiteExtractor(client),
			catalog:   NewSQLCatalog(client.GetDB(), SQLiteDialect),
		}, nil
	}
}
