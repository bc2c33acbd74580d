package db

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/tordrt/fdnorm/internal/fd"
)

var postgresCatalogSchema = []string{
	`CREATE TABLE IF NOT EXISTS fd_catalog (
		id SERIAL PRIMARY KEY,
		relation_name TEXT NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS fd_catalog_lhs (
		fd_id INTEGER NOT NULL REFERENCES fd_catalog(id),
		attr TEXT NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS fd_catalog_rhs (
		fd_id INTEGER NOT NULL REFERENCES fd_catalog(id),
		attr TEXT NOT NULL
	)`,
}

// PostgresCatalog is a Catalog stored in PostgreSQL
type PostgresCatalog struct {
	conn *pgx.Conn
}

// NewPostgresCatalog creates a catalog on conn
func NewPostgresCatalog(conn *pgx.Conn) *PostgresCatalog {
	return &PostgresCatalog{conn: conn}
}

func (c *PostgresCatalog) Ensure(ctx context.Context) error {
	for _, stmt := range postgresCatalogSchema {
		if _, err := c.conn.Exec(ctx, stmt); err != nil {
			return fmt.Errorf("failed to create catalog tables: %w", err)
		}
	}
	return nil
}

func (c *PostgresCatalog) Load(ctx context.Context, relation string) ([]fd.Dependency, error) {
	rows, err := c.conn.Query(ctx, loadQuery("$1", "$1"), relation)
	if err != nil {
		return nil, fmt.Errorf("failed to load catalog for %s: %w", relation, err)
	}
	defer rows.Close()

	collected := newCatalogRows()
	for rows.Next() {
		var id int
		var side, attr string
		if err := rows.Scan(&id, &side, &attr); err != nil {
			return nil, err
		}
		collected.add(id, side, attr)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	return collected.dependencies(), nil
}

func (c *PostgresCatalog) Add(ctx context.Context, relation string, dep fd.Dependency) (int, error) {
	if err := checkStorable(dep); err != nil {
		return 0, err
	}

	tx, err := c.conn.Begin(ctx)
	if err != nil {
		return 0, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	var id int
	err = tx.QueryRow(ctx, "INSERT INTO fd_catalog (relation_name) VALUES ($1) RETURNING id", relation).Scan(&id)
	if err != nil {
		return 0, fmt.Errorf("failed to insert dependency: %w", err)
	}

	for attr := range dep.LHS.All() {
		if _, err := tx.Exec(ctx, "INSERT INTO fd_catalog_lhs (fd_id, attr) VALUES ($1, $2)", id, attr); err != nil {
			return 0, fmt.Errorf("failed to insert determinant %s: %w", attr, err)
		}
	}
	for attr := range dep.RHS.All() {
		if _, err := tx.Exec(ctx, "INSERT INTO fd_catalog_rhs (fd_id, attr) VALUES ($1, $2)", id, attr); err != nil {
			return 0, fmt.Errorf("failed to insert dependent %s: %w", attr, err)
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return 0, fmt.Errorf("failed to commit dependency: %w", err)
	}
	return id, nil
}

func (c *PostgresCatalog) Remove(ctx context.Context, relation string, id int) error {
	tx, err := c.conn.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	if _, err := tx.Exec(ctx, "DELETE FROM fd_catalog_lhs WHERE fd_id = $1", id); err != nil {
		return fmt.Errorf("failed to delete determinant: %w", err)
	}
	if _, err := tx.Exec(ctx, "DELETE FROM fd_catalog_rhs WHERE fd_id = $1", id); err != nil {
		return fmt.Errorf("failed to delete dependent: %w", err)
	}
	tag, err := tx.Exec(ctx, "DELETE FROM fd_catalog WHERE id = $1 AND relation_name = $2", id, relation)
	if err != nil {
		return fmt.Errorf("failed to delete dependency: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("%w: %s #%d", ErrDependencyNotFound, relation, id)
	}

	return tx.Commit(ctx)
}
