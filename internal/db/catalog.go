package db

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/tordrt/fdnorm/internal/fd"
)

// ErrDependencyNotFound is returned when removing a catalog entry that does
// not exist for the relation
var ErrDependencyNotFound = errors.New("dependency not found in catalog")

// Catalog persists the functional dependencies declared for each relation.
//
// Each dependency is one row in fd_catalog with its sides in fd_catalog_lhs
// and fd_catalog_rhs. Add and Remove run in a single transaction.
type Catalog interface {
	// Ensure creates the catalog tables if they do not exist
	Ensure(ctx context.Context) error
	// Load returns the dependencies of relation in insertion order, with
	// CatalogID set
	Load(ctx context.Context, relation string) ([]fd.Dependency, error)
	// Add stores dep for relation and returns its catalog id
	Add(ctx context.Context, relation string, dep fd.Dependency) (int, error)
	// Remove deletes the entry id of relation
	Remove(ctx context.Context, relation string, id int) error
}

// Dialect holds the statements that differ between database/sql backends
type Dialect struct {
	Name   string
	Schema []string
}

// SQLiteDialect creates the catalog in a SQLite database
var SQLiteDialect = Dialect{
	Name: DriverSQLite,
	Schema: []string{
		`CREATE TABLE IF NOT EXISTS fd_catalog (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
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
	},
}

// MySQLDialect creates the catalog in a MySQL database
var MySQLDialect = Dialect{
	Name: DriverMySQL,
	Schema: []string{
		`CREATE TABLE IF NOT EXISTS fd_catalog (
			id INT AUTO_INCREMENT PRIMARY KEY,
			relation_name VARCHAR(255) NOT NULL
		)`,
		`CREATE TABLE IF NOT EXISTS fd_catalog_lhs (
			fd_id INT NOT NULL,
			attr VARCHAR(255) NOT NULL,
			FOREIGN KEY (fd_id) REFERENCES fd_catalog(id)
		)`,
		`CREATE TABLE IF NOT EXISTS fd_catalog_rhs (
			fd_id INT NOT NULL,
			attr VARCHAR(255) NOT NULL,
			FOREIGN KEY (fd_id) REFERENCES fd_catalog(id)
		)`,
	},
}

// loadQuery returns both sides of every entry of a relation, one attribute
// per row. Placeholders are positional so $n dialects can reuse it.
func loadQuery(p1, p2 string) string {
	return `
		SELECT c.id, 'L', l.attr
		FROM fd_catalog c JOIN fd_catalog_lhs l ON l.fd_id = c.id
		WHERE c.relation_name = ` + p1 + `
		UNION ALL
		SELECT c.id, 'R', r.attr
		FROM fd_catalog c JOIN fd_catalog_rhs r ON r.fd_id = c.id
		WHERE c.relation_name = ` + p2 + `
		ORDER BY 1
	`
}

// catalogRows assembles dependencies from (id, side, attr) rows
type catalogRows struct {
	order []int
	lhs   map[int][]string
	rhs   map[int][]string
}

func newCatalogRows() *catalogRows {
	return &catalogRows{lhs: make(map[int][]string), rhs: make(map[int][]string)}
}

func (c *catalogRows) add(id int, side, attr string) {
	if _, seen := c.lhs[id]; !seen {
		if _, seen := c.rhs[id]; !seen {
			c.order = append(c.order, id)
		}
	}
	if side == "L" {
		c.lhs[id] = append(c.lhs[id], attr)
	} else {
		c.rhs[id] = append(c.rhs[id], attr)
	}
}

func (c *catalogRows) dependencies() []fd.Dependency {
	deps := make([]fd.Dependency, 0, len(c.order))
	for _, id := range c.order {
		// an entry missing a side is unusable; Add never writes one
		if len(c.lhs[id]) == 0 || len(c.rhs[id]) == 0 {
			continue
		}
		dep := fd.NewDependency(fd.NewAttrSet(c.lhs[id]...), fd.NewAttrSet(c.rhs[id]...))
		dep.CatalogID = id
		deps = append(deps, dep)
	}
	return deps
}

func checkStorable(dep fd.Dependency) error {
	if dep.LHS.Empty() || dep.RHS.Empty() {
		return fmt.Errorf("%w: %s", fd.ErrDegenerateDependency, dep)
	}
	return nil
}

// SQLCatalog is a Catalog over database/sql (SQLite, MySQL)
type SQLCatalog struct {
	db      *sql.DB
	dialect Dialect
}

// NewSQLCatalog creates a catalog stored in db
func NewSQLCatalog(db *sql.DB, dialect Dialect) *SQLCatalog {
	return &SQLCatalog{db: db, dialect: dialect}
}

func (c *SQLCatalog) Ensure(ctx context.Context) error {
	for _, stmt := range c.dialect.Schema {
		if _, err := c.db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("failed to create catalog tables: %w", err)
		}
	}
	return nil
}

func (c *SQLCatalog) Load(ctx context.Context, relation string) ([]fd.Dependency, error) {
	rows, err := c.db.QueryContext(ctx, loadQuery("?", "?"), relation, relation)
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

func (c *SQLCatalog) Add(ctx context.Context, relation string, dep fd.Dependency) (int, error) {
	if err := checkStorable(dep); err != nil {
		return 0, err
	}

	tx, err := c.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	res, err := tx.ExecContext(ctx, "INSERT INTO fd_catalog (relation_name) VALUES (?)", relation)
	if err != nil {
		return 0, fmt.Errorf("failed to insert dependency: %w", err)
	}
	id64, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("failed to read dependency id: %w", err)
	}
	id := int(id64)

	for attr := range dep.LHS.All() {
		if _, err := tx.ExecContext(ctx, "INSERT INTO fd_catalog_lhs (fd_id, attr) VALUES (?, ?)", id, attr); err != nil {
			return 0, fmt.Errorf("failed to insert determinant %s: %w", attr, err)
		}
	}
	for attr := range dep.RHS.All() {
		if _, err := tx.ExecContext(ctx, "INSERT INTO fd_catalog_rhs (fd_id, attr) VALUES (?, ?)", id, attr); err != nil {
			return 0, fmt.Errorf("failed to insert dependent %s: %w", attr, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("failed to commit dependency: %w", err)
	}
	return id, nil
}

func (c *SQLCatalog) Remove(ctx context.Context, relation string, id int) error {
	tx, err := c.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.ExecContext(ctx, "DELETE FROM fd_catalog_lhs WHERE fd_id = ?", id); err != nil {
		return fmt.Errorf("failed to delete determinant: %w", err)
	}
	if _, err := tx.ExecContext(ctx, "DELETE FROM fd_catalog_rhs WHERE fd_id = ?", id); err != nil {
		return fmt.Errorf("failed to delete dependent: %w", err)
	}
	res, err := tx.ExecContext(ctx, "DELETE FROM fd_catalog WHERE id = ? AND relation_name = ?", id, relation)
	if err != nil {
		return fmt.Errorf("failed to delete dependency: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return fmt.Errorf("%w: %s #%d", ErrDependencyNotFound, relation, id)
	}

	return tx.Commit()
}
