package store

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	_ "github.com/lib/pq"
	_ "github.com/mattn/go-sqlite3"
)

// SQLStore reads the maintenance log from a relational mirror. Supports
// sqlite (development) and postgres (shared deployments), the same dual-driver
// split used elsewhere in the stack.
type SQLStore struct {
	db    *sql.DB
	table string
}

// SQLConfig holds relational source configuration.
type SQLConfig struct {
	Driver string // sqlite or postgres
	// DSN is the connection string: a file path for sqlite, a postgres URL
	// otherwise.
	DSN   string
	Table string
}

// NewSQLStore opens a relational store.
func NewSQLStore(cfg SQLConfig) (*SQLStore, error) {
	if cfg.DSN == "" {
		return nil, fmt.Errorf("DSN is required")
	}
	if cfg.Table == "" {
		cfg.Table = "maintenance_log"
	}

	var driverName string
	switch cfg.Driver {
	case "sqlite":
		driverName = "sqlite3"
	case "postgres":
		driverName = "postgres"
	default:
		return nil, fmt.Errorf("unsupported driver: %s", cfg.Driver)
	}

	db, err := sql.Open(driverName, cfg.DSN)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	return &SQLStore{db: db, table: cfg.Table}, nil
}

// FetchAll selects the canonical columns from the mirror table in insertion
// order. All columns are read as text; parsing happens in FromRow.
func (s *SQLStore) FetchAll(ctx context.Context) ([]map[string]string, error) {
	cols := CanonicalColumns()
	quoted := make([]string, len(cols))
	for i, c := range cols {
		quoted[i] = fmt.Sprintf("%q", c)
	}

	query := fmt.Sprintf("SELECT %s FROM %q", strings.Join(quoted, ", "), s.table)

	rows, err := s.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("query %s: %w", s.table, err)
	}
	defer rows.Close()

	var out []map[string]string
	for rows.Next() {
		vals := make([]sql.NullString, len(cols))
		dest := make([]interface{}, len(cols))
		for i := range vals {
			dest[i] = &vals[i]
		}

		if err := rows.Scan(dest...); err != nil {
			return nil, fmt.Errorf("scan row: %w", err)
		}

		row := make(map[string]string, len(cols))
		for i, c := range cols {
			row[c] = vals[i].String
		}
		out = append(out, row)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate rows: %w", err)
	}

	return out, nil
}

// Close closes the underlying connection pool.
func (s *SQLStore) Close() error {
	return s.db.Close()
}

var _ Store = (*SQLStore)(nil)
