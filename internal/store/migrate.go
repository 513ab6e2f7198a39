package store

import (
	"context"
	"fmt"
	"strings"

	"github.com/roach88/filterql/internal/model"
)

// Migrate creates the model's table if it does not exist and records the
// column list in filterql_migrations. Existing tables are left unchanged.
func (s *Store) Migrate(ctx context.Context, m *model.Model) error {
	ddl := s.createTableSQL(m)

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("migrate %s: begin: %w", m.Name, err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, ddl); err != nil {
		return fmt.Errorf("migrate %s: %w", m.Name, err)
	}

	columns, err := marshalColumns(m.Columns())
	if err != nil {
		return fmt.Errorf("migrate %s: %w", m.Name, err)
	}

	// REPLACE INTO is understood by both SQLite and MySQL
	if _, err := tx.ExecContext(ctx,
		`REPLACE INTO filterql_migrations (model, table_name, columns) VALUES (?, ?, ?)`,
		m.Name, s.dialect.table(m), columns,
	); err != nil {
		return fmt.Errorf("migrate %s: record: %w", m.Name, err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("migrate %s: commit: %w", m.Name, err)
	}
	return nil
}

// MigratedColumns returns the column list recorded for a model, or nil if
// it was never migrated.
func (s *Store) MigratedColumns(ctx context.Context, modelName string) ([]string, error) {
	var raw string
	err := s.db.QueryRowContext(ctx,
		`SELECT columns FROM filterql_migrations WHERE model = ?`, modelName,
	).Scan(&raw)
	if err != nil {
		if isNoRows(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("read migration %s: %w", modelName, err)
	}
	return unmarshalColumns(raw)
}

// createTableSQL renders the DDL for m, one column per line in field order.
//
//	CREATE TABLE IF NOT EXISTS users (
//	    user_id CHAR(36) NOT NULL,
//	    username VARCHAR(255),
//	    PRIMARY KEY (user_id)
//	)
func (s *Store) createTableSQL(m *model.Model) string {
	lines := make([]string, 0, len(m.Fields)+1)
	for _, f := range m.Fields {
		line := f.Name + " " + s.dialect.columnType(f)
		if f.PrimaryKey {
			line += " NOT NULL"
		}
		lines = append(lines, line)
	}

	var keys []string
	for _, f := range m.Fields {
		if f.PrimaryKey {
			keys = append(keys, f.Name)
		}
	}
	if len(keys) > 0 {
		lines = append(lines, "PRIMARY KEY ("+strings.Join(keys, ", ")+")")
	}

	return fmt.Sprintf("CREATE TABLE IF NOT EXISTS %s (\n    %s\n)",
		s.dialect.table(m), strings.Join(lines, ",\n    "))
}
