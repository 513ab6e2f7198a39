package store

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/roach88/filterql/internal/model"
	"github.com/roach88/filterql/internal/querysql"
)

// Retrieve runs a compiled query against the model's table and returns the
// matching rows. Hidden fields are never selected.
//
// Returns an empty slice (not nil) when nothing matches.
func (s *Store) Retrieve(ctx context.Context, m *model.Model, q *querysql.CompiledQuery) ([]Record, error) {
	cols := m.VisibleColumns()
	if len(cols) == 0 {
		return nil, fmt.Errorf("retrieve %s: model has no visible columns", m.Name)
	}

	query := fmt.Sprintf("SELECT %s FROM %s", strings.Join(cols, ", "), s.dialect.table(m))
	args := []any{}
	if q != nil {
		if q.SQL != "" {
			query += " " + q.SQL
		}
		args = q.Values
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("retrieve %s: %w", m.Name, err)
	}
	defer rows.Close()

	records := []Record{}
	for rows.Next() {
		rec, err := scanRecord(rows, cols)
		if err != nil {
			return nil, fmt.Errorf("retrieve %s: %w", m.Name, err)
		}
		records = append(records, rec)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("retrieve %s: iterate: %w", m.Name, err)
	}

	return records, nil
}

// Count returns the number of rows matching the filter of a compiled
// query. Sort and pagination are ignored.
func (s *Store) Count(ctx context.Context, m *model.Model, q *querysql.CompiledQuery) (int64, error) {
	query := "SELECT COUNT(*) FROM " + s.dialect.table(m)
	args := []any{}
	if q != nil {
		if where := q.WhereSQL(); where != "" {
			query += " " + where
			args = q.WhereValues()
		}
	}

	var n int64
	if err := s.db.QueryRowContext(ctx, query, args...).Scan(&n); err != nil {
		return 0, fmt.Errorf("count %s: %w", m.Name, err)
	}
	return n, nil
}

func scanRecord(rows *sql.Rows, cols []string) (Record, error) {
	values := make([]any, len(cols))
	ptrs := make([]any, len(cols))
	for i := range values {
		ptrs[i] = &values[i]
	}

	if err := rows.Scan(ptrs...); err != nil {
		return nil, fmt.Errorf("scan row: %w", err)
	}

	rec := make(Record, len(cols))
	for i, col := range cols {
		rec[col] = scanValue(values[i])
	}
	return rec, nil
}
