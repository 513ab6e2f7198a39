package store

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/google/uuid"

	"github.com/roach88/filterql/internal/model"
)

// Record is one row keyed by column name.
type Record map[string]any

// Create inserts records into the model's table in a single transaction and
// returns them with generated fields filled in. A record naming a column the
// model does not declare rejects the whole batch.
//
// Fields declared with "generate: uuid" receive a UUIDv7 when absent, so
// generated keys sort by creation time.
func (s *Store) Create(ctx context.Context, m *model.Model, records []Record) ([]Record, error) {
	prepared := make([]Record, 0, len(records))
	for i, rec := range records {
		out, err := prepareRecord(m, rec)
		if err != nil {
			return nil, fmt.Errorf("create %s: record %d: %w", m.Name, i, err)
		}
		prepared = append(prepared, out)
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("create %s: begin: %w", m.Name, err)
	}
	defer tx.Rollback()

	for i, rec := range prepared {
		cols, args, err := insertArgs(m, rec)
		if err != nil {
			return nil, fmt.Errorf("create %s: record %d: %w", m.Name, i, err)
		}

		query := fmt.Sprintf("INSERT INTO %s (%s) VALUES (%s)",
			s.dialect.table(m),
			strings.Join(cols, ", "),
			strings.TrimSuffix(strings.Repeat("?, ", len(cols)), ", "))

		if _, err := tx.ExecContext(ctx, query, args...); err != nil {
			return nil, fmt.Errorf("create %s: record %d: %w", m.Name, i, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("create %s: commit: %w", m.Name, err)
	}

	return prepared, nil
}

// prepareRecord copies rec, rejecting unknown columns and filling
// generated fields.
func prepareRecord(m *model.Model, rec Record) (Record, error) {
	var unknown []string
	for col := range rec {
		if !m.HasField(col) {
			unknown = append(unknown, col)
		}
	}
	if len(unknown) > 0 {
		sort.Strings(unknown)
		return nil, fmt.Errorf("unknown columns: %s", strings.Join(unknown, ", "))
	}

	out := make(Record, len(rec)+1)
	for k, v := range rec {
		out[k] = v
	}

	for _, f := range m.Fields {
		if f.Generate != model.GenerateUUID {
			continue
		}
		if v, ok := out[f.Name]; ok && v != nil && v != "" {
			continue
		}
		id, err := uuid.NewV7()
		if err != nil {
			return nil, fmt.Errorf("generate %s: %w", f.Name, err)
		}
		out[f.Name] = id.String()
	}

	return out, nil
}

// insertArgs lists the record's columns in field order with bound values.
func insertArgs(m *model.Model, rec Record) ([]string, []any, error) {
	cols := make([]string, 0, len(rec))
	args := make([]any, 0, len(rec))
	for _, f := range m.Fields {
		v, ok := rec[f.Name]
		if !ok {
			continue
		}
		bound, err := bindValue(v)
		if err != nil {
			return nil, nil, fmt.Errorf("column %s: %w", f.Name, err)
		}
		cols = append(cols, f.Name)
		args = append(args, bound)
	}
	if len(cols) == 0 {
		return nil, nil, fmt.Errorf("record has no columns")
	}
	return cols, args, nil
}
