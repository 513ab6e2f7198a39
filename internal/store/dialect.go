package store

import (
	"github.com/roach88/filterql/internal/model"
)

// dialect covers the few places SQLite and MySQL disagree.
type dialect interface {
	// table returns the name to use in FROM / INSERT INTO.
	table(m *model.Model) string
	// columnType returns the DDL type for a field.
	columnType(f model.Field) string
}

type sqliteDialect struct{}

// SQLite has no schemas without ATTACH, so the bare table name is used.
func (sqliteDialect) table(m *model.Model) string {
	return m.Table
}

func (sqliteDialect) columnType(f model.Field) string {
	switch f.Type {
	case "ENUM", "SET":
		return "TEXT"
	default:
		return f.SQLType()
	}
}

type mysqlDialect struct{}

func (mysqlDialect) table(m *model.Model) string {
	return m.QualifiedTable()
}

func (mysqlDialect) columnType(f model.Field) string {
	return f.SQLType()
}
