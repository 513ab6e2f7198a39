// Package store executes compiled queries against tables described by
// model definitions.
//
// SQLite (github.com/mattn/go-sqlite3) is the default backend; MySQL
// (github.com/go-sql-driver/mysql) is available through OpenDriver. Both
// accept "?" placeholders and "LIMIT ?, ?", so a querysql.CompiledQuery runs
// unchanged on either.
//
// # Operations
//
//   - Migrate: CREATE TABLE IF NOT EXISTS from a model, recorded in
//     filterql_migrations
//   - Create: insert records in one transaction, filling generated keys
//   - Retrieve: SELECT the visible columns with a compiled query appended
//   - Count: SELECT COUNT(*) with only the WHERE piece of a compiled query
//
// # Database Configuration (SQLite)
//
//   - WAL mode: Concurrent reads during writes
//   - synchronous=NORMAL: Balance durability/performance
//   - busy_timeout=5000: Wait for locks up to 5 seconds
//   - foreign_keys=ON: Enforce referential integrity
//
// Field names reach SQL verbatim. They come from model definitions, which
// only admit plain identifiers, never from query input.
package store
