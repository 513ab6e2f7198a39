// Package querysql compiles filter DSL queries to parameterized SQL.
//
// ARCHITECTURE:
//
//	raw query (JSON / YAML)
//	    │  decode (filterir)
//	    ▼
//	filterir.Query ──► Compiler.Compile ──► CompiledQuery
//	                      │
//	                      ├── filters ─► WHERE <clause>       (+ values)
//	                      ├── sort    ─► ORDER BY <f DIR, …>
//	                      └── skip/limit ─► LIMIT ?, ?        (+ skip, limit)
//
// PARAMETERIZATION:
//
// Values are never interpolated. Every value is emitted as a positional "?"
// placeholder and appended to CompiledQuery.Values in the same left-to-right
// order, so len(Values) always equals the number of placeholders in SQL.
// Field names are not parameterizable; they are checked against the
// Whitelist (or, without one, a strict identifier pattern) before emission.
//
// PARENTHESES:
//
// A group is wrapped only when its combinator differs from the enclosing one
// and it joined more than one fragment:
//
//	{"a": 1, "OR": [{"b": 2}, {"c": 3}]}  →  a = ? AND (b = ? OR c = ?)
//	[{"a": 1}, {"a": 2}]                   →  a = ? AND a = ?
//
// ERRORS:
//
// Failures are returned as *QueryError carrying the stage (filters, sort,
// skip, limit) around a *filterir.Error carrying the kind and path.
// Unknown sort fields, bad directions, negative skip and non-positive limit
// are not errors; they degrade to defaults and are logged.
//
// A Compiler is immutable after NewCompiler and safe for concurrent use.
package querysql
