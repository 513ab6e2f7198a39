package querysql

import "github.com/roach88/filterql/internal/filterir"

// Whitelist is the read-only field catalogue a Compiler checks names against.
type Whitelist interface {
	// HasField reports whether name may appear in filters.
	HasField(name string) bool

	// SortDirection returns the default direction for name. ok is false when
	// the field is unknown or not sortable.
	SortDirection(name string) (dir filterir.Direction, ok bool)
}

// StaticWhitelist is a fixed map from field name to default sort direction.
// filterir.NotSortable keeps a field filterable but unsortable.
//
//	StaticWhitelist{
//		"username": filterir.Asc,
//		"created":  filterir.Desc,
//		"password": filterir.NotSortable,
//	}
type StaticWhitelist map[string]filterir.Direction

// HasField implements Whitelist.
func (w StaticWhitelist) HasField(name string) bool {
	_, ok := w[name]
	return ok
}

// SortDirection implements Whitelist.
func (w StaticWhitelist) SortDirection(name string) (filterir.Direction, bool) {
	dir, ok := w[name]
	if !ok || dir == filterir.NotSortable {
		return filterir.NotSortable, false
	}
	return dir, true
}
