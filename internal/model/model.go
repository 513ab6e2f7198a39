package model

import (
	"fmt"
	"sort"
	"strings"

	"github.com/roach88/filterql/internal/filterir"
)

// Generator names a value a store fills in when a record omits the field.
type Generator string

const (
	GenerateNone Generator = ""
	GenerateUUID Generator = "uuid"
)

// Field is one column of a model.
type Field struct {
	Name string

	// Type is the upper-cased base type, e.g. "VARCHAR" for "VARCHAR(255)".
	Type string

	// Length is the parenthesized part of the declared type, e.g. "255" or
	// "'enabled','disabled'". Empty when the type had none.
	Length string

	// Sortable is the default sort direction, or filterir.NotSortable.
	Sortable filterir.Direction

	// Hidden fields are never returned from retrieval.
	Hidden bool

	PrimaryKey bool
	Generate   Generator
}

// SQLType returns the declared column type, e.g. "VARCHAR(255)".
func (f Field) SQLType() string {
	if f.Length == "" {
		return f.Type
	}
	return f.Type + "(" + f.Length + ")"
}

// AssociationType is the cardinality of an association.
type AssociationType string

const (
	HasOne     AssociationType = "hasOne"
	HasMany    AssociationType = "hasMany"
	ManyToMany AssociationType = "manyToMany"
)

// Association links a model to another table.
type Association struct {
	Name       string
	Type       AssociationType
	Model      string
	Schema     string
	Table      string
	Key        string
	ForeignKey string
}

// Model is an immutable table definition. It implements the compiler's
// whitelist: every field is filterable, sortable fields carry a default
// direction.
type Model struct {
	Name         string
	Schema       string
	Table        string
	Fields       []Field
	Associations []Association

	index map[string]int
}

func (m *Model) buildIndex() {
	m.index = make(map[string]int, len(m.Fields))
	for i, f := range m.Fields {
		m.index[f.Name] = i
	}
}

// Field looks up a field by name.
func (m *Model) Field(name string) (Field, bool) {
	i, ok := m.index[name]
	if !ok {
		return Field{}, false
	}
	return m.Fields[i], true
}

// HasField reports whether name is a declared field.
func (m *Model) HasField(name string) bool {
	_, ok := m.index[name]
	return ok
}

// SortDirection returns the default direction of a sortable field.
func (m *Model) SortDirection(name string) (filterir.Direction, bool) {
	f, ok := m.Field(name)
	if !ok || f.Sortable == filterir.NotSortable {
		return filterir.NotSortable, false
	}
	return f.Sortable, true
}

// Columns returns every field name in declaration order.
func (m *Model) Columns() []string {
	cols := make([]string, len(m.Fields))
	for i, f := range m.Fields {
		cols[i] = f.Name
	}
	return cols
}

// VisibleColumns returns the names of fields that are not hidden.
func (m *Model) VisibleColumns() []string {
	cols := make([]string, 0, len(m.Fields))
	for _, f := range m.Fields {
		if !f.Hidden {
			cols = append(cols, f.Name)
		}
	}
	return cols
}

// PrimaryKey returns the first primary key field.
func (m *Model) PrimaryKey() (Field, bool) {
	for _, f := range m.Fields {
		if f.PrimaryKey {
			return f, true
		}
	}
	return Field{}, false
}

// QualifiedTable returns "schema.table", or just the table without a schema.
func (m *Model) QualifiedTable() string {
	if m.Schema == "" {
		return m.Table
	}
	return m.Schema + "." + m.Table
}

// Association looks up an association by name.
func (m *Model) Association(name string) (Association, bool) {
	for _, a := range m.Associations {
		if a.Name == name {
			return a, true
		}
	}
	return Association{}, false
}

// Set is the collection of models loaded from one definition file.
type Set struct {
	models []*Model
	byName map[string]*Model
}

func newSet() *Set {
	return &Set{byName: make(map[string]*Model)}
}

func (s *Set) add(m *Model) {
	s.models = append(s.models, m)
	s.byName[m.Name] = m
}

// Get returns the named model.
func (s *Set) Get(name string) (*Model, error) {
	m, ok := s.byName[name]
	if !ok {
		return nil, fmt.Errorf("model %q not found (have: %s)", name, strings.Join(s.Names(), ", "))
	}
	return m, nil
}

// All returns the models in file order.
func (s *Set) All() []*Model {
	out := make([]*Model, len(s.models))
	copy(out, s.models)
	return out
}

// Names returns the model names sorted alphabetically.
func (s *Set) Names() []string {
	names := make([]string, 0, len(s.byName))
	for name := range s.byName {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Len returns the number of models.
func (s *Set) Len() int {
	return len(s.models)
}
