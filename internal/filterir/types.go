package filterir

import "strings"

// Combinator is the boolean join applied to sibling fragments.
type Combinator string

const (
	And Combinator = "AND"
	Or  Combinator = "OR"
)

// Direction is a sort direction. NotSortable marks a whitelisted field that
// may be filtered on but not sorted by.
type Direction string

const (
	NotSortable Direction = ""
	Asc         Direction = "ASC"
	Desc        Direction = "DESC"
)

// ParseDirection upper-cases s and reports whether it names ASC or DESC.
func ParseDirection(s string) (Direction, bool) {
	switch d := Direction(strings.ToUpper(strings.TrimSpace(s))); d {
	case Asc, Desc:
		return d, true
	default:
		return NotSortable, false
	}
}

// Node is a decoded filter expression.
//
// This is a sealed interface - only Leaf and Group implement it.
type Node interface {
	filterNode()
}

// Term is one entry of a Leaf.
//
// This is a sealed interface - only Field and Group implement it.
type Term interface {
	filterTerm()
}

// Leaf is a decoded JSON object. Its terms are always joined with AND,
// whatever combinator the enclosing group uses.
//
// Example:
//
//	{"a": 1, "OR": [{"b": 2}, {"c": 3}]}
//
// decodes to
//
//	Leaf{Terms: []Term{
//	  Field{Name: "a", Conditions: []Condition{{Operand: OpEq, Value: ScalarValue(int64(1))}}},
//	  Group{Combinator: Or, Children: []Node{Leaf{...b...}, Leaf{...c...}}},
//	}}
type Leaf struct {
	Terms []Term
}

func (Leaf) filterNode() {}

// Group is a decoded JSON list. Children are joined with Combinator.
//
// A list that appears under an "AND"/"OR" key takes that combinator; a list
// nested directly in another list inherits its parent's combinator; a list
// at the top of the document uses AND.
type Group struct {
	Combinator Combinator
	Children   []Node
}

func (Group) filterNode() {}
func (Group) filterTerm() {}

// Field is a column and the conditions applied to it. A bare value decodes
// to a single OpEq condition; an object decodes to one condition per key, in
// document order.
type Field struct {
	Name       string
	Conditions []Condition
}

func (Field) filterTerm() {}

// Condition pairs a canonical operand with its value.
type Condition struct {
	Operand Operand
	Value   Value
}

// Value is either a scalar or a list of scalars. Scalars are nil, bool,
// int64, float64 or string.
type Value struct {
	Scalar any
	List   []any
	IsList bool
}

// ScalarValue wraps a single scalar.
func ScalarValue(v any) Value {
	return Value{Scalar: v}
}

// ListValue wraps a list of scalars.
func ListValue(vs ...any) Value {
	if vs == nil {
		vs = []any{}
	}
	return Value{List: vs, IsList: true}
}

// SortEntry is one retained "field DIR" pair.
type SortEntry struct {
	Field     string
	Direction Direction
}

// SortSpec is the ordered list of retained sort entries.
type SortSpec []SortEntry

// SQL renders the entries as "field DIR" pairs joined by ", ".
func (s SortSpec) SQL() string {
	parts := make([]string, len(s))
	for i, e := range s {
		parts[i] = e.Field + " " + string(e.Direction)
	}
	return strings.Join(parts, ", ")
}

// Query is the decoded top-level input. Nil fields were absent.
//
// Skip and Limit keep the raw scalar so pagination can coerce
// integer-like strings and report what it could not use.
type Query struct {
	Filters Node
	Sort    *string
	Skip    any
	Limit   any
}
