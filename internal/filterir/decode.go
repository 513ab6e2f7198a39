package filterir

import (
	"fmt"

	"github.com/tidwall/gjson"
	"golang.org/x/text/cases"
	"gopkg.in/yaml.v3"
)

// DefaultMaxDepth bounds filter nesting when Decoder.MaxDepth is zero.
const DefaultMaxDepth = 32

// Decoder turns source documents into Nodes.
//
// A Decoder holds no mutable state and is safe for concurrent use.
type Decoder struct {
	// MaxDepth is the deepest allowed nesting level; the root is level 0.
	MaxDepth int
}

// NewDecoder creates a Decoder with the given depth limit (0 = default).
func NewDecoder(maxDepth int) *Decoder {
	return &Decoder{MaxDepth: maxDepth}
}

func (d *Decoder) maxDepth() int {
	if d == nil || d.MaxDepth <= 0 {
		return DefaultMaxDepth
	}
	return d.MaxDepth
}

// DecodeJSON decodes a filter document from JSON.
func (d *Decoder) DecodeJSON(data []byte) (Node, error) {
	if !gjson.ValidBytes(data) {
		return nil, NewConfigError("$", "filter is not valid JSON")
	}
	return d.Decode(JSONElement(gjson.ParseBytes(data)))
}

// DecodeYAML decodes a filter document from YAML.
func (d *Decoder) DecodeYAML(data []byte) (Node, error) {
	var doc yaml.Node
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, NewConfigError("$", "filter is not valid YAML: %v", err)
	}
	if err := RejectYAMLAliases(&doc); err != nil {
		return nil, err
	}
	return d.Decode(YAMLElement(&doc))
}

// Decode decodes a filter rooted at e. The root must be an object or a
// list; a root list uses AND.
func (d *Decoder) Decode(e Element) (Node, error) {
	return d.decodeNode(e, "$", 0, And)
}

func (d *Decoder) decodeNode(e Element, path string, depth int, comb Combinator) (Node, error) {
	if depth > d.maxDepth() {
		return nil, NewConfigError(path, "filter nesting exceeds maximum depth of %d", d.maxDepth())
	}

	switch e.Kind() {
	case ObjectElement:
		return d.decodeLeaf(e, path, depth)
	case ListElement:
		return d.decodeGroup(e, path, depth, comb)
	default:
		return nil, NewConfigError(path, "filter must be an object or a list, found %s", e.Describe())
	}
}

// decodeGroup decodes a list. Nested lists inherit comb.
func (d *Decoder) decodeGroup(e Element, path string, depth int, comb Combinator) (Group, error) {
	group := Group{Combinator: comb, Children: []Node{}}

	var err error
	i := 0
	e.Items(func(item Element) bool {
		var child Node
		child, err = d.decodeNode(item, fmt.Sprintf("%s[%d]", path, i), depth+1, comb)
		if err != nil {
			return false
		}
		group.Children = append(group.Children, child)
		i++
		return true
	})
	if err != nil {
		return Group{}, err
	}

	return group, nil
}

// decodeLeaf decodes an object. AND/OR keys open a nested group; every
// other key is a field.
func (d *Decoder) decodeLeaf(e Element, path string, depth int) (Leaf, error) {
	leaf := Leaf{Terms: []Term{}}

	var err error
	e.Entries(func(key string, value Element) bool {
		childPath := path + "." + key

		if comb, ok := combinatorKey(key); ok {
			if value.Kind() != ListElement {
				err = NewConfigError(childPath, "%s subordinate clauses must be a list", comb)
				return false
			}
			if depth+1 > d.maxDepth() {
				err = NewConfigError(childPath, "filter nesting exceeds maximum depth of %d", d.maxDepth())
				return false
			}
			var group Group
			group, err = d.decodeGroup(value, childPath, depth+1, comb)
			if err != nil {
				return false
			}
			leaf.Terms = append(leaf.Terms, group)
			return true
		}

		var field Field
		field, err = decodeField(key, value, childPath)
		if err != nil {
			return false
		}
		leaf.Terms = append(leaf.Terms, field)
		return true
	})
	if err != nil {
		return Leaf{}, err
	}

	return leaf, nil
}

// decodeField decodes the conditions of one column. A bare value or list is
// an implicit "=".
func decodeField(name string, e Element, path string) (Field, error) {
	field := Field{Name: name}

	if e.Kind() != ObjectElement {
		value, err := decodeValue(e, path)
		if err != nil {
			return Field{}, err
		}
		field.Conditions = []Condition{{Operand: OpEq, Value: value}}
		return field, nil
	}

	var err error
	e.Entries(func(key string, raw Element) bool {
		op := Operand(fold(key))
		if !op.Valid() {
			err = NewConfigError(path+"."+key, "unknown operand %q", key)
			return false
		}
		var value Value
		value, err = decodeValue(raw, path+"."+key)
		if err != nil {
			return false
		}
		field.Conditions = append(field.Conditions, Condition{Operand: op, Value: value})
		return true
	})
	if err != nil {
		return Field{}, err
	}

	if len(field.Conditions) == 0 {
		return Field{}, NewConfigError(path, "field %q has no conditions", name)
	}

	return field, nil
}

func decodeValue(e Element, path string) (Value, error) {
	switch e.Kind() {
	case ListElement:
		list := []any{}
		var err error
		i := 0
		e.Items(func(item Element) bool {
			if item.Kind() != ScalarElement {
				err = NewConfigError(fmt.Sprintf("%s[%d]", path, i), "list values must be scalars, found %s", item.Describe())
				return false
			}
			var v any
			v, err = item.Scalar()
			if err != nil {
				err = NewConfigError(fmt.Sprintf("%s[%d]", path, i), "%v", err)
				return false
			}
			list = append(list, v)
			i++
			return true
		})
		if err != nil {
			return Value{}, err
		}
		return ListValue(list...), nil
	case ObjectElement:
		return Value{}, NewConfigError(path, "value must be a scalar or a list of scalars, found %s", e.Describe())
	default:
		v, err := e.Scalar()
		if err != nil {
			return Value{}, NewConfigError(path, "%v", err)
		}
		return ScalarValue(v), nil
	}
}

// DecodeScalar reads a scalar element, rejecting objects and lists.
func DecodeScalar(e Element, path string) (any, error) {
	if e.Kind() != ScalarElement {
		return nil, NewOperationError(path, "expected a scalar, found %s", e.Describe())
	}
	v, err := e.Scalar()
	if err != nil {
		return nil, NewOperationError(path, "%v", err)
	}
	return v, nil
}

// combinatorKey reports whether key is "and" or "or" in any case.
func combinatorKey(key string) (Combinator, bool) {
	switch fold(key) {
	case "and":
		return And, true
	case "or":
		return Or, true
	default:
		return "", false
	}
}

// IsReserved reports whether name collides with a combinator key and so can
// never be addressed as a plain field.
func IsReserved(name string) bool {
	_, ok := combinatorKey(name)
	return ok
}

// fold case-folds s. A Caser is stateful, so each call gets its own.
func fold(s string) string {
	return cases.Fold().String(s)
}
