package filterir

import (
	"fmt"
	"strconv"

	"github.com/tidwall/gjson"
	"gopkg.in/yaml.v3"
)

// ElementKind is the shape of a source document element.
type ElementKind int

const (
	ScalarElement ElementKind = iota
	ObjectElement
	ListElement
)

// Element is an order-preserving view over a decoded document, so JSON and
// YAML input share one decoder. encoding/json maps would lose key order,
// which decides placeholder order.
type Element interface {
	Kind() ElementKind
	// Entries visits object members in document order until fn returns false.
	Entries(fn func(key string, value Element) bool)
	// Items visits list members in order until fn returns false.
	Items(fn func(value Element) bool)
	// Scalar returns nil, bool, int64, float64 or string.
	Scalar() (any, error)
	// Describe returns a short description for error messages.
	Describe() string
}

// JSONElement wraps a gjson result.
func JSONElement(r gjson.Result) Element {
	return jsonElement{r: r}
}

type jsonElement struct {
	r gjson.Result
}

func (e jsonElement) Kind() ElementKind {
	switch {
	case e.r.IsObject():
		return ObjectElement
	case e.r.IsArray():
		return ListElement
	default:
		return ScalarElement
	}
}

func (e jsonElement) Entries(fn func(string, Element) bool) {
	if !e.r.IsObject() {
		return
	}
	e.r.ForEach(func(key, value gjson.Result) bool {
		return fn(key.String(), jsonElement{r: value})
	})
}

func (e jsonElement) Items(fn func(Element) bool) {
	if !e.r.IsArray() {
		return
	}
	e.r.ForEach(func(_, value gjson.Result) bool {
		return fn(jsonElement{r: value})
	})
}

func (e jsonElement) Scalar() (any, error) {
	switch e.r.Type {
	case gjson.Null:
		return nil, nil
	case gjson.True:
		return true, nil
	case gjson.False:
		return false, nil
	case gjson.String:
		return e.r.Str, nil
	case gjson.Number:
		return parseNumber(e.r.Raw), nil
	default:
		return nil, fmt.Errorf("not a scalar: %s", e.Describe())
	}
}

func (e jsonElement) Describe() string {
	switch e.Kind() {
	case ObjectElement:
		return "object"
	case ListElement:
		return "list"
	default:
		return truncate(e.r.Raw)
	}
}

// YAMLElement wraps a yaml.v3 node. Document nodes are resolved; aliases
// are not followed and read as invalid scalars. Run RejectYAMLAliases first
// for a positioned error.
func YAMLElement(n *yaml.Node) Element {
	return yamlElement{n: resolveYAML(n)}
}

type yamlElement struct {
	n *yaml.Node
}

func resolveYAML(n *yaml.Node) *yaml.Node {
	for n != nil {
		switch {
		case n.Kind == yaml.DocumentNode && len(n.Content) > 0:
			n = n.Content[0]
		default:
			return n
		}
	}
	return n
}

func (e yamlElement) Kind() ElementKind {
	if e.n == nil {
		return ScalarElement
	}
	switch e.n.Kind {
	case yaml.MappingNode:
		return ObjectElement
	case yaml.SequenceNode:
		return ListElement
	default:
		return ScalarElement
	}
}

func (e yamlElement) Entries(fn func(string, Element) bool) {
	if e.Kind() != ObjectElement {
		return
	}
	for i := 0; i+1 < len(e.n.Content); i += 2 {
		if !fn(e.n.Content[i].Value, YAMLElement(e.n.Content[i+1])) {
			return
		}
	}
}

func (e yamlElement) Items(fn func(Element) bool) {
	if e.Kind() != ListElement {
		return
	}
	for _, item := range e.n.Content {
		if !fn(YAMLElement(item)) {
			return
		}
	}
}

func (e yamlElement) Scalar() (any, error) {
	if e.n == nil {
		return nil, nil
	}
	if e.Kind() != ScalarElement {
		return nil, fmt.Errorf("not a scalar: %s", e.Describe())
	}
	if e.n.Kind == yaml.AliasNode {
		return nil, fmt.Errorf("YAML aliases are not supported")
	}
	switch e.n.ShortTag() {
	case "!!null":
		return nil, nil
	case "!!bool":
		var b bool
		if err := e.n.Decode(&b); err != nil {
			return nil, err
		}
		return b, nil
	case "!!int":
		var i int64
		if err := e.n.Decode(&i); err != nil {
			return parseNumber(e.n.Value), nil
		}
		return i, nil
	case "!!float":
		var f float64
		if err := e.n.Decode(&f); err != nil {
			return nil, err
		}
		return f, nil
	default:
		return e.n.Value, nil
	}
}

func (e yamlElement) Describe() string {
	switch e.Kind() {
	case ObjectElement:
		return "object"
	case ListElement:
		return "list"
	default:
		if e.n == nil {
			return "null"
		}
		if e.n.Kind == yaml.AliasNode {
			return "alias *" + truncate(e.n.Value)
		}
		return truncate(e.n.Value)
	}
}

// RejectYAMLAliases walks n without following aliases and returns a config
// error at the first alias. Nested aliases expand exponentially.
func RejectYAMLAliases(n *yaml.Node) error {
	return rejectAliases(n, "$")
}

func rejectAliases(n *yaml.Node, path string) error {
	if n == nil {
		return nil
	}
	if n.Kind == yaml.AliasNode {
		return NewConfigError(path, "YAML aliases are not supported (*%s)", n.Value)
	}

	switch n.Kind {
	case yaml.DocumentNode:
		for _, child := range n.Content {
			if err := rejectAliases(child, path); err != nil {
				return err
			}
		}
	case yaml.MappingNode:
		for i := 0; i+1 < len(n.Content); i += 2 {
			key := n.Content[i]
			if err := rejectAliases(key, path); err != nil {
				return err
			}
			if err := rejectAliases(n.Content[i+1], path+"."+key.Value); err != nil {
				return err
			}
		}
	case yaml.SequenceNode:
		for i, child := range n.Content {
			if err := rejectAliases(child, fmt.Sprintf("%s[%d]", path, i)); err != nil {
				return err
			}
		}
	}
	return nil
}

// parseNumber keeps integral literals as int64 so bound values round-trip
// into integer columns; everything else becomes float64.
func parseNumber(raw string) any {
	if i, err := strconv.ParseInt(raw, 10, 64); err == nil {
		return i
	}
	f, _ := strconv.ParseFloat(raw, 64)
	return f
}

func truncate(s string) string {
	const max = 40
	if len(s) > max {
		return s[:max] + "..."
	}
	return s
}
