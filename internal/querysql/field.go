package querysql

import (
	"fmt"
	"strings"

	"github.com/roach88/filterql/internal/filterir"
)

// operator is the SQL rendering of one operand alias.
type operator struct {
	sql string
	// transform rewrites a scalar before binding; nil binds it unchanged.
	transform func(s string) string
	// listSQL is the rewrite for list values; empty means lists are rejected.
	listSQL string
}

func wrapBoth(s string) string  { return "%" + s + "%" }
func wrapRight(s string) string { return s + "%" }
func wrapLeft(s string) string  { return "%" + s }

var operators = map[filterir.Operand]operator{
	filterir.OpEq:            {sql: "=", listSQL: "IN"},
	filterir.OpLt:            {sql: "<"},
	filterir.OpLte:           {sql: "<="},
	filterir.OpGt:            {sql: ">"},
	filterir.OpGte:           {sql: ">="},
	filterir.OpNe:            {sql: "!=", listSQL: "NOT IN"},
	filterir.OpNot:           {sql: "!=", listSQL: "NOT IN"},
	filterir.OpContains:      {sql: "LIKE", transform: wrapBoth},
	filterir.OpStartsWith:    {sql: "LIKE", transform: wrapRight},
	filterir.OpEndsWith:      {sql: "LIKE", transform: wrapLeft},
	filterir.OpLike:          {sql: "LIKE"},
	filterir.OpNotContains:   {sql: "NOT LIKE", transform: wrapBoth},
	filterir.OpNotStartsWith: {sql: "NOT LIKE", transform: wrapRight},
	filterir.OpNotEndsWith:   {sql: "NOT LIKE", transform: wrapLeft},
	filterir.OpNotLike:       {sql: "NOT LIKE"},
}

// fragment is emitted SQL with its bound values. comb is the combinator
// joining its top-level operands when it has more than one and is not
// parenthesized; it is empty for a single comparison.
type fragment struct {
	sql      string
	values   []any
	comb     filterir.Combinator
	operands int
}

// checkField rejects names the whitelist does not know. Without a whitelist
// only plain identifiers are accepted, since names are emitted verbatim.
func (c *Compiler) checkField(name, path string) error {
	if c.whitelist != nil {
		if !c.whitelist.HasField(name) {
			return filterir.NewOperationError(path, "field %q is not allowed", name)
		}
		return nil
	}
	if !filterir.IsQualifiedIdentifier(name) {
		return filterir.NewOperationError(path, "field name %q is not a valid identifier", name)
	}
	return nil
}

// compileField returns one fragment per condition, in condition order.
//
//	{"x": {">": 1, "<": 10}}  →  ["x > ?", "x < ?"]
//	{"id": [1, 2]}            →  ["id IN (?, ?)"]
func (c *Compiler) compileField(f filterir.Field, path string) ([]fragment, error) {
	if err := c.checkField(f.Name, path); err != nil {
		return nil, err
	}
	if len(f.Conditions) == 0 {
		return nil, filterir.NewConfigError(path, "field %q has no conditions", f.Name)
	}

	frags := make([]fragment, 0, len(f.Conditions))
	for _, cond := range f.Conditions {
		condPath := path
		if len(f.Conditions) > 1 || cond.Operand != filterir.OpEq {
			condPath = path + "." + string(cond.Operand)
		}

		frag, err := compileCondition(f.Name, cond, condPath)
		if err != nil {
			return nil, err
		}
		frags = append(frags, frag)
	}

	return frags, nil
}

func compileCondition(name string, cond filterir.Condition, path string) (fragment, error) {
	op, ok := operators[cond.Operand]
	if !ok {
		return fragment{}, filterir.NewConfigError(path, "unknown operand %q", cond.Operand)
	}

	if cond.Value.IsList {
		if op.listSQL == "" {
			return fragment{}, filterir.NewOperationError(path, "list value not supported for operand %q", cond.Operand)
		}
		if len(cond.Value.List) == 0 {
			return fragment{}, filterir.NewOperationError(path, "empty list for operand %q", cond.Operand)
		}
		placeholders := strings.TrimSuffix(strings.Repeat("?, ", len(cond.Value.List)), ", ")
		values := make([]any, len(cond.Value.List))
		copy(values, cond.Value.List)
		return fragment{
			sql:    fmt.Sprintf("%s %s (%s)", name, op.listSQL, placeholders),
			values: values,
		}, nil
	}

	value := cond.Value.Scalar
	if op.transform != nil {
		value = op.transform(likeString(value))
	}

	return fragment{
		sql:    fmt.Sprintf("%s %s ?", name, op.sql),
		values: []any{value},
	}, nil
}

// likeString renders a scalar for a LIKE pattern. null matches as "".
func likeString(v any) string {
	switch val := v.(type) {
	case nil:
		return ""
	case string:
		return val
	default:
		return fmt.Sprint(val)
	}
}
