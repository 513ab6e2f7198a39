package querysql

import (
	"fmt"
	"strings"

	"github.com/roach88/filterql/internal/filterir"
)

// Clause is a compiled WHERE body.
type Clause struct {
	SQL        string
	Values     []any
	Combinator filterir.Combinator
}

// CompileFilter compiles a decoded filter tree. An empty tree yields an empty
// clause.
func (c *Compiler) CompileFilter(node filterir.Node) (Clause, error) {
	clause := Clause{Values: []any{}, Combinator: filterir.And}
	if node == nil {
		return clause, nil
	}

	frag, err := c.compileNode(node, "$", 0)
	if err != nil {
		return Clause{}, err
	}

	clause.SQL = frag.sql
	if frag.values != nil {
		clause.Values = frag.values
	}
	if frag.comb != "" {
		clause.Combinator = frag.comb
	}
	return clause, nil
}

func (c *Compiler) compileNode(n filterir.Node, path string, depth int) (fragment, error) {
	if depth > c.maxDepth {
		return fragment{}, filterir.NewConfigError(path, "filter nesting exceeds maximum depth of %d", c.maxDepth)
	}

	switch node := n.(type) {
	case filterir.Leaf:
		return c.compileLeaf(node, path, depth)
	case filterir.Group:
		return c.compileGroup(node, filterir.And, path, depth)
	case nil:
		return fragment{}, nil
	default:
		return fragment{}, filterir.NewConfigError(path, "unsupported filter node %T", n)
	}
}

// compileGroup joins the children of a list with its combinator. A group
// without one inherits inherited.
func (c *Compiler) compileGroup(g filterir.Group, inherited filterir.Combinator, path string, depth int) (fragment, error) {
	comb := g.Combinator
	if comb == "" {
		comb = inherited
	}

	parts := make([]fragment, 0, len(g.Children))
	for i, child := range g.Children {
		childPath := fmt.Sprintf("%s[%d]", path, i)
		if depth+1 > c.maxDepth {
			return fragment{}, filterir.NewConfigError(childPath, "filter nesting exceeds maximum depth of %d", c.maxDepth)
		}

		var (
			frag fragment
			err  error
		)
		if sub, ok := child.(filterir.Group); ok {
			frag, err = c.compileGroup(sub, comb, childPath, depth+1)
		} else {
			frag, err = c.compileNode(child, childPath, depth+1)
		}
		if err != nil {
			return fragment{}, err
		}
		parts = append(parts, frag)
	}

	return join(parts, comb), nil
}

// compileLeaf joins the terms of an object with AND. Each condition of a
// field is its own sibling.
func (c *Compiler) compileLeaf(l filterir.Leaf, path string, depth int) (fragment, error) {
	var parts []fragment
	for _, term := range l.Terms {
		switch t := term.(type) {
		case filterir.Field:
			frags, err := c.compileField(t, path+"."+t.Name)
			if err != nil {
				return fragment{}, err
			}
			parts = append(parts, frags...)
		case filterir.Group:
			groupPath := path + "." + string(t.Combinator)
			if depth+1 > c.maxDepth {
				return fragment{}, filterir.NewConfigError(groupPath, "filter nesting exceeds maximum depth of %d", c.maxDepth)
			}
			frag, err := c.compileGroup(t, filterir.And, groupPath, depth+1)
			if err != nil {
				return fragment{}, err
			}
			parts = append(parts, frag)
		default:
			return fragment{}, filterir.NewConfigError(path, "unsupported filter term %T", term)
		}
	}

	return join(parts, filterir.And), nil
}

// join concatenates non-empty parts with comb. A part already joined with a
// different combinator is parenthesized; one joined with the same
// combinator is flattened in.
//
//	join([a, b OR c], AND)  →  a AND (b OR c)
//	join([a, b AND c], AND) →  a AND b AND c
func join(parts []fragment, comb filterir.Combinator) fragment {
	sqls := make([]string, 0, len(parts))
	var (
		values []any
		last   fragment
	)
	operands := 0
	for _, p := range parts {
		if p.sql == "" {
			continue
		}
		last = p
		switch {
		case p.comb == "":
			sqls = append(sqls, p.sql)
			operands++
		case p.comb == comb:
			sqls = append(sqls, p.sql)
			operands += p.operands
		default:
			sqls = append(sqls, "("+p.sql+")")
			operands++
		}
		values = append(values, p.values...)
	}

	switch len(sqls) {
	case 0:
		return fragment{}
	case 1:
		// A lone part keeps its own shape so the next level decides.
		return last
	}

	return fragment{
		sql:      strings.Join(sqls, " "+string(comb)+" "),
		values:   values,
		comb:     comb,
		operands: operands,
	}
}
