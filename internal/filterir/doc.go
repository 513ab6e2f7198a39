// Package filterir provides the intermediate representation for filterql's
// client query DSL.
//
// Clients submit nested, JSON-shaped filter objects:
//
//	{
//	  "status": "enabled",
//	  "OR": [
//	    {"name": {"contains": "wolf"}},
//	    {"created": {">=": "2020-01-01"}}
//	  ]
//	}
//
// The decoder turns that shape into a closed tagged union before anything
// else looks at it:
//
//	[JSON / YAML] → Decoder → Node (Leaf | Group) → querysql.Compiler
//
// SEALED INTERFACES:
//
// Node and Term are sealed with marker methods, so backends can switch over
// the complete set of variants:
//
//	switch n := node.(type) {
//	case Leaf:
//	    // object: fields and AND/OR keys, always conjoined
//	case Group:
//	    // list: children joined by n.Combinator
//	}
//
// A Leaf holds Terms, which are either a Field (one column and its
// conditions) or a nested Group created by an "AND"/"OR" key.
//
// NORMALIZATION:
//
// "AND"/"OR" keys and operand aliases are matched case-insensitively. The
// decoder folds them once, so Field.Conditions only ever carries canonical
// Operand values and downstream code compares with ==.
//
// Object key order is preserved from the source document. Values are bound
// in the order the client wrote them.
//
// DEPTH:
//
// Nesting is limited by Decoder.MaxDepth (DefaultMaxDepth when zero).
// Exceeding it is a config error, not a stack overflow.
package filterir
