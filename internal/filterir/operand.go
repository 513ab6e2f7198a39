package filterir

// Operand is a canonical (lower-case) operator alias from the client DSL.
type Operand string

const (
	OpEq            Operand = "="
	OpLt            Operand = "<"
	OpLte           Operand = "<="
	OpGt            Operand = ">"
	OpGte           Operand = ">="
	OpNe            Operand = "!="
	OpNot           Operand = "!"
	OpContains      Operand = "contains"
	OpStartsWith    Operand = "startswith"
	OpEndsWith      Operand = "endswith"
	OpLike          Operand = "like"
	OpNotContains   Operand = "!contains"
	OpNotStartsWith Operand = "!startswith"
	OpNotEndsWith   Operand = "!endswith"
	OpNotLike       Operand = "!like"
)

var operands = map[Operand]bool{
	OpEq:            true,
	OpLt:            true,
	OpLte:           true,
	OpGt:            true,
	OpGte:           true,
	OpNe:            true,
	OpNot:           true,
	OpContains:      true,
	OpStartsWith:    true,
	OpEndsWith:      true,
	OpLike:          true,
	OpNotContains:   true,
	OpNotStartsWith: true,
	OpNotEndsWith:   true,
	OpNotLike:       true,
}

// Valid reports whether o is one of the known aliases.
func (o Operand) Valid() bool {
	return operands[o]
}
