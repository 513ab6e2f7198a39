package querysql

import (
	"log/slog"
	"strings"

	"github.com/tidwall/gjson"
	"gopkg.in/yaml.v3"

	"github.com/roach88/filterql/internal/filterir"
)

// Compiler compiles filter DSL queries against a whitelist.
type Compiler struct {
	whitelist    Whitelist
	decoder      *filterir.Decoder
	maxDepth     int
	defaultLimit int
	maxLimit     int
	logger       *slog.Logger
}

// NewCompiler creates a Compiler. A nil whitelist accepts any identifier in
// filters and drops every sort field.
func NewCompiler(whitelist Whitelist, opts ...Option) *Compiler {
	c := &Compiler{
		whitelist:    whitelist,
		defaultLimit: DefaultLimit,
		logger:       slog.Default(),
	}
	for _, opt := range opts {
		opt(c)
	}
	if c.maxDepth <= 0 {
		c.maxDepth = filterir.DefaultMaxDepth
	}
	c.decoder = filterir.NewDecoder(c.maxDepth)
	return c
}

// DefaultLimit returns the page size used when limit is absent or invalid.
func (c *Compiler) DefaultLimit() int {
	return c.defaultLimit
}

// CompiledQuery is the output of a compile.
type CompiledQuery struct {
	// Pieces holds "WHERE …", "ORDER BY …" and "LIMIT ?, ?" in that order;
	// empty clauses are omitted.
	Pieces []string `json:"pieces"`

	// SQL is Pieces joined by single spaces.
	SQL string `json:"sql"`

	// Values holds filter values followed by skip and limit.
	Values []any `json:"values"`

	Filter filterir.Node     `json:"-"`
	Where  *Clause           `json:"-"`
	Sort   filterir.SortSpec `json:"sort"`
	Skip   int               `json:"skip"`
	Limit  int               `json:"limit"`
}

// WhereSQL returns the WHERE piece, or "" when there is no filter.
func (q *CompiledQuery) WhereSQL() string {
	if q.Where == nil {
		return ""
	}
	return "WHERE " + q.Where.SQL
}

// WhereValues returns only the values bound by the WHERE piece.
func (q *CompiledQuery) WhereValues() []any {
	if q.Where == nil {
		return []any{}
	}
	return q.Where.Values
}

// Compile compiles an already-decoded query.
func (c *Compiler) Compile(q filterir.Query) (*CompiledQuery, error) {
	out := &CompiledQuery{
		Pieces: []string{},
		Values: []any{},
		Filter: q.Filters,
		Sort:   filterir.SortSpec{},
	}

	if q.Filters != nil {
		clause, err := c.CompileFilter(q.Filters)
		if err != nil {
			return nil, stageError(StageFilters, err)
		}
		if clause.SQL != "" {
			out.Where = &clause
			out.Pieces = append(out.Pieces, "WHERE "+clause.SQL)
			out.Values = append(out.Values, clause.Values...)
		}
	}

	if q.Sort != nil {
		out.Sort = c.CompileSort(*q.Sort)
		if len(out.Sort) > 0 {
			out.Pieces = append(out.Pieces, "ORDER BY "+out.Sort.SQL())
		}
	}

	skip, err := c.ResolveSkip(q.Skip)
	if err != nil {
		return nil, stageError(StageSkip, err)
	}
	limit, err := c.ResolveLimit(q.Limit)
	if err != nil {
		return nil, stageError(StageLimit, err)
	}
	out.Skip = skip
	out.Limit = limit
	out.Pieces = append(out.Pieces, "LIMIT ?, ?")
	out.Values = append(out.Values, skip, limit)

	out.SQL = strings.Join(out.Pieces, " ")

	c.logger.Debug("compiled query",
		"sql", out.SQL,
		"values", len(out.Values))

	return out, nil
}

// CompileJSON decodes a JSON query object and compiles it.
func (c *Compiler) CompileJSON(data []byte) (*CompiledQuery, error) {
	if !gjson.ValidBytes(data) {
		return nil, filterir.NewConfigError("$", "query is not valid JSON")
	}
	return c.CompileElement(filterir.JSONElement(gjson.ParseBytes(data)))
}

// CompileYAML decodes a YAML query document and compiles it.
func (c *Compiler) CompileYAML(data []byte) (*CompiledQuery, error) {
	var doc yaml.Node
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, filterir.NewConfigError("$", "query is not valid YAML: %v", err)
	}
	if err := filterir.RejectYAMLAliases(&doc); err != nil {
		return nil, err
	}
	return c.CompileElement(filterir.YAMLElement(&doc))
}

// CompileElement decodes a query object and compiles it.
func (c *Compiler) CompileElement(e filterir.Element) (*CompiledQuery, error) {
	q, err := c.DecodeQuery(e)
	if err != nil {
		return nil, err
	}
	return c.Compile(q)
}

// DecodeQuery reads the filters, sort, skip and limit keys of a query
// object. Null values count as absent; other keys are ignored.
func (c *Compiler) DecodeQuery(e filterir.Element) (filterir.Query, error) {
	var q filterir.Query

	if isNull(e) {
		return q, nil
	}
	if e.Kind() != filterir.ObjectElement {
		return q, filterir.NewConfigError("$", "query must be an object, found %s", e.Describe())
	}

	var err error
	e.Entries(func(key string, value filterir.Element) bool {
		if isNull(value) {
			return true
		}
		switch key {
		case "filters":
			var node filterir.Node
			node, err = c.decoder.Decode(value)
			if err != nil {
				err = stageError(StageFilters, err)
				return false
			}
			q.Filters = node
		case "sort":
			var raw any
			raw, err = filterir.DecodeScalar(value, "$.sort")
			if err != nil {
				err = stageError(StageSort, err)
				return false
			}
			s, ok := raw.(string)
			if !ok {
				err = stageError(StageSort, filterir.NewOperationError("$.sort", "sort must be a string, found %s", value.Describe()))
				return false
			}
			q.Sort = &s
		case "skip":
			q.Skip, err = filterir.DecodeScalar(value, "$.skip")
			if err != nil {
				err = stageError(StageSkip, err)
				return false
			}
		case "limit":
			q.Limit, err = filterir.DecodeScalar(value, "$.limit")
			if err != nil {
				err = stageError(StageLimit, err)
				return false
			}
		}
		return true
	})
	if err != nil {
		return filterir.Query{}, err
	}

	return q, nil
}

func isNull(e filterir.Element) bool {
	if e.Kind() != filterir.ScalarElement {
		return false
	}
	v, err := e.Scalar()
	return err == nil && v == nil
}
