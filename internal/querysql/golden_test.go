package querysql

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/sebdah/goldie/v2"
	"github.com/stretchr/testify/require"
)

// snapshot renders the parts of a compiled query worth pinning. HTML
// escaping is off so operators stay readable.
func snapshot(t *testing.T, q *CompiledQuery) []byte {
	t.Helper()

	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	require.NoError(t, enc.Encode(struct {
		SQL    string `json:"sql"`
		Values []any  `json:"values"`
	}{q.SQL, q.Values}))
	return buf.Bytes()
}

// To regenerate golden files, run:
//
//	go test ./internal/querysql -run TestCompile_Golden -update
func TestCompile_Golden(t *testing.T) {
	testCases := []struct {
		name  string
		query string
	}{
		{"implicit_and", `{"filters": {"a": 1, "b": 2}}`},
		{"mixed_combinator", `{"filters": {"a": 1, "OR": [{"b": 2}, {"c": 3}]}}`},
		{"flattened_list", `{"filters": [{"a": 1}, {"a": 2}]}`},
		{"multi_operator", `{"filters": {"x": {">": 1, "<": 10}}}`},
		{"contains", `{"filters": {"name": {"contains": "wolf"}}}`},
		{"in_rewrite", `{"filters": {"id": {"=": [1, 2, 3]}}}`},
		{"full_query", `{"filters": {"status": {"!": ["BANNED", "DELETED"]}, "OR": [{"username": {"startswith": "bad"}}, {"email": {"endswith": "@example.com"}}]}, "sort": "created, username desc, bogus", "skip": "40", "limit": 20}`},
	}

	g := goldie.New(t,
		goldie.WithFixtureDir("testdata/golden"),
		goldie.WithNameSuffix(".golden"),
	)

	c := newTestCompiler()
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			q, err := c.CompileJSON([]byte(tc.query))
			require.NoError(t, err)
			g.Assert(t, tc.name, snapshot(t, q))
		})
	}
}
