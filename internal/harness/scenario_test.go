package harness

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"
)

func writeScenario(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func TestLoadScenario_ValidFile(t *testing.T) {
	scenario, err := LoadScenario("testdata/scenarios/or_group.yaml")
	require.NoError(t, err)

	assert.Equal(t, "or_group", scenario.Name)
	assert.Equal(t, "testdata/scenarios/or_group.yaml", scenario.Path())
	assert.Equal(t, yaml.MappingNode, scenario.Query.Kind)
	require.NotNil(t, scenario.Expect.SQL)
	assert.Contains(t, *scenario.Expect.SQL, "ORDER BY email DESC")
	assert.Equal(t, []string{"email DESC"}, scenario.Expect.Sort)
	assert.Len(t, scenario.Whitelist, 3)
}

func TestLoadScenario_ResolvesModelPath(t *testing.T) {
	scenario, err := LoadScenario("testdata/scenarios/retrieve_sorted.yaml")
	require.NoError(t, err)

	assert.Equal(t, filepath.Join("testdata", "models", "users.yaml"), scenario.Model)
	assert.Len(t, scenario.Setup, 4)
	require.NotNil(t, scenario.Expect.Count)
	assert.Equal(t, int64(3), *scenario.Expect.Count)
}

func TestLoadScenario_MissingFile(t *testing.T) {
	_, err := LoadScenario("testdata/scenarios/nope.yaml")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to read scenario file")
}

func TestLoadScenario_UnknownFieldRejected(t *testing.T) {
	_, err := LoadScenario("testdata/invalid/typo.yaml")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "expected")
}

func TestLoadScenario_NoExpectations(t *testing.T) {
	_, err := LoadScenario("testdata/invalid/missing_expect.yaml")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "expect must specify")
}

func TestParseScenario_Validation(t *testing.T) {
	tests := []struct {
		name    string
		content string
		wantErr string
	}{
		{
			name:    "missing name",
			content: "description: d\nquery: {}\nexpect: {sql: ''}\n",
			wantErr: "name is required",
		},
		{
			name:    "missing description",
			content: "name: n\nquery: {}\nexpect: {sql: ''}\n",
			wantErr: "description is required",
		},
		{
			name:    "missing query",
			content: "name: n\ndescription: d\nexpect: {sql: ''}\n",
			wantErr: "query is required",
		},
		{
			name:    "aliased query",
			content: "name: n\ndescription: d\nquery: {filters: &f {a: 1}, sort: *f}\nexpect: {sql: ''}\n",
			wantErr: "YAML aliases are not supported (*f) (at $.sort)",
		},
		{
			name:    "model not found",
			content: "name: n\ndescription: d\nmodel: missing.yaml\nquery: {}\nexpect: {sql: ''}\n",
			wantErr: "model file not found",
		},
		{
			name:    "setup without model",
			content: "name: n\ndescription: d\nsetup: [{a: 1}]\nquery: {}\nexpect: {sql: ''}\n",
			wantErr: "setup requires model",
		},
		{
			name:    "rows without model",
			content: "name: n\ndescription: d\nquery: {}\nexpect: {rows: [{a: 1}]}\n",
			wantErr: "require model",
		},
		{
			name:    "model_name without model",
			content: "name: n\ndescription: d\nmodel_name: users\nquery: {}\nexpect: {sql: ''}\n",
			wantErr: "model_name requires model",
		},
		{
			name:    "bad whitelist direction",
			content: "name: n\ndescription: d\nwhitelist: {a: sideways}\nquery: {}\nexpect: {sql: ''}\n",
			wantErr: "direction must be asc or desc",
		},
		{
			name:    "error combined with sql",
			content: "name: n\ndescription: d\nquery: {}\nexpect: {sql: '', error: {kind: config}}\n",
			wantErr: "cannot be combined",
		},
		{
			name:    "bad error kind",
			content: "name: n\ndescription: d\nquery: {}\nexpect: {error: {kind: fatal}}\n",
			wantErr: "kind must be config or operation",
		},
		{
			name:    "bad error stage",
			content: "name: n\ndescription: d\nquery: {}\nexpect: {error: {kind: config, stage: where}}\n",
			wantErr: "unknown stage",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseScenario([]byte(tt.content), t.TempDir())
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestLoadScenarios_SortedByFileName(t *testing.T) {
	scenarios, err := LoadScenarios("testdata/scenarios")
	require.NoError(t, err)

	var names []string
	for _, s := range scenarios {
		names = append(names, s.Name)
	}
	assert.Equal(t, []string{
		"implicit_and",
		"invalid_skip",
		"max_limit",
		"or_group",
		"retrieve_in_list",
		"retrieve_sorted",
		"unknown_field",
	}, names)
}

func TestLoadScenarios_SkipsOtherFiles(t *testing.T) {
	dir := t.TempDir()
	writeScenario(t, dir, "a.yml", "name: a\ndescription: d\nquery: {}\nexpect: {sql: 'LIMIT ?, ?'}\n")
	writeScenario(t, dir, "notes.txt", "not a scenario")
	require.NoError(t, os.Mkdir(filepath.Join(dir, "nested.yaml"), 0755))

	scenarios, err := LoadScenarios(dir)
	require.NoError(t, err)
	require.Len(t, scenarios, 1)
	assert.Equal(t, "a", scenarios[0].Name)
}

func TestLoadScenarios_ReportsFile(t *testing.T) {
	dir := t.TempDir()
	writeScenario(t, dir, "broken.yaml", "name: broken\n")

	_, err := LoadScenarios(dir)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "broken.yaml")
}
