package loader

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadData(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		wantLen int
	}{
		{
			name:    "single JSON object",
			input:   `{"orders": [{"id": 1}], "loading": false}`,
			wantLen: 1,
		},
		{
			name:    "single JSON array",
			input:   `[{"id": 1}, {"id": 2}]`,
			wantLen: 1,
		},
		{
			name: "NDJSON",
			input: `{"id": 1, "coordinatorShortAlias": "moon"}
{"id": 2, "coordinatorShortAlias": "moon"}
{"id": 3, "coordinatorShortAlias": "lake"}`,
			wantLen: 3,
		},
		{
			name: "NDJSON with blank lines",
			input: `{"id": 1}

{"id": 2}`,
			wantLen: 2,
		},
		{
			name: "single YAML document",
			input: `orders:
  - id: 1
    premium: 2.5`,
			wantLen: 1,
		},
		{
			name: "multi-document YAML",
			input: `id: 1
---
id: 2
---
id: 3`,
			wantLen: 3,
		},
		{
			name: "TOML array of tables",
			input: `[[orders]]
id = 1

[[orders]]
id = 2`,
			wantLen: 1,
		},
		{
			name: "key-value only TOML",
			input: `loading = true
totalCoordinators = 8`,
			wantLen: 1,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := LoadData(tt.input)
			require.NoError(t, err)
			assert.Len(t, got, tt.wantLen)
		})
	}
}

func TestLoadData_Empty(t *testing.T) {
	_, err := LoadData("   \n  ")
	assert.ErrorIs(t, err, ErrEmptyInput)
}

func TestLoadData_InvalidJSONFallsBackToYAML(t *testing.T) {
	got, err := LoadData(`{invalid}`)
	require.NoError(t, err)
	require.Len(t, got, 1)
	// YAML parses {invalid} as a flow mapping with key "invalid" and nil value
	assert.Equal(t, map[string]interface{}{"invalid": nil}, got[0])
}

func TestLoadData_YAMLListNotNDJSON(t *testing.T) {
	input := `- id: 1
  payment_method: "[SEPA]"
- id: 2
  payment_method: Strike`
	got, err := LoadData(input)
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.IsType(t, []interface{}{}, got[0])
}

func TestIsLikelyTOML(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  bool
	}{
		{name: "section header", input: "[book]\nmode = \"swap\"", want: true},
		{name: "dotted section", input: "[book.theme]\nmuted = \"#888\"", want: true},
		{name: "key value", input: "a = 1\nb = 2", want: true},
		{name: "JSON array", input: "[1, 2, 3]", want: false},
		{name: "YAML mapping", input: "a: 1\nb: 2", want: false},
		{name: "comments only", input: "# nothing", want: false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, isLikelyTOML(tt.input))
		})
	}
}

func TestLoadRoot(t *testing.T) {
	single, err := LoadRoot(`{"id": 7}`)
	require.NoError(t, err)
	assert.Equal(t, map[string]interface{}{"id": float64(7)}, single)

	multi, err := LoadRoot("{\"id\": 1}\n{\"id\": 2}")
	require.NoError(t, err)
	assert.Len(t, multi, 2)
}

func TestLoadFile_HonorsExtension(t *testing.T) {
	dir := t.TempDir()

	write := func(name, content string) string {
		path := filepath.Join(dir, name)
		require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
		return path
	}

	t.Run("yaml", func(t *testing.T) {
		root, err := LoadFile(write("book.yml", "loading: true\n"))
		require.NoError(t, err)
		assert.Equal(t, map[string]interface{}{"loading": true}, root)
	})

	t.Run("json", func(t *testing.T) {
		root, err := LoadFile(write("book.json", `{"loading": false}`))
		require.NoError(t, err)
		assert.Equal(t, map[string]interface{}{"loading": false}, root)
	})

	t.Run("ndjson", func(t *testing.T) {
		root, err := LoadFile(write("orders.ndjson", "{\"id\": 1}\n{\"id\": 2}\n"))
		require.NoError(t, err)
		assert.Len(t, root, 2)
	})

	t.Run("toml", func(t *testing.T) {
		root, err := LoadFile(write("book.toml", "[[orders]]\nid = 1\n"))
		require.NoError(t, err)
		m, ok := root.(map[string]interface{})
		require.True(t, ok)
		assert.Contains(t, m, "orders")
	})

	t.Run("wrong extension falls back to detection", func(t *testing.T) {
		root, err := LoadFile(write("oops.toml", `{"key":"val"}`))
		require.NoError(t, err)
		assert.Equal(t, map[string]interface{}{"key": "val"}, root)
	})

	t.Run("missing file", func(t *testing.T) {
		_, err := LoadFile(filepath.Join(dir, "nope.json"))
		assert.Error(t, err)
	})
}

func TestLoadSource(t *testing.T) {
	root, err := LoadSource("-", strings.NewReader(`[{"id": 1}]`))
	require.NoError(t, err)
	assert.Len(t, root, 1)

	root, err = LoadSource("", strings.NewReader("id: 3"))
	require.NoError(t, err)
	assert.Equal(t, map[string]interface{}{"id": 3}, root)
}

func TestDecode(t *testing.T) {
	type order struct {
		ID      int     `json:"id"`
		Premium float64 `json:"premium"`
	}

	root, err := LoadRoot("id: 4\npremium: -1.25\n")
	require.NoError(t, err)

	var o order
	require.NoError(t, Decode(root, &o))
	assert.Equal(t, order{ID: 4, Premium: -1.25}, o)

	var wrong []order
	assert.Error(t, Decode(root, &wrong))
}
