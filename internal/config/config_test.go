package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aria-lang/swsearch-go/internal/alignment"
)

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoadDefaults(t *testing.T) {
	c, err := Load(New())
	require.NoError(t, err)

	assert.Equal(t, -11, c.GapExistence)
	assert.Equal(t, -1, c.GapExtension)
	assert.Equal(t, 10.0, c.Expect)
	assert.Equal(t, 0, c.Workers)
	assert.Equal(t, "blosum62", c.Matrix)
	assert.False(t, c.Progress)
	assert.Equal(t, FormatText, c.Format)
	assert.Equal(t, 60, c.DescriptionWidth)
	assert.Equal(t, "localhost:8080", c.Server.Addr)
	assert.Empty(t, c.Server.DB)

	assert.Equal(t, alignment.BLOSUM62(), c.SubstitutionMatrix())
	assert.Equal(t, alignment.DefaultGapPenalty(), c.GapPenalty())

	sc := c.Search()
	assert.Equal(t, 10.0, sc.Expect)
	assert.Equal(t, alignment.DefaultGapPenalty(), sc.Gap)
}

func TestReadFile(t *testing.T) {
	path := writeFile(t, "swsearch.yaml", `
gap-existence: -8
gap-extension: -8
matrix: blosum50
expect: 0.5
workers: 3
format: yaml
server:
  db: /data/uniprot.fa
`)
	v := New()
	require.NoError(t, ReadFile(v, path))
	c, err := Load(v)
	require.NoError(t, err)

	assert.Equal(t, alignment.GapPenalty{Existence: -8, Extension: -8}, c.GapPenalty())
	assert.Equal(t, alignment.BLOSUM50(), c.SubstitutionMatrix())
	assert.Equal(t, 0.5, c.Expect)
	assert.Equal(t, 3, c.Workers)
	assert.Equal(t, FormatYAML, c.Format)
	assert.Equal(t, "/data/uniprot.fa.idx", c.Server.Index)
	assert.Equal(t, 60, c.DescriptionWidth)
}

func TestReadFileEmptyPath(t *testing.T) {
	assert.NoError(t, ReadFile(New(), ""))
}

func TestReadFileMissing(t *testing.T) {
	err := ReadFile(New(), filepath.Join(t.TempDir(), "nope.yaml"))
	assert.Error(t, err)
}

func TestEnvironmentOverridesDefaults(t *testing.T) {
	t.Setenv("SWSEARCH_GAP_EXISTENCE", "-10")
	t.Setenv("SWSEARCH_EXPECT", "0.01")
	t.Setenv("SWSEARCH_SERVER_ADDR", ":9000")

	c, err := Load(New())
	require.NoError(t, err)
	assert.Equal(t, -10, c.GapExistence)
	assert.Equal(t, 0.01, c.Expect)
	assert.Equal(t, ":9000", c.Server.Addr)
}

func TestSetOverridesFile(t *testing.T) {
	path := writeFile(t, "swsearch.yaml", "expect: 0.5\n")
	v := New()
	require.NoError(t, ReadFile(v, path))
	v.Set(KeyExpect, 2.0)

	c, err := Load(v)
	require.NoError(t, err)
	assert.Equal(t, 2.0, c.Expect)
}

func TestMatrixFile(t *testing.T) {
	path := writeFile(t, "tiny.mat", `# two letters
   A  B
A  2 -1
B -1  3
`)
	v := New()
	v.Set(KeyMatrix, path)
	c, err := Load(v)
	require.NoError(t, err)

	m := c.SubstitutionMatrix()
	assert.Equal(t, 2, m[0][0])
	assert.Equal(t, 3, m[1][1])
	assert.Equal(t, m, c.Scoring().Matrix)
}

func TestLoadInvalid(t *testing.T) {
	tests := []struct {
		name  string
		key   string
		value interface{}
	}{
		{"positive existence", KeyGapExistence, 1},
		{"positive extension", KeyGapExtension, 2},
		{"zero expect", KeyExpect, 0.0},
		{"negative expect", KeyExpect, -1.0},
		{"negative workers", KeyWorkers, -2},
		{"zero description width", KeyDescriptionWidth, 0},
		{"unknown format", KeyFormat, "xml"},
		{"missing matrix file", KeyMatrix, "/nonexistent/matrix"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			v := New()
			v.Set(tt.key, tt.value)
			_, err := Load(v)
			assert.ErrorIs(t, err, ErrInvalid)
		})
	}
}

func TestZeroConfigFallsBackToBLOSUM62(t *testing.T) {
	var c Config
	assert.Equal(t, alignment.BLOSUM62(), c.SubstitutionMatrix())
}
