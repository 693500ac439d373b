package main

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"

	"github.com/aria-lang/swsearch-go/internal/report"
)

const testDB = `>unrelated
PPPPPPPPPPGGGGGGGGGG
>half
MKTAYIAKQRQISFVKSHF
>full
MKTAYIAKQRQISFVKSHFS
RQLEERLGLIEVQ
>gapped
MKTAYIAKQRQISFVKSHFSRQDDLEERLGLIEVQ
`

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	out, _, err := executeStreams(t, args...)
	return out, err
}

// executeStreams runs the command tree and returns what it wrote to its
// output and error streams.
func executeStreams(t *testing.T, args ...string) (stdout, stderr string, err error) {
	t.Helper()
	cmd := newRootCmd()
	var out, errOut bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&errOut)
	cmd.SetArgs(args)
	err = cmd.ExecuteContext(context.Background())
	return out.String(), errOut.String(), err
}

type files struct {
	query, db, index string
}

func setup(t *testing.T) files {
	t.Helper()
	dir := t.TempDir()
	f := files{
		query: filepath.Join(dir, "query.fa"),
		db:    filepath.Join(dir, "db.fa"),
		index: filepath.Join(dir, "db.fa.idx"),
	}
	require.NoError(t, os.WriteFile(f.query, []byte(">query\nMKTAYIAKQRQISFVKSHFSRQLEERLGLIEVQ\n"), 0o644))
	require.NoError(t, os.WriteFile(f.db, []byte(testDB), 0o644))

	out, err := execute(t, "index", f.db, f.index)
	require.NoError(t, err)
	require.Contains(t, out, "indexed 4 sequences, 107 residues")
	return f
}

func TestIndex(t *testing.T) {
	f := setup(t)
	out, err := execute(t, "index", "--histogram", "2", f.db, f.index)
	require.NoError(t, err)
	assert.Contains(t, out, "count: 4")
	assert.Contains(t, out, "Length Histogram:")
}

func TestSearch(t *testing.T) {
	f := setup(t)
	out, err := execute(t, "search", f.query, f.db, f.index)
	require.NoError(t, err)

	assert.True(t, strings.HasPrefix(out, "Query= query\n"))
	assert.Contains(t, out, "Number of sequences searched: 4")
	assert.Contains(t, out, "Number of hits: 3")
	assert.NotContains(t, out, ">unrelated")

	full := strings.Index(out, ">full")
	gapped := strings.Index(out, ">gapped")
	half := strings.Index(out, ">half")
	require.True(t, full > 0 && gapped > 0 && half > 0)
	assert.Less(t, full, gapped)
	assert.Less(t, gapped, half)
}

func TestSearchExpectArgument(t *testing.T) {
	f := setup(t)
	out, err := execute(t, "search", f.query, f.db, f.index, "1e-300")
	require.NoError(t, err)
	assert.Contains(t, out, "No hits found")
	assert.Contains(t, out, "Number of sequences searched: 4")
}

func TestSearchYAML(t *testing.T) {
	f := setup(t)
	out, err := execute(t, "search", "--format", "yaml", "-j", "2", f.query, f.db, f.index)
	require.NoError(t, err)

	var rep report.YAMLReport
	require.NoError(t, yaml.Unmarshal([]byte(out), &rep))
	assert.Equal(t, "query", rep.Query)
	require.Len(t, rep.Hits, 3)
	assert.Equal(t, "full", rep.Hits[0].Subject)
	assert.Equal(t, 148, rep.Hits[1].Score)
	assert.Equal(t, "22M2D11M", rep.Hits[1].CIGAR)
}

func TestSearchConfigFile(t *testing.T) {
	f := setup(t)
	cfg := filepath.Join(t.TempDir(), "swsearch.yaml")
	require.NoError(t, os.WriteFile(cfg, []byte("format: yaml\nworkers: 1\n"), 0o644))

	out, err := execute(t, "search", "--config", cfg, f.query, f.db, f.index)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(out, "query: query\n"))
}

func TestSearchBadArguments(t *testing.T) {
	f := setup(t)
	tests := []struct {
		name string
		args []string
	}{
		{"too few", []string{"search", f.query, f.db}},
		{"too many", []string{"search", f.query, f.db, f.index, "10", "extra"}},
		{"expect not a number", []string{"search", f.query, f.db, f.index, "ten"}},
		{"expect zero", []string{"search", f.query, f.db, f.index, "0"}},
		{"unknown flag", []string{"search", "--no-such-flag", f.query, f.db, f.index}},
		{"align one file", []string{"align", f.query}},
		{"index three files", []string{"index", f.db, f.index, f.query}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			stdout, stderr, err := executeStreams(t, tt.args...)
			assert.Error(t, err)
			assert.Contains(t, stderr, "Usage:")
			assert.NotContains(t, stdout, "Usage:")
		})
	}
}

func TestSearchErrors(t *testing.T) {
	f := setup(t)
	missing := filepath.Join(t.TempDir(), "missing.fa")

	tests := []struct {
		name string
		args []string
	}{
		{"missing query", []string{"search", missing, f.db, f.index}},
		{"missing database", []string{"search", f.query, missing, f.index}},
		{"positive gap", []string{"search", "--gap-existence=3", f.query, f.db, f.index}},
		{"unknown format", []string{"search", "--format", "xml", f.query, f.db, f.index}},
		{"unknown profile", []string{"search", "--profile", "block", f.query, f.db, f.index}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			stdout, stderr, err := executeStreams(t, tt.args...)
			assert.Error(t, err)
			assert.NotContains(t, stdout, "Usage:")
			assert.NotContains(t, stderr, "Usage:")
		})
	}
}

func TestAlign(t *testing.T) {
	dir := t.TempDir()
	q := filepath.Join(dir, "q.fa")
	s := filepath.Join(dir, "s.fa")
	require.NoError(t, os.WriteFile(q, []byte(">q\nPAWHEAE\n"), 0o644))
	require.NoError(t, os.WriteFile(s, []byte(">s\nHEAGAWGHEE\n"), 0o644))

	out, err := execute(t, "align", q, s)
	require.NoError(t, err)
	assert.Contains(t, out, "(17)")
	assert.Contains(t, out, "Query: 2     AW-HE 5")
	assert.Contains(t, out, "Sbjct: 5     AWGHE 9")

	out, err = execute(t, "align", "--matrix", "blosum50", "--gap-existence=-8", "--gap-extension=-8", q, s)
	require.NoError(t, err)
	assert.Contains(t, out, "(28)")
}

func TestAlignNoAlignment(t *testing.T) {
	dir := t.TempDir()
	q := filepath.Join(dir, "q.fa")
	s := filepath.Join(dir, "s.fa")
	require.NoError(t, os.WriteFile(q, []byte(">q\nWWWW\n"), 0o644))
	require.NoError(t, os.WriteFile(s, []byte(">s\nPPPP\n"), 0o644))

	out, err := execute(t, "align", q, s)
	require.NoError(t, err)
	assert.Contains(t, out, "No alignment found")
}

func TestVersion(t *testing.T) {
	out, err := execute(t, "version")
	require.NoError(t, err)
	assert.Contains(t, out, "swsearch v1.0.0")
}
