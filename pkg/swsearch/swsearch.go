// Package swsearch provides a high-level API for local alignment search of
// protein sequences.
//
// This package exposes the core swsearch functionality: Smith-Waterman
// alignment with affine gaps, BLOSUM scoring, indexed FASTA databases and
// ranked searches with Karlin-Altschul statistics.
//
// Example usage:
//
//	query, err := swsearch.NewSequence("query", "PAWHEAE")
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	db, err := swsearch.OpenDatabase("uniprot.fa", "uniprot.fa.idx")
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer db.Close()
//
//	res, err := swsearch.Search(ctx, query, db, swsearch.DefaultSearchConfig())
//	if err != nil {
//	    log.Fatal(err)
//	}
//	swsearch.WriteReport(os.Stdout, res)
package swsearch

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/aria-lang/swsearch-go/internal/alignment"
	"github.com/aria-lang/swsearch-go/internal/database"
	"github.com/aria-lang/swsearch-go/internal/report"
	"github.com/aria-lang/swsearch-go/internal/search"
	"github.com/aria-lang/swsearch-go/internal/sequence"
	"github.com/aria-lang/swsearch-go/internal/stats"
)

// Re-export types for convenience
type (
	Sequence           = sequence.Sequence
	Alignment          = alignment.Alignment
	Scoring            = alignment.Scoring
	GapPenalty         = alignment.GapPenalty
	SubstitutionMatrix = alignment.SubstitutionMatrix
	Database           = database.Database
	Source             = search.Source
	SearchConfig       = search.Config
	Result             = search.Result
	Hit                = search.Hit
	SequenceSetStats   = stats.SequenceSetStats
)

// Version is the swsearch release.
const Version = "1.0.0"

// NewSequence creates a protein sequence from its one-letter residues.
func NewSequence(description, residues string) (*Sequence, error) {
	return sequence.New(description, residues)
}

// ReadFASTA reads every record of a FASTA file.
func ReadFASTA(filename string) ([]*Sequence, error) {
	return sequence.ReadFile(filename)
}

// ParseFASTA reads every record of FASTA text.
func ParseFASTA(r io.Reader) ([]*Sequence, error) {
	return sequence.ReadAll(r)
}

// DefaultScoring returns BLOSUM-62 with gap penalties -11/-1.
func DefaultScoring() *Scoring {
	return alignment.DefaultScoring()
}

// NewScoring creates validated scoring parameters. A nil matrix selects
// BLOSUM-62.
func NewScoring(matrix SubstitutionMatrix, existence, extension int) (*Scoring, error) {
	return alignment.NewScoring(matrix, existence, extension)
}

// BuiltinMatrix returns the built-in matrix called name, "blosum62" or
// "blosum50". The empty name selects BLOSUM-62.
func BuiltinMatrix(name string) (SubstitutionMatrix, error) {
	switch strings.ToLower(name) {
	case "", "blosum62":
		return alignment.BLOSUM62(), nil
	case "blosum50":
		return alignment.BLOSUM50(), nil
	}
	return nil, fmt.Errorf("unknown matrix %q", name)
}

// Align performs local alignment with the default scoring.
func Align(query, subject *Sequence) (*Alignment, error) {
	return alignment.SmithWaterman(query, subject, nil)
}

// AlignWithScoring performs local alignment with custom scoring.
func AlignWithScoring(query, subject *Sequence, scoring *Scoring) (*Alignment, error) {
	return alignment.SmithWaterman(query, subject, scoring)
}

// Score returns the best local alignment score without a traceback.
func Score(query, subject *Sequence, scoring *Scoring) int {
	return alignment.ScoreOnly(query, subject, scoring)
}

// BuildIndex indexes the FASTA database at dbPath and writes the index to
// indexPath.
func BuildIndex(dbPath, indexPath string) (*SequenceSetStats, error) {
	ix, err := database.WriteIndexFile(dbPath, indexPath)
	if err != nil {
		return nil, err
	}
	return stats.FromLengths(ix.Lengths()), nil
}

// OpenDatabase maps an indexed FASTA database.
func OpenDatabase(dbPath, indexPath string) (*Database, error) {
	return database.Open(dbPath, indexPath)
}

// DefaultSearchConfig returns BLOSUM-62, gap penalties -11/-1, an E-value
// cutoff of 10 and one worker per CPU.
func DefaultSearchConfig() SearchConfig {
	return SearchConfig{
		Expect: search.DefaultExpect,
		Matrix: alignment.BLOSUM62(),
		Gap:    alignment.DefaultGapPenalty(),
	}
}

// Search aligns query against every sequence of src and returns the ranked
// significant hits.
func Search(ctx context.Context, query *Sequence, src Source, cfg SearchConfig) (*Result, error) {
	return search.Run(ctx, cfg, query, src, nil, nil)
}

// SearchSequences searches an in-memory set of subjects.
func SearchSequences(ctx context.Context, query *Sequence, subjects []*Sequence, cfg SearchConfig) (*Result, error) {
	return Search(ctx, query, search.SliceSource(subjects), cfg)
}

// WriteReport writes the text report of a search.
func WriteReport(w io.Writer, res *Result) error {
	return newRenderer(res).WriteReport(w, res)
}

// WriteYAML writes a search result as YAML.
func WriteYAML(w io.Writer, res *Result) error {
	return newRenderer(res).WriteYAML(w, res)
}

func newRenderer(res *Result) *report.Renderer {
	return report.NewRenderer(res.Stats, res.Matrix)
}

// SequenceStats summarizes the lengths of a set of sequences.
func SequenceStats(sequences []*Sequence) (*SequenceSetStats, error) {
	return stats.FromSequences(sequences)
}

// Info returns information about swsearch.
func Info() string {
	return fmt.Sprintf(`swsearch v%s - Local Alignment Search

Features:
  - Smith-Waterman local alignment with Gotoh affine gaps
  - BLOSUM-62 and BLOSUM-50 substitution matrices, NCBI matrix files
  - Memory-mapped, indexed FASTA databases
  - Parallel database search ranked by score
  - Karlin-Altschul bit scores and E-values
  - Text and YAML reports
`, Version)
}
