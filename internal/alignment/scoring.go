// Package alignment implements Smith-Waterman local alignment with Gotoh
// affine gap penalties.
//
// An Engine owns the dynamic programming tables and is reused across many
// subjects for one query. The tables are filled by Align and walked back by
// a three-state traceback to produce an immutable Alignment.
package alignment

import "fmt"

// GapPenalty is the affine gap model. Opening a gap costs Existence and
// every further residue of the same gap costs Extension. Both are expected
// to be <= 0 but this is not enforced here.
type GapPenalty struct {
	Existence int
	Extension int
}

// DefaultGapPenalty returns the -11/-1 penalty used with BLOSUM-62.
func DefaultGapPenalty() GapPenalty {
	return GapPenalty{Existence: -11, Extension: -1}
}

// Cost returns the penalty of a gap of length k.
func (g GapPenalty) Cost(k int) int {
	if k <= 0 {
		return 0
	}
	return g.Existence + (k-1)*g.Extension
}

func (g GapPenalty) String() string {
	return fmt.Sprintf("existence %d, extension %d", g.Existence, g.Extension)
}

// Scoring bundles a substitution matrix with a gap penalty.
type Scoring struct {
	Matrix SubstitutionMatrix
	Gap    GapPenalty
}

// NewScoring creates validated scoring parameters. A nil matrix selects
// BLOSUM-62.
func NewScoring(matrix SubstitutionMatrix, existence, extension int) (*Scoring, error) {
	if matrix == nil {
		matrix = BLOSUM62()
	}
	if err := matrix.Validate(); err != nil {
		return nil, err
	}
	if existence > 0 {
		return nil, fmt.Errorf("gap existence penalty should be <= 0, got %d", existence)
	}
	if extension > 0 {
		return nil, fmt.Errorf("gap extension penalty should be <= 0, got %d", extension)
	}
	return &Scoring{
		Matrix: matrix,
		Gap:    GapPenalty{Existence: existence, Extension: extension},
	}, nil
}

// DefaultScoring returns BLOSUM-62 with a -11/-1 gap penalty.
func DefaultScoring() *Scoring {
	return &Scoring{Matrix: BLOSUM62(), Gap: DefaultGapPenalty()}
}

func (s *Scoring) String() string {
	return fmt.Sprintf("Scoring { matrix: %dx%d, gap: %s }", s.Matrix.Size(), s.Matrix.Size(), s.Gap)
}
