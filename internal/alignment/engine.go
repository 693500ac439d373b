package alignment

import (
	"errors"

	"github.com/aria-lang/swsearch-go/internal/sequence"
)

// ErrNotReady is returned when the engine is asked to bind a subject or to
// align before a query (and subject) have been set.
var ErrNotReady = errors.New("alignment: engine not ready, set the query before the subject")

// PairAligner aligns a query against a subject.
type PairAligner interface {
	AlignPair(query, subject *sequence.Sequence) (*Alignment, error)
}

// tables are the three score tables stored flat with row stride N+1.
type tables struct {
	s, ga, gb []int
	stride    int
}

func (t *tables) at(i, j int) int { return i*t.stride + j }

// Engine computes local alignments of one query against many subjects.
// Its tables grow to the largest subject seen and are never shrunk.
// An Engine is not safe for concurrent use; give each worker its own.
type Engine struct {
	matrix SubstitutionMatrix
	gap    GapPenalty

	query     *sequence.Sequence
	queryID   int
	subject   *sequence.Sequence
	subjectID int

	t tables

	_ [64]byte // false sharing padding
}

// NewEngine returns an engine using matrix and gap. A nil matrix selects
// BLOSUM-62.
func NewEngine(matrix SubstitutionMatrix, gap GapPenalty) *Engine {
	if matrix == nil {
		matrix = BLOSUM62()
	}
	return &Engine{matrix: matrix, gap: gap}
}

// SetSubstitutionMatrix replaces the matrix. It is not validated.
func (e *Engine) SetSubstitutionMatrix(m SubstitutionMatrix) { e.matrix = m }

// SubstitutionMatrix returns the matrix in use.
func (e *Engine) SubstitutionMatrix() SubstitutionMatrix { return e.matrix }

// SetGapPenalty replaces both gap penalties.
func (e *Engine) SetGapPenalty(g GapPenalty) { e.gap = g }

// SetGapExistence replaces the gap opening penalty.
func (e *Engine) SetGapExistence(v int) { e.gap.Existence = v }

// SetGapExtension replaces the gap extension penalty.
func (e *Engine) SetGapExtension(v int) { e.gap.Extension = v }

// GapPenalty returns the gap penalty in use.
func (e *Engine) GapPenalty() GapPenalty { return e.gap }

// SetQuerySequence binds the query. Any previously bound subject is kept
// and the tables are grown to fit both.
func (e *Engine) SetQuerySequence(id int, q *sequence.Sequence) {
	e.query, e.queryID = q, id
	n := 0
	if e.subject != nil {
		n = e.subject.Len()
	}
	e.grow(q.Len(), n)
}

// SetSubjectSequence binds the subject. It fails with ErrNotReady when no
// query has been set.
func (e *Engine) SetSubjectSequence(id int, s *sequence.Sequence) error {
	if e.query == nil {
		return ErrNotReady
	}
	e.subject, e.subjectID = s, id
	e.grow(e.query.Len(), s.Len())
	return nil
}

// Capacity returns the number of cells each table can hold without
// reallocating.
func (e *Engine) Capacity() int { return len(e.t.s) }

func (e *Engine) grow(m, n int) {
	need := (m + 1) * (n + 1)
	if need <= len(e.t.s) {
		return
	}
	e.t.s = make([]int, need)
	e.t.ga = make([]int, need)
	e.t.gb = make([]int, need)
}

// Align fills the tables for the bound query and subject and returns the
// optimal local alignment. When several cells attain the best score the
// first one in row-major order is used. A best score of 0 yields an empty
// alignment finishing at (0,0).
func (e *Engine) Align() (*Alignment, error) {
	if e.query == nil || e.subject == nil {
		return nil, ErrNotReady
	}
	a, b := e.query.Residues(), e.subject.Residues()
	score, fi, fj := e.fill(a, b)

	al := &Alignment{
		QueryID:       e.queryID,
		SubjectID:     e.subjectID,
		QueryLength:   len(a) - 1,
		SubjectLength: len(b) - 1,
		Score:         score,
		QueryStart:    fi,
		QueryFinish:   fi,
		SubjectStart:  fj,
		SubjectFinish: fj,
	}
	if score == 0 {
		return al, nil
	}
	al.Steps, al.QueryStart, al.SubjectStart = traceback(&e.t, a, b, e.matrix, e.gap, fi, fj)
	return al, nil
}

// AlignPair binds query and subject with id 0 and aligns them.
func (e *Engine) AlignPair(query, subject *sequence.Sequence) (*Alignment, error) {
	e.SetQuerySequence(0, query)
	if err := e.SetSubjectSequence(0, subject); err != nil {
		return nil, err
	}
	return e.Align()
}

// fill runs the Gotoh recurrence over a and b (1-indexed residue codes) and
// returns the best score with its row-major first position.
func (e *Engine) fill(a, b []byte) (best, bi, bj int) {
	m, n := len(a)-1, len(b)-1
	e.t.stride = n + 1
	s, ga, gb := e.t.s, e.t.ga, e.t.gb
	g, h := e.gap.Existence, e.gap.Extension

	for j := 0; j <= n; j++ {
		s[j], ga[j], gb[j] = 0, 0, 0
	}
	for i := 1; i <= m; i++ {
		row := i * e.t.stride
		prev := row - e.t.stride
		s[row], ga[row], gb[row] = 0, 0, 0
		delta := e.matrix[a[i]]
		for j := 1; j <= n; j++ {
			up := s[prev+j] + g
			if x := ga[prev+j] + h; x > up {
				up = x
			}
			left := s[row+j-1] + g
			if x := gb[row+j-1] + h; x > left {
				left = x
			}
			v := s[prev+j-1] + delta[b[j]]
			if v < 0 {
				v = 0
			}
			if up > v {
				v = up
			}
			if left > v {
				v = left
			}
			ga[row+j], gb[row+j], s[row+j] = up, left, v
			if v > best {
				best, bi, bj = v, i, j
			}
		}
	}
	return best, bi, bj
}

// SmithWaterman aligns query against subject with a fresh engine. A nil
// scoring selects BLOSUM-62 with the default gap penalty.
func SmithWaterman(query, subject *sequence.Sequence, scoring *Scoring) (*Alignment, error) {
	if scoring == nil {
		scoring = DefaultScoring()
	}
	return NewEngine(scoring.Matrix, scoring.Gap).AlignPair(query, subject)
}

// ScoreOnly returns the optimal local score using two rows per table
// instead of full tables. No traceback is possible.
func ScoreOnly(query, subject *sequence.Sequence, scoring *Scoring) int {
	if scoring == nil {
		scoring = DefaultScoring()
	}
	a, b := query.Residues(), subject.Residues()
	n := len(b) - 1
	g, h := scoring.Gap.Existence, scoring.Gap.Extension

	prevS, currS := make([]int, n+1), make([]int, n+1)
	prevA, currA := make([]int, n+1), make([]int, n+1)
	currB := make([]int, n+1)

	best := 0
	for i := 1; i < len(a); i++ {
		currS[0], currA[0], currB[0] = 0, 0, 0
		delta := scoring.Matrix[a[i]]
		for j := 1; j <= n; j++ {
			up := prevS[j] + g
			if x := prevA[j] + h; x > up {
				up = x
			}
			left := currS[j-1] + g
			if x := currB[j-1] + h; x > left {
				left = x
			}
			v := prevS[j-1] + delta[b[j]]
			if v < 0 {
				v = 0
			}
			if up > v {
				v = up
			}
			if left > v {
				v = left
			}
			currS[j], currA[j], currB[j] = v, up, left
			if v > best {
				best = v
			}
		}
		prevS, currS = currS, prevS
		prevA, currA = currA, prevA
	}
	return best
}
