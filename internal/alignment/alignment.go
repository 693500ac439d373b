package alignment

import (
	"fmt"
	"sort"
	"strings"

	"github.com/aria-lang/swsearch-go/internal/sequence"
)

// Op is the kind of an alignment step.
type Op uint8

const (
	// Match pairs query residue I with subject residue J.
	Match Op = iota
	// QueryGap consumes query residue I against a gap in the subject.
	QueryGap
	// SubjectGap consumes subject residue J against a gap in the query.
	SubjectGap
)

func (o Op) String() string {
	switch o {
	case Match:
		return "match"
	case QueryGap:
		return "query-gap"
	case SubjectGap:
		return "subject-gap"
	default:
		return "unknown"
	}
}

// Step is one column of an alignment. Positions are 1-based; a position
// not consumed by the step is 0.
type Step struct {
	Op Op
	I  int
	J  int
}

// Alignment is the result of aligning one query with one subject. It is
// not modified after the engine returns it.
type Alignment struct {
	QueryID       int
	SubjectID     int
	QueryLength   int
	SubjectLength int
	Score         int
	QueryStart    int
	QueryFinish   int
	SubjectStart  int
	SubjectFinish int
	Steps         []Step
}

// Len returns the number of alignment columns.
func (a *Alignment) Len() int {
	return len(a.Steps)
}

// Empty reports whether no alignment was found.
func (a *Alignment) Empty() bool {
	return len(a.Steps) == 0
}

// Counts returns the number of steps of each kind.
func (a *Alignment) Counts() (matches, queryGaps, subjectGaps int) {
	for _, st := range a.Steps {
		switch st.Op {
		case Match:
			matches++
		case QueryGap:
			queryGaps++
		case SubjectGap:
			subjectGaps++
		}
	}
	return matches, queryGaps, subjectGaps
}

// Summary holds the column statistics used in reports.
type Summary struct {
	Length     int
	Identities int
	Positives  int
	Gaps       int
}

// Summarize counts identical pairs, positive pairs (identical or scoring
// above zero) and gap columns. query and subject must be the sequences the
// alignment was computed from.
func (a *Alignment) Summarize(query, subject *sequence.Sequence, matrix SubstitutionMatrix) Summary {
	qa, sb := query.Residues(), subject.Residues()
	sum := Summary{Length: len(a.Steps)}
	for _, st := range a.Steps {
		if st.Op != Match {
			sum.Gaps++
			continue
		}
		x, y := qa[st.I], sb[st.J]
		if x == y {
			sum.Identities++
			sum.Positives++
		} else if matrix[x][y] > 0 {
			sum.Positives++
		}
	}
	return sum
}

// Rows renders the alignment as a query row, an agreement row ('+' for a
// positive pair, space otherwise) and a subject row. Gaps show as '-'.
func (a *Alignment) Rows(query, subject *sequence.Sequence, matrix SubstitutionMatrix) (q, agree, s string) {
	qa, sb := query.Residues(), subject.Residues()
	qr := make([]byte, len(a.Steps))
	ar := make([]byte, len(a.Steps))
	sr := make([]byte, len(a.Steps))
	for k, st := range a.Steps {
		switch st.Op {
		case Match:
			x, y := qa[st.I], sb[st.J]
			qr[k], sr[k] = sequence.Decode(x), sequence.Decode(y)
			if x == y || matrix[x][y] > 0 {
				ar[k] = '+'
			} else {
				ar[k] = ' '
			}
		case QueryGap:
			qr[k], ar[k], sr[k] = sequence.Decode(qa[st.I]), ' ', '-'
		case SubjectGap:
			qr[k], ar[k], sr[k] = '-', ' ', sequence.Decode(sb[st.J])
		}
	}
	return string(qr), string(ar), string(sr)
}

// CIGAR returns the run-length encoded steps: M for Match, I for QueryGap,
// D for SubjectGap.
func (a *Alignment) CIGAR() string {
	if len(a.Steps) == 0 {
		return ""
	}

	var cigar strings.Builder
	currentOp := byte(0)
	count := 0
	for _, st := range a.Steps {
		var op byte
		switch st.Op {
		case QueryGap:
			op = 'I'
		case SubjectGap:
			op = 'D'
		default:
			op = 'M'
		}

		if op == currentOp {
			count++
			continue
		}
		if count > 0 {
			fmt.Fprintf(&cigar, "%d%c", count, currentOp)
		}
		currentOp = op
		count = 1
	}
	fmt.Fprintf(&cigar, "%d%c", count, currentOp)
	return cigar.String()
}

func (a *Alignment) String() string {
	return fmt.Sprintf("Alignment { score: %d, query: %d-%d, subject: %d-%d, cigar: %s }",
		a.Score, a.QueryStart, a.QueryFinish, a.SubjectStart, a.SubjectFinish, a.CIGAR())
}

// SortByScore orders alignments by descending score, breaking ties by
// ascending subject id.
func SortByScore(as []*Alignment) {
	sort.SliceStable(as, func(i, j int) bool {
		if as[i].Score != as[j].Score {
			return as[i].Score > as[j].Score
		}
		return as[i].SubjectID < as[j].SubjectID
	})
}
