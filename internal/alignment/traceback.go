package alignment

import "fmt"

type traceState int

const (
	stateMain traceState = iota
	stateQueryGap
	stateSubjectGap
)

func (s traceState) String() string {
	switch s {
	case stateMain:
		return "main"
	case stateQueryGap:
		return "query-gap"
	case stateSubjectGap:
		return "subject-gap"
	default:
		return "unknown"
	}
}

// traceback walks filled tables back from (fi, fj) until it reaches a zero
// cell and returns the steps in forward order with the start coordinates.
// It panics if the tables do not admit any transition, which means they
// were not produced by fill with the same inputs.
func traceback(t *tables, a, b []byte, matrix SubstitutionMatrix, gap GapPenalty, fi, fj int) (steps []Step, qs, ss int) {
	i, j := fi, fj
	qs, ss = fi, fj
	state := stateMain

	for t.s[t.at(i, j)] != 0 {
		c := t.at(i, j)
		switch state {
		case stateMain:
			switch {
			case t.s[c] == t.s[t.at(i-1, j-1)]+matrix[a[i]][b[j]]:
				steps = append(steps, Step{Op: Match, I: i, J: j})
				qs, ss = i, j
				i--
				j--
			case t.s[c] == t.ga[c]:
				state = stateQueryGap
			case t.s[c] == t.gb[c]:
				state = stateSubjectGap
			default:
				inconsistent(state, i, j, t)
			}
		case stateQueryGap:
			steps = append(steps, Step{Op: QueryGap, I: i})
			qs = i
			up := t.at(i-1, j)
			switch {
			case t.ga[c] == t.s[up]+gap.Existence:
				state = stateMain
			case t.ga[c] == t.ga[up]+gap.Extension:
			default:
				inconsistent(state, i, j, t)
			}
			i--
		case stateSubjectGap:
			steps = append(steps, Step{Op: SubjectGap, J: j})
			ss = j
			left := t.at(i, j-1)
			switch {
			case t.gb[c] == t.s[left]+gap.Existence:
				state = stateMain
			case t.gb[c] == t.gb[left]+gap.Extension:
			default:
				inconsistent(state, i, j, t)
			}
			j--
		}
	}

	for l, r := 0, len(steps)-1; l < r; l, r = l+1, r-1 {
		steps[l], steps[r] = steps[r], steps[l]
	}
	return steps, qs, ss
}

func inconsistent(state traceState, i, j int, t *tables) {
	c := t.at(i, j)
	panic(fmt.Sprintf("alignment: traceback has no transition in state %s at (%d,%d): S=%d GA=%d GB=%d",
		state, i, j, t.s[c], t.ga[c], t.gb[c]))
}
