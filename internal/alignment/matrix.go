package alignment

import (
	"bufio"
	"bytes"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/aria-lang/swsearch-go/internal/sequence"
)

// SubstitutionMatrix holds delta[x][y], the score for aligning residue code
// x with residue code y. It must be square and at least
// sequence.NumCodes wide for every code that can appear in a sequence.
type SubstitutionMatrix [][]int

// Score returns delta[x][y]. Codes are not range checked.
func (m SubstitutionMatrix) Score(x, y byte) int {
	return m[x][y]
}

// Size returns the number of rows.
func (m SubstitutionMatrix) Size() int {
	return len(m)
}

// Validate reports whether m is square and large enough to index every
// residue code.
func (m SubstitutionMatrix) Validate() error {
	if len(m) < sequence.NumCodes {
		return fmt.Errorf("substitution matrix has %d rows, need at least %d", len(m), sequence.NumCodes)
	}
	for i, row := range m {
		if len(row) != len(m) {
			return fmt.Errorf("substitution matrix row %d has %d columns, want %d", i, len(row), len(m))
		}
	}
	return nil
}

// Clone returns a deep copy of m.
func (m SubstitutionMatrix) Clone() SubstitutionMatrix {
	out := make(SubstitutionMatrix, len(m))
	for i, row := range m {
		out[i] = append([]int(nil), row...)
	}
	return out
}

// Min returns the smallest entry of m.
func (m SubstitutionMatrix) Min() int {
	lo := 0
	for i, row := range m {
		for j, v := range row {
			if (i == 0 && j == 0) || v < lo {
				lo = v
			}
		}
	}
	return lo
}

// Self returns the sum of delta[x][x] over the residues of seq.
func (m SubstitutionMatrix) Self(seq *sequence.Sequence) int {
	total := 0
	for _, c := range seq.Residues()[1:] {
		total += m[c][c]
	}
	return total
}

var (
	blosum62 = mustParse("BLOSUM62", blosum62Text)
	blosum50 = mustParse("BLOSUM50", blosum50Text)
)

// BLOSUM62 returns a copy of the default BLOSUM-62 matrix.
func BLOSUM62() SubstitutionMatrix {
	return blosum62.Clone()
}

// BLOSUM50 returns a copy of the BLOSUM-50 matrix.
func BLOSUM50() SubstitutionMatrix {
	return blosum50.Clone()
}

// Equal reports whether m and o have the same shape and entries.
func (m SubstitutionMatrix) Equal(o SubstitutionMatrix) bool {
	if len(m) != len(o) {
		return false
	}
	for i, row := range m {
		if len(row) != len(o[i]) {
			return false
		}
		for j, v := range row {
			if o[i][j] != v {
				return false
			}
		}
	}
	return true
}

// BuiltinName returns "blosum62" or "blosum50" when m has the entries of
// that built-in matrix, and "" otherwise. A nil m is BLOSUM-62.
func BuiltinName(m SubstitutionMatrix) string {
	switch {
	case m == nil || m.Equal(blosum62):
		return "blosum62"
	case m.Equal(blosum50):
		return "blosum50"
	}
	return ""
}

// MatrixByName resolves a built-in matrix name ("blosum62", "blosum50",
// case-insensitive). Any other name is read as a matrix file.
func MatrixByName(name string) (SubstitutionMatrix, error) {
	switch strings.ToLower(name) {
	case "", "blosum62":
		return BLOSUM62(), nil
	case "blosum50":
		return BLOSUM50(), nil
	}
	return ReadMatrix(name)
}

func mustParse(name, text string) SubstitutionMatrix {
	m, err := ParseMatrix(strings.NewReader(text))
	if err != nil {
		panic(fmt.Sprintf("built-in matrix %s: %v", name, err))
	}
	return m
}

// ReadMatrix reads an NCBI-format text matrix from path.
func ReadMatrix(path string) (SubstitutionMatrix, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening matrix: %w", err)
	}
	defer f.Close()

	m, err := ParseMatrix(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return m, nil
}

// ParseMatrix reads an NCBI-format text matrix: '#' comments, a header
// line of single-character column labels, then one row per label starting
// with the row label. The result is NumCodes x NumCodes. Letters missing
// from the text score like X, '-' scores like '*', and when the stand-in
// is missing too the smallest entry of the text is used.
func ParseMatrix(r io.Reader) (SubstitutionMatrix, error) {
	sc := bufio.NewScanner(r)
	var (
		labels []byte
		lineNo int
		seen   = map[byte][]int{}
	)
	for sc.Scan() {
		lineNo++
		line := sc.Bytes()
		if i := bytes.IndexByte(line, '#'); i >= 0 {
			line = line[:i]
		}
		fields := bytes.Fields(line)
		if len(fields) == 0 {
			continue
		}
		if labels == nil {
			for _, f := range fields {
				if len(f) != 1 {
					return nil, fmt.Errorf("line %d: column label %q is not one character", lineNo, f)
				}
				code, ok := sequence.Encode(f[0])
				if !ok {
					return nil, fmt.Errorf("line %d: column label %q is not a residue", lineNo, f)
				}
				labels = append(labels, code)
			}
			continue
		}
		if len(fields[0]) != 1 {
			return nil, fmt.Errorf("line %d: row label %q is not one character", lineNo, fields[0])
		}
		code, ok := sequence.Encode(fields[0][0])
		if !ok {
			return nil, fmt.Errorf("line %d: row label %q is not a residue", lineNo, fields[0])
		}
		if len(fields)-1 != len(labels) {
			return nil, fmt.Errorf("line %d: got %d scores, want %d", lineNo, len(fields)-1, len(labels))
		}
		row := make([]int, len(labels))
		for k, f := range fields[1:] {
			v, err := strconv.Atoi(string(f))
			if err != nil {
				return nil, fmt.Errorf("line %d: %w", lineNo, err)
			}
			row[k] = v
		}
		seen[code] = row
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("reading matrix: %w", err)
	}
	if labels == nil {
		return nil, fmt.Errorf("matrix has no header line")
	}
	if len(seen) == 0 {
		return nil, fmt.Errorf("matrix has no rows")
	}

	column := make(map[byte]int, len(labels))
	for k, c := range labels {
		column[c] = k
	}
	lowest := 0
	first := true
	for _, row := range seen {
		for _, v := range row {
			if first || v < lowest {
				lowest, first = v, false
			}
		}
	}

	xCode, _ := sequence.Encode('X')
	stand := func(c byte, present func(byte) bool) (byte, bool) {
		switch {
		case present(c):
			return c, true
		case c == sequence.GapCode && present(sequence.StopCode):
			return sequence.StopCode, true
		case present(xCode):
			return xCode, true
		}
		return 0, false
	}
	hasRow := func(c byte) bool {
		_, ok := seen[c]
		return ok
	}
	hasCol := func(c byte) bool {
		_, ok := column[c]
		return ok
	}

	m := make(SubstitutionMatrix, sequence.NumCodes)
	for x := 0; x < sequence.NumCodes; x++ {
		m[x] = make([]int, sequence.NumCodes)
		rx, okRow := stand(byte(x), hasRow)
		for y := 0; y < sequence.NumCodes; y++ {
			cy, okCol := stand(byte(y), hasCol)
			if okRow && okCol {
				m[x][y] = seen[rx][column[cy]]
			} else {
				m[x][y] = lowest
			}
		}
	}
	return m, nil
}

const blosum62Text = `#  Matrix made by matblas from blosum62.iij
#  BLOSUM Clustered Scoring Matrix in 1/2 Bit Units
   A  R  N  D  C  Q  E  G  H  I  L  K  M  F  P  S  T  W  Y  V  B  Z  X  *
A  4 -1 -2 -2  0 -1 -1  0 -2 -1 -1 -1 -1 -2 -1  1  0 -3 -2  0 -2 -1  0 -4
R -1  5  0 -2 -3  1  0 -2  0 -3 -2  2 -1 -3 -2 -1 -1 -3 -2 -3 -1  0 -1 -4
N -2  0  6  1 -3  0  0  0  1 -3 -3  0 -2 -3 -2  1  0 -4 -2 -3  3  0 -1 -4
D -2 -2  1  6 -3  0  2 -1 -1 -3 -4 -1 -3 -3 -1  0 -1 -4 -3 -3  4  1 -1 -4
C  0 -3 -3 -3  9 -3 -4 -3 -3 -1 -1 -3 -1 -2 -3 -1 -1 -2 -2 -1 -3 -3 -2 -4
Q -1  1  0  0 -3  5  2 -2  0 -3 -2  1  0 -3 -1  0 -1 -2 -1 -2  0  3 -1 -4
E -1  0  0  2 -4  2  5 -2  0 -3 -3  1 -2 -3 -1  0 -1 -3 -2 -2  1  4 -1 -4
G  0 -2  0 -1 -3 -2 -2  6 -2 -4 -4 -2 -3 -3 -2  0 -2 -2 -3 -3 -1 -2 -1 -4
H -2  0  1 -1 -3  0  0 -2  8 -3 -3 -1 -2 -1 -2 -1 -2 -2  2 -3  0  0 -1 -4
I -1 -3 -3 -3 -1 -3 -3 -4 -3  4  2 -3  1  0 -3 -2 -1 -3 -1  3 -3 -3 -1 -4
L -1 -2 -3 -4 -1 -2 -3 -4 -3  2  4 -2  2  0 -3 -2 -1 -2 -1  1 -4 -3 -1 -4
K -1  2  0 -1 -3  1  1 -2 -1 -3 -2  5 -1 -3 -1  0 -1 -3 -2 -2  0  1 -1 -4
M -1 -1 -2 -3 -1  0 -2 -3 -2  1  2 -1  5  0 -2 -1 -1 -1 -1  1 -3 -1 -1 -4
F -2 -3 -3 -3 -2 -3 -3 -3 -1  0  0 -3  0  6 -4 -2 -2  1  3 -1 -3 -3 -1 -4
P -1 -2 -2 -1 -3 -1 -1 -2 -2 -3 -3 -1 -2 -4  7 -1 -1 -4 -3 -2 -2 -1 -2 -4
S  1 -1  1  0 -1  0  0  0 -1 -2 -2  0 -1 -2 -1  4  1 -3 -2 -2  0  0  0 -4
T  0 -1  0 -1 -1 -1 -1 -2 -2 -1 -1 -1 -1 -2 -1  1  5 -2 -2  0 -1 -1  0 -4
W -3 -3 -4 -4 -2 -2 -3 -2 -2 -3 -2 -3 -1  1 -4 -3 -2 11  2 -3 -4 -3 -2 -4
Y -2 -2 -2 -3 -2 -1 -2 -3  2 -1 -1 -2 -1  3 -3 -2 -2  2  7 -1 -3 -2 -1 -4
V  0 -3 -3 -3 -1 -2 -2 -3 -3  3  1 -2  1 -1 -2 -2  0 -3 -1  4 -3 -2 -1 -4
B -2 -1  3  4 -3  0  1 -1  0 -3 -4  0 -3 -3 -2  0 -1 -4 -3 -3  4  1 -1 -4
Z -1  0  0  1 -3  3  4 -2  0 -3 -3  1 -1 -3 -1  0 -1 -3 -2 -2  1  4 -1 -4
X  0 -1 -1 -1 -2 -1 -1 -1 -1 -1 -1 -1 -1 -1 -2  0  0 -2 -1 -1 -1 -1 -1 -4
* -4 -4 -4 -4 -4 -4 -4 -4 -4 -4 -4 -4 -4 -4 -4 -4 -4 -4 -4 -4 -4 -4 -4  1
`

const blosum50Text = `#  Matrix made by matblas from blosum50.iij
#  BLOSUM Clustered Scoring Matrix in 1/3 Bit Units
   A  R  N  D  C  Q  E  G  H  I  L  K  M  F  P  S  T  W  Y  V  B  Z  X  *
A  5 -2 -1 -2 -1 -1 -1  0 -2 -1 -2 -1 -1 -3 -1  1  0 -3 -2  0 -2 -1 -1 -5
R -2  7 -1 -2 -4  1  0 -3  0 -4 -3  3 -2 -3 -3 -1 -1 -3 -1 -3 -1  0 -1 -5
N -1 -1  7  2 -2  0  0  0  1 -3 -4  0 -2 -4 -2  1  0 -4 -2 -3  4  0 -1 -5
D -2 -2  2  8 -4  0  2 -1 -1 -4 -4 -1 -4 -5 -1  0 -1 -5 -3 -4  5  1 -1 -5
C -1 -4 -2 -4 13 -3 -3 -3 -3 -2 -2 -3 -2 -2 -4 -1 -1 -5 -3 -1 -3 -3 -2 -5
Q -1  1  0  0 -3  7  2 -2  1 -3 -2  2  0 -4 -1  0 -1 -1 -1 -3  0  4 -1 -5
E -1  0  0  2 -3  2  6 -3  0 -4 -3  1 -2 -3 -1 -1 -1 -3 -2 -3  1  5 -1 -5
G  0 -3  0 -1 -3 -2 -3  8 -2 -4 -4 -2 -3 -4 -2  0 -2 -3 -3 -4 -1 -2 -2 -5
H -2  0  1 -1 -3  1  0 -2 10 -4 -3  0 -1 -1 -2 -1 -2 -3  2 -4  0  0 -1 -5
I -1 -4 -3 -4 -2 -3 -4 -4 -4  5  2 -3  2  0 -3 -3 -1 -3 -1  4 -4 -3 -1 -5
L -2 -3 -4 -4 -2 -2 -3 -4 -3  2  5 -3  3  1 -4 -3 -1 -2 -1  1 -4 -3 -1 -5
K -1  3  0 -1 -3  2  1 -2  0 -3 -3  6 -2 -4 -1  0 -1 -3 -2 -3  0  1 -1 -5
M -1 -2 -2 -4 -2  0 -2 -3 -1  2  3 -2  7  0 -3 -2 -1 -1  0  1 -3 -1 -1 -5
F -3 -3 -4 -5 -2 -4 -3 -4 -1  0  1 -4  0  8 -4 -3 -2  1  4 -1 -4 -4 -2 -5
P -1 -3 -2 -1 -4 -1 -1 -2 -2 -3 -4 -1 -3 -4 10 -1 -1 -4 -3 -3 -2 -1 -2 -5
S  1 -1  1  0 -1  0 -1  0 -1 -3 -3  0 -2 -3 -1  5  2 -4 -2 -2  0  0 -1 -5
T  0 -1  0 -1 -1 -1 -1 -2 -2 -1 -1 -1 -1 -2 -1  2  5 -3 -2  0  0 -1  0 -5
W -3 -3 -4 -5 -5 -1 -3 -3 -3 -3 -2 -3 -1  1 -4 -4 -3 15  2 -3 -5 -2 -3 -5
Y -2 -1 -2 -3 -3 -1 -2 -3  2 -1 -1 -2  0  4 -3 -2 -2  2  8 -1 -3 -2 -1 -5
V  0 -3 -3 -4 -1 -3 -3 -4 -4  4  1 -3  1 -1 -3 -2  0 -3 -1  5 -4 -3 -1 -5
B -2 -1  4  5 -3  0  1 -1  0 -4 -4  0 -3 -4 -2  0  0 -5 -3 -4  5  2 -1 -5
Z -1  0  0  1 -3  4  5 -2  0 -3 -3  1 -1 -4 -1  0 -1 -2 -2 -3  2  5 -1 -5
X -1 -1 -1 -1 -2 -1 -1 -2 -1 -1 -1 -1 -1 -2 -2 -1  0 -3 -1 -1 -1 -1 -1 -5
* -5 -5 -5 -5 -5 -5 -5 -5 -5 -5 -5 -5 -5 -5 -5 -5 -5 -5 -5 -5 -5 -5 -5  1
`
