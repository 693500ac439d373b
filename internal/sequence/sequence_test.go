package sequence

import (
	"errors"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEncode(t *testing.T) {
	tests := []struct {
		in   byte
		want byte
		ok   bool
	}{
		{'A', 0, true},
		{'a', 0, true},
		{'Z', 25, true},
		{'z', 25, true},
		{'W', 22, true},
		{'*', StopCode, true},
		{'-', GapCode, true},
		{'1', 0, false},
		{' ', 0, false},
		{'>', 0, false},
	}

	for _, tt := range tests {
		t.Run(string(tt.in), func(t *testing.T) {
			code, ok := Encode(tt.in)
			assert.Equal(t, tt.ok, ok)
			if tt.ok {
				assert.Equal(t, tt.want, code)
				assert.Less(t, int(code), NumCodes)
			}
		})
	}
}

func TestDecodeRoundTrip(t *testing.T) {
	for code := byte(0); code < NumCodes; code++ {
		c := Decode(code)
		back, ok := Encode(c)
		require.True(t, ok)
		assert.Equal(t, code, back)
	}
	assert.Equal(t, byte('?'), Decode(NumCodes))
}

func TestNew(t *testing.T) {
	tests := []struct {
		name    string
		letters string
		wantLen int
		wantErr bool
	}{
		{"protein", "PAWHEAE", 7, false},
		{"lowercase", "pawheae", 7, false},
		{"stop and gap", "MK*-", 4, false},
		{"empty", "", 0, false},
		{"digit", "PAW1", 0, true},
		{"space", "PA W", 0, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			seq, err := New("test", tt.letters)
			if tt.wantErr {
				require.Error(t, err)
				assert.IsType(t, &InvalidResidueError{}, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.wantLen, seq.Len())
			assert.Len(t, seq.Residues(), tt.wantLen+1)
			assert.Equal(t, strings.ToUpper(tt.letters), seq.Letters())
		})
	}
}

func TestNewErrorPosition(t *testing.T) {
	_, err := New("", "ACD#E")
	var ire *InvalidResidueError
	require.True(t, errors.As(err, &ire))
	assert.Equal(t, 4, ire.Position)
	assert.Equal(t, byte('#'), ire.Found)
}

func TestFromCodes(t *testing.T) {
	seq, err := FromCodes("x", []byte{0, 1, 27})
	require.NoError(t, err)
	assert.Equal(t, "AB-", seq.Letters())
	assert.Equal(t, byte(0), seq.At(1))
	assert.Equal(t, GapCode, seq.At(3))

	_, err = FromCodes("x", []byte{0, 28})
	require.Error(t, err)
	assert.IsType(t, &InvalidCodeError{}, err)
}

func TestIDAndEqual(t *testing.T) {
	a, _ := New("sp|P1|ONE first protein", "HEAGAWGHEE")
	b, _ := New("other", "heagawghee")
	c, _ := New("sp|P1|ONE first protein", "HEAGAWGHE")

	assert.Equal(t, "sp|P1|ONE", a.ID())
	assert.True(t, a.Equal(b))
	assert.False(t, a.Equal(c))
	assert.False(t, a.Equal(nil))
}

func TestToFASTA(t *testing.T) {
	seq, _ := New("seq1 test", strings.Repeat("A", 130))
	fasta := seq.ToFASTA()
	lines := strings.Split(strings.TrimSpace(fasta), "\n")
	require.Len(t, lines, 4)
	assert.Equal(t, ">seq1 test", lines[0])
	assert.Len(t, lines[1], 60)
	assert.Len(t, lines[3], 10)

	back, err := ReadAll(strings.NewReader(fasta))
	require.NoError(t, err)
	require.Len(t, back, 1)
	assert.True(t, seq.Equal(back[0]))
}

func TestReadAll(t *testing.T) {
	input := `
>one first
PAWHE
AE
>two second record

HEAGAWGHEE
>three
MK*-
`
	seqs, err := ReadAll(strings.NewReader(input))
	require.NoError(t, err)
	require.Len(t, seqs, 3)

	assert.Equal(t, "one first", seqs[0].Description)
	assert.Equal(t, "PAWHEAE", seqs[0].Letters())
	assert.Equal(t, "two second record", seqs[1].Description)
	assert.Equal(t, 10, seqs[1].Len())
	assert.Equal(t, "MK*-", seqs[2].Letters())
}

func TestReadAllCRLF(t *testing.T) {
	seqs, err := ReadAll(strings.NewReader(">a\r\nACD\r\nEF\r\n"))
	require.NoError(t, err)
	require.Len(t, seqs, 1)
	assert.Equal(t, "ACDEF", seqs[0].Letters())
}

func TestReadAllFormatErrors(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		wantLine int
	}{
		{"no header", "ACDE\n", 1},
		{"bad residue", ">a\nACDE\nAC1E\n", 3},
		{"empty record", ">a\n>b\nACD\n", 1},
		{"trailing empty record", ">a\nACD\n>b\n", 3},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ReadAll(strings.NewReader(tt.input))
			require.Error(t, err)
			var fe *FormatError
			require.True(t, errors.As(err, &fe), "got %T", err)
			assert.Equal(t, tt.wantLine, fe.Line)

			var se SequenceError
			assert.True(t, errors.As(err, &se))
		})
	}
}

func TestReaderEOF(t *testing.T) {
	r := NewReader(strings.NewReader(""))
	_, err := r.Read()
	assert.Equal(t, io.EOF, err)
}

func TestReadFirst(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "q.fa")
	require.NoError(t, os.WriteFile(path, []byte(">q query\nPAWHEAE\n>r\nAAA\n"), 0o644))

	seq, err := ReadFirst(path)
	require.NoError(t, err)
	assert.Equal(t, "q query", seq.Description)
	assert.Equal(t, "PAWHEAE", seq.Letters())

	empty := filepath.Join(dir, "empty.fa")
	require.NoError(t, os.WriteFile(empty, nil, 0o644))
	_, err = ReadFirst(empty)
	require.Error(t, err)

	_, err = ReadFile(filepath.Join(dir, "missing.fa"))
	require.Error(t, err)
}

func TestParse(t *testing.T) {
	seq, err := Parse([]byte(">x desc\nACD\nEFG\n"))
	require.NoError(t, err)
	assert.Equal(t, "ACDEFG", seq.Letters())
}

func BenchmarkNew(b *testing.B) {
	letters := strings.Repeat("MKTAYIAKQRQISFVKSHFSRQ", 20)
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_, _ = New("bench", letters)
	}
}
