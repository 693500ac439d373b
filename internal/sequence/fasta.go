package sequence

import (
	"bufio"
	"bytes"
	"fmt"
	"io"
	"os"
)

const maxLine = 64 * 1024 * 1024

// Reader parses FASTA records one at a time.
type Reader struct {
	sc     *bufio.Scanner
	line   int
	header []byte
	hline  int
}

// NewReader returns a FASTA reader over r.
func NewReader(r io.Reader) *Reader {
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 64*1024), maxLine)
	return &Reader{sc: sc}
}

// Read returns the next record, or io.EOF when the input is exhausted.
// Malformed input yields a *FormatError.
func (r *Reader) Read() (*Sequence, error) {
	if r.header == nil {
		if err := r.nextHeader(); err != nil {
			return nil, err
		}
	}
	desc := string(bytes.TrimSpace(r.header[1:]))
	descLine := r.hline
	r.header = nil

	residues := []byte{0}
	for r.sc.Scan() {
		r.line++
		line := bytes.TrimRight(r.sc.Bytes(), " \t\r")
		if len(line) == 0 {
			continue
		}
		if line[0] == '>' {
			r.header = append([]byte(nil), line...)
			r.hline = r.line
			break
		}
		for i, c := range line {
			code, ok := Encode(c)
			if !ok {
				return nil, &FormatError{
					Line:   r.line,
					Reason: "bad residue line",
					Err:    &InvalidResidueError{Position: i + 1, Found: c},
				}
			}
			residues = append(residues, code)
		}
	}
	if err := r.sc.Err(); err != nil {
		return nil, fmt.Errorf("reading fasta: %w", err)
	}
	if len(residues) == 1 {
		return nil, &FormatError{Line: descLine, Reason: "record has no residues"}
	}
	return &Sequence{Description: desc, residues: residues}, nil
}

// nextHeader skips blank lines up to the first '>' line.
func (r *Reader) nextHeader() error {
	for r.sc.Scan() {
		r.line++
		line := bytes.TrimRight(r.sc.Bytes(), " \t\r")
		if len(line) == 0 {
			continue
		}
		if line[0] != '>' {
			return &FormatError{Line: r.line, Reason: "expected '>' description line"}
		}
		r.header = append([]byte(nil), line...)
		r.hline = r.line
		return nil
	}
	if err := r.sc.Err(); err != nil {
		return fmt.Errorf("reading fasta: %w", err)
	}
	return io.EOF
}

// ReadAll parses every record in r.
func ReadAll(r io.Reader) ([]*Sequence, error) {
	fr := NewReader(r)
	sequences := make([]*Sequence, 0)
	for {
		seq, err := fr.Read()
		if err == io.EOF {
			return sequences, nil
		}
		if err != nil {
			return nil, err
		}
		sequences = append(sequences, seq)
	}
}

// ReadFile parses every record in the named file.
func ReadFile(path string) ([]*Sequence, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening file: %w", err)
	}
	defer f.Close()

	seqs, err := ReadAll(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return seqs, nil
}

// ReadFirst returns the first record of the named file.
func ReadFirst(path string) (*Sequence, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening file: %w", err)
	}
	defer f.Close()

	seq, err := NewReader(f).Read()
	if err == io.EOF {
		return nil, fmt.Errorf("%s: no sequences found", path)
	}
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return seq, nil
}

// Parse parses exactly one record from b. It is used on slices of a
// memory-mapped database.
func Parse(b []byte) (*Sequence, error) {
	return NewReader(bytes.NewReader(b)).Read()
}
