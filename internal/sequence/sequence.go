// Package sequence provides encoded protein sequences and FASTA input.
//
// A Sequence stores its residues as small integer codes (see Encode) in a
// 1-indexed slice, so that position i of the sequence is Residues()[i] and
// index 0 is an unused sentinel. This matches the row/column numbering of
// the alignment tables.
package sequence

import (
	"bytes"
	"strings"
)

const fastaLineWidth = 60

// Sequence is an encoded, described residue array. It is immutable once
// constructed.
type Sequence struct {
	Description string
	residues    []byte
}

// New encodes letters into a sequence with the given description.
func New(description, letters string) (*Sequence, error) {
	residues := make([]byte, len(letters)+1)
	for i := 0; i < len(letters); i++ {
		code, ok := Encode(letters[i])
		if !ok {
			return nil, &InvalidResidueError{Position: i + 1, Found: letters[i]}
		}
		residues[i+1] = code
	}
	return &Sequence{Description: description, residues: residues}, nil
}

// FromCodes builds a sequence from residue codes given 0-indexed.
func FromCodes(description string, codes []byte) (*Sequence, error) {
	residues := make([]byte, len(codes)+1)
	for i, c := range codes {
		if int(c) >= NumCodes {
			return nil, &InvalidCodeError{Position: i + 1, Code: c}
		}
		residues[i+1] = c
	}
	return &Sequence{Description: description, residues: residues}, nil
}

// Len returns the number of residues.
func (s *Sequence) Len() int {
	return len(s.residues) - 1
}

// At returns the residue code at 1-based position i.
func (s *Sequence) At(i int) byte {
	return s.residues[i]
}

// Residues returns the 1-indexed code slice backing the sequence. Callers
// must not modify it.
func (s *Sequence) Residues() []byte {
	return s.residues
}

// Letters decodes the sequence back to upper-case letters.
func (s *Sequence) Letters() string {
	out := make([]byte, s.Len())
	for i := range out {
		out[i] = Decode(s.residues[i+1])
	}
	return string(out)
}

// ID returns the first word of the description.
func (s *Sequence) ID() string {
	if f := strings.Fields(s.Description); len(f) > 0 {
		return f[0]
	}
	return ""
}

// Equal reports whether both sequences have identical residues.
// Descriptions are not compared.
func (s *Sequence) Equal(other *Sequence) bool {
	if other == nil {
		return false
	}
	return bytes.Equal(s.residues[1:], other.residues[1:])
}

// ToFASTA returns the sequence in FASTA format.
func (s *Sequence) ToFASTA() string {
	var sb strings.Builder
	sb.WriteByte('>')
	if s.Description != "" {
		sb.WriteString(s.Description)
	} else {
		sb.WriteString("sequence")
	}
	sb.WriteByte('\n')

	letters := s.Letters()
	for i := 0; i < len(letters); i += fastaLineWidth {
		end := i + fastaLineWidth
		if end > len(letters) {
			end = len(letters)
		}
		sb.WriteString(letters[i:end])
		sb.WriteByte('\n')
	}
	return sb.String()
}

func (s *Sequence) String() string {
	if s.Description != "" {
		return ">" + s.Description + "\n" + s.Letters()
	}
	return s.Letters()
}
