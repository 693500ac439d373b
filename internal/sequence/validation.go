package sequence

import "fmt"

// SequenceError is the base error type for sequence operations.
type SequenceError interface {
	error
	IsSequenceError()
}

// InvalidResidueError is returned when a byte outside the residue alphabet
// is encountered. Position is 1-based.
type InvalidResidueError struct {
	Position int
	Found    byte
}

func (e *InvalidResidueError) Error() string {
	return fmt.Sprintf("invalid residue %q at position %d", e.Found, e.Position)
}

func (e *InvalidResidueError) IsSequenceError() {}

// InvalidCodeError is returned when an encoded residue is out of range.
type InvalidCodeError struct {
	Position int
	Code     byte
}

func (e *InvalidCodeError) Error() string {
	return fmt.Sprintf("residue code %d at position %d is out of range [0,%d)", e.Code, e.Position, NumCodes)
}

func (e *InvalidCodeError) IsSequenceError() {}

// FormatError reports malformed FASTA input. Line is 1-based.
type FormatError struct {
	Line   int
	Reason string
	Err    error
}

func (e *FormatError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("fasta line %d: %s: %v", e.Line, e.Reason, e.Err)
	}
	return fmt.Sprintf("fasta line %d: %s", e.Line, e.Reason)
}

func (e *FormatError) Unwrap() error { return e.Err }

func (e *FormatError) IsSequenceError() {}

// Validate checks that every byte of letters is in the residue alphabet.
func Validate(letters string) error {
	for i := 0; i < len(letters); i++ {
		if !IsValidResidue(letters[i]) {
			return &InvalidResidueError{Position: i + 1, Found: letters[i]}
		}
	}
	return nil
}
