package sequence

// Residue codes. Letters A-Z map to 0-25 regardless of case.
const (
	// StopCode is the code for '*', a translation stop.
	StopCode byte = 26
	// GapCode is the code for '-', an indeterminate gap.
	GapCode byte = 27
	// NumCodes is the number of distinct residue codes. A substitution
	// matrix must be at least NumCodes x NumCodes.
	NumCodes = 28
)

const invalidCode = 0xff

var encodeTable = func() (t [256]byte) {
	for i := range t {
		t[i] = invalidCode
	}
	for c := 'A'; c <= 'Z'; c++ {
		t[c] = byte(c - 'A')
		t[c-'A'+'a'] = byte(c - 'A')
	}
	t['*'] = StopCode
	t['-'] = GapCode
	return t
}()

// Encode returns the residue code of c. The second result is false when c
// is not part of the alphabet.
func Encode(c byte) (byte, bool) {
	code := encodeTable[c]
	return code, code != invalidCode
}

// Decode returns the upper-case letter for a residue code. Codes outside
// the alphabet decode to '?'.
func Decode(code byte) byte {
	switch {
	case code < 26:
		return 'A' + code
	case code == StopCode:
		return '*'
	case code == GapCode:
		return '-'
	default:
		return '?'
	}
}

// IsValidResidue reports whether c can appear in a sequence.
func IsValidResidue(c byte) bool {
	_, ok := Encode(c)
	return ok
}
