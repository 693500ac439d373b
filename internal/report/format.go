package report

import (
	"fmt"
	"math"
	"unicode/utf8"
)

// FormatEValue prints an E-value with fewer digits the larger it gets.
func FormatEValue(e float64) string {
	switch {
	case e < 1e-199:
		return "0.0"
	case e < 0.001:
		return fmt.Sprintf("%.0e", e)
	case e < 0.1:
		return fmt.Sprintf("%.3f", e)
	case e < 1:
		return fmt.Sprintf("%.2f", e)
	case e < 10:
		return fmt.Sprintf("%.1f", e)
	default:
		return fmt.Sprintf("%.0f", e)
	}
}

// FormatBitScore prints a bit score.
func FormatBitScore(bits float64) string {
	switch {
	case bits > 9999:
		return fmt.Sprintf("%.3e", bits)
	case bits > 99.9:
		return fmt.Sprintf("%d", int(bits))
	default:
		return fmt.Sprintf("%.1f", bits)
	}
}

// Percent returns round(count/length*100), or 0 for an empty length.
func Percent(count, length int) int {
	if length == 0 {
		return 0
	}
	return int(math.Round(float64(count) / float64(length) * 100))
}

// truncate shortens s to at most width runes, marking the cut with "...".
func truncate(s string, width int) string {
	if width <= 0 || utf8.RuneCountInString(s) <= width {
		return s
	}
	if width <= 3 {
		return prefix(s, width)
	}
	return prefix(s, width-3) + "..."
}

// prefix returns the first n runes of s.
func prefix(s string, n int) string {
	for i := range s {
		if n == 0 {
			return s[:i]
		}
		n--
	}
	return s
}
