// Package stats provides score statistics for alignment searches and
// summaries of sequence collections.
package stats

import (
	"fmt"
	"sort"

	"github.com/aria-lang/swsearch-go/internal/sequence"
)

// SequenceSetStats represents aggregated statistics for multiple sequences.
type SequenceSetStats struct {
	Count         int     `json:"count"`
	TotalResidues int64   `json:"total_residues"`
	MinLength     int     `json:"min_length"`
	MaxLength     int     `json:"max_length"`
	MeanLength    float64 `json:"mean_length"`
	MedianLength  int     `json:"median_length"`
	N50           int     `json:"n50"`
	StopCount     int     `json:"stop_count"`
	GapCount      int     `json:"gap_count"`
}

// FromSequences calculates statistics for a collection of sequences.
func FromSequences(sequences []*sequence.Sequence) (*SequenceSetStats, error) {
	if len(sequences) == 0 {
		return nil, fmt.Errorf("sequence list cannot be empty")
	}

	lengths := make([]int, len(sequences))
	stops, gaps := 0, 0
	for i, seq := range sequences {
		lengths[i] = seq.Len()
		for _, c := range seq.Residues()[1:] {
			switch c {
			case sequence.StopCode:
				stops++
			case sequence.GapCode:
				gaps++
			}
		}
	}

	s := FromLengths(lengths)
	s.StopCount, s.GapCount = stops, gaps
	return s, nil
}

// FromLengths summarizes sequence lengths. lengths must not be empty.
func FromLengths(lengths []int) *SequenceSetStats {
	count := len(lengths)
	var total int64
	for _, l := range lengths {
		total += int64(l)
	}

	sorted := make([]int, count)
	copy(sorted, lengths)
	sort.Ints(sorted)

	mid := count / 2
	var median int
	if count%2 == 0 {
		median = (sorted[mid-1] + sorted[mid]) / 2
	} else {
		median = sorted[mid]
	}

	// N50: length at which half of all residues are in sequences this long
	// or longer.
	half := total / 2
	var running int64
	n50 := sorted[count-1]
	for i := count - 1; i >= 0; i-- {
		running += int64(sorted[i])
		if running >= half {
			n50 = sorted[i]
			break
		}
	}

	return &SequenceSetStats{
		Count:         count,
		TotalResidues: total,
		MinLength:     sorted[0],
		MaxLength:     sorted[count-1],
		MeanLength:    float64(total) / float64(count),
		MedianLength:  median,
		N50:           n50,
	}
}

func (s *SequenceSetStats) String() string {
	return fmt.Sprintf(`SequenceSetStats {
  count: %d
  total_residues: %d
  length range: %d - %d
  mean length: %.1f
  median length: %d
  N50: %d
  stops: %d, gaps: %d
}`, s.Count, s.TotalResidues, s.MinLength, s.MaxLength,
		s.MeanLength, s.MedianLength, s.N50, s.StopCount, s.GapCount)
}

// LengthHistogram represents a length histogram for sequences.
type LengthHistogram struct {
	Bins      []int
	MinLength int
	MaxLength int
	BinWidth  int
	NumBins   int
}

// NewLengthHistogram creates a length histogram from sequence lengths.
func NewLengthHistogram(lengths []int, numBins int) (*LengthHistogram, error) {
	if len(lengths) == 0 {
		return nil, fmt.Errorf("length list cannot be empty")
	}
	if numBins <= 0 {
		return nil, fmt.Errorf("numBins must be positive")
	}

	minLen, maxLen := lengths[0], lengths[0]
	for _, l := range lengths {
		if l < minLen {
			minLen = l
		}
		if l > maxLen {
			maxLen = l
		}
	}

	binWidth := (maxLen - minLen) / numBins
	if binWidth < 1 {
		binWidth = 1
	}

	bins := make([]int, numBins)
	for _, length := range lengths {
		binIndex := (length - minLen) / binWidth
		if binIndex >= numBins {
			binIndex = numBins - 1
		}
		bins[binIndex]++
	}

	return &LengthHistogram{
		Bins:      bins,
		MinLength: minLen,
		MaxLength: maxLen,
		BinWidth:  binWidth,
		NumBins:   numBins,
	}, nil
}

func (h *LengthHistogram) String() string {
	result := "Length Histogram:\n"
	for i := 0; i < h.NumBins; i++ {
		start := h.MinLength + i*h.BinWidth
		end := start + h.BinWidth
		count := h.Bins[i]

		bar := ""
		for j := 0; j < count/5; j++ {
			bar += "#"
		}

		result += fmt.Sprintf("%5d-%5d: %s (%d)\n", start, end, bar, count)
	}
	return result
}
