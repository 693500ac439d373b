package stats

import (
	"fmt"
	"io"
	"math"

	"github.com/aria-lang/swsearch-go/internal/alignment"
)

// AlignmentStats converts raw alignment scores to significance measures.
type AlignmentStats interface {
	BitScore(a *alignment.Alignment) float64
	RawScore(a *alignment.Alignment) float64
	EValue(a *alignment.Alignment) float64
	Print(w io.Writer) error
}

// Params are the Karlin-Altschul parameters of a scoring system.
type Params struct {
	Matrix  string // "BLOSUM62", "BLOSUM50"
	Lambda  float64
	K       float64
	H       float64
	Gapped  bool
	GapOpen int // NCBI convention: a gap of length k costs GapOpen + k*GapExtend
	GapExt  int
}

// UngappedBLOSUM62 holds the ungapped BLOSUM-62 parameters.
var UngappedBLOSUM62 = Params{Matrix: "BLOSUM62", Lambda: 0.3176, K: 0.134, H: 0.4012}

// UngappedBLOSUM50 holds the ungapped BLOSUM-50 parameters.
var UngappedBLOSUM50 = Params{Matrix: "BLOSUM50", Lambda: 0.2318, K: 0.112, H: 0.3362}

type gapCost struct{ open, extend int }

type paramTable struct {
	ungapped Params
	gapped   map[gapCost]Params
}

// Gapped parameters, NCBI blast_stat.c.
var tables = map[string]paramTable{
	"blosum62": {
		ungapped: UngappedBLOSUM62,
		gapped: map[gapCost]Params{
			{11, 2}: {Lambda: 0.297, K: 0.082, H: 0.27},
			{10, 2}: {Lambda: 0.291, K: 0.075, H: 0.23},
			{9, 2}:  {Lambda: 0.279, K: 0.058, H: 0.19},
			{8, 2}:  {Lambda: 0.264, K: 0.045, H: 0.15},
			{7, 2}:  {Lambda: 0.239, K: 0.027, H: 0.10},
			{6, 2}:  {Lambda: 0.201, K: 0.012, H: 0.061},
			{13, 1}: {Lambda: 0.292, K: 0.071, H: 0.23},
			{12, 1}: {Lambda: 0.283, K: 0.059, H: 0.19},
			{11, 1}: {Lambda: 0.267, K: 0.041, H: 0.14},
			{10, 1}: {Lambda: 0.243, K: 0.024, H: 0.10},
			{9, 1}:  {Lambda: 0.206, K: 0.010, H: 0.052},
		},
	},
	"blosum50": {
		ungapped: UngappedBLOSUM50,
		gapped: map[gapCost]Params{
			{13, 3}: {Lambda: 0.212, K: 0.063, H: 0.19},
			{12, 3}: {Lambda: 0.206, K: 0.055, H: 0.17},
			{11, 3}: {Lambda: 0.197, K: 0.042, H: 0.14},
			{10, 3}: {Lambda: 0.186, K: 0.031, H: 0.11},
			{9, 3}:  {Lambda: 0.172, K: 0.022, H: 0.082},
			{16, 2}: {Lambda: 0.215, K: 0.066, H: 0.20},
			{15, 2}: {Lambda: 0.210, K: 0.058, H: 0.17},
			{14, 2}: {Lambda: 0.202, K: 0.045, H: 0.14},
			{13, 2}: {Lambda: 0.193, K: 0.035, H: 0.12},
			{12, 2}: {Lambda: 0.181, K: 0.025, H: 0.095},
			{19, 1}: {Lambda: 0.212, K: 0.057, H: 0.18},
			{18, 1}: {Lambda: 0.207, K: 0.050, H: 0.15},
			{17, 1}: {Lambda: 0.198, K: 0.037, H: 0.12},
			{16, 1}: {Lambda: 0.186, K: 0.025, H: 0.10},
			{15, 1}: {Lambda: 0.171, K: 0.015, H: 0.063},
			{14, 1}: {Lambda: 0.150, K: 0.0075, H: 0.042},
		},
	},
}

// ParamsFor returns the parameters of matrix m with gap penalty gap. A gap
// of length k costs Existence + (k-1)*Extension here, so the NCBI open cost
// is |Existence| - |Extension|.
//
// The second result is false when no gapped parameters are tabulated. The
// ungapped parameters of m are returned then, or those of BLOSUM-62 when m
// is not a built-in matrix.
func ParamsFor(m alignment.SubstitutionMatrix, gap alignment.GapPenalty) (Params, bool) {
	t, ok := tables[alignment.BuiltinName(m)]
	if !ok {
		return UngappedBLOSUM62, false
	}
	extend := -gap.Extension
	open := -gap.Existence - extend
	if p, ok := t.gapped[gapCost{open, extend}]; ok {
		p.Matrix = t.ungapped.Matrix
		p.Gapped = true
		p.GapOpen, p.GapExt = open, extend
		return p, true
	}
	return t.ungapped, false
}

// KarlinAltschul computes bit scores and E-values for one query searched
// against a database of DatabaseLength residues.
type KarlinAltschul struct {
	Params            Params
	QueryLength       int
	DatabaseLength    int64
	DatabaseSequences int
}

// NewKarlinAltschul returns statistics for a search of a query of length
// queryLen against a database.
func NewKarlinAltschul(p Params, queryLen int, dbResidues int64, dbSequences int) *KarlinAltschul {
	return &KarlinAltschul{
		Params:            p,
		QueryLength:       queryLen,
		DatabaseLength:    dbResidues,
		DatabaseSequences: dbSequences,
	}
}

// RawScore returns the alignment score.
func (k *KarlinAltschul) RawScore(a *alignment.Alignment) float64 {
	return float64(a.Score)
}

// BitScore returns (lambda*S - ln K) / ln 2.
func (k *KarlinAltschul) BitScore(a *alignment.Alignment) float64 {
	return k.Bits(a.Score)
}

// EValue returns m*n*2^-bits.
func (k *KarlinAltschul) EValue(a *alignment.Alignment) float64 {
	return k.Expect(a.Score)
}

// Bits converts a raw score to bits.
func (k *KarlinAltschul) Bits(score int) float64 {
	return (k.Params.Lambda*float64(score) - math.Log(k.Params.K)) / math.Ln2
}

// Expect returns the E-value of a raw score.
func (k *KarlinAltschul) Expect(score int) float64 {
	return k.SearchSpace() * math.Exp2(-k.Bits(score))
}

// SearchSpace returns m*n.
func (k *KarlinAltschul) SearchSpace() float64 {
	return float64(k.QueryLength) * float64(k.DatabaseLength)
}

// Print writes the parameters of the search.
func (k *KarlinAltschul) Print(w io.Writer) error {
	kind := k.Params.Matrix + " ungapped"
	if k.Params.Gapped {
		kind = fmt.Sprintf("%s gapped (open %d, extend %d)", k.Params.Matrix, k.Params.GapOpen, k.Params.GapExt)
	}
	_, err := fmt.Fprintf(w, `Karlin-Altschul parameters, %s:
  Lambda     K      H
  %.4f   %.4f  %.4f
Length of query: %d
Length of database: %d
Sequences in database: %d
Effective search space: %.0f
`, kind, k.Params.Lambda, k.Params.K, k.Params.H,
		k.QueryLength, k.DatabaseLength, k.DatabaseSequences, k.SearchSpace())
	return err
}
