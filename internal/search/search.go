// Package search aligns one query against every record of a sequence
// source, keeps the significant hits and ranks them.
package search

import (
	"context"
	"fmt"
	"log"
	"runtime"
	"sort"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/aria-lang/swsearch-go/internal/alignment"
	"github.com/aria-lang/swsearch-go/internal/sequence"
	"github.com/aria-lang/swsearch-go/internal/stats"
)

// DefaultExpect is the E-value threshold used when none is given.
const DefaultExpect = 10.0

// Source gives indexed access to subject sequences. Record must be safe for
// concurrent use.
type Source interface {
	Len() int
	Record(i int) (*sequence.Sequence, error)
	TotalResidues() int64
}

// SliceSource adapts an in-memory slice to Source.
type SliceSource []*sequence.Sequence

func (s SliceSource) Len() int { return len(s) }

func (s SliceSource) Record(i int) (*sequence.Sequence, error) {
	if i < 0 || i >= len(s) {
		return nil, fmt.Errorf("record %d out of range [0,%d)", i, len(s))
	}
	return s[i], nil
}

func (s SliceSource) TotalResidues() int64 {
	var n int64
	for _, seq := range s {
		n += int64(seq.Len())
	}
	return n
}

// Config controls a search.
type Config struct {
	Workers int     // engines run in parallel; <= 0 means one per CPU
	Expect  float64 // keep hits with E-value <= Expect; <= 0 means DefaultExpect
	Matrix  alignment.SubstitutionMatrix
	Gap     alignment.GapPenalty
}

// Hit is one kept alignment with its significance.
type Hit struct {
	Alignment *alignment.Alignment
	Subject   *sequence.Sequence
	BitScore  float64
	EValue    float64
}

// Result is the outcome of a search.
type Result struct {
	Query    *sequence.Sequence
	Hits     []Hit
	Searched int
	Residues int64
	Elapsed  time.Duration
	Stats    stats.AlignmentStats
	Matrix   alignment.SubstitutionMatrix
}

// NewStats returns Karlin-Altschul statistics for searching query against
// src with the matrix and gap penalty of cfg. A warning is logged when the
// scoring system has no tabulated gapped parameters.
func NewStats(cfg Config, query *sequence.Sequence, src Source) *stats.KarlinAltschul {
	p, ok := stats.ParamsFor(cfg.Matrix, cfg.Gap)
	if !ok {
		name := alignment.BuiltinName(cfg.Matrix)
		if name == "" {
			name = "custom matrix"
		}
		log.Printf("warning: no gapped statistics for %s with gap penalty %d/%d, using %s ungapped values",
			name, cfg.Gap.Existence, cfg.Gap.Extension, p.Matrix)
	}
	return stats.NewKarlinAltschul(p, query.Len(), src.TotalResidues(), src.Len())
}

// Run aligns query against every record of src. Records are split into
// contiguous ranges, one per worker, and every worker owns its engine.
// st may be nil, in which case NewStats is used. progress, if not nil, is
// called from the workers after each record with the number of records
// just finished. The first record error stops the search and is returned.
// Empty (score 0) alignments are never hits, whatever their E-value.
func Run(ctx context.Context, cfg Config, query *sequence.Sequence, src Source, st stats.AlignmentStats, progress func(n int)) (*Result, error) {
	start := time.Now()
	if cfg.Matrix == nil {
		cfg.Matrix = alignment.BLOSUM62()
	}
	if cfg.Expect <= 0 {
		cfg.Expect = DefaultExpect
	}
	if st == nil {
		st = NewStats(cfg, query, src)
	}

	n := src.Len()
	workers := cfg.Workers
	if workers <= 0 {
		workers = runtime.NumCPU()
	}
	if workers > n {
		workers = n
	}
	if workers < 1 {
		workers = 1
	}

	parts := make([][]Hit, workers)
	residues := make([]int64, workers)

	g, ctx := errgroup.WithContext(ctx)
	for w := 0; w < workers; w++ {
		w := w
		lo, hi := n*w/workers, n*(w+1)/workers
		g.Go(func() error {
			e := alignment.NewEngine(cfg.Matrix, cfg.Gap)
			e.SetQuerySequence(0, query)
			for i := lo; i < hi; i++ {
				if err := ctx.Err(); err != nil {
					return err
				}
				subject, err := src.Record(i)
				if err != nil {
					return err
				}
				if err := e.SetSubjectSequence(i, subject); err != nil {
					return err
				}
				al, err := e.Align()
				if err != nil {
					return err
				}
				residues[w] += int64(subject.Len())
				if !al.Empty() {
					if ev := st.EValue(al); ev <= cfg.Expect {
						parts[w] = append(parts[w], Hit{
							Alignment: al,
							Subject:   subject,
							BitScore:  st.BitScore(al),
							EValue:    ev,
						})
					}
				}
				if progress != nil {
					progress(1)
				}
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	res := &Result{Query: query, Searched: n, Stats: st, Matrix: cfg.Matrix}
	for w := range parts {
		res.Hits = append(res.Hits, parts[w]...)
		res.Residues += residues[w]
	}
	SortHits(res.Hits)
	res.Elapsed = time.Since(start)
	return res, nil
}

// SortHits orders hits by descending score, ties by ascending subject
// index.
func SortHits(hits []Hit) {
	sort.SliceStable(hits, func(i, j int) bool {
		a, b := hits[i].Alignment, hits[j].Alignment
		if a.Score != b.Score {
			return a.Score > b.Score
		}
		return a.SubjectID < b.SubjectID
	})
}
