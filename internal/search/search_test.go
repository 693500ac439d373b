package search

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"log"
	"math/rand"
	"os"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aria-lang/swsearch-go/internal/alignment"
	"github.com/aria-lang/swsearch-go/internal/sequence"
	"github.com/aria-lang/swsearch-go/internal/stats"
)

func mustSeq(t testing.TB, desc, letters string) *sequence.Sequence {
	t.Helper()
	s, err := sequence.New(desc, letters)
	require.NoError(t, err)
	return s
}

const aminoAcids = "ACDEFGHIKLMNPQRSTVWY"

func randomSource(t testing.TB, rng *rand.Rand, n int) SliceSource {
	src := make(SliceSource, n)
	for i := range src {
		b := make([]byte, 20+rng.Intn(120))
		for k := range b {
			b[k] = aminoAcids[rng.Intn(len(aminoAcids))]
		}
		src[i] = mustSeq(t, fmt.Sprintf("seq%d", i), string(b))
	}
	return src
}

func defaultConfig() Config {
	return Config{Workers: 2, Gap: alignment.DefaultGapPenalty()}
}

func TestRunRanksHits(t *testing.T) {
	query := mustSeq(t, "query", "MKTAYIAKQRQISFVKSHFSRQLEERLGLIEVQ")
	src := SliceSource{
		mustSeq(t, "unrelated", "PPPPPPPPPPGGGGGGGGGG"),
		mustSeq(t, "half", "MKTAYIAKQRQISFVKSHF"),
		mustSeq(t, "full", "MKTAYIAKQRQISFVKSHFSRQLEERLGLIEVQ"),
		mustSeq(t, "gapped", "MKTAYIAKQRQISFVKSHFSRQDDLEERLGLIEVQ"),
	}

	res, err := Run(context.Background(), defaultConfig(), query, src, nil, nil)
	require.NoError(t, err)

	assert.Equal(t, 4, res.Searched)
	assert.Equal(t, src.TotalResidues(), res.Residues)
	require.Len(t, res.Hits, 3)
	assert.Equal(t, "full", res.Hits[0].Subject.Description)
	assert.Equal(t, "gapped", res.Hits[1].Subject.Description)
	assert.Equal(t, "half", res.Hits[2].Subject.Description)
	assert.Equal(t, 148, res.Hits[1].Alignment.Score)
	assert.Equal(t, 3, res.Hits[1].Alignment.SubjectID)

	for _, h := range res.Hits {
		assert.LessOrEqual(t, h.EValue, DefaultExpect)
		assert.Greater(t, h.BitScore, 0.0)
	}
	for k := 1; k < len(res.Hits); k++ {
		assert.GreaterOrEqual(t, res.Hits[k-1].Alignment.Score, res.Hits[k].Alignment.Score)
	}
}

func TestRunExpectFilter(t *testing.T) {
	query := mustSeq(t, "query", "MKTAYIAKQRQISFVKSHFSRQLEERLGLIEVQ")
	src := SliceSource{
		mustSeq(t, "full", "MKTAYIAKQRQISFVKSHFSRQLEERLGLIEVQ"),
		mustSeq(t, "short", "SHFSR"),
	}

	cfg := defaultConfig()
	all, err := Run(context.Background(), Config{Workers: 1, Expect: 1e6, Gap: cfg.Gap}, query, src, nil, nil)
	require.NoError(t, err)
	require.Len(t, all.Hits, 2)

	cfg.Expect = all.Hits[0].EValue
	strict, err := Run(context.Background(), cfg, query, src, nil, nil)
	require.NoError(t, err)
	require.Len(t, strict.Hits, 1)
	assert.Equal(t, "full", strict.Hits[0].Subject.Description)
}

func TestRunWorkerCountDoesNotChangeResult(t *testing.T) {
	rng := rand.New(rand.NewSource(3))
	src := randomSource(t, rng, 40)
	query := src[17]

	base, err := Run(context.Background(), Config{Workers: 1, Expect: 1e9, Gap: alignment.DefaultGapPenalty()}, query, src, nil, nil)
	require.NoError(t, err)
	require.NotEmpty(t, base.Hits)
	assert.Equal(t, 17, base.Hits[0].Alignment.SubjectID)

	for _, w := range []int{2, 3, 7, 40, 100} {
		t.Run(fmt.Sprintf("workers=%d", w), func(t *testing.T) {
			res, err := Run(context.Background(), Config{Workers: w, Expect: 1e9, Gap: alignment.DefaultGapPenalty()}, query, src, nil, nil)
			require.NoError(t, err)
			require.Equal(t, len(base.Hits), len(res.Hits))
			for k := range base.Hits {
				assert.Equal(t, base.Hits[k].Alignment, res.Hits[k].Alignment)
				assert.Equal(t, base.Hits[k].EValue, res.Hits[k].EValue)
			}
		})
	}
}

func TestRunProgress(t *testing.T) {
	rng := rand.New(rand.NewSource(5))
	src := randomSource(t, rng, 25)
	var done int64
	_, err := Run(context.Background(), Config{Workers: 4}, src[0], src, nil, func(n int) {
		atomic.AddInt64(&done, int64(n))
	})
	require.NoError(t, err)
	assert.Equal(t, int64(25), atomic.LoadInt64(&done))
}

func TestRunEmptySource(t *testing.T) {
	res, err := Run(context.Background(), defaultConfig(), mustSeq(t, "q", "PAW"), SliceSource{}, nil, nil)
	require.NoError(t, err)
	assert.Empty(t, res.Hits)
	assert.Zero(t, res.Searched)
}

type failingSource struct {
	SliceSource
	bad int
}

func (f failingSource) Record(i int) (*sequence.Sequence, error) {
	if i == f.bad {
		return nil, &sequence.FormatError{Line: 3, Reason: "bad residue line"}
	}
	return f.SliceSource.Record(i)
}

func TestRunRecordError(t *testing.T) {
	rng := rand.New(rand.NewSource(9))
	src := failingSource{SliceSource: randomSource(t, rng, 10), bad: 6}

	_, err := Run(context.Background(), Config{Workers: 3}, src.SliceSource[0], src, nil, nil)
	var fe *sequence.FormatError
	assert.True(t, errors.As(err, &fe))
}

func TestRunCancelled(t *testing.T) {
	rng := rand.New(rand.NewSource(11))
	src := randomSource(t, rng, 10)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := Run(ctx, defaultConfig(), src[0], src, nil, nil)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestRunUsesGivenStats(t *testing.T) {
	query := mustSeq(t, "q", "PAWHEAE")
	src := SliceSource{mustSeq(t, "s", "HEAGAWGHEE")}
	p, _ := stats.ParamsFor(nil, alignment.DefaultGapPenalty())
	st := stats.NewKarlinAltschul(p, 7, 1_000_000_000, 1)

	res, err := Run(context.Background(), defaultConfig(), query, src, st, nil)
	require.NoError(t, err)
	assert.Empty(t, res.Hits)
	assert.Same(t, st, res.Stats)
}

func TestNewStats(t *testing.T) {
	query := mustSeq(t, "q", "PAWHEAE")
	src := SliceSource{mustSeq(t, "a", "HEAGAWGHEE"), mustSeq(t, "b", "PAW")}
	st := NewStats(defaultConfig(), query, src)
	assert.Equal(t, 7, st.QueryLength)
	assert.Equal(t, int64(13), st.DatabaseLength)
	assert.Equal(t, 2, st.DatabaseSequences)
	assert.True(t, st.Params.Gapped)
}

func TestNewStatsDependsOnMatrix(t *testing.T) {
	var buf bytes.Buffer
	log.SetOutput(&buf)
	defer log.SetOutput(os.Stderr)

	query := mustSeq(t, "q", "PAWHEAE")
	src := SliceSource{mustSeq(t, "a", "HEAGAWGHEE")}

	cfg62 := defaultConfig()
	cfg62.Matrix = alignment.BLOSUM62()
	st62 := NewStats(cfg62, query, src)
	assert.Empty(t, buf.String())

	cfg50 := defaultConfig()
	cfg50.Matrix = alignment.BLOSUM50()
	cfg50.Gap = alignment.GapPenalty{Existence: -15, Extension: -2}
	st50 := NewStats(cfg50, query, src)
	assert.Empty(t, buf.String())
	assert.Equal(t, "BLOSUM50", st50.Params.Matrix)
	assert.True(t, st50.Params.Gapped)
	assert.NotEqual(t, st62.Params.Lambda, st50.Params.Lambda)
	assert.NotEqual(t, st62.Expect(28), st50.Expect(28))

	cfg50.Gap = alignment.DefaultGapPenalty()
	st := NewStats(cfg50, query, src)
	assert.False(t, st.Params.Gapped)
	assert.Equal(t, stats.UngappedBLOSUM50, st.Params)
	assert.Contains(t, buf.String(), "no gapped statistics for blosum50 with gap penalty -11/-1")
}

func TestRunSkipsEmptyAlignments(t *testing.T) {
	query := mustSeq(t, "q", "WWWW")
	src := SliceSource{mustSeq(t, "s", "PPPP")}
	cfg := defaultConfig()
	cfg.Expect = 1e9

	st := NewStats(cfg, query, src)
	require.LessOrEqual(t, st.Expect(0), cfg.Expect)

	res, err := Run(context.Background(), cfg, query, src, st, nil)
	require.NoError(t, err)
	assert.Empty(t, res.Hits)
	assert.Equal(t, 1, res.Searched)
}

func TestSortHits(t *testing.T) {
	hits := []Hit{
		{Alignment: &alignment.Alignment{SubjectID: 4, Score: 10}},
		{Alignment: &alignment.Alignment{SubjectID: 2, Score: 10}},
		{Alignment: &alignment.Alignment{SubjectID: 9, Score: 50}},
	}
	SortHits(hits)
	assert.Equal(t, 9, hits[0].Alignment.SubjectID)
	assert.Equal(t, 2, hits[1].Alignment.SubjectID)
	assert.Equal(t, 4, hits[2].Alignment.SubjectID)
}

func BenchmarkRun(b *testing.B) {
	rng := rand.New(rand.NewSource(1))
	src := randomSource(b, rng, 200)
	cfg := Config{Workers: 4, Gap: alignment.DefaultGapPenalty()}

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_, _ = Run(context.Background(), cfg, src[0], src, nil, nil)
	}
}
