// Package report renders search results as text or YAML.
package report

import (
	"bufio"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/dustin/go-humanize"

	"github.com/aria-lang/swsearch-go/internal/alignment"
	"github.com/aria-lang/swsearch-go/internal/search"
	"github.com/aria-lang/swsearch-go/internal/sequence"
	"github.com/aria-lang/swsearch-go/internal/stats"
)

// Default column widths.
const (
	DefaultWidth            = 60
	DefaultDescriptionWidth = 60
)

// Renderer formats hits. Width is the number of alignment columns per
// display block.
type Renderer struct {
	Stats            stats.AlignmentStats
	Matrix           alignment.SubstitutionMatrix
	Width            int
	DescriptionWidth int
}

// NewRenderer returns a renderer with the default widths. A nil matrix
// selects BLOSUM-62.
func NewRenderer(st stats.AlignmentStats, matrix alignment.SubstitutionMatrix) *Renderer {
	if matrix == nil {
		matrix = alignment.BLOSUM62()
	}
	return &Renderer{
		Stats:            st,
		Matrix:           matrix,
		Width:            DefaultWidth,
		DescriptionWidth: DefaultDescriptionWidth,
	}
}

// SummaryLine returns the one-line summary of a hit.
func (r *Renderer) SummaryLine(h search.Hit) string {
	return fmt.Sprintf("%-*s  %7s  %7s",
		r.DescriptionWidth, truncate(h.Subject.Description, r.DescriptionWidth),
		FormatBitScore(h.BitScore), FormatEValue(h.EValue))
}

// WriteDetail writes the detail block of a hit.
func (r *Renderer) WriteDetail(w io.Writer, query *sequence.Sequence, h search.Hit) error {
	a := h.Alignment
	sum := a.Summarize(query, h.Subject, r.Matrix)

	bw := bufio.NewWriter(w)
	fmt.Fprintf(bw, ">%s\n", h.Subject.Description)
	fmt.Fprintf(bw, "          Length = %d\n\n", h.Subject.Len())
	fmt.Fprintf(bw, " Score = %s bits (%d), Expect = %s\n",
		FormatBitScore(h.BitScore), a.Score, FormatEValue(h.EValue))
	fmt.Fprintf(bw, " Identities = %d/%d (%d%%), Positives = %d/%d (%d%%), Gaps = %d/%d (%d%%)\n\n",
		sum.Identities, sum.Length, Percent(sum.Identities, sum.Length),
		sum.Positives, sum.Length, Percent(sum.Positives, sum.Length),
		sum.Gaps, sum.Length, Percent(sum.Gaps, sum.Length))

	r.writeBlocks(bw, a, query, h.Subject)
	return bw.Flush()
}

func (r *Renderer) writeBlocks(w io.Writer, a *alignment.Alignment, query, subject *sequence.Sequence) {
	qRow, agree, sRow := a.Rows(query, subject, r.Matrix)
	width := r.Width
	if width <= 0 {
		width = DefaultWidth
	}
	qPos, sPos := a.QueryStart, a.SubjectStart
	for lo := 0; lo < len(qRow); lo += width {
		hi := lo + width
		if hi > len(qRow) {
			hi = len(qRow)
		}
		qn := len(qRow[lo:hi]) - strings.Count(qRow[lo:hi], "-")
		sn := len(sRow[lo:hi]) - strings.Count(sRow[lo:hi], "-")

		fmt.Fprintf(w, "Query: %-5d %s %d\n", qPos, qRow[lo:hi], qPos+qn-1)
		fmt.Fprintf(w, "%12s %s\n", "", agree[lo:hi])
		fmt.Fprintf(w, "Sbjct: %-5d %s %d\n\n", sPos, sRow[lo:hi], sPos+sn-1)
		qPos += qn
		sPos += sn
	}
}

// WriteReport writes the query header, the summary list, every detail
// block and the run metadata.
func (r *Renderer) WriteReport(w io.Writer, res *search.Result) error {
	bw := bufio.NewWriter(w)
	fmt.Fprintf(bw, "Query= %s\n", res.Query.Description)
	fmt.Fprintf(bw, "         (%s letters)\n\n", humanize.Comma(int64(res.Query.Len())))

	if len(res.Hits) == 0 {
		fmt.Fprintf(bw, " ***** No hits found ******\n\n")
	} else {
		fmt.Fprintf(bw, "%-*s  %7s  %7s\n", r.DescriptionWidth, "Sequences producing significant alignments:", "(bits)", "E")
		bw.WriteString("\n")
		for _, h := range res.Hits {
			bw.WriteString(r.SummaryLine(h))
			bw.WriteString("\n")
		}
		bw.WriteString("\n")
		for _, h := range res.Hits {
			if err := r.WriteDetail(bw, res.Query, h); err != nil {
				return err
			}
		}
	}

	fmt.Fprintf(bw, "  Number of sequences searched: %s\n", humanize.Comma(int64(res.Searched)))
	fmt.Fprintf(bw, "  Number of residues searched: %s\n", humanize.Comma(res.Residues))
	fmt.Fprintf(bw, "  Number of hits: %s\n", humanize.Comma(int64(len(res.Hits))))
	fmt.Fprintf(bw, "  Search time: %s\n\n", res.Elapsed.Round(time.Millisecond))
	if r.Stats != nil {
		if err := r.Stats.Print(bw); err != nil {
			return err
		}
	}
	return bw.Flush()
}
