package report

import (
	"fmt"
	"io"

	"gopkg.in/yaml.v3"

	"github.com/aria-lang/swsearch-go/internal/search"
)

// YAMLHit is the machine-readable form of one hit.
type YAMLHit struct {
	Subject       string  `yaml:"subject"`
	SubjectIndex  int     `yaml:"subject_index"`
	SubjectLength int     `yaml:"subject_length"`
	Score         int     `yaml:"score"`
	BitScore      float64 `yaml:"bit_score"`
	EValue        float64 `yaml:"evalue"`
	QueryStart    int     `yaml:"query_start"`
	QueryFinish   int     `yaml:"query_finish"`
	SubjectStart  int     `yaml:"subject_start"`
	SubjectFinish int     `yaml:"subject_finish"`
	CIGAR         string  `yaml:"cigar"`
	Identities    int     `yaml:"identities"`
	Positives     int     `yaml:"positives"`
	Gaps          int     `yaml:"gaps"`
	Length        int     `yaml:"length"`
}

// YAMLReport is the machine-readable form of a search result.
type YAMLReport struct {
	Query       string    `yaml:"query"`
	QueryLength int       `yaml:"query_length"`
	Searched    int       `yaml:"searched"`
	Residues    int64     `yaml:"residues"`
	Elapsed     string    `yaml:"elapsed"`
	Hits        []YAMLHit `yaml:"hits"`
}

// YAML converts a result for encoding.
func (r *Renderer) YAML(res *search.Result) YAMLReport {
	out := YAMLReport{
		Query:       res.Query.Description,
		QueryLength: res.Query.Len(),
		Searched:    res.Searched,
		Residues:    res.Residues,
		Elapsed:     res.Elapsed.String(),
		Hits:        make([]YAMLHit, 0, len(res.Hits)),
	}
	for _, h := range res.Hits {
		a := h.Alignment
		sum := a.Summarize(res.Query, h.Subject, r.Matrix)
		out.Hits = append(out.Hits, YAMLHit{
			Subject:       h.Subject.Description,
			SubjectIndex:  a.SubjectID,
			SubjectLength: a.SubjectLength,
			Score:         a.Score,
			BitScore:      h.BitScore,
			EValue:        h.EValue,
			QueryStart:    a.QueryStart,
			QueryFinish:   a.QueryFinish,
			SubjectStart:  a.SubjectStart,
			SubjectFinish: a.SubjectFinish,
			CIGAR:         a.CIGAR(),
			Identities:    sum.Identities,
			Positives:     sum.Positives,
			Gaps:          sum.Gaps,
			Length:        sum.Length,
		})
	}
	return out
}

// WriteYAML writes the result as a YAML document.
func (r *Renderer) WriteYAML(w io.Writer, res *search.Result) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(r.YAML(res)); err != nil {
		return fmt.Errorf("encoding yaml: %w", err)
	}
	return enc.Close()
}
