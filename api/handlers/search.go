package handlers

import (
	"context"
	"errors"
	"net/http"

	"github.com/aria-lang/swsearch-go/pkg/swsearch"
)

// SearchRequest represents a database search request. Expect overrides the
// server's E-value cutoff.
type SearchRequest struct {
	Query       string   `json:"query"`
	Description string   `json:"description,omitempty"`
	Expect      *float64 `json:"expect,omitempty"`
}

// SearchHit is one ranked hit.
type SearchHit struct {
	Subject       string  `json:"subject"`
	SubjectIndex  int     `json:"subject_index"`
	SubjectLength int     `json:"subject_length"`
	Score         int     `json:"score"`
	BitScore      float64 `json:"bit_score"`
	EValue        float64 `json:"evalue"`
	QueryStart    int     `json:"query_start"`
	QueryFinish   int     `json:"query_finish"`
	SubjectStart  int     `json:"subject_start"`
	SubjectFinish int     `json:"subject_finish"`
	CIGAR         string  `json:"cigar"`
	Identities    int     `json:"identities"`
	Positives     int     `json:"positives"`
	Length        int     `json:"length"`
}

// SearchResponse represents the response for a search.
type SearchResponse struct {
	QueryLength int         `json:"query_length"`
	Searched    int         `json:"searched"`
	Residues    int64       `json:"residues"`
	ElapsedMS   int64       `json:"elapsed_ms"`
	Hits        []SearchHit `json:"hits"`
}

// SearchHandler searches the database it was created with. Concurrent
// requests are independent; each runs its own workers.
type SearchHandler struct {
	Source swsearch.Source
	Config swsearch.SearchConfig
}

// NewSearchHandler returns a handler searching src with cfg.
func NewSearchHandler(src swsearch.Source, cfg swsearch.SearchConfig) *SearchHandler {
	return &SearchHandler{Source: src, Config: cfg}
}

func (h *SearchHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if h.Source == nil {
		writeError(w, http.StatusServiceUnavailable, "no database loaded")
		return
	}

	var req SearchRequest
	if !decode(w, r, &req) {
		return
	}
	query, err := swsearch.NewSequence(req.Description, req.Query)
	if err != nil {
		writeError(w, http.StatusBadRequest, "query: "+err.Error())
		return
	}
	cfg := h.Config
	if req.Expect != nil {
		if *req.Expect <= 0 {
			writeError(w, http.StatusBadRequest, "expect must be positive")
			return
		}
		cfg.Expect = *req.Expect
	}

	res, err := swsearch.Search(r.Context(), query, h.Source, cfg)
	switch {
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		writeError(w, http.StatusServiceUnavailable, err.Error())
		return
	case err != nil:
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	resp := SearchResponse{
		QueryLength: query.Len(),
		Searched:    res.Searched,
		Residues:    res.Residues,
		ElapsedMS:   res.Elapsed.Milliseconds(),
		Hits:        make([]SearchHit, 0, len(res.Hits)),
	}
	for _, hit := range res.Hits {
		a := hit.Alignment
		sum := a.Summarize(query, hit.Subject, res.Matrix)
		resp.Hits = append(resp.Hits, SearchHit{
			Subject:       hit.Subject.Description,
			SubjectIndex:  a.SubjectID,
			SubjectLength: a.SubjectLength,
			Score:         a.Score,
			BitScore:      hit.BitScore,
			EValue:        hit.EValue,
			QueryStart:    a.QueryStart,
			QueryFinish:   a.QueryFinish,
			SubjectStart:  a.SubjectStart,
			SubjectFinish: a.SubjectFinish,
			CIGAR:         a.CIGAR(),
			Identities:    sum.Identities,
			Positives:     sum.Positives,
			Length:        sum.Length,
		})
	}
	writeJSON(w, http.StatusOK, resp)
}
