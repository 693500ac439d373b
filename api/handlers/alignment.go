package handlers

import (
	"net/http"

	"github.com/aria-lang/swsearch-go/pkg/swsearch"
)

// AlignmentRequest represents an alignment request. Omitted gap penalties
// default to -11/-1 and an empty matrix to BLOSUM-62.
type AlignmentRequest struct {
	Query        string `json:"query"`
	Subject      string `json:"subject"`
	Matrix       string `json:"matrix,omitempty"`
	GapExistence *int   `json:"gap_existence,omitempty"`
	GapExtension *int   `json:"gap_extension,omitempty"`
}

func (req *AlignmentRequest) parse() (query, subject *swsearch.Sequence, scoring *swsearch.Scoring, msg string) {
	query, err := swsearch.NewSequence("query", req.Query)
	if err != nil {
		return nil, nil, nil, "query: " + err.Error()
	}
	subject, err = swsearch.NewSequence("subject", req.Subject)
	if err != nil {
		return nil, nil, nil, "subject: " + err.Error()
	}

	m, err := swsearch.BuiltinMatrix(req.Matrix)
	if err != nil {
		return nil, nil, nil, err.Error()
	}
	gap := swsearch.DefaultScoring().Gap
	if req.GapExistence != nil {
		gap.Existence = *req.GapExistence
	}
	if req.GapExtension != nil {
		gap.Extension = *req.GapExtension
	}
	scoring, err = swsearch.NewScoring(m, gap.Existence, gap.Extension)
	if err != nil {
		return nil, nil, nil, err.Error()
	}
	return query, subject, scoring, ""
}

// AlignmentResponse represents the response for alignment.
type AlignmentResponse struct {
	Score          int    `json:"score"`
	QueryStart     int    `json:"query_start"`
	QueryFinish    int    `json:"query_finish"`
	SubjectStart   int    `json:"subject_start"`
	SubjectFinish  int    `json:"subject_finish"`
	CIGAR          string `json:"cigar"`
	Length         int    `json:"length"`
	Identities     int    `json:"identities"`
	Positives      int    `json:"positives"`
	Gaps           int    `json:"gaps"`
	AlignedQuery   string `json:"aligned_query"`
	Agreement      string `json:"agreement"`
	AlignedSubject string `json:"aligned_subject"`
}

// LocalAlignHandler handles local alignment requests.
func LocalAlignHandler(w http.ResponseWriter, r *http.Request) {
	var req AlignmentRequest
	if !decode(w, r, &req) {
		return
	}
	query, subject, scoring, msg := req.parse()
	if msg != "" {
		writeError(w, http.StatusBadRequest, msg)
		return
	}

	a, err := swsearch.AlignWithScoring(query, subject, scoring)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	sum := a.Summarize(query, subject, scoring.Matrix)
	q, agree, s := a.Rows(query, subject, scoring.Matrix)
	writeJSON(w, http.StatusOK, AlignmentResponse{
		Score:          a.Score,
		QueryStart:     a.QueryStart,
		QueryFinish:    a.QueryFinish,
		SubjectStart:   a.SubjectStart,
		SubjectFinish:  a.SubjectFinish,
		CIGAR:          a.CIGAR(),
		Length:         sum.Length,
		Identities:     sum.Identities,
		Positives:      sum.Positives,
		Gaps:           sum.Gaps,
		AlignedQuery:   q,
		Agreement:      agree,
		AlignedSubject: s,
	})
}

// ScoreResponse represents the response for alignment score.
type ScoreResponse struct {
	Score int `json:"score"`
}

// AlignmentScoreHandler handles alignment score requests. No traceback is
// computed.
func AlignmentScoreHandler(w http.ResponseWriter, r *http.Request) {
	var req AlignmentRequest
	if !decode(w, r, &req) {
		return
	}
	query, subject, scoring, msg := req.parse()
	if msg != "" {
		writeError(w, http.StatusBadRequest, msg)
		return
	}
	writeJSON(w, http.StatusOK, ScoreResponse{Score: swsearch.Score(query, subject, scoring)})
}
