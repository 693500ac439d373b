// Package handlers provides HTTP handlers for the swsearch API.
package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/aria-lang/swsearch-go/internal/sequence"
	"github.com/aria-lang/swsearch-go/pkg/swsearch"
)

// ErrorResponse is the body of every failed request.
type ErrorResponse struct {
	Error string `json:"error"`
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, ErrorResponse{Error: msg})
}

func decode(w http.ResponseWriter, r *http.Request, v interface{}) bool {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return false
	}
	return true
}

// SequenceRequest represents a request with a sequence.
type SequenceRequest struct {
	Sequence string `json:"sequence"`
}

// ValidateResponse represents validation result.
type ValidateResponse struct {
	Valid    bool   `json:"valid"`
	Length   int    `json:"length"`
	Message  string `json:"message,omitempty"`
	Position int    `json:"position,omitempty"`
}

// ValidateHandler handles sequence validation requests.
func ValidateHandler(w http.ResponseWriter, r *http.Request) {
	var req SequenceRequest
	if !decode(w, r, &req) {
		return
	}

	seq, err := swsearch.NewSequence("", req.Sequence)
	if err != nil {
		resp := ValidateResponse{Message: err.Error()}
		var ire *sequence.InvalidResidueError
		if errors.As(err, &ire) {
			resp.Position = ire.Position
		}
		writeJSON(w, http.StatusOK, resp)
		return
	}
	writeJSON(w, http.StatusOK, ValidateResponse{Valid: true, Length: seq.Len()})
}

// FASTARequest carries FASTA text.
type FASTARequest struct {
	FASTA string `json:"fasta"`
}

// SequenceSetStatsHandler summarizes the lengths of the records of a FASTA
// text.
func SequenceSetStatsHandler(w http.ResponseWriter, r *http.Request) {
	var req FASTARequest
	if !decode(w, r, &req) {
		return
	}

	sequences, err := swsearch.ParseFASTA(strings.NewReader(req.FASTA))
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	stats, err := swsearch.SequenceStats(sequences)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, stats)
}
