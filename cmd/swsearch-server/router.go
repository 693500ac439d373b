package main

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"

	"github.com/aria-lang/swsearch-go/api/handlers"
	"github.com/aria-lang/swsearch-go/api/middleware"
)

// newRouter wires the API. search serves POST /api/search.
func newRouter(search http.Handler) chi.Router {
	r := chi.NewRouter()

	// Global middleware
	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(middleware.Logger)
	r.Use(chimiddleware.Recoverer)

	// Health check
	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("OK"))
	})

	r.Route("/api", func(r chi.Router) {
		r.Group(func(r chi.Router) {
			r.Use(chimiddleware.Timeout(60 * time.Second))

			r.Route("/sequence", func(r chi.Router) {
				r.Post("/validate", handlers.ValidateHandler)
			})

			r.Route("/stats", func(r chi.Router) {
				r.Post("/set", handlers.SequenceSetStatsHandler)
			})

			r.Route("/alignment", func(r chi.Router) {
				r.Post("/local", handlers.LocalAlignHandler)
				r.Post("/score", handlers.AlignmentScoreHandler)
			})
		})

		// Searches scan the whole database and get a longer deadline.
		r.With(chimiddleware.Timeout(4*time.Minute)).Post("/search", search.ServeHTTP)
	})

	// Home page
	r.Get("/", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/html")
		w.Write([]byte(homePage))
	})

	return r
}

const homePage = `<!DOCTYPE html>
<html>
<head>
    <title>swsearch API</title>
    <style>
        body { font-family: system-ui, sans-serif; max-width: 800px; margin: 2rem auto; padding: 0 1rem; }
        h1 { color: #2563eb; }
        pre { background: #f3f4f6; padding: 1rem; border-radius: 0.5rem; overflow-x: auto; }
        .endpoint { margin: 1rem 0; padding: 1rem; border: 1px solid #e5e7eb; border-radius: 0.5rem; }
        .method { display: inline-block; padding: 0.25rem 0.5rem; background: #10b981; color: white; border-radius: 0.25rem; font-size: 0.875rem; }
    </style>
</head>
<body>
    <h1>swsearch API</h1>
    <p>Smith-Waterman local alignment search of protein sequences.</p>

    <h2>Endpoints</h2>

    <div class="endpoint">
        <span class="method">POST</span> <code>/api/alignment/local</code>
        <p>Align two sequences. Matrix and gap penalties are optional.</p>
        <pre>{"query": "PAWHEAE", "subject": "HEAGAWGHEE", "matrix": "blosum62", "gap_existence": -11, "gap_extension": -1}</pre>
    </div>

    <div class="endpoint">
        <span class="method">POST</span> <code>/api/alignment/score</code>
        <p>Best local alignment score only.</p>
        <pre>{"query": "PAWHEAE", "subject": "HEAGAWGHEE"}</pre>
    </div>

    <div class="endpoint">
        <span class="method">POST</span> <code>/api/search</code>
        <p>Search the loaded database. Hits are ranked by score.</p>
        <pre>{"query": "MKTAYIAKQRQISFVKSHFSRQLEERLGLIEVQ", "expect": 0.001}</pre>
    </div>

    <div class="endpoint">
        <span class="method">POST</span> <code>/api/sequence/validate</code>
        <p>Check a sequence against the residue alphabet.</p>
        <pre>{"sequence": "MKTAYIAKQR"}</pre>
    </div>

    <div class="endpoint">
        <span class="method">POST</span> <code>/api/stats/set</code>
        <p>Length statistics of the records of a FASTA text.</p>
        <pre>{"fasta": ">a\nPAW\n>b\nHEAGAWGHEE\n"}</pre>
    </div>
</body>
</html>`
