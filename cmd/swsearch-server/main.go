// Command swsearch-server provides a REST API for swsearch alignments and
// database searches.
//
// Usage:
//
//	swsearch-server [options]
//
// Options:
//
//	--addr      Address to listen on (default: localhost:8080)
//	--db        FASTA database served by /api/search
//	--index     Index of the database (default: <db>.idx)
//	--config    YAML settings file
//
// Every setting can also be given as a SWSEARCH_* environment variable, for
// example SWSEARCH_SERVER_DB.
package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/pflag"

	"github.com/aria-lang/swsearch-go/api/handlers"
	"github.com/aria-lang/swsearch-go/internal/config"
	"github.com/aria-lang/swsearch-go/internal/database"
)

func main() {
	log.SetPrefix("swsearch-server: ")

	v := config.New()
	fs := pflag.NewFlagSet("swsearch-server", pflag.ExitOnError)
	cfgFile := fs.String("config", "", "YAML settings file")
	fs.String("addr", "localhost:8080", "address to listen on")
	fs.String("db", "", "FASTA database served by /api/search")
	fs.String("index", "", "index of the database (default <db>.idx)")
	fs.Int(config.KeyWorkers, 0, "workers per search, 0 for one per CPU")
	fs.Parse(os.Args[1:])

	v.BindPFlag(config.KeyServerAddr, fs.Lookup("addr"))
	v.BindPFlag(config.KeyServerDB, fs.Lookup("db"))
	v.BindPFlag(config.KeyServerIndex, fs.Lookup("index"))
	v.BindPFlag(config.KeyWorkers, fs.Lookup(config.KeyWorkers))

	if err := config.ReadFile(v, *cfgFile); err != nil {
		log.Fatalf("%v", err)
	}
	cfg, err := config.Load(v)
	if err != nil {
		log.Fatalf("%v", err)
	}

	var search http.Handler
	if cfg.Server.DB != "" {
		db, err := database.Open(cfg.Server.DB, cfg.Server.Index)
		if err != nil {
			log.Fatalf("%v", err)
		}
		defer db.Close()
		log.Printf("Serving %s: %d sequences, %d residues\n", db.Path(), db.Len(), db.TotalResidues())
		search = handlers.NewSearchHandler(db, cfg.Search())
	} else {
		search = &handlers.SearchHandler{}
	}

	server := &http.Server{
		Addr:         cfg.Server.Addr,
		Handler:      newRouter(search),
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 5 * time.Minute,
		IdleTimeout:  60 * time.Second,
	}

	// Graceful shutdown
	done := make(chan bool, 1)
	quit := make(chan os.Signal, 1)

	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		<-quit
		log.Println("Server is shutting down...")

		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()

		server.SetKeepAlivesEnabled(false)
		if err := server.Shutdown(ctx); err != nil {
			log.Fatalf("Could not gracefully shutdown: %v\n", err)
		}
		close(done)
	}()

	log.Printf("swsearch API server starting on http://%s\n", cfg.Server.Addr)
	if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		log.Fatalf("Could not listen on %s: %v\n", cfg.Server.Addr, err)
	}

	<-done
	log.Println("Server stopped")
}
