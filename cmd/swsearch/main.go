// Command swsearch searches a protein FASTA database for local alignments
// to a query sequence.
//
// Usage:
//
//	swsearch [command] [options]
//
// Commands:
//
//	search      Search a database: search <queryfile> <databasefile> <indexfile> [expect]
//	index       Build the index of a database: index <databasefile> <indexfile>
//	align       Align two sequences: align <queryfile> <subjectfile>
//	version     Show version information
package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
)

func main() {
	log.SetFlags(0)
	log.SetPrefix("swsearch: ")

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	err := newRootCmd().ExecuteContext(ctx)
	stop()
	if err != nil {
		log.Fatalf("%v", err)
	}
}
