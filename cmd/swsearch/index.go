package main

import (
	"fmt"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"github.com/aria-lang/swsearch-go/internal/database"
	"github.com/aria-lang/swsearch-go/internal/stats"
)

func (a *app) newIndexCmd() *cobra.Command {
	var bins int

	cmd := &cobra.Command{
		Use:   "index <databasefile> <indexfile>",
		Short: "Build the index of a FASTA database",
		Long: `Build the index of a FASTA database.

The index records the byte offset and residue count of every record and is
needed by "swsearch search". Every residue line is validated while indexing.`,
		Args: usageOnError(cobra.ExactArgs(2)),
		RunE: func(cmd *cobra.Command, args []string) error {
			ix, err := database.WriteIndexFile(args[0], args[1])
			if err != nil {
				return err
			}

			w := cmd.OutOrStdout()
			fmt.Fprintf(w, "indexed %s sequences, %s residues\n",
				humanize.Comma(int64(ix.Len())), humanize.Comma(ix.TotalResidues))
			if ix.Len() == 0 {
				return nil
			}
			fmt.Fprintln(w, stats.FromLengths(ix.Lengths()))
			if bins > 0 {
				h, err := stats.NewLengthHistogram(ix.Lengths(), bins)
				if err != nil {
					return err
				}
				fmt.Fprint(w, h)
			}
			return nil
		},
	}
	cmd.Flags().IntVar(&bins, "histogram", 0, "print a length histogram with this many bins")
	return cmd
}
