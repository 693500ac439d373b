package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/aria-lang/swsearch-go/internal/alignment"
	"github.com/aria-lang/swsearch-go/internal/config"
	"github.com/aria-lang/swsearch-go/internal/report"
	"github.com/aria-lang/swsearch-go/internal/search"
	"github.com/aria-lang/swsearch-go/internal/sequence"
)

func (a *app) newAlignCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "align <queryfile> <subjectfile>",
		Short: "Align the first records of two FASTA files",
		Long: `Align the first records of two FASTA files.

Statistics treat the subject as a one-sequence database, so the E-value is
that of a single comparison.`,
		Args: usageOnError(cobra.ExactArgs(2)),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := a.load()
			if err != nil {
				return err
			}
			query, err := sequence.ReadFirst(args[0])
			if err != nil {
				return fmt.Errorf("reading query: %w", err)
			}
			subject, err := sequence.ReadFirst(args[1])
			if err != nil {
				return fmt.Errorf("reading subject: %w", err)
			}

			al, err := alignment.SmithWaterman(query, subject, cfg.Scoring())
			if err != nil {
				return err
			}
			ka := search.NewStats(cfg.Search(), query, search.SliceSource{subject})

			res := &search.Result{
				Query:    query,
				Searched: 1,
				Residues: int64(subject.Len()),
				Stats:    ka,
				Matrix:   cfg.SubstitutionMatrix(),
			}
			if !al.Empty() {
				res.Hits = []search.Hit{{
					Alignment: al,
					Subject:   subject,
					BitScore:  ka.BitScore(al),
					EValue:    ka.EValue(al),
				}}
			}

			r := report.NewRenderer(ka, res.Matrix)
			r.DescriptionWidth = cfg.DescriptionWidth
			w := cmd.OutOrStdout()
			switch {
			case cfg.Format == config.FormatYAML:
				return r.WriteYAML(w, res)
			case len(res.Hits) == 0:
				fmt.Fprintln(w, " ***** No alignment found ******")
				return nil
			default:
				return r.WriteDetail(w, query, res.Hits[0])
			}
		},
	}
}
