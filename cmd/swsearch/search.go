package main

import (
	"fmt"
	"io"
	"strconv"

	"github.com/pkg/profile"
	"github.com/spf13/cobra"
	"github.com/vbauerster/mpb/v8"
	"github.com/vbauerster/mpb/v8/decor"

	"github.com/aria-lang/swsearch-go/internal/config"
	"github.com/aria-lang/swsearch-go/internal/database"
	"github.com/aria-lang/swsearch-go/internal/report"
	"github.com/aria-lang/swsearch-go/internal/search"
	"github.com/aria-lang/swsearch-go/internal/sequence"
)

// searchArgs accepts <queryfile> <databasefile> <indexfile> [expect].
func searchArgs(cmd *cobra.Command, args []string) error {
	if err := cobra.RangeArgs(3, 4)(cmd, args); err != nil {
		return err
	}
	if len(args) == 4 {
		e, err := strconv.ParseFloat(args[3], 64)
		if err != nil || e <= 0 {
			return fmt.Errorf("expect %q is not a positive number", args[3])
		}
	}
	return nil
}

func (a *app) newSearchCmd() *cobra.Command {
	var (
		profileMode string
		profileDir  string
	)

	cmd := &cobra.Command{
		Use:   "search <queryfile> <databasefile> <indexfile> [expect]",
		Short: "Search a database for local alignments to a query",
		Long: `Search a database for local alignments to a query.

The first record of <queryfile> is aligned against every record of
<databasefile>, using the offsets in <indexfile> (see "swsearch index").
Alignments with an E-value above [expect] (default 10) are dropped, the
rest are printed by decreasing score.`,
		Args: usageOnError(searchArgs),
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) == 4 {
				e, _ := strconv.ParseFloat(args[3], 64)
				a.v.Set(config.KeyExpect, e)
			}
			cfg, err := a.load()
			if err != nil {
				return err
			}

			switch profileMode {
			case "":
			case "cpu":
				defer profile.Start(profile.CPUProfile, profile.ProfilePath(profileDir)).Stop()
			case "mem":
				defer profile.Start(profile.MemProfile, profile.ProfilePath(profileDir)).Stop()
			default:
				return fmt.Errorf("unknown profile %q", profileMode)
			}

			query, err := sequence.ReadFirst(args[0])
			if err != nil {
				return fmt.Errorf("reading query: %w", err)
			}
			db, err := database.Open(args[1], args[2])
			if err != nil {
				return err
			}
			defer db.Close()

			var progress func(int)
			var done func(ok bool)
			if cfg.Progress {
				progress, done = newProgressBar(cmd.ErrOrStderr(), db.Len())
			}
			res, err := search.Run(cmd.Context(), cfg.Search(), query, db, nil, progress)
			if done != nil {
				done(err == nil)
			}
			if err != nil {
				return fmt.Errorf("searching %s: %w", args[1], err)
			}

			r := report.NewRenderer(res.Stats, cfg.SubstitutionMatrix())
			r.DescriptionWidth = cfg.DescriptionWidth
			if cfg.Format == config.FormatYAML {
				return r.WriteYAML(cmd.OutOrStdout(), res)
			}
			return r.WriteReport(cmd.OutOrStdout(), res)
		},
	}

	f := cmd.Flags()
	f.IntP(config.KeyWorkers, "j", 0, "number of parallel workers, 0 for one per CPU")
	f.Bool(config.KeyProgress, false, "show a progress bar on stderr")
	f.Int(config.KeyDescriptionWidth, 60, "width of the description column in the hit summary")
	f.StringVar(&profileMode, "profile", "", `write a "cpu" or "mem" pprof profile`)
	f.StringVar(&profileDir, "profile-dir", ".", "directory of the pprof profile")
	for _, key := range []string{config.KeyWorkers, config.KeyProgress, config.KeyDescriptionWidth} {
		a.v.BindPFlag(key, f.Lookup(key))
	}
	return cmd
}

// newProgressBar draws a bar of total records on w. The returned progress
// func is safe to call from the search workers; done must be called once
// when the search returns.
func newProgressBar(w io.Writer, total int) (progress func(int), done func(ok bool)) {
	p := mpb.New(mpb.WithWidth(40), mpb.WithOutput(w))
	bar := p.AddBar(int64(total),
		mpb.PrependDecorators(
			decor.Name("searched: ", decor.WC{W: len("searched: "), C: decor.DindentRight}),
			decor.CountersNoUnit("%d / %d", decor.WCSyncWidth),
		),
		mpb.AppendDecorators(
			decor.Name("ETA: ", decor.WC{W: len("ETA: ")}),
			decor.AverageETA(decor.ET_STYLE_GO),
			decor.OnComplete(decor.Name(""), ". done"),
		),
	)
	progress = func(n int) { bar.IncrBy(n) }
	done = func(ok bool) {
		if ok {
			bar.SetTotal(-1, true)
		} else {
			bar.Abort(false)
		}
		p.Wait()
	}
	return progress, done
}
