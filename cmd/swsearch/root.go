package main

import (
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/aria-lang/swsearch-go/internal/config"
	"github.com/aria-lang/swsearch-go/pkg/swsearch"
)

// app carries the settings shared by every subcommand.
type app struct {
	v       *viper.Viper
	cfgFile string
}

// load merges the settings file, if any, and returns the validated config.
func (a *app) load() (config.Config, error) {
	if err := config.ReadFile(a.v, a.cfgFile); err != nil {
		return config.Config{}, err
	}
	return config.Load(a.v)
}

// usageOnError prints the usage of the command to its error stream when the
// arguments are rejected. Errors after argument checking print no usage.
func usageOnError(check cobra.PositionalArgs) cobra.PositionalArgs {
	return func(cmd *cobra.Command, args []string) error {
		if err := check(cmd, args); err != nil {
			cmd.PrintErrln(cmd.UsageString())
			return err
		}
		return nil
	}
}

// newRootCmd builds the command tree. Each call returns an independent tree
// with its own settings.
func newRootCmd() *cobra.Command {
	a := &app{v: config.New()}

	root := &cobra.Command{
		Use:   "swsearch",
		Short: "Smith-Waterman local alignment search of protein databases",
		Long: `Smith-Waterman local alignment search of protein databases.

swsearch aligns a query protein against every sequence of an indexed FASTA
database with affine gap penalties, keeps the alignments whose E-value is
below a threshold and prints them best first.

Settings are read from a YAML file (--config), SWSEARCH_* environment
variables and flags, in increasing precedence.`,
		Version:       swsearch.Version,
		SilenceErrors: true,
		SilenceUsage:  true,
	}
	root.SetFlagErrorFunc(func(cmd *cobra.Command, err error) error {
		cmd.PrintErrln(cmd.UsageString())
		return err
	})

	pf := root.PersistentFlags()
	pf.StringVar(&a.cfgFile, "config", "", "YAML settings file")
	pf.Int(config.KeyGapExistence, -11, "cost of opening a gap (<= 0)")
	pf.Int(config.KeyGapExtension, -1, "cost of each further gap residue (<= 0)")
	pf.String(config.KeyMatrix, "blosum62", `substitution matrix: "blosum62", "blosum50" or a matrix file`)
	pf.String(config.KeyFormat, config.FormatText, `output format: "text" or "yaml"`)
	for _, key := range []string{config.KeyGapExistence, config.KeyGapExtension, config.KeyMatrix, config.KeyFormat} {
		a.v.BindPFlag(key, pf.Lookup(key))
	}

	root.AddCommand(
		a.newSearchCmd(),
		a.newIndexCmd(),
		a.newAlignCmd(),
		newVersionCmd(),
	)
	return root
}
