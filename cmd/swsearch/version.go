package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/aria-lang/swsearch-go/pkg/swsearch"
)

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Show version information",
		Args:  usageOnError(cobra.NoArgs),
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprint(cmd.OutOrStdout(), swsearch.Info())
		},
	}
}
