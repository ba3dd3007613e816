package cmd

import (
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/abhisek/acuity/internal/staircase"
)

var ladderCmd = &cobra.Command{
	Use:   "ladder",
	Short: "List the chart levels of the active configuration",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := resolveConfig(cmd)
		if err != nil {
			return err
		}
		printLadder(cmd.OutOrStdout(), cfg)
		return nil
	},
}

func printLadder(out io.Writer, cfg staircase.Config) {
	fmt.Fprintf(out, "answers: %s   pass: %d   fail: %d (%s)\n\n",
		cfg.Answers.Name(), cfg.PassThreshold, cfg.FailThreshold, cfg.FailPolicy)

	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "RANK\tLABEL\tMAGNITUDE\t")
	fmt.Fprintln(w, "----\t-----\t---------\t")
	for _, l := range cfg.Ladder.Levels() {
		marker := ""
		if l.Rank == cfg.StartRank {
			marker = "start"
		}
		fmt.Fprintf(w, "%d\t%s\t%g\t%s\n", l.Rank, l.Label, l.Magnitude, marker)
	}
	_ = w.Flush()
}
