package cmd

import (
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/abhisek/acuity/internal/store"
)

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "Show past results, newest first",
	RunE: func(cmd *cobra.Command, args []string) error {
		name, _ := cmd.Flags().GetString("name")
		limit, _ := cmd.Flags().GetInt("limit")
		if limit < 0 {
			return fmt.Errorf("--limit must not be negative")
		}

		st, err := openStore(cmd)
		if err != nil {
			return err
		}
		defer st.Close()

		recs, err := st.ResultRepo().QueryResults(cmd.Context(), store.QueryOpts{
			Limit:       limit,
			Participant: name,
		})
		if err != nil {
			return fmt.Errorf("query results: %w", err)
		}
		printHistory(cmd.OutOrStdout(), recs)
		return nil
	},
}

func init() {
	historyCmd.Flags().String("name", "", "Only show results for this participant")
	historyCmd.Flags().Int("limit", 20, "Maximum number of results (0 = all)")
}

func printHistory(out io.Writer, recs []store.ResultRecord) {
	if len(recs) == 0 {
		fmt.Fprintln(out, "No results yet.")
		return
	}

	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "DATE\tNAME\tLEVEL\tBASIS\tCORRECT\tENDED")
	fmt.Fprintln(w, "----\t----\t-----\t-----\t-------\t-----")
	for _, r := range recs {
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%d/%d\t%s\n",
			r.Timestamp.Local().Format("2006-01-02 15:04"),
			r.Participant, r.FinalLabel, r.Basis, r.Correct, r.Trials, endedText(r))
	}
	_ = w.Flush()
}

func endedText(r store.ResultRecord) string {
	switch {
	case r.EndedByFailure:
		return "mistake limit"
	case r.Reason == "manual":
		return "manual"
	}
	return "stopped"
}
