package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/abhisek/acuity/internal/results"
)

var recordCmd = &cobra.Command{
	Use:   "record",
	Short: "Record a level measured elsewhere",
	Long:  "Record stores a participant's achieved level without running the test. The level must be a label on the chart (see `acuity ladder`).",
	RunE: func(cmd *cobra.Command, args []string) error {
		name, _ := cmd.Flags().GetString("name")
		label, _ := cmd.Flags().GetString("level")

		cfg, err := resolveConfig(cmd)
		if err != nil {
			return err
		}
		st, err := openStore(cmd)
		if err != nil {
			return err
		}
		defer st.Close()

		data, err := results.NewRecorder(st.ResultRepo()).RecordManual(cmd.Context(), cfg.Ladder, name, label)
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Recorded %s at level %s.\n", data.Participant, data.FinalLabel)
		return nil
	},
}

func init() {
	recordCmd.Flags().String("name", "", "Participant name")
	recordCmd.Flags().String("level", "", "Achieved level label, e.g. 1.0")
	_ = recordCmd.MarkFlagRequired("name")
	_ = recordCmd.MarkFlagRequired("level")
}
