package cmd

import (
	"context"
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/abhisek/acuity/internal/selfupdate"
)

const updateTimeout = 2 * time.Minute

var updateCmd = &cobra.Command{
	Use:   "update",
	Short: "Update acuity to the latest version",
	RunE: func(cmd *cobra.Command, args []string) error {
		target, _ := cmd.Flags().GetString("version")
		out := cmd.OutOrStdout()

		logger, closeLog, err := newLogger(cmd)
		if err != nil {
			return err
		}
		defer closeLog()

		checker := selfupdate.NewChecker(
			selfupdate.WithTimeout(updateTimeout),
			selfupdate.WithLogger(logger),
		)
		ctx, cancel := context.WithTimeout(cmd.Context(), updateTimeout)
		defer cancel()

		err = checker.Update(ctx, &selfupdate.UpdateInput{
			CurrentVersion: currentVersion(),
			TargetVersion:  target,
		}, func(p selfupdate.UpdateProgress) {
			fmt.Fprintln(out, p.Message)
		})

		switch {
		case err == nil:
			return nil
		case errors.Is(err, selfupdate.ErrDevBuild):
			fmt.Fprintln(out, "Cannot update a development build. Install a release build first.")
			return nil
		case errors.Is(err, selfupdate.ErrAlreadyLatest):
			fmt.Fprintln(out, "Already running the latest version.")
			return nil
		case errors.Is(err, os.ErrPermission):
			return fmt.Errorf("%w\n\nTry running: sudo acuity update", err)
		}
		return err
	},
}

func init() {
	updateCmd.Flags().String("version", "", "Install this release tag instead of the latest")
}
