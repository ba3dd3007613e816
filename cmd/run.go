package cmd

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"golang.org/x/term"

	"github.com/abhisek/acuity/internal/app"
	"github.com/abhisek/acuity/internal/console"
	"github.com/abhisek/acuity/internal/results"
	"github.com/abhisek/acuity/internal/selfupdate"
	"github.com/abhisek/acuity/internal/staircase"
	"github.com/abhisek/acuity/internal/store"
)

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Take the test in plain console mode",
	RunE: func(cmd *cobra.Command, args []string) error {
		name, _ := cmd.Flags().GetString("name")
		return runConsole(cmd, name)
	},
}

func init() {
	runCmd.Flags().String("name", "", "Participant name (prompted for when empty)")
}

// runApp opens the store, builds dependencies, and launches the TUI. When
// stdin is not a terminal it falls back to the console test.
func runApp(cmd *cobra.Command) error {
	if !term.IsTerminal(int(os.Stdin.Fd())) {
		name, _ := cmd.Flags().GetString("name")
		return runConsole(cmd, name)
	}

	cfg, err := resolveConfig(cmd)
	if err != nil {
		return err
	}
	logger, closeLog, err := newLogger(cmd)
	if err != nil {
		return err
	}
	defer closeLog()

	st, err := openStore(cmd)
	if err != nil {
		return err
	}
	defer st.Close()

	return app.Run(app.Options{
		Config:        cfg,
		ResultRepo:    st.ResultRepo(),
		EventRepo:     st.EventRepo(),
		Logger:        logger,
		LatestVersion: latestVersion(cmd.Context(), logger),
	})
}

// latestVersion asks GitHub for a newer release. Any failure is logged and
// treated as "no update".
func latestVersion(ctx context.Context, logger *zap.Logger) string {
	if currentVersion() == "(devel)" {
		return ""
	}
	ctx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()

	res, err := selfupdate.NewChecker().Check(ctx, &selfupdate.CheckInput{Version: currentVersion()})
	if err != nil {
		logger.Debug("update check failed", zap.Error(err))
		return ""
	}
	if !res.UpdateAvailable {
		return ""
	}
	return res.LatestVersion
}

// runConsole runs one test over stdin/stdout and prints the result.
func runConsole(cmd *cobra.Command, name string) error {
	cfg, err := resolveConfig(cmd)
	if err != nil {
		return err
	}
	logger, closeLog, err := newLogger(cmd)
	if err != nil {
		return err
	}
	defer closeLog()

	st, err := openStore(cmd)
	if err != nil {
		return err
	}
	defer st.Close()

	return consoleTest(cmd.Context(), cmd.InOrStdin(), cmd.OutOrStdout(), cfg, st, logger, name)
}

func consoleTest(ctx context.Context, in io.Reader, out io.Writer, cfg staircase.Config, st *store.Store, logger *zap.Logger, name string) error {
	presenter := console.New(in, out, cfg.Answers)
	if name == "" {
		var err error
		if name, err = presenter.ReadName(); err != nil {
			if errors.Is(err, staircase.ErrQuit) {
				return nil
			}
			return err
		}
	}

	journal := results.NewJournal(st.EventRepo(), logger)
	ctrl, err := staircase.New(cfg,
		staircase.WithLogger(logger),
		staircase.WithRecorder(results.NewRecorder(st.ResultRepo())),
		staircase.WithObserver(journal.Observe),
	)
	if err != nil {
		return err
	}
	if err := ctrl.Start(name); err != nil {
		return err
	}

	fmt.Fprintf(out, "Cover one eye, %s. %s.\n", ctrl.Participant(), describeKeys(cfg.Answers))
	res, err := staircase.Run(ctx, ctrl, presenter)
	if res != nil {
		console.PrintResult(out, res)
	}
	var perr *staircase.PersistenceError
	if errors.As(err, &perr) {
		fmt.Fprintf(out, "warning: result not saved: %v\n", perr.Err)
		return nil
	}
	return err
}

func describeKeys(space staircase.AnswerSpace) string {
	switch space.Name() {
	case staircase.SpaceLegibility:
		return "Type yes if you can read the symbol, ? if not"
	case staircase.SpaceLetters:
		return "Type the letter you see, ? if you can't tell"
	}
	return "Type the way the E points (up/right/down/left), ? if you can't tell"
}
