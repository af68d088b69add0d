package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/riggerci/rigger/internal/config"
	"github.com/riggerci/rigger/internal/store"
)

// openStore loads config and opens the run-history database.
func openStore() (*store.Store, error) {
	wd, err := os.Getwd()
	if err != nil {
		return nil, fmt.Errorf("failed to get working directory: %w", err)
	}
	cfg, err := config.Load(wd)
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	return store.Open(cfg.StorePath)
}

// NewRunsCmd creates the runs command, listing run history.
func NewRunsCmd(app *App) *cobra.Command {
	var limit int

	cmd := &cobra.Command{
		Use:   "runs",
		Short: "List recent verification runs",
		RunE: func(cmd *cobra.Command, args []string) error {
			db, err := openStore()
			if err != nil {
				return err
			}
			defer db.Close()

			runs, err := db.ListRuns(limit)
			if err != nil {
				return err
			}

			fmt.Fprint(cmd.OutOrStdout(), FormatRunsTable(runs))
			return nil
		},
	}

	cmd.Flags().IntVarP(&limit, "limit", "l", 20, "Maximum runs to list (0 = all)")

	return cmd
}

// NewShowCmd creates the show command, printing one run's details.
func NewShowCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "show <run-id>",
		Short: "Show the steps and outcome of one run",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			db, err := openStore()
			if err != nil {
				return err
			}
			defer db.Close()

			run, err := db.GetRun(args[0])
			if err != nil {
				return err
			}
			if run == nil {
				return fmt.Errorf("run not found: %s", args[0])
			}

			steps, err := db.ListSteps(run.ID)
			if err != nil {
				return err
			}

			fmt.Fprint(cmd.OutOrStdout(), FormatRunDetail(run, steps))
			return nil
		},
	}

	return cmd
}
