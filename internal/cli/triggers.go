package cli

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/riggerci/rigger/internal/config"
)

// NewTriggersCmd creates the triggers command, listing the configured
// triggers with the suite each selects and upcoming schedule firings.
func NewTriggersCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "triggers",
		Short: "List configured triggers and their next firings",
		RunE: func(cmd *cobra.Command, args []string) error {
			wd, err := os.Getwd()
			if err != nil {
				return fmt.Errorf("failed to get working directory: %w", err)
			}
			cfg, err := config.Load(wd)
			if err != nil {
				return fmt.Errorf("failed to load config: %w", err)
			}

			fmt.Fprint(cmd.OutOrStdout(), FormatTriggers(cfg.Triggers, time.Now()))
			return nil
		},
	}

	return cmd
}
