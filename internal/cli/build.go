package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/riggerci/rigger/internal/builder"
	"github.com/riggerci/rigger/internal/config"
	"github.com/riggerci/rigger/internal/events"
)

// NewBuildCmd creates the build command, which provisions environments
// without running any checks.
func NewBuildCmd(app *App) *cobra.Command {
	var versions []string
	var jsonOut bool

	cmd := &cobra.Command{
		Use:   "build",
		Short: "Provision environments without running checks",
		Long: `Build provisions one layered container environment per interpreter
version: system packages, language packages, project source and project
install. The dependency layer is cached by manifest hash so later runs
reuse it.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			wd, err := os.Getwd()
			if err != nil {
				return fmt.Errorf("failed to get working directory: %w", err)
			}

			cfg, err := config.Load(wd)
			if err != nil {
				return fmt.Errorf("failed to load config: %w", err)
			}

			targets := cfg.Matrix.Versions
			if len(versions) > 0 {
				targets = versions
			}

			system, err := Wire(cfg)
			if err != nil {
				return err
			}
			defer system.Close()

			if events.IsJSONMode(jsonOut) {
				system.Bus.Subscribe(events.JSONEmitterHandler(events.NewJSONEmitter(cmd.OutOrStdout())))
			} else {
				system.Bus.Subscribe(events.LogHandler(system.Log))
			}

			src := builder.Source{URL: cfg.Project.Source.URL, Ref: cfg.Project.Source.Ref}
			spec := cfg.Environment.Spec()

			var failed int
			for _, version := range targets {
				res, err := system.Builder.Build(cmd.Context(), spec.ForInterpreter(version), src)
				if err != nil {
					failed++
					fmt.Fprintf(cmd.OutOrStdout(), "%s python %s: %v\n",
						failedStyle.Render(SymbolFailed), version, err)
					continue
				}
				origin := "built"
				if res.CacheHit {
					origin = "cached deps"
				}
				fmt.Fprintf(cmd.OutOrStdout(), "%s python %s: %s (%s)\n",
					passedStyle.Render(SymbolPassed), version, res.EnvImage, origin)
			}

			if failed > 0 {
				return fmt.Errorf("%d of %d environment builds failed", failed, len(targets))
			}
			return nil
		},
	}

	cmd.Flags().StringSliceVar(&versions, "versions", nil, "Interpreter versions to build (overrides config)")
	cmd.Flags().BoolVar(&jsonOut, "json", false, "Emit events as JSON lines on stdout")

	return cmd
}
