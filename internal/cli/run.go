package cli

import (
	"context"
	"fmt"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/riggerci/rigger/internal/builder"
	"github.com/riggerci/rigger/internal/cli/tui"
	"github.com/riggerci/rigger/internal/config"
	"github.com/riggerci/rigger/internal/events"
	"github.com/riggerci/rigger/internal/matrix"
	"github.com/riggerci/rigger/internal/trigger"
)

// RunOptions holds flags for the run command
type RunOptions struct {
	Suite    string   // Check suite: full, static or dynamic (default: trigger policy)
	Versions []string // Override matrix interpreter versions
	Ref      string   // Override source ref
	Trigger  string   // Trigger kind recorded for the run (default: manual)
	DryRun   bool     // Show execution plan without running
	JSON     bool     // Force JSON event output
	NoTUI    bool     // Disable TUI even when stdout is a TTY
}

// NewRunCmd creates the run command
func NewRunCmd(app *App) *cobra.Command {
	opts := RunOptions{
		Trigger: "manual",
	}

	cmd := &cobra.Command{
		Use:   "run",
		Short: "Provision environments and run the verification matrix",
		Long: `Run provisions one container environment per configured interpreter
version and executes the selected check suite in each, in parallel.

The suite defaults to the trigger policy: manual runs execute the full
suite. Use --suite to override.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return app.RunMatrix(cmd.Context(), opts, cmd)
		},
	}

	cmd.Flags().StringVarP(&opts.Suite, "suite", "s", "", "Check suite: full, static or dynamic")
	cmd.Flags().StringSliceVar(&opts.Versions, "versions", nil, "Interpreter versions to verify (overrides config)")
	cmd.Flags().StringVar(&opts.Ref, "ref", "", "Source ref to verify (overrides config)")
	cmd.Flags().StringVar(&opts.Trigger, "trigger", "manual", "Trigger kind to record (manual, schedule, push, pull_request)")
	cmd.Flags().BoolVarP(&opts.DryRun, "dry-run", "n", false, "Show execution plan without running")
	cmd.Flags().BoolVar(&opts.JSON, "json", false, "Emit events as JSON lines on stdout")
	cmd.Flags().BoolVar(&opts.NoTUI, "no-tui", false, "Disable interactive TUI (use summary-only output)")

	return cmd
}

// resolveMatrixConfig turns CLI options plus file configuration into a matrix
// run configuration.
func resolveMatrixConfig(cfg *config.Config, opts RunOptions) (matrix.Config, error) {
	kind, err := trigger.ParseKind(opts.Trigger)
	if err != nil {
		return matrix.Config{}, err
	}

	suite := trigger.Trigger{Kind: kind}.SuiteFor()
	if opts.Suite != "" {
		suite = trigger.Suite(opts.Suite)
		if !trigger.ValidSuite(suite) {
			return matrix.Config{}, fmt.Errorf("invalid suite %q (valid: full, static, dynamic)", opts.Suite)
		}
	}

	versions := cfg.Matrix.Versions
	if len(opts.Versions) > 0 {
		versions = opts.Versions
	}

	ref := cfg.Project.Source.Ref
	if opts.Ref != "" {
		ref = opts.Ref
	}

	return matrix.Config{
		Versions:    versions,
		Suite:       suite,
		TriggerKind: kind,
		Parallelism: cfg.Matrix.Parallelism,
		Source:      builder.Source{URL: cfg.Project.Source.URL, Ref: ref},
		Dynamic:     cfg.Checks.Dynamic,
		Static:      cfg.Checks.Static,
	}, nil
}

// RunMatrix executes the verification matrix
func (a *App) RunMatrix(ctx context.Context, opts RunOptions, cmd *cobra.Command) error {
	wd, err := os.Getwd()
	if err != nil {
		return fmt.Errorf("failed to get working directory: %w", err)
	}

	cfg, err := config.Load(wd)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	matrixCfg, err := resolveMatrixConfig(cfg, opts)
	if err != nil {
		return err
	}

	if opts.DryRun {
		fmt.Fprint(cmd.OutOrStdout(), FormatPlan(cfg, matrixCfg))
		return nil
	}

	system, err := Wire(cfg)
	if err != nil {
		return err
	}
	defer system.Close()

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	handler := NewSignalHandler(cancel)
	handler.OnShutdown(func() {
		fmt.Fprintln(os.Stderr, "\nShutting down gracefully...")
	})
	handler.Start()
	defer handler.Stop()

	jsonMode := events.IsJSONMode(opts.JSON)
	useTUI := !opts.NoTUI && !jsonMode

	if jsonMode {
		system.Bus.Subscribe(events.JSONEmitterHandler(events.NewJSONEmitter(cmd.OutOrStdout())))
	} else {
		system.Bus.Subscribe(events.LogHandler(system.Log))
	}

	var tuiBridge *tui.Bridge
	if useTUI {
		model := tui.NewModel(len(matrixCfg.Versions), matrixCfg.Parallelism)
		program := tea.NewProgram(model, tea.WithAltScreen())
		tuiBridge = tui.NewBridge(program)
		system.Bus.Subscribe(tuiBridge.Handler())
		system.Log.Logger.SetOutput(tui.NewLogWriter(program))

		go func() {
			if _, err := program.Run(); err != nil {
				fmt.Fprintf(os.Stderr, "TUI error: %v\n", err)
			}
		}()
		defer tuiBridge.SendDone()
	}

	summary, err := system.Matrix.Run(ctx, cfg.Environment.Spec(), matrixCfg)
	if err != nil {
		return err
	}

	if tuiBridge != nil {
		tuiBridge.SendDone()
		system.Log.Logger.SetOutput(os.Stderr)
	}

	fmt.Fprint(cmd.OutOrStdout(), FormatMatrixSummary(summary))

	if !summary.Passed {
		return fmt.Errorf("verification failed")
	}
	return nil
}
