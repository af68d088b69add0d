package matrix

import (
	"context"
	"fmt"

	"github.com/fatih/semgroup"
	"github.com/sirupsen/logrus"

	"github.com/riggerci/rigger/internal/builder"
	"github.com/riggerci/rigger/internal/container"
	"github.com/riggerci/rigger/internal/envspec"
	"github.com/riggerci/rigger/internal/events"
	"github.com/riggerci/rigger/internal/pipeline"
	"github.com/riggerci/rigger/internal/store"
	"github.com/riggerci/rigger/internal/trigger"
)

// DefaultParallelism bounds concurrent interpreter runs unless configured.
const DefaultParallelism = 2

// EnvBuilder provisions an environment for one interpreter version.
type EnvBuilder interface {
	Build(ctx context.Context, spec envspec.Spec, src builder.Source) (*builder.Result, error)
}

var _ EnvBuilder = (*builder.Builder)(nil)

// Config selects what the matrix executes.
type Config struct {
	// Versions are the interpreter versions to verify, one run each
	Versions []string

	// Suite selects which check families run
	Suite trigger.Suite

	// TriggerKind records how the matrix was initiated
	TriggerKind trigger.Kind

	// Parallelism bounds concurrent runs (0 = DefaultParallelism)
	Parallelism int

	// Source is the project to fetch and verify
	Source builder.Source

	// Dynamic configures the test-execution pass
	Dynamic pipeline.DynamicChecks

	// Static configures the source-text checkers
	Static pipeline.StaticChecks
}

// Entry is the outcome of one interpreter's run.
type Entry struct {
	RunID       string                `json:"run_id"`
	Interpreter string                `json:"interpreter"`
	Passed      bool                  `json:"passed"`
	CacheHit    bool                  `json:"cache_hit"`
	EnvImage    string                `json:"env_image,omitempty"`
	Error       string                `json:"error,omitempty"`
	Results     []pipeline.StepResult `json:"results"`
}

// Summary aggregates the matrix outcome.
type Summary struct {
	Entries []Entry `json:"entries"`
	Passed  bool    `json:"passed"`
}

// Runner executes one verification run per interpreter version, bounded by
// Config.Parallelism. Runs are independent: a failure in one never cancels
// the others.
type Runner struct {
	builder EnvBuilder
	runtime container.Manager
	db      *store.Store
	bus     *events.Bus
	log     *logrus.Entry
}

// NewRunner creates a matrix runner.
func NewRunner(b EnvBuilder, runtime container.Manager, db *store.Store, bus *events.Bus, log *logrus.Entry) *Runner {
	return &Runner{builder: b, runtime: runtime, db: db, bus: bus, log: log}
}

// Run executes the matrix and returns a summary covering every version,
// including those whose environment build failed.
func (r *Runner) Run(ctx context.Context, spec envspec.Spec, cfg Config) (*Summary, error) {
	if len(cfg.Versions) == 0 {
		return nil, fmt.Errorf("matrix has no interpreter versions")
	}

	parallelism := cfg.Parallelism
	if parallelism <= 0 {
		parallelism = DefaultParallelism
	}

	r.bus.Emit(events.NewEvent(events.MatrixStarted, "").
		WithPayload(map[string]any{"versions": cfg.Versions, "suite": string(cfg.Suite)}))

	entries := make([]Entry, len(cfg.Versions))
	group := semgroup.NewGroup(ctx, int64(parallelism))

	for i, version := range cfg.Versions {
		i, version := i, version
		group.Go(func() error {
			entries[i] = r.runOne(ctx, spec.ForInterpreter(version), cfg, version)
			return nil
		})
	}

	if err := group.Wait(); err != nil {
		return nil, err
	}

	summary := &Summary{Entries: entries, Passed: true}
	for _, entry := range entries {
		if !entry.Passed {
			summary.Passed = false
			break
		}
	}

	if summary.Passed {
		r.bus.Emit(events.NewEvent(events.MatrixCompleted, "").
			WithPayload(map[string]any{"versions": len(entries)}))
	} else {
		r.bus.Emit(events.NewEvent(events.MatrixFailed, "").
			WithPayload(map[string]any{"versions": len(entries)}))
	}

	return summary, nil
}

// runOne provisions and verifies a single interpreter version. All failure
// modes produce a recorded entry rather than an error so sibling runs are
// unaffected.
func (r *Runner) runOne(ctx context.Context, spec envspec.Spec, cfg Config, version string) Entry {
	runID := store.NewRunID()
	log := r.log.WithFields(logrus.Fields{"run": runID, "interpreter": version})
	entry := Entry{RunID: runID, Interpreter: version}

	if err := r.db.CreateRun(&store.Run{
		ID:          runID,
		Interpreter: version,
		TriggerKind: string(cfg.TriggerKind),
		Suite:       string(cfg.Suite),
		Status:      store.RunStatusRunning,
	}); err != nil {
		log.WithError(err).Error("failed to persist run")
		entry.Error = err.Error()
		return entry
	}

	res, err := r.builder.Build(ctx, spec, cfg.Source)
	if err != nil {
		// A build failure means zero checks executed for this version; the
		// run is recorded as errored, not as failed checks.
		log.WithError(err).Error("environment build failed")
		entry.Error = err.Error()
		r.recordStatus(runID, store.RunStatusError, err)
		return entry
	}
	entry.CacheHit = res.CacheHit
	entry.EnvImage = res.EnvImage

	if err := r.db.SetRunImage(runID, res.EnvImage, res.CacheHit); err != nil {
		log.WithError(err).Warn("failed to record env image")
	}

	run := pipeline.NewRun(runID, version, r.bus)
	if err := run.MarkProvisioned(); err != nil {
		entry.Error = err.Error()
		r.recordStatus(runID, store.RunStatusError, err)
		return entry
	}
	r.bus.Emit(events.NewEvent(events.RunProvisioned, runID).
		WithInterpreter(version).
		WithPayload(map[string]any{"env_image": res.EnvImage, "cache_hit": res.CacheHit}))

	summary, err := run.Execute(ctx, r.assembleSteps(cfg, res, spec))
	if err != nil {
		log.WithError(err).Error("run halted")
		entry.Error = err.Error()
		r.recordStatus(runID, store.RunStatusError, err)
		return entry
	}

	entry.Passed = summary.Passed
	entry.Results = summary.Results

	for _, result := range summary.Results {
		if err := r.db.InsertStepResult(&store.StepRecord{
			RunID:      runID,
			Name:       result.Name,
			Family:     string(result.Family),
			Status:     string(result.Status),
			Log:        result.Log,
			DurationMS: result.Duration.Milliseconds(),
		}); err != nil {
			log.WithError(err).Warn("failed to persist step result")
		}
	}

	status := store.RunStatusPassed
	if !summary.Passed {
		status = store.RunStatusFailed
	}
	r.recordStatus(runID, status, nil)

	return entry
}

// assembleSteps maps the suite onto pipeline steps. The dynamic pass runs in
// the fully installed environment; the static pass runs against the bare
// source layer.
func (r *Runner) assembleSteps(cfg Config, res *builder.Result, spec envspec.Spec) []pipeline.Step {
	var steps []pipeline.Step

	if cfg.Suite == trigger.SuiteFull || cfg.Suite == trigger.SuiteDynamic {
		steps = append(steps, pipeline.DynamicSteps(r.runtime, pipeline.Target{
			Image:   res.EnvImage,
			WorkDir: spec.WorkDir,
			Env:     spec.Env,
		}, cfg.Dynamic)...)
	}

	if cfg.Suite == trigger.SuiteFull || cfg.Suite == trigger.SuiteStatic {
		steps = append(steps, pipeline.StaticSteps(r.runtime, pipeline.Target{
			Image:   res.SourceImage,
			WorkDir: spec.WorkDir,
			Env:     spec.Env,
		}, cfg.Static)...)
	}

	return steps
}

func (r *Runner) recordStatus(runID string, status store.RunStatus, cause error) {
	var msg *string
	if cause != nil {
		s := cause.Error()
		msg = &s
	}
	if err := r.db.UpdateRunStatus(runID, status, msg); err != nil {
		r.log.WithError(err).WithField("run", runID).Warn("failed to update run status")
	}
}
