package builder

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/sirupsen/logrus"
	"github.com/spf13/afero"

	"github.com/riggerci/rigger/internal/container"
	"github.com/riggerci/rigger/internal/envspec"
	"github.com/riggerci/rigger/internal/events"
)

// Build phase names, in execution order. Later phases assume the state left
// by earlier ones: language packages need system libraries, the project
// install needs the fetched source.
const (
	phaseSystemPackages = "system-packages"
	phaseLangPackages   = "language-packages"
	phaseSourceFetch    = "source-fetch"
	phaseInstall        = "project-install"
)

// Source identifies the remote location of the target project.
type Source struct {
	// URL is the git clone URL
	URL string

	// Ref is the branch, tag or commit to check out (empty = remote HEAD)
	Ref string
}

// Result describes a built environment.
type Result struct {
	// Key is the cache key for this spec's dependency set
	Key string

	// CacheHit is true when the dependency layer came from the cache
	CacheHit bool

	// DepsImage contains system and language packages (phases 1-2)
	DepsImage string

	// SourceImage additionally contains the fetched project source but no
	// project install. The static pass runs here.
	SourceImage string

	// EnvImage is the fully provisioned environment with the project
	// installed. The dynamic pass runs here.
	EnvImage string
}

// Builder produces layered, cached container environments from a spec.
type Builder struct {
	runtime container.Manager
	cache   *Store
	fs      afero.Fs
	bus     *events.Bus
	log     *logrus.Entry

	// ImagePrefix for committed layer tags (default "rigger/env")
	ImagePrefix string

	// RetryMaxElapsed bounds backoff retries for network phases
	RetryMaxElapsed time.Duration
}

// New creates a Builder.
func New(runtime container.Manager, cache *Store, fs afero.Fs, bus *events.Bus, log *logrus.Entry) *Builder {
	return &Builder{
		runtime:         runtime,
		cache:           cache,
		fs:              fs,
		bus:             bus,
		log:             log,
		ImagePrefix:     "rigger/env",
		RetryMaxElapsed: 2 * time.Minute,
	}
}

// Build provisions an environment for spec, fetching the project from src.
// The dependency layer is cached by manifest hash and interpreter version;
// source fetch and project install always run so upstream changes are never
// masked by a stale layer. Any failure is a *BuildError and means no checks
// will execute.
func (b *Builder) Build(ctx context.Context, spec envspec.Spec, src Source) (*Result, error) {
	if err := spec.Validate(); err != nil {
		return nil, &BuildError{Cause: CauseManifest, Phase: "validate", Err: err}
	}
	if strings.TrimSpace(src.URL) == "" {
		return nil, &BuildError{Cause: CauseSourceFetch, Phase: phaseSourceFetch, Detail: "source URL is empty"}
	}

	manifest, err := envspec.LoadManifest(b.fs, spec.ManifestPath)
	if err != nil {
		return nil, &BuildError{Cause: CauseManifest, Phase: phaseLangPackages, Err: err}
	}

	key := envspec.CacheKey(spec.Interpreter, manifest.Raw)
	short := envspec.ShortKey(key)
	res := &Result{Key: key}

	b.bus.Emit(events.NewEvent(events.BuildStarted, "").
		WithInterpreter(spec.Interpreter).
		WithPayload(map[string]any{"base_image": spec.BaseImage, "key": short}))

	depsImage, hit, err := b.depsLayer(ctx, spec, manifest, key)
	if err != nil {
		b.bus.Emit(events.NewEvent(events.BuildFailed, "").WithInterpreter(spec.Interpreter).WithError(err))
		return nil, err
	}
	res.DepsImage = depsImage
	res.CacheHit = hit

	// Source fetch always runs: the dependency cache must not pin the
	// project itself to a stale revision.
	cloneCmd := buildCloneCmd(src, spec.WorkDir)
	sourceImage := fmt.Sprintf("%s:%s-src", b.ImagePrefix, short)
	if err := b.runPhase(ctx, spec, phaseSourceFetch, depsImage, cloneCmd, sourceImage); err != nil {
		b.bus.Emit(events.NewEvent(events.BuildFailed, "").WithInterpreter(spec.Interpreter).WithError(err))
		return nil, err
	}
	res.SourceImage = sourceImage

	installCmd := fmt.Sprintf("pip install --upgrade %s", spec.WorkDir)
	envImage := fmt.Sprintf("%s:%s-full", b.ImagePrefix, short)
	if err := b.runPhase(ctx, spec, phaseInstall, sourceImage, installCmd, envImage); err != nil {
		b.bus.Emit(events.NewEvent(events.BuildFailed, "").WithInterpreter(spec.Interpreter).WithError(err))
		return nil, err
	}
	res.EnvImage = envImage

	b.bus.Emit(events.NewEvent(events.BuildCompleted, "").
		WithInterpreter(spec.Interpreter).
		WithPayload(map[string]any{"env_image": envImage, "cache_hit": hit}))
	return res, nil
}

// depsLayer returns the image containing system and language packages,
// building it unless a valid cache entry exists.
func (b *Builder) depsLayer(ctx context.Context, spec envspec.Spec, manifest *envspec.Manifest, key string) (string, bool, error) {
	short := envspec.ShortKey(key)

	if entry, ok, err := b.cache.Get(key); err != nil {
		b.log.WithError(err).Warn("cache read failed, rebuilding")
	} else if ok {
		exists, err := b.runtime.ImageExists(ctx, entry.DepsImage)
		if err != nil {
			return "", false, &BuildError{Cause: CausePhaseFailed, Phase: phaseLangPackages, Err: err}
		}
		if exists {
			b.bus.Emit(events.NewEvent(events.BuildCacheHit, "").
				WithInterpreter(spec.Interpreter).WithPayload(key))
			return entry.DepsImage, true, nil
		}
		b.log.WithField("image", entry.DepsImage).Warn("cached image missing, rebuilding")
	}

	b.bus.Emit(events.NewEvent(events.BuildCacheMiss, "").
		WithInterpreter(spec.Interpreter).WithPayload(key))

	sysImage := fmt.Sprintf("%s:%s-sys", b.ImagePrefix, short)
	if err := b.runPhase(ctx, spec, phaseSystemPackages, spec.BaseImage, buildSystemCmd(spec), sysImage); err != nil {
		return "", false, err
	}

	depsImage := fmt.Sprintf("%s:%s-deps", b.ImagePrefix, short)
	if err := b.runPhase(ctx, spec, phaseLangPackages, sysImage, buildPipCmd(manifest), depsImage); err != nil {
		return "", false, err
	}

	if err := b.cache.Put(Entry{
		Key:         key,
		BaseImage:   spec.BaseImage,
		Interpreter: spec.Interpreter,
		DepsImage:   depsImage,
		CreatedAt:   time.Now(),
	}); err != nil {
		// The layer is built and usable; a cache write failure only costs
		// a rebuild next time
		b.log.WithError(err).Warn("cache write failed")
	}

	return depsImage, false, nil
}

// runPhase executes script in a container of image and commits the result to
// commitTag. Network failures retry with exponential backoff; everything else
// is permanent.
func (b *Builder) runPhase(ctx context.Context, spec envspec.Spec, phase, image, script, commitTag string) error {
	log := b.log.WithFields(logrus.Fields{"phase": phase, "interpreter": spec.Interpreter})
	log.Debug(script)

	b.bus.Emit(events.NewEvent(events.BuildPhase, "").
		WithInterpreter(spec.Interpreter).
		WithPayload(map[string]any{"phase": phase, "image": image}))

	operation := func() error {
		name := fmt.Sprintf("rigger-%s-%s-%d", spec.Interpreter, phase, time.Now().UnixNano())
		cmdRes, err := container.RunCommand(ctx, b.runtime, container.ContainerConfig{
			Image:   image,
			Name:    name,
			Env:     spec.Env,
			Cmd:     []string{"sh", "-c", script},
			WorkDir: "/",
		})
		if err != nil {
			return backoff.Permanent(&BuildError{Cause: CausePhaseFailed, Phase: phase, Err: err})
		}

		if cmdRes.ExitCode != 0 {
			_ = b.runtime.Remove(ctx, cmdRes.ID)
			cause := classify(phase, cmdRes.Output)
			buildErr := &BuildError{Cause: cause, Phase: phase, Detail: tail(cmdRes.Output, 20)}
			if retryable(cause) {
				log.WithField("cause", cause).Warn("transient failure, will retry")
				return buildErr
			}
			return backoff.Permanent(buildErr)
		}

		if err := b.runtime.Commit(ctx, cmdRes.ID, commitTag); err != nil {
			_ = b.runtime.Remove(ctx, cmdRes.ID)
			return backoff.Permanent(&BuildError{Cause: CausePhaseFailed, Phase: phase, Err: err})
		}
		return b.runtime.Remove(ctx, cmdRes.ID)
	}

	policy := backoff.NewExponentialBackOff()
	policy.MaxElapsedTime = b.RetryMaxElapsed
	return backoff.Retry(operation, backoff.WithContext(policy, ctx))
}

// buildSystemCmd assembles the OS package phase. Required packages install in
// one transaction; optional packages are individually best-effort.
func buildSystemCmd(spec envspec.Spec) string {
	var parts []string
	parts = append(parts, "apt-get update")

	if required := spec.RequiredSystemPackages(); len(required) > 0 {
		parts = append(parts, "apt-get install -y --no-install-recommends "+strings.Join(required, " "))
	}
	for _, pkg := range spec.OptionalSystemPackages() {
		parts = append(parts, fmt.Sprintf(
			"{ apt-get install -y --no-install-recommends %s || echo 'rigger: optional package %s skipped'; }",
			pkg, pkg))
	}

	return strings.Join(parts, " && ")
}

// buildPipCmd assembles the language package phase from the parsed manifest.
// Requirements are passed explicitly, in manifest order, with --upgrade so
// resolution is eager rather than pinned to whatever a stale layer held.
func buildPipCmd(manifest *envspec.Manifest) string {
	if len(manifest.Requirements) == 0 {
		return "true"
	}

	args := make([]string, 0, len(manifest.Requirements))
	for _, req := range manifest.Requirements {
		args = append(args, fmt.Sprintf("'%s'", req.String()))
	}
	return "pip install --upgrade " + strings.Join(args, " ")
}

// buildCloneCmd assembles the source fetch phase.
func buildCloneCmd(src Source, workDir string) string {
	cmd := fmt.Sprintf("git clone %s %s", src.URL, workDir)
	if src.Ref != "" {
		cmd += fmt.Sprintf(" && git -C %s checkout %s", workDir, src.Ref)
	}
	return cmd
}

// tail returns the last n lines of s, for error details.
func tail(s string, n int) string {
	lines := strings.Split(strings.TrimRight(s, "\n"), "\n")
	if len(lines) <= n {
		return strings.TrimSpace(s)
	}
	return strings.Join(lines[len(lines)-n:], "\n")
}
