package container

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"strings"
	"sync"
	"time"
)

// FakeOutcome scripts the result of a container run in tests.
type FakeOutcome struct {
	// ExitCode returned by Wait
	ExitCode int

	// Output returned by Logs
	Output string

	// CreateErr, if set, fails Create
	CreateErr error

	// StartErr, if set, fails Start
	StartErr error
}

// FakeRule matches a scripted outcome to containers whose command line
// contains Match as a substring.
type FakeRule struct {
	Match   string
	Outcome FakeOutcome
}

// FakeManager is a scripted Manager for tests. Outcomes are selected by
// substring match against the container's command; unmatched commands
// succeed with empty output.
type FakeManager struct {
	mu    sync.Mutex
	Rules []FakeRule

	nextID    int
	created   map[ContainerID]ContainerConfig
	outcomes  map[ContainerID]FakeOutcome
	Committed []CommitCall
	Removed   []ContainerID
	Images    map[string]bool
}

// CommitCall records a Commit invocation.
type CommitCall struct {
	ID    ContainerID
	Image string
}

// NewFakeManager creates a fake manager with the given rules.
func NewFakeManager(rules ...FakeRule) *FakeManager {
	return &FakeManager{
		Rules:    rules,
		created:  make(map[ContainerID]ContainerConfig),
		outcomes: make(map[ContainerID]FakeOutcome),
		Images:   make(map[string]bool),
	}
}

func (f *FakeManager) outcomeFor(cfg ContainerConfig) FakeOutcome {
	cmdline := strings.Join(cfg.Cmd, " ")
	for _, rule := range f.Rules {
		if strings.Contains(cmdline, rule.Match) {
			return rule.Outcome
		}
	}
	return FakeOutcome{}
}

// Create records the config and assigns a synthetic container ID.
func (f *FakeManager) Create(ctx context.Context, cfg ContainerConfig) (ContainerID, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	outcome := f.outcomeFor(cfg)
	if outcome.CreateErr != nil {
		return "", outcome.CreateErr
	}

	f.nextID++
	id := ContainerID(fmt.Sprintf("fake-%d", f.nextID))
	f.created[id] = cfg
	f.outcomes[id] = outcome
	return id, nil
}

// Start fails only when scripted to.
func (f *FakeManager) Start(ctx context.Context, id ContainerID) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	outcome, ok := f.outcomes[id]
	if !ok {
		return fmt.Errorf("unknown container: %s", id)
	}
	return outcome.StartErr
}

// Wait returns the scripted exit code.
func (f *FakeManager) Wait(ctx context.Context, id ContainerID) (int, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	outcome, ok := f.outcomes[id]
	if !ok {
		return -1, fmt.Errorf("unknown container: %s", id)
	}
	return outcome.ExitCode, nil
}

// Logs returns the scripted output.
func (f *FakeManager) Logs(ctx context.Context, id ContainerID) (io.ReadCloser, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	outcome, ok := f.outcomes[id]
	if !ok {
		return nil, fmt.Errorf("unknown container: %s", id)
	}
	return io.NopCloser(bytes.NewReader([]byte(outcome.Output))), nil
}

// Stop is a no-op for the fake.
func (f *FakeManager) Stop(ctx context.Context, id ContainerID, timeout time.Duration) error {
	return nil
}

// Remove records the removal.
func (f *FakeManager) Remove(ctx context.Context, id ContainerID) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	if _, ok := f.created[id]; !ok {
		return fmt.Errorf("unknown container: %s", id)
	}
	f.Removed = append(f.Removed, id)
	return nil
}

// Commit records the commit and registers the image.
func (f *FakeManager) Commit(ctx context.Context, id ContainerID, imageTag string) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	if _, ok := f.created[id]; !ok {
		return fmt.Errorf("unknown container: %s", id)
	}
	f.Committed = append(f.Committed, CommitCall{ID: id, Image: imageTag})
	f.Images[imageTag] = true
	return nil
}

// ImageExists reports images registered via Commit or seeded in Images.
func (f *FakeManager) ImageExists(ctx context.Context, imageTag string) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.Images[imageTag], nil
}

// CreatedConfigs returns the configs of all created containers in ID order.
func (f *FakeManager) CreatedConfigs() []ContainerConfig {
	f.mu.Lock()
	defer f.mu.Unlock()

	configs := make([]ContainerConfig, 0, len(f.created))
	for i := 1; i <= f.nextID; i++ {
		id := ContainerID(fmt.Sprintf("fake-%d", i))
		if cfg, ok := f.created[id]; ok {
			configs = append(configs, cfg)
		}
	}
	return configs
}

// Verify FakeManager implements Manager interface
var _ Manager = (*FakeManager)(nil)
