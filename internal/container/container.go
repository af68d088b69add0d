package container

import (
	"context"
	"fmt"
	"io"
)

// ContainerID is a unique identifier for a container.
// This is the full container ID returned by `docker create`, not the short form.
type ContainerID string

// ContainerConfig specifies container creation parameters.
type ContainerConfig struct {
	// Image is the container image (e.g. "python:3.10-slim")
	Image string

	// Name is the container name (e.g. "rigger-build-abc123")
	Name string

	// Env contains environment variables to set in the container
	Env map[string]string

	// Cmd is the command and arguments to run
	Cmd []string

	// WorkDir is the working directory inside the container
	WorkDir string
}

// CommandResult is the outcome of running a command to completion in a
// fresh container.
type CommandResult struct {
	// ID of the container the command ran in. The container still exists
	// (stopped) so it can be committed to an image layer.
	ID ContainerID

	// ExitCode of the command
	ExitCode int

	// Output is combined stdout and stderr
	Output string
}

// RunCommand creates a container from cfg, runs it to completion and returns
// the exit code together with combined output. The container is left in place
// so callers can Commit it; callers own the Remove.
func RunCommand(ctx context.Context, m Manager, cfg ContainerConfig) (*CommandResult, error) {
	id, err := m.Create(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("create container %s: %w", cfg.Name, err)
	}

	if err := m.Start(ctx, id); err != nil {
		_ = m.Remove(ctx, id)
		return nil, fmt.Errorf("start container %s: %w", cfg.Name, err)
	}

	logs, err := m.Logs(ctx, id)
	if err != nil {
		_ = m.Remove(ctx, id)
		return nil, fmt.Errorf("stream logs for %s: %w", cfg.Name, err)
	}
	output, readErr := io.ReadAll(logs)
	_ = logs.Close()

	exitCode, err := m.Wait(ctx, id)
	if err != nil {
		_ = m.Remove(ctx, id)
		return nil, fmt.Errorf("wait for %s: %w", cfg.Name, err)
	}
	if readErr != nil {
		// Exit code is still meaningful; keep whatever output we got
		output = append(output, []byte(fmt.Sprintf("\n(log stream truncated: %v)", readErr))...)
	}

	return &CommandResult{ID: id, ExitCode: exitCode, Output: string(output)}, nil
}
