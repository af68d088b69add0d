package container

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRunCommand_Success(t *testing.T) {
	fake := NewFakeManager(FakeRule{
		Match:   "pytest",
		Outcome: FakeOutcome{ExitCode: 0, Output: "142 passed\n"},
	})

	res, err := RunCommand(context.Background(), fake, ContainerConfig{
		Image: "python:3.10-slim",
		Name:  "rigger-test",
		Cmd:   []string{"sh", "-c", "pytest"},
	})
	require.NoError(t, err)

	assert.Equal(t, 0, res.ExitCode)
	assert.Equal(t, "142 passed\n", res.Output)
	// Container is left in place for Commit; RunCommand must not remove it
	assert.Empty(t, fake.Removed)
}

func TestRunCommand_NonZeroExit(t *testing.T) {
	fake := NewFakeManager(FakeRule{
		Match:   "flake8",
		Outcome: FakeOutcome{ExitCode: 1, Output: "E501 line too long\n"},
	})

	res, err := RunCommand(context.Background(), fake, ContainerConfig{
		Image: "python:3.10-slim",
		Name:  "rigger-lint",
		Cmd:   []string{"sh", "-c", "flake8 ."},
	})
	require.NoError(t, err)

	assert.Equal(t, 1, res.ExitCode)
	assert.Contains(t, res.Output, "E501")
}

func TestRunCommand_CreateError(t *testing.T) {
	fake := NewFakeManager(FakeRule{
		Match:   "boom",
		Outcome: FakeOutcome{CreateErr: errors.New("no such image")},
	})

	_, err := RunCommand(context.Background(), fake, ContainerConfig{
		Image: "missing:latest",
		Name:  "rigger-x",
		Cmd:   []string{"boom"},
	})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "create container")
}

func TestRunCommand_StartErrorRemovesContainer(t *testing.T) {
	fake := NewFakeManager(FakeRule{
		Match:   "boom",
		Outcome: FakeOutcome{StartErr: errors.New("cannot start")},
	})

	_, err := RunCommand(context.Background(), fake, ContainerConfig{
		Image: "python:3.10-slim",
		Name:  "rigger-x",
		Cmd:   []string{"boom"},
	})
	require.Error(t, err)
	assert.Len(t, fake.Removed, 1)
}

func TestFakeManager_CommitRegistersImage(t *testing.T) {
	fake := NewFakeManager()
	ctx := context.Background()

	id, err := fake.Create(ctx, ContainerConfig{Image: "base", Name: "c", Cmd: []string{"true"}})
	require.NoError(t, err)
	require.NoError(t, fake.Commit(ctx, id, "rigger/env:abc-deps"))

	exists, err := fake.ImageExists(ctx, "rigger/env:abc-deps")
	require.NoError(t, err)
	assert.True(t, exists)
}
