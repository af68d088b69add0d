package git

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeRunner struct {
	mu        sync.Mutex
	responses map[string][]fakeResponse
	calls     []fakeCall
}

type fakeResponse struct {
	out string
	err error
}

type fakeCall struct {
	dir  string
	args []string
}

func newFakeRunner() *fakeRunner {
	return &fakeRunner{
		responses: make(map[string][]fakeResponse),
	}
}

func (f *fakeRunner) stub(args string, out string, err error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.responses[args] = append(f.responses[args], fakeResponse{out: out, err: err})
}

func (f *fakeRunner) Exec(ctx context.Context, dir string, args ...string) (string, error) {
	key := strings.Join(args, " ")
	f.mu.Lock()
	f.calls = append(f.calls, fakeCall{dir: dir, args: append([]string(nil), args...)})
	queue := f.responses[key]
	if len(queue) == 0 {
		f.mu.Unlock()
		return "", fmt.Errorf("unexpected git call: %s", key)
	}
	resp := queue[0]
	f.responses[key] = queue[1:]
	f.mu.Unlock()
	return resp.out, resp.err
}

func withFakeRunner(t *testing.T) *fakeRunner {
	t.Helper()
	fake := newFakeRunner()
	SetDefaultRunner(fake)
	t.Cleanup(func() { SetDefaultRunner(nil) })
	return fake
}

func TestClient_CurrentBranch(t *testing.T) {
	fake := withFakeRunner(t)
	fake.stub("rev-parse --abbrev-ref HEAD", "develop\n", nil)

	branch, err := NewClient("/repo").CurrentBranch(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "develop", branch)
	assert.Equal(t, "/repo", fake.calls[0].dir)
}

func TestClient_RemoteURL(t *testing.T) {
	fake := withFakeRunner(t)
	fake.stub("remote get-url origin", "https://github.com/pmgteam/porous-sim.git\n", nil)

	url, err := NewClient("/repo").RemoteURL(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "https://github.com/pmgteam/porous-sim.git", url)
}

func TestClient_RemoteURL_NoRemote(t *testing.T) {
	fake := withFakeRunner(t)
	fake.stub("remote get-url origin", "", fmt.Errorf("git remote get-url origin failed: exit status 2"))

	_, err := NewClient("/repo").RemoteURL(context.Background())
	require.Error(t, err)
}

func TestClient_IsRepo(t *testing.T) {
	fake := withFakeRunner(t)
	fake.stub("rev-parse --is-inside-work-tree", "true\n", nil)
	assert.True(t, NewClient("/repo").IsRepo(context.Background()))

	fake.stub("rev-parse --is-inside-work-tree", "", fmt.Errorf("not a git repository"))
	assert.False(t, NewClient("/tmp").IsRepo(context.Background()))
}

func TestClient_HeadCommit(t *testing.T) {
	fake := withFakeRunner(t)
	fake.stub("rev-parse HEAD", "8f3a2c1d9e0b4a6f7c8d9e0f1a2b3c4d5e6f7a8b\n", nil)

	sha, err := NewClient("/repo").HeadCommit(context.Background())
	require.NoError(t, err)
	assert.Len(t, sha, 40)
}

func TestDefaultRunner_SwapAndRestore(t *testing.T) {
	fake := newFakeRunner()
	SetDefaultRunner(fake)
	assert.Equal(t, Runner(fake), DefaultRunner())

	SetDefaultRunner(nil)
	assert.NotNil(t, DefaultRunner())
	assert.NotEqual(t, Runner(fake), DefaultRunner())
}
