package git

import (
	"context"
	"strings"
)

// Client provides read-only git introspection for a working copy. It is used
// to evaluate branch-scoped triggers and to auto-detect the source repository
// URL when configuration omits one.
type Client struct {
	// RepoPath is the root directory of the git repository
	RepoPath string
}

// NewClient creates a new git client for the given repository path
func NewClient(repoPath string) *Client {
	return &Client{RepoPath: repoPath}
}

// IsRepo reports whether the client path is inside a git working tree.
func (c *Client) IsRepo(ctx context.Context) bool {
	out, err := gitExec(ctx, c.RepoPath, "rev-parse", "--is-inside-work-tree")
	return err == nil && strings.TrimSpace(out) == "true"
}

// CurrentBranch returns the checked-out branch name.
func (c *Client) CurrentBranch(ctx context.Context) (string, error) {
	out, err := gitExec(ctx, c.RepoPath, "rev-parse", "--abbrev-ref", "HEAD")
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(out), nil
}

// RemoteURL returns the fetch URL of the origin remote.
func (c *Client) RemoteURL(ctx context.Context) (string, error) {
	out, err := gitExec(ctx, c.RepoPath, "remote", "get-url", "origin")
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(out), nil
}

// HeadCommit returns the full SHA of HEAD.
func (c *Client) HeadCommit(ctx context.Context) (string, error) {
	out, err := gitExec(ctx, c.RepoPath, "rev-parse", "HEAD")
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(out), nil
}
