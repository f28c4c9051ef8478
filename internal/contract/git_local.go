package contract

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/huangsam/repometrics/schema"
)

// LocalGitClient implements the GitClient interface by executing the
// local 'git' binary installed on the machine.
type LocalGitClient struct{}

var _ GitClient = &LocalGitClient{} // Compile-time check

// NewLocalGitClient creates a new instance of the local Git client.
func NewLocalGitClient() *LocalGitClient {
	return &LocalGitClient{}
}

// Run executes a git command and returns its stdout output.
func (c *LocalGitClient) Run(ctx context.Context, repoPath string, args ...string) ([]byte, error) {
	fullArgs := append([]string{"-C", repoPath}, args...)
	cmd := exec.CommandContext(ctx, "git", fullArgs...)
	out, err := cmd.Output()
	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		stderr := strings.TrimSpace(string(exitErr.Stderr))
		return nil, fmt.Errorf("git command failed in %q: %s. If this is not a Git repository, verify the path or run 'git init'", repoPath, stderr)
	} else if err != nil {
		return nil, fmt.Errorf("git command failed: %w. Ensure Git is installed and available on your PATH", err)
	}
	return out, nil
}

// GetRepoHash implements the RevisionOracle interface.
func (c *LocalGitClient) GetRepoHash(ctx context.Context, repoPath string) (string, error) {
	out, err := c.Run(ctx, repoPath, "rev-parse", "HEAD")
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(string(out)), nil
}

// GetRepoRoot implements the GitClient interface.
func (c *LocalGitClient) GetRepoRoot(ctx context.Context, contextPath string) (string, error) {
	out, err := c.Run(ctx, contextPath, "rev-parse", "--show-toplevel")
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(string(out)), nil
}

// Clone implements the GitClient interface.
func (c *LocalGitClient) Clone(ctx context.Context, url, branch, dir string) error {
	parent := filepath.Dir(dir)
	if err := os.MkdirAll(parent, 0o755); err != nil {
		return err
	}
	args := []string{"clone"}
	if branch != "" {
		args = append(args, "--branch", branch)
	}
	args = append(args, url, filepath.Base(dir))
	_, err := c.Run(ctx, parent, args...)
	return err
}

// Update implements the GitClient interface.
func (c *LocalGitClient) Update(ctx context.Context, dir, branch string) error {
	steps := [][]string{{"checkout", "--force"}}
	if branch != "" {
		steps = append(steps, []string{"checkout", branch})
	}
	steps = append(steps, []string{"pull", "--rebase"})
	for _, args := range steps {
		if _, err := c.Run(ctx, dir, args...); err != nil {
			return err
		}
	}
	return nil
}

// ListCommits implements the GitClient interface.
func (c *LocalGitClient) ListCommits(ctx context.Context, repoPath string, limit int) ([]schema.Commit, error) {
	args := []string{"log", "--format=%H%x09%cI"}
	if limit > 0 {
		args = append(args, "-n", strconv.Itoa(limit))
	}
	out, err := c.Run(ctx, repoPath, args...)
	if err != nil {
		return nil, err
	}
	return parseCommitLog(string(out))
}

// parseCommitLog parses "<hash>\t<committer date>" lines.
func parseCommitLog(out string) ([]schema.Commit, error) {
	var commits []schema.Commit
	for line := range strings.Lines(out) {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		hash, rawDate, ok := strings.Cut(line, "\t")
		if !ok {
			return nil, fmt.Errorf("unexpected git log line %q", line)
		}
		date, err := time.Parse(time.RFC3339, rawDate)
		if err != nil {
			return nil, fmt.Errorf("invalid date for commit %s: %w", hash, err)
		}
		commits = append(commits, schema.Commit{Hash: hash, Date: date})
	}
	return commits, nil
}

// AddWorktree implements the GitClient interface.
func (c *LocalGitClient) AddWorktree(ctx context.Context, repoPath, dir, hash string) error {
	_, err := c.Run(ctx, repoPath, "worktree", "add", "--detach", "--force", dir, hash)
	return err
}

// RemoveWorktree implements the GitClient interface.
func (c *LocalGitClient) RemoveWorktree(ctx context.Context, repoPath, dir string) error {
	_, err := c.Run(ctx, repoPath, "worktree", "remove", "--force", dir)
	return err
}
