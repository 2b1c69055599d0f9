package git

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
)

// InitialCommitMessage is used for the commit that adds the README marker
const InitialCommitMessage = "Initial commit: Add README"

const readmeContent = `# LeetCode Solutions

My solutions to LeetCode problems, automatically synced.

## Structure

Solutions are organized by difficulty:
- ` + "`Easy/`" + ` - Easy problems
- ` + "`Medium/`" + ` - Medium problems
- ` + "`Hard/`" + ` - Hard problems
`

// Repo runs git commands inside a single working tree
type Repo struct {
	Dir string
}

// NewRepo returns a Repo for dir, resolved to an absolute path
func NewRepo(dir string) (*Repo, error) {
	abs, err := filepath.Abs(dir)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve %s: %w", dir, err)
	}
	return &Repo{Dir: abs}, nil
}

// run executes git with args in the repo directory and returns combined output
func (r *Repo) run(ctx context.Context, args ...string) (string, error) {
	cmd := exec.CommandContext(ctx, "git", args...)
	cmd.Dir = r.Dir
	output, err := cmd.CombinedOutput()
	return string(output), err
}

// IsGitRepo checks if the directory itself holds a .git entry
func (r *Repo) IsGitRepo() bool {
	_, err := os.Stat(filepath.Join(r.Dir, ".git"))
	return err == nil
}

// EnsureHistory initializes the repository with a README commit when needed.
// It reports whether a new repository was created.
func (r *Repo) EnsureHistory(ctx context.Context) (bool, error) {
	if r.IsGitRepo() {
		return false, nil
	}

	if err := os.MkdirAll(r.Dir, 0755); err != nil {
		return false, fmt.Errorf("failed to create %s: %w", r.Dir, err)
	}
	if output, err := r.run(ctx, "init"); err != nil {
		return false, fmt.Errorf("failed to init repository: %w\nOutput: %s", err, output)
	}

	readme := filepath.Join(r.Dir, "README.md")
	if _, err := os.Stat(readme); os.IsNotExist(err) {
		if err := os.WriteFile(readme, []byte(readmeContent), 0644); err != nil {
			return true, fmt.Errorf("failed to write README.md: %w", err)
		}
	}

	if _, err := r.CommitOne(ctx, readme, InitialCommitMessage); err != nil {
		return true, err
	}
	return true, nil
}

// ConfigureRemote adds the named remote unless it already exists
func (r *Repo) ConfigureRemote(ctx context.Context, url, name string) (bool, error) {
	if _, err := r.RemoteURL(ctx, name); err == nil {
		return false, nil
	}

	if output, err := r.run(ctx, "remote", "add", name, url); err != nil {
		return false, fmt.Errorf("failed to add remote %s: %w\nOutput: %s", name, err, output)
	}
	return true, nil
}

// RemoteURL returns the URL configured for a remote
func (r *Repo) RemoteURL(ctx context.Context, name string) (string, error) {
	output, err := r.run(ctx, "remote", "get-url", name)
	if err != nil {
		return "", fmt.Errorf("failed to get remote %s: %w", name, err)
	}
	return strings.TrimSpace(output), nil
}

// CommitOne stages a single path and commits only that path.
// Returns false without error when staging produced no change.
func (r *Repo) CommitOne(ctx context.Context, path, message string) (bool, error) {
	rel, err := r.relPath(path)
	if err != nil {
		return false, err
	}

	if output, err := r.run(ctx, "add", "--", rel); err != nil {
		return false, fmt.Errorf("failed to stage %s: %w\nOutput: %s", rel, err, output)
	}

	changed, err := r.hasStagedChanges(ctx, rel)
	if err != nil || !changed {
		return false, err
	}

	if output, err := r.run(ctx, "commit", "-m", message, "--", rel); err != nil {
		return false, fmt.Errorf("failed to commit: %w\nOutput: %s", err, output)
	}
	return true, nil
}

// CommitAll stages every change in the working tree and commits it
func (r *Repo) CommitAll(ctx context.Context, message string) (bool, error) {
	if output, err := r.run(ctx, "add", "-A"); err != nil {
		return false, fmt.Errorf("failed to stage changes: %w\nOutput: %s", err, output)
	}

	changed, err := r.hasStagedChanges(ctx)
	if err != nil || !changed {
		return false, err
	}

	if output, err := r.run(ctx, "commit", "-m", message); err != nil {
		return false, fmt.Errorf("failed to commit: %w\nOutput: %s", err, output)
	}
	return true, nil
}

// Publish renames the current branch to branch and pushes it, retrying
// once with --set-upstream if the first push fails.
func (r *Repo) Publish(ctx context.Context, remote, branch string) error {
	if output, err := r.run(ctx, "branch", "-M", branch); err != nil {
		return fmt.Errorf("failed to set branch %s: %w\nOutput: %s", branch, err, output)
	}

	if _, err := r.run(ctx, "push", "-u", remote, branch); err == nil {
		return nil
	}

	if output, err := r.run(ctx, "push", "--set-upstream", remote, branch); err != nil {
		return fmt.Errorf("failed to push to %s/%s: %w\nOutput: %s", remote, branch, err, output)
	}
	return nil
}

// CurrentBranch returns the checked out branch name
func (r *Repo) CurrentBranch(ctx context.Context) (string, error) {
	output, err := r.run(ctx, "rev-parse", "--abbrev-ref", "HEAD")
	if err != nil {
		return "", fmt.Errorf("failed to get current branch: %w", err)
	}
	return strings.TrimSpace(output), nil
}

// Status returns the short status of the working tree
func (r *Repo) Status(ctx context.Context) (string, error) {
	output, err := r.run(ctx, "status", "--short")
	if err != nil {
		return "", fmt.Errorf("failed to check git status: %w", err)
	}
	return output, nil
}

// hasStagedChanges uses the exit status of diff --cached --quiet:
// 0 means nothing staged, 1 means changes, anything else is a failure.
func (r *Repo) hasStagedChanges(ctx context.Context, paths ...string) (bool, error) {
	args := append([]string{"diff", "--cached", "--quiet", "--"}, paths...)
	output, err := r.run(ctx, args...)
	if err == nil {
		return false, nil
	}

	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) && exitErr.ExitCode() == 1 {
		return true, nil
	}
	return false, fmt.Errorf("failed to inspect staged changes: %w\nOutput: %s", err, output)
}

func (r *Repo) relPath(path string) (string, error) {
	if !filepath.IsAbs(path) {
		return path, nil
	}
	rel, err := filepath.Rel(r.Dir, path)
	if err != nil {
		return "", fmt.Errorf("failed to compute relative path: %w", err)
	}
	if strings.HasPrefix(rel, "..") {
		return "", fmt.Errorf("path %s is outside repository %s", path, r.Dir)
	}
	return rel, nil
}
