package testutil

import (
	"os"
	"os/exec"
	"path/filepath"
	"strconv"
	"strings"
	"testing"
)

// TempGitRepo creates a temporary git repository for testing
type TempGitRepo struct {
	Path string
	T    *testing.T
}

// SetGitIdentity makes commits work on machines without a global git config
func SetGitIdentity(t *testing.T) {
	t.Helper()

	t.Setenv("GIT_AUTHOR_NAME", "Test User")
	t.Setenv("GIT_AUTHOR_EMAIL", "test@example.com")
	t.Setenv("GIT_COMMITTER_NAME", "Test User")
	t.Setenv("GIT_COMMITTER_EMAIL", "test@example.com")
	t.Setenv("GIT_CONFIG_NOSYSTEM", "1")
	t.Setenv("GIT_CONFIG_GLOBAL", os.DevNull)
}

// RequireGit skips the test when no git binary is installed
func RequireGit(t *testing.T) {
	t.Helper()

	if _, err := exec.LookPath("git"); err != nil {
		t.Skip("git not installed")
	}
}

// NewTempGitRepo creates a new temporary git repository with one commit
func NewTempGitRepo(t *testing.T) *TempGitRepo {
	t.Helper()
	RequireGit(t)
	SetGitIdentity(t)

	repo := &TempGitRepo{Path: t.TempDir(), T: t}
	repo.Git("init")
	repo.CreateFile("README.md", "# Test Repository\n")
	repo.Commit("Initial commit")
	return repo
}

// NewBareRemote creates a bare repository usable as a push target
func NewBareRemote(t *testing.T) string {
	t.Helper()
	RequireGit(t)

	dir := filepath.Join(t.TempDir(), "remote.git")
	cmd := exec.Command("git", "init", "--bare", dir)
	if output, err := cmd.CombinedOutput(); err != nil {
		t.Fatalf("failed to init bare remote: %v\n%s", err, output)
	}
	return dir
}

// Git runs a git command in the repository and returns its trimmed output
func (r *TempGitRepo) Git(args ...string) string {
	r.T.Helper()
	return RunGit(r.T, r.Path, args...)
}

// RunGit runs git in dir and fails the test on error
func RunGit(t *testing.T, dir string, args ...string) string {
	t.Helper()

	cmd := exec.Command("git", args...)
	cmd.Dir = dir
	output, err := cmd.CombinedOutput()
	if err != nil {
		t.Fatalf("git %s failed: %v\n%s", strings.Join(args, " "), err, output)
	}
	return strings.TrimSpace(string(output))
}

// CreateFile creates a file in the repository
func (r *TempGitRepo) CreateFile(name, content string) string {
	r.T.Helper()
	path := filepath.Join(r.Path, name)
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		r.T.Fatalf("failed to create directory: %v", err)
	}
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		r.T.Fatalf("failed to create file: %v", err)
	}
	return path
}

// Commit stages and commits all changes
func (r *TempGitRepo) Commit(message string) {
	r.T.Helper()
	r.Git("add", ".")
	r.Git("commit", "-m", message)
}

// CommitCount returns the number of commits reachable from HEAD in dir
func CommitCount(t *testing.T, dir string) int {
	t.Helper()

	cmd := exec.Command("git", "rev-list", "--count", "HEAD")
	cmd.Dir = dir
	output, err := cmd.Output()
	if err != nil {
		return 0
	}
	n, err := strconv.Atoi(strings.TrimSpace(string(output)))
	if err != nil {
		t.Fatalf("unexpected rev-list output %q: %v", output, err)
	}
	return n
}

// LastCommitMessage returns the subject of the HEAD commit in dir
func LastCommitMessage(t *testing.T, dir string) string {
	t.Helper()
	return RunGit(t, dir, "log", "-1", "--format=%s")
}

// TrackedFiles returns the files tracked at ref in dir
func TrackedFiles(t *testing.T, dir, ref string) []string {
	t.Helper()
	return parseLines(RunGit(t, dir, "ls-tree", "-r", "--name-only", ref))
}

// parseLines splits output into non-empty trimmed lines
func parseLines(output string) []string {
	var lines []string
	for _, line := range strings.Split(output, "\n") {
		line = strings.TrimSpace(line)
		if line != "" {
			lines = append(lines, line)
		}
	}
	return lines
}
