package store

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"strings"

	"github.com/pders01/leetsync/internal/models"
)

// ErrArtifactExists is returned by WriteArtifact when the target file is already present
var ErrArtifactExists = errors.New("artifact already exists")

var (
	illegalChars  = regexp.MustCompile(`[^\p{L}\p{N}\s_-]+`)
	whitespace    = regexp.MustCompile(`\s+`)
	hyphenRuns    = regexp.MustCompile(`-+`)
	problemPrefix = regexp.MustCompile(`^(\d{4,})-(.*)$`)
)

// openFile is replaced in tests to simulate failing writes
var openFile = os.OpenFile

// Store maps problems to solution files under a root directory
type Store struct {
	root         string
	byDifficulty bool
}

// New returns a Store rooted at root. Nothing is created on disk until
// an artifact is written.
func New(root string, byDifficulty bool) (*Store, error) {
	abs, err := filepath.Abs(root)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve %s: %w", root, err)
	}
	return &Store{root: abs, byDifficulty: byDifficulty}, nil
}

// Root returns the absolute root directory
func (s *Store) Root() string {
	return s.root
}

// Sanitize turns a problem title into a filesystem-safe slug.
// "Two Sum: Easy!" becomes "two-sum-easy".
func Sanitize(title string) string {
	name := illegalChars.ReplaceAllString(title, "")
	name = whitespace.ReplaceAllString(name, "-")
	name = hyphenRuns.ReplaceAllString(name, "-")
	return strings.Trim(strings.ToLower(name), "-")
}

// ResolvePath returns where a solution for the problem lives.
// Format: <root>/<Difficulty>/<0001>-<slug><ext>, or <root>/<0001>-<slug><ext> when flat.
func (s *Store) ResolvePath(problemID, title string, difficulty models.Difficulty, extension string) string {
	filename := fmt.Sprintf("%s-%s%s", models.PadProblemID(problemID), Sanitize(title), extension)
	if !s.byDifficulty {
		return filepath.Join(s.root, filename)
	}
	return filepath.Join(s.root, string(models.ParseDifficulty(string(difficulty))), filename)
}

// PathFor resolves the target path of an artifact. A title with nothing
// left after sanitizing falls back to the problem slug.
func (s *Store) PathFor(a models.Artifact) string {
	title := a.Detail.ProblemTitle
	if Sanitize(title) == "" {
		title = a.Detail.ProblemSlug
	}
	return s.ResolvePath(a.Detail.ProblemID, title, a.Detail.Difficulty, a.Language.Extension())
}

// ExistingProblemIDs scans the root for solution files and returns their
// zero-padded id prefixes. Files without a numeric prefix are ignored.
func (s *Store) ExistingProblemIDs() (map[string]struct{}, error) {
	solutions, err := s.List()
	if err != nil {
		return nil, err
	}

	ids := make(map[string]struct{}, len(solutions))
	for _, sol := range solutions {
		ids[sol.ProblemID] = struct{}{}
	}
	return ids, nil
}

// List returns every solution file under the root, sorted by problem id
func (s *Store) List() ([]models.Solution, error) {
	var solutions []models.Solution

	err := filepath.WalkDir(s.root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			if errors.Is(err, fs.ErrNotExist) && path == s.root {
				return fs.SkipAll
			}
			return err
		}
		if d.IsDir() {
			if strings.HasPrefix(d.Name(), ".") && path != s.root {
				return fs.SkipDir
			}
			return nil
		}

		sol, ok := parseSolution(s.root, path)
		if ok {
			solutions = append(solutions, sol)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to scan %s: %w", s.root, err)
	}

	sort.Slice(solutions, func(i, j int) bool {
		if solutions[i].ProblemID != solutions[j].ProblemID {
			return lessID(solutions[i].ProblemID, solutions[j].ProblemID)
		}
		return solutions[i].Path < solutions[j].Path
	})
	return solutions, nil
}

// WriteArtifact creates the solution file. It never overwrites: when the
// target exists it returns the path with ErrArtifactExists.
func (s *Store) WriteArtifact(a models.Artifact) (string, error) {
	return s.write(a, os.O_WRONLY|os.O_CREATE|os.O_EXCL)
}

// ReplaceArtifact writes the solution file, truncating any existing content
func (s *Store) ReplaceArtifact(a models.Artifact) (string, error) {
	return s.write(a, os.O_WRONLY|os.O_CREATE|os.O_TRUNC)
}

func (s *Store) write(a models.Artifact, flag int) (string, error) {
	path := s.PathFor(a)

	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return "", fmt.Errorf("failed to create directory: %w", err)
	}

	file, err := openFile(path, flag, 0644)
	if err != nil {
		if errors.Is(err, fs.ErrExist) {
			return path, ErrArtifactExists
		}
		return "", fmt.Errorf("failed to create %s: %w", path, err)
	}

	// a partial file must not count as synced on the next scan
	if _, err := file.WriteString(Render(a)); err != nil {
		file.Close()
		os.Remove(path)
		return "", fmt.Errorf("failed to write %s: %w", path, err)
	}
	if err := file.Close(); err != nil {
		os.Remove(path)
		return "", fmt.Errorf("failed to close %s: %w", path, err)
	}
	return path, nil
}

func parseSolution(root, path string) (models.Solution, bool) {
	name := filepath.Base(path)
	match := problemPrefix.FindStringSubmatch(name)
	if match == nil {
		return models.Solution{}, false
	}

	ext := filepath.Ext(match[2])
	sol := models.Solution{
		ProblemID: match[1],
		Slug:      strings.TrimSuffix(match[2], ext),
		Extension: ext,
		Path:      path,
	}

	if rel, err := filepath.Rel(root, filepath.Dir(path)); err == nil && rel != "." {
		sol.Difficulty = models.Difficulty(filepath.ToSlash(rel))
	}
	return sol, true
}

// lessID orders zero-padded ids numerically, so "10000" sorts after "9999"
func lessID(a, b string) bool {
	if len(a) != len(b) {
		return len(a) < len(b)
	}
	return a < b
}
