package cmd

import (
	"os"
	"path/filepath"
	"testing"
)

func resetListFlags() {
	listDifficulty = ""
	listJSON = false
	listToon = false
}

func writeSolution(t *testing.T, path string) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		t.Fatalf("failed to create dir: %v", err)
	}
	if err := os.WriteFile(path, []byte("solution\n"), 0644); err != nil {
		t.Fatalf("failed to write solution: %v", err)
	}
}

func TestListNoSolutions(t *testing.T) {
	setupConfig(t, nil)
	resetListFlags()

	// a repo path that does not exist yet is an empty listing
	if err := runList(nil, []string{}); err != nil {
		t.Fatalf("list command failed: %v", err)
	}
}

func TestListWithSolutions(t *testing.T) {
	repoPath := setupConfig(t, nil)
	writeSolution(t, filepath.Join(repoPath, "Easy", "0001-two-sum.py"))
	writeSolution(t, filepath.Join(repoPath, "Hard", "0004-median-of-two-sorted-arrays.cpp"))
	writeSolution(t, filepath.Join(repoPath, "README.md"))

	tests := []struct {
		name       string
		difficulty string
		asJSON     bool
		asToon     bool
	}{
		{name: "plain"},
		{name: "filtered", difficulty: "hard"},
		{name: "json", asJSON: true},
		{name: "toon", asToon: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resetListFlags()
			defer resetListFlags()
			listDifficulty = tt.difficulty
			listJSON = tt.asJSON
			listToon = tt.asToon

			if err := runList(nil, []string{}); err != nil {
				t.Fatalf("list command failed: %v", err)
			}
		})
	}
}
