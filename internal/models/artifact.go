package models

import (
	"fmt"
	"strings"
	"time"
)

// ProblemIDWidth is the minimum width of the numeric filename prefix
const ProblemIDWidth = 4

// Artifact is everything needed to materialize one solution file
type Artifact struct {
	Detail        SubmissionDetail
	Language      Language
	Runtime       string
	Memory        string
	BaseURL       string
	IncludeHeader bool
	Date          time.Time
}

// Solution is an artifact that already exists on disk
type Solution struct {
	ProblemID  string     `json:"problem_id"`
	Slug       string     `json:"slug"`
	Difficulty Difficulty `json:"difficulty,omitempty"`
	Extension  string     `json:"extension"`
	Path       string     `json:"path"`
}

// PadProblemID left-pads a numeric id with zeros to ProblemIDWidth.
// Longer ids are returned unchanged.
func PadProblemID(id string) string {
	id = strings.TrimSpace(id)
	if len(id) >= ProblemIDWidth {
		return id
	}
	return strings.Repeat("0", ProblemIDWidth-len(id)) + id
}

// ProblemURL returns the canonical problem page for a slug
// Format: <base>/problems/<slug>/
func ProblemURL(baseURL, slug string) string {
	return fmt.Sprintf("%s/problems/%s/", strings.TrimRight(baseURL, "/"), slug)
}
