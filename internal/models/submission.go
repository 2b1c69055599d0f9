package models

import (
	"strings"
	"time"
)

// Difficulty is the classification attribute used to group solutions
type Difficulty string

const (
	DifficultyEasy    Difficulty = "Easy"
	DifficultyMedium  Difficulty = "Medium"
	DifficultyHard    Difficulty = "Hard"
	DifficultyUnknown Difficulty = "Unknown"
)

// Difficulties lists the known tiers in ascending order
var Difficulties = []Difficulty{DifficultyEasy, DifficultyMedium, DifficultyHard}

// ParseDifficulty normalizes a remote difficulty label ("MEDIUM", "medium", ...).
// Anything outside the known tiers is DifficultyUnknown, so the result is
// always safe to use as a directory name.
func ParseDifficulty(s string) Difficulty {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "easy":
		return DifficultyEasy
	case "medium":
		return DifficultyMedium
	case "hard":
		return DifficultyHard
	default:
		return DifficultyUnknown
	}
}

// SubmissionSummary is one accepted submission event, without source code
type SubmissionSummary struct {
	ID           string    `json:"id"`
	ProblemTitle string    `json:"problem_title"`
	ProblemSlug  string    `json:"problem_slug"`
	StatusCode   int       `json:"status_code"`
	Status       string    `json:"status,omitempty"`
	Language     string    `json:"language"`
	LanguageName string    `json:"language_name,omitempty"`
	Timestamp    time.Time `json:"timestamp"`
	Runtime      string    `json:"runtime,omitempty"`
	Memory       string    `json:"memory,omitempty"`
}

// SubmissionDetail is the full record of a submission including its code
type SubmissionDetail struct {
	Code         string     `json:"code"`
	Language     string     `json:"language"`
	ProblemID    string     `json:"problem_id"`
	ProblemTitle string     `json:"problem_title"`
	ProblemSlug  string     `json:"problem_slug"`
	Difficulty   Difficulty `json:"difficulty"`
	Topics       []string   `json:"topics,omitempty"`
}

// UserStatus describes the account behind the configured credential
type UserStatus struct {
	Username   string `json:"username"`
	IsSignedIn bool   `json:"is_signed_in"`
}
