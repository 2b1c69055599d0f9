package syncer

import "time"

// State is a stage of a sync run
type State int

const (
	StateIdle State = iota
	StateAuthenticating
	StateFetching
	StateProcessing
	StatePublishing
	StateDone
	StateAborted
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateAuthenticating:
		return "authenticating"
	case StateFetching:
		return "fetching"
	case StateProcessing:
		return "processing"
	case StatePublishing:
		return "publishing"
	case StateDone:
		return "done"
	case StateAborted:
		return "aborted"
	default:
		return "unknown"
	}
}

// MarshalText lets State appear by name in JSON and toon output
func (s State) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

// Outcome is what happened to one unique problem during a run
type Outcome string

const (
	OutcomeNew     Outcome = "new"
	OutcomeSkipped Outcome = "skipped"
	OutcomeFailed  Outcome = "failed"
)

// Record describes the handling of one unique problem
type Record struct {
	SubmissionID string  `json:"submission_id"`
	ProblemID    string  `json:"problem_id,omitempty"`
	Title        string  `json:"title"`
	Slug         string  `json:"slug"`
	Path         string  `json:"path,omitempty"`
	Outcome      Outcome `json:"outcome"`
	Committed    bool    `json:"committed"`
	Error        string  `json:"error,omitempty"`
	CommitError  string  `json:"commit_error,omitempty"`
}

// Result summarizes a sync run
type Result struct {
	User           string    `json:"user,omitempty"`
	State          State     `json:"state"`
	DryRun         bool      `json:"dry_run"`
	Fetched        int       `json:"fetched"`
	Unique         int       `json:"unique"`
	New            int       `json:"new"`
	Skipped        int       `json:"skipped"`
	Failed         int       `json:"failed"`
	CommitFailures int       `json:"commit_failures"`
	Pushed         bool      `json:"pushed"`
	PublishError   string    `json:"publish_error,omitempty"`
	Records        []Record  `json:"records"`
	StartedAt      time.Time `json:"started_at"`
	FinishedAt     time.Time `json:"finished_at"`
}

func (r *Result) add(rec Record) {
	switch rec.Outcome {
	case OutcomeNew:
		r.New++
	case OutcomeSkipped:
		r.Skipped++
	case OutcomeFailed:
		r.Failed++
	}
	if rec.CommitError != "" {
		r.CommitFailures++
	}
	r.Records = append(r.Records, rec)
}
