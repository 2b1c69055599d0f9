package leetcode

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/pders01/leetsync/internal/models"
)

const globalDataQuery = `
query globalData {
    userStatus {
        username
        isSignedIn
    }
}`

const submissionListQuery = `
query submissionList($offset: Int!, $limit: Int!, $lastKey: String, $questionSlug: String, $lang: Int, $status: Int) {
    submissionList(offset: $offset, limit: $limit, lastKey: $lastKey, questionSlug: $questionSlug, lang: $lang, status: $status) {
        lastKey
        hasNext
        submissions {
            id
            title
            titleSlug
            status
            statusDisplay
            lang
            langName
            runtime
            timestamp
            memory
        }
    }
}`

const submissionDetailsQuery = `
query submissionDetails($submissionId: Int!) {
    submissionDetails(submissionId: $submissionId) {
        code
        timestamp
        statusDisplay
        lang {
            name
            verboseName
        }
        question {
            questionId
            questionFrontendId
            title
            titleSlug
            difficulty
            topicTags {
                name
            }
        }
    }
}`

// LeetCode returns ids, statuses and timestamps as strings or numbers
// depending on the field, so they decode through json.Number.
type wireSubmission struct {
	ID            json.Number `json:"id"`
	Title         string      `json:"title"`
	TitleSlug     string      `json:"titleSlug"`
	Status        json.Number `json:"status"`
	StatusDisplay string      `json:"statusDisplay"`
	Lang          string      `json:"lang"`
	LangName      string      `json:"langName"`
	Runtime       string      `json:"runtime"`
	Timestamp     json.Number `json:"timestamp"`
	Memory        string      `json:"memory"`
}

func (w wireSubmission) summary() (models.SubmissionSummary, error) {
	if w.ID == "" {
		return models.SubmissionSummary{}, fmt.Errorf("missing id")
	}

	var ts time.Time
	if w.Timestamp != "" {
		secs, err := w.Timestamp.Int64()
		if err != nil {
			return models.SubmissionSummary{}, fmt.Errorf("invalid timestamp %q: %w", w.Timestamp, err)
		}
		ts = time.Unix(secs, 0).UTC()
	}

	var status int64
	if w.Status != "" {
		var err error
		if status, err = w.Status.Int64(); err != nil {
			return models.SubmissionSummary{}, fmt.Errorf("invalid status %q: %w", w.Status, err)
		}
	}

	return models.SubmissionSummary{
		ID:           w.ID.String(),
		ProblemTitle: w.Title,
		ProblemSlug:  w.TitleSlug,
		StatusCode:   int(status),
		Status:       w.StatusDisplay,
		Language:     w.Lang,
		LanguageName: w.LangName,
		Timestamp:    ts,
		Runtime:      w.Runtime,
		Memory:       w.Memory,
	}, nil
}

type wireDetail struct {
	Code string `json:"code"`
	Lang *struct {
		Name        string `json:"name"`
		VerboseName string `json:"verboseName"`
	} `json:"lang"`
	Question *struct {
		QuestionID         string `json:"questionId"`
		QuestionFrontendID string `json:"questionFrontendId"`
		Title              string `json:"title"`
		TitleSlug          string `json:"titleSlug"`
		Difficulty         string `json:"difficulty"`
		TopicTags          []struct {
			Name string `json:"name"`
		} `json:"topicTags"`
	} `json:"question"`
}

func (w *wireDetail) detail() *models.SubmissionDetail {
	q := w.Question

	// The frontend id is the number shown on the site; questionId is internal
	// and only differs for some newer problems.
	problemID := q.QuestionFrontendID
	if problemID == "" {
		problemID = q.QuestionID
	}
	if problemID == "" {
		problemID = "0"
	}

	topics := make([]string, 0, len(q.TopicTags))
	for _, tag := range q.TopicTags {
		topics = append(topics, tag.Name)
	}

	var lang string
	if w.Lang != nil {
		lang = w.Lang.Name
	}

	return &models.SubmissionDetail{
		Code:         w.Code,
		Language:     lang,
		ProblemID:    problemID,
		ProblemTitle: q.Title,
		ProblemSlug:  q.TitleSlug,
		Difficulty:   models.ParseDifficulty(q.Difficulty),
		Topics:       topics,
	}
}
