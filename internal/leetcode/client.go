package leetcode

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/pders01/leetsync/internal/models"
)

const (
	// DefaultBaseURL is the public LeetCode site
	DefaultBaseURL = "https://leetcode.com"
	// StatusAccepted is the submissionList status filter for accepted runs
	StatusAccepted = 10

	userAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36"
)

var (
	ErrNotAuthenticated = errors.New("not authenticated")
	ErrNoDetail         = errors.New("submission detail not available")
	ErrUnexpectedStatus = errors.New("unexpected HTTP status")
)

// Client talks to the LeetCode GraphQL endpoint with a session cookie
type Client struct {
	httpClient *http.Client
	baseURL    string
	session    string
	csrfToken  string
}

// NewClient creates a client for baseURL authenticated by the session cookie
func NewClient(baseURL, session, csrfToken string) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}

	return &Client{
		httpClient: &http.Client{Timeout: 30 * time.Second},
		baseURL:    strings.TrimRight(baseURL, "/"),
		session:    session,
		csrfToken:  csrfToken,
	}
}

// Profile returns the signed-in user behind the session cookie.
// A valid response for a signed-out session returns ErrNotAuthenticated.
func (c *Client) Profile(ctx context.Context) (*models.UserStatus, error) {
	var data struct {
		UserStatus *struct {
			Username   string `json:"username"`
			IsSignedIn bool   `json:"isSignedIn"`
		} `json:"userStatus"`
	}

	if err := c.query(ctx, "globalData", globalDataQuery, nil, &data); err != nil {
		return nil, err
	}
	if data.UserStatus == nil || !data.UserStatus.IsSignedIn {
		return nil, ErrNotAuthenticated
	}

	return &models.UserStatus{
		Username:   data.UserStatus.Username,
		IsSignedIn: data.UserStatus.IsSignedIn,
	}, nil
}

// SubmissionPage fetches one page of accepted submissions, newest first
func (c *Client) SubmissionPage(ctx context.Context, offset, limit int) ([]models.SubmissionSummary, error) {
	var data struct {
		SubmissionList *struct {
			HasNext     bool             `json:"hasNext"`
			Submissions []wireSubmission `json:"submissions"`
		} `json:"submissionList"`
	}

	vars := map[string]any{
		"offset": offset,
		"limit":  limit,
		"status": StatusAccepted,
	}
	if err := c.query(ctx, "submissionList", submissionListQuery, vars, &data); err != nil {
		return nil, err
	}
	if data.SubmissionList == nil {
		return nil, fmt.Errorf("failed to fetch submissions: %w", ErrNotAuthenticated)
	}

	summaries := make([]models.SubmissionSummary, 0, len(data.SubmissionList.Submissions))
	for _, sub := range data.SubmissionList.Submissions {
		summary, err := sub.summary()
		if err != nil {
			return nil, fmt.Errorf("failed to decode submission %s: %w", sub.ID, err)
		}
		summaries = append(summaries, summary)
	}
	return summaries, nil
}

// SubmissionDetail fetches code and problem metadata for one submission
func (c *Client) SubmissionDetail(ctx context.Context, id string) (*models.SubmissionDetail, error) {
	submissionID, err := strconv.Atoi(id)
	if err != nil {
		return nil, fmt.Errorf("invalid submission id %q: %w", id, err)
	}

	var data struct {
		SubmissionDetails *wireDetail `json:"submissionDetails"`
	}

	vars := map[string]any{"submissionId": submissionID}
	if err := c.query(ctx, "submissionDetails", submissionDetailsQuery, vars, &data); err != nil {
		return nil, err
	}
	if data.SubmissionDetails == nil || data.SubmissionDetails.Question == nil {
		return nil, fmt.Errorf("submission %s: %w", id, ErrNoDetail)
	}

	return data.SubmissionDetails.detail(), nil
}

type graphQLRequest struct {
	OperationName string         `json:"operationName"`
	Query         string         `json:"query"`
	Variables     map[string]any `json:"variables,omitempty"`
}

type graphQLError struct {
	Message string `json:"message"`
}

type graphQLResponse struct {
	Data   json.RawMessage `json:"data"`
	Errors []graphQLError  `json:"errors"`
}

// query posts a named GraphQL operation and decodes its data field into out
func (c *Client) query(ctx context.Context, operation, query string, vars map[string]any, out any) error {
	body, err := json.Marshal(graphQLRequest{
		OperationName: operation,
		Query:         query,
		Variables:     vars,
	})
	if err != nil {
		return fmt.Errorf("failed to encode %s request: %w", operation, err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/graphql", bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("failed to build %s request: %w", operation, err)
	}
	c.authorize(req)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("failed to query %s: %w", operation, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		snippet, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return fmt.Errorf("%s: %w %d: %s", operation, ErrUnexpectedStatus, resp.StatusCode, strings.TrimSpace(string(snippet)))
	}

	var envelope graphQLResponse
	if err := json.NewDecoder(resp.Body).Decode(&envelope); err != nil {
		return fmt.Errorf("failed to decode %s response: %w", operation, err)
	}
	if len(envelope.Errors) > 0 {
		messages := make([]string, len(envelope.Errors))
		for i, e := range envelope.Errors {
			messages[i] = e.Message
		}
		return fmt.Errorf("%s failed: %s", operation, strings.Join(messages, "; "))
	}
	if len(envelope.Data) == 0 || string(envelope.Data) == "null" {
		return fmt.Errorf("%s returned no data", operation)
	}

	if err := json.Unmarshal(envelope.Data, out); err != nil {
		return fmt.Errorf("failed to decode %s payload: %w", operation, err)
	}
	return nil
}

func (c *Client) authorize(req *http.Request) {
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Referer", c.baseURL)
	req.Header.Set("Origin", c.baseURL)
	req.Header.Set("User-Agent", userAgent)

	req.AddCookie(&http.Cookie{Name: "LEETCODE_SESSION", Value: c.session})
	if c.csrfToken != "" {
		req.AddCookie(&http.Cookie{Name: "csrftoken", Value: c.csrfToken})
		req.Header.Set("x-csrftoken", c.csrfToken)
	}
}
