package cmd

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strconv"
	"testing"

	"github.com/pders01/leetsync/internal/config"
	"github.com/pders01/leetsync/internal/testutil"
	"github.com/spf13/viper"
)

// setupConfig points the global viper at a temporary home and repo
func setupConfig(t *testing.T, settings map[string]any) string {
	t.Helper()

	home := t.TempDir()
	t.Setenv("HOME", home)
	testutil.SetGitIdentity(t)

	viper.Reset()
	t.Cleanup(viper.Reset)
	config.SetDefaults(viper.GetViper())

	repoPath := filepath.Join(home, "solutions")
	viper.Set("repo_path", repoPath)
	viper.Set("history.path", filepath.Join(home, "history.db"))
	viper.Set("page_delay_ms", 0)
	viper.Set("record_delay_ms", 0)
	for k, v := range settings {
		viper.Set(k, v)
	}

	cfgFile = ""
	verbose = false
	return repoPath
}

type fakeSubmission struct {
	ID         string
	Title      string
	Slug       string
	Lang       string
	ProblemID  string
	Difficulty string
	Code       string
}

var fakeSubmissions = []fakeSubmission{
	{ID: "101", Title: "Two Sum", Slug: "two-sum", Lang: "python3", ProblemID: "1", Difficulty: "Easy", Code: "class Solution:\n    pass"},
	{ID: "102", Title: "Median of Two Sorted Arrays", Slug: "median-of-two-sorted-arrays", Lang: "cpp", ProblemID: "4", Difficulty: "Hard", Code: "class Solution {};"},
	{ID: "103", Title: "Two Sum", Slug: "two-sum", Lang: "go", ProblemID: "1", Difficulty: "Easy", Code: "package main"},
}

// newLeetCodeServer serves the three GraphQL operations leetsync uses
func newLeetCodeServer(t *testing.T, signedIn bool) *httptest.Server {
	t.Helper()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var req struct {
			OperationName string         `json:"operationName"`
			Variables     map[string]any `json:"variables"`
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}

		var data any
		switch req.OperationName {
		case "globalData":
			data = map[string]any{"userStatus": map[string]any{"username": "alice", "isSignedIn": signedIn}}
		case "submissionList":
			subs := []map[string]any{}
			if offset, _ := req.Variables["offset"].(float64); offset == 0 {
				for _, s := range fakeSubmissions {
					subs = append(subs, map[string]any{
						"id": s.ID, "title": s.Title, "titleSlug": s.Slug, "status": 10,
						"statusDisplay": "Accepted", "lang": s.Lang, "langName": s.Lang,
						"runtime": "1 ms", "timestamp": "1760000000", "memory": "10 MB",
					})
				}
			}
			data = map[string]any{"submissionList": map[string]any{"hasNext": false, "submissions": subs}}
		case "submissionDetails":
			id, _ := req.Variables["submissionId"].(float64)
			for _, s := range fakeSubmissions {
				if s.ID == strconv.Itoa(int(id)) {
					data = map[string]any{"submissionDetails": map[string]any{
						"code": s.Code,
						"lang": map[string]any{"name": s.Lang, "verboseName": s.Lang},
						"question": map[string]any{
							"questionId": s.ProblemID, "questionFrontendId": s.ProblemID,
							"title": s.Title, "titleSlug": s.Slug, "difficulty": s.Difficulty,
							"topicTags": []map[string]any{{"name": "Array"}},
						},
					}}
				}
			}
			if data == nil {
				data = map[string]any{"submissionDetails": nil}
			}
		default:
			http.Error(w, "unknown operation", http.StatusBadRequest)
			return
		}

		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(map[string]any{"data": data})
	}))
	t.Cleanup(srv.Close)
	return srv
}
