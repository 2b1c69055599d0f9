package leetcode

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

// mockServer dispatches GraphQL operations to canned JSON payloads
type mockServer struct {
	t         *testing.T
	responses map[string]string
	requests  []graphQLRequest
	cookies   map[string]string
	csrf      string
}

func newMockServer(t *testing.T, responses map[string]string) (*mockServer, *httptest.Server) {
	m := &mockServer{t: t, responses: responses, cookies: map[string]string{}}
	server := httptest.NewServer(http.HandlerFunc(m.handle))
	t.Cleanup(server.Close)
	return m, server
}

func (m *mockServer) handle(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path != "/graphql" || r.Method != http.MethodPost {
		w.WriteHeader(http.StatusNotFound)
		return
	}

	var req graphQLRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		m.t.Errorf("failed to decode request: %v", err)
		w.WriteHeader(http.StatusBadRequest)
		return
	}
	m.requests = append(m.requests, req)
	for _, c := range r.Cookies() {
		m.cookies[c.Name] = c.Value
	}
	m.csrf = r.Header.Get("x-csrftoken")

	body, ok := m.responses[req.OperationName]
	if !ok {
		w.WriteHeader(http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.Write([]byte(body))
}

func TestProfile(t *testing.T) {
	tests := []struct {
		name     string
		response string
		wantUser string
		wantErr  error
	}{
		{
			name:     "signed in",
			response: `{"data":{"userStatus":{"username":"alice","isSignedIn":true}}}`,
			wantUser: "alice",
		},
		{
			name:     "signed out",
			response: `{"data":{"userStatus":{"username":"","isSignedIn":false}}}`,
			wantErr:  ErrNotAuthenticated,
		},
		{
			name:     "missing user status",
			response: `{"data":{"userStatus":null}}`,
			wantErr:  ErrNotAuthenticated,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mock, server := newMockServer(t, map[string]string{"globalData": tt.response})
			client := NewClient(server.URL, "session-value", "csrf-value")

			user, err := client.Profile(context.Background())
			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Fatalf("expected %v, got %v", tt.wantErr, err)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if user.Username != tt.wantUser {
				t.Errorf("expected user %s, got %s", tt.wantUser, user.Username)
			}
			if mock.cookies["LEETCODE_SESSION"] != "session-value" {
				t.Errorf("session cookie not sent: %v", mock.cookies)
			}
			if mock.cookies["csrftoken"] != "csrf-value" || mock.csrf != "csrf-value" {
				t.Errorf("csrf token not sent: cookie=%q header=%q", mock.cookies["csrftoken"], mock.csrf)
			}
		})
	}
}

func TestSubmissionPage(t *testing.T) {
	mock, server := newMockServer(t, map[string]string{
		"submissionList": `{"data":{"submissionList":{"hasNext":false,"submissions":[
			{"id":"1001","title":"Two Sum","titleSlug":"two-sum","status":10,"statusDisplay":"Accepted","lang":"python3","langName":"Python3","runtime":"40 ms","timestamp":"1700000000","memory":"14.2 MB"},
			{"id":1002,"title":"Add Strings","titleSlug":"add-strings","status":"10","statusDisplay":"Accepted","lang":"cpp","langName":"C++","runtime":"0 ms","timestamp":1700000100,"memory":"8 MB"}
		]}}}`,
	})
	client := NewClient(server.URL, "s", "")

	subs, err := client.SubmissionPage(context.Background(), 20, 10)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(subs) != 2 {
		t.Fatalf("expected 2 submissions, got %d", len(subs))
	}

	first := subs[0]
	if first.ID != "1001" || first.ProblemSlug != "two-sum" || first.Language != "python3" {
		t.Errorf("unexpected first submission: %+v", first)
	}
	if first.StatusCode != 10 {
		t.Errorf("expected status 10, got %d", first.StatusCode)
	}
	if !first.Timestamp.Equal(time.Unix(1700000000, 0)) {
		t.Errorf("unexpected timestamp: %v", first.Timestamp)
	}
	if subs[1].ID != "1002" || subs[1].StatusCode != 10 {
		t.Errorf("numeric fields not decoded: %+v", subs[1])
	}

	vars := mock.requests[0].Variables
	if vars["offset"] != float64(20) || vars["limit"] != float64(10) || vars["status"] != float64(StatusAccepted) {
		t.Errorf("unexpected variables: %v", vars)
	}
	if mock.csrf != "" {
		t.Errorf("csrf header should be omitted when no token is configured")
	}
}

func TestSubmissionPageErrors(t *testing.T) {
	tests := []struct {
		name      string
		responses map[string]string
		wantErr   error
	}{
		{
			name:      "http failure",
			responses: map[string]string{},
			wantErr:   ErrUnexpectedStatus,
		},
		{
			name:      "signed out returns null list",
			responses: map[string]string{"submissionList": `{"data":{"submissionList":null}}`},
			wantErr:   ErrNotAuthenticated,
		},
		{
			name:      "graphql errors",
			responses: map[string]string{"submissionList": `{"data":null,"errors":[{"message":"rate limited"}]}`},
		},
		{
			name:      "malformed json",
			responses: map[string]string{"submissionList": `{"data":`},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, server := newMockServer(t, tt.responses)
			client := NewClient(server.URL, "s", "")

			subs, err := client.SubmissionPage(context.Background(), 0, 20)
			if err == nil {
				t.Fatal("expected error but got none")
			}
			if tt.wantErr != nil && !errors.Is(err, tt.wantErr) {
				t.Errorf("expected %v, got %v", tt.wantErr, err)
			}
			if subs != nil {
				t.Errorf("expected no submissions on error, got %d", len(subs))
			}
		})
	}
}

func TestSubmissionDetail(t *testing.T) {
	mock, server := newMockServer(t, map[string]string{
		"submissionDetails": `{"data":{"submissionDetails":{
			"code":"class Solution {};",
			"timestamp":1700000000,
			"statusDisplay":"Accepted",
			"lang":{"name":"cpp","verboseName":"C++"},
			"question":{"questionId":"151","questionFrontendId":"151","title":"Reverse Words in a String","titleSlug":"reverse-words-in-a-string","difficulty":"Medium","topicTags":[{"name":"Two Pointers"},{"name":"String"}]}
		}}}`,
	})
	client := NewClient(server.URL, "s", "")

	detail, err := client.SubmissionDetail(context.Background(), "987654")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if detail.ProblemID != "151" || detail.Language != "cpp" || detail.Difficulty != "Medium" {
		t.Errorf("unexpected detail: %+v", detail)
	}
	if len(detail.Topics) != 2 || detail.Topics[0] != "Two Pointers" {
		t.Errorf("unexpected topics: %v", detail.Topics)
	}
	if mock.requests[0].Variables["submissionId"] != float64(987654) {
		t.Errorf("submission id should be sent as a number: %v", mock.requests[0].Variables)
	}
}

func TestSubmissionDetailPrefersFrontendID(t *testing.T) {
	_, server := newMockServer(t, map[string]string{
		"submissionDetails": `{"data":{"submissionDetails":{"code":"x","lang":{"name":"go"},
			"question":{"questionId":"3310","questionFrontendId":"3200","title":"T","titleSlug":"t","difficulty":"Easy","topicTags":[]}}}}`,
	})
	client := NewClient(server.URL, "s", "")

	detail, err := client.SubmissionDetail(context.Background(), "1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if detail.ProblemID != "3200" {
		t.Errorf("expected frontend id 3200, got %s", detail.ProblemID)
	}
}

func TestSubmissionDetailAbsent(t *testing.T) {
	tests := []struct {
		name     string
		id       string
		response string
		wantErr  error
	}{
		{name: "null detail", id: "1", response: `{"data":{"submissionDetails":null}}`, wantErr: ErrNoDetail},
		{name: "missing question", id: "1", response: `{"data":{"submissionDetails":{"code":"x"}}}`, wantErr: ErrNoDetail},
		{name: "non numeric id", id: "abc", response: `{}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, server := newMockServer(t, map[string]string{"submissionDetails": tt.response})
			client := NewClient(server.URL, "s", "")

			detail, err := client.SubmissionDetail(context.Background(), tt.id)
			if err == nil {
				t.Fatal("expected error but got none")
			}
			if detail != nil {
				t.Errorf("expected nil detail, got %+v", detail)
			}
			if tt.wantErr != nil && !errors.Is(err, tt.wantErr) {
				t.Errorf("expected %v, got %v", tt.wantErr, err)
			}
		})
	}
}

func TestNewClientDefaults(t *testing.T) {
	client := NewClient("", "s", "")
	if client.baseURL != DefaultBaseURL {
		t.Errorf("expected default base url, got %s", client.baseURL)
	}

	client = NewClient("https://leetcode.cn/", "s", "")
	if client.baseURL != "https://leetcode.cn" {
		t.Errorf("expected trailing slash trimmed, got %s", client.baseURL)
	}
}
