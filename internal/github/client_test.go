package github

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
)

func newTestClient(t *testing.T, handler http.Handler) (*Client, *httptest.Server) {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	client := NewClient("test-token", Options{
		BaseURL:    srv.URL,
		GraphQLURL: srv.URL + "/graphql",
	})
	return client, srv
}

func TestRepositories(t *testing.T) {
	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/user/repos" {
			t.Errorf("unexpected path %q", r.URL.Path)
		}
		if got := r.Header.Get("Authorization"); got != "token test-token" {
			t.Errorf("unexpected auth header %q", got)
		}
		if got := r.URL.Query().Get("affiliation"); got != "owner" {
			t.Errorf("unexpected affiliation %q", got)
		}
		json.NewEncoder(w).Encode([]map[string]any{
			{"name": "alpha", "stargazers_count": 3, "private": false},
			{"name": "beta", "stargazers_count": 1, "private": true},
		})
	}))

	repos, err := client.Repositories(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	if len(repos) != 2 {
		t.Fatalf("got %d repos, want 2", len(repos))
	}
	if repos[0].Name != "alpha" || repos[0].Stars != 3 {
		t.Errorf("unexpected first repo: %+v", repos[0])
	}
	if !repos[1].Private {
		t.Error("expected second repo to be private")
	}
}

func TestProfile_NotFound(t *testing.T) {
	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))

	if _, err := client.Profile(context.Background(), "ghost"); err == nil {
		t.Fatal("expected error for 404 response")
	}
}

func TestIssues_SearchQuery(t *testing.T) {
	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/search/issues" {
			t.Errorf("unexpected path %q", r.URL.Path)
		}
		if got := r.URL.Query().Get("q"); got != "author:octocat is:issue" {
			t.Errorf("unexpected query %q", got)
		}
		json.NewEncoder(w).Encode(map[string]any{
			"total_count": 1,
			"items": []map[string]any{
				{"id": 9, "number": 4, "title": "bug", "state": "open", "repository_url": "https://api.github.com/repos/octocat/hello"},
			},
		})
	}))

	issues, err := client.Issues(context.Background(), "octocat", 1, 20)
	if err != nil {
		t.Fatal(err)
	}
	if len(issues) != 1 {
		t.Fatalf("got %d issues, want 1", len(issues))
	}
	if got := issues[0].RepoName(); got != "hello" {
		t.Errorf("RepoName() = %q, want %q", got, "hello")
	}
}

func TestContributions(t *testing.T) {
	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/graphql" {
			t.Errorf("unexpected path %q", r.URL.Path)
		}
		if got := r.Header.Get("Authorization"); got != "bearer test-token" {
			t.Errorf("unexpected auth header %q", got)
		}
		var req struct {
			Variables map[string]string `json:"variables"`
		}
		json.NewDecoder(r.Body).Decode(&req)
		if req.Variables["username"] != "octocat" {
			t.Errorf("unexpected username variable %q", req.Variables["username"])
		}
		w.Write([]byte(`{"data":{"user":{"contributionsCollection":{"contributionCalendar":{
			"totalContributions":42,
			"weeks":[{"contributionDays":[{"date":"2025-01-06","contributionCount":7,"color":"#216e39"}]}]
		}}}}}`))
	}))

	calendar, err := client.Contributions(context.Background(), "octocat")
	if err != nil {
		t.Fatal(err)
	}
	if calendar.TotalContributions != 42 {
		t.Errorf("got %d total contributions, want 42", calendar.TotalContributions)
	}
	if len(calendar.Weeks) != 1 || calendar.Weeks[0].ContributionDays[0].ContributionCount != 7 {
		t.Errorf("unexpected weeks payload: %+v", calendar.Weeks)
	}
}

func TestContributions_GraphQLError(t *testing.T) {
	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"errors":[{"message":"Could not resolve to a User"}]}`))
	}))

	if _, err := client.Contributions(context.Background(), "ghost"); err == nil {
		t.Fatal("expected error for GraphQL error payload")
	}
}

func TestRepoName_Empty(t *testing.T) {
	var issue Issue
	if got := issue.RepoName(); got != "" {
		t.Errorf("RepoName() = %q, want empty", got)
	}
}
