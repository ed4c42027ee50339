package github

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"time"

	"github.com/devmetrics/gitpulse/pkg/httpclient"
)

const (
	defaultTimeout     = 10 * time.Second
	defaultMaxFailures = 5
	defaultCBInterval  = 30 * time.Second
)

// Options configures the endpoints and transport of a Client.
type Options struct {
	BaseURL    string
	GraphQLURL string
	Timeout    time.Duration
}

// Client talks to the GitHub REST and GraphQL APIs on behalf of one user.
// The bearer token is fixed at construction; the share path builds a fresh
// Client per request with the share owner's stored token.
type Client struct {
	token      string
	baseURL    string
	graphqlURL string
	http       *httpclient.Client
}

func NewClient(token string, opts Options) *Client {
	if opts.BaseURL == "" {
		opts.BaseURL = "https://api.github.com"
	}
	if opts.GraphQLURL == "" {
		opts.GraphQLURL = opts.BaseURL + "/graphql"
	}
	if opts.Timeout <= 0 {
		opts.Timeout = defaultTimeout
	}

	return &Client{
		token:      token,
		baseURL:    opts.BaseURL,
		graphqlURL: opts.GraphQLURL,
		http:       httpclient.NewClient(opts.Timeout, defaultMaxFailures, defaultCBInterval),
	}
}

func (c *Client) restHeaders() map[string]string {
	return map[string]string{
		"Authorization": "token " + c.token,
		"Accept":        "application/vnd.github.v3+json",
	}
}

// Repositories lists the repositories owned by the authenticated user,
// including private ones, most recently updated first.
func (c *Client) Repositories(ctx context.Context) ([]Repository, error) {
	params := map[string]string{
		"per_page":    "100",
		"sort":        "updated",
		"direction":   "desc",
		"affiliation": "owner",
	}

	var repos []Repository
	if err := c.getJSON(ctx, c.baseURL+"/user/repos", params, &repos); err != nil {
		return nil, fmt.Errorf("github: listing repositories: %w", err)
	}
	return repos, nil
}

// Profile fetches the public profile of username.
func (c *Client) Profile(ctx context.Context, username string) (*User, error) {
	var user User
	if err := c.getJSON(ctx, c.baseURL+"/users/"+username, nil, &user); err != nil {
		return nil, fmt.Errorf("github: fetching profile %q: %w", username, err)
	}
	return &user, nil
}

type searchResult[T any] struct {
	TotalCount int `json:"total_count"`
	Items      []T `json:"items"`
}

// RecentCommits searches commits authored by username, newest first.
func (c *Client) RecentCommits(ctx context.Context, username string, page, perPage int) ([]Commit, error) {
	params := searchParams("author:"+username, page, perPage)
	params["sort"] = "committer-date"

	var result searchResult[Commit]
	if err := c.getJSON(ctx, c.baseURL+"/search/commits", params, &result); err != nil {
		return nil, fmt.Errorf("github: searching commits for %q: %w", username, err)
	}
	return result.Items, nil
}

// Issues searches issues authored by username, most recently updated first.
func (c *Client) Issues(ctx context.Context, username string, page, perPage int) ([]Issue, error) {
	params := searchParams(fmt.Sprintf("author:%s is:issue", username), page, perPage)
	params["sort"] = "updated"

	var result searchResult[Issue]
	if err := c.getJSON(ctx, c.baseURL+"/search/issues", params, &result); err != nil {
		return nil, fmt.Errorf("github: searching issues for %q: %w", username, err)
	}
	return result.Items, nil
}

// PullRequests searches pull requests authored by username, most recently
// updated first.
func (c *Client) PullRequests(ctx context.Context, username string, page, perPage int) ([]PullRequest, error) {
	params := searchParams(fmt.Sprintf("author:%s is:pr", username), page, perPage)
	params["sort"] = "updated"

	var result searchResult[PullRequest]
	if err := c.getJSON(ctx, c.baseURL+"/search/issues", params, &result); err != nil {
		return nil, fmt.Errorf("github: searching pull requests for %q: %w", username, err)
	}
	return result.Items, nil
}

const contributionsQuery = `
query($username: String!) {
  user(login: $username) {
    contributionsCollection {
      contributionCalendar {
        totalContributions
        weeks {
          contributionDays {
            date
            contributionCount
            color
          }
        }
      }
    }
  }
}`

// Contributions fetches the contribution calendar of username via GraphQL.
func (c *Client) Contributions(ctx context.Context, username string) (*ContributionCalendar, error) {
	body := map[string]any{
		"query":     contributionsQuery,
		"variables": map[string]string{"username": username},
	}
	headers := map[string]string{
		"Authorization": "bearer " + c.token,
	}

	resp, err := c.http.Post(ctx, c.graphqlURL, body, headers)
	if err != nil {
		return nil, fmt.Errorf("github: contribution query for %q: %w", username, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("github: contribution query for %q: status %s", username, resp.Status)
	}

	var payload struct {
		Data struct {
			User struct {
				ContributionsCollection struct {
					ContributionCalendar ContributionCalendar `json:"contributionCalendar"`
				} `json:"contributionsCollection"`
			} `json:"user"`
		} `json:"data"`
		Errors []struct {
			Message string `json:"message"`
		} `json:"errors"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return nil, fmt.Errorf("github: decoding contribution calendar: %w", err)
	}
	if len(payload.Errors) > 0 {
		return nil, fmt.Errorf("github: contribution query for %q: %s", username, payload.Errors[0].Message)
	}

	calendar := payload.Data.User.ContributionsCollection.ContributionCalendar
	return &calendar, nil
}

func (c *Client) getJSON(ctx context.Context, url string, params map[string]string, out any) error {
	resp, err := c.http.Get(ctx, url, params, c.restHeaders())
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		// Drain so the connection can be reused.
		_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, 4096))
		return fmt.Errorf("status %s", resp.Status)
	}

	return json.NewDecoder(resp.Body).Decode(out)
}

func searchParams(query string, page, perPage int) map[string]string {
	if page <= 0 {
		page = 1
	}
	if perPage <= 0 {
		perPage = 30
	}
	return map[string]string{
		"q":        query,
		"page":     strconv.Itoa(page),
		"per_page": strconv.Itoa(perPage),
		"order":    "desc",
	}
}
