package github

import (
	"strings"
	"time"
)

// Repository is the subset of the GitHub repository object consumed by the
// aggregation engine. GitHub returns a much larger payload; only the fields
// listed here are decoded.
type Repository struct {
	ID          int64     `json:"id"`
	Name        string    `json:"name"`
	FullName    string    `json:"full_name"`
	Description string    `json:"description"`
	HTMLURL     string    `json:"html_url"`
	Stars       int       `json:"stargazers_count"`
	Forks       int       `json:"forks_count"`
	Watchers    int       `json:"watchers_count"`
	OpenIssues  int       `json:"open_issues_count"`
	Language    string    `json:"language"`
	Size        int       `json:"size"` // KB
	Topics      []string  `json:"topics"`
	Private     bool      `json:"private"`
	Fork        bool      `json:"fork"`
	Archived    bool      `json:"archived"`
	Disabled    bool      `json:"disabled"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// User is the GitHub /users/{username} response.
type User struct {
	Login             string    `json:"login"`
	Name              string    `json:"name"`
	Bio               string    `json:"bio"`
	Location          string    `json:"location"`
	Company           string    `json:"company"`
	Blog              string    `json:"blog"`
	Twitter           string    `json:"twitter_username"`
	AvatarURL         string    `json:"avatar_url"`
	Followers         int       `json:"followers"`
	Following         int       `json:"following"`
	PublicRepos       int       `json:"public_repos"`
	PublicGists       int       `json:"public_gists"`
	TotalPrivateRepos int       `json:"total_private_repos"`
	PrivateGists      int       `json:"private_gists"`
	Hireable          bool      `json:"hireable"`
	Type              string    `json:"type"`
	CreatedAt         time.Time `json:"created_at"`
	UpdatedAt         time.Time `json:"updated_at"`
}

// Commit is one item of a commit search result.
type Commit struct {
	SHA    string `json:"sha"`
	Commit struct {
		Message string `json:"message"`
		Author  struct {
			Name string    `json:"name"`
			Date time.Time `json:"date"`
		} `json:"author"`
	} `json:"commit"`
	Repository struct {
		Name     string `json:"name"`
		FullName string `json:"full_name"`
	} `json:"repository"`
}

// Issue is one item of an issue/PR search result. The search API does not
// embed the repository object, only repository_url.
type Issue struct {
	ID            int64     `json:"id"`
	Number        int       `json:"number"`
	Title         string    `json:"title"`
	State         string    `json:"state"`
	HTMLURL       string    `json:"html_url"`
	RepositoryURL string    `json:"repository_url"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}

// RepoName derives the repository name from repository_url.
func (i Issue) RepoName() string {
	if i.RepositoryURL == "" {
		return ""
	}
	parts := strings.Split(strings.TrimRight(i.RepositoryURL, "/"), "/")
	return parts[len(parts)-1]
}

// PullRequest shares the issue search result shape.
type PullRequest = Issue

type ContributionDay struct {
	Date              string `json:"date"`
	ContributionCount int    `json:"contributionCount"`
	Color             string `json:"color"`
}

type ContributionWeek struct {
	ContributionDays []ContributionDay `json:"contributionDays"`
}

// ContributionCalendar is the contribution calendar from the GraphQL API.
type ContributionCalendar struct {
	TotalContributions int                `json:"totalContributions"`
	Weeks              []ContributionWeek `json:"weeks"`
}
