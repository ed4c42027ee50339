package stats

import (
	"errors"
	"time"

	"github.com/devmetrics/gitpulse/internal/github"
)

var ErrUnknownKind = errors.New("unknown aggregation kind")

// Kind selects the aggregation variant of a share.
type Kind string

const (
	KindDashboard     Kind = "dashboard"
	KindRepositories  Kind = "repositories"
	KindContributions Kind = "contributions"
)

func ParseKind(s string) (Kind, error) {
	switch Kind(s) {
	case KindDashboard, KindRepositories, KindContributions:
		return Kind(s), nil
	}
	return "", ErrUnknownKind
}

// Aggregate is one of the three variant payloads. Each variant carries its
// own statically-typed schema so redaction is enforced by shape, not by
// field omission.
type Aggregate interface {
	AggregateKind() Kind
}

func (*Dashboard) AggregateKind() Kind     { return KindDashboard }
func (*RepositoryList) AggregateKind() Kind { return KindRepositories }
func (*Contributions) AggregateKind() Kind { return KindContributions }

type LanguageCount struct {
	Language string `json:"language"`
	Count    int    `json:"count"`
}

type TopicCount struct {
	Topic string `json:"topic"`
	Count int    `json:"count"`
}

type CategoryCount struct {
	Category string `json:"category"`
	Count    int    `json:"count"`
}

// OwnerProfile is the public slice of the owner's GitHub profile embedded in
// every variant.
type OwnerProfile struct {
	Name        string    `json:"name"`
	Bio         string    `json:"bio"`
	Location    string    `json:"location"`
	Company     string    `json:"company"`
	Blog        string    `json:"blog"`
	Twitter     string    `json:"twitter"`
	Followers   int       `json:"followers"`
	Following   int       `json:"following"`
	PublicGists int       `json:"publicGists"`
	PublicRepos int       `json:"publicRepos"`
	Hireable    bool      `json:"hireable"`
	Type        string    `json:"type"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

// RepositoryBreakdown counts repositories of the visible set by kind.
type RepositoryBreakdown struct {
	Public   int `json:"public"`
	Private  int `json:"private"`
	Forked   int `json:"forked"`
	Original int `json:"original"`
	Archived int `json:"archived"`
	Disabled int `json:"disabled"`
}

// PrivateRepoStats aggregates the private subset without any identifying
// fields. Names, descriptions and URLs of private repositories must never
// appear here.
type PrivateRepoStats struct {
	Total         int             `json:"total"`
	TotalSizeMB   int             `json:"totalSize"`
	TotalStars    int             `json:"totalStars"`
	TotalForks    int             `json:"totalForks"`
	TotalWatchers int             `json:"totalWatchers"`
	Languages     []LanguageCount `json:"languages"`
	Topics        []TopicCount    `json:"topics"`
	Archived      int             `json:"archived"`
	Disabled      int             `json:"disabled"`
	Forked        int             `json:"forked"`
	Original      int             `json:"original"`
}

// ActivityItem is one entry of a recent-activity feed.
type ActivityItem struct {
	ID      string    `json:"id"`
	Message string    `json:"message"`
	Date    time.Time `json:"date"`
	Repo    string    `json:"repo"`
	Author  string    `json:"author"`
	Type    string    `json:"type,omitempty"`
}

// WeeklyActivity is one point of the weekly chart series. Commit, issue and
// PR sub-counts are derived from the contribution total by fixed ratios, an
// approximation rather than measured truth.
type WeeklyActivity struct {
	Week          string `json:"week"`
	Contributions int    `json:"contributions"`
	Commits       int    `json:"commits"`
	Issues        int    `json:"issues"`
	PullRequests  int    `json:"pullRequests"`
}

type ActivityBreakdown struct {
	Commits      int `json:"commits"`
	Issues       int `json:"issues"`
	PullRequests int `json:"pullRequests"`
}

// RepoSummary is a top-repositories entry (dashboard variant).
type RepoSummary struct {
	Name        string    `json:"name"`
	Description string    `json:"description"`
	Stars       int       `json:"stars"`
	Forks       int       `json:"forks"`
	Language    string    `json:"language"`
	UpdatedAt   time.Time `json:"updatedAt"`
	Topics      []string  `json:"topics"`
	Private     bool      `json:"private"`
	Fork        bool      `json:"fork"`
}

// RepoDetail is a full list entry (repositories variant). Private entries
// appear here only when the owner opted in via showPrivateRepos.
type RepoDetail struct {
	Name        string    `json:"name"`
	Description string    `json:"description"`
	Stars       int       `json:"stars"`
	Forks       int       `json:"forks"`
	Language    string    `json:"language"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
	Topics      []string  `json:"topics"`
	Private     bool      `json:"private"`
	Fork        bool      `json:"fork"`
	Archived    bool      `json:"archived"`
	Disabled    bool      `json:"disabled"`
	SizeKB      int       `json:"size"`
	Watchers    int       `json:"watchers"`
	OpenIssues  int       `json:"openIssues"`
	HTMLURL     string    `json:"htmlUrl"`
}

// IssueSummary is a trimmed issue or pull request entry.
type IssueSummary struct {
	ID        int64     `json:"id"`
	Number    int       `json:"number"`
	Title     string    `json:"title"`
	State     string    `json:"state"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
	Repo      string    `json:"repo"`
	HTMLURL   string    `json:"htmlUrl"`
}

// Dashboard is the full cross-section variant.
type Dashboard struct {
	TotalContributions int `json:"totalContributions"`
	TotalRepositories  int `json:"totalRepositories"`
	TotalStars         int `json:"totalStars"`
	TotalForks         int `json:"totalForks"`
	TotalWatchers      int `json:"totalWatchers"`
	TotalSizeMB        int `json:"totalSize"`

	UserProfile      OwnerProfile        `json:"userProfile"`
	RepositoryStats  RepositoryBreakdown `json:"repositoryStats"`
	PrivateRepoStats *PrivateRepoStats   `json:"privateRepoStats,omitempty"`

	TopLanguages   []LanguageCount `json:"topLanguages"`
	LanguageStats  map[string]int  `json:"languageStats"`
	RepoCategories []CategoryCount `json:"repoCategories"`

	RecentActivity    []ActivityItem    `json:"recentActivity"`
	WeeklyStats       []WeeklyActivity  `json:"weeklyStats"`
	ActivityBreakdown ActivityBreakdown `json:"activityBreakdown"`
	TopRepositories   []RepoSummary     `json:"topRepositories"`
}

// RepositoryList is the repository list variant.
type RepositoryList struct {
	UserProfile OwnerProfile `json:"userProfile"`

	TotalRepositories int `json:"totalRepositories"`
	TotalStars        int `json:"totalStars"`
	TotalForks        int `json:"totalForks"`
	TotalWatchers     int `json:"totalWatchers"`
	TotalSizeMB       int `json:"totalSize"`

	RepositoryStats  RepositoryBreakdown `json:"repositoryStats"`
	PrivateRepoStats *PrivateRepoStats   `json:"privateRepoStats,omitempty"`

	TopLanguages  []LanguageCount `json:"topLanguages"`
	LanguageStats map[string]int  `json:"languageStats"`

	Repositories []RepoDetail `json:"repositories"`
}

// CalendarData is the contribution calendar slice served to clients.
type CalendarData struct {
	TotalContributions int                       `json:"totalContributions"`
	Weeks              []github.ContributionWeek `json:"weeks"`
}

// Contributions is the contribution history variant.
type Contributions struct {
	UserProfile OwnerProfile `json:"userProfile"`

	TotalContributions int `json:"totalContributions"`
	TotalCommits       int `json:"totalCommits"`
	TotalIssues        int `json:"totalIssues"`
	TotalPullRequests  int `json:"totalPullRequests"`

	ContributionData CalendarData `json:"contributionData"`

	WeeklyStats       []WeeklyActivity  `json:"weeklyStats"`
	RecentActivity    []ActivityItem    `json:"recentActivity"`
	ActivityBreakdown ActivityBreakdown `json:"activityBreakdown"`

	Issues       []IssueSummary `json:"issues"`
	PullRequests []IssueSummary `json:"pullRequests"`
}
