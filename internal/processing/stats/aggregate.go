package stats

import (
	"context"
	"fmt"
	"math"
	"sort"
	"sync"
	"time"

	"github.com/devmetrics/gitpulse/internal/github"
	"github.com/devmetrics/gitpulse/internal/infrastructure/logger"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// Fetcher is the GitHub client contract consumed by the engine. A fresh
// Fetcher is built per aggregation with the owner's token.
type Fetcher interface {
	Repositories(ctx context.Context) ([]github.Repository, error)
	Profile(ctx context.Context, username string) (*github.User, error)
	RecentCommits(ctx context.Context, username string, page, perPage int) ([]github.Commit, error)
	Issues(ctx context.Context, username string, page, perPage int) ([]github.Issue, error)
	PullRequests(ctx context.Context, username string, page, perPage int) ([]github.PullRequest, error)
	Contributions(ctx context.Context, username string) (*github.ContributionCalendar, error)
}

// ClientFactory builds a Fetcher bound to the given GitHub token.
type ClientFactory func(token string) Fetcher

const (
	topLanguagesLimit  = 5
	topTopicsLimit     = 8
	topCategoriesLimit = 8
	topReposLimit      = 5
	weeklySeriesWeeks  = 12
)

// Fixed ratios used to split a contribution total into commit/issue/PR
// sub-counts for chart series. An approximation, not measured truth.
const (
	commitRatio = 0.7
	issueRatio  = 0.2
	prRatio     = 0.1
)

// Engine turns raw GitHub API responses into the dashboard-shaped variant
// payloads. All methods are side-effect free apart from upstream fetches.
type Engine struct {
	clients ClientFactory
	now     func() time.Time
}

func NewEngine(clients ClientFactory) *Engine {
	return &Engine{clients: clients, now: time.Now}
}

// Aggregate runs the variant selected by kind with the owner's token.
// showPrivate widens the repository set to include private repositories and
// attaches the aggregate-only private stats block.
func (e *Engine) Aggregate(ctx context.Context, token, username string, kind Kind, showPrivate bool) (Aggregate, error) {
	f := e.clients(token)

	switch kind {
	case KindDashboard:
		return e.dashboard(ctx, f, username, showPrivate)
	case KindRepositories:
		return e.repositories(ctx, f, username, showPrivate)
	case KindContributions:
		return e.contributions(ctx, f, username, showPrivate)
	}
	return nil, fmt.Errorf("%w: %q", ErrUnknownKind, kind)
}

// dashboard fails whole on any upstream error.
func (e *Engine) dashboard(ctx context.Context, f Fetcher, username string, showPrivate bool) (*Dashboard, error) {
	var (
		repos   []github.Repository
		profile *github.User
		commits []github.Commit
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() (err error) {
		repos, err = f.Repositories(gctx)
		return err
	})
	g.Go(func() (err error) {
		profile, err = f.Profile(gctx, username)
		return err
	})
	g.Go(func() (err error) {
		commits, err = f.RecentCommits(gctx, username, 1, 20)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	visible := visibleRepos(repos, showPrivate)
	commits = redactCommits(commits, repos, showPrivate)

	langs := histogram(visible, func(r github.Repository) []string {
		if r.Language == "" {
			return nil
		}
		return []string{r.Language}
	})

	out := &Dashboard{
		TotalContributions: profile.PublicRepos,
		TotalRepositories:  len(visible),
		TotalStars:         sumRepos(visible, func(r github.Repository) int { return r.Stars }),
		TotalForks:         sumRepos(visible, func(r github.Repository) int { return r.Forks }),
		TotalWatchers:      sumRepos(visible, func(r github.Repository) int { return r.Watchers }),
		TotalSizeMB:        roundToMB(sumRepos(visible, func(r github.Repository) int { return r.Size })),
		UserProfile:        ownerProfile(profile, username),
		RepositoryStats:    breakdown(visible),
		PrivateRepoStats:   privateStats(repos, showPrivate),
		TopLanguages:       langs.topLanguages(topLanguagesLimit),
		LanguageStats:      langs.counts,
		RepoCategories:     categories(visible).topCategories(topCategoriesLimit),
		RecentActivity:     commitFeed(commits, 10, ""),
		WeeklyStats:        e.weeklyFromCommits(commits),
		TopRepositories:    topRepositories(visible, topReposLimit),
	}
	out.ActivityBreakdown = splitByRatio(out.TotalContributions)

	return out, nil
}

// repositories fails whole on any upstream error.
func (e *Engine) repositories(ctx context.Context, f Fetcher, username string, showPrivate bool) (*RepositoryList, error) {
	var (
		repos   []github.Repository
		profile *github.User
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() (err error) {
		repos, err = f.Repositories(gctx)
		return err
	})
	g.Go(func() (err error) {
		profile, err = f.Profile(gctx, username)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	visible := visibleRepos(repos, showPrivate)
	langs := histogram(visible, func(r github.Repository) []string {
		if r.Language == "" {
			return nil
		}
		return []string{r.Language}
	})

	list := make([]RepoDetail, 0, len(visible))
	for _, r := range visible {
		list = append(list, RepoDetail{
			Name:        r.Name,
			Description: r.Description,
			Stars:       r.Stars,
			Forks:       r.Forks,
			Language:    languageOrUnknown(r.Language),
			CreatedAt:   r.CreatedAt,
			UpdatedAt:   r.UpdatedAt,
			Topics:      topicsOrEmpty(r.Topics),
			Private:     r.Private,
			Fork:        r.Fork,
			Archived:    r.Archived,
			Disabled:    r.Disabled,
			SizeKB:      r.Size,
			Watchers:    r.Watchers,
			OpenIssues:  r.OpenIssues,
			HTMLURL:     r.HTMLURL,
		})
	}

	return &RepositoryList{
		UserProfile:       ownerProfile(profile, username),
		TotalRepositories: len(visible),
		TotalStars:        sumRepos(visible, func(r github.Repository) int { return r.Stars }),
		TotalForks:        sumRepos(visible, func(r github.Repository) int { return r.Forks }),
		TotalWatchers:     sumRepos(visible, func(r github.Repository) int { return r.Watchers }),
		TotalSizeMB:       roundToMB(sumRepos(visible, func(r github.Repository) int { return r.Size })),
		RepositoryStats:   breakdown(visible),
		PrivateRepoStats:  privateStats(repos, showPrivate),
		TopLanguages:      langs.topLanguages(topLanguagesLimit),
		LanguageStats:     langs.counts,
		Repositories:      list,
	}, nil
}

// contributions tolerates per-source failures: every fetch settles
// independently and a failed source degrades to its empty default.
func (e *Engine) contributions(ctx context.Context, f Fetcher, username string, showPrivate bool) (*Contributions, error) {
	var (
		wg       sync.WaitGroup
		profile  *github.User
		calendar *github.ContributionCalendar
		commits  []github.Commit
		issues   []github.Issue
		prs      []github.PullRequest
		repos    []github.Repository
		reposErr error
	)

	settle := func(name string, fetch func() error) {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if err := fetch(); err != nil {
				logger.Warn("contribution source failed, using empty default",
					zap.String("source", name),
					zap.String("username", username),
					zap.Error(err),
				)
			}
		}()
	}

	settle("profile", func() (err error) { profile, err = f.Profile(ctx, username); return })
	settle("calendar", func() (err error) { calendar, err = f.Contributions(ctx, username); return })
	settle("commits", func() (err error) { commits, err = f.RecentCommits(ctx, username, 1, 30); return })
	settle("issues", func() (err error) { issues, err = f.Issues(ctx, username, 1, 20); return })
	settle("pull_requests", func() (err error) { prs, err = f.PullRequests(ctx, username, 1, 20); return })
	settle("repositories", func() (err error) { repos, err = f.Repositories(ctx); reposErr = err; return })
	wg.Wait()

	if calendar == nil {
		calendar = &github.ContributionCalendar{}
	}

	// Without the repository list the private-name filter cannot be built,
	// so the repo-attributed sources degrade to their empty defaults instead
	// of serving unredacted private activity.
	if !showPrivate && reposErr != nil {
		commits = nil
		issues = nil
		prs = nil
	}

	commits = redactCommits(commits, repos, showPrivate)
	issues = redactIssues(issues, repos, showPrivate)
	prs = redactIssues(prs, repos, showPrivate)

	weeks := calendar.Weeks
	if len(weeks) > weeklySeriesWeeks {
		weeks = weeks[len(weeks)-weeklySeriesWeeks:]
	}

	weekly := make([]WeeklyActivity, 0, len(weeks))
	for i, week := range weeks {
		total := 0
		for _, day := range week.ContributionDays {
			total += day.ContributionCount
		}
		entry := splitByRatio(total)
		weekly = append(weekly, WeeklyActivity{
			Week:          fmt.Sprintf("Week %d", i+1),
			Contributions: total,
			Commits:       entry.Commits,
			Issues:        entry.Issues,
			PullRequests:  entry.PullRequests,
		})
	}

	feed := commitFeed(commits, 15, "commit")
	feed = append(feed, issueFeed(issues, 10, "issue", username)...)
	feed = append(feed, issueFeed(prs, 10, "pull_request", username)...)
	sort.SliceStable(feed, func(i, j int) bool { return feed[i].Date.After(feed[j].Date) })
	if len(feed) > 20 {
		feed = feed[:20]
	}

	return &Contributions{
		UserProfile:        ownerProfile(profile, username),
		TotalContributions: calendar.TotalContributions,
		TotalCommits:       len(commits),
		TotalIssues:        len(issues),
		TotalPullRequests:  len(prs),
		ContributionData: CalendarData{
			TotalContributions: calendar.TotalContributions,
			Weeks:              weeks,
		},
		WeeklyStats:    weekly,
		RecentActivity: feed,
		ActivityBreakdown: ActivityBreakdown{
			Commits:      len(commits),
			Issues:       len(issues),
			PullRequests: len(prs),
		},
		Issues:       issueSummaries(issues),
		PullRequests: issueSummaries(prs),
	}, nil
}

// --- repository set helpers ---

func visibleRepos(repos []github.Repository, showPrivate bool) []github.Repository {
	if showPrivate {
		return repos
	}
	out := make([]github.Repository, 0, len(repos))
	for _, r := range repos {
		if !r.Private {
			out = append(out, r)
		}
	}
	return out
}

func privateNames(repos []github.Repository) map[string]struct{} {
	names := make(map[string]struct{})
	for _, r := range repos {
		if r.Private {
			names[r.Name] = struct{}{}
		}
	}
	return names
}

// redactCommits drops commits attributed to known-private repositories when
// private data is not exposed. Private repository identity must never leave
// the aggregation boundary.
func redactCommits(commits []github.Commit, repos []github.Repository, showPrivate bool) []github.Commit {
	if showPrivate {
		return commits
	}
	private := privateNames(repos)
	out := make([]github.Commit, 0, len(commits))
	for _, c := range commits {
		if _, hidden := private[c.Repository.Name]; hidden {
			continue
		}
		out = append(out, c)
	}
	return out
}

func redactIssues(issues []github.Issue, repos []github.Repository, showPrivate bool) []github.Issue {
	if showPrivate {
		return issues
	}
	private := privateNames(repos)
	out := make([]github.Issue, 0, len(issues))
	for _, is := range issues {
		if _, hidden := private[is.RepoName()]; hidden {
			continue
		}
		out = append(out, is)
	}
	return out
}

func sumRepos(repos []github.Repository, pick func(github.Repository) int) int {
	total := 0
	for _, r := range repos {
		total += pick(r)
	}
	return total
}

func breakdown(repos []github.Repository) RepositoryBreakdown {
	var b RepositoryBreakdown
	for _, r := range repos {
		if r.Private {
			b.Private++
		} else {
			b.Public++
		}
		if r.Fork {
			b.Forked++
		} else {
			b.Original++
		}
		if r.Archived {
			b.Archived++
		}
		if r.Disabled {
			b.Disabled++
		}
	}
	return b
}

func privateStats(repos []github.Repository, showPrivate bool) *PrivateRepoStats {
	if !showPrivate {
		return nil
	}

	private := make([]github.Repository, 0)
	for _, r := range repos {
		if r.Private {
			private = append(private, r)
		}
	}

	langs := histogram(private, func(r github.Repository) []string {
		if r.Language == "" {
			return nil
		}
		return []string{r.Language}
	})
	topics := histogram(private, func(r github.Repository) []string { return r.Topics })
	b := breakdown(private)

	return &PrivateRepoStats{
		Total:         len(private),
		TotalSizeMB:   roundToMB(sumRepos(private, func(r github.Repository) int { return r.Size })),
		TotalStars:    sumRepos(private, func(r github.Repository) int { return r.Stars }),
		TotalForks:    sumRepos(private, func(r github.Repository) int { return r.Forks }),
		TotalWatchers: sumRepos(private, func(r github.Repository) int { return r.Watchers }),
		Languages:     langs.topLanguages(topLanguagesLimit),
		Topics:        topics.topTopics(topTopicsLimit),
		Archived:      b.Archived,
		Disabled:      b.Disabled,
		Forked:        b.Forked,
		Original:      b.Original,
	}
}

func topRepositories(repos []github.Repository, limit int) []RepoSummary {
	sorted := make([]github.Repository, len(repos))
	copy(sorted, repos)
	sort.SliceStable(sorted, func(i, j int) bool { return sorted[i].Stars > sorted[j].Stars })
	if len(sorted) > limit {
		sorted = sorted[:limit]
	}

	out := make([]RepoSummary, 0, len(sorted))
	for _, r := range sorted {
		out = append(out, RepoSummary{
			Name:        r.Name,
			Description: r.Description,
			Stars:       r.Stars,
			Forks:       r.Forks,
			Language:    languageOrUnknown(r.Language),
			UpdatedAt:   r.UpdatedAt,
			Topics:      topicsOrEmpty(r.Topics),
			Private:     r.Private,
			Fork:        r.Fork,
		})
	}
	return out
}

// --- histograms ---

// orderedHistogram counts keys while remembering first-seen order so that
// equal counts sort deterministically by input order.
type orderedHistogram struct {
	order  []string
	counts map[string]int
}

func histogram(repos []github.Repository, keys func(github.Repository) []string) orderedHistogram {
	h := orderedHistogram{counts: make(map[string]int)}
	for _, r := range repos {
		for _, key := range keys(r) {
			if _, seen := h.counts[key]; !seen {
				h.order = append(h.order, key)
			}
			h.counts[key]++
		}
	}
	return h
}

func (h orderedHistogram) sortedDesc(limit int) []string {
	keys := make([]string, len(h.order))
	copy(keys, h.order)
	sort.SliceStable(keys, func(i, j int) bool { return h.counts[keys[i]] > h.counts[keys[j]] })
	if len(keys) > limit {
		keys = keys[:limit]
	}
	return keys
}

func (h orderedHistogram) topLanguages(limit int) []LanguageCount {
	keys := h.sortedDesc(limit)
	out := make([]LanguageCount, 0, len(keys))
	for _, k := range keys {
		out = append(out, LanguageCount{Language: k, Count: h.counts[k]})
	}
	return out
}

func (h orderedHistogram) topTopics(limit int) []TopicCount {
	keys := h.sortedDesc(limit)
	out := make([]TopicCount, 0, len(keys))
	for _, k := range keys {
		out = append(out, TopicCount{Topic: k, Count: h.counts[k]})
	}
	return out
}

func (h orderedHistogram) topCategories(limit int) []CategoryCount {
	keys := h.sortedDesc(limit)
	out := make([]CategoryCount, 0, len(keys))
	for _, k := range keys {
		out = append(out, CategoryCount{Category: k, Count: h.counts[k]})
	}
	return out
}

// categories buckets repositories by their first topic, defaulting to
// "General" for untagged repositories.
func categories(repos []github.Repository) orderedHistogram {
	return histogram(repos, func(r github.Repository) []string {
		if len(r.Topics) > 0 {
			return []string{r.Topics[0]}
		}
		return []string{"General"}
	})
}

// --- feeds and series ---

func commitFeed(commits []github.Commit, limit int, typ string) []ActivityItem {
	if len(commits) > limit {
		commits = commits[:limit]
	}
	out := make([]ActivityItem, 0, len(commits))
	for _, c := range commits {
		repo := c.Repository.Name
		if repo == "" {
			repo = "Unknown"
		}
		out = append(out, ActivityItem{
			ID:      c.SHA,
			Message: c.Commit.Message,
			Date:    c.Commit.Author.Date,
			Repo:    repo,
			Author:  c.Commit.Author.Name,
			Type:    typ,
		})
	}
	return out
}

func issueFeed(issues []github.Issue, limit int, typ, author string) []ActivityItem {
	if len(issues) > limit {
		issues = issues[:limit]
	}
	out := make([]ActivityItem, 0, len(issues))
	for _, is := range issues {
		repo := is.RepoName()
		if repo == "" {
			repo = "Unknown"
		}
		out = append(out, ActivityItem{
			ID:      fmt.Sprintf("%s-%d", typ, is.ID),
			Message: is.Title,
			Date:    is.CreatedAt,
			Repo:    repo,
			Author:  author,
			Type:    typ,
		})
	}
	return out
}

func issueSummaries(issues []github.Issue) []IssueSummary {
	out := make([]IssueSummary, 0, len(issues))
	for _, is := range issues {
		repo := is.RepoName()
		if repo == "" {
			repo = "Unknown"
		}
		out = append(out, IssueSummary{
			ID:        is.ID,
			Number:    is.Number,
			Title:     is.Title,
			State:     is.State,
			CreatedAt: is.CreatedAt,
			UpdatedAt: is.UpdatedAt,
			Repo:      repo,
			HTMLURL:   is.HTMLURL,
		})
	}
	return out
}

// weeklyFromCommits buckets commit dates into the last 12 weeks. Sub-counts
// use the fixed ratio split applied to the weekly commit totals.
func (e *Engine) weeklyFromCommits(commits []github.Commit) []WeeklyActivity {
	now := e.now().UTC()
	start := now.AddDate(0, 0, -7*weeklySeriesWeeks)

	perWeek := make([]int, weeklySeriesWeeks)
	for _, c := range commits {
		d := c.Commit.Author.Date.UTC()
		if d.Before(start) || d.After(now) {
			continue
		}
		idx := int(d.Sub(start).Hours() / (24 * 7))
		if idx >= weeklySeriesWeeks {
			idx = weeklySeriesWeeks - 1
		}
		perWeek[idx]++
	}

	out := make([]WeeklyActivity, weeklySeriesWeeks)
	for i, count := range perWeek {
		entry := splitByRatio(count)
		out[i] = WeeklyActivity{
			Week:          fmt.Sprintf("Week %d", i+1),
			Contributions: count,
			Commits:       count,
			Issues:        entry.Issues,
			PullRequests:  entry.PullRequests,
		}
	}
	return out
}

func splitByRatio(total int) ActivityBreakdown {
	return ActivityBreakdown{
		Commits:      int(math.Floor(float64(total) * commitRatio)),
		Issues:       int(math.Floor(float64(total) * issueRatio)),
		PullRequests: int(math.Floor(float64(total) * prRatio)),
	}
}

// --- misc ---

func ownerProfile(user *github.User, username string) OwnerProfile {
	if user == nil {
		return OwnerProfile{Name: username, Type: "User"}
	}

	name := user.Name
	if name == "" {
		name = username
	}
	typ := user.Type
	if typ == "" {
		typ = "User"
	}

	return OwnerProfile{
		Name:        name,
		Bio:         user.Bio,
		Location:    user.Location,
		Company:     user.Company,
		Blog:        user.Blog,
		Twitter:     user.Twitter,
		Followers:   user.Followers,
		Following:   user.Following,
		PublicGists: user.PublicGists,
		PublicRepos: user.PublicRepos,
		Hireable:    user.Hireable,
		Type:        typ,
		CreatedAt:   user.CreatedAt,
		UpdatedAt:   user.UpdatedAt,
	}
}

func languageOrUnknown(lang string) string {
	if lang == "" {
		return "Unknown"
	}
	return lang
}

func topicsOrEmpty(topics []string) []string {
	if topics == nil {
		return []string{}
	}
	return topics
}

func roundToMB(sizeKB int) int {
	return int(math.Round(float64(sizeKB) / 1024))
}
