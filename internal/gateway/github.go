// Package gateway provides a gateway to the GitHub REST API, abstracting
// away the underlying client, auth transport and response cache.
package gateway

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/google/go-github/v62/github"
	"golang.org/x/oauth2"

	"github.com/gofri/go-github-ratelimit/github_ratelimit"

	"github.com/takeru-oka/repo-health/internal/cache"
	"github.com/takeru-oka/repo-health/internal/domain"
)

// userAgent identifies this client to the GitHub API.
const userAgent = "GitHub-Health-Dashboard"

// perPage is the single page size used everywhere; the dashboard never
// paginates past the first page.
const perPage = 100

// Fetcher defines the behavior of a gateway for fetching repository health
// data from GitHub. Every method is a single attempt with no retries;
// callers must tolerate errors at every call site.
type Fetcher interface {
	FetchRepository(ctx context.Context, repo domain.Repository) (*domain.RepositoryInfo, error)
	SearchIssues(ctx context.Context, query string) (*domain.IssueSearch, error)
	FetchCommitsSince(ctx context.Context, repo domain.Repository, since time.Time) ([]domain.Commit, error)
	FetchContributors(ctx context.Context, repo domain.Repository) ([]domain.Contributor, error)
	FetchCommunityProfile(ctx context.Context, repo domain.Repository) (*domain.CommunityProfile, error)
}

// GitHubGateway is the concrete implementation of the Fetcher interface.
// All GET responses flow through the cache transport, so repeated queries
// within the cache TTL never reach the network.
type GitHubGateway struct {
	client *github.Client
	logger *slog.Logger
}

// NewGitHubGateway builds the transport stack: cache -> (optional) oauth2
// token -> secondary-rate-limit waiter -> default transport. An empty token
// leaves requests unauthenticated, subject to tighter upstream rate limits.
func NewGitHubGateway(token string, store cache.Store, timeout time.Duration, logger *slog.Logger) (Fetcher, error) {
	rateLimitWaiter, err := github_ratelimit.NewRateLimitWaiter(nil, github_ratelimit.WithSingleSleepLimit(1*time.Hour, nil))
	if err != nil {
		return nil, fmt.Errorf("failed to create rate limit waiter: %w", err)
	}

	var next http.RoundTripper = rateLimitWaiter
	if token != "" {
		next = &oauth2.Transport{
			Base:   rateLimitWaiter,
			Source: oauth2.StaticTokenSource(&oauth2.Token{AccessToken: token}),
		}
	}

	httpClient := &http.Client{
		Transport: &cache.Transport{Store: store, Next: next, Logger: logger},
		Timeout:   timeout,
	}

	client := github.NewClient(httpClient)
	client.UserAgent = userAgent

	return &GitHubGateway{client: client, logger: logger}, nil
}

func (g *GitHubGateway) FetchRepository(ctx context.Context, repo domain.Repository) (*domain.RepositoryInfo, error) {
	r, _, err := g.client.Repositories.Get(ctx, repo.Owner, repo.Name)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch repository %s: %w", repo.FullName(), err)
	}
	return &domain.RepositoryInfo{
		FullName:    r.GetFullName(),
		Description: r.GetDescription(),
		Stars:       r.GetStargazersCount(),
		Forks:       r.GetForksCount(),
		OpenIssues:  r.GetOpenIssuesCount(),
	}, nil
}

// SearchIssues runs an issue/PR search and returns the first page of items
// along with the server-side total count.
func (g *GitHubGateway) SearchIssues(ctx context.Context, query string) (*domain.IssueSearch, error) {
	opts := &github.SearchOptions{
		Sort:        "updated",
		Order:       "desc",
		ListOptions: github.ListOptions{PerPage: perPage},
	}
	result, _, err := g.client.Search.Issues(ctx, query, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to search issues (%q): %w", query, err)
	}

	search := &domain.IssueSearch{
		TotalCount: result.GetTotal(),
		Items:      make([]domain.IssueItem, 0, len(result.Issues)),
	}
	for _, issue := range result.Issues {
		item := domain.IssueItem{CreatedAt: issue.GetCreatedAt().Time}
		if issue.ClosedAt != nil {
			closed := issue.ClosedAt.Time
			item.ClosedAt = &closed
		}
		search.Items = append(search.Items, item)
	}
	return search, nil
}

func (g *GitHubGateway) FetchCommitsSince(ctx context.Context, repo domain.Repository, since time.Time) ([]domain.Commit, error) {
	opts := &github.CommitsListOptions{
		Since:       since,
		ListOptions: github.ListOptions{PerPage: perPage},
	}
	commits, _, err := g.client.Repositories.ListCommits(ctx, repo.Owner, repo.Name, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to list commits for %s: %w", repo.FullName(), err)
	}

	out := make([]domain.Commit, 0, len(commits))
	for _, c := range commits {
		if c == nil {
			continue
		}
		out = append(out, domain.Commit{
			AuthorLogin: c.GetAuthor().GetLogin(),
			AuthoredAt:  c.GetCommit().GetAuthor().GetDate().Time,
		})
	}
	return out, nil
}

func (g *GitHubGateway) FetchContributors(ctx context.Context, repo domain.Repository) ([]domain.Contributor, error) {
	opts := &github.ListContributorsOptions{
		ListOptions: github.ListOptions{PerPage: perPage},
	}
	contributors, _, err := g.client.Repositories.ListContributors(ctx, repo.Owner, repo.Name, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to list contributors for %s: %w", repo.FullName(), err)
	}

	out := make([]domain.Contributor, 0, len(contributors))
	for _, c := range contributors {
		if c == nil {
			continue
		}
		out = append(out, domain.Contributor{
			Username:      c.GetLogin(),
			Contributions: c.GetContributions(),
		})
	}
	return out, nil
}

func (g *GitHubGateway) FetchCommunityProfile(ctx context.Context, repo domain.Repository) (*domain.CommunityProfile, error) {
	metrics, _, err := g.client.Repositories.GetCommunityHealthMetrics(ctx, repo.Owner, repo.Name)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch community profile for %s: %w", repo.FullName(), err)
	}

	profile := &domain.CommunityProfile{
		HealthPercentage: metrics.GetHealthPercentage(),
		Files:            make(map[string]bool),
	}
	if files := metrics.GetFiles(); files != nil {
		profile.Files["readme"] = files.Readme != nil
		profile.Files["license"] = files.License != nil
		profile.Files["contributing"] = files.Contributing != nil
		profile.Files["code_of_conduct"] = files.CodeOfConduct != nil
		profile.Files["issue_template"] = files.IssueTemplate != nil
		profile.Files["pull_request_template"] = files.PullRequestTemplate != nil
	}
	return profile, nil
}
