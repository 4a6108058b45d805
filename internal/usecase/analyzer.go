// Package usecase contains the business logic of the application.
package usecase

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/takeru-oka/repo-health/internal/domain"
	"github.com/takeru-oka/repo-health/internal/gateway"
)

const dayLayout = "2006-01-02"

// Cutoffs for the activity and staleness windows, in days.
const (
	activityWindowDays = 30
	staleAfterDays     = 60
)

// Analyzer is the use case computing the health metrics document for a
// repository. It orchestrates the fan-out to the GitHub gateway and the
// reduction of each data slice into derived statistics.
type Analyzer struct {
	fetcher gateway.Fetcher
	logger  *slog.Logger
	now     func() time.Time
}

// NewAnalyzer creates a new Analyzer instance.
func NewAnalyzer(fetcher gateway.Fetcher, logger *slog.Logger) *Analyzer {
	return &Analyzer{fetcher: fetcher, logger: logger, now: time.Now}
}

// Analyze produces a complete HealthMetrics document for repo.
//
// The base repository lookup is the only fatal path: if it fails, the
// whole analysis fails with domain.ErrRepositoryUnavailable. Every other
// query degrades independently to empty data, so partial upstream
// failures still produce a best-effort document.
func (a *Analyzer) Analyze(ctx context.Context, repo domain.Repository) (*domain.HealthMetrics, error) {
	info, err := a.fetcher.FetchRepository(ctx, repo)
	if err != nil {
		a.logger.Error("base repository lookup failed", "repo", repo.FullName(), "error", err)
		return nil, fmt.Errorf("%w: %s", domain.ErrRepositoryUnavailable, repo.FullName())
	}
	a.logger.Info("analyzing repository",
		"repo", info.FullName,
		"stars", info.Stars,
		"forks", info.Forks,
		"open_issues", info.OpenIssues,
	)

	metrics := &domain.HealthMetrics{RepoName: repo.FullName()}

	// The three sections are independent; each writes only its own field.
	eg, egCtx := errgroup.WithContext(ctx)
	eg.Go(func() error {
		metrics.Responsiveness = a.analyzeResponsiveness(egCtx, repo)
		return nil
	})
	eg.Go(func() error {
		metrics.Activity = a.analyzeActivity(egCtx, repo)
		return nil
	})
	eg.Go(func() error {
		metrics.Community = a.analyzeCommunity(egCtx, repo)
		return nil
	})
	_ = eg.Wait()

	return metrics, nil
}

func (a *Analyzer) analyzeResponsiveness(ctx context.Context, repo domain.Repository) domain.Responsiveness {
	closedIssues := a.searchOrEmpty(ctx, fmt.Sprintf("repo:%s type:issue state:closed", repo.FullName()))
	mergedPRs := a.searchOrEmpty(ctx, fmt.Sprintf("repo:%s type:pr state:closed is:merged", repo.FullName()))

	// Day granularity keeps the query URL stable within a day so the
	// response cache can actually hit.
	staleCutoff := a.now().AddDate(0, 0, -staleAfterDays).UTC().Format(dayLayout)
	stale := a.searchOrEmpty(ctx, fmt.Sprintf("repo:%s state:open updated:<%s", repo.FullName(), staleCutoff))

	issueCloseTimes := closeTimes(closedIssues)
	prMergeTimes := closeTimes(mergedPRs)

	return domain.Responsiveness{
		MedianIssueCloseTime:        median(issueCloseTimes),
		MedianPRMergeTime:           median(prMergeTimes),
		StaleItems:                  stale.TotalCount,
		IssueCloseTimesDistribution: timeDistribution(issueCloseTimes),
		PRMergeTimesDistribution:    timeDistribution(prMergeTimes),
	}
}

func (a *Analyzer) analyzeActivity(ctx context.Context, repo domain.Repository) domain.Activity {
	since := a.now().AddDate(0, 0, -activityWindowDays).UTC().Truncate(24 * time.Hour)
	commits, err := a.fetcher.FetchCommitsSince(ctx, repo, since)
	if err != nil {
		a.logger.Warn("commit listing degraded to empty result", "repo", repo.FullName(), "error", err)
		commits = nil
	}

	contributors, err := a.fetcher.FetchContributors(ctx, repo)
	if err != nil {
		a.logger.Warn("contributor listing degraded to empty result", "repo", repo.FullName(), "error", err)
		contributors = nil
	}

	allIssues := a.searchOrEmpty(ctx, fmt.Sprintf("repo:%s type:issue", repo.FullName()))
	closedIssues := a.searchOrEmpty(ctx, fmt.Sprintf("repo:%s type:issue state:closed", repo.FullName()))
	allPRs := a.searchOrEmpty(ctx, fmt.Sprintf("repo:%s type:pr", repo.FullName()))
	mergedPRs := a.searchOrEmpty(ctx, fmt.Sprintf("repo:%s type:pr is:merged", repo.FullName()))

	return domain.Activity{
		CommitsLast30Days:  len(commits),
		ActiveContributors: countActiveContributors(commits),
		IssueCloseRate:     rate(closedIssues.TotalCount, allIssues.TotalCount),
		PRMergeRate:        rate(mergedPRs.TotalCount, allPRs.TotalCount),
		TopContributors:    topContributors(contributors),
	}
}

func (a *Analyzer) analyzeCommunity(ctx context.Context, repo domain.Repository) domain.Community {
	healthScore := 0
	healthFiles := []domain.HealthFile{}
	profile, err := a.fetcher.FetchCommunityProfile(ctx, repo)
	if err != nil {
		a.logger.Warn("community profile degraded to empty result", "repo", repo.FullName(), "error", err)
	} else if profile != nil {
		healthScore = profile.HealthPercentage
		if profile.Files != nil {
			healthFiles = formatHealthFiles(profile.Files)
		}
	}

	firstIssues := a.searchOrEmpty(ctx, fmt.Sprintf(`repo:%s label:"good first issue" state:open`, repo.FullName()))

	return domain.Community{
		HealthScore:             healthScore,
		NewContributors:         a.calculateNewContributors(),
		GoodFirstIssues:         firstIssues.TotalCount,
		ExternalContributionPct: a.calculateExternalContributions(),
		HealthFiles:             healthFiles,
	}
}

// searchOrEmpty degrades a failed issue search to an empty result. Absent
// data is treated as zero counts, never as a fatal error.
func (a *Analyzer) searchOrEmpty(ctx context.Context, query string) *domain.IssueSearch {
	result, err := a.fetcher.SearchIssues(ctx, query)
	if err != nil {
		a.logger.Warn("issue search degraded to empty result", "query", query, "error", err)
		return &domain.IssueSearch{}
	}
	return result
}

// calculateNewContributors is a known gap: a full implementation would
// compare the contributor set of this month against last month. It always
// returns 0.
func (a *Analyzer) calculateNewContributors() int {
	return 0
}

// calculateExternalContributions is a known gap: a full implementation
// would check contributors against org membership. It always returns 0.
func (a *Analyzer) calculateExternalContributions() float64 {
	return 0
}
