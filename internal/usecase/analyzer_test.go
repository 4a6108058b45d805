package usecase

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/takeru-oka/repo-health/internal/domain"
)

// mockFetcher is a mock implementation of the gateway.Fetcher interface.
// It lets us simulate the GitHub gateway without real API calls.
type mockFetcher struct {
	mock.Mock
}

func (m *mockFetcher) FetchRepository(ctx context.Context, repo domain.Repository) (*domain.RepositoryInfo, error) {
	args := m.Called(ctx, repo)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.RepositoryInfo), args.Error(1)
}

func (m *mockFetcher) SearchIssues(ctx context.Context, query string) (*domain.IssueSearch, error) {
	args := m.Called(ctx, query)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.IssueSearch), args.Error(1)
}

func (m *mockFetcher) FetchCommitsSince(ctx context.Context, repo domain.Repository, since time.Time) ([]domain.Commit, error) {
	args := m.Called(ctx, repo, since)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Commit), args.Error(1)
}

func (m *mockFetcher) FetchContributors(ctx context.Context, repo domain.Repository) ([]domain.Contributor, error) {
	args := m.Called(ctx, repo)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Contributor), args.Error(1)
}

func (m *mockFetcher) FetchCommunityProfile(ctx context.Context, repo domain.Repository) (*domain.CommunityProfile, error) {
	args := m.Called(ctx, repo)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.CommunityProfile), args.Error(1)
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

var testRepo = domain.Repository{Owner: "foo", Name: "bar"}

func TestAnalyzer_Analyze_RepositoryUnavailable(t *testing.T) {
	fetcher := new(mockFetcher)
	fetcher.On("FetchRepository", mock.Anything, testRepo).
		Return(nil, errors.New("404 not found"))

	analyzer := NewAnalyzer(fetcher, discardLogger())
	metrics, err := analyzer.Analyze(context.Background(), testRepo)

	assert.ErrorIs(t, err, domain.ErrRepositoryUnavailable)
	assert.Nil(t, metrics)
	// No partial document: no sub-query runs when the base lookup fails.
	fetcher.AssertNotCalled(t, "SearchIssues", mock.Anything, mock.Anything)
	fetcher.AssertExpectations(t)
}

func TestAnalyzer_Analyze_AllSubQueriesDegrade(t *testing.T) {
	fetcher := new(mockFetcher)
	fetcher.On("FetchRepository", mock.Anything, testRepo).
		Return(&domain.RepositoryInfo{FullName: "foo/bar"}, nil)
	fetcher.On("SearchIssues", mock.Anything, mock.Anything).
		Return(nil, errors.New("rate limited"))
	fetcher.On("FetchCommitsSince", mock.Anything, testRepo, mock.Anything).
		Return(nil, errors.New("rate limited"))
	fetcher.On("FetchContributors", mock.Anything, testRepo).
		Return(nil, errors.New("rate limited"))
	fetcher.On("FetchCommunityProfile", mock.Anything, testRepo).
		Return(nil, errors.New("rate limited"))

	analyzer := NewAnalyzer(fetcher, discardLogger())
	metrics, err := analyzer.Analyze(context.Background(), testRepo)

	require.NoError(t, err)
	require.NotNil(t, metrics)

	assert.Equal(t, "foo/bar", metrics.RepoName)
	assert.Equal(t, 0.0, metrics.Responsiveness.MedianIssueCloseTime)
	assert.Equal(t, 0.0, metrics.Responsiveness.MedianPRMergeTime)
	assert.Equal(t, 0, metrics.Responsiveness.StaleItems)
	assert.Empty(t, metrics.Responsiveness.IssueCloseTimesDistribution)
	assert.Empty(t, metrics.Responsiveness.PRMergeTimesDistribution)
	assert.Equal(t, 0, metrics.Activity.CommitsLast30Days)
	assert.Equal(t, 0, metrics.Activity.ActiveContributors)
	assert.Equal(t, 0.0, metrics.Activity.IssueCloseRate)
	assert.Equal(t, 0.0, metrics.Activity.PRMergeRate)
	assert.Empty(t, metrics.Activity.TopContributors)
	assert.Equal(t, 0, metrics.Community.HealthScore)
	assert.Equal(t, 0, metrics.Community.GoodFirstIssues)
	assert.Empty(t, metrics.Community.HealthFiles)
}

func TestAnalyzer_Analyze_HappyPath(t *testing.T) {
	now := time.Date(2024, 5, 15, 12, 0, 0, 0, time.UTC)
	created := time.Date(2024, 4, 1, 0, 0, 0, 0, time.UTC)
	closedAfter3Days := created.AddDate(0, 0, 3)

	closedIssueSearch := &domain.IssueSearch{
		TotalCount: 40,
		Items: []domain.IssueItem{
			{CreatedAt: created, ClosedAt: &closedAfter3Days},
		},
	}

	fetcher := new(mockFetcher)
	fetcher.On("FetchRepository", mock.Anything, testRepo).
		Return(&domain.RepositoryInfo{FullName: "foo/bar", Stars: 100}, nil)

	fetcher.On("SearchIssues", mock.Anything, "repo:foo/bar type:issue state:closed").
		Return(closedIssueSearch, nil)
	fetcher.On("SearchIssues", mock.Anything, "repo:foo/bar type:pr state:closed is:merged").
		Return(&domain.IssueSearch{TotalCount: 10}, nil)
	fetcher.On("SearchIssues", mock.Anything, "repo:foo/bar state:open updated:<2024-03-16").
		Return(&domain.IssueSearch{TotalCount: 4}, nil)
	fetcher.On("SearchIssues", mock.Anything, "repo:foo/bar type:issue").
		Return(&domain.IssueSearch{TotalCount: 60}, nil)
	fetcher.On("SearchIssues", mock.Anything, "repo:foo/bar type:pr").
		Return(&domain.IssueSearch{TotalCount: 20}, nil)
	fetcher.On("SearchIssues", mock.Anything, "repo:foo/bar type:pr is:merged").
		Return(&domain.IssueSearch{TotalCount: 10}, nil)
	fetcher.On("SearchIssues", mock.Anything, `repo:foo/bar label:"good first issue" state:open`).
		Return(&domain.IssueSearch{TotalCount: 2}, nil)

	since := time.Date(2024, 4, 15, 0, 0, 0, 0, time.UTC)
	fetcher.On("FetchCommitsSince", mock.Anything, testRepo, since).
		Return([]domain.Commit{
			{AuthorLogin: "alice"},
			{AuthorLogin: "alice"},
			{AuthorLogin: "bob"},
		}, nil)
	fetcher.On("FetchContributors", mock.Anything, testRepo).
		Return([]domain.Contributor{
			{Username: "alice", Contributions: 40},
			{Username: "bob", Contributions: 12},
		}, nil)
	fetcher.On("FetchCommunityProfile", mock.Anything, testRepo).
		Return(&domain.CommunityProfile{
			HealthPercentage: 85,
			Files:            map[string]bool{"readme": true, "license": true},
		}, nil)

	analyzer := NewAnalyzer(fetcher, discardLogger())
	analyzer.now = func() time.Time { return now }

	metrics, err := analyzer.Analyze(context.Background(), testRepo)
	require.NoError(t, err)

	assert.Equal(t, "foo/bar", metrics.RepoName)
	assert.Equal(t, 3.0, metrics.Responsiveness.MedianIssueCloseTime)
	assert.Equal(t, 4, metrics.Responsiveness.StaleItems)
	assert.Equal(t, 1, metrics.Responsiveness.IssueCloseTimesDistribution["2-7d"])
	assert.Len(t, metrics.Responsiveness.IssueCloseTimesDistribution, 7)
	assert.Empty(t, metrics.Responsiveness.PRMergeTimesDistribution)

	assert.Equal(t, 3, metrics.Activity.CommitsLast30Days)
	assert.Equal(t, 2, metrics.Activity.ActiveContributors)
	assert.Equal(t, 66.7, metrics.Activity.IssueCloseRate)
	assert.Equal(t, 50.0, metrics.Activity.PRMergeRate)
	assert.Equal(t, "alice", metrics.Activity.TopContributors[0].Username)

	assert.Equal(t, 85, metrics.Community.HealthScore)
	assert.Equal(t, 2, metrics.Community.GoodFirstIssues)
	assert.Equal(t, 0, metrics.Community.NewContributors)
	assert.Equal(t, 0.0, metrics.Community.ExternalContributionPct)
	require.Len(t, metrics.Community.HealthFiles, 6)
	assert.Equal(t, domain.HealthFile{Name: "Readme", Present: true}, metrics.Community.HealthFiles[0])
	assert.Equal(t, domain.HealthFile{Name: "Contributing", Present: false}, metrics.Community.HealthFiles[2])

	fetcher.AssertExpectations(t)
}
