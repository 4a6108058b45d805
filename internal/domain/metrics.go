// Package domain contains the core data structures and domain logic for the application.
package domain

import "time"

// Repository identifies a GitHub repository by owner and name.
type Repository struct {
	Owner string
	Name  string
}

// FullName returns the canonical "owner/name" form.
func (r Repository) FullName() string {
	return r.Owner + "/" + r.Name
}

// RepositoryInfo is the subset of the base repository entity the dashboard uses.
type RepositoryInfo struct {
	FullName    string
	Description string
	Stars       int
	Forks       int
	OpenIssues  int
}

// IssueItem carries the only timestamps the close-time pipeline needs.
// ClosedAt is nil for items that are still open.
type IssueItem struct {
	CreatedAt time.Time
	ClosedAt  *time.Time
}

// IssueSearch is a single page of issue/PR search results plus the
// server-side total count across all pages.
type IssueSearch struct {
	TotalCount int
	Items      []IssueItem
}

// Commit is a single commit attributed to a GitHub login.
// AuthorLogin is empty when the commit has no resolvable GitHub account.
type Commit struct {
	AuthorLogin string
	AuthoredAt  time.Time
}

// Contributor is a contributor ranked by contribution count.
type Contributor struct {
	Username      string `json:"username"`
	Contributions int    `json:"contributions"`
}

// CommunityProfile is the community-health resource: an overall score and a
// presence map keyed by standard file type (readme, license, ...).
type CommunityProfile struct {
	HealthPercentage int
	Files            map[string]bool
}

// HealthFile reports presence of one standard community file.
type HealthFile struct {
	Name    string `json:"name"`
	Present bool   `json:"present"`
}

// Responsiveness holds close/merge latency metrics.
type Responsiveness struct {
	MedianIssueCloseTime        float64        `json:"median_issue_close_time"`
	MedianPRMergeTime           float64        `json:"median_pr_merge_time"`
	StaleItems                  int            `json:"stale_items"`
	IssueCloseTimesDistribution map[string]int `json:"issue_close_times_distribution"`
	PRMergeTimesDistribution    map[string]int `json:"pr_merge_times_distribution"`
}

// Activity holds commit and contributor rate metrics.
type Activity struct {
	CommitsLast30Days  int           `json:"commits_last_30_days"`
	ActiveContributors int           `json:"active_contributors"`
	IssueCloseRate     float64       `json:"issue_close_rate"`
	PRMergeRate        float64       `json:"pr_merge_rate"`
	TopContributors    []Contributor `json:"top_contributors"`
}

// Community holds community-health metrics.
//
// NewContributors and ExternalContributionPct are known gaps carried over
// from the original dashboard: both are always 0 until a month-over-month
// contributor comparison and an org-membership check are implemented.
type Community struct {
	HealthScore             int          `json:"health_score"`
	NewContributors         int          `json:"new_contributors"`
	GoodFirstIssues         int          `json:"good_first_issues"`
	ExternalContributionPct float64      `json:"external_contribution_pct"`
	HealthFiles             []HealthFile `json:"health_files"`
}

// HealthMetrics is the complete per-repository health document returned by
// the analysis API. Produced fresh per request; never persisted.
type HealthMetrics struct {
	RepoName       string         `json:"repo_name"`
	Responsiveness Responsiveness `json:"responsiveness"`
	Activity       Activity       `json:"activity"`
	Community      Community      `json:"community"`
}
