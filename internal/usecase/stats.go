package usecase

import (
	"math"
	"sort"

	"github.com/montanaflynn/stats"

	"github.com/takeru-oka/repo-health/internal/domain"
)

// distributionBuckets are the histogram buckets for close/merge times, in
// display order. Upper bounds are exclusive, in whole days.
var distributionBuckets = []struct {
	label string
	upper float64
}{
	{"<1d", 1},
	{"1-2d", 2},
	{"2-7d", 7},
	{"1-2w", 14},
	{"2-4w", 28},
	{"1-3m", 90},
	{">3m", math.Inf(1)},
}

// closeTimes extracts elapsed whole days between creation and closure for
// every item carrying both timestamps. Fractional days truncate toward
// zero. Items still open (or missing a timestamp) are excluded, not
// counted as zero.
func closeTimes(search *domain.IssueSearch) []float64 {
	if search == nil {
		return nil
	}
	times := make([]float64, 0, len(search.Items))
	for _, item := range search.Items {
		if item.ClosedAt == nil || item.CreatedAt.IsZero() {
			continue
		}
		days := int(item.ClosedAt.Sub(item.CreatedAt).Hours() / 24)
		times = append(times, float64(days))
	}
	return times
}

// median returns the statistical median of values, or 0 for empty input.
// An even count averages the two middle elements, so fractional results
// are possible even for whole-day inputs.
func median(values []float64) float64 {
	m, err := stats.Median(values)
	if err != nil {
		return 0
	}
	return m
}

// timeDistribution buckets close times into the fixed histogram. A
// non-empty input yields all seven buckets, zero counts included; an
// empty input yields an empty map, not seven zeros.
func timeDistribution(times []float64) map[string]int {
	dist := make(map[string]int)
	if len(times) == 0 {
		return dist
	}
	for _, b := range distributionBuckets {
		dist[b.label] = 0
	}
	for _, days := range times {
		for _, b := range distributionBuckets {
			if days < b.upper {
				dist[b.label]++
				break
			}
		}
	}
	return dist
}

// rate returns part/total as a percentage rounded to one decimal place,
// and 0 when total is 0.
func rate(part, total int) float64 {
	if total == 0 {
		return 0
	}
	return math.Round(float64(part)/float64(total)*1000) / 10
}

// countActiveContributors counts distinct commit author logins. Commits
// with no resolvable GitHub account are excluded from the set.
func countActiveContributors(commits []domain.Commit) int {
	logins := make(map[string]struct{})
	for _, c := range commits {
		if c.AuthorLogin == "" {
			continue
		}
		logins[c.AuthorLogin] = struct{}{}
	}
	return len(logins)
}

// topContributors ranks contributors descending by contribution count,
// stable on ties, capped at 10. A missing login becomes "Unknown".
func topContributors(contributors []domain.Contributor) []domain.Contributor {
	ranked := make([]domain.Contributor, len(contributors))
	copy(ranked, contributors)
	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].Contributions > ranked[j].Contributions
	})
	if len(ranked) > 10 {
		ranked = ranked[:10]
	}
	for i := range ranked {
		if ranked[i].Username == "" {
			ranked[i].Username = "Unknown"
		}
	}
	return ranked
}

// standardHealthFiles is the fixed order in which community files are
// reported.
var standardHealthFiles = []string{
	"readme",
	"license",
	"contributing",
	"code_of_conduct",
	"issue_template",
	"pull_request_template",
}

// formatHealthFiles turns the upstream file-presence map into the ordered
// display list: underscores become spaces and each word is title-cased.
func formatHealthFiles(files map[string]bool) []domain.HealthFile {
	checks := make([]domain.HealthFile, 0, len(standardHealthFiles))
	for _, fileType := range standardHealthFiles {
		checks = append(checks, domain.HealthFile{
			Name:    titleCase(fileType),
			Present: files[fileType],
		})
	}
	return checks
}

func titleCase(fileType string) string {
	b := []byte(fileType)
	upperNext := true
	for i, c := range b {
		switch {
		case c == '_':
			b[i] = ' '
			upperNext = true
		case upperNext && c >= 'a' && c <= 'z':
			b[i] = c - 'a' + 'A'
			upperNext = false
		default:
			upperNext = false
		}
	}
	return string(b)
}
