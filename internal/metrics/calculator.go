// Package metrics computes the published repository metrics from raw
// host facts. Everything here is pure: no I/O, no clock access. The
// caller samples "now" once per repository so the five metrics of a
// record stay temporally coherent.
package metrics

import (
	"time"

	"github.com/naka-gawa/repo-metrics/internal/domain"
)

// daysBetween returns the whole number of days from a to b, matching
// integer day-difference semantics.
func daysBetween(a, b time.Time) int {
	return int(b.Sub(a).Hours() / 24)
}

// ContributorCount passes the host's contributor count through.
// No owner adjustment is applied: the hosting APIs already include the
// owner in the contributor list they return.
func ContributorCount(facts domain.RawFacts) domain.Metric[int] {
	return facts.Contributors
}

// MeanTimeToUpdate is the average release cadence in days: days since
// the first release divided by the release count. Unknown when the
// repository has no release history.
func MeanTimeToUpdate(facts domain.RawFacts, now time.Time) domain.Metric[float64] {
	if facts.ReleaseCount == 0 || facts.FirstReleaseAt == nil {
		return domain.Unknown[float64]()
	}
	days := daysBetween(*facts.FirstReleaseAt, now)
	return domain.Known(float64(days) / float64(facts.ReleaseCount))
}

// MeanTimeToCommit is the average commit cadence in days, computed the
// same way over commit history.
func MeanTimeToCommit(facts domain.RawFacts, now time.Time) domain.Metric[float64] {
	if facts.CommitCount == 0 || facts.FirstCommitAt == nil {
		return domain.Unknown[float64]()
	}
	days := daysBetween(*facts.FirstCommitAt, now)
	return domain.Known(float64(days) / float64(facts.CommitCount))
}

// BranchProtected passes the default-branch protection flag through.
func BranchProtected(facts domain.RawFacts) domain.Metric[bool] {
	return facts.BranchProtected
}

// InactiveDays is the number of whole days since the most recent commit
// on the default branch.
func InactiveDays(facts domain.RawFacts, now time.Time) domain.Metric[int] {
	if facts.LastCommitAt == nil {
		return domain.Unknown[int]()
	}
	return domain.Known(daysBetween(*facts.LastCommitAt, now))
}

// Compute assembles the full record for one repository from its facts
// and a single consistently-sampled timestamp.
func Compute(name string, facts domain.RawFacts, now time.Time) domain.RepoMetrics {
	return domain.RepoMetrics{
		Name:             name,
		Contributors:     ContributorCount(facts),
		MeanTimeToUpdate: MeanTimeToUpdate(facts, now),
		MeanTimeToCommit: MeanTimeToCommit(facts, now),
		BranchProtected:  BranchProtected(facts),
		InactiveDays:     InactiveDays(facts, now),
	}
}
