package domain

import "time"

// RawFacts is a host-specific snapshot of the data the metrics are
// computed from. A Fetcher fills it once per repository; it is never
// mutated afterwards. Histories are summarized to what the formulas
// need: the total count and the earliest timestamp.
type RawFacts struct {
	// Contributors is the total contributor count, unknown when the
	// host could not report it.
	Contributors Metric[int]

	// ReleaseCount and FirstReleaseAt describe the release history.
	// FirstReleaseAt is nil when the repository has no releases or the
	// host has no release concept.
	ReleaseCount   int
	FirstReleaseAt *time.Time

	// CommitCount and FirstCommitAt describe the commit history.
	CommitCount   int
	FirstCommitAt *time.Time

	// DefaultBranch is the name of the default branch, empty if unknown.
	DefaultBranch string

	// BranchProtected reports whether the default branch is protected.
	BranchProtected Metric[bool]

	// LastCommitAt is the timestamp of the most recent commit on the
	// default branch, nil if unknown.
	LastCommitAt *time.Time
}

// RepoMetrics is the published record for one repository. Every field
// is either a well-typed value or "n/a" on the wire.
type RepoMetrics struct {
	Name             string          `json:"name"`
	Contributors     Metric[int]     `json:"contributors"`
	MeanTimeToUpdate Metric[float64] `json:"mttu_days"`
	MeanTimeToCommit Metric[float64] `json:"mttc_days"`
	BranchProtected  Metric[bool]    `json:"branch_protected"`
	InactiveDays     Metric[int]     `json:"inactive_days"`
}

// Report is the ordered collection of records produced by one run.
// Order matches the input URL order.
type Report []RepoMetrics
