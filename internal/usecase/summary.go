package usecase

import (
	"github.com/montanaflynn/stats"

	"github.com/naka-gawa/repo-metrics/internal/domain"
)

// InactivitySummary aggregates inactivity across the repositories that
// reported it.
type InactivitySummary struct {
	Samples int
	Mean    float64
	Median  float64
}

// SummarizeInactivity computes mean and median inactivity days over the
// collected records. The second return value is false when no record
// carries a known inactivity value.
func SummarizeInactivity(report domain.Report) (InactivitySummary, bool) {
	var samples []float64
	for _, record := range report {
		if days, ok := record.InactiveDays.Value(); ok {
			samples = append(samples, float64(days))
		}
	}
	if len(samples) == 0 {
		return InactivitySummary{}, false
	}

	mean, err := stats.Mean(samples)
	if err != nil {
		return InactivitySummary{}, false
	}
	median, err := stats.Median(samples)
	if err != nil {
		return InactivitySummary{}, false
	}
	return InactivitySummary{Samples: len(samples), Mean: mean, Median: median}, true
}
