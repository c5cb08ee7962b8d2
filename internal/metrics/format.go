package metrics

import (
	"fmt"
	"strings"

	"github.com/naka-gawa/repo-metrics/internal/domain"
)

const (
	daysPerYear  = 365
	daysPerMonth = 30
)

// FormatDays renders a day count as a human-readable duration. Unknown
// values pass through as "n/a".
//
// Decomposition is largest-unit-first: 365-day years, 30-day months,
// then whole days, with zero-count units omitted. Hours (two decimals)
// appear only when the entire value is under one day, so a sub-day
// remainder of a multi-day duration is dropped rather than rendered.
// Unit labels are singular exactly when the unit count is 1.
func FormatDays(d domain.Metric[float64]) string {
	days, known := d.Value()
	if !known {
		return "n/a"
	}

	if days < 1 {
		hours := days * 24
		return fmt.Sprintf("%.2f %s", hours, pluralize("hour", int(hours)))
	}

	whole := int(days)
	years := whole / daysPerYear
	months := (whole % daysPerYear) / daysPerMonth
	rest := (whole % daysPerYear) % daysPerMonth

	var parts []string
	if years > 0 {
		parts = append(parts, fmt.Sprintf("%d %s", years, pluralize("year", years)))
	}
	if months > 0 {
		parts = append(parts, fmt.Sprintf("%d %s", months, pluralize("month", months)))
	}
	if rest > 0 || len(parts) == 0 {
		parts = append(parts, fmt.Sprintf("%d %s", rest, pluralize("day", rest)))
	}
	return strings.Join(parts, ", ")
}

func pluralize(unit string, count int) string {
	if count == 1 {
		return unit
	}
	return unit + "s"
}
