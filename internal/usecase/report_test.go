package usecase

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/naka-gawa/repo-metrics/internal/domain"
)

func TestDefaultOutputPath(t *testing.T) {
	testCases := []struct {
		name     string
		urls     []string
		expected string
	}{
		{
			name:     "single repository is named after owner and name",
			urls:     []string{"https://github.com/golang/go"},
			expected: "golang-go.json",
		},
		{
			name:     "multiple repositories use the aggregate filename",
			urls:     []string{"https://github.com/a/b", "https://github.com/c/d"},
			expected: "output.json",
		},
		{
			name:     "unparseable single URL falls back to the aggregate filename",
			urls:     []string{"garbage"},
			expected: "output.json",
		},
		{
			name:     "no URLs",
			urls:     nil,
			expected: "output.json",
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.expected, DefaultOutputPath(tc.urls))
		})
	}
}

func TestWriteReport(t *testing.T) {
	report := domain.Report{
		{
			Name:             "repo-a",
			Contributors:     domain.Known(4),
			MeanTimeToUpdate: domain.Unknown[float64](),
			MeanTimeToCommit: domain.Known(1.25),
			BranchProtected:  domain.Known(true),
			InactiveDays:     domain.Known(7),
		},
	}

	path := filepath.Join(t.TempDir(), "report.json")
	require.NoError(t, WriteReport(report, path, nil))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.JSONEq(t, `[{
		"name": "repo-a",
		"contributors": 4,
		"mttu_days": "n/a",
		"mttc_days": 1.25,
		"branch_protected": true,
		"inactive_days": 7
	}]`, string(data))
}

func TestWriteReportConsoleSink(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteReport(domain.Report{}, "-", &buf))
	assert.JSONEq(t, `[]`, buf.String())
}

func TestSummarizeInactivity(t *testing.T) {
	report := domain.Report{
		{Name: "a", InactiveDays: domain.Known(2)},
		{Name: "b", InactiveDays: domain.Unknown[int]()},
		{Name: "c", InactiveDays: domain.Known(10)},
		{Name: "d", InactiveDays: domain.Known(3)},
	}

	summary, ok := SummarizeInactivity(report)
	require.True(t, ok)
	assert.Equal(t, 3, summary.Samples)
	assert.InDelta(t, 5.0, summary.Mean, 1e-9)
	assert.InDelta(t, 3.0, summary.Median, 1e-9)

	_, ok = SummarizeInactivity(domain.Report{{Name: "x"}})
	assert.False(t, ok)
}
