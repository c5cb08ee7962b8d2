package usecase

import (
	"context"
	"io"
	"sync"
	"testing"
	"time"

	"github.com/charmbracelet/log"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/naka-gawa/repo-metrics/internal/config"
	"github.com/naka-gawa/repo-metrics/internal/domain"
	"github.com/naka-gawa/repo-metrics/internal/gateway"
)

var testNow = time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC)

// mockFetcher is a mock implementation of the gateway.Fetcher interface.
type mockFetcher struct {
	mock.Mock
}

func (m *mockFetcher) FetchFacts(ctx context.Context, ref domain.RepoRef) (domain.RawFacts, error) {
	args := m.Called(ctx, ref)
	return args.Get(0).(domain.RawFacts), args.Error(1)
}

// mapSelector routes hosts to fetchers, standing in for the gateway
// registry.
type mapSelector struct {
	fetchers map[string]gateway.Fetcher
}

func (s mapSelector) Fetcher(ref domain.RepoRef) (gateway.Fetcher, error) {
	if f, ok := s.fetchers[ref.Host]; ok {
		return f, nil
	}
	return nil, domain.ErrUnsupportedHost
}

func newTestAggregator(fetchers map[string]gateway.Fetcher, opts config.Options) *Aggregator {
	a := NewAggregator(mapSelector{fetchers: fetchers}, log.New(io.Discard), opts)
	a.Now = func() time.Time { return testNow }
	return a
}

func factsFor(lastCommitDaysAgo int) domain.RawFacts {
	last := testNow.AddDate(0, 0, -lastCommitDaysAgo)
	return domain.RawFacts{
		Contributors:    domain.Known(3),
		DefaultBranch:   "main",
		BranchProtected: domain.Known(false),
		LastCommitAt:    &last,
	}
}

func TestAggregator_Run(t *testing.T) {
	fetcher := new(mockFetcher)
	fetcher.On("FetchFacts", mock.Anything, domain.RepoRef{
		Host: "github.com", Owner: "o", Name: "repo-a", Path: "o/repo-a",
	}).Return(factsFor(2), nil)
	fetcher.On("FetchFacts", mock.Anything, domain.RepoRef{
		Host: "github.com", Owner: "o", Name: "repo-b", Path: "o/repo-b",
	}).Return(factsFor(9), nil)

	a := newTestAggregator(map[string]gateway.Fetcher{"github.com": fetcher}, config.Options{})
	report := a.Run(context.Background(), []string{
		"https://github.com/o/repo-a",
		"https://github.com/o/repo-b",
	})

	require.Len(t, report, 2)
	assert.Equal(t, "repo-a", report[0].Name)
	assert.Equal(t, domain.Known(2), report[0].InactiveDays)
	assert.Equal(t, "repo-b", report[1].Name)
	assert.Equal(t, domain.Known(9), report[1].InactiveDays)
	fetcher.AssertExpectations(t)
}

// A run over N URLs where K fail yields exactly N-K records, still in
// input order, and never aborts.
func TestAggregator_Run_FailuresAreIsolated(t *testing.T) {
	fetcher := new(mockFetcher)
	fetcher.On("FetchFacts", mock.Anything, mock.MatchedBy(func(ref domain.RepoRef) bool {
		return ref.Name == "bad"
	})).Return(domain.RawFacts{}, &domain.HostAPIError{Host: "github.com", Err: assert.AnError})
	fetcher.On("FetchFacts", mock.Anything, mock.MatchedBy(func(ref domain.RepoRef) bool {
		return ref.Name != "bad"
	})).Return(factsFor(1), nil)

	a := newTestAggregator(map[string]gateway.Fetcher{"github.com": fetcher}, config.Options{})
	report := a.Run(context.Background(), []string{
		"https://github.com/o/first",
		"https://github.com/o/bad",            // host API error
		"https://github.com/just-one-segment", // malformed URL
		"https://bitbucket.org/o/elsewhere",   // unsupported host
		"https://github.com/o/last",
	})

	require.Len(t, report, 2)
	assert.Equal(t, "first", report[0].Name)
	assert.Equal(t, "last", report[1].Name)
}

func TestAggregator_Run_StatusCallback(t *testing.T) {
	fetcher := new(mockFetcher)
	fetcher.On("FetchFacts", mock.Anything, mock.Anything).Return(factsFor(1), nil)

	a := newTestAggregator(map[string]gateway.Fetcher{"github.com": fetcher}, config.Options{})

	var mu sync.Mutex
	attempts := map[string]bool{} // url -> succeeded
	a.Status = func(rawURL string, record *domain.RepoMetrics, err error) {
		mu.Lock()
		defer mu.Unlock()
		attempts[rawURL] = err == nil && record != nil
	}

	a.Run(context.Background(), []string{
		"https://github.com/o/ok",
		"https://gitea.example.com/o/nope",
	})

	assert.Equal(t, map[string]bool{
		"https://github.com/o/ok":          true,
		"https://gitea.example.com/o/nope": false,
	}, attempts)
}

func TestAggregator_Run_ConcurrentKeepsInputOrder(t *testing.T) {
	fetcher := new(mockFetcher)
	urls := []string{
		"https://github.com/o/a",
		"https://github.com/o/b",
		"https://github.com/o/c",
		"https://github.com/o/d",
	}
	fetcher.On("FetchFacts", mock.Anything, mock.Anything).Return(factsFor(1), nil)

	a := newTestAggregator(map[string]gateway.Fetcher{"github.com": fetcher}, config.Options{Concurrency: 4})
	report := a.Run(context.Background(), urls)

	require.Len(t, report, 4)
	assert.Equal(t, []string{"a", "b", "c", "d"}, []string{
		report[0].Name, report[1].Name, report[2].Name, report[3].Name,
	})
}

func TestAggregator_Run_Empty(t *testing.T) {
	a := newTestAggregator(nil, config.Options{})
	report := a.Run(context.Background(), nil)
	require.NotNil(t, report)
	assert.Empty(t, report)
}
