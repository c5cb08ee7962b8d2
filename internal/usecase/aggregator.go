// Package usecase contains the business logic of the application.
package usecase

import (
	"context"
	"time"

	"github.com/charmbracelet/log"
	"golang.org/x/sync/errgroup"

	"github.com/naka-gawa/repo-metrics/internal/config"
	"github.com/naka-gawa/repo-metrics/internal/domain"
	"github.com/naka-gawa/repo-metrics/internal/gateway"
	"github.com/naka-gawa/repo-metrics/internal/metrics"
)

// Selector picks the adapter for a repository reference. The gateway
// registry satisfies this.
type Selector interface {
	Fetcher(ref domain.RepoRef) (gateway.Fetcher, error)
}

// StatusFunc is called once per repository attempt, with the record on
// success or the error on failure.
type StatusFunc func(rawURL string, record *domain.RepoMetrics, err error)

// Aggregator drives the locate, fetch and compute pipeline over a list
// of repository URLs and collects the per-repository records.
type Aggregator struct {
	selector Selector
	logger   *log.Logger
	opts     config.Options

	// Now supplies the per-repository timestamp. Each repository gets a
	// single sample so its five metrics stay temporally coherent.
	Now func() time.Time

	// Status, when set, receives a line-worthy result per attempt.
	Status StatusFunc
}

// NewAggregator creates an Aggregator with the given configuration.
func NewAggregator(selector Selector, logger *log.Logger, opts config.Options) *Aggregator {
	return &Aggregator{
		selector: selector,
		logger:   logger,
		opts:     opts,
		Now:      time.Now,
	}
}

// Run processes every URL and returns the collected records. Failures
// are isolated at the repository boundary: a bad URL, an unsupported
// host or a host API error drops that one repository from the report
// and the run always completes. The report preserves input order no
// matter the concurrency limit or which repositories failed.
func (a *Aggregator) Run(ctx context.Context, urls []string) domain.Report {
	limit := max(a.opts.Concurrency, 1)
	a.logger.Debug("starting run", "repositories", len(urls), "concurrency", limit)

	results := make([]*domain.RepoMetrics, len(urls))
	eg := new(errgroup.Group)
	eg.SetLimit(limit)

	for i, rawURL := range urls {
		i, rawURL := i, rawURL
		eg.Go(func() error {
			record, err := a.process(ctx, rawURL)
			if a.Status != nil {
				a.Status(rawURL, record, err)
			}
			if err != nil {
				a.logger.Warn("skipping repository", "url", rawURL, "error", err)
				return nil
			}
			results[i] = record
			return nil
		})
	}
	_ = eg.Wait() // per-repository failures never propagate

	report := make(domain.Report, 0, len(urls))
	for _, record := range results {
		if record != nil {
			report = append(report, *record)
		}
	}
	a.logger.Debug("run complete", "collected", len(report), "skipped", len(urls)-len(report))
	return report
}

func (a *Aggregator) process(ctx context.Context, rawURL string) (*domain.RepoMetrics, error) {
	ref, err := domain.ParseRepoRef(rawURL)
	if err != nil {
		return nil, err
	}
	fetcher, err := a.selector.Fetcher(ref)
	if err != nil {
		return nil, err
	}

	a.logger.Info("processing repository", "repo", ref.Path, "host", ref.Host)
	now := a.Now()
	facts, err := fetcher.FetchFacts(ctx, ref)
	if err != nil {
		return nil, err
	}

	record := metrics.Compute(ref.Name, facts, now)
	return &record, nil
}
