// Package gateway provides adapters to repository hosting APIs,
// abstracting away the underlying clients. Each adapter turns a parsed
// repository reference into a RawFacts snapshot; everything downstream
// is host-independent.
package gateway

import (
	"context"
	"fmt"

	"github.com/charmbracelet/log"

	"github.com/naka-gawa/repo-metrics/internal/domain"
)

// Fetcher retrieves the raw facts for one repository. Implementations
// make network calls but keep no state between repositories.
type Fetcher interface {
	FetchFacts(ctx context.Context, ref domain.RepoRef) (domain.RawFacts, error)
}

// Registry selects an adapter by host: github.com maps to the GitHub
// adapter, any host in the configured GitLab set maps to the GitLab
// adapter, and everything else is unsupported.
type Registry struct {
	github Fetcher
	gitlab map[string]Fetcher
}

// NewRegistry builds a registry for the given token and the set of
// GitLab-compatible hosts. One GitLab client is created per host so
// each points at its own base URL.
func NewRegistry(token string, gitlabHosts []string, logger *log.Logger) (*Registry, error) {
	gh, err := NewGitHubFetcher(token, logger)
	if err != nil {
		return nil, err
	}

	// The token is a GitHub credential; GitLab hosts are accessed
	// anonymously, which public projects allow.
	gl := make(map[string]Fetcher, len(gitlabHosts))
	for _, host := range gitlabHosts {
		f, err := NewGitLabFetcher(host, "", logger)
		if err != nil {
			return nil, err
		}
		gl[host] = f
	}

	return &Registry{github: gh, gitlab: gl}, nil
}

// Fetcher returns the adapter for ref's host, or ErrUnsupportedHost.
func (r *Registry) Fetcher(ref domain.RepoRef) (Fetcher, error) {
	if ref.Host == "github.com" {
		return r.github, nil
	}
	if f, ok := r.gitlab[ref.Host]; ok {
		return f, nil
	}
	return nil, fmt.Errorf("%w: %s", domain.ErrUnsupportedHost, ref.Host)
}
