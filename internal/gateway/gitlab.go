package gateway

import (
	"context"
	"fmt"

	"github.com/charmbracelet/log"
	gitlab "gitlab.com/gitlab-org/api/client-go"

	"github.com/naka-gawa/repo-metrics/internal/domain"
)

// GitLabFetcher retrieves repository facts from a GitLab-compatible
// host, such as a self-hosted instance. GitLab has no release cadence
// data comparable to GitHub's, so MTTU and MTTC stay unknown for this
// adapter; that is a documented limitation, not a bug.
type GitLabFetcher struct {
	client *gitlab.Client
	host   string
	logger *log.Logger
}

// NewGitLabFetcher builds a fetcher for one GitLab-compatible host.
// An empty token is accepted; public projects do not require one.
func NewGitLabFetcher(host, token string, logger *log.Logger) (*GitLabFetcher, error) {
	client, err := gitlab.NewClient(token, gitlab.WithBaseURL("https://"+host))
	if err != nil {
		return nil, fmt.Errorf("failed to create gitlab client for %s: %w", host, err)
	}
	return &GitLabFetcher{client: client, host: host, logger: logger}, nil
}

// FetchFacts scans the branch list for the branch flagged default and
// counts contributors. A branch list without a default branch fails the
// whole fetch with ErrNoDefaultBranch.
func (g *GitLabFetcher) FetchFacts(ctx context.Context, ref domain.RepoRef) (domain.RawFacts, error) {
	g.logger.Debug("fetching branches", "repo", ref.Path, "host", g.host)
	defaultBranch, err := g.defaultBranch(ctx, ref.Path)
	if err != nil {
		return domain.RawFacts{}, err
	}

	facts := domain.RawFacts{
		DefaultBranch:   defaultBranch.Name,
		BranchProtected: domain.Known(defaultBranch.Protected),
	}
	if commit := defaultBranch.Commit; commit != nil && commit.AuthoredDate != nil {
		t := *commit.AuthoredDate
		facts.LastCommitAt = &t
	}

	g.logger.Debug("fetching contributors", "repo", ref.Path, "host", g.host)
	if count, err := g.contributorCount(ctx, ref.Path); err != nil {
		g.logger.Debug("contributor count unavailable", "repo", ref.Path, "error", err)
	} else {
		facts.Contributors = domain.Known(count)
	}

	return facts, nil
}

func (g *GitLabFetcher) defaultBranch(ctx context.Context, path string) (*gitlab.Branch, error) {
	opts := &gitlab.ListBranchesOptions{
		ListOptions: gitlab.ListOptions{PerPage: 100},
	}
	for {
		branches, resp, err := g.client.Branches.ListBranches(path, opts, gitlab.WithContext(ctx))
		if err != nil {
			return nil, &domain.HostAPIError{Host: g.host, Err: err}
		}
		for _, branch := range branches {
			if branch.Default {
				return branch, nil
			}
		}
		if resp.NextPage == 0 {
			break
		}
		opts.Page = resp.NextPage
	}
	return nil, fmt.Errorf("%w: %s", domain.ErrNoDefaultBranch, path)
}

func (g *GitLabFetcher) contributorCount(ctx context.Context, path string) (int, error) {
	opts := &gitlab.ListContributorsOptions{
		ListOptions: gitlab.ListOptions{PerPage: 100},
	}
	count := 0
	for {
		contributors, resp, err := g.client.Repositories.Contributors(path, opts, gitlab.WithContext(ctx))
		if err != nil {
			return 0, fmt.Errorf("failed to list contributors: %w", err)
		}
		count += len(contributors)
		if resp.NextPage == 0 {
			break
		}
		opts.Page = resp.NextPage
	}
	return count, nil
}
