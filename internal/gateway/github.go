package gateway

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/charmbracelet/log"
	"github.com/gofri/go-github-ratelimit/github_ratelimit"
	"github.com/google/go-github/v62/github"
	"golang.org/x/oauth2"

	"github.com/naka-gawa/repo-metrics/internal/domain"
)

// GitHubFetcher retrieves repository facts from the GitHub REST API.
type GitHubFetcher struct {
	client *github.Client
	logger *log.Logger
}

// NewGitHubFetcher builds a fetcher whose HTTP client waits out
// secondary rate limits and authenticates with a static bearer token.
func NewGitHubFetcher(token string, logger *log.Logger) (*GitHubFetcher, error) {
	rateLimitWaiter, err := github_ratelimit.NewRateLimitWaiter(nil, github_ratelimit.WithSingleSleepLimit(1*time.Hour, nil))
	if err != nil {
		return nil, fmt.Errorf("failed to create rate limit waiter: %w", err)
	}
	ts := oauth2.StaticTokenSource(&oauth2.Token{AccessToken: token})
	httpClient := &http.Client{
		Transport: &oauth2.Transport{
			Base:   rateLimitWaiter,
			Source: ts,
		},
	}
	return &GitHubFetcher{
		client: github.NewClient(httpClient),
		logger: logger,
	}, nil
}

// FetchFacts gathers contributor, release, commit and branch facts for
// one repository. A failure to reach the repository itself fails the
// fetch; failures on individual facts degrade only that field to
// unknown.
func (g *GitHubFetcher) FetchFacts(ctx context.Context, ref domain.RepoRef) (domain.RawFacts, error) {
	owner, name := ref.Owner, ref.Name

	repo, _, err := g.client.Repositories.Get(ctx, owner, name)
	if err != nil {
		return domain.RawFacts{}, &domain.HostAPIError{Host: ref.Host, Err: err}
	}
	facts := domain.RawFacts{DefaultBranch: repo.GetDefaultBranch()}

	g.logger.Debug("fetching contributor count", "repo", ref.Path)
	if count, err := g.contributorCount(ctx, owner, name); err != nil {
		g.logger.Debug("contributor count unavailable", "repo", ref.Path, "error", err)
	} else {
		facts.Contributors = domain.Known(count)
	}

	g.logger.Debug("fetching release history", "repo", ref.Path)
	if count, first, err := g.firstRelease(ctx, owner, name); err != nil {
		g.logger.Debug("release history unavailable", "repo", ref.Path, "error", err)
	} else {
		facts.ReleaseCount = count
		facts.FirstReleaseAt = first
	}

	g.logger.Debug("fetching commit history", "repo", ref.Path)
	if count, first, err := g.firstCommit(ctx, owner, name); err != nil {
		g.logger.Debug("commit history unavailable", "repo", ref.Path, "error", err)
	} else {
		facts.CommitCount = count
		facts.FirstCommitAt = first
	}

	if facts.DefaultBranch == "" {
		g.logger.Debug("repository has no default branch", "repo", ref.Path)
		return facts, nil
	}

	g.logger.Debug("fetching default branch", "repo", ref.Path, "branch", facts.DefaultBranch)
	branch, _, err := g.client.Repositories.GetBranch(ctx, owner, name, facts.DefaultBranch, 3)
	if err != nil {
		g.logger.Debug("branch metadata unavailable", "repo", ref.Path, "error", err)
		return facts, nil
	}
	facts.BranchProtected = domain.Known(branch.GetProtected())
	if date := branch.GetCommit().GetCommit().GetAuthor().GetDate(); !date.IsZero() {
		t := date.Time
		facts.LastCommitAt = &t
	}

	return facts, nil
}

// contributorCount lists contributors one per page; the Link header's
// last page number is then the total count.
func (g *GitHubFetcher) contributorCount(ctx context.Context, owner, name string) (int, error) {
	opts := &github.ListContributorsOptions{ListOptions: github.ListOptions{PerPage: 1}}
	contributors, resp, err := g.client.Repositories.ListContributors(ctx, owner, name, opts)
	if err != nil {
		return 0, fmt.Errorf("failed to list contributors: %w", err)
	}
	if resp.LastPage > 0 {
		return resp.LastPage, nil
	}
	return len(contributors), nil
}

// firstRelease returns the total release count and the creation time of
// the oldest release. GitHub lists releases newest-first, so the oldest
// one sits alone on the last page when listing one per page.
func (g *GitHubFetcher) firstRelease(ctx context.Context, owner, name string) (int, *time.Time, error) {
	opts := &github.ListOptions{PerPage: 1}
	releases, resp, err := g.client.Repositories.ListReleases(ctx, owner, name, opts)
	if err != nil {
		return 0, nil, fmt.Errorf("failed to list releases: %w", err)
	}
	count := max(resp.LastPage, len(releases))
	if resp.LastPage > 0 {
		opts.Page = resp.LastPage
		if releases, _, err = g.client.Repositories.ListReleases(ctx, owner, name, opts); err != nil {
			return 0, nil, fmt.Errorf("failed to fetch oldest release: %w", err)
		}
	}
	if len(releases) == 0 {
		return 0, nil, nil
	}
	first := releases[len(releases)-1].GetCreatedAt().Time
	return count, &first, nil
}

// firstCommit does for commits what firstRelease does for releases.
func (g *GitHubFetcher) firstCommit(ctx context.Context, owner, name string) (int, *time.Time, error) {
	opts := &github.CommitsListOptions{ListOptions: github.ListOptions{PerPage: 1}}
	commits, resp, err := g.client.Repositories.ListCommits(ctx, owner, name, opts)
	if err != nil {
		return 0, nil, fmt.Errorf("failed to list commits: %w", err)
	}
	count := max(resp.LastPage, len(commits))
	if resp.LastPage > 0 {
		opts.Page = resp.LastPage
		if commits, _, err = g.client.Repositories.ListCommits(ctx, owner, name, opts); err != nil {
			return 0, nil, fmt.Errorf("failed to fetch oldest commit: %w", err)
		}
	}
	if len(commits) == 0 {
		return 0, nil, nil
	}
	first := commits[len(commits)-1].GetCommit().GetAuthor().GetDate().Time
	return count, &first, nil
}
