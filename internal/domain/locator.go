// Package domain contains the core data structures and domain logic for
// the application.
package domain

import (
	"fmt"
	"net/url"
	"strings"
)

// RepoRef identifies a repository on a hosting service.
// It is derived once per input URL and never mutated.
type RepoRef struct {
	Host  string // network location, e.g. "github.com"
	Owner string // owning user, organization or group
	Name  string // repository name
	Path  string // full project path on the host, e.g. "owner/name"
}

// ParseRepoRef extracts a RepoRef from a repository URL. The last path
// segment is the repository name and the second-to-last is the owner;
// URLs with fewer than two path segments fail with ErrMalformedURL.
func ParseRepoRef(rawURL string) (RepoRef, error) {
	u, err := url.Parse(strings.TrimSpace(rawURL))
	if err != nil {
		return RepoRef{}, fmt.Errorf("%w: %q: %v", ErrMalformedURL, rawURL, err)
	}

	path := strings.Trim(u.Path, "/")
	path = strings.TrimSuffix(path, ".git")
	segments := strings.Split(path, "/")
	if path == "" || len(segments) < 2 {
		return RepoRef{}, fmt.Errorf("%w: %q: need at least owner and name", ErrMalformedURL, rawURL)
	}

	// Keep the full path: GitLab project paths may carry nested groups.
	return RepoRef{
		Host:  u.Host,
		Owner: segments[len(segments)-2],
		Name:  segments[len(segments)-1],
		Path:  path,
	}, nil
}
