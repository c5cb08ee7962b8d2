// Package config holds run configuration and credential loading.
package config

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"

	"github.com/naka-gawa/repo-metrics/internal/domain"
)

// TokenKey is the credential key holding the hosting-service access token.
const TokenKey = "GITHUB_TOKEN"

// DefaultGitLabHosts are the GitLab-compatible hosts recognized out of
// the box. More can be added per run.
var DefaultGitLabHosts = []string{
	"gitlab.com",
	"salsa.debian.org",
	"gitlab.freedesktop.org",
}

// Options is the explicit configuration passed into the aggregator.
type Options struct {
	// GitLabHosts is the set of hosts served by the GitLab adapter.
	GitLabHosts []string

	// Concurrency bounds how many repositories are processed at once.
	// 1 means strictly sequential processing.
	Concurrency int

	// InputFile is the newline-delimited URL list used when no URLs are
	// given on the command line.
	InputFile string

	// Output is the report path; "-" writes to stdout. Empty derives
	// the path from the input URLs.
	Output string

	// Sound rings the terminal bell once the report is written.
	Sound bool
}

// Store looks up credentials in the process environment, optionally
// seeded from a dotenv file.
type Store struct{}

// LoadStore seeds the environment from the dotenv file at path when one
// is named. Pointing at a missing file is a fatal misconfiguration.
func LoadStore(path string) (*Store, error) {
	if path != "" {
		if err := godotenv.Load(path); err != nil {
			return nil, fmt.Errorf("failed to load credential file %s: %w", path, err)
		}
	}
	return &Store{}, nil
}

// Get returns the credential for key, or ErrMissingCredential when the
// key is absent or empty.
func (s *Store) Get(key string) (string, error) {
	value := os.Getenv(key)
	if value == "" {
		return "", fmt.Errorf("%w: %s", domain.ErrMissingCredential, key)
	}
	return value, nil
}
