package domain

import (
	"errors"
	"fmt"
)

// Sentinel errors for the failure modes that callers branch on.
var (
	// ErrMalformedURL means the URL does not carry enough path segments
	// to identify an owner and a repository name.
	ErrMalformedURL = errors.New("malformed repository URL")

	// ErrUnsupportedHost means no adapter is registered for the URL's host.
	ErrUnsupportedHost = errors.New("unsupported repository host")

	// ErrNoDefaultBranch means a GitLab-style host returned a branch list
	// with no branch flagged as default.
	ErrNoDefaultBranch = errors.New("no default branch")

	// ErrMissingCredential means a required key is absent from the
	// credential store. This is a fatal precondition, checked before any
	// repository is processed.
	ErrMissingCredential = errors.New("missing credential")
)

// HostAPIError wraps a failure reported by a hosting service client
// (network, auth, rate limiting). It is caught at the single-repository
// boundary and never aborts a whole run.
type HostAPIError struct {
	Host string
	Err  error
}

func (e *HostAPIError) Error() string {
	return fmt.Sprintf("%s api: %v", e.Host, e.Err)
}

func (e *HostAPIError) Unwrap() error { return e.Err }
