// Package resolver turns endpoint strings into absolute URLs. Every
// component that talks to a target goes through Resolve.
package resolver

import (
	"fmt"
	"regexp"
	"strings"
)

var absoluteURL = regexp.MustCompile(`^https?://`)

// ResolutionError means an endpoint could not be made absolute. It is fatal
// for the single test case that carried the endpoint, nothing more.
type ResolutionError struct {
	Endpoint string
}

func (e *ResolutionError) Error() string {
	return fmt.Sprintf("cannot resolve endpoint %q: no base URL provided", e.Endpoint)
}

// Resolve joins endpoint and base into one absolute URL. An already-absolute
// endpoint is returned unchanged. The join is a pure string concatenation:
// trailing slashes are stripped from base, exactly one leading slash is kept
// on the endpoint, and no percent-encoding or query merging happens.
func Resolve(endpoint, base string) (string, error) {
	if absoluteURL.MatchString(endpoint) {
		return endpoint, nil
	}

	if base == "" {
		return "", &ResolutionError{Endpoint: endpoint}
	}

	base = strings.TrimRight(base, "/")
	if !strings.HasPrefix(endpoint, "/") {
		endpoint = "/" + endpoint
	}

	return base + endpoint, nil
}
