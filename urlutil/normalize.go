package urlutil

import (
	"errors"
	"fmt"
	"net/url"
	"strings"
)

// ErrNotAbsolute is returned when a URL lacks a scheme or host.
var ErrNotAbsolute = errors.New("URL must have both scheme and host")

// Normalize parses rawURL and returns it in canonical form.
// Normalization includes:
// - Lowercasing the scheme and host
// - Stripping fragments (#section)
// - Preserving the path and query parameters as written
//
// Returns an error if the input is empty or is not an absolute URL.
func Normalize(rawURL string) (*url.URL, error) {
	if rawURL == "" {
		return nil, errors.New("cannot normalize empty URL")
	}

	parsed, err := url.Parse(rawURL)
	if err != nil {
		return nil, fmt.Errorf("normalize URL %q: %w", rawURL, err)
	}

	if parsed.Scheme == "" || parsed.Host == "" {
		return nil, fmt.Errorf("normalize URL %q: %w", rawURL, ErrNotAbsolute)
	}

	parsed.Scheme = strings.ToLower(parsed.Scheme)
	parsed.Host = strings.ToLower(parsed.Host)
	parsed.Fragment = ""
	parsed.RawFragment = ""

	return parsed, nil
}

// NormalizePath strips trailing slashes from a URL path. The result is the
// identity used for visited tracking, so "/docs/", "/docs" and "/docs//" are
// one page and the root path becomes the empty string.
func NormalizePath(path string) string {
	return strings.TrimRight(path, "/")
}

// PathKey returns the visited-tracking identity of u.
func PathKey(u *url.URL) string {
	return NormalizePath(u.Path)
}
