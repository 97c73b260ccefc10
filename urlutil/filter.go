package urlutil

import (
	"fmt"
	"net/url"
	"strings"
)

// IsSameHost reports whether target is served by exactly host.
// Ports and schemes are ignored and subdomains do not match, so
// docs.example.com is a different origin from example.com.
func IsSameHost(target *url.URL, host string) bool {
	if target == nil {
		return false
	}
	return target.Hostname() == host
}

// IsHTTPScheme returns true if the URL has an http or https scheme.
func IsHTTPScheme(u *url.URL) bool {
	if u == nil {
		return false
	}
	scheme := strings.ToLower(u.Scheme)
	return scheme == "http" || scheme == "https"
}

// ResolveReference resolves a possibly-relative href against base.
// Absolute hrefs are returned as parsed; relative ones are resolved
// with net/url.URL.ResolveReference. The fragment is always dropped.
func ResolveReference(base *url.URL, href string) (*url.URL, error) {
	ref, err := url.Parse(strings.TrimSpace(href))
	if err != nil {
		return nil, fmt.Errorf("parse href %q: %w", href, err)
	}

	resolved := ref
	if !ref.IsAbs() {
		resolved = base.ResolveReference(ref)
	}
	resolved.Fragment = ""
	resolved.RawFragment = ""
	return resolved, nil
}
