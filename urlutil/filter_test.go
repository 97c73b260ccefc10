package urlutil

import (
	"net/url"
	"testing"
)

func mustParse(t *testing.T, raw string) *url.URL {
	t.Helper()
	u, err := url.Parse(raw)
	if err != nil {
		t.Fatalf("url.Parse(%q): %v", raw, err)
	}
	return u
}

func TestIsSameHost(t *testing.T) {
	tests := []struct {
		name      string
		targetURL string
		host      string
		expected  bool
	}{
		{
			name:      "same host",
			targetURL: "https://example.com/page",
			host:      "example.com",
			expected:  true,
		},
		{
			name:      "port ignored",
			targetURL: "http://127.0.0.1:8080/page",
			host:      "127.0.0.1",
			expected:  true,
		},
		{
			name:      "subdomain does not match",
			targetURL: "https://blog.example.com/post",
			host:      "example.com",
			expected:  false,
		},
		{
			name:      "different domain",
			targetURL: "https://other.com/page",
			host:      "example.com",
			expected:  false,
		},
		{
			name:      "scheme agnostic",
			targetURL: "http://example.com/page",
			host:      "example.com",
			expected:  true,
		},
		{
			name:      "mailto has no host",
			targetURL: "mailto:user@example.com",
			host:      "example.com",
			expected:  false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := IsSameHost(mustParse(t, tt.targetURL), tt.host)
			if got != tt.expected {
				t.Errorf("IsSameHost(%q, %q) = %v, want %v", tt.targetURL, tt.host, got, tt.expected)
			}
		})
	}
}

func TestIsHTTPScheme(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected bool
	}{
		{name: "https scheme", input: "https://example.com", expected: true},
		{name: "http scheme", input: "HTTP://example.com", expected: true},
		{name: "mailto scheme", input: "mailto:user@example.com", expected: false},
		{name: "javascript scheme", input: "javascript:void(0)", expected: false},
		{name: "ftp scheme", input: "ftp://files.example.com", expected: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := IsHTTPScheme(mustParse(t, tt.input)); got != tt.expected {
				t.Errorf("IsHTTPScheme(%q) = %v, want %v", tt.input, got, tt.expected)
			}
		})
	}

	if IsHTTPScheme(nil) {
		t.Error("IsHTTPScheme(nil) = true, want false")
	}
}

func TestResolveReference(t *testing.T) {
	tests := []struct {
		name     string
		base     string
		ref      string
		expected string
		wantErr  bool
	}{
		{
			name:     "absolute URL returned as-is",
			base:     "https://example.com",
			ref:      "https://other.com/page",
			expected: "https://other.com/page",
		},
		{
			name:     "relative path resolved",
			base:     "https://example.com/blog/",
			ref:      "post1",
			expected: "https://example.com/blog/post1",
		},
		{
			name:     "root-relative resolved",
			base:     "https://example.com/blog/",
			ref:      "/about",
			expected: "https://example.com/about",
		},
		{
			name:     "protocol-relative",
			base:     "https://example.com",
			ref:      "//cdn.example.com/file",
			expected: "https://cdn.example.com/file",
		},
		{
			name:     "fragment dropped",
			base:     "https://example.com/docs/",
			ref:      "intro#setup",
			expected: "https://example.com/docs/intro",
		},
		{
			name:    "unparsable href",
			base:    "https://example.com",
			ref:     "http://[::1",
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ResolveReference(mustParse(t, tt.base), tt.ref)
			if (err != nil) != tt.wantErr {
				t.Fatalf("ResolveReference() error = %v, wantErr %v", err, tt.wantErr)
			}
			if tt.wantErr {
				return
			}
			if got.String() != tt.expected {
				t.Errorf("ResolveReference(%q, %q) = %v, want %v", tt.base, tt.ref, got, tt.expected)
			}
		})
	}
}
