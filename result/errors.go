package result

import (
	"context"
	"errors"
	"net"
	"strings"
)

// ErrorCategory represents the classification of a skipped page.
type ErrorCategory string

const (
	CategoryTimeout           ErrorCategory = "timeout"
	CategoryDNSFailure        ErrorCategory = "dns_failure"
	CategoryConnectionRefused ErrorCategory = "connection_refused"
	Category4xx               ErrorCategory = "4xx"
	Category5xx               ErrorCategory = "5xx"
	CategoryNotHTML           ErrorCategory = "not_html"
	CategoryUnknown           ErrorCategory = "unknown"
)

// CategoryOrder lists categories from most to least actionable.
var CategoryOrder = []ErrorCategory{
	Category4xx,
	Category5xx,
	CategoryNotHTML,
	CategoryTimeout,
	CategoryDNSFailure,
	CategoryConnectionRefused,
	CategoryUnknown,
}

// ClassifyError determines the category of a failed fetch based on the error,
// the HTTP status code and whether the body was rejected as non-HTML.
func ClassifyError(err error, statusCode int, notHTML bool) ErrorCategory {
	if notHTML {
		return CategoryNotHTML
	}

	if statusCode > 0 {
		if statusCode >= 400 && statusCode <= 499 {
			return Category4xx
		}
		if statusCode >= 500 {
			return Category5xx
		}
	}

	if err == nil {
		return CategoryUnknown
	}

	if errors.Is(err, context.DeadlineExceeded) {
		return CategoryTimeout
	}

	var dnsErr *net.DNSError
	if errors.As(err, &dnsErr) {
		return CategoryDNSFailure
	}

	var opErr *net.OpError
	if errors.As(err, &opErr) {
		if opErr.Op == "dial" && strings.Contains(opErr.Error(), "connection refused") {
			return CategoryConnectionRefused
		}
		if opErr.Timeout() {
			return CategoryTimeout
		}
	}

	return CategoryUnknown
}

// FormatCategory returns a human-readable label for an error category.
func FormatCategory(cat ErrorCategory) string {
	switch cat {
	case CategoryTimeout:
		return "Timeouts"
	case CategoryDNSFailure:
		return "DNS Failures"
	case CategoryConnectionRefused:
		return "Connection Refused"
	case Category4xx:
		return "Client Errors (4xx)"
	case Category5xx:
		return "Server Errors (5xx)"
	case CategoryNotHTML:
		return "Not HTML"
	default:
		return "Other Errors"
	}
}
