package crawler

import (
	"errors"
	"fmt"

	"github.com/lukemcguire/docscrawl/result"
)

var (
	// ErrInvalidStartURL is returned by New when the start URL is not absolute.
	ErrInvalidStartURL = errors.New("invalid start URL")

	// ErrNotHTML is returned by the spider when a body fails content sniffing.
	ErrNotHTML = errors.New("content is not HTML")
)

// FetchError reports a failed page request: a transport error or a non-2xx status.
type FetchError struct {
	URL        string
	StatusCode int // 0 when no response was received
	Err        error
}

func (e *FetchError) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("fetch %s: status %d", e.URL, e.StatusCode)
	}
	return fmt.Sprintf("fetch %s: %v", e.URL, e.Err)
}

func (e *FetchError) Unwrap() error {
	return e.Err
}

// classify maps a spider error onto a skip category.
func classify(err error) result.ErrorCategory {
	var fetchErr *FetchError
	status := 0
	if errors.As(err, &fetchErr) {
		status = fetchErr.StatusCode
	}
	return result.ClassifyError(err, status, errors.Is(err, ErrNotHTML))
}
