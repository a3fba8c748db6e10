package scrape

import (
	"fmt"
	"time"
)

// NetworkError reports a request that failed outright or came back with a
// non-success status.
type NetworkError struct {
	URL    string
	Status int
	Err    error
}

func (e *NetworkError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("fetch %s: %v", e.URL, e.Err)
	}
	return fmt.Sprintf("fetch %s: unexpected status %d", e.URL, e.Status)
}

func (e *NetworkError) Unwrap() error { return e.Err }

// ParseError reports an expected page structure that wasn't there.
type ParseError struct {
	URL     string
	Missing string
}

func (e *ParseError) Error() string {
	if e.URL == "" {
		return fmt.Sprintf("parse: missing %s", e.Missing)
	}
	return fmt.Sprintf("parse %s: missing %s", e.URL, e.Missing)
}

// RowParseError reports a results row whose cell contents could not be
// converted. It aborts extraction of the whole table.
type RowParseError struct {
	Row    int
	Column int
	Field  string
	Err    error
}

func (e *RowParseError) Error() string {
	return fmt.Sprintf("row %d, column %d (%s): %v", e.Row, e.Column, e.Field, e.Err)
}

func (e *RowParseError) Unwrap() error { return e.Err }

// TimeoutError reports a crawl that did not finish within its deadline.
// No partial results accompany it.
type TimeoutError struct {
	Deadline time.Duration
}

func (e *TimeoutError) Error() string {
	return fmt.Sprintf("crawl did not complete within %v", e.Deadline)
}
