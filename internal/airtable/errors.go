package airtable

import (
	"fmt"

	"github.com/starford/folio/internal/apperr"
)

// FetchError is returned for any non-success, non-429 response.
type FetchError struct {
	Table  string
	Status int
}

func (e *FetchError) Error() string {
	return fmt.Sprintf("airtable: fetch %s: unexpected status %d", e.Table, e.Status)
}

// RateLimitError is returned for HTTP 429. It matches apperr.ErrRateLimited
// via errors.Is so callers can apply their own backoff policy; the client
// itself never retries.
type RateLimitError struct {
	Table string
}

func (e *RateLimitError) Error() string {
	return fmt.Sprintf("airtable: fetch %s: rate limited", e.Table)
}

func (e *RateLimitError) Is(target error) bool {
	return target == apperr.ErrRateLimited
}
