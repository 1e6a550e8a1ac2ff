package apperr

import "errors"

var (
	ErrNotFound    = errors.New("not found")
	ErrRateLimited = errors.New("rate limited")
	ErrNoData      = errors.New("no portfolio data available")
)
