package internalerr

import "errors"

// Sentinel errors for common cases
var (
	ErrInvalidRule      = errors.New("invalid rule")
	ErrUnknownRule      = errors.New("unknown rule id")
	ErrInvalidInput     = errors.New("invalid input")
	ErrNotFound         = errors.New("not found")
	ErrStoreUnavailable = errors.New("store unavailable")
	ErrInvalidConfig    = errors.New("invalid configuration")
)
