package catalog

import "errors"

var (
	// ErrNilSource is returned when a Cache is constructed without a source.
	ErrNilSource = errors.New("catalog source cannot be nil")

	// ErrInvalidTTL is returned for a non-positive cache TTL.
	ErrInvalidTTL = errors.New("catalog TTL must be positive")
)
