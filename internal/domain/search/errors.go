package search

import "errors"

var (
	// ErrInvalidScope is returned when a search has no organisation to run in.
	ErrInvalidScope = errors.New("search: organisation not found")
	// ErrRetrieval wraps any store failure. No partial page accompanies it.
	ErrRetrieval = errors.New("search: retrieval failed")
	// ErrUnparseableDate is returned by NormalizeDay. The compiler recovers
	// from it by dropping the filter.
	ErrUnparseableDate = errors.New("search: unparseable date")
)
