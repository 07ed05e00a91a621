package timer

import "errors"

var (
	// ErrStoreWrite marks a solve that was timed but could not be saved.
	ErrStoreWrite = errors.New("failed to save solve")
	// ErrStoreRead marks a failure to read the history for a comparison.
	ErrStoreRead = errors.New("failed to read solve history")
)
