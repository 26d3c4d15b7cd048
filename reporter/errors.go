package reporter

import "errors"

// Sentinel errors for the reporter package.
var (
	// ErrInternal reports an event sequence that violates the reporter's
	// invariants, such as a non-failing result kind reaching the failure
	// formatter. It is never recovered.
	ErrInternal = errors.New("reporter: internal error")
)
