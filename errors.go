package tcflow

import "errors"

// Sentinel errors.
var (
	// ErrConfigNotFound is returned when no .tcflow.yaml is found.
	ErrConfigNotFound = errors.New("tcflow: no .tcflow.yaml found")
)
