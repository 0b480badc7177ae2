package health

import "errors"

var (
	// ErrCheckFailed is returned by Report.Err when one or more checks fail.
	ErrCheckFailed = errors.New("health: check failed")

	// ErrCheckTimeout is recorded for a check still running when the run times out.
	ErrCheckTimeout = errors.New("health: check timeout")
)
