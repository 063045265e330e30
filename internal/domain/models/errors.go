package models

import "errors"

// Error taxonomy for the pipeline. Per-candidate errors are logged and
// absorbed; only ErrRunFailed propagates to the caller.
var (
	// ErrDataUnavailable marks missing or insufficient price, flow, or
	// news data for one candidate.
	ErrDataUnavailable = errors.New("data unavailable")

	// ErrExternalAPI marks a failed or timed-out external call.
	ErrExternalAPI = errors.New("external api failure")

	// ErrMalformedResponse marks an external response that could not be
	// parsed even after fence stripping and regex extraction.
	ErrMalformedResponse = errors.New("malformed response")

	// ErrConfiguration marks a missing credential or invalid setting.
	ErrConfiguration = errors.New("configuration error")

	// ErrRunFailed marks a run-level failure: candidate selection itself
	// failed, so no RunResult is emitted at all.
	ErrRunFailed = errors.New("run failed")
)
