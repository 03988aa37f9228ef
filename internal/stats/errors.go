package stats

import "errors"

var (
	// ErrServiceUnavailable means the platform client failed to initialize;
	// the tracker stays disabled for the rest of the session.
	ErrServiceUnavailable = errors.New("stats service unavailable")
	// ErrFetchFailed means a stats request completed with a failure.
	ErrFetchFailed = errors.New("stats fetch failed")
	// ErrStoreFailed means a store was refused or completed with a failure.
	ErrStoreFailed = errors.New("stats store failed")
	// ErrValidationRejected means the service reverted stats that broke a
	// constraint. The tracker re-reads instead of resubmitting.
	ErrValidationRejected = errors.New("stats rejected by validation")
)
