package client

import (
	"errors"
	"fmt"
	"net/url"
)

var (
	// ErrOffline reports that the client is flagged offline. While the
	// flag is set, every request failure is classified as connectivity.
	ErrOffline = errors.New("no internet connection")
	// ErrTimeout reports that a request exceeded its time budget and
	// the in-flight call was cancelled.
	ErrTimeout = errors.New("request timed out")
	// ErrQueuedOffline reports that a mutation issued while offline was
	// parked in the queue for replay once connectivity returns.
	ErrQueuedOffline = errors.New("request queued until connectivity returns")
)

// StatusError is returned for responses outside the 2xx range.
type StatusError struct {
	Status int
	Reason string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("HTTP %d: %s", e.Status, e.Reason)
}

// IsNetworkError reports whether err is a network/connectivity-class
// failure. Timeouts and HTTP status errors are not network-class: a
// queued request that fails with either is dropped, not retried.
func IsNetworkError(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, ErrOffline) {
		return true
	}
	if errors.Is(err, ErrTimeout) {
		return false
	}
	var statusErr *StatusError
	if errors.As(err, &statusErr) {
		return false
	}
	var urlErr *url.Error
	return errors.As(err, &urlErr)
}
