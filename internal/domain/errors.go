package domain

import "errors"

var (
	// ErrNetworkFailure covers transport errors, timeouts, and non-2xx responses.
	ErrNetworkFailure = errors.New("network failure")

	// ErrMalformedResponse covers bodies that do not decode or lack a numeric score.
	ErrMalformedResponse = errors.New("malformed response")
)
