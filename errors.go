package bleemeo

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"
)

// Sentinel errors describing why an operation failed. Match them with
// [errors.Is] on any error returned by the client.
var (
	// ErrNoCredentials is returned by [NewClient] when neither a username
	// nor an initial OAuth refresh token is configured.
	ErrNoCredentials = errors.New("either a username or an initial OAuth refresh token must be provided")

	// ErrInvalidCredentials indicates the authorization server rejected
	// the configured credentials or refresh token.
	ErrInvalidCredentials = errors.New("invalid credentials")

	// ErrNoRefreshAvailable indicates a token refresh was requested but
	// the current token carries no refresh value.
	ErrNoRefreshAvailable = errors.New("no refresh token available")

	// ErrTransportFailure indicates the token endpoint could not be
	// reached or answered with a server-side failure.
	ErrTransportFailure = errors.New("transport failure")

	// ErrMalformedResponse indicates the token endpoint answered with a
	// payload that could not be parsed.
	ErrMalformedResponse = errors.New("malformed token response")

	// ErrThrottleExceeded indicates a request was abandoned because
	// retrying it would push the accumulated wait past the configured
	// maximum auto-retry delay. See [WithThrottleMaxAutoRetryDelay].
	ErrThrottleExceeded = errors.New("throttle max auto-retry delay exceeded")
)

// AuthError is returned when an OAuth token exchange fails. Reason is one
// of [ErrInvalidCredentials], [ErrNoRefreshAvailable], [ErrTransportFailure]
// or [ErrMalformedResponse] and is reachable through [errors.Is].
type AuthError struct {
	Reason     error
	Err        error // underlying cause, may be nil
	StatusCode int   // status of the token endpoint response, 0 on transport failures
	Body       []byte
}

func (e *AuthError) Error() string {
	msg := "authentication failed: " + e.Reason.Error()
	if e.StatusCode != 0 {
		msg = fmt.Sprintf("%s (status %d: %s)", msg, e.StatusCode, errorMessage(e.Body))
	}
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

func (e *AuthError) Unwrap() []error {
	if e.Err != nil {
		return []error{e.Reason, e.Err}
	}
	return []error{e.Reason}
}

// APIError is returned when the API answers a request with a
// non-successful status and the retry budget is exhausted or the status is
// not retryable. It always carries the last observed response.
type APIError struct {
	StatusCode int
	Method     string
	URL        string
	Body       []byte
	Err        error // wrapped give-up reason, may be nil
}

func (e *APIError) Error() string {
	return fmt.Sprintf("%s %s failed with status %d: %s", e.Method, e.URL, e.StatusCode, errorMessage(e.Body))
}

func (e *APIError) Unwrap() error { return e.Err }

// ThrottleError is an [APIError] raised when the API rate-limits a request
// and the client will not (or can no longer) retry it on the caller's
// behalf. Delay is how long the server asked to wait before retrying;
// Deadline is the moment the cooldown elapses.
//
// When the give-up was caused by the accumulated wait ceiling,
// errors.Is(err, [ErrThrottleExceeded]) reports true.
type ThrottleError struct {
	APIError
	Delay    time.Duration
	Deadline time.Time
}

func (e *ThrottleError) Error() string {
	msg := fmt.Sprintf("request throttled, retry after %s", e.Delay)
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

// errorMessage extracts a human-readable message from an API error body.
// JSON bodies with an "error" field yield that field, anything else falls
// back to the raw body.
func errorMessage(body []byte) string {
	if len(body) == 0 {
		return "(empty error body)"
	}

	var payload struct {
		Error string `json:"error"`
	}
	if err := json.Unmarshal(body, &payload); err == nil && payload.Error != "" {
		return payload.Error
	}

	return strings.TrimSpace(string(body))
}
