package bleemeo

import (
	"context"
	"errors"
	"net"
	"net/http"
	"time"
)

// classification buckets a response (or transport failure) for the retry
// policy. Unauthorized is listed for completeness but is handled by the
// request loop's refresh-and-replay path, not by the policy.
type classification int

const (
	classSuccess classification = iota
	classRateLimited
	classServerError
	classUnauthorized
	classClientError
)

func classify(statusCode int) classification {
	switch {
	case statusCode == http.StatusUnauthorized:
		return classUnauthorized
	case statusCode == http.StatusTooManyRequests:
		return classRateLimited
	case statusCode >= 500:
		return classServerError
	case statusCode >= 400:
		return classClientError
	default:
		return classSuccess
	}
}

// retryState tracks a single logical call's retry progress. It is created
// when the call starts and discarded when it ends; it is never shared
// between calls.
type retryState struct {
	rateLimitAttempts int
	serverAttempts    int
	elapsedWait       time.Duration
}

type retryDecision struct {
	retry  bool
	wait   time.Duration
	reason error // give-up cause, may be nil when the response speaks for itself
}

// retryPolicy decides whether a classified response should be retried and
// for how long to wait. Decisions are deterministic: identical
// (classification, retryAfter, state) inputs always produce identical
// decisions, no jitter is applied.
//
// Rate-limited responses and transient server errors draw on independent
// budgets: rate-limit waits accumulate against throttleMaxDelay, server
// errors get at most serverRetryCount attempts with their own bounded
// backoff. A transient 5xx can therefore never starve the wait ceiling
// reserved for legitimate rate-limit cooperation.
type retryPolicy struct {
	baseWait         time.Duration
	maxWait          time.Duration
	serverRetryCount int
	throttleMaxDelay time.Duration // 0 disables rate-limit auto-retry
}

func (p retryPolicy) decide(class classification, retryAfter time.Duration, state *retryState) retryDecision {
	switch class {
	case classRateLimited:
		wait := retryAfter
		if wait <= 0 {
			wait = backoff(p.baseWait, p.maxWait, state.rateLimitAttempts)
		}

		if state.elapsedWait+wait > p.throttleMaxDelay {
			return retryDecision{reason: ErrThrottleExceeded}
		}

		state.rateLimitAttempts++
		state.elapsedWait += wait

		return retryDecision{retry: true, wait: wait}

	case classServerError:
		if state.serverAttempts >= p.serverRetryCount {
			return retryDecision{}
		}

		wait := backoff(p.baseWait, p.maxWait, state.serverAttempts)
		state.serverAttempts++

		return retryDecision{retry: true, wait: wait}

	default:
		return retryDecision{}
	}
}

// backoff returns the exponential delay for the given attempt, doubling
// from base and capped at ceiling. base acts as the lower bound so the
// loop can never busy-spin.
func backoff(base, ceiling time.Duration, attempt int) time.Duration {
	wait := base
	for i := 0; i < attempt && wait < ceiling; i++ {
		wait *= 2
	}
	if wait > ceiling {
		wait = ceiling
	}
	return wait
}

// retryableTransportError reports whether a transport-level failure is
// worth retrying. Context cancellation, deadline exceeded and DNS
// resolution failures are never retried; other connection errors are
// treated as transient.
func retryableTransportError(err error) bool {
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return false
	}

	var dnsErr *net.DNSError
	if errors.As(err, &dnsErr) {
		return false
	}

	return true
}
