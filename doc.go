// Package bleemeo provides an HTTP client for the Bleemeo API.
//
// The client wraps [github.com/go-resty/resty/v2] with OAuth2
// authentication, transparent token refresh, pagination helpers and
// retry of throttled or transiently failing requests.
//
// # Basic Usage
//
//	c, err := bleemeo.NewClient(
//	    bleemeo.WithCredentials("user@example.com", "password"),
//	)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer c.Logout(ctx)
//
//	for metric, err := range c.Iterate(ctx, bleemeo.ResourceMetric, url.Values{"active": {"true"}}) {
//	    if err != nil {
//	        log.Fatal(err)
//	    }
//	    fmt.Printf("%s\n", metric)
//	}
//
// # Configuration
//
// All configuration is supplied as [Option] functions passed to
// [NewClient]. Invalid values are silently ignored and the default is
// retained; the assembled configuration is validated once by [NewClient].
// [FromEnv] loads the BLEEMEO_* environment variables. Either a
// username/password pair or an initial OAuth refresh token is required.
//
// # Authentication
//
// Tokens are obtained with the OAuth2 password grant (or the refresh
// grant when bootstrapping from a refresh token), attached to every
// request as a bearer credential and refreshed transparently when they
// expire or are rejected. Concurrent requests share one token: when
// several detect an expired token at the same time, a single refresh is
// performed and every request uses its result. Auth failures surface as
// [*AuthError]; match the cause with [errors.Is] against
// [ErrInvalidCredentials] and friends.
//
// # Retry Behaviour
//
// Rate-limited responses (429) are retried after the server's
// Retry-After hint, or an exponential backoff when the hint is missing,
// until the cumulative wait would exceed the ceiling configured with
// [WithThrottleMaxAutoRetryDelay]; past it the call fails with an error
// matching [ErrThrottleExceeded]. Server errors (5xx) and transient
// connection failures are retried on an independent, bounded budget
// ([WithRetryCount]). Client errors (4xx) are never retried and surface
// as [*APIError] carrying the last response. Retry decisions are
// deterministic; no jitter is applied.
//
// # Logging
//
// Implement [RequestLogger] and supply it via [WithRequestLogger] to
// integrate with your logging library. The default [NoopLogger] discards
// all log output. Ensure your implementation redacts credentials and
// tokens from request and response bodies before persisting logs.
package bleemeo
