package bleemeo

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"
)

const (
	defaultEndpoint      = "https://api.bleemeo.com"
	defaultOAuthClientID = "1fc6de3e-8750-472e-baea-3ba22bb4eb56"
	defaultUserAgent     = "Bleemeo Go Client"

	defaultThrottleMaxAutoRetryDelay = time.Minute
	defaultExpirySkew                = 10 * time.Second
)

type Option func(*Options)

type Options struct {
	endpoint                  string
	accountID                 string
	username                  string
	password                  string
	oauthClientID             string
	oauthClientSecret         string
	initialRefreshToken       string
	requestHeaders            map[string]string
	throttleMaxAutoRetryDelay time.Duration
	retryCount                int
	retryWaitTime             time.Duration
	retryMaxWaitTime          time.Duration
	expirySkew                time.Duration
	requestLogger             RequestLogger
	requestsPerSecond         float64
	requestsBurst             int
}

func newClientOptions() *Options {
	return &Options{
		endpoint:                  defaultEndpoint,
		oauthClientID:             defaultOAuthClientID,
		throttleMaxAutoRetryDelay: defaultThrottleMaxAutoRetryDelay,
		retryCount:                3,
		retryWaitTime:             500 * time.Millisecond,
		retryMaxWaitTime:          3 * time.Second,
		expirySkew:                defaultExpirySkew,
		requestLogger:             &NoopLogger{},
		requestHeaders: map[string]string{
			"User-Agent": defaultUserAgent,
			"Accept":     "application/json",
		},
	}
}

// WithEndpoint overrides the API base URL, https://api.bleemeo.com by
// default.
func WithEndpoint(endpoint string) Option {
	return func(o *Options) {
		endpoint = strings.TrimSpace(endpoint)
		if endpoint != "" {
			o.endpoint = endpoint
		}
	}
}

// WithCredentials configures the resource-owner password grant with the
// given account credentials.
func WithCredentials(username, password string) Option {
	return func(o *Options) {
		o.username = username
		o.password = password
	}
}

// WithInitialOAuthRefreshToken bootstraps authentication from an existing
// refresh token, as an alternative to username/password credentials.
func WithInitialOAuthRefreshToken(token string) Option {
	return func(o *Options) {
		o.initialRefreshToken = token
	}
}

// WithOAuthClient overrides the OAuth application used for token
// exchanges. The secret may be empty for public clients.
func WithOAuthClient(id, secret string) Option {
	return func(o *Options) {
		if id != "" {
			o.oauthClientID = id
		}
		o.oauthClientSecret = secret
	}
}

// WithAccountID scopes all requests to the given account by sending the
// X-Bleemeo-Account header.
func WithAccountID(id string) Option {
	return func(o *Options) {
		o.accountID = id
	}
}

// WithRequestHeader adds a custom header to every outgoing request.
// Accept and Authorization are managed by the client and cannot be
// overridden; invalid headers are silently ignored.
func WithRequestHeader(header, value string) Option {
	return func(o *Options) {
		header = strings.TrimSpace(header)

		if header == "" || strings.EqualFold(header, "Accept") || strings.EqualFold(header, "Authorization") {
			return
		}

		o.requestHeaders[header] = value
	}
}

// WithThrottleMaxAutoRetryDelay bounds the cumulative time one logical
// call may spend waiting out rate-limit responses before giving up with
// [ErrThrottleExceeded]. Zero disables automatic retry of throttled
// requests entirely. The default is one minute.
func WithThrottleMaxAutoRetryDelay(maxDelay time.Duration) Option {
	return func(o *Options) {
		if maxDelay >= 0 {
			o.throttleMaxAutoRetryDelay = maxDelay
		}
	}
}

// WithRetryCount sets how many times a transient server error (5xx or
// connection failure) is retried before giving up. This budget is
// independent from the rate-limit wait ceiling.
func WithRetryCount(count int) Option {
	return func(o *Options) {
		if count >= 0 {
			o.retryCount = count
		}
	}
}

// WithRetryWaitTime sets the base backoff delay between retries.
func WithRetryWaitTime(waitTime time.Duration) Option {
	return func(o *Options) {
		if waitTime >= 100*time.Millisecond {
			o.retryWaitTime = waitTime
		}
	}
}

// WithRetryMaxWaitTime caps the backoff delay between retries.
func WithRetryMaxWaitTime(maxWaitTime time.Duration) Option {
	return func(o *Options) {
		if maxWaitTime >= 100*time.Millisecond {
			o.retryMaxWaitTime = maxWaitTime
		}
	}
}

// WithRequestLogger supplies a logger for request, retry and token
// lifecycle events. The default discards all output.
func WithRequestLogger(logger RequestLogger) Option {
	return func(o *Options) {
		if logger != nil {
			o.requestLogger = logger
		}
	}
}

// WithRateLimit throttles outgoing requests client-side to the given
// sustained rate and burst size, so well-behaved callers avoid tripping
// the server's limiter in the first place. Disabled by default.
func WithRateLimit(requestsPerSecond float64, burst int) Option {
	return func(o *Options) {
		if requestsPerSecond > 0 && burst > 0 {
			o.requestsPerSecond = requestsPerSecond
			o.requestsBurst = burst
		}
	}
}

// FromEnv loads any configuration present in the BLEEMEO_* environment
// variables. Options appearing after FromEnv in the option list take
// precedence over the environment.
func FromEnv() Option {
	return func(o *Options) {
		if v := os.Getenv("BLEEMEO_API_URL"); v != "" {
			o.endpoint = v
		}
		if v := os.Getenv("BLEEMEO_ACCOUNT_ID"); v != "" {
			o.accountID = v
		}
		if v := os.Getenv("BLEEMEO_USER"); v != "" {
			o.username = v
		}
		if v := os.Getenv("BLEEMEO_PASSWORD"); v != "" {
			o.password = v
		}
		if v := os.Getenv("BLEEMEO_OAUTH_CLIENT_ID"); v != "" {
			o.oauthClientID = v
		}
		if v := os.Getenv("BLEEMEO_OAUTH_CLIENT_SECRET"); v != "" {
			o.oauthClientSecret = v
		}
		if v := os.Getenv("BLEEMEO_OAUTH_INITIAL_REFRESH_TOKEN"); v != "" {
			o.initialRefreshToken = v
		}
	}
}

func (o *Options) Validate() error {
	if o.username == "" && o.initialRefreshToken == "" {
		return ErrNoCredentials
	}

	if o.retryCount > 100 {
		return errors.New("retryCount must not exceed 100")
	}

	if o.retryWaitTime < 100*time.Millisecond {
		return errors.New("retryWaitTime must be at least 100ms")
	}

	if o.retryMaxWaitTime < o.retryWaitTime {
		return fmt.Errorf("retryMaxWaitTime (%v) must be greater than or equal to retryWaitTime (%v)", o.retryMaxWaitTime, o.retryWaitTime)
	}

	if o.requestLogger == nil {
		return errors.New("requestLogger must not be nil")
	}

	return nil
}
