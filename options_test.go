package bleemeo

import (
	"testing"
	"time"
)

func TestNewClientOptions(t *testing.T) {
	t.Parallel()

	opts := newClientOptions()

	if opts.endpoint != defaultEndpoint {
		t.Errorf("expected endpoint=%s, got %s", defaultEndpoint, opts.endpoint)
	}

	if opts.oauthClientID != defaultOAuthClientID {
		t.Errorf("expected the default OAuth client id, got %s", opts.oauthClientID)
	}

	if opts.throttleMaxAutoRetryDelay != time.Minute {
		t.Errorf("expected throttleMaxAutoRetryDelay=1m, got %v", opts.throttleMaxAutoRetryDelay)
	}

	if opts.retryCount != 3 {
		t.Errorf("expected retryCount=3, got %d", opts.retryCount)
	}

	if opts.retryWaitTime != 500*time.Millisecond {
		t.Errorf("expected retryWaitTime=500ms, got %v", opts.retryWaitTime)
	}

	if opts.retryMaxWaitTime != 3*time.Second {
		t.Errorf("expected retryMaxWaitTime=3s, got %v", opts.retryMaxWaitTime)
	}

	if opts.requestLogger == nil {
		t.Error("expected requestLogger to be set")
	}

	if opts.requestHeaders["User-Agent"] != defaultUserAgent {
		t.Errorf("expected User-Agent=%s, got %s", defaultUserAgent, opts.requestHeaders["User-Agent"])
	}

	if opts.requestHeaders["Accept"] != "application/json" {
		t.Errorf("expected Accept=application/json, got %s", opts.requestHeaders["Accept"])
	}
}

func TestWithEndpoint(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{"valid", "https://api.example.com", "https://api.example.com"},
		{"trimmed", "  https://api.example.com  ", "https://api.example.com"},
		{"empty ignored", "", defaultEndpoint},
		{"whitespace ignored", "   ", defaultEndpoint},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			opts := newClientOptions()
			WithEndpoint(tt.input)(opts)

			if opts.endpoint != tt.expected {
				t.Errorf("expected endpoint=%s, got %s", tt.expected, opts.endpoint)
			}
		})
	}
}

func TestWithCredentials(t *testing.T) {
	t.Parallel()

	opts := newClientOptions()
	WithCredentials("jdoe@example.com", "secret")(opts)

	if opts.username != "jdoe@example.com" {
		t.Errorf("expected username=jdoe@example.com, got %s", opts.username)
	}

	if opts.password != "secret" {
		t.Errorf("expected password=secret, got %s", opts.password)
	}
}

func TestWithInitialOAuthRefreshToken(t *testing.T) {
	t.Parallel()

	opts := newClientOptions()
	WithInitialOAuthRefreshToken("my-refresh")(opts)

	if opts.initialRefreshToken != "my-refresh" {
		t.Errorf("expected initialRefreshToken=my-refresh, got %s", opts.initialRefreshToken)
	}
}

func TestWithOAuthClient(t *testing.T) {
	t.Parallel()

	t.Run("valid", func(t *testing.T) {
		t.Parallel()

		opts := newClientOptions()
		WithOAuthClient("my-client", "my-secret")(opts)

		if opts.oauthClientID != "my-client" {
			t.Errorf("expected oauthClientID=my-client, got %s", opts.oauthClientID)
		}

		if opts.oauthClientSecret != "my-secret" {
			t.Errorf("expected oauthClientSecret=my-secret, got %s", opts.oauthClientSecret)
		}
	})

	t.Run("empty id keeps default", func(t *testing.T) {
		t.Parallel()

		opts := newClientOptions()
		WithOAuthClient("", "my-secret")(opts)

		if opts.oauthClientID != defaultOAuthClientID {
			t.Errorf("expected the default OAuth client id, got %s", opts.oauthClientID)
		}
	})
}

func TestWithAccountID(t *testing.T) {
	t.Parallel()

	opts := newClientOptions()
	WithAccountID("acc-1")(opts)

	if opts.accountID != "acc-1" {
		t.Errorf("expected accountID=acc-1, got %s", opts.accountID)
	}
}

func TestWithRequestHeader(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name          string
		header        string
		value         string
		expectIgnored bool
	}{
		{"valid header", "X-Custom", "value", false},
		{"user agent overridable", "User-Agent", "my-agent/1.0", false},
		{"empty header ignored", "", "value", true},
		{"whitespace header ignored", "   ", "value", true},
		{"Accept protected", "Accept", "text/plain", true},
		{"accept protected (case insensitive)", "ACCEPT", "text/plain", true},
		{"Authorization protected", "Authorization", "Bearer stolen", true},
		{"authorization protected (case insensitive)", "authorization", "Bearer stolen", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			opts := newClientOptions()
			originalAccept := opts.requestHeaders["Accept"]
			originalLen := len(opts.requestHeaders)

			WithRequestHeader(tt.header, tt.value)(opts)

			if tt.expectIgnored {
				if opts.requestHeaders["Accept"] != originalAccept {
					t.Error("Accept should not be changed")
				}
				if _, ok := opts.requestHeaders["Authorization"]; ok {
					t.Error("Authorization should never be set from options")
				}
				if tt.header == "" || tt.header == "   " {
					if len(opts.requestHeaders) != originalLen {
						t.Error("empty header should not add to headers")
					}
				}
			} else if opts.requestHeaders[tt.header] != tt.value {
				t.Errorf("expected header %s=%s, got %s", tt.header, tt.value, opts.requestHeaders[tt.header])
			}
		})
	}
}

func TestWithThrottleMaxAutoRetryDelay(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		input    time.Duration
		expected time.Duration
	}{
		{"valid", 30 * time.Second, 30 * time.Second},
		{"zero disables auto retry", 0, 0},
		{"negative ignored", -time.Second, time.Minute}, // default is 1m
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			opts := newClientOptions()
			WithThrottleMaxAutoRetryDelay(tt.input)(opts)

			if opts.throttleMaxAutoRetryDelay != tt.expected {
				t.Errorf("expected throttleMaxAutoRetryDelay=%v, got %v", tt.expected, opts.throttleMaxAutoRetryDelay)
			}
		})
	}
}

func TestWithRetryCount(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		input    int
		expected int
	}{
		{"valid positive", 5, 5},
		{"zero", 0, 0},
		{"negative ignored", -1, 3}, // default is 3
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			opts := newClientOptions()
			WithRetryCount(tt.input)(opts)

			if opts.retryCount != tt.expected {
				t.Errorf("expected retryCount=%d, got %d", tt.expected, opts.retryCount)
			}
		})
	}
}

func TestWithRetryWaitTime(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		input    time.Duration
		expected time.Duration
	}{
		{"valid", 200 * time.Millisecond, 200 * time.Millisecond},
		{"minimum valid", 100 * time.Millisecond, 100 * time.Millisecond},
		{"below minimum ignored", 50 * time.Millisecond, 500 * time.Millisecond}, // default is 500ms
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			opts := newClientOptions()
			WithRetryWaitTime(tt.input)(opts)

			if opts.retryWaitTime != tt.expected {
				t.Errorf("expected retryWaitTime=%v, got %v", tt.expected, opts.retryWaitTime)
			}
		})
	}
}

func TestWithRetryMaxWaitTime(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		input    time.Duration
		expected time.Duration
	}{
		{"valid", 5 * time.Second, 5 * time.Second},
		{"minimum valid", 100 * time.Millisecond, 100 * time.Millisecond},
		{"below minimum ignored", 50 * time.Millisecond, 3 * time.Second}, // default is 3s
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			opts := newClientOptions()
			WithRetryMaxWaitTime(tt.input)(opts)

			if opts.retryMaxWaitTime != tt.expected {
				t.Errorf("expected retryMaxWaitTime=%v, got %v", tt.expected, opts.retryMaxWaitTime)
			}
		})
	}
}

func TestWithRequestLogger(t *testing.T) {
	t.Parallel()

	t.Run("valid logger", func(t *testing.T) {
		t.Parallel()

		opts := newClientOptions()
		logger := &NoopLogger{}
		WithRequestLogger(logger)(opts)

		if opts.requestLogger != logger {
			t.Error("expected requestLogger to be set")
		}
	})

	t.Run("nil ignored", func(t *testing.T) {
		t.Parallel()

		opts := newClientOptions()
		originalLogger := opts.requestLogger
		WithRequestLogger(nil)(opts)

		if opts.requestLogger != originalLogger {
			t.Error("nil logger should be ignored")
		}
	})
}

func TestWithRateLimit(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name          string
		rps           float64
		burst         int
		expectIgnored bool
	}{
		{"valid", 10, 5, false},
		{"zero rate ignored", 0, 5, true},
		{"negative rate ignored", -1, 5, true},
		{"zero burst ignored", 10, 0, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			opts := newClientOptions()
			WithRateLimit(tt.rps, tt.burst)(opts)

			if tt.expectIgnored {
				if opts.requestsPerSecond != 0 || opts.requestsBurst != 0 {
					t.Errorf("expected rate limit to be ignored, got %v/%d", opts.requestsPerSecond, opts.requestsBurst)
				}
			} else if opts.requestsPerSecond != tt.rps || opts.requestsBurst != tt.burst {
				t.Errorf("expected %v/%d, got %v/%d", tt.rps, tt.burst, opts.requestsPerSecond, opts.requestsBurst)
			}
		})
	}
}

func TestFromEnv(t *testing.T) {
	t.Setenv("BLEEMEO_API_URL", "https://env.example.com")
	t.Setenv("BLEEMEO_ACCOUNT_ID", "env-account")
	t.Setenv("BLEEMEO_USER", "env-user")
	t.Setenv("BLEEMEO_PASSWORD", "env-password")
	t.Setenv("BLEEMEO_OAUTH_CLIENT_ID", "env-client")
	t.Setenv("BLEEMEO_OAUTH_CLIENT_SECRET", "env-secret")
	t.Setenv("BLEEMEO_OAUTH_INITIAL_REFRESH_TOKEN", "env-refresh")

	opts := newClientOptions()
	FromEnv()(opts)

	if opts.endpoint != "https://env.example.com" {
		t.Errorf("expected endpoint from env, got %s", opts.endpoint)
	}

	if opts.accountID != "env-account" {
		t.Errorf("expected accountID from env, got %s", opts.accountID)
	}

	if opts.username != "env-user" || opts.password != "env-password" {
		t.Errorf("expected credentials from env, got %s/%s", opts.username, opts.password)
	}

	if opts.oauthClientID != "env-client" || opts.oauthClientSecret != "env-secret" {
		t.Errorf("expected OAuth client from env, got %s/%s", opts.oauthClientID, opts.oauthClientSecret)
	}

	if opts.initialRefreshToken != "env-refresh" {
		t.Errorf("expected initial refresh token from env, got %s", opts.initialRefreshToken)
	}
}

func TestFromEnv_LaterOptionsTakePrecedence(t *testing.T) {
	t.Setenv("BLEEMEO_USER", "env-user")
	t.Setenv("BLEEMEO_PASSWORD", "env-password")

	opts := newClientOptions()
	FromEnv()(opts)
	WithCredentials("explicit-user", "explicit-password")(opts)

	if opts.username != "explicit-user" {
		t.Errorf("expected explicit credentials to win, got %s", opts.username)
	}
}

func TestOptionsValidate(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name      string
		modify    func(*Options)
		wantError string
	}{
		{
			name:      "valid with credentials",
			modify:    func(o *Options) { o.username = "jdoe@example.com" },
			wantError: "",
		},
		{
			name:      "valid with initial refresh token",
			modify:    func(o *Options) { o.initialRefreshToken = "my-refresh" },
			wantError: "",
		},
		{
			name:      "no credentials",
			modify:    func(_ *Options) {},
			wantError: ErrNoCredentials.Error(),
		},
		{
			name: "retryCount exceeds max",
			modify: func(o *Options) {
				o.username = "jdoe@example.com"
				o.retryCount = 101
			},
			wantError: "retryCount must not exceed 100",
		},
		{
			name: "retryWaitTime below minimum",
			modify: func(o *Options) {
				o.username = "jdoe@example.com"
				o.retryWaitTime = 50 * time.Millisecond
			},
			wantError: "retryWaitTime must be at least 100ms",
		},
		{
			name: "retryMaxWaitTime less than retryWaitTime",
			modify: func(o *Options) {
				o.username = "jdoe@example.com"
				o.retryWaitTime = 1 * time.Second
				o.retryMaxWaitTime = 500 * time.Millisecond
			},
			wantError: "retryMaxWaitTime (500ms) must be greater than or equal to retryWaitTime (1s)",
		},
		{
			name: "nil requestLogger",
			modify: func(o *Options) {
				o.username = "jdoe@example.com"
				o.requestLogger = nil
			},
			wantError: "requestLogger must not be nil",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			opts := newClientOptions()
			tt.modify(opts)

			err := opts.Validate()

			if tt.wantError == "" {
				if err != nil {
					t.Errorf("expected no error, got %v", err)
				}
			} else {
				if err == nil {
					t.Errorf("expected error containing %q, got nil", tt.wantError)
				} else if err.Error() != tt.wantError {
					t.Errorf("expected error %q, got %q", tt.wantError, err.Error())
				}
			}
		})
	}
}
