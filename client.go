package bleemeo

import (
	"context"
	"encoding/json"
	"fmt"
	"iter"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"sync/atomic"
	"time"

	"github.com/go-resty/resty/v2"
	"golang.org/x/time/rate"
)

// defaultThrottleDelay is assumed when the API throttles a request
// without supplying a Retry-After hint.
const defaultThrottleDelay = 30 * time.Second

const iteratePageSize = 2500

// Client is a helper to interact with the Bleemeo API, providing methods
// to retrieve, list, create, update and delete resources. It is safe for
// concurrent use; all requests share one token store and one transport.
type Client struct {
	options *Options
	rest    *resty.Client
	logger  RequestLogger
	auth    *authenticator
	policy  retryPolicy
	limiter *rate.Limiter

	// throttleUntil is the client-wide cooldown deadline (unix nanos) set
	// from the last server-supplied Retry-After hint. Calls issued before
	// it elapses fail fast instead of poking a server that asked for a
	// pause.
	throttleUntil atomic.Int64
}

// NewClient builds a Client from the given options. Either
// [WithCredentials] or [WithInitialOAuthRefreshToken] must be supplied
// (possibly through [FromEnv]); everything else has a default.
func NewClient(opts ...Option) (*Client, error) {
	options := newClientOptions()
	for _, opt := range opts {
		opt(options)
	}

	if err := options.Validate(); err != nil {
		return nil, fmt.Errorf("invalid options: %w", err)
	}

	rest := resty.New().
		SetBaseURL(options.endpoint).
		SetHeaders(options.requestHeaders)
	if options.accountID != "" {
		rest.SetHeader("X-Bleemeo-Account", options.accountID)
	}

	c := &Client{
		options: options,
		rest:    rest,
		logger:  options.requestLogger,
		policy: retryPolicy{
			baseWait:         options.retryWaitTime,
			maxWait:          options.retryMaxWaitTime,
			serverRetryCount: options.retryCount,
			throttleMaxDelay: options.throttleMaxAutoRetryDelay,
		},
		auth: &authenticator{
			rest:                rest,
			logger:              options.requestLogger,
			clientID:            options.oauthClientID,
			clientSecret:        options.oauthClientSecret,
			username:            options.username,
			password:            options.password,
			initialRefreshToken: options.initialRefreshToken,
			expirySkew:          options.expirySkew,
		},
	}

	if options.requestsPerSecond > 0 {
		c.limiter = rate.NewLimiter(rate.Limit(options.requestsPerSecond), options.requestsBurst)
	}

	return c, nil
}

// Do builds and executes an authenticated request against the given
// (relative) path, handling token refresh, throttled-request retry and
// transient server errors. It is the lower-level entry point every
// resource method funnels through; prefer [Client.Get], [Client.GetPage],
// [Client.Count], [Client.Iterate], [Client.Create], [Client.Update] and
// [Client.Delete] when they fit.
//
// The returned error is an [*AuthError], [*ThrottleError] or [*APIError]
// depending on what made the request fail.
func (c *Client) Do(ctx context.Context, method, path string, params url.Values, body any, headers http.Header) (json.RawMessage, error) {
	resp, err := c.do(ctx, method, path, params, body, headers)
	if err != nil {
		return nil, err
	}

	return json.RawMessage(resp.Body()), nil
}

// do drives one logical call: ensure a valid token, send, classify, and
// either return, refresh-and-replay once on 401, or wait out retryable
// responses within the policy's budgets.
func (c *Client) do(ctx context.Context, method, path string, params url.Values, body any, headers http.Header) (*resty.Response, error) {
	if deadline := c.throttleDeadline(); time.Now().Before(deadline) {
		return nil, &ThrottleError{
			APIError: APIError{StatusCode: http.StatusTooManyRequests, Method: method, URL: path},
			Delay:    time.Until(deadline),
			Deadline: deadline,
		}
	}

	tok, err := c.auth.currentToken(ctx)
	if err != nil {
		return nil, err
	}

	state := &retryState{}
	refreshed := false

	for {
		if c.limiter != nil {
			if err := c.limiter.Wait(ctx); err != nil {
				return nil, err
			}
		}

		resp, err := c.send(ctx, method, path, params, body, headers, tok)
		if err != nil {
			if !retryableTransportError(err) {
				return nil, fmt.Errorf("%s %s: %w", method, path, err)
			}

			decision := c.policy.decide(classServerError, 0, state)
			if !decision.retry {
				return nil, fmt.Errorf("%s %s: %w", method, path, err)
			}

			c.logger.Warnf("%s %s failed (%v), retrying in %s", method, path, err, decision.wait)

			if err := sleepContext(ctx, decision.wait); err != nil {
				return nil, err
			}

			continue
		}

		switch classify(resp.StatusCode()) {
		case classSuccess:
			return resp, nil

		case classUnauthorized:
			// One coordinated refresh-and-replay per logical call; a
			// second 401 with a fresh token is a hard failure.
			if refreshed {
				c.logger.Errorf("%s %s still unauthorized after token refresh", method, path)
				return nil, newAPIError(resp, nil)
			}

			c.logger.Warnf("access token rejected on %s %s, refreshing", method, path)

			tok, err = c.auth.renew(ctx, tok)
			if err != nil {
				return nil, err
			}
			refreshed = true

		case classRateLimited:
			hint := retryAfterHint(resp)
			if hint > 0 {
				c.noteThrottle(hint)
			}

			decision := c.policy.decide(classRateLimited, hint, state)
			if !decision.retry {
				c.logger.Errorf("%s %s throttled, giving up", method, path)
				return nil, newThrottleError(resp, hint, decision.reason)
			}

			c.logger.Warnf("%s %s throttled, retrying in %s", method, path, decision.wait)

			if err := sleepContext(ctx, decision.wait); err != nil {
				return nil, err
			}

		case classServerError:
			decision := c.policy.decide(classServerError, 0, state)
			if !decision.retry {
				return nil, newAPIError(resp, nil)
			}

			c.logger.Warnf("%s %s failed with status %d, retrying in %s", method, path, resp.StatusCode(), decision.wait)

			if err := sleepContext(ctx, decision.wait); err != nil {
				return nil, err
			}

		default:
			return nil, newAPIError(resp, nil)
		}
	}
}

func (c *Client) send(ctx context.Context, method, path string, params url.Values, body any, headers http.Header, tok *Token) (*resty.Response, error) {
	req := c.rest.R().
		SetContext(ctx).
		SetAuthToken(tok.AccessToken)

	if len(params) > 0 {
		req.SetQueryParamsFromValues(params)
	}
	if len(headers) > 0 {
		req.SetHeaderMultiValues(headers)
	}
	if body != nil {
		req.SetBody(body)
	}

	return req.Execute(method, requestURI(path))
}

// Get retrieves the resource with the given id, restricted to the given
// fields when any are named.
func (c *Client) Get(ctx context.Context, resource Resource, id string, fields ...string) (json.RawMessage, error) {
	return c.Do(ctx, http.MethodGet, string(resource)+id+"/", fieldsParams(fields), nil, nil)
}

// GetPage retrieves one page of resources matching params. To collect
// everything matching some params, prefer [Client.Iterate] which follows
// the API's larger pagination.
func (c *Client) GetPage(ctx context.Context, resource Resource, page, pageSize int, params url.Values) (json.RawMessage, error) {
	merged := cloneValues(params)
	merged.Set("page", strconv.Itoa(page))
	merged.Set("page_size", strconv.Itoa(pageSize))

	return c.Do(ctx, http.MethodGet, string(resource), merged, nil, nil)
}

// Count returns the number of resources matching params.
func (c *Client) Count(ctx context.Context, resource Resource, params url.Values) (int, error) {
	raw, err := c.GetPage(ctx, resource, 1, 0, params)
	if err != nil {
		return 0, err
	}

	var payload struct {
		Count int `json:"count"`
	}
	if err := json.Unmarshal(raw, &payload); err != nil {
		return 0, fmt.Errorf("parsing count response: %w", err)
	}

	return payload.Count, nil
}

// Iterate yields all resources of the given kind matching params,
// following the API's pagination links transparently. Iteration stops at
// the first error, which is yielded last.
func (c *Client) Iterate(ctx context.Context, resource Resource, params url.Values) iter.Seq2[json.RawMessage, error] {
	return func(yield func(json.RawMessage, error) bool) {
		merged := cloneValues(params)
		merged.Set("page_size", strconv.Itoa(iteratePageSize))

		next := string(resource)
		for next != "" {
			raw, err := c.Do(ctx, http.MethodGet, next, merged, nil, nil)
			if err != nil {
				yield(nil, err)
				return
			}

			var page struct {
				Results []json.RawMessage `json:"results"`
				Next    string            `json:"next"`
			}
			if err := json.Unmarshal(raw, &page); err != nil {
				yield(nil, fmt.Errorf("parsing page of %s: %w", resource, err))
				return
			}

			for _, result := range page.Results {
				if !yield(result, nil) {
					return
				}
			}

			next = page.Next
			merged = nil // the next URL already carries the query params
		}
	}
}

// Create creates a new resource of the given kind from body. Fields
// expected in the response can be named as varargs.
func (c *Client) Create(ctx context.Context, resource Resource, body any, fields ...string) (json.RawMessage, error) {
	return c.Do(ctx, http.MethodPost, string(resource), fieldsParams(fields), body, nil)
}

// Update patches the resource of the given kind and id with body; only
// the fields present in body are modified.
func (c *Client) Update(ctx context.Context, resource Resource, id string, body any, fields ...string) (json.RawMessage, error) {
	return c.Do(ctx, http.MethodPatch, string(resource)+id+"/", fieldsParams(fields), body, nil)
}

// Delete deletes the resource of the given kind and id.
func (c *Client) Delete(ctx context.Context, resource Resource, id string) error {
	_, err := c.Do(ctx, http.MethodDelete, string(resource)+id+"/", nil, nil, nil)

	return err
}

// Tokens returns the current access and refresh token pair, performing
// the initial authentication first if needed.
func (c *Client) Tokens(ctx context.Context) (access, refresh string, err error) {
	tok, err := c.auth.currentToken(ctx)
	if err != nil {
		return "", "", err
	}

	return tok.AccessToken, tok.RefreshToken, nil
}

// Logout revokes the current refresh token so it cannot be reused, then
// releases the transport. The client must not be used afterwards.
func (c *Client) Logout(ctx context.Context) error {
	tok := c.auth.store.get()
	err := c.auth.revoke(ctx, tok)
	c.auth.store.clear()
	c.Close()

	return err
}

// Close releases the underlying transport's idle connections. Unlike
// [Client.Logout] it does not touch server-side state.
func (c *Client) Close() {
	c.rest.GetClient().CloseIdleConnections()
}

func (c *Client) throttleDeadline() time.Time {
	return time.Unix(0, c.throttleUntil.Load())
}

// noteThrottle records a server-requested cooldown; the furthest deadline
// wins when several responses race.
func (c *Client) noteThrottle(delay time.Duration) {
	deadline := time.Now().Add(delay).UnixNano()

	for {
		cur := c.throttleUntil.Load()
		if cur >= deadline || c.throttleUntil.CompareAndSwap(cur, deadline) {
			return
		}
	}
}

func newAPIError(resp *resty.Response, reason error) *APIError {
	return &APIError{
		StatusCode: resp.StatusCode(),
		Method:     resp.Request.Method,
		URL:        resp.Request.URL,
		Body:       resp.Body(),
		Err:        reason,
	}
}

func newThrottleError(resp *resty.Response, hint time.Duration, reason error) *ThrottleError {
	delay := hint
	if delay <= 0 {
		delay = defaultThrottleDelay
	}

	return &ThrottleError{
		APIError: *newAPIError(resp, reason),
		Delay:    delay,
		Deadline: time.Now().Add(delay),
	}
}

// retryAfterHint parses the Retry-After header, in seconds. Absent or
// unparseable headers yield 0, letting the policy compute its own backoff.
func retryAfterHint(resp *resty.Response) time.Duration {
	seconds, err := strconv.Atoi(resp.Header().Get("Retry-After"))
	if err != nil || seconds < 0 {
		return 0
	}

	return time.Duration(seconds) * time.Second
}

// requestURI normalises a request path the way the API expects: routes
// always end with a slash. Absolute pagination URLs carrying a query
// string are passed through untouched.
func requestURI(path string) string {
	if !strings.HasSuffix(path, "/") && !strings.Contains(path, "?") {
		path += "/"
	}

	return path
}

func fieldsParams(fields []string) url.Values {
	if len(fields) == 0 {
		return nil
	}

	return url.Values{"fields": {strings.Join(fields, ",")}}
}

func cloneValues(params url.Values) url.Values {
	merged := make(url.Values, len(params)+2)
	for k, vs := range params {
		merged[k] = append([]string(nil), vs...)
	}

	return merged
}

func sleepContext(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
