package bleemeo

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/url"
	"time"

	"github.com/go-resty/resty/v2"
	"golang.org/x/sync/singleflight"
)

const (
	tokenPath  = "/o/token/"
	revokePath = "/o/revoke_token/"
)

// authenticator performs the OAuth exchanges against the authorization
// endpoint and owns the token store. Concurrent calls that observe the
// same stale token are collapsed into a single network exchange through
// the singleflight group; the result is installed with a compare-and-swap
// so late losers simply re-read the winner's token.
type authenticator struct {
	rest   *resty.Client
	logger RequestLogger

	clientID            string
	clientSecret        string
	username            string
	password            string
	initialRefreshToken string
	expirySkew          time.Duration

	store tokenStore
	group singleflight.Group
}

// currentToken returns a token believed valid, obtaining or refreshing
// one first when the store is empty or holds an expired token.
func (a *authenticator) currentToken(ctx context.Context) (*Token, error) {
	tok := a.store.get()
	if !tok.IsExpired(time.Now(), a.expirySkew) {
		return tok, nil
	}

	return a.renew(ctx, tok)
}

// renew replaces stale with a freshly exchanged token. All callers that
// observed the same stale token share one exchange; whichever result is
// installed first wins and everyone ends up using it.
func (a *authenticator) renew(ctx context.Context, stale *Token) (*Token, error) {
	key := "bootstrap"
	if stale != nil {
		key = stale.AccessToken
	}

	result, err, _ := a.group.Do(key, func() (any, error) {
		// Another call may have renewed while this one queued.
		if cur := a.store.get(); cur != stale && !cur.IsExpired(time.Now(), a.expirySkew) {
			return cur, nil
		}

		next, err := a.exchange(ctx, stale)
		if err != nil {
			return nil, err
		}

		if !a.store.compareAndSwap(stale, next) {
			if cur := a.store.get(); cur != nil {
				return cur, nil
			}
			// The store was cleared while exchanging; keep our result.
			a.store.compareAndSwap(nil, next)
		}

		return next, nil
	})
	if err != nil {
		return nil, err
	}

	return result.(*Token), nil
}

// exchange picks the applicable grant for stale: the refresh grant when
// stale carries a refresh value, otherwise the configured credentials.
// A rejected refresh falls back to the password grant when a username is
// configured; without one the rejection is terminal.
func (a *authenticator) exchange(ctx context.Context, stale *Token) (*Token, error) {
	if stale != nil && stale.RefreshToken != "" {
		next, err := a.refresh(ctx, stale)
		if err == nil {
			return next, nil
		}
		if a.username == "" || !errors.Is(err, ErrInvalidCredentials) {
			return nil, err
		}
		a.logger.Warnf("token refresh rejected, falling back to password grant")
	}

	return a.obtain(ctx)
}

// obtain fetches a first token from the configured credentials: the
// initial refresh token when one was supplied, else the password grant.
func (a *authenticator) obtain(ctx context.Context) (*Token, error) {
	if a.initialRefreshToken != "" {
		next, err := a.grant(ctx, url.Values{
			"grant_type":    {"refresh_token"},
			"refresh_token": {a.initialRefreshToken},
		})
		if err == nil {
			return next, nil
		}
		if a.username == "" || !errors.Is(err, ErrInvalidCredentials) {
			return nil, err
		}
		a.logger.Warnf("initial refresh token rejected, falling back to password grant")
	}

	return a.grant(ctx, url.Values{
		"grant_type": {"password"},
		"username":   {a.username},
		"password":   {a.password},
	})
}

// refresh exchanges current's refresh value for a new token.
func (a *authenticator) refresh(ctx context.Context, current *Token) (*Token, error) {
	if current == nil || current.RefreshToken == "" {
		return nil, &AuthError{Reason: ErrNoRefreshAvailable}
	}

	return a.grant(ctx, url.Values{
		"grant_type":    {"refresh_token"},
		"refresh_token": {current.RefreshToken},
	})
}

// grant posts a form-encoded token request and parses the token payload.
func (a *authenticator) grant(ctx context.Context, form url.Values) (*Token, error) {
	form.Set("client_id", a.clientID)
	if a.clientSecret != "" {
		form.Set("client_secret", a.clientSecret)
	}

	resp, err := a.rest.R().
		SetContext(ctx).
		SetHeader("X-Requested-With", "XMLHttpRequest").
		SetFormDataFromValues(form).
		Post(tokenPath)
	if err != nil {
		return nil, &AuthError{Reason: ErrTransportFailure, Err: err}
	}

	switch {
	case resp.StatusCode() == http.StatusOK:
	case resp.StatusCode() >= 400 && resp.StatusCode() < 500:
		return nil, &AuthError{Reason: ErrInvalidCredentials, StatusCode: resp.StatusCode(), Body: resp.Body()}
	default:
		return nil, &AuthError{Reason: ErrTransportFailure, StatusCode: resp.StatusCode(), Body: resp.Body()}
	}

	var payload struct {
		AccessToken  string  `json:"access_token"`
		RefreshToken string  `json:"refresh_token"`
		ExpiresIn    float64 `json:"expires_in"`
	}
	if err := json.Unmarshal(resp.Body(), &payload); err != nil {
		return nil, &AuthError{Reason: ErrMalformedResponse, Err: err, StatusCode: resp.StatusCode(), Body: resp.Body()}
	}
	if payload.AccessToken == "" {
		return nil, &AuthError{Reason: ErrMalformedResponse, StatusCode: resp.StatusCode(), Body: resp.Body()}
	}

	a.logger.Debugf("obtained new access token (grant_type=%s)", form.Get("grant_type"))

	return &Token{
		AccessToken:  payload.AccessToken,
		RefreshToken: payload.RefreshToken,
		ObtainedAt:   time.Now(),
		ExpiresIn:    time.Duration(payload.ExpiresIn * float64(time.Second)),
	}, nil
}

// revoke invalidates tok's refresh value on the server so it cannot be
// reused. Tokens without a refresh value have nothing to revoke.
func (a *authenticator) revoke(ctx context.Context, tok *Token) error {
	if tok == nil || tok.RefreshToken == "" {
		return nil
	}

	form := url.Values{
		"token":           {tok.RefreshToken},
		"client_id":       {a.clientID},
		"token_type_hint": {"refresh_token"},
	}
	if a.clientSecret != "" {
		form.Set("client_secret", a.clientSecret)
	}

	resp, err := a.rest.R().
		SetContext(ctx).
		SetHeader("X-Requested-With", "XMLHttpRequest").
		SetFormDataFromValues(form).
		Post(revokePath)
	if err != nil {
		return &AuthError{Reason: ErrTransportFailure, Err: err}
	}
	if resp.StatusCode() != http.StatusOK {
		return &APIError{
			StatusCode: resp.StatusCode(),
			Method:     http.MethodPost,
			URL:        resp.Request.URL,
			Body:       resp.Body(),
		}
	}

	return nil
}
