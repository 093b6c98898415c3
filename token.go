package bleemeo

import (
	"sync/atomic"
	"time"
)

// Token is an immutable snapshot of an OAuth access/refresh token pair.
// A refresh always produces a new Token; an existing Token is never
// mutated, which is what makes pointer identity a valid version for the
// token store's compare-and-swap.
type Token struct {
	AccessToken  string
	RefreshToken string // empty when the grant issued no refresh token
	ObtainedAt   time.Time
	ExpiresIn    time.Duration
}

// IsExpired reports whether the token should be considered stale at the
// given time, refreshing skew ahead of the actual expiry. Tokens without
// a known lifetime (ExpiresIn <= 0) never expire by time; they are only
// replaced when the API rejects them.
func (t *Token) IsExpired(now time.Time, skew time.Duration) bool {
	if t == nil {
		return true
	}
	if t.ExpiresIn <= 0 {
		return false
	}
	return !now.Before(t.ObtainedAt.Add(t.ExpiresIn - skew))
}

// tokenStore holds the client's current token. Concurrent requests that
// all observe an expired token resolve their refresh race through
// compareAndSwap: the first install wins, losers re-read the store. No
// lock is ever held across a network call.
type tokenStore struct {
	current atomic.Pointer[Token]
}

// get returns the latest token, or nil when none has been obtained yet.
func (s *tokenStore) get() *Token {
	return s.current.Load()
}

// compareAndSwap installs next only if the store still holds prev and
// reports whether the install happened.
func (s *tokenStore) compareAndSwap(prev, next *Token) bool {
	return s.current.CompareAndSwap(prev, next)
}

// clear drops the current token unconditionally.
func (s *tokenStore) clear() {
	s.current.Store(nil)
}
