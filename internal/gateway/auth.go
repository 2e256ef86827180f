package gateway

import (
	"crypto/rand"
	"crypto/subtle"
	"encoding/hex"
	"fmt"
	"sync"
	"time"
)

// sessionCookieName is the cookie carrying the workspace session token.
const sessionCookieName = "session_token"

// Sessions tracks issued session tokens server-side with their expiry,
// so a stolen or stale cookie value is not enough to pass the gate.
type Sessions struct {
	ttl time.Duration
	now func() time.Time

	mu     sync.Mutex
	tokens map[string]time.Time // token -> expiry
}

// NewSessions creates a session registry with the given token lifetime.
func NewSessions(ttl time.Duration) *Sessions {
	return &Sessions{
		ttl:    ttl,
		now:    time.Now,
		tokens: make(map[string]time.Time),
	}
}

// Issue mints a new session token valid for the configured lifetime.
func (s *Sessions) Issue() (token string, expiry time.Time) {
	buf := make([]byte, 32)
	if _, err := rand.Read(buf); err != nil {
		// crypto/rand does not fail on supported platforms; a predictable
		// session token would silently defeat the gate, so refuse to mint
		// one at all.
		panic(fmt.Sprintf("session token entropy unavailable: %v", err))
	}
	token = hex.EncodeToString(buf)
	expiry = s.now().Add(s.ttl)

	s.mu.Lock()
	s.tokens[token] = expiry
	s.mu.Unlock()
	return token, expiry
}

// Valid reports whether a token was issued by this server and has not
// expired. Expired tokens are pruned on sight.
func (s *Sessions) Valid(token string) bool {
	if token == "" {
		return false
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	expiry, ok := s.tokens[token]
	if !ok {
		return false
	}
	if s.now().After(expiry) {
		delete(s.tokens, token)
		return false
	}
	return true
}

// Revoke invalidates a token immediately. Unknown tokens are a no-op.
func (s *Sessions) Revoke(token string) {
	s.mu.Lock()
	delete(s.tokens, token)
	s.mu.Unlock()
}

// Count returns the number of live sessions.
func (s *Sessions) Count() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	n := 0
	now := s.now()
	for _, expiry := range s.tokens {
		if now.Before(expiry) {
			n++
		}
	}
	return n
}

// safeEqual performs a constant-time string comparison to prevent timing
// attacks. It avoids early-return on length mismatch to prevent leaking
// secret length via timing.
func safeEqual(a, b string) bool {
	lenMatch := subtle.ConstantTimeEq(int32(len(a)), int32(len(b)))
	cmp := subtle.ConstantTimeCompare([]byte(a), []byte(b))
	return subtle.ConstantTimeSelect(lenMatch, cmp, 0) == 1
}
