package auth

import (
	"sync"
	"time"
)

// RevocationStore marks tokens as unusable before their natural expiry.
// Implementations must be safe for concurrent use.
type RevocationStore interface {
	Revoke(token string)
	IsRevoked(token string) bool
}

// MemoryRevocationStore keeps revoked tokens in memory for the lifetime of
// the process. Entries are dropped once the token's own expiry has passed,
// at which point validation rejects it anyway.
type MemoryRevocationStore struct {
	mu     sync.RWMutex
	tokens map[string]time.Time
	codec  *TokenCodec
}

func NewMemoryRevocationStore(codec *TokenCodec) *MemoryRevocationStore {
	return &MemoryRevocationStore{
		tokens: make(map[string]time.Time),
		codec:  codec,
	}
}

func (s *MemoryRevocationStore) Revoke(token string) {
	var exp time.Time
	if claims, err := s.codec.Parse(token); err == nil {
		exp = claims.ExpiresAt.Time
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.sweepLocked()
	s.tokens[token] = exp
}

func (s *MemoryRevocationStore) IsRevoked(token string) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	_, ok := s.tokens[token]
	return ok
}

// sweepLocked evicts entries whose embedded expiry has passed. Tokens that
// could not be parsed carry a zero expiry and are kept forever.
func (s *MemoryRevocationStore) sweepLocked() {
	now := s.codec.now()
	for token, exp := range s.tokens {
		if !exp.IsZero() && now.After(exp) {
			delete(s.tokens, token)
		}
	}
}
