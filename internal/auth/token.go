package auth

import (
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// Claims carried inside every access token. Subject is the account email.
type Claims struct {
	Role string `json:"role"`
	jwt.RegisteredClaims
}

// TokenCodec signs and verifies access tokens with a symmetric key.
// Now is overridable so expiry behaviour can be tested with a fixed clock.
type TokenCodec struct {
	Secret []byte
	TTL    time.Duration
	Now    func() time.Time
}

func NewTokenCodec(secret []byte, ttl time.Duration) *TokenCodec {
	return &TokenCodec{Secret: secret, TTL: ttl, Now: time.Now}
}

func (c *TokenCodec) now() time.Time {
	if c.Now != nil {
		return c.Now()
	}
	return time.Now()
}

func (c *TokenCodec) Issue(subject, role string) (string, error) {
	if strings.TrimSpace(subject) == "" {
		return "", ErrInvalidToken
	}
	now := c.now().UTC()
	claims := Claims{
		Role: role,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   subject,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(c.TTL)),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(c.Secret)
}

// Parse verifies the signature and structural shape of the token. Expiry is
// checked separately via IsExpired so callers can distinguish the two cases.
func (c *TokenCodec) Parse(raw string) (*Claims, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil, ErrInvalidToken
	}
	claims := &Claims{}
	parsed, err := jwt.ParseWithClaims(raw, claims, func(t *jwt.Token) (interface{}, error) {
		if t.Method != jwt.SigningMethodHS256 {
			return nil, ErrInvalidToken
		}
		return c.Secret, nil
	}, jwt.WithoutClaimsValidation())
	if err != nil || !parsed.Valid {
		return nil, ErrInvalidToken
	}
	if strings.TrimSpace(claims.Subject) == "" || claims.ExpiresAt == nil {
		return nil, ErrInvalidToken
	}
	return claims, nil
}

func (c *TokenCodec) ExtractSubject(raw string) (string, error) {
	claims, err := c.Parse(raw)
	if err != nil {
		return "", err
	}
	return claims.Subject, nil
}

// IsExpired fails closed: any token that cannot be parsed counts as expired.
func (c *TokenCodec) IsExpired(raw string) bool {
	claims, err := c.Parse(raw)
	if err != nil {
		return true
	}
	return !c.now().Before(claims.ExpiresAt.Time)
}

// Validate reports whether the token is usable for the given account email:
// signature verifies, subject matches and expiry has not passed.
func (c *TokenCodec) Validate(raw, email string) error {
	claims, err := c.Parse(raw)
	if err != nil {
		return err
	}
	if claims.Subject != email {
		return ErrInvalidToken
	}
	if !c.now().Before(claims.ExpiresAt.Time) {
		return ErrTokenExpired
	}
	return nil
}
