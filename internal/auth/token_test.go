package auth

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestIssueAndExtractSubject(t *testing.T) {
	codec := NewTokenCodec([]byte("test-secret"), time.Minute)

	token, err := codec.Issue("a@x.com", "CLIENT")
	require.NoError(t, err)
	require.NotEmpty(t, token)

	subject, err := codec.ExtractSubject(token)
	require.NoError(t, err)
	require.Equal(t, "a@x.com", subject)

	claims, err := codec.Parse(token)
	require.NoError(t, err)
	require.Equal(t, "CLIENT", claims.Role)
	require.False(t, codec.IsExpired(token))
	require.NoError(t, codec.Validate(token, "a@x.com"))
}

func TestIssueEmptySubject(t *testing.T) {
	codec := NewTokenCodec([]byte("test-secret"), time.Minute)
	_, err := codec.Issue("  ", "CLIENT")
	require.ErrorIs(t, err, ErrInvalidToken)
}

func TestParseRejectsWrongKey(t *testing.T) {
	codec := NewTokenCodec([]byte("test-secret"), time.Minute)
	other := NewTokenCodec([]byte("other-secret"), time.Minute)

	token, err := other.Issue("a@x.com", "CLIENT")
	require.NoError(t, err)

	_, err = codec.Parse(token)
	require.ErrorIs(t, err, ErrInvalidToken)
}

func TestParseRejectsGarbage(t *testing.T) {
	codec := NewTokenCodec([]byte("test-secret"), time.Minute)

	for _, raw := range []string{"", "   ", "not.a.token", "a.b"} {
		_, err := codec.Parse(raw)
		require.ErrorIs(t, err, ErrInvalidToken, "raw=%q", raw)
		require.True(t, codec.IsExpired(raw), "unparsable token must count as expired")
	}
}

func TestExpiryWithZeroTTL(t *testing.T) {
	issued := time.Now().UTC()
	codec := NewTokenCodec([]byte("test-secret"), 0)
	codec.Now = func() time.Time { return issued }

	token, err := codec.Issue("a@x.com", "CLIENT")
	require.NoError(t, err)

	codec.Now = func() time.Time { return issued.Add(time.Second) }
	require.True(t, codec.IsExpired(token))
	require.ErrorIs(t, codec.Validate(token, "a@x.com"), ErrTokenExpired)
}

func TestValidateSubjectMismatch(t *testing.T) {
	codec := NewTokenCodec([]byte("test-secret"), time.Minute)

	token, err := codec.Issue("a@x.com", "CLIENT")
	require.NoError(t, err)

	require.ErrorIs(t, codec.Validate(token, "b@x.com"), ErrInvalidToken)
}

func TestTokenStaysValidUntilTTL(t *testing.T) {
	issued := time.Now().UTC()
	codec := NewTokenCodec([]byte("test-secret"), time.Hour)
	codec.Now = func() time.Time { return issued }

	token, err := codec.Issue("a@x.com", "ARTISAN")
	require.NoError(t, err)

	codec.Now = func() time.Time { return issued.Add(59 * time.Minute) }
	require.NoError(t, codec.Validate(token, "a@x.com"))

	codec.Now = func() time.Time { return issued.Add(61 * time.Minute) }
	require.ErrorIs(t, codec.Validate(token, "a@x.com"), ErrTokenExpired)
}
