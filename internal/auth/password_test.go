package auth

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

// Low-cost parameters keep the tests fast.
func testParams() PasswordParams {
	return PasswordParams{
		SaltLength:  8,
		KeyLength:   16,
		MemoryKiB:   8 * 1024,
		TimeCost:    1,
		Parallelism: 1,
	}
}

func TestHashAndVerifyRoundTrip(t *testing.T) {
	encoded, err := HashPassword("correct horse battery staple", testParams())
	require.NoError(t, err)
	require.True(t, strings.HasPrefix(encoded, "$argon2id$v="))

	require.True(t, VerifyPassword(encoded, "correct horse battery staple"))
	require.False(t, VerifyPassword(encoded, "correct horse battery"))
	require.False(t, VerifyPassword(encoded, ""))
}

func TestHashIsSalted(t *testing.T) {
	first, err := HashPassword("secret", testParams())
	require.NoError(t, err)
	second, err := HashPassword("secret", testParams())
	require.NoError(t, err)

	require.NotEqual(t, first, second)
	require.True(t, VerifyPassword(first, "secret"))
	require.True(t, VerifyPassword(second, "secret"))
}

func TestHashEmbedsParameters(t *testing.T) {
	params := testParams()
	encoded, err := HashPassword("secret", params)
	require.NoError(t, err)

	decoded, salt, key, err := decodeHash(encoded)
	require.NoError(t, err)
	require.Equal(t, params.MemoryKiB, decoded.MemoryKiB)
	require.Equal(t, params.TimeCost, decoded.TimeCost)
	require.Equal(t, params.Parallelism, decoded.Parallelism)
	require.Len(t, salt, int(params.SaltLength))
	require.Len(t, key, int(params.KeyLength))
}

func TestVerifyFailsClosedOnMalformedHash(t *testing.T) {
	malformed := []string{
		"",
		"plaintext",
		"$argon2id$v=19$m=8192,t=1,p=1$salt",
		"$argon2id$v=19$m=0,t=0,p=0$AAAA$AAAA",
		"$argon2i$v=19$m=8192,t=1,p=1$AAAA$AAAA",
		"$argon2id$v=18$m=8192,t=1,p=1$AAAA$AAAA",
		"$argon2id$v=19$m=8192,t=1,p=1$!!!$AAAA",
	}
	for _, encoded := range malformed {
		require.False(t, VerifyPassword(encoded, "secret"), "encoded=%q", encoded)
	}
}

func TestHashRejectsEmptyPassword(t *testing.T) {
	_, err := HashPassword("", testParams())
	require.Error(t, err)
}
