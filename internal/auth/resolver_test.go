package auth

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/require"
)

func TestResolveIdentityRoundTrip(t *testing.T) {
	resolver, err := NewJWTResolver("test-secret")
	require.NoError(t, err)

	token, err := SignIdentity("test-secret", "jane@example.com", time.Hour)
	require.NoError(t, err)

	identity, err := resolver.ResolveIdentity(token)
	require.NoError(t, err)
	require.Equal(t, Identity("jane@example.com"), identity)
}

func TestResolveIdentityRejectsGarbage(t *testing.T) {
	resolver, err := NewJWTResolver("test-secret")
	require.NoError(t, err)

	_, err = resolver.ResolveIdentity("not-a-token")
	require.ErrorIs(t, err, ErrInvalidToken)
}

func TestResolveIdentityRejectsWrongSecret(t *testing.T) {
	resolver, err := NewJWTResolver("test-secret")
	require.NoError(t, err)

	token, err := SignIdentity("other-secret", "jane@example.com", time.Hour)
	require.NoError(t, err)

	_, err = resolver.ResolveIdentity(token)
	require.ErrorIs(t, err, ErrInvalidToken)
}

func TestResolveIdentityRejectsExpired(t *testing.T) {
	resolver, err := NewJWTResolver("test-secret")
	require.NoError(t, err)

	token, err := SignIdentity("test-secret", "jane@example.com", -time.Minute)
	require.NoError(t, err)

	_, err = resolver.ResolveIdentity(token)
	require.ErrorIs(t, err, ErrInvalidToken)
}

func TestResolveIdentityRejectsMissingSubject(t *testing.T) {
	resolver, err := NewJWTResolver("test-secret")
	require.NoError(t, err)

	claims := jwt.RegisteredClaims{
		IssuedAt:  jwt.NewNumericDate(time.Now()),
		ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte("test-secret"))
	require.NoError(t, err)

	_, err = resolver.ResolveIdentity(token)
	require.ErrorIs(t, err, ErrInvalidToken)
}

func TestNewJWTResolverRequiresSecret(t *testing.T) {
	_, err := NewJWTResolver("   ")
	require.Error(t, err)
}
