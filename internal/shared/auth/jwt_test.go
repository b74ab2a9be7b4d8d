package auth

import (
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestIssuer(t *testing.T) *Issuer {
	t.Helper()
	issuer, err := NewIssuer("test-secret-key-for-jwt-signing-minimum-32-bytes", time.Hour, 24*time.Hour)
	require.NoError(t, err)
	return issuer
}

func TestIssuePairRoundTrip(t *testing.T) {
	issuer := newTestIssuer(t)

	pair, err := issuer.IssuePair(42)
	require.NoError(t, err)
	assert.Len(t, strings.Split(pair.Access, "."), 3)
	assert.NotEqual(t, pair.Access, pair.Refresh)

	claims, err := issuer.Verify(pair.Access, TokenAccess)
	require.NoError(t, err)
	assert.Equal(t, int64(42), claims.UserID)
	assert.NotEmpty(t, claims.ID)
}

func TestVerifyRejectsWrongTokenType(t *testing.T) {
	issuer := newTestIssuer(t)
	pair, err := issuer.IssuePair(1)
	require.NoError(t, err)

	_, err = issuer.Verify(pair.Refresh, TokenAccess)
	assert.ErrorIs(t, err, ErrInvalidToken)

	_, err = issuer.Verify(pair.Access, TokenRefresh)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestVerifyRejectsExpired(t *testing.T) {
	issuer := newTestIssuer(t)
	issued := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	issuer.now = func() time.Time { return issued }
	pair, err := issuer.IssuePair(7)
	require.NoError(t, err)

	issuer.now = func() time.Time { return issued.Add(2 * time.Hour) }
	_, err = issuer.Verify(pair.Access, TokenAccess)
	assert.True(t, errors.Is(err, ErrInvalidToken))

	_, err = issuer.Verify(pair.Refresh, TokenRefresh)
	assert.NoError(t, err)
}

func TestVerifyRejectsForeignSignature(t *testing.T) {
	issuer := newTestIssuer(t)
	other, err := NewIssuer("another-secret", time.Hour, time.Hour)
	require.NoError(t, err)

	pair, err := other.IssuePair(3)
	require.NoError(t, err)
	_, err = issuer.Verify(pair.Access, TokenAccess)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestVerifyRejectsNoneAlgorithm(t *testing.T) {
	issuer := newTestIssuer(t)
	claims := Claims{
		TokenType: TokenAccess,
		UserID:    9,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		},
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodNone, claims).SignedString(jwt.UnsafeAllowNoneSignatureType)
	require.NoError(t, err)

	_, err = issuer.Verify(token, TokenAccess)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestRefreshIssuesAccessToken(t *testing.T) {
	issuer := newTestIssuer(t)
	pair, err := issuer.IssuePair(5)
	require.NoError(t, err)

	access, err := issuer.Refresh(pair.Refresh)
	require.NoError(t, err)
	claims, err := issuer.Verify(access, TokenAccess)
	require.NoError(t, err)
	assert.Equal(t, int64(5), claims.UserID)

	_, err = issuer.Refresh(pair.Access)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestResolveSecret(t *testing.T) {
	secret, err := ResolveSecret("dev", "")
	require.NoError(t, err)
	assert.Equal(t, devSecret, secret)

	_, err = ResolveSecret("production", " ")
	assert.Error(t, err)

	secret, err = ResolveSecret("production", "s3cr3t")
	require.NoError(t, err)
	assert.Equal(t, "s3cr3t", secret)
}
