package identity

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	dErrors "backoffice/pkg/domain-errors"
)

var tokenService = NewService(
	"test-signing-key",
	"test-issuer",
	time.Hour,
)

func Test_SignAndVerify(t *testing.T) {
	token, err := tokenService.Sign(7)
	require.NoError(t, err)
	require.NotEmpty(t, token)

	userID, err := tokenService.Verify(token)
	require.NoError(t, err)
	assert.Equal(t, int64(7), userID)
}

func Test_Sign_RejectsNonPositiveUserID(t *testing.T) {
	_, err := tokenService.Sign(0)
	require.ErrorIs(t, err, dErrors.New(dErrors.CodeInvalidInput, "user id must be positive"))

	_, err = tokenService.Sign(-5)
	require.Error(t, err)
}

func Test_Verify_InvalidToken(t *testing.T) {
	_, err := tokenService.Verify("invalid-token-string")
	require.ErrorIs(t, err, dErrors.New(dErrors.CodeUnauthorized, "invalid token"))
}

func Test_Verify_ExpiredToken(t *testing.T) {
	expired := NewService("test-signing-key", "test-issuer", time.Hour)
	// Mint directly so the expiry sits in the past.
	claims := Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   "7",
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(-time.Hour)),
			IssuedAt:  jwt.NewNumericDate(time.Now().Add(-2 * time.Hour)),
			Issuer:    "test-issuer",
		},
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte("test-signing-key"))
	require.NoError(t, err)

	_, err = expired.Verify(token)
	require.ErrorIs(t, err, dErrors.New(dErrors.CodeUnauthorized, "token has expired"))
}

func Test_Verify_WrongKey(t *testing.T) {
	other := NewService("another-signing-key", "test-issuer", time.Hour)
	token, err := other.Sign(7)
	require.NoError(t, err)

	_, err = tokenService.Verify(token)
	require.ErrorIs(t, err, dErrors.New(dErrors.CodeUnauthorized, "invalid token"))
}

func Test_Verify_NonNumericSubject(t *testing.T) {
	claims := jwt.RegisteredClaims{
		Subject:   "not-a-number",
		ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		IssuedAt:  jwt.NewNumericDate(time.Now()),
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte("test-signing-key"))
	require.NoError(t, err)

	_, err = tokenService.Verify(token)
	require.ErrorIs(t, err, dErrors.New(dErrors.CodeUnauthorized, "invalid token subject"))
}

func Test_Verify_ZeroSubject(t *testing.T) {
	claims := jwt.RegisteredClaims{
		Subject:   "0",
		ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		IssuedAt:  jwt.NewNumericDate(time.Now()),
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte("test-signing-key"))
	require.NoError(t, err)

	_, err = tokenService.Verify(token)
	require.Error(t, err)
	assert.True(t, dErrors.HasCode(err, dErrors.CodeUnauthorized))
}

func Test_VerifyAuthHeader(t *testing.T) {
	token, err := tokenService.Sign(7)
	require.NoError(t, err)

	t.Run("valid bearer header", func(t *testing.T) {
		userID, err := tokenService.VerifyAuthHeader("Bearer " + token)
		require.NoError(t, err)
		assert.Equal(t, int64(7), userID)
	})

	t.Run("missing header", func(t *testing.T) {
		_, err := tokenService.VerifyAuthHeader("")
		require.ErrorIs(t, err, dErrors.New(dErrors.CodeUnauthorized, "missing bearer token"))
	})

	t.Run("wrong scheme", func(t *testing.T) {
		_, err := tokenService.VerifyAuthHeader("Basic dXNlcjpwYXNz")
		require.Error(t, err)
		assert.True(t, dErrors.HasCode(err, dErrors.CodeUnauthorized))
	})

	t.Run("bearer with no token", func(t *testing.T) {
		_, err := tokenService.VerifyAuthHeader("Bearer ")
		require.Error(t, err)
	})

	t.Run("bearer garbage", func(t *testing.T) {
		_, err := tokenService.VerifyAuthHeader("Bearer garbage")
		require.ErrorIs(t, err, dErrors.New(dErrors.CodeUnauthorized, "invalid token"))
	})
}
