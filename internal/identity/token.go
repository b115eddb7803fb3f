// Package identity mints and verifies the bearer tokens that identify back
// office users. Verification is stateless: a token is valid iff its signature
// and expiry check out against the shared signing key and its subject is a
// positive integer user ID.
package identity

import (
	"errors"
	"strconv"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"

	dErrors "backoffice/pkg/domain-errors"
)

// DefaultTokenTTL matches the access token lifetime of the admin UI session.
const DefaultTokenTTL = time.Hour

// Claims represents the JWT claims for access tokens. The subject carries the
// user ID as a decimal string.
type Claims struct {
	jwt.RegisteredClaims
}

// Service handles token creation and validation against a single shared key.
type Service struct {
	signingKey []byte
	issuer     string
	ttl        time.Duration
}

// NewService constructs a token service. A zero ttl falls back to
// DefaultTokenTTL.
func NewService(signingKey string, issuer string, ttl time.Duration) *Service {
	if ttl <= 0 {
		ttl = DefaultTokenTTL
	}
	return &Service{
		signingKey: []byte(signingKey),
		issuer:     issuer,
		ttl:        ttl,
	}
}

// Sign mints a token whose subject is userID.
func (s *Service) Sign(userID int64) (string, error) {
	if userID <= 0 {
		return "", dErrors.New(dErrors.CodeInvalidInput, "user id must be positive")
	}

	now := time.Now()
	newToken := jwt.NewWithClaims(jwt.SigningMethodHS256, Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   strconv.FormatInt(userID, 10),
			ExpiresAt: jwt.NewNumericDate(now.Add(s.ttl)),
			IssuedAt:  jwt.NewNumericDate(now),
			Issuer:    s.issuer,
		},
	})

	signedToken, err := newToken.SignedString(s.signingKey)
	if err != nil {
		return "", err
	}
	return signedToken, nil
}

// Verify validates a raw token string and returns the user ID it identifies.
// Every failure mode is CodeUnauthorized; callers never learn whether the
// signature, expiry, or subject was at fault.
func (s *Service) Verify(tokenString string) (int64, error) {
	parsed, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, jwt.ErrTokenUnverifiable
		}
		return s.signingKey, nil
	})

	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return 0, dErrors.New(dErrors.CodeUnauthorized, "token has expired")
		}
		return 0, dErrors.New(dErrors.CodeUnauthorized, "invalid token")
	}

	if !parsed.Valid {
		return 0, dErrors.New(dErrors.CodeUnauthorized, "invalid token")
	}

	claims, ok := parsed.Claims.(*Claims)
	if !ok {
		return 0, dErrors.New(dErrors.CodeUnauthorized, "invalid token claims")
	}

	userID, err := strconv.ParseInt(claims.Subject, 10, 64)
	if err != nil || userID <= 0 {
		return 0, dErrors.New(dErrors.CodeUnauthorized, "invalid token subject")
	}

	return userID, nil
}

// VerifyAuthHeader validates a raw Authorization header value. Only the
// "Bearer <token>" scheme is accepted; absence or any other shape is a
// rejection, never an anonymous identity.
func (s *Service) VerifyAuthHeader(rawHeader string) (int64, error) {
	const bearerPrefix = "Bearer "
	token, ok := strings.CutPrefix(rawHeader, bearerPrefix)
	if !ok || token == "" {
		return 0, dErrors.New(dErrors.CodeUnauthorized, "missing bearer token")
	}
	return s.Verify(token)
}
