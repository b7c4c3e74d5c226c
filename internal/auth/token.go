package auth

import (
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"

	apperrors "costbook/internal/errors"
)

const issuer = "costbook-api"

// Claims are the JWT claims carried by issued tokens. The subject is the
// username; callers resolve it to a user after validation.
type Claims struct {
	jwt.RegisteredClaims
}

// TokenService issues and validates signed, time-limited bearer tokens.
// Tokens are stateless: there is no server-side revocation list, so logout
// is a client-side discard and rotating the secret invalidates all
// outstanding tokens.
type TokenService struct {
	secret []byte
	ttl    time.Duration
}

// NewTokenService creates a TokenService signing with the given symmetric
// secret and issuing tokens valid for ttl.
func NewTokenService(secret string, ttl time.Duration) *TokenService {
	return &TokenService{secret: []byte(secret), ttl: ttl}
}

// Issue produces a signed token encoding the subject and an absolute expiry.
func (s *TokenService) Issue(subject string) (string, error) {
	now := time.Now()
	claims := &Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   subject,
			ExpiresAt: jwt.NewNumericDate(now.Add(s.ttl)),
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now),
			Issuer:    issuer,
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(s.secret)
}

// Validate parses tokenString and returns its subject. It fails with
// ErrInvalidToken when the signature does not verify, the token is
// structurally malformed, or the current time is past the encoded expiry.
// Callers must separately resolve the subject to a user.
func (s *TokenService) Validate(tokenString string) (string, error) {
	claims := &Claims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return s.secret, nil
	})

	if err != nil || !token.Valid {
		return "", apperrors.Wrap(apperrors.ErrInvalidToken, err)
	}
	if claims.Subject == "" {
		return "", apperrors.ErrInvalidToken
	}

	return claims.Subject, nil
}
