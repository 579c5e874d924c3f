// Package session signs and verifies the token that carries a user's
// identity between requests.
package session

import (
	"errors"
	"fmt"
	"time"

	"github.com/dgrijalva/jwt-go"
)

// ErrInvalidToken is returned for tokens that are malformed, tampered with or
// expired.
var ErrInvalidToken = errors.New("invalid session token")

// Signer issues HMAC-SHA256 tokens over a single value.
type Signer struct {
	secret []byte
	ttl    time.Duration
}

// NewSigner creates a Signer keyed by secret. Tokens expire after ttl; a zero
// ttl issues tokens without expiry.
func NewSigner(secret string, ttl time.Duration) *Signer {
	return &Signer{
		secret: []byte(secret),
		ttl:    ttl,
	}
}

// Sign returns a token carrying value.
func (s *Signer) Sign(value string) (string, error) {
	if value == "" {
		return "", fmt.Errorf("cannot sign an empty value")
	}
	now := time.Now()
	claims := jwt.StandardClaims{
		Subject:  value,
		IssuedAt: now.Unix(),
	}
	if s.ttl != 0 {
		claims.ExpiresAt = now.Add(s.ttl).Unix()
	}

	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.secret)
	if err != nil {
		return "", fmt.Errorf("failed to sign session token: %w", err)
	}
	return token, nil
}

// Verify checks the token signature and expiry and returns the value it
// carries.
func (s *Signer) Verify(tokenString string) (string, error) {
	if tokenString == "" {
		return "", ErrInvalidToken
	}

	claims := &jwt.StandardClaims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return s.secret, nil
	})
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}
	if !token.Valid || claims.Subject == "" {
		return "", ErrInvalidToken
	}
	return claims.Subject, nil
}
