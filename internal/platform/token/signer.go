// Package token issues and verifies the signed, expiring tokens used by the
// account lifecycle (email confirmation and password reset).
package token

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// ErrInvalidToken is returned when a token fails verification.
// Signature mismatch and expiry are deliberately collapsed into this single
// error so callers never reveal which half failed.
var ErrInvalidToken = errors.New("invalid or expired token")

// Signer issues and verifies HS256 tokens carrying an email claim.
// The signing secret is supplied per call: the reset-password flow derives its
// secret from the account's current password hash, so it differs per account.
type Signer struct{}

// NewSigner creates a new Signer instance.
func NewSigner() *Signer {
	return &Signer{}
}

// Issue creates a signed token binding the given email with an absolute
// expiry ttl from now.
func (s *Signer) Issue(email, secret string, ttl time.Duration) (string, error) {
	now := time.Now()
	claims := jwt.MapClaims{
		"email": email,
		"iat":   now.Unix(),
		"exp":   now.Add(ttl).Unix(),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte(secret))
	if err != nil {
		return "", fmt.Errorf("failed to sign token: %w", err)
	}

	return signed, nil
}

// Verify checks the token's signature and expiry against the given secret and
// returns the email claim. Any failure yields ErrInvalidToken.
func (s *Signer) Verify(tokenStr, secret string) (string, error) {
	token, err := jwt.Parse(tokenStr, func(t *jwt.Token) (interface{}, error) {
		// Check signing algorithm (only HMAC allowed)
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, jwt.ErrSignatureInvalid
		}
		return []byte(secret), nil
	})
	if err != nil || !token.Valid {
		return "", fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}

	email, err := emailClaim(token)
	if err != nil {
		return "", err
	}
	return email, nil
}

// DecodeEmail extracts the email claim without verifying the signature.
// The reset-password flow needs the target account before it can derive the
// verification secret, so this unauthenticated decode runs first.
func (s *Signer) DecodeEmail(tokenStr string) (string, error) {
	token, _, err := jwt.NewParser().ParseUnverified(tokenStr, jwt.MapClaims{})
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}

	email, err := emailClaim(token)
	if err != nil {
		return "", err
	}
	return email, nil
}

// emailClaim pulls the email claim out of a parsed token.
func emailClaim(token *jwt.Token) (string, error) {
	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return "", ErrInvalidToken
	}
	email, ok := claims["email"].(string)
	if !ok || email == "" {
		return "", ErrInvalidToken
	}
	return email, nil
}
