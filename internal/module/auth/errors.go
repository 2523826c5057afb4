package auth

import "errors"

var (
	// ErrInvalidToken indicates the token could not be parsed or verified.
	ErrInvalidToken = errors.New("invalid token")
	// ErrInvalidTokenClaims indicates the token claims are malformed.
	ErrInvalidTokenClaims = errors.New("invalid token claims")
)
