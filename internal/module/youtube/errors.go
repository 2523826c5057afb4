package youtube

import "errors"

var (
	// ErrNotConnected is returned when the user has no stored YouTube
	// token pair.
	ErrNotConnected = errors.New("youtube account not connected")
	// ErrInvalidState is returned when an OAuth callback carries an
	// unknown or expired state.
	ErrInvalidState = errors.New("invalid oauth state")
	// ErrNoChannel is returned when the connected Google account owns no
	// YouTube channel.
	ErrNoChannel = errors.New("google account has no youtube channel")
)
