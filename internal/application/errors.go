package application

import "errors"

// Domain failure modes surfaced to handlers. Handlers map these to 4xx
// responses with generic messages; anything else becomes a 500.
var (
	ErrDuplicateAccount   = errors.New("account already exists")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrInvalidToken       = errors.New("invalid or expired token")
	ErrUnknownAffiliate   = errors.New("affiliate not found")
	ErrUnknownUser        = errors.New("user not found")
	ErrIncompleteProfile  = errors.New("incomplete provider profile")
	ErrCodeSpaceExhausted = errors.New("affiliate code space exhausted")
)
