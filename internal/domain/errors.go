package domain

import "errors"

// Account lifecycle failures surfaced to callers. Services wrap these with
// context via fmt.Errorf("...: %w", err); handlers unwrap with errors.Is.
var (
	ErrInvalidPassword       = errors.New("password does not satisfy length policy")
	ErrLoginAlreadyUsed      = errors.New("login already in use")
	ErrEmailAlreadyUsed      = errors.New("email already in use")
	ErrActivationKeyNotFound = errors.New("no account matches this activation key")
	ErrResetKeyNotFound      = errors.New("no account matches this reset key")
	ErrResetKeyExpired       = errors.New("reset key has expired")
	ErrEmailNotFound         = errors.New("no account matches this email")
	ErrAccountNotFound       = errors.New("account not found")
	ErrBadCredentials        = errors.New("invalid login or password")
	ErrAccountNotActivated   = errors.New("account is not activated")
)
