package service

import "errors"

// Business-rule failures surfaced to the client inside the response
// envelope. Anything not covered here degrades to ErrInternal and a
// generic message; the underlying cause goes to the error log only.
var (
	ErrEmailTaken          = errors.New("email already used")
	ErrPasswordMismatch    = errors.New("passwords do not match")
	ErrInvalidCredentials  = errors.New("invalid credentials")
	ErrAccountNotConfirmed = errors.New("email has not been verified yet")
	ErrCodeUsed            = errors.New("code already used")
	ErrCodeExpired         = errors.New("code expired")
	ErrCodeNotOwner        = errors.New("code belongs to another user")
	ErrInternal            = errors.New("something went wrong")
)
