package auth

import "errors"

// Token validation errors returned by the JWTService.
var (
	ErrInvalidToken     = errors.New("invalid token")
	ErrExpiredToken     = errors.New("token expired")
	ErrTokenNotYetValid = errors.New("token not yet valid")
	ErrRevokedToken     = errors.New("token has been revoked")
)
