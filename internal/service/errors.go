package service

import "errors"

// Closed set of failure kinds the auth services can return. Handlers
// map these to HTTP statuses with errors.Is. Anything else that comes
// out of a service is an internal fault and must not be shown to the
// caller as one of these
var (
	ErrUserNotFound         = errors.New("user not found")
	ErrInvalidCredentials   = errors.New("invalid credentials")
	ErrNotVerified          = errors.New("please verify your email first")
	ErrAlreadyVerified      = errors.New("user is already verified")
	ErrInvalidOTP           = errors.New("invalid or expired OTP code")
	ErrInvalidRefreshToken  = errors.New("invalid refresh token")
	ErrInvalidProviderToken = errors.New("invalid provider token")
)
