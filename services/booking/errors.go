package booking

import "errors"

// Gate and executor failure categories. Handlers map these to distinct
// client-facing statuses.
var (
	ErrTokenMalformed       = errors.New("malformed booking token")
	ErrTokenSignature       = errors.New("invalid booking token signature")
	ErrTokenSessionMismatch = errors.New("token session mismatch")
	ErrTokenExpired         = errors.New("booking token expired")
	ErrTokenUsed            = errors.New("booking token already used")
	ErrOTPInvalid           = errors.New("invalid or expired OTP")
	ErrPaymentFailed        = errors.New("payment failed")
)
