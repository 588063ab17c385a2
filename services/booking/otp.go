package booking

import (
	"context"
	"crypto/subtle"

	"vacaplan/utils"

	"github.com/go-redis/redis/v8"
)

// OTPVerifier proves user presence before the irreversible charge.
type OTPVerifier interface {
	Verify(ctx context.Context, sessionID, code string) error
}

// StaticOTPVerifier accepts a single fixed code. Used in mock mode.
type StaticOTPVerifier struct {
	Code string
}

func (v StaticOTPVerifier) Verify(ctx context.Context, sessionID, code string) error {
	if subtle.ConstantTimeCompare([]byte(v.Code), []byte(code)) != 1 {
		return ErrOTPInvalid
	}
	return nil
}

// RedisOTPVerifier checks the code against the session's stored OTP and
// deletes it on success, making each code single-use.
type RedisOTPVerifier struct {
	Client *redis.Client
}

func (v RedisOTPVerifier) Verify(ctx context.Context, sessionID, code string) error {
	if err := utils.VerifySessionOTP(ctx, v.Client, sessionID, code); err != nil {
		return ErrOTPInvalid
	}
	return nil
}
