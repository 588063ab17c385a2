package utils

import (
	"context"
	"crypto/rand"
	"encoding/base32"
	"fmt"
	"time"

	"github.com/go-redis/redis/v8"
	"go.uber.org/zap"
)

// OTPPrefix namespaces one-time codes in the OTP cache.
const OTPPrefix = "otp:"

// OTPTTL is how long an issued one-time code stays valid.
const OTPTTL = 5 * time.Minute

// GenerateSecureOTP generates a secure random OTP of the specified length.
// It returns a base32 encoded string (without padding) truncated to the
// desired length.
func GenerateSecureOTP(length int) (string, error) {
	numBytes := (length*5 + 7) / 8 // Calculate the required number of bytes.
	randomBytes := make([]byte, numBytes)
	if _, err := rand.Read(randomBytes); err != nil {
		return "", fmt.Errorf("failed to generate random bytes: %w", err)
	}
	otp := base32.StdEncoding.WithPadding(base32.NoPadding).EncodeToString(randomBytes)
	if len(otp) > length {
		otp = otp[:length]
	}
	return otp, nil
}

// IssueSessionOTP generates an OTP for a planning session and stores it
// with a TTL. Delivery (email/SMS) is handled outside this service; the
// code is only logged here.
func IssueSessionOTP(ctx context.Context, client *redis.Client, sessionID string) (string, error) {
	otp, err := GenerateSecureOTP(6)
	if err != nil {
		return "", fmt.Errorf("failed to generate OTP: %w", err)
	}

	key := OTPPrefix + sessionID
	if err := client.Set(ctx, key, otp, OTPTTL).Err(); err != nil {
		GetLogger().Error("Failed to cache OTP", zap.Error(err))
		return "", fmt.Errorf("failed to issue session OTP")
	}

	GetLogger().Sugar().Infof("Issued OTP for session %s (expires in %v)", sessionID, OTPTTL)
	return otp, nil
}

// VerifySessionOTP retrieves the stored OTP and compares it to the provided
// code. On a match the code is deleted, making it single-use.
func VerifySessionOTP(ctx context.Context, client *redis.Client, sessionID, providedOTP string) error {
	key := OTPPrefix + sessionID

	storedOTP, err := client.Get(ctx, key).Result()
	if err != nil {
		if err == redis.Nil {
			return fmt.Errorf("OTP not found or expired")
		}
		return fmt.Errorf("failed to retrieve OTP: %w", err)
	}

	if storedOTP != providedOTP {
		return fmt.Errorf("OTP does not match")
	}

	// Delete the OTP after successful verification.
	if err := client.Del(ctx, key).Err(); err != nil {
		GetLogger().Error("Failed to delete OTP after verification", zap.Error(err))
	}
	return nil
}
