package booking

import (
	"context"

	"vacaplan/models"
)

// Service is the booking confirmation gate plus executor.
type Service interface {
	Confirm(ctx context.Context, req models.BookingRequest) (*models.BookingReceipt, error)
}

// DefaultBookingService walks each attempt through
// received -> token_verified -> otp_verified -> authorized, failing fast
// at the first rejected step.
type DefaultBookingService struct {
	Tokens   *TokenAuthority
	OTP      OTPVerifier
	Executor *Executor
}

// Confirm validates the token and the one-time code, then executes the
// booking. Token verification consumes the token; a wrong OTP afterwards
// does not restore it.
func (s *DefaultBookingService) Confirm(ctx context.Context, req models.BookingRequest) (*models.BookingReceipt, error) {
	if err := s.Tokens.Verify(ctx, req.BookingToken, req.SessionID); err != nil {
		return nil, err
	}
	if err := s.OTP.Verify(ctx, req.SessionID, req.OTPCode); err != nil {
		return nil, err
	}
	return s.Executor.Execute(ctx, req.SessionID)
}
