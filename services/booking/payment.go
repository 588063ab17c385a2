package booking

import (
	"context"
	"fmt"

	"github.com/stripe/stripe-go/v76"
	"github.com/stripe/stripe-go/v76/paymentintent"
)

// PaymentService captures the charge for a booking. ConfirmIntent returns
// the amount charged in USD.
type PaymentService interface {
	ConfirmIntent(ctx context.Context, intentID string) (float64, error)
}

// StripePayments confirms a Stripe payment intent. stripe.Key must be set
// at startup.
type StripePayments struct{}

func (StripePayments) ConfirmIntent(ctx context.Context, intentID string) (float64, error) {
	if intentID == "" {
		return 0, fmt.Errorf("%w: no payment intent on session", ErrPaymentFailed)
	}
	pi, err := paymentintent.Confirm(intentID, &stripe.PaymentIntentConfirmParams{})
	if err != nil {
		return 0, fmt.Errorf("%w: %v", ErrPaymentFailed, err)
	}
	if pi.Status != stripe.PaymentIntentStatusSucceeded {
		return 0, fmt.Errorf("%w: intent status %s", ErrPaymentFailed, pi.Status)
	}
	return float64(pi.Amount) / 100, nil
}

// MockPayments reports a fixed successful charge. Used in mock mode.
type MockPayments struct {
	AmountUSD float64
}

func (m MockPayments) ConfirmIntent(ctx context.Context, intentID string) (float64, error) {
	if m.AmountUSD > 0 {
		return m.AmountUSD, nil
	}
	return 2740.00, nil
}
