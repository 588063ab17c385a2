package booking

import (
	"context"
	"strings"
	"time"

	auditRepo "vacaplan/database/repository/audit"
	"vacaplan/models"
	"vacaplan/services/planner"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Executor performs the irreversible booking side effects, strictly in
// order: payment capture, flight order, hotel order, audit write. It runs
// only after the gate has authorized the request.
type Executor struct {
	Registry *planner.Registry
	Payments PaymentService
	Flights  FlightOrderService
	Hotels   HotelOrderService
	Audit    auditRepo.Repository
	Logger   *zap.Logger
}

// Execute runs the booking sequence and returns the receipt. A payment
// failure aborts before any order is placed; the audit record is written
// only after payment success.
func (e *Executor) Execute(ctx context.Context, sessionID string) (*models.BookingReceipt, error) {
	logger := e.Logger
	if logger == nil {
		logger = zap.L()
	}

	var intentID string
	if snap, ok := e.Registry.Snapshot(sessionID); ok {
		intentID = snap.Trip.PaymentRef
	}

	amount, err := e.Payments.ConfirmIntent(ctx, intentID)
	if err != nil {
		return nil, err
	}

	flightPNR, err := e.Flights.PlaceOrder(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	hotelConfirmation, err := e.Hotels.Reserve(ctx, sessionID)
	if err != nil {
		return nil, err
	}

	confirmationID := strings.ToUpper(uuid.New().String()[:8])
	if _, err := e.Audit.Append(ctx, models.AuditRecord{
		SessionID:      sessionID,
		ConfirmationID: confirmationID,
		AmountUSD:      amount,
		CreatedAt:      time.Now(),
	}); err != nil {
		// The charge went through; surface the audit failure rather than
		// pretend the booking is unrecorded.
		logger.Error("Audit write failed after successful payment",
			zap.String("sessionID", sessionID),
			zap.String("confirmationID", confirmationID),
			zap.Error(err),
		)
		return nil, err
	}

	logger.Sugar().Infof("Booking confirmed for session %s (confirmation %s, $%.2f)", sessionID, confirmationID, amount)
	return &models.BookingReceipt{
		ConfirmationID:    confirmationID,
		SessionID:         sessionID,
		Status:            "confirmed",
		FlightPNR:         flightPNR,
		HotelConfirmation: hotelConfirmation,
		TotalChargedUSD:   amount,
		Message:           "All bookings confirmed! Check your email for receipts.",
	}, nil
}
