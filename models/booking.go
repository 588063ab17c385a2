package models

import "time"

// BookingRequest is the confirmation payload presented to the booking gate.
type BookingRequest struct {
	SessionID    string `json:"session_id" binding:"required"`
	BookingToken string `json:"booking_token" binding:"required"`
	OTPCode      string `json:"otp_code" binding:"required"`
}

// BookingReceipt is returned after all booking steps succeed.
type BookingReceipt struct {
	ConfirmationID    string  `json:"confirmation_id"`
	SessionID         string  `json:"session_id"`
	Status            string  `json:"status"`
	FlightPNR         string  `json:"flight_pnr,omitempty"`
	HotelConfirmation string  `json:"hotel_confirmation,omitempty"`
	TotalChargedUSD   float64 `json:"total_charged_usd"`
	Message           string  `json:"message"`
}

// AuditRecord is one durable entry in the booking audit log, written
// exactly once per successful booking, after payment success.
type AuditRecord struct {
	ID             string    `bson:"id" json:"id"`
	SessionID      string    `bson:"session_id" json:"session_id"`
	ConfirmationID string    `bson:"confirmation_id" json:"confirmation_id"`
	AmountUSD      float64   `bson:"amount_usd" json:"amount_usd"`
	CreatedAt      time.Time `bson:"created_at" json:"created_at"`
}
