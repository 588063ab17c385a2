package handlers

import (
	"context"
	"errors"
	"net/http"

	"vacaplan/models"
	"vacaplan/services/booking"
	"vacaplan/services/planner"
	"vacaplan/utils"

	"github.com/gin-gonic/gin"
)

// BookingHandler serves OTP issuance and the booking confirmation gate.
type BookingHandler struct {
	Registry *planner.Registry
	Service  booking.Service

	// IssueOTP creates and delivers the one-time code for a session.
	IssueOTP func(ctx context.Context, sessionID string) (string, error)
}

func NewBookingHandler(registry *planner.Registry, service booking.Service, issueOTP func(ctx context.Context, sessionID string) (string, error)) *BookingHandler {
	return &BookingHandler{Registry: registry, Service: service, IssueOTP: issueOTP}
}

// RequestOTP issues a one-time code for a planning session. The code is
// delivered out of band; it is never included in the response.
func (h *BookingHandler) RequestOTP(c *gin.Context) {
	var req struct {
		SessionID string `json:"session_id" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid input", "details": err.Error()})
		return
	}
	if _, ok := h.Registry.Snapshot(req.SessionID); !ok {
		utils.JSONError(c, http.StatusNotFound, "Session not found", req.SessionID)
		return
	}
	if _, err := h.IssueOTP(c.Request.Context(), req.SessionID); err != nil {
		utils.JSONError(c, http.StatusInternalServerError, "Failed to issue OTP", err.Error())
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "OTP issued", "session_id": req.SessionID})
}

// ConfirmBooking is the human-in-the-loop gate: it validates the booking
// token and OTP, then executes all bookings and returns the receipt.
func (h *BookingHandler) ConfirmBooking(c *gin.Context) {
	var req models.BookingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid input", "details": err.Error()})
		return
	}

	receipt, err := h.Service.Confirm(c.Request.Context(), req)
	if err != nil {
		utils.JSONError(c, bookingErrorStatus(err), "Booking rejected", err.Error())
		return
	}
	c.JSON(http.StatusOK, receipt)
}

// bookingErrorStatus maps gate and executor failure categories to HTTP
// statuses.
func bookingErrorStatus(err error) int {
	switch {
	case errors.Is(err, booking.ErrTokenMalformed), errors.Is(err, booking.ErrTokenUsed):
		return http.StatusBadRequest
	case errors.Is(err, booking.ErrTokenSignature),
		errors.Is(err, booking.ErrTokenSessionMismatch),
		errors.Is(err, booking.ErrTokenExpired),
		errors.Is(err, booking.ErrOTPInvalid):
		return http.StatusUnauthorized
	case errors.Is(err, booking.ErrPaymentFailed):
		return http.StatusPaymentRequired
	default:
		return http.StatusInternalServerError
	}
}
