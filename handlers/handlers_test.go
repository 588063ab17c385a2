package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	auditRepo "vacaplan/database/repository/audit"
	"vacaplan/models"
	"vacaplan/services/booking"
	"vacaplan/services/intelligence"
	"vacaplan/services/planner"
	"vacaplan/services/providers"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func init() {
	gin.SetMode(gin.TestMode)
}

const testOTP = "123456"

func newTestServer() (*gin.Engine, *planner.Registry, *booking.TokenAuthority) {
	registry := planner.NewRegistry()
	orchestrator := &planner.Orchestrator{
		Registry:      registry,
		Reasoner:      intelligence.NewOfflineService(),
		Calendar:      providers.MockCalendar{},
		Flights:       providers.MockFlights{},
		Hotels:        providers.MockHotels{},
		Activities:    providers.CatalogActivities{},
		DefaultOrigin: "CGK",
		Logger:        zap.NewNop(),
	}
	tokens := &booking.TokenAuthority{
		Secret: "test-secret",
		TTL:    10 * time.Minute,
		Store:  booking.NewMemoryTokenStore(),
	}
	service := &booking.DefaultBookingService{
		Tokens: tokens,
		OTP:    booking.StaticOTPVerifier{Code: testOTP},
		Executor: &booking.Executor{
			Registry: registry,
			Payments: booking.MockPayments{},
			Flights:  booking.ReferenceFlightOrders{},
			Hotels:   booking.ReferenceHotelOrders{},
			Audit:    auditRepo.NewMemoryAuditRepo(),
			Logger:   zap.NewNop(),
		},
	}

	r := gin.New()
	plan := NewPlanHandler(registry, orchestrator, tokens)
	issueOTP := func(ctx context.Context, sessionID string) (string, error) {
		return testOTP, nil
	}
	bookingHandler := NewBookingHandler(registry, service, issueOTP)

	r.POST("/plan", plan.CreatePlan)
	r.GET("/status/:sessionID", plan.GetStatus)
	r.GET("/stream/:sessionID", plan.StreamUpdates)
	r.POST("/booking/otp", bookingHandler.RequestOTP)
	r.POST("/booking/confirm", bookingHandler.ConfirmBooking)
	return r, registry, tokens
}

func doJSON(t *testing.T, r *gin.Engine, method, path string, payload any) *httptest.ResponseRecorder {
	t.Helper()
	var body bytes.Buffer
	if payload != nil {
		require.NoError(t, json.NewEncoder(&body).Encode(payload))
	}
	req := httptest.NewRequest(method, path, &body)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func startPlan(t *testing.T, r *gin.Engine) (sessionID, token string) {
	t.Helper()
	w := doJSON(t, r, http.MethodPost, "/plan", gin.H{
		"destination": "Bali, Indonesia",
		"dates":       "2025-06-14 to 2025-06-21",
		"budget":      5000,
		"travelers":   "2 adults",
		"style":       "beach relaxation and culture",
	})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var resp struct {
		SessionID    string `json:"session_id"`
		BookingToken string `json:"booking_token"`
		Message      string `json:"message"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.NotEmpty(t, resp.SessionID)
	require.NotEmpty(t, resp.BookingToken)
	assert.Equal(t, "Planning started", resp.Message)
	return resp.SessionID, resp.BookingToken
}

func waitForCompletion(t *testing.T, registry *planner.Registry, sessionID string) models.SessionState {
	t.Helper()
	deadline := time.Now().Add(5 * time.Second)
	for time.Now().Before(deadline) {
		if snap, ok := registry.Snapshot(sessionID); ok && snap.Complete {
			return snap
		}
		time.Sleep(5 * time.Millisecond)
	}
	t.Fatal("planning session never completed")
	return models.SessionState{}
}

func TestCreatePlanAndStatus(t *testing.T) {
	r, registry, _ := newTestServer()
	sessionID, _ := startPlan(t, r)

	waitForCompletion(t, registry, sessionID)

	w := doJSON(t, r, http.MethodGet, "/status/"+sessionID, nil)
	require.Equal(t, http.StatusOK, w.Code)

	var status models.SessionStatus
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &status))
	assert.Equal(t, sessionID, status.SessionID)
	assert.True(t, status.Complete)
	assert.Equal(t, planner.StageNames, status.CompletedSteps)
	require.NotNil(t, status.Itinerary)
	assert.Nil(t, status.Error)
	assert.Greater(t, status.Itinerary.TotalEstimatedUSD, 0.0)
}

func TestCreatePlanRejectsIncompleteRequest(t *testing.T) {
	r, _, _ := newTestServer()
	w := doJSON(t, r, http.MethodPost, "/plan", gin.H{"destination": "Bali"})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestStatusUnknownSession(t *testing.T) {
	r, _, _ := newTestServer()
	w := doJSON(t, r, http.MethodGet, "/status/does-not-exist", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestStreamUnknownSession(t *testing.T) {
	r, _, _ := newTestServer()
	w := doJSON(t, r, http.MethodGet, "/stream/does-not-exist", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

// closeNotifyRecorder adds the CloseNotifier interface gin's Stream helper
// expects from the response writer.
type closeNotifyRecorder struct {
	*httptest.ResponseRecorder
	closed chan bool
}

func (r *closeNotifyRecorder) CloseNotify() <-chan bool { return r.closed }

func TestStreamEmitsStagesAndDone(t *testing.T) {
	r, registry, _ := newTestServer()
	sessionID, _ := startPlan(t, r)
	waitForCompletion(t, registry, sessionID)

	w := &closeNotifyRecorder{httptest.NewRecorder(), make(chan bool, 1)}
	req := httptest.NewRequest(http.MethodGet, "/stream/"+sessionID, nil)
	r.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "text/event-stream", w.Header().Get("Content-Type"))

	body := w.Body.String()
	for _, stage := range planner.StageNames {
		assert.Contains(t, body, stage)
	}
	assert.Contains(t, body, planner.DoneEvent)
}

func TestRequestOTP(t *testing.T) {
	r, registry, _ := newTestServer()
	sessionID, _ := startPlan(t, r)
	waitForCompletion(t, registry, sessionID)

	w := doJSON(t, r, http.MethodPost, "/booking/otp", gin.H{"session_id": sessionID})
	require.Equal(t, http.StatusOK, w.Code)
	// The code is delivered out of band, never echoed back.
	assert.NotContains(t, w.Body.String(), testOTP)

	w = doJSON(t, r, http.MethodPost, "/booking/otp", gin.H{"session_id": "does-not-exist"})
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestConfirmBookingHappyPath(t *testing.T) {
	r, registry, _ := newTestServer()
	sessionID, token := startPlan(t, r)
	waitForCompletion(t, registry, sessionID)

	w := doJSON(t, r, http.MethodPost, "/booking/confirm", gin.H{
		"session_id":    sessionID,
		"booking_token": token,
		"otp_code":      testOTP,
	})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var receipt models.BookingReceipt
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &receipt))
	assert.Equal(t, "confirmed", receipt.Status)
	assert.Equal(t, sessionID, receipt.SessionID)
	assert.NotEmpty(t, receipt.ConfirmationID)
	assert.InDelta(t, 2740.00, receipt.TotalChargedUSD, 1e-9)

	// Replaying the same token is rejected as a client error.
	w = doJSON(t, r, http.MethodPost, "/booking/confirm", gin.H{
		"session_id":    sessionID,
		"booking_token": token,
		"otp_code":      testOTP,
	})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestConfirmBookingRejectsBadCredentials(t *testing.T) {
	r, registry, tokens := newTestServer()
	sessionID, token := startPlan(t, r)
	waitForCompletion(t, registry, sessionID)

	// Tampered token.
	w := doJSON(t, r, http.MethodPost, "/booking/confirm", gin.H{
		"session_id":    sessionID,
		"booking_token": token + "00",
		"otp_code":      testOTP,
	})
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	// Token bound to a different session.
	w = doJSON(t, r, http.MethodPost, "/booking/confirm", gin.H{
		"session_id":    sessionID,
		"booking_token": tokens.Issue("someone-else"),
		"otp_code":      testOTP,
	})
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	// Wrong one-time code.
	w = doJSON(t, r, http.MethodPost, "/booking/confirm", gin.H{
		"session_id":    sessionID,
		"booking_token": token,
		"otp_code":      "000000",
	})
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	// Missing fields never reach the gate.
	w = doJSON(t, r, http.MethodPost, "/booking/confirm", gin.H{"session_id": sessionID})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestBookingErrorStatusMapping(t *testing.T) {
	cases := []struct {
		err  error
		want int
	}{
		{booking.ErrTokenMalformed, http.StatusBadRequest},
		{booking.ErrTokenUsed, http.StatusBadRequest},
		{booking.ErrTokenSignature, http.StatusUnauthorized},
		{booking.ErrTokenSessionMismatch, http.StatusUnauthorized},
		{booking.ErrTokenExpired, http.StatusUnauthorized},
		{booking.ErrOTPInvalid, http.StatusUnauthorized},
		{booking.ErrPaymentFailed, http.StatusPaymentRequired},
		{fmt.Errorf("%w: card declined", booking.ErrPaymentFailed), http.StatusPaymentRequired},
		{errors.New("audit store down"), http.StatusInternalServerError},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, bookingErrorStatus(tc.err), tc.err.Error())
	}
}
