package booking

import (
	"context"
	"fmt"
	"strings"
	"testing"
	"time"

	auditRepo "vacaplan/database/repository/audit"
	"vacaplan/models"
	"vacaplan/services/planner"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

// callRecorder collects the side-effect order across the executor's
// collaborators.
type callRecorder struct {
	calls []string
}

type scriptedPayments struct {
	rec       *callRecorder
	amount    float64
	err       error
	gotIntent string
}

func (p *scriptedPayments) ConfirmIntent(ctx context.Context, intentID string) (float64, error) {
	p.rec.calls = append(p.rec.calls, "payment")
	p.gotIntent = intentID
	if p.err != nil {
		return 0, p.err
	}
	return p.amount, nil
}

type scriptedFlightOrders struct {
	rec *callRecorder
	err error
}

func (f *scriptedFlightOrders) PlaceOrder(ctx context.Context, sessionID string) (string, error) {
	f.rec.calls = append(f.rec.calls, "flight")
	if f.err != nil {
		return "", f.err
	}
	return "GA-TEST01", nil
}

type scriptedHotelOrders struct {
	rec *callRecorder
}

func (h *scriptedHotelOrders) Reserve(ctx context.Context, sessionID string) (string, error) {
	h.rec.calls = append(h.rec.calls, "hotel")
	return "HTL-TEST01", nil
}

type recordingAudit struct {
	rec   *callRecorder
	inner auditRepo.Repository
	err   error
}

func (a *recordingAudit) Append(ctx context.Context, record models.AuditRecord) (string, error) {
	a.rec.calls = append(a.rec.calls, "audit")
	if a.err != nil {
		return "", a.err
	}
	return a.inner.Append(ctx, record)
}

func (a *recordingAudit) BySessionID(ctx context.Context, sessionID string) ([]models.AuditRecord, error) {
	return a.inner.BySessionID(ctx, sessionID)
}

func newTestExecutor(rec *callRecorder) (*Executor, *planner.Registry, *scriptedPayments, *recordingAudit) {
	registry := planner.NewRegistry()
	registry.Register("s1", models.TripRequest{Destination: "Bali", PaymentRef: "pi_test_123"})

	payments := &scriptedPayments{rec: rec, amount: 2740}
	audit := &recordingAudit{rec: rec, inner: auditRepo.NewMemoryAuditRepo()}
	exec := &Executor{
		Registry: registry,
		Payments: payments,
		Flights:  &scriptedFlightOrders{rec: rec},
		Hotels:   &scriptedHotelOrders{rec: rec},
		Audit:    audit,
		Logger:   zap.NewNop(),
	}
	return exec, registry, payments, audit
}

func TestExecutorRunsStepsInOrder(t *testing.T) {
	rec := &callRecorder{}
	exec, _, payments, audit := newTestExecutor(rec)

	receipt, err := exec.Execute(context.Background(), "s1")
	require.NoError(t, err)
	require.NotNil(t, receipt)

	assert.Equal(t, []string{"payment", "flight", "hotel", "audit"}, rec.calls)
	assert.Equal(t, "pi_test_123", payments.gotIntent)

	assert.Equal(t, "s1", receipt.SessionID)
	assert.Equal(t, "confirmed", receipt.Status)
	assert.Len(t, receipt.ConfirmationID, 8)
	assert.Equal(t, receipt.ConfirmationID, strings.ToUpper(receipt.ConfirmationID))
	assert.Equal(t, "GA-TEST01", receipt.FlightPNR)
	assert.Equal(t, "HTL-TEST01", receipt.HotelConfirmation)
	assert.InDelta(t, 2740, receipt.TotalChargedUSD, 1e-9)
	assert.Equal(t, "All bookings confirmed! Check your email for receipts.", receipt.Message)

	records, err := audit.BySessionID(context.Background(), "s1")
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, receipt.ConfirmationID, records[0].ConfirmationID)
	assert.InDelta(t, 2740, records[0].AmountUSD, 1e-9)
	assert.WithinDuration(t, time.Now(), records[0].CreatedAt, time.Minute)
}

func TestExecutorPaymentFailureAbortsBeforeOrders(t *testing.T) {
	rec := &callRecorder{}
	exec, _, payments, audit := newTestExecutor(rec)
	payments.err = fmt.Errorf("%w: card declined", ErrPaymentFailed)

	receipt, err := exec.Execute(context.Background(), "s1")
	assert.ErrorIs(t, err, ErrPaymentFailed)
	assert.Nil(t, receipt)

	// No order placed, nothing audited.
	assert.Equal(t, []string{"payment"}, rec.calls)
	records, _ := audit.BySessionID(context.Background(), "s1")
	assert.Empty(t, records)
}

func TestExecutorFlightFailureSkipsHotelAndAudit(t *testing.T) {
	rec := &callRecorder{}
	exec, _, _, _ := newTestExecutor(rec)
	exec.Flights = &scriptedFlightOrders{rec: rec, err: fmt.Errorf("carrier rejected order")}

	receipt, err := exec.Execute(context.Background(), "s1")
	assert.Error(t, err)
	assert.Nil(t, receipt)
	assert.Equal(t, []string{"payment", "flight"}, rec.calls)
}

func TestExecutorAuditFailureSurfaces(t *testing.T) {
	rec := &callRecorder{}
	exec, _, _, audit := newTestExecutor(rec)
	audit.err = fmt.Errorf("audit store unavailable")

	receipt, err := exec.Execute(context.Background(), "s1")
	assert.Error(t, err)
	assert.Nil(t, receipt)
	assert.Equal(t, []string{"payment", "flight", "hotel", "audit"}, rec.calls)
}

func TestMockPaymentsDefaultAmount(t *testing.T) {
	amount, err := MockPayments{}.ConfirmIntent(context.Background(), "")
	require.NoError(t, err)
	assert.InDelta(t, 2740.00, amount, 1e-9)

	amount, err = MockPayments{AmountUSD: 99.5}.ConfirmIntent(context.Background(), "pi_x")
	require.NoError(t, err)
	assert.InDelta(t, 99.5, amount, 1e-9)
}

func TestReferenceOrderServicesFormat(t *testing.T) {
	pnr, err := ReferenceFlightOrders{}.PlaceOrder(context.Background(), "s1")
	require.NoError(t, err)
	assert.Regexp(t, `^GA-[0-9A-F]{6}$`, pnr)

	conf, err := ReferenceHotelOrders{}.Reserve(context.Background(), "s1")
	require.NoError(t, err)
	assert.Regexp(t, `^HTL-[0-9A-F]{6}$`, conf)
}
