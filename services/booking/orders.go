package booking

import (
	"context"
	"strings"

	"github.com/google/uuid"
)

// FlightOrderService places the flight order for an authorized booking.
type FlightOrderService interface {
	PlaceOrder(ctx context.Context, sessionID string) (pnr string, err error)
}

// HotelOrderService places the hotel reservation for an authorized booking.
type HotelOrderService interface {
	Reserve(ctx context.Context, sessionID string) (confirmation string, err error)
}

// ReferenceFlightOrders issues a locally generated PNR. Swapping in a real
// carrier integration (Amadeus flight-orders) only touches this type.
type ReferenceFlightOrders struct{}

func (ReferenceFlightOrders) PlaceOrder(ctx context.Context, sessionID string) (string, error) {
	return "GA-" + shortRef(), nil
}

// ReferenceHotelOrders issues a locally generated reservation reference.
type ReferenceHotelOrders struct{}

func (ReferenceHotelOrders) Reserve(ctx context.Context, sessionID string) (string, error) {
	return "HTL-" + shortRef(), nil
}

func shortRef() string {
	return strings.ToUpper(uuid.New().String()[:6])
}
