package providers

import (
	"context"
	"encoding/json"
	"fmt"
	"math"
	"net/http"
	"net/url"
	"time"

	"vacaplan/models"
)

// MockHotels returns a fixed candidate list with stay totals computed from
// the night count.
type MockHotels struct{}

func (MockHotels) Search(ctx context.Context, q HotelQuery) ([]models.HotelOption, error) {
	nights := nightsBetween(q.CheckIn, q.CheckOut)
	return []models.HotelOption{
		{
			Name:             "The Layar Private Villas",
			Location:         "Seminyak",
			Stars:            5,
			PricePerNightUSD: 240.0,
			Features:         []string{"Private pool", "Ocean view", "Breakfast included", "Butler service"},
			TotalUSD:         roundCents(240.0 * float64(nights)),
		},
		{
			Name:             "Alaya Resort Ubud",
			Location:         "Ubud",
			Stars:            4,
			PricePerNightUSD: 160.0,
			Features:         []string{"Rice field view", "Spa", "Yoga deck", "Free shuttle"},
			TotalUSD:         roundCents(160.0 * float64(nights)),
		},
		{
			Name:             "Katamama Hotel",
			Location:         "Seminyak",
			Stars:            5,
			PricePerNightUSD: 310.0,
			Features:         []string{"Artisan suites", "Rooftop pool", "Fine dining", "Cultural experiences"},
			TotalUSD:         roundCents(310.0 * float64(nights)),
		},
		{
			Name:             "Bisma Eight",
			Location:         "Ubud",
			Stars:            4,
			PricePerNightUSD: 120.0,
			Features:         []string{"Jungle view", "Infinity pool", "Organic breakfast", "Spa"},
			TotalUSD:         roundCents(120.0 * float64(nights)),
		},
	}, nil
}

// BookingComHotels queries the Booking.com distribution API.
type BookingComHotels struct {
	Username   string
	Password   string
	HTTPClient *http.Client
}

const bookingComBase = "https://distribution-xml.booking.com/2.4/json"

func (b *BookingComHotels) Search(ctx context.Context, q HotelQuery) ([]models.HotelOption, error) {
	destID, err := b.destinationID(ctx, q.Destination)
	if err != nil {
		return nil, err
	}

	params := url.Values{}
	params.Set("city_ids", destID)
	params.Set("checkin", q.CheckIn)
	params.Set("checkout", q.CheckOut)
	params.Set("rows", "10")
	params.Set("order_by", "popularity")
	params.Set("filter_by_currency", "USD")

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, bookingComBase+"/hotels?"+params.Encode(), nil)
	if err != nil {
		return nil, err
	}
	req.SetBasicAuth(b.Username, b.Password)

	resp, err := b.client().Do(req)
	if err != nil {
		return nil, fmt.Errorf("hotel search failed: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("hotel search failed: status %d", resp.StatusCode)
	}

	var payload struct {
		Result []struct {
			HotelName     string   `json:"hotel_name"`
			City          string   `json:"city"`
			Class         float64  `json:"class"`
			MinTotalPrice float64  `json:"min_total_price"`
			Facilities    []string `json:"facilities"`
		} `json:"result"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return nil, fmt.Errorf("failed to decode hotel results: %w", err)
	}

	nights := nightsBetween(q.CheckIn, q.CheckOut)
	var hotels []models.HotelOption
	for _, h := range payload.Result {
		features := h.Facilities
		if len(features) > 4 {
			features = features[:4]
		}
		hotels = append(hotels, models.HotelOption{
			Name:             h.HotelName,
			Location:         h.City,
			Stars:            int(h.Class),
			PricePerNightUSD: h.MinTotalPrice,
			Features:         features,
			TotalUSD:         roundCents(h.MinTotalPrice * float64(nights)),
		})
	}
	return hotels, nil
}

func (b *BookingComHotels) destinationID(ctx context.Context, destination string) (string, error) {
	params := url.Values{}
	params.Set("text", destination)
	params.Set("language", "en")

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, bookingComBase+"/destinations?"+params.Encode(), nil)
	if err != nil {
		return "", err
	}
	req.SetBasicAuth(b.Username, b.Password)

	resp, err := b.client().Do(req)
	if err != nil {
		return "", fmt.Errorf("destination lookup failed: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("destination lookup failed: status %d", resp.StatusCode)
	}

	var results []struct {
		ID json.Number `json:"id"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&results); err != nil {
		return "", fmt.Errorf("failed to decode destinations: %w", err)
	}
	if len(results) == 0 {
		return "", fmt.Errorf("no destination match for %q", destination)
	}
	return results[0].ID.String(), nil
}

func (b *BookingComHotels) client() *http.Client {
	if b.HTTPClient != nil {
		return b.HTTPClient
	}
	return http.DefaultClient
}

// nightsBetween returns the stay length for a check-in/check-out pair,
// defaulting to 7 when the dates cannot be parsed.
func nightsBetween(checkIn, checkOut string) int {
	in, err1 := time.Parse("2006-01-02", checkIn)
	out, err2 := time.Parse("2006-01-02", checkOut)
	if err1 != nil || err2 != nil {
		return 7
	}
	nights := int(out.Sub(in).Hours() / 24)
	if nights < 1 {
		return 7
	}
	return nights
}

func roundCents(v float64) float64 {
	return math.Round(v*100) / 100
}
