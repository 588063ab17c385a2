package providers

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"vacaplan/models"
)

// MockFlights returns a fixed set of offers with fares scaled by traveler
// count.
type MockFlights struct{}

func (MockFlights) Search(ctx context.Context, q FlightQuery) ([]models.FlightOption, error) {
	travelers := q.Travelers
	if travelers < 1 {
		travelers = 1
	}
	return []models.FlightOption{
		{
			Airline:     "Garuda Indonesia",
			Origin:      q.Origin,
			Destination: "DPS",
			Departure:   q.Date + "T06:30:00",
			Arrival:     q.Date + "T08:45:00",
			PriceUSD:    89.0 * float64(travelers),
			Cabin:       "ECONOMY",
		},
		{
			Airline:     "Lion Air",
			Origin:      q.Origin,
			Destination: "DPS",
			Departure:   q.Date + "T14:00:00",
			Arrival:     q.Date + "T16:15:00",
			PriceUSD:    74.0 * float64(travelers),
			Cabin:       "ECONOMY",
		},
		{
			Airline:     "Batik Air",
			Origin:      q.Origin,
			Destination: "DPS",
			Departure:   q.Date + "T09:00:00",
			Arrival:     q.Date + "T11:20:00",
			PriceUSD:    105.0 * float64(travelers),
			Cabin:       "ECONOMY",
		},
	}, nil
}

// AmadeusFlights queries the Amadeus flight-offers API.
type AmadeusFlights struct {
	APIKey     string
	APISecret  string
	HTTPClient *http.Client
}

const (
	amadeusTokenURL  = "https://test.api.amadeus.com/v1/security/oauth2/token"
	amadeusOffersURL = "https://test.api.amadeus.com/v2/shopping/flight-offers"
)

func (a *AmadeusFlights) Search(ctx context.Context, q FlightQuery) ([]models.FlightOption, error) {
	token, err := a.fetchToken(ctx)
	if err != nil {
		return nil, err
	}

	params := url.Values{}
	params.Set("originLocationCode", q.Origin)
	params.Set("destinationLocationCode", q.Destination)
	params.Set("departureDate", q.Date)
	params.Set("adults", strconv.Itoa(q.Travelers))
	params.Set("currencyCode", "USD")
	params.Set("max", "10")

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, amadeusOffersURL+"?"+params.Encode(), nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Authorization", "Bearer "+token)

	resp, err := a.client().Do(req)
	if err != nil {
		return nil, fmt.Errorf("flight search failed: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("flight search failed: status %d", resp.StatusCode)
	}

	var payload amadeusOffersResponse
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return nil, fmt.Errorf("failed to decode flight offers: %w", err)
	}
	return payload.options(), nil
}

func (a *AmadeusFlights) fetchToken(ctx context.Context) (string, error) {
	form := url.Values{}
	form.Set("grant_type", "client_credentials")
	form.Set("client_id", a.APIKey)
	form.Set("client_secret", a.APISecret)

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, amadeusTokenURL, strings.NewReader(form.Encode()))
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := a.client().Do(req)
	if err != nil {
		return "", fmt.Errorf("amadeus token request failed: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("amadeus token request failed: status %d", resp.StatusCode)
	}

	var token struct {
		AccessToken string `json:"access_token"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&token); err != nil {
		return "", fmt.Errorf("failed to decode amadeus token: %w", err)
	}
	return token.AccessToken, nil
}

func (a *AmadeusFlights) client() *http.Client {
	if a.HTTPClient != nil {
		return a.HTTPClient
	}
	return http.DefaultClient
}

type amadeusOffersResponse struct {
	Data []struct {
		Itineraries []struct {
			Segments []struct {
				CarrierCode string `json:"carrierCode"`
				Departure   struct {
					IataCode string `json:"iataCode"`
					At       string `json:"at"`
				} `json:"departure"`
				Arrival struct {
					IataCode string `json:"iataCode"`
					At       string `json:"at"`
				} `json:"arrival"`
			} `json:"segments"`
		} `json:"itineraries"`
		Price struct {
			GrandTotal string `json:"grandTotal"`
		} `json:"price"`
		TravelerPricings []struct {
			FareDetailsBySegment []struct {
				Cabin string `json:"cabin"`
			} `json:"fareDetailsBySegment"`
		} `json:"travelerPricings"`
	} `json:"data"`
}

func (r amadeusOffersResponse) options() []models.FlightOption {
	var offers []models.FlightOption
	for _, offer := range r.Data {
		if len(offer.Itineraries) == 0 || len(offer.Itineraries[0].Segments) == 0 {
			continue
		}
		segment := offer.Itineraries[0].Segments[0]
		price, _ := strconv.ParseFloat(offer.Price.GrandTotal, 64)
		cabin := "ECONOMY"
		if len(offer.TravelerPricings) > 0 && len(offer.TravelerPricings[0].FareDetailsBySegment) > 0 {
			cabin = offer.TravelerPricings[0].FareDetailsBySegment[0].Cabin
		}
		offers = append(offers, models.FlightOption{
			Airline:     segment.CarrierCode,
			Origin:      segment.Departure.IataCode,
			Destination: segment.Arrival.IataCode,
			Departure:   segment.Departure.At,
			Arrival:     segment.Arrival.At,
			PriceUSD:    price,
			Cabin:       cabin,
		})
	}
	return offers
}
