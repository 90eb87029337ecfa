package booking

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	log "github.com/sirupsen/logrus"
	"golang.org/x/oauth2/clientcredentials"

	"github.com/wayfare/wayfare/internal/config"
	"github.com/wayfare/wayfare/pkg/itinerary"
)

var ErrBookingNotFound = errors.New("booking not found")

type Client interface {
	ListFlightOrders(ctx context.Context, travelerUid string) ([]Summary, error)
	ListHotelOrders(ctx context.Context, travelerUid string) ([]Summary, error)
	GetFlightOrder(ctx context.Context, orderId string) (itinerary.FlightBooking, error)
	GetHotelOrder(ctx context.Context, orderId string) (itinerary.HotelBooking, error)
}

type ClientImpl struct {
	baseURL string
	http    *http.Client
}

// NewClient builds a provider client authenticated with the OAuth2 client
// credentials flow; the token source refreshes itself as tokens expire.
func NewClient(cfg config.Booking) *ClientImpl {
	oauthConfig := clientcredentials.Config{
		ClientID:     cfg.ClientId,
		ClientSecret: cfg.ClientSecret,
		TokenURL:     cfg.TokenURL,
	}
	return &ClientImpl{
		baseURL: cfg.BaseURL,
		http:    oauthConfig.Client(context.Background()),
	}
}

func (c *ClientImpl) get(ctx context.Context, url string, out any) error {
	req, err := http.NewRequestWithContext(ctx, "GET", url, nil)
	if err != nil {
		log.Errorf("Failed to create request: %v", err)
		return err
	}

	resp, err := c.http.Do(req)
	if err != nil {
		log.Errorf("Failed to execute request: %v", err)
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return ErrBookingNotFound
	}
	if resp.StatusCode != http.StatusOK {
		err := fmt.Errorf("booking API returned non-OK status: %d", resp.StatusCode)
		log.Error(err)
		return err
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		log.Errorf("Failed to decode response: %v", err)
		return err
	}
	return nil
}

func (c *ClientImpl) ListFlightOrders(ctx context.Context, travelerUid string) ([]Summary, error) {
	url := fmt.Sprintf("%s/booking/flight-orders?traveler=%s", c.baseURL, travelerUid)
	var response struct {
		Data []flightOrderWire `json:"data"`
	}
	if err := c.get(ctx, url, &response); err != nil {
		return nil, err
	}

	summaries := make([]Summary, 0, len(response.Data))
	for _, order := range response.Data {
		summaries = append(summaries, flightOrderToSummary(order))
	}
	return summaries, nil
}

func (c *ClientImpl) ListHotelOrders(ctx context.Context, travelerUid string) ([]Summary, error) {
	url := fmt.Sprintf("%s/booking/hotel-orders?traveler=%s", c.baseURL, travelerUid)
	var response struct {
		Data []hotelOrderWire `json:"data"`
	}
	if err := c.get(ctx, url, &response); err != nil {
		return nil, err
	}

	summaries := make([]Summary, 0, len(response.Data))
	for _, order := range response.Data {
		summaries = append(summaries, hotelOrderToSummary(order))
	}
	return summaries, nil
}

func (c *ClientImpl) GetFlightOrder(ctx context.Context, orderId string) (itinerary.FlightBooking, error) {
	url := fmt.Sprintf("%s/booking/flight-orders/%s", c.baseURL, orderId)
	var response struct {
		Data flightOrderWire `json:"data"`
	}
	if err := c.get(ctx, url, &response); err != nil {
		return itinerary.FlightBooking{}, err
	}
	return flightOrderToBooking(response.Data), nil
}

func (c *ClientImpl) GetHotelOrder(ctx context.Context, orderId string) (itinerary.HotelBooking, error) {
	url := fmt.Sprintf("%s/booking/hotel-orders/%s", c.baseURL, orderId)
	var response struct {
		Data hotelOrderWire `json:"data"`
	}
	if err := c.get(ctx, url, &response); err != nil {
		return itinerary.HotelBooking{}, err
	}
	return hotelOrderToBooking(response.Data), nil
}
