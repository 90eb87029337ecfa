package currency

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	log "github.com/sirupsen/logrus"

	"github.com/wayfare/wayfare/internal/config"
)

// RateSource provides exchange rates for a base currency. Rates map currency
// codes to the amount one unit of the base buys.
type RateSource interface {
	FetchRates(ctx context.Context, base string) (map[string]float64, error)
}

type ClientImpl struct {
	baseURL string
	http    *http.Client
}

func NewClient(cfg config.Currency) *ClientImpl {
	return &ClientImpl{
		baseURL: cfg.BaseURL,
		http:    http.DefaultClient,
	}
}

func (c *ClientImpl) FetchRates(ctx context.Context, base string) (map[string]float64, error) {
	url := fmt.Sprintf("%s/latest/%s", c.baseURL, base)
	req, err := http.NewRequestWithContext(ctx, "GET", url, nil)
	if err != nil {
		log.Errorf("Failed to create request: %v", err)
		return nil, err
	}

	resp, err := c.http.Do(req)
	if err != nil {
		log.Errorf("Failed to execute request: %v", err)
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		err := fmt.Errorf("exchange rate API returned non-OK status: %d", resp.StatusCode)
		log.Error(err)
		return nil, err
	}

	var response struct {
		Result string             `json:"result"`
		Rates  map[string]float64 `json:"rates"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&response); err != nil {
		log.Errorf("Failed to decode response: %v", err)
		return nil, err
	}
	if response.Result != "success" {
		return nil, fmt.Errorf("exchange rate API returned result %q", response.Result)
	}
	return response.Rates, nil
}
