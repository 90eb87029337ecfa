package activity

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"

	log "github.com/sirupsen/logrus"

	"github.com/wayfare/wayfare/internal/config"
)

var ErrActivityNotFound = errors.New("activity not found")

type Client interface {
	Search(ctx context.Context, destination string, category string) ([]Activity, error)
	Get(ctx context.Context, activityId string) (Activity, error)
}

type ClientImpl struct {
	baseURL string
	apiKey  string
	http    *http.Client
}

func NewClient(cfg config.Activities) *ClientImpl {
	return &ClientImpl{
		baseURL: cfg.BaseURL,
		apiKey:  cfg.ApiKey,
		http:    http.DefaultClient,
	}
}

type activityWire struct {
	Id       string `json:"id"`
	Name     string `json:"name"`
	Category string `json:"category"`
	Price    struct {
		Amount   float64 `json:"amount"`
		Currency string  `json:"currencyCode"`
	} `json:"price"`
	Location string `json:"location"`
}

func wireToActivity(wire activityWire) Activity {
	return Activity{
		Id:       wire.Id,
		Name:     wire.Name,
		Category: wire.Category,
		Price:    wire.Price.Amount,
		Currency: wire.Price.Currency,
		Location: wire.Location,
	}
}

func (c *ClientImpl) get(ctx context.Context, requestURL string, out any) error {
	req, err := http.NewRequestWithContext(ctx, "GET", requestURL, nil)
	if err != nil {
		log.Errorf("Failed to create request: %v", err)
		return err
	}
	req.Header.Set("X-Api-Key", c.apiKey)

	resp, err := c.http.Do(req)
	if err != nil {
		log.Errorf("Failed to execute request: %v", err)
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return ErrActivityNotFound
	}
	if resp.StatusCode != http.StatusOK {
		err := fmt.Errorf("activities API returned non-OK status: %d", resp.StatusCode)
		log.Error(err)
		return err
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		log.Errorf("Failed to decode response: %v", err)
		return err
	}
	return nil
}

func (c *ClientImpl) Search(ctx context.Context, destination string, category string) ([]Activity, error) {
	query := url.Values{}
	query.Set("destination", destination)
	if category != "" {
		query.Set("category", category)
	}

	var response struct {
		Data []activityWire `json:"data"`
	}
	if err := c.get(ctx, c.baseURL+"/activities?"+query.Encode(), &response); err != nil {
		return nil, err
	}

	activities := make([]Activity, 0, len(response.Data))
	for _, wire := range response.Data {
		activities = append(activities, wireToActivity(wire))
	}
	return activities, nil
}

func (c *ClientImpl) Get(ctx context.Context, activityId string) (Activity, error) {
	var response struct {
		Data activityWire `json:"data"`
	}
	if err := c.get(ctx, c.baseURL+"/activities/"+activityId, &response); err != nil {
		return Activity{}, err
	}
	return wireToActivity(response.Data), nil
}
