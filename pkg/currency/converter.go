package currency

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	log "github.com/sirupsen/logrus"
)

var ErrUnknownCurrency = errors.New("unknown currency code")

// rateTTL bounds how stale a cached rate table may get. Exchange rates for
// trip budgeting do not need intraday precision.
const rateTTL = 12 * time.Hour

type Converter interface {
	// Rates returns the rate table for the base currency, served from cache
	// when fresh.
	Rates(ctx context.Context, base string) (map[string]float64, error)
	// Convert converts an amount between two currency codes.
	Convert(ctx context.Context, amount float64, from string, to string) (float64, error)
}

type ConverterImpl struct {
	source RateSource
	redis  *redis.Client
}

// NewConverter builds a converter backed by the rate source, with an optional
// Redis cache. A nil redis client disables caching; Redis outages degrade to
// fetching from the source directly.
func NewConverter(source RateSource, redisClient *redis.Client) *ConverterImpl {
	return &ConverterImpl{source: source, redis: redisClient}
}

func cacheKey(base string) string {
	return "rates:" + base
}

func (c *ConverterImpl) Rates(ctx context.Context, base string) (map[string]float64, error) {
	if c.redis != nil {
		cached, err := c.redis.Get(ctx, cacheKey(base)).Result()
		if err == nil {
			var rates map[string]float64
			if err := json.Unmarshal([]byte(cached), &rates); err == nil {
				return rates, nil
			}
			log.Warnf("Discarding unreadable cached rates for %s", base)
		} else if !errors.Is(err, redis.Nil) {
			log.Warnf("Rate cache unavailable, fetching directly: %v", err)
		}
	}

	rates, err := c.source.FetchRates(ctx, base)
	if err != nil {
		return nil, err
	}

	if c.redis != nil {
		encoded, err := json.Marshal(rates)
		if err == nil {
			if err := c.redis.Set(ctx, cacheKey(base), encoded, rateTTL).Err(); err != nil {
				log.Warnf("Failed to cache rates for %s: %v", base, err)
			}
		}
	}
	return rates, nil
}

func (c *ConverterImpl) Convert(ctx context.Context, amount float64, from string, to string) (float64, error) {
	if from == to {
		return amount, nil
	}
	rates, err := c.Rates(ctx, from)
	if err != nil {
		return 0, err
	}
	rate, ok := rates[to]
	if !ok || rate == 0 {
		return 0, fmt.Errorf("%w: no rate from %s to %s", ErrUnknownCurrency, from, to)
	}
	return amount * rate, nil
}
