package currency

import (
	"context"
	"errors"
)

type SourceStub struct {
	RatesByBase map[string]map[string]float64
	FetchCount  int
}

func NewSourceStub() *SourceStub {
	return &SourceStub{RatesByBase: map[string]map[string]float64{}}
}

func (s *SourceStub) FetchRates(ctx context.Context, base string) (map[string]float64, error) {
	s.FetchCount++
	rates, ok := s.RatesByBase[base]
	if !ok {
		return nil, errors.New("no rates for base " + base)
	}
	return rates, nil
}

func (s *SourceStub) Cleanup() {
	s.RatesByBase = map[string]map[string]float64{}
	s.FetchCount = 0
}
