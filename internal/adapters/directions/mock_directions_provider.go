package directions

import (
	"context"
	"delivery-geo-service/internal/domain"
	"fmt"
)

type MockPair struct {
	From, To domain.Coordinate
	Routes   []domain.Route
}

// MockDirectionsProvider serves fixed routes per start/end pair.
type MockDirectionsProvider struct {
	m map[[2]domain.Coordinate][]domain.Route
}

func NewMockDirectionsProvider(pairs []MockPair) *MockDirectionsProvider {
	m := make(map[[2]domain.Coordinate][]domain.Route, len(pairs))
	for _, p := range pairs {
		m[[2]domain.Coordinate{p.From, p.To}] = p.Routes
	}
	return &MockDirectionsProvider{m: m}
}

func (p *MockDirectionsProvider) Routes(ctx context.Context, start, end domain.Coordinate, retries int) ([]domain.Route, error) {
	r, ok := p.m[[2]domain.Coordinate{start, end}]
	if !ok {
		return nil, fmt.Errorf("missing pair %s -> %s", start, end)
	}

	return r, nil
}
