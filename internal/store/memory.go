package store

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"github.com/suipredict/market-gateway/internal/model"
)

// MemoryStore implements Store with in-memory maps. Used for testing and
// development. Not suitable for production (no persistence).
type MemoryStore struct {
	mu      sync.RWMutex
	markets map[string]*model.Market
	orders  map[string][]model.Order
	events  map[string][]model.SwapEvent
}

// NewMemoryStore creates a new in-memory store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		markets: make(map[string]*model.Market),
		orders:  make(map[string][]model.Order),
		events:  make(map[string][]model.SwapEvent),
	}
}

func (s *MemoryStore) CreateMarket(_ context.Context, m *model.Market) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, existing := range s.markets {
		if existing.ObjectID == m.ObjectID {
			return fmt.Errorf("market for object %s already exists", m.ObjectID)
		}
	}

	// Store a copy to avoid external mutation.
	cp := *m
	s.markets[m.ID] = &cp
	return nil
}

func (s *MemoryStore) GetMarket(_ context.Context, id string) (*model.Market, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	m, ok := s.markets[id]
	if !ok {
		return nil, fmt.Errorf("%w: market %s", ErrNotFound, id)
	}
	cp := *m
	return &cp, nil
}

func (s *MemoryStore) GetMarketByObjectID(_ context.Context, objectID string) (*model.Market, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, m := range s.markets {
		if m.ObjectID == objectID {
			cp := *m
			return &cp, nil
		}
	}
	return nil, fmt.Errorf("%w: market for object %s", ErrNotFound, objectID)
}

func (s *MemoryStore) ListMarkets(_ context.Context) ([]model.Market, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	markets := make([]model.Market, 0, len(s.markets))
	for _, m := range s.markets {
		markets = append(markets, *m)
	}
	sort.Slice(markets, func(i, j int) bool {
		return markets[i].CreatedAt.After(markets[j].CreatedAt)
	})
	return markets, nil
}

func (s *MemoryStore) UpdatePoolSnapshot(_ context.Context, id string, pool model.LiquidityPool) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	m, ok := s.markets[id]
	if !ok {
		return fmt.Errorf("%w: market %s", ErrNotFound, id)
	}
	m.Pool = pool
	return nil
}

func (s *MemoryStore) ReplaceOrders(_ context.Context, marketID string, orders []model.Order) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.markets[marketID]; !ok {
		return fmt.Errorf("%w: market %s", ErrNotFound, marketID)
	}
	s.orders[marketID] = append([]model.Order(nil), orders...)
	return nil
}

func (s *MemoryStore) GetOrders(_ context.Context, marketID string) ([]model.Order, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return append([]model.Order(nil), s.orders[marketID]...), nil
}

func (s *MemoryStore) AppendSwapEvents(_ context.Context, marketID string, events []model.SwapEvent) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.markets[marketID]; !ok {
		return fmt.Errorf("%w: market %s", ErrNotFound, marketID)
	}
	s.events[marketID] = append(s.events[marketID], events...)
	return nil
}

func (s *MemoryStore) GetSwapEvents(_ context.Context, marketID string) ([]model.SwapEvent, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	events := append([]model.SwapEvent(nil), s.events[marketID]...)
	sort.SliceStable(events, func(i, j int) bool {
		if events[i].TimestampMs != events[j].TimestampMs {
			return events[i].TimestampMs < events[j].TimestampMs
		}
		return events[i].LogIndex < events[j].LogIndex
	})
	return events, nil
}
