package store

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/suipredict/market-gateway/internal/model"
)

// CachedStore wraps a primary Store (PostgreSQL) with a Redis read-through
// cache for the hot read paths: market/pool snapshots and order snapshots.
// Writes go to the primary store and invalidate the cache. The append-only
// event log is not cached — history reads want the full, growing log.
type CachedStore struct {
	primary Store
	rdb     *redis.Client
	ttl     time.Duration
}

// NewCachedStore creates a cached wrapper around a primary store.
func NewCachedStore(primary Store, rdb *redis.Client, ttl time.Duration) *CachedStore {
	return &CachedStore{
		primary: primary,
		rdb:     rdb,
		ttl:     ttl,
	}
}

// --- Write-through (write to primary, refresh or invalidate cache) ---

func (s *CachedStore) CreateMarket(ctx context.Context, m *model.Market) error {
	if err := s.primary.CreateMarket(ctx, m); err != nil {
		return err
	}
	s.cacheMarket(ctx, m)
	return nil
}

func (s *CachedStore) UpdatePoolSnapshot(ctx context.Context, id string, pool model.LiquidityPool) error {
	if err := s.primary.UpdatePoolSnapshot(ctx, id, pool); err != nil {
		return err
	}
	// Invalidate; next read re-populates.
	s.rdb.Del(ctx, marketKey(id))
	return nil
}

func (s *CachedStore) ReplaceOrders(ctx context.Context, marketID string, orders []model.Order) error {
	if err := s.primary.ReplaceOrders(ctx, marketID, orders); err != nil {
		return err
	}
	s.rdb.Del(ctx, ordersKey(marketID))
	return nil
}

func (s *CachedStore) AppendSwapEvents(ctx context.Context, marketID string, events []model.SwapEvent) error {
	return s.primary.AppendSwapEvents(ctx, marketID, events)
}

// --- Read-through (check cache first) ---

func (s *CachedStore) GetMarket(ctx context.Context, id string) (*model.Market, error) {
	data, err := s.rdb.Get(ctx, marketKey(id)).Bytes()
	if err == nil {
		var m model.Market
		if json.Unmarshal(data, &m) == nil {
			return &m, nil
		}
	}

	m, err := s.primary.GetMarket(ctx, id)
	if err != nil {
		return nil, err
	}

	s.cacheMarket(ctx, m)
	return m, nil
}

func (s *CachedStore) GetMarketByObjectID(ctx context.Context, objectID string) (*model.Market, error) {
	// Try cache via objectID→marketID mapping.
	marketID, err := s.rdb.Get(ctx, objectKey(objectID)).Result()
	if err == nil {
		return s.GetMarket(ctx, marketID)
	}

	m, err := s.primary.GetMarketByObjectID(ctx, objectID)
	if err != nil {
		return nil, err
	}

	s.cacheMarket(ctx, m)
	s.rdb.Set(ctx, objectKey(objectID), m.ID, s.ttl)
	return m, nil
}

func (s *CachedStore) GetOrders(ctx context.Context, marketID string) ([]model.Order, error) {
	data, err := s.rdb.Get(ctx, ordersKey(marketID)).Bytes()
	if err == nil {
		var orders []model.Order
		if json.Unmarshal(data, &orders) == nil {
			return orders, nil
		}
	}

	orders, err := s.primary.GetOrders(ctx, marketID)
	if err != nil {
		return nil, err
	}

	if data, err := json.Marshal(orders); err == nil {
		s.rdb.Set(ctx, ordersKey(marketID), data, s.ttl)
	}
	return orders, nil
}

// --- Passthrough (not cached) ---

func (s *CachedStore) ListMarkets(ctx context.Context) ([]model.Market, error) {
	return s.primary.ListMarkets(ctx)
}

func (s *CachedStore) GetSwapEvents(ctx context.Context, marketID string) ([]model.SwapEvent, error) {
	return s.primary.GetSwapEvents(ctx, marketID)
}

// --- Cache helpers ---

func (s *CachedStore) cacheMarket(ctx context.Context, m *model.Market) {
	if data, err := json.Marshal(m); err == nil {
		s.rdb.Set(ctx, marketKey(m.ID), data, s.ttl)
	}
}

func marketKey(id string) string { return fmt.Sprintf("market:%s", id) }
func objectKey(id string) string { return fmt.Sprintf("object:%s", id) }
func ordersKey(id string) string { return fmt.Sprintf("orders:%s", id) }
