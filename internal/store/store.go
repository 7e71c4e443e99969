// Package store persists chain snapshots pushed by the poller: tracked
// markets with their latest pool state, resting order snapshots, and the
// append-only swap event log. Implementations include PostgreSQL (source of
// truth), Redis (read-through cache), and in-memory (for testing).
package store

import (
	"context"
	"errors"

	"github.com/suipredict/market-gateway/internal/model"
)

// ErrNotFound is returned for lookups of unknown markets.
var ErrNotFound = errors.New("store: not found")

// Store is the persistence interface. Everything it holds is a snapshot of
// chain state and may be stale; the poller overwrites pool and order
// snapshots on every cycle, while swap events only ever append.
type Store interface {
	// --- Markets ---

	// CreateMarket registers a tracked market.
	CreateMarket(ctx context.Context, market *model.Market) error

	// GetMarket retrieves a market by its gateway ID.
	GetMarket(ctx context.Context, id string) (*model.Market, error)

	// GetMarketByObjectID retrieves a market by its on-chain object ID.
	GetMarketByObjectID(ctx context.Context, objectID string) (*model.Market, error)

	// ListMarkets returns all tracked markets.
	ListMarkets(ctx context.Context) ([]model.Market, error)

	// UpdatePoolSnapshot replaces a market's pool snapshot.
	UpdatePoolSnapshot(ctx context.Context, id string, pool model.LiquidityPool) error

	// --- Order snapshots ---

	// ReplaceOrders swaps in a fresh order snapshot for a market.
	ReplaceOrders(ctx context.Context, marketID string, orders []model.Order) error

	// GetOrders returns the latest order snapshot for a market.
	GetOrders(ctx context.Context, marketID string) ([]model.Order, error)

	// --- Swap event log ---

	// AppendSwapEvents appends parsed events to a market's log.
	AppendSwapEvents(ctx context.Context, marketID string, events []model.SwapEvent) error

	// GetSwapEvents returns a market's event log ordered by
	// (timestamp_ms, log_index) ascending.
	GetSwapEvents(ctx context.Context, marketID string) ([]model.SwapEvent, error)
}
