// Package orderbook derives display and matching views from flat snapshots
// of resting on-chain orders. Both entry points are pure: they read the
// order slice, never mutate it, and hold no state between calls.
package orderbook

import (
	"sort"

	"github.com/suipredict/market-gateway/internal/model"
)

// DepthLimit caps the number of price levels shown per side. Truncation
// drops the levels furthest from the top of book, never the best ones.
const DepthLimit = 10

// BookSummary is the aggregated view of one market's resting orders.
// BestBidBps/BestAskBps are nil when the corresponding side is empty.
// SpreadBps is nil unless both sides exist; a negative spread means the
// book is crossed, which is meaningful input for the matcher, not an error.
type BookSummary struct {
	BuyLevels  []model.OrderBookLevel `json:"buy_levels"`
	SellLevels []model.OrderBookLevel `json:"sell_levels"`
	BestBidBps *uint16                `json:"best_bid_bps"`
	BestAskBps *uint16                `json:"best_ask_bps"`
	SpreadBps  *int32                 `json:"spread_bps"`
}

// Aggregate groups open orders into per-price levels: buys sorted highest
// first, sells lowest first, each side capped at DepthLimit levels. The
// result is invariant under permutation of the input.
func Aggregate(orders []model.Order) BookSummary {
	buys := make(map[uint16]model.OrderBookLevel)
	sells := make(map[uint16]model.OrderBookLevel)

	for _, o := range orders {
		if !o.IsOpen || o.Remaining() == 0 {
			continue
		}
		levels := buys
		if o.Side == model.SideSell {
			levels = sells
		}
		lvl := levels[o.PriceBps]
		lvl.PriceBps = o.PriceBps
		lvl.TotalRemaining += o.Remaining()
		lvl.OrderCount++
		levels[o.PriceBps] = lvl
	}

	buyLevels := collectLevels(buys, true)
	sellLevels := collectLevels(sells, false)

	summary := BookSummary{
		BuyLevels:  truncate(buyLevels),
		SellLevels: truncate(sellLevels),
	}

	if len(buyLevels) > 0 {
		bid := buyLevels[0].PriceBps
		summary.BestBidBps = &bid
	}
	if len(sellLevels) > 0 {
		ask := sellLevels[0].PriceBps
		summary.BestAskBps = &ask
	}
	if summary.BestBidBps != nil && summary.BestAskBps != nil {
		spread := int32(*summary.BestAskBps) - int32(*summary.BestBidBps)
		summary.SpreadBps = &spread
	}

	return summary
}

// collectLevels flattens a level map into a sorted slice. Keys are unique
// per price, so the sort is total and the output deterministic.
func collectLevels(levels map[uint16]model.OrderBookLevel, descending bool) []model.OrderBookLevel {
	out := make([]model.OrderBookLevel, 0, len(levels))
	for _, lvl := range levels {
		out = append(out, lvl)
	}
	sort.Slice(out, func(i, j int) bool {
		if descending {
			return out[i].PriceBps > out[j].PriceBps
		}
		return out[i].PriceBps < out[j].PriceBps
	})
	return out
}

func truncate(levels []model.OrderBookLevel) []model.OrderBookLevel {
	if len(levels) > DepthLimit {
		return levels[:DepthLimit]
	}
	return levels
}
