package orderbook

import (
	"sort"

	"github.com/suipredict/market-gateway/internal/model"
)

// FindMatches enumerates every crossed buy/sell pair in the snapshot: same
// outcome, both open, buy price at or above sell price. The scan covers the
// full buy×sell cross product — several sells can cross one buy and vice
// versa, so a greedy first match would hide opportunities.
//
// Pairs are ranked by descending price spread (most profitable first); the
// sort is stable, so equal spreads keep discovery order (buy input order,
// then sell input order).
//
// The execution price is the floored midpoint of the two limit prices.
// That is an approximation: a matcher honoring maker priority would use the
// resting order's price instead. Both source orders are returned so callers
// can apply their own convention, and every pair is advisory — the chain
// may have filled or cancelled either side by the time a match transaction
// lands, and callers must expect rejection.
func FindMatches(orders []model.Order) []model.MatchablePair {
	var buys, sells []model.Order
	for _, o := range orders {
		if !o.IsOpen || o.Remaining() == 0 {
			continue
		}
		switch o.Side {
		case model.SideBuy:
			buys = append(buys, o)
		case model.SideSell:
			sells = append(sells, o)
		}
	}

	var pairs []model.MatchablePair
	for _, buy := range buys {
		for _, sell := range sells {
			if buy.Outcome != sell.Outcome || buy.PriceBps < sell.PriceBps {
				continue
			}

			matchAmount := buy.Remaining()
			if sell.Remaining() < matchAmount {
				matchAmount = sell.Remaining()
			}

			pairs = append(pairs, model.MatchablePair{
				Buy:               buy,
				Sell:              sell,
				MatchAmount:       matchAmount,
				ExecutionPriceBps: (buy.PriceBps + sell.PriceBps) / 2,
			})
		}
	}

	sort.SliceStable(pairs, func(i, j int) bool {
		return pairs[i].SpreadBps() > pairs[j].SpreadBps()
	})

	return pairs
}
