// Package risk implements client-side notional guards applied before a
// transaction intent is built.
//
// Binary markets in the same category resolve on correlated real-world
// questions: a user long YES across twenty markets about the same election
// carries one bet, not twenty. The limiter therefore caps both the notional
// in a single market and the aggregate notional across a category.
//
// These are front-end guardrails, not on-chain enforcement — the chain will
// happily accept a trade the limiter would have refused.
package risk

import (
	"errors"

	"github.com/shopspring/decimal"
)

var (
	// ErrMarketLimitExceeded is returned when a trade would push a single
	// market's notional beyond the per-market maximum.
	ErrMarketLimitExceeded = errors.New("risk: per-market notional limit exceeded")

	// ErrCategoryLimitExceeded is returned when a trade would push the
	// aggregate notional across the market's category beyond the maximum.
	ErrCategoryLimitExceeded = errors.New("risk: category notional limit exceeded")
)

// Exposure is a user's current net notional in one market, in coins.
// Positive means net YES, negative net NO.
type Exposure struct {
	Category string
	Notional decimal.Decimal
}

// NotionalLimiter enforces per-market and per-category notional caps.
type NotionalLimiter struct {
	// MaxPerMarket is the maximum absolute notional in any single market.
	MaxPerMarket decimal.Decimal

	// MaxPerCategory is the maximum aggregate absolute notional across
	// all markets sharing a category.
	MaxPerCategory decimal.Decimal
}

// NewNotionalLimiter creates a limiter with the given caps in coins.
func NewNotionalLimiter(maxPerMarket, maxPerCategory decimal.Decimal) *NotionalLimiter {
	return &NotionalLimiter{
		MaxPerMarket:   maxPerMarket,
		MaxPerCategory: maxPerCategory,
	}
}

// CheckLimit validates whether a planned trade respects the caps.
//
// Parameters:
//   - targetMarket: ID of the market being traded
//   - category: the target market's category
//   - notionalDelta: signed change in notional (+YES / -NO direction)
//   - existing: map of market ID → current exposure for this user
//
// Returns nil when the trade is within limits.
func (l *NotionalLimiter) CheckLimit(
	targetMarket, category string,
	notionalDelta decimal.Decimal,
	existing map[string]Exposure,
) error {
	newPosition := existing[targetMarket].Notional.Add(notionalDelta)
	if newPosition.Abs().GreaterThan(l.MaxPerMarket) {
		return ErrMarketLimitExceeded
	}

	totalInCategory := newPosition.Abs()
	for marketID, exp := range existing {
		if marketID == targetMarket {
			continue // already counted via newPosition
		}
		if exp.Category == category {
			totalInCategory = totalInCategory.Add(exp.Notional.Abs())
		}
	}
	if totalInCategory.GreaterThan(l.MaxPerCategory) {
		return ErrCategoryLimitExceeded
	}

	return nil
}
