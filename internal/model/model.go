// Package model defines the core domain types shared across the gateway.
// All amounts are integers in mist (1e9 mist = 1 coin); all prices are
// integers in basis points (10000 bps = 100%).
package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// MistPerCoin is the number of mist in one display unit of the native coin.
const MistPerCoin = 1_000_000_000

// MaxBps is the basis-point scale: 10000 bps = 100%.
const MaxBps = 10000

// Side is the direction of a resting order.
type Side string

const (
	SideBuy  Side = "buy"
	SideSell Side = "sell"
)

// Outcome identifies one leg of a binary market.
type Outcome string

const (
	OutcomeYes Outcome = "yes"
	OutcomeNo  Outcome = "no"
)

// Opposite returns the other leg of the binary pair.
func (o Outcome) Opposite() Outcome {
	if o == OutcomeYes {
		return OutcomeNo
	}
	return OutcomeYes
}

// LiquidityPool is a snapshot of an on-chain constant-product pool.
// The yes price is derived from the reserve ratio, never stored.
type LiquidityPool struct {
	YesReserve    uint64 `json:"yes_reserve"`
	NoReserve     uint64 `json:"no_reserve"`
	TotalLpTokens uint64 `json:"total_lp_tokens"`
	FeesCollected uint64 `json:"fees_collected"`
	IsActive      bool   `json:"is_active"`
}

// Order is a snapshot of a resting limit order. The chain mutates orders
// (fills, cancels); this struct is read-only here.
type Order struct {
	OrderID  uint64  `json:"order_id"`
	Maker    string  `json:"maker"`
	Side     Side    `json:"side"`
	Outcome  Outcome `json:"outcome"`
	PriceBps uint16  `json:"price_bps"` // 1..9999
	Amount   uint64  `json:"amount"`
	Filled   uint64  `json:"filled"`
	IsOpen   bool    `json:"is_open"`
}

// Remaining returns the unfilled quantity.
func (o Order) Remaining() uint64 {
	if o.Filled >= o.Amount {
		return 0
	}
	return o.Amount - o.Filled
}

// OrderBookLevel is one aggregated price level of the book.
type OrderBookLevel struct {
	PriceBps       uint16 `json:"price_bps"`
	TotalRemaining uint64 `json:"total_remaining"`
	OrderCount     int    `json:"order_count"`
}

// SwapQuote is a client-side estimate of a pool swap. It is advisory:
// on-chain execution may differ and the transaction builder must enforce
// MinOutput as the slippage guard.
type SwapQuote struct {
	InputAmount        uint64          `json:"input_amount"`
	OutputAmount       uint64          `json:"output_amount"`
	FeeAmount          uint64          `json:"fee_amount"`
	PriceImpactPercent decimal.Decimal `json:"price_impact_percent"`
	EffectivePriceBps  uint64          `json:"effective_price_bps"`
	MinOutput          uint64          `json:"min_output"`
}

// MatchablePair is a crossed buy/sell pair surfaced by the matcher.
// Both source orders are live chain objects; the pair may be stale by the
// time a caller acts on it.
type MatchablePair struct {
	Buy               Order  `json:"buy"`
	Sell              Order  `json:"sell"`
	MatchAmount       uint64 `json:"match_amount"`
	ExecutionPriceBps uint16 `json:"execution_price_bps"`
}

// SpreadBps returns the captured profit in bps if the pair executes.
func (p MatchablePair) SpreadBps() int {
	return int(p.Buy.PriceBps) - int(p.Sell.PriceBps)
}

// SwapEvent is an immutable record of one pool swap, ordered by timestamp
// with LogIndex breaking ties (arrival order within a checkpoint).
type SwapEvent struct {
	TimestampMs  int64   `json:"timestamp_ms"`
	LogIndex     uint64  `json:"log_index"`
	InputOutcome Outcome `json:"input_outcome"`
	InputAmount  uint64  `json:"input_amount"`
	OutputAmount uint64  `json:"output_amount"`
}

// PriceHistoryPoint is one chart point. YesPriceBps + NoPriceBps == 10000.
type PriceHistoryPoint struct {
	TimeMs      int64  `json:"time_ms"`
	YesPriceBps uint16 `json:"yes_price_bps"`
	NoPriceBps  uint16 `json:"no_price_bps"`
}

// Market is a tracked prediction market with its latest pool snapshot.
type Market struct {
	ID        string        `json:"id"`
	ObjectID  string        `json:"object_id"`
	Question  string        `json:"question"`
	Category  string        `json:"category"`
	Status    string        `json:"status"` // "open", "resolved"
	Pool      LiquidityPool `json:"pool"`
	CreatedAt time.Time     `json:"created_at"`
}

// MistToCoin converts a mist amount to a display decimal.
func MistToCoin(mist uint64) decimal.Decimal {
	return decimal.NewFromUint64(mist).Shift(-9)
}

// BpsToPercent converts basis points to a display percentage.
func BpsToPercent(bps uint16) decimal.Decimal {
	return decimal.New(int64(bps), -2)
}
