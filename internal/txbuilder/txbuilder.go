// Package txbuilder shapes unsigned transaction intents from engine output.
// An intent is a plain value object describing the call a wallet should
// sign; signing and submission happen in the user's wallet, never here.
package txbuilder

import (
	"errors"
	"time"

	"github.com/google/uuid"

	"github.com/suipredict/market-gateway/internal/chain"
	"github.com/suipredict/market-gateway/internal/model"
)

var (
	// ErrNoQuote is returned when an intent is requested for a nil quote
	// (degenerate pool). There is nothing to sign.
	ErrNoQuote = errors.New("txbuilder: no quote available for intent")

	// ErrInvalidPrice is returned when a limit price falls outside 1..9999 bps.
	ErrInvalidPrice = errors.New("txbuilder: limit price must be within 1..9999 bps")

	// ErrZeroAmount is returned for zero-size orders.
	ErrZeroAmount = errors.New("txbuilder: amount must be positive")
)

// SwapIntent describes an unsigned pool swap. MinOutput is the on-chain
// slippage guard: the contract must abort if actual output falls below it.
type SwapIntent struct {
	IntentID       string        `json:"intent_id"`
	MarketObjectID string        `json:"market_object_id"`
	InputOutcome   model.Outcome `json:"input_outcome"`
	InputAmount    uint64        `json:"input_amount"`
	MinOutput      uint64        `json:"min_output"`
	CreatedAt      time.Time     `json:"created_at"`
}

// PlaceOrderIntent describes an unsigned limit order placement.
type PlaceOrderIntent struct {
	IntentID       string        `json:"intent_id"`
	MarketObjectID string        `json:"market_object_id"`
	Side           model.Side    `json:"side"`
	Outcome        model.Outcome `json:"outcome"`
	PriceBps       uint16        `json:"price_bps"`
	Amount         uint64        `json:"amount"`
	CreatedAt      time.Time     `json:"created_at"`
}

// CancelOrderIntent describes an unsigned order cancellation.
type CancelOrderIntent struct {
	IntentID       string    `json:"intent_id"`
	MarketObjectID string    `json:"market_object_id"`
	OrderID        uint64    `json:"order_id"`
	CreatedAt      time.Time `json:"created_at"`
}

// BuildSwapIntent turns a quote into an unsigned swap intent. The quote is
// a stale-tolerant estimate; only its MinOutput survives on-chain.
func BuildSwapIntent(marketObjectID string, inputOutcome model.Outcome, quote *model.SwapQuote) (*SwapIntent, error) {
	if err := chain.ValidateObjectID(marketObjectID); err != nil {
		return nil, err
	}
	if quote == nil {
		return nil, ErrNoQuote
	}

	return &SwapIntent{
		IntentID:       uuid.New().String(),
		MarketObjectID: marketObjectID,
		InputOutcome:   inputOutcome,
		InputAmount:    quote.InputAmount,
		MinOutput:      quote.MinOutput,
		CreatedAt:      time.Now().UTC(),
	}, nil
}

// BuildPlaceOrderIntent shapes an unsigned limit order placement.
func BuildPlaceOrderIntent(marketObjectID string, side model.Side, outcome model.Outcome, priceBps uint16, amount uint64) (*PlaceOrderIntent, error) {
	if err := chain.ValidateObjectID(marketObjectID); err != nil {
		return nil, err
	}
	if priceBps == 0 || priceBps >= model.MaxBps {
		return nil, ErrInvalidPrice
	}
	if amount == 0 {
		return nil, ErrZeroAmount
	}

	return &PlaceOrderIntent{
		IntentID:       uuid.New().String(),
		MarketObjectID: marketObjectID,
		Side:           side,
		Outcome:        outcome,
		PriceBps:       priceBps,
		Amount:         amount,
		CreatedAt:      time.Now().UTC(),
	}, nil
}

// BuildCancelOrderIntent shapes an unsigned order cancellation.
func BuildCancelOrderIntent(marketObjectID string, orderID uint64) (*CancelOrderIntent, error) {
	if err := chain.ValidateObjectID(marketObjectID); err != nil {
		return nil, err
	}

	return &CancelOrderIntent{
		IntentID:       uuid.New().String(),
		MarketObjectID: marketObjectID,
		OrderID:        orderID,
		CreatedAt:      time.Now().UTC(),
	}, nil
}
