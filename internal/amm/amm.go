// Package amm implements constant-product (x*y=k) swap pricing for binary
// outcome pools, with a proportional fee charged on the input side.
//
// Everything here is a client-side estimate computed from an already-fetched
// pool snapshot: the chain executes the authoritative swap, and the quote's
// MinOutput is the only value the transaction builder carries on-chain (as
// the slippage guard). Quotes must tolerate being stale.
//
// All core arithmetic runs in math/big: reserves up to ~1e15 mist multiplied
// by the 10000 bps scale exceed 64 bits, and float64 silently loses
// precision long before that. Never float64 for money.
package amm

import (
	"errors"
	"math/big"

	"github.com/shopspring/decimal"

	"github.com/suipredict/market-gateway/internal/model"
)

const (
	// DefaultFeeBps is the pool fee charged on input: 30 bps = 0.3%.
	DefaultFeeBps uint16 = 30

	// DefaultSlippageBps is the slippage tolerance applied when the caller
	// does not specify one: 100 bps = 1%.
	DefaultSlippageBps uint16 = 100
)

var (
	// ErrInvalidFee is returned when the fee is not below 10000 bps.
	ErrInvalidFee = errors.New("amm: fee must be below 10000 bps")

	// ErrInvalidSlippage is returned when slippage tolerance exceeds 10000 bps.
	ErrInvalidSlippage = errors.New("amm: slippage tolerance must not exceed 10000 bps")
)

var bpsScale = big.NewInt(model.MaxBps)

// Pricer computes swap quotes for a fixed fee tier. It is stateless —
// pool snapshots are passed as arguments, not stored.
type Pricer struct {
	feeBps uint16
}

// NewPricer creates a pricer with the given fee in basis points.
func NewPricer(feeBps uint16) (*Pricer, error) {
	if feeBps >= model.MaxBps {
		return nil, ErrInvalidFee
	}
	return &Pricer{feeBps: feeBps}, nil
}

// FeeBps returns the fee tier.
func (p *Pricer) FeeBps() uint16 {
	return p.feeBps
}

// Quote prices a swap of inputAmount mist of inputOutcome against the pool.
//
// Degenerate-but-legal states (inactive pool, either reserve zero, zero
// input) return a nil quote and nil error: an empty or paused pool is not a
// failure, it just has no price. An out-of-range slippage tolerance is
// caller misuse and returns an error.
//
// The formula, with fee charged on input:
//
//	inputAfterFee = inputAmount * (10000 - feeBps)
//	outputAmount  = floor(inputAfterFee * outputReserve /
//	                      (inputReserve * 10000 + inputAfterFee))
//	feeAmount     = floor(inputAmount * feeBps / 10000)
//	minOutput     = floor(outputAmount * (10000 - slippageBps) / 10000)
//
// Swapping YES uses (yesReserve, noReserve); swapping NO uses the reverse.
func (p *Pricer) Quote(pool model.LiquidityPool, inputAmount uint64, inputOutcome model.Outcome, slippageBps uint16) (*model.SwapQuote, error) {
	if slippageBps > model.MaxBps {
		return nil, ErrInvalidSlippage
	}

	inputReserve, outputReserve := pool.YesReserve, pool.NoReserve
	if inputOutcome == model.OutcomeNo {
		inputReserve, outputReserve = pool.NoReserve, pool.YesReserve
	}

	if !pool.IsActive || inputReserve == 0 || outputReserve == 0 || inputAmount == 0 {
		return nil, nil
	}

	in := new(big.Int).SetUint64(inputAmount)
	inRes := new(big.Int).SetUint64(inputReserve)
	outRes := new(big.Int).SetUint64(outputReserve)

	// inputAfterFee = in * (10000 - fee), pre-scaled by 10000.
	inAfterFee := new(big.Int).Mul(in, big.NewInt(int64(model.MaxBps-p.feeBps)))

	den := new(big.Int).Mul(inRes, bpsScale)
	den.Add(den, inAfterFee)

	out := new(big.Int).Mul(inAfterFee, outRes)
	out.Quo(out, den)
	outputAmount := out.Uint64()

	fee := new(big.Int).Mul(in, big.NewInt(int64(p.feeBps)))
	fee.Quo(fee, bpsScale)

	minOut := new(big.Int).SetUint64(outputAmount)
	minOut.Mul(minOut, big.NewInt(int64(model.MaxBps-slippageBps)))
	minOut.Quo(minOut, bpsScale)

	effective := new(big.Int).SetUint64(outputAmount)
	effective.Mul(effective, bpsScale)
	effective.Quo(effective, in)

	return &model.SwapQuote{
		InputAmount:        inputAmount,
		OutputAmount:       outputAmount,
		FeeAmount:          fee.Uint64(),
		PriceImpactPercent: priceImpact(inputReserve, outputReserve, inputAmount, outputAmount),
		EffectivePriceBps:  effective.Uint64(),
		MinOutput:          minOut.Uint64(),
	}, nil
}

// priceImpact returns |execution - spot| / spot * 100, where spot is the
// pre-trade marginal price outputReserve/inputReserve and execution is
// outputAmount/inputAmount. Zero when the input is zero.
func priceImpact(inputReserve, outputReserve, inputAmount, outputAmount uint64) decimal.Decimal {
	if inputAmount == 0 || inputReserve == 0 || outputReserve == 0 {
		return decimal.Zero
	}

	spot := decimal.NewFromUint64(outputReserve).Div(decimal.NewFromUint64(inputReserve))
	execution := decimal.NewFromUint64(outputAmount).Div(decimal.NewFromUint64(inputAmount))

	return execution.Sub(spot).Abs().Div(spot).Mul(decimal.NewFromInt(100))
}

// PoolYesPriceBps derives the YES price from the reserve ratio:
//
//	yesPriceBps = noReserve * 10000 / (yesReserve + noReserve)
//
// An empty pool prices at 5000 bps, the 50/50 prior for a fresh market.
func PoolYesPriceBps(pool model.LiquidityPool) uint16 {
	total := new(big.Int).SetUint64(pool.YesReserve)
	total.Add(total, new(big.Int).SetUint64(pool.NoReserve))
	if total.Sign() == 0 {
		return model.MaxBps / 2
	}

	price := new(big.Int).SetUint64(pool.NoReserve)
	price.Mul(price, bpsScale)
	price.Quo(price, total)
	return uint16(price.Uint64())
}
