// Package history rebuilds a chartable price series from a market's swap
// event log. The walk between known points is an approximation — it nudges
// a running price per trade instead of replaying the pool formula — so the
// output is a visualization aid only, never an input to settlement.
package history

import (
	"errors"
	"sort"

	"github.com/suipredict/market-gateway/internal/model"
)

const (
	// minPriceBps / maxPriceBps clamp the reconstructed walk to [1%, 99%],
	// mirroring the on-chain convention that prices never reach 0 or 100.
	minPriceBps = 100
	maxPriceBps = 9900

	// maxImpactBps caps the per-trade nudge at 5 percentage points.
	maxImpactBps = 500

	// mistPerImpactBp is the trade size that moves the walk by one bp:
	// impact = (inputAmount / 1e9) * 2 percentage points = amount / 5e6 bps.
	mistPerImpactBp = 5_000_000

	seedPriceBps = model.MaxBps / 2

	hourMs   = int64(60 * 60 * 1000)
	minuteMs = int64(60 * 1000)
)

var (
	// ErrInvalidTimestamp is returned for non-positive clock inputs or
	// negative event timestamps. These are programming errors in the
	// caller, not recoverable runtime conditions.
	ErrInvalidTimestamp = errors.New("history: timestamps must be positive")

	// ErrInvalidPrice is returned when the authoritative current price is
	// outside the 0..10000 bps range.
	ErrInvalidPrice = errors.New("history: current price must be within 0..10000 bps")
)

// Reconstruct turns a swap event log into an ordered, finite price series.
//
// With no events the series is a flat two-point line at the authoritative
// current price, spanning from the market creation time (or one hour before
// now when unknown) to now. With events, the walk seeds at 5000 bps — the
// canonical price of a freshly created market — at the creation time (or
// one minute before the first event when unknown), emits one point per
// event, and closes with the authoritative current price at nowMs.
//
// Pass marketCreatedAtMs = 0 when the creation time is unknown.
// The function is pure: it is recomputed from scratch on every call and
// never mutates the input slice.
func Reconstruct(events []model.SwapEvent, currentYesPriceBps uint16, marketCreatedAtMs, nowMs int64) ([]model.PriceHistoryPoint, error) {
	if nowMs <= 0 || marketCreatedAtMs < 0 {
		return nil, ErrInvalidTimestamp
	}
	if currentYesPriceBps > model.MaxBps {
		return nil, ErrInvalidPrice
	}

	if len(events) == 0 {
		start := marketCreatedAtMs
		if start == 0 {
			start = nowMs - hourMs
		}
		return []model.PriceHistoryPoint{
			point(start, currentYesPriceBps),
			point(nowMs, currentYesPriceBps),
		}, nil
	}

	sorted := append([]model.SwapEvent(nil), events...)
	for _, ev := range sorted {
		if ev.TimestampMs < 0 {
			return nil, ErrInvalidTimestamp
		}
	}
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].TimestampMs < sorted[j].TimestampMs
	})

	start := marketCreatedAtMs
	if start == 0 {
		start = sorted[0].TimestampMs - minuteMs
	}

	points := make([]model.PriceHistoryPoint, 0, len(sorted)+2)
	points = append(points, point(start, seedPriceBps))

	price := int64(seedPriceBps)
	for _, ev := range sorted {
		price = step(price, ev)
		points = append(points, point(ev.TimestampMs, uint16(price)))
	}

	// Close with the authoritative spot price: the walk is approximate,
	// the final point must reflect ground truth.
	points = append(points, point(nowMs, currentYesPriceBps))

	return points, nil
}

// step applies one trade to the running YES price: consuming the YES side
// pushes the YES price down, consuming NO pushes it up, with the nudge
// bounded by maxImpactBps and the result clamped to [minPriceBps, maxPriceBps].
func step(price int64, ev model.SwapEvent) int64 {
	impact := int64(ev.InputAmount / mistPerImpactBp)
	if impact > maxImpactBps {
		impact = maxImpactBps
	}

	if ev.InputOutcome == model.OutcomeYes {
		price -= impact
	} else {
		price += impact
	}

	if price < minPriceBps {
		return minPriceBps
	}
	if price > maxPriceBps {
		return maxPriceBps
	}
	return price
}

func point(timeMs int64, yesPriceBps uint16) model.PriceHistoryPoint {
	return model.PriceHistoryPoint{
		TimeMs:      timeMs,
		YesPriceBps: yesPriceBps,
		NoPriceBps:  model.MaxBps - yesPriceBps,
	}
}
