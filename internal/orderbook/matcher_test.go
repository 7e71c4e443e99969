package orderbook

import (
	"testing"

	"github.com/suipredict/market-gateway/internal/model"
)

func TestFindMatches_Empty(t *testing.T) {
	if pairs := FindMatches(nil); len(pairs) != 0 {
		t.Errorf("expected no pairs, got %d", len(pairs))
	}
}

func TestFindMatches_SingleCrossedPair(t *testing.T) {
	pairs := FindMatches([]model.Order{
		order(1, model.SideBuy, model.OutcomeYes, 6000, 5, 0, true),
		order(2, model.SideSell, model.OutcomeYes, 5500, 3, 0, true),
	})
	if len(pairs) != 1 {
		t.Fatalf("expected 1 pair, got %d", len(pairs))
	}
	p := pairs[0]
	if p.MatchAmount != 3 {
		t.Errorf("expected match amount 3, got %d", p.MatchAmount)
	}
	if p.ExecutionPriceBps != 5750 {
		t.Errorf("expected midpoint 5750, got %d", p.ExecutionPriceBps)
	}
	if p.Buy.OrderID != 1 || p.Sell.OrderID != 2 {
		t.Errorf("wrong orders in pair: buy=%d sell=%d", p.Buy.OrderID, p.Sell.OrderID)
	}
}

func TestFindMatches_RequiresCross(t *testing.T) {
	pairs := FindMatches([]model.Order{
		order(1, model.SideBuy, model.OutcomeYes, 5000, 5, 0, true),
		order(2, model.SideSell, model.OutcomeYes, 5500, 3, 0, true),
	})
	if len(pairs) != 0 {
		t.Errorf("uncrossed book should yield no pairs, got %d", len(pairs))
	}
}

func TestFindMatches_EqualPricesCross(t *testing.T) {
	pairs := FindMatches([]model.Order{
		order(1, model.SideBuy, model.OutcomeNo, 5000, 5, 0, true),
		order(2, model.SideSell, model.OutcomeNo, 5000, 5, 0, true),
	})
	if len(pairs) != 1 {
		t.Fatalf("touching prices should cross, got %d pairs", len(pairs))
	}
	if pairs[0].ExecutionPriceBps != 5000 {
		t.Errorf("expected execution at 5000, got %d", pairs[0].ExecutionPriceBps)
	}
}

func TestFindMatches_DifferentOutcomesNeverMatch(t *testing.T) {
	pairs := FindMatches([]model.Order{
		order(1, model.SideBuy, model.OutcomeYes, 9000, 5, 0, true),
		order(2, model.SideSell, model.OutcomeNo, 1000, 5, 0, true),
	})
	if len(pairs) != 0 {
		t.Errorf("cross-outcome match must not happen, got %d pairs", len(pairs))
	}
}

func TestFindMatches_SkipsClosedAndFilled(t *testing.T) {
	pairs := FindMatches([]model.Order{
		order(1, model.SideBuy, model.OutcomeYes, 6000, 5, 0, false),
		order(2, model.SideSell, model.OutcomeYes, 5000, 5, 5, true),
		order(3, model.SideSell, model.OutcomeYes, 5000, 5, 0, true),
	})
	if len(pairs) != 0 {
		t.Errorf("closed/filled orders must not match, got %d pairs", len(pairs))
	}
}

// One buy can cross several sells and vice versa: the full cross product
// must be surfaced, not a greedy first match.
func TestFindMatches_Completeness(t *testing.T) {
	orders := []model.Order{
		order(1, model.SideBuy, model.OutcomeYes, 6000, 10, 0, true),
		order(2, model.SideBuy, model.OutcomeYes, 5600, 10, 0, true),
		order(3, model.SideSell, model.OutcomeYes, 5500, 4, 0, true),
		order(4, model.SideSell, model.OutcomeYes, 5800, 4, 0, true),
		order(5, model.SideSell, model.OutcomeYes, 6500, 4, 0, true),
	}
	// Crossed pairs: (1,3) spread 500, (1,4) spread 200, (2,3) spread 100.
	pairs := FindMatches(orders)
	if len(pairs) != 3 {
		t.Fatalf("expected exactly 3 pairs, got %d", len(pairs))
	}

	type key struct{ buy, sell uint64 }
	want := map[key]bool{
		{1, 3}: true,
		{1, 4}: true,
		{2, 3}: true,
	}
	for _, p := range pairs {
		if !want[key{p.Buy.OrderID, p.Sell.OrderID}] {
			t.Errorf("unexpected pair buy=%d sell=%d", p.Buy.OrderID, p.Sell.OrderID)
		}
	}

	// Ranked by descending spread.
	if pairs[0].Buy.OrderID != 1 || pairs[0].Sell.OrderID != 3 {
		t.Errorf("largest spread should rank first, got buy=%d sell=%d",
			pairs[0].Buy.OrderID, pairs[0].Sell.OrderID)
	}
	for i := 1; i < len(pairs); i++ {
		if pairs[i].SpreadBps() > pairs[i-1].SpreadBps() {
			t.Fatalf("pairs not sorted by spread: %d after %d",
				pairs[i].SpreadBps(), pairs[i-1].SpreadBps())
		}
	}
}

func TestFindMatches_Soundness(t *testing.T) {
	orders := []model.Order{
		order(1, model.SideBuy, model.OutcomeYes, 7000, 5, 0, true),
		order(2, model.SideBuy, model.OutcomeNo, 4000, 9, 3, true),
		order(3, model.SideSell, model.OutcomeYes, 6500, 2, 0, true),
		order(4, model.SideSell, model.OutcomeNo, 3500, 7, 0, true),
		order(5, model.SideSell, model.OutcomeYes, 7200, 2, 0, true),
	}
	for _, p := range FindMatches(orders) {
		if p.Buy.Side != model.SideBuy || p.Sell.Side != model.SideSell {
			t.Errorf("pair with wrong sides: %+v", p)
		}
		if p.Buy.Outcome != p.Sell.Outcome {
			t.Errorf("pair across outcomes: %+v", p)
		}
		if p.Buy.PriceBps < p.Sell.PriceBps {
			t.Errorf("uncrossed pair returned: buy %d < sell %d", p.Buy.PriceBps, p.Sell.PriceBps)
		}
		if p.MatchAmount == 0 || p.MatchAmount > p.Buy.Remaining() || p.MatchAmount > p.Sell.Remaining() {
			t.Errorf("bad match amount %d for %+v", p.MatchAmount, p)
		}
	}
}

func TestFindMatches_StableOnEqualSpread(t *testing.T) {
	orders := []model.Order{
		order(1, model.SideBuy, model.OutcomeYes, 6000, 5, 0, true),
		order(2, model.SideBuy, model.OutcomeYes, 6000, 5, 0, true),
		order(3, model.SideSell, model.OutcomeYes, 5500, 5, 0, true),
	}
	pairs := FindMatches(orders)
	if len(pairs) != 2 {
		t.Fatalf("expected 2 pairs, got %d", len(pairs))
	}
	// Equal spreads keep discovery order: buy 1 before buy 2.
	if pairs[0].Buy.OrderID != 1 || pairs[1].Buy.OrderID != 2 {
		t.Errorf("tie-break lost discovery order: %d then %d",
			pairs[0].Buy.OrderID, pairs[1].Buy.OrderID)
	}
}
