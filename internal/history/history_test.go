package history

import (
	"testing"

	"github.com/suipredict/market-gateway/internal/model"
)

const (
	t0  = int64(1_700_000_000_000)
	now = int64(1_700_003_600_000) // t0 + 1h
)

func event(tsMs int64, outcome model.Outcome, inputAmount uint64) model.SwapEvent {
	return model.SwapEvent{
		TimestampMs:  tsMs,
		InputOutcome: outcome,
		InputAmount:  inputAmount,
		OutputAmount: inputAmount, // irrelevant to the walk
	}
}

func checkPoints(t *testing.T, points []model.PriceHistoryPoint) {
	t.Helper()
	for i, p := range points {
		if int(p.YesPriceBps)+int(p.NoPriceBps) != model.MaxBps {
			t.Errorf("point %d: yes %d + no %d != 10000", i, p.YesPriceBps, p.NoPriceBps)
		}
		if i > 0 && p.TimeMs < points[i-1].TimeMs {
			t.Errorf("point %d: time went backwards", i)
		}
	}
}

// --- No-event series ---

func TestReconstruct_NoEventsKnownCreation(t *testing.T) {
	points, err := Reconstruct(nil, 5000, t0, now)
	if err != nil {
		t.Fatal(err)
	}
	if len(points) != 2 {
		t.Fatalf("expected 2 points, got %d", len(points))
	}
	if points[0].TimeMs != t0 || points[0].YesPriceBps != 5000 || points[0].NoPriceBps != 5000 {
		t.Errorf("bad first point: %+v", points[0])
	}
	if points[1].TimeMs != now || points[1].YesPriceBps != 5000 {
		t.Errorf("bad last point: %+v", points[1])
	}
}

func TestReconstruct_NoEventsUnknownCreation(t *testing.T) {
	points, err := Reconstruct(nil, 7300, 0, now)
	if err != nil {
		t.Fatal(err)
	}
	if len(points) != 2 {
		t.Fatalf("expected 2 points, got %d", len(points))
	}
	if points[0].TimeMs != now-hourMs {
		t.Errorf("expected start one hour before now, got %d", points[0].TimeMs)
	}
	if points[0].YesPriceBps != 7300 || points[0].NoPriceBps != 2700 {
		t.Errorf("bad flat price: %+v", points[0])
	}
	checkPoints(t, points)
}

// --- Event walk ---

func TestReconstruct_SeedsAtFiftyFifty(t *testing.T) {
	events := []model.SwapEvent{event(t0+1000, model.OutcomeNo, 1_000_000_000)}
	points, err := Reconstruct(events, 5200, t0, now)
	if err != nil {
		t.Fatal(err)
	}
	// initial + one per event + authoritative close.
	if len(points) != 3 {
		t.Fatalf("expected 3 points, got %d", len(points))
	}
	if points[0].TimeMs != t0 || points[0].YesPriceBps != 5000 {
		t.Errorf("walk must seed at 5000 bps at creation: %+v", points[0])
	}
	// 1 coin buying NO pushes YES up 2 percentage points.
	if points[1].YesPriceBps != 5200 {
		t.Errorf("expected 5200 after 1-coin NO buy, got %d", points[1].YesPriceBps)
	}
	if points[2].TimeMs != now || points[2].YesPriceBps != 5200 {
		t.Errorf("last point must carry the authoritative price: %+v", points[2])
	}
}

func TestReconstruct_UnknownCreationStartsBeforeFirstEvent(t *testing.T) {
	events := []model.SwapEvent{event(t0, model.OutcomeYes, 500_000_000)}
	points, err := Reconstruct(events, 4900, 0, now)
	if err != nil {
		t.Fatal(err)
	}
	if points[0].TimeMs != t0-minuteMs {
		t.Errorf("expected start one minute before first event, got %d", points[0].TimeMs)
	}
	// 0.5 coin buying YES pushes YES down 1 percentage point.
	if points[1].YesPriceBps != 4900 {
		t.Errorf("expected 4900 after 0.5-coin YES buy, got %d", points[1].YesPriceBps)
	}
}

func TestReconstruct_ImpactCappedAtFivePoints(t *testing.T) {
	// 100 coins would be a 200-point nudge uncapped.
	events := []model.SwapEvent{event(t0+1, model.OutcomeNo, 100_000_000_000)}
	points, err := Reconstruct(events, 5500, t0, now)
	if err != nil {
		t.Fatal(err)
	}
	if points[1].YesPriceBps != 5500 {
		t.Errorf("expected capped +500 bps move to 5500, got %d", points[1].YesPriceBps)
	}
}

func TestReconstruct_ClampedToOneNinetyNine(t *testing.T) {
	var events []model.SwapEvent
	for i := 0; i < 50; i++ {
		events = append(events, event(t0+int64(i), model.OutcomeYes, 1<<40))
	}
	points, err := Reconstruct(events, 5000, t0, now)
	if err != nil {
		t.Fatal(err)
	}
	checkPoints(t, points)
	for i, p := range points[:len(points)-1] {
		if p.YesPriceBps < 100 || p.YesPriceBps > 9900 {
			t.Errorf("point %d escaped [100, 9900]: %d", i, p.YesPriceBps)
		}
	}
	// Repeated max-size YES buys pin the walk at the floor.
	if points[len(points)-2].YesPriceBps != 100 {
		t.Errorf("expected walk pinned at 100 bps, got %d", points[len(points)-2].YesPriceBps)
	}
}

func TestReconstruct_SortsEventsStable(t *testing.T) {
	events := []model.SwapEvent{
		event(t0+2000, model.OutcomeNo, 1_000_000_000),
		event(t0+1000, model.OutcomeYes, 1_000_000_000),
		event(t0+2000, model.OutcomeYes, 1_000_000_000), // same ts as first, later arrival
	}
	points, err := Reconstruct(events, 5000, t0, now)
	if err != nil {
		t.Fatal(err)
	}
	// Walk: 5000 → 4800 (yes@t0+1000) → 5000 (no@t0+2000) → 4800 (yes@t0+2000).
	want := []uint16{5000, 4800, 5000, 4800, 5000}
	if len(points) != len(want) {
		t.Fatalf("expected %d points, got %d", len(want), len(points))
	}
	for i, w := range want {
		if points[i].YesPriceBps != w {
			t.Errorf("point %d: expected %d, got %d", i, w, points[i].YesPriceBps)
		}
	}
}

func TestReconstruct_DoesNotMutateInput(t *testing.T) {
	events := []model.SwapEvent{
		event(t0+2000, model.OutcomeNo, 1),
		event(t0+1000, model.OutcomeYes, 1),
	}
	if _, err := Reconstruct(events, 5000, t0, now); err != nil {
		t.Fatal(err)
	}
	if events[0].TimestampMs != t0+2000 {
		t.Error("input slice was reordered")
	}
}

// --- Misuse ---

func TestReconstruct_RejectsBadInputs(t *testing.T) {
	if _, err := Reconstruct(nil, 5000, t0, 0); err != ErrInvalidTimestamp {
		t.Errorf("expected ErrInvalidTimestamp for now=0, got %v", err)
	}
	if _, err := Reconstruct(nil, 5000, -5, now); err != ErrInvalidTimestamp {
		t.Errorf("expected ErrInvalidTimestamp for negative creation, got %v", err)
	}
	if _, err := Reconstruct(nil, 10001, t0, now); err != ErrInvalidPrice {
		t.Errorf("expected ErrInvalidPrice for 10001 bps, got %v", err)
	}
	bad := []model.SwapEvent{{TimestampMs: -1, InputOutcome: model.OutcomeYes, InputAmount: 1}}
	if _, err := Reconstruct(bad, 5000, t0, now); err != ErrInvalidTimestamp {
		t.Errorf("expected ErrInvalidTimestamp for negative event ts, got %v", err)
	}
}
