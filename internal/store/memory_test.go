package store

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/suipredict/market-gateway/internal/model"
)

func testMarket(id string) *model.Market {
	return &model.Market{
		ID:       id,
		ObjectID: "0x" + strings.Repeat(id[len(id)-1:], 64),
		Question: "Will it resolve yes?",
		Category: "politics",
		Status:   "open",
		Pool: model.LiquidityPool{
			YesReserve: 1_000_000_000,
			NoReserve:  1_000_000_000,
			IsActive:   true,
		},
		CreatedAt: time.Now().UTC(),
	}
}

func TestMemoryStore_MarketLifecycle(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore()
	m := testMarket("m1")

	if err := s.CreateMarket(ctx, m); err != nil {
		t.Fatal(err)
	}
	dup := testMarket("m2")
	dup.ObjectID = m.ObjectID
	if err := s.CreateMarket(ctx, dup); err == nil {
		t.Error("duplicate object ID must be rejected")
	}

	got, err := s.GetMarket(ctx, "m1")
	if err != nil {
		t.Fatal(err)
	}
	if got.ObjectID != m.ObjectID {
		t.Errorf("round trip mismatch: %+v", got)
	}

	byObj, err := s.GetMarketByObjectID(ctx, m.ObjectID)
	if err != nil || byObj.ID != "m1" {
		t.Errorf("object lookup failed: %v %+v", err, byObj)
	}

	if _, err := s.GetMarket(ctx, "nope"); !errors.Is(err, ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}

func TestMemoryStore_PoolSnapshotUpdate(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore()
	if err := s.CreateMarket(ctx, testMarket("m1")); err != nil {
		t.Fatal(err)
	}

	next := model.LiquidityPool{YesReserve: 5, NoReserve: 6, IsActive: false}
	if err := s.UpdatePoolSnapshot(ctx, "m1", next); err != nil {
		t.Fatal(err)
	}
	m, _ := s.GetMarket(ctx, "m1")
	if m.Pool != next {
		t.Errorf("pool snapshot not replaced: %+v", m.Pool)
	}

	if err := s.UpdatePoolSnapshot(ctx, "nope", next); !errors.Is(err, ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}

func TestMemoryStore_OrdersReplaced(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore()
	if err := s.CreateMarket(ctx, testMarket("m1")); err != nil {
		t.Fatal(err)
	}

	first := []model.Order{{OrderID: 1, Side: model.SideBuy, Outcome: model.OutcomeYes, PriceBps: 4000, Amount: 10, IsOpen: true}}
	if err := s.ReplaceOrders(ctx, "m1", first); err != nil {
		t.Fatal(err)
	}
	second := []model.Order{
		{OrderID: 2, Side: model.SideSell, Outcome: model.OutcomeYes, PriceBps: 6000, Amount: 5, IsOpen: true},
		{OrderID: 3, Side: model.SideSell, Outcome: model.OutcomeYes, PriceBps: 6100, Amount: 5, IsOpen: true},
	}
	if err := s.ReplaceOrders(ctx, "m1", second); err != nil {
		t.Fatal(err)
	}

	orders, err := s.GetOrders(ctx, "m1")
	if err != nil {
		t.Fatal(err)
	}
	if len(orders) != 2 || orders[0].OrderID != 2 {
		t.Errorf("snapshot not replaced: %+v", orders)
	}
}

func TestMemoryStore_EventsAppendAndSort(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore()
	if err := s.CreateMarket(ctx, testMarket("m1")); err != nil {
		t.Fatal(err)
	}

	batch1 := []model.SwapEvent{
		{TimestampMs: 200, LogIndex: 0, InputOutcome: model.OutcomeYes, InputAmount: 1},
	}
	batch2 := []model.SwapEvent{
		{TimestampMs: 100, LogIndex: 0, InputOutcome: model.OutcomeNo, InputAmount: 1},
		{TimestampMs: 200, LogIndex: 1, InputOutcome: model.OutcomeNo, InputAmount: 1},
	}
	if err := s.AppendSwapEvents(ctx, "m1", batch1); err != nil {
		t.Fatal(err)
	}
	if err := s.AppendSwapEvents(ctx, "m1", batch2); err != nil {
		t.Fatal(err)
	}

	events, err := s.GetSwapEvents(ctx, "m1")
	if err != nil {
		t.Fatal(err)
	}
	if len(events) != 3 {
		t.Fatalf("expected 3 events, got %d", len(events))
	}
	if events[0].TimestampMs != 100 || events[1].LogIndex != 0 || events[2].LogIndex != 1 {
		t.Errorf("events not ordered by (timestamp, log index): %+v", events)
	}
}
