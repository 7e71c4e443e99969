// Package gateway provides the HTTP surface of the quote gateway: market
// registration, snapshot ingestion from the chain poller, and the read
// endpoints the browser client consumes (quotes, order book, crossed
// pairs, price history, transaction intents).
package gateway

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/suipredict/market-gateway/internal/amm"
	"github.com/suipredict/market-gateway/internal/chain"
	"github.com/suipredict/market-gateway/internal/history"
	"github.com/suipredict/market-gateway/internal/metrics"
	"github.com/suipredict/market-gateway/internal/model"
	"github.com/suipredict/market-gateway/internal/orderbook"
	"github.com/suipredict/market-gateway/internal/risk"
	"github.com/suipredict/market-gateway/internal/store"
	"github.com/suipredict/market-gateway/internal/txbuilder"
)

// Service handles gateway operations. All engine calls are pure functions
// over store snapshots, so handlers need no locking beyond the store's own.
type Service struct {
	store       store.Store
	pricer      *amm.Pricer
	limiter     *risk.NotionalLimiter
	slippageBps uint16
	wsHub       *WSHub // optional hub for real-time broadcasts
}

// NewService creates a gateway service. Pass nil for hub if WebSocket
// broadcasting is not needed.
func NewService(st store.Store, pricer *amm.Pricer, limiter *risk.NotionalLimiter, defaultSlippageBps uint16, hub *WSHub) *Service {
	return &Service{
		store:       st,
		pricer:      pricer,
		limiter:     limiter,
		slippageBps: defaultSlippageBps,
		wsHub:       hub,
	}
}

// --- Request/Response types ---

// CreateMarketRequest is the JSON body for market registration.
type CreateMarketRequest struct {
	ObjectID string `json:"object_id"`
	Question string `json:"question"`
	Category string `json:"category"`
}

// SwapIntentRequest is the JSON body for POST /intents/swap. Exposures are
// supplied by the client: the gateway is stateless about wallets.
type SwapIntentRequest struct {
	MarketID     string                   `json:"market_id"`
	InputOutcome model.Outcome            `json:"input_outcome"`
	InputAmount  uint64                   `json:"input_amount"`
	SlippageBps  *uint16                  `json:"slippage_bps,omitempty"`
	Exposures    map[string]ExposureEntry `json:"exposures,omitempty"`
}

// ExposureEntry is one market's current net notional, in coins.
type ExposureEntry struct {
	Category string          `json:"category"`
	Notional decimal.Decimal `json:"notional"`
}

// SwapIntentResponse pairs the unsigned intent with the quote behind it.
type SwapIntentResponse struct {
	Intent *txbuilder.SwapIntent `json:"intent"`
	Quote  *model.SwapQuote      `json:"quote"`
}

// --- Market registry ---

// CreateMarket handles POST /api/v1/markets
func (s *Service) CreateMarket(w http.ResponseWriter, r *http.Request) {
	var req CreateMarketRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, "invalid request body", http.StatusBadRequest)
		return
	}

	if err := chain.ValidateObjectID(req.ObjectID); err != nil {
		writeError(w, err.Error(), http.StatusBadRequest)
		return
	}
	if req.Question == "" {
		writeError(w, "question is required", http.StatusBadRequest)
		return
	}

	market := &model.Market{
		ID:        uuid.New().String(),
		ObjectID:  req.ObjectID,
		Question:  req.Question,
		Category:  req.Category,
		Status:    "open",
		CreatedAt: time.Now().UTC(),
	}

	if err := s.store.CreateMarket(r.Context(), market); err != nil {
		writeError(w, err.Error(), http.StatusConflict)
		return
	}
	metrics.TrackedMarkets.Inc()

	slog.Info("market registered",
		"id", market.ID,
		"object", market.ObjectID,
		"category", market.Category,
	)

	writeJSON(w, http.StatusCreated, market)
}

// ListMarkets handles GET /api/v1/markets
// Returns all tracked markets, optionally filtered by ?category=<name>.
func (s *Service) ListMarkets(w http.ResponseWriter, r *http.Request) {
	markets, err := s.store.ListMarkets(r.Context())
	if err != nil {
		writeError(w, "failed to list markets", http.StatusInternalServerError)
		return
	}
	if markets == nil {
		markets = []model.Market{}
	}

	if category := r.URL.Query().Get("category"); category != "" {
		filtered := []model.Market{}
		for _, m := range markets {
			if m.Category == category {
				filtered = append(filtered, m)
			}
		}
		markets = filtered
	}

	writeJSON(w, http.StatusOK, markets)
}

// GetMarket handles GET /api/v1/markets/{marketID}
func (s *Service) GetMarket(w http.ResponseWriter, r *http.Request) {
	market, ok := s.loadMarket(w, r)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, market)
}

// --- Poller write path ---

// UpdatePool handles POST /api/v1/markets/{marketID}/pool
// The poller pushes the latest pool snapshot; the new spot price is
// broadcast to WebSocket subscribers.
func (s *Service) UpdatePool(w http.ResponseWriter, r *http.Request) {
	market, ok := s.loadMarket(w, r)
	if !ok {
		return
	}

	var pool model.LiquidityPool
	if err := json.NewDecoder(r.Body).Decode(&pool); err != nil {
		writeError(w, "invalid pool snapshot", http.StatusBadRequest)
		return
	}

	if err := s.store.UpdatePoolSnapshot(r.Context(), market.ID, pool); err != nil {
		writeError(w, "failed to store pool snapshot", http.StatusInternalServerError)
		return
	}

	yesBps := amm.PoolYesPriceBps(pool)
	if s.wsHub != nil {
		s.wsHub.Broadcast(WSMessage{
			Type:        "price_update",
			MarketID:    market.ID,
			ObjectID:    market.ObjectID,
			YesPriceBps: yesBps,
			NoPriceBps:  model.MaxBps - yesBps,
		})
	}

	writeJSON(w, http.StatusOK, map[string]uint16{"yes_price_bps": yesBps})
}

// ReplaceOrders handles POST /api/v1/markets/{marketID}/orders
// The poller replaces the full resting-order snapshot.
func (s *Service) ReplaceOrders(w http.ResponseWriter, r *http.Request) {
	market, ok := s.loadMarket(w, r)
	if !ok {
		return
	}

	var orders []model.Order
	if err := json.NewDecoder(r.Body).Decode(&orders); err != nil {
		writeError(w, "invalid order snapshot", http.StatusBadRequest)
		return
	}
	for _, o := range orders {
		if o.PriceBps == 0 || o.PriceBps >= model.MaxBps {
			writeError(w, "order price out of 1..9999 bps range", http.StatusBadRequest)
			return
		}
	}

	if err := s.store.ReplaceOrders(r.Context(), market.ID, orders); err != nil {
		writeError(w, "failed to store order snapshot", http.StatusInternalServerError)
		return
	}

	writeJSON(w, http.StatusOK, map[string]int{"orders": len(orders)})
}

// IngestEvents handles POST /api/v1/markets/{marketID}/events
// The poller pushes a page of raw swap events; they are parsed into typed
// records at this boundary and rejected wholesale if any is malformed.
func (s *Service) IngestEvents(w http.ResponseWriter, r *http.Request) {
	market, ok := s.loadMarket(w, r)
	if !ok {
		return
	}

	var raws []json.RawMessage
	if err := json.NewDecoder(r.Body).Decode(&raws); err != nil {
		writeError(w, "invalid event page", http.StatusBadRequest)
		return
	}

	events, err := chain.ParseSwapEvents(raws)
	if err != nil {
		metrics.EventsRejected.Inc()
		writeError(w, err.Error(), http.StatusBadRequest)
		return
	}

	if err := s.store.AppendSwapEvents(r.Context(), market.ID, events); err != nil {
		writeError(w, "failed to store events", http.StatusInternalServerError)
		return
	}
	metrics.EventsIngested.Add(float64(len(events)))

	slog.Info("events ingested", "market", market.ID, "count", len(events))
	writeJSON(w, http.StatusOK, map[string]int{"ingested": len(events)})
}

// --- Read endpoints ---

// GetQuote handles GET /api/v1/markets/{marketID}/quote?amount=&outcome=&slippage_bps=
// A null quote means the pool is not quotable (empty or paused) — that is a
// state, not an error.
func (s *Service) GetQuote(w http.ResponseWriter, r *http.Request) {
	market, ok := s.loadMarket(w, r)
	if !ok {
		return
	}

	amount, err := parseAmount(r.URL.Query().Get("amount"))
	if err != nil {
		writeError(w, err.Error(), http.StatusBadRequest)
		return
	}
	outcome, err := parseOutcome(r.URL.Query().Get("outcome"))
	if err != nil {
		writeError(w, err.Error(), http.StatusBadRequest)
		return
	}

	slippageBps := s.slippageBps
	if raw := r.URL.Query().Get("slippage_bps"); raw != "" {
		v, err := strconv.ParseUint(raw, 10, 16)
		if err != nil {
			writeError(w, "slippage_bps must be a non-negative integer", http.StatusBadRequest)
			return
		}
		slippageBps = uint16(v)
	}

	quote, err := s.pricer.Quote(market.Pool, amount, outcome, slippageBps)
	if err != nil {
		writeError(w, err.Error(), http.StatusBadRequest)
		return
	}
	metrics.QuotesServed.WithLabelValues(string(outcome)).Inc()

	writeJSON(w, http.StatusOK, map[string]*model.SwapQuote{"quote": quote})
}

// GetOrderBook handles GET /api/v1/markets/{marketID}/orderbook
func (s *Service) GetOrderBook(w http.ResponseWriter, r *http.Request) {
	market, ok := s.loadMarket(w, r)
	if !ok {
		return
	}

	orders, err := s.store.GetOrders(r.Context(), market.ID)
	if err != nil {
		writeError(w, "failed to load orders", http.StatusInternalServerError)
		return
	}

	writeJSON(w, http.StatusOK, orderbook.Aggregate(orders))
}

// GetMatches handles GET /api/v1/markets/{marketID}/matches
// Pairs are advisory: either side may already be filled or cancelled on
// chain, and callers must handle rejection of a stale match.
func (s *Service) GetMatches(w http.ResponseWriter, r *http.Request) {
	market, ok := s.loadMarket(w, r)
	if !ok {
		return
	}

	orders, err := s.store.GetOrders(r.Context(), market.ID)
	if err != nil {
		writeError(w, "failed to load orders", http.StatusInternalServerError)
		return
	}

	pairs := orderbook.FindMatches(orders)
	metrics.MatchesFound.Observe(float64(len(pairs)))
	if pairs == nil {
		pairs = []model.MatchablePair{}
	}

	writeJSON(w, http.StatusOK, map[string][]model.MatchablePair{"pairs": pairs})
}

// GetHistory handles GET /api/v1/markets/{marketID}/history
func (s *Service) GetHistory(w http.ResponseWriter, r *http.Request) {
	market, ok := s.loadMarket(w, r)
	if !ok {
		return
	}

	events, err := s.store.GetSwapEvents(r.Context(), market.ID)
	if err != nil {
		writeError(w, "failed to load events", http.StatusInternalServerError)
		return
	}

	points, err := history.Reconstruct(
		events,
		amm.PoolYesPriceBps(market.Pool),
		market.CreatedAt.UnixMilli(),
		time.Now().UnixMilli(),
	)
	if err != nil {
		writeError(w, err.Error(), http.StatusInternalServerError)
		return
	}

	writeJSON(w, http.StatusOK, map[string][]model.PriceHistoryPoint{"points": points})
}

// --- Intents ---

// BuildSwapIntent handles POST /api/v1/intents/swap
// Quotes the swap, applies the notional guard, and returns an unsigned
// intent carrying the quote's MinOutput as the on-chain slippage bound.
func (s *Service) BuildSwapIntent(w http.ResponseWriter, r *http.Request) {
	var req SwapIntentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, "invalid request body", http.StatusBadRequest)
		return
	}
	outcome, err := parseOutcome(string(req.InputOutcome))
	if err != nil {
		writeError(w, err.Error(), http.StatusBadRequest)
		return
	}
	if req.InputAmount == 0 {
		writeError(w, "input_amount must be positive", http.StatusBadRequest)
		return
	}

	market, err := s.store.GetMarket(r.Context(), req.MarketID)
	if err != nil {
		writeError(w, "market not found", http.StatusNotFound)
		return
	}

	slippageBps := s.slippageBps
	if req.SlippageBps != nil {
		slippageBps = *req.SlippageBps
	}

	quote, err := s.pricer.Quote(market.Pool, req.InputAmount, outcome, slippageBps)
	if err != nil {
		writeError(w, err.Error(), http.StatusBadRequest)
		return
	}
	if quote == nil {
		writeError(w, "pool is not quotable", http.StatusConflict)
		return
	}

	// Spending NO tokens acquires YES exposure and vice versa.
	delta := model.MistToCoin(req.InputAmount)
	if outcome == model.OutcomeYes {
		delta = delta.Neg()
	}
	exposures := make(map[string]risk.Exposure, len(req.Exposures))
	for id, e := range req.Exposures {
		exposures[id] = risk.Exposure{Category: e.Category, Notional: e.Notional}
	}
	if err := s.limiter.CheckLimit(market.ID, market.Category, delta, exposures); err != nil {
		metrics.RiskRejections.Inc()
		writeError(w, err.Error(), http.StatusConflict)
		return
	}

	intent, err := txbuilder.BuildSwapIntent(market.ObjectID, outcome, quote)
	if err != nil {
		writeError(w, err.Error(), http.StatusInternalServerError)
		return
	}

	slog.Info("swap intent built",
		"intent", intent.IntentID,
		"market", market.ID,
		"outcome", outcome,
		"input", req.InputAmount,
		"min_output", intent.MinOutput,
	)

	writeJSON(w, http.StatusOK, SwapIntentResponse{Intent: intent, Quote: quote})
}

// --- Helpers ---

func (s *Service) loadMarket(w http.ResponseWriter, r *http.Request) (*model.Market, bool) {
	marketID := chi.URLParam(r, "marketID")
	market, err := s.store.GetMarket(r.Context(), marketID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			writeError(w, "market not found", http.StatusNotFound)
		} else {
			writeError(w, "failed to load market", http.StatusInternalServerError)
		}
		return nil, false
	}
	return market, true
}

func parseAmount(raw string) (uint64, error) {
	if raw == "" {
		return 0, errors.New("amount is required")
	}
	amount, err := strconv.ParseUint(raw, 10, 64)
	if err != nil {
		return 0, errors.New("amount must be a non-negative integer in mist")
	}
	return amount, nil
}

func parseOutcome(raw string) (model.Outcome, error) {
	switch model.Outcome(raw) {
	case model.OutcomeYes:
		return model.OutcomeYes, nil
	case model.OutcomeNo:
		return model.OutcomeNo, nil
	}
	return "", errors.New("outcome must be yes or no")
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

// writeError writes a JSON error response.
func writeError(w http.ResponseWriter, message string, status int) {
	writeJSON(w, status, map[string]string{"error": message})
}
