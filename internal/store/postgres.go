package store

import (
	"context"
	"errors"
	"fmt"
	"strconv"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/suipredict/market-gateway/internal/model"
)

// PostgresStore implements Store using PostgreSQL as the source of truth.
// u64 amounts are stored as NUMERIC and scanned through TEXT: BIGINT is
// signed and would reject the upper half of the u64 range.
type PostgresStore struct {
	pool *pgxpool.Pool
}

// NewPostgresStore creates a new PostgreSQL-backed store.
func NewPostgresStore(pool *pgxpool.Pool) *PostgresStore {
	return &PostgresStore{pool: pool}
}

func (s *PostgresStore) CreateMarket(ctx context.Context, m *model.Market) error {
	_, err := s.pool.Exec(ctx,
		`INSERT INTO markets (id, object_id, question, category, status,
		                      yes_reserve, no_reserve, total_lp_tokens, fees_collected, is_active,
		                      created_at)
		 VALUES ($1, $2, $3, $4, $5, $6::NUMERIC, $7::NUMERIC, $8::NUMERIC, $9::NUMERIC, $10, $11)`,
		m.ID, m.ObjectID, m.Question, m.Category, m.Status,
		u64s(m.Pool.YesReserve), u64s(m.Pool.NoReserve),
		u64s(m.Pool.TotalLpTokens), u64s(m.Pool.FeesCollected), m.Pool.IsActive,
		m.CreatedAt,
	)
	return err
}

const marketColumns = `id, object_id, question, category, status,
		        yes_reserve::TEXT, no_reserve::TEXT,
		        total_lp_tokens::TEXT, fees_collected::TEXT, is_active,
		        created_at`

func (s *PostgresStore) GetMarket(ctx context.Context, id string) (*model.Market, error) {
	row := s.pool.QueryRow(ctx,
		`SELECT `+marketColumns+` FROM markets WHERE id = $1`, id)
	m, err := scanMarket(row)
	if err != nil {
		return nil, fmt.Errorf("get market %s: %w", id, err)
	}
	return m, nil
}

func (s *PostgresStore) GetMarketByObjectID(ctx context.Context, objectID string) (*model.Market, error) {
	row := s.pool.QueryRow(ctx,
		`SELECT `+marketColumns+` FROM markets WHERE object_id = $1`, objectID)
	m, err := scanMarket(row)
	if err != nil {
		return nil, fmt.Errorf("get market by object %s: %w", objectID, err)
	}
	return m, nil
}

func (s *PostgresStore) ListMarkets(ctx context.Context) ([]model.Market, error) {
	rows, err := s.pool.Query(ctx,
		`SELECT `+marketColumns+` FROM markets ORDER BY created_at DESC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var markets []model.Market
	for rows.Next() {
		m, err := scanMarket(rows)
		if err != nil {
			return nil, err
		}
		markets = append(markets, *m)
	}
	return markets, rows.Err()
}

func (s *PostgresStore) UpdatePoolSnapshot(ctx context.Context, id string, pool model.LiquidityPool) error {
	tag, err := s.pool.Exec(ctx,
		`UPDATE markets
		 SET yes_reserve = $2::NUMERIC, no_reserve = $3::NUMERIC,
		     total_lp_tokens = $4::NUMERIC, fees_collected = $5::NUMERIC,
		     is_active = $6
		 WHERE id = $1`,
		id, u64s(pool.YesReserve), u64s(pool.NoReserve),
		u64s(pool.TotalLpTokens), u64s(pool.FeesCollected), pool.IsActive,
	)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("%w: market %s", ErrNotFound, id)
	}
	return nil
}

func (s *PostgresStore) ReplaceOrders(ctx context.Context, marketID string, orders []model.Order) error {
	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	if _, err := tx.Exec(ctx, `DELETE FROM orders WHERE market_id = $1`, marketID); err != nil {
		return err
	}
	for _, o := range orders {
		_, err := tx.Exec(ctx,
			`INSERT INTO orders (market_id, order_id, maker, side, outcome,
			                     price_bps, amount, filled, is_open)
			 VALUES ($1, $2::NUMERIC, $3, $4, $5, $6, $7::NUMERIC, $8::NUMERIC, $9)`,
			marketID, u64s(o.OrderID), o.Maker, string(o.Side), string(o.Outcome),
			int32(o.PriceBps), u64s(o.Amount), u64s(o.Filled), o.IsOpen,
		)
		if err != nil {
			return err
		}
	}
	return tx.Commit(ctx)
}

func (s *PostgresStore) GetOrders(ctx context.Context, marketID string) ([]model.Order, error) {
	rows, err := s.pool.Query(ctx,
		`SELECT order_id::TEXT, maker, side, outcome, price_bps,
		        amount::TEXT, filled::TEXT, is_open
		 FROM orders WHERE market_id = $1 ORDER BY order_id`, marketID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var orders []model.Order
	for rows.Next() {
		var o model.Order
		var orderIDS, amountS, filledS, side, outcome string
		var priceBps int32
		if err := rows.Scan(&orderIDS, &o.Maker, &side, &outcome, &priceBps,
			&amountS, &filledS, &o.IsOpen); err != nil {
			return nil, err
		}
		o.Side = model.Side(side)
		o.Outcome = model.Outcome(outcome)
		o.PriceBps = uint16(priceBps)
		if o.OrderID, err = s64(orderIDS); err != nil {
			return nil, err
		}
		if o.Amount, err = s64(amountS); err != nil {
			return nil, err
		}
		if o.Filled, err = s64(filledS); err != nil {
			return nil, err
		}
		orders = append(orders, o)
	}
	return orders, rows.Err()
}

func (s *PostgresStore) AppendSwapEvents(ctx context.Context, marketID string, events []model.SwapEvent) error {
	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	for _, ev := range events {
		_, err := tx.Exec(ctx,
			`INSERT INTO swap_events (market_id, timestamp_ms, log_index,
			                          input_outcome, input_amount, output_amount)
			 VALUES ($1, $2, $3::NUMERIC, $4, $5::NUMERIC, $6::NUMERIC)`,
			marketID, ev.TimestampMs, u64s(ev.LogIndex),
			string(ev.InputOutcome), u64s(ev.InputAmount), u64s(ev.OutputAmount),
		)
		if err != nil {
			return err
		}
	}
	return tx.Commit(ctx)
}

func (s *PostgresStore) GetSwapEvents(ctx context.Context, marketID string) ([]model.SwapEvent, error) {
	rows, err := s.pool.Query(ctx,
		`SELECT timestamp_ms, log_index::TEXT, input_outcome,
		        input_amount::TEXT, output_amount::TEXT
		 FROM swap_events WHERE market_id = $1
		 ORDER BY timestamp_ms, log_index`, marketID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var events []model.SwapEvent
	for rows.Next() {
		var ev model.SwapEvent
		var logIndexS, outcome, inS, outS string
		if err := rows.Scan(&ev.TimestampMs, &logIndexS, &outcome, &inS, &outS); err != nil {
			return nil, err
		}
		ev.InputOutcome = model.Outcome(outcome)
		if ev.LogIndex, err = s64(logIndexS); err != nil {
			return nil, err
		}
		if ev.InputAmount, err = s64(inS); err != nil {
			return nil, err
		}
		if ev.OutputAmount, err = s64(outS); err != nil {
			return nil, err
		}
		events = append(events, ev)
	}
	return events, rows.Err()
}

// rowScanner covers pgx.Row and pgx.Rows for shared scan helpers.
type rowScanner interface {
	Scan(dest ...any) error
}

func scanMarket(row rowScanner) (*model.Market, error) {
	var m model.Market
	var yesS, noS, lpS, feesS string

	err := row.Scan(&m.ID, &m.ObjectID, &m.Question, &m.Category, &m.Status,
		&yesS, &noS, &lpS, &feesS, &m.Pool.IsActive, &m.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}

	if m.Pool.YesReserve, err = s64(yesS); err != nil {
		return nil, err
	}
	if m.Pool.NoReserve, err = s64(noS); err != nil {
		return nil, err
	}
	if m.Pool.TotalLpTokens, err = s64(lpS); err != nil {
		return nil, err
	}
	if m.Pool.FeesCollected, err = s64(feesS); err != nil {
		return nil, err
	}
	return &m, nil
}

func u64s(v uint64) string {
	return strconv.FormatUint(v, 10)
}

func s64(s string) (uint64, error) {
	return strconv.ParseUint(s, 10, 64)
}
