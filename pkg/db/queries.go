package db

import (
	"context"
	"database/sql"
	"fmt"
	"time"
)

// InsertTrade stores a newly opened trade.
func (d *Database) InsertTrade(ctx context.Context, t Trade) error {
	_, err := d.DB.ExecContext(ctx, `
		INSERT INTO trades (
			trade_id, pair, side, order_type, entry_price, quantity,
			position_usdt, stop_loss, take_profit, confidence, paper,
			status, entry_time
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		t.TradeID, t.Pair, t.Side, t.OrderType, t.EntryPrice, t.Quantity,
		t.PositionUSDT, t.StopLoss, t.TakeProfit, t.Confidence, boolToInt(t.Paper),
		t.Status, t.EntryTime,
	)
	if err != nil {
		return fmt.Errorf("insert trade: %w", err)
	}
	return nil
}

// CloseTrade records the exit of a trade and marks it CLOSED.
func (d *Database) CloseTrade(ctx context.Context, tradeID string, exitPrice, pnl float64, reason string, exitTime time.Time) error {
	_, err := d.DB.ExecContext(ctx, `
		UPDATE trades
		SET exit_price = ?, exit_time = ?, realized_pnl = ?, close_reason = ?, status = 'CLOSED'
		WHERE trade_id = ? AND status = 'OPEN'`,
		exitPrice, exitTime, pnl, reason, tradeID,
	)
	if err != nil {
		return fmt.Errorf("close trade: %w", err)
	}
	return nil
}

// GetTrade returns one trade row by id.
func (d *Database) GetTrade(ctx context.Context, tradeID string) (Trade, error) {
	row := d.DB.QueryRowContext(ctx, `
		SELECT trade_id, pair, side, order_type, entry_price, quantity,
		       position_usdt, COALESCE(stop_loss, 0), COALESCE(take_profit, 0),
		       COALESCE(confidence, 0), paper, status, entry_time,
		       COALESCE(exit_price, 0), COALESCE(exit_time, entry_time),
		       COALESCE(realized_pnl, 0), COALESCE(close_reason, '')
		FROM trades WHERE trade_id = ?`, tradeID)
	return scanTrade(row)
}

// OpenTrades returns every trade still marked OPEN, oldest first.
func (d *Database) OpenTrades(ctx context.Context) ([]Trade, error) {
	rows, err := d.DB.QueryContext(ctx, `
		SELECT trade_id, pair, side, order_type, entry_price, quantity,
		       position_usdt, COALESCE(stop_loss, 0), COALESCE(take_profit, 0),
		       COALESCE(confidence, 0), paper, status, entry_time,
		       COALESCE(exit_price, 0), COALESCE(exit_time, entry_time),
		       COALESCE(realized_pnl, 0), COALESCE(close_reason, '')
		FROM trades WHERE status = 'OPEN' ORDER BY entry_time ASC`)
	if err != nil {
		return nil, fmt.Errorf("query open trades: %w", err)
	}
	defer rows.Close()

	var out []Trade
	for rows.Next() {
		t, err := scanTrade(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, t)
	}
	return out, rows.Err()
}

// InsertSnapshot records a monitor observation.
func (d *Database) InsertSnapshot(ctx context.Context, s Snapshot) error {
	_, err := d.DB.ExecContext(ctx, `
		INSERT INTO position_snapshots (
			trade_id, pair, price, entry_price, stop_loss, take_profit,
			trailing_stop, high_water, pnl, taken_at
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		s.TradeID, s.Pair, s.Price, s.EntryPrice, s.StopLoss, s.TakeProfit,
		s.TrailingStop, s.HighWater, s.PnL, s.TakenAt,
	)
	if err != nil {
		return fmt.Errorf("insert snapshot: %w", err)
	}
	return nil
}

// RecordDaily upserts the daily summary row for date ("2006-01-02").
func (d *Database) RecordDaily(ctx context.Context, date string, trades int, pnl float64) error {
	_, err := d.DB.ExecContext(ctx, `
		INSERT INTO daily_summary (date, trades, realized_pnl)
		VALUES (?, ?, ?)
		ON CONFLICT(date) DO UPDATE SET
			trades = trades + excluded.trades,
			realized_pnl = realized_pnl + excluded.realized_pnl`,
		date, trades, pnl,
	)
	if err != nil {
		return fmt.Errorf("record daily summary: %w", err)
	}
	return nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanTrade(row rowScanner) (Trade, error) {
	var t Trade
	var paper int
	err := row.Scan(
		&t.TradeID, &t.Pair, &t.Side, &t.OrderType, &t.EntryPrice, &t.Quantity,
		&t.PositionUSDT, &t.StopLoss, &t.TakeProfit, &t.Confidence, &paper,
		&t.Status, &t.EntryTime, &t.ExitPrice, &t.ExitTime, &t.RealizedPnL,
		&t.CloseReason,
	)
	if err != nil {
		if err == sql.ErrNoRows {
			return Trade{}, err
		}
		return Trade{}, fmt.Errorf("scan trade: %w", err)
	}
	t.Paper = paper == 1
	return t, nil
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
