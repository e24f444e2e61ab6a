package db

import (
	"context"
	"path/filepath"
	"testing"
	"time"
)

func testDB(t *testing.T) *Database {
	t.Helper()
	d, err := New(filepath.Join(t.TempDir(), "journal.db"))
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	t.Cleanup(func() { d.Close() })
	return d
}

func TestInsertAndCloseTrade(t *testing.T) {
	d := testDB(t)
	ctx := context.Background()
	opened := time.Date(2026, 3, 14, 10, 0, 0, 0, time.UTC)

	err := d.InsertTrade(ctx, Trade{
		TradeID:      "PAPER-BTC_USDT-abc",
		Pair:         "BTC_USDT",
		Side:         "BUY",
		OrderType:    "LIMIT",
		EntryPrice:   1000,
		Quantity:     0.2,
		PositionUSDT: 200,
		StopLoss:     900,
		TakeProfit:   1150,
		Confidence:   80,
		Paper:        true,
		Status:       "OPEN",
		EntryTime:    opened,
	})
	if err != nil {
		t.Fatalf("InsertTrade: %v", err)
	}

	open, err := d.OpenTrades(ctx)
	if err != nil {
		t.Fatalf("OpenTrades: %v", err)
	}
	if len(open) != 1 || open[0].TradeID != "PAPER-BTC_USDT-abc" {
		t.Fatalf("open trades = %+v", open)
	}
	if !open[0].Paper {
		t.Error("paper flag lost")
	}

	closedAt := opened.Add(2 * time.Hour)
	if err := d.CloseTrade(ctx, "PAPER-BTC_USDT-abc", 1150, 30, "TAKE_PROFIT", closedAt); err != nil {
		t.Fatalf("CloseTrade: %v", err)
	}

	got, err := d.GetTrade(ctx, "PAPER-BTC_USDT-abc")
	if err != nil {
		t.Fatalf("GetTrade: %v", err)
	}
	if got.Status != "CLOSED" || got.ExitPrice != 1150 || got.RealizedPnL != 30 || got.CloseReason != "TAKE_PROFIT" {
		t.Fatalf("closed trade = %+v", got)
	}

	open, err = d.OpenTrades(ctx)
	if err != nil {
		t.Fatalf("OpenTrades after close: %v", err)
	}
	if len(open) != 0 {
		t.Fatalf("open trades after close = %+v", open)
	}
}

// CloseTrade only touches OPEN rows: a second close must not overwrite the
// recorded exit.
func TestCloseTradeIgnoresClosedRows(t *testing.T) {
	d := testDB(t)
	ctx := context.Background()
	opened := time.Now().UTC()

	if err := d.InsertTrade(ctx, Trade{
		TradeID: "t1", Pair: "ETH_USDT", Side: "BUY", OrderType: "LIMIT",
		EntryPrice: 3000, Quantity: 1, PositionUSDT: 3000,
		Status: "OPEN", EntryTime: opened,
	}); err != nil {
		t.Fatalf("InsertTrade: %v", err)
	}
	if err := d.CloseTrade(ctx, "t1", 3100, 100, "TAKE_PROFIT", opened.Add(time.Hour)); err != nil {
		t.Fatalf("CloseTrade: %v", err)
	}
	if err := d.CloseTrade(ctx, "t1", 2000, -1000, "STOP_LOSS", opened.Add(2*time.Hour)); err != nil {
		t.Fatalf("repeat CloseTrade: %v", err)
	}

	got, err := d.GetTrade(ctx, "t1")
	if err != nil {
		t.Fatalf("GetTrade: %v", err)
	}
	if got.ExitPrice != 3100 || got.RealizedPnL != 100 || got.CloseReason != "TAKE_PROFIT" {
		t.Fatalf("repeat close overwrote the record: %+v", got)
	}
}

func TestInsertSnapshot(t *testing.T) {
	d := testDB(t)
	err := d.InsertSnapshot(context.Background(), Snapshot{
		TradeID:      "t1",
		Pair:         "BTC_USDT",
		Price:        1050,
		EntryPrice:   1000,
		StopLoss:     900,
		TakeProfit:   1150,
		TrailingStop: 1034.25,
		HighWater:    1050,
		PnL:          10,
		TakenAt:      time.Now().UTC(),
	})
	if err != nil {
		t.Fatalf("InsertSnapshot: %v", err)
	}
}

func TestRecordDailyAccumulates(t *testing.T) {
	d := testDB(t)
	ctx := context.Background()

	if err := d.RecordDaily(ctx, "2026-03-14", 1, 30); err != nil {
		t.Fatalf("RecordDaily: %v", err)
	}
	if err := d.RecordDaily(ctx, "2026-03-14", 1, -12.5); err != nil {
		t.Fatalf("RecordDaily (upsert): %v", err)
	}

	var trades int
	var pnl float64
	err := d.DB.QueryRowContext(ctx,
		`SELECT trades, realized_pnl FROM daily_summary WHERE date = ?`, "2026-03-14").
		Scan(&trades, &pnl)
	if err != nil {
		t.Fatalf("query summary: %v", err)
	}
	if trades != 2 || pnl != 17.5 {
		t.Fatalf("summary = %d/%v, want 2/17.5", trades, pnl)
	}
}
