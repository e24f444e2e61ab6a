package db

import "fmt"

var schema = []string{
	`CREATE TABLE IF NOT EXISTS trades (
		trade_id      TEXT PRIMARY KEY,
		pair          TEXT NOT NULL,
		side          TEXT NOT NULL,
		order_type    TEXT NOT NULL,
		entry_price   REAL NOT NULL,
		quantity      REAL NOT NULL,
		position_usdt REAL NOT NULL,
		stop_loss     REAL,
		take_profit   REAL,
		confidence    REAL,
		paper         INTEGER NOT NULL DEFAULT 0,
		status        TEXT NOT NULL,
		entry_time    TIMESTAMP NOT NULL,
		exit_price    REAL,
		exit_time     TIMESTAMP,
		realized_pnl  REAL,
		close_reason  TEXT
	)`,
	`CREATE INDEX IF NOT EXISTS idx_trades_status ON trades(status, entry_time DESC)`,
	`CREATE TABLE IF NOT EXISTS position_snapshots (
		id            INTEGER PRIMARY KEY AUTOINCREMENT,
		trade_id      TEXT NOT NULL,
		pair          TEXT NOT NULL,
		price         REAL NOT NULL,
		entry_price   REAL NOT NULL,
		stop_loss     REAL,
		take_profit   REAL,
		trailing_stop REAL,
		high_water    REAL,
		pnl           REAL,
		taken_at      TIMESTAMP NOT NULL
	)`,
	`CREATE INDEX IF NOT EXISTS idx_snapshots_trade ON position_snapshots(trade_id, taken_at DESC)`,
	`CREATE TABLE IF NOT EXISTS daily_summary (
		date         TEXT PRIMARY KEY,
		trades       INTEGER NOT NULL DEFAULT 0,
		realized_pnl REAL NOT NULL DEFAULT 0
	)`,
}

func (d *Database) migrate() error {
	for _, stmt := range schema {
		if _, err := d.DB.Exec(stmt); err != nil {
			return fmt.Errorf("apply schema: %w", err)
		}
	}
	return nil
}
