package risk

import (
	"testing"
	"time"
)

func TestDailyCountersAccumulate(t *testing.T) {
	c := NewDailyCounters()
	c.RecordTrade()
	c.RecordTrade()
	c.RecordPnL(12.5)
	c.RecordPnL(-40)

	trades, pnl := c.Snapshot()
	if trades != 2 {
		t.Errorf("trades = %d, want 2", trades)
	}
	if pnl != -27.5 {
		t.Errorf("pnl = %v, want -27.5", pnl)
	}
}

func TestDailyCountersRollOverAtMidnight(t *testing.T) {
	c := NewDailyCounters()
	clock := time.Date(2026, 3, 14, 23, 50, 0, 0, time.UTC)
	c.now = func() time.Time { return clock }

	c.RecordTrade()
	c.RecordPnL(-30)

	// Still the same day.
	clock = time.Date(2026, 3, 14, 23, 59, 59, 0, time.UTC)
	if trades, pnl := c.Snapshot(); trades != 1 || pnl != -30 {
		t.Fatalf("before midnight: trades=%d pnl=%v", trades, pnl)
	}

	// First access after midnight clears both counters.
	clock = time.Date(2026, 3, 15, 0, 0, 1, 0, time.UTC)
	if trades, pnl := c.Snapshot(); trades != 0 || pnl != 0 {
		t.Fatalf("after midnight: trades=%d pnl=%v, want zeros", trades, pnl)
	}

	c.RecordTrade()
	if trades, _ := c.Snapshot(); trades != 1 {
		t.Fatalf("trades = %d after new-day record, want 1", trades)
	}
}

func TestDailyCountersReset(t *testing.T) {
	c := NewDailyCounters()
	c.RecordTrade()
	c.RecordPnL(5)
	c.Reset()
	if trades, pnl := c.Snapshot(); trades != 0 || pnl != 0 {
		t.Fatalf("after reset: trades=%d pnl=%v", trades, pnl)
	}
}
