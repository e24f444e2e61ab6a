package risk

import (
	"sync"
	"time"
)

// DailyCounters track trade count and realized PnL for the current calendar
// day. The day rolls over lazily on first access after midnight; callers
// never reset it by hand during normal operation.
type DailyCounters struct {
	mu     sync.Mutex
	day    string // "2006-01-02"
	trades int
	pnl    float64

	now func() time.Time // test seam
}

func NewDailyCounters() *DailyCounters {
	return &DailyCounters{now: time.Now}
}

func (c *DailyCounters) rollover() {
	today := c.now().Format("2006-01-02")
	if c.day != today {
		c.day = today
		c.trades = 0
		c.pnl = 0
	}
}

// RecordTrade increments the daily trade count.
func (c *DailyCounters) RecordTrade() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.rollover()
	c.trades++
}

// RecordPnL adds a realized profit (or loss, negative) to the daily total.
func (c *DailyCounters) RecordPnL(pnl float64) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.rollover()
	c.pnl += pnl
}

// Snapshot returns today's trade count and realized PnL.
func (c *DailyCounters) Snapshot() (trades int, pnl float64) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.rollover()
	return c.trades, c.pnl
}

// Reset clears today's counters. Exposed for operational tooling; the lazy
// rollover makes scheduled resets unnecessary.
func (c *DailyCounters) Reset() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.day = c.now().Format("2006-01-02")
	c.trades = 0
	c.pnl = 0
}
