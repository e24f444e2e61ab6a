package monitor

import (
	"context"
	"log"
	"sync"
	"time"

	"silktrader/internal/events"
	"silktrader/internal/risk"
	"silktrader/pkg/db"
)

// Action is the monitor's verdict for one position at one price.
type Action int

const (
	ActionHold Action = iota
	ActionStopLoss
	ActionTakeProfit
)

func (a Action) String() string {
	switch a {
	case ActionStopLoss:
		return "STOP_LOSS"
	case ActionTakeProfit:
		return "TAKE_PROFIT"
	default:
		return "HOLD"
	}
}

// Decision tells the caller what to do with a tracked position. ExitPrice is
// the protective level (not the observed price) for stop exits, matching how
// the exchange would have filled a resting stop order.
type Decision struct {
	PositionID string
	Pair       string
	Action     Action
	ExitPrice  float64
	Position   risk.Position
}

// Monitor owns the high-water marks of open positions. All mutation happens
// under one lock: a position closing while a price update is in flight
// cannot produce a lost trailing update.
type Monitor struct {
	params  risk.Parameters
	journal *db.Database
	bus     *events.Bus

	mu        sync.Mutex
	positions map[string]risk.Position

	now func() time.Time
}

func New(params risk.Parameters, journal *db.Database, bus *events.Bus) *Monitor {
	return &Monitor{
		params:    params,
		journal:   journal,
		bus:       bus,
		positions: make(map[string]risk.Position),
		now:       time.Now,
	}
}

// Track begins monitoring a position handed off by the coordinator.
// Trailing state starts life here: the hand-off carries stop/target but no
// trailing stop yet.
func (m *Monitor) Track(pos risk.Position) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if pos.HighWaterMark == 0 {
		pos.HighWaterMark = pos.EntryPrice
	}
	m.positions[pos.ID] = pos
	log.Printf("monitor: tracking %s %s entry=%.6f sl=%.6f tp=%.6f",
		pos.Side, pos.Pair, pos.EntryPrice, pos.StopLoss, pos.TakeProfit)
}

// Untrack stops monitoring a position (after it closed).
func (m *Monitor) Untrack(positionID string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.positions, positionID)
}

// Count returns the number of tracked positions.
func (m *Monitor) Count() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.positions)
}

// Positions returns a copy of every tracked position.
func (m *Monitor) Positions() []risk.Position {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]risk.Position, 0, len(m.positions))
	for _, p := range m.positions {
		out = append(out, p)
	}
	return out
}

// UpdatePrice applies a new observed price to every position on pair:
// trailing stops ratchet through the risk engine, a snapshot is journaled,
// and any position whose stop or target the price crossed produces an exit
// decision for the caller to execute.
func (m *Monitor) UpdatePrice(ctx context.Context, pair string, price float64) []Decision {
	if price <= 0 {
		return nil
	}

	m.mu.Lock()
	var decisions []Decision
	for id, pos := range m.positions {
		if pos.Pair != pair {
			continue
		}

		updated, moved := risk.UpdateTrailingStop(pos, price, m.params)
		m.positions[id] = updated
		if moved {
			log.Printf("monitor: %s trailing stop -> %.6f (hwm %.6f)", pair, updated.TrailingStop, updated.HighWaterMark)
			if m.bus != nil {
				m.bus.Publish(events.EventTrailingUpdated, updated)
			}
		}

		m.snapshot(ctx, updated, price)

		switch {
		case risk.StopHit(updated, price):
			decisions = append(decisions, Decision{
				PositionID: id,
				Pair:       pair,
				Action:     ActionStopLoss,
				ExitPrice:  updated.EffectiveStop(),
				Position:   updated,
			})
		case risk.TargetHit(updated, price):
			decisions = append(decisions, Decision{
				PositionID: id,
				Pair:       pair,
				Action:     ActionTakeProfit,
				ExitPrice:  updated.TakeProfit,
				Position:   updated,
			})
		}
	}
	m.mu.Unlock()

	return decisions
}

func (m *Monitor) snapshot(ctx context.Context, pos risk.Position, price float64) {
	if m.journal == nil {
		return
	}
	err := m.journal.InsertSnapshot(ctx, db.Snapshot{
		TradeID:      pos.ID,
		Pair:         pos.Pair,
		Price:        price,
		EntryPrice:   pos.EntryPrice,
		StopLoss:     pos.StopLoss,
		TakeProfit:   pos.TakeProfit,
		TrailingStop: pos.TrailingStop,
		HighWater:    pos.HighWaterMark,
		PnL:          risk.RealizedPnL(pos, price),
		TakenAt:      m.now(),
	})
	if err != nil {
		log.Printf("monitor: snapshot write failed for %s: %v", pos.ID, err)
	}
}
