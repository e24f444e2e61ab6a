package risk

import (
	"fmt"
	"math"
	"time"

	"silktrader/pkg/exchanges/common"
)

// SizingError reports why position sizing produced no tradeable quantity.
// TooSmall is a valid negative result ("skip silently"); InvalidInput is a
// caller bug and carries the offending field.
type SizingError struct {
	TooSmall bool
	Field    string // set for invalid input
	Detail   string
}

func (e *SizingError) Error() string {
	if e.TooSmall {
		return "risk: " + e.Detail
	}
	return fmt.Sprintf("risk: invalid %s: %s", e.Field, e.Detail)
}

// IsTooSmall reports whether err is a sizing result below the symbol minimum
// rather than a malformed input.
func IsTooSmall(err error) bool {
	se, ok := err.(*SizingError)
	return ok && se.TooSmall
}

// Sizing is the output of position sizing: a quantity plus protective levels.
type Sizing struct {
	Quantity      float64
	PositionValue float64
	StopLoss      float64
	TakeProfit    float64
	StopDistance  float64
}

// Position is the execution pipeline's view of an open position. The engine
// only ever receives it by value; the monitor owns the shared copy.
type Position struct {
	ID            string
	Pair          string
	Side          common.Side
	EntryPrice    float64
	Quantity      float64
	PositionValue float64
	StopLoss      float64
	TakeProfit    float64
	HighWaterMark float64
	TrailingStop  float64 // 0 until armed
	OpenedAt      time.Time
}

// EffectiveStop is the price that currently protects the position: the
// trailing stop once armed, the original stop-loss otherwise.
func (p Position) EffectiveStop() float64 {
	if p.TrailingStop != 0 {
		return p.TrailingStop
	}
	return p.StopLoss
}

// Size computes position size and stop/target levels.
//
// risked amount  = balance * RiskFraction
// stop distance  = atr * StopLossATRMultiple
// quantity       = risked amount / stop distance
//
// The quantity is clamped so the position value stays within both
// MaxPositionValue and balance*MaxPositionFraction. A clamped quantity below
// minQty is a TooSmall result, never a truncated-but-tradeable quantity.
func Size(balance, entry, atr, minQty float64, side common.Side, p Parameters) (Sizing, error) {
	switch {
	case balance < 0:
		return Sizing{}, &SizingError{Field: "balance", Detail: fmt.Sprintf("negative balance %.8f", balance)}
	case entry <= 0:
		return Sizing{}, &SizingError{Field: "entry", Detail: fmt.Sprintf("non-positive entry price %.8f", entry)}
	case atr <= 0:
		return Sizing{}, &SizingError{Field: "atr", Detail: fmt.Sprintf("non-positive ATR %.8f", atr)}
	case minQty < 0:
		return Sizing{}, &SizingError{Field: "minQty", Detail: fmt.Sprintf("negative minimum quantity %.8f", minQty)}
	}

	stopDistance := atr * p.StopLossATRMultiple
	riskedAmount := balance * p.RiskFraction
	quantity := riskedAmount / stopDistance

	maxValue := math.Min(p.MaxPositionValue, balance*p.MaxPositionFraction)
	if quantity*entry > maxValue {
		quantity = maxValue / entry
	}

	if quantity <= 0 || quantity < minQty {
		return Sizing{}, &SizingError{
			TooSmall: true,
			Detail:   fmt.Sprintf("quantity %.8f below minimum %.8f", quantity, minQty),
		}
	}

	stop, target := StopLevels(entry, stopDistance, side, p)
	return Sizing{
		Quantity:      quantity,
		PositionValue: quantity * entry,
		StopLoss:      stop,
		TakeProfit:    target,
		StopDistance:  stopDistance,
	}, nil
}

// StopLevels places the stop-loss one stop distance from entry and the
// take-profit at the configured risk:reward multiple of that distance.
func StopLevels(entry, stopDistance float64, side common.Side, p Parameters) (stop, target float64) {
	reward := stopDistance * p.TakeProfitRewardMultiple
	if side == common.SideSell {
		return entry + stopDistance, entry - reward
	}
	return entry - stopDistance, entry + reward
}

// UpdateTrailingStop advances the high-water mark and, once unrealized
// profit reaches the activation threshold, ratchets the trailing stop toward
// the mark. The stop only ever moves in the protective direction; an
// unfavorable candidate is discarded. Returns the updated position and
// whether the stop moved.
func UpdateTrailingStop(pos Position, price float64, p Parameters) (Position, bool) {
	if price <= 0 || pos.EntryPrice <= 0 {
		return pos, false
	}

	if pos.Side == common.SideSell {
		if pos.HighWaterMark == 0 || price < pos.HighWaterMark {
			pos.HighWaterMark = price
		}
		profit := (pos.EntryPrice - price) / pos.EntryPrice
		if profit < p.TrailingActivationPct {
			return pos, false
		}
		candidate := pos.HighWaterMark * (1 + p.TrailingDistancePct)
		if candidate < pos.EffectiveStop() {
			pos.TrailingStop = candidate
			return pos, true
		}
		return pos, false
	}

	if price > pos.HighWaterMark {
		pos.HighWaterMark = price
	}
	profit := (price - pos.EntryPrice) / pos.EntryPrice
	if profit < p.TrailingActivationPct {
		return pos, false
	}
	candidate := pos.HighWaterMark * (1 - p.TrailingDistancePct)
	if candidate > pos.EffectiveStop() {
		pos.TrailingStop = candidate
		return pos, true
	}
	return pos, false
}

// StopHit reports whether price has crossed the protective stop.
func StopHit(pos Position, price float64) bool {
	if pos.Side == common.SideSell {
		return price >= pos.EffectiveStop()
	}
	return price <= pos.EffectiveStop()
}

// TargetHit reports whether price has crossed the take-profit level.
func TargetHit(pos Position, price float64) bool {
	if pos.TakeProfit == 0 {
		return false
	}
	if pos.Side == common.SideSell {
		return price <= pos.TakeProfit
	}
	return price >= pos.TakeProfit
}

// RealizedPnL computes the realized profit for a closed position.
func RealizedPnL(pos Position, exitPrice float64) float64 {
	if pos.Side == common.SideSell {
		return (pos.EntryPrice - exitPrice) * pos.Quantity
	}
	return (exitPrice - pos.EntryPrice) * pos.Quantity
}
