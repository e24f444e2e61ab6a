package trade

import (
	"fmt"

	"silktrader/internal/risk"
	"silktrader/pkg/exchanges/common"
)

// Mode tags how an ExecutionResult was produced. It is fixed at executor
// construction and carried through every result.
type Mode string

const (
	ModePaper Mode = "paper"
	ModeLive  Mode = "live"
)

// Candidate is the decision-engine handoff: an opaque trade suggestion the
// pipeline validates and executes without judging its source.
type Candidate struct {
	Pair       string
	Side       common.Side
	EntryPrice float64
	ATR        float64
	Confidence float64 // 0-100 setup quality score, recorded but not judged
}

// RejectReason enumerates the machine-distinguishable outcomes of pre-trade
// validation. Operator tooling and tests assert on these, never on prose.
type RejectReason int

const (
	ReasonNone RejectReason = iota
	ReasonDailyTradeLimit
	ReasonDailyLossLimit
	ReasonMaxPositionsReached
	ReasonPairNotTradeable
	ReasonPositionTooSmall
	ReasonInvalidInput
	ReasonInsufficientBalance
)

func (r RejectReason) String() string {
	switch r {
	case ReasonNone:
		return "NONE"
	case ReasonDailyTradeLimit:
		return "DAILY_TRADE_LIMIT"
	case ReasonDailyLossLimit:
		return "DAILY_LOSS_LIMIT"
	case ReasonMaxPositionsReached:
		return "MAX_POSITIONS_REACHED"
	case ReasonPairNotTradeable:
		return "PAIR_NOT_TRADEABLE"
	case ReasonPositionTooSmall:
		return "POSITION_TOO_SMALL"
	case ReasonInvalidInput:
		return "INVALID_INPUT"
	case ReasonInsufficientBalance:
		return "INSUFFICIENT_BALANCE"
	default:
		return "UNKNOWN"
	}
}

// Skippable reports whether the rejection is a quiet negative result (no
// operator alert warranted) rather than a limit violation.
func (r RejectReason) Skippable() bool {
	return r == ReasonPositionTooSmall
}

// Result is the outcome of pre-trade validation: exactly Accepted or
// Rejected, nothing else.
type Result struct {
	Accepted      bool
	Reason        RejectReason // set when rejected
	Detail        string       // human-readable context, never load-bearing
	Quantity      float64
	StopLoss      float64
	TakeProfit    float64
	PositionValue float64
}

// ExecutionResult is the uniform outcome of an execution attempt. Live and
// paper results share this shape; only the Mode field tells them apart.
type ExecutionResult struct {
	Success     bool
	Mode        Mode
	OrderID     string
	Pair        string
	Side        common.Side
	Quantity    float64
	FilledQty   float64
	FilledPrice float64
	OrderStatus common.OrderStatus
	Position    *risk.Position // handoff to the position monitor, nil on failure
	Reason      RejectReason   // set when rejected by validation
	Detail      string
}

// CloseResult is the terminal record of a position close. Repeat closes of
// the same position return the retained record unchanged.
type CloseResult struct {
	PositionID  string
	Pair        string
	ExitPrice   float64
	RealizedPnL float64
	PnLPercent  float64
	Reason      string
}

// ExecutionError reports a failure after an order reached the exchange.
// It keeps the order id and last observed status for manual reconciliation;
// money may have partially moved.
type ExecutionError struct {
	OrderID    string
	Pair       string
	LastStatus common.OrderStatus
	Err        error
}

func (e *ExecutionError) Error() string {
	return fmt.Sprintf("trade: order %s on %s failed (last status %s): %v",
		e.OrderID, e.Pair, e.LastStatus, e.Err)
}

func (e *ExecutionError) Unwrap() error { return e.Err }
