package trade

import (
	"context"
	"fmt"
	"log"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"silktrader/internal/events"
	"silktrader/internal/risk"
	"silktrader/pkg/db"
	"silktrader/pkg/exchanges/common"
)

// Executor is the execution coordinator contract. The live and paper
// variants are chosen once at construction; no trading path ever switches a
// constructed executor between modes.
type Executor interface {
	Mode() Mode
	Execute(ctx context.Context, c Candidate) (ExecutionResult, error)
	ClosePosition(ctx context.Context, positionID string, exitPrice float64, reason string) (CloseResult, error)
	OpenPositionCount() int
}

// Options carries the collaborators shared by both executor variants.
// Journal and Bus are optional; a nil value simply skips that consumer.
type Options struct {
	Gateway      common.Gateway
	Validator    *Validator
	Counters     *risk.DailyCounters
	Journal      *db.Database
	Bus          *events.Bus
	FillTimeout  time.Duration
	FillInterval time.Duration
}

// core holds the state common to both variants: the open-position registry
// and the retained close records that make ClosePosition idempotent.
type core struct {
	opts Options
	mode Mode

	mu        sync.Mutex
	positions map[string]risk.Position
	closed    map[string]CloseResult

	now func() time.Time
}

func newCore(opts Options, mode Mode) *core {
	if opts.FillTimeout <= 0 {
		opts.FillTimeout = 60 * time.Second
	}
	if opts.FillInterval <= 0 {
		opts.FillInterval = 2 * time.Second
	}
	return &core{
		opts:      opts,
		mode:      mode,
		positions: make(map[string]risk.Position),
		closed:    make(map[string]CloseResult),
		now:       time.Now,
	}
}

func (c *core) Mode() Mode { return c.mode }

func (c *core) OpenPositionCount() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.positions)
}

// validate runs pre-trade validation and translates a rejection into the
// uniform result shape. The bool reports whether execution may proceed.
func (c *core) validate(ctx context.Context, cand Candidate) (Result, ExecutionResult, bool, error) {
	res, err := c.opts.Validator.Validate(ctx, cand, c.OpenPositionCount())
	if err != nil {
		return Result{}, ExecutionResult{}, false, err
	}
	if !res.Accepted {
		if !res.Reason.Skippable() {
			log.Printf("executor: rejected %s %s: %s (%s)", cand.Side, cand.Pair, res.Reason, res.Detail)
		}
		out := ExecutionResult{
			Success: false,
			Mode:    c.mode,
			Pair:    cand.Pair,
			Side:    cand.Side,
			Reason:  res.Reason,
			Detail:  res.Detail,
		}
		c.publish(events.EventTradeRejected, out)
		return res, out, false, nil
	}
	return res, ExecutionResult{}, true, nil
}

// open registers an accepted, filled (or resting) position: counters first,
// then journal and handoff record. qty is the quantity the position actually
// holds, which may be less than the validated quantity on a partial fill.
func (c *core) open(ctx context.Context, cand Candidate, res Result, orderID string, fillPrice, qty float64, paper bool) *risk.Position {
	pos := risk.Position{
		ID:            orderID,
		Pair:          cand.Pair,
		Side:          cand.Side,
		EntryPrice:    fillPrice,
		Quantity:      qty,
		PositionValue: qty * fillPrice,
		StopLoss:      res.StopLoss,
		TakeProfit:    res.TakeProfit,
		HighWaterMark: fillPrice,
		OpenedAt:      c.now(),
	}

	c.mu.Lock()
	c.positions[pos.ID] = pos
	c.mu.Unlock()

	c.opts.Counters.RecordTrade()

	if c.opts.Journal != nil {
		err := c.opts.Journal.InsertTrade(ctx, db.Trade{
			TradeID:      pos.ID,
			Pair:         pos.Pair,
			Side:         string(pos.Side),
			OrderType:    string(common.OrderTypeLimit),
			EntryPrice:   pos.EntryPrice,
			Quantity:     pos.Quantity,
			PositionUSDT: pos.PositionValue,
			StopLoss:     pos.StopLoss,
			TakeProfit:   pos.TakeProfit,
			Confidence:   cand.Confidence,
			Paper:        paper,
			Status:       "OPEN",
			EntryTime:    pos.OpenedAt,
		})
		if err != nil {
			log.Printf("executor: journal insert failed for %s: %v", pos.ID, err)
		}
		if err := c.opts.Journal.RecordDaily(ctx, pos.OpenedAt.Format("2006-01-02"), 1, 0); err != nil {
			log.Printf("executor: daily summary update failed: %v", err)
		}
	}

	return &pos
}

// ClosePosition computes realized PnL, records it exactly once, and marks
// the position terminal. A repeat call for the same id returns the retained
// record without touching counters or journal again.
func (c *core) ClosePosition(ctx context.Context, positionID string, exitPrice float64, reason string) (CloseResult, error) {
	c.mu.Lock()
	if prev, ok := c.closed[positionID]; ok {
		c.mu.Unlock()
		return prev, nil
	}
	pos, ok := c.positions[positionID]
	if !ok {
		c.mu.Unlock()
		return CloseResult{}, fmt.Errorf("trade: unknown position %s", positionID)
	}
	delete(c.positions, positionID)

	pnl := risk.RealizedPnL(pos, exitPrice)
	pct := 0.0
	if pos.EntryPrice > 0 {
		pct = pnl / (pos.EntryPrice * pos.Quantity) * 100
	}
	result := CloseResult{
		PositionID:  positionID,
		Pair:        pos.Pair,
		ExitPrice:   exitPrice,
		RealizedPnL: pnl,
		PnLPercent:  pct,
		Reason:      reason,
	}
	c.closed[positionID] = result
	c.mu.Unlock()

	c.opts.Counters.RecordPnL(pnl)

	if c.opts.Journal != nil {
		now := c.now()
		if err := c.opts.Journal.CloseTrade(ctx, positionID, exitPrice, pnl, reason, now); err != nil {
			log.Printf("executor: journal close failed for %s: %v", positionID, err)
		}
		if err := c.opts.Journal.RecordDaily(ctx, now.Format("2006-01-02"), 0, pnl); err != nil {
			log.Printf("executor: daily summary update failed: %v", err)
		}
	}

	log.Printf("executor: closed %s at %.6f pnl=%+.2f (%s)", pos.Pair, exitPrice, pnl, reason)
	c.publish(events.EventPositionClosed, result)
	return result, nil
}

func (c *core) publish(e events.Event, payload any) {
	if c.opts.Bus != nil {
		c.opts.Bus.Publish(e, payload)
	}
}

// LiveExecutor places real orders through the gateway.
type LiveExecutor struct {
	*core
}

func NewLiveExecutor(opts Options) *LiveExecutor {
	return &LiveExecutor{core: newCore(opts, ModeLive)}
}

// Execute validates the candidate, places the order, and waits a bounded
// time for the fill. A failure after the order reached the exchange is
// surfaced with the order id and last observed status — never discarded.
func (e *LiveExecutor) Execute(ctx context.Context, cand Candidate) (ExecutionResult, error) {
	res, rej, ok, err := e.validate(ctx, cand)
	if err != nil {
		return ExecutionResult{}, err
	}
	if !ok {
		return rej, nil
	}

	ack, err := e.opts.Gateway.PlaceOrder(ctx, common.OrderRequest{
		Symbol: cand.Pair,
		Side:   cand.Side,
		Type:   common.OrderTypeLimit,
		Qty:    res.Quantity,
		Price:  cand.EntryPrice,
	})
	if err != nil {
		return ExecutionResult{
			Success: false,
			Mode:    ModeLive,
			Pair:    cand.Pair,
			Side:    cand.Side,
			Detail:  err.Error(),
		}, err
	}

	state, waitErr := e.opts.Gateway.WaitForFill(ctx, cand.Pair, ack.ExchangeOrderID, e.opts.FillTimeout, e.opts.FillInterval)
	if waitErr != nil {
		// The order is on the exchange; report the last known state.
		execErr := &ExecutionError{OrderID: ack.ExchangeOrderID, Pair: cand.Pair, LastStatus: state.Status, Err: waitErr}
		return ExecutionResult{
			Success:     false,
			Mode:        ModeLive,
			OrderID:     ack.ExchangeOrderID,
			Pair:        cand.Pair,
			Side:        cand.Side,
			OrderStatus: state.Status,
			Detail:      execErr.Error(),
		}, execErr
	}

	switch state.Status {
	case common.StatusRejected, common.StatusCanceled, common.StatusExpired:
		execErr := &ExecutionError{
			OrderID:    ack.ExchangeOrderID,
			Pair:       cand.Pair,
			LastStatus: state.Status,
			Err:        fmt.Errorf("order reached terminal state %s without filling", state.Status),
		}
		return ExecutionResult{
			Success:     false,
			Mode:        ModeLive,
			OrderID:     ack.ExchangeOrderID,
			Pair:        cand.Pair,
			Side:        cand.Side,
			OrderStatus: state.Status,
			Detail:      execErr.Error(),
		}, execErr
	}

	if !state.Status.Terminal() {
		// Fill window elapsed with the order still resting. Cancel the
		// remainder so the position holds only what actually filled; a
		// resting tail the monitor does not know about would skew PnL.
		if err := e.opts.Gateway.CancelOrder(ctx, cand.Pair, ack.ExchangeOrderID); err != nil {
			log.Printf("executor: cancel of resting order %s failed: %v", ack.ExchangeOrderID, err)
		}
		if state.FilledQty <= 0 {
			execErr := &ExecutionError{
				OrderID:    ack.ExchangeOrderID,
				Pair:       cand.Pair,
				LastStatus: state.Status,
				Err:        fmt.Errorf("no fill within %s, order canceled", e.opts.FillTimeout),
			}
			return ExecutionResult{
				Success:     false,
				Mode:        ModeLive,
				OrderID:     ack.ExchangeOrderID,
				Pair:        cand.Pair,
				Side:        cand.Side,
				OrderStatus: state.Status,
				Detail:      execErr.Error(),
			}, execErr
		}
	}

	fillPrice := state.AvgPrice
	if fillPrice <= 0 {
		fillPrice = cand.EntryPrice
	}
	qty := res.Quantity
	if state.FilledQty > 0 && state.FilledQty < qty {
		qty = state.FilledQty
	}
	pos := e.open(ctx, cand, res, ack.ExchangeOrderID, fillPrice, qty, false)

	out := ExecutionResult{
		Success:     true,
		Mode:        ModeLive,
		OrderID:     ack.ExchangeOrderID,
		Pair:        cand.Pair,
		Side:        cand.Side,
		Quantity:    res.Quantity,
		FilledQty:   state.FilledQty,
		FilledPrice: fillPrice,
		OrderStatus: state.Status,
		Position:    pos,
	}
	log.Printf("executor: live order %s %s qty=%.8f @ %.6f status=%s",
		cand.Side, cand.Pair, qty, fillPrice, state.Status)
	e.publish(events.EventTradeExecuted, out)
	return out, nil
}

// PaperExecutor synthesizes fills at the reference price. Order placement
// never touches the network; balance and symbol lookups still do, which
// keeps the simulation honest about live constraints.
type PaperExecutor struct {
	*core
}

func NewPaperExecutor(opts Options) *PaperExecutor {
	return &PaperExecutor{core: newCore(opts, ModePaper)}
}

func (e *PaperExecutor) Execute(ctx context.Context, cand Candidate) (ExecutionResult, error) {
	res, rej, ok, err := e.validate(ctx, cand)
	if err != nil {
		return ExecutionResult{}, err
	}
	if !ok {
		return rej, nil
	}

	orderID := paperOrderID(cand.Pair)
	pos := e.open(ctx, cand, res, orderID, cand.EntryPrice, res.Quantity, true)

	out := ExecutionResult{
		Success:     true,
		Mode:        ModePaper,
		OrderID:     orderID,
		Pair:        cand.Pair,
		Side:        cand.Side,
		Quantity:    res.Quantity,
		FilledQty:   res.Quantity,
		FilledPrice: cand.EntryPrice,
		OrderStatus: common.StatusFilled,
		Position:    pos,
	}
	log.Printf("executor: paper fill %s %s qty=%.8f @ %.6f", cand.Side, cand.Pair, res.Quantity, cand.EntryPrice)
	e.publish(events.EventTradeExecuted, out)
	return out, nil
}

// paperOrderID builds a recognizable synthetic identifier.
func paperOrderID(pair string) string {
	return "PAPER-" + pair + "-" + strings.Split(uuid.NewString(), "-")[0]
}
