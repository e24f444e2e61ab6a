package trade

import (
	"context"
	"errors"
	"fmt"
	"log"

	"silktrader/internal/risk"
	"silktrader/pkg/exchanges/common"
)

// Validator runs the pre-trade checks in defense-in-depth order: the cheap
// local limits first, the network-backed checks last. The first failure
// short-circuits; a rejected candidate never reaches the exchange.
type Validator struct {
	gateway  common.Gateway
	params   risk.Parameters
	counters *risk.DailyCounters
	quote    string // quote currency for balance checks, e.g. "USDT"
}

func NewValidator(gw common.Gateway, params risk.Parameters, counters *risk.DailyCounters, quote string) *Validator {
	if quote == "" {
		quote = "USDT"
	}
	return &Validator{gateway: gw, params: params, counters: counters, quote: quote}
}

// Validate checks the candidate against daily limits, concurrency limits,
// tradeability, sizing, and affordability. openPositions is supplied by the
// caller (the coordinator knows how many positions the monitor is tracking).
func (v *Validator) Validate(ctx context.Context, c Candidate, openPositions int) (Result, error) {
	// 1. Daily circuit breakers.
	trades, pnl := v.counters.Snapshot()
	if trades >= v.params.MaxDailyTrades {
		return rejected(ReasonDailyTradeLimit,
			fmt.Sprintf("daily trade limit reached (%d/%d)", trades, v.params.MaxDailyTrades)), nil
	}
	if pnl < 0 && -pnl >= v.params.MaxDailyLoss {
		return rejected(ReasonDailyLossLimit,
			fmt.Sprintf("daily loss %.2f at limit %.2f", -pnl, v.params.MaxDailyLoss)), nil
	}

	// 2. Concurrent position cap.
	if openPositions >= v.params.MaxOpenPositions {
		return rejected(ReasonMaxPositionsReached,
			fmt.Sprintf("already at %d/%d open positions", openPositions, v.params.MaxOpenPositions)), nil
	}

	// 3. Tradeability (cache-aware gateway check).
	tradeable, err := v.gateway.IsTradeable(ctx, c.Pair)
	if err != nil {
		return Result{}, fmt.Errorf("tradeable check for %s: %w", c.Pair, err)
	}
	if !tradeable {
		return rejected(ReasonPairNotTradeable, c.Pair+" is not enabled for trading"), nil
	}

	// 4. Sizing via the risk engine against the live free balance.
	balance, err := v.gateway.GetBalance(ctx, v.quote)
	if err != nil {
		return Result{}, fmt.Errorf("balance fetch: %w", err)
	}
	info, err := v.gateway.GetSymbolInfo(ctx, c.Pair)
	if err != nil {
		return Result{}, fmt.Errorf("symbol info for %s: %w", c.Pair, err)
	}

	sizing, err := risk.Size(balance.Free, c.EntryPrice, c.ATR, info.MinTradeSize, c.Side, v.params)
	if err != nil {
		var se *risk.SizingError
		if errors.As(err, &se) {
			if se.TooSmall {
				return rejected(ReasonPositionTooSmall, se.Detail), nil
			}
			return rejected(ReasonInvalidInput, se.Detail), nil
		}
		return Result{}, err
	}

	// The exchange also enforces a minimum notional.
	if info.MinAmount > 0 && sizing.PositionValue < info.MinAmount {
		return rejected(ReasonPositionTooSmall,
			fmt.Sprintf("position %.2f below exchange minimum notional %.2f", sizing.PositionValue, info.MinAmount)), nil
	}

	// 5. Affordability with a safety margin for fees.
	required := sizing.PositionValue * (1 + v.params.FeeSafetyMargin)
	if required > balance.Free {
		return rejected(ReasonInsufficientBalance,
			fmt.Sprintf("need %.2f (incl. fee margin), free balance %.2f", required, balance.Free)), nil
	}

	log.Printf("validator: approved %s %s qty=%.8f value=%.2f sl=%.6f tp=%.6f",
		c.Side, c.Pair, sizing.Quantity, sizing.PositionValue, sizing.StopLoss, sizing.TakeProfit)

	return Result{
		Accepted:      true,
		Quantity:      sizing.Quantity,
		StopLoss:      sizing.StopLoss,
		TakeProfit:    sizing.TakeProfit,
		PositionValue: sizing.PositionValue,
	}, nil
}

func rejected(reason RejectReason, detail string) Result {
	return Result{Accepted: false, Reason: reason, Detail: detail}
}
