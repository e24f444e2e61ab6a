package main

import (
	"context"
	"flag"
	"log"
	"time"

	"silktrader/internal/indicators"
	"silktrader/internal/risk"
	"silktrader/internal/trade"
	"silktrader/pkg/config"
	"silktrader/pkg/exchanges/common"
	"silktrader/pkg/exchanges/pionex"
)

// paper_demo runs one full validate-and-execute cycle in paper mode against
// live market data: fetch klines, derive ATR, size the position, simulate
// the fill, then close it at the take-profit level. No order reaches the
// exchange; balance and symbol lookups do, so credentials are required.
//
// Usage:
//   go run ./scripts/paper_demo -pair BTC_USDT -interval 15M

func main() {
	pair := flag.String("pair", "BTC_USDT", "trading pair")
	interval := flag.String("interval", "15M", "kline interval")
	flag.Parse()

	log.Println("=== paper trade demo starting ===")

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("load config: %v", err)
	}

	params, err := risk.LoadParameters(cfg.RiskConfigPath)
	if err != nil {
		log.Fatalf("load risk parameters: %v", err)
	}

	client := pionex.New(pionex.Config{
		Credentials: pionex.Credentials{Key: cfg.PionexAPIKey, Secret: cfg.PionexAPISecret},
		BaseURL:     cfg.PionexBaseURL,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	klines, err := client.GetKlines(ctx, *pair, *interval, 100)
	if err != nil {
		log.Fatalf("fetch klines: %v", err)
	}
	atr := indicators.ATR(klines, indicators.DefaultATRPeriod)
	if atr <= 0 {
		log.Fatalf("not enough candles for ATR on %s", *pair)
	}
	entry := klines[len(klines)-1].Close
	log.Printf("%s: last close %.6f, ATR(%d) %.6f (%.2f%% of price)",
		*pair, entry, indicators.DefaultATRPeriod, atr,
		indicators.ATRPercent(klines, indicators.DefaultATRPeriod)*100)

	counters := risk.NewDailyCounters()
	exec := trade.NewPaperExecutor(trade.Options{
		Gateway:   client,
		Validator: trade.NewValidator(client, params, counters, cfg.QuoteCurrency),
		Counters:  counters,
	})

	res, err := exec.Execute(ctx, trade.Candidate{
		Pair:       *pair,
		Side:       common.SideBuy,
		EntryPrice: entry,
		ATR:        atr,
		Confidence: 70,
	})
	if err != nil {
		log.Fatalf("execute: %v", err)
	}
	if !res.Success {
		log.Fatalf("rejected: %s (%s)", res.Reason, res.Detail)
	}
	log.Printf("paper fill: %s qty=%.8f @ %.6f sl=%.6f tp=%.6f",
		res.OrderID, res.FilledQty, res.FilledPrice,
		res.Position.StopLoss, res.Position.TakeProfit)

	closed, err := exec.ClosePosition(ctx, res.OrderID, res.Position.TakeProfit, "TAKE_PROFIT")
	if err != nil {
		log.Fatalf("close: %v", err)
	}
	log.Printf("closed at %.6f: pnl %+.2f (%.2f%%)", closed.ExitPrice, closed.RealizedPnL, closed.PnLPercent)
	log.Println("=== paper trade demo done ===")
}
