package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"silktrader/internal/api"
	"silktrader/internal/events"
	"silktrader/internal/monitor"
	"silktrader/internal/risk"
	"silktrader/internal/trade"
	"silktrader/pkg/config"
	"silktrader/pkg/db"
	"silktrader/pkg/exchanges/pionex"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("load config: %v", err)
	}

	params, err := risk.LoadParameters(cfg.RiskConfigPath)
	if err != nil {
		log.Fatalf("load risk parameters: %v", err)
	}

	journal, err := db.New(cfg.DBPath)
	if err != nil {
		log.Fatalf("open journal: %v", err)
	}
	defer journal.Close()

	client := pionex.New(pionex.Config{
		Credentials: pionex.Credentials{Key: cfg.PionexAPIKey, Secret: cfg.PionexAPISecret},
		BaseURL:     cfg.PionexBaseURL,
	})

	bus := events.NewBus()
	counters := risk.NewDailyCounters()
	validator := trade.NewValidator(client, params, counters, cfg.QuoteCurrency)

	opts := trade.Options{
		Gateway:      client,
		Validator:    validator,
		Counters:     counters,
		Journal:      journal,
		Bus:          bus,
		FillTimeout:  cfg.FillTimeout,
		FillInterval: cfg.FillInterval,
	}

	// The mode is decided exactly once, here. Nothing downstream can flip a
	// paper pipeline into placing live orders or vice versa.
	var executor trade.Executor
	if cfg.DryRun {
		executor = trade.NewPaperExecutor(opts)
		log.Printf("execution mode: PAPER (no orders reach the exchange)")
	} else {
		executor = trade.NewLiveExecutor(opts)
		log.Printf("execution mode: LIVE")
	}

	mon := monitor.New(params, journal, bus)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Hand executed positions to the monitor.
	executed, unsubExec := bus.Subscribe(events.EventTradeExecuted, 16)
	defer unsubExec()
	go func() {
		for payload := range executed {
			if res, ok := payload.(trade.ExecutionResult); ok && res.Position != nil {
				mon.Track(*res.Position)
			}
		}
	}()

	// Poll prices for tracked positions and execute exit decisions.
	go runMonitorLoop(ctx, client, mon, executor)

	server := api.NewServer(executor, mon, counters, params, client, cfg.QuoteCurrency)
	httpSrv := &http.Server{Addr: "127.0.0.1:" + cfg.Port, Handler: server.Router}
	go func() {
		log.Printf("diagnostics API listening on %s", httpSrv.Addr)
		if err := httpSrv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Printf("diagnostics API stopped: %v", err)
		}
	}()

	sig := make(chan os.Signal, 1)
	signal.Notify(sig, syscall.SIGINT, syscall.SIGTERM)
	<-sig
	log.Printf("shutting down")

	cancel()
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()
	_ = httpSrv.Shutdown(shutdownCtx)
}

// runMonitorLoop periodically refreshes prices for every tracked pair and
// closes positions whose stop or target was hit.
func runMonitorLoop(ctx context.Context, client *pionex.Client, mon *monitor.Monitor, executor trade.Executor) {
	ticker := time.NewTicker(15 * time.Second)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
		}

		seen := make(map[string]bool)
		for _, pos := range mon.Positions() {
			if seen[pos.Pair] {
				continue
			}
			seen[pos.Pair] = true

			tick, err := client.GetTicker(ctx, pos.Pair)
			if err != nil {
				log.Printf("monitor: ticker fetch for %s failed: %v", pos.Pair, err)
				continue
			}

			for _, dec := range mon.UpdatePrice(ctx, pos.Pair, tick.Last) {
				if _, err := executor.ClosePosition(ctx, dec.PositionID, dec.ExitPrice, dec.Action.String()); err != nil {
					log.Printf("monitor: close %s failed: %v", dec.PositionID, err)
					continue
				}
				mon.Untrack(dec.PositionID)
			}
		}
	}
}
