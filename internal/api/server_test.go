package api

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"silktrader/internal/monitor"
	"silktrader/internal/risk"
	"silktrader/internal/trade"
	"silktrader/pkg/exchanges/common"
)

type stubGateway struct{}

func (stubGateway) GetBalance(ctx context.Context, currency string) (common.Balance, error) {
	return common.Balance{Currency: currency, Free: 750, Frozen: 250, Total: 1000}, nil
}
func (stubGateway) GetTicker(ctx context.Context, symbol string) (common.Ticker, error) {
	return common.Ticker{Symbol: symbol}, nil
}
func (stubGateway) IsTradeable(ctx context.Context, symbol string) (bool, error) {
	return true, nil
}
func (stubGateway) GetSymbolInfo(ctx context.Context, symbol string) (common.SymbolInfo, error) {
	return common.SymbolInfo{Symbol: symbol, Enabled: true}, nil
}
func (stubGateway) PlaceOrder(ctx context.Context, req common.OrderRequest) (common.OrderResult, error) {
	return common.OrderResult{}, nil
}
func (stubGateway) GetOrder(ctx context.Context, symbol, orderID string) (common.OrderState, error) {
	return common.OrderState{}, nil
}
func (stubGateway) CancelOrder(ctx context.Context, symbol, orderID string) error { return nil }
func (stubGateway) WaitForFill(ctx context.Context, symbol, orderID string, timeout, interval time.Duration) (common.OrderState, error) {
	return common.OrderState{}, nil
}

func newTestServer(t *testing.T) (*Server, *monitor.Monitor, *risk.DailyCounters) {
	t.Helper()
	gw := stubGateway{}
	params := risk.DefaultParameters()
	counters := risk.NewDailyCounters()
	exec := trade.NewPaperExecutor(trade.Options{
		Gateway:   gw,
		Validator: trade.NewValidator(gw, params, counters, "USDT"),
		Counters:  counters,
	})
	mon := monitor.New(params, nil, nil)
	return NewServer(exec, mon, counters, params, gw, "USDT"), mon, counters
}

func get(t *testing.T, s *Server, path string) map[string]any {
	t.Helper()
	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, path, nil)
	s.Router.ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("GET %s = %d, want 200", path, rec.Code)
	}
	var body map[string]any
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode %s response: %v", path, err)
	}
	return body
}

func TestHealth(t *testing.T) {
	s, _, _ := newTestServer(t)
	body := get(t, s, "/health")
	if body["status"] != "ok" {
		t.Fatalf("body = %v", body)
	}
}

func TestStatusReportsModeAndCounters(t *testing.T) {
	s, _, counters := newTestServer(t)
	counters.RecordTrade()
	counters.RecordPnL(-12.5)

	body := get(t, s, "/api/status")
	if body["mode"] != "paper" {
		t.Errorf("mode = %v, want paper", body["mode"])
	}
	if body["trades_today"].(float64) != 1 {
		t.Errorf("trades_today = %v", body["trades_today"])
	}
	if body["daily_pnl"].(float64) != -12.5 {
		t.Errorf("daily_pnl = %v", body["daily_pnl"])
	}
	bal, ok := body["balance"].(map[string]any)
	if !ok || bal["free"].(float64) != 750 {
		t.Errorf("balance = %v", body["balance"])
	}
}

func TestPositionsListsTracked(t *testing.T) {
	s, mon, _ := newTestServer(t)
	mon.Track(risk.Position{
		ID:         "PAPER-BTC_USDT-x",
		Pair:       "BTC_USDT",
		Side:       common.SideBuy,
		EntryPrice: 1000,
		Quantity:   0.2,
		StopLoss:   900,
		TakeProfit: 1150,
	})

	body := get(t, s, "/api/positions")
	positions, ok := body["positions"].([]any)
	if !ok || len(positions) != 1 {
		t.Fatalf("positions = %v", body["positions"])
	}
	p := positions[0].(map[string]any)
	if p["pair"] != "BTC_USDT" || p["stop_loss"].(float64) != 900 {
		t.Fatalf("position = %v", p)
	}
}

func TestRiskEchoesParameters(t *testing.T) {
	s, _, _ := newTestServer(t)
	body := get(t, s, "/api/risk")
	if body["risk_fraction"].(float64) != 0.02 {
		t.Errorf("risk_fraction = %v", body["risk_fraction"])
	}
	if body["max_daily_trades"].(float64) != 10 {
		t.Errorf("max_daily_trades = %v", body["max_daily_trades"])
	}
}
