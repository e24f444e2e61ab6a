package trade

import (
	"context"
	"errors"
	"time"

	"silktrader/pkg/exchanges/common"
)

// fakeGateway is a scriptable Gateway that counts every call so tests can
// assert which network operations a code path performed.
type fakeGateway struct {
	balance   common.Balance
	tradeable bool
	info      common.SymbolInfo
	fillState common.OrderState

	balanceErr error
	placeErr   error

	placeCalls   int
	waitCalls    int
	cancelCalls  int
	balanceCalls int
	lastOrder    common.OrderRequest
}

func newFakeGateway() *fakeGateway {
	return &fakeGateway{
		balance:   common.Balance{Currency: "USDT", Free: 1000, Total: 1000},
		tradeable: true,
		info: common.SymbolInfo{
			Symbol:       "BTC_USDT",
			MinAmount:    10,
			MinTradeSize: 0.001,
			QtyStep:      0.0001,
			Enabled:      true,
		},
	}
}

func (g *fakeGateway) GetBalance(ctx context.Context, currency string) (common.Balance, error) {
	g.balanceCalls++
	if g.balanceErr != nil {
		return common.Balance{}, g.balanceErr
	}
	return g.balance, nil
}

func (g *fakeGateway) GetTicker(ctx context.Context, symbol string) (common.Ticker, error) {
	return common.Ticker{Symbol: symbol}, nil
}

func (g *fakeGateway) IsTradeable(ctx context.Context, symbol string) (bool, error) {
	return g.tradeable, nil
}

func (g *fakeGateway) GetSymbolInfo(ctx context.Context, symbol string) (common.SymbolInfo, error) {
	return g.info, nil
}

func (g *fakeGateway) PlaceOrder(ctx context.Context, req common.OrderRequest) (common.OrderResult, error) {
	g.placeCalls++
	g.lastOrder = req
	if g.placeErr != nil {
		return common.OrderResult{}, g.placeErr
	}
	return common.OrderResult{ExchangeOrderID: "9001", Status: common.StatusNew}, nil
}

func (g *fakeGateway) GetOrder(ctx context.Context, symbol, orderID string) (common.OrderState, error) {
	return g.fillState, nil
}

func (g *fakeGateway) CancelOrder(ctx context.Context, symbol, orderID string) error {
	g.cancelCalls++
	return nil
}

func (g *fakeGateway) WaitForFill(ctx context.Context, symbol, orderID string, timeout, interval time.Duration) (common.OrderState, error) {
	g.waitCalls++
	if g.fillState.OrderID == "" {
		return common.OrderState{
			OrderID:   orderID,
			Symbol:    symbol,
			Status:    common.StatusFilled,
			FilledQty: g.lastOrder.Qty,
			AvgPrice:  g.lastOrder.Price,
		}, nil
	}
	return g.fillState, nil
}

var errNetwork = errors.New("connection reset")
