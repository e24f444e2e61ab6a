package common

import (
	"context"
	"time"
)

// Gateway abstracts the typed exchange operations the execution pipeline
// consumes. Order placement is a mechanical translation of a validated
// intent; business checks never live behind this interface.
type Gateway interface {
	GetBalance(ctx context.Context, currency string) (Balance, error)
	GetTicker(ctx context.Context, symbol string) (Ticker, error)
	IsTradeable(ctx context.Context, symbol string) (bool, error)
	GetSymbolInfo(ctx context.Context, symbol string) (SymbolInfo, error)
	PlaceOrder(ctx context.Context, req OrderRequest) (OrderResult, error)
	GetOrder(ctx context.Context, symbol, orderID string) (OrderState, error)
	CancelOrder(ctx context.Context, symbol, orderID string) error
	WaitForFill(ctx context.Context, symbol, orderID string, timeout, interval time.Duration) (OrderState, error)
}
