package common

// Side denotes order side.
type Side string

const (
	SideBuy  Side = "BUY"
	SideSell Side = "SELL"
)

// Opposite returns the closing side for a position opened with s.
func (s Side) Opposite() Side {
	if s == SideBuy {
		return SideSell
	}
	return SideBuy
}

// OrderType denotes basic order types.
type OrderType string

const (
	OrderTypeMarket OrderType = "MARKET"
	OrderTypeLimit  OrderType = "LIMIT"
)

// OrderStatus normalizes exchange status into a small set.
type OrderStatus string

const (
	StatusNew      OrderStatus = "NEW"
	StatusPartial  OrderStatus = "PARTIALLY_FILLED"
	StatusFilled   OrderStatus = "FILLED"
	StatusCanceled OrderStatus = "CANCELED"
	StatusRejected OrderStatus = "REJECTED"
	StatusExpired  OrderStatus = "EXPIRED"
	StatusUnknown  OrderStatus = "UNKNOWN"
)

// Terminal reports whether the status can no longer change on the exchange.
func (s OrderStatus) Terminal() bool {
	switch s {
	case StatusFilled, StatusCanceled, StatusRejected, StatusExpired:
		return true
	}
	return false
}

// OrderRequest captures a fully-validated order intent to be sent to an
// exchange. It carries no business rules; validation happens upstream.
type OrderRequest struct {
	Symbol   string
	Side     Side
	Type     OrderType
	Qty      float64
	Price    float64 // required for LIMIT
	ClientID string  // optional client order id
}

// OrderResult returns the exchange ack.
type OrderResult struct {
	ExchangeOrderID string
	Status          OrderStatus
	ClientID        string
}

// OrderState is a point-in-time view of an order on the exchange.
type OrderState struct {
	OrderID   string
	Symbol    string
	Side      Side
	Type      OrderType
	Price     float64
	Qty       float64
	FilledQty float64
	AvgPrice  float64
	Status    OrderStatus
	UpdatedAt int64 // ms
}

// Balance is the exchange-reported balance for one currency.
// Total is always Free + Frozen; both legs come from the exchange,
// never from a local derived cache.
type Balance struct {
	Currency string
	Free     float64
	Frozen   float64
	Total    float64
}

// SymbolInfo describes trading constraints for one pair.
type SymbolInfo struct {
	Symbol        string
	BaseCurrency  string
	QuoteCurrency string
	MinAmount     float64 // minimum notional in quote currency
	MinTradeSize  float64 // minimum quantity in base currency
	MaxTradeSize  float64
	QtyStep       float64 // quantity precision step
	Enabled       bool
}

// Kline is one OHLCV candle.
type Kline struct {
	OpenTime int64 // ms
	Open     float64
	High     float64
	Low      float64
	Close    float64
	Volume   float64
}

// Ticker is a 24h rolling price summary.
type Ticker struct {
	Symbol      string
	Last        float64
	High        float64
	Low         float64
	Volume      float64
	PriceChange float64
}

// Fill represents a trade fill.
type Fill struct {
	TradeID string
	OrderID string
	Symbol  string
	Side    Side
	Price   float64
	Qty     float64
	Fee     float64
	FeeCoin string
	Time    int64 // ms
}
