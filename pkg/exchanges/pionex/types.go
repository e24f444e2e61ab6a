package pionex

import "strconv"

// Wire types. Pionex encodes most numbers as strings; helpers below parse
// them leniently so a missing field decodes to zero rather than an error.

type symbolPayload struct {
	Symbol         string `json:"symbol"`
	Type           string `json:"type"`
	BaseCurrency   string `json:"baseCurrency"`
	QuoteCurrency  string `json:"quoteCurrency"`
	BasePrecision  int    `json:"basePrecision"`
	QuotePrecision int    `json:"quotePrecision"`
	MinAmount      string `json:"minAmount"`
	MinTradeSize   string `json:"minTradeSize"`
	MaxTradeSize   string `json:"maxTradeSize"`
	// Enable is a pointer on purpose: the exchange omits it for pairs that
	// are unconditionally tradeable, and a missing field must not read as
	// "disabled".
	Enable *bool `json:"enable"`
}

type symbolsPayload struct {
	Symbols []symbolPayload `json:"symbols"`
}

type balancePayload struct {
	Coin   string `json:"coin"`
	Free   string `json:"free"`
	Frozen string `json:"frozen"`
}

type balancesPayload struct {
	Balances []balancePayload `json:"balances"`
}

type klinePayload struct {
	Time   int64  `json:"time"`
	Open   string `json:"open"`
	High   string `json:"high"`
	Low    string `json:"low"`
	Close  string `json:"close"`
	Volume string `json:"volume"`
}

type klinesPayload struct {
	Klines []klinePayload `json:"klines"`
}

type tickerPayload struct {
	Symbol      string `json:"symbol"`
	Close       string `json:"close"`
	High        string `json:"high"`
	Low         string `json:"low"`
	Volume      string `json:"volume"`
	PriceChange string `json:"priceChange"`
}

type tickersPayload struct {
	Tickers []tickerPayload `json:"tickers"`
}

type placeOrderPayload struct {
	OrderID int64 `json:"orderId"`
}

type orderPayload struct {
	OrderID      int64  `json:"orderId"`
	Symbol       string `json:"symbol"`
	Side         string `json:"side"`
	Type         string `json:"type"`
	Price        string `json:"price"`
	Size         string `json:"size"`
	FilledSize   string `json:"filledSize"`
	FilledAmount string `json:"filledAmount"`
	Status       string `json:"status"`
	UpdateTime   int64  `json:"updateTime"`
}

type ordersPayload struct {
	Orders []orderPayload `json:"orders"`
}

type fillPayload struct {
	ID        int64  `json:"id"`
	OrderID   int64  `json:"orderId"`
	Symbol    string `json:"symbol"`
	Side      string `json:"side"`
	Price     string `json:"price"`
	Size      string `json:"size"`
	Fee       string `json:"fee"`
	FeeCoin   string `json:"feeCoin"`
	Timestamp int64  `json:"timestamp"`
}

type fillsPayload struct {
	Fills []fillPayload `json:"fills"`
}

func parseFloat(s string) float64 {
	if s == "" {
		return 0
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0
	}
	return f
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
