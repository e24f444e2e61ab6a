package db

import "time"

// Trade is one journal row: opened by the execution coordinator, closed by
// ClosePosition or the position monitor.
type Trade struct {
	TradeID      string
	Pair         string
	Side         string
	OrderType    string
	EntryPrice   float64
	Quantity     float64
	PositionUSDT float64
	StopLoss     float64
	TakeProfit   float64
	Confidence   float64
	Paper        bool
	Status       string // OPEN or CLOSED
	EntryTime    time.Time
	ExitPrice    float64
	ExitTime     time.Time
	RealizedPnL  float64
	CloseReason  string
}

// Snapshot is one monitor observation of an open position.
type Snapshot struct {
	TradeID      string
	Pair         string
	Price        float64
	EntryPrice   float64
	StopLoss     float64
	TakeProfit   float64
	TrailingStop float64
	HighWater    float64
	PnL          float64
	TakenAt      time.Time
}
