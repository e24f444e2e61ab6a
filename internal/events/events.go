package events

// Event identifies a pipeline event type.
type Event string

const (
	EventTradeExecuted   Event = "trade.executed"
	EventTradeRejected   Event = "trade.rejected"
	EventPositionClosed  Event = "position.closed"
	EventTrailingUpdated Event = "trailing.updated"
)
