package types

type EventKind string

const (
	EventKindKLine            EventKind = "kline"
	EventKindIndicator        EventKind = "indicator"
	EventKindOrder            EventKind = "order.new"
	EventKindLimitOrderFilled EventKind = "order.limitFilled"
	EventKindPosition         EventKind = "position.new"
	EventKindPositionClosed   EventKind = "position.closed"
	EventKindStatistics       EventKind = "statistics"
)

// Event is a live event folded into the chart state. The set of
// implementations is closed, see the event types below.
type Event interface {
	EventKind() EventKind
	isEvent()
}

// KLineEvent carries a new or in-progress kline of the kline key
type KLineEvent struct {
	Key LogicalKey
	Row KLineRow
}

// IndicatorEvent carries new points of an indicator, bucketed by field
type IndicatorEvent struct {
	Key    LogicalKey
	Values IndicatorValues
}

// OrderEvent carries an order created or updated by the strategy
type OrderEvent struct {
	Order Order
}

// LimitOrderFilledEvent is emitted when a working limit order gets filled
type LimitOrderFilledEvent struct {
	Order Order
}

type PositionEvent struct {
	Position Position
}

type PositionClosedEvent struct {
	PositionID string
}

// StatisticsEvent carries a statistics snapshot of the strategy, for example
// equity and drawdown, as named values
type StatisticsEvent struct {
	StrategyID string
	Row        IndicatorRow
}

func (KLineEvent) EventKind() EventKind            { return EventKindKLine }
func (IndicatorEvent) EventKind() EventKind        { return EventKindIndicator }
func (OrderEvent) EventKind() EventKind            { return EventKindOrder }
func (LimitOrderFilledEvent) EventKind() EventKind { return EventKindLimitOrderFilled }
func (PositionEvent) EventKind() EventKind         { return EventKindPosition }
func (PositionClosedEvent) EventKind() EventKind   { return EventKindPositionClosed }
func (StatisticsEvent) EventKind() EventKind       { return EventKindStatistics }

func (KLineEvent) isEvent()            {}
func (IndicatorEvent) isEvent()        {}
func (OrderEvent) isEvent()            {}
func (LimitOrderFilledEvent) isEvent() {}
func (PositionEvent) isEvent()         {}
func (PositionClosedEvent) isEvent()   {}
func (StatisticsEvent) isEvent()       {}
