package types

import (
	"context"
)

type Channel string

const (
	KLineChannel      = Channel("kline")
	IndicatorChannel  = Channel("indicator")
	OrderChannel      = Channel("order")
	PositionChannel   = Channel("position")
	StatisticsChannel = Channel("statistics")
)

// StreamRequest describes one live stream to open.
type StreamRequest struct {
	Channel Channel    `json:"channel"`
	Key     LogicalKey `json:"key,omitempty"`

	// Exchange and Symbol scope the order and position channels
	Exchange ExchangeName `json:"exchange,omitempty"`
	Symbol   string       `json:"symbol,omitempty"`

	StrategyID string `json:"strategyId,omitempty"`
}

// Topic is the name of the stream, shared by every stream source:
//
//	kline:<key>, indicator:<key>, order:<exchange>:<symbol>,
//	position:<exchange>:<symbol>, statistics:<strategyID>
func (r StreamRequest) Topic() string {
	switch r.Channel {
	case OrderChannel, PositionChannel:
		return string(r.Channel) + ":" + r.Exchange.String() + ":" + r.Symbol
	case StatisticsChannel:
		return string(r.Channel) + ":" + r.StrategyID
	}
	return string(r.Channel) + ":" + string(r.Key)
}

// Observer receives the raw payloads of a stream. Error is called for
// transport errors; the subscription stays open unless the stream ends.
type Observer struct {
	Next  func(payload []byte)
	Error func(err error)
}

type Subscription interface {
	// Unsubscribe cancels the subscription, it is safe to call more than
	// once and after the stream has ended.
	Unsubscribe() error
}

type Stream interface {
	Subscribe(observer Observer) (Subscription, error)
}

//go:generate mockgen -destination=mocks/mock_stream_source.go -package=mocks . StreamSource
type StreamSource interface {
	OpenStream(ctx context.Context, req StreamRequest) (Stream, error)
}

// SubscriptionFunc adapts a cancel function to the Subscription interface.
type SubscriptionFunc func() error

func (f SubscriptionFunc) Unsubscribe() error {
	return f()
}
