package stream

import (
	"encoding/json"
	"strconv"

	"github.com/pkg/errors"
	"github.com/valyala/fastjson"

	"github.com/c9s/chartsync/pkg/types"
)

var ErrUnknownEvent = errors.New("unknown event type")

// Message is the envelope of the order and position channels, the event
// field is the discriminant of the data payload.
type Message struct {
	Event types.EventKind `json:"event"`
	Data  json.RawMessage `json:"data"`
}

var parserPool fastjson.ParserPool

// DecodeKLine decodes a flat kline payload. Prices may be numbers or
// numeric strings.
func DecodeKLine(payload []byte) (types.KLineRow, error) {
	p := parserPool.Get()
	defer parserPool.Put(p)

	v, err := p.ParseBytes(payload)
	if err != nil {
		return types.KLineRow{}, errors.Wrap(err, "kline payload")
	}

	var row types.KLineRow
	var errs []error
	get := func(key string) float64 {
		f, err := parseFloat(v.Get(key))
		if err != nil {
			errs = append(errs, errors.Wrapf(err, "kline field %s", key))
		}
		return f
	}

	t := get("time")
	row.Time = int64(t)
	row.Open = get("open")
	row.High = get("high")
	row.Low = get("low")
	row.Close = get("close")
	if v.Exists("volume") {
		row.Volume = get("volume")
	}

	if len(errs) > 0 {
		return row, errs[0]
	}

	return row, nil
}

func parseFloat(v *fastjson.Value) (float64, error) {
	if v == nil {
		return 0, errors.New("missing")
	}

	switch v.Type() {
	case fastjson.TypeNumber:
		return v.Float64()
	case fastjson.TypeString:
		return strconv.ParseFloat(string(v.GetStringBytes()), 64)
	}

	return 0, errors.Errorf("unexpected type %s", v.Type())
}

func DecodeIndicatorRow(payload []byte) (types.IndicatorRow, error) {
	row, err := types.ParseIndicatorRow(payload)
	return row, errors.Wrap(err, "indicator payload")
}

func decodeMessage(payload []byte) (*Message, error) {
	p := parserPool.Get()
	defer parserPool.Put(p)

	v, err := p.ParseBytes(payload)
	if err != nil {
		return nil, err
	}

	kind := string(v.GetStringBytes("event"))
	if len(kind) == 0 {
		return nil, errors.Wrap(ErrUnknownEvent, "missing event field")
	}

	data := v.Get("data")
	if data == nil {
		return nil, errors.Errorf("event %s: missing data", kind)
	}

	return &Message{Event: types.EventKind(kind), Data: data.MarshalTo(nil)}, nil
}

// DecodeOrderMessage decodes a message of the order channel into an
// OrderEvent or a LimitOrderFilledEvent.
func DecodeOrderMessage(payload []byte) (types.Event, error) {
	msg, err := decodeMessage(payload)
	if err != nil {
		return nil, errors.Wrap(err, "order payload")
	}

	var order types.Order
	if err := json.Unmarshal(msg.Data, &order); err != nil {
		return nil, errors.Wrapf(err, "event %s", msg.Event)
	}

	switch msg.Event {
	case types.EventKindOrder:
		return types.OrderEvent{Order: order}, nil
	case types.EventKindLimitOrderFilled:
		return types.LimitOrderFilledEvent{Order: order}, nil
	}

	return nil, errors.Wrapf(ErrUnknownEvent, "order channel: %s", msg.Event)
}

// DecodePositionMessage decodes a message of the position channel into a
// PositionEvent or a PositionClosedEvent.
func DecodePositionMessage(payload []byte) (types.Event, error) {
	msg, err := decodeMessage(payload)
	if err != nil {
		return nil, errors.Wrap(err, "position payload")
	}

	var position types.Position
	if err := json.Unmarshal(msg.Data, &position); err != nil {
		return nil, errors.Wrapf(err, "event %s", msg.Event)
	}

	switch msg.Event {
	case types.EventKindPosition:
		return types.PositionEvent{Position: position}, nil
	case types.EventKindPositionClosed:
		if len(position.PositionID) == 0 {
			return nil, errors.New("position.closed: missing positionId")
		}
		return types.PositionClosedEvent{PositionID: position.PositionID}, nil
	}

	return nil, errors.Wrapf(ErrUnknownEvent, "position channel: %s", msg.Event)
}

// EncodeMessage builds the payload of an order or position channel message.
func EncodeMessage(kind types.EventKind, data interface{}) ([]byte, error) {
	raw, err := json.Marshal(data)
	if err != nil {
		return nil, err
	}
	return json.Marshal(Message{Event: kind, Data: raw})
}

// EncodeEvent builds the stream payload of an event, it is the inverse of the decoders.
func EncodeEvent(event types.Event) ([]byte, error) {
	switch e := event.(type) {
	case types.KLineEvent:
		return json.Marshal(e.Row)
	case types.StatisticsEvent:
		return json.Marshal(e.Row)
	case types.OrderEvent:
		return EncodeMessage(e.EventKind(), e.Order)
	case types.LimitOrderFilledEvent:
		return EncodeMessage(e.EventKind(), e.Order)
	case types.PositionEvent:
		return EncodeMessage(e.EventKind(), e.Position)
	case types.PositionClosedEvent:
		return EncodeMessage(e.EventKind(), types.Position{PositionID: e.PositionID})
	}

	return nil, errors.Wrapf(ErrUnknownEvent, "can not encode %T", event)
}
