package engine

import (
	"context"
	"testing"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
	"go.uber.org/multierr"

	"github.com/c9s/chartsync/pkg/stream"
	"github.com/c9s/chartsync/pkg/types"
	"github.com/c9s/chartsync/pkg/types/mocks"
)

func TestSubscriptionManager_Attach(t *testing.T) {
	hub := stream.NewHub()

	var events []types.Event
	m := NewSubscriptionManager(hub, "s1", func(event types.Event) error {
		events = append(events, event)
		return nil
	}, logrus.New())

	ctx := context.Background()
	require.NoError(t, m.Attach(ctx, testKLineKey))

	expected := []string{
		"kline:" + string(testKLineKey),
		"order:binance:BTCUSDT",
		"position:binance:BTCUSDT",
		"statistics:s1",
	}
	assert.ElementsMatch(t, expected, hub.Topics())
	assert.Len(t, m.Subscriptions(), 4)

	t.Run("attach is idempotent", func(t *testing.T) {
		before := m.Subscriptions()
		require.NoError(t, m.Attach(ctx, testKLineKey))
		assert.Equal(t, before, m.Subscriptions())
		for _, topic := range expected {
			assert.Equal(t, 1, hub.NumObservers(topic), topic)
		}
	})

	require.NoError(t, m.Attach(ctx, testIndicatorKey))
	assert.Equal(t, []types.LogicalKey{testIndicatorKey, testKLineKey}, m.Keys())

	hub.Publish("indicator:"+string(testIndicatorKey), []byte(`{"time":60,"sma":1.5,"ema":0}`))
	require.Len(t, events, 1)
	assert.Equal(t, types.IndicatorEvent{
		Key:    testIndicatorKey,
		Values: types.IndicatorValues{"sma": {{Time: 60, Value: 1.5}}},
	}, events[0])

	t.Run("detach keeps the other keys", func(t *testing.T) {
		require.NoError(t, m.Detach(testIndicatorKey))
		require.NoError(t, m.Detach(testIndicatorKey))
		assert.Equal(t, []types.LogicalKey{testKLineKey}, m.Keys())
		assert.ElementsMatch(t, expected, hub.Topics())
	})

	require.NoError(t, m.DetachAll())
	assert.Empty(t, m.Keys())
	assert.Empty(t, hub.Topics())
}

func TestSubscriptionManager_MalformedKey(t *testing.T) {
	m := NewSubscriptionManager(stream.NewHub(), "", func(types.Event) error { return nil }, logrus.New())

	err := m.Attach(context.Background(), "indicator|binance")
	assert.ErrorIs(t, err, types.ErrMalformedLogicalKey)

	// the other keys are still attached
	err = m.AttachAll(context.Background(), []types.LogicalKey{"bogus", testKLineKey})
	assert.Error(t, err)
	assert.Equal(t, []types.LogicalKey{testKLineKey}, m.Keys())
	assert.Len(t, m.Subscriptions(), 3)
}

type fakeStream struct {
	observers []types.Observer
	err       error
}

func (s *fakeStream) Subscribe(o types.Observer) (types.Subscription, error) {
	s.observers = append(s.observers, o)
	return types.SubscriptionFunc(func() error { return s.err }), nil
}

func TestSubscriptionManager_DetachAllFailures(t *testing.T) {
	ctrl := gomock.NewController(t)
	source := mocks.NewMockStreamSource(ctrl)

	failing := &fakeStream{err: errors.New("connection reset")}
	ok := &fakeStream{}

	source.EXPECT().OpenStream(gomock.Any(), gomock.Any()).DoAndReturn(func(_ context.Context, req types.StreamRequest) (types.Stream, error) {
		if req.Channel == types.OrderChannel {
			return failing, nil
		}
		return ok, nil
	}).Times(4)

	m := NewSubscriptionManager(source, "", func(types.Event) error { return nil }, logrus.New())
	require.NoError(t, m.AttachAll(context.Background(), []types.LogicalKey{testKLineKey, testIndicatorKey}))

	err := m.DetachAll()
	assert.Len(t, multierr.Errors(err), 1)
	assert.Empty(t, m.Keys())
}

func TestSubscriptionManager_OpenFailure(t *testing.T) {
	ctrl := gomock.NewController(t)
	source := mocks.NewMockStreamSource(ctrl)

	opened := &fakeStream{}
	unsubscribed := 0
	source.EXPECT().OpenStream(gomock.Any(), gomock.Any()).DoAndReturn(func(_ context.Context, req types.StreamRequest) (types.Stream, error) {
		if req.Channel == types.PositionChannel {
			return nil, errors.New("unavailable")
		}
		return streamFunc(func(o types.Observer) (types.Subscription, error) {
			opened.observers = append(opened.observers, o)
			return types.SubscriptionFunc(func() error {
				unsubscribed++
				return nil
			}), nil
		}), nil
	}).Times(3)

	m := NewSubscriptionManager(source, "", func(types.Event) error { return nil }, logrus.New())
	assert.Error(t, m.Attach(context.Background(), testKLineKey))
	assert.Empty(t, m.Keys())
	assert.Len(t, opened.observers, 2)
	assert.Equal(t, 2, unsubscribed)
}

type streamFunc func(o types.Observer) (types.Subscription, error)

func (f streamFunc) Subscribe(o types.Observer) (types.Subscription, error) {
	return f(o)
}

func TestSubscriptionManager_StreamErrorsAreNotFolded(t *testing.T) {
	hub := stream.NewHub()

	dispatched := 0
	m := NewSubscriptionManager(hub, "", func(types.Event) error {
		dispatched++
		return nil
	}, logrus.New())
	require.NoError(t, m.Attach(context.Background(), testKLineKey))

	topic := "kline:" + string(testKLineKey)
	hub.Fail(topic, errors.New("timeout"))
	hub.Publish(topic, []byte(`not json`))
	hub.Publish("order:binance:BTCUSDT", []byte(`{"event":"order.unknown","data":{}}`))
	assert.Equal(t, 0, dispatched)

	// the subscription stays open after errors
	hub.Publish(topic, []byte(`{"time":60,"open":1,"high":1,"low":1,"close":1}`))
	assert.Equal(t, 1, dispatched)
}
