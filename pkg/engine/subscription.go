package engine

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
	"go.uber.org/multierr"

	"github.com/c9s/chartsync/pkg/metrics"
	"github.com/c9s/chartsync/pkg/stream"
	"github.com/c9s/chartsync/pkg/types"
	"github.com/c9s/chartsync/pkg/util"
)

// DispatchFunc folds one decoded event into the chart.
type DispatchFunc func(event types.Event) error

// SubscriptionInfo describes one live subscription.
type SubscriptionInfo struct {
	ID    string           `json:"id"`
	Key   types.LogicalKey `json:"key"`
	Topic string           `json:"topic"`
}

type subscription struct {
	SubscriptionInfo
	sub types.Subscription
}

// SubscriptionManager opens the live streams of each logical key and keeps
// the key to subscriptions map. It never calls into the engine lock while
// holding its own lock, callbacks only take the engine lock.
type SubscriptionManager struct {
	source     types.StreamSource
	dispatch   DispatchFunc
	strategyID string

	logger      logrus.FieldLogger
	errorLogger *util.WarnFirstLogger

	mu            sync.Mutex
	subscriptions map[types.LogicalKey][]*subscription
}

func NewSubscriptionManager(source types.StreamSource, strategyID string, dispatch DispatchFunc, logger logrus.FieldLogger) *SubscriptionManager {
	return &SubscriptionManager{
		source:        source,
		dispatch:      dispatch,
		strategyID:    strategyID,
		logger:        logger,
		errorLogger:   util.NewWarnFirstLogger(5, time.Minute, logger),
		subscriptions: make(map[types.LogicalKey][]*subscription),
	}
}

// streamRequests returns the streams of the key. A kline key owns the kline
// stream, the order and position streams of its market and, when the chart
// belongs to a strategy, the statistics stream.
func (m *SubscriptionManager) streamRequests(key types.LogicalKey) ([]types.StreamRequest, error) {
	info, err := key.Parse()
	if err != nil {
		return nil, err
	}

	switch info.Kind {
	case types.KeyKindKLine:
		requests := []types.StreamRequest{
			{Channel: types.KLineChannel, Key: key},
			{Channel: types.OrderChannel, Key: key, Exchange: info.Exchange, Symbol: info.Symbol, StrategyID: m.strategyID},
			{Channel: types.PositionChannel, Key: key, Exchange: info.Exchange, Symbol: info.Symbol, StrategyID: m.strategyID},
		}

		if len(m.strategyID) > 0 {
			requests = append(requests, types.StreamRequest{Channel: types.StatisticsChannel, Key: key, StrategyID: m.strategyID})
		}
		return requests, nil

	case types.KeyKindIndicator:
		return []types.StreamRequest{{Channel: types.IndicatorChannel, Key: key}}, nil

	case types.KeyKindStatistics:
		return []types.StreamRequest{{Channel: types.StatisticsChannel, Key: key, StrategyID: info.StrategyID}}, nil
	}

	return nil, errors.Wrapf(types.ErrMalformedLogicalKey, "%s", key)
}

// Attach opens the streams of the key. Attaching a key that already has
// subscriptions does nothing.
func (m *SubscriptionManager) Attach(ctx context.Context, key types.LogicalKey) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.subscriptions[key]; ok {
		return nil
	}

	requests, err := m.streamRequests(key)
	if err != nil {
		return err
	}

	var subs []*subscription
	for _, req := range requests {
		sub, err := m.subscribe(ctx, key, req)
		if err != nil {
			// do not leave a partially attached key behind
			for _, s := range subs {
				util.LogErr(m.logger, s.sub.Unsubscribe(), "unable to unsubscribe %s", s.Topic)
			}
			return errors.Wrapf(err, "attach %s", key)
		}
		subs = append(subs, sub)
	}

	m.subscriptions[key] = subs
	metrics.SubscriptionsMetrics.Add(float64(len(subs)))
	m.logger.Debugf("attached %s with %d streams", key, len(subs))
	return nil
}

func (m *SubscriptionManager) subscribe(ctx context.Context, key types.LogicalKey, req types.StreamRequest) (*subscription, error) {
	s, err := m.source.OpenStream(ctx, req)
	if err != nil {
		return nil, errors.Wrapf(err, "open stream %s", req.Topic())
	}

	sub, err := s.Subscribe(types.Observer{
		Next:  m.handler(req),
		Error: m.errorHandler(req),
	})
	if err != nil {
		return nil, errors.Wrapf(err, "subscribe %s", req.Topic())
	}

	return &subscription{
		SubscriptionInfo: SubscriptionInfo{
			ID:    uuid.New().String(),
			Key:   key,
			Topic: req.Topic(),
		},
		sub: sub,
	}, nil
}

// handler decodes the payloads of the stream into events. Payload errors are
// logged and never reach the folder.
func (m *SubscriptionManager) handler(req types.StreamRequest) func(payload []byte) {
	topic := req.Topic()
	return func(payload []byte) {
		event, err := decodeEvent(req, payload)
		if err != nil {
			metrics.StreamErrorMetrics.WithLabelValues(string(req.Channel)).Inc()
			m.errorLogger.WarnOrError(err, "%s: unable to decode payload", topic)
			return
		}

		if err := m.dispatch(event); err != nil {
			if errors.Is(err, ErrEngineClosed) {
				return
			}
			m.logger.WithError(err).Warnf("%s: event rejected", topic)
		}
	}
}

func (m *SubscriptionManager) errorHandler(req types.StreamRequest) func(err error) {
	topic := req.Topic()
	return func(err error) {
		metrics.StreamErrorMetrics.WithLabelValues(string(req.Channel)).Inc()
		m.errorLogger.WarnOrError(err, "%s: stream error", topic)
	}
}

func decodeEvent(req types.StreamRequest, payload []byte) (types.Event, error) {
	switch req.Channel {
	case types.KLineChannel:
		row, err := stream.DecodeKLine(payload)
		if err != nil {
			return nil, err
		}
		return types.KLineEvent{Key: req.Key, Row: row}, nil

	case types.IndicatorChannel:
		row, err := stream.DecodeIndicatorRow(payload)
		if err != nil {
			return nil, err
		}
		return types.IndicatorEvent{Key: req.Key, Values: row.Points()}, nil

	case types.OrderChannel:
		return stream.DecodeOrderMessage(payload)

	case types.PositionChannel:
		return stream.DecodePositionMessage(payload)

	case types.StatisticsChannel:
		row, err := stream.DecodeIndicatorRow(payload)
		if err != nil {
			return nil, err
		}
		return types.StatisticsEvent{StrategyID: req.StrategyID, Row: row}, nil
	}

	return nil, errors.Errorf("unsupported channel %s", req.Channel)
}

// AttachAll attaches every key. A key that fails to attach is logged and
// skipped.
func (m *SubscriptionManager) AttachAll(ctx context.Context, keys []types.LogicalKey) error {
	var errs error
	for _, key := range keys {
		if err := m.Attach(ctx, key); err != nil {
			m.logger.WithError(err).Errorf("unable to attach %s", key)
			errs = multierr.Append(errs, err)
		}
	}
	return errs
}

// Detach cancels the subscriptions of the key, other keys are untouched.
func (m *SubscriptionManager) Detach(key types.LogicalKey) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	subs, ok := m.subscriptions[key]
	if !ok {
		return nil
	}

	delete(m.subscriptions, key)
	return m.cancel(subs)
}

// DetachAll cancels every subscription. A failed cancellation is logged and
// does not stop the others, the map is always cleared.
func (m *SubscriptionManager) DetachAll() error {
	m.mu.Lock()
	defer m.mu.Unlock()

	var errs error
	for _, subs := range m.subscriptions {
		errs = multierr.Append(errs, m.cancel(subs))
	}

	m.subscriptions = make(map[types.LogicalKey][]*subscription)
	return errs
}

func (m *SubscriptionManager) cancel(subs []*subscription) (errs error) {
	for _, s := range subs {
		if err := s.sub.Unsubscribe(); err != nil {
			m.logger.WithError(err).Errorf("unable to unsubscribe %s", s.Topic)
			errs = multierr.Append(errs, errors.Wrapf(err, "unsubscribe %s", s.Topic))
		}
	}

	metrics.SubscriptionsMetrics.Sub(float64(len(subs)))
	return errs
}

// Keys returns the attached keys in sorted order.
func (m *SubscriptionManager) Keys() []types.LogicalKey {
	m.mu.Lock()
	defer m.mu.Unlock()

	keys := make([]types.LogicalKey, 0, len(m.subscriptions))
	for key := range m.subscriptions {
		keys = append(keys, key)
	}
	sort.Slice(keys, func(i, j int) bool { return keys[i] < keys[j] })
	return keys
}

// Subscriptions returns the live subscriptions sorted by key and topic.
func (m *SubscriptionManager) Subscriptions() []SubscriptionInfo {
	m.mu.Lock()
	defer m.mu.Unlock()

	var infos []SubscriptionInfo
	for _, subs := range m.subscriptions {
		for _, s := range subs {
			infos = append(infos, s.SubscriptionInfo)
		}
	}

	sort.Slice(infos, func(i, j int) bool {
		if infos[i].Key == infos[j].Key {
			return infos[i].Topic < infos[j].Topic
		}
		return infos[i].Key < infos[j].Key
	})
	return infos
}
