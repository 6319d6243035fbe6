package engine

import (
	"context"
	"sync"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
	"go.uber.org/multierr"
	"golang.org/x/sync/errgroup"

	"github.com/c9s/chartsync/pkg/metrics"
	"github.com/c9s/chartsync/pkg/types"
)

// applyFunc runs fn with the engine lock held, fn is not called once the
// engine is closed.
type applyFunc func(fn func(view *chartView))

// Initializer bulk loads the history of a chart. Fetches run concurrently
// without the engine lock, each result is applied under the lock as soon as
// it arrives.
type Initializer struct {
	fetcher types.DataFetcher
	apply   applyFunc
	logger  logrus.FieldLogger

	// kline is the market of the chart, positions of other markets are ignored
	kline types.KeyInfo
}

func newInitializer(fetcher types.DataFetcher, kline types.KeyInfo, apply applyFunc, logger logrus.FieldLogger) *Initializer {
	return &Initializer{fetcher: fetcher, kline: kline, apply: apply, logger: logger}
}

// failures collects the errors of concurrent fetch tasks.
type failures struct {
	mu     sync.Mutex
	err    error
	logger logrus.FieldLogger
}

func (f *failures) add(kind string, err error) {
	metrics.FetchFailureMetrics.WithLabelValues(kind).Inc()
	f.logger.WithError(err).Errorf("%s fetch failed", kind)

	f.mu.Lock()
	f.err = multierr.Append(f.err, err)
	f.mu.Unlock()
}

// InitAll loads the open orders and positions of the strategy and the
// history of every key, then marks the state as initialized. A replay cursor
// of -1 or less means the replay has not started and nothing is loaded.
//
// A failed fetch does not stop the others, the returned error combines the
// failures that were already logged.
func (i *Initializer) InitAll(ctx context.Context, replayCursor int64, strategyID string, keys []types.LogicalKey) error {
	if replayCursor <= -1 {
		return nil
	}

	fails := &failures{logger: i.logger}

	var baseline errgroup.Group
	if len(strategyID) > 0 {
		baseline.Go(func() error {
			orders, err := i.fetcher.FetchOpenOrders(ctx, strategyID)
			if err != nil {
				fails.add("orders", errors.Wrapf(err, "strategy %s orders", strategyID))
				return nil
			}

			i.apply(func(view *chartView) { i.applyOrders(view, orders) })
			return nil
		})

		baseline.Go(func() error {
			positions, err := i.fetcher.FetchOpenPositions(ctx, strategyID)
			if err != nil {
				fails.add("positions", errors.Wrapf(err, "strategy %s positions", strategyID))
				return nil
			}

			i.apply(func(view *chartView) { i.applyPositions(view, positions) })
			return nil
		})
	}

	series := i.initKeys(ctx, replayCursor, keys, fails)

	// the order and position baseline is awaited first
	_ = baseline.Wait()
	_ = series.Wait()

	i.apply(func(view *chartView) {
		view.state.IsDataInitialized = true
	})

	return fails.err
}

// InitKeys loads the history of the given keys only, it is used when series
// are added to a running chart.
func (i *Initializer) InitKeys(ctx context.Context, replayCursor int64, keys []types.LogicalKey) error {
	if replayCursor <= -1 {
		return nil
	}

	fails := &failures{logger: i.logger}
	_ = i.initKeys(ctx, replayCursor, keys, fails).Wait()
	return fails.err
}

func (i *Initializer) initKeys(ctx context.Context, replayCursor int64, keys []types.LogicalKey, fails *failures) *errgroup.Group {
	var g errgroup.Group
	for _, key := range keys {
		key := key // per-iteration copy (go directive lowered below 1.22)
		info, err := key.Parse()
		if err != nil {
			fails.add("key", err)
			continue
		}

		switch info.Kind {
		case types.KeyKindKLine:
			g.Go(func() error {
				rows, err := i.fetcher.FetchKLines(ctx, key, replayCursor)
				if err != nil {
					fails.add("kline", errors.Wrapf(err, "%s", key))
					return nil
				}

				candles := types.KLineRows(rows)
				i.apply(func(view *chartView) {
					if key != view.kline {
						return
					}
					view.setCandles(candles)
				})
				return nil
			})

		case types.KeyKindIndicator:
			g.Go(func() error {
				rows, err := i.fetcher.FetchIndicator(ctx, key, replayCursor)
				if err != nil {
					fails.add("indicator", errors.Wrapf(err, "%s", key))
					return nil
				}

				values := types.BucketIndicatorRows(rows)
				i.apply(func(view *chartView) { view.setValues(key, values) })
				return nil
			})

		default:
			// statistics are streamed only
		}
	}

	return &g
}

// applyOrders replaces the markers with the fills and the limit order lines
// with the pending limit orders. Orders in a terminal status are recorded
// first so that a stale pending entry of the same order is not drawn.
func (i *Initializer) applyOrders(view *chartView, orders []types.Order) {
	orders = types.SortOrdersByUpdateTime(append([]types.Order(nil), orders...))

	var markers []types.Marker
	seen := make(map[string]struct{})
	for _, order := range orders {
		view.state.RecordTerminal(order)

		for _, m := range types.OrderMarkers(order) {
			if _, ok := seen[m.ID]; ok {
				continue
			}
			seen[m.ID] = struct{}{}
			markers = append(markers, m)
		}
	}

	// the latest update of a pending order wins
	var lines []types.PriceLine
	index := make(map[string]int)
	for _, order := range orders {
		if !order.IsPendingLimit() || view.state.IsTerminal(order.OrderID) {
			continue
		}

		line := types.LimitOrderPriceLine(order)
		if n, ok := index[line.ID]; ok {
			lines[n] = line
			continue
		}
		index[line.ID] = len(lines)
		lines = append(lines, line)
	}

	view.setMarkers(markers)
	view.replacePriceLines([]types.PriceLineKind{types.PriceLineKindLimitOrder}, lines)
}

func (i *Initializer) applyPositions(view *chartView, positions []types.Position) {
	var lines []types.PriceLine
	for _, position := range positions {
		if !position.Matches(i.kline.Exchange, i.kline.Symbol) {
			continue
		}

		lines = append(lines, position.PriceLines()...)
	}

	view.replacePriceLines(types.PositionPriceLineKinds, lines)
}
