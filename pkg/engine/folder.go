package engine

import (
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
	"go.uber.org/multierr"

	"github.com/c9s/chartsync/pkg/chart"
	"github.com/c9s/chartsync/pkg/metrics"
	"github.com/c9s/chartsync/pkg/types"
)

// Folder applies live events to the chart, one at a time.
// Callers hold the engine lock.
type Folder struct {
	view   *chartView
	tick   chart.TrimPolicy
	logger logrus.FieldLogger
}

func newFolder(view *chartView, tick chart.TrimPolicy, logger logrus.FieldLogger) *Folder {
	return &Folder{view: view, tick: tick, logger: logger}
}

// Fold applies the event. Rejected points are reported in the returned
// error; the rest of the event is still applied.
func (f *Folder) Fold(event types.Event) error {
	var err error
	switch e := event.(type) {
	case types.KLineEvent:
		err = f.foldKLine(e)

	case types.IndicatorEvent:
		err = f.foldValues(e.Key, e.Values)

	case types.OrderEvent:
		f.foldOrder(e.Order)

	case types.LimitOrderFilledEvent:
		f.foldLimitOrderFilled(e.Order)

	case types.PositionEvent:
		f.foldPosition(e.Position)

	case types.PositionClosedEvent:
		f.view.removePriceLinesOf(types.PriceLineOwner{Kind: types.OwnerKindPosition, ID: e.PositionID})

	case types.StatisticsEvent:
		err = f.foldStatistics(e)

	default:
		return errors.Errorf("unexpected event type %T", event)
	}

	if err != nil {
		metrics.EventsRejectedMetrics.WithLabelValues(string(event.EventKind())).Inc()
		return err
	}

	metrics.EventsFoldedMetrics.WithLabelValues(string(event.EventKind())).Inc()
	return nil
}

func (f *Folder) foldKLine(e types.KLineEvent) error {
	if e.Key != f.view.kline {
		return errors.Errorf("kline event of %s, chart kline is %s", e.Key, f.view.kline)
	}

	if _, err := f.view.upsertCandle(e.Row.ToCandle()); err != nil {
		return errors.Wrap(err, "kline")
	}

	if n := f.view.trim(f.tick, "tick"); n > 0 {
		f.logger.Debugf("trimmed %d candles after tick", n)
	}
	return nil
}

// foldValues upserts the meaningful points of every field. An out-of-order
// point only skips itself.
func (f *Folder) foldValues(key types.LogicalKey, values types.IndicatorValues) error {
	var errs error
	for field, points := range values {
		for _, p := range points {
			if !types.IsMeaningfulValue(&p.Value) {
				continue
			}

			if _, err := f.view.upsertValue(key, field, p); err != nil {
				errs = multierr.Append(errs, err)
			}
		}
	}

	return errs
}

// foldOrder marks fills and draws pending limit orders. An order that was
// seen in a terminal status is never drawn as pending again, a limit order
// that ends without a fill loses its line.
func (f *Folder) foldOrder(order types.Order) {
	if order.IsTradableFill() {
		f.view.addMarkers(types.OrderMarkers(order))
	}

	state := f.view.state
	switch {
	case order.IsPendingLimit():
		if state.IsTerminal(order.OrderID) {
			f.logger.Debugf("order %s is already %s, ignoring %s update", order.OrderID, state.TerminalOrders[order.OrderID], order.Status)
			return
		}
		f.view.createPriceLine(types.LimitOrderPriceLine(order))

	case state.RecordTerminal(order):
		if order.Type == types.OrderTypeLimit && order.Status != types.OrderStatusFilled {
			f.view.removePriceLinesOf(types.PriceLineOwner{Kind: types.OwnerKindOrder, ID: order.OrderID})
		}
	}
}

// foldLimitOrderFilled removes the pending line of the order before the
// markers of the fill are added.
func (f *Folder) foldLimitOrderFilled(order types.Order) {
	f.view.state.RecordTerminal(order)
	f.view.removePriceLinesOf(types.PriceLineOwner{Kind: types.OwnerKindOrder, ID: order.OrderID})

	if order.Status == types.OrderStatusFilled {
		f.view.addMarkers(types.OrderMarkers(order))
	}
}

// foldPosition creates the lines of the position, the position stream is
// already scoped to the market of the chart.
func (f *Folder) foldPosition(position types.Position) {
	for _, line := range position.PriceLines() {
		f.view.createPriceLine(line)
	}
}

func (f *Folder) foldStatistics(e types.StatisticsEvent) error {
	key := f.view.statisticsKey()
	if len(key) == 0 || e.StrategyID != f.view.strategyID {
		return errors.Errorf("statistics of strategy %q, chart strategy is %q", e.StrategyID, f.view.strategyID)
	}

	return f.foldValues(key, e.Row.Points())
}
