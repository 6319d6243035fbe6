package engine

import (
	"github.com/pkg/errors"

	"github.com/c9s/chartsync/pkg/chart"
	"github.com/c9s/chartsync/pkg/config"
	"github.com/c9s/chartsync/pkg/metrics"
	"github.com/c9s/chartsync/pkg/types"
)

// chartView binds the domain state of a chart to its series handles.
// Every state mutation that is visible on the chart goes through it, so
// the state buffers and the renderer buffers stay in sync.
// Callers hold the engine lock.
type chartView struct {
	kline      types.LogicalKey
	info       types.KeyInfo
	strategyID string

	state      *State
	registry   *chart.SeriesRegistry
	visibility *chart.VisibilityMap
	renderer   chart.Renderer
}

func newChartView(cfg *config.ChartConfig, renderer chart.Renderer) (*chartView, error) {
	info, err := cfg.KLineInfo()
	if err != nil {
		return nil, err
	}

	return &chartView{
		kline:      cfg.KLine,
		info:       info,
		strategyID: cfg.StrategyID,
		state:      NewState(),
		registry:   chart.NewSeriesRegistry(),
		visibility: chart.NewVisibilityMap(),
		renderer:   renderer,
	}, nil
}

func (v *chartView) statisticsKey() types.LogicalKey {
	if len(v.strategyID) == 0 {
		return ""
	}
	return types.NewStatisticsKey(v.strategyID)
}

func (v *chartView) candleSeries() chart.CandleSeries {
	if s, ok := v.registry.CandleSeries(v.kline); ok {
		return s
	}

	s := v.renderer.AddCandleSeries(chart.KLineSeriesID(v.kline))
	s.SetVisible(v.visibility.IsVisible(v.kline))
	v.registry.AddCandleSeries(v.kline, s)
	return s
}

func (v *chartView) markerLayer() chart.MarkerLayer {
	if l, ok := v.registry.MarkerLayer(v.kline); ok {
		return l
	}

	l := v.renderer.AddMarkerLayer(chart.MarkerLayerID(v.kline), v.candleSeries())
	v.registry.AddMarkerLayer(v.kline, l)
	return l
}

// valueSeries returns the series of the field, a new series inherits the
// visibility of its key.
func (v *chartView) valueSeries(key types.LogicalKey, field string) chart.ValueSeries {
	if s, ok := v.registry.ValueSeries(key, field); ok {
		return s
	}

	s := v.renderer.AddValueSeries(chart.ValueSeriesID(key, field))
	s.SetVisible(v.visibility.IsVisible(key))
	v.registry.AddValueSeries(key, field, s)
	return s
}

// values returns the state buffers of a value key.
func (v *chartView) values(key types.LogicalKey) types.IndicatorValues {
	if key.Kind() == types.KeyKindStatistics {
		return v.state.Statistics
	}
	return v.state.IndicatorValues(key)
}

func (v *chartView) setCandles(candles []types.Candle) {
	v.state.Candles = candles
	v.candleSeries().SetData(candles)
}

// setValues replaces the buffer of every field of values.
func (v *chartView) setValues(key types.LogicalKey, values types.IndicatorValues) {
	buffers := v.values(key)
	for field, points := range values {
		buffers[field] = points
		v.valueSeries(key, field).SetData(points)
	}
}

func (v *chartView) upsertCandle(c types.Candle) (types.UpsertResult, error) {
	candles, result, err := types.UpsertPoint(v.state.Candles, c)
	if err != nil {
		return result, err
	}

	v.state.Candles = candles
	return chart.Upsert[types.Candle](v.candleSeries(), c)
}

func (v *chartView) upsertValue(key types.LogicalKey, field string, p types.ValuePoint) (types.UpsertResult, error) {
	buffers := v.values(key)
	points, result, err := types.UpsertPoint(buffers[field], p)
	if err != nil {
		return result, errors.Wrapf(err, "%s %s", key, field)
	}

	buffers[field] = points
	return chart.Upsert[types.ValuePoint](v.valueSeries(key, field), p)
}

// addMarkers adds the new markers and pushes the full list to the marker layer.
func (v *chartView) addMarkers(markers []types.Marker) int {
	n := v.state.AddMarkers(markers)
	if n > 0 {
		v.markerLayer().SetMarkers(v.state.Markers)
	}
	return n
}

func (v *chartView) setMarkers(markers []types.Marker) {
	v.state.Markers = types.SortMarkers(markers)
	v.markerLayer().SetMarkers(v.state.Markers)
}

func (v *chartView) createPriceLine(line types.PriceLine) {
	series := v.candleSeries()
	if v.state.AddPriceLine(line) {
		series.RemovePriceLine(line.ID)
	}
	series.CreatePriceLine(line)
}

// replacePriceLines replaces the lines of the kinds in both the state and the renderer.
func (v *chartView) replacePriceLines(kinds []types.PriceLineKind, lines []types.PriceLine) {
	series := v.candleSeries()
	for _, line := range v.state.ReplacePriceLines(kinds, lines) {
		series.RemovePriceLine(line.ID)
	}

	for _, line := range lines {
		series.CreatePriceLine(line)
	}
}

// removePriceLinesOf removes the lines of the owner by their exact ids.
func (v *chartView) removePriceLinesOf(owner types.PriceLineOwner) int {
	series := v.candleSeries()
	for _, id := range types.OwnedPriceLineIDs(owner) {
		series.RemovePriceLine(id)
	}
	return len(v.state.RemovePriceLinesOf(owner))
}

// trim applies the policy to every series and returns the number of points
// dropped from the candle series. The visible range is shifted by the same
// amount since it is expressed in candle indexes.
func (v *chartView) trim(policy chart.TrimPolicy, policyName string) int {
	if policy.IsZero() {
		return 0
	}

	from := v.state.VisibleFrom()

	n := 0
	if s, ok := v.registry.CandleSeries(v.kline); ok {
		if n = chart.Trim[types.Candle](s, from, policy); n > 0 {
			v.state.Candles = types.TrimHead(v.state.Candles, n)
			metrics.TrimMetrics.WithLabelValues(policyName).Inc()
		}
	}

	for _, key := range v.registry.ValueKeys() {
		buffers := v.values(key)
		for field, s := range v.registry.ValueSeriesOf(key) {
			if m := chart.Trim[types.ValuePoint](s, from, policy); m > 0 {
				buffers[field] = types.TrimHead(buffers[field], m)
				metrics.TrimMetrics.WithLabelValues(policyName).Inc()
			}
		}
	}

	if n > 0 && v.state.VisibleRange != nil {
		v.state.VisibleRange.From -= float64(n)
		v.state.VisibleRange.To -= float64(n)
	}

	return n
}

func (v *chartView) setVisible(key types.LogicalKey, visible bool) {
	v.visibility.Set(key, visible)

	if key == v.kline {
		if s, ok := v.registry.CandleSeries(key); ok {
			s.SetVisible(visible)
		}
	}

	for _, s := range v.registry.ValueSeriesOf(key) {
		s.SetVisible(visible)
	}
}

// removeKey destroys the value series of the key and drops its state.
func (v *chartView) removeKey(key types.LogicalKey) {
	if key == v.kline {
		return
	}

	for _, field := range v.registry.FieldsOf(key) {
		v.renderer.RemoveSeries(chart.ValueSeriesID(key, field))
		v.registry.DeleteValueSeries(key, field)
	}
	delete(v.state.Indicators, key)
}

// clear wipes the state and the data of every handle, the handles are kept.
func (v *chartView) clear() {
	v.state.Reset()

	if s, ok := v.registry.CandleSeries(v.kline); ok {
		s.SetData(nil)
		for _, line := range s.PriceLines() {
			s.RemovePriceLine(line.ID)
		}
	}

	if l, ok := v.registry.MarkerLayer(v.kline); ok {
		l.SetMarkers(nil)
	}

	for _, key := range v.registry.ValueKeys() {
		for _, s := range v.registry.ValueSeriesOf(key) {
			s.SetData(nil)
		}
	}
}

// destroy removes every handle from the renderer.
func (v *chartView) destroy() {
	for _, id := range v.registry.Clear() {
		v.renderer.RemoveSeries(id)
	}
}
