package chart

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/c9s/chartsync/pkg/types"
)

func TestSeriesRegistry(t *testing.T) {
	renderer := NewMemoryRenderer()
	registry := NewSeriesRegistry()

	kline := types.NewKLineKey(types.ExchangeBinance, "BTCUSDT", types.Interval1m)
	boll := types.NewIndicatorKey(types.ExchangeBinance, "BTCUSDT", types.Interval1m, "boll:20")

	candles := renderer.AddCandleSeries(KLineSeriesID(kline))
	registry.AddCandleSeries(kline, candles)
	registry.AddMarkerLayer(kline, renderer.AddMarkerLayer(MarkerLayerID(kline), candles))
	registry.AddValueSeries(boll, "upper", renderer.AddValueSeries(ValueSeriesID(boll, "upper")))
	registry.AddValueSeries(boll, "lower", renderer.AddValueSeries(ValueSeriesID(boll, "lower")))

	s, ok := registry.CandleSeries(kline)
	assert.True(t, ok)
	assert.Equal(t, candles, s)

	_, ok = registry.ValueSeries(boll, "middle")
	assert.False(t, ok)

	assert.Equal(t, []string{"lower", "upper"}, registry.FieldsOf(boll))
	assert.Len(t, registry.ValueSeriesOf(boll), 2)

	registry.DeleteValueSeries(boll, "lower")
	assert.Equal(t, []string{"upper"}, registry.FieldsOf(boll))

	ids := registry.Clear()
	assert.Len(t, ids, 3)
	assert.Empty(t, registry.IDs())
}

func TestVisibilityMap(t *testing.T) {
	m := NewVisibilityMap()
	key := types.LogicalKey("indicator|binance|BTCUSDT|1m|sma:20")

	assert.True(t, m.IsVisible(key))
	assert.False(t, m.Toggle(key))
	assert.False(t, m.IsVisible(key))
	assert.Equal(t, []types.LogicalKey{key}, m.Hidden())
	assert.True(t, m.Toggle(key))
	assert.Empty(t, m.Hidden())
}

func TestMemoryCandleSeries_PriceLines(t *testing.T) {
	s := NewMemoryCandleSeries()
	s.CreatePriceLine(types.PriceLine{ID: "7-limit"})
	s.CreatePriceLine(types.PriceLine{ID: "17-limit"})
	s.RemovePriceLine("7-limit")

	lines := s.PriceLines()
	if assert.Len(t, lines, 1) {
		assert.Equal(t, "17-limit", lines[0].ID)
	}
}
