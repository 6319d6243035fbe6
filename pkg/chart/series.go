package chart

import (
	"github.com/c9s/chartsync/pkg/types"
)

// Series is a renderer handle of a time-ordered series.
type Series[P types.TimePoint] interface {
	// Update replaces the last point if it has the same time, otherwise appends p.
	Update(p P)

	// SetData replaces the whole buffer.
	SetData(points []P)

	// Data returns the buffered points.
	Data() []P

	SetVisible(visible bool)
}

type PriceLineLayer interface {
	CreatePriceLine(line types.PriceLine)
	RemovePriceLine(id string)
	PriceLines() []types.PriceLine
}

// MarkerLayer has no incremental API, markers are always set as a full list.
type MarkerLayer interface {
	SetMarkers(markers []types.Marker)
	Markers() []types.Marker
}

type CandleSeries interface {
	Series[types.Candle]
	PriceLineLayer
}

type ValueSeries interface {
	Series[types.ValuePoint]
}

// Renderer creates and destroys series handles.
type Renderer interface {
	AddCandleSeries(id SeriesID) CandleSeries
	AddValueSeries(id SeriesID) ValueSeries
	AddMarkerLayer(id SeriesID, series CandleSeries) MarkerLayer
	RemoveSeries(id SeriesID)
}

// SeriesID identifies a series handle. Candle series use the kline key,
// value series use the logical key plus the value field.
type SeriesID string

const fieldSeparator = "#"

func KLineSeriesID(key types.LogicalKey) SeriesID {
	return SeriesID(key)
}

func ValueSeriesID(key types.LogicalKey, field string) SeriesID {
	return SeriesID(string(key) + fieldSeparator + field)
}

func MarkerLayerID(key types.LogicalKey) SeriesID {
	return SeriesID(string(key) + fieldSeparator + "markers")
}
