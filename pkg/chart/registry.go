package chart

import (
	"sort"

	"github.com/c9s/chartsync/pkg/types"
)

type valueSeriesEntry struct {
	key    types.LogicalKey
	field  string
	series ValueSeries
}

// SeriesRegistry holds the renderer handles of one chart, keyed by logical id.
type SeriesRegistry struct {
	candles map[types.LogicalKey]CandleSeries
	values  map[SeriesID]valueSeriesEntry
	markers map[types.LogicalKey]MarkerLayer
}

func NewSeriesRegistry() *SeriesRegistry {
	return &SeriesRegistry{
		candles: make(map[types.LogicalKey]CandleSeries),
		values:  make(map[SeriesID]valueSeriesEntry),
		markers: make(map[types.LogicalKey]MarkerLayer),
	}
}

func (r *SeriesRegistry) AddCandleSeries(key types.LogicalKey, series CandleSeries) {
	r.candles[key] = series
}

func (r *SeriesRegistry) CandleSeries(key types.LogicalKey) (CandleSeries, bool) {
	s, ok := r.candles[key]
	return s, ok
}

func (r *SeriesRegistry) DeleteCandleSeries(key types.LogicalKey) {
	delete(r.candles, key)
}

func (r *SeriesRegistry) AddValueSeries(key types.LogicalKey, field string, series ValueSeries) {
	r.values[ValueSeriesID(key, field)] = valueSeriesEntry{key: key, field: field, series: series}
}

func (r *SeriesRegistry) ValueSeries(key types.LogicalKey, field string) (ValueSeries, bool) {
	e, ok := r.values[ValueSeriesID(key, field)]
	return e.series, ok
}

func (r *SeriesRegistry) DeleteValueSeries(key types.LogicalKey, field string) {
	delete(r.values, ValueSeriesID(key, field))
}

// ValueSeriesOf returns the value series of every field of the key.
func (r *SeriesRegistry) ValueSeriesOf(key types.LogicalKey) map[string]ValueSeries {
	out := make(map[string]ValueSeries)
	for _, e := range r.values {
		if e.key == key {
			out[e.field] = e.series
		}
	}
	return out
}

// ValueKeys returns the keys that have at least one value series, sorted.
func (r *SeriesRegistry) ValueKeys() []types.LogicalKey {
	seen := make(map[types.LogicalKey]struct{})
	var keys []types.LogicalKey
	for _, e := range r.values {
		if _, ok := seen[e.key]; !ok {
			seen[e.key] = struct{}{}
			keys = append(keys, e.key)
		}
	}
	sort.Slice(keys, func(i, j int) bool { return keys[i] < keys[j] })
	return keys
}

// FieldsOf returns the registered fields of the key in sorted order.
func (r *SeriesRegistry) FieldsOf(key types.LogicalKey) []string {
	var fields []string
	for _, e := range r.values {
		if e.key == key {
			fields = append(fields, e.field)
		}
	}
	sort.Strings(fields)
	return fields
}

func (r *SeriesRegistry) AddMarkerLayer(key types.LogicalKey, layer MarkerLayer) {
	r.markers[key] = layer
}

func (r *SeriesRegistry) MarkerLayer(key types.LogicalKey) (MarkerLayer, bool) {
	l, ok := r.markers[key]
	return l, ok
}

func (r *SeriesRegistry) DeleteMarkerLayer(key types.LogicalKey) {
	delete(r.markers, key)
}

// IDs returns the ids of every registered handle.
func (r *SeriesRegistry) IDs() []SeriesID {
	var ids []SeriesID
	for key := range r.candles {
		ids = append(ids, KLineSeriesID(key))
	}
	for id := range r.values {
		ids = append(ids, id)
	}
	for key := range r.markers {
		ids = append(ids, MarkerLayerID(key))
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return ids
}

// Clear drops every handle and returns the ids that were registered.
func (r *SeriesRegistry) Clear() []SeriesID {
	ids := r.IDs()
	r.candles = make(map[types.LogicalKey]CandleSeries)
	r.values = make(map[SeriesID]valueSeriesEntry)
	r.markers = make(map[types.LogicalKey]MarkerLayer)
	return ids
}
