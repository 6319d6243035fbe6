package chart

import (
	"sort"
	"sync"

	"github.com/c9s/chartsync/pkg/types"
)

// MemorySeries is a headless series handle that keeps its points in memory.
type MemorySeries[P types.TimePoint] struct {
	mu      sync.Mutex
	points  []P
	visible bool
}

func NewMemorySeries[P types.TimePoint]() *MemorySeries[P] {
	return &MemorySeries[P]{visible: true}
}

func (s *MemorySeries[P]) Update(p P) {
	s.mu.Lock()
	defer s.mu.Unlock()

	// like a real renderer, an older point is ignored
	s.points, _, _ = types.UpsertPoint(s.points, p)
}

func (s *MemorySeries[P]) SetData(points []P) {
	s.mu.Lock()
	s.points = append([]P(nil), points...)
	s.mu.Unlock()
}

func (s *MemorySeries[P]) Data() []P {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]P(nil), s.points...)
}

func (s *MemorySeries[P]) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.points)
}

func (s *MemorySeries[P]) SetVisible(visible bool) {
	s.mu.Lock()
	s.visible = visible
	s.mu.Unlock()
}

func (s *MemorySeries[P]) IsVisible() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.visible
}

type MemoryCandleSeries struct {
	*MemorySeries[types.Candle]

	linesMu sync.Mutex
	lines   []types.PriceLine
}

func NewMemoryCandleSeries() *MemoryCandleSeries {
	return &MemoryCandleSeries{MemorySeries: NewMemorySeries[types.Candle]()}
}

func (s *MemoryCandleSeries) CreatePriceLine(line types.PriceLine) {
	s.linesMu.Lock()
	s.lines = append(s.lines, line)
	s.linesMu.Unlock()
}

func (s *MemoryCandleSeries) RemovePriceLine(id string) {
	s.linesMu.Lock()
	defer s.linesMu.Unlock()

	lines := s.lines[:0]
	for _, line := range s.lines {
		if line.ID != id {
			lines = append(lines, line)
		}
	}
	s.lines = lines
}

func (s *MemoryCandleSeries) PriceLines() []types.PriceLine {
	s.linesMu.Lock()
	defer s.linesMu.Unlock()
	return append([]types.PriceLine(nil), s.lines...)
}

type MemoryMarkerLayer struct {
	mu      sync.Mutex
	markers []types.Marker
}

func (l *MemoryMarkerLayer) SetMarkers(markers []types.Marker) {
	l.mu.Lock()
	l.markers = append([]types.Marker(nil), markers...)
	l.mu.Unlock()
}

func (l *MemoryMarkerLayer) Markers() []types.Marker {
	l.mu.Lock()
	defer l.mu.Unlock()
	return append([]types.Marker(nil), l.markers...)
}

// MemoryRenderer is a headless Renderer, used by the http service and the tests.
type MemoryRenderer struct {
	mu      sync.Mutex
	candles map[SeriesID]*MemoryCandleSeries
	values  map[SeriesID]*MemorySeries[types.ValuePoint]
	markers map[SeriesID]*MemoryMarkerLayer
}

func NewMemoryRenderer() *MemoryRenderer {
	return &MemoryRenderer{
		candles: make(map[SeriesID]*MemoryCandleSeries),
		values:  make(map[SeriesID]*MemorySeries[types.ValuePoint]),
		markers: make(map[SeriesID]*MemoryMarkerLayer),
	}
}

func (r *MemoryRenderer) AddCandleSeries(id SeriesID) CandleSeries {
	r.mu.Lock()
	defer r.mu.Unlock()

	s := NewMemoryCandleSeries()
	r.candles[id] = s
	return s
}

func (r *MemoryRenderer) AddValueSeries(id SeriesID) ValueSeries {
	r.mu.Lock()
	defer r.mu.Unlock()

	s := NewMemorySeries[types.ValuePoint]()
	r.values[id] = s
	return s
}

func (r *MemoryRenderer) AddMarkerLayer(id SeriesID, _ CandleSeries) MarkerLayer {
	r.mu.Lock()
	defer r.mu.Unlock()

	l := &MemoryMarkerLayer{}
	r.markers[id] = l
	return l
}

func (r *MemoryRenderer) RemoveSeries(id SeriesID) {
	r.mu.Lock()
	defer r.mu.Unlock()

	delete(r.candles, id)
	delete(r.values, id)
	delete(r.markers, id)
}

func (r *MemoryRenderer) CandleSeries(id SeriesID) (*MemoryCandleSeries, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	s, ok := r.candles[id]
	return s, ok
}

func (r *MemoryRenderer) ValueSeries(id SeriesID) (*MemorySeries[types.ValuePoint], bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	s, ok := r.values[id]
	return s, ok
}

func (r *MemoryRenderer) MarkerLayer(id SeriesID) (*MemoryMarkerLayer, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	l, ok := r.markers[id]
	return l, ok
}

// SeriesIDs returns the ids of every live handle.
func (r *MemoryRenderer) SeriesIDs() []SeriesID {
	r.mu.Lock()
	defer r.mu.Unlock()

	var ids []SeriesID
	for id := range r.candles {
		ids = append(ids, id)
	}
	for id := range r.values {
		ids = append(ids, id)
	}
	for id := range r.markers {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return ids
}
