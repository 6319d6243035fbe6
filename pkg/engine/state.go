package engine

import (
	"github.com/c9s/chartsync/pkg/types"
)

// State is the domain state of one chart. It is owned by one Engine and is
// only accessed with the engine lock held.
type State struct {
	Candles    []types.Candle                             `json:"candles"`
	Indicators map[types.LogicalKey]types.IndicatorValues `json:"indicators"`
	Statistics types.IndicatorValues                      `json:"statistics"`
	Markers    []types.Marker                             `json:"markers"`
	PriceLines []types.PriceLine                          `json:"priceLines"`

	// TerminalOrders records the orders that reached a terminal status, a
	// late update of such an order never creates a pending line again
	TerminalOrders map[string]types.OrderStatus `json:"terminalOrders"`

	IsDataInitialized bool `json:"isDataInitialized"`

	// VisibleRange is nil until the first visible range change
	VisibleRange *types.LogicalRange `json:"visibleRange,omitempty"`
}

func NewState() *State {
	return &State{
		Indicators:     make(map[types.LogicalKey]types.IndicatorValues),
		Statistics:     types.IndicatorValues{},
		TerminalOrders: make(map[string]types.OrderStatus),
	}
}

// Reset wipes the state, the instance keeps living.
func (s *State) Reset() {
	*s = *NewState()
}

func (s *State) VisibleFrom() float64 {
	if s.VisibleRange == nil {
		return 0
	}
	return s.VisibleRange.From
}

func (s *State) IndicatorValues(key types.LogicalKey) types.IndicatorValues {
	values, ok := s.Indicators[key]
	if !ok {
		values = types.IndicatorValues{}
		s.Indicators[key] = values
	}
	return values
}

// PriceLinesOfKind returns the price-lines of the given kinds in list order.
func (s *State) PriceLinesOfKind(kinds ...types.PriceLineKind) []types.PriceLine {
	var lines []types.PriceLine
	for _, line := range s.PriceLines {
		if hasKind(kinds, line.Kind) {
			lines = append(lines, line)
		}
	}
	return lines
}

// ReplacePriceLines replaces every price-line of the given kinds with lines
// and returns the lines that were dropped.
func (s *State) ReplacePriceLines(kinds []types.PriceLineKind, lines []types.PriceLine) (dropped []types.PriceLine) {
	kept := make([]types.PriceLine, 0, len(s.PriceLines)+len(lines))
	for _, line := range s.PriceLines {
		if hasKind(kinds, line.Kind) {
			dropped = append(dropped, line)
			continue
		}
		kept = append(kept, line)
	}
	s.PriceLines = append(kept, lines...)
	return dropped
}

// AddPriceLine appends the line, a line with the same id is replaced in place.
// It returns true if a line was replaced.
func (s *State) AddPriceLine(line types.PriceLine) bool {
	for i := range s.PriceLines {
		if s.PriceLines[i].ID == line.ID {
			s.PriceLines[i] = line
			return true
		}
	}

	s.PriceLines = append(s.PriceLines, line)
	return false
}

// RemovePriceLinesOf deletes the lines owned by owner and returns them.
func (s *State) RemovePriceLinesOf(owner types.PriceLineOwner) (removed []types.PriceLine) {
	kept := s.PriceLines[:0]
	for _, line := range s.PriceLines {
		if line.Owner == owner {
			removed = append(removed, line)
			continue
		}
		kept = append(kept, line)
	}
	s.PriceLines = kept
	return removed
}

// RecordTerminal remembers the order if its status is terminal.
func (s *State) RecordTerminal(order types.Order) bool {
	if !order.Status.IsTerminal() {
		return false
	}
	s.TerminalOrders[order.OrderID] = order.Status
	return true
}

func (s *State) IsTerminal(orderID string) bool {
	_, ok := s.TerminalOrders[orderID]
	return ok
}

// AddMarkers appends the markers whose id is not in the list yet and keeps
// the list sorted by time. It returns the number of added markers.
func (s *State) AddMarkers(markers []types.Marker) int {
	n := 0
	for _, m := range markers {
		if s.hasMarker(m.ID) {
			continue
		}
		s.Markers = append(s.Markers, m)
		n++
	}

	if n > 0 {
		types.SortMarkers(s.Markers)
	}
	return n
}

func (s *State) hasMarker(id string) bool {
	for _, m := range s.Markers {
		if m.ID == id {
			return true
		}
	}
	return false
}

// Copy returns a deep copy that can be read without the engine lock.
func (s *State) Copy() *State {
	out := &State{
		Candles:           append([]types.Candle(nil), s.Candles...),
		Indicators:        make(map[types.LogicalKey]types.IndicatorValues, len(s.Indicators)),
		Statistics:        s.Statistics.Copy(),
		Markers:           append([]types.Marker(nil), s.Markers...),
		PriceLines:        append([]types.PriceLine(nil), s.PriceLines...),
		TerminalOrders:    make(map[string]types.OrderStatus, len(s.TerminalOrders)),
		IsDataInitialized: s.IsDataInitialized,
	}

	for id, status := range s.TerminalOrders {
		out.TerminalOrders[id] = status
	}

	for key, values := range s.Indicators {
		out.Indicators[key] = values.Copy()
	}

	if s.VisibleRange != nil {
		r := *s.VisibleRange
		out.VisibleRange = &r
	}

	return out
}

func hasKind(kinds []types.PriceLineKind, kind types.PriceLineKind) bool {
	for _, k := range kinds {
		if k == kind {
			return true
		}
	}
	return false
}
