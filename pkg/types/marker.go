package types

import (
	"sort"
	"strconv"
)

type MarkerPosition string

const (
	MarkerPositionAboveBar MarkerPosition = "aboveBar"
	MarkerPositionBelowBar MarkerPosition = "belowBar"
)

type MarkerShape string

const (
	MarkerShapeArrowUp   MarkerShape = "arrowUp"
	MarkerShapeArrowDown MarkerShape = "arrowDown"
	MarkerShapeCircle    MarkerShape = "circle"
)

// Marker is a point annotation on the candle series denoting a filled trade.
type Marker struct {
	ID       string         `json:"id"`
	OrderID  string         `json:"orderId"`
	Time     int64          `json:"time"`
	Position MarkerPosition `json:"position"`
	Shape    MarkerShape    `json:"shape"`
	Color    string         `json:"color"`
	Text     string         `json:"text"`
}

func OrderFillMarkerID(orderID string) string {
	return orderID + "-fill"
}

// OrderMarkers returns the markers of a filled order. Orders that are not a
// tradable fill have no markers.
func OrderMarkers(order Order) []Marker {
	if !order.IsTradableFill() {
		return nil
	}

	t := order.UpdateTime
	if t == 0 {
		t = order.CreateTime
	}

	return []Marker{{
		ID:       OrderFillMarkerID(order.OrderID),
		OrderID:  order.OrderID,
		Time:     AlignTime(t),
		Position: order.Side.MarkerPosition(),
		Shape:    order.Side.MarkerShape(),
		Color:    order.Side.Color(),
		Text:     fillLabel(order),
	}}
}

func fillLabel(order Order) string {
	label := string(order.Side)
	switch order.Type {
	case OrderTypeStopMarket:
		label = "SL " + label
	case OrderTypeTakeProfitMarket:
		label = "TP " + label
	}

	return label + " " + strconv.FormatFloat(order.Quantity, 'f', -1, 64) +
		" @ " + strconv.FormatFloat(order.OpenPrice, 'f', -1, 64)
}

// SortMarkers sorts the markers ascending by time, the renderer requires it.
func SortMarkers(markers []Marker) []Marker {
	sort.SliceStable(markers, func(i, j int) bool {
		return markers[i].Time < markers[j].Time
	})
	return markers
}
