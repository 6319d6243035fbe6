package types

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestOrder_States(t *testing.T) {
	limit := Order{OrderID: "7", Type: OrderTypeLimit, Status: OrderStatusPlaced}
	assert.True(t, limit.IsPendingLimit())
	assert.False(t, limit.IsTradableFill())

	limit.Status = OrderStatusFilled
	assert.False(t, limit.IsPendingLimit())
	assert.True(t, limit.IsTradableFill())
	assert.True(t, limit.Status.IsTerminal())

	stopLimit := Order{Type: OrderTypeStopLimit, Status: OrderStatusFilled}
	assert.False(t, stopLimit.IsTradableFill())

	market := Order{Type: OrderTypeMarket, Status: OrderStatusCreated}
	assert.False(t, market.IsPendingLimit())
}

func TestSortOrdersByUpdateTime(t *testing.T) {
	orders := SortOrdersByUpdateTime([]Order{
		{OrderID: "a", UpdateTime: 300},
		{OrderID: "b", UpdateTime: 100},
		{OrderID: "c", UpdateTime: 300},
		{OrderID: "d", UpdateTime: 100},
	})

	var ids []string
	for _, o := range orders {
		ids = append(ids, o.OrderID)
	}
	assert.Equal(t, []string{"b", "d", "a", "c"}, ids)
}

func TestOrderMarkers(t *testing.T) {
	markers := OrderMarkers(Order{
		OrderID:    "9",
		Side:       SideTypeSell,
		Type:       OrderTypeStopMarket,
		Status:     OrderStatusFilled,
		OpenPrice:  99.5,
		Quantity:   0.25,
		UpdateTime: 1700000000000,
	})

	if assert.Len(t, markers, 1) {
		m := markers[0]
		assert.Equal(t, "9-fill", m.ID)
		assert.Equal(t, int64(1700000000), m.Time)
		assert.Equal(t, MarkerPositionAboveBar, m.Position)
		assert.Equal(t, MarkerShapeArrowDown, m.Shape)
		assert.Equal(t, "SL SELL 0.25 @ 99.5", m.Text)
	}

	assert.Empty(t, OrderMarkers(Order{OrderID: "1", Type: OrderTypeLimit, Status: OrderStatusPlaced}))
}

func TestPosition_PriceLines(t *testing.T) {
	tp := 120.0
	p := Position{PositionID: "p1", OpenPrice: 100, TakeProfit: &tp}

	lines := p.PriceLines()
	if assert.Len(t, lines, 2) {
		assert.Equal(t, "p1-open", lines[0].ID)
		assert.Equal(t, PriceLineKindOpen, lines[0].Kind)
		assert.Equal(t, "p1-tp", lines[1].ID)
		assert.Equal(t, 120.0, lines[1].Price)
	}

	assert.ElementsMatch(t, []string{"p1-open", "p1-tp", "p1-sl"}, OwnedPriceLineIDs(lines[0].Owner))
}
