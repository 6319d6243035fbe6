package types

type Position struct {
	PositionID string       `json:"positionId"`
	StrategyID string       `json:"strategyId,omitempty"`
	Exchange   ExchangeName `json:"exchange"`
	Symbol     string       `json:"symbol"`
	Side       SideType     `json:"side,omitempty"`
	OpenPrice  float64      `json:"openPrice"`
	Quantity   float64      `json:"quantity,omitempty"`

	// TakeProfit and StopLoss are optional price levels
	TakeProfit *float64 `json:"takeProfit,omitempty"`
	StopLoss   *float64 `json:"stopLoss,omitempty"`

	OpenTime int64 `json:"openTime,omitempty"`
}

// Matches reports whether the position belongs to the given market.
func (p Position) Matches(exchange ExchangeName, symbol string) bool {
	return p.Exchange == exchange && p.Symbol == symbol
}

// PriceLines returns the open price-line, followed by the take-profit and
// stop-loss lines when the position has them.
func (p Position) PriceLines() []PriceLine {
	owner := PriceLineOwner{Kind: OwnerKindPosition, ID: p.PositionID}

	lines := []PriceLine{{
		ID:        PositionPriceLineID(p.PositionID, PriceLineKindOpen),
		Owner:     owner,
		Kind:      PriceLineKindOpen,
		Price:     p.OpenPrice,
		Title:     "OPEN",
		Color:     Blue,
		LineStyle: LineStyleSolid,
		LineWidth: 1,
	}}

	if p.TakeProfit != nil {
		lines = append(lines, PriceLine{
			ID:        PositionPriceLineID(p.PositionID, PriceLineKindTakeProfit),
			Owner:     owner,
			Kind:      PriceLineKindTakeProfit,
			Price:     *p.TakeProfit,
			Title:     "TP",
			Color:     Green,
			LineStyle: LineStyleDashed,
			LineWidth: 1,
		})
	}

	if p.StopLoss != nil {
		lines = append(lines, PriceLine{
			ID:        PositionPriceLineID(p.PositionID, PriceLineKindStopLoss),
			Owner:     owner,
			Kind:      PriceLineKindStopLoss,
			Price:     *p.StopLoss,
			Title:     "SL",
			Color:     Red,
			LineStyle: LineStyleDashed,
			LineWidth: 1,
		})
	}

	return lines
}
