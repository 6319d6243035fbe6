package types

type PriceLineKind string

const (
	PriceLineKindOpen       PriceLineKind = "OPEN"
	PriceLineKindTakeProfit PriceLineKind = "TAKE_PROFIT"
	PriceLineKindStopLoss   PriceLineKind = "STOP_LOSS"
	PriceLineKindLimitOrder PriceLineKind = "LIMIT_ORDER"
)

// PositionPriceLineKinds are the kinds owned by positions
var PositionPriceLineKinds = []PriceLineKind{PriceLineKindOpen, PriceLineKindTakeProfit, PriceLineKindStopLoss}

type OwnerKind string

const (
	OwnerKindOrder    OwnerKind = "order"
	OwnerKindPosition OwnerKind = "position"
)

// PriceLineOwner is the order or position a price-line belongs to.
type PriceLineOwner struct {
	Kind OwnerKind `json:"kind"`
	ID   string    `json:"id"`
}

type LineStyle int

const (
	LineStyleSolid  LineStyle = 0
	LineStyleDotted LineStyle = 1
	LineStyleDashed LineStyle = 2
)

type PriceLine struct {
	ID        string         `json:"id"`
	Owner     PriceLineOwner `json:"owner"`
	Kind      PriceLineKind  `json:"kind"`
	Price     float64        `json:"price"`
	Title     string         `json:"title,omitempty"`
	Color     string         `json:"color,omitempty"`
	LineStyle LineStyle      `json:"lineStyle"`
	LineWidth int            `json:"lineWidth"`
}

var positionLineSuffix = map[PriceLineKind]string{
	PriceLineKindOpen:       "open",
	PriceLineKindTakeProfit: "tp",
	PriceLineKindStopLoss:   "sl",
}

func LimitOrderPriceLineID(orderID string) string {
	return orderID + "-limit"
}

func PositionPriceLineID(positionID string, kind PriceLineKind) string {
	return positionID + "-" + positionLineSuffix[kind]
}

// OwnedPriceLineIDs returns every price-line id the owner can have.
// Lines are located by these exact ids, never by substring.
func OwnedPriceLineIDs(owner PriceLineOwner) []string {
	switch owner.Kind {
	case OwnerKindOrder:
		return []string{LimitOrderPriceLineID(owner.ID)}
	case OwnerKindPosition:
		ids := make([]string, 0, len(PositionPriceLineKinds))
		for _, kind := range PositionPriceLineKinds {
			ids = append(ids, PositionPriceLineID(owner.ID, kind))
		}
		return ids
	}
	return nil
}

// LimitOrderPriceLine returns the pending price-line of a working limit order.
func LimitOrderPriceLine(order Order) PriceLine {
	return PriceLine{
		ID:        LimitOrderPriceLineID(order.OrderID),
		Owner:     PriceLineOwner{Kind: OwnerKindOrder, ID: order.OrderID},
		Kind:      PriceLineKindLimitOrder,
		Price:     order.OpenPrice,
		Title:     "LIMIT " + string(order.Side),
		Color:     Orange,
		LineStyle: LineStyleDotted,
		LineWidth: 1,
	}
}
