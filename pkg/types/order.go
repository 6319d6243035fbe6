package types

import (
	"sort"
)

// OrderType define order type
type OrderType string

const (
	OrderTypeLimit            OrderType = "LIMIT"
	OrderTypeMarket           OrderType = "MARKET"
	OrderTypeStopMarket       OrderType = "STOP_MARKET"
	OrderTypeTakeProfitMarket OrderType = "TAKE_PROFIT_MARKET"
	OrderTypeStopLimit        OrderType = "STOP_LIMIT"
	OrderTypeTakeProfitLimit  OrderType = "TAKE_PROFIT_LIMIT"
)

// IsTradable reports whether a fill of this order type is drawn as a marker.
func (t OrderType) IsTradable() bool {
	switch t {
	case OrderTypeLimit, OrderTypeMarket, OrderTypeStopMarket, OrderTypeTakeProfitMarket:
		return true
	}
	return false
}

type OrderStatus string

const (
	OrderStatusCreated         OrderStatus = "CREATED"
	OrderStatusPlaced          OrderStatus = "PLACED"
	OrderStatusPartiallyFilled OrderStatus = "PARTIALLY_FILLED"
	OrderStatusFilled          OrderStatus = "FILLED"
	OrderStatusCancelled       OrderStatus = "CANCELLED"
	OrderStatusRejected        OrderStatus = "REJECTED"
	OrderStatusExpired         OrderStatus = "EXPIRED"
)

func (s OrderStatus) IsTerminal() bool {
	switch s {
	case OrderStatusFilled, OrderStatusCancelled, OrderStatusRejected, OrderStatusExpired:
		return true
	}
	return false
}

type Order struct {
	OrderID    string       `json:"orderId"`
	StrategyID string       `json:"strategyId,omitempty"`
	Exchange   ExchangeName `json:"exchange,omitempty"`
	Symbol     string       `json:"symbol,omitempty"`
	Side       SideType     `json:"side"`
	Type       OrderType    `json:"orderType"`
	Status     OrderStatus  `json:"orderStatus"`
	OpenPrice  float64      `json:"openPrice"`
	Quantity   float64      `json:"quantity"`

	// CreateTime and UpdateTime are unix timestamps, usually in milliseconds
	CreateTime int64 `json:"createTime"`
	UpdateTime int64 `json:"updateTime"`
}

// IsTradableFill reports whether the order is a filled order of a type that is drawn as a marker
func (o Order) IsTradableFill() bool {
	return o.Status == OrderStatusFilled && o.Type.IsTradable()
}

// IsPendingLimit reports whether the order is a working limit order that is drawn as a price-line
func (o Order) IsPendingLimit() bool {
	return o.Type == OrderTypeLimit && (o.Status == OrderStatusCreated || o.Status == OrderStatusPlaced)
}

// SortOrdersByUpdateTime sorts the orders ascending by update time. Orders
// with the same update time keep their original order.
func SortOrdersByUpdateTime(orders []Order) []Order {
	sort.SliceStable(orders, func(i, j int) bool {
		return orders[i].UpdateTime < orders[j].UpdateTime
	})
	return orders
}
