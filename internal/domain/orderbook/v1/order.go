package orderbookv1

import (
	"container/list"
	"fmt"
	"time"

	"github.com/oklog/ulid/v2"
)

// Side represents which side of the book an order belongs to.
type Side string

const (
	// SideBuy represents a buy (bid) order.
	SideBuy Side = "buy"
	// SideSell represents a sell (ask) order.
	SideSell Side = "sell"
)

// Opposite returns the counter side, the side an incoming order matches against.
func (s Side) Opposite() Side {
	if s == SideBuy {
		return SideSell
	}
	return SideBuy
}

// OrderType represents the type of order.
type OrderType string

const (
	// OrderTypeMarket represents a market order.
	OrderTypeMarket OrderType = "market"
	// OrderTypeLimit represents a limit order.
	OrderTypeLimit OrderType = "limit"
	// OrderTypeIOC represents an immediate-or-cancel order.
	OrderTypeIOC OrderType = "ioc"
	// OrderTypeFOK represents a fill-or-kill order.
	OrderTypeFOK OrderType = "fok"
)

// Order represents a single order submitted to the engine. While the order
// rests in the book it is owned by the book; only the matching loop mutates
// its remaining quantity.
type Order struct {
	ID        string    `json:"id"`
	Symbol    string    `json:"symbol"`
	Type      OrderType `json:"type"`
	Side      Side      `json:"side"`
	Price     float64   `json:"price"` // zero for market orders
	Quantity  float64   `json:"quantity"`
	Remaining float64   `json:"remaining"`
	Sequence  int64     `json:"sequence"` // arrival sequence, assigned once at ingestion
	Timestamp int64     `json:"timestamp"`

	// Book internals for O(1) cancellation. The level owns the order while
	// it rests; elem is its position in the level's FIFO queue.
	level *Level
	elem  *list.Element
}

// NewOrder creates a new order. An empty id gets a generated ULID.
func NewOrder(id, symbol string, orderType OrderType, side Side, quantity, price float64) *Order {
	if id == "" {
		id = ulid.Make().String()
	}
	return &Order{
		ID:        id,
		Symbol:    symbol,
		Type:      orderType,
		Side:      side,
		Price:     price,
		Quantity:  quantity,
		Remaining: quantity,
		Timestamp: time.Now().UnixNano(),
	}
}

// IsBuy checks if the order is a buy (bid) order.
func (o *Order) IsBuy() bool {
	return o.Side == SideBuy
}

// IsFilled checks if the order is fully filled.
func (o *Order) IsFilled() bool {
	return o.Remaining <= 0
}

// Resting reports whether the order currently rests in a book level.
func (o *Order) Resting() bool {
	return o.level != nil
}

// PlaceOrderRequest is the wire shape of an order submission as produced by
// the order gateway.
type PlaceOrderRequest struct {
	OrderID  string    `json:"id"`
	Symbol   string    `json:"symbol"`
	Type     OrderType `json:"order_type"`
	Side     Side      `json:"side"`
	Quantity float64   `json:"quantity"`
	Price    float64   `json:"price"`
	Offset   int64     `json:"-"` // offset of the order in the stream
}

// Validate rejects malformed submissions before they reach the engine core.
func (r *PlaceOrderRequest) Validate() error {
	switch r.Type {
	case OrderTypeMarket, OrderTypeLimit, OrderTypeIOC, OrderTypeFOK:
	default:
		return fmt.Errorf("unknown order type %q", r.Type)
	}
	if r.Side != SideBuy && r.Side != SideSell {
		return fmt.Errorf("unknown side %q", r.Side)
	}
	if r.Quantity <= 0 {
		return fmt.Errorf("quantity must be positive, got %f", r.Quantity)
	}
	if r.Type != OrderTypeMarket && r.Price <= 0 {
		return fmt.Errorf("price required for %s orders", r.Type)
	}
	return nil
}

// ToOrder converts the request into an engine order.
func (r *PlaceOrderRequest) ToOrder() *Order {
	price := r.Price
	if r.Type == OrderTypeMarket {
		price = 0
	}
	return NewOrder(r.OrderID, r.Symbol, r.Type, r.Side, r.Quantity, price)
}
