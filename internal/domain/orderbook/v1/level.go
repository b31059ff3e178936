package orderbookv1

import (
	"container/list"
	"errors"
	"fmt"
)

var (
	ErrNilOrder      = errors.New("order cannot be nil")
	ErrInvalidPrice  = errors.New("price must be positive")
	ErrInvalidSize   = errors.New("quantity must be positive")
	ErrOrderNotFound = errors.New("order not found in level")
)

// Level is a price level in the order book: a FIFO queue of resting orders
// sharing one price, ordered by increasing arrival sequence, plus a cached
// aggregate of their remaining quantities. The cache always tracks remaining
// quantity, never original quantity.
type Level struct {
	Price  float64
	orders *list.List
	volume float64
}

// NewLevel creates an empty Level at the given price.
func NewLevel(price float64) *Level {
	return &Level{
		Price:  price,
		orders: list.New(),
	}
}

// Append adds an order to the back of the FIFO queue and updates the cached
// volume by the order's remaining quantity.
func (l *Level) Append(order *Order) error {
	if order == nil {
		return ErrNilOrder
	}
	if order.Remaining <= 0 {
		return fmt.Errorf("%w: got %f", ErrInvalidSize, order.Remaining)
	}

	order.level = l
	order.elem = l.orders.PushBack(order)
	l.volume += order.Remaining

	return nil
}

// Remove detaches an order from the queue in O(1) via its stored element
// handle and decrements the cached volume by the order's remaining quantity.
func (l *Level) Remove(order *Order) error {
	if order == nil {
		return ErrNilOrder
	}
	if order.elem == nil || order.level != l {
		return ErrOrderNotFound
	}

	l.orders.Remove(order.elem)
	l.volume -= order.Remaining
	order.level = nil
	order.elem = nil

	return nil
}

// Front returns the earliest resting order, nil if the level is empty.
func (l *Level) Front() *Order {
	front := l.orders.Front()
	if front == nil {
		return nil
	}
	return front.Value.(*Order)
}

// Reduce decrements the cached volume after a fill consumed qty from one of
// the level's orders.
func (l *Level) Reduce(qty float64) {
	l.volume -= qty
}

// Volume returns the cached total remaining quantity at this level.
func (l *Level) Volume() float64 {
	return l.volume
}

// Len returns the number of resting orders at this level.
func (l *Level) Len() int {
	return l.orders.Len()
}

// IsEmpty checks if the level has no orders.
func (l *Level) IsEmpty() bool {
	return l.orders.Len() == 0
}

// Orders returns the resting orders in FIFO arrival order.
func (l *Level) Orders() []*Order {
	orders := make([]*Order, 0, l.orders.Len())
	for e := l.orders.Front(); e != nil; e = e.Next() {
		orders = append(orders, e.Value.(*Order))
	}
	return orders
}

// Validate checks the level's internal consistency. A violation is a
// correctness bug, not a recoverable runtime condition.
func (l *Level) Validate() error {
	if l.Price <= 0 {
		return fmt.Errorf("%w: level price %f", ErrInvalidPrice, l.Price)
	}

	calculated := 0.0
	prevSeq := int64(-1)
	for e := l.orders.Front(); e != nil; e = e.Next() {
		order := e.Value.(*Order)
		if order.Remaining < 0 {
			return fmt.Errorf("%w: order %s has remaining %f", ErrInvalidSize, order.ID, order.Remaining)
		}
		if order.Sequence < prevSeq {
			return fmt.Errorf("level %f violates FIFO: sequence %d after %d", l.Price, order.Sequence, prevSeq)
		}
		prevSeq = order.Sequence
		calculated += order.Remaining
	}

	const epsilon = 1e-9
	if diff := calculated - l.volume; diff > epsilon || diff < -epsilon {
		return fmt.Errorf("volume mismatch at %f: calculated %f, cached %f", l.Price, calculated, l.volume)
	}

	return nil
}
