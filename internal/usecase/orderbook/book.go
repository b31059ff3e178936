package orderbook

import (
	"fmt"

	orderbookv1 "github.com/Praneshrajan137/matching-engine-sub002/internal/domain/orderbook/v1"
	snapshotv1 "github.com/Praneshrajan137/matching-engine-sub002/internal/domain/snapshot/v1"
	rbt "github.com/emirpasic/gods/v2/trees/redblacktree"
)

// PriceQuantity is one aggregated ladder level, used for depth snapshots.
type PriceQuantity struct {
	Price    float64
	Quantity float64
}

// ladder is one side of the book: price -> level, ordered so that the tree
// minimum is always the most aggressive price for that side.
type ladder struct {
	tree *rbt.Tree[float64, *orderbookv1.Level]
}

func newLadder(descending bool) *ladder {
	cmp := func(a, b float64) int {
		switch {
		case a < b:
			return -1
		case a > b:
			return 1
		default:
			return 0
		}
	}
	if descending {
		asc := cmp
		cmp = func(a, b float64) int { return -asc(a, b) }
	}
	return &ladder{tree: rbt.NewWith[float64, *orderbookv1.Level](cmp)}
}

func (l *ladder) best() *orderbookv1.Level {
	node := l.tree.Left()
	if node == nil {
		return nil
	}
	return node.Value
}

// each visits levels in priority order until fn returns false.
func (l *ladder) each(fn func(*orderbookv1.Level) bool) {
	it := l.tree.Iterator()
	for it.Next() {
		if !fn(it.Value()) {
			return
		}
	}
}

// Book is a single-symbol order book: a bid ladder keyed by price descending,
// an ask ladder keyed by price ascending, and an index from order ID to the
// resting order for O(1) cancellation.
//
// The book holds no locks. Correctness of time priority depends on a single,
// totally-ordered sequence of mutations per symbol; callers must serialize
// access, e.g. one worker goroutine per symbol.
type Book struct {
	symbol string
	bids   *ladder
	asks   *ladder
	orders map[string]*orderbookv1.Order
}

// NewBook creates an empty book for a symbol.
func NewBook(symbol string) *Book {
	return &Book{
		symbol: symbol,
		bids:   newLadder(true),
		asks:   newLadder(false),
		orders: make(map[string]*orderbookv1.Order),
	}
}

// Symbol returns the symbol this book belongs to.
func (b *Book) Symbol() string {
	return b.symbol
}

func (b *Book) side(s orderbookv1.Side) *ladder {
	if s == orderbookv1.SideBuy {
		return b.bids
	}
	return b.asks
}

// Add inserts an order as a resting order on its own side. The price level is
// created on demand; the order is appended to the level's FIFO queue and
// recorded in the cancellation index.
func (b *Book) Add(order *orderbookv1.Order) error {
	if order == nil {
		return orderbookv1.ErrNilOrder
	}
	if order.Price <= 0 {
		return fmt.Errorf("%w: got %f", orderbookv1.ErrInvalidPrice, order.Price)
	}
	if order.Remaining <= 0 {
		return fmt.Errorf("%w: got %f", orderbookv1.ErrInvalidSize, order.Remaining)
	}
	if order.ID == "" {
		return fmt.Errorf("order ID cannot be empty")
	}
	if _, exists := b.orders[order.ID]; exists {
		return fmt.Errorf("order with ID %s already exists", order.ID)
	}

	side := b.side(order.Side)
	level, found := side.tree.Get(order.Price)
	if !found {
		level = orderbookv1.NewLevel(order.Price)
		side.tree.Put(order.Price, level)
	}

	if err := level.Append(order); err != nil {
		if level.IsEmpty() && !found {
			side.tree.Remove(order.Price)
		}
		return err
	}

	b.orders[order.ID] = order
	return nil
}

// Remove cancels a resting order by ID. Returns false when the ID is unknown
// or the order already left the book.
func (b *Book) Remove(orderID string) bool {
	order, exists := b.orders[orderID]
	if !exists {
		return false
	}

	side := b.side(order.Side)
	level, found := side.tree.Get(order.Price)
	if found {
		if err := level.Remove(order); err == nil && level.IsEmpty() {
			side.tree.Remove(order.Price)
		}
	}

	delete(b.orders, orderID)
	return true
}

// Order returns a resting order by ID, nil if not resting.
func (b *Book) Order(orderID string) *orderbookv1.Order {
	return b.orders[orderID]
}

// BestBid returns the highest bid price; ok is false when the bid side is empty.
func (b *Book) BestBid() (price float64, ok bool) {
	level := b.bids.best()
	if level == nil {
		return 0, false
	}
	return level.Price, true
}

// BestAsk returns the lowest ask price; ok is false when the ask side is empty.
func (b *Book) BestAsk() (price float64, ok bool) {
	level := b.asks.best()
	if level == nil {
		return 0, false
	}
	return level.Price, true
}

// BestLevel returns the most aggressive level on the given side, nil when
// that side is empty.
func (b *Book) BestLevel(s orderbookv1.Side) *orderbookv1.Level {
	return b.side(s).best()
}

// QuantityAt returns the cached aggregate remaining quantity at a price
// level, zero when the level does not exist.
func (b *Book) QuantityAt(s orderbookv1.Side, price float64) float64 {
	level, found := b.side(s).tree.Get(price)
	if !found {
		return 0
	}
	return level.Volume()
}

// LiquidityThrough sums the cached level quantities on side s that are at
// least as favorable as limitPrice for a counter-order: ask levels priced at
// or below limitPrice, bid levels priced at or above it. The ladder ordering
// permits an early exit at the first level outside the bound. The book is
// not mutated.
func (b *Book) LiquidityThrough(s orderbookv1.Side, limitPrice float64) float64 {
	total := 0.0
	b.side(s).each(func(level *orderbookv1.Level) bool {
		if s == orderbookv1.SideSell && level.Price > limitPrice {
			return false
		}
		if s == orderbookv1.SideBuy && level.Price < limitPrice {
			return false
		}
		total += level.Volume()
		return true
	})
	return total
}

// TopLevels returns up to n (price, aggregate quantity) pairs on side s in
// priority order: bids descending, asks ascending.
func (b *Book) TopLevels(s orderbookv1.Side, n int) []PriceQuantity {
	levels := make([]PriceQuantity, 0, n)
	b.side(s).each(func(level *orderbookv1.Level) bool {
		if len(levels) >= n {
			return false
		}
		levels = append(levels, PriceQuantity{Price: level.Price, Quantity: level.Volume()})
		return true
	})
	return levels
}

// ApplyFill consumes qty from a resting order: decrements its remaining
// quantity and the level's cached volume, and removes the order (and an
// emptied level) once fully filled. qty must not exceed the order's
// remaining quantity.
func (b *Book) ApplyFill(order *orderbookv1.Order, qty float64) {
	if qty > order.Remaining {
		panic(fmt.Sprintf("fill %f exceeds remaining %f on order %s", qty, order.Remaining, order.ID))
	}

	order.Remaining -= qty

	side := b.side(order.Side)
	level, found := side.tree.Get(order.Price)
	if !found {
		return
	}
	level.Reduce(qty)

	if order.IsFilled() {
		if err := level.Remove(order); err == nil && level.IsEmpty() {
			side.tree.Remove(order.Price)
		}
		delete(b.orders, order.ID)
	}
}

// BidTotalVolume returns total resting bid quantity.
func (b *Book) BidTotalVolume() float64 {
	total := 0.0
	b.bids.each(func(level *orderbookv1.Level) bool {
		total += level.Volume()
		return true
	})
	return total
}

// AskTotalVolume returns total resting ask quantity.
func (b *Book) AskTotalVolume() float64 {
	total := 0.0
	b.asks.each(func(level *orderbookv1.Level) bool {
		total += level.Volume()
		return true
	})
	return total
}

// Len returns the number of resting orders.
func (b *Book) Len() int {
	return len(b.orders)
}

// Snapshot captures all resting orders for persistence.
func (b *Book) Snapshot() []snapshotv1.BookOrder {
	bookOrders := make([]snapshotv1.BookOrder, 0, len(b.orders))

	collect := func(level *orderbookv1.Level) bool {
		for _, order := range level.Orders() {
			bookOrders = append(bookOrders, snapshotv1.BookOrder{
				OrderID:   order.ID,
				Symbol:    order.Symbol,
				Side:      string(order.Side),
				Price:     order.Price,
				Quantity:  order.Quantity,
				Remaining: order.Remaining,
				Sequence:  order.Sequence,
				Timestamp: order.Timestamp,
			})
		}
		return true
	}

	b.bids.each(collect)
	b.asks.each(collect)

	return bookOrders
}

// Restore rebuilds the book from snapshot orders, replacing current state.
func (b *Book) Restore(bookOrders []snapshotv1.BookOrder) error {
	b.bids = newLadder(true)
	b.asks = newLadder(false)
	b.orders = make(map[string]*orderbookv1.Order)

	for _, bo := range bookOrders {
		order := &orderbookv1.Order{
			ID:        bo.OrderID,
			Symbol:    bo.Symbol,
			Type:      orderbookv1.OrderTypeLimit,
			Side:      orderbookv1.Side(bo.Side),
			Price:     bo.Price,
			Quantity:  bo.Quantity,
			Remaining: bo.Remaining,
			Sequence:  bo.Sequence,
			Timestamp: bo.Timestamp,
		}
		if err := b.Add(order); err != nil {
			return fmt.Errorf("failed to restore order %s: %w", bo.OrderID, err)
		}
	}

	return nil
}

// Validate checks book-wide invariants: level consistency on both sides,
// index completeness, and that the book is not crossed at rest. Used by
// tests to fail loudly on correctness bugs.
func (b *Book) Validate() error {
	indexed := 0
	var err error
	check := func(level *orderbookv1.Level) bool {
		if lerr := level.Validate(); lerr != nil {
			err = lerr
			return false
		}
		if level.IsEmpty() {
			err = fmt.Errorf("empty level %f present in ladder", level.Price)
			return false
		}
		for _, order := range level.Orders() {
			if b.orders[order.ID] != order {
				err = fmt.Errorf("order %s in level %f missing from index", order.ID, level.Price)
				return false
			}
			indexed++
		}
		return true
	}

	b.bids.each(check)
	if err != nil {
		return err
	}
	b.asks.each(check)
	if err != nil {
		return err
	}

	if indexed != len(b.orders) {
		return fmt.Errorf("index holds %d orders, ladders hold %d", len(b.orders), indexed)
	}

	bid, hasBid := b.BestBid()
	ask, hasAsk := b.BestAsk()
	if hasBid && hasAsk && bid >= ask {
		return fmt.Errorf("crossed book at rest: best bid %f >= best ask %f", bid, ask)
	}

	return nil
}
