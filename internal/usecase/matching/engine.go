package matching

import (
	"fmt"
	"time"

	marketdatav1 "github.com/Praneshrajan137/matching-engine-sub002/internal/domain/marketdata/v1"
	orderbookv1 "github.com/Praneshrajan137/matching-engine-sub002/internal/domain/orderbook/v1"
	snapshotv1 "github.com/Praneshrajan137/matching-engine-sub002/internal/domain/snapshot/v1"
	"github.com/Praneshrajan137/matching-engine-sub002/internal/usecase/orderbook"
)

// Result is everything a single submission produced: the executions, the
// fresh BBO and depth snapshots for the affected symbol, the unfilled
// remainder, and whether that remainder was cancelled (IOC/FOK) rather than
// rested or discarded.
type Result struct {
	Trades    []orderbookv1.Trade
	BBO       marketdatav1.BBO
	Depth     marketdatav1.Depth
	Remaining float64
	Canceled  bool
}

// Engine matches incoming orders against per-symbol books with strict
// price-time priority. It is a pure synchronous computation: Submit and
// Cancel run to completion without blocking, and the engine holds no locks.
// Callers must serialize access per symbol.
type Engine struct {
	books       map[string]*orderbook.Book
	symbols     map[string]string // resting order ID -> symbol
	arrivalSeq  int64
	tradeSeq    int64
	depthLevels int
}

// NewEngine creates an engine emitting depth snapshots of depthLevels levels
// per side.
func NewEngine(depthLevels int) *Engine {
	if depthLevels <= 0 {
		depthLevels = 10
	}
	return &Engine{
		books:       make(map[string]*orderbook.Book),
		symbols:     make(map[string]string),
		depthLevels: depthLevels,
	}
}

// Book returns the book for a symbol, creating it on first use.
func (e *Engine) Book(symbol string) *orderbook.Book {
	book, exists := e.books[symbol]
	if !exists {
		book = orderbook.NewBook(symbol)
		e.books[symbol] = book
	}
	return book
}

// Submit dispatches an incoming order by type, runs the matching loop and
// returns the executions plus fresh BBO and depth snapshots. The arrival
// sequence is assigned here, once, and never recomputed.
func (e *Engine) Submit(order *orderbookv1.Order) (*Result, error) {
	if order == nil {
		return nil, orderbookv1.ErrNilOrder
	}
	if order.Symbol == "" {
		return nil, fmt.Errorf("order %s has no symbol", order.ID)
	}

	e.arrivalSeq++
	order.Sequence = e.arrivalSeq

	book := e.Book(order.Symbol)
	result := &Result{}

	switch order.Type {
	case orderbookv1.OrderTypeMarket:
		// Unbounded loop; never rests, any remainder is silently discarded.
		result.Trades = e.matchLoop(book, order, false)

	case orderbookv1.OrderTypeLimit:
		// ID collisions are rejected before any matching runs; a collision
		// caught at rest time would mean executed trades the caller never
		// sees.
		if _, exists := e.symbols[order.ID]; exists {
			return nil, fmt.Errorf("order with ID %s already exists", order.ID)
		}
		result.Trades = e.matchLoop(book, order, true)
		if order.Remaining > 0 {
			if err := book.Add(order); err != nil {
				return nil, err
			}
			e.symbols[order.ID] = order.Symbol
		}

	case orderbookv1.OrderTypeIOC:
		result.Trades = e.matchLoop(book, order, true)
		result.Canceled = order.Remaining > 0

	case orderbookv1.OrderTypeFOK:
		// Feasibility check strictly before any mutation: all-or-nothing.
		available := book.LiquidityThrough(order.Side.Opposite(), order.Price)
		if available < order.Remaining {
			result.Canceled = true
			break
		}
		result.Trades = e.matchLoop(book, order, true)

	default:
		return nil, fmt.Errorf("unknown order type %q", order.Type)
	}

	result.Remaining = order.Remaining
	result.BBO = e.bbo(book)
	result.Depth = e.depth(book)

	return result, nil
}

// Cancel removes a resting order by ID. Returns false when the ID is unknown
// or the order already left the book; it never errors.
func (e *Engine) Cancel(orderID string) bool {
	symbol, exists := e.symbols[orderID]
	if !exists {
		return false
	}

	removed := e.Book(symbol).Remove(orderID)
	delete(e.symbols, orderID)
	return removed
}

// matchLoop is the shared matching primitive. While the incoming order has
// remaining quantity it re-reads the best level on the counter side, stops
// when the order is not marketable against it, and consumes resting orders
// strictly in FIFO arrival order. Re-reading the best level on every
// iteration is what prevents trade-throughs.
func (e *Engine) matchLoop(book *orderbook.Book, order *orderbookv1.Order, bounded bool) []orderbookv1.Trade {
	var trades []orderbookv1.Trade
	counter := order.Side.Opposite()

	for order.Remaining > 0 {
		level := book.BestLevel(counter)
		if level == nil {
			break
		}
		if bounded && !marketable(order, level.Price) {
			break
		}

		resting := level.Front()
		if resting == nil {
			break
		}

		fillQty := min(order.Remaining, resting.Remaining)
		trades = append(trades, e.newTrade(resting, order, fillQty))

		order.Remaining -= fillQty
		book.ApplyFill(resting, fillQty)
		if resting.IsFilled() {
			delete(e.symbols, resting.ID)
		}
	}

	return trades
}

// marketable reports whether a bounded order may trade at the opposing best
// price: a buy while best ask <= its limit, a sell while best bid >= it.
func marketable(order *orderbookv1.Order, bestPrice float64) bool {
	if order.IsBuy() {
		return order.Price >= bestPrice
	}
	return order.Price <= bestPrice
}

// newTrade emits one execution against a resting order. The trade executes
// at the maker's price and carries the next sequential trade ID.
func (e *Engine) newTrade(maker, taker *orderbookv1.Order, qty float64) orderbookv1.Trade {
	e.tradeSeq++
	return orderbookv1.Trade{
		ID:            e.tradeSeq,
		Symbol:        taker.Symbol,
		MakerOrderID:  maker.ID,
		TakerOrderID:  taker.ID,
		Price:         maker.Price,
		Quantity:      qty,
		AggressorSide: taker.Side,
		Timestamp:     time.Now().UnixNano(),
	}
}

func (e *Engine) bbo(book *orderbook.Book) marketdatav1.BBO {
	bid, hasBid := book.BestBid()
	ask, hasAsk := book.BestAsk()
	return marketdatav1.NewBBO(book.Symbol(), bid, ask, hasBid, hasAsk, time.Now().UnixNano())
}

func (e *Engine) depth(book *orderbook.Book) marketdatav1.Depth {
	toLevels := func(pqs []orderbook.PriceQuantity) []marketdatav1.DepthLevel {
		levels := make([]marketdatav1.DepthLevel, 0, len(pqs))
		for _, pq := range pqs {
			levels = append(levels, marketdatav1.DepthLevel{Price: pq.Price, Quantity: pq.Quantity})
		}
		return levels
	}

	return marketdatav1.Depth{
		Type:      "l2_update",
		Symbol:    book.Symbol(),
		Bids:      toLevels(book.TopLevels(orderbookv1.SideBuy, e.depthLevels)),
		Asks:      toLevels(book.TopLevels(orderbookv1.SideSell, e.depthLevels)),
		Timestamp: time.Now().UnixNano(),
	}
}

// ArrivalSequence returns the last assigned arrival sequence number.
func (e *Engine) ArrivalSequence() int64 {
	return e.arrivalSeq
}

// TradeSequence returns the last assigned trade ID.
func (e *Engine) TradeSequence() int64 {
	return e.tradeSeq
}

// SeedSequences primes the arrival and trade counters, used when restoring
// from a snapshot so IDs keep increasing across restarts.
func (e *Engine) SeedSequences(arrival, trade int64) {
	if arrival > e.arrivalSeq {
		e.arrivalSeq = arrival
	}
	if trade > e.tradeSeq {
		e.tradeSeq = trade
	}
}

// RestoreBook rebuilds a symbol's book from snapshot orders and reindexes
// them for cancellation.
func (e *Engine) RestoreBook(symbol string, bookOrders []snapshotv1.BookOrder) error {
	book := e.Book(symbol)
	if err := book.Restore(bookOrders); err != nil {
		return err
	}
	for _, bo := range bookOrders {
		e.symbols[bo.OrderID] = symbol
	}
	return nil
}
