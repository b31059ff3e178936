package orderbook

import (
	"testing"

	orderbookv1 "github.com/Praneshrajan137/matching-engine-sub002/internal/domain/orderbook/v1"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func restingOrder(id string, side orderbookv1.Side, quantity, price float64, seq int64) *orderbookv1.Order {
	order := orderbookv1.NewOrder(id, "BTC-USD", orderbookv1.OrderTypeLimit, side, quantity, price)
	order.Sequence = seq
	return order
}

func TestBook_Add(t *testing.T) {
	book := NewBook("BTC-USD")

	t.Run("adds resting order", func(t *testing.T) {
		require.NoError(t, book.Add(restingOrder("bid-1", orderbookv1.SideBuy, 1.0, 100, 1)))

		bid, ok := book.BestBid()
		assert.True(t, ok)
		assert.Equal(t, 100.0, bid)
		assert.Equal(t, 1, book.Len())
	})

	t.Run("rejects nil order", func(t *testing.T) {
		assert.ErrorIs(t, book.Add(nil), orderbookv1.ErrNilOrder)
	})

	t.Run("rejects non-positive price", func(t *testing.T) {
		err := book.Add(restingOrder("bad-price", orderbookv1.SideBuy, 1.0, 0, 2))
		assert.ErrorIs(t, err, orderbookv1.ErrInvalidPrice)
	})

	t.Run("rejects duplicate ID", func(t *testing.T) {
		err := book.Add(restingOrder("bid-1", orderbookv1.SideBuy, 1.0, 99, 3))
		assert.Error(t, err)
	})
}

func TestBook_LadderOrdering(t *testing.T) {
	book := NewBook("BTC-USD")

	require.NoError(t, book.Add(restingOrder("bid-98", orderbookv1.SideBuy, 1.0, 98, 1)))
	require.NoError(t, book.Add(restingOrder("bid-100", orderbookv1.SideBuy, 1.0, 100, 2)))
	require.NoError(t, book.Add(restingOrder("bid-99", orderbookv1.SideBuy, 1.0, 99, 3)))
	require.NoError(t, book.Add(restingOrder("ask-103", orderbookv1.SideSell, 1.0, 103, 4)))
	require.NoError(t, book.Add(restingOrder("ask-101", orderbookv1.SideSell, 1.0, 101, 5)))
	require.NoError(t, book.Add(restingOrder("ask-102", orderbookv1.SideSell, 1.0, 102, 6)))

	bid, _ := book.BestBid()
	ask, _ := book.BestAsk()
	assert.Equal(t, 100.0, bid)
	assert.Equal(t, 101.0, ask)

	bids := book.TopLevels(orderbookv1.SideBuy, 10)
	require.Len(t, bids, 3)
	assert.Equal(t, []float64{100, 99, 98}, []float64{bids[0].Price, bids[1].Price, bids[2].Price})

	asks := book.TopLevels(orderbookv1.SideSell, 2)
	require.Len(t, asks, 2)
	assert.Equal(t, []float64{101, 102}, []float64{asks[0].Price, asks[1].Price})

	require.NoError(t, book.Validate())
}

func TestBook_Remove(t *testing.T) {
	book := NewBook("BTC-USD")
	require.NoError(t, book.Add(restingOrder("bid-1", orderbookv1.SideBuy, 1.0, 100, 1)))

	assert.True(t, book.Remove("bid-1"))
	assert.False(t, book.Remove("bid-1"))
	assert.False(t, book.Remove("unknown"))

	_, ok := book.BestBid()
	assert.False(t, ok)
	assert.Equal(t, 0, book.Len())
	require.NoError(t, book.Validate())
}

func TestBook_RemoveKeepsLevelWithOtherOrders(t *testing.T) {
	book := NewBook("BTC-USD")
	require.NoError(t, book.Add(restingOrder("a", orderbookv1.SideSell, 1.0, 100, 1)))
	require.NoError(t, book.Add(restingOrder("b", orderbookv1.SideSell, 2.0, 100, 2)))

	assert.True(t, book.Remove("a"))

	assert.Equal(t, 2.0, book.QuantityAt(orderbookv1.SideSell, 100))
	level := book.BestLevel(orderbookv1.SideSell)
	require.NotNil(t, level)
	assert.Equal(t, "b", level.Front().ID)
}

func TestBook_ApplyFill(t *testing.T) {
	book := NewBook("BTC-USD")
	order := restingOrder("ask-1", orderbookv1.SideSell, 2.0, 100, 1)
	require.NoError(t, book.Add(order))

	t.Run("partial fill keeps the order resting", func(t *testing.T) {
		book.ApplyFill(order, 0.5)

		assert.Equal(t, 1.5, order.Remaining)
		assert.Equal(t, 1.5, book.QuantityAt(orderbookv1.SideSell, 100))
		assert.NotNil(t, book.Order("ask-1"))
		require.NoError(t, book.Validate())
	})

	t.Run("full fill removes order and empty level", func(t *testing.T) {
		book.ApplyFill(order, 1.5)

		assert.Nil(t, book.Order("ask-1"))
		_, ok := book.BestAsk()
		assert.False(t, ok)
		require.NoError(t, book.Validate())
	})

	t.Run("over-fill panics", func(t *testing.T) {
		fresh := restingOrder("ask-2", orderbookv1.SideSell, 1.0, 100, 2)
		require.NoError(t, book.Add(fresh))
		assert.Panics(t, func() { book.ApplyFill(fresh, 2.0) })
	})
}

func TestBook_LiquidityThrough(t *testing.T) {
	book := NewBook("BTC-USD")
	require.NoError(t, book.Add(restingOrder("ask-100", orderbookv1.SideSell, 0.5, 100, 1)))
	require.NoError(t, book.Add(restingOrder("ask-101", orderbookv1.SideSell, 1.0, 101, 2)))
	require.NoError(t, book.Add(restingOrder("ask-105", orderbookv1.SideSell, 9.0, 105, 3)))
	require.NoError(t, book.Add(restingOrder("bid-99", orderbookv1.SideBuy, 2.0, 99, 4)))
	require.NoError(t, book.Add(restingOrder("bid-95", orderbookv1.SideBuy, 3.0, 95, 5)))

	// Ask-side liquidity reachable by a buy limited to the given price.
	assert.Equal(t, 0.0, book.LiquidityThrough(orderbookv1.SideSell, 99))
	assert.Equal(t, 0.5, book.LiquidityThrough(orderbookv1.SideSell, 100))
	assert.Equal(t, 1.5, book.LiquidityThrough(orderbookv1.SideSell, 104))
	assert.Equal(t, 10.5, book.LiquidityThrough(orderbookv1.SideSell, 105))

	// Bid-side liquidity reachable by a sell limited to the given price.
	assert.Equal(t, 2.0, book.LiquidityThrough(orderbookv1.SideBuy, 99))
	assert.Equal(t, 5.0, book.LiquidityThrough(orderbookv1.SideBuy, 95))
	assert.Equal(t, 0.0, book.LiquidityThrough(orderbookv1.SideBuy, 100))

	// Scans never mutate the book.
	require.NoError(t, book.Validate())
	assert.Equal(t, 5, book.Len())
}

func TestBook_TotalVolumes(t *testing.T) {
	book := NewBook("BTC-USD")
	require.NoError(t, book.Add(restingOrder("bid-1", orderbookv1.SideBuy, 1.0, 99, 1)))
	require.NoError(t, book.Add(restingOrder("bid-2", orderbookv1.SideBuy, 2.0, 98, 2)))
	require.NoError(t, book.Add(restingOrder("ask-1", orderbookv1.SideSell, 4.0, 101, 3)))

	assert.Equal(t, 3.0, book.BidTotalVolume())
	assert.Equal(t, 4.0, book.AskTotalVolume())
}

func TestBook_SnapshotRestore(t *testing.T) {
	book := NewBook("BTC-USD")
	require.NoError(t, book.Add(restingOrder("bid-1", orderbookv1.SideBuy, 1.0, 99, 1)))
	require.NoError(t, book.Add(restingOrder("ask-1", orderbookv1.SideSell, 2.0, 101, 2)))
	require.NoError(t, book.Add(restingOrder("ask-2", orderbookv1.SideSell, 3.0, 101, 3)))

	snapshot := book.Snapshot()
	require.Len(t, snapshot, 3)

	restored := NewBook("BTC-USD")
	require.NoError(t, restored.Restore(snapshot))

	assert.Equal(t, book.Len(), restored.Len())
	assert.Equal(t, book.BidTotalVolume(), restored.BidTotalVolume())
	assert.Equal(t, book.AskTotalVolume(), restored.AskTotalVolume())

	// FIFO order at the shared level survives the round trip.
	level := restored.BestLevel(orderbookv1.SideSell)
	require.NotNil(t, level)
	assert.Equal(t, "ask-1", level.Front().ID)

	require.NoError(t, restored.Validate())
}

func TestBook_ValidateDetectsCrossedBook(t *testing.T) {
	book := NewBook("BTC-USD")
	require.NoError(t, book.Add(restingOrder("bid-1", orderbookv1.SideBuy, 1.0, 102, 1)))
	require.NoError(t, book.Add(restingOrder("ask-1", orderbookv1.SideSell, 1.0, 101, 2)))

	assert.Error(t, book.Validate())
}
