package orderbookv1

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Helper function to create a resting limit order
func createTestOrder(id string, side Side, quantity float64, seq int64) *Order {
	order := NewOrder(id, "BTC-USD", OrderTypeLimit, side, quantity, 100.0)
	order.Sequence = seq
	return order
}

func TestNewLevel(t *testing.T) {
	level := NewLevel(100.0)

	assert.NotNil(t, level)
	assert.Equal(t, 100.0, level.Price)
	assert.Equal(t, 0.0, level.Volume())
	assert.True(t, level.IsEmpty())
}

func TestLevel_Append(t *testing.T) {
	level := NewLevel(100.0)

	t.Run("Append valid order", func(t *testing.T) {
		order := createTestOrder("o1", SideBuy, 10.0, 1)
		err := level.Append(order)

		require.NoError(t, err)
		assert.Equal(t, 1, level.Len())
		assert.Equal(t, 10.0, level.Volume())
		assert.True(t, order.Resting())
		assert.False(t, level.IsEmpty())
	})

	t.Run("Append nil order", func(t *testing.T) {
		err := level.Append(nil)
		assert.ErrorIs(t, err, ErrNilOrder)
	})

	t.Run("Append order without remaining quantity", func(t *testing.T) {
		order := createTestOrder("o2", SideBuy, 10.0, 2)
		order.Remaining = 0
		err := level.Append(order)
		assert.ErrorIs(t, err, ErrInvalidSize)
	})

	t.Run("Volume tracks remaining not original quantity", func(t *testing.T) {
		partial := createTestOrder("o3", SideBuy, 10.0, 3)
		partial.Remaining = 4.0

		before := level.Volume()
		require.NoError(t, level.Append(partial))
		assert.Equal(t, before+4.0, level.Volume())
	})
}

func TestLevel_FIFO(t *testing.T) {
	level := NewLevel(100.0)

	first := createTestOrder("first", SideSell, 1.0, 1)
	second := createTestOrder("second", SideSell, 2.0, 2)
	third := createTestOrder("third", SideSell, 3.0, 3)

	require.NoError(t, level.Append(first))
	require.NoError(t, level.Append(second))
	require.NoError(t, level.Append(third))

	assert.Equal(t, first, level.Front())

	orders := level.Orders()
	require.Len(t, orders, 3)
	assert.Equal(t, []*Order{first, second, third}, orders)

	// Removing from the middle keeps the rest in arrival order.
	require.NoError(t, level.Remove(second))
	assert.Equal(t, []*Order{first, third}, level.Orders())
	assert.Equal(t, 4.0, level.Volume())

	require.NoError(t, level.Remove(first))
	assert.Equal(t, third, level.Front())
}

func TestLevel_Remove(t *testing.T) {
	level := NewLevel(100.0)

	t.Run("Remove nil order", func(t *testing.T) {
		assert.ErrorIs(t, level.Remove(nil), ErrNilOrder)
	})

	t.Run("Remove order not in level", func(t *testing.T) {
		stranger := createTestOrder("stranger", SideBuy, 1.0, 1)
		assert.ErrorIs(t, level.Remove(stranger), ErrOrderNotFound)
	})

	t.Run("Remove detaches the order", func(t *testing.T) {
		order := createTestOrder("o1", SideBuy, 5.0, 1)
		require.NoError(t, level.Append(order))
		require.NoError(t, level.Remove(order))

		assert.False(t, order.Resting())
		assert.True(t, level.IsEmpty())
		assert.Equal(t, 0.0, level.Volume())

		// Removing twice fails
		assert.ErrorIs(t, level.Remove(order), ErrOrderNotFound)
	})
}

func TestLevel_Reduce(t *testing.T) {
	level := NewLevel(100.0)
	order := createTestOrder("o1", SideSell, 10.0, 1)
	require.NoError(t, level.Append(order))

	order.Remaining -= 4.0
	level.Reduce(4.0)

	assert.Equal(t, 6.0, level.Volume())
	require.NoError(t, level.Validate())
}

func TestLevel_Validate(t *testing.T) {
	t.Run("valid level", func(t *testing.T) {
		level := NewLevel(100.0)
		require.NoError(t, level.Append(createTestOrder("o1", SideBuy, 1.0, 1)))
		require.NoError(t, level.Append(createTestOrder("o2", SideBuy, 2.0, 2)))
		assert.NoError(t, level.Validate())
	})

	t.Run("volume drift detected", func(t *testing.T) {
		level := NewLevel(100.0)
		require.NoError(t, level.Append(createTestOrder("o1", SideBuy, 1.0, 1)))
		level.Reduce(0.5) // cache decremented without touching the order
		assert.Error(t, level.Validate())
	})

	t.Run("sequence order violation detected", func(t *testing.T) {
		level := NewLevel(100.0)
		require.NoError(t, level.Append(createTestOrder("late", SideBuy, 1.0, 5)))
		require.NoError(t, level.Append(createTestOrder("early", SideBuy, 1.0, 2)))
		assert.Error(t, level.Validate())
	})
}

func TestPlaceOrderRequest_Validate(t *testing.T) {
	testCases := []struct {
		name    string
		request PlaceOrderRequest
		wantErr bool
	}{
		{
			name:    "valid limit order",
			request: PlaceOrderRequest{OrderID: "o1", Symbol: "BTC-USD", Type: OrderTypeLimit, Side: SideBuy, Quantity: 1, Price: 100},
			wantErr: false,
		},
		{
			name:    "valid market order without price",
			request: PlaceOrderRequest{OrderID: "o2", Symbol: "BTC-USD", Type: OrderTypeMarket, Side: SideSell, Quantity: 1},
			wantErr: false,
		},
		{
			name:    "unknown order type",
			request: PlaceOrderRequest{OrderID: "o3", Symbol: "BTC-USD", Type: "stop", Side: SideBuy, Quantity: 1, Price: 100},
			wantErr: true,
		},
		{
			name:    "unknown side",
			request: PlaceOrderRequest{OrderID: "o4", Symbol: "BTC-USD", Type: OrderTypeLimit, Side: "hold", Quantity: 1, Price: 100},
			wantErr: true,
		},
		{
			name:    "non-positive quantity",
			request: PlaceOrderRequest{OrderID: "o5", Symbol: "BTC-USD", Type: OrderTypeLimit, Side: SideBuy, Quantity: 0, Price: 100},
			wantErr: true,
		},
		{
			name:    "limit order without price",
			request: PlaceOrderRequest{OrderID: "o6", Symbol: "BTC-USD", Type: OrderTypeLimit, Side: SideBuy, Quantity: 1},
			wantErr: true,
		},
		{
			name:    "ioc order without price",
			request: PlaceOrderRequest{OrderID: "o7", Symbol: "BTC-USD", Type: OrderTypeIOC, Side: SideBuy, Quantity: 1},
			wantErr: true,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			err := tc.request.Validate()
			if tc.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestPlaceOrderRequest_ToOrder(t *testing.T) {
	t.Run("market order price is zeroed", func(t *testing.T) {
		request := PlaceOrderRequest{OrderID: "m1", Symbol: "BTC-USD", Type: OrderTypeMarket, Side: SideBuy, Quantity: 2, Price: 123}
		order := request.ToOrder()

		assert.Equal(t, 0.0, order.Price)
		assert.Equal(t, 2.0, order.Remaining)
	})

	t.Run("missing ID gets generated", func(t *testing.T) {
		request := PlaceOrderRequest{Symbol: "BTC-USD", Type: OrderTypeLimit, Side: SideBuy, Quantity: 1, Price: 100}
		order := request.ToOrder()
		assert.NotEmpty(t, order.ID)
	})
}
