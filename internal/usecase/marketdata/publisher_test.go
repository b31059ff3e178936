package marketdata

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/golang/mock/gomock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	marketdatav1 "github.com/Praneshrajan137/matching-engine-sub002/internal/domain/marketdata/v1"
	orderbookv1 "github.com/Praneshrajan137/matching-engine-sub002/internal/domain/orderbook/v1"
	"github.com/Praneshrajan137/matching-engine-sub002/pkg/config"
	"github.com/Praneshrajan137/matching-engine-sub002/pkg/logger"
	redismock "github.com/Praneshrajan137/matching-engine-sub002/pkg/redis/mock"
)

func setupPublisher(t *testing.T) (*Publisher, *redismock.MockClient) {
	t.Helper()
	ctrl := gomock.NewController(t)
	t.Cleanup(ctrl.Finish)

	log, err := logger.NewLogger()
	require.NoError(t, err)

	client := redismock.NewMockClient(ctrl)
	cfg := config.RedisConfig{
		TradeChannel: "trade_events",
		BBOChannel:   "bbo_updates",
		DepthChannel: "order_book_updates",
	}
	return NewPublisher(client, cfg, log), client
}

func TestPublisher_PublishTrades(t *testing.T) {
	publisher, client := setupPublisher(t)

	trades := []orderbookv1.Trade{
		{ID: 1, Symbol: "BTC-USD", MakerOrderID: "m1", TakerOrderID: "t1", Price: 100, Quantity: 0.5, AggressorSide: orderbookv1.SideBuy},
		{ID: 2, Symbol: "BTC-USD", MakerOrderID: "m2", TakerOrderID: "t1", Price: 101, Quantity: 0.3, AggressorSide: orderbookv1.SideBuy},
	}

	var published []int64
	client.EXPECT().
		Publish(gomock.Any(), "trade_events", gomock.Any()).
		DoAndReturn(func(_ context.Context, _ string, message any) (int64, error) {
			var trade orderbookv1.Trade
			require.NoError(t, json.Unmarshal(message.([]byte), &trade))
			published = append(published, trade.ID)
			return 1, nil
		}).
		Times(2)

	require.NoError(t, publisher.PublishTrades(context.Background(), trades))

	// One message per trade, in execution order.
	assert.Equal(t, []int64{1, 2}, published)
}

func TestPublisher_PublishBBO(t *testing.T) {
	publisher, client := setupPublisher(t)

	bid := 100.0
	bbo := marketdatav1.BBO{Type: "bbo", Symbol: "BTC-USD", Bid: &bid, Ask: nil, Timestamp: 1}

	client.EXPECT().
		Publish(gomock.Any(), "bbo_updates", gomock.Any()).
		DoAndReturn(func(_ context.Context, _ string, message any) (int64, error) {
			var decoded marketdatav1.BBO
			require.NoError(t, json.Unmarshal(message.([]byte), &decoded))
			assert.Equal(t, "bbo", decoded.Type)
			require.NotNil(t, decoded.Bid)
			assert.Equal(t, 100.0, *decoded.Bid)
			assert.Nil(t, decoded.Ask)
			return 0, nil // no subscribers is fine
		}).
		Times(1)

	assert.NoError(t, publisher.PublishBBO(context.Background(), bbo))
}

func TestPublisher_PublishDepth(t *testing.T) {
	publisher, client := setupPublisher(t)

	depth := marketdatav1.Depth{
		Type:   "l2_update",
		Symbol: "BTC-USD",
		Bids:   []marketdatav1.DepthLevel{{Price: 100, Quantity: 1.5}},
		Asks:   []marketdatav1.DepthLevel{{Price: 101, Quantity: 2}},
	}

	client.EXPECT().
		Publish(gomock.Any(), "order_book_updates", gomock.Any()).
		DoAndReturn(func(_ context.Context, _ string, message any) (int64, error) {
			var decoded marketdatav1.Depth
			require.NoError(t, json.Unmarshal(message.([]byte), &decoded))
			assert.Equal(t, depth.Bids, decoded.Bids)
			assert.Equal(t, depth.Asks, decoded.Asks)
			return 1, nil
		}).
		Times(1)

	assert.NoError(t, publisher.PublishDepth(context.Background(), depth))
}

func TestPublisher_PublishError(t *testing.T) {
	publisher, client := setupPublisher(t)

	client.EXPECT().
		Publish(gomock.Any(), "bbo_updates", gomock.Any()).
		Return(int64(0), errors.New("connection reset")).
		Times(1)

	assert.Error(t, publisher.PublishBBO(context.Background(), marketdatav1.BBO{Type: "bbo", Symbol: "BTC-USD"}))
}
