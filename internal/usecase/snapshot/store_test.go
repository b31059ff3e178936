package snapshot

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/golang/mock/gomock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	snapshotv1 "github.com/Praneshrajan137/matching-engine-sub002/internal/domain/snapshot/v1"
	"github.com/Praneshrajan137/matching-engine-sub002/pkg/logger"
	redismock "github.com/Praneshrajan137/matching-engine-sub002/pkg/redis/mock"
)

func setupStore(t *testing.T) (*Store, *redismock.MockClient) {
	t.Helper()
	ctrl := gomock.NewController(t)
	t.Cleanup(ctrl.Finish)

	log, err := logger.NewLogger()
	require.NoError(t, err)

	client := redismock.NewMockClient(ctrl)
	return NewStore(client, "book_snapshot:", "BTC-USD", log), client
}

func testSnapshot() *snapshotv1.Snapshot {
	return &snapshotv1.Snapshot{
		OrderOffset: 42,
		OrderBookSnapshot: snapshotv1.OrderBookSnapshot{
			Orders: []snapshotv1.BookOrder{
				{OrderID: "bid-1", Symbol: "BTC-USD", Side: "buy", Price: 100, Quantity: 1, Remaining: 1, Sequence: 3},
			},
			ArrivalSeq:    3,
			TradeSequence: 7,
		},
	}
}

func TestStore_Store(t *testing.T) {
	store, client := setupStore(t)
	snapshot := testSnapshot()

	client.EXPECT().
		Set(gomock.Any(), "book_snapshot:BTC-USD", gomock.Any(), time.Duration(0)).
		DoAndReturn(func(_ context.Context, _ string, value any, _ time.Duration) error {
			var decoded snapshotv1.Snapshot
			require.NoError(t, json.Unmarshal(value.([]byte), &decoded))
			assert.Equal(t, snapshot, &decoded)
			return nil
		}).
		Times(1)

	assert.NoError(t, store.Store(context.Background(), snapshot))
}

func TestStore_StoreError(t *testing.T) {
	store, client := setupStore(t)

	client.EXPECT().
		Set(gomock.Any(), "book_snapshot:BTC-USD", gomock.Any(), time.Duration(0)).
		Return(errors.New("connection refused")).
		Times(1)

	assert.Error(t, store.Store(context.Background(), testSnapshot()))
}

func TestStore_LoadStore(t *testing.T) {
	store, client := setupStore(t)
	snapshot := testSnapshot()

	buf, err := json.Marshal(snapshot)
	require.NoError(t, err)

	client.EXPECT().
		Get(gomock.Any(), "book_snapshot:BTC-USD").
		Return(string(buf), nil).
		Times(1)

	loaded, err := store.LoadStore(context.Background())
	require.NoError(t, err)
	assert.Equal(t, snapshot, loaded)
}

func TestStore_LoadStoreMissing(t *testing.T) {
	store, client := setupStore(t)

	client.EXPECT().
		Get(gomock.Any(), "book_snapshot:BTC-USD").
		Return("", nil).
		Times(1)

	loaded, err := store.LoadStore(context.Background())
	require.NoError(t, err)
	assert.Nil(t, loaded)
}

func TestStore_LoadStoreCorrupt(t *testing.T) {
	store, client := setupStore(t)

	client.EXPECT().
		Get(gomock.Any(), "book_snapshot:BTC-USD").
		Return("{not-json", nil).
		Times(1)

	loaded, err := store.LoadStore(context.Background())
	assert.Error(t, err)
	assert.Nil(t, loaded)
}
