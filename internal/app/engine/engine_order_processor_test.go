package engine

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/golang/mock/gomock"
	"github.com/segmentio/kafka-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	orderbookv1 "github.com/Praneshrajan137/matching-engine-sub002/internal/domain/orderbook/v1"
	snapshotv1 "github.com/Praneshrajan137/matching-engine-sub002/internal/domain/snapshot/v1"
)

// Test helper to capture what happens in runOrderProcessor
type orderProcessorTestHelper struct {
	messages []kafka.Message
	mu       sync.Mutex
}

func (h *orderProcessorTestHelper) addMessage(msg kafka.Message) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.messages = append(h.messages, msg)
}

func (h *orderProcessorTestHelper) getCount() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.messages)
}

func TestEngine_RunOrderProcessor_Basic(t *testing.T) {
	testCases := []struct {
		name             string
		setupMocks       func(*testFixture, *orderProcessorTestHelper, context.CancelFunc)
		expectedMessages int
		expectedOffset   int64
		expectedResting  int
		waitTime         time.Duration
	}{
		{
			name: "process single limit order",
			setupMocks: func(f *testFixture, helper *orderProcessorTestHelper, cancel context.CancelFunc) {
				f.expectCleanInit()

				f.mockOrderReader.EXPECT().
					SetOffset(int64(-1)).
					Return(nil).
					Times(1)

				msg := kafka.Message{Offset: 1}
				order := createTestOrderRequest("bid-1", orderbookv1.OrderTypeLimit, orderbookv1.SideBuy, 10.0, 50000.0, 1)

				f.mockOrderReader.EXPECT().
					ReadMessage(gomock.Any()).
					DoAndReturn(func(ctx context.Context) (kafka.Message, *orderbookv1.PlaceOrderRequest, error) {
						helper.addMessage(msg)
						return msg, order, nil
					}).
					Times(1)

				f.mockOrderReader.EXPECT().
					CommitMessages(gomock.Any(), msg).
					Return(nil).
					Times(1)

				f.mockMarketData.EXPECT().PublishBBO(gomock.Any(), gomock.Any()).Return(nil).Times(1)
				f.mockMarketData.EXPECT().PublishDepth(gomock.Any(), gomock.Any()).Return(nil).Times(1)

				// Second call blocks until cancellation
				f.mockOrderReader.EXPECT().
					ReadMessage(gomock.Any()).
					DoAndReturn(func(ctx context.Context) (kafka.Message, *orderbookv1.PlaceOrderRequest, error) {
						<-ctx.Done()
						return kafka.Message{}, nil, ctx.Err()
					}).
					MaxTimes(1)

				f.mockOrderReader.EXPECT().
					Close().
					Times(1)

				go func() {
					time.Sleep(50 * time.Millisecond)
					cancel()
				}()
			},
			expectedMessages: 1,
			expectedOffset:   1,
			expectedResting:  1,
			waitTime:         200 * time.Millisecond,
		},
		{
			name: "snapshot at offset zero resumes at offset one",
			setupMocks: func(f *testFixture, helper *orderProcessorTestHelper, cancel context.CancelFunc) {
				snapshot := &snapshotv1.Snapshot{
					OrderOffset: 0,
					OrderBookSnapshot: snapshotv1.OrderBookSnapshot{
						Orders: []snapshotv1.BookOrder{
							{OrderID: "resting-1", Symbol: "BTC-USD", Side: "buy", Price: 50000, Quantity: 1, Remaining: 1, Sequence: 1},
						},
						ArrivalSeq: 1,
					},
				}
				f.mockSnapshotStore.EXPECT().
					LoadStore(gomock.Any()).
					Return(snapshot, nil).
					Times(1)
				f.mockLedger.EXPECT().
					LastSequence().
					Return(int64(0), nil).
					Times(1)

				// The order at offset 0 is already inside the snapshot, so
				// reading resumes at 1 rather than replaying it.
				f.mockOrderReader.EXPECT().
					SetOffset(int64(1)).
					Return(nil).
					Times(1)

				f.mockOrderReader.EXPECT().
					ReadMessage(gomock.Any()).
					DoAndReturn(func(ctx context.Context) (kafka.Message, *orderbookv1.PlaceOrderRequest, error) {
						<-ctx.Done()
						return kafka.Message{}, nil, ctx.Err()
					}).
					MaxTimes(1)

				f.mockOrderReader.EXPECT().
					Close().
					Times(1)

				go func() {
					time.Sleep(50 * time.Millisecond)
					cancel()
				}()
			},
			expectedMessages: 0,
			expectedOffset:   0,
			expectedResting:  1,
			waitTime:         200 * time.Millisecond,
		},
		{
			name: "read error backs off and keeps running",
			setupMocks: func(f *testFixture, helper *orderProcessorTestHelper, cancel context.CancelFunc) {
				f.expectCleanInit()

				f.mockOrderReader.EXPECT().
					SetOffset(int64(-1)).
					Return(nil).
					Times(1)

				f.mockOrderReader.EXPECT().
					ReadMessage(gomock.Any()).
					Return(kafka.Message{}, nil, errors.New("broker unavailable")).
					MinTimes(1)

				f.mockOrderReader.EXPECT().
					Close().
					Times(1)

				go func() {
					time.Sleep(50 * time.Millisecond)
					cancel()
				}()
			},
			expectedMessages: 0,
			expectedOffset:   -1,
			expectedResting:  0,
			waitTime:         300 * time.Millisecond,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			fixture := setupTestFixture(t)
			defer fixture.teardown()

			helper := &orderProcessorTestHelper{}

			ctx, cancel := context.WithCancel(context.Background())
			defer cancel()

			tc.setupMocks(fixture, helper, cancel)

			engine := createTestEngine(fixture)

			err := engine.Start(ctx)
			assert.NoError(t, err)

			time.Sleep(tc.waitTime)

			stopCtx, stopCancel := context.WithTimeout(context.Background(), time.Second)
			defer stopCancel()
			assert.NoError(t, engine.Stop(stopCtx))

			assert.Equal(t, tc.expectedMessages, helper.getCount())
			assert.Equal(t, tc.expectedOffset, engine.getOrderOffset())
			assert.Equal(t, tc.expectedResting, fixture.matcher.Book("BTC-USD").Len())
		})
	}
}

// A busy order stream with an aggressive snapshot schedule: the snapshot
// manager only signals, the order processor does the snapshotting between
// submissions, so the matcher is never read and written from two
// goroutines at once.
func TestEngine_RunOrderProcessor_SnapshotsBetweenOrders(t *testing.T) {
	fixture := setupTestFixture(t)
	defer fixture.teardown()

	fixture.expectCleanInit()

	fixture.mockOrderReader.EXPECT().
		SetOffset(int64(-1)).
		Return(nil).
		Times(1)

	var offset int64
	fixture.mockOrderReader.EXPECT().
		ReadMessage(gomock.Any()).
		DoAndReturn(func(ctx context.Context) (kafka.Message, *orderbookv1.PlaceOrderRequest, error) {
			select {
			case <-ctx.Done():
				return kafka.Message{}, nil, ctx.Err()
			case <-time.After(time.Millisecond):
			}
			offset++
			order := createTestOrderRequest(
				fmt.Sprintf("bid-%d", offset),
				orderbookv1.OrderTypeLimit,
				orderbookv1.SideBuy,
				1.0,
				50000-float64(offset),
				offset,
			)
			return kafka.Message{Offset: offset}, order, nil
		}).
		AnyTimes()
	fixture.mockOrderReader.EXPECT().CommitMessages(gomock.Any(), gomock.Any()).Return(nil).AnyTimes()
	fixture.mockOrderReader.EXPECT().Close().Times(1)

	fixture.mockMarketData.EXPECT().PublishBBO(gomock.Any(), gomock.Any()).Return(nil).AnyTimes()
	fixture.mockMarketData.EXPECT().PublishDepth(gomock.Any(), gomock.Any()).Return(nil).AnyTimes()

	stored := make(chan *snapshotv1.Snapshot, 1)
	fixture.mockSnapshotStore.EXPECT().
		Store(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, snapshot *snapshotv1.Snapshot) error {
			select {
			case stored <- snapshot:
			default:
			}
			return nil
		}).
		AnyTimes()

	engine := createTestEngineWithOptions(fixture, &Options{
		SnapshotInterval:    time.Millisecond,
		SnapshotOffsetDelta: 1,
	})

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	require.NoError(t, engine.Start(ctx))

	select {
	case snapshot := <-stored:
		assert.GreaterOrEqual(t, snapshot.OrderOffset, int64(1))
		assert.NotEmpty(t, snapshot.OrderBookSnapshot.Orders)
	case <-time.After(2 * time.Second):
		t.Fatal("no snapshot was stored")
	}

	cancel()
	stopCtx, stopCancel := context.WithTimeout(context.Background(), time.Second)
	defer stopCancel()
	assert.NoError(t, engine.Stop(stopCtx))
}
