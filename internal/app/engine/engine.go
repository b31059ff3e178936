package engine

import (
	"context"
	"sync"
	"time"

	marketdatav1 "github.com/Praneshrajan137/matching-engine-sub002/internal/domain/marketdata/v1"
	matchpublisherv1 "github.com/Praneshrajan137/matching-engine-sub002/internal/domain/match-publisher/v1"
	orderreaderv1 "github.com/Praneshrajan137/matching-engine-sub002/internal/domain/order-reader/v1"
	orderbookv1 "github.com/Praneshrajan137/matching-engine-sub002/internal/domain/orderbook/v1"
	snapshotv1 "github.com/Praneshrajan137/matching-engine-sub002/internal/domain/snapshot/v1"
	tradelogv1 "github.com/Praneshrajan137/matching-engine-sub002/internal/domain/tradelog/v1"
	"github.com/Praneshrajan137/matching-engine-sub002/internal/usecase/matching"
	"github.com/Praneshrajan137/matching-engine-sub002/pkg/config"
	"github.com/Praneshrajan137/matching-engine-sub002/pkg/logger"
	"go.uber.org/zap/zapcore"
)

// Engine drives the matching core: it reads orders from the stream, submits
// them to the matcher, records executions in the trade ledger, publishes them
// to the matches topic and fans market data out over Redis. All submissions
// for the configured symbol pass through the single order processor
// goroutine, which is what serializes access to the lock-free matcher.
type Engine struct {
	matcher        *matching.Engine
	orderReader    orderreaderv1.OrderReader
	snapshotStore  snapshotv1.Store
	matchPublisher matchpublisherv1.MatchPublisher
	marketData     marketdatav1.Publisher
	ledger         tradelogv1.Ledger
	logger         *logger.Logger
	config         *config.Config

	mu                 sync.RWMutex
	orderOffset        int64
	lastSnapshotOffset int64

	// The snapshot manager only signals here; the order processor does the
	// actual snapshotting so the matcher is never touched concurrently.
	snapshotRequests chan struct{}

	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup

	snapshotInterval    time.Duration
	snapshotOffsetDelta int64

	totalTrades int64
	tradesMutex sync.RWMutex
}

// NewEngine creates a new instance of Engine with the provided dependencies.
func NewEngine(
	matcher *matching.Engine,
	orderReader orderreaderv1.OrderReader,
	snapshotStore snapshotv1.Store,
	matchPublisher matchpublisherv1.MatchPublisher,
	marketData marketdatav1.Publisher,
	ledger tradelogv1.Ledger,
	logger *logger.Logger,
	config *config.Config,
) *Engine {
	return NewEngineWithOptions(matcher, orderReader, snapshotStore, matchPublisher, marketData, ledger, logger, config, DefaultEngineOptions())
}

// NewEngineWithOptions creates a new engine with custom options
func NewEngineWithOptions(
	matcher *matching.Engine,
	orderReader orderreaderv1.OrderReader,
	snapshotStore snapshotv1.Store,
	matchPublisher matchpublisherv1.MatchPublisher,
	marketData marketdatav1.Publisher,
	ledger tradelogv1.Ledger,
	logger *logger.Logger,
	config *config.Config,
	options *Options,
) *Engine {
	options = options.normalized()
	e := &Engine{
		matcher:        matcher,
		orderReader:    orderReader,
		snapshotStore:  snapshotStore,
		matchPublisher: matchPublisher,
		marketData:     marketData,
		ledger:         ledger,
		logger:         logger,
		config:         config,

		snapshotInterval:    options.SnapshotInterval,
		snapshotOffsetDelta: options.SnapshotOffsetDelta,
		orderOffset:         -1,
		snapshotRequests:    make(chan struct{}, 1),
	}

	// Load snapshot during initialization
	if err := e.loadSnapshot(context.Background()); err != nil {
		e.logger.GetZap().Fatal("Failed to load snapshot", zapcore.Field{
			Key:       "error",
			Interface: err,
		})
	}

	// The ledger may be ahead of the snapshot; trade IDs must keep
	// increasing either way.
	if err := e.seedTradeSequence(); err != nil {
		e.logger.GetZap().Fatal("Failed to read ledger sequence", zapcore.Field{
			Key:       "error",
			Interface: err,
		})
	}

	return e
}

// Start initializes the engine and starts processing routines.
func (e *Engine) Start(ctx context.Context) error {
	e.ctx, e.cancel = context.WithCancel(ctx)

	e.wg.Add(2)
	go e.runOrderProcessor()
	go e.runSnapshotManager()

	e.logger.Info("Engine started", logger.Field{
		Key:   "symbol",
		Value: e.config.Symbol,
	})

	return nil
}

// Stop gracefully shuts down the engine
func (e *Engine) Stop(ctx context.Context) error {
	if e.cancel != nil {
		e.cancel()
	}

	// Wait for goroutines to finish with timeout
	done := make(chan struct{})
	go func() {
		e.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		e.logger.Info("Engine stopped gracefully")
		return nil
	case <-ctx.Done():
		e.logger.Warn("Engine stop timeout exceeded")
		return ctx.Err()
	}
}

// runOrderProcessor combines order reading and processing in a single goroutine
func (e *Engine) runOrderProcessor() {
	defer e.wg.Done()

	e.logger.Info("Starting order processor", logger.Field{
		Key:   "symbol",
		Value: e.config.Symbol,
	})

	// Resume right after the last order the snapshot covers. The initial
	// sentinel is -1, so offset 0 is a real snapshot position.
	currentOffset := e.getOrderOffset()
	if currentOffset >= 0 {
		currentOffset++
	}

	if err := e.orderReader.SetOffset(currentOffset); err != nil {
		e.logger.GetZap().Fatal("Failed to set offset for order reader", zapcore.Field{
			Key:       "error",
			Interface: err,
		})
	}

	for {
		select {
		case <-e.ctx.Done():
			e.logger.Info("Order processor shutting down")
			e.orderReader.Close()
			return
		case <-e.snapshotRequests:
			e.createAndStoreSnapshot()
		default:
			msg, orderRequest, err := e.orderReader.ReadMessage(e.ctx)
			if err != nil {
				e.logger.ErrorContext(e.ctx, err, logger.Field{
					Key:   "action",
					Value: "read_order_message",
				})
				// Simple backoff
				time.Sleep(100 * time.Millisecond)
				continue
			}

			if err := e.orderReader.CommitMessages(e.ctx, msg); err != nil {
				e.logger.ErrorContext(e.ctx, err, logger.Field{
					Key:   "action",
					Value: "commit_order_message",
				})
			}

			if err := e.processOrder(orderRequest); err != nil {
				e.logger.ErrorContext(e.ctx, err, logger.Field{
					Key:   "action",
					Value: "process_order",
				})
				continue
			}

			e.setOrderOffset(msg.Offset)
		}
	}
}

// runSnapshotManager periodically asks the order processor to snapshot.
// It never reads the matcher itself: the matcher is lock-free and owned
// by the order processor goroutine.
func (e *Engine) runSnapshotManager() {
	defer e.wg.Done()

	ticker := time.NewTicker(e.snapshotInterval)
	defer ticker.Stop()

	e.logger.Info("Starting snapshot manager")

	for {
		select {
		case <-e.ctx.Done():
			e.logger.Info("Snapshot manager shutting down")
			return
		case <-ticker.C:
			if e.shouldCreateSnapshot() {
				select {
				case e.snapshotRequests <- struct{}{}:
				default:
					// A request is already pending.
				}
			}
		}
	}
}

// processOrder validates one submission, runs it through the matcher and
// publishes everything it produced.
func (e *Engine) processOrder(orderRequest *orderbookv1.PlaceOrderRequest) error {
	e.logger.Debug("Processing order",
		logger.Field{Key: "orderOffset", Value: orderRequest.Offset},
		logger.Field{Key: "orderID", Value: orderRequest.OrderID},
		logger.Field{Key: "type", Value: orderRequest.Type},
		logger.Field{Key: "side", Value: orderRequest.Side},
	)

	if err := orderRequest.Validate(); err != nil {
		return err
	}

	result, err := e.matcher.Submit(orderRequest.ToOrder())
	if err != nil {
		return err
	}

	if len(result.Trades) > 0 {
		e.recordTrades(result.Trades)
	}
	e.publishMarketData(result)

	return nil
}

// recordTrades appends executions to the ledger and publishes them to the
// matches topic. The ledger write comes first: a trade that cannot be made
// durable is still published, but the error is loud.
func (e *Engine) recordTrades(trades []orderbookv1.Trade) {
	for i := range trades {
		if err := e.ledger.Append(&trades[i]); err != nil {
			e.logger.ErrorContext(e.ctx, err, logger.Field{
				Key:   "action",
				Value: "append_trade",
			}, logger.Field{
				Key:   "tradeID",
				Value: trades[i].ID,
			})
		}
		if err := e.matchPublisher.PublishTrade(e.ctx, &trades[i]); err != nil {
			e.logger.ErrorContext(e.ctx, err, logger.Field{
				Key:   "action",
				Value: "publish_trade",
			}, logger.Field{
				Key:   "tradeID",
				Value: trades[i].ID,
			})
		}
	}

	e.tradesMutex.Lock()
	e.totalTrades += int64(len(trades))
	currentTotal := e.totalTrades
	e.tradesMutex.Unlock()

	e.logger.Info("Trades executed",
		logger.Field{Key: "tradeCount", Value: len(trades)},
		logger.Field{Key: "totalTrades", Value: currentTotal},
	)
}

// publishMarketData fans out the market data of one submission: executions,
// then the fresh BBO and depth snapshots. Publishing failures are logged and
// do not stop the order stream.
func (e *Engine) publishMarketData(result *matching.Result) {
	if len(result.Trades) > 0 {
		if err := e.marketData.PublishTrades(e.ctx, result.Trades); err != nil {
			e.logger.ErrorContext(e.ctx, err, logger.Field{
				Key:   "action",
				Value: "publish_trade_events",
			})
		}
	}

	if err := e.marketData.PublishBBO(e.ctx, result.BBO); err != nil {
		e.logger.ErrorContext(e.ctx, err, logger.Field{
			Key:   "action",
			Value: "publish_bbo",
		})
	}

	if err := e.marketData.PublishDepth(e.ctx, result.Depth); err != nil {
		e.logger.ErrorContext(e.ctx, err, logger.Field{
			Key:   "action",
			Value: "publish_depth",
		})
	}
}

// loadSnapshot restores the book and sequence counters from the latest
// stored snapshot, if any.
func (e *Engine) loadSnapshot(ctx context.Context) error {
	snapshot, err := e.snapshotStore.LoadStore(ctx)
	if err != nil {
		return err
	}
	if snapshot == nil {
		e.logger.Info("No snapshot found, starting from an empty book", logger.Field{
			Key:   "symbol",
			Value: e.config.Symbol,
		})
		return nil
	}

	if err := e.matcher.RestoreBook(e.config.Symbol, snapshot.OrderBookSnapshot.Orders); err != nil {
		return err
	}
	e.matcher.SeedSequences(snapshot.OrderBookSnapshot.ArrivalSeq, snapshot.OrderBookSnapshot.TradeSequence)

	e.setOrderOffset(snapshot.OrderOffset)
	e.setLastSnapshotOffset(snapshot.OrderOffset)

	e.logger.Info("Snapshot restored",
		logger.Field{Key: "symbol", Value: e.config.Symbol},
		logger.Field{Key: "orderOffset", Value: snapshot.OrderOffset},
		logger.Field{Key: "restingOrders", Value: len(snapshot.OrderBookSnapshot.Orders)},
	)

	return nil
}

// seedTradeSequence bumps the matcher's trade counter to the ledger's last
// recorded ID when the ledger is ahead of the snapshot.
func (e *Engine) seedTradeSequence() error {
	last, err := e.ledger.LastSequence()
	if err != nil {
		return err
	}
	e.matcher.SeedSequences(0, last)
	return nil
}

// shouldCreateSnapshot checks if a snapshot should be created
func (e *Engine) shouldCreateSnapshot() bool {
	e.mu.RLock()
	currentOffset := e.orderOffset
	lastSnapshotOffset := e.lastSnapshotOffset
	e.mu.RUnlock()

	if currentOffset <= 0 {
		return false
	}

	delta := currentOffset - lastSnapshotOffset
	return delta >= e.snapshotOffsetDelta
}

// createAndStoreSnapshot creates and stores a snapshot. It runs on the
// order processor goroutine, between submissions.
func (e *Engine) createAndStoreSnapshot() {
	currentOffset := e.getOrderOffset()

	e.logger.Info("Creating snapshot", logger.Field{
		Key:   "currentOffset",
		Value: currentOffset,
	})

	snapshot := &snapshotv1.Snapshot{
		OrderOffset: currentOffset,
		OrderBookSnapshot: snapshotv1.OrderBookSnapshot{
			Orders:        e.matcher.Book(e.config.Symbol).Snapshot(),
			ArrivalSeq:    e.matcher.ArrivalSequence(),
			TradeSequence: e.matcher.TradeSequence(),
		},
	}

	if err := e.snapshotStore.Store(e.ctx, snapshot); err != nil {
		e.logger.ErrorContext(e.ctx, err, logger.Field{
			Key:   "action",
			Value: "store_snapshot",
		})
	} else {
		e.setLastSnapshotOffset(currentOffset)
		e.logger.Info("Snapshot stored successfully", logger.Field{
			Key:   "symbol",
			Value: e.config.Symbol,
		}, logger.Field{
			Key:   "offset",
			Value: currentOffset,
		})
	}
}

// Thread-safe getters and setters
func (e *Engine) getOrderOffset() int64 {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.orderOffset
}

func (e *Engine) setOrderOffset(offset int64) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.orderOffset = offset
}

func (e *Engine) getLastSnapshotOffset() int64 {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.lastSnapshotOffset
}

func (e *Engine) setLastSnapshotOffset(offset int64) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.lastSnapshotOffset = offset
}
