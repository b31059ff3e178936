package marketdatav1

import (
	"context"

	orderbookv1 "github.com/Praneshrajan137/matching-engine-sub002/internal/domain/orderbook/v1"
)

// Publisher defines the interface for publishing market data derived from a
// submission: executions, the fresh BBO and the fresh depth snapshot.
//
//go:generate mockgen -source interface.go -destination=mock/interface_mock.go -package=marketdatav1_mock
type Publisher interface {
	// PublishTrades publishes the executions of one submission.
	PublishTrades(ctx context.Context, trades []orderbookv1.Trade) error
	// PublishBBO publishes a best bid/offer snapshot.
	PublishBBO(ctx context.Context, bbo BBO) error
	// PublishDepth publishes a top-N depth snapshot.
	PublishDepth(ctx context.Context, depth Depth) error
}
