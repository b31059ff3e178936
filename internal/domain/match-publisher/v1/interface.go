package matchpublisherv1

import (
	"context"

	orderbookv1 "github.com/Praneshrajan137/matching-engine-sub002/internal/domain/orderbook/v1"
)

// MatchPublisher defines the interface for publishing executions to the
// matches topic.
//
//go:generate mockgen -source interface.go -destination=mock/interface_mock.go -package=matchpublisherv1_mock
type MatchPublisher interface {
	// PublishTrade publishes one execution to the matches topic.
	PublishTrade(ctx context.Context, trade *orderbookv1.Trade) error
}
