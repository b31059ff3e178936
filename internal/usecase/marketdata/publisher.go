package marketdata

import (
	"context"
	"encoding/json"

	marketdatav1 "github.com/Praneshrajan137/matching-engine-sub002/internal/domain/marketdata/v1"
	orderbookv1 "github.com/Praneshrajan137/matching-engine-sub002/internal/domain/orderbook/v1"
	"github.com/Praneshrajan137/matching-engine-sub002/pkg/config"
	"github.com/Praneshrajan137/matching-engine-sub002/pkg/errors"
	"github.com/Praneshrajan137/matching-engine-sub002/pkg/logger"
	"github.com/Praneshrajan137/matching-engine-sub002/pkg/redis"
)

// Publisher fans market data out over Redis pub/sub: executions on the trade
// channel, best bid/offer on the BBO channel and aggregated depth on the
// depth channel. Publishing to a channel nobody subscribes to is not an
// error, subscribers come and go independently of the engine.
type Publisher struct {
	redisclient  redis.Client
	logger       logger.Interface
	tradeChannel string
	bboChannel   string
	depthChannel string
}

var _ marketdatav1.Publisher = (*Publisher)(nil)

// NewPublisher creates a Redis market data publisher using the configured
// channel names.
func NewPublisher(redisclient redis.Client, cfg config.RedisConfig, log logger.Interface) *Publisher {
	return &Publisher{
		redisclient:  redisclient,
		logger:       log,
		tradeChannel: cfg.TradeChannel,
		bboChannel:   cfg.BBOChannel,
		depthChannel: cfg.DepthChannel,
	}
}

// PublishTrades publishes each execution on the trade channel, one message
// per trade in execution order.
func (p *Publisher) PublishTrades(ctx context.Context, trades []orderbookv1.Trade) error {
	for i := range trades {
		if err := p.publish(ctx, p.tradeChannel, &trades[i]); err != nil {
			return err
		}
	}
	return nil
}

// PublishBBO publishes the best bid/offer on the BBO channel.
func (p *Publisher) PublishBBO(ctx context.Context, bbo marketdatav1.BBO) error {
	return p.publish(ctx, p.bboChannel, bbo)
}

// PublishDepth publishes the aggregated depth snapshot on the depth channel.
func (p *Publisher) PublishDepth(ctx context.Context, depth marketdatav1.Depth) error {
	return p.publish(ctx, p.depthChannel, depth)
}

func (p *Publisher) publish(ctx context.Context, channel string, payload any) error {
	buf, err := json.Marshal(payload)
	if err != nil {
		p.logger.ErrorContext(ctx, err, logger.Field{
			Key:   "channel",
			Value: channel,
		})
		return errors.NewTracer("market_data_marshal_error").Wrap(err)
	}

	if _, err := p.redisclient.Publish(ctx, channel, buf); err != nil {
		p.logger.ErrorContext(ctx, err, logger.Field{
			Key:   "channel",
			Value: channel,
		})
		return errors.NewTracer("market_data_publish_error").Wrap(err)
	}
	return nil
}
