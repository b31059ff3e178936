package snapshot

import (
	"context"
	"encoding/json"
	"fmt"

	snapshotv1 "github.com/Praneshrajan137/matching-engine-sub002/internal/domain/snapshot/v1"
	"github.com/Praneshrajan137/matching-engine-sub002/pkg/errors"
	logger "github.com/Praneshrajan137/matching-engine-sub002/pkg/logger"
	"github.com/Praneshrajan137/matching-engine-sub002/pkg/redis"
)

// Store persists order book snapshots in Redis, one key per symbol.
type Store struct {
	key         string
	symbol      string
	logger      logger.Interface
	redisclient redis.Client
}

// NewStore creates a snapshot store for a symbol. keyPrefix namespaces the
// Redis key, e.g. "book_snapshot:" + symbol.
func NewStore(redisclient redis.Client, keyPrefix, symbol string, log logger.Interface) *Store {
	return &Store{
		key:         keyPrefix + symbol,
		symbol:      symbol,
		redisclient: redisclient,
		logger:      log,
	}
}

// Store serializes the snapshot and stores it in Redis.
func (s *Store) Store(ctx context.Context, snapshot *snapshotv1.Snapshot) error {
	s.logger.InfoContext(ctx, fmt.Sprintf("Storing snapshot for symbol %s", s.symbol), logger.Field{
		Key:   "symbol",
		Value: s.symbol,
	})

	buf, err := json.Marshal(snapshot)
	if err != nil {
		s.logger.ErrorContext(ctx, err, logger.Field{
			Key:   "symbol",
			Value: s.symbol,
		})
		return errors.NewTracer("snapshot_marshal_error").Wrap(err)
	}

	if err := s.redisclient.Set(ctx, s.key, buf, 0); err != nil {
		s.logger.ErrorContext(ctx, err, logger.Field{
			Key:   "symbol",
			Value: s.symbol,
		}, logger.Field{
			Key:   "key",
			Value: s.key,
		})
		return errors.NewTracer("snapshot_store_error").Wrap(err)
	}

	s.logger.InfoContext(ctx, fmt.Sprintf("Snapshot stored for symbol %s", s.symbol), logger.Field{
		Key:   "symbol",
		Value: s.symbol,
	}, logger.Field{
		Key:   "action",
		Value: "store snapshot",
	})
	return nil
}

// LoadStore loads the snapshot from Redis. A missing key is not an error and
// returns a nil snapshot, the engine then starts from an empty book.
func (s *Store) LoadStore(ctx context.Context) (*snapshotv1.Snapshot, error) {
	s.logger.InfoContext(ctx, fmt.Sprintf("Loading snapshot for symbol %s", s.symbol), logger.Field{
		Key:   "symbol",
		Value: s.symbol,
	}, logger.Field{
		Key:   "action",
		Value: "load snapshot",
	})

	data, err := s.redisclient.Get(ctx, s.key)
	if err != nil {
		s.logger.ErrorContext(ctx, err, logger.Field{
			Key:   "symbol",
			Value: s.symbol,
		}, logger.Field{
			Key:   "action",
			Value: "load snapshot",
		})
		return nil, errors.NewTracer("snapshot_load_error").Wrap(err)
	}

	if data == "" {
		s.logger.WarnContext(ctx, fmt.Sprintf("No snapshot found for symbol %s", s.symbol), logger.Field{
			Key:   "symbol",
			Value: s.symbol,
		})
		return nil, nil
	}

	var snapshot snapshotv1.Snapshot
	if err := json.Unmarshal([]byte(data), &snapshot); err != nil {
		s.logger.ErrorContext(ctx, err, logger.Field{
			Key:   "symbol",
			Value: s.symbol,
		}, logger.Field{
			Key:   "action",
			Value: "unmarshal snapshot",
		})
		return nil, errors.NewTracer("snapshot_unmarshal_error").Wrap(err)
	}

	return &snapshot, nil
}
