package tradelog

import (
	"encoding/binary"
	"encoding/json"

	"github.com/Praneshrajan137/matching-engine-sub002/pkg/errors"
	"github.com/cockroachdb/pebble"

	orderbookv1 "github.com/Praneshrajan137/matching-engine-sub002/internal/domain/orderbook/v1"
	tradelogv1 "github.com/Praneshrajan137/matching-engine-sub002/internal/domain/tradelog/v1"
)

const keyPrefix = "trade/"

// Store is an append-only trade ledger on pebble. Keys are the prefix plus
// the big-endian trade ID, so iteration order is trade-ID order; values are
// the JSON-encoded trades. Records are written with pebble.Sync and never
// updated or deleted.
type Store struct {
	db *pebble.DB
}

var _ tradelogv1.Ledger = (*Store)(nil)

// Open opens (or creates) the ledger at dir.
func Open(dir string) (*Store, error) {
	db, err := pebble.Open(dir, &pebble.Options{
		DisableWAL: false,
	})
	if err != nil {
		return nil, errors.NewErrorDetails(err.Error(), string(errors.LedgerOpenError), "open")
	}
	return &Store{db: db}, nil
}

// Close releases the underlying store.
func (s *Store) Close() error {
	return s.db.Close()
}

// Append durably records one trade under its sequential ID.
func (s *Store) Append(trade *orderbookv1.Trade) error {
	value, err := json.Marshal(trade)
	if err != nil {
		return errors.NewErrorDetails(err.Error(), string(errors.LedgerAppendError), "append")
	}
	if err := s.db.Set(keyFor(trade.ID), value, pebble.Sync); err != nil {
		return errors.NewErrorDetails(err.Error(), string(errors.LedgerAppendError), "append")
	}
	return nil
}

// ScanFrom visits recorded trades with ID >= from in ascending ID order.
// fn returning an error stops the scan and propagates it.
func (s *Store) ScanFrom(from int64, fn func(*orderbookv1.Trade) error) error {
	iter, err := s.db.NewIter(&pebble.IterOptions{
		LowerBound: keyFor(from),
		UpperBound: prefixUpperBound(),
	})
	if err != nil {
		return errors.NewErrorDetails(err.Error(), string(errors.LedgerScanError), "scan")
	}
	defer iter.Close()

	for iter.First(); iter.Valid(); iter.Next() {
		var trade orderbookv1.Trade
		if err := json.Unmarshal(iter.Value(), &trade); err != nil {
			return errors.NewErrorDetails(err.Error(), string(errors.LedgerScanError), "scan")
		}
		if err := fn(&trade); err != nil {
			return err
		}
	}
	if err := iter.Error(); err != nil {
		return errors.NewErrorDetails(err.Error(), string(errors.LedgerScanError), "scan")
	}
	return nil
}

// LastSequence returns the highest recorded trade ID, zero when empty.
func (s *Store) LastSequence() (int64, error) {
	iter, err := s.db.NewIter(&pebble.IterOptions{
		LowerBound: []byte(keyPrefix),
		UpperBound: prefixUpperBound(),
	})
	if err != nil {
		return 0, errors.NewErrorDetails(err.Error(), string(errors.LedgerScanError), "scan")
	}
	defer iter.Close()

	if !iter.Last() {
		return 0, iter.Error()
	}
	return parseKey(iter.Key()), nil
}

// prefixUpperBound is the smallest key past every ledger key: the prefix with
// its last byte incremented. A printable sentinel like '~' would not do, the
// binary ID bytes can exceed it.
func prefixUpperBound() []byte {
	bound := []byte(keyPrefix)
	bound[len(bound)-1]++
	return bound
}

func keyFor(tradeID int64) []byte {
	key := make([]byte, len(keyPrefix)+8)
	copy(key, keyPrefix)
	binary.BigEndian.PutUint64(key[len(keyPrefix):], uint64(tradeID))
	return key
}

func parseKey(key []byte) int64 {
	if len(key) != len(keyPrefix)+8 {
		return 0
	}
	return int64(binary.BigEndian.Uint64(key[len(keyPrefix):]))
}
