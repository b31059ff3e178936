package tradelogv1

import (
	orderbookv1 "github.com/Praneshrajan137/matching-engine-sub002/internal/domain/orderbook/v1"
)

// Ledger defines the interface for the append-only trade ledger. Trades are
// keyed by their sequential trade ID and are never mutated or deleted.
//
//go:generate mockgen -source interface.go -destination=mock/interface_mock.go -package=tradelogv1_mock
type Ledger interface {
	// Append durably records one trade under its sequential ID.
	Append(trade *orderbookv1.Trade) error
	// ScanFrom visits recorded trades with ID >= from in ascending order.
	ScanFrom(from int64, fn func(*orderbookv1.Trade) error) error
	// LastSequence returns the highest recorded trade ID, zero when empty.
	LastSequence() (int64, error)
	// Close releases the underlying store.
	Close() error
}
