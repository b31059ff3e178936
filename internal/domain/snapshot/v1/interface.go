package snapshotv1

import "context"

// Store persists book snapshots so the engine can rebuild its resting
// orders and sequence counters after a restart. LoadStore returns
// (nil, nil) when no snapshot has been written yet.
//
//go:generate mockgen -source interface.go -destination=mock/interface_mock.go -package=snapshotv1_mock
type Store interface {
	Store(ctx context.Context, snapshot *Snapshot) error
	LoadStore(ctx context.Context) (*Snapshot, error)
}
