package engine

import "time"

// Options tunes the snapshot manager. Zero values fall back to the
// defaults, so callers only need to set what they want to override.
type Options struct {
	// SnapshotInterval is how often the snapshot manager wakes up.
	SnapshotInterval time.Duration
	// SnapshotOffsetDelta is the number of orders processed since the last
	// snapshot before a new one is written.
	SnapshotOffsetDelta int64
}

// DefaultEngineOptions returns the options used by NewEngine.
func DefaultEngineOptions() *Options {
	return &Options{
		SnapshotInterval:    30 * time.Second,
		SnapshotOffsetDelta: 1000,
	}
}

func (o *Options) normalized() *Options {
	defaults := DefaultEngineOptions()
	if o == nil {
		return defaults
	}
	out := *o
	if out.SnapshotInterval <= 0 {
		out.SnapshotInterval = defaults.SnapshotInterval
	}
	if out.SnapshotOffsetDelta <= 0 {
		out.SnapshotOffsetDelta = defaults.SnapshotOffsetDelta
	}
	return &out
}
