package lazy

import "sync/atomic"

// Stats counts lifecycle events across every handle configured WithStats.
// The zero value is ready to use and safe for concurrent updates.
type Stats struct {
	materialized atomic.Int64
	rolledBack   atomic.Int64
	malformed    atomic.Int64
	cloned       atomic.Int64
	closed       atomic.Int64
}

// StatsSnapshot is a point-in-time copy of Stats.
type StatsSnapshot struct {
	Materialized int64 // successful materializations
	RolledBack   int64 // commits rejected by the store
	Malformed    int64 // decode failures
	Cloned       int64 // Clone and DeepClone calls, nested ones included
	Closed       int64 // handles closed, children included
}

// Snapshot returns the current counter values.
func (s *Stats) Snapshot() StatsSnapshot {
	if s == nil {
		return StatsSnapshot{}
	}
	return StatsSnapshot{
		Materialized: s.materialized.Load(),
		RolledBack:   s.rolledBack.Load(),
		Malformed:    s.malformed.Load(),
		Cloned:       s.cloned.Load(),
		Closed:       s.closed.Load(),
	}
}

type statEvent uint8

const (
	statMaterialized statEvent = iota
	statRolledBack
	statMalformed
	statCloned
	statClosed
)

// record bumps one counter. A nil Stats records nothing.
func (s *Stats) record(e statEvent) {
	if s == nil {
		return
	}
	switch e {
	case statMaterialized:
		s.materialized.Add(1)
	case statRolledBack:
		s.rolledBack.Add(1)
	case statMalformed:
		s.malformed.Add(1)
	case statCloned:
		s.cloned.Add(1)
	case statClosed:
		s.closed.Add(1)
	}
}
