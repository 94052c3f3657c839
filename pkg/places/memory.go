// Package places remembers visual snapshots of visited locations and
// answers whether the robot has seen the current view before.
package places

import (
	"log/slog"

	"github.com/stager00/crawlmap/pkg/vision"
)

// Memory is an ordered set of snapshots in discovery order. It is owned by
// the single control goroutine; it is not safe for concurrent mutation.
//
// Recognition cost is O(n) in the number of remembered snapshots, so the
// memory is bounded: at capacity the oldest snapshot is evicted to make
// room. Cap <= 0 disables eviction and reproduces the legacy unbounded
// behavior.
type Memory struct {
	Cap int

	comparator vision.Comparator
	logger     *slog.Logger
	snapshots  []*vision.Snapshot
}

// NewMemory creates a place memory with the given comparator and capacity.
func NewMemory(comparator vision.Comparator, cap int, logger *slog.Logger) *Memory {
	if logger == nil {
		logger = slog.Default()
	}
	return &Memory{
		Cap:        cap,
		comparator: comparator,
		logger:     logger,
	}
}

// CheckAndRemember scans the remembered snapshots in discovery order and
// reports whether s matches one of them. On the first match it returns true
// without storing s. If nothing matches, s is appended (evicting the oldest
// entry at capacity) and the result is false.
//
// A comparator error against one stored entry skips that entry: a single
// corrupt frame must not poison the whole memory.
func (m *Memory) CheckAndRemember(s *vision.Snapshot) (bool, error) {
	for _, prev := range m.snapshots {
		match, err := m.comparator.Similar(s, prev)
		if err != nil {
			m.logger.Warn("snapshot comparison failed", "stored", prev.ID, "error", err)
			continue
		}
		if match {
			return true, nil
		}
	}

	m.remember(s)
	return false, nil
}

func (m *Memory) remember(s *vision.Snapshot) {
	if m.Cap > 0 && len(m.snapshots) >= m.Cap {
		evicted := m.snapshots[0]
		copy(m.snapshots, m.snapshots[1:])
		m.snapshots[len(m.snapshots)-1] = s
		m.logger.Debug("place memory full, evicted oldest", "evicted", evicted.ID)
		return
	}
	m.snapshots = append(m.snapshots, s)
}

// Len returns the number of remembered snapshots.
func (m *Memory) Len() int {
	return len(m.snapshots)
}
