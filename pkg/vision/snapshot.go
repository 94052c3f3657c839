// Package vision holds camera snapshots and decides whether two of them
// depict the same place.
package vision

import (
	"time"

	"github.com/google/uuid"
)

// Snapshot is a single still image captured for place recognition.
// The buffer is an encoded JPEG; it stays opaque to everything except the
// comparator. Ownership transfers to the place memory once the snapshot is
// accepted as novel.
type Snapshot struct {
	ID         uuid.UUID
	JPEG       []byte
	CapturedAt time.Time
}

// NewSnapshot wraps an encoded JPEG buffer captured at the given time.
func NewSnapshot(jpeg []byte, capturedAt time.Time) *Snapshot {
	return &Snapshot{
		ID:         uuid.New(),
		JPEG:       jpeg,
		CapturedAt: capturedAt,
	}
}

// Comparator decides whether two snapshots depict the same place.
type Comparator interface {
	// Similar reports whether a and b match. Implementations must treat a
	// featureless snapshot as "not similar" rather than erroring; an error
	// means the comparison itself could not run (e.g. a corrupt buffer).
	Similar(a, b *Snapshot) (bool, error)
}
