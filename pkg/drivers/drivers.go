// Package drivers defines the capability interfaces the exploration loop
// depends on, plus the hardware-backed and mock implementations.
//
// The interfaces are deliberately small and single-purpose so the loop can
// depend on exactly the capabilities it uses and tests can swap any one of
// them independently.
package drivers

import (
	"github.com/stager00/crawlmap/pkg/motion"
	"github.com/stager00/crawlmap/pkg/vision"
)

// Locomotion executes gait commands. Execution is fire-and-forget: the
// chassis queues the gait and the next sensor read does not wait for it.
type Locomotion interface {
	Execute(cmd motion.Command, speed int) error
}

// Ranger reads the forward ultrasonic distance in centimeters.
// ok is false when there was no valid reading; a negative value is also
// treated as no reading by the range filter.
type Ranger interface {
	Read() (raw float64, ok bool)
}

// Camera captures still snapshots for place recognition.
type Camera interface {
	Capture() (*vision.Snapshot, error)
}

// Audio plays short alert clips. Playback may fail; failures are never
// fatal to navigation.
type Audio interface {
	Play(clip string) error
}
