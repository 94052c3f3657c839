// Package motion defines the gait commands the chassis understands and the
// policy that picks the next one from the current range reading.
package motion

import "fmt"

// Kind identifies a gait command.
type Kind int

const (
	// Advance walks forward one gait cycle.
	Advance Kind = iota
	// TurnLeft rotates left by the command's angle.
	TurnLeft
	// TurnRight rotates right by the command's angle.
	TurnRight
	// EvasiveTurn is a reactive left turn away from an obstacle or a
	// recognized place. Always left, for predictability.
	EvasiveTurn
)

// String returns the chassis action name for the command kind.
func (k Kind) String() string {
	switch k {
	case Advance:
		return "forward"
	case TurnLeft:
		return "turn left"
	case TurnRight:
		return "turn right"
	case EvasiveTurn:
		return "evasive turn"
	default:
		return fmt.Sprintf("unknown(%d)", int(k))
	}
}

// Command is a single locomotion instruction. It carries no ownership and
// is consumed immediately by the locomotion driver.
type Command struct {
	Kind  Kind
	Angle float64 // Degrees; zero for Advance
}

// IsTurn reports whether the command rotates the chassis.
func (c Command) IsTurn() bool {
	return c.Kind != Advance
}

// Decision is the policy output for one control cycle.
type Decision struct {
	Command Command
	Speed   int
	// Alert is set when the audible obstacle alert should fire. Playing it
	// is the caller's job; the policy itself does no I/O.
	Alert bool
}
