package motion

import (
	"math"
	"math/rand"

	"github.com/stager00/crawlmap/pkg/sensor"
)

// Policy selects the next gait command from the current filtered distance.
// Randomness comes from the injected source only, so a fixed seed makes a
// run's wander sequence reproducible.
type Policy struct {
	AlertDistance float64 // Evasive-turn threshold in cm
	BaseSpeed     int
	MinSpeed      int
	MaxSpeed      int
	TurnAngle     float64 // Degrees

	rng *rand.Rand
}

// NewPolicy creates a policy with the given tunables and randomness source.
func NewPolicy(alertDistance float64, baseSpeed, minSpeed, maxSpeed int, turnAngle float64, rng *rand.Rand) *Policy {
	return &Policy{
		AlertDistance: alertDistance,
		BaseSpeed:     baseSpeed,
		MinSpeed:      minSpeed,
		MaxSpeed:      maxSpeed,
		TurnAngle:     turnAngle,
		rng:           rng,
	}
}

// Decide returns the command and speed for the current cycle.
// Below the alert threshold the chassis always turns away to the left and
// the caller is told to fire the audible alert. Otherwise it wanders:
// forward or a turn to either side, uniformly at random.
func (p *Policy) Decide(distance sensor.Distance) Decision {
	speed := p.speedFor(distance)

	if distance < p.AlertDistance {
		return Decision{
			Command: Command{Kind: EvasiveTurn, Angle: p.TurnAngle},
			Speed:   speed,
			Alert:   true,
		}
	}

	var cmd Command
	switch p.rng.Intn(3) {
	case 0:
		cmd = Command{Kind: Advance}
	case 1:
		cmd = Command{Kind: TurnLeft, Angle: p.TurnAngle}
	default:
		cmd = Command{Kind: TurnRight, Angle: p.TurnAngle}
	}
	return Decision{Command: cmd, Speed: speed}
}

// speedFor scales the gait speed with clearance: crawl near obstacles, cap
// at MaxSpeed in open space. An infinite distance must clamp, not overflow.
func (p *Policy) speedFor(distance sensor.Distance) int {
	scaled := distance / p.AlertDistance * float64(p.BaseSpeed)
	if math.IsInf(scaled, 1) || scaled > float64(p.MaxSpeed) {
		return p.MaxSpeed
	}
	speed := int(math.Round(scaled))
	if speed < p.MinSpeed {
		return p.MinSpeed
	}
	return speed
}
