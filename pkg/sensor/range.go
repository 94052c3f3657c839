// Package sensor normalizes raw ultrasonic range readings.
package sensor

import "math"

// Distance is a filtered range reading in centimeters.
// Filtered values are never negative.
type Distance = float64

// NoObstacle is the canonical "nothing in range" sentinel. The ultrasonic
// driver reports a miss as an absent or negative reading; downstream code
// only ever sees this value instead.
var NoObstacle = math.Inf(1)

// Filter normalizes a raw driver reading. ok is false when the driver had
// no valid reading this cycle. Absent or negative readings map to
// NoObstacle; everything else passes through unchanged.
func Filter(raw float64, ok bool) Distance {
	if !ok || raw < 0 {
		return NoObstacle
	}
	return raw
}
