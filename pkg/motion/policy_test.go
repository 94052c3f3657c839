package motion

import (
	"math/rand"
	"testing"

	"github.com/stager00/crawlmap/pkg/sensor"
)

func testPolicy(seed int64) *Policy {
	return NewPolicy(15, 100, 50, 200, 90, rand.New(rand.NewSource(seed)))
}

func TestDecide_BelowThresholdIsEvasive(t *testing.T) {
	p := testPolicy(1)

	for _, distance := range []float64{0, 1, 5, 14.9} {
		dec := p.Decide(distance)
		if dec.Command.Kind != EvasiveTurn {
			t.Errorf("Decide(%v): got %v, want evasive turn", distance, dec.Command.Kind)
		}
		if dec.Command.Angle != 90 {
			t.Errorf("Decide(%v): angle = %v, want 90", distance, dec.Command.Angle)
		}
		if !dec.Alert {
			t.Errorf("Decide(%v): alert not set", distance)
		}
		if dec.Speed < p.MinSpeed {
			t.Errorf("Decide(%v): speed %d below min %d", distance, dec.Speed, p.MinSpeed)
		}
	}
}

func TestDecide_AboveThresholdWanders(t *testing.T) {
	p := testPolicy(2)

	seen := map[Kind]bool{}
	for i := 0; i < 200; i++ {
		dec := p.Decide(100)
		switch dec.Command.Kind {
		case Advance, TurnLeft, TurnRight:
			seen[dec.Command.Kind] = true
		default:
			t.Fatalf("Decide(100): unexpected command %v", dec.Command.Kind)
		}
		if dec.Alert {
			t.Fatal("Decide(100): alert set with no obstacle")
		}
	}

	// Uniform draw over three options should hit all of them in 200 tries.
	for _, k := range []Kind{Advance, TurnLeft, TurnRight} {
		if !seen[k] {
			t.Errorf("wander never produced %v", k)
		}
	}
}

func TestDecide_FixedSeedIsReproducible(t *testing.T) {
	a := testPolicy(42)
	b := testPolicy(42)

	for i := 0; i < 100; i++ {
		da := a.Decide(100)
		db := b.Decide(100)
		if da != db {
			t.Fatalf("decision %d diverged: %+v vs %+v", i, da, db)
		}
	}
}

func TestSpeed_ScalesAndClamps(t *testing.T) {
	p := testPolicy(3)

	tests := []struct {
		distance float64
		want     int
	}{
		{0, 50},                  // Clamped to MinSpeed
		{5, 50},                  // 33 rounds below min, clamped
		{15, 100},                // Exactly the threshold: base speed
		{22.5, 150},              // Mid scale
		{30, 200},                // 200 hits max exactly
		{1000, 200},              // Clamped to MaxSpeed
		{sensor.NoObstacle, 200}, // +Inf clamps, never overflows
	}

	for _, tt := range tests {
		dec := p.Decide(tt.distance)
		if dec.Speed != tt.want {
			t.Errorf("Decide(%v): speed = %d, want %d", tt.distance, dec.Speed, tt.want)
		}
	}
}

// Raw readings [20, 5, 5, 30] against a 15cm threshold must come out as
// [wander, evasive, evasive, wander].
func TestDecide_ObstacleSequence(t *testing.T) {
	p := testPolicy(4)

	distances := []float64{20, 5, 5, 30}
	wantEvasive := []bool{false, true, true, false}

	for i, d := range distances {
		dec := p.Decide(d)
		got := dec.Command.Kind == EvasiveTurn
		if got != wantEvasive[i] {
			t.Errorf("step %d (distance %v): evasive = %v, want %v", i, d, got, wantEvasive[i])
		}
	}
}

func TestKindString(t *testing.T) {
	tests := []struct {
		kind Kind
		want string
	}{
		{Advance, "forward"},
		{TurnLeft, "turn left"},
		{TurnRight, "turn right"},
		{EvasiveTurn, "evasive turn"},
	}
	for _, tt := range tests {
		if got := tt.kind.String(); got != tt.want {
			t.Errorf("%d.String() = %q, want %q", tt.kind, got, tt.want)
		}
	}
}
