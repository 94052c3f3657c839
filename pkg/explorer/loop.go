// Package explorer runs the exploration control loop: reactive obstacle
// avoidance every cycle, a periodic visual place check nested inside it,
// trace recording, and a durable flush on shutdown.
package explorer

import (
	"context"
	"log/slog"
	"math/rand"
	"sync/atomic"
	"time"

	"github.com/google/uuid"

	"github.com/stager00/crawlmap/pkg/drivers"
	"github.com/stager00/crawlmap/pkg/motion"
	"github.com/stager00/crawlmap/pkg/places"
	"github.com/stager00/crawlmap/pkg/sensor"
	"github.com/stager00/crawlmap/pkg/trace"
)

// State is the loop lifecycle state.
type State int32

const (
	// Running is the normal cyclic operation.
	Running State = iota
	// ShuttingDown means cancellation was observed and the flush is in
	// progress.
	ShuttingDown
	// Terminated means the flush attempt finished, successfully or not.
	Terminated
)

// String returns the state name.
func (s State) String() string {
	switch s {
	case Running:
		return "running"
	case ShuttingDown:
		return "shutting down"
	case Terminated:
		return "terminated"
	default:
		return "unknown"
	}
}

// Config holds the loop's timing and alert tunables.
type Config struct {
	PhotoInterval time.Duration // How often to run the visual check
	CycleDelay    time.Duration // End-of-cycle yield
	AlertSound    string        // Clip played on an evasive turn
	TurnAngle     float64       // Angle of the corrective turn on recognition
}

// Drivers bundles the hardware capabilities the loop drives.
type Drivers struct {
	Locomotion drivers.Locomotion
	Ranger     drivers.Ranger
	Camera     drivers.Camera
	Audio      drivers.Audio
}

// Stats counts what happened during a run, for the shutdown report.
type Stats struct {
	Cycles       int
	Evasions     int
	Photos       int
	Recognitions int
}

// Loop is the exploration orchestrator. All mutation happens on the single
// goroutine running Run; cancellation is observed only at cycle boundaries,
// so a cycle either completes all its steps or never starts.
type Loop struct {
	cfg    Config
	hw     Drivers
	policy *motion.Policy
	memory *places.Memory
	trace  *trace.Log
	out    *trace.Output
	logger *slog.Logger

	// The recorded heading is an independently drawn random angle, not
	// integrated odometry: the chassis reports no orientation, and the
	// legacy artifacts have this shape. A known correctness gap, kept
	// deliberately.
	headingRNG *rand.Rand

	runID     uuid.UUID
	startedAt time.Time
	state     atomic.Int32

	// Counters are atomic so the shutdown report (and tests) can read them
	// while the control goroutine is still running.
	cycles       atomic.Int64
	evasions     atomic.Int64
	photos       atomic.Int64
	recognitions atomic.Int64
}

// New creates an exploration loop. rng drives the recorded headings; pass a
// seeded source for reproducible runs.
func New(cfg Config, hw Drivers, policy *motion.Policy, memory *places.Memory, tlog *trace.Log, out *trace.Output, rng *rand.Rand, logger *slog.Logger) *Loop {
	if logger == nil {
		logger = slog.Default()
	}
	return &Loop{
		cfg:        cfg,
		hw:         hw,
		policy:     policy,
		memory:     memory,
		trace:      tlog,
		out:        out,
		logger:     logger,
		headingRNG: rng,
		runID:      uuid.New(),
	}
}

// RunID identifies this run in logs and the archive.
func (l *Loop) RunID() uuid.UUID {
	return l.runID
}

// State returns the current lifecycle state.
func (l *Loop) State() State {
	return State(l.state.Load())
}

// Stats returns a snapshot of the run counters.
func (l *Loop) Stats() Stats {
	return Stats{
		Cycles:       int(l.cycles.Load()),
		Evasions:     int(l.evasions.Load()),
		Photos:       int(l.photos.Load()),
		Recognitions: int(l.recognitions.Load()),
	}
}

// Run executes cycles until ctx is canceled, then flushes the trace exactly
// once and returns the flush error (nil when the artifacts were written).
func (l *Loop) Run(ctx context.Context) error {
	l.state.Store(int32(Running))
	l.startedAt = time.Now()
	lastPhoto := l.startedAt

	l.logger.Info("exploration started",
		"run_id", l.runID,
		"photo_interval", l.cfg.PhotoInterval,
		"cycle_delay", l.cfg.CycleDelay)

	for {
		select {
		case <-ctx.Done():
			return l.shutdown()
		default:
		}

		l.cycle(&lastPhoto)

		// The delay doubles as the second cancellation point; the cycle
		// itself is never preempted.
		select {
		case <-ctx.Done():
			return l.shutdown()
		case <-time.After(l.cfg.CycleDelay):
		}
	}
}

// cycle runs one full control iteration: sense, act, record, and (on the
// photo period) the visual place check.
func (l *Loop) cycle(lastPhoto *time.Time) {
	raw, ok := l.hw.Ranger.Read()
	distance := sensor.Filter(raw, ok)

	dec := l.policy.Decide(distance)
	l.logger.Info("cycle",
		"distance_cm", distance,
		"command", dec.Command.Kind.String(),
		"speed", dec.Speed)

	if dec.Alert {
		l.evasions.Add(1)
		l.playAlert()
	}
	l.execute(dec.Command, dec.Speed)

	heading := l.headingRNG.Float64() * 360
	l.trace.Append(trace.Sample{Angle: heading, Distance: distance})

	if time.Since(*lastPhoto) > l.cfg.PhotoInterval {
		l.visualCheck(dec.Speed)
		// The timer resets whether or not the capture succeeded.
		*lastPhoto = time.Now()
	}

	l.cycles.Add(1)
}

// visualCheck captures a snapshot and reacts if the place is recognized.
// A failed capture skips this check; the memory is left untouched.
func (l *Loop) visualCheck(speed int) {
	snap, err := l.hw.Camera.Capture()
	if err != nil {
		l.logger.Warn("snapshot capture failed", "error", err)
		return
	}
	l.photos.Add(1)

	matched, err := l.memory.CheckAndRemember(snap)
	if err != nil {
		l.logger.Warn("place check failed", "error", err)
		return
	}
	if matched {
		l.recognitions.Add(1)
		l.logger.Info("recognized a previously visited place, turning away",
			"remembered", l.memory.Len())
		l.execute(motion.Command{Kind: motion.EvasiveTurn, Angle: l.cfg.TurnAngle}, speed)
	}
}

// execute issues a command to the chassis. Actuation faults are logged and
// absorbed; the next cycle retries naturally.
func (l *Loop) execute(cmd motion.Command, speed int) {
	if err := l.hw.Locomotion.Execute(cmd, speed); err != nil {
		l.logger.Warn("locomotion command failed",
			"command", cmd.Kind.String(), "error", err)
	}
}

// playAlert fires the audible obstacle alert. Best effort: it runs off the
// control goroutine so a slow player never stalls navigation, and failures
// are only logged.
func (l *Loop) playAlert() {
	if l.hw.Audio == nil {
		return
	}
	clip := l.cfg.AlertSound
	go func() {
		if err := l.hw.Audio.Play(clip); err != nil {
			l.logger.Error("alert sound failed", "clip", clip, "error", err)
		}
	}()
}

// shutdown flushes the trace exactly once and terminates the loop. The
// in-memory trace survives a failed flush, so the operator can retry.
func (l *Loop) shutdown() error {
	l.state.Store(int32(ShuttingDown))
	l.logger.Info("interrupted, saving trace",
		"run_id", l.runID, "samples", l.trace.Len())

	err := l.out.Flush(l.runID, l.startedAt, l.trace.Samples())
	l.state.Store(int32(Terminated))

	if err != nil {
		l.logger.Error("trace flush failed", "error", err)
		return err
	}
	l.logger.Info("trace saved",
		"csv", l.out.CSVPath, "plot", l.out.PlotPath,
		"cycles", l.cycles.Load(), "evasions", l.evasions.Load(),
		"photos", l.photos.Load(), "recognitions", l.recognitions.Load())
	return nil
}
