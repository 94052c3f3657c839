package drivers

import (
	"errors"
	"sync"
	"time"

	"github.com/stager00/crawlmap/pkg/motion"
	"github.com/stager00/crawlmap/pkg/vision"
)

// The mock drivers let the loop run on a bench with no chassis attached,
// and give tests scripted hardware behavior.

// ExecutedCommand is one locomotion call recorded by MockChassis.
type ExecutedCommand struct {
	Command motion.Command
	Speed   int
}

// MockChassis records every executed command.
type MockChassis struct {
	mu       sync.Mutex
	executed []ExecutedCommand
	failWith error
}

// NewMockChassis creates a recording chassis.
func NewMockChassis() *MockChassis {
	return &MockChassis{}
}

// FailWith makes every subsequent Execute return err. Pass nil to recover.
func (m *MockChassis) FailWith(err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.failWith = err
}

// Execute records the command.
func (m *MockChassis) Execute(cmd motion.Command, speed int) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.failWith != nil {
		return m.failWith
	}
	m.executed = append(m.executed, ExecutedCommand{Command: cmd, Speed: speed})
	return nil
}

// Executed returns a copy of the recorded commands.
func (m *MockChassis) Executed() []ExecutedCommand {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]ExecutedCommand, len(m.executed))
	copy(out, m.executed)
	return out
}

// MockRanger replays a scripted sequence of readings, then keeps repeating
// the final one. An entry with OK=false simulates a sensor miss.
type MockRanger struct {
	mu       sync.Mutex
	script   []Reading
	position int
}

// Reading is one scripted ranger result.
type Reading struct {
	Raw float64
	OK  bool
}

// NewMockRanger creates a ranger that replays script in order.
func NewMockRanger(script ...Reading) *MockRanger {
	return &MockRanger{script: script}
}

// Read returns the next scripted reading.
func (m *MockRanger) Read() (float64, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if len(m.script) == 0 {
		return 0, false
	}
	r := m.script[m.position]
	if m.position < len(m.script)-1 {
		m.position++
	}
	return r.Raw, r.OK
}

// ErrMockCapture is the failure returned by an exhausted or failing
// MockCamera.
var ErrMockCapture = errors.New("drivers: mock capture failure")

// MockCamera returns scripted snapshots. A nil entry simulates a capture
// failure. When the script runs out, every capture fails.
type MockCamera struct {
	mu       sync.Mutex
	script   [][]byte
	position int
	captures int
}

// NewMockCamera creates a camera that returns the given JPEG buffers in
// order; nil entries fail.
func NewMockCamera(script ...[]byte) *MockCamera {
	return &MockCamera{script: script}
}

// Capture returns the next scripted snapshot.
func (m *MockCamera) Capture() (*vision.Snapshot, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.captures++
	if m.position >= len(m.script) {
		return nil, ErrMockCapture
	}
	jpeg := m.script[m.position]
	m.position++
	if jpeg == nil {
		return nil, ErrMockCapture
	}
	return vision.NewSnapshot(jpeg, time.Now()), nil
}

// Captures returns how many times Capture was called.
func (m *MockCamera) Captures() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.captures
}

// MockAudio records played clips and optionally fails.
type MockAudio struct {
	mu       sync.Mutex
	played   []string
	failWith error
}

// NewMockAudio creates a recording audio driver.
func NewMockAudio() *MockAudio {
	return &MockAudio{}
}

// FailWith makes every subsequent Play return err. Pass nil to recover.
func (m *MockAudio) FailWith(err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.failWith = err
}

// Play records the clip.
func (m *MockAudio) Play(clip string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.failWith != nil {
		return m.failWith
	}
	m.played = append(m.played, clip)
	return nil
}

// Played returns a copy of the recorded clips.
func (m *MockAudio) Played() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]string, len(m.played))
	copy(out, m.played)
	return out
}
