// Package trace records the polar (heading, distance) path of an
// exploration run and writes it out as CSV, a rendered PNG plot, and an
// optional SQLite archive at shutdown.
package trace

// Sample is one recorded (heading, distance) pair. Angle is in degrees
// [0, 360), Distance in centimeters; an infinite distance means no obstacle
// was in range that cycle.
type Sample struct {
	Angle    float64
	Distance float64
}

// Log is the append-only in-memory trace. Appended by the exploration loop,
// one sample per completed control cycle, and read once at shutdown. Owned
// by the single control goroutine; not safe for concurrent mutation.
type Log struct {
	samples []Sample
}

// NewLog creates an empty trace log.
func NewLog() *Log {
	return &Log{}
}

// Append records one sample. O(1), never fails.
func (l *Log) Append(s Sample) {
	l.samples = append(l.samples, s)
}

// Len returns the number of recorded samples.
func (l *Log) Len() int {
	return len(l.samples)
}

// Samples returns a copy of the recorded samples in insertion order.
func (l *Log) Samples() []Sample {
	out := make([]Sample, len(l.samples))
	copy(out, l.samples)
	return out
}
