package places

import (
	"bytes"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/stager00/crawlmap/pkg/vision"
)

// byteComparator calls two snapshots similar when their buffers are equal.
type byteComparator struct{}

func (byteComparator) Similar(a, b *vision.Snapshot) (bool, error) {
	return bytes.Equal(a.JPEG, b.JPEG), nil
}

// failingComparator errors on entries whose buffer starts with "bad".
type failingComparator struct{}

func (failingComparator) Similar(a, b *vision.Snapshot) (bool, error) {
	if bytes.HasPrefix(b.JPEG, []byte("bad")) {
		return false, errors.New("corrupt frame")
	}
	return bytes.Equal(a.JPEG, b.JPEG), nil
}

func snap(content string) *vision.Snapshot {
	return vision.NewSnapshot([]byte(content), time.Now())
}

func TestCheckAndRemember_FirstNovelThenRecognized(t *testing.T) {
	m := NewMemory(byteComparator{}, 0, nil)

	s := snap("kitchen")
	matched, err := m.CheckAndRemember(s)
	if err != nil {
		t.Fatalf("first check: %v", err)
	}
	if matched {
		t.Error("first check: got match, want novel")
	}
	if m.Len() != 1 {
		t.Errorf("after first check: len = %d, want 1", m.Len())
	}

	matched, err = m.CheckAndRemember(snap("kitchen"))
	if err != nil {
		t.Fatalf("second check: %v", err)
	}
	if !matched {
		t.Error("second check: got novel, want match")
	}
	if m.Len() != 1 {
		t.Errorf("matched snapshot must not be appended: len = %d, want 1", m.Len())
	}
}

func TestCheckAndRemember_ShortCircuitsOnFirstMatch(t *testing.T) {
	m := NewMemory(byteComparator{}, 0, nil)

	for i := 0; i < 5; i++ {
		m.CheckAndRemember(snap(fmt.Sprintf("room-%d", i)))
	}
	if m.Len() != 5 {
		t.Fatalf("len = %d, want 5", m.Len())
	}

	matched, _ := m.CheckAndRemember(snap("room-2"))
	if !matched {
		t.Error("revisited room not recognized")
	}
	if m.Len() != 5 {
		t.Errorf("len = %d, want 5", m.Len())
	}
}

func TestRemember_EvictsOldestAtCapacity(t *testing.T) {
	m := NewMemory(byteComparator{}, 3, nil)

	for i := 0; i < 4; i++ {
		matched, _ := m.CheckAndRemember(snap(fmt.Sprintf("room-%d", i)))
		if matched {
			t.Fatalf("room-%d unexpectedly matched", i)
		}
	}
	if m.Len() != 3 {
		t.Fatalf("len = %d, want cap 3", m.Len())
	}

	// room-0 was evicted, so it reads as novel again; room-1 survived.
	if matched, _ := m.CheckAndRemember(snap("room-0")); matched {
		t.Error("evicted snapshot still recognized")
	}
	if matched, _ := m.CheckAndRemember(snap("room-1")); !matched {
		t.Error("recent snapshot forgotten")
	}
}

func TestCheckAndRemember_UnboundedWhenCapZero(t *testing.T) {
	m := NewMemory(byteComparator{}, 0, nil)

	for i := 0; i < 100; i++ {
		m.CheckAndRemember(snap(fmt.Sprintf("room-%d", i)))
	}
	if m.Len() != 100 {
		t.Errorf("len = %d, want 100 (cap 0 means unbounded)", m.Len())
	}
}

func TestCheckAndRemember_SkipsCorruptEntries(t *testing.T) {
	m := NewMemory(failingComparator{}, 0, nil)

	m.CheckAndRemember(snap("bad-frame"))
	m.CheckAndRemember(snap("hallway"))

	// The corrupt stored entry errors during comparison, but the scan must
	// continue and still recognize the good one.
	matched, err := m.CheckAndRemember(snap("hallway"))
	if err != nil {
		t.Fatalf("check: %v", err)
	}
	if !matched {
		t.Error("good entry not recognized past a corrupt one")
	}
}
