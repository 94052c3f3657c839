package drivers

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"

	"github.com/stager00/crawlmap/pkg/motion"
)

// fakeDaemon imitates the chassis HTTP API.
type fakeDaemon struct {
	mu       sync.Mutex
	moves    []map[string]interface{}
	distance *float64
	broken   bool
}

func (d *fakeDaemon) handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/move", func(w http.ResponseWriter, r *http.Request) {
		d.mu.Lock()
		defer d.mu.Unlock()
		if d.broken {
			http.Error(w, "servo bus error", http.StatusInternalServerError)
			return
		}
		var payload map[string]interface{}
		if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		d.moves = append(d.moves, payload)
	})
	mux.HandleFunc("/distance", func(w http.ResponseWriter, r *http.Request) {
		d.mu.Lock()
		defer d.mu.Unlock()
		json.NewEncoder(w).Encode(map[string]interface{}{"distance_cm": d.distance})
	})
	return mux
}

func TestChassisClient_Execute(t *testing.T) {
	daemon := &fakeDaemon{}
	srv := httptest.NewServer(daemon.handler())
	defer srv.Close()

	c := NewChassisClient(srv.URL)

	if err := c.Execute(motion.Command{Kind: motion.Advance}, 100); err != nil {
		t.Fatalf("Execute forward: %v", err)
	}
	if err := c.Execute(motion.Command{Kind: motion.TurnLeft, Angle: 90}, 80); err != nil {
		t.Fatalf("Execute turn: %v", err)
	}

	daemon.mu.Lock()
	defer daemon.mu.Unlock()
	if len(daemon.moves) != 2 {
		t.Fatalf("daemon saw %d moves, want 2", len(daemon.moves))
	}
	if daemon.moves[0]["action"] != "forward" {
		t.Errorf("first action = %v, want forward", daemon.moves[0]["action"])
	}
	if _, hasAngle := daemon.moves[0]["angle"]; hasAngle {
		t.Error("forward command carried an angle")
	}
	if daemon.moves[1]["action"] != "turn left" {
		t.Errorf("second action = %v, want turn left", daemon.moves[1]["action"])
	}
	if daemon.moves[1]["angle"] != 90.0 {
		t.Errorf("turn angle = %v, want 90", daemon.moves[1]["angle"])
	}
}

func TestChassisClient_ExecuteReportsDaemonError(t *testing.T) {
	daemon := &fakeDaemon{broken: true}
	srv := httptest.NewServer(daemon.handler())
	defer srv.Close()

	c := NewChassisClient(srv.URL)
	if err := c.Execute(motion.Command{Kind: motion.Advance}, 100); err == nil {
		t.Error("expected error from a failing daemon")
	}
}

func TestChassisClient_Read(t *testing.T) {
	dist := 42.5
	daemon := &fakeDaemon{distance: &dist}
	srv := httptest.NewServer(daemon.handler())
	defer srv.Close()

	c := NewChassisClient(srv.URL)

	got, ok := c.Read()
	if !ok || got != 42.5 {
		t.Errorf("Read = (%v, %v), want (42.5, true)", got, ok)
	}

	// A null distance means the sensor had no echo.
	daemon.mu.Lock()
	daemon.distance = nil
	daemon.mu.Unlock()

	if _, ok := c.Read(); ok {
		t.Error("Read reported ok for a null reading")
	}
}

func TestChassisClient_ReadUnreachableDaemon(t *testing.T) {
	c := NewChassisClient("http://127.0.0.1:1")
	if _, ok := c.Read(); ok {
		t.Error("Read reported ok with no daemon")
	}
}

func TestMockRanger_RepeatsFinalReading(t *testing.T) {
	r := NewMockRanger(Reading{Raw: 10, OK: true}, Reading{Raw: 20, OK: true})

	if v, _ := r.Read(); v != 10 {
		t.Errorf("first read = %v, want 10", v)
	}
	for i := 0; i < 3; i++ {
		if v, ok := r.Read(); v != 20 || !ok {
			t.Errorf("read %d = (%v, %v), want (20, true)", i+2, v, ok)
		}
	}
}

func TestMockCamera_ScriptAndExhaustion(t *testing.T) {
	c := NewMockCamera([]byte("frame"), nil)

	if s, err := c.Capture(); err != nil || string(s.JPEG) != "frame" {
		t.Errorf("first capture = (%v, %v)", s, err)
	}
	if _, err := c.Capture(); err == nil {
		t.Error("nil script entry must fail")
	}
	if _, err := c.Capture(); err == nil {
		t.Error("exhausted script must fail")
	}
	if c.Captures() != 3 {
		t.Errorf("Captures = %d, want 3", c.Captures())
	}
}
