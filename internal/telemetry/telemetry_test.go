package telemetry

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"

	"github.com/CodeByRiley/SpaceTime/internal/config"
	"github.com/CodeByRiley/SpaceTime/internal/sim"
)

func newTestSim(t *testing.T) *sim.Simulation {
	t.Helper()
	cfg := config.DefaultConfig()
	cfg.Workers = 2
	s, err := sim.New(cfg)
	if err != nil {
		t.Fatalf("sim.New: %v", err)
	}
	return s
}

func TestFrameFrom(t *testing.T) {
	s := newTestSim(t)
	defer s.Close()

	f := FrameFrom(s.Snapshot())
	if len(f.Bodies) != 3 {
		t.Fatalf("bodies = %d, want 3", len(f.Bodies))
	}
	if f.Bodies[1].Name != "earth" {
		t.Errorf("body[1] = %q, want earth", f.Bodies[1].Name)
	}
	if f.Energy >= 0 {
		t.Errorf("energy = %v, want negative", f.Energy)
	}

	// Earth sits ~1 au from the barycenter; in render units that is
	// SectorSize-normalized, about 149.6.
	r := f.Bodies[1].Render
	if r[0] < 100 || r[0] > 200 {
		t.Errorf("earth render x = %v, want ~149.6", r[0])
	}

	data, err := json.Marshal(f)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	if !strings.Contains(string(data), `"sim_time"`) {
		t.Errorf("frame JSON missing sim_time: %s", data)
	}
}

func TestStateHandler(t *testing.T) {
	sv := NewServer(newTestSim(t), time.Second)
	ts := httptest.NewServer(sv.StateHandler())
	defer ts.Close()
	defer sv.sim.Close()

	resp, err := http.Get(ts.URL)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusServiceUnavailable {
		t.Errorf("status before first tick = %d, want 503", resp.StatusCode)
	}

	sv.broadcast()

	resp, err = http.Get(ts.URL)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d, want 200", resp.StatusCode)
	}
	var f Frame
	if err := json.NewDecoder(resp.Body).Decode(&f); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(f.Bodies) != 3 {
		t.Errorf("bodies = %d, want 3", len(f.Bodies))
	}
}

func TestServer_StreamsAndShutsDown(t *testing.T) {
	sv := NewServer(newTestSim(t), 5*time.Millisecond)
	mux := http.NewServeMux()
	mux.Handle("/ws", sv.Handler())
	ts := httptest.NewServer(mux)
	defer ts.Close()

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		sv.Run(ctx)
		close(done)
	}()

	url := "ws" + strings.TrimPrefix(ts.URL, "http") + "/ws"
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	if err != nil {
		cancel()
		t.Fatalf("dial: %v", err)
	}
	defer conn.Close()

	conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	var first, second Frame
	if err := conn.ReadJSON(&first); err != nil {
		cancel()
		t.Fatalf("read first frame: %v", err)
	}
	if err := conn.ReadJSON(&second); err != nil {
		cancel()
		t.Fatalf("read second frame: %v", err)
	}

	if len(first.Bodies) != 3 {
		t.Errorf("first frame bodies = %d, want 3", len(first.Bodies))
	}
	if second.SimTime <= first.SimTime {
		t.Errorf("sim time did not advance: %v then %v", first.SimTime, second.SimTime)
	}
	if second.Steps <= first.Steps {
		t.Errorf("steps did not advance: %d then %d", first.Steps, second.Steps)
	}
	if got := sv.Subscribers(); got != 1 {
		t.Errorf("Subscribers = %d, want 1", got)
	}

	cancel()
	<-done

	// Drain until the close frame; the server shuts down cleanly.
	var closeErr error
	for i := 0; i < 100; i++ {
		if _, _, err := conn.ReadMessage(); err != nil {
			closeErr = err
			break
		}
	}
	if !websocket.IsCloseError(closeErr, websocket.CloseNormalClosure) {
		t.Errorf("close error = %v, want normal closure", closeErr)
	}
}

func TestServer_DetectsSubscriberLeaving(t *testing.T) {
	sv := NewServer(newTestSim(t), time.Hour) // never ticks; join/leave only
	mux := http.NewServeMux()
	mux.Handle("/ws", sv.Handler())
	ts := httptest.NewServer(mux)
	defer ts.Close()
	defer sv.sim.Close()

	url := "ws" + strings.TrimPrefix(ts.URL, "http") + "/ws"
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	if err != nil {
		t.Fatalf("dial: %v", err)
	}

	for i := 0; i < 100 && sv.Subscribers() != 1; i++ {
		time.Sleep(5 * time.Millisecond)
	}
	if got := sv.Subscribers(); got != 1 {
		t.Fatalf("Subscribers = %d after dial, want 1", got)
	}

	conn.Close()
	for i := 0; i < 200 && sv.Subscribers() != 0; i++ {
		time.Sleep(5 * time.Millisecond)
	}
	if got := sv.Subscribers(); got != 0 {
		t.Errorf("Subscribers = %d after close, want 0", got)
	}
}
