// Package telemetry streams simulation snapshots to websocket subscribers.
// The server owns the simulation: it advances it on a fixed wall tick and
// broadcasts one JSON frame per tick, so every subscriber sees the same
// state the integrator produced.
package telemetry

import (
	"context"
	"encoding/json"
	"log"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"github.com/CodeByRiley/SpaceTime/internal/nbody"
	"github.com/CodeByRiley/SpaceTime/internal/sim"
	"github.com/CodeByRiley/SpaceTime/internal/space"
)

const writeWait = 5 * time.Second

// BodyState is the wire form of one body. Render is the body's position
// relative to the set's barycenter in render units, ready for a thin client
// to plot without sector arithmetic.
type BodyState struct {
	Name     string     `json:"name"`
	Sector   [3]int64   `json:"sector"`
	Local    [3]float64 `json:"local"`
	Velocity [3]float64 `json:"velocity"`
	Render   [3]float32 `json:"render"`
	Color    string     `json:"color,omitempty"`
}

// Frame is one broadcast tick.
type Frame struct {
	SimTime   float64     `json:"sim_time"`
	TimeScale float64     `json:"time_scale"`
	Steps     uint64      `json:"steps"`
	Workers   int         `json:"workers"`
	Energy    float64     `json:"energy"`
	Bodies    []BodyState `json:"bodies"`
}

// FrameFrom converts a snapshot to its wire form.
func FrameFrom(snap sim.Snapshot) Frame {
	camera := nbody.Barycenter(snap.Bodies)
	f := Frame{
		SimTime:   snap.SimTime,
		TimeScale: snap.TimeScale,
		Steps:     snap.Steps,
		Workers:   snap.Workers,
		Energy:    snap.Energy,
		Bodies:    make([]BodyState, len(snap.Bodies)),
	}
	for i := range snap.Bodies {
		b := &snap.Bodies[i]
		f.Bodies[i] = BodyState{
			Name:     b.Def.Name,
			Sector:   [3]int64{b.World.Sector.X, b.World.Sector.Y, b.World.Sector.Z},
			Local:    [3]float64{b.World.Local.X, b.World.Local.Y, b.World.Local.Z},
			Velocity: [3]float64{b.Velocity.X, b.Velocity.Y, b.Velocity.Z},
			Render:   space.ToRender(b.World, camera),
			Color:    b.Color,
		}
	}
	return f
}

// Server advances a simulation on a wall tick and fans frames out to
// websocket subscribers.
type Server struct {
	sim      *sim.Simulation
	interval time.Duration
	upgrader websocket.Upgrader

	mu        sync.Mutex
	subs      map[*websocket.Conn]struct{}
	lastFrame []byte
}

// NewServer wraps s. A non-positive interval defaults to 30 ticks/second.
// The server owns s from here on: Run advances it and closes it on exit.
func NewServer(s *sim.Simulation, interval time.Duration) *Server {
	if interval <= 0 {
		interval = time.Second / 30
	}
	return &Server{
		sim:      s,
		interval: interval,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin:     func(*http.Request) bool { return true },
		},
		subs: make(map[*websocket.Conn]struct{}),
	}
}

// Handler returns the websocket endpoint. Subscribers receive every frame
// broadcast after they join; anything they send is discarded.
func (sv *Server) Handler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		conn, err := sv.upgrader.Upgrade(w, r, nil)
		if err != nil {
			log.Printf("telemetry: upgrade failed: %v", err)
			return
		}
		sv.add(conn)
		go sv.readUntilClose(conn)
	})
}

// StateHandler serves the most recent frame as plain JSON, 503 before the
// first tick.
func (sv *Server) StateHandler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		sv.mu.Lock()
		frame := sv.lastFrame
		sv.mu.Unlock()
		if frame == nil {
			http.Error(w, "no frame yet", http.StatusServiceUnavailable)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		w.Write(frame)
	})
}

// Run ticks the simulation and broadcasts until ctx is done, then closes
// every subscriber and the simulation. Returns nil on a clean stop.
func (sv *Server) Run(ctx context.Context) error {
	ticker := time.NewTicker(sv.interval)
	defer ticker.Stop()
	defer sv.sim.Close()
	defer sv.closeAll()

	dt := sv.interval.Seconds()
	for {
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
			sv.sim.Advance(dt)
			sv.broadcast()
		}
	}
}

// Subscribers reports the current subscriber count.
func (sv *Server) Subscribers() int {
	sv.mu.Lock()
	defer sv.mu.Unlock()
	return len(sv.subs)
}

func (sv *Server) add(conn *websocket.Conn) {
	sv.mu.Lock()
	sv.subs[conn] = struct{}{}
	n := len(sv.subs)
	sv.mu.Unlock()
	log.Printf("telemetry: subscriber joined (%d active)", n)
}

func (sv *Server) remove(conn *websocket.Conn) {
	sv.mu.Lock()
	_, ok := sv.subs[conn]
	if ok {
		delete(sv.subs, conn)
	}
	n := len(sv.subs)
	sv.mu.Unlock()
	if ok {
		conn.Close()
		log.Printf("telemetry: subscriber left (%d active)", n)
	}
}

// readUntilClose drains the connection so close frames are processed, then
// deregisters it.
func (sv *Server) readUntilClose(conn *websocket.Conn) {
	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			sv.remove(conn)
			return
		}
	}
}

func (sv *Server) broadcast() {
	data, err := json.Marshal(FrameFrom(sv.sim.Snapshot()))
	if err != nil {
		log.Printf("telemetry: marshal failed: %v", err)
		return
	}

	sv.mu.Lock()
	sv.lastFrame = data
	conns := make([]*websocket.Conn, 0, len(sv.subs))
	for conn := range sv.subs {
		conns = append(conns, conn)
	}
	sv.mu.Unlock()

	for _, conn := range conns {
		conn.SetWriteDeadline(time.Now().Add(writeWait))
		if err := conn.WriteMessage(websocket.TextMessage, data); err != nil {
			log.Printf("telemetry: dropping subscriber: %v", err)
			sv.remove(conn)
		}
	}
}

func (sv *Server) closeAll() {
	sv.mu.Lock()
	conns := make([]*websocket.Conn, 0, len(sv.subs))
	for conn := range sv.subs {
		conns = append(conns, conn)
	}
	sv.subs = make(map[*websocket.Conn]struct{})
	sv.mu.Unlock()

	for _, conn := range conns {
		conn.SetWriteDeadline(time.Now().Add(writeWait))
		conn.WriteMessage(websocket.CloseMessage,
			websocket.FormatCloseMessage(websocket.CloseNormalClosure, "server shutting down"))
		conn.Close()
	}
}
