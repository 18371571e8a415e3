package nbody

import (
	"sync"
	"sync/atomic"
	"testing"

	"github.com/CodeByRiley/SpaceTime/internal/vmath"
)

func TestChunkRange_Exact(t *testing.T) {
	tests := []struct {
		name      string
		n, chunks int
		want      [][2]int
	}{
		{"even split", 12, 3, [][2]int{{0, 4}, {4, 8}, {8, 12}}},
		{"remainder to earliest", 10, 3, [][2]int{{0, 4}, {4, 7}, {7, 10}}},
		{"one each", 3, 3, [][2]int{{0, 1}, {1, 2}, {2, 3}}},
		{"more chunks than items", 3, 5, [][2]int{{0, 1}, {1, 2}, {2, 3}, {3, 3}, {3, 3}}},
		{"empty", 0, 4, [][2]int{{0, 0}, {0, 0}, {0, 0}, {0, 0}}},
		{"single chunk", 7, 1, [][2]int{{0, 7}}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			for idx, want := range tt.want {
				start, end := ChunkRange(tt.n, idx, tt.chunks)
				if start != want[0] || end != want[1] {
					t.Errorf("ChunkRange(%d, %d, %d) = [%d,%d), want [%d,%d)",
						tt.n, idx, tt.chunks, start, end, want[0], want[1])
				}
			}
		})
	}
}

func TestChunkRange_Coverage(t *testing.T) {
	for n := 0; n <= 50; n++ {
		for chunks := 1; chunks <= 12; chunks++ {
			prev := 0
			for idx := 0; idx < chunks; idx++ {
				start, end := ChunkRange(n, idx, chunks)
				if start != prev {
					t.Fatalf("n=%d chunks=%d idx=%d: start %d, want %d (gap or overlap)",
						n, chunks, idx, start, prev)
				}
				size := end - start
				lo, hi := n/chunks, (n+chunks-1)/chunks
				if size < lo || size > hi {
					t.Fatalf("n=%d chunks=%d idx=%d: size %d outside [%d,%d]",
						n, chunks, idx, size, lo, hi)
				}
				if idx < n%chunks && size != hi {
					t.Fatalf("n=%d chunks=%d idx=%d: size %d, want %d (excess goes to earliest)",
						n, chunks, idx, size, hi)
				}
				prev = end
			}
			if prev != n {
				t.Fatalf("n=%d chunks=%d: chunks end at %d, want %d", n, chunks, prev, n)
			}
		}
	}
}

func TestPool_RunCoversEverySlot(t *testing.T) {
	p := NewPool(4)
	defer p.Shutdown()

	var mu sync.Mutex
	counts := make(map[int]int)
	for batch := 0; batch < 3; batch++ {
		p.Run(func(w int) {
			mu.Lock()
			counts[w]++
			mu.Unlock()
		})
	}

	for w := 0; w < 4; w++ {
		if counts[w] != 3 {
			t.Errorf("slot %d ran %d times, want 3", w, counts[w])
		}
	}
}

func TestPool_CorrectsWorkerCount(t *testing.T) {
	for _, n := range []int{0, -3} {
		p := NewPool(n)
		if got := p.Workers(); got < 1 {
			t.Errorf("NewPool(%d).Workers() = %d, want >= 1", n, got)
		}
		p.Shutdown()
	}
}

func TestPool_SetWorkers(t *testing.T) {
	p := NewPool(2)
	defer p.Shutdown()

	p.SetWorkers(5)
	if got := p.Workers(); got != 5 {
		t.Fatalf("Workers = %d, want 5", got)
	}

	// The rebuilt pool must still run full batches.
	var ran int64
	p.Run(func(int) { atomic.AddInt64(&ran, 1) })
	if ran != 5 {
		t.Errorf("batch ran %d jobs, want 5", ran)
	}

	p.SetWorkers(1)
	if got := p.Workers(); got != 1 {
		t.Errorf("Workers = %d, want 1", got)
	}
	p.SetWorkers(0)
	if got := p.Workers(); got < 1 {
		t.Errorf("Workers = %d after SetWorkers(0), want >= 1", got)
	}
}

func TestPool_ShutdownIdempotent(t *testing.T) {
	p := NewPool(3)
	p.Shutdown()
	p.Shutdown() // second call must not panic or hang
}

func TestPool_SubmitAfterShutdown(t *testing.T) {
	p := NewPool(3)
	p.Shutdown()

	var ran int64
	p.Run(func(int) { atomic.AddInt64(&ran, 1) })
	if ran != 0 {
		t.Errorf("post-shutdown Run executed %d jobs, want 0", ran)
	}

	p.SetWorkers(8) // must be ignored, not rebuild a dead pool
	p.Run(func(int) { atomic.AddInt64(&ran, 1) })
	if ran != 0 {
		t.Errorf("post-shutdown SetWorkers revived the pool")
	}
}

func TestPool_ShutdownDrainsInFlight(t *testing.T) {
	p := NewPool(4)

	started := make(chan struct{})
	release := make(chan struct{})
	var done int64

	go p.Run(func(w int) {
		if w == 0 {
			close(started)
			<-release
		}
		atomic.AddInt64(&done, 1)
	})

	<-started
	go func() { release <- struct{}{} }()
	p.Shutdown()

	if got := atomic.LoadInt64(&done); got != 4 {
		t.Errorf("after Shutdown %d of 4 in-flight jobs completed", got)
	}
}

func TestPool_AccelIntoAfterShutdownIsNoop(t *testing.T) {
	p := NewPool(4)
	p.Shutdown()

	bodies := twoBody(1e30, 1e24, 1e11)
	acc := []vmath.Vector3D{{X: 42}, {Y: 7}}
	p.AccelInto(bodies, acc, 0)

	if acc[0] != (vmath.Vector3D{X: 42}) || acc[1] != (vmath.Vector3D{Y: 7}) {
		t.Errorf("post-shutdown AccelInto mutated acc: %v", acc)
	}

	before := bodies[1].World
	p.StepVerlet(bodies, acc, 1.0, 0)
	if bodies[1].World != before {
		t.Errorf("post-shutdown StepVerlet moved a body")
	}
}
