package nbody

import (
	"runtime"
	"sync"

	"github.com/CodeByRiley/SpaceTime/internal/vmath"
)

// ChunkRange splits n items into near-equal contiguous chunks and returns
// the half-open range [start, end) of chunk idx. The first n mod chunks
// chunks each hold one extra item, so coverage is gapless and the layout is
// reproducible for any (n, chunks).
func ChunkRange(n, idx, chunks int) (start, end int) {
	base := n / chunks
	rem := n % chunks
	if idx < rem {
		start = idx * (base + 1)
		return start, start + base + 1
	}
	start = rem*(base+1) + (idx-rem)*base
	return start, start + base
}

// Pool runs per-worker jobs for the parallel kernels. Workers are fixed
// goroutines fed from one channel; a batch fence blocks the submitter until
// every job of the batch has finished, so results are never read while a
// worker still writes.
//
// One goroutine owns submission, resize, and shutdown (the simulation loop).
// A batch always runs to completion; the only cancellation point is
// Shutdown, which latches against new batches before it drains.
type Pool struct {
	mu      sync.Mutex
	jobs    chan func()
	join    sync.WaitGroup
	fence   sync.WaitGroup
	workers int
	closed  bool
	scratch [][]vmath.Vector3D
}

// NewPool returns a running pool. A non-positive count is corrected to the
// logical CPU count, minimum one.
func NewPool(workers int) *Pool {
	p := &Pool{}
	p.start(normalizeWorkers(workers))
	return p
}

func normalizeWorkers(n int) int {
	if n <= 0 {
		n = runtime.NumCPU()
	}
	if n < 1 {
		n = 1
	}
	return n
}

func (p *Pool) start(n int) {
	p.workers = n
	p.jobs = make(chan func(), n)
	p.scratch = make([][]vmath.Vector3D, n)
	p.join.Add(n)
	for i := 0; i < n; i++ {
		go p.worker()
	}
}

func (p *Pool) worker() {
	defer p.join.Done()
	for job := range p.jobs {
		job()
	}
}

// Workers reports the current worker count.
func (p *Pool) Workers() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.workers
}

func (p *Pool) isClosed() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.closed
}

// Run submits one job per worker slot and blocks until all of them have
// completed. The worker argument is the job's slot index 0..Workers()-1;
// jobs must confine their writes to memory owned by that slot. After
// Shutdown, Run is a no-op.
func (p *Pool) Run(job func(worker int)) {
	p.mu.Lock()
	if p.closed {
		p.mu.Unlock()
		return
	}
	n := p.workers
	p.fence.Add(n)
	for w := 0; w < n; w++ {
		w := w
		p.jobs <- func() {
			defer p.fence.Done()
			job(w)
		}
	}
	p.mu.Unlock()
	p.fence.Wait()
}

// SetWorkers drains in-flight work, joins every worker, releases the scratch
// buffers, and rebuilds the pool at the new count. No partial resize happens
// while workers are active. A non-positive count is corrected as in NewPool;
// after Shutdown the call is a no-op.
func (p *Pool) SetWorkers(n int) {
	n = normalizeWorkers(n)
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.closed || n == p.workers {
		return
	}
	p.fence.Wait()
	close(p.jobs)
	p.join.Wait()
	p.scratch = nil
	p.start(n)
}

// Shutdown latches the pool against new submissions, waits for the in-flight
// batch to clear, then joins the workers and frees their buffers. The latch
// is set before the wait, so a submission racing with Shutdown either joins
// the final drain or is dropped; it is never accepted during teardown.
// Shutdown is idempotent.
func (p *Pool) Shutdown() {
	p.mu.Lock()
	if p.closed {
		p.mu.Unlock()
		return
	}
	p.closed = true
	p.mu.Unlock()

	p.fence.Wait()
	close(p.jobs)
	p.join.Wait()

	p.mu.Lock()
	p.scratch = nil
	p.mu.Unlock()
}

// ensureScratch sizes every worker's private accumulator to n and zeroes it.
// Only the submitting goroutine calls this, between batches.
func (p *Pool) ensureScratch(n int) [][]vmath.Vector3D {
	p.mu.Lock()
	defer p.mu.Unlock()
	for w := range p.scratch {
		if len(p.scratch[w]) != n {
			p.scratch[w] = make([]vmath.Vector3D, n)
			continue
		}
		buf := p.scratch[w]
		for i := range buf {
			buf[i] = vmath.Vector3D{}
		}
	}
	return p.scratch
}
