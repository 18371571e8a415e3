package nbody

import "github.com/CodeByRiley/SpaceTime/internal/vmath"

// AccelInto is the pool-backed counterpart of the package-level AccelInto.
// The outer pair-loop index is partitioned across workers with ChunkRange;
// every worker still scans partners j > i over the full body list, because
// force pairs cross chunk boundaries. Each worker accumulates into its own
// full-length private buffer, and after the batch fence clears the buffers
// are summed into acc serially in worker order, so the reduction has no
// concurrent writers and a fixed rounding order.
//
// With one worker (or fewer than two bodies) the serial kernel runs
// directly. After Shutdown the call is a no-op and acc is left untouched.
func (p *Pool) AccelInto(bodies []Body, acc []vmath.Vector3D, eps2 float64) {
	if p.isClosed() {
		return
	}
	n := len(bodies)
	if p.Workers() == 1 || n < 2 {
		AccelInto(bodies, acc, eps2)
		return
	}

	scratch := p.ensureScratch(n)
	chunks := len(scratch)
	p.Run(func(w int) {
		start, end := ChunkRange(n, w, chunks)
		accelRange(bodies, scratch[w], start, end, eps2)
	})

	for i := range acc {
		acc[i] = vmath.Vector3D{}
	}
	for _, buf := range scratch {
		for i := range buf {
			acc[i] = acc[i].Add(buf[i])
		}
	}
}

// StepVerlet is the pool-backed counterpart of the package-level StepVerlet:
// the same kick-drift-kick stages, each one a fenced parallel batch over a
// ChunkRange partition of the bodies. The fence between stages orders every
// write of one stage before any read of the next, so stage 2 sees all
// drifted positions and stage 3 sees all recomputed accelerations.
//
// With one worker the serial path runs directly. After Shutdown the call is
// a no-op.
func (p *Pool) StepVerlet(bodies []Body, acc []vmath.Vector3D, dt, eps2 float64) {
	if p.isClosed() {
		return
	}
	if p.Workers() == 1 {
		StepVerlet(bodies, acc, dt, eps2)
		return
	}

	n := len(bodies)
	chunks := p.Workers()
	half := dt / 2

	p.Run(func(w int) {
		start, end := ChunkRange(n, w, chunks)
		for i := start; i < end; i++ {
			b := &bodies[i]
			b.Velocity = b.Velocity.Add(acc[i].Scale(half))
			b.World = b.World.AddLocal(b.Velocity.Scale(dt))
		}
	})

	p.AccelInto(bodies, acc, eps2)

	p.Run(func(w int) {
		start, end := ChunkRange(n, w, chunks)
		for i := start; i < end; i++ {
			bodies[i].Velocity = bodies[i].Velocity.Add(acc[i].Scale(half))
		}
	})
}
