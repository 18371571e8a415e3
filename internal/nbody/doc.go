// Package nbody implements pairwise Newtonian gravity over sector-addressed
// world positions, a Velocity-Verlet integrator, and a worker pool that
// parallelizes both.
//
// The force kernel visits each unordered body pair once and applies
// Plummer-style softening, so close encounters saturate instead of blowing
// up. Accelerations live in caller-owned buffers indexed by body:
//
//   - [AccelInto] computes them single-threaded
//   - [Pool.AccelInto] fans the outer loop out across workers, each writing
//     a private full-length accumulator, then reduces serially
//   - [StepVerlet] and [Pool.StepVerlet] advance bodies one kick-drift-kick
//     step, reusing the acceleration buffer across steps
//
// A Pool is an owned object, not process state. Construct one per
// simulation, resize it with [Pool.SetWorkers], and release it with
// [Pool.Shutdown]; independent simulations in one process get independent
// pools.
package nbody
