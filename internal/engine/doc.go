// Package engine implements the rigid-body simulation library behind the
// boundary package.
//
// The engine is organized around a set of independent structures that the
// caller owns and threads through [Pipeline.Step]:
//
//   - [RigidBodySet], [ColliderSet], [ImpulseJointSet]: generational arenas
//     assigning a stable [Handle] to every inserted entity
//   - [BroadPhase]: sweep-and-prune candidate pair generation
//   - [NarrowPhase]: contact computation and the overlap graph that drives
//     collision start/stop events
//   - [IslandManager]: sleep bookkeeping
//   - [CCDSolver]: substep counts for fast movers
//   - [QueryPipeline]: raycast acceleration over collider bounds
//
// A step integrates awake bodies with semi-implicit Euler, detects contacts
// (analytic tests for ball and capsule pairs, GJK/EPA over support mappings
// for the rest), resolves them with impulses plus positional correction, and
// emits collision events through an [EventCollector].
//
// Contact response is linear; rotational response comes from explicit
// torques and joint constraints only.
//
// Nothing in this package is safe for concurrent use. The caller serializes
// all access, including stepping.
package engine
