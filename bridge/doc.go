// Package bridge exposes the physics engine to a host application through a
// flat function surface: opaque integer handles, primitive parameters, and
// explicitly released event buffers. It is the only package a host embeds;
// everything behind it stays internal.
//
// The package manages one world at a time:
//
//   - Init creates the world with default gravity and timestep and registers
//     the host's logger. Teardown discards it and invalidates every handle.
//   - Entity calls (colliders, rigid bodies, joints) mutate the world and
//     return handles that stay valid until the entity is removed.
//   - Solve advances the simulation one fixed step and returns the collision
//     events as a buffer whose ownership passes to the caller;
//     FreeCollisionEvents must be called exactly once per buffer.
//
// All calls are synchronous and must be serialized by the host; the world is
// not guarded by a lock. Calls made while no world exists log a warning and
// return a zero value or invalid handle rather than panicking.
package bridge
