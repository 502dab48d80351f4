package bridge

import (
	"go.uber.org/zap"

	"github.com/solumlabs/physbridge/internal/engine"
)

// Solve advances the simulation one fixed step and returns the collision
// events it produced. The returned buffer is owned by the caller and must be
// released with FreeCollisionEvents exactly once. A nil return means no
// world exists; no step was taken.
func Solve() *EventBuffer {
	w := requireWorld("solve")
	if w == nil {
		return nil
	}

	collector := engine.NewEventList()
	w.pipeline.Step(
		w.gravity,
		&w.params,
		w.islands,
		w.broadPhase,
		w.narrowPhase,
		w.bodies,
		w.colliders,
		w.impulseJoints,
		w.multibodyJoints,
		w.ccd,
		w.queries,
		collector,
	)

	raw := collector.Drain()
	events := make([]CollisionEvent, 0, len(raw))
	for _, e := range raw {
		switch {
		case e.Started(), e.Stopped():
			events = append(events, CollisionEvent{
				Collider1: encodeColliderHandle(e.Collider1),
				Collider2: encodeColliderHandle(e.Collider2),
				Started:   e.Started(),
			})
		default:
			logger.Warn("unknown collision event",
				zap.Uint64("collider1", packHandle(engine.Handle(e.Collider1))),
				zap.Uint64("collider2", packHandle(engine.Handle(e.Collider2))))
		}
	}

	buf := &EventBuffer{events: events}
	w.liveBuffers[buf] = struct{}{}
	return buf
}

// FreeCollisionEvents releases a buffer returned by Solve. Releasing the
// same buffer twice, or one this world never issued, is a caller error and
// is logged.
func FreeCollisionEvents(buf *EventBuffer) {
	if buf == nil {
		return
	}
	w := requireWorld("free_collision_events")
	if w == nil {
		return
	}
	if _, ok := w.liveBuffers[buf]; !ok {
		logger.Warn("collision event buffer already released or unknown")
		return
	}
	delete(w.liveBuffers, buf)
	buf.events = nil
}

// LiveEventBuffers reports how many Solve buffers are still unreleased, for
// harnesses that track the transfer-then-release discipline.
func LiveEventBuffers() int {
	w := requireWorld("live_event_buffers")
	if w == nil {
		return 0
	}
	return len(w.liveBuffers)
}
