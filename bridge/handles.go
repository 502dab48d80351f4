package bridge

import (
	"math"

	"github.com/solumlabs/physbridge/internal/engine"
)

// Handles cross the boundary as a single 64-bit value packing the arena
// slot index in the low half and the generation in the high half. The
// all-ones value is the invalid sentinel for every handle kind.

type (
	RigidBodyHandle uint64
	ColliderHandle  uint64
	JointHandle     uint64
)

const (
	InvalidRigidBodyHandle RigidBodyHandle = math.MaxUint64
	InvalidColliderHandle  ColliderHandle  = math.MaxUint64
	InvalidJointHandle     JointHandle     = math.MaxUint64
)

func packHandle(h engine.Handle) uint64 {
	return uint64(h.Generation)<<32 | uint64(h.Index)
}

func unpackHandle(v uint64) engine.Handle {
	return engine.Handle{
		Index:      uint32(v),
		Generation: uint32(v >> 32),
	}
}

func encodeRigidBodyHandle(h engine.RigidBodyHandle) RigidBodyHandle {
	return RigidBodyHandle(packHandle(engine.Handle(h)))
}

func decodeRigidBodyHandle(h RigidBodyHandle) engine.RigidBodyHandle {
	return engine.RigidBodyHandle(unpackHandle(uint64(h)))
}

func encodeColliderHandle(h engine.ColliderHandle) ColliderHandle {
	return ColliderHandle(packHandle(engine.Handle(h)))
}

func decodeColliderHandle(h ColliderHandle) engine.ColliderHandle {
	return engine.ColliderHandle(unpackHandle(uint64(h)))
}

func encodeJointHandle(h engine.ImpulseJointHandle) JointHandle {
	return JointHandle(packHandle(engine.Handle(h)))
}

func decodeJointHandle(h JointHandle) engine.ImpulseJointHandle {
	return engine.ImpulseJointHandle(unpackHandle(uint64(h)))
}
