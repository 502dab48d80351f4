package bridge

import (
	"github.com/go-gl/mathgl/mgl32"
	"go.uber.org/zap"

	"github.com/solumlabs/physbridge/internal/engine"
)

// world aggregates every piece of simulation state for the single active
// scene: entity sets, solver configuration, and the transient pipelines the
// step executor drives.
type world struct {
	gravity mgl32.Vec3
	params  engine.IntegrationParameters

	pipeline        *engine.Pipeline
	islands         *engine.IslandManager
	broadPhase      *engine.BroadPhase
	narrowPhase     *engine.NarrowPhase
	ccd             *engine.CCDSolver
	queries         *engine.QueryPipeline
	bodies          *engine.RigidBodySet
	colliders       *engine.ColliderSet
	impulseJoints   *engine.ImpulseJointSet
	multibodyJoints *engine.MultibodyJointSet

	// liveBuffers tracks event buffers handed out by Solve and not yet
	// released, so leaks and double frees show up in instrumented harnesses.
	liveBuffers map[*EventBuffer]struct{}
}

func newWorld() *world {
	params := engine.DefaultIntegrationParameters()
	params.Dt = 1.0 / 50.0
	params.MinCCDDt = params.Dt / 100.0
	return &world{
		gravity:         mgl32.Vec3{0, -9.81, 0},
		params:          params,
		pipeline:        engine.NewPipeline(),
		islands:         engine.NewIslandManager(),
		broadPhase:      engine.NewBroadPhase(),
		narrowPhase:     engine.NewNarrowPhase(),
		ccd:             engine.NewCCDSolver(),
		queries:         engine.NewQueryPipeline(),
		bodies:          engine.NewRigidBodySet(),
		colliders:       engine.NewColliderSet(),
		impulseJoints:   engine.NewImpulseJointSet(),
		multibodyJoints: engine.NewMultibodyJointSet(),
		liveBuffers:     make(map[*EventBuffer]struct{}),
	}
}

var (
	current *world
	logger  = zap.NewNop()
)

// Init constructs the world with default gravity (0, -9.81, 0) and timestep
// 1/50 s, replacing any previous world. The supplied logger receives all
// diagnostics; nil keeps the current one.
func Init(log *zap.Logger) {
	if log != nil {
		logger = log
	}
	current = newWorld()
}

// Teardown discards the world. Every handle issued so far becomes invalid.
func Teardown() {
	current = nil
}

// HelloWorld emits a log line so hosts can verify the logger hookup.
func HelloWorld() {
	logger.Info("hello, cake")
}

// requireWorld fetches the active world, logging a warning when none exists.
// Callers treat a nil return as "do nothing and hand back a zero value".
func requireWorld(op string) *world {
	if current == nil {
		logger.Warn("physics world is not initialized", zap.String("op", op))
		return nil
	}
	return current
}

func SetGravity(x, y, z float32) {
	w := requireWorld("set_gravity")
	if w == nil {
		return
	}
	w.gravity = mgl32.Vec3{x, y, z}
}

// SetTimeStep updates the fixed timestep; the minimum CCD timestep follows
// at dt/100.
func SetTimeStep(dt float32) {
	w := requireWorld("set_time_step")
	if w == nil {
		return
	}
	w.params.Dt = dt
	w.params.MinCCDDt = dt / 100.0
}

// SetIntegrationParameters replaces the solver configuration wholesale.
// A zero solverIterations falls back to 4.
func SetIntegrationParameters(
	dt float32,
	solverIterations int,
	pgsIterations int,
	frictionIterations int,
	stabilizationIterations int,
	ccdSubsteps int,
	contactDamping float32,
	jointDamping float32,
	contactFrequency float32,
	jointFrequency float32,
	predictionDistance float32,
	maxCorrectiveVelocity float32,
	lengthUnit float32,
) {
	w := requireWorld("set_integration_parameters")
	if w == nil {
		return
	}
	if solverIterations <= 0 {
		solverIterations = 4
	}
	w.params.Dt = dt
	w.params.MinCCDDt = dt / 100.0
	w.params.NumSolverIterations = solverIterations
	w.params.NumInternalPGSIterations = pgsIterations
	w.params.NumAdditionalFrictionIterations = frictionIterations
	w.params.NumInternalStabilizationIterations = stabilizationIterations
	w.params.MaxCCDSubsteps = ccdSubsteps
	w.params.ContactDampingRatio = contactDamping
	w.params.JointDampingRatio = jointDamping
	w.params.ContactNaturalFrequency = contactFrequency
	w.params.JointNaturalFrequency = jointFrequency
	w.params.NormalizedPredictionDistance = predictionDistance
	w.params.NormalizedMaxCorrectiveVelocity = maxCorrectiveVelocity
	w.params.LengthUnit = lengthUnit
}

// Gravity reports the world's current gravity vector.
func Gravity() (x, y, z float32) {
	w := requireWorld("gravity")
	if w == nil {
		return 0, 0, 0
	}
	return w.gravity[0], w.gravity[1], w.gravity[2]
}

// TimeStep reports the configured fixed timestep.
func TimeStep() float32 {
	w := requireWorld("time_step")
	if w == nil {
		return 0
	}
	return w.params.Dt
}

// SolverIterations reports the configured solver iteration count.
func SolverIterations() int {
	w := requireWorld("solver_iterations")
	if w == nil {
		return 0
	}
	return w.params.NumSolverIterations
}
