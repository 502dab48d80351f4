package engine

// IntegrationParameters holds the solver configuration for one step.
type IntegrationParameters struct {
	// Dt is the fixed timestep advanced by one step, in seconds.
	Dt float32
	// MinCCDDt is the smallest substep CCD may take.
	MinCCDDt float32

	NumSolverIterations                int
	NumInternalPGSIterations           int
	NumAdditionalFrictionIterations    int
	NumInternalStabilizationIterations int
	MaxCCDSubsteps                     int

	ContactDampingRatio float32
	JointDampingRatio   float32

	ContactNaturalFrequency float32
	JointNaturalFrequency   float32

	NormalizedPredictionDistance    float32
	NormalizedMaxCorrectiveVelocity float32

	LengthUnit float32
}

func DefaultIntegrationParameters() IntegrationParameters {
	return IntegrationParameters{
		Dt:                                 1.0 / 60.0,
		MinCCDDt:                           1.0 / 60.0 / 100.0,
		NumSolverIterations:                4,
		NumInternalPGSIterations:           1,
		NumAdditionalFrictionIterations:    4,
		NumInternalStabilizationIterations: 2,
		MaxCCDSubsteps:                     4,
		ContactDampingRatio:                5.0,
		JointDampingRatio:                  1.0,
		ContactNaturalFrequency:            30.0,
		JointNaturalFrequency:              1.0e6,
		NormalizedPredictionDistance:       0.002,
		NormalizedMaxCorrectiveVelocity:    10.0,
		LengthUnit:                         1.0,
	}
}
