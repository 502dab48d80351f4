package engine

// CCDSolver decides how finely a fast-moving body's integration is substepped
// so it cannot cross thin geometry in a single jump.
type CCDSolver struct{}

func NewCCDSolver() *CCDSolver {
	return &CCDSolver{}
}

// Substeps returns the number of integration slices for one body over dt.
// Bodies without CCD, or moving less than half their smallest extent, take a
// single step.
func (s *CCDSolver) Substeps(rb *RigidBody, dt float32, params *IntegrationParameters) int {
	if !rb.ccdEnabled || rb.minExtent <= 0 {
		return 1
	}
	travel := rb.linvel.Len() * dt
	threshold := rb.minExtent * 0.5
	if travel <= threshold {
		return 1
	}
	n := int(travel/threshold) + 1
	if params.MinCCDDt > 0 {
		if maxByDt := int(dt / params.MinCCDDt); n > maxByDt && maxByDt >= 1 {
			n = maxByDt
		}
	}
	if params.MaxCCDSubsteps > 0 && n > params.MaxCCDSubsteps {
		n = params.MaxCCDSubsteps
	}
	if n < 1 {
		n = 1
	}
	return n
}
