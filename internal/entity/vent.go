package entity

// CoreTruth is a deep-sea vent: a fixed heat source with a spatial
// radius that influences any concept passing through its band.
// Vents are created at boot or via command and are never destroyed.
type CoreTruth struct {
	Name            string
	HeatOutput      float64
	Depth           float64
	Radius          float64
	ActivationCount uint64
}

// NewCoreTruth constructs a vent with the given physical parameters.
func NewCoreTruth(name string, heatOutput, depth, radius float64) *CoreTruth {
	return &CoreTruth{
		Name:       name,
		HeatOutput: heatOutput,
		Depth:      depth,
		Radius:     radius,
	}
}

// PrimalAxiom is the default vent present at boot: depth 0.9, radius
// 0.3, heat 1.0.
func PrimalAxiom() *CoreTruth {
	return NewCoreTruth("primal axiom", 1.0, 0.9, 0.3)
}

// InRadius reports whether the given layer falls within this vent's
// band of influence.
func (v *CoreTruth) InRadius(layer float64) bool {
	d := layer - v.Depth
	if d < 0 {
		d = -d
	}
	return d < v.Radius
}

// Proximity returns 1 at the vent's center, falling linearly to 0 at
// the edge of its radius. Used by Stage A to scale thermal influence.
func (v *CoreTruth) Proximity(layer float64) float64 {
	d := layer - v.Depth
	if d < 0 {
		d = -d
	}
	p := 1 - d/v.Radius
	if p < 0 {
		return 0
	}
	return p
}
