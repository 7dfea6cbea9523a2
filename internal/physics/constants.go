// Package physics implements the per-tick kernel: the eight ordered
// stages (A-H) that advance one concept's physical state and the
// fluid's global scalars, per spec.md §4.1.
package physics

// Constants bundles every tunable physics coefficient. Defaults match
// spec.md §4/§9 exactly; a Config preset (internal/config) may
// override individual fields when constructing a simulation.
type Constants struct {
	KThermal float64 // Stage A thermal influence gain
	KS       float64 // salinity's contribution to effective viscosity
	CD       float64 // drag coefficient in Stage B's net-force equation
	EpsilonV float64 // velocity deadband for status classification
	EBreak   float64 // kinetic energy threshold for surface breakthrough
	KInt     float64 // Stage F integration-drift gain

	// Division subsystem (§4.5).
	KA     float64 // node attraction gain
	Sigma  float64 // Lennard-Jones length scale
	Eps    float64 // Lennard-Jones well depth
	RCut   float64 // Lennard-Jones cutoff radius

	SurfaceEvaporateTicks uint64 // Stage E: ticks at surface before evaporation
	SurfaceFreezeTicks    uint64 // Stage E: ticks at surface before freeze

	MineralizationLayer     float64 // Stage D: layer threshold
	MineralizationVentCycles uint64 // Stage D: vent entries required (Concept.VentCycles, a running total never reset)

	// Stage D kind rule thresholds. The kernel classifies ore with
	// entity.ClassifyOre, which uses these same values as literals and
	// does not read these fields.
	OreArtAreaThreshold     float64
	OreCodeDensityThreshold float64
	OreWritingIntegration   float64

	DefaultPressureThreshold float64 // Stage G default
}

// DefaultConstants returns the concrete defaults spec.md §4 and §9
// prescribe.
func DefaultConstants() Constants {
	return Constants{
		KThermal: 0.5,
		KS:       0.3,
		CD:       0.2,
		EpsilonV: 0.01,
		EBreak:   0.05,
		KInt:     0.1,

		KA:    2.0,
		Sigma: 0.02,
		Eps:   0.001,
		RCut:  0.1,

		SurfaceEvaporateTicks: 120,
		SurfaceFreezeTicks:    600,

		MineralizationLayer:      0.9,
		MineralizationVentCycles: 3,

		OreArtAreaThreshold:     0.8,
		OreCodeDensityThreshold: 0.2,
		OreWritingIntegration:   0.7,

		DefaultPressureThreshold: 10.0,
	}
}
