package entity

// ConceptView is the read-only projection of a Concept returned by
// query endpoints. It is a plain value copy, never a pointer into the
// live map, so readers can never observe a half-integrated concept
// mid-tick and callers can never mutate the fluid through it.
type ConceptView struct {
	ID          ConceptID
	Name        string
	Density     float64
	Buoyancy    float64
	Area        float64
	Layer       float64
	Velocity    float64
	Integration float64
	VentCycles  uint64
	Status      string
}

// ConceptViewOf copies a Concept into its read-only view.
func ConceptViewOf(c *Concept) ConceptView {
	return ConceptView{
		ID:          c.ID,
		Name:        c.Name,
		Density:     c.Density,
		Buoyancy:    c.Buoyancy,
		Area:        c.Area,
		Layer:       c.Layer,
		Velocity:    c.Velocity,
		Integration: c.Integration,
		VentCycles:  c.VentCycles,
		Status:      c.Status.String(),
	}
}

// VentView is the read-only projection of a CoreTruth.
type VentView struct {
	Name             string
	HeatOutput       float64
	Depth            float64
	Radius           float64
	ActivationCount  uint64
}

func VentViewOf(v *CoreTruth) VentView {
	return VentView{
		Name:            v.Name,
		HeatOutput:      v.HeatOutput,
		Depth:           v.Depth,
		Radius:          v.Radius,
		ActivationCount: v.ActivationCount,
	}
}

// OreView is the read-only projection of a PreciousOre.
type OreView struct {
	Name              string
	Depth             float64
	Kind              string
	Pressure          float64
	OriginConceptName string
}

func OreViewOf(o *PreciousOre) OreView {
	return OreView{
		Name:              o.Name,
		Depth:             o.Depth,
		Kind:              o.Kind.String(),
		Pressure:          o.Pressure,
		OriginConceptName: o.OriginConceptName,
	}
}

// ContinentView is the read-only projection of a Continent.
type ContinentView struct {
	Name              string
	FormationPressure float64
	Composition       map[string]int
}

func ContinentViewOf(c *Continent) ContinentView {
	comp := make(map[string]int, len(c.Composition))
	for k, v := range c.Composition {
		comp[k.String()] = v
	}
	return ContinentView{
		Name:              c.Name,
		FormationPressure: c.FormationPressure,
		Composition:       comp,
	}
}

// Strata is the read-only view returned by the fluid's strata query:
// all concepts and ores whose layer falls within [DepthMin, DepthMax].
type Strata struct {
	DepthMin     float64
	DepthMax     float64
	Concepts     []ConceptView
	Ores         []OreView
	TotalConcepts int
	TotalOres     int
}

// FullState is the read-only full-snapshot view returned by /state.
type FullState struct {
	Concepts    []ConceptView
	Vents       []VentView
	Ores        []OreView
	Continents  []ContinentView
	Salinity    float64
	Turbulence  float64
	Frozen      bool
	Tick        uint64
	OrePressure float64
}
