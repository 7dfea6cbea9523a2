package fluid

import (
	"github.com/google/uuid"

	"github.com/san-kum/fluidmind/internal/entity"
	"github.com/san-kum/fluidmind/internal/event"
)

// InsertConcept creates a concept with the given density/volume and
// returns its id. Caller must hold the write lock.
func (f *Fluid) InsertConcept(name string, density, volume float64) entity.ConceptID {
	id := uuid.New()
	c := entity.NewConcept(id, name, density, volume)
	f.insertConceptLocked(c)
	return id
}

// ApplyBallast nudges a concept's density by delta, clamped to [0,1],
// and registers a 60-tick catalysis watch: the kernel emits catalysis
// if the concept reaches layer >= 0.95 before the watch expires.
// Returns ErrNoSuchConcept if id is unknown.
func (f *Fluid) ApplyBallast(id entity.ConceptID, delta float64) error {
	c, ok := f.concepts[id]
	if !ok {
		return ErrNoSuchConcept
	}
	c.Density = clampUnit(c.Density + delta)
	f.WatchForCatalysis(id)
	return nil
}

// ModulateBuoyancy nudges a concept's buoyancy by delta, clamped to
// [0,1].
func (f *Fluid) ModulateBuoyancy(id entity.ConceptID, delta float64) error {
	c, ok := f.concepts[id]
	if !ok {
		return ErrNoSuchConcept
	}
	c.Buoyancy = clampUnit(c.Buoyancy + delta)
	return nil
}

// AddVent appends a new vent with the given parameters.
func (f *Fluid) AddVent(name string, heatOutput, depth, radius float64) {
	f.vents = append(f.vents, entity.NewCoreTruth(name, heatOutput, depth, radius))
}

// ListVents returns a read-only view of every vent.
func (f *Fluid) ListVents() []entity.VentView {
	views := make([]entity.VentView, len(f.vents))
	for i, v := range f.vents {
		views[i] = entity.VentViewOf(v)
	}
	return views
}

// GetVent returns a read-only view of the vent at index i.
func (f *Fluid) GetVent(i int) (entity.VentView, error) {
	if i < 0 || i >= len(f.vents) {
		return entity.VentView{}, ErrNoSuchVent
	}
	return entity.VentViewOf(f.vents[i]), nil
}

// Strata returns a read-only snapshot of every concept and ore whose
// layer/depth falls within [depthMin, depthMax].
func (f *Fluid) Strata(depthMin, depthMax float64) entity.Strata {
	s := entity.Strata{DepthMin: depthMin, DepthMax: depthMax}
	for _, id := range f.conceptOrder {
		c := f.concepts[id]
		if c.Layer >= depthMin && c.Layer <= depthMax {
			s.Concepts = append(s.Concepts, entity.ConceptViewOf(c))
		}
	}
	for i := range f.ores {
		o := &f.ores[i]
		if o.Depth >= depthMin && o.Depth <= depthMax {
			s.Ores = append(s.Ores, entity.OreViewOf(o))
		}
	}
	s.TotalConcepts = len(f.concepts)
	s.TotalOres = len(f.ores)
	return s
}

// Thaw clears the frozen flag. Returns the tick it happened on so the
// caller can build the thaw event.
func (f *Fluid) Thaw() uint64 {
	f.Frozen = false
	f.FreezerID = uuid.Nil
	return f.Tick
}

// DeepBreath scales every concept's velocity by (1-strength). strength
// must already be clamped to [0,1] by the caller.
func (f *Fluid) DeepBreath(strength float64) {
	factor := 1 - strength
	for _, id := range f.conceptOrder {
		f.concepts[id].Velocity *= factor
	}
}

// FlashHealConcept is one concept to insert as part of a flash heal.
type FlashHealConcept struct {
	Name    string
	Density float64
	Area    float64
}

// FlashHeal inserts each given concept directly with the provided
// area (bypassing the volume->area derivation) and dilutes salinity
// by (1-dilution).
func (f *Fluid) FlashHeal(concepts []FlashHealConcept, dilution float64) {
	for _, fc := range concepts {
		id := uuid.New()
		c := entity.NewConcept(id, fc.Name, fc.Density, 0)
		c.Area = fc.Area
		f.insertConceptLocked(c)
	}
	f.Salinity *= (1 - dilution)
}

// FullState returns a complete read-only snapshot of the fluid.
func (f *Fluid) FullState() entity.FullState {
	s := entity.FullState{
		Salinity:    f.Salinity,
		Turbulence:  f.Turbulence,
		Frozen:      f.Frozen,
		Tick:        f.Tick,
		OrePressure: f.OrePressure,
	}
	for _, id := range f.conceptOrder {
		s.Concepts = append(s.Concepts, entity.ConceptViewOf(f.concepts[id]))
	}
	for _, v := range f.vents {
		s.Vents = append(s.Vents, entity.VentViewOf(v))
	}
	for i := range f.ores {
		s.Ores = append(s.Ores, entity.OreViewOf(&f.ores[i]))
	}
	for _, c := range f.continents {
		s.Continents = append(s.Continents, entity.ContinentViewOf(c))
	}
	return s
}

// TriggerContinent attempts a tectonic shift against the given
// threshold (falls back to f.PressureThreshold if threshold <= 0). On
// success it consumes all ores, forms the continent, emits
// tectonic_shift on pub, and returns nil. On insufficient
// pressure it returns ErrPressureBelowThreshold.
func (f *Fluid) TriggerContinent(threshold float64, pub *event.Broadcaster) error {
	if threshold <= 0 {
		threshold = f.PressureThreshold
	}
	if f.OrePressure < threshold {
		return ErrPressureBelowThreshold
	}
	ores := f.ores
	continent := entity.NewContinent(ores, f.OrePressure)
	pressure := f.OrePressure
	f.AddContinent(continent)

	composition := make(map[string]int, len(continent.Composition))
	for k, v := range continent.Composition {
		composition[k.String()] = v
	}
	pub.Publish(event.Event{
		Kind:              event.KindTectonicShift,
		ContinentName:     continent.Name,
		FormationPressure: pressure,
		Composition:       composition,
	})
	return nil
}

func clampUnit(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
