// Package fluid owns the aggregate simulation state: every concept,
// vent, ore, continent, trait, and the division experiment slot,
// behind a single reader/writer lock. External code only ever holds a
// *Fluid and an id; no entity escapes by pointer past a snapshot copy.
package fluid

import (
	"sync"

	"github.com/san-kum/fluidmind/internal/entity"
)

// DefaultPressureThreshold is the cumulative ore pressure that
// triggers a tectonic shift unless overridden per-call.
const DefaultPressureThreshold = 10.0

// Fluid is the single owned container for the whole simulation: all
// live entities plus the global scalars the physics kernel advances.
// Grounded on the teacher's Simulator struct (one owner, many
// collaborators reached only through its methods) and on
// mine-and-die's Hub (single mutex guarding a world + subscriber set).
type Fluid struct {
	mu sync.RWMutex

	concepts       map[entity.ConceptID]*entity.Concept
	conceptOrder   []entity.ConceptID // insertion order, fixed iteration
	vents          []*entity.CoreTruth
	ores           []entity.PreciousOre
	continents     []*entity.Continent
	traits         []*entity.CharacterTrait

	Salinity    float64
	Turbulence  float64
	Frozen      bool
	FreezerID   entity.ConceptID
	Tick        uint64

	OrePressure         float64
	PressureThreshold   float64

	Experiment        *entity.DivisionExperiment
	ExperimentResults []entity.DivisionResult

	catalysisWatches []catalysisWatch
}

// catalysisWatch remembers that apply_ballast was called on a concept
// and a catalysis event is owed if it reaches layer >= 0.95 before
// deadlineTick. Checked once per tick from Stage F.
type catalysisWatch struct {
	id           entity.ConceptID
	deadlineTick uint64
}

// catalysisWindowTicks is the 60-tick window apply_ballast gives a
// concept to reach layer >= 0.95 before the watch expires unfired.
const catalysisWindowTicks = 60

// WatchForCatalysis registers a catalysis watch for id, expiring 60
// ticks after the current tick.
func (f *Fluid) WatchForCatalysis(id entity.ConceptID) {
	f.catalysisWatches = append(f.catalysisWatches, catalysisWatch{id: id, deadlineTick: f.Tick + catalysisWindowTicks})
}

// PollCatalysisWatches checks every pending watch against the current
// state, returning the ids that fired (layer >= 0.95) this tick. Fired
// and expired watches are both dropped from the pending list.
func (f *Fluid) PollCatalysisWatches() []entity.ConceptID {
	var fired []entity.ConceptID
	kept := f.catalysisWatches[:0]
	for _, w := range f.catalysisWatches {
		c, ok := f.concepts[w.id]
		switch {
		case ok && c.Layer >= 0.95:
			fired = append(fired, w.id)
		case f.Tick >= w.deadlineTick:
			// expired unfired, drop silently
		default:
			kept = append(kept, w)
		}
	}
	f.catalysisWatches = kept
	return fired
}

// New returns a fresh fluid with the default primal-axiom vent in
// place, matching spec.md §3's boot-time invariant.
func New() *Fluid {
	f := &Fluid{
		concepts:          make(map[entity.ConceptID]*entity.Concept),
		PressureThreshold: DefaultPressureThreshold,
	}
	f.vents = append(f.vents, entity.PrimalAxiom())
	return f
}

// Lock/Unlock/RLock/RUnlock expose the fluid's single reader/writer
// lock directly: the simulation loop holds the write lock across an
// entire physics step (stages A-H), and across command draining;
// query endpoints take the read lock for the duration of building
// their snapshot. See spec.md §5.
func (f *Fluid) Lock()    { f.mu.Lock() }
func (f *Fluid) Unlock()  { f.mu.Unlock() }
func (f *Fluid) RLock()   { f.mu.RLock() }
func (f *Fluid) RUnlock() { f.mu.RUnlock() }

// Concepts returns the live concept map; callers must hold the lock.
func (f *Fluid) Concepts() map[entity.ConceptID]*entity.Concept { return f.concepts }

// ConceptOrder returns concept ids in insertion order; callers must
// hold the lock. The physics kernel iterates in this order per
// spec.md §4.1's fixed-iteration-order rule.
func (f *Fluid) ConceptOrder() []entity.ConceptID { return f.conceptOrder }

// Vents returns the live vent slice; callers must hold the lock.
func (f *Fluid) Vents() []*entity.CoreTruth { return f.vents }

// Ores returns the live ore slice; callers must hold the lock.
func (f *Fluid) Ores() []entity.PreciousOre { return f.ores }

// Continents returns the formed continents; callers must hold the lock.
func (f *Fluid) Continents() []*entity.Continent { return f.continents }

// Traits returns the evaporated traits; callers must hold the lock.
func (f *Fluid) Traits() []*entity.CharacterTrait { return f.traits }

// insertConceptLocked inserts an already-constructed concept and
// records its insertion order. Caller must hold the write lock.
func (f *Fluid) insertConceptLocked(c *entity.Concept) {
	f.concepts[c.ID] = c
	f.conceptOrder = append(f.conceptOrder, c.ID)
}

// removeConceptLocked removes a concept from both the map and the
// order slice. Caller must hold the write lock.
func (f *Fluid) removeConceptLocked(id entity.ConceptID) {
	delete(f.concepts, id)
	for i, existing := range f.conceptOrder {
		if existing == id {
			f.conceptOrder = append(f.conceptOrder[:i], f.conceptOrder[i+1:]...)
			break
		}
	}
}

// RemoveConcept removes a concept mid-tick; exported so the physics
// kernel (which already holds the write lock while stepping) can drop
// mineralized/evaporated/broken-through concepts in the same tick they
// transition, per spec.md §3's removal invariant.
func (f *Fluid) RemoveConcept(id entity.ConceptID) { f.removeConceptLocked(id) }

// AddOre appends a newly mineralized ore and folds its pressure into
// the running accumulator.
func (f *Fluid) AddOre(o entity.PreciousOre) {
	f.ores = append(f.ores, o)
	f.OrePressure += o.Pressure
}

// AddContinent records a newly formed continent, consuming the current
// ore set and resetting the pressure accumulator.
func (f *Fluid) AddContinent(c *entity.Continent) {
	f.continents = append(f.continents, c)
	f.ores = nil
	f.OrePressure = 0
}

// AddTrait records a newly evaporated character trait.
func (f *Fluid) AddTrait(t *entity.CharacterTrait) {
	f.traits = append(f.traits, t)
}
