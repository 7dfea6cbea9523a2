package physics

import (
	"fmt"
	"math"

	"github.com/san-kum/fluidmind/internal/entity"
	"github.com/san-kum/fluidmind/internal/event"
	"github.com/san-kum/fluidmind/internal/fluid"
)

// DivisionDriver lets the kernel advance and finalize a division
// experiment without importing the division package directly — the
// division package would otherwise need to import physics for
// Constants, which would cycle back here. Grounded on the teacher's
// Dynamics/Controller interface seams (internal/dynamo), generalized
// to a single pluggable collaborator instead of a whole model zoo.
type DivisionDriver interface {
	Advance(f *fluid.Fluid, c Constants, dt float64)
	Finalize(f *fluid.Fluid) entity.DivisionResult
}

// dt is the fixed simulation step: 1/60 s, per spec.md §4.1.
const dt = 1.0 / 60.0

// Step runs one full tick: stages A through H, in order, over f,
// publishing any significant events to pub. f must already be held
// under its write lock by the caller (the simulation loop).
func Step(f *fluid.Fluid, c Constants, pub *event.Broadcaster, div DivisionDriver) {
	ids := append([]entity.ConceptID(nil), f.ConceptOrder()...)

	stageA_ThermalInfluence(f, c, pub, ids)
	surfaced := stageB_NetForceAndIntegration(f, c, pub, ids)
	stageC_StatusClassification(f, c, pub, ids)
	stageD_Mineralization(f, c, pub, ids)
	stageE_SurfaceAndFreeze(f, c, pub, ids, surfaced)
	stageF_IntegrationDrift(f, c, pub, ids)
	stageG_TectonicCheck(f, pub)
	stageH_TickAndExperiment(f, c, div)
}

// conceptName looks up a concept's name for an anomaly event, without
// risking a second panic if the concept is already gone.
func conceptName(concepts map[entity.ConceptID]*entity.Concept, id entity.ConceptID) string {
	if cc, ok := concepts[id]; ok && cc != nil {
		return cc.Name
	}
	return "unknown"
}

// isolate runs fn for a single concept's share of a stage, recovering
// any panic so one malformed concept can't take down the whole tick
// (spec.md §7). The offending concept is removed from f and a
// KindAnomaly event is published in its place.
func isolate(f *fluid.Fluid, pub *event.Broadcaster, id entity.ConceptID, name string, fn func()) {
	defer func() {
		if r := recover(); r != nil {
			f.RemoveConcept(id)
			pub.Publish(event.Event{
				Kind:        event.KindAnomaly,
				ConceptID:   id,
				ConceptName: name,
				Reason:      fmt.Sprintf("%v", r),
			})
		}
	}()
	fn()
}

// stageA_ThermalInfluence raises buoyancy for concepts inside a vent's
// radius and tracks activation_count/vent_cycles on first entry.
func stageA_ThermalInfluence(f *fluid.Fluid, c Constants, pub *event.Broadcaster, ids []entity.ConceptID) {
	concepts := f.Concepts()
	for _, id := range ids {
		id := id
		isolate(f, pub, id, conceptName(concepts, id), func() {
			cc, ok := concepts[id]
			if !ok {
				return
			}
			for vi, v := range f.Vents() {
				within := v.InRadius(cc.Layer)
				was := cc.WasInsideVent(vi, within)
				if !within {
					continue
				}
				proximity := v.Proximity(cc.Layer)
				cc.Buoyancy = clamp01(cc.Buoyancy + v.HeatOutput*proximity*dt*c.KThermal)
				if !was {
					v.ActivationCount++
					cc.VentCycles++
				}
			}
		})
	}
}

// stageB_NetForceAndIntegration integrates velocity and layer for
// every concept and returns the set that hit the surface this tick
// (candidates for breakthrough in Stage E).
func stageB_NetForceAndIntegration(f *fluid.Fluid, c Constants, pub *event.Broadcaster, ids []entity.ConceptID) map[entity.ConceptID]bool {
	concepts := f.Concepts()
	viscosity := 1 + f.Salinity*c.KS
	surfaced := make(map[entity.ConceptID]bool)

	for _, id := range ids {
		id := id
		isolate(f, pub, id, conceptName(concepts, id), func() {
			cc, ok := concepts[id]
			if !ok {
				return
			}
			force := (cc.Buoyancy - cc.Density) - 0.5*viscosity*sign(cc.Velocity)*cc.Velocity*cc.Velocity*c.CD*cc.Area + waveForce(f, c, cc.Layer)
			if f.Frozen && id != f.FreezerID {
				force = 0
			}
			mass := cc.Mass()
			cc.Velocity += force * dt / mass
			cc.Velocity = clampVelocity(cc.Velocity)
			cc.Layer += cc.Velocity * dt
			if cc.ClampLayer() {
				surfaced[id] = true
			}
		})
	}
	return surfaced
}

// waveForce returns the standing wave's spring-like attraction on a
// concept at the given layer, 0 when no division experiment is
// running. Couples ordinary concepts to an active experiment's wave
// field (spec.md §4.1/§4.5), not just the experiment's own bubbles.
func waveForce(f *fluid.Fluid, c Constants, layer float64) float64 {
	if f.Experiment == nil {
		return 0
	}
	return f.Experiment.Wave.ForceAtDepth(layer, c.KA)
}

// stageC_StatusClassification sets each concept's status from its
// velocity, overridden to frozen when the global freeze flag holds it.
func stageC_StatusClassification(f *fluid.Fluid, c Constants, pub *event.Broadcaster, ids []entity.ConceptID) {
	concepts := f.Concepts()
	for _, id := range ids {
		id := id
		isolate(f, pub, id, conceptName(concepts, id), func() {
			cc, ok := concepts[id]
			if !ok {
				return
			}
			switch {
			case cc.Velocity < -c.EpsilonV:
				cc.Status = entity.StatusRising
			case cc.Velocity > c.EpsilonV:
				cc.Status = entity.StatusSinking
			default:
				cc.Status = entity.StatusFloating
			}
			if f.Frozen && id != f.FreezerID {
				cc.Status = entity.StatusFrozen
			}
		})
	}
}

// stageD_Mineralization turns concepts that have spent long enough
// deep in a vent's band into ore, removing them from the live set.
func stageD_Mineralization(f *fluid.Fluid, c Constants, pub *event.Broadcaster, ids []entity.ConceptID) {
	concepts := f.Concepts()
	for _, id := range ids {
		id := id
		isolate(f, pub, id, conceptName(concepts, id), func() {
			cc, ok := concepts[id]
			if !ok {
				return
			}
			if cc.Layer <= c.MineralizationLayer || cc.VentCycles < c.MineralizationVentCycles {
				return
			}
			kind := entity.ClassifyOre(cc.Area, cc.Density, cc.Integration)
			ore := entity.PreciousOre{
				Name:              cc.Name + " ore",
				Depth:             cc.Layer,
				Kind:              kind,
				Pressure:          cc.Density * cc.Area,
				OriginConceptName: cc.Name,
			}
			f.AddOre(ore)
			f.RemoveConcept(id)

			pub.Publish(event.Event{
				Kind:        event.KindMineralization,
				ConceptName: cc.Name,
				OreName:     ore.Name,
				OreKind:     kind.String(),
				Depth:       ore.Depth,
				VentCycles:  cc.VentCycles,
			})
			pub.Publish(event.Event{
				Kind:          event.KindOreDeposited,
				OreName:       ore.Name,
				TotalPressure: f.OrePressure,
			})
		})
	}
}

// stageE_SurfaceAndFreeze handles breakthrough, evaporation, and the
// 600-tick stuck-at-surface freeze, in that priority order.
func stageE_SurfaceAndFreeze(f *fluid.Fluid, c Constants, pub *event.Broadcaster, ids []entity.ConceptID, surfaced map[entity.ConceptID]bool) {
	concepts := f.Concepts()
	for _, id := range ids {
		id := id
		isolate(f, pub, id, conceptName(concepts, id), func() {
			cc, ok := concepts[id]
			if !ok {
				return
			}

			if surfaced[id] {
				ke := 0.5 * cc.Mass() * cc.Velocity * cc.Velocity
				if ke >= c.EBreak {
					pub.Publish(event.Event{
						Kind:          event.KindSurfaceBreakthrough,
						ConceptID:     id,
						ConceptName:   cc.Name,
						KineticEnergy: ke,
					})
					f.RemoveConcept(id)
					return
				}
			}

			if cc.Layer < 0.01 {
				cc.SurfaceTicks++
			} else {
				cc.SurfaceTicks = 0
				return
			}

			if cc.SurfaceTicks >= c.SurfaceEvaporateTicks && math.Abs(cc.Velocity) < c.EpsilonV {
				trait := &entity.CharacterTrait{
					Name:               cc.Name + " trait",
					CrystallizedAtTick: f.Tick,
					SourceConceptName:  cc.Name,
				}
				f.AddTrait(trait)
				f.RemoveConcept(id)
				pub.Publish(event.Event{
					Kind:              event.KindEvaporation,
					TraitName:         trait.Name,
					SourceConceptName: trait.SourceConceptName,
				})
				return
			}

			if cc.SurfaceTicks >= c.SurfaceFreezeTicks && !f.Frozen {
				f.Frozen = true
				f.FreezerID = id
				pub.Publish(event.Event{
					Kind:      event.KindFreeze,
					FreezerID: id,
					Tick:      f.Tick,
				})
			}
		})
	}
}

// stageF_IntegrationDrift grows integration from the turbulence pool,
// decays turbulence, and resolves any pending catalysis watches.
func stageF_IntegrationDrift(f *fluid.Fluid, c Constants, pub *event.Broadcaster, ids []entity.ConceptID) {
	concepts := f.Concepts()
	for _, id := range ids {
		id := id
		isolate(f, pub, id, conceptName(concepts, id), func() {
			cc, ok := concepts[id]
			if !ok {
				return
			}
			cc.Integration = clamp01(cc.Integration + f.Turbulence*dt*c.KInt)
		})
	}
	f.Turbulence *= 0.995

	for _, id := range f.PollCatalysisWatches() {
		cc, ok := concepts[id]
		if !ok {
			continue
		}
		pub.Publish(event.Event{
			Kind:        event.KindCatalysis,
			ConceptID:   id,
			ConceptName: cc.Name,
			Depth:       cc.Layer,
		})
	}
}

// stageG_TectonicCheck fires the default-threshold tectonic shift
// automatically; a below-threshold result here is the common case and
// not surfaced as an error.
func stageG_TectonicCheck(f *fluid.Fluid, pub *event.Broadcaster) {
	_ = f.TriggerContinent(f.PressureThreshold, pub)
}

// stageH_TickAndExperiment advances the tick counter and, if a
// division experiment is running, advances its physics and finalizes
// it once the 300-tick horizon elapses.
func stageH_TickAndExperiment(f *fluid.Fluid, c Constants, div DivisionDriver) {
	f.Tick++
	if f.Experiment == nil {
		return
	}
	div.Advance(f, c, dt)
	if f.Experiment.IsTimedOut(f.Tick) {
		div.Finalize(f)
	}
}

func sign(v float64) float64 {
	switch {
	case v > 0:
		return 1
	case v < 0:
		return -1
	default:
		return 0
	}
}

// vMax is the clamp applied to velocity when a pathological input
// would otherwise produce NaN or an unbounded value (spec.md §7).
const vMax = 10.0

func clampVelocity(v float64) float64 {
	if math.IsNaN(v) {
		return 0
	}
	if v > vMax {
		return vMax
	}
	if v < -vMax {
		return -vMax
	}
	return v
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
