// Package event defines the fluid's significant-event taxonomy and a
// non-blocking ring-buffer broadcaster. Events are emitted only when a
// physics stage or dispatcher operation crosses a "consciousness
// filter" threshold (spec.md §4.4); nothing else reaches a subscriber.
package event

import "github.com/google/uuid"

// Kind is the closed set of event kinds the fluid can emit.
type Kind string

const (
	KindSurfaceBreakthrough Kind = "surface_breakthrough"
	KindFreeze              Kind = "freeze"
	KindThaw                Kind = "thaw"
	KindMineralization      Kind = "mineralization"
	KindOreDeposited        Kind = "ore_deposited"
	KindTectonicShift       Kind = "tectonic_shift"
	KindCatalysis           Kind = "catalysis"
	KindEvaporation         Kind = "evaporation"
	KindAnomaly             Kind = "anomaly"
)

// Event is a tagged payload broadcast to subscribers. Only the fields
// relevant to Kind are populated; the rest stay zero.
type Event struct {
	Seq  uint64
	Kind Kind

	// surface_breakthrough
	ConceptID      uuid.UUID
	ConceptName    string
	KineticEnergy  float64

	// freeze
	FreezerID uuid.UUID
	Tick      uint64

	// mineralization / catalysis
	OreName    string
	OreKind    string
	Depth      float64
	VentCycles uint64

	// ore_deposited
	TotalPressure float64

	// tectonic_shift
	ContinentName     string
	FormationPressure float64
	Composition       map[string]int

	// evaporation
	TraitName         string
	SourceConceptName string

	// anomaly
	Reason string
}
