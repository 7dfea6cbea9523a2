// Package entity holds the plain data types that populate the fluid:
// concepts, vents, ore, continents, traits, and the division subsystem's
// bubbles and standing waves. Nothing here mutates itself; all mutation
// happens through the fluid and physics packages so that ownership stays
// with the single aggregate container.
package entity

import (
	"github.com/google/uuid"
)

// ConceptID identifies a concept for the lifetime of the fluid. Handles
// are passed around by value; callers never hold a pointer into the
// live concept map.
type ConceptID = uuid.UUID

// Status is the closed set of classifications a concept can carry on
// any given tick.
type Status int

const (
	StatusFloating Status = iota
	StatusRising
	StatusSinking
	StatusFrozen
	StatusEvaporated
)

func (s Status) String() string {
	switch s {
	case StatusFloating:
		return "floating"
	case StatusRising:
		return "rising"
	case StatusSinking:
		return "sinking"
	case StatusFrozen:
		return "frozen"
	case StatusEvaporated:
		return "evaporated"
	default:
		return "unknown"
	}
}

// Concept is a thought under physics: it has weight (density), a target
// rise force (buoyancy), a normalized depth (layer), and the tracking
// fields the physics kernel needs to decide when it mineralizes,
// breaks the surface, or evaporates.
type Concept struct {
	ID          ConceptID
	Name        string
	Density     float64
	Buoyancy    float64
	Area        float64
	Layer       float64
	Velocity    float64
	Integration float64
	VentCycles  uint64
	FrozenTicks uint64
	Status      Status

	// SurfaceTicks counts consecutive ticks spent at the surface
	// (layer < 0.01), whatever the velocity; reset whenever the
	// concept leaves that band. Drives evaporation (120, which also
	// needs |velocity| < epsilonV) and freeze (600) per the kernel's
	// Stage E.
	SurfaceTicks uint64

	// insideVent tracks, per vent index, whether the concept was inside
	// that vent's radius on the previous tick — needed to detect entry
	// crossings for vent_cycles/activation_count bookkeeping (Stage A).
	insideVent map[int]bool
}

// NewConcept creates a concept from a caller-supplied volume, deriving
// area per spec: area = max(0.01, volume * 0.6). Buoyancy starts at
// 1-density (light things want to rise) and layer starts at density
// (heavy things start low).
func NewConcept(id ConceptID, name string, density, volume float64) *Concept {
	density = clamp01(density)
	area := volume * 0.6
	if area < 0.01 {
		area = 0.01
	}
	return &Concept{
		ID:         id,
		Name:       name,
		Density:    density,
		Buoyancy:   clamp01(1 - density),
		Area:       area,
		Layer:      clamp01(density),
		Status:     StatusFloating,
		insideVent: make(map[int]bool),
	}
}

// Mass is the inertial mass used by the kernel's force integration:
// density * area, plus a small epsilon floor so division never blows up.
func (c *Concept) Mass() float64 {
	return c.Density*c.Area + 1e-6
}

// WasInsideVent reports whether the concept was inside the given vent's
// radius as of the last tick, and records the current state for next
// tick's comparison.
func (c *Concept) WasInsideVent(ventIdx int, inside bool) (was bool) {
	if c.insideVent == nil {
		c.insideVent = make(map[int]bool)
	}
	was = c.insideVent[ventIdx]
	c.insideVent[ventIdx] = inside
	return was
}

// ClampLayer confines layer to [0,1], zeroing velocity on a floor
// clamp per spec Stage B. It reports whether the clamp hit the
// surface (layer == 0), the caller's cue to raise a breakthrough
// candidate.
func (c *Concept) ClampLayer() (hitSurface bool) {
	if c.Layer > 1 {
		c.Layer = 1
		c.Velocity = 0
	} else if c.Layer < 0 {
		c.Layer = 0
		hitSurface = true
	}
	return hitSurface
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

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
