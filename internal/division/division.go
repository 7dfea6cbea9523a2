// Package division implements the standing-wave analog divider:
// starting an experiment, integrating bubble physics each tick from
// the kernel's Stage H, and finalizing a result record. Grounded on
// spec.md §4.5, with the force-summation style borrowed from the
// teacher's per-stage pure functions (internal/sim in san-kum-dynsim).
package division

import (
	"errors"
	"math"
	"math/rand"

	"github.com/google/uuid"

	"github.com/san-kum/fluidmind/internal/entity"
	"github.com/san-kum/fluidmind/internal/fluid"
	"github.com/san-kum/fluidmind/internal/physics"
)

// ErrInvalidDividend, ErrInvalidDivisor, and ErrInvalidSalinity report
// out-of-range experiment parameters (spec.md §4.5's declared ranges).
var (
	ErrInvalidDividend = errors.New("division: dividend out of range [1,100]")
	ErrInvalidDivisor  = errors.New("division: divisor out of range [1,20]")
	ErrInvalidSalinity = errors.New("division: salinity_boost out of range [0,10]")
)

// Start begins a new division experiment on f. Fails with
// fluid.ErrExperimentBusy if one is already running.
func Start(f *fluid.Fluid, dividend, divisor int, salinityBoost float64) error {
	switch {
	case dividend < 1 || dividend > 100:
		return ErrInvalidDividend
	case divisor < 1 || divisor > 20:
		return ErrInvalidDivisor
	case salinityBoost < 0 || salinityBoost > 10:
		return ErrInvalidSalinity
	}
	if f.Experiment != nil {
		return fluid.ErrExperimentBusy
	}

	exp := entity.NewDivisionExperiment(dividend, divisor, salinityBoost, f.Tick)
	for i := 0; i < dividend; i++ {
		id := uuid.New()
		depth := 0.05 + rand.Float64()*0.02
		exp.Bubbles[id] = entity.NewBubble(id, depth)
	}
	f.Experiment = exp
	f.Salinity += salinityBoost
	return nil
}

// Advance integrates every bubble one tick under F_wave (node
// attraction + Lennard-Jones repulsion + breathing), called from the
// kernel's Stage H, after the tick counter advances, while an
// experiment is active. It folds the tick's
// velocities into the experiment's settling metrics and checks for
// newly-settled bubbles.
func Advance(f *fluid.Fluid, c physics.Constants, dt float64) {
	exp := f.Experiment
	if exp == nil {
		return
	}
	exp.Wave.Tick()

	ids := make([]entity.ConceptID, 0, len(exp.Bubbles))
	for id := range exp.Bubbles {
		ids = append(ids, id)
	}

	forces := make(map[entity.ConceptID]float64, len(ids))
	for _, id := range ids {
		b := exp.Bubbles[id]
		forces[id] = nodeAttraction(b, exp, c) + ljRepulsion(b, exp, c)
	}

	velocities := make(map[entity.ConceptID]float64, len(ids))
	for _, id := range ids {
		b := exp.Bubbles[id]
		b.Velocity += forces[id] * dt
		b.Depth += b.Velocity * dt
		if b.Depth < 0 {
			b.Depth = 0
			b.Velocity = 0
		} else if b.Depth > 1 {
			b.Depth = 1
			b.Velocity = 0
		}
		velocities[id] = b.Velocity

		if b.HomeNodeIndex == entity.NoHomeNode {
			speed := math.Abs(b.Velocity)
			if b.RecordSettling(speed) {
				settleBubble(b, exp, c)
			}
		}
	}

	exp.RecordTick(velocities, dt)
}

// nodeAttraction returns the spring-like force pulling a bubble toward
// its nearest allowed node, per spec.md §4.5's Pauli-cap rule.
func nodeAttraction(b *entity.Bubble, exp *entity.DivisionExperiment, c physics.Constants) float64 {
	var target float64
	if b.HomeNodeIndex != entity.NoHomeNode {
		target = exp.Wave.NodeTarget(b.HomeNodeIndex)
	} else {
		idx := allowedNode(b, exp)
		target = exp.Wave.NodeTarget(idx)
	}
	return -c.KA * (b.Depth - target)
}

// allowedNode picks the nearest node this unsettled bubble may target:
// occupancy < q for unclaimed nodes (the Pauli cap). If every node is
// at capacity (a remainder bubble with nowhere to settle), it still
// targets the globally nearest node so it keeps oscillating rather
// than stalling.
func allowedNode(b *entity.Bubble, exp *entity.DivisionExperiment) int {
	q := exp.Wave.QuotientCapacity
	best := -1
	bestDist := math.MaxFloat64
	for i := range exp.Wave.Nodes {
		if exp.NodeOccupancy[i] >= q {
			continue
		}
		d := math.Abs(b.Depth - exp.Wave.NodeTarget(i))
		if d < bestDist {
			bestDist = d
			best = i
		}
	}
	if best >= 0 {
		return best
	}
	for i := range exp.Wave.Nodes {
		d := math.Abs(b.Depth - exp.Wave.NodeTarget(i))
		if d < bestDist {
			bestDist = d
			best = i
		}
	}
	return best
}

// settleBubble claims the nearest allowed node for a bubble that has
// just crossed the 10-tick settling threshold, incrementing occupancy.
// A bubble that finds every node already at the hard q+1 cap remains
// unsettled (a true remainder bubble).
func settleBubble(b *entity.Bubble, exp *entity.DivisionExperiment, c physics.Constants) {
	q := exp.Wave.QuotientCapacity
	idx := -1
	bestDist := math.MaxFloat64
	for i := range exp.Wave.Nodes {
		if exp.NodeOccupancy[i] >= q+1 {
			continue
		}
		d := math.Abs(b.Depth - exp.Wave.NodeTarget(i))
		if d < bestDist {
			bestDist = d
			idx = i
		}
	}
	if idx < 0 {
		return
	}
	b.HomeNodeIndex = idx
	exp.NodeOccupancy[idx]++
}

// ljRepulsion sums the Lennard-Jones repulsion from every other bubble
// within cutoff r_c, directed along the depth axis.
func ljRepulsion(b *entity.Bubble, exp *entity.DivisionExperiment, c physics.Constants) float64 {
	var total float64
	for id, other := range exp.Bubbles {
		if id == b.ID {
			continue
		}
		r := b.Depth - other.Depth
		dist := math.Abs(r)
		if dist >= c.RCut || dist < 1e-6 {
			continue
		}
		sr6 := math.Pow(c.Sigma/dist, 6)
		sr12 := sr6 * sr6
		magnitude := 4 * c.Eps * (sr12 - sr6)
		if r < 0 {
			total -= magnitude
		} else {
			total += magnitude
		}
	}
	return total
}

// Driver adapts the package's free functions to physics.DivisionDriver
// so the kernel can advance and finalize an experiment without
// importing this package directly.
type Driver struct{}

func (Driver) Advance(f *fluid.Fluid, c physics.Constants, dt float64) { Advance(f, c, dt) }
func (Driver) Finalize(f *fluid.Fluid) entity.DivisionResult           { return Finalize(f) }

// Finalize produces the DivisionResult for a timed-out experiment,
// appends it to the fluid's results history, clears the experiment
// slot, and decays the salinity boost it had applied.
func Finalize(f *fluid.Fluid) entity.DivisionResult {
	exp := f.Experiment
	quotient := exp.Quotient()
	remainder := exp.Remainder()
	result := entity.DivisionResult{
		Dividend:         exp.Dividend,
		Divisor:          exp.Divisor,
		Quotient:         quotient,
		Remainder:        remainder,
		IsDivisible:      remainder == 0,
		PeakJitter:       exp.PeakJitter,
		VelocitySigma:    exp.VelocitySigma(),
		TurbulenceEnergy: exp.TurbulenceEnergy,
		TicksToSettle:    f.Tick - exp.StartTick,
		NodeOccupancy:    exp.NodeOccupancy,
		SalinityBoost:    exp.SalinityBoost,
		Interpretation:   interpretation(remainder == 0, exp.PeakJitter),
	}
	f.ExperimentResults = append(f.ExperimentResults, result)
	f.Salinity -= exp.SalinityBoost
	if f.Salinity < 0 {
		f.Salinity = 0
	}
	f.Experiment = nil
	return result
}

func interpretation(divisible bool, peakJitter float64) string {
	if divisible {
		return "clean split: bubbles settled evenly across all nodes"
	}
	if peakJitter > 4.0 {
		return "remainder bubbles never settled, sustained high jitter"
	}
	return "remainder bubbles never settled"
}
