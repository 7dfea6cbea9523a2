package entity

import "math"

// Bubble is a transient division-experiment particle. HomeNodeIndex is
// -1 until the bubble settles into a node.
type Bubble struct {
	ID            ConceptID
	Depth         float64
	Velocity      float64
	HomeNodeIndex int

	// settledStreak counts consecutive ticks under the settling speed
	// threshold (0.001); once it reaches 10 the bubble claims a node.
	settledStreak int
}

// NoHomeNode marks a bubble with no stable node assignment.
const NoHomeNode = -1

// NewBubble creates an unsettled bubble at the given depth.
func NewBubble(id ConceptID, depth float64) *Bubble {
	return &Bubble{ID: id, Depth: depth, HomeNodeIndex: NoHomeNode}
}

// RecordSettling advances the bubble's settled-streak counter given its
// current speed, and reports whether it has just reached the 10-tick
// threshold required to claim a node (the caller still has to find and
// assign the nearest allowed node).
func (b *Bubble) RecordSettling(speed float64) (justSettled bool) {
	if speed < 0.001 {
		b.settledStreak++
		return b.settledStreak == 10
	}
	b.settledStreak = 0
	return false
}

// StandingWave encodes a divisor n as n evenly spaced depth nodes, the
// attractors bubbles settle into.
type StandingWave struct {
	Frequency        int
	Nodes            []float64
	QuotientCapacity int

	// tick drives the slow breathing oscillation applied to node
	// target depth (A*sin(2*pi*t/T)).
	tick uint64
}

// NewStandingWave builds the n nodes at (i+0.5)/n for 0<=i<n, and
// records the floor(dividend/n) quotient capacity used by the
// occupancy Pauli-cap rule.
func NewStandingWave(dividend, n int) *StandingWave {
	nodes := make([]float64, n)
	for i := 0; i < n; i++ {
		nodes[i] = (float64(i) + 0.5) / float64(n)
	}
	return &StandingWave{
		Frequency:        n,
		Nodes:            nodes,
		QuotientCapacity: dividend / n,
	}
}

const (
	breathingAmplitude = 0.005
	breathingPeriod    = 120
)

// Tick advances the wave's internal clock by one tick (called once per
// physics step while a division experiment is active).
func (w *StandingWave) Tick() {
	w.tick++
}

// NodeTarget returns node i's instantaneous target depth, including the
// breathing oscillation A*sin(2*pi*t/T).
func (w *StandingWave) NodeTarget(i int) float64 {
	offset := breathingAmplitude * math.Sin(2*math.Pi*float64(w.tick)/breathingPeriod)
	return w.Nodes[i] + offset
}

// ForceAtDepth returns the spring-like attraction force the wave
// exerts on anything sitting at depth, pulling it toward the nearest
// node: gain * (nodeTarget - depth). Mirrors the original
// StandingWave::force_at_depth, which couples every concept in the
// fluid to an active wave, not just the bubbles tracked by a division
// experiment.
func (w *StandingWave) ForceAtDepth(depth, gain float64) float64 {
	idx := w.NearestNode(depth)
	return gain * (w.NodeTarget(idx) - depth)
}

// NearestNode returns the index of the node closest to depth.
func (w *StandingWave) NearestNode(depth float64) int {
	best := 0
	bestDist := math.Abs(depth - w.NodeTarget(0))
	for i := 1; i < len(w.Nodes); i++ {
		d := math.Abs(depth - w.NodeTarget(i))
		if d < bestDist {
			bestDist = d
			best = i
		}
	}
	return best
}
