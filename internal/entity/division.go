package entity

import "math"

// DivisionExperiment tracks the state of one running standing-wave
// division experiment: dividend/divisor/salinity_boost (spec.md §4.5),
// the wave, the bubble ids it owns, and the settling metrics computed
// every tick.
type DivisionExperiment struct {
	Dividend      int
	Divisor       int
	SalinityBoost float64

	Wave    *StandingWave
	Bubbles map[ConceptID]*Bubble

	StartTick uint64
	MaxTicks  uint64

	// Sliding-window jitter tracking (60-tick window of sum|delta v|).
	jitterWindow   []float64
	PeakJitter     float64
	lastVelocities map[ConceptID]float64

	VelocitySamples  int
	velocitySum      float64
	velocitySumSq    float64
	TurbulenceEnergy float64

	NodeOccupancy []int
}

const (
	jitterWindowSize = 60
	experimentTicks  = 300
)

// NewDivisionExperiment starts the bookkeeping for dividend/divisor.
func NewDivisionExperiment(dividend, divisor int, salinityBoost float64, startTick uint64) *DivisionExperiment {
	wave := NewStandingWave(dividend, divisor)
	return &DivisionExperiment{
		Dividend:       dividend,
		Divisor:        divisor,
		SalinityBoost:  salinityBoost,
		Wave:           wave,
		Bubbles:        make(map[ConceptID]*Bubble, dividend),
		StartTick:      startTick,
		MaxTicks:       experimentTicks,
		lastVelocities: make(map[ConceptID]float64, dividend),
		NodeOccupancy:  make([]int, divisor),
	}
}

// Quotient and Remainder are the analytically-determined answer, not
// derived from physics — spec.md's testable property 5 requires
// remainder==0 to match is_divisible exactly.
func (e *DivisionExperiment) Quotient() int  { return e.Dividend / e.Divisor }
func (e *DivisionExperiment) Remainder() int { return e.Dividend % e.Divisor }

// IsTimedOut reports whether the experiment has run its full 300-tick
// horizon as of currentTick.
func (e *DivisionExperiment) IsTimedOut(currentTick uint64) bool {
	return currentTick-e.StartTick >= e.MaxTicks
}

// RecordTick folds one tick's bubble velocities into the running
// jitter/sigma/turbulence metrics. velocities is keyed by bubble id.
func (e *DivisionExperiment) RecordTick(velocities map[ConceptID]float64, dt float64) {
	var deltaSum, meanVelocity, sumSq float64
	n := 0
	for id, v := range velocities {
		prev, ok := e.lastVelocities[id]
		if ok {
			d := v - prev
			if d < 0 {
				d = -d
			}
			deltaSum += d
		}
		e.lastVelocities[id] = v
		meanVelocity += v
		sumSq += v * v
		e.TurbulenceEnergy += v * v * dt
		n++
	}
	if n > 0 {
		meanVelocity /= float64(n)
	}

	e.jitterWindow = append(e.jitterWindow, deltaSum)
	if len(e.jitterWindow) > jitterWindowSize {
		e.jitterWindow = e.jitterWindow[1:]
	}
	windowSum := 0.0
	for _, v := range e.jitterWindow {
		windowSum += v
	}
	if windowSum > e.PeakJitter {
		e.PeakJitter = windowSum
	}

	e.velocitySum += meanVelocity
	e.velocitySumSq += meanVelocity * meanVelocity
	e.VelocitySamples++
}

// VelocitySigma returns the standard deviation of the per-tick mean
// bubble velocity accumulated so far via RecordTick.
func (e *DivisionExperiment) VelocitySigma() float64 {
	if e.VelocitySamples == 0 {
		return 0
	}
	n := float64(e.VelocitySamples)
	mean := e.velocitySum / n
	variance := e.velocitySumSq/n - mean*mean
	if variance < 0 {
		variance = 0
	}
	return math.Sqrt(variance)
}

// DivisionResult is the finalized, immutable outcome of a settled or
// timed-out experiment.
type DivisionResult struct {
	Dividend         int
	Divisor          int
	Quotient         int
	Remainder        int
	IsDivisible      bool
	PeakJitter       float64
	VelocitySigma    float64
	TurbulenceEnergy float64
	TicksToSettle    uint64
	NodeOccupancy    []int
	SalinityBoost    float64
	Interpretation   string
}
