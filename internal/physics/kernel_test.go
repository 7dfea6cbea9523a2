package physics

import (
	"testing"

	"github.com/san-kum/fluidmind/internal/entity"
	"github.com/san-kum/fluidmind/internal/event"
	"github.com/san-kum/fluidmind/internal/fluid"
)

type noopDriver struct{}

func (noopDriver) Advance(f *fluid.Fluid, c Constants, dt float64)      {}
func (noopDriver) Finalize(f *fluid.Fluid) entity.DivisionResult       { return entity.DivisionResult{} }

func TestStepKeepsLayerAndUnitScalarsInBounds(t *testing.T) {
	f := fluid.New()
	c := DefaultConstants()
	pub := event.NewBroadcaster()
	f.Lock()
	defer f.Unlock()

	f.InsertConcept("a", 0.9, 0.5)
	f.InsertConcept("b", 0.05, 0.3)

	for i := 0; i < 500; i++ {
		Step(f, c, pub, noopDriver{})
		for _, id := range f.ConceptOrder() {
			cc := f.Concepts()[id]
			if cc.Layer < 0 || cc.Layer > 1 {
				t.Fatalf("tick %d: layer out of bounds: %v", i, cc.Layer)
			}
			if cc.Density < 0 || cc.Density > 1 {
				t.Fatalf("tick %d: density out of bounds: %v", i, cc.Density)
			}
			if cc.Buoyancy < 0 || cc.Buoyancy > 1 {
				t.Fatalf("tick %d: buoyancy out of bounds: %v", i, cc.Buoyancy)
			}
			if cc.Integration < 0 || cc.Integration > 1 {
				t.Fatalf("tick %d: integration out of bounds: %v", i, cc.Integration)
			}
		}
	}
}

func TestVentCyclesNeverDecrease(t *testing.T) {
	f := fluid.New()
	c := DefaultConstants()
	pub := event.NewBroadcaster()
	f.Lock()
	defer f.Unlock()

	id := f.InsertConcept("sinker", 0.95, 0.5)
	var last uint64
	for i := 0; i < 400; i++ {
		Step(f, c, pub, noopDriver{})
		cc, ok := f.Concepts()[id]
		if !ok {
			break // mineralized, which is a valid terminal state
		}
		if cc.VentCycles < last {
			t.Fatalf("tick %d: vent_cycles decreased from %d to %d", i, last, cc.VentCycles)
		}
		last = cc.VentCycles
	}
}

func TestDeepConceptEventuallyMineralizes(t *testing.T) {
	f := fluid.New()
	c := DefaultConstants()
	pub := event.NewBroadcaster()
	f.Lock()
	defer f.Unlock()

	sub := pub.NewCursor()
	f.InsertConcept("despair", 0.9, 0.5)

	var sawMineralization bool
	for i := 0; i < 360; i++ {
		Step(f, c, pub, noopDriver{})
		events, _ := sub.Drain()
		for _, e := range events {
			if e.Kind == event.KindMineralization {
				sawMineralization = true
			}
		}
	}
	if !sawMineralization {
		t.Error("expected at least one mineralization event within 360 ticks")
	}
}

func TestFreezeHoldsNonFreezerVelocityNonIncreasing(t *testing.T) {
	f := fluid.New()
	c := DefaultConstants()
	pub := event.NewBroadcaster()
	f.Lock()
	defer f.Unlock()

	freezerID := f.InsertConcept("freezer", 0.5, 0.4)
	f.Frozen = true
	f.FreezerID = freezerID
	other := f.InsertConcept("other", 0.5, 0.4)
	f.Concepts()[other].Velocity = 2.0

	last := f.Concepts()[other].Velocity
	for i := 0; i < 10; i++ {
		Step(f, c, pub, noopDriver{})
		cc, ok := f.Concepts()[other]
		if !ok {
			break
		}
		if abs(cc.Velocity) > abs(last) {
			t.Fatalf("tick %d: non-freezer velocity increased: %v -> %v", i, last, cc.Velocity)
		}
		last = cc.Velocity
	}
}

func abs(v float64) float64 {
	if v < 0 {
		return -v
	}
	return v
}

// TestStepIsolatesPanickingConceptAndEmitsAnomaly corrupts one concept
// into a nil map entry, which panics the moment any stage dereferences
// it, and checks Step recovers: the offending concept is removed, an
// anomaly event is published, and every other concept still completes
// the tick (spec.md §7).
func TestStepIsolatesPanickingConceptAndEmitsAnomaly(t *testing.T) {
	f := fluid.New()
	c := DefaultConstants()
	pub := event.NewBroadcaster()
	f.Lock()
	defer f.Unlock()

	good := f.InsertConcept("steady", 0.5, 0.4)
	bad := f.InsertConcept("corrupted", 0.5, 0.4)
	f.Concepts()[bad] = nil

	sub := pub.NewCursor()
	Step(f, c, pub, noopDriver{})

	if _, ok := f.Concepts()[bad]; ok {
		t.Error("panicking concept should have been removed from the fluid")
	}
	if _, ok := f.Concepts()[good]; !ok {
		t.Error("unaffected concept should still be present after the tick")
	}

	events, _ := sub.Drain()
	var sawAnomaly bool
	for _, e := range events {
		if e.Kind == event.KindAnomaly {
			sawAnomaly = true
		}
	}
	if !sawAnomaly {
		t.Error("expected a KindAnomaly event for the panicking concept")
	}
}
