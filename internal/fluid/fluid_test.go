package fluid

import (
	"math"
	"testing"

	"github.com/san-kum/fluidmind/internal/entity"
	"github.com/san-kum/fluidmind/internal/event"
)

func TestNewHasPrimalAxiomVent(t *testing.T) {
	f := New()
	vents := f.ListVents()
	if len(vents) != 1 {
		t.Fatalf("expected 1 boot vent, got %d", len(vents))
	}
	if vents[0].Name != "primal axiom" {
		t.Fatalf("expected primal axiom vent, got %q", vents[0].Name)
	}
}

func TestInsertConceptRoundTrip(t *testing.T) {
	f := New()
	f.Lock()
	id := f.InsertConcept("despair", 0.9, 0.5)
	f.Unlock()

	f.RLock()
	defer f.RUnlock()
	c, ok := f.Concepts()[id]
	if !ok {
		t.Fatal("inserted concept not found")
	}
	if c.Density != 0.9 {
		t.Errorf("density = %v, want 0.9", c.Density)
	}
	if c.Layer != 0.9 {
		t.Errorf("layer = %v, want density 0.9 (heavy starts low)", c.Layer)
	}
	if math.Abs(c.Buoyancy-0.1) > 1e-12 {
		t.Errorf("buoyancy = %v, want 1-density = 0.1", c.Buoyancy)
	}
}

func TestInsertConceptOrderPreserved(t *testing.T) {
	f := New()
	f.Lock()
	defer f.Unlock()
	names := []string{"a", "b", "c"}
	ids := make([]entity.ConceptID, len(names))
	for i, n := range names {
		ids[i] = f.InsertConcept(n, 0.1, 0.4)
	}
	order := f.ConceptOrder()
	if len(order) != len(ids) {
		t.Fatalf("order length = %d, want %d", len(order), len(ids))
	}
	for i, id := range ids {
		if order[i] != id {
			t.Errorf("order[%d] = %v, want %v (insertion order)", i, order[i], id)
		}
	}
}

func TestApplyBallastUnknownConcept(t *testing.T) {
	f := New()
	f.Lock()
	defer f.Unlock()
	if err := f.ApplyBallast(entity.ConceptID{}, 0.1); err != ErrNoSuchConcept {
		t.Errorf("err = %v, want ErrNoSuchConcept", err)
	}
}

func TestApplyBallastClampsAndWatches(t *testing.T) {
	f := New()
	f.Lock()
	defer f.Unlock()
	id := f.InsertConcept("x", 0.95, 0.4)
	if err := f.ApplyBallast(id, 0.5); err != nil {
		t.Fatal(err)
	}
	if f.Concepts()[id].Density != 1.0 {
		t.Errorf("density = %v, want clamped to 1.0", f.Concepts()[id].Density)
	}
	if len(f.catalysisWatches) != 1 {
		t.Fatalf("expected a pending catalysis watch, got %d", len(f.catalysisWatches))
	}
}

func TestDeepBreathFullStrengthZeroesVelocity(t *testing.T) {
	f := New()
	f.Lock()
	defer f.Unlock()
	id := f.InsertConcept("x", 0.5, 0.4)
	f.Concepts()[id].Velocity = 3.0
	f.DeepBreath(1.0)
	if v := f.Concepts()[id].Velocity; v != 0 {
		t.Errorf("velocity = %v, want 0 after deep_breath(1.0)", v)
	}
}

func TestThawClearsFrozenFlag(t *testing.T) {
	f := New()
	f.Lock()
	defer f.Unlock()
	f.Frozen = true
	f.Thaw()
	if f.Frozen {
		t.Error("expected frozen flag cleared after thaw")
	}
}

func TestStrataFiltersByLayer(t *testing.T) {
	f := New()
	f.Lock()
	id := f.InsertConcept("shallow", 0.1, 0.4)
	f.InsertConcept("deep", 0.9, 0.4)
	f.Unlock()

	f.RLock()
	defer f.RUnlock()
	s := f.Strata(0.0, 0.2)
	if len(s.Concepts) != 1 || s.Concepts[0].ID != id {
		t.Fatalf("expected only the shallow concept in range, got %d concepts", len(s.Concepts))
	}
	if s.TotalConcepts != 2 {
		t.Errorf("total_concepts = %d, want 2", s.TotalConcepts)
	}
}

func TestTriggerContinentBelowThreshold(t *testing.T) {
	f := New()
	f.Lock()
	defer f.Unlock()
	pub := event.NewBroadcaster()
	err := f.TriggerContinent(10.0, pub)
	if err != ErrPressureBelowThreshold {
		t.Errorf("err = %v, want ErrPressureBelowThreshold", err)
	}
}

func TestTriggerContinentFormsAndResetsPressure(t *testing.T) {
	f := New()
	f.Lock()
	defer f.Unlock()
	f.AddOre(entity.PreciousOre{Name: "o1", Kind: entity.OreCode, Pressure: 6, Depth: 0.95})
	pub := event.NewBroadcaster()
	if err := f.TriggerContinent(5.0, pub); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if f.OrePressure != 0 {
		t.Errorf("ore pressure = %v, want reset to 0 after shift", f.OrePressure)
	}
	if len(f.Continents()) != 1 {
		t.Fatalf("expected 1 continent formed, got %d", len(f.Continents()))
	}
}
