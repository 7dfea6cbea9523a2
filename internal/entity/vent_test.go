package entity

import "testing"

func TestPrimalAxiomDefaults(t *testing.T) {
	v := PrimalAxiom()
	if v.Depth != 0.9 || v.Radius != 0.3 || v.HeatOutput != 1.0 {
		t.Errorf("PrimalAxiom() = %+v, want depth=0.9 radius=0.3 heat=1.0", v)
	}
}

func TestInRadius(t *testing.T) {
	v := NewCoreTruth("x", 1.0, 0.5, 0.2)
	if !v.InRadius(0.5) {
		t.Error("center should be in radius")
	}
	if !v.InRadius(0.65) {
		t.Error("just inside the edge should be in radius")
	}
	if v.InRadius(0.8) {
		t.Error("outside the radius should not be in radius")
	}
}

func TestProximityPeaksAtCenterAndFloorsAtZero(t *testing.T) {
	v := NewCoreTruth("x", 1.0, 0.5, 0.2)
	if p := v.Proximity(0.5); p != 1 {
		t.Errorf("Proximity at center = %v, want 1", p)
	}
	if p := v.Proximity(1.0); p != 0 {
		t.Errorf("Proximity far outside radius = %v, want 0", p)
	}
}
