package entity

import (
	"testing"

	"github.com/google/uuid"
)

func TestNewConceptDerivesAreaAndLayer(t *testing.T) {
	tests := []struct {
		name      string
		density   float64
		volume    float64
		wantArea  float64
		wantLayer float64
	}{
		{"typical", 0.5, 1.0, 0.6, 0.5},
		{"tiny volume floors area", 0.5, 0.001, 0.01, 0.5},
		{"density clamped above 1", 1.5, 1.0, 0.6, 1.0},
		{"density clamped below 0", -0.5, 1.0, 0.6, 0.0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := NewConcept(uuid.New(), "x", tt.density, tt.volume)
			if c.Area != tt.wantArea {
				t.Errorf("Area = %v, want %v", c.Area, tt.wantArea)
			}
			if c.Layer != tt.wantLayer {
				t.Errorf("Layer = %v, want %v", c.Layer, tt.wantLayer)
			}
			if c.Status != StatusFloating {
				t.Errorf("Status = %v, want floating", c.Status)
			}
		})
	}
}

func TestConceptMassNeverZero(t *testing.T) {
	c := NewConcept(uuid.New(), "x", 0, 0.001)
	if c.Mass() <= 0 {
		t.Errorf("Mass() = %v, want > 0", c.Mass())
	}
}

func TestClampLayerZeroesVelocityAtFloor(t *testing.T) {
	c := NewConcept(uuid.New(), "x", 0.5, 1.0)
	c.Layer = 1.2
	c.Velocity = 3.0
	if hit := c.ClampLayer(); hit {
		t.Error("ClampLayer reported surface hit at the floor")
	}
	if c.Layer != 1 || c.Velocity != 0 {
		t.Errorf("Layer/Velocity = %v/%v, want 1/0", c.Layer, c.Velocity)
	}
}

func TestClampLayerReportsSurfaceHit(t *testing.T) {
	c := NewConcept(uuid.New(), "x", 0.5, 1.0)
	c.Layer = -0.2
	if hit := c.ClampLayer(); !hit {
		t.Error("ClampLayer did not report surface hit at the surface")
	}
	if c.Layer != 0 {
		t.Errorf("Layer = %v, want 0", c.Layer)
	}
}

func TestWasInsideVentTracksPreviousTick(t *testing.T) {
	c := NewConcept(uuid.New(), "x", 0.5, 1.0)

	if was := c.WasInsideVent(0, true); was {
		t.Error("first call should report not-previously-inside")
	}
	if was := c.WasInsideVent(0, true); !was {
		t.Error("second call should report previously-inside")
	}
	if was := c.WasInsideVent(1, false); was {
		t.Error("a distinct vent index should track independently")
	}
}

func TestStatusString(t *testing.T) {
	tests := map[Status]string{
		StatusFloating:   "floating",
		StatusRising:     "rising",
		StatusSinking:    "sinking",
		StatusFrozen:     "frozen",
		StatusEvaporated: "evaporated",
		Status(99):       "unknown",
	}
	for status, want := range tests {
		if got := status.String(); got != want {
			t.Errorf("Status(%d).String() = %q, want %q", status, got, want)
		}
	}
}
