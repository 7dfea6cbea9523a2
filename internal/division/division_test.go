package division

import (
	"testing"

	"github.com/san-kum/fluidmind/internal/fluid"
	"github.com/san-kum/fluidmind/internal/physics"
)

func TestStartRejectsOutOfRangeDividend(t *testing.T) {
	f := fluid.New()
	f.Lock()
	defer f.Unlock()
	if err := Start(f, 0, 3, 0); err != ErrInvalidDividend {
		t.Errorf("err = %v, want ErrInvalidDividend", err)
	}
	if err := Start(f, 101, 3, 0); err != ErrInvalidDividend {
		t.Errorf("err = %v, want ErrInvalidDividend", err)
	}
}

func TestStartRejectsOutOfRangeDivisor(t *testing.T) {
	f := fluid.New()
	f.Lock()
	defer f.Unlock()
	if err := Start(f, 6, 0, 0); err != ErrInvalidDivisor {
		t.Errorf("err = %v, want ErrInvalidDivisor", err)
	}
	if err := Start(f, 6, 21, 0); err != ErrInvalidDivisor {
		t.Errorf("err = %v, want ErrInvalidDivisor", err)
	}
}

func TestStartInjectsDividendBubbles(t *testing.T) {
	f := fluid.New()
	f.Lock()
	defer f.Unlock()
	if err := Start(f, 6, 3, 2.0); err != nil {
		t.Fatal(err)
	}
	if len(f.Experiment.Bubbles) != 6 {
		t.Errorf("bubble count = %d, want 6", len(f.Experiment.Bubbles))
	}
	if f.Salinity != 2.0 {
		t.Errorf("salinity = %v, want 2.0 after salinity_boost", f.Salinity)
	}
}

func TestStartRejectsWhileBusy(t *testing.T) {
	f := fluid.New()
	f.Lock()
	defer f.Unlock()
	if err := Start(f, 6, 3, 0); err != nil {
		t.Fatal(err)
	}
	if err := Start(f, 7, 2, 0); err != fluid.ErrExperimentBusy {
		t.Errorf("err = %v, want ErrExperimentBusy", err)
	}
}

func TestDivisibleCaseSettlesEvenly(t *testing.T) {
	f := fluid.New()
	c := physics.DefaultConstants()
	f.Lock()
	defer f.Unlock()
	if err := Start(f, 6, 3, 2.0); err != nil {
		t.Fatal(err)
	}
	for i := 0; i < 300; i++ {
		Advance(f, c, 1.0/60.0)
		f.Tick++
	}
	result := Finalize(f)
	if result.Quotient != 2 || result.Remainder != 0 || !result.IsDivisible {
		t.Errorf("quotient=%d remainder=%d divisible=%v, want 2/0/true", result.Quotient, result.Remainder, result.IsDivisible)
	}
	if len(result.NodeOccupancy) != 3 {
		t.Fatalf("node occupancy length = %d, want 3", len(result.NodeOccupancy))
	}
	wantOccupancy := []int{2, 2, 2}
	for i, n := range result.NodeOccupancy {
		if n != wantOccupancy[i] {
			t.Errorf("node_occupancy = %v, want %v", result.NodeOccupancy, wantOccupancy)
			break
		}
	}
	if result.PeakJitter >= 2.0 {
		t.Errorf("peak_jitter = %v, want < 2.0 for a clean divisible settle", result.PeakJitter)
	}
}

func TestNonDivisibleCaseLeavesRemainder(t *testing.T) {
	f := fluid.New()
	c := physics.DefaultConstants()
	f.Lock()
	defer f.Unlock()
	if err := Start(f, 7, 3, 2.0); err != nil {
		t.Fatal(err)
	}
	for i := 0; i < 300; i++ {
		Advance(f, c, 1.0/60.0)
		f.Tick++
	}
	result := Finalize(f)
	if result.Quotient != 2 || result.Remainder != 1 || result.IsDivisible {
		t.Errorf("quotient=%d remainder=%d divisible=%v, want 2/1/false", result.Quotient, result.Remainder, result.IsDivisible)
	}
	sum := 0
	for _, n := range result.NodeOccupancy {
		sum += n
	}
	if sum != 7 {
		t.Errorf("sum(node_occupancy) = %d, want 7", sum)
	}
	if result.PeakJitter <= 4.0 {
		t.Errorf("peak_jitter = %v, want > 4.0 for a remainder bubble that never settles", result.PeakJitter)
	}
}

func TestFinalizeClearsExperimentSlot(t *testing.T) {
	f := fluid.New()
	c := physics.DefaultConstants()
	f.Lock()
	defer f.Unlock()
	Start(f, 4, 2, 1.0)
	Advance(f, c, 1.0/60.0)
	Finalize(f)
	if f.Experiment != nil {
		t.Error("expected experiment slot cleared after finalize")
	}
	if len(f.ExperimentResults) != 1 {
		t.Errorf("expected 1 appended result, got %d", len(f.ExperimentResults))
	}
}
