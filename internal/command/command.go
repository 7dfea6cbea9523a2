// Package command implements the typed command union external
// adapters post to the simulation: one dispatcher function maps each
// kind onto a fluid operation, translating fluid-level errors into
// the taxonomy spec.md §7 defines.
package command

import (
	"errors"

	"github.com/san-kum/fluidmind/internal/division"
	"github.com/san-kum/fluidmind/internal/entity"
	"github.com/san-kum/fluidmind/internal/event"
	"github.com/san-kum/fluidmind/internal/fluid"
)

// Kind is the closed set of commands the dispatcher accepts.
type Kind string

const (
	KindInject           Kind = "inject"
	KindBallast          Kind = "ballast"
	KindThaw             Kind = "thaw"
	KindDeepBreath       Kind = "deep_breath"
	KindModulateBuoyancy Kind = "modulate_buoyancy"
	KindAddCoreTruth     Kind = "add_core_truth"
	KindFlashHeal        Kind = "flash_heal"
	KindTriggerContinent Kind = "trigger_continent"
	KindStartDivision    Kind = "start_division"
)

// Command is a tagged union: only the fields relevant to Kind are
// populated. Built by the API layer from request bodies or WS frames.
type Command struct {
	Kind Kind

	// inject
	ConceptName string
	Density     float64
	Volume      float64

	// ballast / modulate_buoyancy target an existing concept by id
	ConceptID entity.ConceptID
	Delta     float64

	// deep_breath
	Strength float64

	// add_core_truth
	VentName   string
	HeatOutput float64
	Depth      float64
	Radius     float64

	// flash_heal
	HealConcepts    []fluid.FlashHealConcept
	DilutionStrength float64

	// trigger_continent
	PressureThreshold float64

	// start_division
	Dividend      int
	Divisor       int
	SalinityBoost float64
}

// Result carries back whatever the dispatcher's operation produced
// that the caller needs to answer its request. Only inject produces
// anything (the new concept's id); every other Kind leaves it zero.
type Result struct {
	ConceptID entity.ConceptID
}

// ErrOutOfRange reports a scalar outside its declared range. Field
// names the offending parameter, per spec.md §4.3.
type ErrOutOfRange struct {
	Field string
}

func (e *ErrOutOfRange) Error() string { return "command: out of range: " + e.Field }

// ErrUnknownKind reports a Command with a Kind the dispatcher does not
// recognize — a defensive case the external adapters should never
// actually produce.
var ErrUnknownKind = errors.New("command: unknown kind")

// Dispatch applies cmd to f, publishing any resulting event to pub. f
// must be held under its write lock by the caller; Dispatch never
// locks or unlocks it.
func Dispatch(f *fluid.Fluid, pub *event.Broadcaster, cmd Command) (Result, error) {
	switch cmd.Kind {
	case KindInject:
		return dispatchInject(f, cmd)
	case KindBallast:
		return Result{}, dispatchBallast(f, cmd)
	case KindModulateBuoyancy:
		return Result{}, dispatchModulateBuoyancy(f, cmd)
	case KindThaw:
		return Result{}, dispatchThaw(f, pub, cmd)
	case KindDeepBreath:
		return Result{}, dispatchDeepBreath(f, cmd)
	case KindAddCoreTruth:
		return Result{}, dispatchAddCoreTruth(f, cmd)
	case KindFlashHeal:
		return Result{}, dispatchFlashHeal(f, cmd)
	case KindTriggerContinent:
		return Result{}, f.TriggerContinent(cmd.PressureThreshold, pub)
	case KindStartDivision:
		return Result{}, division.Start(f, cmd.Dividend, cmd.Divisor, cmd.SalinityBoost)
	default:
		return Result{}, ErrUnknownKind
	}
}

func dispatchInject(f *fluid.Fluid, cmd Command) (Result, error) {
	if cmd.Density < 0 || cmd.Density > 1 {
		return Result{}, &ErrOutOfRange{Field: "density"}
	}
	if cmd.Volume < 0 || cmd.Volume > 2 {
		return Result{}, &ErrOutOfRange{Field: "volume"}
	}
	id := f.InsertConcept(cmd.ConceptName, cmd.Density, cmd.Volume)
	return Result{ConceptID: id}, nil
}

func dispatchBallast(f *fluid.Fluid, cmd Command) error {
	return f.ApplyBallast(cmd.ConceptID, cmd.Delta)
}

func dispatchModulateBuoyancy(f *fluid.Fluid, cmd Command) error {
	return f.ModulateBuoyancy(cmd.ConceptID, cmd.Delta)
}

func dispatchThaw(f *fluid.Fluid, pub *event.Broadcaster, cmd Command) error {
	tick := f.Thaw()
	pub.Publish(event.Event{Kind: event.KindThaw, Tick: tick})
	return nil
}

func dispatchDeepBreath(f *fluid.Fluid, cmd Command) error {
	if cmd.Strength < 0 || cmd.Strength > 1 {
		return &ErrOutOfRange{Field: "strength"}
	}
	f.DeepBreath(cmd.Strength)
	return nil
}

func dispatchAddCoreTruth(f *fluid.Fluid, cmd Command) error {
	if cmd.HeatOutput <= 0 {
		return &ErrOutOfRange{Field: "heat_output"}
	}
	if cmd.Depth < 0 || cmd.Depth > 1 {
		return &ErrOutOfRange{Field: "depth"}
	}
	if cmd.Radius <= 0 || cmd.Radius > 1 {
		return &ErrOutOfRange{Field: "radius"}
	}
	f.AddVent(cmd.VentName, cmd.HeatOutput, cmd.Depth, cmd.Radius)
	return nil
}

func dispatchFlashHeal(f *fluid.Fluid, cmd Command) error {
	if cmd.DilutionStrength < 0 || cmd.DilutionStrength > 1 {
		return &ErrOutOfRange{Field: "dilution_strength"}
	}
	f.FlashHeal(cmd.HealConcepts, cmd.DilutionStrength)
	return nil
}
