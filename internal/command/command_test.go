package command

import (
	"testing"

	"github.com/san-kum/fluidmind/internal/event"
	"github.com/san-kum/fluidmind/internal/fluid"
)

func TestDispatchInjectOutOfRangeDensity(t *testing.T) {
	f := fluid.New()
	pub := event.NewBroadcaster()
	f.Lock()
	defer f.Unlock()

	_, err := Dispatch(f, pub, Command{Kind: KindInject, ConceptName: "x", Density: 1.5, Volume: 0.5})
	if _, ok := err.(*ErrOutOfRange); !ok {
		t.Fatalf("err = %v, want *ErrOutOfRange", err)
	}
}

func TestDispatchInjectSucceeds(t *testing.T) {
	f := fluid.New()
	pub := event.NewBroadcaster()
	f.Lock()
	defer f.Unlock()

	res, err := Dispatch(f, pub, Command{Kind: KindInject, ConceptName: "x", Density: 0.5, Volume: 0.5})
	if err != nil {
		t.Fatal(err)
	}
	if _, ok := f.Concepts()[res.ConceptID]; !ok {
		t.Fatal("expected concept to exist after inject")
	}
}

func TestDispatchBallastUnknownConcept(t *testing.T) {
	f := fluid.New()
	pub := event.NewBroadcaster()
	f.Lock()
	defer f.Unlock()

	_, err := Dispatch(f, pub, Command{Kind: KindBallast, Delta: 0.1})
	if err != fluid.ErrNoSuchConcept {
		t.Errorf("err = %v, want ErrNoSuchConcept", err)
	}
}

func TestDispatchThawPublishesEvent(t *testing.T) {
	f := fluid.New()
	pub := event.NewBroadcaster()
	f.Lock()
	f.Frozen = true
	cursor := pub.NewCursor()
	_, err := Dispatch(f, pub, Command{Kind: KindThaw})
	f.Unlock()
	if err != nil {
		t.Fatal(err)
	}
	events, _ := cursor.Drain()
	if len(events) != 1 || events[0].Kind != event.KindThaw {
		t.Fatalf("expected a single thaw event, got %+v", events)
	}
}

func TestDispatchStartDivisionBusy(t *testing.T) {
	f := fluid.New()
	pub := event.NewBroadcaster()
	f.Lock()
	defer f.Unlock()

	if _, err := Dispatch(f, pub, Command{Kind: KindStartDivision, Dividend: 6, Divisor: 3}); err != nil {
		t.Fatal(err)
	}
	if _, err := Dispatch(f, pub, Command{Kind: KindStartDivision, Dividend: 7, Divisor: 2}); err != fluid.ErrExperimentBusy {
		t.Errorf("err = %v, want ErrExperimentBusy", err)
	}
}

func TestDispatchUnknownKind(t *testing.T) {
	f := fluid.New()
	pub := event.NewBroadcaster()
	f.Lock()
	defer f.Unlock()

	if _, err := Dispatch(f, pub, Command{Kind: "bogus"}); err != ErrUnknownKind {
		t.Errorf("err = %v, want ErrUnknownKind", err)
	}
}
