package simloop

import (
	"context"
	"testing"
	"time"

	"github.com/san-kum/fluidmind/internal/command"
	"github.com/san-kum/fluidmind/internal/event"
	"github.com/san-kum/fluidmind/internal/physics"
)

func TestSubmitInjectReturnsID(t *testing.T) {
	l := New(physics.DefaultConstants(), event.NewBroadcaster())
	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()

	go l.Run(ctx)

	res, err := l.Submit(ctx, command.Command{Kind: command.KindInject, ConceptName: "x", Density: 0.5, Volume: 0.5})
	if err != nil {
		t.Fatal(err)
	}

	l.Fluid().RLock()
	_, ok := l.Fluid().Concepts()[res.ConceptID]
	l.Fluid().RUnlock()
	if !ok {
		t.Fatal("expected injected concept to be present")
	}
}

func TestTickCounterAdvances(t *testing.T) {
	l := New(physics.DefaultConstants(), event.NewBroadcaster())
	ctx, cancel := context.WithTimeout(context.Background(), 100*time.Millisecond)
	defer cancel()

	l.Run(ctx)

	l.Fluid().RLock()
	tick := l.Fluid().Tick
	l.Fluid().RUnlock()
	if tick == 0 {
		t.Error("expected tick counter to have advanced")
	}
}
