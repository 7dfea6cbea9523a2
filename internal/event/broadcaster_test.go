package event

import "testing"

func TestPublishAssignsIncreasingSeq(t *testing.T) {
	b := NewBroadcaster()
	s1 := b.Publish(Event{Kind: KindThaw})
	s2 := b.Publish(Event{Kind: KindFreeze})
	if s2 != s1+1 {
		t.Errorf("seq %d, want %d", s2, s1+1)
	}
}

func TestCursorOnlySeesEventsAfterCreation(t *testing.T) {
	b := NewBroadcaster()
	b.Publish(Event{Kind: KindThaw})

	cursor := b.NewCursor()
	if _, ok, _ := cursor.Next(); ok {
		t.Error("cursor saw an event published before it was created")
	}

	b.Publish(Event{Kind: KindFreeze})
	ev, ok, lagged := cursor.Next()
	if !ok || lagged {
		t.Fatalf("Next() = %v, %v, %v", ev, ok, lagged)
	}
	if ev.Kind != KindFreeze {
		t.Errorf("Kind = %v, want freeze", ev.Kind)
	}
}

func TestDrainReturnsEventsInOrder(t *testing.T) {
	b := NewBroadcaster()
	cursor := b.NewCursor()
	b.Publish(Event{Kind: KindThaw})
	b.Publish(Event{Kind: KindFreeze})
	b.Publish(Event{Kind: KindCatalysis})

	events, lagged := cursor.Drain()
	if lagged {
		t.Error("unexpected lag")
	}
	if len(events) != 3 {
		t.Fatalf("len(events) = %d, want 3", len(events))
	}
	if events[0].Kind != KindThaw || events[1].Kind != KindFreeze || events[2].Kind != KindCatalysis {
		t.Errorf("events out of order: %+v", events)
	}
}

func TestCursorDetectsLagWhenRingWraps(t *testing.T) {
	b := NewBroadcaster()
	cursor := b.NewCursor()

	for i := 0; i < ringSize+10; i++ {
		b.Publish(Event{Kind: KindAnomaly})
	}

	events, lagged := cursor.Drain()
	if !lagged {
		t.Error("expected lag after the ring wrapped past the cursor")
	}
	if len(events) != ringSize {
		t.Errorf("len(events) = %d, want %d", len(events), ringSize)
	}
}
