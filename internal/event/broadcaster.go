package event

import "sync"

// ringSize bounds how many recent events the broadcaster retains. A
// subscriber whose cursor falls further behind than this drops the
// events in between and resumes at the new tail, recording a lag.
const ringSize = 1024

// Broadcaster is a bounded ring of recent events shared by every
// subscriber. Publishing never blocks on a subscriber; subscribers
// that fall behind simply skip ahead. Grounded on the pack's
// mine-and-die Hub (a single mutex-guarded struct serving many
// subscribers, never blocking the simulation step on delivery), with
// the ring+cursor mechanics spelled out explicitly by spec.md §4.4/§9.
type Broadcaster struct {
	mu     sync.Mutex
	ring   [ringSize]Event
	nextSeq uint64
}

// NewBroadcaster returns an empty broadcaster.
func NewBroadcaster() *Broadcaster {
	return &Broadcaster{}
}

// Publish appends an event to the ring, assigning it the next
// sequence number, and returns that sequence number.
func (b *Broadcaster) Publish(e Event) uint64 {
	b.mu.Lock()
	defer b.mu.Unlock()
	e.Seq = b.nextSeq
	b.ring[b.nextSeq%ringSize] = e
	b.nextSeq++
	return e.Seq
}

// Cursor tracks one subscriber's read position into the ring.
type Cursor struct {
	b       *Broadcaster
	nextSeq uint64
	lagged  bool
}

// NewCursor returns a cursor starting at the broadcaster's current
// tail — it will only see events published after this call.
func (b *Broadcaster) NewCursor() *Cursor {
	b.mu.Lock()
	defer b.mu.Unlock()
	return &Cursor{b: b, nextSeq: b.nextSeq}
}

// Next returns the next event for this cursor, if any is available,
// and whether the cursor had fallen behind the ring's tail and jumped
// forward (a "lag" marker the caller may want to surface, e.g. as an
// SSE comment).
func (c *Cursor) Next() (ev Event, ok bool, lagged bool) {
	c.b.mu.Lock()
	defer c.b.mu.Unlock()

	oldest := uint64(0)
	if c.b.nextSeq > ringSize {
		oldest = c.b.nextSeq - ringSize
	}
	if c.nextSeq < oldest {
		c.nextSeq = oldest
		lagged = true
	}

	if c.nextSeq >= c.b.nextSeq {
		return Event{}, false, lagged
	}

	ev = c.b.ring[c.nextSeq%ringSize]
	c.nextSeq++
	return ev, true, lagged
}

// Drain returns every event currently available to the cursor, in
// order, along with whether any were dropped due to lag.
func (c *Cursor) Drain() (events []Event, lagged bool) {
	for {
		ev, ok, l := c.Next()
		if l {
			lagged = true
		}
		if !ok {
			return events, lagged
		}
		events = append(events, ev)
	}
}
