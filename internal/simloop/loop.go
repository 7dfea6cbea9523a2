// Package simloop owns the fluid and runs it at a fixed 60 Hz cadence
// on a wall-clock deadline, draining queued commands before each
// physics step. Grounded on the teacher's Simulator.Run loop (ctx.Done
// select, per-step error isolation) generalized from a bounded batch
// run to an indefinitely-running real-time loop per spec.md §5.
package simloop

import (
	"context"
	"time"

	"github.com/san-kum/fluidmind/internal/command"
	"github.com/san-kum/fluidmind/internal/division"
	"github.com/san-kum/fluidmind/internal/event"
	"github.com/san-kum/fluidmind/internal/fluid"
	"github.com/san-kum/fluidmind/internal/physics"
)

// TickHz is the fixed simulation cadence: 60 steps per second.
const TickHz = 60

// TickInterval is the wall-clock period between steps.
const TickInterval = time.Second / TickHz

// commandQueueCapacity bounds the multi-producer single-consumer
// command channel (spec.md §5).
const commandQueueCapacity = 256

// posted pairs a command with the channel the dispatcher's result or
// error is delivered back on, so HTTP/WS handlers can await their
// command's outcome without blocking the loop itself.
type posted struct {
	cmd  command.Command
	resp chan dispatchOutcome
}

type dispatchOutcome struct {
	result command.Result
	err    error
}

// Loop is the running simulation: it owns the Fluid exclusively except
// for the read lock query endpoints may take between ticks.
type Loop struct {
	fluid   *fluid.Fluid
	pub     *event.Broadcaster
	c       physics.Constants
	commands chan posted

	missedTicks uint64
}

// New constructs a loop over a fresh fluid using the given physics
// constants and event broadcaster.
func New(c physics.Constants, pub *event.Broadcaster) *Loop {
	f := fluid.New()
	if c.DefaultPressureThreshold > 0 {
		f.PressureThreshold = c.DefaultPressureThreshold
	}
	return &Loop{
		fluid:    f,
		pub:      pub,
		c:        c,
		commands: make(chan posted, commandQueueCapacity),
	}
}

// Fluid returns the loop's fluid, for query endpoints that need to
// take the read lock directly (e.g. /strata, /state).
func (l *Loop) Fluid() *fluid.Fluid { return l.fluid }

// Broadcaster returns the loop's event broadcaster.
func (l *Loop) Broadcaster() *event.Broadcaster { return l.pub }

// Submit enqueues a command and blocks until the loop has dispatched
// it (at the next command-drain phase), returning its outcome. It
// never takes the fluid's lock itself — only the loop goroutine does.
func (l *Loop) Submit(ctx context.Context, cmd command.Command) (command.Result, error) {
	resp := make(chan dispatchOutcome, 1)
	select {
	case l.commands <- posted{cmd: cmd, resp: resp}:
	case <-ctx.Done():
		return command.Result{}, ctx.Err()
	}
	select {
	case out := <-resp:
		return out.result, out.err
	case <-ctx.Done():
		return command.Result{}, ctx.Err()
	}
}

// MissedTicks reports how many 1/60s deadlines the loop failed to meet
// and had to skip rather than double-step, per spec.md §9's "skip, do
// not double-step" catch-up policy.
func (l *Loop) MissedTicks() uint64 { return l.missedTicks }

// Run drives the loop until ctx is canceled. Each iteration: read the
// wall clock, drain pending commands and run one physics step under
// the fluid's exclusive lock, then sleep until the next 1/60s
// boundary — or, if that boundary has already passed, skip ahead
// without double-stepping.
func (l *Loop) Run(ctx context.Context) {
	deadline := time.Now().Add(TickInterval)
	for {
		select {
		case <-ctx.Done():
			return
		default:
		}

		l.fluid.Lock()
		l.drainCommands()
		physics.Step(l.fluid, l.c, l.pub, division.Driver{})
		l.fluid.Unlock()

		now := time.Now()
		if now.After(deadline) {
			l.missedTicks++
			deadline = now.Add(TickInterval)
			continue
		}

		sleep := deadline.Sub(now)
		select {
		case <-ctx.Done():
			return
		case <-time.After(sleep):
		}
		deadline = deadline.Add(TickInterval)
	}
}

// drainCommands dispatches every command queued since the last tick.
// Caller must hold the fluid's write lock.
func (l *Loop) drainCommands() {
	for {
		select {
		case p := <-l.commands:
			result, err := command.Dispatch(l.fluid, l.pub, p.cmd)
			p.resp <- dispatchOutcome{result: result, err: err}
		default:
			return
		}
	}
}
