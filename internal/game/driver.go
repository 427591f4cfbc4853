package game

import (
	"context"
	"log"
	"time"
)

// Driver runs a GameState at a fixed rate. Inputs are queued from any goroutine and
// applied on the driver's goroutine right before the next step, so the state is
// never touched concurrently.
type Driver struct {
	State    *GameState
	inputs   chan Input
	interval time.Duration

	// OnFrame is called on the driver goroutine after every step.
	OnFrame func(g *GameState, events []Event)
}

// NewDriver wraps state with an input queue. tickRate <= 0 means TickRate.
func NewDriver(state *GameState, tickRate int) *Driver {
	if tickRate <= 0 {
		tickRate = TickRate
	}
	return &Driver{
		State:    state,
		inputs:   make(chan Input, 64),
		interval: time.Second / time.Duration(tickRate),
	}
}

// Send queues an input without blocking. It reports false when the queue is full.
func (d *Driver) Send(in Input) bool {
	select {
	case d.inputs <- in:
		return true
	default:
		return false
	}
}

// Advance applies queued inputs and steps once.
func (d *Driver) Advance() []Event {
drain:
	for {
		select {
		case in := <-d.inputs:
			if err := d.State.Apply(in); err != nil {
				log.Printf("[SESSION] input %s rejected: %v", in.Kind, err)
			}
		default:
			break drain
		}
	}
	events := d.State.Step()
	if d.OnFrame != nil {
		d.OnFrame(d.State, events)
	}
	return events
}

// Run steps until ctx is cancelled.
func (d *Driver) Run(ctx context.Context) error {
	ticker := time.NewTicker(d.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			d.Advance()
		case <-ctx.Done():
			return ctx.Err()
		}
	}
}
