package game

import (
	"fmt"
	"math"
)

// Drag is the in-progress aim gesture in screen coordinates.
type Drag struct {
	Active bool    `json:"active"`
	StartX float64 `json:"start_x"`
	StartY float64 `json:"start_y"`
	X      float64 `json:"x"`
	Y      float64 `json:"y"`
}

// Vector is the launch direction: start minus current, so pulling back fires forward.
func (d Drag) Vector() (float64, float64) {
	return d.StartX - d.X, d.StartY - d.Y
}

// PointerDown begins a drag. It is ignored unless the ball is waiting to be aimed.
func (g *GameState) PointerDown(x, y float64) {
	if g.Status != StatusAiming {
		return
	}
	g.Ball.Trail = nil
	g.Drag = Drag{Active: true, StartX: x, StartY: y, X: x, Y: y}
}

func (g *GameState) PointerMove(x, y float64) {
	if !g.Drag.Active {
		return
	}
	g.Drag.X = x
	g.Drag.Y = y
}

// PointerUp releases the drag and launches the ball when it was pulled far enough.
// It reports whether a launch happened.
func (g *GameState) PointerUp() bool {
	if !g.Drag.Active {
		return false
	}
	g.Drag.Active = false
	dx, dy := g.Drag.Vector()
	if math.Hypot(dx, dy) <= LaunchThreshold {
		return false
	}
	// A drag started while aiming can outlive the state if a respawn or reset
	// landed mid-gesture.
	if g.Status != StatusAiming {
		return false
	}

	g.Ball.VX = dx * LaunchScaleX
	g.Ball.VY = dy * LaunchScaleY
	g.Ball.RimHit = false
	g.Ball.StuckTimer = 0
	g.Status = StatusFlying
	g.emit(Event{Kind: EventJump})
	return true
}

// Preview returns the aim guide for the active drag, or false when not aiming.
func (g *GameState) Preview() (Aim, bool) {
	if g.Status != StatusAiming || !g.Drag.Active {
		return Aim{}, false
	}
	dx, dy := g.Drag.Vector()
	return AimPreview(g.Ball.Body, dx, dy, g.Wind, g.Hoops, g.Width), true
}

// InputKind names a player command.
type InputKind string

const (
	InputStart       InputKind = "start"
	InputRestart     InputKind = "restart"
	InputPointerDown InputKind = "pointer_down"
	InputPointerMove InputKind = "pointer_move"
	InputPointerUp   InputKind = "pointer_up"
)

// Input is a player command as it arrives from a client.
type Input struct {
	Kind InputKind `json:"kind"`
	X    float64   `json:"x"`
	Y    float64   `json:"y"`
}

// Apply routes an input to the matching state operation.
func (g *GameState) Apply(in Input) error {
	switch in.Kind {
	case InputStart:
		return g.Start()
	case InputRestart:
		return g.Restart()
	case InputPointerDown:
		g.PointerDown(in.X, in.Y)
	case InputPointerMove:
		g.PointerMove(in.X, in.Y)
	case InputPointerUp:
		g.PointerUp()
	default:
		return fmt.Errorf("unknown input kind %q", in.Kind)
	}
	return nil
}
