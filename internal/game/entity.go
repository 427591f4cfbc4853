package game

import (
	"fmt"
	"math"
)

// Body is a circular rigid body. Dead balls are bare bodies; the live ball embeds one.
type Body struct {
	X   float64 `json:"x"`
	Y   float64 `json:"y"`
	VX  float64 `json:"vx"`
	VY  float64 `json:"vy"`
	R   float64 `json:"r"`
	Rot float64 `json:"rot"`
}

// Ball is the live ball of the current life.
type Ball struct {
	Body
	RimHit     bool   `json:"rim_hit"`
	StuckTimer int    `json:"-"`
	Trail      []Vec2 `json:"trail"`
}

// pushTrail appends a trail sample, dropping the oldest beyond TrailLength.
func (b *Ball) pushTrail() {
	b.Trail = append(b.Trail, Vec2{X: b.X, Y: b.Y})
	if len(b.Trail) > TrailLength {
		n := copy(b.Trail, b.Trail[1:])
		b.Trail = b.Trail[:n]
	}
}

// Movement is a hoop's motion pattern.
type Movement int

const (
	MovementStatic Movement = iota
	MovementHorizontal
	MovementWave
)

var movementNames = [...]string{"STATIC", "HORIZONTAL", "WAVE"}

func (m Movement) String() string {
	if m < 0 || int(m) >= len(movementNames) {
		return fmt.Sprintf("Movement(%d)", int(m))
	}
	return movementNames[m]
}

func (m Movement) MarshalText() ([]byte, error) {
	return []byte(m.String()), nil
}

func (m *Movement) UnmarshalText(text []byte) error {
	for i, name := range movementNames {
		if name == string(text) {
			*m = Movement(i)
			return nil
		}
	}
	return fmt.Errorf("unknown movement %q", text)
}

// Blocker is a drone orbiting a hoop's rim center.
type Blocker struct {
	Angle float64 `json:"angle"`
	Speed float64 `json:"speed"`
	Dist  float64 `json:"dist"`
	R     float64 `json:"r"`
}

// Position returns the blocker's world position around hoop h.
func (b Blocker) Position(h *Hoop) (float64, float64) {
	return h.X + math.Cos(b.Angle)*b.Dist, h.Y + math.Sin(b.Angle)*b.Dist
}

// Hoop is a rim with its net. Y is the rim height; smaller Y is higher up the tower.
type Hoop struct {
	ID         int       `json:"id"`
	X          float64   `json:"x"`
	Y          float64   `json:"y"`
	W          float64   `json:"w"`
	Scored     bool      `json:"scored"`
	Side       int       `json:"side"`
	StartX     float64   `json:"start_x"`
	StartY     float64   `json:"start_y"`
	Movement   Movement  `json:"movement"`
	MoveSpeedX float64   `json:"move_speed_x"`
	MoveSpeedY float64   `json:"move_speed_y"`
	Swish      float64   `json:"swish"`
	Blockers   []Blocker `json:"blockers"`
	Net        *Net      `json:"net"`
	TimeOffset float64   `json:"-"`
}

func (h *Hoop) RimLeft() float64  { return h.X - h.W/2 }
func (h *Hoop) RimRight() float64 { return h.X + h.W/2 }

// InSuccessZone reports whether a ball at (x, y) moving with vertical speed vy
// counts as going through the hoop. margin tightens the rim span on both sides.
func (h *Hoop) InSuccessZone(x, y, vy, margin float64) bool {
	return vy > 0 &&
		x > h.RimLeft()+margin && x < h.RimRight()-margin &&
		y > h.Y && y < h.Y+ScoreBand
}

// move advances an unscored hoop along its movement pattern.
func (h *Hoop) move(tick int, worldWidth float64) {
	if h.Scored {
		return
	}
	switch h.Movement {
	case MovementHorizontal:
		h.X += h.MoveSpeedX
		if h.X > worldWidth-HoopTravelMargin || h.X < HoopTravelMargin {
			h.MoveSpeedX *= -1
		}
	case MovementWave:
		h.X += h.MoveSpeedX
		if h.X > worldWidth-HoopTravelMargin || h.X < HoopTravelMargin {
			h.MoveSpeedX *= -1
		}
		h.Y = h.StartY + math.Sin((float64(tick)+h.TimeOffset)*h.MoveSpeedY)*WaveAmplitude
	}
}

// Obstacle is a horizontally patrolling bar.
type Obstacle struct {
	X  float64 `json:"x"`
	Y  float64 `json:"y"`
	W  float64 `json:"w"`
	H  float64 `json:"h"`
	VX float64 `json:"vx"`
}

func (o *Obstacle) move(worldWidth float64) {
	o.X += o.VX
	if o.X < 0 || o.X+o.W > worldWidth {
		o.VX *= -1
	}
}

// Particle is a short-lived spark.
type Particle struct {
	X     float64 `json:"x"`
	Y     float64 `json:"y"`
	VX    float64 `json:"vx"`
	VY    float64 `json:"vy"`
	Life  float64 `json:"life"`
	Color string  `json:"color"`
	Size  float64 `json:"size"`
}

// Star is a background star. Only the renderer reads it.
type Star struct {
	X         float64 `json:"x"`
	Y         float64 `json:"y"`
	Size      float64 `json:"size"`
	Speed     float64 `json:"-"`
	Twinkle   float64 `json:"-"`
	BaseAlpha float64 `json:"-"`
	Alpha     float64 `json:"alpha"`
}
