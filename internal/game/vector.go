package game

import "math"

// Vec2 is a 2D point or offset in world units (y grows downwards).
type Vec2 struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

func (v Vec2) Plus(o Vec2) Vec2 {
	return Vec2{X: v.X + o.X, Y: v.Y + o.Y}
}

func (v Vec2) Minus(o Vec2) Vec2 {
	return Vec2{X: v.X - o.X, Y: v.Y - o.Y}
}

func (v Vec2) Times(s float64) Vec2 {
	return Vec2{X: v.X * s, Y: v.Y * s}
}

func (v Vec2) Dot(o Vec2) float64 {
	return v.X*o.X + v.Y*o.Y
}

func (v Vec2) Magnitude() float64 {
	return math.Hypot(v.X, v.Y)
}

// Normalize returns the unit vector, or straight up for the zero vector so
// callers never divide by zero.
func (v Vec2) Normalize() Vec2 {
	m := v.Magnitude()
	if m == 0 {
		return Vec2{X: 0, Y: -1}
	}
	return Vec2{X: v.X / m, Y: v.Y / m}
}

// Reflect mirrors v about the unit normal n.
func (v Vec2) Reflect(n Vec2) Vec2 {
	return v.Minus(n.Times(2 * v.Dot(n)))
}

// Perp is v rotated a quarter turn.
func (v Vec2) Perp() Vec2 {
	return Vec2{X: -v.Y, Y: v.X}
}

func (v Vec2) DistanceTo(o Vec2) float64 {
	return v.Minus(o).Magnitude()
}

func (b *Body) pos() Vec2 { return Vec2{X: b.X, Y: b.Y} }
func (b *Body) vel() Vec2 { return Vec2{X: b.VX, Y: b.VY} }

func (b *Body) moveBy(d Vec2) {
	b.X += d.X
	b.Y += d.Y
}

func (b *Body) setVel(v Vec2) {
	b.VX = v.X
	b.VY = v.Y
}
