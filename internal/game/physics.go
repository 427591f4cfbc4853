package game

import "math"

// ResolveCircleCollision pushes b out of a static circle at (tx, ty) and reflects
// its velocity about the contact normal. It reports whether they touched.
func ResolveCircleCollision(b *Body, tx, ty, radius float64) bool {
	offset := b.pos().Minus(Vec2{X: tx, Y: ty})
	dist := offset.Magnitude()
	reach := b.R + radius
	if dist >= reach {
		return false
	}

	n := offset.Normalize()
	b.moveBy(n.Times(reach - dist))
	b.setVel(b.vel().Reflect(n).Times(RimBounce))
	return true
}

// ResolveRectCollision bounces b off obstacle o using the closest point on the box.
// A center on or inside the box is pushed straight up.
func ResolveRectCollision(b *Body, o *Obstacle) bool {
	closest := Vec2{
		X: math.Max(o.X, math.Min(b.X, o.X+o.W)),
		Y: math.Max(o.Y, math.Min(b.Y, o.Y+o.H)),
	}
	offset := b.pos().Minus(closest)
	dist := offset.Magnitude()
	if dist >= b.R {
		return false
	}

	n := offset.Normalize()
	if dist == 0 {
		dist = 0.01
	}
	b.moveBy(n.Times(b.R - dist))
	b.setVel(b.vel().Reflect(n).Times(ObstacleBounce))
	return true
}

// ResolveBallCollision separates two equal-mass balls and exchanges impulse along
// the contact normal. onImpact, if set, receives the closing speed of hard hits.
func ResolveBallCollision(a, b *Body, onImpact func(speed float64)) {
	offset := b.pos().Minus(a.pos())
	dist := offset.Magnitude()
	if dist >= a.R+b.R {
		return
	}

	n := offset.Normalize()
	penetration := (a.R + b.R) - dist
	correction := n.Times(math.Max(penetration-BallSlop, 0) / 2 * BallCorrection)
	a.moveBy(correction.Times(-1))
	b.moveBy(correction)

	rv := b.vel().Minus(a.vel())
	velAlongNormal := rv.Dot(n)
	if velAlongNormal > 0 {
		return
	}

	e := BallBounce
	if velAlongNormal > -RestingSpeed {
		e = 0
	}
	impulse := n.Times(-(1 + e) * velAlongNormal / 2)

	// Tangential friction uses the pre-impulse relative velocity.
	t := n.Perp()
	friction := t.Times(-rv.Dot(t) * BallFriction)

	a.setVel(a.vel().Minus(impulse).Minus(friction))
	b.setVel(b.vel().Plus(impulse).Plus(friction))

	if speed := math.Abs(velAlongNormal); speed > ImpactSoundSpeed && onImpact != nil {
		onImpact(speed)
	}
}

// bounceWalls keeps b inside [R, width-R] and reports whether it hit a wall.
func bounceWalls(b *Body, width float64) bool {
	hit := false
	if b.X < b.R {
		b.X = b.R
		b.VX *= -WallBounce
		hit = true
	}
	if b.X > width-b.R {
		b.X = width - b.R
		b.VX *= -WallBounce
		hit = true
	}
	return hit
}
