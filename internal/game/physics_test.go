package game

import (
	"math"
	"testing"
)

const eps = 1e-9

func near(a, b float64) bool {
	return math.Abs(a-b) < 1e-6
}

func TestCircleCollisionPushesOutAndReflects(t *testing.T) {
	b := &Body{X: 0, Y: 0, VX: 1, R: BallRadius}

	if !ResolveCircleCollision(b, 10, 0, RimRadius) {
		t.Fatal("expected contact with overlapping rim")
	}

	dist := math.Hypot(b.X-10, b.Y)
	if dist < BallRadius+RimRadius-eps {
		t.Errorf("ball still penetrating rim: dist=%.6f", dist)
	}
	if !near(b.VX, -0.65) {
		t.Errorf("expected reflected vx -0.65, got %.6f", b.VX)
	}
}

func TestCircleCollisionMissLeavesBallAlone(t *testing.T) {
	b := &Body{X: 0, Y: 0, VX: 3, VY: 2, R: BallRadius}
	if ResolveCircleCollision(b, 100, 0, RimRadius) {
		t.Fatal("unexpected contact")
	}
	if b.X != 0 || b.VX != 3 || b.VY != 2 {
		t.Errorf("ball mutated on miss: %+v", *b)
	}
}

func TestCircleCollisionCoincidentCentersPushUp(t *testing.T) {
	b := &Body{X: 5, Y: 5, R: BallRadius}
	if !ResolveCircleCollision(b, 5, 5, RimRadius) {
		t.Fatal("expected contact")
	}
	if math.IsNaN(b.X) || math.IsNaN(b.Y) {
		t.Fatalf("NaN after degenerate collision: %+v", *b)
	}
	if b.X != 5 || !near(b.Y, 5-(BallRadius+RimRadius)) {
		t.Errorf("expected straight-up push to y=%.1f, got (%.3f, %.3f)", 5-(BallRadius+RimRadius), b.X, b.Y)
	}
}

func TestRectCollisionFromAbove(t *testing.T) {
	o := &Obstacle{X: 0, Y: 0, W: ObstacleWidth, H: ObstacleHeight}
	b := &Body{X: 40, Y: -10, VY: 3, R: BallRadius}

	if !ResolveRectCollision(b, o) {
		t.Fatal("expected contact with obstacle top")
	}
	if !near(b.Y, -BallRadius) {
		t.Errorf("expected ball resting on top at y=%.1f, got %.6f", -BallRadius, b.Y)
	}
	if !near(b.VY, -2.4) {
		t.Errorf("expected vy -2.4 after bounce, got %.6f", b.VY)
	}
}

func TestRectCollisionCenterInsideUsesUpNormal(t *testing.T) {
	o := &Obstacle{X: 0, Y: 0, W: ObstacleWidth, H: ObstacleHeight}
	b := &Body{X: 40, Y: 5, VY: 1, R: BallRadius}

	if !ResolveRectCollision(b, o) {
		t.Fatal("expected contact")
	}
	if math.IsNaN(b.X) || math.IsNaN(b.Y) || math.IsNaN(b.VY) {
		t.Fatalf("NaN after degenerate rect collision: %+v", *b)
	}
	if b.X != 40 || !near(b.Y, 5-(BallRadius-0.01)) {
		t.Errorf("expected push straight up, got (%.3f, %.3f)", b.X, b.Y)
	}
}

func TestBallCollisionHeadOn(t *testing.T) {
	a := &Body{X: 0, Y: 0, VX: 3, R: BallRadius}
	b := &Body{X: 30, Y: 0, R: BallRadius}

	var impact float64
	ResolveBallCollision(a, b, func(speed float64) { impact = speed })

	if !near(a.VX+b.VX, 3) {
		t.Errorf("momentum not conserved: %.6f + %.6f", a.VX, b.VX)
	}
	if !near(a.VX, 0.45) || !near(b.VX, 2.55) {
		t.Errorf("unexpected velocities a=%.4f b=%.4f", a.VX, b.VX)
	}
	if !near(impact, 3) {
		t.Errorf("expected impact callback with speed 3, got %.4f", impact)
	}

	// 80% of the penetration beyond slop is corrected, split evenly.
	gap := b.X - a.X
	want := 30 + (6-BallSlop)*BallCorrection
	if !near(gap, want) {
		t.Errorf("expected separation %.4f, got %.4f", want, gap)
	}
}

func TestBallCollisionSlowContactDoesNotBounce(t *testing.T) {
	a := &Body{X: 0, Y: 0, VX: 0.5, R: BallRadius}
	b := &Body{X: 35, Y: 0, R: BallRadius}

	called := false
	ResolveBallCollision(a, b, func(float64) { called = true })

	if !near(a.VX, 0.25) || !near(b.VX, 0.25) {
		t.Errorf("expected inelastic split 0.25/0.25, got %.4f/%.4f", a.VX, b.VX)
	}
	if called {
		t.Error("impact sound fired for a resting contact")
	}
}

func TestBallCollisionSeparatingOnlyCorrectsPosition(t *testing.T) {
	a := &Body{X: 0, Y: 0, VX: -1, R: BallRadius}
	b := &Body{X: 30, Y: 0, VX: 1, R: BallRadius}

	ResolveBallCollision(a, b, nil)

	if a.VX != -1 || b.VX != 1 {
		t.Errorf("separating balls changed velocity: %.3f %.3f", a.VX, b.VX)
	}
	if a.X >= 0 || b.X <= 30 {
		t.Errorf("expected positional correction, got a.x=%.3f b.x=%.3f", a.X, b.X)
	}
}

func TestBallCollisionCoincidentCenters(t *testing.T) {
	a := &Body{X: 0, Y: 0, R: BallRadius}
	b := &Body{X: 0, Y: 0, R: BallRadius}

	ResolveBallCollision(a, b, nil)

	for _, v := range []float64{a.X, a.Y, b.X, b.Y, a.VX, a.VY, b.VX, b.VY} {
		if math.IsNaN(v) {
			t.Fatalf("NaN after coincident collision: a=%+v b=%+v", *a, *b)
		}
	}
	if b.Y >= a.Y {
		t.Errorf("expected b pushed above a, got a.y=%.3f b.y=%.3f", a.Y, b.Y)
	}
}

func TestBounceWalls(t *testing.T) {
	b := &Body{X: 5, VX: -10, R: BallRadius}
	if !bounceWalls(b, 400) {
		t.Fatal("expected left wall hit")
	}
	if b.X != BallRadius || !near(b.VX, 7) {
		t.Errorf("left wall: x=%.2f vx=%.2f", b.X, b.VX)
	}

	b = &Body{X: 399, VX: 10, R: BallRadius}
	if !bounceWalls(b, 400) {
		t.Fatal("expected right wall hit")
	}
	if b.X != 400-BallRadius || !near(b.VX, -7) {
		t.Errorf("right wall: x=%.2f vx=%.2f", b.X, b.VX)
	}
}

func TestVectorReflectAndNormalize(t *testing.T) {
	n := Vec2{X: 3, Y: 4}.Normalize()
	if !near(n.X, 0.6) || !near(n.Y, 0.8) {
		t.Errorf("normalize = %+v", n)
	}
	if up := (Vec2{}).Normalize(); up != (Vec2{X: 0, Y: -1}) {
		t.Errorf("zero vector should normalize to straight up, got %+v", up)
	}

	r := Vec2{X: 2, Y: 5}.Reflect(Vec2{X: 0, Y: -1})
	if !near(r.X, 2) || !near(r.Y, -5) {
		t.Errorf("reflect = %+v", r)
	}
	if p := (Vec2{X: 1, Y: 2}).Perp(); p.Dot(Vec2{X: 1, Y: 2}) != 0 {
		t.Errorf("perp %+v not perpendicular", p)
	}
	if d := (Vec2{X: 1, Y: 1}).DistanceTo(Vec2{X: 4, Y: 5}); !near(d, 5) {
		t.Errorf("distance = %v", d)
	}
}
