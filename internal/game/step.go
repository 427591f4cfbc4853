package game

import (
	"math"
	"strconv"
)

// Step advances the simulation by one frame and returns the events it produced,
// together with any queued by input since the previous frame.
func (g *GameState) Step() []Event {
	g.Tick++

	if p := g.Pending; p != nil && g.Tick >= p.AtTick {
		g.Pending = nil
		if p.Generation == g.Generation && g.Status == StatusGrounded {
			g.respawn()
		}
	}

	if g.ShakeTimer > 0 {
		g.ShakeTimer--
	}
	g.stepStars()

	if g.Status == StatusMenu || g.Status == StatusGameOver {
		return g.Drain()
	}

	flying := g.Status == StatusFlying
	for _, h := range g.Hoops {
		h.move(g.Tick, g.Width)
		if h.Swish > 0 {
			h.Swish -= SwishDecay
		}
		h.Net.Step(h.X, h.Y, h.MoveSpeedX, &g.Ball, flying)
		for i := range h.Blockers {
			h.Blockers[i].Angle += h.Blockers[i].Speed
		}
	}

	for i := range g.Obstacles {
		g.Obstacles[i].move(g.Width)
	}

	if flying {
		g.stepFlight()
	}

	g.CameraY += (g.TargetCameraY - g.CameraY) * CameraSmoothing
	g.stepParticles()

	return g.Drain()
}

func (g *GameState) stepFlight() {
	b := &g.Ball
	b.VY += Gravity
	b.VX += g.Wind
	b.X += b.VX
	b.Y += b.VY
	b.Rot += b.VX * SpinFactor

	if math.Abs(b.VX) < StuckSpeed && math.Abs(b.VY) < StuckSpeed {
		b.StuckTimer++
		if b.StuckTimer > StuckFrames {
			b.VY = UnstickVY
			b.VX = (g.rng.Float64() - 0.5) * UnstickSpread
			b.StuckTimer = 0
		}
	} else {
		b.StuckTimer = 0
	}

	if g.Tick%2 == 0 && (math.Abs(b.VX) > 1 || math.Abs(b.VY) > 1) {
		b.pushTrail()
	}

	g.collideWalls()

	for i := range g.Obstacles {
		if ResolveRectCollision(&b.Body, &g.Obstacles[i]) {
			g.spawnParticles(b.X, b.Y, 5, ColorObstacle)
			g.emit(Event{Kind: EventHit})
			g.vibrate(10)
		}
	}

	// Scoring appends and evicts hoops, so walk a copy.
	hoops := append([]*Hoop(nil), g.Hoops...)
	for _, h := range hoops {
		if h.Scored {
			continue
		}
		g.collideHoop(h)
		if h.InSuccessZone(b.X, b.Y, b.VY, ScoreMargin) {
			g.scoreBasket(h)
		}
	}

	if lh := g.SafeHoop; lh != nil && lh.InSuccessZone(b.X, b.Y, b.VY, ScoreMargin) {
		g.resetBall(lh)
		g.floatingText("SAFE!", g.Width/2, lh.Y-80, ColorSafe)
		g.tone(300, WaveSine, 0.1, 0)
	}

	floorY := g.CameraY + g.Height
	g.stepDeadBalls(floorY)

	if b.Y+b.R > floorY {
		g.stepFloor(floorY)
		return
	}

	b.Rot += b.VX * SpinFactor
	for i := range g.DeadBalls {
		ResolveBallCollision(&b.Body, &g.DeadBalls[i], g.impactSound)
	}
}

func (g *GameState) collideWalls() {
	b := &g.Ball
	if b.X < b.R {
		b.X = b.R
		b.VX *= -WallBounce
		g.emit(Event{Kind: EventHit})
	}
	if b.X > g.Width-b.R {
		b.X = g.Width - b.R
		b.VX *= -WallBounce
		g.emit(Event{Kind: EventHit})
	}
}

func (g *GameState) collideHoop(h *Hoop) {
	b := &g.Ball
	for _, bl := range h.Blockers {
		bx, by := bl.Position(h)
		if ResolveCircleCollision(&b.Body, bx, by, bl.R) {
			g.spawnParticles(b.X, b.Y, 10, ColorBlocker)
			g.emit(Event{Kind: EventHit})
			g.vibrate(30)
			g.shake(ShakeFrames)
		}
	}

	// The right rim is only tested when the left one missed.
	if ResolveCircleCollision(&b.Body, h.RimLeft(), h.Y, RimRadius) ||
		ResolveCircleCollision(&b.Body, h.RimRight(), h.Y, RimRadius) {
		b.RimHit = true
		g.emit(Event{Kind: EventHit})
		g.vibrate(10)
	}
}

func (g *GameState) scoreBasket(h *Hoop) {
	h.Scored = true
	h.Swish = 1
	g.SafeHoop = h
	g.BasketStreak++

	if g.BasketStreak%ExtraLifeEvery == 0 {
		g.Lives++
		g.livesChanged()
		g.floatingText("+1 HEART", g.Width/2, h.Y-120, ColorHeart)
		g.tone(600, WaveSine, 0.3, 0)
	}

	points := 1
	perfect := !g.Ball.RimHit
	if perfect {
		points = 2
		g.PerfectStreak++
		text := "PERFECT!"
		if g.PerfectStreak > 1 {
			text = "PERFECT x" + strconv.Itoa(g.PerfectStreak)
		}
		g.floatingText(text, g.Width/2, h.Y-60, "")
		g.shake(ShakeFrames)
		g.vibrate(30, 30)
	} else {
		g.PerfectStreak = 0
		g.vibrate(20)
	}
	g.Score += points
	g.emit(Event{Kind: EventScore, Perfect: perfect, Score: g.Score})

	color := ColorWhite
	if perfect {
		color = ColorPerfect
	}
	g.spawnParticles(h.X, h.Y, 25, color)
	g.resetBall(h)
	g.TargetCameraY = g.cameraTargetFor(h)
	g.AddNextHoop()
}

func (g *GameState) stepDeadBalls(floorY float64) {
	for i := range g.DeadBalls {
		db := &g.DeadBalls[i]
		db.VY += Gravity
		db.X += db.VX
		db.Y += db.VY
		db.Rot += db.VX * SpinFactor

		if db.Y+db.R > floorY {
			db.Y = floorY - db.R
			if db.VY > 0 {
				db.VY *= -DeadBallBounce
			}
			db.VX *= FloorFriction
			if math.Abs(db.VX) < DeadBallSnapX && math.Abs(db.VY) < SettleSpeedY {
				db.VX = 0
				db.VY = 0
			}
		}
		bounceWalls(db, g.Width)

		for j := i + 1; j < len(g.DeadBalls); j++ {
			ResolveBallCollision(db, &g.DeadBalls[j], g.impactSound)
		}
	}
}

func (g *GameState) stepFloor(floorY float64) {
	b := &g.Ball
	b.Y = floorY - b.R
	if b.VY > 0 {
		b.VY *= -FloorBounce
		b.VX *= FloorFriction
		if math.Abs(b.VY) > FloorToneSpeed {
			g.tone(100, WaveSquare, 0.1, 0.05)
		}
	}
	b.VX *= FloorFriction
	b.Rot += b.VX * SpinFactor

	if math.Abs(b.VY) >= SettleSpeedY || math.Abs(b.VX) >= SettleSpeedX {
		return
	}
	b.VX = 0

	if g.Status == StatusGrounded || !g.deadBallsResting() {
		return
	}
	g.ground()
}

func (g *GameState) deadBallsResting() bool {
	for _, db := range g.DeadBalls {
		if math.Abs(db.VX) > DeadBallRestingVX || math.Abs(db.VY) > SettleSpeedY {
			return false
		}
	}
	return true
}

// ground costs a life for a ball that came to rest on the floor.
func (g *GameState) ground() {
	g.Status = StatusGrounded
	g.BasketStreak = 0

	if g.Lives <= 1 {
		g.Lives = 0
		g.livesChanged()
		g.gameOver()
		return
	}

	g.Lives--
	g.livesChanged()
	g.floatingText("OUCH!", g.Width/2, g.CameraY+g.Height/2, ColorHeart)
	g.tone(150, WaveSawtooth, 0.3, 0)
	g.vibrate(200)

	g.DeadBalls = append(g.DeadBalls, Body{X: g.Ball.X, Y: g.Ball.Y, R: g.Ball.R, Rot: g.Ball.Rot})
	g.Pending = &PendingRespawn{AtTick: g.Tick + RespawnDelayTicks, Generation: g.Generation}
}

func (g *GameState) respawn() {
	if g.SafeHoop == nil {
		return
	}
	g.resetBall(g.SafeHoop)
	g.TargetCameraY = g.cameraTargetFor(g.SafeHoop)
}

func (g *GameState) impactSound(speed float64) {
	g.emit(Event{Kind: EventFloorBounce, Velocity: speed})
}
