package game

import (
	"errors"
	"testing"
)

const (
	testWidth  = 400.0
	testHeight = 800.0
)

func newStartedGame(t *testing.T) *GameState {
	t.Helper()
	g := NewGameState(testWidth, testHeight, 1)
	if err := g.Start(); err != nil {
		t.Fatalf("start: %v", err)
	}
	g.Drain()
	return g
}

// dropInto places the ball just under hoop h's rim, falling, and steps one frame.
func dropInto(g *GameState, h *Hoop, rimHit bool) []Event {
	g.Status = StatusFlying
	g.Ball.X = h.X
	g.Ball.Y = h.Y + 5
	g.Ball.VX = 0
	g.Ball.VY = 2
	g.Ball.RimHit = rimHit
	return g.Step()
}

// settleOnFloor puts the ball at rest on the floor and steps one frame.
func settleOnFloor(g *GameState) []Event {
	g.Status = StatusFlying
	g.Ball.X = testWidth / 2
	g.Ball.Y = g.CameraY + testHeight - g.Ball.R
	g.Ball.VX = 0
	g.Ball.VY = 0
	return g.Step()
}

func topHoop(g *GameState) *Hoop {
	return g.Hoops[len(g.Hoops)-1]
}

func TestStartResetsSession(t *testing.T) {
	g := newStartedGame(t)

	if g.Status != StatusAiming || g.Lives != StartLives || g.Score != 0 {
		t.Fatalf("unexpected start state: status=%s lives=%d score=%d", g.Status, g.Lives, g.Score)
	}
	if len(g.Hoops) != 2 {
		t.Fatalf("expected 2 hoops, got %d", len(g.Hoops))
	}
	first, second := g.Hoops[0], g.Hoops[1]
	if !first.Scored || second.Scored {
		t.Error("first hoop should be the scored anchor, second open")
	}
	if g.SafeHoop != first {
		t.Error("safe hoop should be the first hoop")
	}
	if first.Y != testHeight-FirstHoopLift || !near(second.Y, first.Y-testHeight*HoopSpacing) {
		t.Errorf("hoop heights %.1f, %.1f", first.Y, second.Y)
	}
	if first.X != testWidth-HoopInset || second.X != HoopInset {
		t.Errorf("hoop sides %.1f, %.1f", first.X, second.X)
	}
	if g.Ball.X != first.X || g.Ball.Y != first.Y-BallRadius-SpawnLift {
		t.Errorf("ball not parked above the first hoop: (%.1f, %.1f)", g.Ball.X, g.Ball.Y)
	}
}

func TestStartAndRestartGuards(t *testing.T) {
	g := newStartedGame(t)
	if err := g.Start(); !errors.Is(err, ErrGameInProgress) {
		t.Errorf("expected ErrGameInProgress, got %v", err)
	}
	if err := g.Restart(); !errors.Is(err, ErrNotGameOver) {
		t.Errorf("expected ErrNotGameOver, got %v", err)
	}
}

func TestMenuOnlyAnimatesStars(t *testing.T) {
	g := NewGameState(testWidth, testHeight, 1)
	for i := 0; i < 10; i++ {
		if events := g.Step(); len(events) != 0 {
			t.Fatalf("menu produced events: %+v", events)
		}
	}
	if g.Status != StatusMenu || g.Tick != 10 || len(g.Stars) != StarCount {
		t.Errorf("menu state changed: status=%s tick=%d stars=%d", g.Status, g.Tick, len(g.Stars))
	}
}

func TestDragLaunch(t *testing.T) {
	g := newStartedGame(t)

	g.PointerDown(200, 400)
	g.PointerMove(100, 250)
	if !g.PointerUp() {
		t.Fatal("expected launch")
	}

	if !near(g.Ball.VX, 14) || !near(g.Ball.VY, 24) {
		t.Errorf("expected launch velocity (14, 24), got (%.4f, %.4f)", g.Ball.VX, g.Ball.VY)
	}
	if g.Status != StatusFlying {
		t.Errorf("expected FLYING, got %s", g.Status)
	}
	if n := countEvents(g.Step(), EventJump, ""); n != 1 {
		t.Errorf("expected one jump event, got %d", n)
	}
}

func TestSidewaysShotsMissUntilGameOver(t *testing.T) {
	g := newStartedGame(t)

	launches := 0
	for i := 0; i < 5000 && g.Status != StatusGameOver; i++ {
		if g.Status == StatusAiming {
			// Pulled hard right: the ball skims left under every hoop and hits the floor.
			g.PointerDown(200, 400)
			g.PointerMove(400, 420)
			if !g.PointerUp() {
				t.Fatal("launch refused")
			}
			launches++
		}
		if countEvents(g.Step(), EventText, "SAFE!") > 0 {
			t.Fatalf("shot %d fell back into the safe hoop", launches)
		}
	}

	if g.Status != StatusGameOver {
		t.Fatalf("expected GAMEOVER, got %s after %d shots", g.Status, launches)
	}
	if launches != StartLives || g.Score != 0 || len(g.DeadBalls) != StartLives-1 {
		t.Errorf("launches=%d score=%d dead balls=%d", launches, g.Score, len(g.DeadBalls))
	}
}

func TestShortDragDoesNotLaunch(t *testing.T) {
	g := newStartedGame(t)
	g.PointerDown(200, 400)
	g.PointerMove(190, 390)
	if g.PointerUp() {
		t.Fatal("short drag launched")
	}
	if g.Status != StatusAiming || g.Drag.Active {
		t.Errorf("expected idle aiming state, got %s active=%v", g.Status, g.Drag.Active)
	}
}

func TestPointerIgnoredWhileFlying(t *testing.T) {
	g := newStartedGame(t)
	g.Status = StatusFlying
	g.PointerDown(200, 400)
	if g.Drag.Active {
		t.Error("drag started outside AIMING")
	}
}

func TestPerfectScore(t *testing.T) {
	g := newStartedGame(t)
	h := g.Hoops[1]

	events := dropInto(g, h, false)

	if g.Score != 2 || g.PerfectStreak != 1 || g.BasketStreak != 1 {
		t.Errorf("score=%d perfect=%d streak=%d", g.Score, g.PerfectStreak, g.BasketStreak)
	}
	if !h.Scored || g.SafeHoop != h || h.Swish != 1 {
		t.Error("scored hoop should become the safe anchor")
	}
	if g.Status != StatusAiming {
		t.Errorf("expected AIMING after score, got %s", g.Status)
	}
	if g.Ball.X != h.X || g.Ball.Y != h.Y-BallRadius-SpawnLift {
		t.Errorf("ball not parked above scored hoop: (%.2f, %.2f)", g.Ball.X, g.Ball.Y)
	}
	if len(g.Hoops) != 3 {
		t.Errorf("expected next hoop spawned, have %d", len(g.Hoops))
	}
	target := h.Y - testHeight*CameraLead
	if g.TargetCameraY != target || !near(g.CameraY, target*CameraSmoothing) {
		t.Errorf("camera target=%.2f y=%.2f", g.TargetCameraY, g.CameraY)
	}

	var score *Event
	for i := range events {
		if events[i].Kind == EventScore {
			score = &events[i]
		}
	}
	if score == nil || !score.Perfect || score.Score != 2 {
		t.Errorf("expected perfect score event, got %+v", score)
	}
	if countEvents(events, EventText, "PERFECT!") != 1 {
		t.Error("missing PERFECT! text")
	}
	if len(g.Particles) != 25 {
		t.Errorf("expected 25 score particles, got %d", len(g.Particles))
	}
}

func TestScoreRequiresDescendingBall(t *testing.T) {
	g := newStartedGame(t)
	h := g.Hoops[1]
	g.Status = StatusFlying
	g.Ball.X = h.X
	g.Ball.Y = h.Y + 15
	g.Ball.VY = -5
	g.Step()
	if h.Scored || g.Score != 0 {
		t.Error("rising ball scored")
	}
}

func TestScoringZoneAcrossRim(t *testing.T) {
	h := &Hoop{X: 200, Y: 300, W: HoopWidth}
	for x := h.RimLeft() + ScoreMargin + 0.5; x < h.RimRight()-ScoreMargin; x += 1 {
		if !h.InSuccessZone(x, h.Y+10, 1, ScoreMargin) {
			t.Errorf("x=%.1f should be inside the success zone", x)
		}
	}
	for _, x := range []float64{h.RimLeft() + ScoreMargin, h.RimRight() - ScoreMargin, h.RimLeft(), h.RimRight()} {
		if h.InSuccessZone(x, h.Y+10, 1, ScoreMargin) {
			t.Errorf("x=%.1f should be outside the success zone", x)
		}
	}
	if h.InSuccessZone(200, h.Y+ScoreBand, 1, ScoreMargin) || h.InSuccessZone(200, h.Y, 1, ScoreMargin) {
		t.Error("band edges are exclusive")
	}
}

func TestPerfectStreakTurnsBallToFire(t *testing.T) {
	g := newStartedGame(t)

	for i := 0; i < 3; i++ {
		dropInto(g, topHoop(g), false)
	}
	if g.PerfectStreak != 3 || !g.Fire() || g.BallColor() != ColorBallFire || g.ScoreColor() != ColorScoreHot {
		t.Errorf("expected fire after 3 perfects: streak=%d color=%s", g.PerfectStreak, g.BallColor())
	}
	if g.Lives != StartLives+1 {
		t.Errorf("third basket should grant a life, lives=%d", g.Lives)
	}

	dropInto(g, topHoop(g), true)
	if g.PerfectStreak != 0 || g.Fire() || g.BallColor() != ColorBall {
		t.Errorf("rim-touched basket should reset the streak, got %d", g.PerfectStreak)
	}
	if g.Score != 7 {
		t.Errorf("expected 2+2+2+1 points, got %d", g.Score)
	}
}

func TestExtraLifeIgnoresPerfect(t *testing.T) {
	g := newStartedGame(t)
	for i := 0; i < 3; i++ {
		dropInto(g, topHoop(g), true)
	}
	if g.Lives != StartLives+1 || g.BasketStreak != 3 || g.PerfectStreak != 0 {
		t.Errorf("lives=%d streak=%d perfect=%d", g.Lives, g.BasketStreak, g.PerfectStreak)
	}
	if g.Score != 3 {
		t.Errorf("expected 3 points, got %d", g.Score)
	}
}

func TestSafeHoopRecovery(t *testing.T) {
	g := newStartedGame(t)
	safe := g.SafeHoop

	events := dropInto(g, safe, false)

	if g.Status != StatusAiming || g.Score != 0 {
		t.Errorf("expected free recovery, status=%s score=%d", g.Status, g.Score)
	}
	if g.Ball.Y != safe.Y-BallRadius-SpawnLift {
		t.Errorf("ball not reset above safe hoop: y=%.2f", g.Ball.Y)
	}
	if countEvents(events, EventText, "SAFE!") != 1 {
		t.Error("missing SAFE! text")
	}
}

func TestGroundedLosesLifeAndRespawns(t *testing.T) {
	g := newStartedGame(t)
	settleOnFloor(g)

	if g.Status != StatusGrounded {
		t.Fatalf("expected GROUNDED, got %s", g.Status)
	}
	if g.Lives != StartLives-1 || len(g.DeadBalls) != 1 || g.Pending == nil {
		t.Fatalf("lives=%d dead=%d pending=%v", g.Lives, len(g.DeadBalls), g.Pending)
	}
	if db := g.DeadBalls[0]; db.VX != 0 || db.VY != 0 || db.X != g.Ball.X {
		t.Errorf("dead ball should be a frozen copy: %+v", db)
	}

	for i := 0; i < RespawnDelayTicks-1; i++ {
		g.Step()
	}
	if g.Status != StatusGrounded {
		t.Fatalf("respawned early at tick %d", g.Tick)
	}

	g.Step()
	safe := g.SafeHoop
	if g.Status != StatusAiming {
		t.Fatalf("expected AIMING after delay, got %s", g.Status)
	}
	if g.Ball.X != safe.X || g.Ball.Y != safe.Y-g.Ball.R-SpawnLift {
		t.Errorf("ball at (%.2f, %.2f), want (%.2f, %.2f)", g.Ball.X, g.Ball.Y, safe.X, safe.Y-g.Ball.R-SpawnLift)
	}
	if g.Pending != nil {
		t.Error("pending respawn not cleared")
	}
}

func TestLastLifeEndsGame(t *testing.T) {
	g := newStartedGame(t)
	g.Lives = 1
	g.Score = 12

	events := settleOnFloor(g)

	if g.Status != StatusGameOver || g.Lives != 0 {
		t.Fatalf("expected GAMEOVER with 0 lives, got %s %d", g.Status, g.Lives)
	}
	if g.Pending != nil || len(g.DeadBalls) != 0 {
		t.Error("no respawn or dead ball expected on the last life")
	}
	if g.HighScore != 12 {
		t.Errorf("high score %d, want 12", g.HighScore)
	}
	if countEvents(events, EventGameOver, "") != 1 {
		t.Error("missing game over event")
	}

	if err := g.Restart(); err != nil {
		t.Fatalf("restart: %v", err)
	}
	if g.Status != StatusAiming || g.Lives != StartLives || g.Score != 0 {
		t.Errorf("restart did not reset: %s lives=%d score=%d", g.Status, g.Lives, g.Score)
	}
}

func TestStaleRespawnIsIgnored(t *testing.T) {
	g := newStartedGame(t)
	g.Status = StatusGrounded
	g.Pending = &PendingRespawn{AtTick: g.Tick + 1, Generation: g.Generation - 1}

	g.Step()

	if g.Status != StatusGrounded {
		t.Errorf("stale respawn fired, status=%s", g.Status)
	}
	if g.Pending != nil {
		t.Error("stale pending respawn should be dropped")
	}
}

func TestGroundingWaitsForDeadBalls(t *testing.T) {
	g := newStartedGame(t)
	g.DeadBalls = []Body{{X: 30, Y: 100, R: BallRadius, VX: 3}}

	settleOnFloor(g)

	if g.Status != StatusFlying {
		t.Errorf("grounded while a dead ball was still moving: %s", g.Status)
	}
}

func TestAntiStuckKick(t *testing.T) {
	g := newStartedGame(t)
	g.Status = StatusFlying
	g.Ball.X = 200
	g.Ball.Y = 400
	g.Ball.VX = 0
	g.Ball.VY = -Gravity
	g.Ball.StuckTimer = StuckFrames

	g.Step()

	if g.Ball.VY != UnstickVY {
		t.Errorf("expected upward kick %.1f, got %.3f", UnstickVY, g.Ball.VY)
	}
	if g.Ball.VX < -UnstickSpread/2 || g.Ball.VX > UnstickSpread/2 {
		t.Errorf("kick vx %.3f out of range", g.Ball.VX)
	}
	if g.Ball.StuckTimer != 0 {
		t.Errorf("stuck timer not reset: %d", g.Ball.StuckTimer)
	}
}

func TestTrailIsBounded(t *testing.T) {
	var b Ball
	for i := 0; i < 20; i++ {
		b.X = float64(i)
		b.pushTrail()
	}
	if len(b.Trail) != TrailLength {
		t.Fatalf("trail length %d", len(b.Trail))
	}
	if b.Trail[len(b.Trail)-1].X != 19 || b.Trail[0].X != 12 {
		t.Errorf("trail should keep the most recent samples last: %+v", b.Trail)
	}
}

func TestParticlesExpire(t *testing.T) {
	g := newStartedGame(t)
	dropInto(g, g.Hoops[1], false)
	if len(g.Particles) == 0 {
		t.Fatal("expected particles after score")
	}
	for i := 0; i < 40; i++ {
		g.Step()
	}
	if len(g.Particles) != 0 {
		t.Errorf("expected particles to decay, %d left", len(g.Particles))
	}
}

func TestLivesDisplay(t *testing.T) {
	cases := map[int]string{
		0: "",
		2: "❤❤",
		5: "❤❤❤❤❤",
		7: "❤❤❤❤❤+",
	}
	for lives, want := range cases {
		if got := LivesDisplay(lives); got != want {
			t.Errorf("LivesDisplay(%d) = %q, want %q", lives, got, want)
		}
	}
}
