package game

import (
	"errors"
	"math/rand"
)

// Status is the phase of a game session.
type Status string

const (
	StatusMenu     Status = "MENU"
	StatusAiming   Status = "AIMING"
	StatusFlying   Status = "FLYING"
	StatusGrounded Status = "GROUNDED"
	StatusGameOver Status = "GAMEOVER"
)

var (
	ErrGameInProgress = errors.New("game already in progress")
	ErrNotGameOver    = errors.New("game is not over")
)

// SeenFeatures records which hazards have already been announced this game.
type SeenFeatures struct {
	Wave     bool `json:"wave"`
	Blockers bool `json:"blockers"`
	Small    bool `json:"small"`
}

// PendingRespawn is a deferred GROUNDED -> AIMING transition. It only fires while
// Generation still matches the session's.
type PendingRespawn struct {
	AtTick     int `json:"at_tick"`
	Generation int `json:"generation"`
}

// GameState is the whole simulation: one owned aggregate advanced by Step.
type GameState struct {
	Width  float64 `json:"width"`
	Height float64 `json:"height"`

	Status        Status       `json:"status"`
	Tick          int          `json:"tick"`
	Score         int          `json:"score"`
	HighScore     int          `json:"high_score"`
	Lives         int          `json:"lives"`
	BasketStreak  int          `json:"basket_streak"`
	PerfectStreak int          `json:"perfect_streak"`
	Wind          float64      `json:"wind"`
	CameraY       float64      `json:"camera_y"`
	TargetCameraY float64      `json:"target_camera_y"`
	ShakeTimer    int          `json:"shake_timer"`
	Seen          SeenFeatures `json:"seen"`

	Ball      Ball       `json:"ball"`
	DeadBalls []Body     `json:"dead_balls"`
	Hoops     []*Hoop    `json:"hoops"`
	Obstacles []Obstacle `json:"obstacles"`
	Particles []Particle `json:"particles"`
	Stars     []Star     `json:"stars"`
	SafeHoop  *Hoop      `json:"-"`
	Drag      Drag       `json:"drag"`

	Generation int             `json:"generation"`
	Pending    *PendingRespawn `json:"pending,omitempty"`

	rng        *rand.Rand
	events     []Event
	nextHoopID int
}

// NewGameState creates a session in MENU for a world of the given size. All
// randomness comes from seed.
func NewGameState(width, height float64, seed int64) *GameState {
	g := &GameState{
		Width:  width,
		Height: height,
		Status: StatusMenu,
		Lives:  StartLives,
		Ball:   Ball{Body: Body{R: BallRadius}},
		rng:    rand.New(rand.NewSource(seed)),
	}
	g.initStars()
	return g
}

// Start begins a game from the menu.
func (g *GameState) Start() error {
	if g.Status != StatusMenu {
		return ErrGameInProgress
	}
	g.reset()
	return nil
}

// Restart begins a new game after game over.
func (g *GameState) Restart() error {
	if g.Status != StatusGameOver {
		return ErrNotGameOver
	}
	g.reset()
	return nil
}

func (g *GameState) reset() {
	g.Generation++
	g.Pending = nil

	g.Score = 0
	g.Lives = StartLives
	g.BasketStreak = 0
	g.PerfectStreak = 0
	g.Tick = 0
	g.Hoops = nil
	g.Obstacles = nil
	g.DeadBalls = nil
	g.Particles = nil
	g.Wind = 0
	g.CameraY = 0
	g.TargetCameraY = 0
	g.Seen = SeenFeatures{}
	g.Drag = Drag{}
	g.livesChanged()

	first := g.CreateHoop(g.Height-FirstHoopLift, 1)
	second := g.CreateHoop(g.Height-FirstHoopLift-g.Height*HoopSpacing, -1)
	first.Scored = true
	g.Hoops = append(g.Hoops, first, second)

	g.resetBall(first)
	g.SafeHoop = first
}

// resetBall parks the ball just above hoop h, ready to aim.
func (g *GameState) resetBall(h *Hoop) {
	g.Ball.X = h.X
	g.Ball.Y = h.Y - g.Ball.R - SpawnLift
	g.Ball.VX = 0
	g.Ball.VY = 0
	g.Ball.RimHit = false
	g.Ball.StuckTimer = 0
	g.Ball.Trail = nil
	g.Status = StatusAiming
}

func (g *GameState) gameOver() {
	g.Status = StatusGameOver
	g.Pending = nil
	if g.Score > g.HighScore {
		g.HighScore = g.Score
	}
	g.emit(Event{Kind: EventGameOver, Score: g.Score})
}

func (g *GameState) shake(frames int) {
	g.ShakeTimer = frames
}

func (g *GameState) cameraTargetFor(h *Hoop) float64 {
	return h.Y - g.Height*CameraLead
}

// Fire reports whether the perfect streak is long enough for the fire ball.
func (g *GameState) Fire() bool {
	return g.PerfectStreak > FireStreak
}

// BallColor is the live ball's color for the current streak.
func (g *GameState) BallColor() string {
	if g.Fire() {
		return ColorBallFire
	}
	return ColorBall
}

// ScoreColor is the score counter's color for the current streak.
func (g *GameState) ScoreColor() string {
	if g.Fire() {
		return ColorScoreHot
	}
	return ColorWhite
}

// LivesDisplay renders lives as hearts, capped with a trailing "+".
func LivesDisplay(lives int) string {
	n := lives
	if n > MaxHeartsShown {
		n = MaxHeartsShown
	}
	s := ""
	for i := 0; i < n; i++ {
		s += "❤"
	}
	if lives > MaxHeartsShown {
		s += "+"
	}
	return s
}
