package game

// Simulation tuning. Values are per frame at TickRate and are part of the game feel:
// the aim preview, the live flight and the client renderer all depend on them matching.

const (
	TickRate = 60

	BallRadius     = 18.0
	Gravity        = 0.45
	SpinFactor     = 0.1 // rotation gained per unit of horizontal speed
	WallBounce     = 0.7
	RimRadius      = 5.0
	RimBounce      = 0.65
	ObstacleBounce = 0.8

	// Ball-ball impulse resolution
	BallBounce        = 0.7
	BallCorrection    = 0.8
	BallSlop          = 0.01
	BallFriction      = 0.1
	RestingSpeed      = 1.0 // closing speed below which balls stack instead of bouncing
	ImpactSoundSpeed  = 1.0
	FloorBounce       = 0.65
	FloorFriction     = 0.9
	FloorToneSpeed    = 2.0
	SettleSpeedY      = 1.0
	SettleSpeedX      = 0.3
	DeadBallBounce    = 0.6
	DeadBallSnapX     = 0.2
	DeadBallRestingVX = 0.1

	// Anti-stuck watchdog
	StuckSpeed    = 0.2
	StuckFrames   = 100
	UnstickVY     = -5.0
	UnstickSpread = 4.0

	TrailLength = 8

	// Hoops
	HoopWidth        = 90.0
	TightHoopWidth   = 80.0
	HoopInset        = 80.0 // x anchor distance from the side walls
	HoopTravelMargin = 50.0
	HoopSpacing      = 0.4 // of world height between consecutive hoops
	FirstHoopLift    = 200.0
	WaveAmplitude    = 30.0
	WaveSpeedY       = 0.05
	WaveSpeedX       = 2.0
	SwishDecay       = 0.05
	ScoreMargin      = 10.0
	ScoreBand        = 20.0
	SpawnLift        = 5.0 // gap between the ball and the rim on respawn

	// Blockers
	BlockerDist   = 70.0
	BlockerRadius = 8.0

	// Obstacles
	ObstacleWidth  = 80.0
	ObstacleHeight = 15.0
	ObstacleSpeed  = 2.5
	ObstacleLift   = 180.0

	// Net cloth
	NetRows       = 6
	NetCols       = 5
	NetWidth      = 60.0
	NetHeight     = 70.0
	NetDamping    = 0.98
	NetGravity    = 0.3
	NetIterations = 3
	NetReachY     = 100.0
	NetReachX     = 50.0
	NetSkin       = 2.0
	NetDrag       = 0.995

	// Aim and prediction
	LaunchThreshold = 20.0
	LaunchScaleX    = 0.14
	LaunchScaleY    = 0.16
	PredictSteps    = 90
	PredictMargin   = 5.0
	PreviewDots     = 20
	PreviewGravity  = 0.55

	// Session
	StartLives        = 3
	ExtraLifeEvery    = 3
	FireStreak        = 2 // perfect streak above which the ball is on fire
	MaxHoops          = 5
	MaxObstacles      = 5
	RespawnDelayTicks = TickRate / 2 // 500ms
	CameraSmoothing   = 0.1
	CameraLead        = 0.7
	ShakeFrames       = 5
	MaxHeartsShown    = 5

	// Difficulty thresholds (compared with score using >)
	HorizontalScore = 5
	BlockerScore    = 10
	WaveScore       = 15
	FastScore       = 20
	TightScore      = 25
	WindScore       = 8
	ObstacleScore   = 3
	MaxWind         = 0.08

	// Difficulty rolls, compared against a uniform [0,1) draw
	HorizontalRoll    = 0.7 // draw > roll
	WaveRoll          = 0.8
	TightRoll         = 0.8
	DoubleBlockerRoll = 0.5
	WindRoll          = 0.6
	ObstacleRoll      = 0.5
	SideRoll          = 0.5
	BlockerChanceStep = 0.05 // per point above BlockerScore, draw < chance
	MaxBlockerChance  = 0.8
	SlowHoopSpeed     = 1.5
	FastHoopSpeed     = 3.0
	BlockerBaseSpeed  = 0.03
	BlockerSpeedRange = 0.02
	WavePhaseRange    = 100.0

	// Effects
	ParticleDecay = 0.03
	StarCount     = 80
	StarParallax  = 0.2
	StarWindDrift = 50.0
)

// Palette shared with clients.
const (
	ColorBall     = "#ff9500"
	ColorBallFire = "#ff3300"
	ColorDeadBall = "#885500"
	ColorObstacle = "#ff0055"
	ColorBlocker  = "#ffcc00"
	ColorPerfect  = "#00f2ff"
	ColorWhite    = "#ffffff"
	ColorScoreHot = "#ff4400"
	ColorHeart    = "#ff2d75"
	ColorSafe     = "#00ff00"
	ColorWind     = "#aaffaa"
	ColorWave     = "#00ffff"
	ColorTight    = "#ff9500"
	ColorDrones   = "#ff0044"
	ColorAimGood  = "#39ff14"
	ColorAim      = "rgba(255, 255, 255, 0.4)"
)
