package game

// PredictScore forward-simulates a ball launched from ball's position with (vx, vy) and
// reports whether it enters the success zone of any unscored hoop within PredictSteps
// frames. Only gravity and side walls are modelled; rims, nets and obstacles are ignored.
func PredictScore(ball Body, vx, vy float64, hoops []*Hoop, worldWidth float64) bool {
	sim := ball
	sim.VX = vx
	sim.VY = vy

	for i := 0; i < PredictSteps; i++ {
		sim.VY += Gravity
		sim.X += sim.VX
		sim.Y += sim.VY
		bounceWalls(&sim, worldWidth)

		for _, h := range hoops {
			if h.Scored {
				continue
			}
			if h.InSuccessZone(sim.X, sim.Y, sim.VY, PredictMargin) {
				return true
			}
		}
	}
	return false
}

// Aim is the drawn guide for an in-progress drag.
type Aim struct {
	WillScore bool      `json:"will_score"`
	Color     string    `json:"color"`
	Dots      []Vec2    `json:"dots"`
	Sizes     []float64 `json:"sizes"`
}

// AimPreview computes the guide for a drag that would launch with (dx, dy).
// Wind is folded into the horizontal launch speed. The dots use a slightly heavier
// gravity than the simulation and do not bounce off walls.
func AimPreview(ball Body, dx, dy, wind float64, hoops []*Hoop, worldWidth float64) Aim {
	vx := dx*LaunchScaleX + wind
	vy := dy * LaunchScaleY

	aim := Aim{
		WillScore: PredictScore(ball, vx, vy, hoops, worldWidth),
		Color:     ColorAim,
		Dots:      make([]Vec2, 0, PreviewDots),
		Sizes:     make([]float64, 0, PreviewDots),
	}
	if aim.WillScore {
		aim.Color = ColorAimGood
	}

	x, y := ball.X, ball.Y
	for i := 0; i < PreviewDots; i++ {
		vy += PreviewGravity
		x += vx
		y += vy
		aim.Dots = append(aim.Dots, Vec2{X: x, Y: y})
		aim.Sizes = append(aim.Sizes, 4-float64(i)*0.15)
	}
	return aim
}
