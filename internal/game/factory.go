package game

import "math"

// CreateHoop builds a hoop at height y on the given side (1 right, -1 left). Movement,
// rim width and blockers scale with the current score.
func (g *GameState) CreateHoop(y float64, side int) *Hoop {
	x := HoopInset
	if side == 1 {
		x = g.Width - HoopInset
	}

	h := &Hoop{
		ID:       g.nextHoopID,
		X:        x,
		Y:        y,
		W:        HoopWidth,
		Side:     side,
		StartX:   x,
		StartY:   y,
		Movement: MovementStatic,
	}
	g.nextHoopID++

	if g.Score > HorizontalScore && g.rng.Float64() > HorizontalRoll {
		speed := SlowHoopSpeed
		if g.Score > FastScore {
			speed = FastHoopSpeed
		}
		h.Movement = MovementHorizontal
		h.MoveSpeedX = (g.rng.Float64() + 0.5) * speed
	}

	if g.Score > WaveScore && g.rng.Float64() > WaveRoll {
		h.Movement = MovementWave
		h.MoveSpeedY = WaveSpeedY
		h.MoveSpeedX = WaveSpeedX
		if !g.Seen.Wave {
			g.Seen.Wave = true
			g.floatingText("WAVY HOOPS!", g.Width/2, y+100, ColorWave)
		}
	}

	if g.Score > TightScore && g.rng.Float64() > TightRoll {
		h.W = TightHoopWidth
		if !g.Seen.Small {
			g.Seen.Small = true
			g.warning("TIGHT RIMS", ColorTight)
		}
	}

	chance := math.Min(MaxBlockerChance, float64(g.Score-BlockerScore)*BlockerChanceStep)
	if g.Score > BlockerScore && g.rng.Float64() < chance {
		count := 1
		if g.Score > TightScore && g.rng.Float64() > DoubleBlockerRoll {
			count = 2
		}
		for i := 0; i < count; i++ {
			h.Blockers = append(h.Blockers, Blocker{
				Angle: math.Pi * 2 * float64(i) / float64(count),
				Speed: BlockerBaseSpeed + g.rng.Float64()*BlockerSpeedRange,
				Dist:  BlockerDist,
				R:     BlockerRadius,
			})
		}
		if !g.Seen.Blockers {
			g.Seen.Blockers = true
			g.warning("DEFENSE DRONES", ColorDrones)
		}
	}

	h.Net = NewNet(x, y)
	h.TimeOffset = g.rng.Float64() * WavePhaseRange
	return h
}

// CreateObstacle spawns a patrolling bar centred horizontally, above height y.
func (g *GameState) CreateObstacle(y float64) Obstacle {
	vx := -ObstacleSpeed
	if g.rng.Float64() > 0.5 {
		vx = ObstacleSpeed
	}
	return Obstacle{
		X:  g.Width/2 - ObstacleWidth/2,
		Y:  y - ObstacleLift,
		W:  ObstacleWidth,
		H:  ObstacleHeight,
		VX: vx,
	}
}

// SetWind re-rolls the wind for the next hoop.
func (g *GameState) SetWind() {
	if g.Score > WindScore && g.rng.Float64() > WindRoll {
		g.Wind = (g.rng.Float64() - 0.5) * MaxWind
		dir := "<<"
		if g.Wind > 0 {
			dir = ">>"
		}
		g.floatingText("WIND "+dir, g.Width/2, g.CameraY+100, ColorWind)
		return
	}
	g.Wind = 0
}

// AddNextHoop appends a hoop one spacing above the highest one, possibly with an
// obstacle, and evicts the oldest hoops and obstacles beyond the retention window.
func (g *GameState) AddNextHoop() {
	last := g.Hoops[len(g.Hoops)-1]
	y := last.Y - g.Height*HoopSpacing
	side := -1
	if g.rng.Float64() > SideRoll {
		side = 1
	}

	if g.Score > ObstacleScore && g.rng.Float64() > ObstacleRoll {
		g.Obstacles = append(g.Obstacles, g.CreateObstacle(y))
	}
	g.SetWind()

	g.Hoops = append(g.Hoops, g.CreateHoop(y, side))

	if len(g.Hoops) > MaxHoops {
		n := copy(g.Hoops, g.Hoops[1:])
		g.Hoops[n] = nil
		g.Hoops = g.Hoops[:n]
	}
	if len(g.Obstacles) > MaxObstacles {
		n := copy(g.Obstacles, g.Obstacles[1:])
		g.Obstacles = g.Obstacles[:n]
	}
}
