package game

import "math"

func (g *GameState) spawnParticles(x, y float64, count int, color string) {
	for i := 0; i < count; i++ {
		g.Particles = append(g.Particles, Particle{
			X:     x,
			Y:     y,
			VX:    (g.rng.Float64() - 0.5) * 10,
			VY:    (g.rng.Float64() - 0.5) * 10,
			Life:  1,
			Color: color,
			Size:  g.rng.Float64()*4 + 1,
		})
	}
}

// stepParticles moves particles and compacts out the expired ones in place.
func (g *GameState) stepParticles() {
	live := g.Particles[:0]
	for _, p := range g.Particles {
		p.X += p.VX
		p.Y += p.VY
		p.Life -= ParticleDecay
		if p.Life > 0 {
			live = append(live, p)
		}
	}
	g.Particles = live
}

func (g *GameState) initStars() {
	g.Stars = make([]Star, 0, StarCount)
	for i := 0; i < StarCount; i++ {
		g.Stars = append(g.Stars, Star{
			X:         g.rng.Float64() * g.Width,
			Y:         g.rng.Float64() * g.Height,
			Size:      g.rng.Float64() * 2,
			Speed:     g.rng.Float64() * 0.2,
			Twinkle:   g.rng.Float64() * 0.05,
			BaseAlpha: 0.3 + g.rng.Float64()*0.7,
			Alpha:     1,
		})
	}
}

// stepStars drifts stars down and with the wind, wrapping at the world edges.
func (g *GameState) stepStars() {
	ms := float64(g.Tick) * 1000 / TickRate
	for i := range g.Stars {
		s := &g.Stars[i]
		s.Y += s.Speed
		if g.Wind != 0 {
			s.X += g.Wind * StarWindDrift
		}
		if s.X > g.Width {
			s.X -= g.Width
		}
		if s.X < 0 {
			s.X += g.Width
		}
		s.Alpha = s.BaseAlpha + math.Sin(ms*s.Twinkle)*0.2
		if s.Y > g.Height {
			s.Y -= g.Height
		}
	}
}

// StarScreenY applies camera parallax to a star's y, wrapped into the viewport.
func (g *GameState) StarScreenY(s Star) float64 {
	y := math.Mod(s.Y-g.CameraY*StarParallax, g.Height)
	if y < 0 {
		y += g.Height
	}
	return y
}
