// Package render draws game snapshots onto a terminal with tcell.
package render

import (
	"fmt"
	"math"
	"strings"

	"github.com/gdamore/tcell/v2"

	"github.com/dunkmaster/backend/internal/game"
)

const (
	floaterFrames = 45
	warningFrames = 90
)

var (
	styleBackground = tcell.StyleDefault.Background(tcell.ColorBlack)
	colorNet        = tcell.NewRGBColor(160, 160, 170)
	colorStar       = tcell.NewRGBColor(200, 200, 255)
	colorHUD        = tcell.NewRGBColor(220, 220, 220)
	colorDim        = tcell.NewRGBColor(90, 90, 100)
)

// HUD is client-side state shown next to the game itself.
type HUD struct {
	Muted  bool
	Status string
}

// floater is a label that rises and fades after a text or warning event.
type floater struct {
	text   string
	x, y   float64
	color  tcell.Color
	frames int
	banner bool
}

// Renderer maps the game world onto the screen grid. Terminal cells are roughly
// twice as tall as they are wide, so the world is scaled independently per axis.
type Renderer struct {
	screen   tcell.Screen
	floaters []floater
	lastTick int
}

func New(screen tcell.Screen) *Renderer {
	return &Renderer{screen: screen, lastTick: -1}
}

// viewport returns the cells-per-world-unit scale for each axis.
func (r *Renderer) viewport(snap *game.Snapshot) (sx, sy float64) {
	cols, rows := r.screen.Size()
	if snap.Width <= 0 || snap.Height <= 0 {
		return 0, 0
	}
	return float64(cols) / snap.Width, float64(rows) / snap.Height
}

// ToWorld converts a cell to viewport coordinates, the frame pointer input is
// expressed in. The camera is not applied.
func (r *Renderer) ToWorld(col, row int, width, height float64) (float64, float64) {
	cols, rows := r.screen.Size()
	if cols == 0 || rows == 0 {
		return 0, 0
	}
	x := (float64(col) + 0.5) * width / float64(cols)
	y := (float64(row) + 0.5) * height / float64(rows)
	return x, y
}

// Draw renders one frame. Events carried on the snapshot start floating labels.
func (r *Renderer) Draw(snap game.Snapshot, hud HUD) {
	r.screen.Fill(' ', styleBackground)

	if snap.Tick != r.lastTick {
		r.collect(snap.Events)
		r.age()
		r.lastTick = snap.Tick
	}

	sx, sy := r.viewport(&snap)
	shake := 0
	if snap.ShakeTimer > 0 {
		shake = 1 - 2*(snap.Tick%2)
	}
	toCell := func(x, y float64) (int, int) {
		return int(math.Floor(x*sx)) + shake, int(math.Floor((y - snap.CameraY) * sy))
	}

	r.drawStars(&snap, sx, sy)
	r.drawObstacles(&snap, toCell)
	for i := range snap.Hoops {
		r.drawHoop(&snap.Hoops[i], toCell)
	}
	for _, b := range snap.DeadBalls {
		c, row := toCell(b.X, b.Y)
		r.set(c, row, 'o', hexColor(game.ColorDeadBall))
	}
	r.drawBall(&snap, toCell)
	r.drawAim(&snap, toCell)
	for _, p := range snap.Particles {
		c, row := toCell(p.X, p.Y)
		ch := '*'
		if p.Life < 0.4 {
			ch = '.'
		}
		r.set(c, row, ch, hexColor(p.Color))
	}
	r.drawFloaters(toCell)
	r.drawHUD(&snap, hud)
	r.drawOverlay(&snap)
	if hud.Status != "" {
		_, rows := r.screen.Size()
		r.text(1, rows-1, hud.Status, colorHUD)
	}

	r.screen.Show()
}

func (r *Renderer) collect(events []game.Event) {
	for _, e := range events {
		switch e.Kind {
		case game.EventText:
			r.floaters = append(r.floaters, floater{text: e.Text, x: e.X, y: e.Y, color: hexColor(e.Color), frames: floaterFrames})
		case game.EventWarning:
			r.floaters = append(r.floaters, floater{text: e.Text, color: hexColor(e.Color), frames: warningFrames, banner: true})
		}
	}
}

func (r *Renderer) age() {
	live := r.floaters[:0]
	for _, f := range r.floaters {
		f.frames--
		if !f.banner {
			f.y--
		}
		if f.frames > 0 {
			live = append(live, f)
		}
	}
	r.floaters = live
}

func (r *Renderer) drawStars(snap *game.Snapshot, sx, sy float64) {
	for _, s := range snap.Stars {
		y := math.Mod(s.Y-snap.CameraY*game.StarParallax, snap.Height)
		if y < 0 {
			y += snap.Height
		}
		ch := '.'
		color := colorDim
		if s.Alpha > 0.7 {
			color = colorStar
			if s.Size > 1.5 {
				ch = '+'
			}
		}
		r.set(int(s.X*sx), int(y*sy), ch, color)
	}
}

func (r *Renderer) drawObstacles(snap *game.Snapshot, toCell func(x, y float64) (int, int)) {
	color := hexColor(game.ColorObstacle)
	for _, o := range snap.Obstacles {
		c0, row := toCell(o.X, o.Y)
		c1, _ := toCell(o.X+o.W, o.Y)
		for c := c0; c <= c1; c++ {
			r.set(c, row, '▀', color)
		}
	}
}

func (r *Renderer) drawHoop(h *game.Hoop, toCell func(x, y float64) (int, int)) {
	if h.Net != nil {
		for _, l := range h.Net.Links {
			a, b := h.Net.Nodes[l.A].Pos, h.Net.Nodes[l.B].Pos
			ac, ar := toCell(a.X, a.Y)
			bc, br := toCell(b.X, b.Y)
			r.line(ac, ar, bc, br, ':', colorNet)
		}
	}

	rim := hexColor(game.ColorWhite)
	switch {
	case h.Scored:
		rim = colorDim
	case h.Movement == game.MovementWave:
		rim = hexColor(game.ColorWave)
	}
	c0, row := toCell(h.RimLeft(), h.Y)
	c1, _ := toCell(h.RimRight(), h.Y)
	for c := c0 + 1; c < c1; c++ {
		r.set(c, row, '═', rim)
	}
	r.set(c0, row, '○', rim)
	r.set(c1, row, '○', rim)

	for _, b := range h.Blockers {
		x, y := b.Position(h)
		c, row := toCell(x, y)
		r.set(c, row, '◆', hexColor(game.ColorBlocker))
	}
}

func (r *Renderer) drawBall(snap *game.Snapshot, toCell func(x, y float64) (int, int)) {
	if snap.Status == game.StatusMenu {
		return
	}
	color := hexColor(snap.BallColor)
	for i, p := range snap.Ball.Trail {
		if i == len(snap.Ball.Trail)-1 {
			break
		}
		c, row := toCell(p.X, p.Y)
		r.set(c, row, '∙', color)
	}
	c, row := toCell(snap.Ball.X, snap.Ball.Y)
	r.set(c, row, '●', color)
}

func (r *Renderer) drawAim(snap *game.Snapshot, toCell func(x, y float64) (int, int)) {
	if snap.Aim == nil {
		return
	}
	color := hexColor(snap.Aim.Color)
	for i, d := range snap.Aim.Dots {
		c, row := toCell(d.X, d.Y)
		ch := '·'
		if i < len(snap.Aim.Sizes) && snap.Aim.Sizes[i] > 2 {
			ch = '•'
		}
		r.set(c, row, ch, color)
	}
}

func (r *Renderer) drawFloaters(toCell func(x, y float64) (int, int)) {
	cols, rows := r.screen.Size()
	banner := rows / 3
	for _, f := range r.floaters {
		if f.banner {
			r.text((cols-len([]rune(f.text)))/2, banner, f.text, f.color)
			banner++
			continue
		}
		c, row := toCell(f.x, f.y)
		r.text(c-len([]rune(f.text))/2, row, f.text, f.color)
	}
}

func (r *Renderer) drawHUD(snap *game.Snapshot, hud HUD) {
	if snap.Status == game.StatusMenu {
		return
	}
	cols, _ := r.screen.Size()

	r.text(1, 0, fmt.Sprintf("%d", snap.Score), hexColor(snap.ScoreColor))
	best := fmt.Sprintf("BEST %d", snap.HighScore)
	r.text(cols-len(best)-1, 0, best, colorHUD)
	r.text(1, 1, snap.LivesDisplay, hexColor(game.ColorHeart))

	if snap.Wind != 0 {
		arrow := "→"
		if snap.Wind < 0 {
			arrow = "←"
		}
		n := int(math.Ceil(math.Abs(snap.Wind) * 20))
		wind := "WIND " + strings.Repeat(arrow, n)
		r.text((cols-len([]rune(wind)))/2, 0, wind, hexColor(game.ColorWind))
	}
	if snap.PerfectStreak > 1 {
		streak := fmt.Sprintf("x%d PERFECT", snap.PerfectStreak)
		r.text(cols-len(streak)-1, 1, streak, hexColor(game.ColorPerfect))
	}
	if hud.Muted {
		r.text(cols-8, 2, "[muted]", colorDim)
	}
}

func (r *Renderer) drawOverlay(snap *game.Snapshot) {
	cols, rows := r.screen.Size()
	var lines []string
	switch snap.Status {
	case game.StatusMenu:
		lines = []string{"DUNK MASTER", "", "drag back and release to shoot", "", "SPACE to start"}
	case game.StatusGameOver:
		lines = []string{"GAME OVER", "", fmt.Sprintf("SCORE %d", snap.Score), fmt.Sprintf("BEST %d", snap.HighScore), "", "SPACE to restart  S to submit"}
	default:
		return
	}
	top := (rows - len(lines)) / 2
	for i, l := range lines {
		color := colorHUD
		if i == 0 {
			color = hexColor(game.ColorBall)
		}
		r.text((cols-len([]rune(l)))/2, top+i, l, color)
	}
}

func (r *Renderer) set(col, row int, ch rune, color tcell.Color) {
	cols, rows := r.screen.Size()
	if col < 0 || row < 0 || col >= cols || row >= rows {
		return
	}
	r.screen.SetContent(col, row, ch, nil, styleBackground.Foreground(color))
}

func (r *Renderer) text(col, row int, s string, color tcell.Color) {
	for i, ch := range []rune(s) {
		r.set(col+i, row, ch, color)
	}
}

// line rasterizes a segment with Bresenham's algorithm.
func (r *Renderer) line(c0, r0, c1, r1 int, ch rune, color tcell.Color) {
	dc, dr := abs(c1-c0), -abs(r1-r0)
	sc, sr := 1, 1
	if c0 > c1 {
		sc = -1
	}
	if r0 > r1 {
		sr = -1
	}
	err := dc + dr
	for {
		r.set(c0, r0, ch, color)
		if c0 == c1 && r0 == r1 {
			return
		}
		e2 := 2 * err
		if e2 >= dr {
			err += dr
			c0 += sc
		}
		if e2 <= dc {
			err += dc
			r0 += sr
		}
	}
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}

// hexColor parses "#rrggbb"; anything else renders white.
func hexColor(s string) tcell.Color {
	if strings.HasPrefix(s, "#") {
		if c := tcell.GetColor(s); c != tcell.ColorDefault {
			return c
		}
	}
	return tcell.ColorWhite
}
