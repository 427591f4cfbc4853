package render

import (
	"math"
	"strings"
	"testing"

	"github.com/gdamore/tcell/v2"

	"github.com/dunkmaster/backend/internal/game"
)

func newScreen(t *testing.T, cols, rows int) tcell.SimulationScreen {
	t.Helper()
	screen := tcell.NewSimulationScreen("UTF-8")
	if err := screen.Init(); err != nil {
		t.Fatalf("Failed to init screen: %v", err)
	}
	screen.SetSize(cols, rows)
	t.Cleanup(screen.Fini)
	return screen
}

func rowText(screen tcell.Screen, row int) string {
	cols, _ := screen.Size()
	var b strings.Builder
	for c := 0; c < cols; c++ {
		ch, _, _, _ := screen.GetContent(c, row)
		b.WriteRune(ch)
	}
	return b.String()
}

func screenText(screen tcell.Screen) string {
	_, rows := screen.Size()
	var b strings.Builder
	for r := 0; r < rows; r++ {
		b.WriteString(rowText(screen, r))
		b.WriteByte('\n')
	}
	return b.String()
}

func playing(t *testing.T) game.Snapshot {
	t.Helper()
	g := game.NewGameState(400, 800, 1)
	if err := g.Start(); err != nil {
		t.Fatal(err)
	}
	return g.Snapshot(g.Drain(), true)
}

func TestMenuOverlay(t *testing.T) {
	screen := newScreen(t, 40, 40)
	g := game.NewGameState(400, 800, 1)

	New(screen).Draw(g.Snapshot(nil, true), HUD{})

	text := screenText(screen)
	for _, want := range []string{"DUNK MASTER", "SPACE to start"} {
		if !strings.Contains(text, want) {
			t.Errorf("menu missing %q", want)
		}
	}
	if strings.ContainsRune(text, '●') {
		t.Error("ball drawn on the menu")
	}
}

func TestBallAndHoopsPlaced(t *testing.T) {
	screen := newScreen(t, 40, 40)
	snap := playing(t)
	snap.Events = nil
	r := New(screen)
	r.Draw(snap, HUD{})

	// 40 columns over 400 units and 40 rows over 800 units
	sx, sy := 40/400.0, 40/800.0
	col := int(math.Floor(snap.Ball.X * sx))
	row := int(math.Floor((snap.Ball.Y - snap.CameraY) * sy))
	if ch, _, _, _ := screen.GetContent(col, row); ch != '●' {
		t.Errorf("ball not at (%d,%d), found %q", col, row, ch)
	}

	rims := 0
	for _, h := range snap.Hoops {
		hr := int(math.Floor((h.Y - snap.CameraY) * sy))
		if hr < 0 || hr >= 40 {
			continue
		}
		if strings.ContainsRune(rowText(screen, hr), '═') {
			rims++
		}
	}
	if rims == 0 {
		t.Error("no visible rim drawn")
	}
}

func TestHUD(t *testing.T) {
	screen := newScreen(t, 40, 40)
	snap := playing(t)
	snap.Score = 7
	snap.HighScore = 12

	New(screen).Draw(snap, HUD{Muted: true, Status: "submitted"})

	if top := rowText(screen, 0); !strings.Contains(top, "7") || !strings.Contains(top, "BEST 12") {
		t.Errorf("score row = %q", top)
	}
	if lives := rowText(screen, 1); !strings.Contains(lives, "❤❤❤") {
		t.Errorf("lives row = %q", lives)
	}
	if !strings.Contains(rowText(screen, 2), "[muted]") {
		t.Error("mute indicator missing")
	}
	if !strings.Contains(rowText(screen, 39), "submitted") {
		t.Error("status line missing")
	}
}

func TestGameOverOverlay(t *testing.T) {
	screen := newScreen(t, 40, 40)
	snap := playing(t)
	snap.Status = game.StatusGameOver
	snap.Score = 3

	New(screen).Draw(snap, HUD{})

	text := screenText(screen)
	for _, want := range []string{"GAME OVER", "SCORE 3", "S to submit"} {
		if !strings.Contains(text, want) {
			t.Errorf("game over screen missing %q", want)
		}
	}
}

func TestFloatingTextExpires(t *testing.T) {
	screen := newScreen(t, 40, 40)
	snap := playing(t)
	r := New(screen)

	snap.Events = []game.Event{{Kind: game.EventWarning, Text: "TIGHT RIMS", Color: game.ColorTight}}
	r.Draw(snap, HUD{})
	if !strings.Contains(screenText(screen), "TIGHT RIMS") {
		t.Fatal("warning not shown")
	}

	snap.Events = nil
	for i := 0; i < warningFrames; i++ {
		snap.Tick++
		r.Draw(snap, HUD{})
	}
	if strings.Contains(screenText(screen), "TIGHT RIMS") {
		t.Error("warning still shown after it expired")
	}
}

func TestRedrawSameTickKeepsFloaters(t *testing.T) {
	screen := newScreen(t, 40, 40)
	snap := playing(t)
	r := New(screen)

	snap.Events = []game.Event{{Kind: game.EventText, Text: "SAFE!", X: 200, Y: snap.CameraY + 400}}
	r.Draw(snap, HUD{})
	r.Draw(snap, HUD{})
	if len(r.floaters) != 1 {
		t.Errorf("floaters = %d, want 1", len(r.floaters))
	}
}

func TestToWorld(t *testing.T) {
	screen := newScreen(t, 40, 40)
	r := New(screen)
	x, y := r.ToWorld(0, 39, 400, 800)
	if x != 5 || y != 790 {
		t.Errorf("ToWorld = (%v, %v), want (5, 790)", x, y)
	}
}

func TestHexColor(t *testing.T) {
	if hexColor("#ff0000") != tcell.NewRGBColor(255, 0, 0) {
		t.Error("hex color not parsed")
	}
	if hexColor("rgba(255, 255, 255, 0.4)") != tcell.ColorWhite {
		t.Error("non-hex color should fall back to white")
	}
}
