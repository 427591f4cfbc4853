package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"strings"
	"time"

	"github.com/gdamore/tcell/v2"
	"github.com/gopxl/beep"

	"github.com/dunkmaster/backend/internal/audio"
	"github.com/dunkmaster/backend/internal/client"
	"github.com/dunkmaster/backend/internal/config"
	"github.com/dunkmaster/backend/internal/game"
	"github.com/dunkmaster/backend/internal/models"
	"github.com/dunkmaster/backend/internal/prefs"
	"github.com/dunkmaster/backend/internal/redis"
	"github.com/dunkmaster/backend/internal/render"
)

func main() {
	cfg := config.Load()

	server := flag.String("server", "", "play a session hosted by this server (e.g. http://localhost:8080)")
	playerID := flag.String("player", "local", "player id used for preferences and sessions")
	name := flag.String("name", "", "leaderboard name (defaults to the last one used)")
	useRedis := flag.Bool("redis", false, "keep preferences in Redis at REDIS_URL")
	record := flag.String("record", cfg.AudioRecordPath, "write the game's audio to this WAV file on exit")
	logPath := flag.String("log", "", "log file (logs are discarded when empty)")
	flag.Parse()

	if *logPath != "" {
		f, err := os.OpenFile(*logPath, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
		if err != nil {
			fmt.Fprintf(os.Stderr, "open log: %v\n", err)
			os.Exit(1)
		}
		defer f.Close()
		log.SetOutput(f)
	} else {
		log.SetOutput(io.Discard)
	}

	if err := run(cfg, *server, *playerID, *name, *useRedis, *record); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func run(cfg *config.Config, server, playerID, name string, useRedis bool, record string) error {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	var store prefs.Store = prefs.NewMemoryStore()
	if useRedis {
		rdb, err := redis.Connect(cfg.RedisURL)
		if err != nil {
			return fmt.Errorf("connect to redis: %w", err)
		}
		defer rdb.Close()
		store = prefs.NewRedisStore(rdb)
	}
	p, err := store.Load(ctx, playerID)
	if err != nil {
		return fmt.Errorf("load preferences: %w", err)
	}
	if name == "" {
		name = p.PlayerName
	}

	seed := time.Now().UnixNano()
	var src client.Source
	if server != "" {
		remote, err := client.Dial(ctx, server, playerID, seed)
		if err != nil {
			return err
		}
		src = remote
	} else {
		local, err := client.NewLocal(ctx, cfg, store, playerID, seed)
		if err != nil {
			return err
		}
		local.Start(ctx)
		src = local
	}
	defer src.Close()

	screen, err := tcell.NewScreen()
	if err != nil {
		return fmt.Errorf("create screen: %w", err)
	}
	if err := screen.Init(); err != nil {
		return fmt.Errorf("init screen: %w", err)
	}
	defer screen.Fini()
	screen.EnableMouse()
	screen.HideCursor()

	synth := audio.NewSynth(beep.SampleRate(cfg.AudioSampleRate), seed)
	synth.SetMuted(p.Muted)
	var recorder *audio.Recorder
	if record != "" {
		recorder = audio.NewRecorder(beep.SampleRate(cfg.AudioSampleRate))
		defer saveRecording(recorder, record)
	}

	a := &app{
		ctx:      ctx,
		src:      src,
		store:    store,
		playerID: playerID,
		name:     name,
		screen:   screen,
		renderer: render.New(screen),
		synth:    synth,
		bell:     render.Bell{Screen: screen},
		recorder: recorder,
	}
	return a.loop()
}

func saveRecording(r *audio.Recorder, path string) {
	f, err := os.Create(path)
	if err != nil {
		log.Printf("[AUDIO] recording not saved: %v", err)
		return
	}
	defer f.Close()
	if err := r.WriteWAV(f); err != nil {
		log.Printf("[AUDIO] recording not saved: %v", err)
		return
	}
	log.Printf("[AUDIO] wrote %s (%s)", path, r.Duration())
}

type app struct {
	ctx      context.Context
	src      client.Source
	store    prefs.Store
	playerID string
	name     string

	screen   tcell.Screen
	renderer *render.Renderer
	synth    *audio.Synth
	bell     render.Bell
	recorder *audio.Recorder

	last     game.Snapshot
	dragging bool
	status   string
	lastTick time.Time
}

func (a *app) loop() error {
	events := make(chan tcell.Event, 16)
	go func() {
		for {
			ev := a.screen.PollEvent()
			if ev == nil {
				return
			}
			events <- ev
		}
	}()

	a.lastTick = time.Now()
	frames := a.src.Frames()
	for {
		select {
		case snap, ok := <-frames:
			if !ok {
				return nil
			}
			a.frame(snap)
		case ev := <-events:
			if quit := a.handle(ev); quit {
				return nil
			}
		}
	}
}

func (a *app) frame(snap game.Snapshot) {
	game.Dispatch(snap.Events, a.synth, a.bell)
	if a.recorder != nil {
		now := time.Now()
		a.recorder.Advance(now.Sub(a.lastTick))
		a.lastTick = now
	}
	if snap.Status != a.last.Status && snap.Status == game.StatusMenu {
		a.status = ""
	}
	a.last = snap
	a.renderer.Draw(snap, render.HUD{Muted: a.synth.Muted(), Status: a.status})
}

// handle reacts to a terminal event and reports whether the player quit.
func (a *app) handle(ev tcell.Event) bool {
	switch ev := ev.(type) {
	case *tcell.EventResize:
		a.screen.Sync()
	case *tcell.EventKey:
		a.unlockAudio()
		switch {
		case ev.Key() == tcell.KeyEscape, ev.Key() == tcell.KeyCtrlC, ev.Rune() == 'q':
			return true
		case ev.Rune() == ' ':
			a.startOrRestart()
		case ev.Rune() == 'm':
			a.toggleMute()
		case ev.Rune() == 's':
			a.submit()
		case ev.Rune() == 'l':
			a.showLeaderboard()
		}
	case *tcell.EventMouse:
		a.unlockAudio()
		a.mouse(ev)
	}
	return false
}

// unlockAudio attaches the output on the first key or click.
func (a *app) unlockAudio() {
	if a.recorder != nil {
		a.synth.Init(a.recorder)
	}
}

func (a *app) mouse(ev *tcell.EventMouse) {
	col, row := ev.Position()
	x, y := a.renderer.ToWorld(col, row, a.last.Width, a.last.Height)
	pressed := ev.Buttons()&tcell.Button1 != 0

	switch {
	case pressed && !a.dragging:
		if a.last.Status == game.StatusMenu || a.last.Status == game.StatusGameOver {
			a.startOrRestart()
			return
		}
		a.dragging = true
		a.send(game.Input{Kind: game.InputPointerDown, X: x, Y: y})
	case pressed:
		a.send(game.Input{Kind: game.InputPointerMove, X: x, Y: y})
	case a.dragging:
		a.dragging = false
		a.send(game.Input{Kind: game.InputPointerMove, X: x, Y: y})
		a.send(game.Input{Kind: game.InputPointerUp})
	}
}

func (a *app) startOrRestart() {
	switch a.last.Status {
	case game.StatusMenu:
		a.send(game.Input{Kind: game.InputStart})
	case game.StatusGameOver:
		a.status = ""
		a.send(game.Input{Kind: game.InputRestart})
	}
}

func (a *app) toggleMute() {
	muted := a.synth.ToggleMute()
	if err := a.store.SetMuted(a.ctx, a.playerID, muted); err != nil {
		log.Printf("[PREFS] mute not saved: %v", err)
	}
	if !muted {
		a.synth.Blip(880)
	}
}

func (a *app) submit() {
	if a.last.Status != game.StatusGameOver {
		return
	}
	name := a.name
	if name == "" {
		name = a.playerID
	}
	ctx, cancel := context.WithTimeout(a.ctx, 5*time.Second)
	defer cancel()
	entry, err := a.src.Submit(ctx, name)
	if err != nil {
		a.status = err.Error()
		return
	}
	if err := a.store.SetPlayerName(a.ctx, a.playerID, entry.PlayerName); err != nil {
		log.Printf("[PREFS] name not saved: %v", err)
	}
	a.status = fmt.Sprintf("submitted %d as %s", entry.Score, entry.PlayerName)
	a.synth.Blip(660)
}

// ranked is implemented by sources that can read the shared leaderboard.
type ranked interface {
	Top(ctx context.Context, limit int) ([]models.Score, error)
}

func (a *app) showLeaderboard() {
	r, ok := a.src.(ranked)
	if !ok {
		a.status = client.ErrOffline.Error()
		return
	}
	ctx, cancel := context.WithTimeout(a.ctx, 5*time.Second)
	defer cancel()
	top, err := r.Top(ctx, 5)
	if err != nil {
		a.status = err.Error()
		return
	}
	if len(top) == 0 {
		a.status = "no scores yet"
		return
	}
	parts := make([]string, len(top))
	for i, s := range top {
		parts[i] = fmt.Sprintf("%d. %s %d", i+1, s.PlayerName, s.Score)
	}
	a.status = strings.Join(parts, "  ")
}

func (a *app) send(in game.Input) {
	if err := a.src.Send(in); err != nil {
		log.Printf("[INPUT] %s dropped: %v", in.Kind, err)
	}
}
