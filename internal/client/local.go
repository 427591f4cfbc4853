// Package client feeds the terminal front end with frames, either from a game
// simulated in-process or from a session on a server.
package client

import (
	"context"
	"errors"
	"log"
	"time"

	"github.com/dunkmaster/backend/internal/config"
	"github.com/dunkmaster/backend/internal/game"
	"github.com/dunkmaster/backend/internal/models"
	"github.com/dunkmaster/backend/internal/prefs"
)

var (
	ErrOffline       = errors.New("leaderboard needs a server connection")
	ErrInputRejected = errors.New("input queue full")
)

// Source is where frames come from and inputs go to.
type Source interface {
	// Frames is closed when the game stops.
	Frames() <-chan game.Snapshot
	Send(in game.Input) error
	Submit(ctx context.Context, name string) (*models.Score, error)
	Close() error
}

// Local runs the simulation in-process. Frames carry every event since the last
// frame that was delivered, so a slow reader skips frames but never sounds.
type Local struct {
	driver   *game.Driver
	frames   chan game.Snapshot
	cancel   context.CancelFunc
	done     chan struct{}
	prefs    prefs.Store
	playerID string

	// driver goroutine only
	pending []game.Event
}

func NewLocal(ctx context.Context, cfg *config.Config, store prefs.Store, playerID string, seed int64) (*Local, error) {
	state := game.NewGameState(cfg.WorldWidth, cfg.WorldHeight, seed)
	p, err := store.Load(ctx, playerID)
	if err != nil {
		return nil, err
	}
	state.HighScore = p.HighScore

	l := &Local{
		driver:   game.NewDriver(state, cfg.TickRate),
		frames:   make(chan game.Snapshot, 1),
		done:     make(chan struct{}),
		prefs:    store,
		playerID: playerID,
	}
	l.driver.OnFrame = l.onFrame
	return l, nil
}

// Start runs the game loop until ctx is cancelled or Close is called.
func (l *Local) Start(ctx context.Context) {
	ctx, l.cancel = context.WithCancel(ctx)
	go func() {
		defer close(l.done)
		defer close(l.frames)
		l.driver.Run(ctx)
	}()
}

func (l *Local) onFrame(g *game.GameState, events []game.Event) {
	l.pending = append(l.pending, events...)
	for _, e := range events {
		if e.Kind == game.EventGameOver {
			go l.recordScore(e.Score)
		}
	}

	select {
	case l.frames <- g.Snapshot(l.pending, true):
		l.pending = nil
	default:
	}
}

func (l *Local) recordScore(score int) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if _, err := l.prefs.RecordScore(ctx, l.playerID, score); err != nil {
		log.Printf("[PREFS] high score not saved: %v", err)
	}
}

func (l *Local) Frames() <-chan game.Snapshot { return l.frames }

func (l *Local) Send(in game.Input) error {
	if !l.driver.Send(in) {
		return ErrInputRejected
	}
	return nil
}

// Submit is unavailable offline: the server only ranks games it ran itself.
func (l *Local) Submit(ctx context.Context, name string) (*models.Score, error) {
	return nil, ErrOffline
}

func (l *Local) Close() error {
	if l.cancel != nil {
		l.cancel()
		<-l.done
	}
	return nil
}
