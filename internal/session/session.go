package session

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"github.com/dunkmaster/backend/internal/game"
)

// Session is one server-side game. Its state is owned by the driver goroutine;
// everything else only sees published snapshots.
type Session struct {
	ID        string
	PlayerID  string
	Token     string
	CreatedAt time.Time

	driver       *game.Driver
	cancel       context.CancelFunc
	done         chan struct{}
	publishEvery int

	// driver goroutine only
	pending []game.Event
	sinceTx int

	lastActive atomic.Int64

	mu     sync.RWMutex
	latest game.Snapshot
	subs   map[chan game.Snapshot]struct{}
	closed bool

	onGameOver func(s *Session, score int)
}

// Send queues an input for the next tick.
func (s *Session) Send(in game.Input) error {
	s.touch()
	if !s.driver.Send(in) {
		return ErrInputQueueFull
	}
	return nil
}

// Snapshot returns the most recently published frame.
func (s *Session) Snapshot() game.Snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.latest
}

// FinalScore returns the score of a finished game.
func (s *Session) FinalScore() (int, error) {
	snap := s.Snapshot()
	if snap.Status != game.StatusGameOver {
		return 0, ErrGameNotOver
	}
	return snap.Score, nil
}

// Subscribe returns a channel of published snapshots and a function to stop
// receiving them. Slow subscribers miss frames rather than stall the game.
func (s *Session) Subscribe() (<-chan game.Snapshot, func()) {
	ch := make(chan game.Snapshot, 8)

	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		close(ch)
		return ch, func() {}
	}
	s.subs[ch] = struct{}{}
	s.mu.Unlock()

	var once sync.Once
	return ch, func() {
		once.Do(func() {
			s.mu.Lock()
			if _, ok := s.subs[ch]; ok {
				delete(s.subs, ch)
				close(ch)
			}
			s.mu.Unlock()
		})
	}
}

// Done is closed once the session's driver has stopped.
func (s *Session) Done() <-chan struct{} {
	return s.done
}

func (s *Session) LastActive() time.Time {
	return time.Unix(0, s.lastActive.Load())
}

func (s *Session) touch() {
	s.lastActive.Store(time.Now().UnixNano())
}

// onFrame runs on the driver goroutine after every step.
func (s *Session) onFrame(g *game.GameState, events []game.Event) {
	s.pending = append(s.pending, events...)
	s.sinceTx++
	if len(s.pending) == 0 && s.sinceTx < s.publishEvery {
		return
	}

	for _, e := range events {
		if e.Kind == game.EventGameOver && s.onGameOver != nil {
			s.onGameOver(s, e.Score)
		}
	}

	s.publish(g.Snapshot(s.pending, false))
	s.pending = nil
	s.sinceTx = 0
}

func (s *Session) publish(snap game.Snapshot) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.latest = snap
	for ch := range s.subs {
		select {
		case ch <- snap:
		default:
		}
	}
}

func (s *Session) run(ctx context.Context) {
	defer close(s.done)
	s.driver.Run(ctx)

	s.mu.Lock()
	s.closed = true
	for ch := range s.subs {
		delete(s.subs, ch)
		close(ch)
	}
	s.mu.Unlock()
}
