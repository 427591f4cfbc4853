package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"github.com/dunkmaster/backend/internal/game"
	"github.com/dunkmaster/backend/internal/leaderboard"
	"github.com/dunkmaster/backend/internal/models"
)

const writeWait = 5 * time.Second

// SessionInfo is the server's reply to a new session.
type SessionInfo struct {
	SessionID string  `json:"session_id"`
	PlayerID  string  `json:"player_id"`
	Token     string  `json:"token"`
	WSPath    string  `json:"ws_path"`
	HighScore int     `json:"high_score"`
	Width     float64 `json:"width"`
	Height    float64 `json:"height"`
}

type message struct {
	Type    string          `json:"type"`
	Data    json.RawMessage `json:"data,omitempty"`
	Message string          `json:"message,omitempty"`
}

// Remote plays a session hosted by a server over its websocket. Stars are not
// sent over the wire, so a local backdrop supplies them.
type Remote struct {
	Info SessionInfo

	baseURL  string
	http     *http.Client
	board    *leaderboard.Client
	conn     *websocket.Conn
	frames   chan game.Snapshot
	done     chan struct{}
	writeMu  sync.Mutex
	backdrop *game.GameState
	once     sync.Once
}

// Dial creates a session on the server at baseURL and connects to its stream.
func Dial(ctx context.Context, baseURL, playerID string, seed int64) (*Remote, error) {
	baseURL = strings.TrimRight(baseURL, "/")
	r := &Remote{
		baseURL: baseURL,
		http:    &http.Client{Timeout: 10 * time.Second},
		board:   leaderboard.NewClient(baseURL),
		frames:  make(chan game.Snapshot, 16),
		done:    make(chan struct{}),
	}

	info, err := r.createSession(ctx, playerID)
	if err != nil {
		return nil, err
	}
	r.Info = *info
	r.backdrop = game.NewGameState(info.Width, info.Height, seed)

	wsURL, err := websocketURL(baseURL, info.WSPath, info.Token)
	if err != nil {
		return nil, err
	}
	conn, _, err := websocket.DefaultDialer.DialContext(ctx, wsURL, nil)
	if err != nil {
		return nil, fmt.Errorf("dial session stream: %w", err)
	}
	r.conn = conn

	go r.readPump()
	return r, nil
}

func (r *Remote) createSession(ctx context.Context, playerID string) (*SessionInfo, error) {
	body, _ := json.Marshal(map[string]string{"player_id": playerID})
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, r.baseURL+"/api/v1/sessions", bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := r.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("create session: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusCreated {
		var e struct {
			Error string `json:"error"`
		}
		json.NewDecoder(resp.Body).Decode(&e)
		return nil, fmt.Errorf("create session: %s: %s", resp.Status, e.Error)
	}

	var info SessionInfo
	if err := json.NewDecoder(resp.Body).Decode(&info); err != nil {
		return nil, fmt.Errorf("decode session: %w", err)
	}
	return &info, nil
}

// websocketURL swaps the scheme of baseURL for ws/wss and attaches the token.
func websocketURL(baseURL, path, token string) (string, error) {
	u, err := url.Parse(baseURL + path)
	if err != nil {
		return "", fmt.Errorf("parse server url: %w", err)
	}
	switch u.Scheme {
	case "https":
		u.Scheme = "wss"
	default:
		u.Scheme = "ws"
	}
	q := u.Query()
	q.Set("token", token)
	u.RawQuery = q.Encode()
	return u.String(), nil
}

func (r *Remote) readPump() {
	defer close(r.frames)
	for {
		var msg message
		if err := r.conn.ReadJSON(&msg); err != nil {
			select {
			case <-r.done:
			default:
				log.Printf("[CLIENT] stream closed: %v", err)
			}
			return
		}

		switch msg.Type {
		case "snapshot":
			var snap game.Snapshot
			if err := json.Unmarshal(msg.Data, &snap); err != nil {
				log.Printf("[CLIENT] bad snapshot: %v", err)
				continue
			}
			r.backdrop.Wind = snap.Wind
			r.backdrop.Step()
			snap.Stars = r.backdrop.Snapshot(nil, true).Stars

			select {
			case r.frames <- snap:
			case <-r.done:
				return
			}
		case "error":
			log.Printf("[CLIENT] server error: %s", msg.Message)
		case "session_expired":
			log.Printf("[CLIENT] session %s expired", r.Info.SessionID)
			return
		}
	}
}

func (r *Remote) Frames() <-chan game.Snapshot { return r.frames }

func (r *Remote) Send(in game.Input) error {
	data, err := json.Marshal(in)
	if err != nil {
		return err
	}
	r.writeMu.Lock()
	defer r.writeMu.Unlock()
	r.conn.SetWriteDeadline(time.Now().Add(writeWait))
	return r.conn.WriteJSON(message{Type: "input", Data: data})
}

func (r *Remote) Submit(ctx context.Context, name string) (*models.Score, error) {
	return r.board.Submit(ctx, name, r.Info.Token)
}

// Top fetches the current leaderboard.
func (r *Remote) Top(ctx context.Context, limit int) ([]models.Score, error) {
	return r.board.Top(ctx, limit)
}

// Close ends the session on the server and drops the connection.
func (r *Remote) Close() error {
	r.once.Do(func() {
		close(r.done)

		ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
		defer cancel()
		req, err := http.NewRequestWithContext(ctx, http.MethodDelete, r.baseURL+"/api/v1/sessions/current", nil)
		if err == nil {
			req.Header.Set("Authorization", "Bearer "+r.Info.Token)
			if resp, err := r.http.Do(req); err == nil {
				resp.Body.Close()
			}
		}

		r.writeMu.Lock()
		r.conn.WriteControl(websocket.CloseMessage, websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""), time.Now().Add(writeWait))
		r.writeMu.Unlock()
		r.conn.Close()
	})
	return nil
}
