package ws

import (
	"context"
	"encoding/json"
	"log"

	"github.com/redis/go-redis/v9"

	"github.com/dunkmaster/backend/internal/leaderboard"
)

// StartEventSubscriber relays dunk_events messages to websocket clients:
// leaderboard updates go to everyone, session expiry to that session's clients.
func StartEventSubscriber(ctx context.Context, rdb *redis.Client, hub *Hub) {
	if rdb == nil {
		log.Println("[WS] Redis client not set; event subscriber not started")
		return
	}

	pubsub := rdb.Subscribe(ctx, leaderboard.EventsChannel)
	ch := pubsub.Channel()
	go func() {
		<-ctx.Done()
		pubsub.Close()
	}()
	go func() {
		log.Printf("[WS] %s subscriber started", leaderboard.EventsChannel)
		for msg := range ch {
			hub.dispatchEvent([]byte(msg.Payload))
		}
		log.Printf("[WS] %s subscriber stopped", leaderboard.EventsChannel)
	}()
}

func (h *Hub) dispatchEvent(raw []byte) {
	var payload map[string]interface{}
	if err := json.Unmarshal(raw, &payload); err != nil {
		log.Printf("[WS] invalid event payload: %v", err)
		return
	}

	typeStr, _ := payload["type"].(string)
	switch typeStr {
	case "leaderboard_updated":
		h.Broadcast(payload)
	case "session_expired":
		sessionID, _ := payload["session_id"].(string)
		if sessionID == "" {
			log.Printf("[WS] session_expired without session_id")
			return
		}
		h.SendToSession(sessionID, payload)
	default:
		log.Printf("[WS] unknown event type: %s", typeStr)
	}
}
