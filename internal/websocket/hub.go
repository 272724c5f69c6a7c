package websocket

import (
	"context"
	"net/http"
	"sync"

	"github.com/gorilla/websocket"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin:     func(r *http.Request) bool { return true },
}

// Hub fans generation status events out to every connected client. Events
// arrive on a single redis pub/sub channel; the subscription runs only
// while at least one client is connected. With no redis configured the hub
// still accepts connections but never sends anything.
type Hub struct {
	mu          sync.RWMutex
	conns       []*websocket.Conn
	redisClient *redis.Client
	channel     string
	log         zerolog.Logger
	cancelSub   context.CancelFunc
}

func NewHub(redisClient *redis.Client, channel string, logger zerolog.Logger) *Hub {
	return &Hub{
		redisClient: redisClient,
		channel:     channel,
		log:         logger,
	}
}

func (h *Hub) HandleWebSocket(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.log.Warn().Err(err).Msg("websocket upgrade failed")
		return
	}

	h.register(conn)

	// Keep connection alive and handle disconnect
	go func() {
		defer h.unregister(conn)
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				break
			}
		}
	}()
}

func (h *Hub) register(conn *websocket.Conn) {
	h.mu.Lock()
	defer h.mu.Unlock()

	h.conns = append(h.conns, conn)

	if len(h.conns) == 1 && h.redisClient != nil {
		ctx, cancel := context.WithCancel(context.Background())
		h.cancelSub = cancel
		go h.subscribe(ctx)
	}

	h.log.Debug().Int("clients", len(h.conns)).Msg("websocket client connected")
}

func (h *Hub) unregister(conn *websocket.Conn) {
	h.mu.Lock()
	defer h.mu.Unlock()

	conn.Close()

	for i, c := range h.conns {
		if c == conn {
			h.conns = append(h.conns[:i], h.conns[i+1:]...)
			break
		}
	}

	if len(h.conns) == 0 && h.cancelSub != nil {
		h.cancelSub()
		h.cancelSub = nil
	}

	h.log.Debug().Int("clients", len(h.conns)).Msg("websocket client disconnected")
}

func (h *Hub) subscribe(ctx context.Context) {
	pubsub := h.redisClient.Subscribe(ctx, h.channel)
	defer pubsub.Close()

	ch := pubsub.Channel()
	for {
		select {
		case <-ctx.Done():
			return
		case msg, ok := <-ch:
			if !ok {
				return
			}
			h.broadcast([]byte(msg.Payload))
		}
	}
}

func (h *Hub) broadcast(data []byte) {
	h.mu.RLock()
	defer h.mu.RUnlock()

	for _, conn := range h.conns {
		if err := conn.WriteMessage(websocket.TextMessage, data); err != nil {
			h.log.Debug().Err(err).Msg("websocket write failed")
		}
	}
}
