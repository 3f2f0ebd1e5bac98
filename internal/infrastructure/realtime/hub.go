package realtime

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/olahol/melody"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/PtKartikVashishtha/BecopyMain-sub000/internal/domain/entities"
)

const sessionUserKey = "user_id"

// Hub fans user channel messages out to that user's websocket connections.
// Every instance subscribes to all user channels, so a client may connect to any of them.
type Hub struct {
	melody *melody.Melody
	redis  *redis.Client
	logger *zap.Logger
	cancel context.CancelFunc
	done   chan struct{}
}

// NewHub creates a websocket hub
func NewHub(client *redis.Client, logger *zap.Logger) *Hub {
	m := melody.New()
	m.Config.MaxMessageSize = 4 * 1024
	m.Config.PingPeriod = 30 * time.Second
	m.Config.PongWait = 60 * time.Second

	m.HandleConnect(func(s *melody.Session) {
		user, _ := s.Get(sessionUserKey)
		logger.Debug("realtime.connected", zap.Any("user_id", user))
	})
	m.HandleDisconnect(func(s *melody.Session) {
		user, _ := s.Get(sessionUserKey)
		logger.Debug("realtime.disconnected", zap.Any("user_id", user))
	})
	m.HandleError(func(s *melody.Session, err error) {
		logger.Warn("realtime.error", zap.Error(err))
	})

	return &Hub{melody: m, redis: client, logger: logger, done: make(chan struct{})}
}

// Serve upgrades the request and binds the connection to the user
func (h *Hub) Serve(w http.ResponseWriter, r *http.Request, user entities.UserRef) error {
	return h.melody.HandleRequestWithKeys(w, r, map[string]interface{}{
		sessionUserKey: user.String(),
	})
}

// Start subscribes to every user channel and forwards messages until Stop
func (h *Hub) Start(ctx context.Context) {
	ctx, h.cancel = context.WithCancel(ctx)
	pubsub := h.redis.PSubscribe(ctx, channelPrefix+"*")

	go func() {
		defer close(h.done)
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
				h.Deliver(strings.TrimPrefix(msg.Channel, channelPrefix), []byte(msg.Payload))
			}
		}
	}()
	h.logger.Info("realtime.hub.started")
}

// Deliver writes a message to every connection of the user
func (h *Hub) Deliver(userID string, message []byte) {
	err := h.melody.BroadcastFilter(message, func(s *melody.Session) bool {
		id, ok := s.Get(sessionUserKey)
		return ok && id == userID
	})
	if err != nil {
		h.logger.Warn("realtime.deliver.failed", zap.String("user_id", userID), zap.Error(err))
	}
}

// Stop ends the subscription and closes every connection
func (h *Hub) Stop() {
	if h.cancel != nil {
		h.cancel()
		<-h.done
	}
	_ = h.melody.Close()
	h.logger.Info("realtime.hub.stopped")
}
