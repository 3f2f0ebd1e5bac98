package realtime

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/PtKartikVashishtha/BecopyMain-sub000/internal/domain/entities"
	"github.com/PtKartikVashishtha/BecopyMain-sub000/internal/domain/ports"
)

const (
	channelPrefix  = "notify:user:"
	queueSize      = 256
	publishTimeout = 2 * time.Second
)

// ChannelFor returns the pub/sub channel of a user
func ChannelFor(user entities.UserRef) string {
	return channelPrefix + user.String()
}

// Envelope is the message published on a user channel
type Envelope struct {
	Event   string          `json:"event"`
	Payload json.RawMessage `json:"payload"`
	SentAt  time.Time       `json:"sent_at"`
}

// Publisher publishes a raw message to a channel
type Publisher interface {
	Publish(ctx context.Context, channel string, message []byte) error
}

type redisPublisher struct {
	client *redis.Client
}

func (p redisPublisher) Publish(ctx context.Context, channel string, message []byte) error {
	return p.client.Publish(ctx, channel, message).Err()
}

type delivery struct {
	to      entities.UserRef
	event   string
	message []byte
}

// RedisNotifier delivers lifecycle events over Redis pub/sub from a single
// background worker, in the order they were raised. Messages published while
// nobody listens are dropped, and so are events raised while the queue is full.
type RedisNotifier struct {
	publisher Publisher
	logger    *zap.Logger
	now       func() time.Time

	mu     sync.RWMutex
	closed bool
	queue  chan delivery
	done   chan struct{}
}

var _ ports.Notifier = (*RedisNotifier)(nil)

// NewRedisNotifier creates a notifier publishing through the given Redis client
func NewRedisNotifier(client *redis.Client, logger *zap.Logger) *RedisNotifier {
	return NewNotifier(redisPublisher{client: client}, logger)
}

// NewNotifier creates a notifier on top of any publisher.
// Close must be called to flush queued events.
func NewNotifier(publisher Publisher, logger *zap.Logger) *RedisNotifier {
	return newNotifier(publisher, logger, queueSize)
}

func newNotifier(publisher Publisher, logger *zap.Logger, size int) *RedisNotifier {
	n := &RedisNotifier{
		publisher: publisher,
		logger:    logger,
		now:       func() time.Time { return time.Now().UTC() },
		queue:     make(chan delivery, size),
		done:      make(chan struct{}),
	}
	go n.run()
	return n
}

// Close stops accepting events and waits until the queued ones are published
func (n *RedisNotifier) Close() {
	n.mu.Lock()
	if n.closed {
		n.mu.Unlock()
		<-n.done
		return
	}
	n.closed = true
	close(n.queue)
	n.mu.Unlock()
	<-n.done
}

func (n *RedisNotifier) run() {
	defer close(n.done)
	for d := range n.queue {
		n.deliver(d)
	}
}

func (n *RedisNotifier) InviteReceived(ctx context.Context, invite *entities.Invite) {
	n.publish(ctx, invite.RecipientID, ports.EventInviteReceived, invite)
}

func (n *RedisNotifier) InviteAccepted(ctx context.Context, invite *entities.Invite) {
	n.publish(ctx, invite.SenderID, ports.EventInviteAccepted, invite)
}

func (n *RedisNotifier) InviteDeclined(ctx context.Context, invite *entities.Invite) {
	n.publish(ctx, invite.SenderID, ports.EventInviteDeclined, invite)
}

func (n *RedisNotifier) InviteCancelled(ctx context.Context, invite *entities.Invite) {
	n.publish(ctx, invite.RecipientID, ports.EventInviteCancelled, invite)
}

func (n *RedisNotifier) SessionCreated(ctx context.Context, session *entities.ChatSession) {
	for _, user := range session.Participants() {
		n.publish(ctx, user, ports.EventChatSessionCreated, session)
	}
}

// publish encodes the event now, so later changes to payload are not seen, and queues it
func (n *RedisNotifier) publish(_ context.Context, to entities.UserRef, event string, payload interface{}) {
	message, err := encode(event, payload, n.now())
	if err != nil {
		n.logger.Error("notify.encode.failed", zap.String("event", event), zap.Error(err))
		return
	}

	n.mu.RLock()
	defer n.mu.RUnlock()
	if n.closed {
		n.logger.Warn("notify.dropped", zap.String("event", event), zap.String("reason", "closed"))
		return
	}
	select {
	case n.queue <- delivery{to: to, event: event, message: message}:
	default:
		n.logger.Warn("notify.dropped",
			zap.String("event", event),
			zap.String("user_id", to.String()),
			zap.String("reason", "queue_full"),
		)
	}
}

func (n *RedisNotifier) deliver(d delivery) {
	ctx, cancel := context.WithTimeout(context.Background(), publishTimeout)
	defer cancel()

	if err := n.publisher.Publish(ctx, ChannelFor(d.to), d.message); err != nil {
		n.logger.Warn("notify.publish.failed",
			zap.String("event", d.event),
			zap.String("user_id", d.to.String()),
			zap.Error(err),
		)
		return
	}
	n.logger.Debug("notify.published", zap.String("event", d.event), zap.String("user_id", d.to.String()))
}

func encode(event string, payload interface{}, at time.Time) ([]byte, error) {
	raw, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("marshal payload: %w", err)
	}
	return json.Marshal(Envelope{Event: event, Payload: raw, SentAt: at})
}

// NoopNotifier drops every event
type NoopNotifier struct{}

var _ ports.Notifier = NoopNotifier{}

func (NoopNotifier) InviteReceived(context.Context, *entities.Invite)      {}
func (NoopNotifier) InviteAccepted(context.Context, *entities.Invite)      {}
func (NoopNotifier) InviteDeclined(context.Context, *entities.Invite)      {}
func (NoopNotifier) InviteCancelled(context.Context, *entities.Invite)     {}
func (NoopNotifier) SessionCreated(context.Context, *entities.ChatSession) {}
