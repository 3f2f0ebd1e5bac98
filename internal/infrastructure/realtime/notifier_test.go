package realtime

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/PtKartikVashishtha/BecopyMain-sub000/internal/domain/entities"
	"github.com/PtKartikVashishtha/BecopyMain-sub000/internal/domain/ports"
)

type published struct {
	channel string
	message []byte
}

type fakePublisher struct {
	mu   sync.Mutex
	msgs []published
	err  error
	// when set, every publish waits for it to close
	hold chan struct{}
	// receives once per publish that has started, if set
	entered chan struct{}
}

func (p *fakePublisher) Publish(ctx context.Context, channel string, message []byte) error {
	if p.entered != nil {
		select {
		case p.entered <- struct{}{}:
		default:
		}
	}
	if p.hold != nil {
		select {
		case <-p.hold:
		case <-ctx.Done():
			return ctx.Err()
		}
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.err != nil {
		return p.err
	}
	p.msgs = append(p.msgs, published{channel: channel, message: message})
	return nil
}

func (p *fakePublisher) sent() []published {
	p.mu.Lock()
	defer p.mu.Unlock()
	return append([]published(nil), p.msgs...)
}

func newInvite(t *testing.T) *entities.Invite {
	t.Helper()
	now := time.Date(2025, 3, 1, 9, 0, 0, 0, time.UTC)
	invite, err := entities.NewInvite(
		entities.UserRefFromUUID(uuid.New()),
		entities.UserRefFromUUID(uuid.New()),
		"let's build something",
		now,
		7*24*time.Hour,
	)
	if err != nil {
		t.Fatalf("NewInvite() error = %v", err)
	}
	invite.ID = uuid.New()
	return invite
}

func TestNotifierRoutesEventsToTheOtherParty(t *testing.T) {
	pub := &fakePublisher{}
	n := NewNotifier(pub, zap.NewNop())
	invite := newInvite(t)
	ctx := context.Background()

	n.InviteReceived(ctx, invite)
	n.InviteAccepted(ctx, invite)
	n.InviteDeclined(ctx, invite)
	n.InviteCancelled(ctx, invite)
	n.Close()
	msgs := pub.sent()

	want := []struct {
		channel string
		event   string
	}{
		{ChannelFor(invite.RecipientID), ports.EventInviteReceived},
		{ChannelFor(invite.SenderID), ports.EventInviteAccepted},
		{ChannelFor(invite.SenderID), ports.EventInviteDeclined},
		{ChannelFor(invite.RecipientID), ports.EventInviteCancelled},
	}
	if len(msgs) != len(want) {
		t.Fatalf("published %d messages, want %d", len(msgs), len(want))
	}
	for i, w := range want {
		if msgs[i].channel != w.channel {
			t.Errorf("message %d channel = %s, want %s", i, msgs[i].channel, w.channel)
		}
		var env Envelope
		if err := json.Unmarshal(msgs[i].message, &env); err != nil {
			t.Fatalf("message %d is not an envelope: %v", i, err)
		}
		if env.Event != w.event {
			t.Errorf("message %d event = %s, want %s", i, env.Event, w.event)
		}
		var payload map[string]interface{}
		if err := json.Unmarshal(env.Payload, &payload); err != nil {
			t.Fatalf("payload: %v", err)
		}
		if payload["id"] != invite.ID.String() {
			t.Errorf("payload id = %v, want %s", payload["id"], invite.ID)
		}
	}
}

func TestNotifierSessionCreatedReachesBothParticipants(t *testing.T) {
	pub := &fakePublisher{}
	n := NewNotifier(pub, zap.NewNop())
	invite := newInvite(t)
	invite.ApplyTransition(entities.InviteStatusAccepted, invite.CreatedAt.Add(time.Hour))
	session := entities.NewChatSession(invite, "mock", invite.CreatedAt.Add(time.Hour))

	n.SessionCreated(context.Background(), session)
	n.Close()
	msgs := pub.sent()

	if len(msgs) != 2 {
		t.Fatalf("published %d messages, want 2", len(msgs))
	}
	got := map[string]bool{msgs[0].channel: true, msgs[1].channel: true}
	if !got[ChannelFor(invite.SenderID)] || !got[ChannelFor(invite.RecipientID)] {
		t.Errorf("channels = %v", got)
	}
}

func TestNotifierSwallowsPublishErrors(t *testing.T) {
	pub := &fakePublisher{err: errors.New("redis down")}
	n := NewNotifier(pub, zap.NewNop())

	// must not panic or block
	n.InviteReceived(context.Background(), newInvite(t))
	n.Close()
	if len(pub.sent()) != 0 {
		t.Error("failed publish recorded a message")
	}
}

func TestNotifierDetachesFromCancelledRequest(t *testing.T) {
	pub := &fakePublisher{}
	n := NewNotifier(pub, zap.NewNop())
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	n.InviteReceived(ctx, newInvite(t))
	n.Close()
	if got := len(pub.sent()); got != 1 {
		t.Errorf("published %d messages after request cancellation, want 1", got)
	}
}

func TestNotifierDoesNotWaitForSlowPublisher(t *testing.T) {
	pub := &fakePublisher{hold: make(chan struct{})}
	n := NewNotifier(pub, zap.NewNop())
	invite := newInvite(t)

	returned := make(chan struct{})
	go func() {
		n.InviteReceived(context.Background(), invite)
		n.InviteAccepted(context.Background(), invite)
		close(returned)
	}()
	select {
	case <-returned:
	case <-time.After(time.Second):
		t.Fatal("raising events waited on the publisher")
	}

	close(pub.hold)
	n.Close()
	if got := len(pub.sent()); got != 2 {
		t.Errorf("published %d messages, want 2", got)
	}
}

func TestNotifierDropsWhenQueueIsFull(t *testing.T) {
	pub := &fakePublisher{hold: make(chan struct{}), entered: make(chan struct{}, 8)}
	n := newNotifier(pub, zap.NewNop(), 1)
	invite := newInvite(t)

	n.InviteReceived(context.Background(), invite)
	<-pub.entered
	// one event in flight, one queued, the rest dropped
	for i := 0; i < 4; i++ {
		n.InviteReceived(context.Background(), invite)
	}

	close(pub.hold)
	n.Close()
	if got := len(pub.sent()); got != 2 {
		t.Errorf("published %d messages, want 2", got)
	}
}

func TestNotifierAfterClose(t *testing.T) {
	pub := &fakePublisher{}
	n := NewNotifier(pub, zap.NewNop())
	n.Close()

	n.InviteReceived(context.Background(), newInvite(t))
	n.Close()
	if got := len(pub.sent()); got != 0 {
		t.Errorf("published %d messages after close, want 0", got)
	}
}
