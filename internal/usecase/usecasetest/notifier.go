package usecasetest

import (
	"context"
	"sync"

	"github.com/google/uuid"

	"github.com/PtKartikVashishtha/BecopyMain-sub000/internal/domain/entities"
	"github.com/PtKartikVashishtha/BecopyMain-sub000/internal/domain/ports"
)

// Event is one recorded notification
type Event struct {
	Name     string
	To       entities.UserRef
	EntityID uuid.UUID
}

// RecordingNotifier records every notification in call order
type RecordingNotifier struct {
	mu     sync.Mutex
	events []Event
}

var _ ports.Notifier = (*RecordingNotifier)(nil)

// Events returns a copy of the recorded events
func (n *RecordingNotifier) Events() []Event {
	n.mu.Lock()
	defer n.mu.Unlock()
	return append([]Event(nil), n.events...)
}

func (n *RecordingNotifier) record(name string, to entities.UserRef, id uuid.UUID) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.events = append(n.events, Event{Name: name, To: to, EntityID: id})
}

func (n *RecordingNotifier) InviteReceived(ctx context.Context, invite *entities.Invite) {
	n.record(ports.EventInviteReceived, invite.RecipientID, invite.ID)
}

func (n *RecordingNotifier) InviteAccepted(ctx context.Context, invite *entities.Invite) {
	n.record(ports.EventInviteAccepted, invite.SenderID, invite.ID)
}

func (n *RecordingNotifier) InviteDeclined(ctx context.Context, invite *entities.Invite) {
	n.record(ports.EventInviteDeclined, invite.SenderID, invite.ID)
}

func (n *RecordingNotifier) InviteCancelled(ctx context.Context, invite *entities.Invite) {
	n.record(ports.EventInviteCancelled, invite.RecipientID, invite.ID)
}

func (n *RecordingNotifier) SessionCreated(ctx context.Context, session *entities.ChatSession) {
	for _, p := range session.Participants() {
		n.record(ports.EventChatSessionCreated, p, session.ID)
	}
}
