package ports

import (
	"context"

	"github.com/PtKartikVashishtha/BecopyMain-sub000/internal/domain/entities"
)

// Event names delivered on a user's realtime channel
const (
	EventInviteReceived     = "invite-received"
	EventInviteAccepted     = "invite-accepted"
	EventInviteDeclined     = "invite-declined"
	EventInviteCancelled    = "invite-cancelled"
	EventChatSessionCreated = "chat-session-created"
)

// Notifier delivers lifecycle events to the party that did not cause them.
// Calls are made only after the transition is committed. Delivery is best-effort:
// implementations log failures and never return them.
type Notifier interface {
	// InviteReceived notifies the recipient of a new invite
	InviteReceived(ctx context.Context, invite *entities.Invite)

	// InviteAccepted notifies the sender that the recipient accepted
	InviteAccepted(ctx context.Context, invite *entities.Invite)

	// InviteDeclined notifies the sender that the recipient declined
	InviteDeclined(ctx context.Context, invite *entities.Invite)

	// InviteCancelled notifies the recipient that the sender withdrew the invite
	InviteCancelled(ctx context.Context, invite *entities.Invite)

	// SessionCreated notifies both participants that their chat is ready
	SessionCreated(ctx context.Context, session *entities.ChatSession)
}
