package chat

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/PtKartikVashishtha/BecopyMain-sub000/internal/domain/entities"
)

// Service defines the interface for the chat session use case
type Service interface {
	// ProvisionFromAcceptedInvite creates, or returns the existing, chat session for an accepted invite
	ProvisionFromAcceptedInvite(ctx context.Context, inviteID uuid.UUID, userID entities.UserRef) (*ProvisionOutput, error)

	// ProvisionPending provisions sessions for accepted invites that do not have one yet
	ProvisionPending(ctx context.Context) (int, error)

	// UpdateActivity records an inbound message event from the chat provider
	UpdateActivity(ctx context.Context, input ActivityInput) error

	// Archive moves an active session to archived
	Archive(ctx context.Context, sessionID uuid.UUID, userID entities.UserRef) (*entities.ChatSession, error)

	// Block moves an active session to blocked
	Block(ctx context.Context, sessionID uuid.UUID, userID entities.UserRef) (*entities.ChatSession, error)

	// Get retrieves a session visible to the user
	Get(ctx context.Context, sessionID uuid.UUID, userID entities.UserRef) (*entities.ChatSession, error)

	// List lists the user's sessions, most recently active first
	List(ctx context.Context, userID entities.UserRef, input ListInput) (*ListOutput, error)

	// IssueSessionToken issues a provider client token for an active session
	IssueSessionToken(ctx context.Context, sessionID uuid.UUID, userID entities.UserRef) (*SessionToken, error)
}

// Pagination bounds for listing sessions
const (
	DefaultPageSize = 20
	MaxPageSize     = 100
)

// ProvisionOutput is the result of provisioning
type ProvisionOutput struct {
	Session *entities.ChatSession
	Created bool
}

// ActivityInput is one message event delivered by the provider
type ActivityInput struct {
	ConversationRef string
	MessageText     string
	SenderID        *entities.UserRef
	At              time.Time
}

// ListInput represents filters and pagination for listing sessions
type ListInput struct {
	Status   *entities.ChatSessionStatus
	Page     int
	PageSize int
}

func (in ListInput) normalize() (page, size int) {
	page, size = in.Page, in.PageSize
	if page < 1 {
		page = 1
	}
	if size < 1 {
		size = DefaultPageSize
	}
	if size > MaxPageSize {
		size = MaxPageSize
	}
	return page, size
}

// ListOutput is one page of sessions
type ListOutput struct {
	Items    []*entities.ChatSession
	Total    int64
	Page     int
	PageSize int
}

// SessionToken is a client credential for the chat provider
type SessionToken struct {
	Token           string
	Provider        string
	ConversationRef string
	ExpiresAt       time.Time
}
