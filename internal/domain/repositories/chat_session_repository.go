package repositories

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/PtKartikVashishtha/BecopyMain-sub000/internal/domain/entities"
)

// ChatSessionRepository defines the interface for chat session data access
type ChatSessionRepository interface {
	// Create inserts a session. Returns ErrDuplicateSession when the invite already has one.
	Create(ctx context.Context, session *entities.ChatSession) error

	// FindByID retrieves a session by its ID
	FindByID(ctx context.Context, id uuid.UUID) (*entities.ChatSession, error)

	// FindByInviteID retrieves the session produced by an invite
	FindByInviteID(ctx context.Context, inviteID uuid.UUID) (*entities.ChatSession, error)

	// RecordActivity increments the message count and stores the latest message preview
	RecordActivity(ctx context.Context, ref string, activity Activity) error

	// Transition moves a session from one status to another if it is still in `from`
	Transition(ctx context.Context, id uuid.UUID, from, to entities.ChatSessionStatus, by entities.UserRef, at time.Time) (bool, error)

	// List retrieves a participant's sessions, most recently active first
	List(ctx context.Context, filters ChatSessionFilters) ([]*entities.ChatSession, int64, error)
}

// Activity is one inbound message event applied to a session
type Activity struct {
	Preview  string
	SenderID *entities.UserRef
	At       time.Time
}

// ChatSessionFilters represents filter options for listing chat sessions
type ChatSessionFilters struct {
	Participant entities.UserRef
	Status      *entities.ChatSessionStatus
	Limit       int
	Offset      int
}
