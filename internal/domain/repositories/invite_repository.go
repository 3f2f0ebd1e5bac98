package repositories

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/PtKartikVashishtha/BecopyMain-sub000/internal/domain/entities"
)

// InviteRepository defines the interface for invite data access.
// Every status change is a conditional write on the current status.
type InviteRepository interface {
	// Create inserts a pending invite. Returns ErrDuplicatePending when the pair already has one.
	Create(ctx context.Context, invite *entities.Invite) error

	// FindByID retrieves an invite by its ID
	FindByID(ctx context.Context, id uuid.UUID) (*entities.Invite, error)

	// FindPendingBetween retrieves the pending invite between two users in either direction
	FindPendingBetween(ctx context.Context, a, b entities.UserRef) (*entities.Invite, error)

	// Transition moves an invite from one status to another if it is still in `from`
	Transition(ctx context.Context, id uuid.UUID, from, to entities.InviteStatus, at time.Time) (bool, error)

	// TransitionIfLive moves a pending invite to `to` only if it has not expired at `now`
	TransitionIfLive(ctx context.Context, id uuid.UUID, to entities.InviteStatus, at, now time.Time) (bool, error)

	// CancelExpired cancels every pending invite whose deadline passed before now
	CancelExpired(ctx context.Context, now time.Time, scope ExpiryScope) (int64, error)

	// List retrieves invites with filters and pagination, newest first
	List(ctx context.Context, filters InviteFilters) ([]*entities.Invite, int64, error)

	// CountByStatus counts a user's invites per direction and status
	CountByStatus(ctx context.Context, user entities.UserRef) (*entities.InviteStats, error)

	// FindAcceptedWithoutSession retrieves accepted invites that have no chat session yet
	// and are due for a provisioning attempt at now. Invites never attempted come first
	// by acceptance time; failed ones queue behind by their retry time.
	FindAcceptedWithoutSession(ctx context.Context, now time.Time, limit int) ([]*entities.Invite, error)

	// RecordProvisionFailure counts a failed provisioning attempt and defers the next one to retryAt
	RecordProvisionFailure(ctx context.Context, id uuid.UUID, retryAt time.Time) error
}

// InviteFilters represents filter options for listing invites
type InviteFilters struct {
	SenderID    *entities.UserRef
	RecipientID *entities.UserRef
	Status      *entities.InviteStatus
	Limit       int
	Offset      int
}

// ExpiryScope narrows an expiry sweep. The zero value sweeps everything.
type ExpiryScope struct {
	User        *entities.UserRef // invites where the user is either party
	Counterpart *entities.UserRef // with User set, restricts to the pair
}
