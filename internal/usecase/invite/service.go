package invite

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/PtKartikVashishtha/BecopyMain-sub000/internal/domain/entities"
	"github.com/PtKartikVashishtha/BecopyMain-sub000/pkg/config"
)

// Service defines the interface for the invite lifecycle use case
type Service interface {
	// Create sends a new invite from sender to recipient
	Create(ctx context.Context, input CreateInput) (*entities.Invite, error)

	// Get retrieves an invite visible to the acting user
	Get(ctx context.Context, inviteID uuid.UUID, userID entities.UserRef) (*entities.Invite, error)

	// Accept accepts a pending invite (recipient only)
	Accept(ctx context.Context, inviteID uuid.UUID, userID entities.UserRef) (*entities.Invite, error)

	// Decline declines a pending invite (recipient only)
	Decline(ctx context.Context, inviteID uuid.UUID, userID entities.UserRef) (*entities.Invite, error)

	// Cancel withdraws a pending invite (sender only)
	Cancel(ctx context.Context, inviteID uuid.UUID, userID entities.UserRef) (*entities.Invite, error)

	// SweepExpired cancels every pending invite past its deadline
	SweepExpired(ctx context.Context) (int64, error)

	// ListReceived lists invites addressed to the user
	ListReceived(ctx context.Context, userID entities.UserRef, input ListInput) (*ListOutput, error)

	// ListSent lists invites sent by the user
	ListSent(ctx context.Context, userID entities.UserRef, input ListInput) (*ListOutput, error)

	// Stats counts the user's invites per direction and status
	Stats(ctx context.Context, userID entities.UserRef) (*entities.InviteStats, error)

	// CheckEligibility reports whether sender may currently invite recipient
	CheckEligibility(ctx context.Context, senderID, recipientID entities.UserRef) (*Eligibility, error)
}

// Pagination bounds for list operations
const (
	DefaultPageSize = 20
	MaxPageSize     = 100
)

// Eligibility reasons
const (
	ReasonSelf                 = "self"
	ReasonRecipientNotFound    = "recipient_not_found"
	ReasonRecipientUnavailable = "recipient_unavailable"
	ReasonPendingInviteExists  = "pending_invite_exists"
)

// Policy holds the tunable invite rules
type Policy struct {
	Expiry                   time.Duration
	MessageMin               int
	MessageMax               int
	RequireVerifiedRecipient bool
}

// PolicyFromConfig builds a Policy from the invite configuration section
func PolicyFromConfig(cfg config.InviteConfig) Policy {
	return Policy{
		Expiry:                   cfg.Expiry,
		MessageMin:               cfg.MessageMin,
		MessageMax:               cfg.MessageMax,
		RequireVerifiedRecipient: cfg.RequireVerifiedRecipient,
	}
}

// CreateInput represents input for creating an invite
type CreateInput struct {
	SenderID    entities.UserRef
	RecipientID entities.UserRef
	Message     string
}

// ListInput represents filters and pagination for listing invites
type ListInput struct {
	Status   *entities.InviteStatus
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

// ListOutput is one page of invites
type ListOutput struct {
	Items    []*entities.Invite
	Total    int64
	Page     int
	PageSize int
}

// Eligibility is the read-only answer to "may I invite this user now?"
type Eligibility struct {
	CanSendInvite    bool
	Reason           string
	Direction        entities.InviteDirection
	ExistingInviteID *uuid.UUID
}
