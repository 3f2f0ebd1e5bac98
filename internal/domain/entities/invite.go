package entities

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// InviteStatus represents the lifecycle state of an invite
type InviteStatus string

const (
	InviteStatusPending   InviteStatus = "pending"
	InviteStatusAccepted  InviteStatus = "accepted"
	InviteStatusDeclined  InviteStatus = "declined"
	InviteStatusCancelled InviteStatus = "cancelled"
)

// IsValid checks if the invite status is valid
func (s InviteStatus) IsValid() bool {
	switch s {
	case InviteStatusPending, InviteStatusAccepted, InviteStatusDeclined, InviteStatusCancelled:
		return true
	}
	return false
}

// IsTerminal reports whether no further transition is possible
func (s InviteStatus) IsTerminal() bool {
	return s == InviteStatusAccepted || s == InviteStatusDeclined || s == InviteStatusCancelled
}

// InviteDirection tells which side of an invite a user is on
type InviteDirection string

const (
	DirectionSent     InviteDirection = "sent"
	DirectionReceived InviteDirection = "received"
)

// Invite is a proposal from one user to another to open a one-to-one chat
type Invite struct {
	ID          uuid.UUID    `json:"id" gorm:"type:uuid;primaryKey"`
	SenderID    UserRef      `json:"sender_id" gorm:"type:uuid;not null;index"`
	RecipientID UserRef      `json:"recipient_id" gorm:"type:uuid;not null;index"`
	PairLow     string       `json:"-" gorm:"column:pair_low;type:varchar(36);not null;uniqueIndex:ux_invites_pending_pair,priority:1,where:status = 'pending'"`
	PairHigh    string       `json:"-" gorm:"column:pair_high;type:varchar(36);not null;uniqueIndex:ux_invites_pending_pair,priority:2,where:status = 'pending'"`
	Message     string       `json:"message" gorm:"type:text;not null"`
	Status      InviteStatus `json:"status" gorm:"type:varchar(20);not null;default:'pending';index"`
	CreatedAt   time.Time    `json:"created_at" gorm:"not null;index"`
	ExpiresAt   time.Time    `json:"expires_at" gorm:"not null;index"`
	AcceptedAt  *time.Time   `json:"accepted_at,omitempty"`
	DeclinedAt  *time.Time   `json:"declined_at,omitempty"`
	CancelledAt *time.Time   `json:"cancelled_at,omitempty"`
	UpdatedAt   time.Time    `json:"updated_at"`

	// Background provisioning bookkeeping for accepted invites
	ProvisionAttempts int        `json:"-" gorm:"not null;default:0"`
	ProvisionRetryAt  *time.Time `json:"-" gorm:"index"`
}

// TableName specifies the table name for Invite
func (Invite) TableName() string {
	return "invites"
}

// BeforeCreate fills the id and the unordered pair key
func (i *Invite) BeforeCreate(tx *gorm.DB) error {
	if i.ID == uuid.Nil {
		i.ID = uuid.New()
	}
	i.PairLow, i.PairHigh = PairKey(i.SenderID, i.RecipientID)
	return nil
}

// NewInvite creates a pending invite expiring ttl after now
func NewInvite(senderID, recipientID UserRef, message string, now time.Time, ttl time.Duration) (*Invite, error) {
	if senderID == recipientID {
		return nil, ErrSelfInvite
	}
	low, high := PairKey(senderID, recipientID)
	return &Invite{
		ID:          uuid.New(),
		SenderID:    senderID,
		RecipientID: recipientID,
		PairLow:     low,
		PairHigh:    high,
		Message:     message,
		Status:      InviteStatusPending,
		CreatedAt:   now,
		ExpiresAt:   now.Add(ttl),
		UpdatedAt:   now,
	}, nil
}

// PairKey orders two user references so the pair is direction independent
func PairKey(a, b UserRef) (string, string) {
	as, bs := a.String(), b.String()
	if as <= bs {
		return as, bs
	}
	return bs, as
}

// IsExpired reports whether a pending invite has passed its deadline
func (i *Invite) IsExpired(now time.Time) bool {
	return i.Status == InviteStatusPending && now.After(i.ExpiresAt)
}

// EffectiveStatus folds lazy expiry into the stored status
func (i *Invite) EffectiveStatus(now time.Time) InviteStatus {
	if i.IsExpired(now) {
		return InviteStatusCancelled
	}
	return i.Status
}

// IsParty reports whether the user is the sender or the recipient
func (i *Invite) IsParty(user UserRef) bool {
	return i.SenderID == user || i.RecipientID == user
}

// DirectionFor returns the invite direction from the user's point of view
func (i *Invite) DirectionFor(user UserRef) InviteDirection {
	if i.SenderID == user {
		return DirectionSent
	}
	return DirectionReceived
}

// Counterpart returns the other party of the invite
func (i *Invite) Counterpart(user UserRef) UserRef {
	if i.SenderID == user {
		return i.RecipientID
	}
	return i.SenderID
}

// ApplyTransition mirrors a committed transition on the in-memory copy
func (i *Invite) ApplyTransition(to InviteStatus, at time.Time) {
	i.Status = to
	i.UpdatedAt = at
	switch to {
	case InviteStatusAccepted:
		i.AcceptedAt = &at
	case InviteStatusDeclined:
		i.DeclinedAt = &at
	case InviteStatusCancelled:
		i.CancelledAt = &at
	}
}

// InviteStatusCounts counts invites per status for one direction
type InviteStatusCounts struct {
	Pending   int64 `json:"pending"`
	Accepted  int64 `json:"accepted"`
	Declined  int64 `json:"declined"`
	Cancelled int64 `json:"cancelled"`
}

// Add increments the counter for a status
func (c *InviteStatusCounts) Add(status InviteStatus, n int64) {
	switch status {
	case InviteStatusPending:
		c.Pending += n
	case InviteStatusAccepted:
		c.Accepted += n
	case InviteStatusDeclined:
		c.Declined += n
	case InviteStatusCancelled:
		c.Cancelled += n
	}
}

// InviteStats groups invite counts by direction
type InviteStats struct {
	Received InviteStatusCounts `json:"received"`
	Sent     InviteStatusCounts `json:"sent"`
}
