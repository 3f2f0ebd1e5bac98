// Package mongostore implements the repository ports on MongoDB. Conditional
// updates filter on the current status, which gives the same compare-and-swap
// semantics as the SQL implementation.
package mongostore

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"gorm.io/datatypes"

	"github.com/PtKartikVashishtha/BecopyMain-sub000/internal/domain/entities"
)

type userDoc struct {
	ID              string    `bson:"_id"`
	Name            string    `bson:"name"`
	Email           string    `bson:"email"`
	UserType        string    `bson:"user_type"`
	Country         string    `bson:"country,omitempty"`
	IsActive        bool      `bson:"is_active"`
	IsDeleted       bool      `bson:"is_deleted"`
	IsEmailVerified bool      `bson:"is_email_verified"`
	CreatedAt       time.Time `bson:"created_at"`
	UpdatedAt       time.Time `bson:"updated_at"`
}

func (d *userDoc) toEntity() (*entities.DirectoryUser, error) {
	ref, err := entities.ParseUserRef(d.ID)
	if err != nil {
		return nil, err
	}
	return &entities.DirectoryUser{
		ID:              ref,
		Name:            d.Name,
		Email:           d.Email,
		UserType:        d.UserType,
		Country:         d.Country,
		IsActive:        d.IsActive,
		IsDeleted:       d.IsDeleted,
		IsEmailVerified: d.IsEmailVerified,
		CreatedAt:       d.CreatedAt,
		UpdatedAt:       d.UpdatedAt,
	}, nil
}

func newUserDoc(u *entities.DirectoryUser) *userDoc {
	return &userDoc{
		ID:              u.ID.String(),
		Name:            u.Name,
		Email:           u.Email,
		UserType:        u.UserType,
		Country:         u.Country,
		IsActive:        u.IsActive,
		IsDeleted:       u.IsDeleted,
		IsEmailVerified: u.IsEmailVerified,
		CreatedAt:       u.CreatedAt,
		UpdatedAt:       u.UpdatedAt,
	}
}

type inviteDoc struct {
	ID          string     `bson:"_id"`
	SenderID    string     `bson:"sender_id"`
	RecipientID string     `bson:"recipient_id"`
	PairLow     string     `bson:"pair_low"`
	PairHigh    string     `bson:"pair_high"`
	Message     string     `bson:"message"`
	Status      string     `bson:"status"`
	CreatedAt   time.Time  `bson:"created_at"`
	ExpiresAt   time.Time  `bson:"expires_at"`
	AcceptedAt  *time.Time `bson:"accepted_at,omitempty"`
	DeclinedAt  *time.Time `bson:"declined_at,omitempty"`
	CancelledAt *time.Time `bson:"cancelled_at,omitempty"`
	UpdatedAt   time.Time  `bson:"updated_at"`

	ProvisionAttempts int        `bson:"provision_attempts,omitempty"`
	ProvisionRetryAt  *time.Time `bson:"provision_retry_at,omitempty"`
}

func newInviteDoc(i *entities.Invite) *inviteDoc {
	low, high := entities.PairKey(i.SenderID, i.RecipientID)
	return &inviteDoc{
		ID:          i.ID.String(),
		SenderID:    i.SenderID.String(),
		RecipientID: i.RecipientID.String(),
		PairLow:     low,
		PairHigh:    high,
		Message:     i.Message,
		Status:      string(i.Status),
		CreatedAt:   i.CreatedAt,
		ExpiresAt:   i.ExpiresAt,
		AcceptedAt:  i.AcceptedAt,
		DeclinedAt:  i.DeclinedAt,
		CancelledAt: i.CancelledAt,
		UpdatedAt:   i.UpdatedAt,

		ProvisionAttempts: i.ProvisionAttempts,
		ProvisionRetryAt:  i.ProvisionRetryAt,
	}
}

func (d *inviteDoc) toEntity() (*entities.Invite, error) {
	id, err := uuid.Parse(d.ID)
	if err != nil {
		return nil, fmt.Errorf("invalid invite id %q: %w", d.ID, err)
	}
	sender, err := entities.ParseUserRef(d.SenderID)
	if err != nil {
		return nil, err
	}
	recipient, err := entities.ParseUserRef(d.RecipientID)
	if err != nil {
		return nil, err
	}
	return &entities.Invite{
		ID:          id,
		SenderID:    sender,
		RecipientID: recipient,
		PairLow:     d.PairLow,
		PairHigh:    d.PairHigh,
		Message:     d.Message,
		Status:      entities.InviteStatus(d.Status),
		CreatedAt:   d.CreatedAt,
		ExpiresAt:   d.ExpiresAt,
		AcceptedAt:  d.AcceptedAt,
		DeclinedAt:  d.DeclinedAt,
		CancelledAt: d.CancelledAt,
		UpdatedAt:   d.UpdatedAt,

		ProvisionAttempts: d.ProvisionAttempts,
		ProvisionRetryAt:  d.ProvisionRetryAt,
	}, nil
}

type lastMessageDoc struct {
	Preview  string    `bson:"preview"`
	SenderID string    `bson:"sender_id,omitempty"`
	At       time.Time `bson:"at"`
}

type chatSessionDoc struct {
	ID              string          `bson:"_id"`
	InviteID        string          `bson:"invite_id"`
	Participants    []string        `bson:"participants"`
	ConversationRef string          `bson:"conversation_ref"`
	Provider        string          `bson:"provider"`
	Status          string          `bson:"status"`
	LastActivity    time.Time       `bson:"last_activity"`
	LastMessage     *lastMessageDoc `bson:"last_message,omitempty"`
	MessageCount    int64           `bson:"message_count"`
	ArchivedAt      *time.Time      `bson:"archived_at,omitempty"`
	BlockedAt       *time.Time      `bson:"blocked_at,omitempty"`
	BlockedBy       string          `bson:"blocked_by,omitempty"`
	Metadata        bson.M          `bson:"metadata,omitempty"`
	CreatedAt       time.Time       `bson:"created_at"`
	UpdatedAt       time.Time       `bson:"updated_at"`
}

func newChatSessionDoc(s *entities.ChatSession) *chatSessionDoc {
	doc := &chatSessionDoc{
		ID:              s.ID.String(),
		InviteID:        s.InviteID.String(),
		Participants:    []string{s.ParticipantA.String(), s.ParticipantB.String()},
		ConversationRef: s.ConversationRef,
		Provider:        s.Provider,
		Status:          string(s.Status),
		LastActivity:    s.LastActivity,
		MessageCount:    s.MessageCount,
		ArchivedAt:      s.ArchivedAt,
		BlockedAt:       s.BlockedAt,
		CreatedAt:       s.CreatedAt,
		UpdatedAt:       s.UpdatedAt,
	}
	if s.BlockedBy != nil {
		doc.BlockedBy = s.BlockedBy.String()
	}
	if len(s.Metadata) > 0 {
		var meta bson.M
		if err := json.Unmarshal(s.Metadata, &meta); err == nil {
			doc.Metadata = meta
		}
	}
	return doc
}

func (d *chatSessionDoc) toEntity() (*entities.ChatSession, error) {
	id, err := uuid.Parse(d.ID)
	if err != nil {
		return nil, fmt.Errorf("invalid chat session id %q: %w", d.ID, err)
	}
	inviteID, err := uuid.Parse(d.InviteID)
	if err != nil {
		return nil, fmt.Errorf("invalid invite id %q: %w", d.InviteID, err)
	}
	if len(d.Participants) != 2 {
		return nil, fmt.Errorf("chat session %s has %d participants", d.ID, len(d.Participants))
	}
	a, err := entities.ParseUserRef(d.Participants[0])
	if err != nil {
		return nil, err
	}
	b, err := entities.ParseUserRef(d.Participants[1])
	if err != nil {
		return nil, err
	}

	s := &entities.ChatSession{
		ID:              id,
		InviteID:        inviteID,
		ParticipantA:    a,
		ParticipantB:    b,
		ConversationRef: d.ConversationRef,
		Provider:        d.Provider,
		Status:          entities.ChatSessionStatus(d.Status),
		LastActivity:    d.LastActivity,
		MessageCount:    d.MessageCount,
		ArchivedAt:      d.ArchivedAt,
		BlockedAt:       d.BlockedAt,
		CreatedAt:       d.CreatedAt,
		UpdatedAt:       d.UpdatedAt,
	}
	if d.LastMessage != nil {
		preview, at := d.LastMessage.Preview, d.LastMessage.At
		s.LastMessagePreview = &preview
		s.LastMessageAt = &at
		if sender, err := entities.ParseUserRef(d.LastMessage.SenderID); err == nil {
			s.LastMessageSenderID = &sender
		}
	}
	if blocker, err := entities.ParseUserRef(d.BlockedBy); err == nil {
		s.BlockedBy = &blocker
	}
	if d.Metadata != nil {
		if raw, err := json.Marshal(d.Metadata); err == nil {
			s.Metadata = datatypes.JSON(raw)
		}
	}
	return s, nil
}
