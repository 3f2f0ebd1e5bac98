package entities

import (
	"time"
	"unicode/utf8"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// ChatSessionStatus represents the current status of a chat session
type ChatSessionStatus string

const (
	ChatSessionStatusActive   ChatSessionStatus = "active"
	ChatSessionStatusArchived ChatSessionStatus = "archived"
	ChatSessionStatusBlocked  ChatSessionStatus = "blocked"
)

// IsValid checks if the chat session status is valid
func (s ChatSessionStatus) IsValid() bool {
	switch s {
	case ChatSessionStatusActive, ChatSessionStatusArchived, ChatSessionStatusBlocked:
		return true
	}
	return false
}

// MaxPreviewLength is the number of characters kept from the latest message
const MaxPreviewLength = 100

// ChatSession is the durable record of a one-to-one conversation opened by an accepted invite
type ChatSession struct {
	ID                  uuid.UUID         `json:"id" gorm:"type:uuid;primaryKey"`
	InviteID            uuid.UUID         `json:"invite_id" gorm:"type:uuid;not null;uniqueIndex:ux_chat_sessions_invite"`
	ParticipantA        UserRef           `json:"participant_a" gorm:"column:participant_a;type:uuid;not null;index"`
	ParticipantB        UserRef           `json:"participant_b" gorm:"column:participant_b;type:uuid;not null;index"`
	ConversationRef     string            `json:"conversation_ref" gorm:"type:varchar(100);not null;uniqueIndex:ux_chat_sessions_conversation"`
	Provider            string            `json:"provider" gorm:"type:varchar(20);not null"`
	Status              ChatSessionStatus `json:"status" gorm:"type:varchar(20);not null;default:'active';index"`
	LastActivity        time.Time         `json:"last_activity" gorm:"not null;index"`
	LastMessagePreview  *string           `json:"last_message_preview,omitempty" gorm:"type:varchar(400)"`
	LastMessageSenderID *UserRef          `json:"last_message_sender_id,omitempty" gorm:"type:uuid"`
	LastMessageAt       *time.Time        `json:"last_message_at,omitempty"`
	MessageCount        int64             `json:"message_count" gorm:"not null;default:0"`
	ArchivedAt          *time.Time        `json:"archived_at,omitempty"`
	BlockedAt           *time.Time        `json:"blocked_at,omitempty"`
	BlockedBy           *UserRef          `json:"blocked_by,omitempty" gorm:"type:uuid"`
	Metadata            datatypes.JSON    `json:"metadata,omitempty"`
	CreatedAt           time.Time         `json:"created_at"`
	UpdatedAt           time.Time         `json:"updated_at"`
}

// TableName specifies the table name for ChatSession
func (ChatSession) TableName() string {
	return "chat_sessions"
}

// BeforeCreate assigns an id when the caller did not
func (s *ChatSession) BeforeCreate(tx *gorm.DB) error {
	if s.ID == uuid.Nil {
		s.ID = uuid.New()
	}
	return nil
}

// ConversationRefFor derives the provider conversation id from the invite id
func ConversationRefFor(inviteID uuid.UUID) string {
	return "chat_" + inviteID.String()
}

// NewChatSession creates an active session for an accepted invite
func NewChatSession(invite *Invite, provider string, now time.Time) *ChatSession {
	return &ChatSession{
		ID:              uuid.New(),
		InviteID:        invite.ID,
		ParticipantA:    invite.SenderID,
		ParticipantB:    invite.RecipientID,
		ConversationRef: ConversationRefFor(invite.ID),
		Provider:        provider,
		Status:          ChatSessionStatusActive,
		LastActivity:    now,
		CreatedAt:       now,
		UpdatedAt:       now,
	}
}

// Participants returns both participants, sender first
func (s *ChatSession) Participants() []UserRef {
	return []UserRef{s.ParticipantA, s.ParticipantB}
}

// HasParticipant checks if the user takes part in the session
func (s *ChatSession) HasParticipant(user UserRef) bool {
	return s.ParticipantA == user || s.ParticipantB == user
}

// IsActive checks if the session still accepts messages
func (s *ChatSession) IsActive() bool {
	return s.Status == ChatSessionStatusActive
}

// TruncatePreview keeps at most MaxPreviewLength characters of a message
func TruncatePreview(text string) string {
	if utf8.RuneCountInString(text) <= MaxPreviewLength {
		return text
	}
	runes := []rune(text)
	return string(runes[:MaxPreviewLength])
}
