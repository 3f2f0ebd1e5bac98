package invite

import (
	"time"

	"github.com/PtKartikVashishtha/BecopyMain-sub000/internal/adapter/dto/chat"
	"github.com/PtKartikVashishtha/BecopyMain-sub000/internal/adapter/dto/common"
)

// InviteResponse represents an invite as seen by one of its parties
type InviteResponse struct {
	ID          string     `json:"id"`
	SenderID    string     `json:"sender_id"`
	RecipientID string     `json:"recipient_id"`
	Direction   string     `json:"direction,omitempty"`
	Message     string     `json:"message"`
	Status      string     `json:"status"`
	CreatedAt   time.Time  `json:"created_at"`
	ExpiresAt   time.Time  `json:"expires_at"`
	AcceptedAt  *time.Time `json:"accepted_at,omitempty"`
	DeclinedAt  *time.Time `json:"declined_at,omitempty"`
	CancelledAt *time.Time `json:"cancelled_at,omitempty"`
}

// InviteListResponse represents a page of invites
type InviteListResponse struct {
	Invites    []*InviteResponse          `json:"invites"`
	Pagination *common.PaginationResponse `json:"pagination"`
}

// AcceptInviteResponse is the accepted invite plus the chat session when it was provisioned
type AcceptInviteResponse struct {
	Invite      *InviteResponse           `json:"invite"`
	ChatSession *chat.ChatSessionResponse `json:"chat_session,omitempty"`
}

// StatusCountsResponse counts invites per status
type StatusCountsResponse struct {
	Pending   int64 `json:"pending"`
	Accepted  int64 `json:"accepted"`
	Declined  int64 `json:"declined"`
	Cancelled int64 `json:"cancelled"`
}

// InviteStatsResponse represents invite counts in both directions
type InviteStatsResponse struct {
	Received StatusCountsResponse `json:"received"`
	Sent     StatusCountsResponse `json:"sent"`
}

// EligibilityResponse answers whether the caller may invite a user
type EligibilityResponse struct {
	CanSendInvite    bool    `json:"can_send_invite"`
	Reason           string  `json:"reason,omitempty"`
	Direction        string  `json:"direction,omitempty"`
	ExistingInviteID *string `json:"existing_invite_id,omitempty"`
}
