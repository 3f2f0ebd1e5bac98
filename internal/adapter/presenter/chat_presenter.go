package presenter

import (
	"github.com/PtKartikVashishtha/BecopyMain-sub000/internal/adapter/dto/chat"
	"github.com/PtKartikVashishtha/BecopyMain-sub000/internal/adapter/dto/common"
	"github.com/PtKartikVashishtha/BecopyMain-sub000/internal/domain/entities"
	chatUsecase "github.com/PtKartikVashishtha/BecopyMain-sub000/internal/usecase/chat"
)

// ToChatSessionResponse converts a ChatSession entity as seen by viewer
func ToChatSessionResponse(s *entities.ChatSession, viewer entities.UserRef) *chat.ChatSessionResponse {
	if s == nil {
		return nil
	}

	response := &chat.ChatSessionResponse{
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
	}

	switch viewer {
	case s.ParticipantA:
		response.CounterpartID = s.ParticipantB.String()
	case s.ParticipantB:
		response.CounterpartID = s.ParticipantA.String()
	}

	if s.LastMessagePreview != nil && s.LastMessageAt != nil {
		last := &chat.LastMessageResponse{Preview: *s.LastMessagePreview, At: *s.LastMessageAt}
		if s.LastMessageSenderID != nil {
			last.SenderID = s.LastMessageSenderID.String()
		}
		response.LastMessage = last
	}
	if s.BlockedBy != nil {
		by := s.BlockedBy.String()
		response.BlockedBy = &by
	}
	return response
}

// ToChatSessionListResponse converts a page of sessions
func ToChatSessionListResponse(out *chatUsecase.ListOutput, viewer entities.UserRef) *chat.ChatSessionListResponse {
	items := make([]*chat.ChatSessionResponse, len(out.Items))
	for i, s := range out.Items {
		items[i] = ToChatSessionResponse(s, viewer)
	}
	return &chat.ChatSessionListResponse{
		Sessions:   items,
		Pagination: common.NewPagination(out.Total, out.Page, out.PageSize),
	}
}

// ToSessionTokenResponse converts an issued token
func ToSessionTokenResponse(t *chatUsecase.SessionToken) *chat.SessionTokenResponse {
	return &chat.SessionTokenResponse{
		Token:           t.Token,
		Provider:        t.Provider,
		ConversationRef: t.ConversationRef,
		ExpiresAt:       t.ExpiresAt,
	}
}
