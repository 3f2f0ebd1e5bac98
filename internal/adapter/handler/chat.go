package handler

import (
	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"github.com/PtKartikVashishtha/BecopyMain-sub000/internal/adapter/dto/chat"
	"github.com/PtKartikVashishtha/BecopyMain-sub000/internal/adapter/presenter"
	"github.com/PtKartikVashishtha/BecopyMain-sub000/internal/domain/entities"
	chatUsecase "github.com/PtKartikVashishtha/BecopyMain-sub000/internal/usecase/chat"
)

// Chat handles chat session HTTP requests
type Chat struct {
	chatService chatUsecase.Service
	logger      *zap.Logger
}

// NewChatHandler creates a new chat handler
func NewChatHandler(chatService chatUsecase.Service, logger *zap.Logger) *Chat {
	return &Chat{chatService: chatService, logger: logger}
}

// ProvisionFromInvite handles POST /chats/from-invite/:inviteId
// @Summary      Provision a chat session
// @Description  Creates the chat session for an accepted invite, or returns the existing one. Safe to retry.
// @Tags         Chats
// @Produce      json
// @Security     BearerAuth
// @Param        inviteId  path      string  true  "Invite ID"
// @Success      200       {object}  chat.ProvisionResponse
// @Failure      409       {object}  map[string]interface{}  "Invite not accepted"
// @Failure      502       {object}  map[string]interface{}  "Chat provider failed"
// @Router       /chats/from-invite/{inviteId} [post]
func (h *Chat) ProvisionFromInvite(c echo.Context) error {
	user, err := currentUser(c)
	if err != nil {
		return HandleError(h.logger, c, err)
	}
	inviteID, err := uuidParam(c, "inviteId")
	if err != nil {
		return HandleError(h.logger, c, err)
	}

	out, err := h.chatService.ProvisionFromAcceptedInvite(c.Request().Context(), inviteID, user)
	if err != nil {
		return handleResourceError(h.logger, c, err, "invite_id", inviteID)
	}
	return HandleSuccess(h.logger, c, &chat.ProvisionResponse{
		Session: presenter.ToChatSessionResponse(out.Session, user),
		Created: out.Created,
	})
}

// List handles GET /chats
// @Summary      List chat sessions
// @Tags         Chats
// @Produce      json
// @Security     BearerAuth
// @Param        status     query     string  false  "active, archived or blocked"
// @Param        page       query     int     false  "Page number"  default(1)
// @Param        page_size  query     int     false  "Page size"    default(20)
// @Success      200        {object}  chat.ChatSessionListResponse
// @Router       /chats [get]
func (h *Chat) List(c echo.Context) error {
	user, err := currentUser(c)
	if err != nil {
		return HandleError(h.logger, c, err)
	}

	var req chat.ListChatSessionsRequest
	if err := bindAndValidate(c, &req); err != nil {
		return HandleError(h.logger, c, err)
	}

	input := chatUsecase.ListInput{Page: req.Page, PageSize: req.PageSize}
	if req.Status != nil {
		status := entities.ChatSessionStatus(*req.Status)
		input.Status = &status
	}

	out, err := h.chatService.List(c.Request().Context(), user, input)
	if err != nil {
		return HandleError(h.logger, c, err)
	}
	return HandleSuccess(h.logger, c, presenter.ToChatSessionListResponse(out, user))
}

// Get handles GET /chats/:id
// @Summary      Get a chat session
// @Tags         Chats
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      string  true  "Chat session ID"
// @Success      200  {object}  chat.ChatSessionResponse
// @Failure      404  {object}  map[string]interface{}
// @Router       /chats/{id} [get]
func (h *Chat) Get(c echo.Context) error {
	user, err := currentUser(c)
	if err != nil {
		return HandleError(h.logger, c, err)
	}
	id, err := uuidParam(c, "id")
	if err != nil {
		return HandleError(h.logger, c, err)
	}

	session, err := h.chatService.Get(c.Request().Context(), id, user)
	if err != nil {
		return handleResourceError(h.logger, c, err, "session_id", id)
	}
	return HandleSuccess(h.logger, c, presenter.ToChatSessionResponse(session, user))
}

// Archive handles POST /chats/:id/archive
// @Summary      Archive a chat session
// @Tags         Chats
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      string  true  "Chat session ID"
// @Success      200  {object}  chat.ChatSessionResponse
// @Failure      409  {object}  map[string]interface{}  "Session is blocked"
// @Router       /chats/{id}/archive [post]
func (h *Chat) Archive(c echo.Context) error {
	user, err := currentUser(c)
	if err != nil {
		return HandleError(h.logger, c, err)
	}
	id, err := uuidParam(c, "id")
	if err != nil {
		return HandleError(h.logger, c, err)
	}

	session, err := h.chatService.Archive(c.Request().Context(), id, user)
	if err != nil {
		return handleResourceError(h.logger, c, err, "session_id", id)
	}
	return HandleSuccess(h.logger, c, presenter.ToChatSessionResponse(session, user))
}

// Block handles POST /chats/:id/block
// @Summary      Block a chat session
// @Tags         Chats
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      string  true  "Chat session ID"
// @Success      200  {object}  chat.ChatSessionResponse
// @Failure      409  {object}  map[string]interface{}  "Session is archived"
// @Router       /chats/{id}/block [post]
func (h *Chat) Block(c echo.Context) error {
	user, err := currentUser(c)
	if err != nil {
		return HandleError(h.logger, c, err)
	}
	id, err := uuidParam(c, "id")
	if err != nil {
		return HandleError(h.logger, c, err)
	}

	session, err := h.chatService.Block(c.Request().Context(), id, user)
	if err != nil {
		return handleResourceError(h.logger, c, err, "session_id", id)
	}
	return HandleSuccess(h.logger, c, presenter.ToChatSessionResponse(session, user))
}

// IssueToken handles POST /chats/:id/token
// @Summary      Issue a chat client token
// @Tags         Chats
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      string  true  "Chat session ID"
// @Success      200  {object}  chat.SessionTokenResponse
// @Failure      409  {object}  map[string]interface{}  "Session not active"
// @Router       /chats/{id}/token [post]
func (h *Chat) IssueToken(c echo.Context) error {
	user, err := currentUser(c)
	if err != nil {
		return HandleError(h.logger, c, err)
	}
	id, err := uuidParam(c, "id")
	if err != nil {
		return HandleError(h.logger, c, err)
	}

	token, err := h.chatService.IssueSessionToken(c.Request().Context(), id, user)
	if err != nil {
		return handleResourceError(h.logger, c, err, "session_id", id)
	}
	return HandleSuccess(h.logger, c, presenter.ToSessionTokenResponse(token))
}
