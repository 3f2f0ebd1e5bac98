package handler

import (
	"context"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"github.com/PtKartikVashishtha/BecopyMain-sub000/errors"
	"github.com/PtKartikVashishtha/BecopyMain-sub000/internal/adapter/dto/invite"
	"github.com/PtKartikVashishtha/BecopyMain-sub000/internal/adapter/presenter"
	"github.com/PtKartikVashishtha/BecopyMain-sub000/internal/domain/entities"
	chatUsecase "github.com/PtKartikVashishtha/BecopyMain-sub000/internal/usecase/chat"
	inviteUsecase "github.com/PtKartikVashishtha/BecopyMain-sub000/internal/usecase/invite"
)

// Invite handles invite HTTP requests
type Invite struct {
	inviteService inviteUsecase.Service
	chatService   chatUsecase.Service
	autoProvision bool
	logger        *zap.Logger
}

// NewInviteHandler creates a new invite handler. With autoProvision, accepting an
// invite also provisions its chat session.
func NewInviteHandler(inviteService inviteUsecase.Service, chatService chatUsecase.Service, autoProvision bool, logger *zap.Logger) *Invite {
	return &Invite{
		inviteService: inviteService,
		chatService:   chatService,
		autoProvision: autoProvision,
		logger:        logger,
	}
}

// Create handles POST /invites
// @Summary      Send an invite
// @Description  Sends a chat invite to another user. Only one pending invite may exist per pair of users.
// @Tags         Invites
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        request  body      invite.CreateInviteRequest  true  "Invite"
// @Success      201      {object}  invite.InviteResponse
// @Failure      400      {object}  map[string]interface{}  "Validation failed"
// @Failure      409      {object}  map[string]interface{}  "Pending invite already exists"
// @Failure      429      {object}  map[string]interface{}  "Rate limited"
// @Router       /invites [post]
func (h *Invite) Create(c echo.Context) error {
	user, err := currentUser(c)
	if err != nil {
		return HandleError(h.logger, c, err)
	}

	var req invite.CreateInviteRequest
	if err := bindAndValidate(c, &req); err != nil {
		return HandleError(h.logger, c, err)
	}
	recipient, err := entities.ParseUserRef(req.RecipientID)
	if err != nil {
		return HandleError(h.logger, c, errors.ErrInvalidArgument("recipient_id must be a valid user id"))
	}

	created, err := h.inviteService.Create(c.Request().Context(), inviteUsecase.CreateInput{
		SenderID:    user,
		RecipientID: recipient,
		Message:     req.Message,
	})
	if err != nil {
		return HandleError(h.logger, c, err)
	}
	return HandleCreated(h.logger, c, presenter.ToInviteResponse(created, user))
}

// Get handles GET /invites/:id
// @Summary      Get an invite
// @Tags         Invites
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      string  true  "Invite ID"
// @Success      200  {object}  invite.InviteResponse
// @Failure      404  {object}  map[string]interface{}
// @Router       /invites/{id} [get]
func (h *Invite) Get(c echo.Context) error {
	user, err := currentUser(c)
	if err != nil {
		return HandleError(h.logger, c, err)
	}
	id, err := uuidParam(c, "id")
	if err != nil {
		return HandleError(h.logger, c, err)
	}

	found, err := h.inviteService.Get(c.Request().Context(), id, user)
	if err != nil {
		return handleResourceError(h.logger, c, err, "invite_id", id)
	}
	return HandleSuccess(h.logger, c, presenter.ToInviteResponse(found, user))
}

// Accept handles POST /invites/:id/accept
// @Summary      Accept an invite
// @Description  Accepts a pending invite addressed to the caller. When auto provisioning is on, the chat session is created as well;
// @Description  if the chat provider fails the invite stays accepted and the session can be provisioned later.
// @Tags         Invites
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      string  true  "Invite ID"
// @Success      200  {object}  invite.AcceptInviteResponse
// @Failure      403  {object}  map[string]interface{}  "Not the recipient"
// @Failure      409  {object}  map[string]interface{}  "Expired or already processed"
// @Router       /invites/{id}/accept [post]
func (h *Invite) Accept(c echo.Context) error {
	user, err := currentUser(c)
	if err != nil {
		return HandleError(h.logger, c, err)
	}
	id, err := uuidParam(c, "id")
	if err != nil {
		return HandleError(h.logger, c, err)
	}

	ctx := c.Request().Context()
	accepted, err := h.inviteService.Accept(ctx, id, user)
	if err != nil {
		return handleResourceError(h.logger, c, err, "invite_id", id)
	}

	resp := &invite.AcceptInviteResponse{Invite: presenter.ToInviteResponse(accepted, user)}
	if h.autoProvision && h.chatService != nil {
		out, err := h.chatService.ProvisionFromAcceptedInvite(ctx, accepted.ID, user)
		if err != nil {
			// the reconciler or an explicit provision call picks it up later
			h.logger.Warn("invite.accept.provision_deferred",
				zap.String("invite_id", accepted.ID.String()),
				zap.Error(err),
			)
		} else {
			resp.ChatSession = presenter.ToChatSessionResponse(out.Session, user)
		}
	}
	return HandleSuccess(h.logger, c, resp)
}

// Decline handles POST /invites/:id/decline
// @Summary      Decline an invite
// @Tags         Invites
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      string  true  "Invite ID"
// @Success      200  {object}  invite.InviteResponse
// @Failure      403  {object}  map[string]interface{}  "Not the recipient"
// @Failure      409  {object}  map[string]interface{}  "Expired or already processed"
// @Router       /invites/{id}/decline [post]
func (h *Invite) Decline(c echo.Context) error {
	return h.respond(c, h.inviteService.Decline)
}

// Cancel handles POST /invites/:id/cancel
// @Summary      Cancel an invite
// @Tags         Invites
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      string  true  "Invite ID"
// @Success      200  {object}  invite.InviteResponse
// @Failure      403  {object}  map[string]interface{}  "Not the sender"
// @Failure      409  {object}  map[string]interface{}  "Already processed"
// @Router       /invites/{id}/cancel [post]
func (h *Invite) Cancel(c echo.Context) error {
	return h.respond(c, h.inviteService.Cancel)
}

func (h *Invite) respond(c echo.Context, action func(ctx context.Context, id uuid.UUID, user entities.UserRef) (*entities.Invite, error)) error {
	user, err := currentUser(c)
	if err != nil {
		return HandleError(h.logger, c, err)
	}
	id, err := uuidParam(c, "id")
	if err != nil {
		return HandleError(h.logger, c, err)
	}

	updated, err := action(c.Request().Context(), id, user)
	if err != nil {
		return handleResourceError(h.logger, c, err, "invite_id", id)
	}
	return HandleSuccess(h.logger, c, presenter.ToInviteResponse(updated, user))
}

// ListReceived handles GET /invites/received
// @Summary      List received invites
// @Tags         Invites
// @Produce      json
// @Security     BearerAuth
// @Param        status     query     string  false  "pending, accepted, declined or cancelled"
// @Param        page       query     int     false  "Page number"  default(1)
// @Param        page_size  query     int     false  "Page size"    default(20)
// @Success      200  {object}  invite.InviteListResponse
// @Router       /invites/received [get]
func (h *Invite) ListReceived(c echo.Context) error {
	return h.list(c, h.inviteService.ListReceived)
}

// ListSent handles GET /invites/sent
// @Summary      List sent invites
// @Tags         Invites
// @Produce      json
// @Security     BearerAuth
// @Param        status     query     string  false  "pending, accepted, declined or cancelled"
// @Param        page       query     int     false  "Page number"  default(1)
// @Param        page_size  query     int     false  "Page size"    default(20)
// @Success      200  {object}  invite.InviteListResponse
// @Router       /invites/sent [get]
func (h *Invite) ListSent(c echo.Context) error {
	return h.list(c, h.inviteService.ListSent)
}

func (h *Invite) list(c echo.Context, lister func(ctx context.Context, user entities.UserRef, input inviteUsecase.ListInput) (*inviteUsecase.ListOutput, error)) error {
	user, err := currentUser(c)
	if err != nil {
		return HandleError(h.logger, c, err)
	}

	var req invite.ListInvitesRequest
	if err := bindAndValidate(c, &req); err != nil {
		return HandleError(h.logger, c, err)
	}

	input := inviteUsecase.ListInput{Page: req.Page, PageSize: req.PageSize}
	if req.Status != nil {
		status := entities.InviteStatus(*req.Status)
		input.Status = &status
	}

	out, err := lister(c.Request().Context(), user, input)
	if err != nil {
		return HandleError(h.logger, c, err)
	}
	return HandleSuccess(h.logger, c, presenter.ToInviteListResponse(out, user))
}

// Stats handles GET /invites/stats
// @Summary      Invite counts
// @Tags         Invites
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  invite.InviteStatsResponse
// @Router       /invites/stats [get]
func (h *Invite) Stats(c echo.Context) error {
	user, err := currentUser(c)
	if err != nil {
		return HandleError(h.logger, c, err)
	}

	stats, err := h.inviteService.Stats(c.Request().Context(), user)
	if err != nil {
		return HandleError(h.logger, c, err)
	}
	return HandleSuccess(h.logger, c, presenter.ToInviteStatsResponse(stats))
}

// CheckEligibility handles GET /invites/eligibility/:userId
// @Summary      Check invite eligibility
// @Description  Reports whether the caller may invite the user right now. Never modifies data.
// @Tags         Invites
// @Produce      json
// @Security     BearerAuth
// @Param        userId  path      string  true  "Recipient user ID"
// @Success      200     {object}  invite.EligibilityResponse
// @Router       /invites/eligibility/{userId} [get]
func (h *Invite) CheckEligibility(c echo.Context) error {
	user, err := currentUser(c)
	if err != nil {
		return HandleError(h.logger, c, err)
	}
	recipient, err := entities.ParseUserRef(c.Param("userId"))
	if err != nil {
		return HandleError(h.logger, c, errors.ErrInvalidArgument("userId must be a valid user id"))
	}

	eligibility, err := h.inviteService.CheckEligibility(c.Request().Context(), user, recipient)
	if err != nil {
		return HandleError(h.logger, c, err)
	}
	return HandleSuccess(h.logger, c, presenter.ToEligibilityResponse(eligibility))
}
