package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"github.com/PtKartikVashishtha/BecopyMain-sub000/internal/domain/entities"
)

// Subscriber binds a websocket connection to a user channel
type Subscriber interface {
	Serve(w http.ResponseWriter, r *http.Request, user entities.UserRef) error
}

// Realtime upgrades authenticated clients to the notification websocket
type Realtime struct {
	hub    Subscriber
	logger *zap.Logger
}

// NewRealtimeHandler creates a realtime handler
func NewRealtimeHandler(hub Subscriber, logger *zap.Logger) *Realtime {
	return &Realtime{hub: hub, logger: logger}
}

// Connect handles GET /realtime
// @Summary      Notification websocket
// @Description  Upgrades to a websocket that streams invite and chat events for the caller.
// @Description  Browsers pass the access token as the token query parameter.
// @Tags         Realtime
// @Security     BearerAuth
// @Success      101
// @Router       /realtime [get]
func (h *Realtime) Connect(c echo.Context) error {
	user, err := currentUser(c)
	if err != nil {
		return HandleError(h.logger, c, err)
	}
	if err := h.hub.Serve(c.Response(), c.Request(), user); err != nil {
		h.logger.Warn("realtime.upgrade.failed", zap.String("user_id", user.String()), zap.Error(err))
	}
	return nil
}
