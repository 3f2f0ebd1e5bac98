package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"
	echoSwagger "github.com/swaggo/echo-swagger"

	"github.com/PtKartikVashishtha/BecopyMain-sub000/pkg/config"
)

// Router holds all handlers
type Router struct {
	cfg            *config.Config
	inviteHandler  *Invite
	chatHandler    *Chat
	webhookHandler *WebhookHandler
	realtime       *Realtime
	authMW         echo.MiddlewareFunc
	createLimitMW  echo.MiddlewareFunc
}

// NewRouter creates a new router with all handlers.
// realtime may be nil when no hub is running.
func NewRouter(
	cfg *config.Config,
	inviteHandler *Invite,
	chatHandler *Chat,
	webhookHandler *WebhookHandler,
	realtime *Realtime,
	authMW echo.MiddlewareFunc,
	createLimitMW echo.MiddlewareFunc,
) *Router {
	return &Router{
		cfg:            cfg,
		inviteHandler:  inviteHandler,
		chatHandler:    chatHandler,
		webhookHandler: webhookHandler,
		realtime:       realtime,
		authMW:         authMW,
		createLimitMW:  createLimitMW,
	}
}

// Setup configures all application routes
func (rt *Router) Setup(e *echo.Echo) {
	e.GET("/health", rt.healthCheck)
	e.GET("/swagger/*", echoSwagger.WrapHandler)

	v1 := e.Group("/v1")

	rt.setupInviteRoutes(v1)
	rt.setupChatRoutes(v1)
	rt.setupWebhookRoutes(v1)

	if rt.realtime != nil {
		v1.GET("/realtime", rt.realtime.Connect, rt.authMW)
	}
}

// setupInviteRoutes configures invite routes
func (rt *Router) setupInviteRoutes(g *echo.Group) {
	invites := g.Group("/invites", rt.authMW)

	createMW := []echo.MiddlewareFunc{}
	if rt.createLimitMW != nil {
		createMW = append(createMW, rt.createLimitMW)
	}
	invites.POST("", rt.inviteHandler.Create, createMW...)
	invites.GET("/received", rt.inviteHandler.ListReceived)
	invites.GET("/sent", rt.inviteHandler.ListSent)
	invites.GET("/stats", rt.inviteHandler.Stats)
	invites.GET("/eligibility/:userId", rt.inviteHandler.CheckEligibility)
	invites.GET("/:id", rt.inviteHandler.Get)
	invites.POST("/:id/accept", rt.inviteHandler.Accept)
	invites.POST("/:id/decline", rt.inviteHandler.Decline)
	invites.POST("/:id/cancel", rt.inviteHandler.Cancel)
}

// setupChatRoutes configures chat session routes
func (rt *Router) setupChatRoutes(g *echo.Group) {
	chats := g.Group("/chats", rt.authMW)

	chats.GET("", rt.chatHandler.List)
	chats.POST("/from-invite/:inviteId", rt.chatHandler.ProvisionFromInvite)
	chats.GET("/:id", rt.chatHandler.Get)
	chats.POST("/:id/archive", rt.chatHandler.Archive)
	chats.POST("/:id/block", rt.chatHandler.Block)
	chats.POST("/:id/token", rt.chatHandler.IssueToken)
}

// setupWebhookRoutes configures provider webhooks. They authenticate by signature, not JWT.
func (rt *Router) setupWebhookRoutes(g *echo.Group) {
	g.POST("/webhooks/chat", rt.webhookHandler.HandleChatWebhook)
}

// healthCheck returns health status
func (rt *Router) healthCheck(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]interface{}{
		"status":      "ok",
		"environment": rt.cfg.Server.Environment,
		"provider":    rt.cfg.Chat.Provider,
	})
}
