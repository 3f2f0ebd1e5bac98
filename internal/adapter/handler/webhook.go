package handler

import (
	"bytes"
	"context"
	"encoding/json"
	stdErrors "errors"
	"io"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"github.com/PtKartikVashishtha/BecopyMain-sub000/errors"
	"github.com/PtKartikVashishtha/BecopyMain-sub000/internal/adapter/dto/chat"
	"github.com/PtKartikVashishtha/BecopyMain-sub000/internal/domain/entities"
	chatUsecase "github.com/PtKartikVashishtha/BecopyMain-sub000/internal/usecase/chat"
	usecaseErrors "github.com/PtKartikVashishtha/BecopyMain-sub000/internal/usecase/errors"
	"github.com/PtKartikVashishtha/BecopyMain-sub000/pkg/signature"
)

const (
	// SignatureHeader carries hex(HMAC-SHA256(secret, body))
	SignatureHeader = "X-Chat-Signature"

	eventMessageSent = "message.sent"
	maxWebhookBody   = 64 * 1024
	dedupWindow      = 24 * time.Hour
)

// Deduper remembers delivered event ids so provider retries are applied once
type Deduper interface {
	MarkOnce(ctx context.Context, key string, ttl time.Duration) (bool, error)
	Release(ctx context.Context, key string) error
}

// WebhookHandler receives chat provider events
type WebhookHandler struct {
	chatService chatUsecase.Service
	secret      string
	dedup       Deduper
	logger      *zap.Logger
}

// NewWebhookHandler creates a webhook handler. An empty secret disables signature checks.
func NewWebhookHandler(chatService chatUsecase.Service, secret string, dedup Deduper, logger *zap.Logger) *WebhookHandler {
	return &WebhookHandler{
		chatService: chatService,
		secret:      secret,
		dedup:       dedup,
		logger:      logger,
	}
}

// HandleChatWebhook handles POST /webhooks/chat
// @Summary      Chat provider webhook
// @Description  Receives message events from the chat provider and updates session activity
// @Tags         Webhooks
// @Accept       json
// @Produce      json
// @Param        X-Chat-Signature  header    string  false  "hex HMAC-SHA256 of the body"
// @Success      200  {object}  map[string]interface{}
// @Failure      401  {object}  map[string]interface{}
// @Router       /webhooks/chat [post]
func (h *WebhookHandler) HandleChatWebhook(c echo.Context) error {
	body, err := io.ReadAll(io.LimitReader(c.Request().Body, maxWebhookBody))
	if err != nil {
		return HandleError(h.logger, c, errors.ErrInvalidPayload())
	}
	c.Request().Body = io.NopCloser(bytes.NewReader(body))

	if h.secret != "" && !signature.VerifyHMAC(h.secret, body, c.Request().Header.Get(SignatureHeader)) {
		h.logger.Warn("webhook.signature.invalid", zap.String("remote_ip", c.RealIP()))
		appErr := errors.ErrInvalidToken()
		appErr.Message = "Invalid webhook signature"
		return HandleError(h.logger, c, appErr)
	}

	var event chat.ProviderWebhookRequest
	if err := json.Unmarshal(body, &event); err != nil {
		appErr := errors.ErrInvalidPayload()
		appErr.Raw = err
		return HandleError(h.logger, c, appErr)
	}

	if event.EventType != eventMessageSent {
		h.logger.Debug("webhook.ignored", zap.String("event_type", event.EventType))
		return c.JSON(http.StatusOK, map[string]interface{}{"received": true, "ignored": true})
	}

	ctx := c.Request().Context()
	dedupKey := ""
	if event.ID != "" && h.dedup != nil {
		dedupKey = "webhook:chat:" + event.ID
		first, err := h.dedup.MarkOnce(ctx, dedupKey, dedupWindow)
		if err != nil {
			dedupKey = ""
			// process anyway, a double count beats a lost message
			h.logger.Warn("webhook.dedup.failed", zap.String("event_id", event.ID), zap.Error(err))
		} else if !first {
			return c.JSON(http.StatusOK, map[string]interface{}{"received": true, "duplicate": true})
		}
	}

	input := chatUsecase.ActivityInput{
		ConversationRef: event.Ref(),
		MessageText:     event.Text(),
	}
	if sender, err := entities.ParseUserRef(event.Sender()); err == nil {
		input.SenderID = &sender
	}
	if event.CreatedAt != nil {
		input.At = *event.CreatedAt
	}

	if err := h.chatService.UpdateActivity(ctx, input); err != nil {
		// a conversation we never provisioned will not appear on redelivery either
		if stdErrors.Is(err, usecaseErrors.ErrChatSessionNotFound) {
			h.logger.Info("webhook.conversation.unknown", zap.String("conversation_ref", input.ConversationRef))
			return c.JSON(http.StatusOK, map[string]interface{}{"received": true, "ignored": true})
		}
		// the provider redelivers on failure, so the event must not look seen
		if dedupKey != "" {
			if relErr := h.dedup.Release(context.WithoutCancel(ctx), dedupKey); relErr != nil {
				h.logger.Error("webhook.dedup.release_failed", zap.String("event_id", event.ID), zap.Error(relErr))
			}
		}
		return HandleError(h.logger, c, err)
	}
	return c.JSON(http.StatusOK, map[string]interface{}{"received": true})
}
