// Package chatprovider holds the chat provider clients selected by CHAT_PROVIDER.
package chatprovider

import (
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/PtKartikVashishtha/BecopyMain-sub000/internal/domain/ports"
	"github.com/PtKartikVashishtha/BecopyMain-sub000/pkg/config"
)

// New builds the configured provider. Remote providers are wrapped in Resilient.
func New(cfg *config.Config, logger *zap.Logger) (ports.ChatProvider, error) {
	switch strings.ToLower(cfg.Chat.Provider) {
	case config.ProviderMock:
		return NewMock(), nil
	case config.ProviderTalkJS:
		return NewResilient(NewTalkJS(cfg.TalkJS), cfg.Chat.RetryMaxElapsed, logger), nil
	case config.ProviderLiveKit:
		return NewResilient(NewLiveKit(cfg.LiveKit), cfg.Chat.RetryMaxElapsed, logger), nil
	default:
		return nil, fmt.Errorf("unknown chat provider %q", cfg.Chat.Provider)
	}
}
