package chatprovider

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/livekit/protocol/auth"
	"github.com/livekit/protocol/livekit"
	lksdk "github.com/livekit/server-sdk-go/v2"

	"github.com/PtKartikVashishtha/BecopyMain-sub000/internal/domain/entities"
	"github.com/PtKartikVashishtha/BecopyMain-sub000/internal/domain/ports"
	"github.com/PtKartikVashishtha/BecopyMain-sub000/pkg/config"
)

// roomKeepAlive keeps an idle conversation room around between messages
const roomKeepAlive = 7 * 24 * time.Hour

type roomService interface {
	CreateRoom(ctx context.Context, req *livekit.CreateRoomRequest) (*livekit.Room, error)
}

// LiveKit carries chat over LiveKit data channels. A conversation is a room named
// by its reference; identities only exist inside access tokens.
type LiveKit struct {
	rooms     roomService
	apiKey    string
	apiSecret string
}

var _ ports.ChatProvider = (*LiveKit)(nil)

// NewLiveKit creates a LiveKit provider from configuration
func NewLiveKit(cfg config.LiveKitConfig) *LiveKit {
	return &LiveKit{
		rooms:     lksdk.NewRoomServiceClient(cfg.URL, cfg.APIKey, cfg.APISecret),
		apiKey:    cfg.APIKey,
		apiSecret: cfg.APISecret,
	}
}

func (c *LiveKit) Name() string { return config.ProviderLiveKit }

// UpsertUser is a no-op, users are identified by their token
func (c *LiveKit) UpsertUser(context.Context, ports.ProviderUser) error {
	return nil
}

type roomMetadata struct {
	Subject      string            `json:"subject"`
	Participants []string          `json:"participants"`
	Custom       map[string]string `json:"custom,omitempty"`
}

// UpsertConversation creates the room. Creating an existing room returns it unchanged.
func (c *LiveKit) UpsertConversation(ctx context.Context, ref string, participants []entities.UserRef, subject string, metadata map[string]string) error {
	meta := roomMetadata{Subject: subject, Custom: metadata}
	for _, p := range participants {
		meta.Participants = append(meta.Participants, p.String())
	}
	raw, err := json.Marshal(meta)
	if err != nil {
		return err
	}

	_, err = c.rooms.CreateRoom(ctx, &livekit.CreateRoomRequest{
		Name:            ref,
		MaxParticipants: uint32(len(participants)),
		EmptyTimeout:    uint32(roomKeepAlive.Seconds()),
		Metadata:        string(raw),
	})
	if err != nil {
		return fmt.Errorf("failed to create room: %w", err)
	}
	return nil
}

// IssueSessionToken grants the user data-only access to the conversation room
func (c *LiveKit) IssueSessionToken(_ context.Context, user entities.UserRef, conversationRef string, ttl time.Duration) (string, error) {
	canPublish := false
	canSubscribe := true
	canPublishData := true

	at := auth.NewAccessToken(c.apiKey, c.apiSecret)
	at.AddGrant(&auth.VideoGrant{
		RoomJoin:       true,
		Room:           conversationRef,
		CanPublish:     &canPublish,
		CanSubscribe:   &canSubscribe,
		CanPublishData: &canPublishData,
	}).
		SetIdentity(user.String()).
		SetValidFor(ttl)

	token, err := at.ToJWT()
	if err != nil {
		return "", fmt.Errorf("failed to generate token: %w", err)
	}
	return token, nil
}
