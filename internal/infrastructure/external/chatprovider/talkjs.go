package chatprovider

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/PtKartikVashishtha/BecopyMain-sub000/internal/domain/entities"
	"github.com/PtKartikVashishtha/BecopyMain-sub000/internal/domain/ports"
	"github.com/PtKartikVashishtha/BecopyMain-sub000/pkg/config"
)

// StatusError is a non-2xx answer from a provider API
type StatusError struct {
	StatusCode int
	Body       string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("provider returned status %d: %s", e.StatusCode, e.Body)
}

// Temporary reports whether retrying the call can help
func (e *StatusError) Temporary() bool {
	return e.StatusCode == http.StatusTooManyRequests || e.StatusCode >= 500
}

// TalkJS is a minimal TalkJS REST client
type TalkJS struct {
	appID   string
	secret  string
	baseURL string
	client  *http.Client
	now     func() time.Time
}

var _ ports.ChatProvider = (*TalkJS)(nil)

// NewTalkJS creates a TalkJS client from configuration
func NewTalkJS(cfg config.TalkJSConfig) *TalkJS {
	return &TalkJS{
		appID:   cfg.AppID,
		secret:  cfg.Secret,
		baseURL: strings.TrimRight(cfg.BaseURL, "/"),
		client:  &http.Client{Timeout: 10 * time.Second},
		now:     time.Now,
	}
}

func (c *TalkJS) Name() string { return config.ProviderTalkJS }

type talkjsUser struct {
	Name   string            `json:"name"`
	Email  []string          `json:"email,omitempty"`
	Role   string            `json:"role,omitempty"`
	Custom map[string]string `json:"custom,omitempty"`
}

type talkjsConversation struct {
	Participants []string          `json:"participants"`
	Subject      string            `json:"subject,omitempty"`
	Custom       map[string]string `json:"custom,omitempty"`
}

// UpsertUser creates or updates the user with PUT /v1/{appId}/users/{id}
func (c *TalkJS) UpsertUser(ctx context.Context, user ports.ProviderUser) error {
	body := talkjsUser{Name: user.Name, Role: user.Role}
	if user.Email != "" {
		body.Email = []string{user.Email}
	}
	if user.Country != "" {
		body.Custom = map[string]string{"country": user.Country}
	}
	return c.put(ctx, "users/"+url.PathEscape(user.Ref.String()), body)
}

// UpsertConversation creates or updates the conversation with PUT /v1/{appId}/conversations/{ref}
func (c *TalkJS) UpsertConversation(ctx context.Context, ref string, participants []entities.UserRef, subject string, metadata map[string]string) error {
	ids := make([]string, 0, len(participants))
	for _, p := range participants {
		ids = append(ids, p.String())
	}
	body := talkjsConversation{Participants: ids, Subject: subject, Custom: metadata}
	return c.put(ctx, "conversations/"+url.PathEscape(ref), body)
}

// IssueSessionToken signs a TalkJS identity token. It is scoped to the user only.
func (c *TalkJS) IssueSessionToken(_ context.Context, user entities.UserRef, _ string, ttl time.Duration) (string, error) {
	now := c.now()
	claims := jwt.MapClaims{
		"tokenType": "user",
		"iss":       c.appID,
		"sub":       user.String(),
		"iat":       now.Unix(),
		"exp":       now.Add(ttl).Unix(),
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(c.secret))
	if err != nil {
		return "", fmt.Errorf("failed to sign talkjs token: %w", err)
	}
	return token, nil
}

func (c *TalkJS) put(ctx context.Context, path string, payload interface{}) error {
	b, err := json.Marshal(payload)
	if err != nil {
		return err
	}

	endpoint := fmt.Sprintf("%s/v1/%s/%s", c.baseURL, url.PathEscape(c.appID), path)
	req, err := http.NewRequestWithContext(ctx, http.MethodPut, endpoint, bytes.NewReader(b))
	if err != nil {
		return err
	}
	req.Header.Set("Authorization", "Bearer "+c.secret)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		msg, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return &StatusError{StatusCode: resp.StatusCode, Body: strings.TrimSpace(string(msg))}
	}
	_, _ = io.Copy(io.Discard, resp.Body)
	return nil
}
