package config

import (
	"testing"
	"time"
)

func validConfig() *Config {
	return &Config{
		Database: DatabaseConfig{Driver: DriverPostgres},
		Invite:   InviteConfig{Expiry: 168 * time.Hour, MessageMin: 5, MessageMax: 500},
		Chat:     ChatConfig{Provider: ProviderMock},
	}
}

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("CHAT_PROVIDER", "mock")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.Invite.Expiry != 7*24*time.Hour {
		t.Fatalf("expected 7 day expiry, got %s", cfg.Invite.Expiry)
	}
	if cfg.Invite.MessageMin != 5 || cfg.Invite.MessageMax != 500 {
		t.Fatalf("unexpected message bounds %d-%d", cfg.Invite.MessageMin, cfg.Invite.MessageMax)
	}
	if cfg.Server.Port != "8080" {
		t.Fatalf("expected default port 8080, got %s", cfg.Server.Port)
	}
}

func TestLoad_FlatKeys(t *testing.T) {
	t.Setenv("PORT", "9090")
	t.Setenv("INVITE_MESSAGE_MAX", "250")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.Server.Port != "9090" {
		t.Fatalf("expected port 9090, got %s", cfg.Server.Port)
	}
	if cfg.Invite.MessageMax != 250 {
		t.Fatalf("expected max 250, got %d", cfg.Invite.MessageMax)
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(c *Config)
		wantErr bool
	}{
		{name: "valid", mutate: func(c *Config) {}},
		{name: "unknown driver", mutate: func(c *Config) { c.Database.Driver = "mysql" }, wantErr: true},
		{name: "inverted bounds", mutate: func(c *Config) { c.Invite.MessageMin = 10; c.Invite.MessageMax = 5 }, wantErr: true},
		{name: "zero expiry", mutate: func(c *Config) { c.Invite.Expiry = 0 }, wantErr: true},
		{name: "talkjs without secret", mutate: func(c *Config) { c.Chat.Provider = ProviderTalkJS }, wantErr: true},
		{name: "livekit with keys", mutate: func(c *Config) {
			c.Chat.Provider = ProviderLiveKit
			c.LiveKit.APIKey = "key"
			c.LiveKit.APISecret = "secret"
		}},
		{name: "production without webhook secret", mutate: func(c *Config) { c.Server.Environment = "production" }, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := validConfig()
			tt.mutate(cfg)
			err := cfg.Validate()
			if tt.wantErr && err == nil {
				t.Fatal("expected error, got nil")
			}
			if !tt.wantErr && err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
		})
	}
}
