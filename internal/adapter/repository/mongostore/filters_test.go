package mongostore

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"

	"github.com/PtKartikVashishtha/BecopyMain-sub000/internal/domain/entities"
	"github.com/PtKartikVashishtha/BecopyMain-sub000/internal/domain/repositories"
)

func TestExpiryFilter(t *testing.T) {
	now := time.Date(2025, 1, 10, 0, 0, 0, 0, time.UTC)
	a := entities.UserRefFromUUID(uuid.New())
	b := entities.UserRefFromUUID(uuid.New())

	all := expiryFilter(now, repositories.ExpiryScope{})
	if all["status"] != "pending" {
		t.Errorf("status = %v, want pending", all["status"])
	}
	if _, ok := all["$or"]; ok {
		t.Error("unscoped sweep should not filter by user")
	}

	user := expiryFilter(now, repositories.ExpiryScope{User: &a})
	or, ok := user["$or"].(bson.A)
	if !ok || len(or) != 2 {
		t.Fatalf("user scope $or = %v", user["$or"])
	}

	pair := expiryFilter(now, repositories.ExpiryScope{User: &b, Counterpart: &a})
	low, high := entities.PairKey(a, b)
	if pair["pair_low"] != low || pair["pair_high"] != high {
		t.Errorf("pair scope = %v/%v, want %s/%s", pair["pair_low"], pair["pair_high"], low, high)
	}
}

func TestListFilter(t *testing.T) {
	a := entities.UserRefFromUUID(uuid.New())
	status := entities.InviteStatusAccepted

	filter := listFilter(repositories.InviteFilters{RecipientID: &a, Status: &status})
	if filter["recipient_id"] != a.String() {
		t.Errorf("recipient_id = %v", filter["recipient_id"])
	}
	if filter["status"] != "accepted" {
		t.Errorf("status = %v", filter["status"])
	}
	if _, ok := filter["sender_id"]; ok {
		t.Error("sender_id should be absent")
	}
}

func TestInviteDocRoundTrip(t *testing.T) {
	now := time.Date(2025, 1, 10, 12, 0, 0, 0, time.UTC)
	a := entities.UserRefFromUUID(uuid.New())
	b := entities.UserRefFromUUID(uuid.New())

	invite, err := entities.NewInvite(a, b, "hello there", now, 7*24*time.Hour)
	if err != nil {
		t.Fatalf("NewInvite() error = %v", err)
	}
	invite.ID = uuid.New()

	doc := newInviteDoc(invite)
	low, high := entities.PairKey(a, b)
	if doc.PairLow != low || doc.PairHigh != high {
		t.Errorf("pair key = %s/%s, want %s/%s", doc.PairLow, doc.PairHigh, low, high)
	}

	got, err := doc.toEntity()
	if err != nil {
		t.Fatalf("toEntity() error = %v", err)
	}
	if got.ID != invite.ID || got.SenderID != a || got.RecipientID != b {
		t.Errorf("identity mismatch: %+v", got)
	}
	if !got.ExpiresAt.Equal(invite.ExpiresAt) {
		t.Errorf("ExpiresAt = %v, want %v", got.ExpiresAt, invite.ExpiresAt)
	}
}

func TestChatSessionDocLastMessage(t *testing.T) {
	now := time.Date(2025, 1, 10, 12, 0, 0, 0, time.UTC)
	sender := entities.UserRefFromUUID(uuid.New())
	doc := &chatSessionDoc{
		ID:              uuid.NewString(),
		InviteID:        uuid.NewString(),
		Participants:    []string{sender.String(), uuid.NewString()},
		ConversationRef: "chat_x",
		Status:          "active",
		LastActivity:    now,
		LastMessage:     &lastMessageDoc{Preview: "hi", SenderID: sender.String(), At: now},
		MessageCount:    3,
	}

	session, err := doc.toEntity()
	if err != nil {
		t.Fatalf("toEntity() error = %v", err)
	}
	if session.LastMessagePreview == nil || *session.LastMessagePreview != "hi" {
		t.Errorf("preview = %v", session.LastMessagePreview)
	}
	if session.LastMessageSenderID == nil || *session.LastMessageSenderID != sender {
		t.Errorf("sender = %v", session.LastMessageSenderID)
	}
	if session.BlockedBy != nil {
		t.Errorf("BlockedBy = %v, want nil", session.BlockedBy)
	}

	update := activityUpdate(repositories.Activity{Preview: "yo", At: now})
	if _, ok := update["$max"]; !ok {
		t.Error("activity update must only move last_activity forward")
	}
}
