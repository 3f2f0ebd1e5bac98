package presenter

import (
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/PtKartikVashishtha/BecopyMain-sub000/internal/domain/entities"
)

func TestToInviteResponse_StatusAndDirection(t *testing.T) {
	x, y := entities.UserRefFromUUID(uuid.New()), entities.UserRefFromUUID(uuid.New())
	week := 7 * 24 * time.Hour

	live, err := entities.NewInvite(x, y, "hello there", time.Now().UTC(), week)
	if err != nil {
		t.Fatalf("new invite: %v", err)
	}
	expired, err := entities.NewInvite(x, y, "hello there", time.Now().UTC().Add(-8*24*time.Hour), week)
	if err != nil {
		t.Fatalf("new invite: %v", err)
	}

	tests := []struct {
		name      string
		invite    *entities.Invite
		viewer    entities.UserRef
		status    string
		direction string
	}{
		{"live seen by sender", live, x, "pending", "sent"},
		{"live seen by recipient", live, y, "pending", "received"},
		{"expired before sweep", expired, y, "cancelled", "received"},
		{"no viewer", live, entities.UserRef{}, "pending", ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ToInviteResponse(tt.invite, tt.viewer)
			if got.Status != tt.status || got.Direction != tt.direction {
				t.Errorf("got status %q direction %q, want %q %q", got.Status, got.Direction, tt.status, tt.direction)
			}
		})
	}
	if expired.Status != entities.InviteStatusPending {
		t.Error("presenting must not modify the invite")
	}
}
