package chat

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/PtKartikVashishtha/BecopyMain-sub000/internal/domain/entities"
	"github.com/PtKartikVashishtha/BecopyMain-sub000/internal/domain/ports"
	usecaseErrors "github.com/PtKartikVashishtha/BecopyMain-sub000/internal/usecase/errors"
	"github.com/PtKartikVashishtha/BecopyMain-sub000/internal/usecase/usecasetest"
)

type fixture struct {
	svc      *ChatService
	store    *usecasetest.Store
	dir      *usecasetest.Directory
	provider *usecasetest.FakeProvider
	notifier *usecasetest.RecordingNotifier
	now      time.Time
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	f := &fixture{
		store:    usecasetest.NewStore(),
		dir:      usecasetest.NewDirectory(),
		provider: usecasetest.NewFakeProvider(),
		notifier: &usecasetest.RecordingNotifier{},
		now:      time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC),
	}
	f.svc = NewChatService(f.store.Sessions(), f.store.Invites(), f.dir, f.provider, f.notifier, time.Hour, zap.NewNop()).
		WithClock(func() time.Time { return f.now })
	return f
}

// invite stores an invite between two fresh users in the given status
func (f *fixture) invite(t *testing.T, status entities.InviteStatus) *entities.Invite {
	t.Helper()
	x, y := f.dir.AddUser("xavier"), f.dir.AddUser("yara")
	inv, err := entities.NewInvite(x, y, "let's talk", f.now.Add(-time.Hour), 7*24*time.Hour)
	if err != nil {
		t.Fatalf("new invite: %v", err)
	}
	if status != entities.InviteStatusPending {
		inv.ApplyTransition(status, f.now.Add(-time.Minute))
	}
	f.store.PutInvite(inv)
	return inv
}

func (f *fixture) provisioned(t *testing.T) (*entities.Invite, *entities.ChatSession) {
	t.Helper()
	inv := f.invite(t, entities.InviteStatusAccepted)
	out, err := f.svc.ProvisionFromAcceptedInvite(context.Background(), inv.ID, inv.RecipientID)
	if err != nil {
		t.Fatalf("provision: %v", err)
	}
	return inv, out.Session
}

func TestProvision_CreatesActiveSessionForBothParties(t *testing.T) {
	f := newFixture(t)
	inv := f.invite(t, entities.InviteStatusAccepted)

	out, err := f.svc.ProvisionFromAcceptedInvite(context.Background(), inv.ID, inv.RecipientID)
	if err != nil {
		t.Fatalf("provision: %v", err)
	}
	if !out.Created {
		t.Fatal("expected a new session")
	}

	session := out.Session
	if session.Status != entities.ChatSessionStatusActive {
		t.Fatalf("expected active, got %s", session.Status)
	}
	participants := session.Participants()
	if len(participants) != 2 || !session.HasParticipant(inv.SenderID) || !session.HasParticipant(inv.RecipientID) {
		t.Fatalf("unexpected participants %v", participants)
	}
	if session.ConversationRef != "chat_"+inv.ID.String() {
		t.Fatalf("unexpected conversation ref %s", session.ConversationRef)
	}
	if !f.provider.HasUser(inv.SenderID) || !f.provider.HasUser(inv.RecipientID) || f.provider.Conversations() != 1 {
		t.Fatal("expected both users and the conversation upserted at the provider")
	}

	events := f.notifier.Events()
	if len(events) != 2 || events[0].Name != ports.EventChatSessionCreated {
		t.Fatalf("expected chat-session-created to both parties, got %+v", events)
	}
}

func TestProvision_IsIdempotent(t *testing.T) {
	f := newFixture(t)
	inv, first := f.provisioned(t)

	out, err := f.svc.ProvisionFromAcceptedInvite(context.Background(), inv.ID, inv.SenderID)
	if err != nil {
		t.Fatalf("second provision: %v", err)
	}
	if out.Created || out.Session.ID != first.ID {
		t.Fatalf("expected the existing session back, got %+v", out)
	}
	if f.store.SessionCount() != 1 {
		t.Fatalf("expected one session, got %d", f.store.SessionCount())
	}
	if n := len(f.notifier.Events()); n != 2 {
		t.Fatalf("repeat provisioning must not notify again, got %d events", n)
	}
}

func TestProvision_ConcurrentCallsYieldOneSession(t *testing.T) {
	f := newFixture(t)
	inv := f.invite(t, entities.InviteStatusAccepted)

	const workers = 10
	var wg sync.WaitGroup
	ids := make([]uuid.UUID, workers)
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			out, err := f.svc.ProvisionFromAcceptedInvite(context.Background(), inv.ID, inv.RecipientID)
			if err != nil {
				t.Errorf("provision: %v", err)
				return
			}
			ids[i] = out.Session.ID
		}(i)
	}
	wg.Wait()

	if f.store.SessionCount() != 1 {
		t.Fatalf("expected exactly one session, got %d", f.store.SessionCount())
	}
	for _, id := range ids[1:] {
		if id != ids[0] {
			t.Fatalf("callers saw different sessions: %v", ids)
		}
	}
}

func TestProvision_Rejections(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	pending := f.invite(t, entities.InviteStatusPending)
	if _, err := f.svc.ProvisionFromAcceptedInvite(ctx, pending.ID, pending.RecipientID); !errors.Is(err, usecaseErrors.ErrInviteNotAccepted) {
		t.Fatalf("pending invite: expected ErrInviteNotAccepted, got %v", err)
	}

	declined := f.invite(t, entities.InviteStatusDeclined)
	if _, err := f.svc.ProvisionFromAcceptedInvite(ctx, declined.ID, declined.SenderID); !errors.Is(err, usecaseErrors.ErrInviteNotAccepted) {
		t.Fatalf("declined invite: expected ErrInviteNotAccepted, got %v", err)
	}

	accepted := f.invite(t, entities.InviteStatusAccepted)
	stranger := f.dir.AddUser("stranger")
	if _, err := f.svc.ProvisionFromAcceptedInvite(ctx, accepted.ID, stranger); !errors.Is(err, usecaseErrors.ErrInviteNotFound) {
		t.Fatalf("stranger: expected ErrInviteNotFound, got %v", err)
	}

	if _, err := f.svc.ProvisionFromAcceptedInvite(ctx, uuid.New(), stranger); !errors.Is(err, usecaseErrors.ErrInviteNotFound) {
		t.Fatalf("missing invite: expected ErrInviteNotFound, got %v", err)
	}
	if f.store.SessionCount() != 0 {
		t.Fatal("no session may exist for a non-accepted invite")
	}
}

func TestProvision_ProviderFailureKeepsInviteAccepted(t *testing.T) {
	f := newFixture(t)
	inv := f.invite(t, entities.InviteStatusAccepted)
	f.provider.FailNext(1)

	_, err := f.svc.ProvisionFromAcceptedInvite(context.Background(), inv.ID, inv.RecipientID)
	if usecaseErrors.KindOf(err) != usecaseErrors.KindExternalProvider {
		t.Fatalf("expected external provider error, got %v", err)
	}
	if got := f.store.InviteStatus(inv.ID); got != entities.InviteStatusAccepted {
		t.Fatalf("invite must stay accepted, got %s", got)
	}
	if f.store.SessionCount() != 0 {
		t.Fatal("no session may be stored after a provider failure")
	}

	out, err := f.svc.ProvisionFromAcceptedInvite(context.Background(), inv.ID, inv.RecipientID)
	if err != nil || !out.Created {
		t.Fatalf("retry should succeed, got %+v, %v", out, err)
	}
}

func TestProvisionPending_PicksUpFailedProvisioning(t *testing.T) {
	f := newFixture(t)
	inv := f.invite(t, entities.InviteStatusAccepted)
	f.invite(t, entities.InviteStatusPending)

	f.provider.FailNext(1)
	if _, err := f.svc.ProvisionFromAcceptedInvite(context.Background(), inv.ID, inv.RecipientID); err == nil {
		t.Fatal("expected injected failure")
	}

	n, err := f.svc.ProvisionPending(context.Background())
	if err != nil {
		t.Fatalf("provision pending: %v", err)
	}
	if n != 1 || f.store.SessionCount() != 1 {
		t.Fatalf("expected one session provisioned, got %d (stored %d)", n, f.store.SessionCount())
	}

	if n, _ := f.svc.ProvisionPending(context.Background()); n != 0 {
		t.Fatalf("second pass should find nothing, got %d", n)
	}
}

func TestProvisionPending_FailingBacklogDoesNotStarveNewerInvites(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	// a full batch of older invites the provider keeps refusing
	var failing []*entities.Invite
	for i := 0; i < reconcileBatch; i++ {
		inv := f.invite(t, entities.InviteStatusAccepted)
		accepted := f.now.Add(-2*time.Hour + time.Duration(i)*time.Second)
		inv.AcceptedAt = &accepted
		f.store.PutInvite(inv)
		f.provider.Reject(inv.SenderID)
		failing = append(failing, inv)
	}
	healthy := f.invite(t, entities.InviteStatusAccepted)

	n, err := f.svc.ProvisionPending(ctx)
	if err != nil || n != 0 {
		t.Fatalf("first pass should only see the failing batch, got %d, %v", n, err)
	}
	for _, inv := range failing {
		got := f.store.Invite(inv.ID)
		if got.ProvisionAttempts != 1 || got.ProvisionRetryAt == nil || !got.ProvisionRetryAt.Equal(f.now.Add(retryBase)) {
			t.Fatalf("failure not recorded on %s: attempts=%d retry=%v", inv.ID, got.ProvisionAttempts, got.ProvisionRetryAt)
		}
	}

	n, err = f.svc.ProvisionPending(ctx)
	if err != nil || n != 1 {
		t.Fatalf("second pass should provision the newer invite, got %d, %v", n, err)
	}
	if _, err := f.store.Sessions().FindByInviteID(ctx, healthy.ID); err != nil {
		t.Fatalf("healthy invite has no session: %v", err)
	}

	// once the backoff elapses the failing invites are attempted again
	f.now = f.now.Add(retryBase)
	if n, err := f.svc.ProvisionPending(ctx); err != nil || n != 0 {
		t.Fatalf("retry pass: %d, %v", n, err)
	}
	got := f.store.Invite(failing[0].ID)
	if got.ProvisionAttempts != 2 || !got.ProvisionRetryAt.Equal(f.now.Add(2*retryBase)) {
		t.Fatalf("second failure: attempts=%d retry=%v", got.ProvisionAttempts, got.ProvisionRetryAt)
	}
}

func TestProvisionRetryDelay(t *testing.T) {
	tests := []struct {
		attempts int
		want     time.Duration
	}{
		{0, time.Minute},
		{1, 2 * time.Minute},
		{3, 8 * time.Minute},
		{8, 256 * time.Minute},
		{9, retryMax},
		{100, retryMax},
	}
	for _, tt := range tests {
		if got := provisionRetryDelay(tt.attempts); got != tt.want {
			t.Errorf("provisionRetryDelay(%d) = %v, want %v", tt.attempts, got, tt.want)
		}
	}
}

func TestUpdateActivity(t *testing.T) {
	f := newFixture(t)
	inv, session := f.provisioned(t)
	ctx := context.Background()

	long := strings.Repeat("é", 150)
	at := f.now.Add(time.Minute)
	sender := inv.SenderID
	if err := f.svc.UpdateActivity(ctx, ActivityInput{ConversationRef: session.ConversationRef, MessageText: long, SenderID: &sender, At: at}); err != nil {
		t.Fatalf("update activity: %v", err)
	}
	if err := f.svc.UpdateActivity(ctx, ActivityInput{ConversationRef: session.ConversationRef, MessageText: "short", At: at.Add(time.Minute)}); err != nil {
		t.Fatalf("update activity: %v", err)
	}

	got, err := f.svc.Get(ctx, session.ID, inv.RecipientID)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if got.MessageCount != 2 {
		t.Fatalf("expected 2 messages, got %d", got.MessageCount)
	}
	if got.LastMessagePreview == nil || *got.LastMessagePreview != "short" {
		t.Fatalf("unexpected preview %v", got.LastMessagePreview)
	}
	if !got.LastActivity.Equal(at.Add(time.Minute)) {
		t.Fatalf("expected last activity to advance, got %s", got.LastActivity)
	}
	if got.Status != entities.ChatSessionStatusActive {
		t.Fatal("activity must not change status")
	}

	if preview := entities.TruncatePreview(long); len([]rune(preview)) != entities.MaxPreviewLength {
		t.Fatalf("expected %d characters, got %d", entities.MaxPreviewLength, len([]rune(preview)))
	}

	if err := f.svc.UpdateActivity(ctx, ActivityInput{ConversationRef: "chat_unknown", MessageText: "hi"}); !errors.Is(err, usecaseErrors.ErrChatSessionNotFound) {
		t.Fatalf("expected ErrChatSessionNotFound, got %v", err)
	}
	if err := f.svc.UpdateActivity(ctx, ActivityInput{ConversationRef: "  "}); !errors.Is(err, usecaseErrors.ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput, got %v", err)
	}
}

func TestArchiveAndBlockAreMonotonic(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	inv, session := f.provisioned(t)
	archived, err := f.svc.Archive(ctx, session.ID, inv.SenderID)
	if err != nil || archived.Status != entities.ChatSessionStatusArchived || archived.ArchivedAt == nil {
		t.Fatalf("archive: %+v, %v", archived, err)
	}
	if again, err := f.svc.Archive(ctx, session.ID, inv.RecipientID); err != nil || again.Status != entities.ChatSessionStatusArchived {
		t.Fatalf("repeat archive should be a no-op, got %v", err)
	}
	if _, err := f.svc.Block(ctx, session.ID, inv.RecipientID); !errors.Is(err, usecaseErrors.ErrChatSessionInvalidTransition) {
		t.Fatalf("block after archive: expected invalid transition, got %v", err)
	}

	inv2, session2 := f.provisioned(t)
	blocked, err := f.svc.Block(ctx, session2.ID, inv2.RecipientID)
	if err != nil {
		t.Fatalf("block: %v", err)
	}
	if blocked.BlockedBy == nil || *blocked.BlockedBy != inv2.RecipientID {
		t.Fatal("expected blocker to be recorded")
	}
	if _, err := f.svc.Archive(ctx, session2.ID, inv2.SenderID); !errors.Is(err, usecaseErrors.ErrChatSessionInvalidTransition) {
		t.Fatalf("archive after block: expected invalid transition, got %v", err)
	}

	if _, err := f.svc.Archive(ctx, session2.ID, f.dir.AddUser("outsider")); !errors.Is(err, usecaseErrors.ErrChatSessionNotFound) {
		t.Fatalf("outsider: expected ErrChatSessionNotFound, got %v", err)
	}
}

func TestList(t *testing.T) {
	f := newFixture(t)
	inv, _ := f.provisioned(t)
	f.provisioned(t)

	out, err := f.svc.List(context.Background(), inv.SenderID, ListInput{})
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if out.Total != 1 || len(out.Items) != 1 || out.PageSize != DefaultPageSize {
		t.Fatalf("expected only the user's session, got %+v", out)
	}

	archived := entities.ChatSessionStatusArchived
	out, err = f.svc.List(context.Background(), inv.SenderID, ListInput{Status: &archived})
	if err != nil || out.Total != 0 {
		t.Fatalf("expected no archived sessions, got %+v, %v", out, err)
	}
}

func TestIssueSessionToken(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	inv, session := f.provisioned(t)

	token, err := f.svc.IssueSessionToken(ctx, session.ID, inv.SenderID)
	if err != nil {
		t.Fatalf("issue token: %v", err)
	}
	if token.Token != "token-"+inv.SenderID.String() || !token.ExpiresAt.Equal(f.now.Add(time.Hour)) {
		t.Fatalf("unexpected token %+v", token)
	}

	f.provider.FailNext(1)
	if _, err := f.svc.IssueSessionToken(ctx, session.ID, inv.SenderID); usecaseErrors.KindOf(err) != usecaseErrors.KindExternalProvider {
		t.Fatalf("expected external provider error, got %v", err)
	}

	if _, err := f.svc.Archive(ctx, session.ID, inv.SenderID); err != nil {
		t.Fatalf("archive: %v", err)
	}
	if _, err := f.svc.IssueSessionToken(ctx, session.ID, inv.SenderID); !errors.Is(err, usecaseErrors.ErrChatSessionNotActive) {
		t.Fatalf("expected ErrChatSessionNotActive, got %v", err)
	}
}

type countingSweeper struct{ calls int }

func (s *countingSweeper) SweepExpired(ctx context.Context) (int64, error) {
	s.calls++
	return 0, nil
}

func TestReconciler_RunOnce(t *testing.T) {
	f := newFixture(t)
	f.invite(t, entities.InviteStatusAccepted)
	sweeper := &countingSweeper{}

	r := NewReconciler(f.svc, sweeper, time.Minute, zap.NewNop())
	r.RunOnce(context.Background())

	if sweeper.calls != 1 {
		t.Fatalf("expected one sweep, got %d", sweeper.calls)
	}
	if f.store.SessionCount() != 1 {
		t.Fatalf("expected reconciler to provision the accepted invite, got %d sessions", f.store.SessionCount())
	}
}

func TestReconciler_DisabledStartStop(t *testing.T) {
	r := NewReconciler(newFixture(t).svc, &countingSweeper{}, 0, zap.NewNop())
	r.Start(context.Background())
	r.Stop()
}
