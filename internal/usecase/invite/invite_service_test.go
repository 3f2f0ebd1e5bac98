package invite

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/PtKartikVashishtha/BecopyMain-sub000/internal/domain/entities"
	"github.com/PtKartikVashishtha/BecopyMain-sub000/internal/domain/ports"
	"github.com/PtKartikVashishtha/BecopyMain-sub000/internal/domain/repositories"
	usecaseErrors "github.com/PtKartikVashishtha/BecopyMain-sub000/internal/usecase/errors"
	"github.com/PtKartikVashishtha/BecopyMain-sub000/internal/usecase/usecasetest"
)

const week = 7 * 24 * time.Hour

type fixture struct {
	svc      *InviteService
	store    *usecasetest.Store
	dir      *usecasetest.Directory
	notifier *usecasetest.RecordingNotifier
	now      time.Time
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	f := &fixture{
		store:    usecasetest.NewStore(),
		dir:      usecasetest.NewDirectory(),
		notifier: &usecasetest.RecordingNotifier{},
		now:      time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC),
	}
	policy := Policy{Expiry: week, MessageMin: 5, MessageMax: 500}
	f.svc = NewInviteService(f.store.Invites(), f.dir, f.notifier, policy, zap.NewNop()).
		WithClock(func() time.Time { return f.now })
	return f
}

func (f *fixture) send(t *testing.T, from, to entities.UserRef) *entities.Invite {
	t.Helper()
	inv, err := f.svc.Create(context.Background(), CreateInput{SenderID: from, RecipientID: to, Message: "hello there"})
	if err != nil {
		t.Fatalf("create invite: %v", err)
	}
	return inv
}

func TestCreate_PendingWithWeekExpiry_ThenDuplicate(t *testing.T) {
	f := newFixture(t)
	x, y := f.dir.AddUser("x"), f.dir.AddUser("y")

	inv, err := f.svc.Create(context.Background(), CreateInput{SenderID: x, RecipientID: y, Message: "  0123456789  "})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if inv.Status != entities.InviteStatusPending {
		t.Fatalf("expected pending, got %s", inv.Status)
	}
	if inv.Message != "0123456789" {
		t.Fatalf("expected trimmed message, got %q", inv.Message)
	}
	if !inv.ExpiresAt.Equal(inv.CreatedAt.Add(week)) {
		t.Fatalf("expected expiry one week after creation, got %s", inv.ExpiresAt.Sub(inv.CreatedAt))
	}

	_, err = f.svc.Create(context.Background(), CreateInput{SenderID: x, RecipientID: y, Message: "again please"})
	if !errors.Is(err, usecaseErrors.ErrDuplicateInvite) {
		t.Fatalf("expected ErrDuplicateInvite, got %v", err)
	}

	_, err = f.svc.Create(context.Background(), CreateInput{SenderID: y, RecipientID: x, Message: "other way round"})
	if !errors.Is(err, usecaseErrors.ErrDuplicateInvite) {
		t.Fatalf("expected ErrDuplicateInvite for reverse direction, got %v", err)
	}

	events := f.notifier.Events()
	if len(events) != 1 || events[0].Name != ports.EventInviteReceived || events[0].To != y {
		t.Fatalf("expected a single invite-received to recipient, got %+v", events)
	}
}

func TestCreate_Validation(t *testing.T) {
	f := newFixture(t)
	x, y := f.dir.AddUser("x"), f.dir.AddUser("y")

	inactive := f.dir.AddUser("inactive")
	f.dir.Put(&entities.DirectoryUser{ID: inactive, Name: "inactive", IsActive: false})
	deleted := f.dir.AddUser("deleted")
	f.dir.Put(&entities.DirectoryUser{ID: deleted, Name: "deleted", IsActive: true, IsDeleted: true})

	long := make([]byte, 501)
	for i := range long {
		long[i] = 'a'
	}

	tests := []struct {
		name     string
		input    CreateInput
		wantKind usecaseErrors.Kind
		wantErr  error
	}{
		{"message too short", CreateInput{SenderID: x, RecipientID: y, Message: "  hey  "}, usecaseErrors.KindValidation, usecaseErrors.ErrInvalidMessage},
		{"message too long", CreateInput{SenderID: x, RecipientID: y, Message: string(long)}, usecaseErrors.KindValidation, usecaseErrors.ErrInvalidMessage},
		{"self invite", CreateInput{SenderID: x, RecipientID: x, Message: "hello me"}, usecaseErrors.KindValidation, usecaseErrors.ErrSelfInvite},
		{"missing recipient", CreateInput{SenderID: x, Message: "hello nobody"}, usecaseErrors.KindValidation, usecaseErrors.ErrInvalidInput},
		{"unknown recipient", CreateInput{SenderID: x, RecipientID: entities.UserRefFromUUID(uuid.New()), Message: "hello ghost"}, usecaseErrors.KindNotFound, usecaseErrors.ErrUserNotFound},
		{"inactive recipient", CreateInput{SenderID: x, RecipientID: inactive, Message: "hello there"}, usecaseErrors.KindValidation, usecaseErrors.ErrRecipientUnavailable},
		{"deleted recipient", CreateInput{SenderID: x, RecipientID: deleted, Message: "hello there"}, usecaseErrors.KindValidation, usecaseErrors.ErrRecipientUnavailable},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := f.svc.Create(context.Background(), tt.input)
			if !errors.Is(err, tt.wantErr) {
				t.Fatalf("expected %v, got %v", tt.wantErr, err)
			}
			if kind := usecaseErrors.KindOf(err); kind != tt.wantKind {
				t.Fatalf("expected kind %s, got %s", tt.wantKind, kind)
			}
		})
	}

	if n := len(f.notifier.Events()); n != 0 {
		t.Fatalf("failed creates must not notify, got %d events", n)
	}
}

func TestCreate_ExpiredPendingDoesNotBlock(t *testing.T) {
	f := newFixture(t)
	x, y := f.dir.AddUser("x"), f.dir.AddUser("y")

	old := f.send(t, x, y)
	f.now = f.now.Add(8 * 24 * time.Hour)

	fresh, err := f.svc.Create(context.Background(), CreateInput{SenderID: y, RecipientID: x, Message: "my turn now"})
	if err != nil {
		t.Fatalf("expected create to succeed after expiry, got %v", err)
	}
	if got := f.store.InviteStatus(old.ID); got != entities.InviteStatusCancelled {
		t.Fatalf("expected expired invite to be cancelled, got %s", got)
	}
	if f.store.CountPending(x, y) != 1 || f.store.InviteStatus(fresh.ID) != entities.InviteStatusPending {
		t.Fatal("expected exactly the fresh invite to be pending")
	}
}

func TestCreate_ConcurrentSendersKeepSinglePending(t *testing.T) {
	f := newFixture(t)
	x, y := f.dir.AddUser("x"), f.dir.AddUser("y")

	const workers = 20
	var (
		wg        sync.WaitGroup
		mu        sync.Mutex
		succeeded int
		dupes     int
	)
	for i := 0; i < workers; i++ {
		from, to := x, y
		if i%2 == 1 {
			from, to = y, x
		}
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := f.svc.Create(context.Background(), CreateInput{SenderID: from, RecipientID: to, Message: "race you"})
			mu.Lock()
			defer mu.Unlock()
			switch {
			case err == nil:
				succeeded++
			case errors.Is(err, usecaseErrors.ErrDuplicateInvite):
				dupes++
			default:
				t.Errorf("unexpected error: %v", err)
			}
		}()
	}
	wg.Wait()

	if succeeded != 1 || dupes != workers-1 {
		t.Fatalf("expected 1 success and %d duplicates, got %d and %d", workers-1, succeeded, dupes)
	}
	if n := f.store.CountPending(x, y); n != 1 {
		t.Fatalf("expected exactly one pending invite, got %d", n)
	}
}

func TestAccept_SetsAcceptedAtAndNotifiesSender(t *testing.T) {
	f := newFixture(t)
	x, y := f.dir.AddUser("x"), f.dir.AddUser("y")
	inv := f.send(t, x, y)

	f.now = f.now.Add(time.Hour)
	accepted, err := f.svc.Accept(context.Background(), inv.ID, y)
	if err != nil {
		t.Fatalf("accept: %v", err)
	}
	if accepted.Status != entities.InviteStatusAccepted || accepted.AcceptedAt == nil || !accepted.AcceptedAt.Equal(f.now) {
		t.Fatalf("unexpected accepted invite: %+v", accepted)
	}
	if accepted.DeclinedAt != nil || accepted.CancelledAt != nil {
		t.Fatal("only acceptedAt may be set")
	}

	events := f.notifier.Events()
	if len(events) != 2 {
		t.Fatalf("expected 2 events, got %+v", events)
	}
	if events[1].Name != ports.EventInviteAccepted || events[1].To != x {
		t.Fatalf("expected invite-accepted to sender, got %+v", events[1])
	}
}

func TestRespond_WrongActor(t *testing.T) {
	f := newFixture(t)
	x, y, z := f.dir.AddUser("x"), f.dir.AddUser("y"), f.dir.AddUser("z")
	inv := f.send(t, x, y)

	if _, err := f.svc.Accept(context.Background(), inv.ID, x); !errors.Is(err, usecaseErrors.ErrNotInviteRecipient) {
		t.Fatalf("sender accepting: expected ErrNotInviteRecipient, got %v", err)
	}
	if _, err := f.svc.Decline(context.Background(), inv.ID, z); !errors.Is(err, usecaseErrors.ErrNotInviteRecipient) {
		t.Fatalf("stranger declining: expected ErrNotInviteRecipient, got %v", err)
	}
	if _, err := f.svc.Cancel(context.Background(), inv.ID, y); !errors.Is(err, usecaseErrors.ErrNotInviteSender) {
		t.Fatalf("recipient cancelling: expected ErrNotInviteSender, got %v", err)
	}
	if _, err := f.svc.Accept(context.Background(), uuid.New(), y); !errors.Is(err, usecaseErrors.ErrInviteNotFound) {
		t.Fatalf("missing invite: expected ErrInviteNotFound, got %v", err)
	}
	if f.store.InviteStatus(inv.ID) != entities.InviteStatusPending {
		t.Fatal("rejected calls must not change the invite")
	}
}

func TestTerminalStatesRejectFurtherTransitions(t *testing.T) {
	finishers := map[entities.InviteStatus]func(f *fixture, inv *entities.Invite) error{
		entities.InviteStatusAccepted: func(f *fixture, inv *entities.Invite) error {
			_, err := f.svc.Accept(context.Background(), inv.ID, inv.RecipientID)
			return err
		},
		entities.InviteStatusDeclined: func(f *fixture, inv *entities.Invite) error {
			_, err := f.svc.Decline(context.Background(), inv.ID, inv.RecipientID)
			return err
		},
		entities.InviteStatusCancelled: func(f *fixture, inv *entities.Invite) error {
			_, err := f.svc.Cancel(context.Background(), inv.ID, inv.SenderID)
			return err
		},
	}

	for status, finish := range finishers {
		t.Run(string(status), func(t *testing.T) {
			f := newFixture(t)
			x, y := f.dir.AddUser("x"), f.dir.AddUser("y")
			inv := f.send(t, x, y)
			if err := finish(f, inv); err != nil {
				t.Fatalf("first transition: %v", err)
			}

			for next, again := range finishers {
				err := again(f, inv)
				if usecaseErrors.KindOf(err) != usecaseErrors.KindInvalidTransition {
					t.Fatalf("%s after %s: expected invalid transition, got %v", next, status, err)
				}
			}
			if got := f.store.InviteStatus(inv.ID); got != status {
				t.Fatalf("expected status to stay %s, got %s", status, got)
			}
		})
	}
}

func TestAcceptDecline_ConcurrentExactlyOneWins(t *testing.T) {
	for round := 0; round < 25; round++ {
		f := newFixture(t)
		x, y := f.dir.AddUser("x"), f.dir.AddUser("y")
		inv := f.send(t, x, y)

		var wg sync.WaitGroup
		results := make([]error, 2)
		wg.Add(2)
		go func() {
			defer wg.Done()
			_, results[0] = f.svc.Accept(context.Background(), inv.ID, y)
		}()
		go func() {
			defer wg.Done()
			_, results[1] = f.svc.Decline(context.Background(), inv.ID, y)
		}()
		wg.Wait()

		var winner entities.InviteStatus
		losers := 0
		for i, err := range results {
			switch {
			case err == nil && i == 0:
				winner = entities.InviteStatusAccepted
			case err == nil:
				winner = entities.InviteStatusDeclined
			case errors.Is(err, usecaseErrors.ErrInviteNotFoundOrAlreadyProcessed):
				losers++
			default:
				t.Fatalf("unexpected error: %v", err)
			}
		}
		if losers != 1 || winner == "" {
			t.Fatalf("expected exactly one winner, got results %v", results)
		}
		if got := f.store.InviteStatus(inv.ID); got != winner {
			t.Fatalf("stored status %s does not match winner %s", got, winner)
		}
	}
}

func TestAccept_ExpiredInviteIsCancelled(t *testing.T) {
	f := newFixture(t)
	x, y := f.dir.AddUser("x"), f.dir.AddUser("y")
	inv := f.send(t, x, y)

	f.now = f.now.Add(week + time.Minute)

	if _, err := f.svc.Accept(context.Background(), inv.ID, y); !errors.Is(err, usecaseErrors.ErrInviteExpired) {
		t.Fatalf("expected ErrInviteExpired, got %v", err)
	}
	if usecaseErrors.KindOf(usecaseErrors.ErrInviteExpired) != usecaseErrors.KindInvalidTransition {
		t.Fatal("expired must be an invalid transition")
	}
	if got := f.store.InviteStatus(inv.ID); got != entities.InviteStatusCancelled {
		t.Fatalf("expected cancelled, got %s", got)
	}
	if _, err := f.svc.Decline(context.Background(), inv.ID, y); !errors.Is(err, usecaseErrors.ErrInviteNotFoundOrAlreadyProcessed) {
		t.Fatalf("expected already processed after expiry, got %v", err)
	}
}

func TestCancel_NotifiesRecipient(t *testing.T) {
	f := newFixture(t)
	x, y := f.dir.AddUser("x"), f.dir.AddUser("y")
	inv := f.send(t, x, y)

	cancelled, err := f.svc.Cancel(context.Background(), inv.ID, x)
	if err != nil {
		t.Fatalf("cancel: %v", err)
	}
	if cancelled.CancelledAt == nil {
		t.Fatal("expected cancelledAt")
	}

	events := f.notifier.Events()
	last := events[len(events)-1]
	if last.Name != ports.EventInviteCancelled || last.To != y {
		t.Fatalf("expected invite-cancelled to recipient, got %+v", last)
	}
}

func TestCancel_ExpiredInviteIsSweptWithoutNotification(t *testing.T) {
	f := newFixture(t)
	x, y := f.dir.AddUser("x"), f.dir.AddUser("y")
	inv := f.send(t, x, y)
	sent := len(f.notifier.Events())

	f.now = f.now.Add(week + time.Minute)

	cancelled, err := f.svc.Cancel(context.Background(), inv.ID, x)
	if err != nil {
		t.Fatalf("cancel: %v", err)
	}
	if cancelled.Status != entities.InviteStatusCancelled || cancelled.CancelledAt == nil || !cancelled.CancelledAt.Equal(f.now) {
		t.Fatalf("expected the invite cancelled by the sweep, got %s at %v", cancelled.Status, cancelled.CancelledAt)
	}
	if got := f.store.InviteStatus(inv.ID); got != entities.InviteStatusCancelled {
		t.Fatalf("expected stored cancelled, got %s", got)
	}
	if events := f.notifier.Events(); len(events) != sent {
		t.Fatalf("expired invite must not notify, got %+v", events[sent:])
	}

	// already swept: a second attempt is an ordinary processed invite
	if _, err := f.svc.Cancel(context.Background(), inv.ID, x); !errors.Is(err, usecaseErrors.ErrInviteNotFoundOrAlreadyProcessed) {
		t.Fatalf("expected already processed, got %v", err)
	}
}

// staleFirstRead serves one outdated copy of an invite before reading through
type staleFirstRead struct {
	repositories.InviteRepository
	stale *entities.Invite
}

func (r *staleFirstRead) FindByID(ctx context.Context, id uuid.UUID) (*entities.Invite, error) {
	if r.stale != nil && r.stale.ID == id {
		cp := *r.stale
		r.stale = nil
		return &cp, nil
	}
	return r.InviteRepository.FindByID(ctx, id)
}

func TestCancel_ExpiredInviteSweptConcurrentlyIsReturned(t *testing.T) {
	f := newFixture(t)
	x, y := f.dir.AddUser("x"), f.dir.AddUser("y")
	inv := f.send(t, x, y)
	sent := len(f.notifier.Events())

	f.now = f.now.Add(week + time.Minute)
	if n, err := f.svc.SweepExpired(context.Background()); err != nil || n != 1 {
		t.Fatalf("sweep: %d, %v", n, err)
	}

	repo := &staleFirstRead{InviteRepository: f.store.Invites(), stale: inv}
	svc := NewInviteService(repo, f.dir, f.notifier, Policy{Expiry: week, MessageMin: 5, MessageMax: 500}, zap.NewNop()).
		WithClock(func() time.Time { return f.now })

	cancelled, err := svc.Cancel(context.Background(), inv.ID, x)
	if err != nil {
		t.Fatalf("cancel: %v", err)
	}
	if cancelled.Status != entities.InviteStatusCancelled {
		t.Fatalf("expected the swept invite, got %s", cancelled.Status)
	}
	if len(f.notifier.Events()) != sent {
		t.Fatal("expired invite must not notify")
	}
}

func TestListReceived_SweepsExpired(t *testing.T) {
	f := newFixture(t)
	x, y := f.dir.AddUser("x"), f.dir.AddUser("y")

	stale, _ := entities.NewInvite(x, y, "from last week", f.now.Add(-8*24*time.Hour), week)
	f.store.PutInvite(stale)

	pending := entities.InviteStatusPending
	out, err := f.svc.ListReceived(context.Background(), y, ListInput{Status: &pending})
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if out.Total != 0 || len(out.Items) != 0 {
		t.Fatalf("expected no pending invites, got %d", out.Total)
	}
	if got := f.store.InviteStatus(stale.ID); got != entities.InviteStatusCancelled {
		t.Fatalf("expected stale invite swept to cancelled, got %s", got)
	}
}

func TestListSent_NewestFirstAndPaging(t *testing.T) {
	f := newFixture(t)
	x := f.dir.AddUser("x")

	var ids []uuid.UUID
	for i := 0; i < 3; i++ {
		inv := f.send(t, x, f.dir.AddUser("r"))
		ids = append(ids, inv.ID)
		f.now = f.now.Add(time.Minute)
	}

	out, err := f.svc.ListSent(context.Background(), x, ListInput{Page: 1, PageSize: 2})
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if out.Total != 3 || len(out.Items) != 2 {
		t.Fatalf("expected 2 of 3, got %d of %d", len(out.Items), out.Total)
	}
	if out.Items[0].ID != ids[2] || out.Items[1].ID != ids[1] {
		t.Fatal("expected newest first")
	}

	out, err = f.svc.ListSent(context.Background(), x, ListInput{PageSize: 1000})
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if out.Page != 1 || out.PageSize != MaxPageSize {
		t.Fatalf("expected normalized paging, got page %d size %d", out.Page, out.PageSize)
	}

	bogus := entities.InviteStatus("expired")
	if _, err := f.svc.ListSent(context.Background(), x, ListInput{Status: &bogus}); !errors.Is(err, usecaseErrors.ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput for unknown status, got %v", err)
	}
}

func TestStats(t *testing.T) {
	f := newFixture(t)
	x, y, z := f.dir.AddUser("x"), f.dir.AddUser("y"), f.dir.AddUser("z")

	a := f.send(t, x, y)
	f.send(t, x, z)
	f.send(t, z, y)
	if _, err := f.svc.Accept(context.Background(), a.ID, y); err != nil {
		t.Fatalf("accept: %v", err)
	}

	stats, err := f.svc.Stats(context.Background(), y)
	if err != nil {
		t.Fatalf("stats: %v", err)
	}
	if stats.Received.Accepted != 1 || stats.Received.Pending != 1 || stats.Sent.Pending != 0 {
		t.Fatalf("unexpected stats %+v", stats)
	}

	f.now = f.now.Add(2 * week)
	stats, err = f.svc.Stats(context.Background(), x)
	if err != nil {
		t.Fatalf("stats: %v", err)
	}
	if stats.Sent.Pending != 0 || stats.Sent.Cancelled != 1 || stats.Sent.Accepted != 1 {
		t.Fatalf("expected expired invite counted as cancelled, got %+v", stats.Sent)
	}
}

func TestCheckEligibility(t *testing.T) {
	f := newFixture(t)
	a, b, c := f.dir.AddUser("a"), f.dir.AddUser("b"), f.dir.AddUser("c")
	ctx := context.Background()

	got, err := f.svc.CheckEligibility(ctx, a, b)
	if err != nil || !got.CanSendInvite {
		t.Fatalf("expected eligible with no invites, got %+v, %v", got, err)
	}

	inv := f.send(t, b, a)
	got, err = f.svc.CheckEligibility(ctx, a, b)
	if err != nil {
		t.Fatalf("eligibility: %v", err)
	}
	if got.CanSendInvite || got.Direction != entities.DirectionReceived || got.ExistingInviteID == nil || *got.ExistingInviteID != inv.ID {
		t.Fatalf("expected blocked by received invite, got %+v", got)
	}

	got, _ = f.svc.CheckEligibility(ctx, b, a)
	if got.CanSendInvite || got.Direction != entities.DirectionSent {
		t.Fatalf("expected blocked by sent invite, got %+v", got)
	}

	got, _ = f.svc.CheckEligibility(ctx, a, a)
	if got.CanSendInvite || got.Reason != ReasonSelf {
		t.Fatalf("expected self reason, got %+v", got)
	}

	got, _ = f.svc.CheckEligibility(ctx, a, entities.UserRefFromUUID(uuid.New()))
	if got.CanSendInvite || got.Reason != ReasonRecipientNotFound {
		t.Fatalf("expected recipient_not_found, got %+v", got)
	}

	f.send(t, c, a)
	f.now = f.now.Add(week + time.Hour)
	got, _ = f.svc.CheckEligibility(ctx, a, c)
	if !got.CanSendInvite {
		t.Fatalf("expired invite must not block, got %+v", got)
	}
	if f.store.CountPending(a, c) != 1 {
		t.Fatal("eligibility check must not sweep")
	}
}

func TestSweepExpired(t *testing.T) {
	f := newFixture(t)
	x, y, z := f.dir.AddUser("x"), f.dir.AddUser("y"), f.dir.AddUser("z")
	f.send(t, x, y)
	f.send(t, x, z)

	f.now = f.now.Add(week + time.Second)
	n, err := f.svc.SweepExpired(context.Background())
	if err != nil {
		t.Fatalf("sweep: %v", err)
	}
	if n != 2 {
		t.Fatalf("expected 2 swept, got %d", n)
	}
	if n, _ := f.svc.SweepExpired(context.Background()); n != 0 {
		t.Fatalf("second sweep should be a no-op, got %d", n)
	}
}
