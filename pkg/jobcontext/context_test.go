package jobcontext

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"
)

func TestBegin_AttachesMetadata(t *testing.T) {
	ctx, cancel := Begin(context.Background(), "reconcile", time.Minute)
	defer cancel()

	md := FromContext(ctx)
	if md == nil {
		t.Fatal("expected metadata")
	}
	if md.JobType != "reconcile" {
		t.Errorf("JobType = %q, want reconcile", md.JobType)
	}
	if _, ok := ctx.Deadline(); !ok {
		t.Error("expected a deadline")
	}
	if len(Fields(ctx)) != 2 {
		t.Errorf("Fields = %v", Fields(ctx))
	}
	if FromContext(context.Background()) != nil {
		t.Error("plain context should carry no metadata")
	}
}

func TestRun(t *testing.T) {
	boom := errors.New("boom")
	if err := Run(context.Background(), func(context.Context) error { return boom }); !errors.Is(err, boom) {
		t.Errorf("err = %v, want boom", err)
	}

	err := Run(context.Background(), func(context.Context) error { panic("bad") })
	if err == nil || !strings.Contains(err.Error(), "panic recovered") {
		t.Errorf("err = %v, want recovered panic", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	called := false
	if err := Run(ctx, func(context.Context) error { called = true; return nil }); err == nil || called {
		t.Errorf("cancelled run: err = %v called = %v", err, called)
	}
}
