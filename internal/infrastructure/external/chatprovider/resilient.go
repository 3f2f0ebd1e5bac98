package chatprovider

import (
	"context"
	"errors"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/sony/gobreaker"
	"go.uber.org/zap"

	"github.com/PtKartikVashishtha/BecopyMain-sub000/internal/domain/entities"
	"github.com/PtKartikVashishtha/BecopyMain-sub000/internal/domain/ports"
)

// Resilient retries provider calls with exponential backoff behind a circuit breaker.
// Only the network-bound calls go through it; token signing is local.
type Resilient struct {
	next       ports.ChatProvider
	breaker    *gobreaker.CircuitBreaker
	maxElapsed time.Duration
	initial    time.Duration
	logger     *zap.Logger
}

var _ ports.ChatProvider = (*Resilient)(nil)

// NewResilient wraps a provider
func NewResilient(next ports.ChatProvider, maxElapsed time.Duration, logger *zap.Logger) *Resilient {
	breaker := gobreaker.NewCircuitBreaker(gobreaker.Settings{
		Name:        next.Name(),
		MaxRequests: 1,
		Interval:    time.Minute,
		Timeout:     30 * time.Second,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= 5
		},
		IsSuccessful: func(err error) bool {
			// Rejected requests say nothing about provider health
			var status *StatusError
			return err == nil || (errors.As(err, &status) && !status.Temporary())
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			logger.Warn("chat.provider.breaker",
				zap.String("provider", name),
				zap.String("from", from.String()),
				zap.String("to", to.String()),
			)
		},
	})
	return &Resilient{
		next:       next,
		breaker:    breaker,
		maxElapsed: maxElapsed,
		initial:    500 * time.Millisecond,
		logger:     logger,
	}
}

func (r *Resilient) Name() string { return r.next.Name() }

func (r *Resilient) UpsertUser(ctx context.Context, user ports.ProviderUser) error {
	return r.call(ctx, "upsert_user", func() error {
		return r.next.UpsertUser(ctx, user)
	})
}

func (r *Resilient) UpsertConversation(ctx context.Context, ref string, participants []entities.UserRef, subject string, metadata map[string]string) error {
	return r.call(ctx, "upsert_conversation", func() error {
		return r.next.UpsertConversation(ctx, ref, participants, subject, metadata)
	})
}

func (r *Resilient) IssueSessionToken(ctx context.Context, user entities.UserRef, conversationRef string, ttl time.Duration) (string, error) {
	return r.next.IssueSessionToken(ctx, user, conversationRef, ttl)
}

func (r *Resilient) call(ctx context.Context, op string, fn func() error) error {
	bo := backoff.NewExponentialBackOff()
	bo.InitialInterval = r.initial
	bo.MaxInterval = 5 * time.Second
	bo.MaxElapsedTime = r.maxElapsed

	attempt := 0
	operation := func() error {
		attempt++
		_, err := r.breaker.Execute(func() (interface{}, error) {
			return nil, fn()
		})
		if err == nil {
			return nil
		}
		if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
			return backoff.Permanent(err)
		}
		var status *StatusError
		if errors.As(err, &status) && !status.Temporary() {
			return backoff.Permanent(err)
		}
		r.logger.Debug("chat.provider.retry",
			zap.String("op", op),
			zap.Int("attempt", attempt),
			zap.Error(err),
		)
		return err
	}

	return backoff.Retry(operation, backoff.WithContext(bo, ctx))
}
