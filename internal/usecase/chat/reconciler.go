package chat

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/PtKartikVashishtha/BecopyMain-sub000/pkg/jobcontext"
)

// passTimeout bounds one reconcile pass
const passTimeout = 2 * time.Minute

// Sweeper cancels expired invites
type Sweeper interface {
	SweepExpired(ctx context.Context) (int64, error)
}

// Reconciler periodically sweeps expired invites and provisions chat sessions
// for accepted invites whose first provisioning attempt failed.
type Reconciler struct {
	chat     Service
	sweeper  Sweeper
	interval time.Duration
	logger   *zap.Logger

	stopChan chan struct{}
	wg       sync.WaitGroup
}

// NewReconciler creates a reconciler. An interval of zero disables it.
func NewReconciler(chat Service, sweeper Sweeper, interval time.Duration, logger *zap.Logger) *Reconciler {
	return &Reconciler{
		chat:     chat,
		sweeper:  sweeper,
		interval: interval,
		logger:   logger,
		stopChan: make(chan struct{}),
	}
}

// Start launches the background loop
func (r *Reconciler) Start(ctx context.Context) {
	if r.interval <= 0 {
		r.logger.Info("chat.reconciler.disabled")
		return
	}

	r.wg.Add(1)
	go func() {
		defer r.wg.Done()

		ticker := time.NewTicker(r.interval)
		defer ticker.Stop()

		r.logger.Info("chat.reconciler.started", zap.Duration("interval", r.interval))
		for {
			select {
			case <-r.stopChan:
				return
			case <-ctx.Done():
				return
			case <-ticker.C:
				r.RunOnce(ctx)
			}
		}
	}()
}

// Stop stops the loop and waits for the current pass to finish
func (r *Reconciler) Stop() {
	select {
	case <-r.stopChan:
	default:
		close(r.stopChan)
	}
	r.wg.Wait()
}

// RunOnce performs a single sweep and provisioning pass
func (r *Reconciler) RunOnce(ctx context.Context) {
	ctx, cancel := jobcontext.Begin(ctx, "chat.reconcile", passTimeout)
	defer cancel()

	err := jobcontext.Run(ctx, func(ctx context.Context) error {
		fields := jobcontext.Fields(ctx)

		if swept, err := r.sweeper.SweepExpired(ctx); err != nil {
			r.logger.Error("chat.reconciler.sweep.failed", append(fields, zap.Error(err))...)
		} else if swept > 0 {
			r.logger.Info("chat.reconciler.swept", append(fields, zap.Int64("count", swept))...)
		}

		provisioned, err := r.chat.ProvisionPending(ctx)
		if err != nil {
			return err
		}
		if provisioned > 0 {
			r.logger.Info("chat.reconciler.provisioned", append(fields, zap.Int("count", provisioned))...)
		}
		return nil
	})
	if err != nil {
		r.logger.Error("chat.reconciler.provision.failed", append(jobcontext.Fields(ctx), zap.Error(err))...)
	}
}
