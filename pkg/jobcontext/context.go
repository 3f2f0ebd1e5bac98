package jobcontext

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

type keyContext string

const keyJob keyContext = "job"

// Metadata describes one run of a background job
type Metadata struct {
	JobID     uuid.UUID
	JobType   string
	StartTime time.Time
}

// Begin derives a context for one job run, bounded by timeout
func Begin(parent context.Context, jobType string, timeout time.Duration) (context.Context, context.CancelFunc) {
	ctx, cancel := context.WithTimeout(parent, timeout)
	ctx = context.WithValue(ctx, keyJob, &Metadata{
		JobID:     uuid.New(),
		JobType:   jobType,
		StartTime: time.Now(),
	})
	return ctx, cancel
}

// FromContext returns the job metadata, or nil outside a job
func FromContext(ctx context.Context) *Metadata {
	md, _ := ctx.Value(keyJob).(*Metadata)
	return md
}

// Fields renders the job metadata as log fields
func Fields(ctx context.Context) []zap.Field {
	md := FromContext(ctx)
	if md == nil {
		return nil
	}
	return []zap.Field{
		zap.String("job_id", md.JobID.String()),
		zap.String("job_type", md.JobType),
	}
}

// Run executes fn, turning a panic into an error so one bad run cannot kill the worker
func Run(ctx context.Context, fn func(context.Context) error) (err error) {
	if ctx.Err() != nil {
		return fmt.Errorf("context cancelled before job execution: %w", ctx.Err())
	}
	defer func() {
		if p := recover(); p != nil {
			err = fmt.Errorf("panic recovered: %v", p)
		}
	}()
	return fn(ctx)
}
