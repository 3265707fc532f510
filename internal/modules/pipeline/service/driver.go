package service

import (
	"context"
	"errors"
	"log/slog"
	"time"

	collectorService "github.com/reshetovitsme/tg-channel-relay/internal/modules/collector/service"
	escalatorService "github.com/reshetovitsme/tg-channel-relay/internal/modules/escalator/service"
	"github.com/reshetovitsme/tg-channel-relay/internal/modules/pipeline/domain"
	pipelineRepo "github.com/reshetovitsme/tg-channel-relay/internal/modules/pipeline/repository"
	publisherService "github.com/reshetovitsme/tg-channel-relay/internal/modules/publisher/service"
	sharedErrors "github.com/reshetovitsme/tg-channel-relay/internal/shared/errors"
	"github.com/samber/oops"
)

// DefaultLockWait bounds how long a run waits for a previous one to finish
const DefaultLockWait = 10 * time.Second

// Locker guards the state directory for the duration of a run
type Locker interface {
	Lock(ctx context.Context, wait time.Duration) (func() error, error)
}

// Collector runs the collection phase
type Collector interface {
	Run(ctx context.Context) (collectorService.Result, error)
}

// Escalator runs the review timeout check
type Escalator interface {
	Run(ctx context.Context, rec domain.StatusRecord) (escalatorService.Result, error)
}

// Publisher runs the publishing phase
type Publisher interface {
	Run(ctx context.Context) (publisherService.Result, error)
}

// Driver routes one invocation to exactly one phase based on the persisted status
type Driver struct {
	locker       Locker
	pipelineRepo pipelineRepo.Repository
	collector    Collector
	escalator    Escalator
	publisher    Publisher
	lockWait     time.Duration
}

// NewDriver creates a new pipeline driver
func NewDriver(locker Locker, pipeline pipelineRepo.Repository, collector Collector, escalator Escalator, publisher Publisher) *Driver {
	return &Driver{
		locker:       locker,
		pipelineRepo: pipeline,
		collector:    collector,
		escalator:    escalator,
		publisher:    publisher,
		lockWait:     DefaultLockWait,
	}
}

// SetLockWait overrides how long Run waits for the state lock
func (d *Driver) SetLockWait(wait time.Duration) {
	d.lockWait = wait
}

// Run reads the status once and performs the matching phase. A run that
// finds the state locked by another process does nothing.
func (d *Driver) Run(ctx context.Context) (err error) {
	unlock, err := d.locker.Lock(ctx, d.lockWait)
	if errors.Is(err, sharedErrors.ErrLocked) {
		slog.Warn("Another run holds the state lock, skipping this invocation")
		return nil
	}
	if err != nil {
		return err
	}
	defer func() {
		if uerr := unlock(); uerr != nil && err == nil {
			err = oops.With("context", "failed to release state lock").Wrap(uerr)
		}
	}()

	rec, err := d.pipelineRepo.LoadStatus()
	if err != nil {
		return oops.With("context", "failed to load pipeline status").Wrap(err)
	}
	slog.Info("Pipeline status loaded", "status", rec.Status.String())

	switch rec.Status {
	case domain.StatusCollecting:
		res, err := d.collector.Run(ctx)
		if err != nil {
			return oops.With("phase", "collect").Wrap(err)
		}
		slog.Info("Collection finished", "queued", res.Queued, "failed_channels", res.FailedChannels)

	case domain.StatusPendingReview:
		res, err := d.escalator.Run(ctx, rec)
		if err != nil {
			return oops.With("phase", "escalate").Wrap(err)
		}
		if res.Escalated {
			slog.Info("Review window elapsed, queue handed to publishing")
		}

	case domain.StatusReadyToPublish:
		res, err := d.publisher.Run(ctx)
		if err != nil {
			return oops.With("phase", "publish").Wrap(err)
		}
		slog.Info("Publishing finished",
			"scheduled", res.Scheduled,
			"requeued", res.Requeued,
			"dropped", res.Dropped,
			"rate_limited", res.RateLimited,
		)

	default:
		slog.Warn("Unknown pipeline status, nothing to do", "status", int(rec.Status))
	}

	return nil
}
