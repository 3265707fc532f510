package service

import (
	"context"
	"errors"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/reshetovitsme/tg-channel-relay/internal/modules/message/gateway"
	pipelineDomain "github.com/reshetovitsme/tg-channel-relay/internal/modules/pipeline/domain"
	pipelineRepo "github.com/reshetovitsme/tg-channel-relay/internal/modules/pipeline/repository"
	queueDomain "github.com/reshetovitsme/tg-channel-relay/internal/modules/queue/domain"
	queueRepo "github.com/reshetovitsme/tg-channel-relay/internal/modules/queue/repository"
	"github.com/reshetovitsme/tg-channel-relay/internal/shared/config"
	"github.com/samber/lo"
	"golang.org/x/time/rate"
)

// Result summarises one publishing run
type Result struct {
	Scheduled   int
	Requeued    int
	Dropped     int
	RateLimited bool
}

type outcome int

const (
	outcomeSent outcome = iota
	outcomeSkipped
	outcomeFailed
)

// Service drains the queue into the destination channel as scheduled posts
type Service struct {
	cfg          *config.Config
	gateway      gateway.Gateway
	queueRepo    queueRepo.Repository
	pipelineRepo pipelineRepo.Repository
	limiter      *rate.Limiter
	now          func() time.Time
	sleep        func(ctx context.Context, d time.Duration) error
}

// New creates a new publisher service
func New(cfg *config.Config, gw gateway.Gateway, queue queueRepo.Repository, pipeline pipelineRepo.Repository) *Service {
	return &Service{
		cfg:          cfg,
		gateway:      gw,
		queueRepo:    queue,
		pipelineRepo: pipeline,
		limiter:      rate.NewLimiter(rate.Every(cfg.PostPause()), 1),
		now:          time.Now,
		sleep:        sleepContext,
	}
}

// SetClock overrides the time source
func (s *Service) SetClock(now func() time.Time) {
	s.now = now
}

// SetSleeper overrides how flood waits are slept through
func (s *Service) SetSleeper(sleep func(ctx context.Context, d time.Duration) error) {
	s.sleep = sleep
}

// Run schedules every queued post at an increasing future time. Whatever
// could not be scheduled is written back in its original order; an empty
// queue returns the pipeline to collection.
func (s *Service) Run(ctx context.Context) (Result, error) {
	slog.Info("Entering publishing mode")

	queue, err := s.queueRepo.Load()
	if err != nil {
		return Result{}, err
	}
	published, err := s.pipelineRepo.LoadPublished(s.now())
	if err != nil {
		return Result{}, err
	}

	if len(queue) == 0 {
		slog.Warn("Publishing triggered, but post queue is empty")
		return Result{}, s.pipelineRepo.SaveStatus(pipelineDomain.StatusCollecting, s.now())
	}

	var (
		result    Result
		remaining []queueDomain.Post
	)

loop:
	for i, post := range queue {
		if err := s.limiter.Wait(ctx); err != nil {
			slog.Warn("Publishing interrupted", "error", err)
			remaining = append(remaining, queue[i:]...)
			break
		}

		at := s.now().Add(time.Duration(result.Scheduled+1) * s.cfg.ScheduleInterval())
		out, err := s.publish(ctx, post, at)

		switch {
		case out == outcomeSkipped:
			result.Dropped++

		case out == outcomeSent:
			slog.Info("Post scheduled", "post_id", post.PostID, "schedule_at", at.Format("2006-01-02 15:04"))
			result.Scheduled++
			removeMedia(post)
			if post.Fingerprint != "" {
				published[post.Fingerprint] = s.now().Add(s.cfg.DedupHorizon())
			}

		case errors.Is(err, gateway.ErrCaptionTooLong):
			slog.Error("Caption rejected, dropping post permanently", "post_id", post.PostID, "error", err)
			result.Dropped++
			removeMedia(post)

		default:
			if wait, ok := gateway.AsRateLimit(err); ok {
				slog.Warn("Flood wait triggered, pausing", "post_id", post.PostID, "wait", wait.String())
				result.RateLimited = true
				if err := s.sleep(ctx, wait+s.cfg.FloodWaitMargin()); err != nil {
					slog.Warn("Flood wait interrupted", "error", err)
				}
				remaining = append(remaining, queue[i:]...)
				break loop
			}
			slog.Error("Could not process post, requeueing", "post_id", post.PostID, "error", err)
			remaining = append(remaining, post)
		}
	}

	result.Requeued = len(remaining)

	if err := s.queueRepo.Save(remaining); err != nil {
		return result, err
	}
	if err := s.pipelineRepo.SavePublished(published); err != nil {
		return result, err
	}

	if len(remaining) == 0 {
		slog.Info("All posts scheduled, returning to collection", "scheduled", result.Scheduled)
		return result, s.pipelineRepo.SaveStatus(pipelineDomain.StatusCollecting, s.now())
	}

	slog.Warn("Posts remain in queue, staying in publishing", "remaining", len(remaining))
	return result, nil
}

// publish sends one post. Media files that vanished since collection are
// left out; a post with nothing left to send is skipped for good.
func (s *Service) publish(ctx context.Context, post queueDomain.Post, at time.Time) (outcome, error) {
	dest := s.cfg.DestinationChannel
	hasText := strings.TrimSpace(post.Text) != ""

	if len(post.Media) > 0 {
		surviving := lo.Filter(post.Media, func(path string, _ int) bool {
			_, err := os.Stat(path)
			return err == nil
		})
		if len(surviving) > 0 {
			caption, entities, truncated := truncateFormatted(post.Text, post.Entities, MaxCaptionLength)
			if truncated {
				slog.Warn("Caption too long, truncating", "post_id", post.PostID)
			}
			return sendOutcome(s.gateway.SendMedia(ctx, dest, surviving, caption, entities, at))
		}
		if !hasText {
			slog.Warn("Post media is gone and there is no text, skipping", "post_id", post.PostID)
			return outcomeSkipped, nil
		}
		slog.Warn("Post media is gone, sending text only", "post_id", post.PostID)
	}

	if !hasText {
		slog.Warn("Post has no valid text or media, skipping", "post_id", post.PostID)
		return outcomeSkipped, nil
	}

	text, entities, truncated := truncateFormatted(post.Text, post.Entities, MaxTextLength)
	if truncated {
		slog.Warn("Text too long, truncating", "post_id", post.PostID)
	}
	return sendOutcome(s.gateway.SendText(ctx, dest, text, entities, at))
}

func sendOutcome(err error) (outcome, error) {
	if err != nil {
		return outcomeFailed, err
	}
	return outcomeSent, nil
}

func removeMedia(post queueDomain.Post) {
	for _, path := range post.Media {
		if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
			slog.Warn("Failed to remove media file", "post_id", post.PostID, "path", path, "error", err)
		}
	}
}

func sleepContext(ctx context.Context, d time.Duration) error {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}
