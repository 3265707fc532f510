package service

import (
	"context"
	"log/slog"
	"time"

	channelDomain "github.com/reshetovitsme/tg-channel-relay/internal/modules/channel/domain"
	channelService "github.com/reshetovitsme/tg-channel-relay/internal/modules/channel/service"
	pipelineDomain "github.com/reshetovitsme/tg-channel-relay/internal/modules/pipeline/domain"
	pipelineRepo "github.com/reshetovitsme/tg-channel-relay/internal/modules/pipeline/repository"
	queueDomain "github.com/reshetovitsme/tg-channel-relay/internal/modules/queue/domain"
	queueRepo "github.com/reshetovitsme/tg-channel-relay/internal/modules/queue/repository"
	"github.com/reshetovitsme/tg-channel-relay/internal/shared/config"
)

// Notifier is told when the review window lapsed without a human decision
type Notifier interface {
	OnEscalated(ctx context.Context, posts []queueDomain.Post)
}

// Result describes what a timeout check did
type Result struct {
	Escalated bool
	Restamped bool
	Remaining time.Duration
}

// Service forces the pipeline out of review once the review window has passed
type Service struct {
	cfg          *config.Config
	queueRepo    queueRepo.Repository
	pipelineRepo pipelineRepo.Repository
	notifier     Notifier
	rewriter     *channelService.MentionRewriter
	now          func() time.Time
}

// New creates a new escalator service
func New(cfg *config.Config, queue queueRepo.Repository, pipeline pipelineRepo.Repository, notifier Notifier) *Service {
	return &Service{
		cfg:          cfg,
		queueRepo:    queue,
		pipelineRepo: pipeline,
		notifier:     notifier,
		rewriter:     channelService.NewMentionRewriter(channelDomain.FromIDs(cfg.SourceChannels), DestinationHandle(cfg)),
		now:          time.Now,
	}
}

// SetClock overrides the time source
func (s *Service) SetClock(now func() time.Time) {
	s.now = now
}

// DestinationHandle is the mention that replaces source self-references
func DestinationHandle(cfg *config.Config) string {
	if cfg.DestinationHandle != "" {
		return cfg.DestinationHandle
	}
	return channelDomain.New(cfg.DestinationChannel).Mention()
}

// Run checks the review deadline for the status record read by the driver.
// Only a pending review can escalate, so a second run after escalation is a no-op.
func (s *Service) Run(ctx context.Context, rec pipelineDomain.StatusRecord) (Result, error) {
	if rec.Status != pipelineDomain.StatusPendingReview {
		return Result{}, nil
	}

	now := s.now()
	if !rec.HasTimestamp() {
		// A lost timestamp restarts the window rather than publishing unreviewed posts.
		slog.Warn("Review timestamp missing or unreadable, restarting review window")
		if err := s.pipelineRepo.Restamp(now); err != nil {
			return Result{}, err
		}
		return Result{Restamped: true, Remaining: s.cfg.ReviewTimeout()}, nil
	}

	elapsed := now.Sub(rec.Since)
	if elapsed <= s.cfg.ReviewTimeout() {
		remaining := s.cfg.ReviewTimeout() - elapsed
		slog.Info("Waiting for review", "remaining", remaining.Round(time.Minute).String())
		return Result{Remaining: remaining}, nil
	}

	slog.Warn("Review window expired, escalating to publishing", "elapsed", elapsed.Round(time.Minute).String())

	queue, err := s.queueRepo.Load()
	if err != nil {
		return Result{}, err
	}
	rewritten := 0
	for i := range queue {
		text, entities := s.rewriter.RewriteWithEntities(queue[i].Text, queue[i].Entities)
		if text != queue[i].Text {
			queue[i].Text, queue[i].Entities = text, entities
			rewritten++
		}
	}
	slog.Info("Rewrote source mentions", "posts", rewritten, "handle", DestinationHandle(s.cfg))

	if err := s.queueRepo.Save(queue); err != nil {
		return Result{}, err
	}
	if err := s.pipelineRepo.SaveStatus(pipelineDomain.StatusReadyToPublish, now); err != nil {
		return Result{}, err
	}

	if s.notifier != nil {
		s.notifier.OnEscalated(ctx, queue)
	}
	return Result{Escalated: true}, nil
}
