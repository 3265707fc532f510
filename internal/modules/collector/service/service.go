package service

import (
	"context"
	"log/slog"
	"strings"
	"time"

	channelDomain "github.com/reshetovitsme/tg-channel-relay/internal/modules/channel/domain"
	channelService "github.com/reshetovitsme/tg-channel-relay/internal/modules/channel/service"
	messageDomain "github.com/reshetovitsme/tg-channel-relay/internal/modules/message/domain"
	"github.com/reshetovitsme/tg-channel-relay/internal/modules/message/gateway"
	messageService "github.com/reshetovitsme/tg-channel-relay/internal/modules/message/service"
	pipelineDomain "github.com/reshetovitsme/tg-channel-relay/internal/modules/pipeline/domain"
	pipelineRepo "github.com/reshetovitsme/tg-channel-relay/internal/modules/pipeline/repository"
	queueDomain "github.com/reshetovitsme/tg-channel-relay/internal/modules/queue/domain"
	queueRepo "github.com/reshetovitsme/tg-channel-relay/internal/modules/queue/repository"
	"github.com/reshetovitsme/tg-channel-relay/internal/shared/config"
	"github.com/samber/lo"
	"github.com/samber/oops"
)

// Reviewer is told when freshly collected posts enter the review window
type Reviewer interface {
	OnPendingReview(ctx context.Context, posts []queueDomain.Post, deadline time.Time)
}

// Result summarises one collection run
type Result struct {
	Queued         int
	FailedChannels int
}

// Service pulls new posts from the source channels into the publish queue
type Service struct {
	cfg          *config.Config
	gateway      gateway.Gateway
	queueRepo    queueRepo.Repository
	pipelineRepo pipelineRepo.Repository
	reviewer     Reviewer
	sources      []channelDomain.Channel
	now          func() time.Time
}

// New creates a new collector service
func New(cfg *config.Config, gw gateway.Gateway, queue queueRepo.Repository, pipeline pipelineRepo.Repository, reviewer Reviewer) *Service {
	return &Service{
		cfg:          cfg,
		gateway:      gw,
		queueRepo:    queue,
		pipelineRepo: pipeline,
		reviewer:     reviewer,
		sources:      channelDomain.FromIDs(cfg.SourceChannels),
		now:          time.Now,
	}
}

// SetClock overrides the time source
func (s *Service) SetClock(now func() time.Time) {
	s.now = now
}

// Run collects every source channel once. Posts and watermarks are persisted
// together at the end; the status moves to pending review only if something
// new was queued.
func (s *Service) Run(ctx context.Context) (Result, error) {
	slog.Info("Entering collection mode", "channels", len(s.sources))

	watermarks, err := s.pipelineRepo.LoadWatermarks()
	if err != nil {
		return Result{}, err
	}
	queue, err := s.queueRepo.Load()
	if err != nil {
		return Result{}, err
	}
	published, err := s.pipelineRepo.LoadPublished(s.now())
	if err != nil {
		return Result{}, err
	}

	known := make(map[string]bool, len(queue)+len(published))
	for _, p := range queue {
		if p.Fingerprint != "" {
			known[p.Fingerprint] = true
		}
	}
	for fp := range published {
		known[fp] = true
	}

	var result Result
	advanced := false
	for _, ch := range s.sources {
		if ctx.Err() != nil {
			slog.Warn("Collection interrupted", "error", ctx.Err())
			break
		}

		last := watermarks[ch.ID]
		posts, maxID, err := s.collectChannel(ctx, ch, last, known)
		if err != nil {
			slog.Error("Error processing channel", "channel", ch.ID, "error", err)
			result.FailedChannels++
			continue
		}

		queue = append(queue, posts...)
		result.Queued += len(posts)
		if maxID > last {
			watermarks[ch.ID] = maxID
			advanced = true
		}
	}

	if result.Queued == 0 {
		slog.Info("No new posts found")
		if advanced {
			if err := s.pipelineRepo.SaveWatermarks(watermarks); err != nil {
				return result, err
			}
		}
		return result, nil
	}

	slog.Info("Collected new posts", "count", result.Queued, "queue_size", len(queue))
	if err := s.queueRepo.Save(queue); err != nil {
		return result, err
	}
	if err := s.pipelineRepo.SaveWatermarks(watermarks); err != nil {
		return result, err
	}

	now := s.now()
	if err := s.pipelineRepo.SaveStatus(pipelineDomain.StatusPendingReview, now); err != nil {
		return result, err
	}

	if s.reviewer != nil {
		s.reviewer.OnPendingReview(ctx, queue, now.Add(s.cfg.ReviewTimeout()))
	}
	return result, nil
}

// collectChannel turns one fetched batch into queue entries and reports the
// highest fetched message ID, including messages whose group was skipped.
func (s *Service) collectChannel(ctx context.Context, ch channelDomain.Channel, last int64, known map[string]bool) ([]queueDomain.Post, int64, error) {
	slog.Info("Checking channel", "channel", ch.ID, "since_id", last)

	fetched, err := s.gateway.FetchMessages(ctx, ch.ID, last, s.cfg.FetchLimit)
	if err != nil {
		return nil, last, oops.With("channel", ch.ID, "since_id", last).Wrap(err)
	}

	fetched = lo.Filter(fetched, func(m *messageDomain.Message, _ int) bool { return m.ID > last })
	if len(fetched) == 0 {
		return nil, last, nil
	}

	var posts []queueDomain.Post
	for _, group := range messageService.GroupMessages(fetched) {
		rep := group.Representative()

		if reason, ok := channelService.CheckMessage(rep, ch); !ok {
			slog.Warn("Skipping post", "channel", ch.ID, "post_id", rep.ID, "reason", reason.String())
			continue
		}

		fp := channelService.Fingerprint(rep)
		if fp != "" && known[fp] {
			slog.Info("Skipping duplicate post", "channel", ch.ID, "post_id", rep.ID, "fingerprint", fp)
			continue
		}

		paths := s.downloadGroup(ctx, ch, group)
		if strings.TrimSpace(rep.Text) == "" && len(paths) == 0 {
			slog.Warn("Skipping post without text or media", "channel", ch.ID, "post_id", rep.ID)
			continue
		}

		posts = append(posts, queueDomain.Post{
			PostID:      rep.ID,
			Source:      ch.ID,
			Text:        rep.Text,
			Media:       paths,
			Entities:    rep.Entities,
			Fingerprint: fp,
		})
		if fp != "" {
			known[fp] = true
		}
	}

	return posts, messageService.MaxID(fetched), nil
}

// downloadGroup fetches every attachment of the group in arrival order. A
// failed download drops only that file.
func (s *Service) downloadGroup(ctx context.Context, ch channelDomain.Channel, group messageService.Group) queueDomain.MediaPaths {
	var paths queueDomain.MediaPaths
	for _, m := range group.MediaMessages() {
		path, err := s.gateway.DownloadMedia(ctx, m, s.cfg.MediaPath)
		if err != nil {
			slog.Error("Failed to download media", "channel", ch.ID, "message_id", m.ID, "error", err)
			continue
		}
		paths = append(paths, path)
	}
	return paths
}
