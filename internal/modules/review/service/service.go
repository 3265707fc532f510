package service

import (
	"context"
	"fmt"
	"html"
	"log/slog"
	"path/filepath"
	"strings"
	"time"

	"github.com/gorilla/feeds"
	channelDomain "github.com/reshetovitsme/tg-channel-relay/internal/modules/channel/domain"
	queueDomain "github.com/reshetovitsme/tg-channel-relay/internal/modules/queue/domain"
	queueRepo "github.com/reshetovitsme/tg-channel-relay/internal/modules/queue/repository"
	"github.com/reshetovitsme/tg-channel-relay/internal/shared/config"
	"github.com/reshetovitsme/tg-channel-relay/internal/shared/store"
	"github.com/samber/lo"
	"github.com/samber/oops"
)

// FeedDocument is the Atom feed listing the posts under review
const FeedDocument = "review.atom"

const titleLength = 100

// Notifier delivers a short operator message
type Notifier interface {
	Notify(ctx context.Context, text string) error
}

// Service publishes the review queue for the operator: an Atom feed in the
// state directory and, when configured, a chat message.
type Service struct {
	cfg      *config.Config
	store    *store.Store
	notifier Notifier
	now      func() time.Time
}

// New creates a new review service. notifier may be nil.
func New(cfg *config.Config, s *store.Store, notifier Notifier) *Service {
	return &Service{
		cfg:      cfg,
		store:    s,
		notifier: notifier,
		now:      time.Now,
	}
}

// SetClock overrides the time source
func (s *Service) SetClock(now func() time.Time) {
	s.now = now
}

// OnPendingReview is called once freshly collected posts are waiting for a decision
func (s *Service) OnPendingReview(ctx context.Context, posts []queueDomain.Post, deadline time.Time) {
	summary := fmt.Sprintf("%d posts awaiting review, auto-publish after %s",
		len(posts), deadline.UTC().Format("2006-01-02 15:04 MST"))

	if err := s.writeFeed(posts, summary); err != nil {
		slog.Error("Failed to write review feed", "error", err)
	}
	s.notify(ctx, summary+". Edit "+s.store.Path(queueRepo.Document)+" to reject posts.")
}

// OnEscalated is called when the review window lapsed and the queue moved to publishing
func (s *Service) OnEscalated(ctx context.Context, posts []queueDomain.Post) {
	summary := fmt.Sprintf("Review window elapsed, %d posts handed to publishing", len(posts))

	if err := s.writeFeed(posts, summary); err != nil {
		slog.Error("Failed to write review feed", "error", err)
	}
	s.notify(ctx, summary)
}

// BuildFeed renders the queue as a feed, one item per post
func (s *Service) BuildFeed(posts []queueDomain.Post, summary string) *feeds.Feed {
	now := s.now()
	dest := channelDomain.New(s.cfg.DestinationChannel)

	feed := &feeds.Feed{
		Title:       fmt.Sprintf("%s - review queue", s.cfg.PublisherName),
		Link:        &feeds.Link{Href: channelLink(dest)},
		Description: summary,
		Author:      &feeds.Author{Name: s.cfg.PublisherName},
		Created:     now,
		Updated:     now,
	}

	feed.Items = lo.Map(posts, func(post queueDomain.Post, _ int) *feeds.Item {
		return s.postToFeedItem(post, feed.Link.Href, now)
	})
	return feed
}

func (s *Service) postToFeedItem(post queueDomain.Post, fallbackLink string, now time.Time) *feeds.Item {
	link := fallbackLink
	if src := channelDomain.New(post.Source); src.Handle() != "" {
		link = fmt.Sprintf("%s/%d", channelLink(src), post.PostID)
	}

	description := post.Text
	if strings.TrimSpace(description) == "" {
		description = "No text content"
	}

	content := fmt.Sprintf("<p>%s</p>", html.EscapeString(description))
	if len(post.Media) > 0 {
		description += "\n\nMedia:\n"
		content += "<p><strong>Media attachments:</strong></p><ul>"
		for _, path := range post.Media {
			description += fmt.Sprintf("- %s\n", filepath.Base(path))
			content += fmt.Sprintf("<li>%s</li>", html.EscapeString(filepath.Base(path)))
		}
		content += "</ul>"
	}

	title := truncate(strings.TrimSpace(post.Text), titleLength)
	if title == "" {
		title = fmt.Sprintf("Post %d", post.PostID)
	}

	return &feeds.Item{
		Title:       title,
		Link:        &feeds.Link{Href: link},
		Description: description,
		Content:     content,
		Author:      &feeds.Author{Name: post.Source},
		Created:     now,
		Id:          fmt.Sprintf("%s-%d", post.Source, post.PostID),
	}
}

func (s *Service) writeFeed(posts []queueDomain.Post, summary string) error {
	atom, err := s.BuildFeed(posts, summary).ToAtom()
	if err != nil {
		return oops.With("document", FeedDocument, "context", "failed to render atom feed").Wrap(err)
	}
	return s.store.WriteFile(FeedDocument, []byte(atom))
}

func (s *Service) notify(ctx context.Context, text string) {
	if s.notifier == nil {
		return
	}
	if err := s.notifier.Notify(ctx, text); err != nil {
		slog.Warn("Failed to notify operator", "error", err)
	}
}

func channelLink(ch channelDomain.Channel) string {
	if h := ch.Handle(); h != "" {
		return "https://t.me/" + h
	}
	return "https://t.me/"
}

func truncate(s string, maxLen int) string {
	runes := []rune(s)
	if len(runes) <= maxLen {
		return s
	}
	return string(runes[:maxLen]) + "..."
}
