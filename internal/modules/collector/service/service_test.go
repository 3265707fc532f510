package service

import (
	"context"
	"errors"
	"testing"
	"time"

	channelService "github.com/reshetovitsme/tg-channel-relay/internal/modules/channel/service"
	messageDomain "github.com/reshetovitsme/tg-channel-relay/internal/modules/message/domain"
	"github.com/reshetovitsme/tg-channel-relay/internal/modules/message/gateway/gatewaytest"
	pipelineDomain "github.com/reshetovitsme/tg-channel-relay/internal/modules/pipeline/domain"
	pipelineRepo "github.com/reshetovitsme/tg-channel-relay/internal/modules/pipeline/repository"
	queueDomain "github.com/reshetovitsme/tg-channel-relay/internal/modules/queue/domain"
	queueRepo "github.com/reshetovitsme/tg-channel-relay/internal/modules/queue/repository"
	"github.com/reshetovitsme/tg-channel-relay/internal/shared/config"
	"github.com/reshetovitsme/tg-channel-relay/internal/shared/store"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var fixedNow = time.Date(2026, 5, 10, 8, 0, 0, 0, time.UTC)

type fakeReviewer struct {
	calls    int
	posts    []queueDomain.Post
	deadline time.Time
}

func (r *fakeReviewer) OnPendingReview(_ context.Context, posts []queueDomain.Post, deadline time.Time) {
	r.calls++
	r.posts = posts
	r.deadline = deadline
}

type fixture struct {
	svc      *Service
	gw       *gatewaytest.Gateway
	queue    queueRepo.Repository
	pipeline pipelineRepo.Repository
	reviewer *fakeReviewer
}

func newFixture(t *testing.T, sources ...string) *fixture {
	t.Helper()
	s, err := store.New(t.TempDir())
	require.NoError(t, err)

	cfg := &config.Config{
		SourceChannels:     sources,
		MediaPath:          t.TempDir(),
		FetchLimit:         100,
		ReviewTimeoutHours: 4,
	}
	f := &fixture{
		gw:       gatewaytest.New(),
		queue:    queueRepo.NewFileStorage(s),
		pipeline: pipelineRepo.NewFileStorage(s),
		reviewer: &fakeReviewer{},
	}
	f.svc = New(cfg, f.gw, f.queue, f.pipeline, f.reviewer)
	f.svc.SetClock(func() time.Time { return fixedNow })
	return f
}

func (f *fixture) loadQueue(t *testing.T) []queueDomain.Post {
	t.Helper()
	q, err := f.queue.Load()
	require.NoError(t, err)
	return q
}

func TestRun_LinkPostIsFilteredOut(t *testing.T) {
	f := newFixture(t, "@src")
	f.gw.Add("@src", &messageDomain.Message{ID: 5, Text: "Check this: https://x.co"})

	res, err := f.svc.Run(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 0, res.Queued)
	assert.Empty(t, f.loadQueue(t))

	rec, err := f.pipeline.LoadStatus()
	require.NoError(t, err)
	assert.Equal(t, pipelineDomain.StatusCollecting, rec.Status)
	assert.False(t, rec.HasTimestamp(), "status timestamp must stay untouched")

	wm, err := f.pipeline.LoadWatermarks()
	require.NoError(t, err)
	assert.Equal(t, int64(5), wm["@src"], "rejected content still advances the watermark")
	assert.Equal(t, 0, f.reviewer.calls)
}

func TestRun_MentionFilter(t *testing.T) {
	f := newFixture(t, "@src")
	f.gw.Add("@src",
		&messageDomain.Message{ID: 1, Text: "Hi @otherchannel"},
		&messageDomain.Message{ID: 2, Text: "Hi @src"},
	)

	res, err := f.svc.Run(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, res.Queued)

	q := f.loadQueue(t)
	require.Len(t, q, 1)
	assert.Equal(t, int64(2), q[0].PostID)
	assert.Equal(t, "Hi @src", q[0].Text)
	assert.Equal(t, "@src", q[0].Source)
}

func TestRun_AlbumBecomesOnePost(t *testing.T) {
	f := newFixture(t, "@src")
	f.gw.Add("@src",
		&messageDomain.Message{ID: 10, GroupID: 77, Text: "Caption"},
		&messageDomain.Message{ID: 11, GroupID: 77, Media: &messageDomain.Media{Size: 2}},
		&messageDomain.Message{ID: 12, GroupID: 77, Media: &messageDomain.Media{Size: 3}},
	)

	_, err := f.svc.Run(context.Background())
	require.NoError(t, err)

	q := f.loadQueue(t)
	require.Len(t, q, 1)
	assert.Equal(t, int64(10), q[0].PostID)
	assert.Equal(t, "Caption", q[0].Text)
	require.Len(t, q[0].Media, 2)
	assert.Contains(t, q[0].Media[0], "src_11")
	assert.Contains(t, q[0].Media[1], "src_12")
}

func TestRun_AlbumWithFailedDownloadKeepsTheRest(t *testing.T) {
	f := newFixture(t, "@src")
	f.gw.Add("@src",
		&messageDomain.Message{ID: 10, GroupID: 77, Text: "Caption"},
		&messageDomain.Message{ID: 11, GroupID: 77, Media: &messageDomain.Media{Size: 2}},
		&messageDomain.Message{ID: 12, GroupID: 77, Media: &messageDomain.Media{Size: 3}},
	)
	f.gw.DownloadErr[11] = errors.New("file reference expired")

	_, err := f.svc.Run(context.Background())
	require.NoError(t, err)

	q := f.loadQueue(t)
	require.Len(t, q, 1)
	require.Len(t, q[0].Media, 1)
	assert.Contains(t, q[0].Media[0], "src_12")
}

func TestRun_MediaOnlyPostWithFailedDownloadIsDiscarded(t *testing.T) {
	f := newFixture(t, "@src")
	f.gw.Add("@src", &messageDomain.Message{ID: 3, Media: &messageDomain.Media{Size: 9, FileName: "a.jpg"}})
	f.gw.DownloadErr[3] = errors.New("boom")

	res, err := f.svc.Run(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 0, res.Queued)
	assert.Empty(t, f.loadQueue(t))
}

func TestRun_DuplicateFingerprintsAreQueuedOnce(t *testing.T) {
	f := newFixture(t, "@a", "@b")
	f.gw.Add("@a", &messageDomain.Message{ID: 1, Text: "Same news"})
	f.gw.Add("@b",
		&messageDomain.Message{ID: 40, Text: "  Same news  "},
		&messageDomain.Message{ID: 41, Text: "Fresh"},
	)

	res, err := f.svc.Run(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 2, res.Queued)

	q := f.loadQueue(t)
	require.Len(t, q, 2)
	assert.Equal(t, "Same news", q[0].Text)
	assert.Equal(t, "Fresh", q[1].Text)
	assert.NotEqual(t, q[0].Fingerprint, q[1].Fingerprint)
}

func TestRun_SkipsAlreadyQueuedAndRecentlyPublished(t *testing.T) {
	f := newFixture(t, "@src")
	require.NoError(t, f.queue.Save([]queueDomain.Post{{PostID: 1, Text: "queued earlier", Fingerprint: "c4d7a4d0c9b6f3dbdc1a4b3c6b1b7c5e"}}))

	published := &messageDomain.Message{Text: "already sent"}
	f.gw.Add("@src",
		&messageDomain.Message{ID: 2, Text: "already sent"},
		&messageDomain.Message{ID: 3, Text: "brand new"},
	)
	require.NoError(t, f.pipeline.SavePublished(map[string]time.Time{
		channelService.Fingerprint(published): fixedNow.Add(time.Hour),
	}))

	res, err := f.svc.Run(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, res.Queued)

	q := f.loadQueue(t)
	require.Len(t, q, 2)
	assert.Equal(t, "brand new", q[1].Text)
}

func TestRun_TransitionsToPendingReview(t *testing.T) {
	f := newFixture(t, "@src")
	f.gw.Add("@src", &messageDomain.Message{ID: 8, Text: "hello"})

	_, err := f.svc.Run(context.Background())
	require.NoError(t, err)

	rec, err := f.pipeline.LoadStatus()
	require.NoError(t, err)
	assert.Equal(t, pipelineDomain.StatusPendingReview, rec.Status)
	assert.True(t, rec.Since.Equal(fixedNow))

	assert.Equal(t, 1, f.reviewer.calls)
	assert.Equal(t, fixedNow.Add(4*time.Hour), f.reviewer.deadline)
}

func TestRun_FetchErrorDoesNotAbortSiblings(t *testing.T) {
	f := newFixture(t, "@broken", "@ok")
	f.gw.FetchErr["@broken"] = errors.New("CHANNEL_PRIVATE")
	f.gw.Add("@ok", &messageDomain.Message{ID: 4, Text: "still collected"})

	res, err := f.svc.Run(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, res.Queued)
	assert.Equal(t, 1, res.FailedChannels)

	wm, err := f.pipeline.LoadWatermarks()
	require.NoError(t, err)
	assert.Equal(t, int64(4), wm["@ok"])
	assert.NotContains(t, wm, "@broken")
}

func TestRun_WatermarkIsMonotonicAcrossRuns(t *testing.T) {
	f := newFixture(t, "@src")
	f.gw.Add("@src",
		&messageDomain.Message{ID: 1, Text: "one"},
		&messageDomain.Message{ID: 2, Text: "two https://spam.example"},
	)

	_, err := f.svc.Run(context.Background())
	require.NoError(t, err)
	wm, err := f.pipeline.LoadWatermarks()
	require.NoError(t, err)
	assert.Equal(t, int64(2), wm["@src"])

	// nothing new: watermark stays, no refetch of old messages
	res, err := f.svc.Run(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 0, res.Queued)
	wm, err = f.pipeline.LoadWatermarks()
	require.NoError(t, err)
	assert.Equal(t, int64(2), wm["@src"])

	f.gw.Add("@src", &messageDomain.Message{ID: 9, Text: "nine"})
	_, err = f.svc.Run(context.Background())
	require.NoError(t, err)
	wm, err = f.pipeline.LoadWatermarks()
	require.NoError(t, err)
	assert.Equal(t, int64(9), wm["@src"])
	assert.Len(t, f.loadQueue(t), 2)
}

func TestRun_NeverQueuesEmptyPosts(t *testing.T) {
	f := newFixture(t, "@src")
	f.gw.Add("@src",
		&messageDomain.Message{ID: 1, Text: "   "},
		&messageDomain.Message{ID: 2},
		&messageDomain.Message{ID: 3, Text: "real"},
	)

	_, err := f.svc.Run(context.Background())
	require.NoError(t, err)

	for _, p := range f.loadQueue(t) {
		assert.True(t, p.Deliverable(), "post %d is empty", p.PostID)
	}
}

func TestRun_HiddenLinkIsFilteredAndFormattingIsKept(t *testing.T) {
	f := newFixture(t, "@src")
	f.gw.Add("@src",
		&messageDomain.Message{ID: 1, Text: "Great deal here", Entities: []messageDomain.Entity{
			{Type: messageDomain.EntityTypeTextUrl, Offset: 6, Length: 4, URL: "https://spam.example"},
		}},
		&messageDomain.Message{ID: 2, Text: "Bold claim", Entities: []messageDomain.Entity{
			{Type: messageDomain.EntityTypeBold, Offset: 0, Length: 4},
		}},
	)

	res, err := f.svc.Run(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, res.Queued)

	queue := f.loadQueue(t)
	require.Len(t, queue, 1)
	assert.Equal(t, int64(2), queue[0].PostID)
	assert.Equal(t, []messageDomain.Entity{{Type: messageDomain.EntityTypeBold, Offset: 0, Length: 4}}, queue[0].Entities)
}
