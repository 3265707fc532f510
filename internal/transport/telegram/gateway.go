package telegram

import (
	"cmp"
	"context"
	"fmt"
	"mime"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"time"

	"github.com/gotd/td/telegram/message"
	"github.com/gotd/td/telegram/message/styling"
	"github.com/gotd/td/tg"
	"github.com/reshetovitsme/tg-channel-relay/internal/modules/message/domain"
	"github.com/reshetovitsme/tg-channel-relay/internal/modules/message/gateway"
	"github.com/samber/lo"
	"github.com/samber/oops"
)

var _ gateway.Gateway = (*Gateway)(nil)

// FetchMessages returns messages above minID in ascending order.
func (g *Gateway) FetchMessages(ctx context.Context, channel string, minID int64, limit int) ([]*domain.Message, error) {
	p, err := g.resolve(ctx, channel)
	if err != nil {
		return nil, err
	}
	api, err := g.conn()
	if err != nil {
		return nil, err
	}

	res, err := api.MessagesGetHistory(ctx, historyRequest(p, minID, limit))
	if err != nil {
		return nil, oops.With("channel", channel, "min_id", minID).Wrap(classify(err))
	}

	var page []tg.MessageClass
	switch h := res.(type) {
	case *tg.MessagesChannelMessages:
		page = h.Messages
	case *tg.MessagesMessagesSlice:
		page = h.Messages
	case *tg.MessagesMessages:
		page = h.Messages
	}

	msgs := lo.Filter(toMessages(channel, page), func(m *domain.Message, _ int) bool {
		return m.ID > minID
	})
	slices.SortFunc(msgs, func(a, b *domain.Message) int {
		return cmp.Compare(a.ID, b.ID)
	})
	return msgs, nil
}

// historyRequest pages oldest-first above a known watermark so a backlog
// larger than limit drains over several runs without gaps. A channel with no
// watermark yet starts from its newest page instead of its first message.
func historyRequest(p tg.InputPeerClass, minID int64, limit int) *tg.MessagesGetHistoryRequest {
	req := &tg.MessagesGetHistoryRequest{
		Peer:  p,
		Limit: limit,
		MinID: int(minID),
	}
	if minID > 0 {
		req.OffsetID = int(minID) + 1
		req.AddOffset = -limit
	}
	return req
}

// DownloadMedia writes the attachment to dir as <channel>_<id><ext>
func (g *Gateway) DownloadMedia(ctx context.Context, msg *domain.Message, dir string) (string, error) {
	if msg.Media == nil {
		return "", oops.With("message_id", msg.ID).Errorf("message has no media")
	}
	loc, ok := msg.Media.Ref.(tg.InputFileLocationClass)
	if !ok {
		return "", oops.With("message_id", msg.ID).Errorf("media has no downloadable location")
	}
	api, err := g.conn()
	if err != nil {
		return "", err
	}

	if err := os.MkdirAll(dir, 0755); err != nil {
		return "", oops.With("dir", dir, "context", "failed to create media directory").Wrap(err)
	}
	path := filepath.Join(dir, mediaFileName(msg))

	if _, err := g.downloader.Download(api, loc).ToPath(ctx, path); err != nil {
		_ = os.Remove(path)
		return "", oops.With("message_id", msg.ID, "path", path).Wrap(classify(err))
	}
	return path, nil
}

func (g *Gateway) SendText(ctx context.Context, channel, text string, entities []domain.Entity, scheduleAt time.Time) error {
	p, err := g.resolve(ctx, channel)
	if err != nil {
		return err
	}

	builder := g.sender.To(p).Schedule(scheduleAt)
	if len(entities) == 0 {
		_, err = builder.Text(ctx, text)
	} else {
		_, err = builder.StyledText(ctx, styledText(text, entities)...)
	}
	return classify(err)
}

// SendMedia uploads paths and sends them as one post, an album when there is
// more than one file. The caption goes on the first item.
func (g *Gateway) SendMedia(ctx context.Context, channel string, paths []string, caption string, entities []domain.Entity, scheduleAt time.Time) error {
	if len(paths) == 0 {
		return oops.Errorf("no media to send")
	}
	p, err := g.resolve(ctx, channel)
	if err != nil {
		return err
	}

	items := make([]message.MultiMediaOption, 0, len(paths))
	for i, path := range paths {
		file, err := g.uploader.FromPath(ctx, path)
		if err != nil {
			return oops.With("path", path, "context", "failed to upload media").Wrap(classify(err))
		}
		var captionOpts []styling.StyledTextOption
		if i == 0 && caption != "" {
			captionOpts = styledText(caption, entities)
		}
		items = append(items, uploadedMedia(file, path, captionOpts))
	}

	builder := g.sender.To(p).Schedule(scheduleAt)
	if len(items) == 1 {
		_, err = builder.Media(ctx, items[0])
	} else {
		_, err = builder.Album(ctx, items[0], items[1:]...)
	}
	return classify(err)
}

func uploadedMedia(file tg.InputFileClass, path string, caption []styling.StyledTextOption) message.MultiMediaOption {
	mimeType := mime.TypeByExtension(strings.ToLower(filepath.Ext(path)))
	switch {
	case strings.HasPrefix(mimeType, "image/") && mimeType != "image/gif":
		return message.UploadedPhoto(file, caption...)
	case strings.HasPrefix(mimeType, "video/"):
		return message.UploadedDocument(file, caption...).
			MIME(mimeType).
			Filename(filepath.Base(path)).
			Video()
	default:
		if mimeType == "" {
			mimeType = "application/octet-stream"
		}
		return message.UploadedDocument(file, caption...).
			MIME(mimeType).
			Filename(filepath.Base(path))
	}
}

func mediaFileName(msg *domain.Message) string {
	prefix := strings.NewReplacer("@", "", "/", "_", ":", "_").Replace(msg.ChannelID)
	ext := filepath.Ext(msg.Media.FileName)
	if ext == "" {
		switch msg.Media.Type {
		case domain.MediaTypePhoto:
			ext = ".jpg"
		default:
			if exts, err := mime.ExtensionsByType(msg.Media.MimeType); err == nil && len(exts) > 0 {
				ext = exts[0]
			} else {
				ext = ".bin"
			}
		}
	}
	return fmt.Sprintf("%s_%d%s", prefix, msg.ID, ext)
}
