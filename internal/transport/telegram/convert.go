package telegram

import (
	"strings"
	"time"

	"github.com/gotd/td/tg"
	"github.com/reshetovitsme/tg-channel-relay/internal/modules/message/domain"
	"github.com/samber/lo"
)

// toMessages converts a history page, dropping service and empty messages
func toMessages(channel string, page []tg.MessageClass) []*domain.Message {
	return lo.FilterMap(page, func(mc tg.MessageClass, _ int) (*domain.Message, bool) {
		m, ok := mc.(*tg.Message)
		if !ok {
			return nil, false
		}
		return toMessage(channel, m), true
	})
}

func toMessage(channel string, m *tg.Message) *domain.Message {
	return &domain.Message{
		ID:        int64(m.ID),
		ChannelID: channel,
		Text:      m.Message,
		Date:      time.Unix(int64(m.Date), 0).UTC(),
		GroupID:   m.GroupedID,
		Media:     toMedia(m.Media),
		Entities:  toEntities(m.Entities),
	}
}

// toEntities keeps the formatting and link spans the relay reproduces.
// Mentions, hashtags and the like are recognised by the platform from the
// text itself and need not be carried.
func toEntities(classes []tg.MessageEntityClass) []domain.Entity {
	return lo.FilterMap(classes, func(ec tg.MessageEntityClass, _ int) (domain.Entity, bool) {
		e := domain.Entity{Offset: ec.GetOffset(), Length: ec.GetLength()}
		switch v := ec.(type) {
		case *tg.MessageEntityBold:
			e.Type = domain.EntityTypeBold
		case *tg.MessageEntityItalic:
			e.Type = domain.EntityTypeItalic
		case *tg.MessageEntityUnderline:
			e.Type = domain.EntityTypeUnderline
		case *tg.MessageEntityStrike:
			e.Type = domain.EntityTypeStrike
		case *tg.MessageEntityCode:
			e.Type = domain.EntityTypeCode
		case *tg.MessageEntityPre:
			e.Type, e.Language = domain.EntityTypePre, v.Language
		case *tg.MessageEntitySpoiler:
			e.Type = domain.EntityTypeSpoiler
		case *tg.MessageEntityBlockquote:
			e.Type = domain.EntityTypeBlockquote
		case *tg.MessageEntityTextURL:
			e.Type, e.URL = domain.EntityTypeTextUrl, v.URL
		case *tg.MessageEntityURL:
			e.Type = domain.EntityTypeUrl
		default:
			return e, false
		}
		return e, true
	})
}

// toMedia keeps photos and documents; webpages, polls, geo and the like are
// not downloadable and are treated as no media.
func toMedia(mc tg.MessageMediaClass) *domain.Media {
	switch media := mc.(type) {
	case *tg.MessageMediaPhoto:
		photo, ok := media.Photo.(*tg.Photo)
		if !ok {
			return nil
		}
		sizeType, size := largestPhotoSize(photo.Sizes)
		if sizeType == "" {
			return nil
		}
		return &domain.Media{
			Type:     domain.MediaTypePhoto,
			Size:     int64(size),
			MimeType: "image/jpeg",
			Ref: &tg.InputPhotoFileLocation{
				ID:            photo.ID,
				AccessHash:    photo.AccessHash,
				FileReference: photo.FileReference,
				ThumbSize:     sizeType,
			},
		}

	case *tg.MessageMediaDocument:
		doc, ok := media.Document.(*tg.Document)
		if !ok {
			return nil
		}
		return &domain.Media{
			Type:     documentType(doc),
			Size:     doc.Size,
			FileName: documentFileName(doc),
			MimeType: doc.MimeType,
			Ref: &tg.InputDocumentFileLocation{
				ID:            doc.ID,
				AccessHash:    doc.AccessHash,
				FileReference: doc.FileReference,
			},
		}
	}
	return nil
}

func largestPhotoSize(sizes []tg.PhotoSizeClass) (string, int) {
	var (
		bestType string
		best     = -1
	)
	for _, sc := range sizes {
		switch s := sc.(type) {
		case *tg.PhotoSize:
			if s.Size > best {
				bestType, best = s.Type, s.Size
			}
		case *tg.PhotoSizeProgressive:
			if n := len(s.Sizes); n > 0 && s.Sizes[n-1] > best {
				bestType, best = s.Type, s.Sizes[n-1]
			}
		}
	}
	return bestType, max(best, 0)
}

func documentType(doc *tg.Document) domain.MediaType {
	for _, attr := range doc.Attributes {
		switch attr.(type) {
		case *tg.DocumentAttributeVideo:
			return domain.MediaTypeVideo
		case *tg.DocumentAttributeAudio:
			return domain.MediaTypeAudio
		}
	}
	switch {
	case strings.HasPrefix(doc.MimeType, "video/"):
		return domain.MediaTypeVideo
	case strings.HasPrefix(doc.MimeType, "audio/"):
		return domain.MediaTypeAudio
	}
	return domain.MediaTypeDocument
}

func documentFileName(doc *tg.Document) string {
	for _, attr := range doc.Attributes {
		if fn, ok := attr.(*tg.DocumentAttributeFilename); ok {
			return fn.FileName
		}
	}
	return ""
}
