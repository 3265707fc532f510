package telegram

import (
	"slices"
	"unicode/utf16"

	"github.com/gotd/td/telegram/message/entity"
	"github.com/gotd/td/telegram/message/styling"
	"github.com/gotd/td/tg"
	"github.com/reshetovitsme/tg-channel-relay/internal/modules/message/domain"
	"github.com/samber/lo"
)

// segment is a run of text covered by the same set of entities
type segment struct {
	Text     string
	Entities []domain.Entity
}

// styledText rebuilds formatted text for the message builders
func styledText(text string, entities []domain.Entity) []styling.StyledTextOption {
	if len(entities) == 0 {
		return []styling.StyledTextOption{styling.Plain(text)}
	}
	segments := splitSegments(text, entities)
	return []styling.StyledTextOption{styling.Custom(func(eb *entity.Builder) error {
		for _, seg := range segments {
			eb.Format(seg.Text, lo.Map(seg.Entities, func(e domain.Entity, _ int) entity.Formatter {
				return formatter(e)
			})...)
		}
		return nil
	})}
}

// splitSegments cuts text at every entity boundary. Offsets are UTF-16 units;
// spans past the end of text are clipped and unknown kinds ignored.
func splitSegments(text string, entities []domain.Entity) []segment {
	units := utf16.Encode([]rune(text))
	entities = domain.ClipEntities(lo.Filter(entities, func(e domain.Entity, _ int) bool {
		return e.Type.IsValid() && e.Offset >= 0 && e.Length > 0
	}), len(units))

	cuts := []int{0, len(units)}
	for _, e := range entities {
		cuts = append(cuts, e.Offset, e.End())
	}
	slices.Sort(cuts)
	cuts = slices.Compact(cuts)

	segments := make([]segment, 0, len(cuts))
	for i := 0; i+1 < len(cuts); i++ {
		from, to := cuts[i], cuts[i+1]
		segments = append(segments, segment{
			Text: string(utf16.Decode(units[from:to])),
			Entities: lo.Filter(entities, func(e domain.Entity, _ int) bool {
				return e.Offset <= from && e.End() >= to
			}),
		})
	}
	return segments
}

func formatter(e domain.Entity) entity.Formatter {
	return func(offset, length int) tg.MessageEntityClass {
		switch e.Type {
		case domain.EntityTypeBold:
			return &tg.MessageEntityBold{Offset: offset, Length: length}
		case domain.EntityTypeItalic:
			return &tg.MessageEntityItalic{Offset: offset, Length: length}
		case domain.EntityTypeUnderline:
			return &tg.MessageEntityUnderline{Offset: offset, Length: length}
		case domain.EntityTypeStrike:
			return &tg.MessageEntityStrike{Offset: offset, Length: length}
		case domain.EntityTypeCode:
			return &tg.MessageEntityCode{Offset: offset, Length: length}
		case domain.EntityTypePre:
			return &tg.MessageEntityPre{Offset: offset, Length: length, Language: e.Language}
		case domain.EntityTypeSpoiler:
			return &tg.MessageEntitySpoiler{Offset: offset, Length: length}
		case domain.EntityTypeBlockquote:
			return &tg.MessageEntityBlockquote{Offset: offset, Length: length}
		case domain.EntityTypeTextUrl:
			return &tg.MessageEntityTextURL{Offset: offset, Length: length, URL: e.URL}
		case domain.EntityTypeUrl:
			return &tg.MessageEntityURL{Offset: offset, Length: length}
		}
		return &tg.MessageEntityUnknown{Offset: offset, Length: length}
	}
}
