package domain

import (
	"strings"
	"time"
	"unicode/utf16"

	"github.com/samber/lo"
)

// Message is one message fetched from a source channel
type Message struct {
	ID        int64
	ChannelID string
	Text      string
	Date      time.Time
	// GroupID is the platform album identifier, zero for standalone messages
	GroupID  int64
	Media    *Media
	Entities []Entity
}

// Media describes the attachment of a message
type Media struct {
	Type     MediaType
	Size     int64
	FileName string
	MimeType string
	// Ref is an opaque gateway handle used to download the file
	Ref any
}

// HasText reports whether the message carries non-blank text
func (m *Message) HasText() bool {
	return strings.TrimSpace(m.Text) != ""
}

// Links returns every link target the text carries, including links hidden
// behind other words
func (m *Message) Links() []string {
	runes := utf16.Encode([]rune(m.Text))
	return lo.FilterMap(m.Entities, func(e Entity, _ int) (string, bool) {
		switch e.Type {
		case EntityTypeTextUrl:
			return e.URL, e.URL != ""
		case EntityTypeUrl:
			if e.Offset < 0 || e.End() > len(runes) {
				return "", false
			}
			return string(utf16.Decode(runes[e.Offset:e.End()])), true
		}
		return "", false
	})
}

// HasMedia reports whether the message carries a downloadable attachment
func (m *Message) HasMedia() bool {
	return m.Media != nil
}
