package service

import (
	"unicode/utf16"

	messageDomain "github.com/reshetovitsme/tg-channel-relay/internal/modules/message/domain"
)

const (
	// MaxCaptionLength is the platform limit for media captions
	MaxCaptionLength = 1024
	// MaxTextLength is the platform limit for text messages
	MaxTextLength = 4096

	ellipsis = "..."
)

// Truncate shortens text to at most limit UTF-16 code units, the unit the
// platform counts in, ending it with an ellipsis when anything was cut.
func Truncate(text string, limit int) (string, bool) {
	text, _, cut := truncateFormatted(text, nil, limit)
	return text, cut
}

// truncateFormatted is Truncate that also clips entities to the kept prefix
func truncateFormatted(text string, entities []messageDomain.Entity, limit int) (string, []messageDomain.Entity, bool) {
	if messageDomain.UTF16Len(text) <= limit {
		return text, entities, false
	}

	budget := limit - len(ellipsis)
	used := 0
	for i, r := range text {
		n := utf16.RuneLen(r)
		if n < 0 {
			n = 1
		}
		if used+n > budget {
			return text[:i] + ellipsis, messageDomain.ClipEntities(entities, used), true
		}
		used += n
	}
	return text, entities, false
}
