package service

import (
	"regexp"

	"github.com/reshetovitsme/tg-channel-relay/internal/modules/channel/domain"
	messageDomain "github.com/reshetovitsme/tg-channel-relay/internal/modules/message/domain"
)

// MentionRewriter replaces source channel self-references with the
// destination handle. Both "@handle" and the bare handle as a whole word are
// replaced, case-insensitively. Handles that are ordinary words get replaced
// in unrelated text too.
type MentionRewriter struct {
	patterns    []*regexp.Regexp
	destination string
}

func NewMentionRewriter(sources []domain.Channel, destination string) *MentionRewriter {
	r := &MentionRewriter{destination: destination}
	for _, src := range sources {
		h := src.Handle()
		if h == "" {
			continue
		}
		q := regexp.QuoteMeta(h)
		r.patterns = append(r.patterns, regexp.MustCompile(`(?i)@`+q+`\b|\b`+q+`\b`))
	}
	return r
}

// Rewrite returns text with every source self-mention replaced
func (r *MentionRewriter) Rewrite(text string) string {
	text, _ = r.RewriteWithEntities(text, nil)
	return text
}

// RewriteWithEntities is Rewrite for formatted text: entity spans are moved
// and resized to keep covering the same words.
func (r *MentionRewriter) RewriteWithEntities(text string, entities []messageDomain.Entity) (string, []messageDomain.Entity) {
	newLen := messageDomain.UTF16Len(r.destination)
	for _, p := range r.patterns {
		matches := p.FindAllStringIndex(text, -1)
		// right to left, so earlier offsets stay valid
		for i := len(matches) - 1; i >= 0; i-- {
			start, end := matches[i][0], matches[i][1]
			if len(entities) > 0 {
				at := messageDomain.UTF16Len(text[:start])
				entities = messageDomain.ReplaceSpan(entities, at, messageDomain.UTF16Len(text[start:end]), newLen)
			}
			text = text[:start] + r.destination + text[end:]
		}
	}
	return text, entities
}
