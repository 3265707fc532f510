package service

import (
	"regexp"
	"strings"

	"github.com/reshetovitsme/tg-channel-relay/internal/modules/channel/domain"
	messageDomain "github.com/reshetovitsme/tg-channel-relay/internal/modules/message/domain"
)

var (
	linkPattern    = regexp.MustCompile(`(?i)https?://\S+|www\.\S+|(?:t|telegram)\.me/\S+|tg://\S+`)
	mentionPattern = regexp.MustCompile(`@([\p{L}\p{N}_]+)`)
)

// CheckText decides whether text from source may be relayed. Links of any
// kind and mentions of anyone but the source channel itself are refused.
// Empty text is always admissible.
func CheckText(text string, source domain.Channel) (domain.RejectReason, bool) {
	if text == "" {
		return "", true
	}
	if linkPattern.MatchString(text) {
		return domain.RejectReasonLink, false
	}

	own := source.Handle()
	for _, m := range mentionPattern.FindAllStringSubmatch(text, -1) {
		if !strings.EqualFold(m[1], own) {
			return domain.RejectReasonForeignMention, false
		}
	}
	return "", true
}

// CheckMessage applies CheckText to the message text together with the
// targets of its link entities, so a link hidden behind a word is judged
// like one written out.
func CheckMessage(msg *messageDomain.Message, source domain.Channel) (domain.RejectReason, bool) {
	text := msg.Text
	if links := msg.Links(); len(links) > 0 {
		text = strings.Join(append([]string{text}, links...), "\n")
	}
	return CheckText(text, source)
}
