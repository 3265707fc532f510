package service

import (
	"crypto/md5"
	"encoding/hex"
	"fmt"
	"strings"

	messageDomain "github.com/reshetovitsme/tg-channel-relay/internal/modules/message/domain"
)

// fingerprintPrefix bounds how much text participates in the dedup key.
const fingerprintPrefix = 250

// Fingerprint returns the dedup key of a representative message: the MD5 of
// the first 250 characters of its trimmed text, or "<size>-<filename>" for
// media without text. Messages with neither yield "".
func Fingerprint(msg *messageDomain.Message) string {
	if msg == nil {
		return ""
	}
	if msg.HasText() {
		runes := []rune(strings.TrimSpace(msg.Text))
		if len(runes) > fingerprintPrefix {
			runes = runes[:fingerprintPrefix]
		}
		sum := md5.Sum([]byte(string(runes)))
		return hex.EncodeToString(sum[:])
	}
	if msg.HasMedia() {
		return fmt.Sprintf("%d-%s", msg.Media.Size, msg.Media.FileName)
	}
	return ""
}
