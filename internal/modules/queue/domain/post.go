package domain

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"

	messageDomain "github.com/reshetovitsme/tg-channel-relay/internal/modules/message/domain"
)

// Post is one deliverable unit waiting in the publish queue
type Post struct {
	PostID      int64      `json:"post_id"`
	Source      string     `json:"source,omitempty"`
	Text        string     `json:"text"`
	Media       MediaPaths `json:"media_path"`
	Fingerprint string     `json:"fingerprint"`
	// Entities is the formatting of Text, absent for plain posts
	Entities []messageDomain.Entity `json:"entities,omitempty"`
}

// Deliverable reports whether the post carries text or at least one file
func (p Post) Deliverable() bool {
	return strings.TrimSpace(p.Text) != "" || len(p.Media) > 0
}

// MediaPaths is an ordered list of local media files. It is always written
// as a JSON array; a bare string or null written by older versions is
// accepted on read.
type MediaPaths []string

func (m MediaPaths) MarshalJSON() ([]byte, error) {
	if m == nil {
		return []byte("[]"), nil
	}
	return json.Marshal([]string(m))
}

func (m *MediaPaths) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	switch {
	case len(data) == 0, bytes.Equal(data, []byte("null")):
		*m = nil
		return nil
	case data[0] == '"':
		var single string
		if err := json.Unmarshal(data, &single); err != nil {
			return err
		}
		if single == "" {
			*m = nil
		} else {
			*m = MediaPaths{single}
		}
		return nil
	case data[0] == '[':
		var list []string
		if err := json.Unmarshal(data, &list); err != nil {
			return err
		}
		*m = nil
		for _, p := range list {
			if p != "" {
				*m = append(*m, p)
			}
		}
		return nil
	default:
		return fmt.Errorf("media_path: unexpected JSON %s", data)
	}
}
