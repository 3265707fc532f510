package domain

import (
	"regexp"
	"strings"
)

var usernamePattern = regexp.MustCompile(`^[A-Za-z][A-Za-z0-9_]*$`)

// Channel is a source or destination channel as configured: a public
// username ("@name", "name", "t.me/name") or a numeric peer ID
type Channel struct {
	ID string
}

func New(id string) Channel {
	return Channel{ID: strings.TrimSpace(id)}
}

// Handle returns the username without "@", or "" for numeric IDs
func (c Channel) Handle() string {
	h := c.ID
	for _, prefix := range []string{"https://", "http://", "t.me/", "telegram.me/", "@"} {
		h = strings.TrimPrefix(h, prefix)
	}
	h = strings.TrimSuffix(h, "/")
	if !usernamePattern.MatchString(h) {
		return ""
	}
	return h
}

// Mention returns the "@handle" form, falling back to the raw ID
func (c Channel) Mention() string {
	if h := c.Handle(); h != "" {
		return "@" + h
	}
	return c.ID
}

// FromIDs converts configured identifiers into channels
func FromIDs(ids []string) []Channel {
	out := make([]Channel, 0, len(ids))
	for _, id := range ids {
		out = append(out, New(id))
	}
	return out
}
