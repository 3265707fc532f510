package domain

import (
	"unicode/utf16"

	"github.com/samber/lo"
)

// Entity is a formatting span over message text. Offset and Length count
// UTF-16 code units, the unit the platform uses.
type Entity struct {
	Type     EntityType `json:"type"`
	Offset   int        `json:"offset"`
	Length   int        `json:"length"`
	URL      string     `json:"url,omitempty"`
	Language string     `json:"language,omitempty"`
}

// End is the offset just past the span
func (e Entity) End() int {
	return e.Offset + e.Length
}

// UTF16Len counts s in UTF-16 code units
func UTF16Len(s string) int {
	n := 0
	for _, r := range s {
		if l := utf16.RuneLen(r); l > 0 {
			n += l
		} else {
			n++
		}
	}
	return n
}

// ReplaceSpan adjusts entities after the text range [at, at+oldLen) was
// replaced by newLen units. Spans covering the range grow or shrink with it;
// spans that vanish are dropped.
func ReplaceSpan(entities []Entity, at, oldLen, newLen int) []Entity {
	end := at + oldLen
	move := func(p int) int {
		switch {
		case p <= at:
			return p
		case p >= end:
			return p + newLen - oldLen
		default:
			return at + min(p-at, newLen)
		}
	}
	return lo.FilterMap(entities, func(e Entity, _ int) (Entity, bool) {
		start, stop := move(e.Offset), move(e.End())
		e.Offset, e.Length = start, stop-start
		return e, e.Length > 0
	})
}

// ClipEntities drops or shortens spans reaching past limit
func ClipEntities(entities []Entity, limit int) []Entity {
	return lo.FilterMap(entities, func(e Entity, _ int) (Entity, bool) {
		if e.Offset >= limit {
			return e, false
		}
		e.Length = min(e.Length, limit-e.Offset)
		return e, e.Length > 0
	})
}
