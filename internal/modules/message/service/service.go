package service

import (
	"github.com/reshetovitsme/tg-channel-relay/internal/modules/message/domain"
	"github.com/samber/lo"
)

// Group is one logical post: a standalone message or all parts of an album
type Group struct {
	Messages []*domain.Message
}

type groupKey struct {
	album bool
	id    int64
}

func keyOf(m *domain.Message) groupKey {
	if m.GroupID != 0 {
		return groupKey{album: true, id: m.GroupID}
	}
	return groupKey{id: m.ID}
}

// GroupMessages partitions messages into albums and singletons. Groups keep
// the order in which their first member appears, members keep arrival order.
func GroupMessages(messages []*domain.Message) []Group {
	byKey := lo.GroupBy(messages, keyOf)
	keys := lo.Uniq(lo.Map(messages, func(m *domain.Message, _ int) groupKey {
		return keyOf(m)
	}))

	return lo.Map(keys, func(k groupKey, _ int) Group {
		return Group{Messages: byKey[k]}
	})
}

// Representative returns the first member carrying text, or the first member
func (g Group) Representative() *domain.Message {
	if len(g.Messages) == 0 {
		return nil
	}
	if m, ok := lo.Find(g.Messages, func(m *domain.Message) bool { return m.HasText() }); ok {
		return m
	}
	return g.Messages[0]
}

// MediaMessages returns members with an attachment in arrival order
func (g Group) MediaMessages() []*domain.Message {
	return lo.Filter(g.Messages, func(m *domain.Message, _ int) bool { return m.HasMedia() })
}

// MaxID returns the highest message ID across messages, or zero
func MaxID(messages []*domain.Message) int64 {
	return lo.Reduce(messages, func(acc int64, m *domain.Message, _ int) int64 {
		return max(acc, m.ID)
	}, 0)
}
