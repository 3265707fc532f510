package service

import (
	"testing"

	"github.com/reshetovitsme/tg-channel-relay/internal/modules/message/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGroupMessages_AlbumsAndSingletons(t *testing.T) {
	msgs := []*domain.Message{
		{ID: 1, Text: "single"},
		{ID: 2, GroupID: 900, Media: &domain.Media{}},
		{ID: 3, GroupID: 900, Text: "album caption", Media: &domain.Media{}},
		{ID: 4, Text: "another"},
		{ID: 5, GroupID: 900, Media: &domain.Media{}},
	}

	groups := GroupMessages(msgs)
	require.Len(t, groups, 3)

	assert.Equal(t, []int64{1}, ids(groups[0]))
	assert.Equal(t, []int64{2, 3, 5}, ids(groups[1]))
	assert.Equal(t, []int64{4}, ids(groups[2]))
}

func TestGroupMessages_GroupIDDoesNotCollideWithMessageID(t *testing.T) {
	msgs := []*domain.Message{
		{ID: 7, Text: "standalone"},
		{ID: 8, GroupID: 7, Media: &domain.Media{}},
	}

	groups := GroupMessages(msgs)
	assert.Len(t, groups, 2)
}

func TestRepresentative(t *testing.T) {
	withText := Group{Messages: []*domain.Message{
		{ID: 10, Text: "  "},
		{ID: 11, Text: "Caption"},
	}}
	assert.Equal(t, int64(11), withText.Representative().ID)

	mediaOnly := Group{Messages: []*domain.Message{
		{ID: 20, Media: &domain.Media{}},
		{ID: 21, Media: &domain.Media{}},
	}}
	assert.Equal(t, int64(20), mediaOnly.Representative().ID)

	assert.Nil(t, Group{}.Representative())
}

func TestMaxID(t *testing.T) {
	assert.Equal(t, int64(0), MaxID(nil))
	assert.Equal(t, int64(42), MaxID([]*domain.Message{{ID: 3}, {ID: 42}, {ID: 17}}))
}

func ids(g Group) []int64 {
	out := make([]int64, 0, len(g.Messages))
	for _, m := range g.Messages {
		out = append(out, m.ID)
	}
	return out
}
