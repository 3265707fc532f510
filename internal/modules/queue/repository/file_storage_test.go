package repository

import (
	"os"
	"testing"

	"github.com/reshetovitsme/tg-channel-relay/internal/modules/queue/domain"
	"github.com/reshetovitsme/tg-channel-relay/internal/shared/store"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestQueueRoundTrip(t *testing.T) {
	s, err := store.New(t.TempDir())
	require.NoError(t, err)
	repo := NewFileStorage(s)

	posts := []domain.Post{
		{PostID: 3, Source: "@a", Text: "first", Fingerprint: "f3"},
		{PostID: 1, Source: "@b", Text: "", Media: domain.MediaPaths{"media/b_1.jpg"}, Fingerprint: "100-"},
		{PostID: 2, Source: "@a", Text: "album", Media: domain.MediaPaths{"media/a_2.jpg", "media/a_3.jpg"}, Fingerprint: "f2"},
	}
	require.NoError(t, repo.Save(posts))

	loaded, err := repo.Load()
	require.NoError(t, err)
	assert.Equal(t, posts, loaded)
}

func TestQueueLoad_CorruptDocumentYieldsEmptyQueue(t *testing.T) {
	s, err := store.New(t.TempDir())
	require.NoError(t, err)
	require.NoError(t, os.WriteFile(s.Path(Document), []byte(`[{"post_id": `), 0644))

	loaded, err := NewFileStorage(s).Load()
	require.NoError(t, err)
	assert.Empty(t, loaded)
}

func TestQueueSave_NilIsEmptyArray(t *testing.T) {
	s, err := store.New(t.TempDir())
	require.NoError(t, err)
	require.NoError(t, NewFileStorage(s).Save(nil))

	data, err := os.ReadFile(s.Path(Document))
	require.NoError(t, err)
	assert.JSONEq(t, `[]`, string(data))
}
