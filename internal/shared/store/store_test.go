package store

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/reshetovitsme/tg-channel-relay/internal/shared/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type statusDoc struct {
	FinalStatus int `json:"final_status"`
}

func TestLoad_MissingDocumentPersistsDefault(t *testing.T) {
	s, err := New(t.TempDir())
	require.NoError(t, err)

	var doc statusDoc
	require.NoError(t, s.Load("status.json", &doc, statusDoc{FinalStatus: 0}))
	assert.Equal(t, 0, doc.FinalStatus)

	data, err := os.ReadFile(s.Path("status.json"))
	require.NoError(t, err)
	assert.JSONEq(t, `{"final_status": 0}`, string(data))
}

func TestLoad_CorruptDocumentIsReplaced(t *testing.T) {
	s, err := New(t.TempDir())
	require.NoError(t, err)
	require.NoError(t, os.WriteFile(s.Path("last_ids.json"), []byte("{not json"), 0644))

	ids := map[string]int64{"stale": 1}
	require.NoError(t, s.Load("last_ids.json", &ids, map[string]int64{}))
	assert.Empty(t, ids)

	data, err := os.ReadFile(s.Path("last_ids.json"))
	require.NoError(t, err)
	assert.JSONEq(t, `{}`, string(data))
}

func TestSaveThenLoad(t *testing.T) {
	s, err := New(t.TempDir())
	require.NoError(t, err)

	require.NoError(t, s.Save("last_ids.json", map[string]int64{"@a": 10, "@b": 42}))

	var ids map[string]int64
	require.NoError(t, s.Load("last_ids.json", &ids, map[string]int64{}))
	assert.Equal(t, map[string]int64{"@a": 10, "@b": 42}, ids)

	entries, err := os.ReadDir(s.Path(""))
	require.NoError(t, err)
	for _, e := range entries {
		assert.NotContains(t, e.Name(), ".tmp", "temp files must not be left behind")
	}
}

func TestLock_SecondHolderIsRejected(t *testing.T) {
	dir := t.TempDir()
	first, err := New(dir)
	require.NoError(t, err)
	second, err := New(dir)
	require.NoError(t, err)

	unlock, err := first.Lock(context.Background(), time.Second)
	require.NoError(t, err)

	_, err = second.Lock(context.Background(), 200*time.Millisecond)
	assert.ErrorIs(t, err, errors.ErrLocked)

	require.NoError(t, unlock())

	unlock, err = second.Lock(context.Background(), time.Second)
	require.NoError(t, err)
	require.NoError(t, unlock())
}

func TestWriteFile_ReplacesArtifact(t *testing.T) {
	s, err := New(t.TempDir())
	require.NoError(t, err)

	require.NoError(t, s.WriteFile("feed.atom", []byte("one")))
	require.NoError(t, s.WriteFile("feed.atom", []byte("two")))

	data, err := os.ReadFile(s.Path("feed.atom"))
	require.NoError(t, err)
	assert.Equal(t, "two", string(data))
}

func TestLock_CancelledContextIsNotContention(t *testing.T) {
	s, err := New(t.TempDir())
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err = s.Lock(ctx, time.Second)
	require.Error(t, err)
	assert.ErrorIs(t, err, context.Canceled)
	assert.NotErrorIs(t, err, errors.ErrLocked)
}
