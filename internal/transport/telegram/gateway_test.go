package telegram

import (
	"testing"

	"github.com/gotd/td/tg"
	"github.com/stretchr/testify/assert"
)

func TestHistoryRequest(t *testing.T) {
	p := &tg.InputPeerChannel{ChannelID: 1, AccessHash: 2}

	t.Run("first run reads the newest page", func(t *testing.T) {
		req := historyRequest(p, 0, 100)
		assert.Equal(t, 0, req.OffsetID)
		assert.Equal(t, 0, req.AddOffset)
		assert.Equal(t, 0, req.MinID)
		assert.Equal(t, 100, req.Limit)
		assert.Equal(t, p, req.Peer)
	})

	t.Run("known watermark reads upward from it", func(t *testing.T) {
		req := historyRequest(p, 500, 100)
		assert.Equal(t, 501, req.OffsetID)
		assert.Equal(t, -100, req.AddOffset)
		assert.Equal(t, 500, req.MinID)
		assert.Equal(t, 100, req.Limit)
	})
}
