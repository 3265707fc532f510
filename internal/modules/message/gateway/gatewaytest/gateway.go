// Package gatewaytest provides an in-memory gateway.Gateway for tests.
package gatewaytest

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/reshetovitsme/tg-channel-relay/internal/modules/message/domain"
	"github.com/reshetovitsme/tg-channel-relay/internal/modules/message/gateway"
)

// Sent records one successful send.
type Sent struct {
	Channel    string
	Text       string
	Entities   []domain.Entity
	Paths      []string
	ScheduleAt time.Time
}

// Gateway serves canned messages and records sends.
type Gateway struct {
	mu sync.Mutex

	Messages    map[string][]*domain.Message
	FetchErr    map[string]error
	DownloadErr map[int64]error
	// SendErrs is consumed one entry per send call; nil entries and an
	// exhausted slice mean success.
	SendErrs []error

	Sent      []Sent
	Fetches   []string
	Downloads []int64
}

var _ gateway.Gateway = (*Gateway)(nil)

func New() *Gateway {
	return &Gateway{
		Messages:    map[string][]*domain.Message{},
		FetchErr:    map[string]error{},
		DownloadErr: map[int64]error{},
	}
}

// Add appends messages to a channel's history.
func (g *Gateway) Add(channel string, msgs ...*domain.Message) {
	g.mu.Lock()
	defer g.mu.Unlock()
	for _, m := range msgs {
		m.ChannelID = channel
	}
	g.Messages[channel] = append(g.Messages[channel], msgs...)
}

func (g *Gateway) FetchMessages(_ context.Context, channel string, minID int64, limit int) ([]*domain.Message, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.Fetches = append(g.Fetches, channel)

	if err := g.FetchErr[channel]; err != nil {
		return nil, err
	}

	var out []*domain.Message
	for _, m := range g.Messages[channel] {
		if m.ID > minID {
			out = append(out, m)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (g *Gateway) DownloadMedia(_ context.Context, msg *domain.Message, dir string) (string, error) {
	g.mu.Lock()
	defer g.mu.Unlock()

	if err := g.DownloadErr[msg.ID]; err != nil {
		return "", err
	}
	if err := os.MkdirAll(dir, 0755); err != nil {
		return "", err
	}
	name := fmt.Sprintf("%s_%d.bin", strings.TrimPrefix(msg.ChannelID, "@"), msg.ID)
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte("media"), 0644); err != nil {
		return "", err
	}
	g.Downloads = append(g.Downloads, msg.ID)
	return path, nil
}

func (g *Gateway) SendText(_ context.Context, channel, text string, entities []domain.Entity, scheduleAt time.Time) error {
	return g.send(Sent{Channel: channel, Text: text, Entities: entities, ScheduleAt: scheduleAt})
}

func (g *Gateway) SendMedia(_ context.Context, channel string, paths []string, caption string, entities []domain.Entity, scheduleAt time.Time) error {
	return g.send(Sent{
		Channel:    channel,
		Text:       caption,
		Entities:   entities,
		Paths:      append([]string(nil), paths...),
		ScheduleAt: scheduleAt,
	})
}

func (g *Gateway) send(s Sent) error {
	g.mu.Lock()
	defer g.mu.Unlock()

	if len(g.SendErrs) > 0 {
		err := g.SendErrs[0]
		g.SendErrs = g.SendErrs[1:]
		if err != nil {
			return err
		}
	}
	g.Sent = append(g.Sent, s)
	return nil
}
