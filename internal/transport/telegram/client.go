// Package telegram implements the message gateway on top of an MTProto user
// account session.
package telegram

import (
	"context"
	"strconv"
	"strings"
	"sync"

	"github.com/gotd/td/session"
	"github.com/gotd/td/telegram"
	"github.com/gotd/td/telegram/downloader"
	"github.com/gotd/td/telegram/message"
	"github.com/gotd/td/telegram/message/peer"
	"github.com/gotd/td/telegram/uploader"
	"github.com/gotd/td/tg"
	channelDomain "github.com/reshetovitsme/tg-channel-relay/internal/modules/channel/domain"
	"github.com/reshetovitsme/tg-channel-relay/internal/shared/config"
	"github.com/reshetovitsme/tg-channel-relay/internal/shared/errors"
	"github.com/samber/oops"
)

// channelIDPrefix marks numeric channel IDs in the "-100<id>" form
const channelIDPrefix = "-100"

// Gateway is a gateway.Gateway backed by a user account. It can only be used
// inside Run, while the connection is up.
type Gateway struct {
	client *telegram.Client

	mu         sync.Mutex
	api        *tg.Client
	sender     *message.Sender
	uploader   *uploader.Uploader
	downloader *downloader.Downloader
	peers      map[string]tg.InputPeerClass
}

// New prepares a client from a Telethon string session. No connection is made.
func New(ctx context.Context, cfg *config.Config) (*Gateway, error) {
	data, err := session.TelethonSession(strings.TrimSpace(cfg.Session))
	if err != nil {
		return nil, oops.With("context", "failed to decode session string").Wrap(err)
	}

	storage := new(session.StorageMemory)
	loader := session.Loader{Storage: storage}
	if err := loader.Save(ctx, data); err != nil {
		return nil, oops.With("context", "failed to import session").Wrap(err)
	}

	client := telegram.NewClient(cfg.APIID, cfg.APIHash, telegram.Options{
		SessionStorage: storage,
	})

	return &Gateway{
		client:     client,
		downloader: downloader.NewDownloader(),
		peers:      map[string]tg.InputPeerClass{},
	}, nil
}

// Run connects, checks the session is authorized and calls f while connected
func (g *Gateway) Run(ctx context.Context, f func(ctx context.Context) error) error {
	return g.client.Run(ctx, func(ctx context.Context) error {
		status, err := g.client.Auth().Status(ctx)
		if err != nil {
			return oops.With("context", "failed to check authorization").Wrap(err)
		}
		if !status.Authorized {
			return errors.ErrMissingSession
		}

		api := g.client.API()
		g.mu.Lock()
		g.api = api
		g.sender = message.NewSender(api)
		g.uploader = uploader.NewUploader(api)
		g.mu.Unlock()

		return f(ctx)
	})
}

func (g *Gateway) conn() (*tg.Client, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.api == nil {
		return nil, oops.Errorf("telegram client is not connected")
	}
	return g.api, nil
}

// resolve turns a configured channel identifier into an input peer, caching the result
func (g *Gateway) resolve(ctx context.Context, channel string) (tg.InputPeerClass, error) {
	api, err := g.conn()
	if err != nil {
		return nil, err
	}

	g.mu.Lock()
	p, ok := g.peers[channel]
	g.mu.Unlock()
	if ok {
		return p, nil
	}

	if handle := channelDomain.New(channel).Handle(); handle != "" {
		p, err = peer.DefaultResolver(api).ResolveDomain(ctx, handle)
	} else {
		p, err = resolveChannelID(ctx, api, channel)
	}
	if err != nil {
		return nil, oops.With("channel", channel, "context", "failed to resolve channel").Wrap(err)
	}

	g.mu.Lock()
	g.peers[channel] = p
	g.mu.Unlock()
	return p, nil
}

func resolveChannelID(ctx context.Context, api *tg.Client, channel string) (tg.InputPeerClass, error) {
	id, err := strconv.ParseInt(strings.TrimPrefix(strings.TrimSpace(channel), channelIDPrefix), 10, 64)
	if err != nil {
		return nil, oops.Errorf("unrecognised channel identifier %q", channel)
	}

	res, err := api.ChannelsGetChannels(ctx, []tg.InputChannelClass{&tg.InputChannel{ChannelID: id}})
	if err != nil {
		return nil, err
	}
	for _, chat := range res.GetChats() {
		if ch, ok := chat.(*tg.Channel); ok && ch.ID == id {
			return ch.AsInputPeer(), nil
		}
	}
	return nil, oops.Errorf("channel %d not found", id)
}
