package di

import (
	"context"

	collectorService "github.com/reshetovitsme/tg-channel-relay/internal/modules/collector/service"
	escalatorService "github.com/reshetovitsme/tg-channel-relay/internal/modules/escalator/service"
	"github.com/reshetovitsme/tg-channel-relay/internal/modules/message/gateway"
	pipelineRepo "github.com/reshetovitsme/tg-channel-relay/internal/modules/pipeline/repository"
	pipelineService "github.com/reshetovitsme/tg-channel-relay/internal/modules/pipeline/service"
	publisherService "github.com/reshetovitsme/tg-channel-relay/internal/modules/publisher/service"
	queueRepo "github.com/reshetovitsme/tg-channel-relay/internal/modules/queue/repository"
	reviewService "github.com/reshetovitsme/tg-channel-relay/internal/modules/review/service"
	"github.com/reshetovitsme/tg-channel-relay/internal/shared/config"
	"github.com/reshetovitsme/tg-channel-relay/internal/shared/store"
	"github.com/reshetovitsme/tg-channel-relay/internal/transport/botapi"
	"github.com/reshetovitsme/tg-channel-relay/internal/transport/telegram"
	"github.com/samber/do/v2"
	"github.com/samber/oops"
)

// Setup initializes the dependency injection container. Providers are lazy:
// nothing is loaded until main invokes it.
func Setup() do.Injector {
	injector := do.New()

	// Register Config
	do.Provide(injector, func(i do.Injector) (*config.Config, error) {
		cfg, err := config.Load()
		if err != nil {
			return nil, oops.With("context", "failed to load config").Wrap(err)
		}
		return cfg, nil
	})

	// Register State Store
	do.Provide(injector, func(i do.Injector) (*store.Store, error) {
		cfg := do.MustInvoke[*config.Config](i)
		s, err := store.New(cfg.StatePath)
		if err != nil {
			return nil, oops.With("state_path", cfg.StatePath, "context", "failed to initialize state store").Wrap(err)
		}
		return s, nil
	})

	// Register Repositories
	do.Provide(injector, func(i do.Injector) (queueRepo.Repository, error) {
		return queueRepo.NewFileStorage(do.MustInvoke[*store.Store](i)), nil
	})
	do.Provide(injector, func(i do.Injector) (pipelineRepo.Repository, error) {
		return pipelineRepo.NewFileStorage(do.MustInvoke[*store.Store](i)), nil
	})

	// Register Telegram Gateway
	do.Provide(injector, func(i do.Injector) (*telegram.Gateway, error) {
		cfg := do.MustInvoke[*config.Config](i)
		gw, err := telegram.New(context.Background(), cfg)
		if err != nil {
			return nil, oops.With("context", "failed to create telegram gateway").Wrap(err)
		}
		return gw, nil
	})
	do.Provide(injector, func(i do.Injector) (gateway.Gateway, error) {
		return do.MustInvoke[*telegram.Gateway](i), nil
	})

	// Register Review Service (bot notifier only when a review chat is configured)
	do.Provide(injector, func(i do.Injector) (*reviewService.Service, error) {
		cfg := do.MustInvoke[*config.Config](i)
		s := do.MustInvoke[*store.Store](i)

		var notifier reviewService.Notifier
		if cfg.ReviewNotificationsEnabled() {
			n, err := botapi.New(cfg)
			if err != nil {
				return nil, oops.With("context", "failed to create review notifier").Wrap(err)
			}
			notifier = n
		}
		return reviewService.New(cfg, s, notifier), nil
	})

	// Register Phase Services
	do.Provide(injector, func(i do.Injector) (*collectorService.Service, error) {
		return collectorService.New(
			do.MustInvoke[*config.Config](i),
			do.MustInvoke[gateway.Gateway](i),
			do.MustInvoke[queueRepo.Repository](i),
			do.MustInvoke[pipelineRepo.Repository](i),
			do.MustInvoke[*reviewService.Service](i),
		), nil
	})
	do.Provide(injector, func(i do.Injector) (*escalatorService.Service, error) {
		return escalatorService.New(
			do.MustInvoke[*config.Config](i),
			do.MustInvoke[queueRepo.Repository](i),
			do.MustInvoke[pipelineRepo.Repository](i),
			do.MustInvoke[*reviewService.Service](i),
		), nil
	})
	do.Provide(injector, func(i do.Injector) (*publisherService.Service, error) {
		return publisherService.New(
			do.MustInvoke[*config.Config](i),
			do.MustInvoke[gateway.Gateway](i),
			do.MustInvoke[queueRepo.Repository](i),
			do.MustInvoke[pipelineRepo.Repository](i),
		), nil
	})

	// Register Pipeline Driver
	do.Provide(injector, func(i do.Injector) (*pipelineService.Driver, error) {
		return pipelineService.NewDriver(
			do.MustInvoke[*store.Store](i),
			do.MustInvoke[pipelineRepo.Repository](i),
			do.MustInvoke[*collectorService.Service](i),
			do.MustInvoke[*escalatorService.Service](i),
			do.MustInvoke[*publisherService.Service](i),
		), nil
	})

	return injector
}
