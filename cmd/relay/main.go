package main

import (
	"context"
	"errors"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/reshetovitsme/tg-channel-relay/internal/di"
	pipelineService "github.com/reshetovitsme/tg-channel-relay/internal/modules/pipeline/service"
	"github.com/reshetovitsme/tg-channel-relay/internal/shared/config"
	sharedErrors "github.com/reshetovitsme/tg-channel-relay/internal/shared/errors"
	"github.com/reshetovitsme/tg-channel-relay/internal/transport/telegram"
	"github.com/samber/do/v2"
	slogmulti "github.com/samber/slog-multi"
)

func main() {
	os.Exit(run())
}

func run() int {
	setupLogging(os.Getenv("LOG_LEVEL"))

	injector := di.Setup()

	// Config errors are the only failures that change the exit code
	cfg, err := do.Invoke[*config.Config](injector)
	if err != nil {
		slog.Error("Invalid configuration", "error", err)
		return 1
	}
	setupLogging(cfg.LogLevel)

	gw, err := do.Invoke[*telegram.Gateway](injector)
	if err != nil {
		slog.Error("Failed to set up telegram session", "error", err)
		return 1
	}
	driver := do.MustInvoke[*pipelineService.Driver](injector)

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	slog.Info("Relay run started", "env", cfg.AppEnv.String(), "sources", len(cfg.SourceChannels))

	if err := gw.Run(ctx, driver.Run); err != nil {
		if errors.Is(err, sharedErrors.ErrMissingSession) {
			slog.Error("Session is not authorized", "error", err)
			return 1
		}
		slog.Error("Relay run failed", "error", err)
		return 0
	}

	slog.Info("Relay run finished")
	return 0
}

// setupLogging sends everything at level to stdout as text and errors to
// stderr as JSON
func setupLogging(level string) {
	var lvl slog.Level
	if err := lvl.UnmarshalText([]byte(strings.TrimSpace(level))); err != nil {
		lvl = slog.LevelInfo
	}

	textHandler := slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
		Level: lvl,
	})
	jsonHandler := slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{
		Level: slog.LevelError,
	})

	slog.SetDefault(slog.New(slogmulti.Fanout(textHandler, jsonHandler)))
}
