package main

import (
	"log/slog"

	"jukebridge/internal/bridge"
	"jukebridge/internal/config"
	"jukebridge/internal/daemon"
	"jukebridge/internal/inbox"
	"jukebridge/internal/notifications"
	"jukebridge/internal/queuesync"
	"jukebridge/internal/resolver"
	"jukebridge/internal/storage"
)

func buildDaemon(cfg *config.Config, logger *slog.Logger) (*daemon.Daemon, error) {
	store := storage.NewConfiguredClient(cfg)
	songs := resolver.NewConfiguredResolver(cfg)
	notifier := notifications.NewService(cfg)

	queue := queuesync.New(store, cfg.Storage.QueueKey, logger)
	processor := inbox.NewProcessor(store, cfg.Storage.InboxKey, songs, queue, logger)
	manager := bridge.NewManager(cfg, queue, processor, notifier, logger)

	return daemon.New(cfg, manager, logger)
}
