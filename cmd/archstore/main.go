// Command archstore searches the official repositories, the AUR and
// Flatpak remotes at once.
package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/paterkleomenis/archstore/internal/adapters/driven/config/file"
	"github.com/paterkleomenis/archstore/internal/adapters/driven/providers"
	"github.com/paterkleomenis/archstore/internal/adapters/driven/storage/sqlite"
	"github.com/paterkleomenis/archstore/internal/adapters/driving/cli"
	"github.com/paterkleomenis/archstore/internal/core/services"
	"github.com/paterkleomenis/archstore/internal/logger"
)

// version is set at build time via -ldflags.
var version = "dev"

var errCommandFailed = errors.New("command failed")

func main() {
	if err := run(); err != nil {
		// Cobra has already reported command errors.
		if !errors.Is(err, errCommandFailed) {
			fmt.Fprintln(os.Stderr, "Error:", err)
		}
		os.Exit(1)
	}
}

func run() error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	configStore, err := file.NewConfigStore("")
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}
	settingsService := services.NewSettingsService(configStore)

	store, err := sqlite.NewStore("")
	if err != nil {
		return fmt.Errorf("opening database: %w", err)
	}
	defer store.Close()

	historyService := services.NewHistoryService(store.HistoryStore())

	settings, err := settingsService.Get()
	if err != nil {
		return fmt.Errorf("reading settings: %w", err)
	}

	sourceProviders := providers.New(providers.Options{
		Settings: settings.Providers,
		Cache:    store.CacheStore(),
		CacheTTL: settings.Cache.TTL,
	})

	searchService, err := services.NewSearchService(
		sourceProviders,
		settingsService,
		services.WithHistory(historyService),
	)
	if err != nil {
		return fmt.Errorf("creating search service: %w", err)
	}
	defer searchService.Close()

	packageService := services.NewPackageService(sourceProviders)

	schedulerConfig := settingsService.GetSchedulerConfig()
	scheduler := services.NewScheduler(
		schedulerConfig,
		store.SchedulerStore(),
		store.CacheStore(),
		store.HistoryStore(),
		settings.Cache.TTL,
	)

	// Source toggles and search settings are read per session, so a
	// reloaded file applies to the next query. Provider options apply on
	// the next start.
	watcher, err := file.NewWatcher(configStore, func() {
		logger.Info("settings reloaded from %s", configStore.Path())
	})
	if err != nil {
		logger.Warn("config hot reload unavailable: %v", err)
	} else {
		defer watcher.Close()
		go watcher.Run(ctx)
	}

	cli.SetVersion(version)
	cli.SetServices(cli.Services{
		Search:          searchService,
		Settings:        settingsService,
		History:         historyService,
		Packages:        packageService,
		Scheduler:       scheduler,
		SchedulerConfig: schedulerConfig,
	})

	if err := cli.Execute(ctx); err != nil {
		return errCommandFailed
	}
	return nil
}
