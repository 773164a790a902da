// Command formwright builds, stores and synthesises inspection forms.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/custodia-labs/formwright/internal/adapters/driven/config/file"
	"github.com/custodia-labs/formwright/internal/adapters/driven/storage/local"
	"github.com/custodia-labs/formwright/internal/adapters/driven/storage/memory"
	"github.com/custodia-labs/formwright/internal/adapters/driven/storage/rest"
	"github.com/custodia-labs/formwright/internal/adapters/driven/storage/sqlite"
	"github.com/custodia-labs/formwright/internal/adapters/driving/cli"
	"github.com/custodia-labs/formwright/internal/core/domain"
	"github.com/custodia-labs/formwright/internal/core/ports/driven"
	"github.com/custodia-labs/formwright/internal/core/ports/driving"
	"github.com/custodia-labs/formwright/internal/core/services"
	"github.com/custodia-labs/formwright/internal/logger"
	"github.com/custodia-labs/formwright/internal/templates"
)

// Set at build time with -ldflags "-X main.version=...".
var version = "dev"

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	err := run(ctx)
	stop()
	if err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}

func run(ctx context.Context) error {
	configStore, err := file.NewConfigStore("")
	if err != nil {
		return fmt.Errorf("failed to open config: %w", err)
	}
	settingsService := services.NewSettingsService(configStore, rest.NewValidator())
	settings, err := settingsService.Get()
	if err != nil {
		return fmt.Errorf("failed to load settings: %w", err)
	}

	records, closeRecords, err := openRecords(settings.Storage)
	if err != nil {
		return err
	}
	defer closeRecords()

	opts := []services.FormServiceOption{
		services.WithProbeInterval(settings.Breaker.ProbeInterval),
		services.WithDefaultOwner(settings.Owner),
	}
	if settings.Remote.IsConfigured() {
		remote, err := rest.New(rest.Config{URL: settings.Remote.URL, Key: settings.Remote.Key})
		if err != nil {
			logger.Warn("remote backend disabled: %v", err)
		} else {
			opts = append(opts, services.WithRemote(remote))
		}
	}
	formService := services.NewFormService(local.New(records), opts...)

	templateService := services.NewTemplateService(templates.MustBuiltin(),
		services.WithDelays(settings.Synthesis.GenerateDelay, settings.Synthesis.ModifyDelay),
	)

	cli.SetVersion(version)
	cli.SetServices(cli.Services{
		Forms:     formService,
		Templates: templateService,
		Settings:  settingsService,
		NewSession: func() driving.GenerationSession {
			return services.NewGenerationSession(templateService)
		},
		Owner: settings.Owner,
	})
	return cli.Execute(ctx)
}

// openRecords returns the local record store selected by settings and a
// func releasing it.
func openRecords(cfg domain.StorageSettings) (driven.RecordStore, func(), error) {
	if cfg.Ephemeral {
		logger.Debug("using in-memory record store")
		return memory.NewRecordStore(), func() {}, nil
	}
	store, err := sqlite.NewStore(cfg.DataDir)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to open local store: %w", err)
	}
	logger.Debug("using record store at %s", store.Path())
	return store, func() {
		if err := store.Close(); err != nil {
			logger.Warn("failed to close record store: %v", err)
		}
	}, nil
}
