// Command admindesk is an authenticated client for the admin backend.
package main

import (
	"context"
	"fmt"
	"os"

	"github.com/custodia-labs/admindesk/internal/adapters/driven/clock"
	"github.com/custodia-labs/admindesk/internal/adapters/driven/config/file"
	"github.com/custodia-labs/admindesk/internal/adapters/driven/httpapi"
	"github.com/custodia-labs/admindesk/internal/adapters/driven/jwt"
	"github.com/custodia-labs/admindesk/internal/adapters/driven/navigation"
	"github.com/custodia-labs/admindesk/internal/adapters/driven/storage/memory"
	"github.com/custodia-labs/admindesk/internal/adapters/driven/storage/sqlite"
	"github.com/custodia-labs/admindesk/internal/adapters/driving/cli"
	"github.com/custodia-labs/admindesk/internal/core/domain"
	"github.com/custodia-labs/admindesk/internal/core/ports/driven"
	"github.com/custodia-labs/admindesk/internal/core/services"
	"github.com/custodia-labs/admindesk/internal/logger"
)

// Set at build time with -ldflags "-X main.version=...".
var version = "dev"

func main() {
	if err := run(); err != nil {
		os.Exit(1)
	}
}

func run() error {
	configStore, err := file.NewConfigStore("")
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return err
	}
	settings := services.NewSettingsService(configStore)

	cfg, err := settings.Get()
	if err != nil {
		logger.Warn("invalid configuration, using defaults: %v", err)
		cfg = domain.DefaultClientConfig()
	}

	storage, closeStorage, err := openTokenStorage(cfg.Storage)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return err
	}
	defer closeStorage()

	client := httpapi.NewClient(cfg)
	session := services.NewSession(services.SessionDeps{
		Storage:   storage,
		Codec:     jwt.NewCodec(),
		Backend:   httpapi.NewAuthBackend(client),
		Clock:     clock.System{},
		Navigator: navigation.NewTerminal(os.Stderr, "admindesk login"),
	}, cfg)
	client.SetSession(session)
	defer func() { _ = session.Dispose() }()

	state := session.Start(context.Background())
	logger.Debug("session restored: %s", state)

	cli.SetVersion(version)
	cli.SetServices(cli.Services{
		Session:  session,
		API:      client,
		Settings: settings,
		Watcher:  configStore,
		Reconfigure: func(next domain.ClientConfig) {
			client.Configure(next)
			session.Configure(context.Background(), next)
		},
	})

	return cli.Execute()
}

// openTokenStorage returns the configured token storage and its release func.
func openTokenStorage(backend domain.StorageBackend) (driven.TokenStorage, func(), error) {
	if backend == domain.StorageMemory {
		return memory.NewTokenStorage(), func() {}, nil
	}

	store, err := sqlite.NewStore("")
	if err != nil {
		return nil, nil, fmt.Errorf("failed to open token database: %w", err)
	}
	return store.TokenStorage(), func() {
		if err := store.Close(); err != nil {
			logger.Warn("closing token database: %v", err)
		}
	}, nil
}
