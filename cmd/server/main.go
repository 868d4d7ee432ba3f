package main

import (
	"chat-gate/avatar"
	"chat-gate/internal"
	"chat-gate/repositories"
	"chat-gate/services"
	"chat-gate/storage"
	"chat-gate/sweeper"
	transport "chat-gate/transport/http"
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/Netflix/go-env"
	"github.com/joho/godotenv"
)

// Exit codes to provide meaningful status to the operating system or
// service manager.
const (
	exitOK      = 0
	exitRuntime = 1
	exitConfig  = 2
)

func main() {
	// The main function acts as a thin wrapper; run() owns the lifecycle
	// so deferred cleanup executes before the process exits.
	code, err := run()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Server terminated with error: %v\n", err)
	}
	os.Exit(code)
}

func run() (int, error) {
	// 1. Configuration & Logger
	_ = godotenv.Load()

	var config internal.Config
	if _, err := env.UnmarshalFromEnviron(&config); err != nil {
		return exitConfig, fmt.Errorf("config error: %w", err)
	}
	if err := config.Validate(); err != nil {
		return exitConfig, fmt.Errorf("config error: %w", err)
	}

	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: config.Level()}))
	slog.SetDefault(logger)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// 2. Storage backend
	store, err := openStore(ctx, config)
	if err != nil {
		return exitRuntime, err
	}
	defer func() {
		logger.Info("Closing storage backend...")
		_ = store.Close()
	}()
	logger.Info("Storage backend ready", "backend", config.StorageBackend)

	// 3. Repositories & services
	users := repositories.NewUserRepository(store)
	messages := repositories.NewMessageRepository(store, logger)
	configRepository := repositories.NewConfigRepository(store)

	// One-time idempotent bootstrap, before any traffic.
	if err := services.Bootstrap(ctx, users, configRepository, config.AdminPassword, logger); err != nil {
		return exitRuntime, fmt.Errorf("bootstrap failed: %w", err)
	}

	prober := avatar.NewProber(logger, config.AvatarProbeTimeout)
	accounts := services.NewAccountService(users, prober, config.InviteCode, logger)
	chat := services.NewChatService(users, messages, config.MessageWindow, logger)
	moderation := services.NewModerationService(users, configRepository, logger)
	retention := services.NewRetentionService(messages, configRepository, logger)

	// 4. Retention sweeper
	go sweeper.New(retention, config.SweepInterval, logger).Run(ctx)

	// 5. HTTP API
	server := transport.New(accounts, chat, moderation, retention, logger)
	if err := server.Start(ctx, config.Host, config.Port); err != nil {
		return exitRuntime, fmt.Errorf("http server: %w", err)
	}

	logger.Info("Shutdown complete")
	return exitOK, nil
}

func openStore(ctx context.Context, config internal.Config) (storage.Store, error) {
	switch config.StorageBackend {
	case internal.BackendBadger:
		return storage.OpenBadger(config.BadgerFilepath)
	case internal.BackendMongo:
		return storage.NewMongoStore(ctx, config.MongoURI, config.MongoDatabase, config.MongoCollection)
	case internal.BackendDataAPI:
		return storage.NewDataAPIStore(config.DataAPIEndpoint, config.DataAPIKey,
			config.DataAPIDataSource, config.MongoDatabase, config.MongoCollection), nil
	default:
		return nil, fmt.Errorf("unknown storage backend %q", config.StorageBackend)
	}
}
