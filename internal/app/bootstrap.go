package app

import (
	"context"
	"fmt"
	"log/slog"

	"apex_bot/internal/domain"
	"apex_bot/internal/infra"
	"apex_bot/internal/infra/binance"
	"apex_bot/internal/infra/storage"
	"apex_bot/internal/trading"
)

// Bootstrap orchestrates the startup sequence shared by the CLI and the
// web server: config, logger, storage, exchange client, engine.
type Bootstrap struct {
	Config  *infra.Config
	Storage *storage.Storage
	Client  *binance.Client
	Engine  *trading.Engine
}

// NewBootstrap creates a new Bootstrap instance
func NewBootstrap() *Bootstrap {
	return &Bootstrap{}
}

// Initialize performs core system initialization.
func (b *Bootstrap) Initialize(configPath string) error {
	// 1. Load Config (env overrides included)
	cfg, err := infra.LoadConfig(configPath)
	if err != nil {
		return err
	}
	b.Config = cfg

	// 2. Setup Logger
	logger := infra.NewLogger(cfg)
	slog.SetDefault(logger)
	slog.Info("bootstrapping",
		slog.String("app", cfg.App.Name),
		slog.String("rest_url", cfg.API.Binance.RestURL))

	if !cfg.HasCredentials() {
		return fmt.Errorf("%w: set BINANCE_TESTNET_API_KEY and BINANCE_TESTNET_API_SECRET (or the config file)",
			domain.ErrMissingCredentials)
	}

	// 3. Initialize Storage (order history)
	store, err := storage.NewStorage(cfg.Storage.Path)
	if err != nil {
		return err
	}
	b.Storage = store
	slog.Info("order history database initialized", slog.String("path", cfg.Storage.Path))

	// 4. Exchange client and engine
	b.Client = binance.NewClient(cfg)
	b.Engine = trading.NewEngine(b.Client, store, cfg.Trading.QuoteSuffix)

	return nil
}

// ValidateConnection proves the credentials against the testnet before
// any order is attempted. Separate from Initialize so offline commands
// (like history listing) can skip the network round trip.
func (b *Bootstrap) ValidateConnection(ctx context.Context) error {
	if err := b.Client.ValidateConnection(ctx); err != nil {
		return err
	}
	slog.Info("connected to the futures testnet")
	return nil
}
