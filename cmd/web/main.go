package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"apex_bot/internal/app"
	"apex_bot/internal/web"
)

func main() {
	configPath := flag.String("config", "configs/config.yaml", "path to the config file")
	flag.Parse()

	bootstrap := app.NewBootstrap()
	if err := bootstrap.Initialize(*configPath); err != nil {
		fmt.Fprintf(os.Stderr, "startup failed: %v\n", err)
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := bootstrap.ValidateConnection(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "%v\n", err)
		os.Exit(1)
	}

	server := web.NewServer(bootstrap.Engine, bootstrap.Storage, bootstrap.Config.Web.AllowedOrigins)

	errCh := make(chan error, 1)
	go func() {
		errCh <- server.Start(bootstrap.Config.Web.ListenAddr)
	}()

	select {
	case <-ctx.Done():
		slog.Info("shutting down")
	case err := <-errCh:
		slog.Error("web server failed", slog.Any("error", err))
		os.Exit(1)
	}
}
