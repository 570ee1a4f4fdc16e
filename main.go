package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"

	"conference-webapp/config"
	"conference-webapp/database"
	"conference-webapp/handlers"
	"conference-webapp/router"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("loading configuration", "error", err)
		os.Exit(1)
	}

	var store database.Store
	switch cfg.Storage {
	case config.StorageLocal:
		store = database.NewLocalStore(cfg.LocalDBPath)
		slog.Info("using local database", "path", cfg.LocalDBPath)
	default:
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		mongoStore, err := database.DBInit(ctx, cfg.MongoURI, cfg.MongoDatabase)
		cancel()
		if err != nil {
			slog.Error("database connection failed", "error", err)
			os.Exit(1)
		}
		defer mongoStore.Disconnect(context.Background())
		store = mongoStore
	}

	app := fiber.New()
	h := handlers.New(store, cfg.Sign, cfg.TokenTTL, slog.Default())
	router.SetupRoutes(app, h, cfg.Sign)

	ctrlc := make(chan os.Signal, 1)
	signal.Notify(ctrlc, os.Interrupt, syscall.SIGTERM)
	go func() {
		<-ctrlc
		_ = app.Shutdown()
	}()

	slog.Info("Listening", "addr", cfg.Addr(), "env", cfg.Env)
	if err := app.Listen(cfg.Addr()); err != nil {
		slog.Error("Server closed", "error", err)
	}
}
