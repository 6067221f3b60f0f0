package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"assetsvc/internal/api"
	"assetsvc/internal/config"
	"assetsvc/internal/logger"
	"assetsvc/internal/middleware"
	"assetsvc/internal/monitoring"
	"assetsvc/internal/service"
	"assetsvc/internal/storage"
	"assetsvc/internal/telemetry"
	"assetsvc/internal/validator"

	"github.com/gofiber/fiber/v2"
)

func main() {
	if err := run(context.Background()); err != nil {
		slog.Error("Fatal error", "error", err)
		os.Exit(1)
	}
}

func run(ctx context.Context) error {
	cfg := config.NewConfig()

	tel, err := monitoring.NewOpenTelemetry(cfg.Telemetry)
	if err != nil {
		return fmt.Errorf("initialize telemetry: %w", err)
	}
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := tel.Shutdown(shutdownCtx); err != nil {
			slog.Error("Telemetry shutdown failed", "error", err)
		}
	}()

	logger.New(*cfg)

	// Backend gateway. The grpc mode is the production path; memory
	// mode runs the façade against an in-process stand-in.
	var clients storage.Clients
	switch cfg.Storage.Mode {
	case "memory":
		slog.Warn("Running with in-memory storage backend; state is not persisted")
		clients = storage.NewMemory().Clients()
	default:
		target := fmt.Sprintf("%s:%d", cfg.Storage.Host, cfg.Storage.Port)
		grpcClients, err := storage.NewGrpcClients(target, cfg.Storage.CallTimeout)
		if err != nil {
			return fmt.Errorf("connect storage service: %w", err)
		}
		defer grpcClients.Close()
		clients = grpcClients.Clients()
		slog.Info("Storage gateway configured", "target", target)
	}

	validate := validator.New()
	assetService := service.NewAssetService(clients.Assets, validate)
	groupService := service.NewGroupService(clients.Groups, assetService, validate)
	delegationService := service.NewDelegationService(groupService, validate)

	app := fiber.New(fiber.Config{
		AppName:      cfg.Telemetry.ServiceName,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	})

	app.Use(telemetry.FiberMiddleware(cfg.Telemetry.ServiceName))
	app.Use(middleware.Logger())

	handler := api.NewHandler(assetService, groupService, delegationService, clients, tel)
	api.RegisterRoutes(app, &handler)

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		addr := cfg.Server.Host + ":" + cfg.Server.Port
		slog.Info("Starting HTTP server...", "addr", addr)
		if err := app.Listen(addr); err != nil {
			slog.Error("HTTP server stopped", "error", err)
			sigChan <- syscall.SIGTERM
		}
	}()

	sig := <-sigChan
	slog.Info("Received signal, shutting down", "signal", sig.String())

	if err := app.Shutdown(); err != nil {
		return fmt.Errorf("server shutdown: %w", err)
	}
	return nil
}
