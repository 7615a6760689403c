package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"github.com/solotrip/solotrip-go/internal/config"
	"github.com/solotrip/solotrip-go/internal/crypto"
	"github.com/solotrip/solotrip-go/internal/handler"
	"github.com/solotrip/solotrip-go/internal/logger"
	"github.com/solotrip/solotrip-go/internal/service"
	"github.com/solotrip/solotrip-go/internal/storage"
)

func main() {
	if err := godotenv.Load(); err != nil {
		slog.Warn("no .env file found, using environment variables")
	}

	cfg, err := config.Load()
	if err != nil {
		slog.Error("loading configuration", "error", err)
		os.Exit(1)
	}

	logger.Setup(cfg.Server.LogLevel, cfg.Server.LogFormat)

	if err := run(cfg); err != nil {
		slog.Error("server error", "error", err)
		os.Exit(1)
	}
}

func run(cfg *config.Config) error {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	stores, err := storage.Open(ctx, cfg.Database)
	if err != nil {
		return err
	}
	defer stores.Close()

	tokens, err := crypto.NewTokenService(crypto.TokenConfig{
		Secret:   cfg.Auth.JWTSecret,
		TTL:      cfg.Auth.TokenTTL,
		Issuer:   cfg.Auth.Issuer,
		Audience: cfg.Auth.Audience,
	})
	if err != nil {
		return err
	}

	authService := service.NewAuthService(stores.Users, tokens)
	tripService := service.NewTripService(stores.Trips, stores.Users)

	v := handler.NewValidator(time.Now)
	router := handler.NewRouter(
		handler.RouterConfig{BasePath: cfg.Server.BasePath, CORSOrigins: cfg.Server.CORSOrigins},
		handler.NewAuthHandler(authService, v),
		handler.NewTripHandler(tripService, v),
		tokens,
	)

	srv := &http.Server{
		Addr:              ":" + strconv.Itoa(cfg.Server.Port),
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		slog.Info("server starting",
			"port", cfg.Server.Port,
			"env", cfg.Server.Env,
			"base_path", cfg.Server.BasePath,
			"db_driver", cfg.Database.Driver,
		)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	slog.Info("shutting down server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}

	slog.Info("server stopped")
	return nil
}
