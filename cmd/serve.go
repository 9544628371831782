package main

import (
	"context"
	"fmt"
	"os/signal"
	"syscall"
	"time"

	"github.com/arzan03/BloodBridge/internal/auth"
	"github.com/arzan03/BloodBridge/internal/config"
	"github.com/arzan03/BloodBridge/internal/db"
	"github.com/arzan03/BloodBridge/internal/handlers"
	"github.com/arzan03/BloodBridge/internal/middleware"
	"github.com/arzan03/BloodBridge/internal/services"
	"github.com/arzan03/BloodBridge/internal/storage"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the HTTP server",
	Long: `Start the HTTP server.

The server connects to MongoDB and refuses to start when the deployment does
not answer a ping. SIGINT or SIGTERM drains in-flight requests before exit.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runServer()
	},
}

func runServer() error {
	cfg, logger, err := loadConfig()
	if err != nil {
		return err
	}
	logger.Info().Str("environment", cfg.Environment).Msg("starting bloodbridge")

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	store, err := db.ConnectMongoDB(ctx, cfg.Mongo.URI, cfg.Mongo.Database, cfg.Mongo.ConnectTimeout, logger)
	if err != nil {
		return err
	}
	defer func() {
		disconnectCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := store.Disconnect(disconnectCtx); err != nil {
			logger.Error().Err(err).Msg("mongodb disconnect failed")
		}
	}()

	verifier, err := newVerifier(ctx, cfg.Auth, logger)
	if err != nil {
		return err
	}

	users := services.NewUserService(store.Users)
	h := &handlers.Handler{
		Users:     users,
		Requests:  services.NewRequestService(store.Requests),
		Health:    store,
		Logger:    logger,
		URLExpiry: cfg.Minio.URLExpiry,
	}
	if cfg.Minio.Enabled() {
		files, err := storage.NewMinio(ctx, storage.MinioConfig{
			Endpoint:  cfg.Minio.Endpoint,
			AccessKey: cfg.Minio.AccessKey,
			SecretKey: cfg.Minio.SecretKey,
			Bucket:    cfg.Minio.Bucket,
			UseSSL:    cfg.Minio.UseSSL,
		}, logger)
		if err != nil {
			return err
		}
		h.Files = files
	} else {
		logger.Warn().Msg("MINIO_ENDPOINT not set; request attachments disabled")
	}

	app := handlers.NewApp(handlers.AppConfig{CORSOrigins: cfg.Server.CORSOrigins}, h, middleware.GateDeps{
		Verifier: verifier,
		Users:    users,
		Logger:   logger,
	})

	errCh := make(chan error, 1)
	go func() {
		addr := fmt.Sprintf(":%d", cfg.Server.Port)
		logger.Info().Str("addr", addr).Msg("listening")
		errCh <- app.Listen(addr)
	}()

	select {
	case err := <-errCh:
		return fmt.Errorf("http server: %w", err)
	case <-ctx.Done():
	}

	logger.Info().Msg("shutting down")
	if err := app.ShutdownWithTimeout(10 * time.Second); err != nil {
		logger.Error().Err(err).Msg("shutdown error")
	}
	return nil
}

func newVerifier(ctx context.Context, cfg config.AuthConfig, logger zerolog.Logger) (auth.Verifier, error) {
	switch cfg.Provider {
	case config.ProviderHMAC:
		logger.Warn().Msg("using shared-secret tokens; intended for development")
		v, err := auth.NewHMACVerifier(cfg.JWTSecret)
		if err != nil {
			return nil, fmt.Errorf("hmac verifier: %w", err)
		}
		return v, nil
	default:
		v, err := auth.NewFirebaseVerifier(ctx, cfg.FirebaseProjectID, cfg.FirebaseJWKSURL,
			auth.WithRefreshInterval(cfg.JWKSRefresh))
		if err != nil {
			return nil, fmt.Errorf("firebase verifier: %w", err)
		}
		logger.Info().Str("project", cfg.FirebaseProjectID).Msg("verifying firebase id tokens")
		return v, nil
	}
}
