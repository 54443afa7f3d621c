package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/finbook/udhaar/internal/fakefinance"
	"github.com/finbook/udhaar/internal/infrastructure/auth"
	"github.com/finbook/udhaar/internal/infrastructure/config"
)

func main() {
	// Setup logger
	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr})

	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load configuration")
	}

	// Setup log level
	level, err := zerolog.ParseLevel(cfg.LogLevel)
	if err != nil {
		level = zerolog.InfoLevel
	}
	zerolog.SetGlobalLevel(level)

	verify := buildVerifier(cfg)

	api := fakefinance.NewServer(fakefinance.ServerConfig{
		Store:  fakefinance.NewStore(),
		Logger: log.Logger,
		Verify: verify,
	})

	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())
	mux.Handle("/", api)

	server := &http.Server{
		Addr:         fmt.Sprintf(":%s", cfg.HTTPPort),
		Handler:      mux,
		ReadTimeout:  cfg.HTTPReadTimeout,
		WriteTimeout: cfg.HTTPWriteTimeout,
		IdleTimeout:  cfg.HTTPIdleTimeout,
	}

	// Start server in goroutine
	go func() {
		log.Info().Str("port", cfg.HTTPPort).Msg("starting fake finance server")
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("server failed")
		}
	}()

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("shutting down server...")

	// Graceful shutdown
	ctx, cancel := context.WithTimeout(context.Background(), cfg.HTTPShutdownTimeout)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		log.Fatal().Err(err).Msg("server forced to shutdown")
	}

	log.Info().Msg("server stopped")
}

// buildVerifier picks the auth mode: a static dev token wins, then JWT,
// otherwise auth is disabled. In JWT mode a dev token is issued and logged
// on boot so the running fake can actually be called.
func buildVerifier(cfg *config.Config) fakefinance.TokenVerifier {
	if cfg.DevToken != "" {
		log.Info().Str("token", cfg.DevToken).Msg("authentication enabled (static dev token)")
		return fakefinance.StaticVerifier(cfg.DevToken)
	}
	if cfg.JWTSecret != "" {
		manager := auth.NewJWTManager(cfg.JWTSecret, cfg.JWTExpiration)
		devToken, err := issueDevToken(manager)
		if err != nil {
			log.Fatal().Err(err).Msg("failed to issue dev token")
		}
		log.Info().Str("token", devToken).Msg("authentication enabled (JWT), dev token issued")
		return jwtVerifier(manager)
	}
	log.Warn().Msg("authentication disabled")
	return nil
}

func issueDevToken(manager *auth.JWTManager) (string, error) {
	return manager.Generate("dev", "dev@localhost")
}

func jwtVerifier(manager *auth.JWTManager) fakefinance.TokenVerifier {
	return func(token string) error {
		_, err := manager.Verify(token)
		return err
	}
}
