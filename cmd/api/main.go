package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	"golang.org/x/time/rate"

	"patient-intake/internal/config"
	"patient-intake/internal/middleware"
	"patient-intake/internal/routes"
	"patient-intake/internal/store"
)

const shutdownTimeout = 10 * time.Second

func main() {
	if err := rootCmd().ExecuteContext(context.Background()); err != nil {
		os.Exit(1)
	}
}

func rootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           "patient-intake",
		Short:         "Patient intake API",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.AddCommand(serveCmd())
	root.AddCommand(migrateCmd())
	return root
}

func serveCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Start the HTTP server",
		RunE: func(cmd *cobra.Command, args []string) error {
			logger := newLogger()
			if err := runServer(logger); err != nil {
				logger.Error().Err(err).Msg("server failed")
				return err
			}
			return nil
		},
	}
}

func migrateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Create the patients table if it does not exist",
		RunE: func(cmd *cobra.Command, args []string) error {
			logger := newLogger()
			cfg, err := config.Load()
			if err != nil {
				logger.Error().Err(err).Msg("failed to load config")
				return err
			}

			ctx := cmd.Context()
			db, err := config.ConnectDB(ctx, cfg, logger)
			if err != nil {
				logger.Error().Err(err).Msg("failed to connect to database")
				return err
			}
			s := store.New(db)
			defer s.Close()

			if err := s.Migrate(ctx); err != nil {
				logger.Error().Err(err).Msg("migration failed")
				return err
			}
			logger.Info().Msg("schema up to date")
			return nil
		},
	}
}

// newLogger loads .env into the environment, then builds the process logger.
func newLogger() zerolog.Logger {
	envErr := godotenv.Load()

	logger := zerolog.New(os.Stdout).With().Timestamp().Logger()
	if env := os.Getenv("ENV"); env == "" || env == "development" {
		logger = zerolog.New(zerolog.ConsoleWriter{Out: os.Stdout}).With().Timestamp().Logger()
	}
	if envErr != nil {
		logger.Warn().Msg(".env file not found, using process environment")
	}
	return logger
}

func runServer(logger zerolog.Logger) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	ctx := context.Background()
	db, err := config.ConnectDB(ctx, cfg, logger)
	if err != nil {
		return err
	}
	s := store.New(db)
	defer func() {
		if err := s.Close(); err != nil {
			logger.Error().Err(err).Msg("close database")
		}
	}()
	logger.Info().Str("driver", cfg.DBDriver).Msg("connected to database")

	if err := s.Migrate(ctx); err != nil {
		return err
	}

	if !cfg.IsDev() {
		gin.SetMode(gin.ReleaseMode)
	}

	opts := routes.Options{CORSOrigins: cfg.CORSOrigins}
	stop := make(chan struct{})
	defer close(stop)
	if cfg.RateLimitEnabled() {
		limiter := middleware.NewIPRateLimiter(rate.Limit(cfg.RateLimitRPS), cfg.RateLimitBurst)
		go limiter.Run(stop)
		opts.RateLimiter = limiter
	}

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           routes.NewRouter(logger, s, opts),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info().Str("addr", srv.Addr).Msg("starting server")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	select {
	case sig := <-quit:
		logger.Info().Str("signal", sig.String()).Msg("shutting down server")
	case err, ok := <-errCh:
		if ok {
			return err
		}
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}
	logger.Info().Msg("server stopped")
	return nil
}
