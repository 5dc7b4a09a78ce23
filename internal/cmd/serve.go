package cmd

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"restaurant_manager/internal/auth"
	"restaurant_manager/internal/redis"
	"restaurant_manager/internal/repository/memory"
	"restaurant_manager/internal/server"
	"restaurant_manager/internal/services"
	"restaurant_manager/pkg/whatsapp"

	"github.com/gin-gonic/gin"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var shutdownTimeout time.Duration

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the HTTP API",
	Long: `Start the HTTP API. Storage is PostgreSQL when DATABASE_URL is set and
in-memory otherwise. Redis (REDIS_URL) enables the store cache and the order
number counter. WhatsApp notifications are sent when WHATSAPP_API_URL is set.`,
	RunE: runServe,
}

func init() {
	serveCmd.Flags().DurationVar(&shutdownTimeout, "shutdown-timeout", 10*time.Second, "time allowed for in-flight requests on shutdown")
	rootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, args []string) error {
	a, err := bootstrap()
	if err != nil {
		return err
	}
	defer a.close()
	cfg, log := a.cfg, a.log

	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	deps := server.Deps{
		Repos:             a.repos,
		Tokens:            auth.NewManager(cfg.JWTSecret, cfg.JWTExpiration),
		CacheTTL:          cfg.CacheTTL,
		StrictTransitions: cfg.StrictTransitions,
		Checks:            a.checks(),
		Log:               log,
	}

	if a.db == nil {
		if err := a.seed(cmd.Context()); err != nil {
			return err
		}
	}

	if cfg.FallbackEnabled {
		deps.Fallback = memory.New(memory.WithIDSeed(cfg.FallbackIDSeed))
	}

	if cfg.RedisURL != "" {
		rdb, err := redis.Initialize(cfg.RedisURL)
		if err != nil {
			// Redis only speeds things up; run without it.
			log.Warn("Redis unavailable, continuing without cache", zap.Error(err))
		} else {
			defer rdb.Close()
			deps.Cache = rdb
			deps.Counter = rdb
			deps.Checks["redis"] = rdb.Ping
		}
	}

	if cfg.WhatsAppAPIURL != "" {
		client := whatsapp.NewClient(cfg.WhatsAppAPIURL, cfg.WhatsAppUsername, cfg.WhatsAppPassword, cfg.WhatsAppPath)
		deps.Notifier = services.NewWhatsAppNotifier(client)
	}

	srv := &http.Server{
		Addr:              ":" + cfg.ServerPort,
		Handler:           server.New(deps),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Info("Server starting", zap.String("addr", srv.Addr), zap.String("env", cfg.AppEnv))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(quit)

	select {
	case err := <-errCh:
		return err
	case sig := <-quit:
		log.Info("Shutting down", zap.String("signal", sig.String()))
	}

	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	return srv.Shutdown(ctx)
}
