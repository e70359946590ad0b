package cmd

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"lead-scorer/config"
	httpLayer "lead-scorer/http"
	"lead-scorer/repository"
	"lead-scorer/service"
)

const redisPingTimeout = 2 * time.Second

func newServeCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API",
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.serve(cmd.Context())
		},
	}
}

func (a *app) serve(ctx context.Context) error {
	cache, closeCache := newCache(ctx, a.cfg.Cache, a.logger)
	defer closeCache()

	scoring := service.NewLeadScoringService(a.cfg.TrainConfig(), cache, service.NewDemoLeadGenerator(a.cfg.Demo.Seed), a.logger)
	insights := service.NewInsightService(a.cfg.Insights.AnthropicAPIKey, a.cfg.Insights.Model, a.logger)

	rateLimiter := httpLayer.NewRateLimiter(a.cfg.RateLimit.Capacity, a.cfg.RateLimit.Refill)
	defer rateLimiter.Stop()

	router := httpLayer.NewRouter(httpLayer.Dependencies{
		Scoring:  scoring,
		Insights: insights,
		Leads:    repository.NewScoreRepositoryMemory(),
		Limiter:  rateLimiter,
		Logger:   a.logger,
	})

	server := &http.Server{
		Addr:         a.cfg.Server.Addr,
		Handler:      router,
		ReadTimeout:  a.cfg.Server.ReadTimeout,
		WriteTimeout: a.cfg.Server.WriteTimeout,
		IdleTimeout:  a.cfg.Server.IdleTimeout,
	}

	// Entrenar en segundo plano; la primera petición espera si aún no termina
	go func() {
		if err := scoring.Warmup(context.Background()); err != nil {
			a.logger.Error("model warmup failed", "error", err)
		}
	}()

	serverErr := make(chan error, 1)
	go func() {
		a.logger.Info("API listening", "addr", a.cfg.Server.Addr, "insights_llm", insights.Enabled())
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- err
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(quit)

	select {
	case err := <-serverErr:
		return err
	case <-quit:
		a.logger.Info("shutting down server")
	case <-ctx.Done():
		a.logger.Info("context cancelled, shutting down server")
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), a.cfg.Server.ShutdownTimeout)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		a.logger.Error("server shutdown failed", "error", err)
		return err
	}

	a.logger.Info("server exited")
	return nil
}

// newCache returns Redis when it is configured and reachable, otherwise an
// in-memory cache.
func newCache(ctx context.Context, cfg config.CacheConfig, logger *slog.Logger) (repository.CacheRepository, func()) {
	if cfg.RedisAddr == "" {
		return repository.NewMemoryCache(), func() {}
	}

	redisCache := repository.NewRedisCache(cfg.RedisAddr, cfg.TTL)
	pingCtx, cancel := context.WithTimeout(ctx, redisPingTimeout)
	defer cancel()

	if err := redisCache.Ping(pingCtx); err != nil {
		logger.Warn("redis unavailable, using in-memory cache", "addr", cfg.RedisAddr, "error", err)
		_ = redisCache.Close()
		return repository.NewMemoryCache(), func() {}
	}

	logger.Info("using redis score cache", "addr", cfg.RedisAddr, "ttl", cfg.TTL)
	return redisCache, func() {
		if err := redisCache.Close(); err != nil {
			logger.Warn("closing redis", "error", err)
		}
	}
}
