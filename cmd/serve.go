package cmd

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"github.com/strongo/log"

	"loan-engine/config"
	"loan-engine/equation"
	httpLayer "loan-engine/http"
	"loan-engine/logging"
	"loan-engine/repository"
	"loan-engine/service"
)

const shutdownTimeout = 10 * time.Second

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the HTTP API",
	Args:  cobra.NoArgs,
	RunE:  runServe,
}

func init() {
	rootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load(cfgFile)
	if err != nil {
		printError("loading config", err)
		return err
	}

	level, err := logging.ParseLevel(cfg.Log.Level)
	if err != nil {
		printError("loading config", err)
		return err
	}
	logging.Setup(os.Stdout, level)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cache, closeCache, err := newCache(ctx, cfg.Cache)
	if err != nil {
		printError("connecting to cache", err)
		return err
	}
	defer closeCache()

	loanService := service.NewLoanService(cache,
		service.WithCacheTTL(cfg.Cache.TTL.Duration),
		service.WithSolverOptions(
			equation.WithMaxIterations(cfg.Solver.MaxIterations),
			equation.WithTolerance(cfg.Solver.Tolerance),
		),
	)
	termRecommendationService := service.NewTermRecommendationService(loanService)

	rateLimiter := httpLayer.NewRateLimiter(cfg.RateLimit.Capacity, cfg.RateLimit.Window.Duration)
	defer rateLimiter.Stop()

	server := &http.Server{
		Addr: cfg.Server.Addr,
		Handler: httpLayer.NewRouter(
			httpLayer.NewLoanHandler(loanService),
			httpLayer.NewTermRecommendationHandler(termRecommendationService),
			httpLayer.NewDebtExitHandler(service.NewDebtExitService()),
			rateLimiter,
		),
		ReadTimeout:  cfg.Server.ReadTimeout.Duration,
		WriteTimeout: cfg.Server.WriteTimeout.Duration,
		IdleTimeout:  cfg.Server.IdleTimeout.Duration,
	}

	serverErr := make(chan error, 1)
	go func() {
		log.Infof(ctx, "loan-engine listening on %s (cache: %s)", cfg.Server.Addr, cfg.Cache.Backend)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- err
		}
	}()

	select {
	case err := <-serverErr:
		log.Errorf(ctx, "Error starting server: %v", err)
		return err
	case <-ctx.Done():
		log.Infof(context.Background(), "Shutting down server...")
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Errorf(shutdownCtx, "Error during server shutdown: %v", err)
		return err
	}

	log.Infof(shutdownCtx, "Server exited")
	return nil
}

// newCache builds the configured cache backend and a func that releases it.
func newCache(ctx context.Context, cfg config.CacheConfig) (repository.CacheRepository, func(), error) {
	if cfg.Backend != "redis" {
		return repository.NewMemoryCache(), func() {}, nil
	}

	redisCache := repository.NewRedisCache(cfg.RedisAddr)
	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := redisCache.Ping(pingCtx); err != nil {
		_ = redisCache.Close()
		return nil, nil, err
	}

	return redisCache, func() {
		if err := redisCache.Close(); err != nil {
			log.Warningf(context.Background(), "Warning: closing redis: %v", err)
		}
	}, nil
}
