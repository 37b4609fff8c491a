package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/MartinEBravo/duech-go/internal/pkg/middleware"
	"github.com/MartinEBravo/duech-go/internal/pkg/router"
	"github.com/MartinEBravo/duech-go/internal/ratelimit"
	"github.com/MartinEBravo/duech-go/internal/search/config"
	"github.com/MartinEBravo/duech-go/internal/search/rest"
	"github.com/MartinEBravo/duech-go/internal/search/service"
	"github.com/MartinEBravo/duech-go/internal/search/store"
)

func run(ctx context.Context) error {
	slog.Info("starting search service")

	cfg := config.FromEnv()

	contentStore, err := store.NewPostgresStore(store.PostgresConfig{
		Host:     cfg.DB.Host,
		Port:     cfg.DB.Port,
		User:     cfg.DB.User,
		Password: cfg.DB.Password,
		DB:       cfg.DB.Name,
	})
	if err != nil {
		return err
	}
	defer contentStore.Close()

	var limiter middleware.Limiter = ratelimit.Noop{}
	if cfg.RateLimit.Enabled {
		rl := ratelimit.NewRedis(ratelimit.RedisConfig{
			Host:     cfg.RateLimit.Host,
			Port:     cfg.RateLimit.Port,
			Password: cfg.RateLimit.Password,
			DB:       cfg.RateLimit.DB,
			Limit:    int64(cfg.RateLimit.Limit),
			Window:   cfg.RateLimit.Window,
		})
		defer rl.Close()
		limiter = rl
	}

	searchSrv := service.NewSearchService(contentStore)
	wodSrv := service.NewWordOfDayService(contentStore, service.WordOfDayConfig{})

	r := router.New()
	r.Use(middleware.Recover(), middleware.Log())
	r.HandleFunc("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
	r.HandleFunc("/readyz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})

	api := r.SubRouter("/api/v1")
	api.Use(middleware.RateLimit(limiter), middleware.Identity([]byte(cfg.AuthSecret)))
	api.Handle("/", rest.NewAPI(searchSrv, wodSrv))

	httpSrv := &http.Server{
		Addr:         cfg.Http.ListenAddr,
		IdleTimeout:  cfg.Http.IdleTimeout,
		ReadTimeout:  cfg.Http.ReadTimeout,
		WriteTimeout: cfg.Http.WriteTimeout,
		Handler:      r,
	}

	errCh := make(chan error, 1)

	go func() {
		slog.Info("HTTP server starting", "addr", httpSrv.Addr)
		if err := httpSrv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- err
		}
	}()

	select {
	case <-ctx.Done():
		slog.Info("shutting down HTTP server")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Http.ShutdownTimeout)
		defer cancel()
		return httpSrv.Shutdown(shutdownCtx)
	case err := <-errCh:
		return err
	}
}

func main() {
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	if err := run(ctx); err != nil {
		slog.Error("search service exited with error", "error", err)
		os.Exit(1)
	}
}
