package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/spf13/cobra"

	"truth-api/config"
	"truth-api/truth"
	"truth-api/truth/application"
	"truth-api/truth/domain"
	"truth-api/truth/infra"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the HTTP server",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load(cfgFile)
		if err != nil {
			return err
		}
		return serve(cfg)
	},
}

func serve(cfg *config.Config) error {
	// catálogo corrompido ou vazio é fatal: não sobe servindo nada.
	catalog, err := infra.LoadCatalog(cfg.Truths.File, infra.CatalogOptions{
		MinCount:        cfg.Truths.MinCount,
		NormalizeDedupe: cfg.Truths.NormalizeDedupe,
	})
	if err != nil {
		return err
	}

	window := infra.NewWindowStore(cfg.Window())

	var stats domain.StatsStore
	if cfg.Stats.Enabled {
		rdb := redis.NewClient(&redis.Options{
			Addr:     cfg.Stats.RedisAddr,
			Password: cfg.Stats.RedisPassword,
			DB:       cfg.Stats.RedisDB,
		})
		defer func() { _ = rdb.Close() }()

		pingCtx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		_, err := rdb.Ping(pingCtx).Result()
		cancel()
		if err != nil {
			return err
		}

		stats = infra.NewRedisStatsStore(
			rdb,
			infra.WithStatsPrefix(cfg.Stats.Prefix),
			infra.WithStatsTTL(cfg.Stats.TTL),
			infra.WithStatsBucket(cfg.Stats.Bucket),
			infra.WithStatsTrackKeys(cfg.Stats.TrackKeys),
		)
	}

	api := &truth.API{
		Selector: application.Selector{Catalog: catalog, Table: cfg.WeightTable()},
		Catalog:  catalog,
	}

	h := api.Routes()
	h = truth.RateLimitMiddleware(truth.Options{
		Service: application.RateLimitService{Store: window, Limit: cfg.RateLimit.Limit},
		Stats:   stats,
		Exempt:  cfg.RateLimit.ExemptRoutes,
	})(h)
	if cfg.Concurrency.Max > 0 {
		h = truth.ConcurrencyMiddleware(truth.ConcurrencyOptions{
			Max:            cfg.Concurrency.Max,
			AcquireTimeout: cfg.Concurrency.AcquireTimeout,
		})(h)
	}
	if cfg.Throttle.RPS > 0 {
		h = truth.ThrottleMiddleware(infra.NewThrottle(cfg.Throttle.RPS, cfg.Throttle.Burst))(h)
	}
	h = truth.StandardHeaders(h)
	h = truth.AccessLog(h)
	h = truth.RequestID(h)

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	srv := &http.Server{
		Addr:              cfg.Listen,
		Handler:           h,
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       30 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       90 * time.Second,
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		_ = srv.Shutdown(shutdownCtx)
	}()

	log.Printf("truthapi listening on %s (%d truths loaded)", cfg.Listen, catalog.Len())
	log.Printf("rate: limit=%d window=%s exempt=%v", cfg.RateLimit.Limit, cfg.Window(), cfg.RateLimit.ExemptRoutes)
	log.Printf("guards: throttle_rps=%.3f concurrency_max=%d stats=%v", cfg.Throttle.RPS, cfg.Concurrency.Max, cfg.Stats.Enabled)

	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}
