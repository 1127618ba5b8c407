package app

import (
	"context"
	"fmt"
	"time"

	validator "github.com/go-playground/validator/v10"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/redis/go-redis/extra/redisotel/v9"
	redis "github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"github.com/noah-isme/backend-b2b/internal/cache"
	"github.com/noah-isme/backend-b2b/internal/common"
	"github.com/noah-isme/backend-b2b/internal/config"
	"github.com/noah-isme/backend-b2b/internal/matching"
	"github.com/noah-isme/backend-b2b/internal/obs"
	"github.com/noah-isme/backend-b2b/internal/ratelimit"
	"github.com/noah-isme/backend-b2b/internal/resilience"
)

// Dependencies holds the shared services the HTTP layer is assembled from.
type Dependencies struct {
	Config      *config.Config
	Logger      zerolog.Logger
	Redis       *redis.Client
	Registry    *prometheus.Registry
	HTTPMetrics *obs.HTTPMetrics
	Metrics     *obs.DomainMetrics
	Validator   *validator.Validate
	Limiter     ratelimit.Allower
	Matching    *matching.Service
	Tracing     bool
}

// Build wires dependencies from cfg. Redis is optional: without REDIS_URL the
// rate limiter keeps counters in process and match results are not cached.
// The returned cleanup releases the Redis connection pool.
func Build(ctx context.Context, cfg *config.Config, logger zerolog.Logger) (*Dependencies, func(), error) {
	deps := &Dependencies{
		Config:    cfg,
		Logger:    logger,
		Registry:  prometheus.NewRegistry(),
		Validator: common.NewValidator(),
		Tracing:   cfg.TracingEnabled,
	}
	cleanup := func() {}

	if cfg.MetricsEnabled {
		deps.Registry.MustRegister(
			collectors.NewGoCollector(),
			collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		)
		deps.HTTPMetrics = obs.NewHTTPMetrics(cfg.MetricsNamespace, obs.ParseBucketsCSV(cfg.MetricsBuckets), deps.Registry)
		deps.Metrics = obs.NewDomainMetrics(cfg.MetricsNamespace, deps.Registry)
	}

	var resultCache matching.ResultCache
	if cfg.RedisEnabled() {
		client, err := newRedis(ctx, cfg, logger)
		if err != nil {
			return nil, cleanup, err
		}
		deps.Redis = client
		cleanup = func() {
			if err := client.Close(); err != nil {
				logger.Error().Err(err).Msg("close redis")
			}
		}

		var breakerMetrics *resilience.Metrics
		if cfg.MetricsEnabled {
			breakerMetrics = resilience.NewMetrics(cfg.MetricsNamespace, deps.Registry)
		}
		breaker := resilience.NewBreaker(resilience.Config{
			Target:       "redis",
			MinRequests:  10,
			FailureRatio: 0.5,
			OpenFor:      15 * time.Second,
			Metrics:      breakerMetrics,
			Logger:       &logger,
		})
		resultCache = cache.NewJSON(client, "b2b", cfg.MatchCacheTTL).WithBreaker(breaker)
		deps.Limiter = ratelimit.SlidingWindow{Client: client, Prefix: "b2b:rl:"}
	} else {
		deps.Limiter = ratelimit.NewMemory()
	}

	deps.Matching = matching.NewService(matching.ServiceConfig{
		Matcher: matching.NewMatcher(matching.Options{Logger: &logger}),
		Cache:   resultCache,
		Metrics: deps.Metrics,
		Logger:  &logger,
	})
	return deps, cleanup, nil
}

func newRedis(ctx context.Context, cfg *config.Config, logger zerolog.Logger) (*redis.Client, error) {
	opts, err := redis.ParseURL(cfg.RedisURL)
	if err != nil {
		return nil, fmt.Errorf("parse redis url: %w", err)
	}
	client := redis.NewClient(opts)
	if cfg.TracingEnabled {
		if err := redisotel.InstrumentTracing(client); err != nil {
			logger.Error().Err(err).Msg("instrument redis tracing")
		}
	}

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := client.Ping(pingCtx).Err(); err != nil {
		// Redis only backs the cache and the rate limiter, so start degraded.
		logger.Warn().Err(err).Msg("redis unreachable at startup")
	}
	return client, nil
}
