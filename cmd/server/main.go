package main

import (
	"context"
	"errors"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/redis/go-redis/v9"

	"github.com/veritasight/portfolio-service/internal/api"
	"github.com/veritasight/portfolio-service/internal/cache"
	"github.com/veritasight/portfolio-service/internal/config"
	"github.com/veritasight/portfolio-service/internal/database"
	"github.com/veritasight/portfolio-service/internal/kafka"
	"github.com/veritasight/portfolio-service/pkg/logger"
)

const (
	cacheTTL        = 5 * time.Minute
	shutdownTimeout = 10 * time.Second
)

func main() {
	godotenv.Load()

	cfg := config.Load()
	log := logger.New(logger.Config{
		Level:  cfg.LogLevel,
		Pretty: os.Getenv("LOG_PRETTY") == "true",
	})

	db, err := database.New(cfg.Database.ConnectionString())
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to database")
	}
	defer db.Close()
	log.Info().Str("host", cfg.Database.Host).Msg("connected to database")

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// The snapshot cache is optional. When Redis is unreachable the API
	// falls back to Postgres on every read.
	var snapshotCache *cache.QuoteCache
	redisClient := redis.NewClient(&redis.Options{
		Addr:     cfg.Redis.Addr,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})
	candidate := cache.New(redisClient, cacheTTL, log)
	if err := candidate.Ping(ctx); err != nil {
		log.Warn().Err(err).Str("addr", cfg.Redis.Addr).Msg("redis unavailable, serving without cache")
	} else {
		snapshotCache = candidate
		log.Info().Str("addr", cfg.Redis.Addr).Msg("connected to redis")
	}

	producer := kafka.NewProducer(cfg.Kafka.Brokers, cfg.Kafka.EventTopic)
	defer producer.Close()

	consumer := kafka.NewConsumer(cfg.Kafka.Brokers, cfg.Kafka.FeedTopic, cfg.Kafka.FeedGroup, db, snapshotCacheOrNoop(snapshotCache), log)
	go func() {
		if err := consumer.Start(ctx); err != nil {
			log.Error().Err(err).Msg("quote feed consumer stopped")
		}
	}()

	sessions := api.NewSessionStore()
	handler := api.NewHandler(db, cacheOrNil(snapshotCache), producer, sessions, cfg.Auth.Password, log)
	router := api.NewRouter(handler)

	server := &http.Server{
		Addr:         net.JoinHostPort(cfg.Server.Host, cfg.Server.Port),
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		log.Info().Str("addr", server.Addr).Msg("starting http server")
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("http server failed")
		}
	}()

	<-ctx.Done()
	log.Info().Msg("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("http server shutdown failed")
	}

	log.Info().Msg("shutdown complete")
}

// cacheOrNil avoids handing the handlers a typed nil behind the Cache
// interface.
func cacheOrNil(c *cache.QuoteCache) api.Cache {
	if c == nil {
		return nil
	}
	return c
}

// snapshotCacheOrNoop gives the consumer a cache to invalidate even when
// Redis is down.
func snapshotCacheOrNoop(c *cache.QuoteCache) kafka.SnapshotCache {
	if c == nil {
		return noopCache{}
	}
	return c
}

type noopCache struct{}

func (noopCache) Invalidate(context.Context) {}
