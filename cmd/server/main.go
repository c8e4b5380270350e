package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"time"

	"github.com/go-redis/redis/v8"
	"github.com/gorilla/mux"
	"golang.org/x/exp/slog"

	"github.com/parkerroan/rlengine/clock"
	"github.com/parkerroan/rlengine/config"
	"github.com/parkerroan/rlengine/coordinator"
	"github.com/parkerroan/rlengine/engine"
	"github.com/parkerroan/rlengine/httpserver"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("loading config: %v", err)
	}

	if cfg.CheckClockDrift {
		if _, err := clock.CheckDrift(cfg.NTPServer); err != nil {
			slog.Warn("host clock drift check failed", slog.Any("error", err))
		}
	}

	rdb := redis.NewClient(&redis.Options{Addr: cfg.RedisURL})

	redisCoord := coordinator.NewRedisCoordinator(rdb, coordinator.WithPrefix(cfg.RedisKeyPrefix))
	cachedCoord, err := coordinator.NewCachedCoordinator(redisCoord)
	if err != nil {
		log.Fatalf("constructing cached coordinator: %v", err)
	}

	eng := engine.New(cfg.BucketCount, engine.WithCoordinator(cachedCoord))

	if err := eng.CreateLimiter("default", cfg.DefaultMaxTokens, cfg.DefaultWindow, false, 0, 0, ""); err != nil {
		log.Fatalf("creating default limiter: %v", err)
	}

	eventBroker := coordinator.NewRedisEventBroker(rdb, cfg.EventStream, redisCoord.BrokerID())
	go func() {
		if err := eventBroker.Consume(context.Background(), func(event coordinator.Event) {
			coordinator.Apply(eng, event)
		}); err != nil {
			slog.Error("event broker consume loop stopped", slog.Any("error", err))
		}
	}()

	metrics := httpserver.NewMetricsCollector(eng, nil)

	router := mux.NewRouter()
	router.Use(httpserver.Middleware(eng, func(r *http.Request) (key, ip string) {
		return "default", r.RemoteAddr
	}))

	router.Handle("/metrics", metrics.Handler())
	router.HandleFunc("/", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("ok"))
	})

	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Port),
		Handler:      router,
		ReadTimeout:  5 * time.Second,
		WriteTimeout: 5 * time.Second,
	}

	log.Fatal(srv.ListenAndServe())
}
