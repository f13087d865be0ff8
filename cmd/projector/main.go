package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"github.com/nroussel/orderdesk/internal/config"
	"github.com/nroussel/orderdesk/internal/events"
	kafkax "github.com/nroussel/orderdesk/internal/kafka"
	"github.com/nroussel/orderdesk/internal/redisx"
)

func main() {
	_ = godotenv.Load()
	slog.SetDefault(slog.New(slog.NewJSONHandler(os.Stderr, nil)))

	cfg, err := config.Load()
	if err != nil {
		slog.Error("config", "err", err)
		os.Exit(1)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	rdb := redisx.New(cfg.RedisAddr)
	defer rdb.Close()

	group := getenv("PROJECTOR_GROUP", "orderdesk-projector")
	workers := mustAtoi(os.Getenv("PROJECTOR_WORKERS"), "4")
	cons := kafkax.NewConsumer(cfg.KafkaBrokers, group, events.Topic, workers)

	proj := &events.Projector{Redis: rdb, ServiceName: group}

	go func() {
		slog.Info("projector started", "group", group, "topic", events.Topic, "workers", workers)
		if err := cons.Start(ctx, proj.Handle); err != nil {
			slog.Error("consumer exit", "err", err)
			cancel()
		}
	}()

	sig := make(chan os.Signal, 1)
	signal.Notify(sig, syscall.SIGINT, syscall.SIGTERM)
	<-sig
	slog.Info("shutting down projector")
	cancel()
	time.Sleep(500 * time.Millisecond)
}

func getenv(k, def string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return def
}

func mustAtoi(s, def string) int {
	if s == "" {
		s = def
	}
	i, err := strconv.Atoi(s)
	if err != nil {
		return 1
	}
	return i
}
