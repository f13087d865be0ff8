package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/joho/godotenv"

	"github.com/nroussel/orderdesk/internal/auth"
	"github.com/nroussel/orderdesk/internal/clients"
	"github.com/nroussel/orderdesk/internal/config"
	"github.com/nroussel/orderdesk/internal/events"
	"github.com/nroussel/orderdesk/internal/httpx"
	"github.com/nroussel/orderdesk/internal/inventory"
	kafkax "github.com/nroussel/orderdesk/internal/kafka"
	"github.com/nroussel/orderdesk/internal/metrics"
	"github.com/nroussel/orderdesk/internal/orders"
	"github.com/nroussel/orderdesk/internal/postgres"
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

	// DB
	db, err := postgres.Connect(ctx, cfg.PostgresDSN)
	if err != nil {
		slog.Error("db connect", "err", err)
		os.Exit(1)
	}
	defer db.Close()
	if err := postgres.Bootstrap(ctx, db); err != nil {
		slog.Error("db bootstrap", "err", err)
		os.Exit(1)
	}

	// Initial user so the token endpoint works out of the box.
	users := &auth.UserRepo{DB: db}
	if err := users.Ensure(ctx, "user", "password"); err != nil {
		slog.Error("seed user", "err", err)
		os.Exit(1)
	}

	// Redis
	rdb := redisx.New(cfg.RedisAddr)
	defer rdb.Close()

	// Kafka producer
	prod := kafkax.NewProducer(cfg.KafkaBrokers, events.Topic, 1024)
	prod.Start(ctx)

	reg := metrics.NewRegistry()
	notifier := &events.Notifier{Producer: prod, Service: cfg.ServiceName, Metrics: reg}
	tokens := auth.NewTokens(cfg.JWTSecret, cfg.TokenTTL)

	router := httpx.NewRouter()
	router.Handle("/metrics", reg.Handler())

	th := &httpx.TokenHandler{Users: users, Tokens: tokens}
	th.Register(router)

	oh := &httpx.OrdersHandler{
		Store:    &orders.Repo{DB: db},
		Notifier: notifier,
		Cache:    rdb,
		Metrics:  reg,
	}
	ph := &httpx.ProductsHandler{Store: &inventory.ProductStore{DB: db}}
	ch := &httpx.ClientsHandler{Store: &clients.Repo{DB: db}}
	router.Group(func(r chi.Router) {
		r.Use(tokens.Middleware)
		oh.Register(r)
		ph.Register(r)
		ch.Register(r)
	})

	srv := &http.Server{Addr: cfg.HTTPAddr, Handler: router}

	go func() {
		slog.Info("HTTP listening", "addr", cfg.HTTPAddr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			slog.Error("listen", "err", err)
			os.Exit(1)
		}
	}()

	sig := make(chan os.Signal, 1)
	signal.Notify(sig, syscall.SIGINT, syscall.SIGTERM)
	<-sig
	slog.Info("shutting down")

	ctx2, cancel2 := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel2()
	_ = srv.Shutdown(ctx2)
	prod.Close() // stop accepting -> flush & close writer
	prod.WaitClosed()
	cancel()
}
