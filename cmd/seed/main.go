// Command seed bootstraps the schema and loads demo data: the default user,
// a few products with stock, and a few clients. Idempotent for the user,
// additive for the rest.
package main

import (
	"context"
	"log/slog"
	"os"

	"github.com/joho/godotenv"

	"github.com/nroussel/orderdesk/internal/auth"
	"github.com/nroussel/orderdesk/internal/clients"
	"github.com/nroussel/orderdesk/internal/config"
	"github.com/nroussel/orderdesk/internal/inventory"
	"github.com/nroussel/orderdesk/internal/postgres"
)

func main() {
	_ = godotenv.Load()
	slog.SetDefault(slog.New(slog.NewJSONHandler(os.Stderr, nil)))

	cfg, err := config.Load()
	if err != nil {
		slog.Error("config", "err", err)
		os.Exit(1)
	}

	ctx := context.Background()
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

	users := &auth.UserRepo{DB: db}
	if err := users.Ensure(ctx, "user", "password"); err != nil {
		slog.Error("seed user", "err", err)
		os.Exit(1)
	}

	products := &inventory.ProductStore{DB: db}
	demoProducts := []struct {
		name, desc string
		price      float64
		qty        int
	}{
		{"Keyboard", "Mechanical, 87 keys", 89.90, 50},
		{"Mouse", "Wireless", 39.50, 120},
		{"Monitor", "27 inch, 1440p", 249.00, 30},
	}
	for _, p := range demoProducts {
		if _, err := products.Create(ctx, p.name, p.desc, p.price, p.qty); err != nil {
			slog.Error("seed product", "name", p.name, "err", err)
			os.Exit(1)
		}
	}

	cl := &clients.Repo{DB: db}
	demoClients := []struct{ name, email string }{
		{"Alice", "alice@example.com"},
		{"Bob", "bob@example.com"},
		{"Charlie", "charlie@example.com"},
	}
	for _, c := range demoClients {
		if _, err := cl.Create(ctx, c.name, c.email); err != nil {
			slog.Error("seed client", "name", c.name, "err", err)
			os.Exit(1)
		}
	}

	slog.Info("seed complete")
}
