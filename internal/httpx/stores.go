package httpx

import (
	"context"

	"github.com/nroussel/orderdesk/internal/auth"
	"github.com/nroussel/orderdesk/internal/clients"
	"github.com/nroussel/orderdesk/internal/events"
	"github.com/nroussel/orderdesk/internal/inventory"
	"github.com/nroussel/orderdesk/internal/orders"
)

// Store interfaces keep handlers testable against in-memory fakes; the pgx
// repos satisfy them.

type OrderStore interface {
	Create(ctx context.Context, customerName string, totalAmount float64, lines []orders.LineInput) (*orders.Order, error)
	Get(ctx context.Context, id int64) (*orders.Order, error)
	List(ctx context.Context, skip, limit int) ([]orders.Order, error)
	Replace(ctx context.Context, id int64, customerName string, totalAmount float64) (*orders.Order, error)
	Delete(ctx context.Context, id int64) error
	InsertLine(ctx context.Context, orderID, productID int64, quantity int) (*orders.Line, error)
	Lines(ctx context.Context, orderID int64) ([]orders.Line, error)
}

type ProductStore interface {
	Create(ctx context.Context, name, description string, price float64, quantity int) (*inventory.Product, error)
	Get(ctx context.Context, id int64) (*inventory.Product, error)
	List(ctx context.Context, skip, limit int) ([]inventory.Product, error)
	Update(ctx context.Context, id int64, name, description string, price float64, quantity int) (*inventory.Product, error)
	Delete(ctx context.Context, id int64) error
}

type ClientStore interface {
	Create(ctx context.Context, name, email string) (*clients.Client, error)
	Get(ctx context.Context, id int64) (*clients.Client, error)
	List(ctx context.Context, skip, limit int) ([]clients.Client, error)
	Update(ctx context.Context, id int64, name, email string) (*clients.Client, error)
	Delete(ctx context.Context, id int64) error
}

type UserSource interface {
	ByUsername(ctx context.Context, username string) (*auth.User, error)
}

// OrderNotifier emits lifecycle events after the order transaction committed.
// Implementations never fail the caller.
type OrderNotifier interface {
	OrderCreated(orderID int64, customerName string, totalAmount float64, status string, items []events.ItemQty)
	OrderUpdated(orderID int64, totalAmount float64, status string)
	OrderDeleted(orderID int64)
}
