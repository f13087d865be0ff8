package inventory

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

// Querier is the subset of pgx shared by *pgxpool.Pool and pgx.Tx. Reserve and
// Release accept it so callers can run them inside a larger transaction.
type Querier interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

type ProductNotFoundError struct {
	ProductID int64
}

func (e *ProductNotFoundError) Error() string {
	return fmt.Sprintf("product %d not found", e.ProductID)
}

type InsufficientStockError struct {
	ProductID int64
	Requested int
	Available int
}

func (e *InsufficientStockError) Error() string {
	return fmt.Sprintf("product %d: requested %d, available %d", e.ProductID, e.Requested, e.Available)
}

// Reserve decrements a product's available quantity by qty. The check and the
// decrement are a single conditional UPDATE, so two concurrent reservations can
// never take the same units: the row lock serializes them and the predicate
// re-evaluates against the committed quantity.
func Reserve(ctx context.Context, q Querier, productID int64, qty int) error {
	if qty <= 0 {
		return fmt.Errorf("invalid qty %d for product %d", qty, productID)
	}
	ct, err := q.Exec(ctx,
		`UPDATE products SET quantity = quantity - $2 WHERE id = $1 AND quantity >= $2`,
		productID, qty)
	if err != nil {
		return err
	}
	if ct.RowsAffected() == 1 {
		return nil
	}

	// Zero rows: either the product does not exist or stock ran short.
	var available int
	err = q.QueryRow(ctx, `SELECT quantity FROM products WHERE id = $1`, productID).Scan(&available)
	if errors.Is(err, pgx.ErrNoRows) {
		return &ProductNotFoundError{ProductID: productID}
	}
	if err != nil {
		return err
	}
	return &InsufficientStockError{ProductID: productID, Requested: qty, Available: available}
}

// Release returns previously reserved units to the product. Used as
// compensation when an order holding the reservation is deleted.
func Release(ctx context.Context, q Querier, productID int64, qty int) error {
	ct, err := q.Exec(ctx,
		`UPDATE products SET quantity = quantity + $2 WHERE id = $1`,
		productID, qty)
	if err != nil {
		return err
	}
	if ct.RowsAffected() == 0 {
		// No row to return the units to. Not an error for the delete path.
		return nil
	}
	return nil
}
