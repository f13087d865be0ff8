package orders

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/nroussel/orderdesk/internal/inventory"
)

type Repo struct{ DB *pgxpool.Pool }

// Create persists the order header, its lines, and the matching stock
// reservations in one transaction. Lines are processed in the order the caller
// submitted them; the first product that is missing or short on stock aborts
// the whole attempt, and the rollback undoes the header and every reservation
// already taken. Nothing partial is ever visible.
func (r *Repo) Create(ctx context.Context, customerName string, totalAmount float64, lines []LineInput) (*Order, error) {
	if len(lines) == 0 {
		return nil, errors.New("order requires at least one line")
	}
	tx, err := r.DB.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return nil, err
	}
	defer func() { _ = tx.Rollback(ctx) }()

	o := Order{CustomerName: customerName, TotalAmount: totalAmount, Status: StatusPending}
	err = tx.QueryRow(ctx,
		`INSERT INTO orders(customer_name, total_amount, status) VALUES ($1,$2,$3) RETURNING id`,
		customerName, totalAmount, string(StatusPending)).Scan(&o.ID)
	if err != nil {
		return nil, err
	}

	o.Details = make([]Line, 0, len(lines))
	for _, in := range lines {
		if err := inventory.Reserve(ctx, tx, in.ProductID, in.Quantity); err != nil {
			if isSerializationFailure(err) {
				return nil, ErrConflict
			}
			return nil, err
		}
		l := Line{OrderID: o.ID, ProductID: in.ProductID, Quantity: in.Quantity}
		err = tx.QueryRow(ctx,
			`INSERT INTO order_details(order_id, product_id, quantity) VALUES ($1,$2,$3) RETURNING id`,
			o.ID, in.ProductID, in.Quantity).Scan(&l.ID)
		if err != nil {
			return nil, err
		}
		o.Details = append(o.Details, l)
	}

	if err := tx.Commit(ctx); err != nil {
		if isSerializationFailure(err) {
			return nil, ErrConflict
		}
		return nil, err
	}
	return &o, nil
}

func (r *Repo) Get(ctx context.Context, id int64) (*Order, error) {
	var o Order
	err := r.DB.QueryRow(ctx,
		`SELECT id, customer_name, total_amount, status FROM orders WHERE id = $1`, id).
		Scan(&o.ID, &o.CustomerName, &o.TotalAmount, &o.Status)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	o.Details, err = r.Lines(ctx, id)
	if err != nil {
		return nil, err
	}
	return &o, nil
}

func (r *Repo) List(ctx context.Context, skip, limit int) ([]Order, error) {
	rows, err := r.DB.Query(ctx,
		`SELECT id, customer_name, total_amount, status FROM orders ORDER BY id OFFSET $1 LIMIT $2`,
		skip, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []Order{}
	ids := []int64{}
	for rows.Next() {
		var o Order
		if err := rows.Scan(&o.ID, &o.CustomerName, &o.TotalAmount, &o.Status); err != nil {
			return nil, err
		}
		o.Details = []Line{}
		out = append(out, o)
		ids = append(ids, o.ID)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	if len(ids) == 0 {
		return out, nil
	}

	drows, err := r.DB.Query(ctx,
		`SELECT id, order_id, product_id, quantity FROM order_details WHERE order_id = ANY($1) ORDER BY id`,
		ids)
	if err != nil {
		return nil, err
	}
	defer drows.Close()

	byOrder := make(map[int64]int, len(out))
	for i, o := range out {
		byOrder[o.ID] = i
	}
	for drows.Next() {
		var l Line
		if err := drows.Scan(&l.ID, &l.OrderID, &l.ProductID, &l.Quantity); err != nil {
			return nil, err
		}
		i := byOrder[l.OrderID]
		out[i].Details = append(out[i].Details, l)
	}
	return out, drows.Err()
}

// Replace overwrites the header fields and marks the order updated. Explicit
// whitelist: customer_name and total_amount only, lines are untouched and no
// stock moves.
func (r *Repo) Replace(ctx context.Context, id int64, customerName string, totalAmount float64) (*Order, error) {
	ct, err := r.DB.Exec(ctx,
		`UPDATE orders SET customer_name=$2, total_amount=$3, status=$4 WHERE id=$1`,
		id, customerName, totalAmount, string(StatusUpdated))
	if err != nil {
		return nil, err
	}
	if ct.RowsAffected() == 0 {
		return nil, ErrNotFound
	}
	return r.Get(ctx, id)
}

// Delete removes the order and returns its reserved stock to the ledger in the
// same transaction.
func (r *Repo) Delete(ctx context.Context, id int64) error {
	tx, err := r.DB.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback(ctx) }()

	rows, err := tx.Query(ctx,
		`SELECT product_id, quantity FROM order_details WHERE order_id = $1`, id)
	if err != nil {
		return err
	}
	type rec struct {
		productID int64
		qty       int
	}
	var recs []rec
	for rows.Next() {
		var x rec
		if err := rows.Scan(&x.productID, &x.qty); err != nil {
			rows.Close()
			return err
		}
		recs = append(recs, x)
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return err
	}

	for _, x := range recs {
		if err := inventory.Release(ctx, tx, x.productID, x.qty); err != nil {
			return err
		}
	}
	if _, err := tx.Exec(ctx, `DELETE FROM order_details WHERE order_id = $1`, id); err != nil {
		return err
	}
	ct, err := tx.Exec(ctx, `DELETE FROM orders WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if ct.RowsAffected() == 0 {
		return ErrNotFound
	}
	return tx.Commit(ctx)
}

// InsertLine appends a line to an existing order without touching the ledger.
// Legacy path: no stock check, no reservation. Kept for compatibility with old
// clients; new code must go through Create.
func (r *Repo) InsertLine(ctx context.Context, orderID, productID int64, quantity int) (*Line, error) {
	var exists bool
	if err := r.DB.QueryRow(ctx,
		`SELECT EXISTS(SELECT 1 FROM orders WHERE id = $1)`, orderID).Scan(&exists); err != nil {
		return nil, err
	}
	if !exists {
		return nil, ErrNotFound
	}

	l := Line{OrderID: orderID, ProductID: productID, Quantity: quantity}
	err := r.DB.QueryRow(ctx,
		`INSERT INTO order_details(order_id, product_id, quantity) VALUES ($1,$2,$3) RETURNING id`,
		orderID, productID, quantity).Scan(&l.ID)
	if isForeignKeyViolation(err) {
		return nil, &inventory.ProductNotFoundError{ProductID: productID}
	}
	if err != nil {
		return nil, err
	}
	return &l, nil
}

func (r *Repo) Lines(ctx context.Context, orderID int64) ([]Line, error) {
	rows, err := r.DB.Query(ctx,
		`SELECT id, order_id, product_id, quantity FROM order_details WHERE order_id = $1 ORDER BY id`,
		orderID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []Line{}
	for rows.Next() {
		var l Line
		if err := rows.Scan(&l.ID, &l.OrderID, &l.ProductID, &l.Quantity); err != nil {
			return nil, err
		}
		out = append(out, l)
	}
	return out, rows.Err()
}
