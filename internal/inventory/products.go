package inventory

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type Product struct {
	ID          int64   `json:"id"`
	Name        string  `json:"name"`
	Description string  `json:"description"`
	Price       float64 `json:"price"`
	Quantity    int     `json:"quantity"`
}

// ProductStore is the admin CRUD surface over the products table. Quantity
// written here is the initial stock; once orders flow, only the ledger
// (Reserve/Release) and these admin endpoints touch it.
type ProductStore struct{ DB *pgxpool.Pool }

func (s *ProductStore) Create(ctx context.Context, name, description string, price float64, quantity int) (*Product, error) {
	p := Product{Name: name, Description: description, Price: price, Quantity: quantity}
	err := s.DB.QueryRow(ctx,
		`INSERT INTO products(name, description, price, quantity) VALUES ($1,$2,$3,$4) RETURNING id`,
		name, description, price, quantity).Scan(&p.ID)
	if err != nil {
		return nil, err
	}
	return &p, nil
}

func (s *ProductStore) Get(ctx context.Context, id int64) (*Product, error) {
	var p Product
	err := s.DB.QueryRow(ctx,
		`SELECT id, name, description, price, quantity FROM products WHERE id = $1`, id).
		Scan(&p.ID, &p.Name, &p.Description, &p.Price, &p.Quantity)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, &ProductNotFoundError{ProductID: id}
	}
	if err != nil {
		return nil, err
	}
	return &p, nil
}

func (s *ProductStore) List(ctx context.Context, skip, limit int) ([]Product, error) {
	rows, err := s.DB.Query(ctx,
		`SELECT id, name, description, price, quantity FROM products ORDER BY id OFFSET $1 LIMIT $2`,
		skip, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []Product{}
	for rows.Next() {
		var p Product
		if err := rows.Scan(&p.ID, &p.Name, &p.Description, &p.Price, &p.Quantity); err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	return out, rows.Err()
}

// Update overwrites the whitelisted product fields. Field-by-field on purpose:
// no reflection-style attribute copy.
func (s *ProductStore) Update(ctx context.Context, id int64, name, description string, price float64, quantity int) (*Product, error) {
	ct, err := s.DB.Exec(ctx,
		`UPDATE products SET name=$2, description=$3, price=$4, quantity=$5 WHERE id=$1`,
		id, name, description, price, quantity)
	if err != nil {
		return nil, err
	}
	if ct.RowsAffected() == 0 {
		return nil, &ProductNotFoundError{ProductID: id}
	}
	return &Product{ID: id, Name: name, Description: description, Price: price, Quantity: quantity}, nil
}

func (s *ProductStore) Delete(ctx context.Context, id int64) error {
	ct, err := s.DB.Exec(ctx, `DELETE FROM products WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if ct.RowsAffected() == 0 {
		return &ProductNotFoundError{ProductID: id}
	}
	return nil
}
