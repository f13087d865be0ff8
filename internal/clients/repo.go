package clients

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

var ErrNotFound = errors.New("client not found")

type Client struct {
	ID    int64  `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
}

type Repo struct{ DB *pgxpool.Pool }

func (r *Repo) Create(ctx context.Context, name, email string) (*Client, error) {
	c := Client{Name: name, Email: email}
	err := r.DB.QueryRow(ctx,
		`INSERT INTO clients(name, email) VALUES ($1,$2) RETURNING id`, name, email).Scan(&c.ID)
	if err != nil {
		return nil, err
	}
	return &c, nil
}

func (r *Repo) Get(ctx context.Context, id int64) (*Client, error) {
	var c Client
	err := r.DB.QueryRow(ctx,
		`SELECT id, name, email FROM clients WHERE id = $1`, id).Scan(&c.ID, &c.Name, &c.Email)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &c, nil
}

func (r *Repo) List(ctx context.Context, skip, limit int) ([]Client, error) {
	rows, err := r.DB.Query(ctx,
		`SELECT id, name, email FROM clients ORDER BY id OFFSET $1 LIMIT $2`, skip, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []Client{}
	for rows.Next() {
		var c Client
		if err := rows.Scan(&c.ID, &c.Name, &c.Email); err != nil {
			return nil, err
		}
		out = append(out, c)
	}
	return out, rows.Err()
}

func (r *Repo) Update(ctx context.Context, id int64, name, email string) (*Client, error) {
	ct, err := r.DB.Exec(ctx,
		`UPDATE clients SET name=$2, email=$3 WHERE id=$1`, id, name, email)
	if err != nil {
		return nil, err
	}
	if ct.RowsAffected() == 0 {
		return nil, ErrNotFound
	}
	return &Client{ID: id, Name: name, Email: email}, nil
}

func (r *Repo) Delete(ctx context.Context, id int64) error {
	ct, err := r.DB.Exec(ctx, `DELETE FROM clients WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if ct.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}
