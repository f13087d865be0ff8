package auth

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"golang.org/x/crypto/bcrypt"
)

var ErrInvalidCredentials = errors.New("invalid credentials")

type User struct {
	ID             int64
	Username       string
	HashedPassword string
}

type UserRepo struct{ DB *pgxpool.Pool }

func (r *UserRepo) ByUsername(ctx context.Context, username string) (*User, error) {
	var u User
	err := r.DB.QueryRow(ctx,
		`SELECT id, username, hashed_password FROM users WHERE username = $1`, username).
		Scan(&u.ID, &u.Username, &u.HashedPassword)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrInvalidCredentials
	}
	if err != nil {
		return nil, err
	}
	return &u, nil
}

// Ensure creates the user if it does not exist yet. Used by seeding; the
// bcrypt hash is computed here so callers never handle hashes directly.
func (r *UserRepo) Ensure(ctx context.Context, username, password string) error {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	_, err = r.DB.Exec(ctx,
		`INSERT INTO users(username, hashed_password) VALUES ($1,$2) ON CONFLICT (username) DO NOTHING`,
		username, string(hash))
	return err
}

func VerifyPassword(hashed, plain string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hashed), []byte(plain)) == nil
}
