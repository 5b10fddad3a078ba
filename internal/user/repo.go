package user

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/MikeMC777/ecommerce-api/internal/db"
)

var (
	ErrNotFound     = errors.New("user not found")
	ErrAlreadyExist = errors.New("user already exists")
)

type Repository interface {
	Create(ctx context.Context, u *User) error
	GetByID(ctx context.Context, id int64) (*User, error)
	GetByUsername(ctx context.Context, username string) (*User, error)
	CreateAPIKey(ctx context.Context, k *APIKey) error
	APIKeyExists(ctx context.Context, key string) (bool, error)
}

type PGRepo struct{ db db.Querier }

func NewPGRepo(q db.Querier) *PGRepo { return &PGRepo{db: q} }

func (r *PGRepo) Create(ctx context.Context, u *User) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	err := r.db.QueryRow(ctx, `
		INSERT INTO users (username, hashed_password)
		VALUES ($1,$2)
		RETURNING id, created_at
	`, u.Username, u.PasswordHash).Scan(&u.ID, &u.CreatedAt)
	if err != nil {
		err = db.Classify(err)
		if errors.Is(err, db.ErrUniqueViolation) {
			return ErrAlreadyExist
		}
		return fmt.Errorf("user: create: %w", err)
	}
	return nil
}

func (r *PGRepo) GetByID(ctx context.Context, id int64) (*User, error) {
	return r.getOne(ctx, `
		SELECT id, username, hashed_password, created_at
		FROM users WHERE id=$1
	`, id)
}

func (r *PGRepo) GetByUsername(ctx context.Context, username string) (*User, error) {
	return r.getOne(ctx, `
		SELECT id, username, hashed_password, created_at
		FROM users WHERE username=$1
	`, username)
}

func (r *PGRepo) getOne(ctx context.Context, sql string, arg any) (*User, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	var u User
	if err := r.db.QueryRow(ctx, sql, arg).Scan(&u.ID, &u.Username, &u.PasswordHash, &u.CreatedAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("user: get: %w", db.Classify(err))
	}
	return &u, nil
}

func (r *PGRepo) CreateAPIKey(ctx context.Context, k *APIKey) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	err := r.db.QueryRow(ctx, `
		INSERT INTO api_keys (key, user_id)
		VALUES ($1,$2)
		RETURNING id
	`, k.Key, k.UserID).Scan(&k.ID)
	if err != nil {
		err = db.Classify(err)
		switch {
		case errors.Is(err, db.ErrForeignKeyViolation):
			return ErrNotFound
		case errors.Is(err, db.ErrUniqueViolation):
			return fmt.Errorf("api key: %w", ErrAlreadyExist)
		}
		return fmt.Errorf("user: create api key: %w", err)
	}
	return nil
}

func (r *PGRepo) APIKeyExists(ctx context.Context, key string) (bool, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	var ok bool
	if err := r.db.QueryRow(ctx, `SELECT EXISTS (SELECT 1 FROM api_keys WHERE key=$1)`, key).Scan(&ok); err != nil {
		return false, fmt.Errorf("user: lookup api key: %w", db.Classify(err))
	}
	return ok, nil
}
