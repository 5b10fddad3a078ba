// Package product provides the catalog repository, its service and the client
// for the external inventory API.
package product

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"

	"github.com/MikeMC777/ecommerce-api/internal/db"
)

var (
	ErrNotFound     = errors.New("product not found")
	ErrAlreadyExist = errors.New("product name already exists")
)

type Repository interface {
	Create(ctx context.Context, p *Product) error
	List(ctx context.Context) ([]Product, error)
}

type PGRepo struct{ db db.Querier }

func NewPGRepo(q db.Querier) *PGRepo { return &PGRepo{db: q} }

func (r *PGRepo) Create(ctx context.Context, p *Product) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	var price string
	err := r.db.QueryRow(ctx, `
		INSERT INTO products (name, price)
		VALUES ($1,$2::numeric)
		RETURNING id, price::text
	`, p.Name, p.Price.StringFixed(2)).Scan(&p.ID, &price)
	if err == nil {
		p.Price, err = decimal.NewFromString(price)
	}
	if err != nil {
		err = db.Classify(err)
		if errors.Is(err, db.ErrUniqueViolation) {
			return ErrAlreadyExist
		}
		return fmt.Errorf("product: create: %w", err)
	}
	return nil
}

func (r *PGRepo) List(ctx context.Context) ([]Product, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	rows, err := r.db.Query(ctx, `
		SELECT id, name, price::text
		FROM products
		ORDER BY id
	`)
	if err != nil {
		return nil, fmt.Errorf("product: list: %w", db.Classify(err))
	}
	defer rows.Close()

	out := []Product{}
	for rows.Next() {
		p, err := scanProduct(rows)
		if err != nil {
			return nil, fmt.Errorf("product: scan: %w", err)
		}
		out = append(out, p)
	}
	return out, rows.Err()
}

// scanProduct reads id, name, price::text.
func scanProduct(row pgx.Row) (Product, error) {
	var (
		p     Product
		price string
	)
	if err := row.Scan(&p.ID, &p.Name, &price); err != nil {
		return Product{}, err
	}
	d, err := decimal.NewFromString(price)
	if err != nil {
		return Product{}, fmt.Errorf("product %d: bad price %q: %w", p.ID, price, err)
	}
	p.Price = d
	return p, nil
}
