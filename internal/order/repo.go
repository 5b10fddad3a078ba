package order

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/MikeMC777/ecommerce-api/internal/broker"
	"github.com/MikeMC777/ecommerce-api/internal/db"
	"github.com/MikeMC777/ecommerce-api/internal/outbox"
)

// Envelope is the outbox entry written together with an order.
type Envelope struct {
	OutboxID int64
	Message  broker.Message
}

type Repository interface {
	// Create persists the order, its items and the pending order-created
	// message atomically.
	Create(ctx context.Context, req CreateRequest) (*Order, Envelope, error)
	GetByID(ctx context.Context, id int64) (*Order, error)
}

type PGRepo struct {
	db    db.DB
	queue string
}

func NewPGRepo(pool db.DB, queue string) *PGRepo { return &PGRepo{db: pool, queue: queue} }

func (r *PGRepo) Create(ctx context.Context, req CreateRequest) (*Order, Envelope, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	tx, err := r.db.Begin(ctx)
	if err != nil {
		return nil, Envelope{}, translate("begin", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	o := &Order{CustomerID: req.CustomerID, Items: make([]Item, 0, len(req.Items))}
	if err := tx.QueryRow(ctx, `
		INSERT INTO orders (customer_id)
		VALUES ($1)
		RETURNING id, created_at
	`, req.CustomerID).Scan(&o.ID, &o.CreatedAt); err != nil {
		return nil, Envelope{}, translate("insert order", err)
	}

	for _, it := range req.Items {
		item := Item{OrderID: o.ID, ProductID: it.ProductID, Quantity: it.Quantity}
		if err := tx.QueryRow(ctx, `
			INSERT INTO order_items (order_id, product_id, quantity)
			VALUES ($1,$2,$3)
			RETURNING id
		`, o.ID, it.ProductID, it.Quantity).Scan(&item.ID); err != nil {
			return nil, Envelope{}, translate("insert item", err)
		}
		o.Items = append(o.Items, item)
	}

	msg, err := NewCreatedEvent(o).Message(r.queue)
	if err != nil {
		return nil, Envelope{}, fmt.Errorf("order: encode event: %w", err)
	}
	outboxID, err := outbox.Insert(ctx, tx, msg)
	if err != nil {
		return nil, Envelope{}, translate("insert outbox", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, Envelope{}, translate("commit", err)
	}
	return o, Envelope{OutboxID: outboxID, Message: msg}, nil
}

func (r *PGRepo) GetByID(ctx context.Context, id int64) (*Order, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	o := Order{Items: []Item{}}
	if err := r.db.QueryRow(ctx, `
		SELECT id, customer_id, created_at
		FROM orders WHERE id=$1
	`, id).Scan(&o.ID, &o.CustomerID, &o.CreatedAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, translate("get order", err)
	}

	rows, err := r.db.Query(ctx, `
		SELECT id, order_id, product_id, quantity
		FROM order_items WHERE order_id=$1
		ORDER BY id
	`, id)
	if err != nil {
		return nil, translate("get items", err)
	}
	defer rows.Close()
	for rows.Next() {
		var it Item
		if err := rows.Scan(&it.ID, &it.OrderID, &it.ProductID, &it.Quantity); err != nil {
			return nil, translate("scan item", err)
		}
		o.Items = append(o.Items, it)
	}
	if err := rows.Err(); err != nil {
		return nil, translate("get items", err)
	}
	return &o, nil
}

func translate(step string, err error) error {
	err = db.Classify(err)
	switch {
	case errors.Is(err, db.ErrForeignKeyViolation):
		return fmt.Errorf("%w: %w", ErrReferentialViolation, err)
	case errors.Is(err, db.ErrUnavailable):
		return fmt.Errorf("%w: %s: %w", ErrStorageUnavailable, step, err)
	}
	return fmt.Errorf("order: %s: %w", step, err)
}
