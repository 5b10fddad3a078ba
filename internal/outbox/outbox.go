// Package outbox stores broker messages next to the business rows that caused
// them and relays the ones still pending.
package outbox

import (
	"cmp"
	"context"
	"fmt"
	"slices"
	"time"

	"github.com/MikeMC777/ecommerce-api/internal/broker"
	"github.com/MikeMC777/ecommerce-api/internal/db"
)

type Record struct {
	ID        int64
	Message   broker.Message
	Attempts  int
	LastError string
	CreatedAt time.Time
}

// Insert writes msg as a pending row. Pass the transaction that writes the
// business data so both commit or roll back together.
func Insert(ctx context.Context, q db.Querier, msg broker.Message) (int64, error) {
	var id int64
	err := q.QueryRow(ctx, `
		INSERT INTO outbox (message_id, queue, msg_key, content_type, payload)
		VALUES ($1,$2,$3,$4,$5)
		RETURNING id
	`, msg.ID, msg.Queue, msg.Key, msg.ContentType, msg.Body).Scan(&id)
	if err != nil {
		return 0, fmt.Errorf("outbox: insert: %w", db.Classify(err))
	}
	return id, nil
}

type Store struct{ db db.Querier }

func NewStore(q db.Querier) *Store { return &Store{db: q} }

// Claim leases up to limit unsent rows created before olderThan and returns
// them oldest first. A claimed row is skipped by every other relay until the
// lease expires or MarkFailed releases it.
func (s *Store) Claim(ctx context.Context, limit int, olderThan, now time.Time, lease time.Duration) ([]Record, error) {
	if limit <= 0 {
		limit = 50
	}
	rows, err := s.db.Query(ctx, `
		UPDATE outbox SET locked_until = $4
		WHERE id IN (
			SELECT id FROM outbox
			WHERE sent_at IS NULL AND created_at < $1
			  AND (locked_until IS NULL OR locked_until < $3)
			ORDER BY id
			LIMIT $2
			FOR UPDATE SKIP LOCKED
		)
		RETURNING id, message_id, queue, msg_key, content_type, payload, attempts, last_error, created_at
	`, olderThan, limit, now, now.Add(lease))
	if err != nil {
		return nil, fmt.Errorf("outbox: claim: %w", db.Classify(err))
	}
	defer rows.Close()

	var out []Record
	for rows.Next() {
		var r Record
		if err := rows.Scan(&r.ID, &r.Message.ID, &r.Message.Queue, &r.Message.Key,
			&r.Message.ContentType, &r.Message.Body, &r.Attempts, &r.LastError, &r.CreatedAt); err != nil {
			return nil, fmt.Errorf("outbox: scan: %w", err)
		}
		out = append(out, r)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("outbox: claim: %w", db.Classify(err))
	}
	// RETURNING does not keep the subquery order.
	slices.SortFunc(out, func(a, b Record) int { return cmp.Compare(a.ID, b.ID) })
	return out, nil
}

func (s *Store) MarkSent(ctx context.Context, id int64) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	_, err := s.db.Exec(ctx, `UPDATE outbox SET sent_at = now(), attempts = attempts + 1, last_error = '' WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("outbox: mark %d sent: %w", id, db.Classify(err))
	}
	return nil
}

func (s *Store) MarkFailed(ctx context.Context, id int64, reason string) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	_, err := s.db.Exec(ctx, `UPDATE outbox SET attempts = attempts + 1, last_error = $2, locked_until = NULL WHERE id = $1`, id, reason)
	if err != nil {
		return fmt.Errorf("outbox: mark %d failed: %w", id, db.Classify(err))
	}
	return nil
}
