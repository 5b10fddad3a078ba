package outbox

import (
	"context"
	"log/slog"
	"time"

	"github.com/MikeMC777/ecommerce-api/internal/broker"
)

// Pending is the storage side of the relay.
type Pending interface {
	Claim(ctx context.Context, limit int, olderThan, now time.Time, lease time.Duration) ([]Record, error)
	MarkSent(ctx context.Context, id int64) error
	MarkFailed(ctx context.Context, id int64, reason string) error
}

// Observer is told the outcome of every relayed record. May be nil.
type Observer interface {
	Relayed(ok bool)
}

type RelayConfig struct {
	Interval       time.Duration
	Batch          int
	Grace          time.Duration // rows younger than this are left to the request path
	PublishTimeout time.Duration
	// Lease keeps claimed rows away from other relays; defaults to the
	// longest a batch can take to publish.
	Lease time.Duration
}

// Relay republishes pending outbox rows until the broker acknowledges them.
// Several relays may share one table; each row is claimed by one at a time.
// A row can be delivered more than once if marking it sent fails.
type Relay struct {
	store Pending
	pub   broker.Publisher
	obs   Observer
	cfg   RelayConfig
	now   func() time.Time
}

func NewRelay(store Pending, pub broker.Publisher, obs Observer, cfg RelayConfig) *Relay {
	if cfg.Interval <= 0 {
		cfg.Interval = 5 * time.Second
	}
	if cfg.Batch <= 0 {
		cfg.Batch = 50
	}
	if cfg.PublishTimeout <= 0 {
		cfg.PublishTimeout = 5 * time.Second
	}
	if cfg.Lease <= 0 {
		cfg.Lease = time.Duration(cfg.Batch) * cfg.PublishTimeout
	}
	return &Relay{store: store, pub: pub, obs: obs, cfg: cfg, now: time.Now}
}

// Run loops until ctx is done. Errors of a single pass are logged, never fatal.
func (r *Relay) Run(ctx context.Context) error {
	t := time.NewTicker(r.cfg.Interval)
	defer t.Stop()

	slog.InfoContext(ctx, "outbox relay started", "interval", r.cfg.Interval, "batch", r.cfg.Batch)
	for {
		select {
		case <-ctx.Done():
			slog.Info("outbox relay stopped")
			return nil
		case <-t.C:
			if _, err := r.RunOnce(ctx); err != nil {
				slog.ErrorContext(ctx, "outbox relay pass failed", "error", err)
			}
		}
	}
}

// RunOnce relays one batch and reports how many rows were acknowledged.
func (r *Relay) RunOnce(ctx context.Context) (int, error) {
	now := r.now()
	recs, err := r.store.Claim(ctx, r.cfg.Batch, now.Add(-r.cfg.Grace), now, r.cfg.Lease)
	if err != nil {
		return 0, err
	}
	sent := 0
	for _, rec := range recs {
		if ctx.Err() != nil {
			return sent, ctx.Err()
		}
		pctx, cancel := context.WithTimeout(ctx, r.cfg.PublishTimeout)
		err := r.pub.Publish(pctx, rec.Message)
		cancel()
		if err != nil {
			slog.WarnContext(ctx, "outbox publish failed",
				"outbox_id", rec.ID, "queue", rec.Message.Queue, "attempts", rec.Attempts+1, "error", err)
			if merr := r.store.MarkFailed(ctx, rec.ID, err.Error()); merr != nil {
				slog.ErrorContext(ctx, "outbox mark failed", "outbox_id", rec.ID, "error", merr)
			}
			r.observe(false)
			continue
		}
		if err := r.store.MarkSent(ctx, rec.ID); err != nil {
			slog.ErrorContext(ctx, "outbox mark sent failed, message may be redelivered", "outbox_id", rec.ID, "error", err)
		}
		r.observe(true)
		sent++
	}
	return sent, nil
}

func (r *Relay) observe(ok bool) {
	if r.obs != nil {
		r.obs.Relayed(ok)
	}
}
