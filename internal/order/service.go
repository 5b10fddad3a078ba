package order

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/MikeMC777/ecommerce-api/internal/broker"
)

// State is where a create-order request ended up.
type State string

const (
	StateValidating             State = "validating"
	StateRejected               State = "rejected"
	StatePersisting             State = "persisting"
	StatePersistFailed          State = "persist_failed"
	StatePublishing             State = "publishing"
	StateCompleted              State = "completed"
	StatePersistedPublishFailed State = "persisted_publish_failed"
)

// Result is a created order plus how its event publish went. PublishErr is
// set only in StatePersistedPublishFailed.
type Result struct {
	Order      *Order
	State      State
	PublishErr error
}

// SentMarker records that an outbox entry reached the broker.
type SentMarker interface {
	MarkSent(ctx context.Context, id int64) error
}

type Recorder interface {
	OrderCreated()
	PublishFailed()
}

type Options struct {
	Queue          string
	PublishTimeout time.Duration
}

type Service struct {
	repo   Repository
	pub    broker.Publisher
	outbox SentMarker
	rec    Recorder
	opts   Options
}

// NewService wires the workflow. outbox and rec may be nil.
func NewService(repo Repository, pub broker.Publisher, outbox SentMarker, rec Recorder, opts Options) *Service {
	if opts.Queue == "" {
		opts.Queue = "orders"
	}
	if opts.PublishTimeout <= 0 {
		opts.PublishTimeout = 5 * time.Second
	}
	return &Service{repo: repo, pub: pub, outbox: outbox, rec: rec, opts: opts}
}

// Create validates, persists and then announces a new order. Once the order
// is committed the call succeeds; a failed publish is logged, counted and
// left to the outbox relay.
func (s *Service) Create(ctx context.Context, req CreateRequest) (*Result, error) {
	slog.DebugContext(ctx, "order state", "state", StateValidating)
	valid, err := Validate(req)
	if err != nil {
		slog.InfoContext(ctx, "order rejected", "state", StateRejected, "customer_id", req.CustomerID, "error", err)
		return &Result{State: StateRejected}, err
	}

	slog.DebugContext(ctx, "order state", "state", StatePersisting)
	o, env, err := s.repo.Create(ctx, valid)
	if err != nil {
		slog.ErrorContext(ctx, "order persist failed", "state", StatePersistFailed, "customer_id", req.CustomerID, "error", err)
		return &Result{State: StatePersistFailed}, err
	}
	if s.rec != nil {
		s.rec.OrderCreated()
	}
	slog.InfoContext(ctx, "order persisted", "order_id", o.ID, "customer_id", o.CustomerID, "items", len(o.Items))

	// The caller going away must not cancel the publish of a committed order.
	pctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), s.opts.PublishTimeout)
	defer cancel()

	slog.DebugContext(ctx, "order state", "state", StatePublishing, "order_id", o.ID)
	if err := s.publish(pctx, o, env); err != nil {
		if s.rec != nil {
			s.rec.PublishFailed()
		}
		slog.ErrorContext(ctx, "order created event not published; outbox relay will retry",
			"state", StatePersistedPublishFailed, "order_id", o.ID, "outbox_id", env.OutboxID, "error", err)
		return &Result{Order: o, State: StatePersistedPublishFailed, PublishErr: err}, nil
	}
	return &Result{Order: o, State: StateCompleted}, nil
}

func (s *Service) publish(ctx context.Context, o *Order, env Envelope) error {
	msg := env.Message
	if len(msg.Body) == 0 {
		var err error
		if msg, err = NewCreatedEvent(o).Message(s.opts.Queue); err != nil {
			return fmt.Errorf("%w: encode: %w", ErrPublishFailed, err)
		}
	}
	if err := s.pub.Publish(ctx, msg); err != nil {
		return fmt.Errorf("%w: %w", ErrPublishFailed, err)
	}
	if s.outbox != nil && env.OutboxID > 0 {
		if err := s.outbox.MarkSent(ctx, env.OutboxID); err != nil {
			slog.WarnContext(ctx, "outbox entry not marked sent, event may be delivered twice",
				"order_id", o.ID, "outbox_id", env.OutboxID, "error", err)
		}
	}
	return nil
}

func (s *Service) Get(ctx context.Context, id int64) (*Order, error) {
	if id <= 0 {
		return nil, ErrNotFound
	}
	return s.repo.GetByID(ctx, id)
}
