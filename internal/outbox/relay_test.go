package outbox

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MikeMC777/ecommerce-api/internal/broker"
)

type memPending struct {
	mu        sync.Mutex
	recs      []Record
	olderThan time.Time
	done      map[int64]bool
	until     map[int64]time.Time
	sent      []int64
	failed    map[int64]string
}

func (m *memPending) Claim(_ context.Context, limit int, olderThan, now time.Time, lease time.Duration) ([]Record, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.until == nil {
		m.until = map[int64]time.Time{}
	}
	m.olderThan = olderThan
	var out []Record
	for _, r := range m.recs {
		if m.done[r.ID] || len(out) >= limit {
			continue
		}
		if u, held := m.until[r.ID]; held && !u.Before(now) {
			continue
		}
		m.until[r.ID] = now.Add(lease)
		out = append(out, r)
	}
	return out, nil
}

func (m *memPending) MarkSent(_ context.Context, id int64) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.done == nil {
		m.done = map[int64]bool{}
	}
	m.done[id] = true
	m.sent = append(m.sent, id)
	return nil
}

func (m *memPending) MarkFailed(_ context.Context, id int64, reason string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.failed == nil {
		m.failed = map[int64]string{}
	}
	m.failed[id] = reason
	delete(m.until, id)
	return nil
}

type flakyPublisher struct {
	mu     sync.Mutex
	fail   map[string]bool
	served []string
}

func (p *flakyPublisher) Publish(_ context.Context, msg broker.Message) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.fail[msg.ID] {
		return errors.New("broker unreachable")
	}
	p.served = append(p.served, msg.ID)
	return nil
}

func (p *flakyPublisher) Close() error { return nil }

type countingObserver struct{ ok, failed int }

func (c *countingObserver) Relayed(ok bool) {
	if ok {
		c.ok++
		return
	}
	c.failed++
}

func TestRelay_RunOnce(t *testing.T) {
	store := &memPending{recs: []Record{
		{ID: 1, Message: broker.Message{ID: "a", Queue: "orders"}},
		{ID: 2, Message: broker.Message{ID: "b", Queue: "orders"}},
		{ID: 3, Message: broker.Message{ID: "c", Queue: "orders"}},
	}}
	pub := &flakyPublisher{fail: map[string]bool{"b": true}}
	obs := &countingObserver{}

	now := time.Date(2025, 8, 1, 12, 0, 0, 0, time.UTC)
	r := NewRelay(store, pub, obs, RelayConfig{Batch: 10, Grace: 10 * time.Second})
	r.now = func() time.Time { return now }

	sent, err := r.RunOnce(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 2, sent)
	assert.Equal(t, []string{"a", "c"}, pub.served)
	assert.Equal(t, []int64{1, 3}, store.sent)
	assert.Equal(t, "broker unreachable", store.failed[2])
	assert.Equal(t, now.Add(-10*time.Second), store.olderThan)
	assert.Equal(t, 2, obs.ok)
	assert.Equal(t, 1, obs.failed)

	// The failed row is retried on the next pass once the broker recovers.
	pub.fail = nil
	sent, err = r.RunOnce(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, sent)
	assert.Equal(t, []string{"a", "c", "b"}, pub.served)
}

func TestRelay_RunStopsOnCancel(t *testing.T) {
	store := &memPending{}
	r := NewRelay(store, &flakyPublisher{}, nil, RelayConfig{Interval: 10 * time.Millisecond})

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- r.Run(ctx) }()

	time.Sleep(30 * time.Millisecond)
	cancel()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(time.Second):
		t.Fatal("relay did not stop after cancel")
	}
}

func TestRelay_ConcurrentRelaysDoNotDoublePublish(t *testing.T) {
	store := &memPending{recs: []Record{
		{ID: 1, Message: broker.Message{ID: "a", Queue: "orders"}},
		{ID: 2, Message: broker.Message{ID: "b", Queue: "orders"}},
	}}
	now := time.Date(2025, 8, 1, 12, 0, 0, 0, time.UTC)

	// Relay A fails to publish and never releases its claims.
	pubA := &flakyPublisher{fail: map[string]bool{"a": true, "b": true}}
	a := NewRelay(&holdOnFail{store}, pubA, nil, RelayConfig{Batch: 10})
	a.now = func() time.Time { return now }
	pubB := &flakyPublisher{}
	b := NewRelay(store, pubB, nil, RelayConfig{Batch: 10})
	b.now = func() time.Time { return now.Add(time.Second) }

	_, err := a.RunOnce(context.Background())
	require.NoError(t, err)
	sent, err := b.RunOnce(context.Background())
	require.NoError(t, err)
	assert.Zero(t, sent)
	assert.Empty(t, pubB.served)

	// After the lease runs out the rows are up for grabs again.
	b.now = func() time.Time { return now.Add(a.cfg.Lease + time.Second) }
	sent, err = b.RunOnce(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 2, sent)
	assert.Equal(t, []string{"a", "b"}, pubB.served)
}

func TestNewRelay_DefaultLeaseCoversBatch(t *testing.T) {
	r := NewRelay(&memPending{}, &flakyPublisher{}, nil, RelayConfig{Batch: 4, PublishTimeout: 2 * time.Second})
	assert.Equal(t, 8*time.Second, r.cfg.Lease)
}

// holdOnFail keeps failed rows leased, like a relay that died mid-batch.
type holdOnFail struct{ *memPending }

func (h *holdOnFail) MarkFailed(context.Context, int64, string) error { return nil }
