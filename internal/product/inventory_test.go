package product

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type memCache struct {
	mu sync.Mutex
	m  map[string][]byte
}

func (c *memCache) Set(_ context.Context, k string, v []byte, _ time.Duration) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.m == nil {
		c.m = map[string][]byte{}
	}
	c.m[k] = v
	return nil
}

func (c *memCache) Get(_ context.Context, k string) ([]byte, bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	v, ok := c.m[k]
	return v, ok, nil
}

func (c *memCache) Key(op, k string) string { return op + ":" + k }
func (c *memCache) Close() error            { return nil }

func newInventoryServer(t *testing.T, hits *int32) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(hits, 1)
		switch r.URL.Path {
		case "/products/1":
			w.Header().Set("Content-Type", "application/json")
			_, _ = w.Write([]byte(`{"id":1,"title":"Backpack","price":109.95}`))
		case "/products/2":
			w.WriteHeader(http.StatusOK)
		default:
			http.Error(w, `{"error":"not found"}`, http.StatusNotFound)
		}
	}))
	t.Cleanup(srv.Close)
	return srv
}

func TestInventory_FetchPassesThroughAndCaches(t *testing.T) {
	var hits int32
	srv := newInventoryServer(t, &hits)
	c := &memCache{}
	inv := NewInventory(srv.URL+"/products", 2*time.Second, c, time.Minute)

	for i := 0; i < 2; i++ {
		doc, err := inv.Fetch(context.Background(), 1)
		require.NoError(t, err)
		assert.JSONEq(t, `{"id":1,"title":"Backpack","price":109.95}`, string(doc))
	}
	assert.Equal(t, int32(1), atomic.LoadInt32(&hits))
}

func TestInventory_NotFound(t *testing.T) {
	var hits int32
	srv := newInventoryServer(t, &hits)
	inv := NewInventory(srv.URL+"/products", 2*time.Second, nil, time.Minute)

	_, err := inv.Fetch(context.Background(), 99)
	assert.ErrorIs(t, err, ErrInventoryNotFound)
	_, err = inv.Fetch(context.Background(), 2)
	assert.ErrorIs(t, err, ErrInventoryNotFound)
}

func TestInventory_Unconfigured(t *testing.T) {
	inv := NewInventory("", time.Second, nil, time.Minute)
	_, err := inv.Fetch(context.Background(), 1)
	assert.ErrorIs(t, err, ErrInventoryUnavailable)
}

func TestInventory_Unreachable(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	url := srv.URL
	srv.Close()

	inv := NewInventory(url, time.Second, nil, time.Minute)
	_, err := inv.Fetch(context.Background(), 1)
	assert.ErrorIs(t, err, ErrInventoryUnavailable)
}
