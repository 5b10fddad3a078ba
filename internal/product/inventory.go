package product

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/MikeMC777/ecommerce-api/internal/cache"
)

var (
	ErrInventoryNotFound    = errors.New("product not found in external inventory")
	ErrInventoryUnavailable = errors.New("external inventory not configured or unreachable")
)

// Inventory fetches product documents from the external inventory API and
// returns them unchanged.
type Inventory struct {
	HTTP    *http.Client
	BaseURL string
	Cache   cache.Cache
	TTL     time.Duration
}

func NewInventory(baseURL string, timeout time.Duration, c cache.Cache, ttl time.Duration) *Inventory {
	if c == nil {
		c = cache.Nop{}
	}
	return &Inventory{
		HTTP:    &http.Client{Timeout: timeout},
		BaseURL: baseURL,
		Cache:   c,
		TTL:     ttl,
	}
}

// Fetch returns the raw JSON document for the product id.
func (inv *Inventory) Fetch(ctx context.Context, id int64) (json.RawMessage, error) {
	if inv.BaseURL == "" {
		return nil, ErrInventoryUnavailable
	}
	key := inv.Cache.Key("inventory", strconv.FormatInt(id, 10))
	if b, ok, err := inv.Cache.Get(ctx, key); err != nil {
		slog.WarnContext(ctx, "inventory cache read failed", "product_id", id, "error", err)
	} else if ok {
		return b, nil
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, fmt.Sprintf("%s/%d", inv.BaseURL, id), nil)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInventoryUnavailable, err)
	}
	req.Header.Set("Accept", "application/json")
	res, err := inv.HTTP.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInventoryUnavailable, err)
	}
	defer res.Body.Close()
	if res.StatusCode != http.StatusOK {
		return nil, ErrInventoryNotFound
	}
	body, err := io.ReadAll(io.LimitReader(res.Body, 1<<20))
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInventoryUnavailable, err)
	}
	body = bytes.TrimSpace(body)
	// Some inventories answer 200 with an empty body for unknown ids.
	if len(body) == 0 || bytes.Equal(body, []byte("null")) {
		return nil, ErrInventoryNotFound
	}
	if !json.Valid(body) {
		return nil, fmt.Errorf("%w: response is not JSON", ErrInventoryUnavailable)
	}

	if err := inv.Cache.Set(ctx, key, body, inv.TTL); err != nil {
		slog.WarnContext(ctx, "inventory cache write failed", "product_id", id, "error", err)
	}
	return body, nil
}
