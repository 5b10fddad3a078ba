package cache

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRedis_Key(t *testing.T) {
	c := NewRedis("127.0.0.1:1", "ecommerce")
	defer c.Close()
	assert.Equal(t, "ecommerce:inventory:42", c.Key("inventory", "42"))
}

func TestRedis_Unreachable(t *testing.T) {
	c := NewRedis("127.0.0.1:1", "ecommerce")
	defer c.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()
	_, found, err := c.Get(ctx, "k")
	assert.Error(t, err)
	assert.False(t, found)
}

func TestNop(t *testing.T) {
	var c Cache = Nop{}
	require.NoError(t, c.Set(context.Background(), "k", []byte("v"), time.Minute))
	_, found, err := c.Get(context.Background(), "k")
	require.NoError(t, err)
	assert.False(t, found)
	assert.NoError(t, c.Close())
}
