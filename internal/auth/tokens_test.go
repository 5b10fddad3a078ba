package auth

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTokens_RoundTrip(t *testing.T) {
	tk, err := NewTokens("supersecreto", "HS256", time.Hour)
	require.NoError(t, err)

	raw, err := tk.Issue("alice")
	require.NoError(t, err)

	sub, err := tk.Parse(raw)
	require.NoError(t, err)
	assert.Equal(t, "alice", sub)
}

func TestTokens_Expired(t *testing.T) {
	tk, err := NewTokens("supersecreto", "HS256", time.Minute)
	require.NoError(t, err)
	tk.now = func() time.Time { return time.Now().Add(-2 * time.Minute) }
	raw, err := tk.Issue("alice")
	require.NoError(t, err)

	tk.now = time.Now
	_, err = tk.Parse(raw)
	assert.ErrorIs(t, err, ErrInvalidToken)
	assert.ErrorIs(t, err, jwt.ErrTokenExpired)
}

func TestTokens_WrongSecretOrAlgorithm(t *testing.T) {
	a, err := NewTokens("one", "HS256", time.Hour)
	require.NoError(t, err)
	b, err := NewTokens("two", "HS256", time.Hour)
	require.NoError(t, err)
	c, err := NewTokens("one", "HS512", time.Hour)
	require.NoError(t, err)

	raw, err := a.Issue("alice")
	require.NoError(t, err)

	_, err = b.Parse(raw)
	assert.ErrorIs(t, err, ErrInvalidToken)
	_, err = c.Parse(raw)
	assert.ErrorIs(t, err, ErrInvalidToken)
	_, err = a.Parse("not-a-token")
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestNewTokens_Rejects(t *testing.T) {
	_, err := NewTokens("s", "RS256", time.Hour)
	assert.Error(t, err)
	_, err = NewTokens("s", "none", time.Hour)
	assert.Error(t, err)
	_, err = NewTokens("", "HS256", time.Hour)
	assert.Error(t, err)
}
