package auth

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type users map[string]bool

func (u users) SubjectExists(_ context.Context, name string) (bool, error) { return u[name], nil }

type keys map[string]bool

func (k keys) ValidAPIKey(_ context.Context, key string) (bool, error) { return k[key], nil }

type brokenKeys struct{}

func (brokenKeys) ValidAPIKey(context.Context, string) (bool, error) {
	return false, errors.New("db down")
}

func newGuarded(t *testing.T, subjects SubjectChecker, k KeyChecker) (*gin.Engine, *Tokens) {
	t.Helper()
	gin.SetMode(gin.TestMode)
	tk, err := NewTokens("supersecreto", "HS256", time.Hour)
	require.NoError(t, err)
	r := gin.New()
	r.POST("/guarded", RequireBearer(tk, subjects), RequireAPIKey(k), func(c *gin.Context) {
		c.String(http.StatusOK, c.GetString(UsernameKey))
	})
	return r, tk
}

func do(r http.Handler, token, key string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, "/guarded", nil)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	if key != "" {
		req.Header.Set("X-API-Key", key)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestGuards(t *testing.T) {
	r, tk := newGuarded(t, users{"alice": true}, keys{"k1": true})
	good, err := tk.Issue("alice")
	require.NoError(t, err)
	ghost, err := tk.Issue("ghost")
	require.NoError(t, err)

	tests := []struct {
		name   string
		token  string
		key    string
		status int
	}{
		{"both valid", good, "k1", http.StatusOK},
		{"no token", "", "k1", http.StatusUnauthorized},
		{"garbage token", "abc", "k1", http.StatusUnauthorized},
		{"unknown subject", ghost, "k1", http.StatusUnauthorized},
		{"no key", good, "", http.StatusForbidden},
		{"wrong key", good, "nope", http.StatusForbidden},
		{"bearer checked first", "", "", http.StatusUnauthorized},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := do(r, tt.token, tt.key)
			assert.Equal(t, tt.status, w.Code, w.Body.String())
			if tt.status == http.StatusUnauthorized {
				assert.Equal(t, "Bearer", w.Header().Get("WWW-Authenticate"))
			}
			if tt.status == http.StatusOK {
				assert.Equal(t, "alice", w.Body.String())
			}
		})
	}
}

func TestRequireAPIKey_LookupError(t *testing.T) {
	r, tk := newGuarded(t, users{"alice": true}, brokenKeys{})
	good, err := tk.Issue("alice")
	require.NoError(t, err)
	assert.Equal(t, http.StatusInternalServerError, do(r, good, "k1").Code)
}

func TestBearer(t *testing.T) {
	tok, ok := bearer("bearer abc")
	assert.True(t, ok)
	assert.Equal(t, "abc", tok)
	_, ok = bearer("Basic abc")
	assert.False(t, ok)
	_, ok = bearer("Bearer ")
	assert.False(t, ok)
}
