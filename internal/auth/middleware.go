package auth

import (
	"context"
	"log/slog"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
)

// UsernameKey holds the authenticated username in the gin context.
const UsernameKey = "auth.username"

type SubjectChecker interface {
	SubjectExists(ctx context.Context, username string) (bool, error)
}

type KeyChecker interface {
	ValidAPIKey(ctx context.Context, key string) (bool, error)
}

type TokenParser interface {
	Parse(raw string) (string, error)
}

// RequireBearer rejects the request with 401 unless it carries a valid
// bearer token for a user that still exists.
func RequireBearer(tokens TokenParser, subjects SubjectChecker) gin.HandlerFunc {
	return func(c *gin.Context) {
		raw, ok := bearer(c.GetHeader("Authorization"))
		if !ok {
			unauthorized(c, "missing bearer token")
			return
		}
		sub, err := tokens.Parse(raw)
		if err != nil {
			unauthorized(c, "could not validate credentials")
			return
		}
		exists, err := subjects.SubjectExists(c.Request.Context(), sub)
		if err != nil {
			slog.ErrorContext(c.Request.Context(), "token subject lookup failed", "error", err)
			c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "internal", "message": "internal error"})
			return
		}
		if !exists {
			unauthorized(c, "could not validate credentials")
			return
		}
		c.Set(UsernameKey, sub)
		c.Next()
	}
}

// RequireAPIKey rejects the request with 403 unless X-API-Key names a
// stored key.
func RequireAPIKey(keys KeyChecker) gin.HandlerFunc {
	return func(c *gin.Context) {
		key := strings.TrimSpace(c.GetHeader("X-API-Key"))
		if key == "" {
			forbidden(c)
			return
		}
		ok, err := keys.ValidAPIKey(c.Request.Context(), key)
		if err != nil {
			slog.ErrorContext(c.Request.Context(), "api key lookup failed", "error", err)
			c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "internal", "message": "internal error"})
			return
		}
		if !ok {
			forbidden(c)
			return
		}
		c.Next()
	}
}

func bearer(h string) (string, bool) {
	scheme, tok, ok := strings.Cut(strings.TrimSpace(h), " ")
	if !ok || !strings.EqualFold(scheme, "bearer") {
		return "", false
	}
	tok = strings.TrimSpace(tok)
	return tok, tok != ""
}

func unauthorized(c *gin.Context, msg string) {
	c.Header("WWW-Authenticate", "Bearer")
	c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "unauthorized", "message": msg})
}

func forbidden(c *gin.Context) {
	c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "forbidden", "message": "invalid or missing API key"})
}
