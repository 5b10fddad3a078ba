package main

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/MikeMC777/ecommerce-api/internal/customer"
	"github.com/MikeMC777/ecommerce-api/internal/db"
	"github.com/MikeMC777/ecommerce-api/internal/order"
	"github.com/MikeMC777/ecommerce-api/internal/product"
	"github.com/MikeMC777/ecommerce-api/internal/user"
)

// HTTPError is the body of every error response.
// swagger:model HTTPError
type HTTPError struct {
	Error   string `json:"error"   example:"validation_error"`
	Message string `json:"message" example:"items must not be empty"`
}

func abortWith(c *gin.Context, status int, code, msg string) {
	c.AbortWithStatusJSON(status, HTTPError{Error: code, Message: msg})
}

// writeError maps domain errors to a status and a stable code.
func writeError(c *gin.Context, err error) {
	var verr *order.ValidationError
	switch {
	case errors.As(err, &verr):
		abortWith(c, http.StatusBadRequest, "validation_error", verr.Reason)
	case errors.Is(err, user.ErrInvalidCredentials):
		abortWith(c, http.StatusBadRequest, "invalid_credentials", "invalid credentials")
	case errors.Is(err, user.ErrInvalid), errors.Is(err, customer.ErrInvalid), errors.Is(err, product.ErrInvalid):
		abortWith(c, http.StatusBadRequest, "validation_error", err.Error())
	case errors.Is(err, order.ErrNotFound), errors.Is(err, customer.ErrNotFound),
		errors.Is(err, user.ErrNotFound), errors.Is(err, product.ErrNotFound),
		errors.Is(err, product.ErrInventoryNotFound):
		abortWith(c, http.StatusNotFound, "not_found", err.Error())
	case errors.Is(err, user.ErrAlreadyExist), errors.Is(err, customer.ErrAlreadyExist), errors.Is(err, product.ErrAlreadyExist):
		abortWith(c, http.StatusConflict, "conflict", err.Error())
	case errors.Is(err, order.ErrReferentialViolation):
		abortWith(c, http.StatusUnprocessableEntity, "referential_violation", order.ErrReferentialViolation.Error())
	case errors.Is(err, product.ErrInventoryUnavailable):
		abortWith(c, http.StatusServiceUnavailable, "inventory_unavailable", product.ErrInventoryUnavailable.Error())
	case errors.Is(err, order.ErrStorageUnavailable), errors.Is(err, db.ErrUnavailable):
		abortWith(c, http.StatusServiceUnavailable, "storage_unavailable", "storage temporarily unavailable")
	default:
		slog.ErrorContext(c.Request.Context(), "request failed", "path", c.FullPath(), "error", err)
		abortWith(c, http.StatusInternalServerError, "internal", "internal error")
	}
}

func badRequest(c *gin.Context, msg string) {
	abortWith(c, http.StatusBadRequest, "bad_request", msg)
}
