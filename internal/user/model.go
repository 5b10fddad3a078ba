package user

import "time"

type User struct {
	ID           int64     `json:"id"`
	Username     string    `json:"username"`
	PasswordHash string    `json:"-"`
	CreatedAt    time.Time `json:"-"`
}

type APIKey struct {
	ID     int64  `json:"id"`
	Key    string `json:"key"`
	UserID int64  `json:"-"`
}

// RegisterRequest is the body of POST /users.
// swagger:model RegisterRequest
type RegisterRequest struct {
	Username string `json:"username" form:"username" binding:"required" example:"alice"`
	Password string `json:"password" form:"password" binding:"required" example:"s3cret"`
}

// LoginRequest credentials for /auth/login, as form fields or JSON.
// swagger:model LoginRequest
type LoginRequest struct {
	Username string `json:"username" form:"username" binding:"required"`
	Password string `json:"password" form:"password" binding:"required"`
}

// TokenResponse is returned by /auth/login.
// swagger:model TokenResponse
type TokenResponse struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
}
