package user

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"unicode"

	"github.com/google/uuid"
)

var (
	ErrInvalid            = errors.New("invalid user")
	ErrInvalidCredentials = errors.New("invalid credentials")
)

// TokenIssuer signs session tokens for an authenticated username.
type TokenIssuer interface {
	Issue(subject string) (string, error)
}

type Service struct {
	repo   Repository
	tokens TokenIssuer
}

func NewService(repo Repository, tokens TokenIssuer) *Service {
	return &Service{repo: repo, tokens: tokens}
}

// Register creates a user; the username must be new.
func (s *Service) Register(ctx context.Context, in RegisterRequest) (*User, error) {
	// Checked as sent: Login compares the raw password.
	username, password := in.Username, in.Password
	if len(strings.TrimSpace(username)) < 3 {
		return nil, fmt.Errorf("%w: username must be at least 3 characters", ErrInvalid)
	}
	if !isAlnum(username) {
		return nil, fmt.Errorf("%w: username may only contain letters and digits", ErrInvalid)
	}
	if len(strings.TrimSpace(password)) < 3 {
		return nil, fmt.Errorf("%w: password must be at least 3 characters", ErrInvalid)
	}
	if strings.ContainsFunc(password, unicode.IsSpace) {
		return nil, fmt.Errorf("%w: password must not contain spaces", ErrInvalid)
	}

	hash, err := HashPassword(password)
	if err != nil {
		return nil, fmt.Errorf("user: hash password: %w", err)
	}
	u := &User{Username: username, PasswordHash: hash}
	if err := s.repo.Create(ctx, u); err != nil {
		return nil, err
	}
	slog.InfoContext(ctx, "user registered", "user_id", u.ID, "username", u.Username)
	return u, nil
}

// Login checks the credentials and returns a signed bearer token.
func (s *Service) Login(ctx context.Context, in LoginRequest) (*TokenResponse, error) {
	u, err := s.repo.GetByUsername(ctx, strings.TrimSpace(in.Username))
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, err
	}
	if !CheckPassword(u.PasswordHash, in.Password) {
		return nil, ErrInvalidCredentials
	}
	tok, err := s.tokens.Issue(u.Username)
	if err != nil {
		return nil, fmt.Errorf("user: issue token: %w", err)
	}
	return &TokenResponse{AccessToken: tok, TokenType: "bearer"}, nil
}

// IssueAPIKey generates a new random key for an existing user.
func (s *Service) IssueAPIKey(ctx context.Context, userID int64) (*APIKey, error) {
	if userID <= 0 {
		return nil, ErrNotFound
	}
	if _, err := s.repo.GetByID(ctx, userID); err != nil {
		return nil, err
	}
	k := &APIKey{Key: uuid.NewString(), UserID: userID}
	if err := s.repo.CreateAPIKey(ctx, k); err != nil {
		return nil, err
	}
	slog.InfoContext(ctx, "api key issued", "user_id", userID, "api_key_id", k.ID)
	return k, nil
}

// SubjectExists reports whether a token subject still names a user.
func (s *Service) SubjectExists(ctx context.Context, username string) (bool, error) {
	_, err := s.repo.GetByUsername(ctx, username)
	if errors.Is(err, ErrNotFound) {
		return false, nil
	}
	return err == nil, err
}

func (s *Service) ValidAPIKey(ctx context.Context, key string) (bool, error) {
	if key == "" {
		return false, nil
	}
	return s.repo.APIKeyExists(ctx, key)
}

func isAlnum(s string) bool {
	for _, r := range s {
		if !unicode.IsLetter(r) && !unicode.IsDigit(r) {
			return false
		}
	}
	return s != ""
}
