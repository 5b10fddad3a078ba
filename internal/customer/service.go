package customer

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/go-playground/validator/v10"
)

var ErrInvalid = errors.New("invalid customer")

type Service struct {
	repo     Repository
	validate *validator.Validate
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo, validate: validator.New()}
}

// Create normalizes and stores a customer. Emails are unique ignoring case.
func (s *Service) Create(ctx context.Context, in CreateRequest) (*Customer, error) {
	name := strings.TrimSpace(in.FullName)
	email := strings.ToLower(strings.TrimSpace(in.Email))

	if n := utf8.RuneCountInString(name); n < 1 || n > 100 {
		return nil, fmt.Errorf("%w: full_name must be between 1 and 100 characters", ErrInvalid)
	}
	for _, r := range name {
		if !unicode.IsLetter(r) && r != ' ' {
			return nil, fmt.Errorf("%w: full_name may only contain letters and spaces", ErrInvalid)
		}
	}
	if err := s.validate.Var(email, "required,email"); err != nil {
		return nil, fmt.Errorf("%w: email is not a valid address", ErrInvalid)
	}

	c := &Customer{FullName: name, Email: email}
	if err := s.repo.Create(ctx, c); err != nil {
		return nil, err
	}
	slog.InfoContext(ctx, "customer created", "customer_id", c.ID)
	return c, nil
}

func (s *Service) Get(ctx context.Context, id int64) (*Customer, error) {
	if id <= 0 {
		return nil, ErrNotFound
	}
	return s.repo.GetByID(ctx, id)
}
