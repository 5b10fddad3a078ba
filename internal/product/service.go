package product

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/shopspring/decimal"
)

var ErrInvalid = errors.New("invalid product")

// maxPrice is the first value NUMERIC(12,2) cannot hold.
var maxPrice = decimal.New(1, 10)

type Service struct {
	repo Repository
}

func NewService(repo Repository) *Service { return &Service{repo: repo} }

// Create stores a product with a trimmed unique name and a positive price
// rounded to cents.
func (s *Service) Create(ctx context.Context, in CreateProductRequest) (*Product, error) {
	name := strings.TrimSpace(in.Name)
	if n := utf8.RuneCountInString(name); n < 1 || n > 100 {
		return nil, fmt.Errorf("%w: name must be between 1 and 100 characters", ErrInvalid)
	}
	for _, r := range name {
		if !unicode.IsLetter(r) && !unicode.IsDigit(r) && r != ' ' {
			return nil, fmt.Errorf("%w: name may only contain letters, digits and spaces", ErrInvalid)
		}
	}
	price := in.Price.Round(2)
	if !price.GreaterThan(decimal.Zero) {
		return nil, fmt.Errorf("%w: price must be greater than 0", ErrInvalid)
	}
	if !price.LessThan(maxPrice) {
		return nil, fmt.Errorf("%w: price is too large", ErrInvalid)
	}

	p := &Product{Name: name, Price: price}
	if err := s.repo.Create(ctx, p); err != nil {
		return nil, err
	}
	slog.InfoContext(ctx, "product created", "product_id", p.ID, "price", p.Price.StringFixed(2))
	return p, nil
}

func (s *Service) List(ctx context.Context) ([]Product, error) {
	return s.repo.List(ctx)
}
