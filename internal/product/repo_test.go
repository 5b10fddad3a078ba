package product

import (
	"context"
	"testing"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/pashagolub/pgxmock/v3"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPGRepo_CreateAndList(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	mock.ExpectQuery(`INSERT INTO products`).WithArgs("Mouse", "10.50").
		WillReturnRows(pgxmock.NewRows([]string{"id", "price"}).AddRow(int64(1), "10.50"))
	mock.ExpectQuery(`INSERT INTO products`).WithArgs("Mouse", "10.50").
		WillReturnError(&pgconn.PgError{Code: "23505"})
	mock.ExpectQuery(`SELECT id, name, price::text`).
		WillReturnRows(pgxmock.NewRows([]string{"id", "name", "price"}).
			AddRow(int64(1), "Mouse", "10.50").
			AddRow(int64(2), "Pad", "3.00"))

	repo := NewPGRepo(mock)
	p := &Product{Name: "Mouse", Price: decimal.RequireFromString("10.5")}
	require.NoError(t, repo.Create(context.Background(), p))
	assert.Equal(t, int64(1), p.ID)

	err = repo.Create(context.Background(), &Product{Name: "Mouse", Price: decimal.RequireFromString("10.5")})
	assert.ErrorIs(t, err, ErrAlreadyExist)

	list, err := repo.List(context.Background())
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.True(t, list[1].Price.Equal(decimal.NewFromInt(3)))
	assert.NoError(t, mock.ExpectationsWereMet())
}
