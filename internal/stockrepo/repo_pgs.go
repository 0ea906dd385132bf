// Package stockrepo manages repository layer of stocks.
package stockrepo

import (
	"context"
	"database/sql"

	"github.com/go-petr/portfolio-tracker/internal/domain"
	"github.com/go-petr/portfolio-tracker/pkg/dbpkg"
	"github.com/go-petr/portfolio-tracker/pkg/errorspkg"

	"github.com/lib/pq"
	"github.com/rs/zerolog"
)

// RepoPGS facilitates stock repository layer logic.
type RepoPGS struct {
	db dbpkg.SQLInterface
}

// NewRepoPGS returns stock RepoPGS.
func NewRepoPGS(db dbpkg.SQLInterface) *RepoPGS {
	return &RepoPGS{
		db: db,
	}
}

const createQuery = `
INSERT INTO
    stocks (owner_id, ticker, name, buy_price, quantity)
VALUES
    ($1, $2, $3, $4, $5)
RETURNING id, owner_id, ticker, name, buy_price, quantity, created_at
`

// Create creates the stock and then returns it.
func (r *RepoPGS) Create(ctx context.Context, arg domain.CreateStockParams) (domain.Stock, error) {
	l := zerolog.Ctx(ctx)

	row := r.db.QueryRowContext(ctx, createQuery,
		arg.OwnerID,
		arg.Ticker,
		arg.Name,
		arg.BuyPrice,
		arg.Quantity,
	)

	var s domain.Stock

	err := row.Scan(
		&s.ID,
		&s.OwnerID,
		&s.Ticker,
		&s.Name,
		&s.BuyPrice,
		&s.Quantity,
		&s.CreatedAt,
	)

	if err != nil {
		l.Error().Err(err).Send()

		if pqErr, ok := err.(*pq.Error); ok {
			switch pqErr.Constraint {
			case "stocks_owner_id_fkey":
				return s, domain.ErrUserNotFound
			case "stocks_buy_price_check":
				return s, domain.ErrNegativeBuyPrice
			case "stocks_quantity_check":
				return s, domain.ErrNegativeQuantity
			}
		}

		return s, errorspkg.ErrInternal
	}

	return s, nil
}

const getQuery = `
SELECT
	id, owner_id, ticker, name, buy_price, quantity, created_at
FROM stocks
WHERE id = $1
`

// Get returns the stock with the given id.
func (r *RepoPGS) Get(ctx context.Context, id int64) (domain.Stock, error) {
	l := zerolog.Ctx(ctx)

	row := r.db.QueryRowContext(ctx, getQuery, id)

	var s domain.Stock

	err := row.Scan(
		&s.ID,
		&s.OwnerID,
		&s.Ticker,
		&s.Name,
		&s.BuyPrice,
		&s.Quantity,
		&s.CreatedAt,
	)

	if err != nil {
		if err == sql.ErrNoRows {
			return s, domain.ErrStockNotFound
		}

		l.Error().Err(err).Send()

		return s, errorspkg.ErrInternal
	}

	return s, nil
}

const listByOwnerQuery = `
SELECT
	id, owner_id, ticker, name, buy_price, quantity, created_at
FROM stocks
WHERE owner_id = $1
ORDER BY id
`

// ListByOwner returns all stocks owned by the given user.
func (r *RepoPGS) ListByOwner(ctx context.Context, ownerID int64) ([]domain.Stock, error) {
	l := zerolog.Ctx(ctx)

	rows, err := r.db.QueryContext(ctx, listByOwnerQuery, ownerID)
	if err != nil {
		l.Error().Err(err).Send()
		return nil, errorspkg.ErrInternal
	}
	defer rows.Close()

	items := []domain.Stock{}

	for rows.Next() {
		var s domain.Stock
		if err := rows.Scan(&s.ID, &s.OwnerID, &s.Ticker, &s.Name, &s.BuyPrice, &s.Quantity, &s.CreatedAt); err != nil {
			l.Error().Err(err).Send()
			return nil, errorspkg.ErrInternal
		}

		items = append(items, s)
	}

	if err := rows.Err(); err != nil {
		l.Error().Err(err).Send()
		return nil, errorspkg.ErrInternal
	}

	return items, nil
}

const updateQuery = `
UPDATE stocks
SET ticker = $1, name = $2, buy_price = $3, quantity = $4
WHERE id = $5
RETURNING id, owner_id, ticker, name, buy_price, quantity, created_at
`

// Update replaces the mutable fields of the stock with the given id and returns it.
// The owner_id column is deliberately absent from the SET list.
func (r *RepoPGS) Update(ctx context.Context, id int64, arg domain.UpdateStockParams) (domain.Stock, error) {
	l := zerolog.Ctx(ctx)

	row := r.db.QueryRowContext(ctx, updateQuery,
		arg.Ticker,
		arg.Name,
		arg.BuyPrice,
		arg.Quantity,
		id,
	)

	var s domain.Stock

	err := row.Scan(
		&s.ID,
		&s.OwnerID,
		&s.Ticker,
		&s.Name,
		&s.BuyPrice,
		&s.Quantity,
		&s.CreatedAt,
	)

	if err != nil {
		l.Error().Err(err).Send()

		if err == sql.ErrNoRows {
			return s, domain.ErrStockNotFound
		}

		if pqErr, ok := err.(*pq.Error); ok {
			switch pqErr.Constraint {
			case "stocks_buy_price_check":
				return s, domain.ErrNegativeBuyPrice
			case "stocks_quantity_check":
				return s, domain.ErrNegativeQuantity
			}
		}

		return s, errorspkg.ErrInternal
	}

	return s, nil
}

const deleteQuery = `
DELETE FROM stocks
WHERE id = $1
`

// Delete removes the stock with the given id.
// Deleting an id that no longer exists returns domain.ErrStockNotFound.
func (r *RepoPGS) Delete(ctx context.Context, id int64) error {
	l := zerolog.Ctx(ctx)

	res, err := r.db.ExecContext(ctx, deleteQuery, id)
	if err != nil {
		l.Error().Err(err).Send()
		return errorspkg.ErrInternal
	}

	n, err := res.RowsAffected()
	if err != nil {
		l.Error().Err(err).Send()
		return errorspkg.ErrInternal
	}

	if n == 0 {
		return domain.ErrStockNotFound
	}

	return nil
}
