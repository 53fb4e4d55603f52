package catalog

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"

	"github.com/pasarkita/pasar-backend/internal/database"
)

// The stock ledger keeps product stock consistent with the quantities
// reserved by open cart items. Every function here runs on the caller's
// transaction so the stock mutation and the cart mutation share one commit
// boundary.

// LockProduct loads a product row under FOR UPDATE, serializing concurrent
// cart operations on the same product.
func LockProduct(ctx context.Context, q database.Querier, id string) (*Product, error) {
	row := q.QueryRow(ctx, `
		SELECT id, seller_id, price::text, stock, active
		FROM products WHERE id = $1
		FOR UPDATE
	`, id)

	var p Product
	var price string
	if err := row.Scan(&p.ID, &p.SellerID, &price, &p.Stock, &p.Active); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	d, err := decimal.NewFromString(price)
	if err != nil {
		return nil, err
	}
	p.Price = d
	return &p, nil
}

// ReserveStock decrements stock by qty, failing with ErrInsufficientStock
// when fewer than qty units remain. The WHERE guard keeps stock non-negative
// even without an advisory lock.
func ReserveStock(ctx context.Context, ex database.Executor, productID string, qty int) error {
	tag, err := ex.Exec(ctx, `
		UPDATE products SET stock = stock - $1, updated_at = NOW()
		WHERE id = $2 AND stock >= $1
	`, qty, productID)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrInsufficientStock
	}
	return nil
}

// ReleaseStock returns qty units on item removal or quantity decrease.
func ReleaseStock(ctx context.Context, ex database.Executor, productID string, qty int) error {
	tag, err := ex.Exec(ctx, `
		UPDATE products SET stock = stock + $1, updated_at = NOW()
		WHERE id = $2
	`, qty, productID)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

// AdjustStock applies a signed reservation delta in one step: positive
// reserves, negative releases, zero is a no-op.
func AdjustStock(ctx context.Context, ex database.Executor, productID string, delta int) error {
	switch {
	case delta > 0:
		return ReserveStock(ctx, ex, productID, delta)
	case delta < 0:
		return ReleaseStock(ctx, ex, productID, -delta)
	}
	return nil
}
