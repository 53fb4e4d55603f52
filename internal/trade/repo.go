package trade

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"

	"github.com/pasarkita/pasar-backend/internal/database"
)

type Repository interface {
	GetByID(ctx context.Context, id string) (*Transaction, []Item, error)
	ListByUser(ctx context.Context, userID string, limit, offset int) ([]Transaction, error)
	ListDraftsByBuyer(ctx context.Context, buyerID string) ([]Transaction, error)
	ListDraftsBySeller(ctx context.Context, sellerID string) ([]Transaction, error)
	ListAll(ctx context.Context, limit, offset int) ([]Transaction, error)
}

type PGRepo struct{ db *pgxpool.Pool }

func NewPGRepo(db *pgxpool.Pool) *PGRepo { return &PGRepo{db: db} }

const txColumns = `id, buyer_id, seller_id, driver_id, total_amount::text,
	shipping_cost::text, buyer_location, driver_location, type, status,
	COALESCE(description,''), reviewed, created_at, updated_at`

func scanTransaction(row pgx.Row) (*Transaction, error) {
	var t Transaction
	var total string
	var shipping *string
	if err := row.Scan(&t.ID, &t.BuyerID, &t.SellerID, &t.DriverID, &total,
		&shipping, &t.BuyerLocation, &t.DriverLocation, &t.Type, &t.Status,
		&t.Description, &t.Reviewed, &t.CreatedAt, &t.UpdatedAt); err != nil {
		return nil, err
	}
	d, err := decimal.NewFromString(total)
	if err != nil {
		return nil, err
	}
	t.TotalAmount = d
	if shipping != nil {
		s, err := decimal.NewFromString(*shipping)
		if err != nil {
			return nil, err
		}
		t.ShippingCost = &s
	}
	return &t, nil
}

func scanItem(row pgx.Row) (*Item, error) {
	var it Item
	var subtotal string
	if err := row.Scan(&it.ID, &it.TransactionID, &it.ProductID, &it.Quantity,
		&subtotal, &it.CreatedAt, &it.UpdatedAt); err != nil {
		return nil, err
	}
	d, err := decimal.NewFromString(subtotal)
	if err != nil {
		return nil, err
	}
	it.Subtotal = d
	return &it, nil
}

const itemColumns = `id, transaction_id, product_id, quantity, subtotal::text, created_at, updated_at`

func (r *PGRepo) GetByID(ctx context.Context, id string) (*Transaction, []Item, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	t, err := scanTransaction(r.db.QueryRow(ctx, `
		SELECT `+txColumns+` FROM transactions WHERE id=$1
	`, id))
	if err != nil {
		return nil, nil, ErrNotFound
	}
	items, err := getItems(ctx, r.db, id)
	if err != nil {
		return nil, nil, err
	}
	return t, items, nil
}

func (r *PGRepo) ListByUser(ctx context.Context, userID string, limit, offset int) ([]Transaction, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	if limit <= 0 || limit > 100 {
		limit = 20
	}
	if offset < 0 {
		offset = 0
	}
	return r.list(ctx, `
		SELECT `+txColumns+`
		FROM transactions
		WHERE buyer_id=$1 OR seller_id=$1 OR driver_id=$1
		ORDER BY created_at DESC LIMIT $2 OFFSET $3
	`, userID, limit, offset)
}

func (r *PGRepo) ListDraftsByBuyer(ctx context.Context, buyerID string) ([]Transaction, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	return r.list(ctx, `
		SELECT `+txColumns+`
		FROM transactions WHERE buyer_id=$1 AND status=$2
		ORDER BY created_at DESC
	`, buyerID, StatusCart)
}

func (r *PGRepo) ListDraftsBySeller(ctx context.Context, sellerID string) ([]Transaction, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	return r.list(ctx, `
		SELECT `+txColumns+`
		FROM transactions WHERE seller_id=$1 AND status=$2
		ORDER BY buyer_id, created_at DESC
	`, sellerID, StatusCart)
}

func (r *PGRepo) ListAll(ctx context.Context, limit, offset int) ([]Transaction, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	if limit <= 0 || limit > 1000 {
		limit = 200
	}
	if offset < 0 {
		offset = 0
	}
	return r.list(ctx, `
		SELECT `+txColumns+`
		FROM transactions ORDER BY created_at DESC LIMIT $1 OFFSET $2
	`, limit, offset)
}

func (r *PGRepo) list(ctx context.Context, sql string, args ...any) ([]Transaction, error) {
	rows, err := r.db.Query(ctx, sql, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Transaction
	for rows.Next() {
		t, err := scanTransaction(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *t)
	}
	return out, rows.Err()
}

// --- helpers shared by the services; all run on the caller's transaction ---

func lockTransaction(ctx context.Context, q database.Querier, id string) (*Transaction, error) {
	t, err := scanTransaction(q.QueryRow(ctx, `
		SELECT `+txColumns+` FROM transactions WHERE id=$1 FOR UPDATE
	`, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return t, nil
}

// lockDraft finds the buyer's draft cart toward a seller, or returns nil.
func lockDraft(ctx context.Context, q database.Querier, buyerID, sellerID string) (*Transaction, error) {
	t, err := scanTransaction(q.QueryRow(ctx, `
		SELECT `+txColumns+`
		FROM transactions
		WHERE buyer_id=$1 AND seller_id=$2 AND status=$3
		FOR UPDATE
	`, buyerID, sellerID, StatusCart))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return t, nil
}

func insertTransaction(ctx context.Context, ex database.Executor, t *Transaction) error {
	_, err := ex.Exec(ctx, `
		INSERT INTO transactions (id, buyer_id, seller_id, driver_id, total_amount,
			type, status, description, created_at, updated_at)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,NOW(),NOW())
	`, t.ID, t.BuyerID, t.SellerID, t.DriverID, t.TotalAmount.StringFixed(2),
		t.Type, t.Status, t.Description)
	return err
}

func findDraftItem(ctx context.Context, q database.Querier, transactionID, productID string) (*Item, error) {
	it, err := scanItem(q.QueryRow(ctx, `
		SELECT `+itemColumns+`
		FROM transaction_items
		WHERE transaction_id=$1 AND product_id=$2
	`, transactionID, productID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return it, nil
}

// lockItemForBuyer loads an item by id together with its parent draft,
// locking both rows. Only items of transactions still in cart status are
// visible here.
func lockItemForBuyer(ctx context.Context, q database.Querier, itemID, buyerID string) (*Item, error) {
	it, err := scanItem(q.QueryRow(ctx, `
		SELECT i.id, i.transaction_id, i.product_id, i.quantity, i.subtotal::text,
			i.created_at, i.updated_at
		FROM transaction_items i
		JOIN transactions t ON t.id = i.transaction_id
		WHERE i.id=$1 AND t.buyer_id=$2 AND t.status=$3
		FOR UPDATE
	`, itemID, buyerID, StatusCart))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrItemNotFound
		}
		return nil, err
	}
	return it, nil
}

// lockItemByProduct is the removal path: the caller knows the product, not
// the item id.
func lockItemByProduct(ctx context.Context, q database.Querier, buyerID, productID string) (*Item, error) {
	it, err := scanItem(q.QueryRow(ctx, `
		SELECT i.id, i.transaction_id, i.product_id, i.quantity, i.subtotal::text,
			i.created_at, i.updated_at
		FROM transaction_items i
		JOIN transactions t ON t.id = i.transaction_id
		WHERE t.buyer_id=$1 AND i.product_id=$2 AND t.status=$3
		FOR UPDATE
	`, buyerID, productID, StatusCart))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrItemNotFound
		}
		return nil, err
	}
	return it, nil
}

func insertItem(ctx context.Context, ex database.Executor, it *Item) error {
	_, err := ex.Exec(ctx, `
		INSERT INTO transaction_items (id, transaction_id, product_id, quantity,
			subtotal, created_at, updated_at)
		VALUES ($1,$2,$3,$4,$5,NOW(),NOW())
	`, it.ID, it.TransactionID, it.ProductID, it.Quantity, it.Subtotal.StringFixed(2))
	return err
}

func updateItem(ctx context.Context, ex database.Executor, itemID string, quantity int, subtotal decimal.Decimal) error {
	tag, err := ex.Exec(ctx, `
		UPDATE transaction_items SET quantity=$2, subtotal=$3, updated_at=NOW()
		WHERE id=$1
	`, itemID, quantity, subtotal.StringFixed(2))
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrItemNotFound
	}
	return nil
}

func deleteItem(ctx context.Context, ex database.Executor, itemID string) error {
	_, err := ex.Exec(ctx, `DELETE FROM transaction_items WHERE id=$1`, itemID)
	return err
}

func countItems(ctx context.Context, q database.Querier, transactionID string) (int, error) {
	var n int
	err := q.QueryRow(ctx, `
		SELECT COUNT(*) FROM transaction_items WHERE transaction_id=$1
	`, transactionID).Scan(&n)
	return n, err
}

func deleteTransaction(ctx context.Context, ex database.Executor, id string) error {
	_, err := ex.Exec(ctx, `DELETE FROM transactions WHERE id=$1`, id)
	return err
}

// recomputeTotal derives total_amount from the item subtotals instead of
// incrementing it, so the denormalized column cannot drift.
func recomputeTotal(ctx context.Context, ex database.Executor, transactionID string) error {
	_, err := ex.Exec(ctx, `
		UPDATE transactions
		SET total_amount = (
			SELECT COALESCE(SUM(subtotal), 0) FROM transaction_items WHERE transaction_id=$1
		), updated_at = NOW()
		WHERE id=$1
	`, transactionID)
	return err
}

func getItems(ctx context.Context, q database.Querier, transactionID string) ([]Item, error) {
	rows, err := q.Query(ctx, `
		SELECT `+itemColumns+`
		FROM transaction_items WHERE transaction_id=$1 ORDER BY created_at
	`, transactionID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var items []Item
	for rows.Next() {
		it, err := scanItem(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, *it)
	}
	return items, rows.Err()
}

func getTransaction(ctx context.Context, q database.Querier, id string) (*Transaction, error) {
	t, err := scanTransaction(q.QueryRow(ctx, `
		SELECT `+txColumns+` FROM transactions WHERE id=$1
	`, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return t, nil
}
