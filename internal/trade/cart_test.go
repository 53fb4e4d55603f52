package trade

import (
	"context"
	"testing"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/pashagolub/pgxmock/v3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pasarkita/pasar-backend/internal/catalog"
)

var testTime = time.Date(2025, 6, 1, 10, 0, 0, 0, time.UTC)

func txRows(total string, status Status, driverID *string, shipping *string) *pgxmock.Rows {
	return pgxmock.NewRows([]string{
		"id", "buyer_id", "seller_id", "driver_id", "total_amount",
		"shipping_cost", "buyer_location", "driver_location", "type", "status",
		"description", "reviewed", "created_at", "updated_at",
	}).AddRow("tx-1", "buyer-1", "seller-1", driverID, total,
		shipping, (*string)(nil), (*string)(nil), TypeTransfer, status,
		"", false, testTime, testTime)
}

func itemRows(items ...[]any) *pgxmock.Rows {
	rows := pgxmock.NewRows([]string{
		"id", "transaction_id", "product_id", "quantity", "subtotal", "created_at", "updated_at",
	})
	for _, it := range items {
		rows.AddRow(it...)
	}
	return rows
}

func TestCartService_AddToCart(t *testing.T) {
	t.Parallel()

	type testCase struct {
		name      string
		buyerID   string
		productID string
		qty       int

		prepareFn func(t *testing.T, mock pgxmock.PgxPoolIface)

		expectedErr error
	}

	tests := []testCase{
		{
			name:      "first add creates the draft",
			buyerID:   "buyer-1",
			productID: "prod-1",
			qty:       2,
			prepareFn: func(t *testing.T, mock pgxmock.PgxPoolIface) {
				t.Helper()
				mock.ExpectBeginTx(pgx.TxOptions{IsoLevel: pgx.ReadCommitted})
				mock.ExpectQuery("SELECT id, seller_id, price").
					WithArgs("prod-1").
					WillReturnRows(pgxmock.NewRows([]string{"id", "seller_id", "price", "stock", "active"}).
						AddRow("prod-1", "seller-1", "15000.00", 10, true))
				mock.ExpectExec("UPDATE products SET stock = stock -").
					WithArgs(2, "prod-1").
					WillReturnResult(pgxmock.NewResult("UPDATE", 1))
				// no existing draft toward this seller
				mock.ExpectQuery("FROM transactions").
					WithArgs("buyer-1", "seller-1", StatusCart).
					WillReturnError(pgx.ErrNoRows)
				mock.ExpectExec("INSERT INTO transactions").
					WithArgs(pgxmock.AnyArg(), "buyer-1", "seller-1", pgxmock.AnyArg(),
						"0.00", TypeTransfer, StatusCart, "").
					WillReturnResult(pgxmock.NewResult("INSERT", 1))
				// no existing line for the product
				mock.ExpectQuery("FROM transaction_items").
					WithArgs(pgxmock.AnyArg(), "prod-1").
					WillReturnError(pgx.ErrNoRows)
				mock.ExpectExec("INSERT INTO transaction_items").
					WithArgs(pgxmock.AnyArg(), pgxmock.AnyArg(), "prod-1", 2, "30000.00").
					WillReturnResult(pgxmock.NewResult("INSERT", 1))
				mock.ExpectExec("UPDATE transactions").
					WithArgs(pgxmock.AnyArg()).
					WillReturnResult(pgxmock.NewResult("UPDATE", 1))
				mock.ExpectQuery("FROM transactions").
					WithArgs(pgxmock.AnyArg()).
					WillReturnRows(txRows("30000.00", StatusCart, nil, nil))
				mock.ExpectQuery("FROM transaction_items").
					WithArgs(pgxmock.AnyArg()).
					WillReturnRows(itemRows([]any{"item-1", "tx-1", "prod-1", 2, "30000.00", testTime, testTime}))
				mock.ExpectCommit()
				mock.ExpectRollback().WillReturnError(pgx.ErrTxClosed)
			},
		},
		{
			name:      "repeated add merges the line",
			buyerID:   "buyer-1",
			productID: "prod-1",
			qty:       1,
			prepareFn: func(t *testing.T, mock pgxmock.PgxPoolIface) {
				t.Helper()
				mock.ExpectBeginTx(pgx.TxOptions{IsoLevel: pgx.ReadCommitted})
				mock.ExpectQuery("SELECT id, seller_id, price").
					WithArgs("prod-1").
					WillReturnRows(pgxmock.NewRows([]string{"id", "seller_id", "price", "stock", "active"}).
						AddRow("prod-1", "seller-1", "15000.00", 8, true))
				mock.ExpectExec("UPDATE products SET stock = stock -").
					WithArgs(1, "prod-1").
					WillReturnResult(pgxmock.NewResult("UPDATE", 1))
				mock.ExpectQuery("FROM transactions").
					WithArgs("buyer-1", "seller-1", StatusCart).
					WillReturnRows(txRows("30000.00", StatusCart, nil, nil))
				mock.ExpectQuery("FROM transaction_items").
					WithArgs("tx-1", "prod-1").
					WillReturnRows(itemRows([]any{"item-1", "tx-1", "prod-1", 2, "30000.00", testTime, testTime}))
				mock.ExpectExec("UPDATE transaction_items").
					WithArgs("item-1", 3, "45000.00").
					WillReturnResult(pgxmock.NewResult("UPDATE", 1))
				mock.ExpectExec("UPDATE transactions").
					WithArgs("tx-1").
					WillReturnResult(pgxmock.NewResult("UPDATE", 1))
				mock.ExpectQuery("FROM transactions").
					WithArgs("tx-1").
					WillReturnRows(txRows("45000.00", StatusCart, nil, nil))
				mock.ExpectQuery("FROM transaction_items").
					WithArgs("tx-1").
					WillReturnRows(itemRows([]any{"item-1", "tx-1", "prod-1", 3, "45000.00", testTime, testTime}))
				mock.ExpectCommit()
				mock.ExpectRollback().WillReturnError(pgx.ErrTxClosed)
			},
		},
		{
			name:      "insufficient stock rolls back",
			buyerID:   "buyer-1",
			productID: "prod-1",
			qty:       20,
			prepareFn: func(t *testing.T, mock pgxmock.PgxPoolIface) {
				t.Helper()
				mock.ExpectBeginTx(pgx.TxOptions{IsoLevel: pgx.ReadCommitted})
				mock.ExpectQuery("SELECT id, seller_id, price").
					WithArgs("prod-1").
					WillReturnRows(pgxmock.NewRows([]string{"id", "seller_id", "price", "stock", "active"}).
						AddRow("prod-1", "seller-1", "15000.00", 10, true))
				mock.ExpectExec("UPDATE products SET stock = stock -").
					WithArgs(20, "prod-1").
					WillReturnResult(pgxmock.NewResult("UPDATE", 0))
				mock.ExpectRollback()
			},
			expectedErr: catalog.ErrInsufficientStock,
		},
		{
			name:      "inactive product is invisible",
			buyerID:   "buyer-1",
			productID: "prod-1",
			qty:       1,
			prepareFn: func(t *testing.T, mock pgxmock.PgxPoolIface) {
				t.Helper()
				mock.ExpectBeginTx(pgx.TxOptions{IsoLevel: pgx.ReadCommitted})
				mock.ExpectQuery("SELECT id, seller_id, price").
					WithArgs("prod-1").
					WillReturnRows(pgxmock.NewRows([]string{"id", "seller_id", "price", "stock", "active"}).
						AddRow("prod-1", "seller-1", "15000.00", 10, false))
				mock.ExpectRollback()
			},
			expectedErr: catalog.ErrNotFound,
		},
		{
			name:      "zero quantity is rejected before any query",
			buyerID:   "buyer-1",
			productID: "prod-1",
			qty:       0,
			prepareFn: func(t *testing.T, mock pgxmock.PgxPoolIface) {
				t.Helper()
			},
			expectedErr: ErrInvalidQuantity,
		},
	}

	for _, tc := range tests {
		tt := tc
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			mock, err := pgxmock.NewPool()
			require.NoError(t, err)
			defer mock.Close()

			tt.prepareFn(t, mock)

			svc := NewCartService(mock)
			snap, err := svc.AddToCart(context.Background(), tt.buyerID, tt.productID, tt.qty)

			if tt.expectedErr != nil {
				assert.ErrorIs(t, err, tt.expectedErr)
			} else {
				require.NoError(t, err)
				require.NotNil(t, snap)
				assert.Len(t, snap.Items, 1)
			}
			assert.NoError(t, mock.ExpectationsWereMet())
		})
	}
}

func TestCartService_RemoveFromCart(t *testing.T) {
	t.Parallel()

	type testCase struct {
		name      string
		prepareFn func(t *testing.T, mock pgxmock.PgxPoolIface)

		expectedErr error
	}

	lockedItem := func() *pgxmock.Rows {
		return itemRows([]any{"item-1", "tx-1", "prod-1", 2, "30000.00", testTime, testTime})
	}

	tests := []testCase{
		{
			name: "removing the last item deletes the draft",
			prepareFn: func(t *testing.T, mock pgxmock.PgxPoolIface) {
				t.Helper()
				mock.ExpectBeginTx(pgx.TxOptions{IsoLevel: pgx.ReadCommitted})
				mock.ExpectQuery("FROM transaction_items").
					WithArgs("buyer-1", "prod-1", StatusCart).
					WillReturnRows(lockedItem())
				mock.ExpectExec("UPDATE products SET stock = stock \\+").
					WithArgs(2, "prod-1").
					WillReturnResult(pgxmock.NewResult("UPDATE", 1))
				mock.ExpectExec("DELETE FROM transaction_items").
					WithArgs("item-1").
					WillReturnResult(pgxmock.NewResult("DELETE", 1))
				mock.ExpectQuery("SELECT COUNT").
					WithArgs("tx-1").
					WillReturnRows(pgxmock.NewRows([]string{"count"}).AddRow(0))
				mock.ExpectExec("DELETE FROM transactions").
					WithArgs("tx-1").
					WillReturnResult(pgxmock.NewResult("DELETE", 1))
				mock.ExpectCommit()
				mock.ExpectRollback().WillReturnError(pgx.ErrTxClosed)
			},
		},
		{
			name: "removing one of several recomputes the total",
			prepareFn: func(t *testing.T, mock pgxmock.PgxPoolIface) {
				t.Helper()
				mock.ExpectBeginTx(pgx.TxOptions{IsoLevel: pgx.ReadCommitted})
				mock.ExpectQuery("FROM transaction_items").
					WithArgs("buyer-1", "prod-1", StatusCart).
					WillReturnRows(lockedItem())
				mock.ExpectExec("UPDATE products SET stock = stock \\+").
					WithArgs(2, "prod-1").
					WillReturnResult(pgxmock.NewResult("UPDATE", 1))
				mock.ExpectExec("DELETE FROM transaction_items").
					WithArgs("item-1").
					WillReturnResult(pgxmock.NewResult("DELETE", 1))
				mock.ExpectQuery("SELECT COUNT").
					WithArgs("tx-1").
					WillReturnRows(pgxmock.NewRows([]string{"count"}).AddRow(1))
				mock.ExpectExec("UPDATE transactions").
					WithArgs("tx-1").
					WillReturnResult(pgxmock.NewResult("UPDATE", 1))
				mock.ExpectCommit()
				mock.ExpectRollback().WillReturnError(pgx.ErrTxClosed)
			},
		},
		{
			name: "unknown product",
			prepareFn: func(t *testing.T, mock pgxmock.PgxPoolIface) {
				t.Helper()
				mock.ExpectBeginTx(pgx.TxOptions{IsoLevel: pgx.ReadCommitted})
				mock.ExpectQuery("FROM transaction_items").
					WithArgs("buyer-1", "prod-1", StatusCart).
					WillReturnError(pgx.ErrNoRows)
				mock.ExpectRollback()
			},
			expectedErr: ErrItemNotFound,
		},
	}

	for _, tc := range tests {
		tt := tc
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			mock, err := pgxmock.NewPool()
			require.NoError(t, err)
			defer mock.Close()

			tt.prepareFn(t, mock)

			svc := NewCartService(mock)
			err = svc.RemoveFromCart(context.Background(), "buyer-1", "prod-1")

			if tt.expectedErr != nil {
				assert.ErrorIs(t, err, tt.expectedErr)
			} else {
				assert.NoError(t, err)
			}
			assert.NoError(t, mock.ExpectationsWereMet())
		})
	}
}

func TestCartService_UpdateQuantity(t *testing.T) {
	t.Parallel()

	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	mock.ExpectBeginTx(pgx.TxOptions{IsoLevel: pgx.ReadCommitted})
	mock.ExpectQuery("FROM transaction_items").
		WithArgs("item-1", "buyer-1", StatusCart).
		WillReturnRows(itemRows([]any{"item-1", "tx-1", "prod-1", 2, "30000.00", testTime, testTime}))
	mock.ExpectQuery("SELECT id, seller_id, price").
		WithArgs("prod-1").
		WillReturnRows(pgxmock.NewRows([]string{"id", "seller_id", "price", "stock", "active"}).
			AddRow("prod-1", "seller-1", "15000.00", 8, true))
	// raising 2 -> 5 reserves the 3 extra units
	mock.ExpectExec("UPDATE products SET stock = stock -").
		WithArgs(3, "prod-1").
		WillReturnResult(pgxmock.NewResult("UPDATE", 1))
	mock.ExpectExec("UPDATE transaction_items").
		WithArgs("item-1", 5, "75000.00").
		WillReturnResult(pgxmock.NewResult("UPDATE", 1))
	mock.ExpectExec("UPDATE transactions").
		WithArgs("tx-1").
		WillReturnResult(pgxmock.NewResult("UPDATE", 1))
	mock.ExpectQuery("FROM transactions").
		WithArgs("tx-1").
		WillReturnRows(txRows("75000.00", StatusCart, nil, nil))
	mock.ExpectQuery("FROM transaction_items").
		WithArgs("tx-1").
		WillReturnRows(itemRows([]any{"item-1", "tx-1", "prod-1", 5, "75000.00", testTime, testTime}))
	mock.ExpectCommit()
	mock.ExpectRollback().WillReturnError(pgx.ErrTxClosed)

	svc := NewCartService(mock)
	snap, err := svc.UpdateQuantity(context.Background(), "buyer-1", "item-1", 5)

	require.NoError(t, err)
	assert.Equal(t, 5, snap.Items[0].Quantity)
	assert.Equal(t, 5, snap.Stock)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCartService_UpdateQuantity_ReleasesStock(t *testing.T) {
	t.Parallel()

	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	mock.ExpectBeginTx(pgx.TxOptions{IsoLevel: pgx.ReadCommitted})
	mock.ExpectQuery("FROM transaction_items").
		WithArgs("item-1", "buyer-1", StatusCart).
		WillReturnRows(itemRows([]any{"item-1", "tx-1", "prod-1", 5, "75000.00", testTime, testTime}))
	mock.ExpectQuery("SELECT id, seller_id, price").
		WithArgs("prod-1").
		WillReturnRows(pgxmock.NewRows([]string{"id", "seller_id", "price", "stock", "active"}).
			AddRow("prod-1", "seller-1", "15000.00", 5, true))
	// lowering 5 -> 2 puts the 3 units back
	mock.ExpectExec("UPDATE products SET stock = stock \\+").
		WithArgs(3, "prod-1").
		WillReturnResult(pgxmock.NewResult("UPDATE", 1))
	mock.ExpectExec("UPDATE transaction_items").
		WithArgs("item-1", 2, "30000.00").
		WillReturnResult(pgxmock.NewResult("UPDATE", 1))
	mock.ExpectExec("UPDATE transactions").
		WithArgs("tx-1").
		WillReturnResult(pgxmock.NewResult("UPDATE", 1))
	mock.ExpectQuery("FROM transactions").
		WithArgs("tx-1").
		WillReturnRows(txRows("30000.00", StatusCart, nil, nil))
	mock.ExpectQuery("FROM transaction_items").
		WithArgs("tx-1").
		WillReturnRows(itemRows([]any{"item-1", "tx-1", "prod-1", 2, "30000.00", testTime, testTime}))
	mock.ExpectCommit()
	mock.ExpectRollback().WillReturnError(pgx.ErrTxClosed)

	svc := NewCartService(mock)
	snap, err := svc.UpdateQuantity(context.Background(), "buyer-1", "item-1", 2)

	require.NoError(t, err)
	assert.Equal(t, 2, snap.Items[0].Quantity)
	assert.Equal(t, 8, snap.Stock)
	assert.NoError(t, mock.ExpectationsWereMet())
}
