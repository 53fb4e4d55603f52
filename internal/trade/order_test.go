package trade

import (
	"context"
	"testing"

	"github.com/jackc/pgx/v5"
	"github.com/pashagolub/pgxmock/v3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pasarkita/pasar-backend/internal/account"
	"github.com/pasarkita/pasar-backend/internal/geo"
)

func TestOrderService_Checkout(t *testing.T) {
	t.Parallel()

	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	mock.ExpectBeginTx(pgx.TxOptions{IsoLevel: pgx.ReadCommitted})
	mock.ExpectQuery("FROM transactions").
		WithArgs("tx-1").
		WillReturnRows(txRows("30000.00", StatusCart, nil, nil))
	mock.ExpectExec("UPDATE transactions SET status").
		WithArgs("tx-1", StatusOrdered, "leave at the gate").
		WillReturnResult(pgxmock.NewResult("UPDATE", 1))
	mock.ExpectQuery("FROM transactions").
		WithArgs("tx-1").
		WillReturnRows(txRows("30000.00", StatusOrdered, nil, nil))
	mock.ExpectCommit()
	mock.ExpectRollback().WillReturnError(pgx.ErrTxClosed)

	svc := NewOrderService(mock)
	out, err := svc.Checkout(context.Background(), "buyer-1", "tx-1", "leave at the gate")

	require.NoError(t, err)
	assert.Equal(t, StatusOrdered, out.Status)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestOrderService_Checkout_WrongBuyer(t *testing.T) {
	t.Parallel()

	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	mock.ExpectBeginTx(pgx.TxOptions{IsoLevel: pgx.ReadCommitted})
	mock.ExpectQuery("FROM transactions").
		WithArgs("tx-1").
		WillReturnRows(txRows("30000.00", StatusCart, nil, nil))
	mock.ExpectRollback()

	svc := NewOrderService(mock)
	_, err = svc.Checkout(context.Background(), "intruder", "tx-1", "")

	assert.ErrorIs(t, err, ErrNotOwner)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestOrderService_UpdateStatus(t *testing.T) {
	t.Parallel()

	t.Run("ordered moves to processed", func(t *testing.T) {
		t.Parallel()
		mock, err := pgxmock.NewPool()
		require.NoError(t, err)
		defer mock.Close()

		mock.ExpectBeginTx(pgx.TxOptions{IsoLevel: pgx.ReadCommitted})
		mock.ExpectQuery("FROM transactions").
			WithArgs("tx-1").
			WillReturnRows(txRows("30000.00", StatusOrdered, nil, nil))
		mock.ExpectExec("UPDATE transactions SET status").
			WithArgs("tx-1", StatusProcessed).
			WillReturnResult(pgxmock.NewResult("UPDATE", 1))
		mock.ExpectQuery("FROM transactions").
			WithArgs("tx-1").
			WillReturnRows(txRows("30000.00", StatusProcessed, nil, nil))
		mock.ExpectCommit()
		mock.ExpectRollback().WillReturnError(pgx.ErrTxClosed)

		svc := NewOrderService(mock)
		out, err := svc.UpdateStatus(context.Background(), "tx-1", StatusProcessed)

		require.NoError(t, err)
		assert.Equal(t, StatusProcessed, out.Status)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("skipping a step is rejected", func(t *testing.T) {
		t.Parallel()
		mock, err := pgxmock.NewPool()
		require.NoError(t, err)
		defer mock.Close()

		mock.ExpectBeginTx(pgx.TxOptions{IsoLevel: pgx.ReadCommitted})
		mock.ExpectQuery("FROM transactions").
			WithArgs("tx-1").
			WillReturnRows(txRows("30000.00", StatusCart, nil, nil))
		mock.ExpectRollback()

		svc := NewOrderService(mock)
		_, err = svc.UpdateStatus(context.Background(), "tx-1", StatusProcessed)

		assert.ErrorIs(t, err, ErrInvalidTransition)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("taken and completed are not reachable here", func(t *testing.T) {
		t.Parallel()
		mock, err := pgxmock.NewPool()
		require.NoError(t, err)
		defer mock.Close()

		svc := NewOrderService(mock)
		for _, to := range []Status{StatusTaken, StatusCompleted, StatusCart} {
			_, err := svc.UpdateStatus(context.Background(), "tx-1", to)
			assert.ErrorIs(t, err, ErrInvalidTransition, string(to))
		}
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestOrderService_AssignDriver(t *testing.T) {
	t.Parallel()

	type testCase struct {
		name      string
		prepareFn func(t *testing.T, mock pgxmock.PgxPoolIface)

		expectedErr error
	}

	tests := []testCase{
		{
			name: "driver takes a processed order",
			prepareFn: func(t *testing.T, mock pgxmock.PgxPoolIface) {
				t.Helper()
				mock.ExpectBeginTx(pgx.TxOptions{IsoLevel: pgx.ReadCommitted})
				mock.ExpectQuery("FROM transactions").
					WithArgs("tx-1").
					WillReturnRows(txRows("30000.00", StatusProcessed, nil, nil))
				mock.ExpectQuery("SELECT role").
					WithArgs("driver-1").
					WillReturnRows(pgxmock.NewRows([]string{"role"}).AddRow(account.RoleDriver))
				mock.ExpectExec("UPDATE transactions SET driver_id").
					WithArgs("tx-1", "driver-1", StatusTaken).
					WillReturnResult(pgxmock.NewResult("UPDATE", 1))
				mock.ExpectQuery("FROM transactions").
					WithArgs("tx-1").
					WillReturnRows(txRows("30000.00", StatusTaken, strPtr("driver-1"), nil))
				mock.ExpectCommit()
				mock.ExpectRollback().WillReturnError(pgx.ErrTxClosed)
			},
		},
		{
			name: "second driver is refused",
			prepareFn: func(t *testing.T, mock pgxmock.PgxPoolIface) {
				t.Helper()
				mock.ExpectBeginTx(pgx.TxOptions{IsoLevel: pgx.ReadCommitted})
				mock.ExpectQuery("FROM transactions").
					WithArgs("tx-1").
					WillReturnRows(txRows("30000.00", StatusTaken, strPtr("other-driver"), nil))
				mock.ExpectRollback()
			},
			expectedErr: ErrDriverAssigned,
		},
		{
			name: "assignee must hold the driver role",
			prepareFn: func(t *testing.T, mock pgxmock.PgxPoolIface) {
				t.Helper()
				mock.ExpectBeginTx(pgx.TxOptions{IsoLevel: pgx.ReadCommitted})
				mock.ExpectQuery("FROM transactions").
					WithArgs("tx-1").
					WillReturnRows(txRows("30000.00", StatusProcessed, nil, nil))
				mock.ExpectQuery("SELECT role").
					WithArgs("driver-1").
					WillReturnRows(pgxmock.NewRows([]string{"role"}).AddRow(account.RoleConsumer))
				mock.ExpectRollback()
			},
			expectedErr: ErrInvalidDriver,
		},
		{
			name: "order must be processed first",
			prepareFn: func(t *testing.T, mock pgxmock.PgxPoolIface) {
				t.Helper()
				mock.ExpectBeginTx(pgx.TxOptions{IsoLevel: pgx.ReadCommitted})
				mock.ExpectQuery("FROM transactions").
					WithArgs("tx-1").
					WillReturnRows(txRows("30000.00", StatusOrdered, nil, nil))
				mock.ExpectRollback()
			},
			expectedErr: ErrInvalidTransition,
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

			svc := NewOrderService(mock)
			out, err := svc.AssignDriver(context.Background(), "tx-1", "driver-1")

			if tt.expectedErr != nil {
				assert.ErrorIs(t, err, tt.expectedErr)
			} else {
				require.NoError(t, err)
				assert.Equal(t, StatusTaken, out.Status)
				require.NotNil(t, out.DriverID)
				assert.Equal(t, "driver-1", *out.DriverID)
			}
			assert.NoError(t, mock.ExpectationsWereMet())
		})
	}
}

func TestOrderService_UpdateDriverLocation(t *testing.T) {
	t.Parallel()

	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	mock.ExpectExec("UPDATE transactions SET driver_location").
		WithArgs("driver-1", "-6.2001,106.8166", StatusTaken).
		WillReturnResult(pgxmock.NewResult("UPDATE", 2))

	svc := NewOrderService(mock)
	n, err := svc.UpdateDriverLocation(context.Background(), "driver-1", "-6.2001,106.8166")

	require.NoError(t, err)
	assert.EqualValues(t, 2, n)
	assert.NoError(t, mock.ExpectationsWereMet())

	_, err = svc.UpdateDriverLocation(context.Background(), "driver-1", "nowhere")
	assert.ErrorIs(t, err, geo.ErrInvalidLocation)
}

func TestOrderService_SetDeliveryLocation(t *testing.T) {
	t.Parallel()

	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	mock.ExpectQuery("FROM transactions").
		WithArgs("tx-1").
		WillReturnRows(txRows("30000.00", StatusOrdered, nil, nil))
	mock.ExpectQuery("SELECT COALESCE").
		WithArgs("seller-1").
		WillReturnRows(pgxmock.NewRows([]string{"location"}).AddRow("-6.2088,106.8456"))
	// same point, so the floor price is stored
	mock.ExpectExec("UPDATE transactions SET buyer_location").
		WithArgs("tx-1", "-6.2088,106.8456", "5000.00").
		WillReturnResult(pgxmock.NewResult("UPDATE", 1))

	svc := NewOrderService(mock)
	out, err := svc.SetDeliveryLocation(context.Background(), "buyer-1", "tx-1", "-6.2088,106.8456")

	require.NoError(t, err)
	require.NotNil(t, out.ShippingCost)
	assert.True(t, out.ShippingCost.Equal(geo.MinShippingCost))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestOrderService_MarkReviewed(t *testing.T) {
	t.Parallel()

	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	mock.ExpectExec("UPDATE transactions SET reviewed").
		WithArgs("tx-1", "buyer-1", StatusCompleted).
		WillReturnResult(pgxmock.NewResult("UPDATE", 1))
	mock.ExpectExec("UPDATE transactions SET reviewed").
		WithArgs("tx-1", "buyer-1", StatusCompleted).
		WillReturnResult(pgxmock.NewResult("UPDATE", 0))

	svc := NewOrderService(mock)
	require.NoError(t, svc.MarkReviewed(context.Background(), "buyer-1", "tx-1"))

	err = svc.MarkReviewed(context.Background(), "buyer-1", "tx-1")
	assert.ErrorIs(t, err, ErrInvalidTransition)
	assert.NoError(t, mock.ExpectationsWereMet())
}
