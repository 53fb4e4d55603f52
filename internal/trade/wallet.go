package trade

import (
	"context"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"

	"github.com/pasarkita/pasar-backend/internal/account"
	"github.com/pasarkita/pasar-backend/internal/database"
)

// WalletManager adjusts a single user's ledger balance. Both operations
// require the account PIN and record a transaction row of the matching
// type.
type WalletManager interface {
	TopUp(ctx context.Context, userID string, amount decimal.Decimal, pin string) (*Transaction, error)
	Withdraw(ctx context.Context, userID string, amount decimal.Decimal, pin string) (*Transaction, error)
}

type WalletService struct {
	db database.Pool
}

func NewWalletService(db database.Pool) *WalletService { return &WalletService{db: db} }

func (s *WalletService) TopUp(ctx context.Context, userID string, amount decimal.Decimal, pin string) (*Transaction, error) {
	return s.adjust(ctx, userID, amount, pin, TypeDeposit)
}

func (s *WalletService) Withdraw(ctx context.Context, userID string, amount decimal.Decimal, pin string) (*Transaction, error) {
	return s.adjust(ctx, userID, amount, pin, TypeWithdrawal)
}

func (s *WalletService) adjust(ctx context.Context, userID string, amount decimal.Decimal, pin string, kind Type) (*Transaction, error) {
	if userID == "" || pin == "" {
		return nil, ErrMissingFields
	}
	if !amount.IsPositive() {
		return nil, ErrInvalidAmount
	}

	tx, err := s.db.BeginTx(ctx, pgx.TxOptions{IsoLevel: pgx.ReadCommitted})
	if err != nil {
		return nil, err
	}
	defer rollback(ctx, tx)

	locked, err := account.LockBalances(ctx, tx, []string{userID})
	if err != nil {
		return nil, err
	}
	if !account.CheckPin(locked[userID].PinHash, pin) {
		return nil, account.ErrInvalidPin
	}

	if kind == TypeWithdrawal {
		if err := account.Debit(ctx, tx, userID, amount); err != nil {
			return nil, err
		}
	} else {
		if err := account.Credit(ctx, tx, userID, amount); err != nil {
			return nil, err
		}
	}

	entry := &Transaction{
		ID:          uuid.NewString(),
		BuyerID:     userID,
		SellerID:    userID,
		TotalAmount: amount,
		Type:        kind,
		Status:      StatusCompleted,
	}
	if err := insertTransaction(ctx, tx, entry); err != nil {
		return nil, err
	}

	out, err := getTransaction(ctx, tx, entry.ID)
	if err != nil {
		return nil, err
	}
	if err := tx.Commit(ctx); err != nil {
		return nil, err
	}
	return out, nil
}
