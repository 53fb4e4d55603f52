package trade

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"

	"github.com/pasarkita/pasar-backend/internal/account"
	"github.com/pasarkita/pasar-backend/internal/database"
	"github.com/pasarkita/pasar-backend/internal/promo"
)

// SettlementResult reports what one completed settlement moved.
type SettlementResult struct {
	Transaction Transaction     `json:"transaction"`
	Cashback    decimal.Decimal `json:"cashback"`
}

// Settler reconciles the buyer, seller and driver balances when an order
// completes.
type Settler interface {
	Settle(ctx context.Context, buyerID, transactionID, pin string) (*SettlementResult, error)
}

type SettlementService struct {
	db database.Pool
}

func NewSettlementService(db database.Pool) *SettlementService {
	return &SettlementService{db: db}
}

// Settle moves a taken order to completed. Within one transaction it
// reapplies the active promotions to every line item, verifies the buyer's
// PIN, debits the buyer with total plus shipping, credits the seller with
// the promotion-adjusted total, credits the driver with the shipping cost
// and credits the buyer with the accumulated cashback. Any failure leaves
// the order in taken with nothing moved.
func (s *SettlementService) Settle(ctx context.Context, buyerID, transactionID, pin string) (*SettlementResult, error) {
	if buyerID == "" || transactionID == "" || pin == "" {
		return nil, ErrMissingFields
	}

	tx, err := s.db.BeginTx(ctx, pgx.TxOptions{IsoLevel: pgx.ReadCommitted})
	if err != nil {
		return nil, err
	}
	defer rollback(ctx, tx)

	t, err := lockTransaction(ctx, tx, transactionID)
	if err != nil {
		return nil, err
	}
	if t.BuyerID != buyerID {
		return nil, ErrNotOwner
	}
	if !t.Status.CanTransition(StatusCompleted) {
		return nil, ErrInvalidTransition
	}

	items, err := getItems(ctx, tx, t.ID)
	if err != nil {
		return nil, err
	}

	total := decimal.Zero
	cashback := decimal.Zero
	now := time.Now().UTC()
	for _, it := range items {
		subtotal := it.Subtotal
		p, err := promo.ResolveActive(ctx, tx, it.ProductID, now)
		if err != nil {
			return nil, err
		}
		if p != nil {
			adjusted, cb, err := promo.Apply(subtotal, p)
			if err != nil {
				return nil, err
			}
			if !adjusted.Equal(subtotal) {
				if err := updateItem(ctx, tx, it.ID, it.Quantity, adjusted); err != nil {
					return nil, err
				}
				subtotal = adjusted
			}
			cashback = cashback.Add(cb)
		}
		total = total.Add(subtotal)
	}

	if err := recomputeTotal(ctx, tx, t.ID); err != nil {
		return nil, err
	}

	shipping := decimal.Zero
	if t.ShippingCost != nil {
		shipping = *t.ShippingCost
	}

	parties := []string{t.BuyerID, t.SellerID}
	if t.DriverID != nil {
		parties = append(parties, *t.DriverID)
	}
	locked, err := account.LockBalances(ctx, tx, parties)
	if err != nil {
		return nil, err
	}

	if !account.CheckPin(locked[t.BuyerID].PinHash, pin) {
		return nil, account.ErrInvalidPin
	}

	if err := account.Debit(ctx, tx, t.BuyerID, total.Add(shipping)); err != nil {
		return nil, err
	}
	if err := account.Credit(ctx, tx, t.SellerID, total); err != nil {
		return nil, err
	}
	if t.DriverID != nil && shipping.IsPositive() {
		if err := account.Credit(ctx, tx, *t.DriverID, shipping); err != nil {
			return nil, err
		}
	}
	if cashback.IsPositive() {
		if err := account.Credit(ctx, tx, t.BuyerID, cashback); err != nil {
			return nil, err
		}
	}

	if _, err := tx.Exec(ctx, `
		UPDATE transactions SET status=$2, updated_at=NOW() WHERE id=$1
	`, t.ID, StatusCompleted); err != nil {
		return nil, err
	}

	out, err := getTransaction(ctx, tx, t.ID)
	if err != nil {
		return nil, err
	}
	if err := tx.Commit(ctx); err != nil {
		return nil, err
	}
	return &SettlementResult{Transaction: *out, Cashback: cashback}, nil
}
