package trade

import (
	"context"
	"errors"
	"log"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"

	"github.com/pasarkita/pasar-backend/internal/catalog"
	"github.com/pasarkita/pasar-backend/internal/database"
)

// CartManager maintains the per-(buyer, seller) draft transaction. A draft
// is created on the first add and deleted when its last item is removed.
type CartManager interface {
	AddToCart(ctx context.Context, buyerID, productID string, qty int) (*CartSnapshot, error)
	RemoveFromCart(ctx context.Context, buyerID, productID string) error
	UpdateQuantity(ctx context.Context, buyerID, itemID string, qty int) (*CartSnapshot, error)
}

type CartService struct {
	db database.Pool
}

func NewCartService(db database.Pool) *CartService { return &CartService{db: db} }

func rollback(ctx context.Context, tx pgx.Tx) {
	if err := tx.Rollback(ctx); err != nil && !errors.Is(err, pgx.ErrTxClosed) {
		log.Printf("[trade] rollback failed: %v", err)
	}
}

func (s *CartService) AddToCart(ctx context.Context, buyerID, productID string, qty int) (*CartSnapshot, error) {
	if buyerID == "" || productID == "" {
		return nil, ErrMissingFields
	}
	if qty <= 0 {
		return nil, ErrInvalidQuantity
	}

	tx, err := s.db.BeginTx(ctx, pgx.TxOptions{IsoLevel: pgx.ReadCommitted})
	if err != nil {
		return nil, err
	}
	defer rollback(ctx, tx)

	p, err := catalog.LockProduct(ctx, tx, productID)
	if err != nil {
		return nil, err
	}
	if !p.Active {
		return nil, catalog.ErrNotFound
	}

	if err := catalog.ReserveStock(ctx, tx, p.ID, qty); err != nil {
		return nil, err
	}

	draft, err := lockDraft(ctx, tx, buyerID, p.SellerID)
	if err != nil {
		return nil, err
	}
	if draft == nil {
		draft = &Transaction{
			ID:          uuid.NewString(),
			BuyerID:     buyerID,
			SellerID:    p.SellerID,
			TotalAmount: decimal.Zero,
			Type:        TypeTransfer,
			Status:      StatusCart,
		}
		if err := insertTransaction(ctx, tx, draft); err != nil {
			return nil, err
		}
	}

	// Adding the same product again merges into the existing line.
	line := p.Price.Mul(decimal.NewFromInt(int64(qty)))
	item, err := findDraftItem(ctx, tx, draft.ID, p.ID)
	if err != nil {
		return nil, err
	}
	if item != nil {
		if err := updateItem(ctx, tx, item.ID, item.Quantity+qty, item.Subtotal.Add(line)); err != nil {
			return nil, err
		}
	} else {
		item = &Item{
			ID:            uuid.NewString(),
			TransactionID: draft.ID,
			ProductID:     p.ID,
			Quantity:      qty,
			Subtotal:      line,
		}
		if err := insertItem(ctx, tx, item); err != nil {
			return nil, err
		}
	}

	if err := recomputeTotal(ctx, tx, draft.ID); err != nil {
		return nil, err
	}

	snap, err := snapshot(ctx, tx, draft.ID, p.Stock-qty)
	if err != nil {
		return nil, err
	}
	if err := tx.Commit(ctx); err != nil {
		return nil, err
	}
	return snap, nil
}

func (s *CartService) RemoveFromCart(ctx context.Context, buyerID, productID string) error {
	if buyerID == "" || productID == "" {
		return ErrMissingFields
	}

	tx, err := s.db.BeginTx(ctx, pgx.TxOptions{IsoLevel: pgx.ReadCommitted})
	if err != nil {
		return err
	}
	defer rollback(ctx, tx)

	item, err := lockItemByProduct(ctx, tx, buyerID, productID)
	if err != nil {
		return err
	}

	if err := catalog.ReleaseStock(ctx, tx, item.ProductID, item.Quantity); err != nil {
		return err
	}
	if err := deleteItem(ctx, tx, item.ID); err != nil {
		return err
	}

	remaining, err := countItems(ctx, tx, item.TransactionID)
	if err != nil {
		return err
	}
	if remaining == 0 {
		if err := deleteTransaction(ctx, tx, item.TransactionID); err != nil {
			return err
		}
	} else if err := recomputeTotal(ctx, tx, item.TransactionID); err != nil {
		return err
	}

	return tx.Commit(ctx)
}

func (s *CartService) UpdateQuantity(ctx context.Context, buyerID, itemID string, qty int) (*CartSnapshot, error) {
	if buyerID == "" || itemID == "" {
		return nil, ErrMissingFields
	}
	if qty <= 0 {
		return nil, ErrInvalidQuantity
	}

	tx, err := s.db.BeginTx(ctx, pgx.TxOptions{IsoLevel: pgx.ReadCommitted})
	if err != nil {
		return nil, err
	}
	defer rollback(ctx, tx)

	item, err := lockItemForBuyer(ctx, tx, itemID, buyerID)
	if err != nil {
		return nil, err
	}
	p, err := catalog.LockProduct(ctx, tx, item.ProductID)
	if err != nil {
		return nil, err
	}

	delta := qty - item.Quantity
	if err := catalog.AdjustStock(ctx, tx, p.ID, delta); err != nil {
		return nil, err
	}

	subtotal := p.Price.Mul(decimal.NewFromInt(int64(qty)))
	if err := updateItem(ctx, tx, item.ID, qty, subtotal); err != nil {
		return nil, err
	}
	if err := recomputeTotal(ctx, tx, item.TransactionID); err != nil {
		return nil, err
	}

	snap, err := snapshot(ctx, tx, item.TransactionID, p.Stock-delta)
	if err != nil {
		return nil, err
	}
	if err := tx.Commit(ctx); err != nil {
		return nil, err
	}
	return snap, nil
}

func snapshot(ctx context.Context, q database.Querier, transactionID string, stock int) (*CartSnapshot, error) {
	t, err := getTransaction(ctx, q, transactionID)
	if err != nil {
		return nil, err
	}
	items, err := getItems(ctx, q, transactionID)
	if err != nil {
		return nil, err
	}
	return &CartSnapshot{Transaction: *t, Items: items, Stock: stock}, nil
}
