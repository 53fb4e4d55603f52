package trade

import (
	"context"

	"github.com/jackc/pgx/v5"

	"github.com/pasarkita/pasar-backend/internal/account"
	"github.com/pasarkita/pasar-backend/internal/database"
	"github.com/pasarkita/pasar-backend/internal/geo"
)

// OrderManager drives a transaction through the status pipeline once it has
// left the cart.
type OrderManager interface {
	Checkout(ctx context.Context, buyerID, transactionID, description string) (*Transaction, error)
	UpdateStatus(ctx context.Context, transactionID string, to Status) (*Transaction, error)
	AssignDriver(ctx context.Context, transactionID, driverID string) (*Transaction, error)
	UpdateDriverLocation(ctx context.Context, driverID, location string) (int64, error)
	SetDeliveryLocation(ctx context.Context, buyerID, transactionID, location string) (*Transaction, error)
	MarkReviewed(ctx context.Context, buyerID, transactionID string) error
}

type OrderService struct {
	db database.Pool
}

func NewOrderService(db database.Pool) *OrderService { return &OrderService{db: db} }

// Checkout confirms a draft cart, moving it to ordered.
func (s *OrderService) Checkout(ctx context.Context, buyerID, transactionID, description string) (*Transaction, error) {
	if buyerID == "" || transactionID == "" {
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
	if !t.Status.CanTransition(StatusOrdered) {
		return nil, ErrInvalidTransition
	}

	if _, err := tx.Exec(ctx, `
		UPDATE transactions SET status=$2, description=$3, updated_at=NOW() WHERE id=$1
	`, t.ID, StatusOrdered, description); err != nil {
		return nil, err
	}

	out, err := getTransaction(ctx, tx, t.ID)
	if err != nil {
		return nil, err
	}
	if err := tx.Commit(ctx); err != nil {
		return nil, err
	}
	return out, nil
}

// UpdateStatus advances an order one step along the pipeline. The taken and
// completed states are not reachable here: taken requires a driver
// assignment and completed requires settlement.
func (s *OrderService) UpdateStatus(ctx context.Context, transactionID string, to Status) (*Transaction, error) {
	if transactionID == "" {
		return nil, ErrMissingFields
	}
	if to == StatusTaken || to == StatusCompleted || to == StatusCart {
		return nil, ErrInvalidTransition
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
	if !t.Status.CanTransition(to) {
		return nil, ErrInvalidTransition
	}

	if _, err := tx.Exec(ctx, `
		UPDATE transactions SET status=$2, updated_at=NOW() WHERE id=$1
	`, t.ID, to); err != nil {
		return nil, err
	}

	out, err := getTransaction(ctx, tx, t.ID)
	if err != nil {
		return nil, err
	}
	if err := tx.Commit(ctx); err != nil {
		return nil, err
	}
	return out, nil
}

// AssignDriver attaches a driver to a processed order and moves it to
// taken. Assignment is once-only.
func (s *OrderService) AssignDriver(ctx context.Context, transactionID, driverID string) (*Transaction, error) {
	if transactionID == "" || driverID == "" {
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
	if t.DriverID != nil {
		return nil, ErrDriverAssigned
	}
	if !t.Status.CanTransition(StatusTaken) {
		return nil, ErrInvalidTransition
	}

	role, err := account.GetRole(ctx, tx, driverID)
	if err != nil {
		return nil, err
	}
	if role != account.RoleDriver {
		return nil, ErrInvalidDriver
	}

	if _, err := tx.Exec(ctx, `
		UPDATE transactions SET driver_id=$2, status=$3, updated_at=NOW() WHERE id=$1
	`, t.ID, driverID, StatusTaken); err != nil {
		return nil, err
	}

	out, err := getTransaction(ctx, tx, t.ID)
	if err != nil {
		return nil, err
	}
	if err := tx.Commit(ctx); err != nil {
		return nil, err
	}
	return out, nil
}

// UpdateDriverLocation broadcasts a driver's position to every transaction
// the driver currently has in taken status, returning how many were touched.
func (s *OrderService) UpdateDriverLocation(ctx context.Context, driverID, location string) (int64, error) {
	if driverID == "" {
		return 0, ErrMissingFields
	}
	if _, err := geo.ParsePoint(location); err != nil {
		return 0, err
	}

	tag, err := s.db.Exec(ctx, `
		UPDATE transactions SET driver_location=$2, updated_at=NOW()
		WHERE driver_id=$1 AND status=$3
	`, driverID, location, StatusTaken)
	if err != nil {
		return 0, err
	}
	return tag.RowsAffected(), nil
}

// SetDeliveryLocation stores the buyer's delivery point and the shipping
// cost computed from the geodesic distance to the seller.
func (s *OrderService) SetDeliveryLocation(ctx context.Context, buyerID, transactionID, location string) (*Transaction, error) {
	if buyerID == "" || transactionID == "" {
		return nil, ErrMissingFields
	}

	t, err := getTransaction(ctx, s.db, transactionID)
	if err != nil {
		return nil, err
	}
	if t.BuyerID != buyerID {
		return nil, ErrNotOwner
	}
	if t.Status == StatusCompleted {
		return nil, ErrInvalidTransition
	}

	sellerLoc, err := account.GetLocation(ctx, s.db, t.SellerID)
	if err != nil {
		return nil, err
	}
	cost, err := geo.ShippingCost(location, sellerLoc)
	if err != nil {
		return nil, err
	}

	if _, err := s.db.Exec(ctx, `
		UPDATE transactions SET buyer_location=$2, shipping_cost=$3, updated_at=NOW()
		WHERE id=$1
	`, t.ID, location, cost.StringFixed(2)); err != nil {
		return nil, err
	}

	t.BuyerLocation = &location
	t.ShippingCost = &cost
	return t, nil
}

// MarkReviewed tags a completed order as reviewed. The review content lives
// with an external collaborator; only the flag is tracked here.
func (s *OrderService) MarkReviewed(ctx context.Context, buyerID, transactionID string) error {
	if buyerID == "" || transactionID == "" {
		return ErrMissingFields
	}

	tag, err := s.db.Exec(ctx, `
		UPDATE transactions SET reviewed=true, updated_at=NOW()
		WHERE id=$1 AND buyer_id=$2 AND status=$3
	`, transactionID, buyerID, StatusCompleted)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrInvalidTransition
	}
	return nil
}
