package trade

import (
	"time"

	"github.com/shopspring/decimal"
)

// Status is the closed set of transaction states. A transaction starts life
// as a draft cart and moves strictly forward through the pipeline; there is
// no cancelled state, an emptied cart is deleted instead.
type Status string

const (
	StatusCart      Status = "cart"
	StatusOrdered   Status = "ordered"
	StatusProcessed Status = "processed"
	StatusTaken     Status = "taken"
	StatusCompleted Status = "completed"
)

// transitions is the explicit table of allowed moves. Anything absent is
// rejected, replacing the free-form status writes of earlier designs.
var transitions = map[Status]Status{
	StatusCart:      StatusOrdered,
	StatusOrdered:   StatusProcessed,
	StatusProcessed: StatusTaken,
	StatusTaken:     StatusCompleted,
}

func (s Status) CanTransition(to Status) bool { return transitions[s] == to }

func ParseStatus(s string) (Status, bool) {
	switch Status(s) {
	case StatusCart, StatusOrdered, StatusProcessed, StatusTaken, StatusCompleted:
		return Status(s), true
	}
	return "", false
}

// Type distinguishes cart orders from ledger adjustments on the same table.
type Type string

const (
	TypeTransfer   Type = "transfer"
	TypeDeposit    Type = "deposit"
	TypeWithdrawal Type = "withdrawal"
)

type Transaction struct {
	ID       string  `json:"id"`
	BuyerID  string  `json:"buyer_id"`
	SellerID string  `json:"seller_id"`
	DriverID *string `json:"driver_id,omitempty"`
	// TotalAmount is the sum of item subtotals, net of promotions once
	// settled.
	TotalAmount    decimal.Decimal  `json:"total_amount"`
	ShippingCost   *decimal.Decimal `json:"shipping_cost,omitempty"`
	BuyerLocation  *string          `json:"buyer_location,omitempty"`
	DriverLocation *string          `json:"driver_location,omitempty"`
	Type           Type             `json:"type"`
	Status         Status           `json:"status"`
	Description    string           `json:"description,omitempty"`
	Reviewed       bool             `json:"reviewed"`
	CreatedAt      time.Time        `json:"created_at"`
	UpdatedAt      time.Time        `json:"updated_at"`
}

type Item struct {
	ID            string          `json:"id"`
	TransactionID string          `json:"transaction_id"`
	ProductID     string          `json:"product_id"`
	Quantity      int             `json:"quantity"`
	Subtotal      decimal.Decimal `json:"subtotal"`
	CreatedAt     time.Time       `json:"created_at"`
	UpdatedAt     time.Time       `json:"updated_at"`
}

// CartSnapshot is returned by cart mutations: the draft transaction, its
// items, and the product stock left after the mutation.
type CartSnapshot struct {
	Transaction Transaction `json:"transaction"`
	Items       []Item      `json:"items"`
	Stock       int         `json:"stock"`
}
