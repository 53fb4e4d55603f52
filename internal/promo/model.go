package promo

import (
	"time"

	"github.com/shopspring/decimal"
)

type Scheme string

const (
	SchemeDiscount Scheme = "discount"
	SchemeCashback Scheme = "cashback"
	// SchemeNominal is accepted by the CRUD surface but has no settlement
	// behavior yet; applying it is an error rather than a silent no-op.
	SchemeNominal Scheme = "nominal"
)

func ValidScheme(s Scheme) bool {
	switch s {
	case SchemeDiscount, SchemeCashback, SchemeNominal:
		return true
	}
	return false
}

type Promotion struct {
	ID          string  `json:"id"`
	OwnerID     string  `json:"owner_id"`
	ProductID   *string `json:"product_id,omitempty"`
	Scheme      Scheme  `json:"scheme"`
	Description string  `json:"description,omitempty"`
	// Percentage applies to the item subtotal, e.g. 10 means 10%.
	Percentage decimal.Decimal `json:"scheme_percentage"`
	StartDate  *time.Time      `json:"start_date,omitempty"`
	EndDate    *time.Time      `json:"end_date,omitempty"`
	CreatedAt  time.Time       `json:"created_at"`
	UpdatedAt  time.Time       `json:"updated_at"`
}

// ActiveAt reports whether the validity window contains t. Nil bounds are
// open-ended.
func (p *Promotion) ActiveAt(t time.Time) bool {
	if p.StartDate != nil && t.Before(*p.StartDate) {
		return false
	}
	if p.EndDate != nil && t.After(*p.EndDate) {
		return false
	}
	return true
}
