package account

import (
	"time"

	"github.com/shopspring/decimal"
)

type Role string

const (
	RoleConsumer Role = "consumer"
	RoleMerchant Role = "merchant"
	RoleAgen     Role = "agen"
	RoleDriver   Role = "driver"
	RoleAdmin    Role = "admin"
)

func ValidRole(r Role) bool {
	switch r {
	case RoleConsumer, RoleMerchant, RoleAgen, RoleDriver, RoleAdmin:
		return true
	}
	return false
}

// NeedsAgen reports whether the role must be attached to a market hub.
func (r Role) NeedsAgen() bool { return r == RoleMerchant || r == RoleDriver }

type User struct {
	ID          string  `json:"id"`
	Username    string  `json:"username"`
	Fullname    string  `json:"fullname"`
	Email       string  `json:"email"`
	Description string  `json:"description,omitempty"`
	PhoneNumber string  `json:"phone_number"`
	AgenID      *string `json:"agen_id,omitempty"`
	Location    string  `json:"location,omitempty"`
	Role        Role    `json:"role"`
	ImageURL    string  `json:"image_url,omitempty"`
	// Balance is the internal ledger amount (NUMERIC in Postgres).
	Balance      decimal.Decimal `json:"balance"`
	PasswordHash string          `json:"-"`
	PinHash      string          `json:"-"`
	CreatedAt    time.Time       `json:"created_at"`
	UpdatedAt    time.Time       `json:"updated_at"`
}
