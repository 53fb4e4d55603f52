package promo

import (
	"errors"

	"github.com/shopspring/decimal"
)

var ErrUnsupportedScheme = errors.New("unsupported promotion scheme")

var hundred = decimal.NewFromInt(100)

// Apply applies a promotion to an item subtotal at settlement time. A
// discount reduces the subtotal; a cashback leaves the subtotal intact and
// returns the amount to credit back to the buyer.
func Apply(subtotal decimal.Decimal, p *Promotion) (adjusted, cashback decimal.Decimal, err error) {
	cut := subtotal.Mul(p.Percentage).Div(hundred).Round(2)
	switch p.Scheme {
	case SchemeDiscount:
		return subtotal.Sub(cut), decimal.Zero, nil
	case SchemeCashback:
		return subtotal, cut, nil
	default:
		return subtotal, decimal.Zero, ErrUnsupportedScheme
	}
}
