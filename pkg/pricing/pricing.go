// Package pricing is the single home of the order pricing rule. Every place
// a total is shown (cart view, checkout summary, confirmation, ledger row)
// goes through Totals so the numbers cannot drift apart.
package pricing

import (
	"github.com/example/freshmart/pkg/store"
	"github.com/shopspring/decimal"
)

var (
	// FreeDeliveryThreshold is the subtotal at which delivery becomes free.
	FreeDeliveryThreshold = decimal.NewFromInt(50)
	// DeliveryFee applies below the threshold.
	DeliveryFee = decimal.NewFromInt(5)
)

// Subtotal sums price × quantity across the cart.
func Subtotal(cart store.Cart) decimal.Decimal {
	subtotal := decimal.Zero
	for _, line := range cart {
		subtotal = subtotal.Add(line.Price.Mul(decimal.NewFromInt(int64(line.Quantity))))
	}
	return subtotal
}

// Totals returns subtotal, delivery fee and total for the cart.
func Totals(cart store.Cart) (subtotal, fee, total decimal.Decimal) {
	subtotal = Subtotal(cart)
	fee = DeliveryFee
	if subtotal.GreaterThanOrEqual(FreeDeliveryThreshold) {
		fee = decimal.Zero
	}
	return subtotal, fee, subtotal.Add(fee)
}

// AmountToFreeDelivery returns how much more must be added to reach free
// delivery, or zero when already there.
func AmountToFreeDelivery(subtotal decimal.Decimal) decimal.Decimal {
	if subtotal.GreaterThanOrEqual(FreeDeliveryThreshold) {
		return decimal.Zero
	}
	return FreeDeliveryThreshold.Sub(subtotal)
}
