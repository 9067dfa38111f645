package pricing_test

import (
	"testing"

	"github.com/example/freshmart/pkg/pricing"
	"github.com/example/freshmart/pkg/store"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func line(name, price, unit string, qty int) store.Line {
	return store.Line{
		Item:     name,
		Price:    decimal.RequireFromString(price),
		Unit:     unit,
		Quantity: qty,
	}
}

func TestTotalsBelowFreeDeliveryThreshold(t *testing.T) {
	cart := store.Cart{
		"Apples": line("Apples", "3.99", "kg", 2),
		"Milk":   line("Milk", "2.99", "liter", 1),
	}

	subtotal, fee, total := pricing.Totals(cart)

	assert.Equal(t, "10.97", subtotal.StringFixed(2))
	assert.Equal(t, "5.00", fee.StringFixed(2))
	assert.Equal(t, "15.97", total.StringFixed(2))
}

func TestTotalsFreeDelivery(t *testing.T) {
	cart := store.Cart{
		"Beef Steak": line("Beef Steak", "26.00", "kg", 2),
	}

	subtotal, fee, total := pricing.Totals(cart)

	assert.Equal(t, "52.00", subtotal.StringFixed(2))
	assert.True(t, fee.IsZero())
	assert.Equal(t, "52.00", total.StringFixed(2))
}

func TestTotalsAtExactThreshold(t *testing.T) {
	cart := store.Cart{
		"Cheese": line("Cheese", "25.00", "block", 2),
	}

	subtotal, fee, total := pricing.Totals(cart)

	assert.Equal(t, "50.00", subtotal.StringFixed(2))
	assert.True(t, fee.IsZero())
	assert.Equal(t, "50.00", total.StringFixed(2))
}

func TestTotalsEmptyCart(t *testing.T) {
	subtotal, fee, total := pricing.Totals(store.Cart{})

	assert.True(t, subtotal.IsZero())
	assert.Equal(t, "5.00", fee.StringFixed(2))
	assert.Equal(t, "5.00", total.StringFixed(2))
}

func TestAmountToFreeDelivery(t *testing.T) {
	assert.Equal(t, "39.03",
		pricing.AmountToFreeDelivery(decimal.RequireFromString("10.97")).StringFixed(2))
	assert.True(t,
		pricing.AmountToFreeDelivery(decimal.RequireFromString("52.00")).IsZero())
}
