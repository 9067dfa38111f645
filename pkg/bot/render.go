package bot

import (
	"fmt"
	"sort"
	"strings"

	"github.com/example/freshmart/pkg/ledger"
	"github.com/example/freshmart/pkg/order"
	"github.com/example/freshmart/pkg/pricing"
	"github.com/example/freshmart/pkg/store"
	"github.com/shopspring/decimal"
)

const timeLayout = "2006-01-02 15:04:05"

const welcomeText = `🛒 Welcome to FreshMart Grocery Delivery! 🛒

🌟 <b>Fresh Groceries Delivered to Your Doorstep!</b> 🌟

🚚 Free Delivery on orders over $50
⏰ Delivery Hours: 7 AM - 10 PM Daily
💰 Payment: Cash on Delivery Only
📦 Real-time Order Tracking
📊 Automatic Order Logging

<b>What would you like to do?</b>`

const contactText = `📞 FreshMart Contact Info:

🏪 Store: FreshMart Grocery
📞 Phone: 555-1234
📍 Address: 123 Main Street
⏰ Hours: 7 AM - 10 PM Daily`

func storeInfoText(ledgerEnabled bool) string {
	loggingLine := "📊 Order tracking enabled"
	if ledgerEnabled {
		loggingLine = "📊 Orders automatically logged to Google Sheets"
	}
	return fmt.Sprintf(`🏪 FreshMart Grocery

🌟 Your trusted local grocery store!

🚚 Free delivery on orders over $50
💰 Cash on delivery only
⏰ Fast 2-hour delivery
🥦 Fresh produce daily
📞 Call: 555-1234

%s`, loggingLine)
}

// sortedLines returns cart lines in a stable display order.
func sortedLines(cart store.Cart) []store.Line {
	lines := make([]store.Line, 0, len(cart))
	for _, line := range cart {
		lines = append(lines, line)
	}
	sort.Slice(lines, func(i, j int) bool { return lines[i].Item < lines[j].Item })
	return lines
}

func itemLines(cart store.Cart) string {
	var b strings.Builder
	for _, line := range sortedLines(cart) {
		lineTotal := line.Price.Mul(decimal.NewFromInt(int64(line.Quantity)))
		fmt.Fprintf(&b, "• %s\n", line.Item)
		fmt.Fprintf(&b, "  $%s/%s × %d = $%s\n", line.Price.String(), line.Unit, line.Quantity, lineTotal.StringFixed(2))
	}
	return b.String()
}

func cartViewText(cart store.Cart) string {
	subtotal, fee, total := pricing.Totals(cart)

	var b strings.Builder
	b.WriteString("🛒 Your Shopping Cart\n\n")
	b.WriteString(itemLines(cart))
	fmt.Fprintf(&b, "\n💵 Subtotal: $%s", subtotal.StringFixed(2))
	fmt.Fprintf(&b, "\n🚚 Delivery: $%s", fee.StringFixed(2))
	fmt.Fprintf(&b, "\n💰 Total: $%s", total.StringFixed(2))

	if remaining := pricing.AmountToFreeDelivery(subtotal); remaining.IsPositive() {
		fmt.Fprintf(&b, "\n\n🎯 Add $%s more for FREE delivery!", remaining.StringFixed(2))
	} else {
		b.WriteString("\n\n✅ You qualify for FREE delivery!")
	}
	return b.String()
}

func orderSummaryText(o *order.Order) string {
	var b strings.Builder
	b.WriteString("🛒 ORDER SUMMARY\n\n")
	b.WriteString("👤 Customer Details:\n")
	fmt.Fprintf(&b, "Name: %s\n", o.CustomerName)
	fmt.Fprintf(&b, "Phone: %s\n", o.Phone)
	fmt.Fprintf(&b, "Address: %s\n\n", o.Address)
	b.WriteString("📦 Order Items:\n")
	b.WriteString(itemLines(o.Lines))
	b.WriteString("\n💵 Pricing:\n")
	fmt.Fprintf(&b, "Subtotal: $%s\n", o.Subtotal.StringFixed(2))
	fmt.Fprintf(&b, "Delivery Fee: $%s\n", o.DeliveryFee.StringFixed(2))
	if o.DeliveryFee.IsZero() {
		b.WriteString("🎉 FREE DELIVERY (Order > $50)\n")
	} else {
		fmt.Fprintf(&b, "🎯 Add $%s more for FREE delivery!\n", pricing.AmountToFreeDelivery(o.Subtotal).StringFixed(2))
	}
	fmt.Fprintf(&b, "💰 TOTAL: $%s\n\n", o.Total.StringFixed(2))
	instructions := o.Instructions
	if instructions == "" {
		instructions = "None"
	}
	fmt.Fprintf(&b, "📝 Special Instructions: %s\n\n", instructions)
	b.WriteString("⏰ Expected Delivery: Within 2 hours\n")
	fmt.Fprintf(&b, "🕐 Order Time: %s", o.CreatedAt.Format(timeLayout))
	return b.String()
}

func confirmationText(o *order.Order) string {
	return fmt.Sprintf(`✅ Order Confirmed! 🎉

Thank you %s!

%s

📦 Order ID: #%s
💵 Payment: Cash on Delivery
💸 Please have $%s ready for our delivery driver.

We'll notify you when your order ships! 🚚

We're preparing your fresh groceries! 🥦`,
		o.CustomerName, orderSummaryText(o), o.ID, o.Total.StringFixed(2))
}

func adminOrderSummaryText(o *order.Order) string {
	var b strings.Builder
	fmt.Fprintf(&b, "👤 Customer: %s\n", o.CustomerName)
	fmt.Fprintf(&b, "📞 Phone: %s\n", o.Phone)
	fmt.Fprintf(&b, "📍 Address: %s\n\n", o.Address)
	b.WriteString("📦 Order Items:\n")
	for _, line := range sortedLines(o.Lines) {
		fmt.Fprintf(&b, "• %s - %d %s\n", line.Item, line.Quantity, line.Unit)
	}
	fmt.Fprintf(&b, "\n💰 Total: $%s", o.Total.StringFixed(2))
	return b.String()
}

func adminAlertText(o *order.Order) string {
	return fmt.Sprintf(`🆕 NEW ORDER #%s

%s

⏰ Order Time: %s
📊 Status: %s

Choose action:`,
		o.ID, adminOrderSummaryText(o), o.CreatedAt.Format(timeLayout), o.Status)
}

func orderDetailsText(o *order.Order) string {
	var b strings.Builder
	fmt.Fprintf(&b, "📋 Order Details #%s\n\n", o.ID)
	fmt.Fprintf(&b, "Customer: %s\n", o.CustomerName)
	fmt.Fprintf(&b, "Phone: %s\n", o.Phone)
	fmt.Fprintf(&b, "Address: %s\n", o.Address)
	fmt.Fprintf(&b, "Status: %s\n", o.Status)
	fmt.Fprintf(&b, "Total: $%s\n", o.Total.StringFixed(2))
	fmt.Fprintf(&b, "Created: %s\n", o.CreatedAt.Format(timeLayout))
	fmt.Fprintf(&b, "Updated: %s\n\n", o.UpdatedAt.Format(timeLayout))
	b.WriteString("Items:")
	for _, line := range sortedLines(o.Lines) {
		fmt.Fprintf(&b, "\n• %s - %d %s", line.Item, line.Quantity, line.Unit)
	}
	return b.String()
}

func trackOrdersText(orders []*order.Order) string {
	// Most recent 5 only.
	if len(orders) > 5 {
		orders = orders[len(orders)-5:]
	}
	var b strings.Builder
	b.WriteString("📦 Your Orders:\n\n")
	for _, o := range orders {
		fmt.Fprintf(&b, "%s Order #%s\n", o.Status.Emoji(), o.ID)
		fmt.Fprintf(&b, "Status: %s\n", o.Status)
		fmt.Fprintf(&b, "Total: $%s\n", o.Total.StringFixed(2))
		fmt.Fprintf(&b, "Date: %s\n\n", o.CreatedAt.Format(timeLayout))
	}
	return b.String()
}

// ledgerRow flattens an order into the fixed-column record-store row.
func ledgerRow(o *order.Order) ledger.Row {
	var items, quantities []string
	for _, line := range sortedLines(o.Lines) {
		items = append(items, line.Item)
		quantities = append(quantities, fmt.Sprintf("%d %s", line.Quantity, line.Unit))
	}
	return ledger.Row{
		Date:         o.CreatedAt,
		CustomerID:   o.CustomerID,
		Name:         o.CustomerName,
		Phone:        o.Phone,
		Address:      o.Address,
		Items:        items,
		Quantities:   quantities,
		Subtotal:     o.Subtotal,
		DeliveryFee:  o.DeliveryFee,
		Total:        o.Total,
		Status:       string(o.Status),
		Instructions: o.Instructions,
		Payment:      "Cash on Delivery",
		Source:       "Telegram Bot",
		OrderID:      o.ID,
	}
}
