package order

import "fmt"

// statusMessage renders the customer-facing text for a status transition.
// ok is false for statuses that carry no customer notification.
func statusMessage(o *Order, note string) (string, bool) {
	switch o.Status {
	case StatusShipped:
		extra := ""
		if note != "" {
			extra = fmt.Sprintf("\n📝 Note from store: %s\n", note)
		}
		return fmt.Sprintf(`🚚 Order Shipped!

Hi %s,

Your order #%s is on the way!

📦 Delivery Details:
• Order will arrive within 2 hours
• Please have $%s ready for cash payment
• Contact: 555-1234 if any issues
%s
Thank you for choosing FreshMart! 🛒`,
			o.CustomerName, o.ID, o.Total.StringFixed(2), extra), true

	case StatusCancelled:
		reason := note
		if reason == "" {
			reason = "Unable to fulfill order at this time"
		}
		return fmt.Sprintf(`❌ Order Cancelled

Hi %s,

We're sorry to inform you that your order #%s has been cancelled.

📝 Reason: %s

We apologize for the inconvenience.

FreshMart Team 🛒`,
			o.CustomerName, o.ID, reason), true

	case StatusDelivered:
		return fmt.Sprintf(`✅ Order Delivered!

Hi %s,

Your order #%s has been successfully delivered!

Thank you for shopping with FreshMart! 🛒

We hope to serve you again soon! 🌟`,
			o.CustomerName, o.ID), true
	}

	return "", false
}
