package order

import (
	"fmt"
	"time"

	"github.com/example/freshmart/pkg/store"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type Status string

const (
	StatusPending   Status = "Pending"
	StatusShipped   Status = "Shipped"
	StatusDelivered Status = "Delivered"
	StatusCancelled Status = "Cancelled"
)

func (s Status) Valid() bool {
	switch s {
	case StatusPending, StatusShipped, StatusDelivered, StatusCancelled:
		return true
	}
	return false
}

func (s Status) Emoji() string {
	switch s {
	case StatusPending:
		return "⏳"
	case StatusShipped:
		return "🚚"
	case StatusDelivered:
		return "✅"
	case StatusCancelled:
		return "❌"
	}
	return "📦"
}

// Order is the immutable-once-created record of a completed checkout. Lines
// is a snapshot taken at creation; later cart mutations never reach it.
type Order struct {
	ID           string
	CustomerID   int64
	CustomerName string
	Phone        string
	Address      string
	Lines        store.Cart
	Subtotal     decimal.Decimal
	DeliveryFee  decimal.Decimal
	Total        decimal.Decimal
	Instructions string
	Status       Status
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// NewID generates an order id. The unix-time prefix keeps ids readable and
// roughly sortable; the uuid suffix makes same-second checkouts collision
// free.
func NewID() string {
	return fmt.Sprintf("ORD%d%s", time.Now().Unix(), uuid.NewString()[:8])
}
