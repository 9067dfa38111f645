package store

import (
	"context"
	"errors"

	"github.com/shopspring/decimal"
)

// ErrItemNotFound is returned when an item is absent from every catalog
// category.
var ErrItemNotFound = errors.New("item not found in catalog")

// Line is one cart entry. Price and unit are frozen copies of the catalog
// values at the time the item was first added.
type Line struct {
	Item     string          `json:"item"`
	Price    decimal.Decimal `json:"price"`
	Unit     string          `json:"unit"`
	Quantity int             `json:"quantity"`
}

// Cart maps item name to its line. Lines are values, so a returned cart is
// already safe to hand out.
type Cart map[string]Line

// Clone returns an independent copy of the cart.
func (c Cart) Clone() Cart {
	out := make(Cart, len(c))
	for name, line := range c {
		out[name] = line
	}
	return out
}

// Step enumerates the dialogue positions a customer (or the admin) can be in.
// Exactly one step is active per chat at a time.
type Step int

const (
	StepMainMenu Step = iota
	StepBrowsingCategory
	StepAwaitingName
	StepAwaitingPhone
	StepAwaitingAddress
	StepAwaitingInstructions
	StepAwaitingCancelReason
)

// Session is the per-chat dialogue state plus the fields accumulated so far
// by the active step.
type Session struct {
	Step     Step   `json:"step"`
	Category string `json:"category,omitempty"`
	Name     string `json:"name,omitempty"`
	Phone    string `json:"phone,omitempty"`
	Address  string `json:"address,omitempty"`
	OrderID  string `json:"order_id,omitempty"`
}

// CartStore holds per-customer carts.
type CartStore interface {
	// AddItem looks the item up in the catalog, increments its quantity if
	// already carted, and otherwise inserts a new line with a price/unit
	// snapshot. Returns the resulting line.
	AddItem(ctx context.Context, customerID int64, itemName string) (Line, error)
	Cart(ctx context.Context, customerID int64) (Cart, error)
	// ClearCart empties the cart. Idempotent.
	ClearCart(ctx context.Context, customerID int64) error
}

// SessionStore holds per-chat dialogue sessions. Unknown chats are at the
// main menu.
type SessionStore interface {
	Session(ctx context.Context, customerID int64) (Session, error)
	SetSession(ctx context.Context, customerID int64, s Session) error
}
