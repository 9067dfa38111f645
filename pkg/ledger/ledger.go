// Package ledger writes order rows to an external tabular record store.
// Every call is best-effort, one attempt, no retry; the caller logs failures
// and moves on.
package ledger

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
)

// Row is the fixed-column order record.
type Row struct {
	Date         time.Time
	CustomerID   int64
	Name         string
	Phone        string
	Address      string
	Items        []string
	Quantities   []string
	Subtotal     decimal.Decimal
	DeliveryFee  decimal.Decimal
	Total        decimal.Decimal
	Status       string
	Instructions string
	Payment      string
	Source       string
	OrderID      string
}

type Sink interface {
	AppendOrder(ctx context.Context, row Row) error
	// UpdateStatus locates the row for orderID and rewrites its status
	// column.
	UpdateStatus(ctx context.Context, orderID, status string) error
}

// Disabled is the sink used when no record store is configured. Core
// behavior is identical, orders just stay in-process only.
type Disabled struct{}

func (Disabled) AppendOrder(context.Context, Row) error { return nil }

func (Disabled) UpdateStatus(context.Context, string, string) error { return nil }
