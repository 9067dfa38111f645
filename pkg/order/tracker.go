package order

import (
	"context"
	"sync"
	"time"

	"github.com/example/freshmart/pkg/ledger"
	"github.com/example/freshmart/pkg/notify"
	"github.com/example/freshmart/pkg/pricing"
	"github.com/example/freshmart/pkg/store"
	"go.uber.org/zap"
)

// Archive is an optional durable copy of each order outside the process.
// Failures never block order handling.
type Archive interface {
	ArchiveOrder(ctx context.Context, o *Order) error
	ArchiveStatus(ctx context.Context, orderID string, status Status) error
}

// AuditLog records order lifecycle events, fire-and-forget.
type AuditLog interface {
	RecordOrderEvent(ctx context.Context, action string, o *Order) error
}

// Tracker owns all order records and their status transitions. State lives
// in process; the ledger, archive and audit collaborators each receive a
// best-effort copy.
type Tracker struct {
	mu     sync.RWMutex
	orders map[string]*Order
	seq    []string

	notifier notify.Notifier
	ledger   ledger.Sink
	archive  Archive
	audit    AuditLog
	logger   *zap.Logger
}

func NewTracker(notifier notify.Notifier, sink ledger.Sink, logger *zap.Logger) *Tracker {
	return &Tracker{
		orders:   make(map[string]*Order),
		notifier: notifier,
		ledger:   sink,
		logger:   logger,
	}
}

func (t *Tracker) SetArchive(a Archive) { t.archive = a }

func (t *Tracker) SetAudit(a AuditLog) { t.audit = a }

// Create stores a new Pending order from a snapshot of the customer's cart.
// The caller's cart object is never retained.
func (t *Tracker) Create(ctx context.Context, customerID int64, name, phone, address string, cart store.Cart, instructions string) *Order {
	subtotal, fee, total := pricing.Totals(cart)
	now := time.Now()
	o := &Order{
		ID:           NewID(),
		CustomerID:   customerID,
		CustomerName: name,
		Phone:        phone,
		Address:      address,
		Lines:        cart.Clone(),
		Subtotal:     subtotal,
		DeliveryFee:  fee,
		Total:        total,
		Instructions: instructions,
		Status:       StatusPending,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	t.mu.Lock()
	t.orders[o.ID] = o
	t.seq = append(t.seq, o.ID)
	t.mu.Unlock()

	if t.archive != nil {
		if err := t.archive.ArchiveOrder(ctx, o); err != nil {
			t.logger.Warn("Order archive failed", zap.String("order_id", o.ID), zap.Error(err))
		}
	}
	if t.audit != nil {
		snapshot := *o
		go t.audit.RecordOrderEvent(context.Background(), "create_order", &snapshot)
	}

	t.logger.Info("Order created",
		zap.String("order_id", o.ID),
		zap.Int64("customer_id", customerID),
		zap.String("total", total.StringFixed(2)))
	return o
}

// UpdateStatus transitions the order, pushes the change to the ledger and
// archive best-effort, and sends the status-specific customer message.
// Returns false when the order id is unknown; no notification is sent in
// that case.
func (t *Tracker) UpdateStatus(ctx context.Context, orderID string, status Status, note string) bool {
	t.mu.Lock()
	o, ok := t.orders[orderID]
	if !ok {
		t.mu.Unlock()
		return false
	}
	oldStatus := o.Status
	o.Status = status
	o.UpdatedAt = time.Now()
	snapshot := *o
	t.mu.Unlock()

	if err := t.ledger.UpdateStatus(ctx, orderID, string(status)); err != nil {
		t.logger.Warn("Ledger status update failed",
			zap.String("order_id", orderID), zap.Error(err))
	}
	if t.archive != nil {
		if err := t.archive.ArchiveStatus(ctx, orderID, status); err != nil {
			t.logger.Warn("Archive status update failed",
				zap.String("order_id", orderID), zap.Error(err))
		}
	}
	if t.audit != nil {
		go t.audit.RecordOrderEvent(context.Background(), "update_status", &snapshot)
	}

	if text, ok := statusMessage(&snapshot, note); ok {
		t.notifier.Send(snapshot.CustomerID, text)
	}

	t.logger.Info("Order status updated",
		zap.String("order_id", orderID),
		zap.String("from", string(oldStatus)),
		zap.String("to", string(status)))
	return true
}

func (t *Tracker) Get(orderID string) (*Order, bool) {
	t.mu.RLock()
	defer t.mu.RUnlock()
	o, ok := t.orders[orderID]
	if !ok {
		return nil, false
	}
	snapshot := *o
	return &snapshot, true
}

// ListForCustomer returns the customer's orders in creation order, most
// recent last.
func (t *Tracker) ListForCustomer(customerID int64) []*Order {
	t.mu.RLock()
	defer t.mu.RUnlock()
	var out []*Order
	for _, id := range t.seq {
		o := t.orders[id]
		if o.CustomerID == customerID {
			snapshot := *o
			out = append(out, &snapshot)
		}
	}
	return out
}

// All returns every order in creation order.
func (t *Tracker) All() []*Order {
	t.mu.RLock()
	defer t.mu.RUnlock()
	out := make([]*Order, 0, len(t.seq))
	for _, id := range t.seq {
		snapshot := *t.orders[id]
		out = append(out, &snapshot)
	}
	return out
}
