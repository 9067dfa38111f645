package bot_test

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/example/freshmart/pkg/bot"
	"github.com/example/freshmart/pkg/catalog"
	"github.com/example/freshmart/pkg/ledger"
	"github.com/example/freshmart/pkg/notify"
	"github.com/example/freshmart/pkg/order"
	"github.com/example/freshmart/pkg/store"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

const (
	customerID = int64(100)
	adminID    = int64(999)
)

type sentMessage struct {
	recipient  int64
	text       string
	replyRows  [][]string
	actionRows [][]notify.Button
}

type fakeNotifier struct {
	sent []sentMessage
}

func (f *fakeNotifier) Send(recipient int64, text string) bool {
	f.sent = append(f.sent, sentMessage{recipient: recipient, text: text})
	return true
}

func (f *fakeNotifier) SendReplyMenu(recipient int64, text string, rows [][]string) bool {
	f.sent = append(f.sent, sentMessage{recipient: recipient, text: text, replyRows: rows})
	return true
}

func (f *fakeNotifier) SendActionMenu(recipient int64, text string, rows [][]notify.Button) bool {
	f.sent = append(f.sent, sentMessage{recipient: recipient, text: text, actionRows: rows})
	return true
}

func (f *fakeNotifier) messagesTo(recipient int64) []sentMessage {
	var out []sentMessage
	for _, m := range f.sent {
		if m.recipient == recipient {
			out = append(out, m)
		}
	}
	return out
}

func (f *fakeNotifier) reset() { f.sent = nil }

type recordingSink struct {
	appendErr error
	rows      []ledger.Row
	updates   []string
}

func (r *recordingSink) AppendOrder(_ context.Context, row ledger.Row) error {
	if r.appendErr != nil {
		return r.appendErr
	}
	r.rows = append(r.rows, row)
	return nil
}

func (r *recordingSink) UpdateStatus(_ context.Context, orderID, status string) error {
	r.updates = append(r.updates, orderID+":"+status)
	return nil
}

type fixture struct {
	engine   *bot.Engine
	notifier *fakeNotifier
	sink     *recordingSink
	tracker  *order.Tracker
	stores   *store.MemoryStore
}

func newFixture() *fixture {
	notifier := &fakeNotifier{}
	sink := &recordingSink{}
	cat := catalog.Default()
	stores := store.NewMemoryStore(cat)
	tracker := order.NewTracker(notifier, sink, zap.NewNop())
	engine := bot.NewEngine(bot.Deps{
		Catalog:       cat,
		Carts:         stores,
		Sessions:      stores,
		Tracker:       tracker,
		Notifier:      notifier,
		Ledger:        sink,
		LedgerEnabled: true,
		AdminChatID:   adminID,
		Logger:        zap.NewNop(),
	})
	return &fixture{engine: engine, notifier: notifier, sink: sink, tracker: tracker, stores: stores}
}

func (f *fixture) text(chatID int64, text string) {
	f.engine.Handle(context.Background(), bot.Event{ChatID: chatID, SenderID: chatID, Text: text})
}

func (f *fixture) action(chatID, senderID int64, a bot.Action) {
	f.engine.Handle(context.Background(), bot.Event{ChatID: chatID, SenderID: senderID, Action: a})
}

// checkout drives the full wizard for the given customer: two apples, one
// milk, then name, phone, address and instructions.
func (f *fixture) checkout(chatID int64, instructions string) *order.Order {
	f.action(chatID, chatID, bot.ActionAddItem{Item: "🍎 Apples"})
	f.action(chatID, chatID, bot.ActionAddItem{Item: "🍎 Apples"})
	f.action(chatID, chatID, bot.ActionAddItem{Item: "🥛 Milk"})
	f.text(chatID, "🚚 Checkout")
	f.text(chatID, "Alice")
	f.text(chatID, "555-1111")
	f.text(chatID, "1 First St")
	f.text(chatID, instructions)

	orders := f.tracker.ListForCustomer(chatID)
	if len(orders) == 0 {
		return nil
	}
	return orders[len(orders)-1]
}

func TestStartShowsMainMenu(t *testing.T) {
	f := newFixture()

	f.text(customerID, "/start")

	messages := f.notifier.messagesTo(customerID)
	require.Len(t, messages, 1)
	assert.Contains(t, messages[0].text, "FreshMart")
	require.NotEmpty(t, messages[0].replyRows)
	assert.Contains(t, messages[0].replyRows[0], "🛍️ Shop Groceries")
}

func TestUnknownTextFallsBackToMainMenu(t *testing.T) {
	f := newFixture()

	f.text(customerID, "why is my order late")

	messages := f.notifier.messagesTo(customerID)
	require.Len(t, messages, 1)
	assert.NotEmpty(t, messages[0].replyRows)
}

func TestCategorySelectionShowsItemButtons(t *testing.T) {
	f := newFixture()

	f.text(customerID, "🥛 Dairy & Eggs")

	messages := f.notifier.messagesTo(customerID)
	require.Len(t, messages, 1)
	rows := messages[0].actionRows
	// One row per item plus the navigation row.
	require.Len(t, rows, 5)
	assert.Equal(t, "add_🥛 Milk", rows[0][0].Token)
	assert.Contains(t, rows[0][0].Label, "$2.99/liter")
	nav := rows[len(rows)-1]
	assert.Equal(t, "back_categories", nav[0].Token)
	assert.Equal(t, "view_cart", nav[1].Token)
}

func TestAddUnknownItem(t *testing.T) {
	f := newFixture()

	f.action(customerID, customerID, bot.ActionAddItem{Item: "🦄 Unicorn Steak"})

	messages := f.notifier.messagesTo(customerID)
	require.Len(t, messages, 1)
	assert.Contains(t, messages[0].text, "Item not found")

	cart, err := f.stores.Cart(context.Background(), customerID)
	require.NoError(t, err)
	assert.Empty(t, cart)
}

func TestViewEmptyCart(t *testing.T) {
	f := newFixture()

	f.text(customerID, "🛒 My Cart")

	messages := f.notifier.messagesTo(customerID)
	require.Len(t, messages, 1)
	assert.Contains(t, messages[0].text, "cart is empty")
}

func TestCartViewShowsTotalsAndUpsell(t *testing.T) {
	f := newFixture()
	f.action(customerID, customerID, bot.ActionAddItem{Item: "🍎 Apples"})
	f.action(customerID, customerID, bot.ActionAddItem{Item: "🍎 Apples"})
	f.action(customerID, customerID, bot.ActionAddItem{Item: "🥛 Milk"})
	f.notifier.reset()

	f.text(customerID, "🛒 My Cart")

	messages := f.notifier.messagesTo(customerID)
	require.Len(t, messages, 1)
	assert.Contains(t, messages[0].text, "$10.97")
	assert.Contains(t, messages[0].text, "$5.00")
	assert.Contains(t, messages[0].text, "$15.97")
	assert.Contains(t, messages[0].text, "FREE delivery")
}

func TestCheckoutWithEmptyCart(t *testing.T) {
	f := newFixture()

	f.text(customerID, "🚚 Checkout")

	messages := f.notifier.messagesTo(customerID)
	require.NotEmpty(t, messages)
	assert.Contains(t, messages[0].text, "cart is empty")
	assert.Empty(t, f.tracker.ListForCustomer(customerID))
}

func TestFullCheckoutWizard(t *testing.T) {
	f := newFixture()

	o := f.checkout(customerID, "Leave at door")
	require.NotNil(t, o)

	assert.Equal(t, order.StatusPending, o.Status)
	assert.Equal(t, "Alice", o.CustomerName)
	assert.Equal(t, "555-1111", o.Phone)
	assert.Equal(t, "1 First St", o.Address)
	assert.Equal(t, "Leave at door", o.Instructions)
	assert.Equal(t, "15.97", o.Total.StringFixed(2))
	assert.Equal(t, 2, o.Lines["🍎 Apples"].Quantity)

	// Exactly one ledger row for the order.
	require.Len(t, f.sink.rows, 1)
	assert.Equal(t, o.ID, f.sink.rows[0].OrderID)
	assert.Equal(t, "Pending", f.sink.rows[0].Status)

	// Customer gets one confirmation mentioning the order id.
	var confirmations int
	for _, m := range f.notifier.messagesTo(customerID) {
		if strings.Contains(m.text, o.ID) {
			confirmations++
		}
	}
	assert.Equal(t, 1, confirmations)

	// Admin alert carries the four fulfillment buttons.
	adminMessages := f.notifier.messagesTo(adminID)
	require.Len(t, adminMessages, 1)
	assert.Contains(t, adminMessages[0].text, o.ID)
	rows := adminMessages[0].actionRows
	require.Len(t, rows, 2)
	assert.Equal(t, "ship_"+o.ID, rows[0][0].Token)
	assert.Equal(t, "cancel_"+o.ID, rows[0][1].Token)
	assert.Equal(t, "deliver_"+o.ID, rows[1][0].Token)
	assert.Equal(t, "details_"+o.ID, rows[1][1].Token)

	// Cart is reset for the next order.
	cart, err := f.stores.Cart(context.Background(), customerID)
	require.NoError(t, err)
	assert.Empty(t, cart)
}

func TestCheckoutInstructionsNoneMeansEmpty(t *testing.T) {
	f := newFixture()

	o := f.checkout(customerID, "None")
	require.NotNil(t, o)
	assert.Empty(t, o.Instructions)
}

func TestLedgerFailureDoesNotBlockCheckout(t *testing.T) {
	f := newFixture()
	f.sink.appendErr = errors.New("sheet unavailable")

	o := f.checkout(customerID, "None")
	require.NotNil(t, o)

	// Admin gets the alert plus a warning about the failed sheet write.
	adminMessages := f.notifier.messagesTo(adminID)
	require.Len(t, adminMessages, 2)
	assert.Contains(t, adminMessages[0].text, "⚠️")
	assert.Contains(t, adminMessages[0].text, o.ID)
	assert.NotEmpty(t, adminMessages[1].actionRows)
}

func TestNonAdminActionsAreRejected(t *testing.T) {
	f := newFixture()
	o := f.checkout(customerID, "None")
	require.NotNil(t, o)
	f.notifier.reset()

	intruder := int64(777)
	f.action(intruder, intruder, bot.ActionShipOrder{OrderID: o.ID})
	f.action(intruder, intruder, bot.ActionCancelOrder{OrderID: o.ID})
	f.action(intruder, intruder, bot.ActionDeliverOrder{OrderID: o.ID})
	f.action(intruder, intruder, bot.ActionOrderDetails{OrderID: o.ID})

	for _, m := range f.notifier.messagesTo(intruder) {
		assert.Equal(t, "❌ Unauthorized access.", m.text)
	}
	assert.Empty(t, f.notifier.messagesTo(customerID))

	stored, ok := f.tracker.Get(o.ID)
	require.True(t, ok)
	assert.Equal(t, order.StatusPending, stored.Status)
}

func TestAdminShipsOrder(t *testing.T) {
	f := newFixture()
	o := f.checkout(customerID, "None")
	require.NotNil(t, o)
	f.notifier.reset()

	f.action(adminID, adminID, bot.ActionShipOrder{OrderID: o.ID})

	adminMessages := f.notifier.messagesTo(adminID)
	require.Len(t, adminMessages, 1)
	assert.Contains(t, adminMessages[0].text, "marked as shipped")

	customerMessages := f.notifier.messagesTo(customerID)
	require.Len(t, customerMessages, 1)
	assert.Contains(t, customerMessages[0].text, "on the way")
	assert.Contains(t, customerMessages[0].text, "$15.97")

	assert.Contains(t, f.sink.updates, o.ID+":Shipped")
}

func TestAdminShipUnknownOrder(t *testing.T) {
	f := newFixture()

	f.action(adminID, adminID, bot.ActionShipOrder{OrderID: "ORD0000missing"})

	messages := f.notifier.messagesTo(adminID)
	require.Len(t, messages, 1)
	assert.Contains(t, messages[0].text, "not found")
}

func TestAdminCancelFlowDeliversReason(t *testing.T) {
	f := newFixture()
	o := f.checkout(customerID, "None")
	require.NotNil(t, o)
	f.notifier.reset()

	f.action(adminID, adminID, bot.ActionCancelOrder{OrderID: o.ID})

	prompts := f.notifier.messagesTo(adminID)
	require.Len(t, prompts, 1)
	assert.Contains(t, prompts[0].text, "reason for cancelling")

	f.text(adminID, "Out of stock")

	customerMessages := f.notifier.messagesTo(customerID)
	require.Len(t, customerMessages, 1)
	assert.Contains(t, customerMessages[0].text, "Out of stock")

	stored, ok := f.tracker.Get(o.ID)
	require.True(t, ok)
	assert.Equal(t, order.StatusCancelled, stored.Status)
}

func TestAdminOrderDetails(t *testing.T) {
	f := newFixture()
	o := f.checkout(customerID, "Ring twice")
	require.NotNil(t, o)
	f.notifier.reset()

	f.action(adminID, adminID, bot.ActionOrderDetails{OrderID: o.ID})

	messages := f.notifier.messagesTo(adminID)
	require.Len(t, messages, 1)
	assert.Contains(t, messages[0].text, o.ID)
	assert.Contains(t, messages[0].text, "Alice")
	assert.Contains(t, messages[0].text, "1 First St")
}

func TestTrackOrders(t *testing.T) {
	f := newFixture()

	f.text(customerID, "📦 Track Order")
	messages := f.notifier.messagesTo(customerID)
	require.Len(t, messages, 1)
	assert.Contains(t, messages[0].text, "don't have any orders")

	o := f.checkout(customerID, "None")
	require.NotNil(t, o)
	f.notifier.reset()

	f.text(customerID, "📦 Track Order")
	messages = f.notifier.messagesTo(customerID)
	require.Len(t, messages, 1)
	assert.Contains(t, messages[0].text, o.ID)
	assert.Contains(t, messages[0].text, "⏳")
}

func TestClearCart(t *testing.T) {
	f := newFixture()
	f.action(customerID, customerID, bot.ActionAddItem{Item: "🍎 Apples"})
	f.notifier.reset()

	f.text(customerID, "🗑️ Clear Cart")

	cart, err := f.stores.Cart(context.Background(), customerID)
	require.NoError(t, err)
	assert.Empty(t, cart)

	messages := f.notifier.messagesTo(customerID)
	require.NotEmpty(t, messages)
	assert.Contains(t, messages[0].text, "cleared")
}

func TestUnknownActionShowsMainMenu(t *testing.T) {
	f := newFixture()

	f.action(customerID, customerID, bot.ActionUnknown{Raw: "bogus"})

	messages := f.notifier.messagesTo(customerID)
	require.Len(t, messages, 1)
	assert.NotEmpty(t, messages[0].replyRows)
}
