package bot

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/example/freshmart/pkg/catalog"
	"github.com/example/freshmart/pkg/ledger"
	"github.com/example/freshmart/pkg/notify"
	"github.com/example/freshmart/pkg/order"
	"github.com/example/freshmart/pkg/store"
	"go.uber.org/zap"
)

// Deps are the collaborators of the dialogue engine.
type Deps struct {
	Catalog       *catalog.Catalog
	Carts         store.CartStore
	Sessions      store.SessionStore
	Tracker       *order.Tracker
	Notifier      notify.Notifier
	Ledger        ledger.Sink
	LedgerEnabled bool
	AdminChatID   int64
	Logger        *zap.Logger
}

// Engine interprets one inbound event against the chat's current session
// state. All cart/session/order mutation flows through here, strictly one
// event at a time.
type Engine struct {
	catalog       *catalog.Catalog
	carts         store.CartStore
	sessions      store.SessionStore
	tracker       *order.Tracker
	notifier      notify.Notifier
	ledger        ledger.Sink
	ledgerEnabled bool
	adminChatID   int64
	logger        *zap.Logger
}

func NewEngine(d Deps) *Engine {
	return &Engine{
		catalog:       d.Catalog,
		carts:         d.Carts,
		sessions:      d.Sessions,
		tracker:       d.Tracker,
		notifier:      d.Notifier,
		ledger:        d.Ledger,
		ledgerEnabled: d.LedgerEnabled,
		adminChatID:   d.AdminChatID,
		logger:        d.Logger,
	}
}

// Handle dispatches one event. A panic in any handler is contained here:
// the chat gets a generic apology and is returned to the main menu, and the
// event loop keeps running.
func (e *Engine) Handle(ctx context.Context, ev Event) {
	defer func() {
		if r := recover(); r != nil {
			e.logger.Error("Panic while handling event",
				zap.Any("panic", r),
				zap.Int64("chat_id", ev.ChatID),
				zap.Stack("stack"))
			e.notifier.Send(ev.ChatID, "❌ Sorry, an error occurred. Please try again.")
			e.showMainMenu(ctx, ev.ChatID)
		}
	}()

	if ev.Action != nil {
		e.handleAction(ctx, ev)
		return
	}
	e.handleText(ctx, ev)
}

func (e *Engine) handleText(ctx context.Context, ev Event) {
	text := strings.TrimSpace(ev.Text)

	// Global commands and menu labels win over any session state.
	switch text {
	case "/start", "🔙 Main Menu":
		e.showMainMenu(ctx, ev.ChatID)
		return
	case "🛍️ Shop Groceries", "🛍️ Start Shopping", "📋 Continue Shopping", "➕ Add More Items":
		e.showCategories(ev.ChatID)
		return
	case "🛒 My Cart", "🛒 View Cart":
		e.showCart(ctx, ev.ChatID)
		return
	case "📦 Track Order":
		e.showOrders(ev.ChatID)
		return
	case "🗑️ Clear Cart":
		e.clearCart(ctx, ev.ChatID)
		return
	case "🚚 Checkout", "🚚 Checkout Now":
		e.startCheckout(ctx, ev.ChatID)
		return
	case "📞 Contact Store":
		e.notifier.Send(ev.ChatID, contactText)
		return
	case "ℹ️ Store Info":
		e.notifier.Send(ev.ChatID, storeInfoText(e.ledgerEnabled))
		return
	}

	if _, ok := e.catalog.Category(text); ok {
		e.showCategoryItems(ctx, ev.ChatID, text)
		return
	}

	// Nothing matched directly; the current session step decides.
	sess := e.session(ctx, ev.ChatID)
	switch sess.Step {
	case store.StepAwaitingName:
		e.collectName(ctx, ev.ChatID, text)
	case store.StepAwaitingPhone:
		e.collectPhone(ctx, ev.ChatID, sess, text)
	case store.StepAwaitingAddress:
		e.collectAddress(ctx, ev.ChatID, sess, text)
	case store.StepAwaitingInstructions:
		e.finalizeOrder(ctx, ev.ChatID, sess, text)
	case store.StepAwaitingCancelReason:
		e.finishCancellation(ctx, ev.ChatID, sess, text)
	default:
		// Deliberate catch-all, not an error.
		e.showMainMenu(ctx, ev.ChatID)
	}
}

func (e *Engine) handleAction(ctx context.Context, ev Event) {
	switch a := ev.Action.(type) {
	case ActionAddItem:
		e.addToCart(ctx, ev.ChatID, a.Item)
	case ActionViewCart:
		e.showCart(ctx, ev.ChatID)
	case ActionBackToCategories:
		e.showCategories(ev.ChatID)
	case ActionShipOrder:
		if !e.authorizeAdmin(ev) {
			return
		}
		if e.tracker.UpdateStatus(ctx, a.OrderID, order.StatusShipped, "Your order is on the way!") {
			e.notifier.Send(ev.ChatID, fmt.Sprintf("✅ Order #%s marked as shipped! Customer notified.", a.OrderID))
		} else {
			e.notifier.Send(ev.ChatID, fmt.Sprintf("❌ Order #%s not found.", a.OrderID))
		}
	case ActionCancelOrder:
		if !e.authorizeAdmin(ev) {
			return
		}
		e.setSession(ctx, ev.ChatID, store.Session{Step: store.StepAwaitingCancelReason, OrderID: a.OrderID})
		e.notifier.Send(ev.ChatID, fmt.Sprintf("📝 Please provide reason for cancelling order #%s:", a.OrderID))
	case ActionDeliverOrder:
		if !e.authorizeAdmin(ev) {
			return
		}
		if e.tracker.UpdateStatus(ctx, a.OrderID, order.StatusDelivered, "") {
			e.notifier.Send(ev.ChatID, fmt.Sprintf("✅ Order #%s marked as delivered! Customer notified.", a.OrderID))
		} else {
			e.notifier.Send(ev.ChatID, fmt.Sprintf("❌ Order #%s not found.", a.OrderID))
		}
	case ActionOrderDetails:
		if !e.authorizeAdmin(ev) {
			return
		}
		if o, ok := e.tracker.Get(a.OrderID); ok {
			e.notifier.Send(ev.ChatID, orderDetailsText(o))
		} else {
			e.notifier.Send(ev.ChatID, fmt.Sprintf("❌ Order #%s not found.", a.OrderID))
		}
	case ActionUnknown:
		e.logger.Warn("Unknown action token", zap.String("token", a.Raw), zap.Int64("chat_id", ev.ChatID))
		e.showMainMenu(ctx, ev.ChatID)
	}
}

// authorizeAdmin checks the sender against the configured admin id. Denied
// senders get a notice and no state changes.
func (e *Engine) authorizeAdmin(ev Event) bool {
	if e.adminChatID == 0 || ev.SenderID != e.adminChatID {
		e.notifier.Send(ev.ChatID, "❌ Unauthorized access.")
		return false
	}
	return true
}

func (e *Engine) showMainMenu(ctx context.Context, chatID int64) {
	rows := [][]string{
		{"🛍️ Shop Groceries", "🛒 My Cart"},
		{"📦 Track Order", "📞 Contact Store"},
		{"ℹ️ Store Info"},
	}
	e.notifier.SendReplyMenu(chatID, welcomeText, rows)
	e.setSession(ctx, chatID, store.Session{Step: store.StepMainMenu})
}

func (e *Engine) showCategories(chatID int64) {
	names := e.catalog.CategoryNames()
	var rows [][]string
	for i := 0; i < len(names); i += 2 {
		rows = append(rows, names[i:min(i+2, len(names))])
	}
	if n := len(rows); n > 0 && len(rows[n-1]) == 1 {
		rows[n-1] = append(rows[n-1], "🔙 Main Menu")
	} else {
		rows = append(rows, []string{"🔙 Main Menu"})
	}
	e.notifier.SendReplyMenu(chatID, "📋 Grocery Categories\n\nChoose a category to start shopping:", rows)
}

func (e *Engine) showCategoryItems(ctx context.Context, chatID int64, name string) {
	category, ok := e.catalog.Category(name)
	if !ok {
		e.notifier.Send(chatID, "Category not found. Please choose from the menu.")
		return
	}

	var rows [][]notify.Button
	for _, item := range category.Items {
		rows = append(rows, []notify.Button{{
			Label: fmt.Sprintf("%s - $%s/%s", item.Name, item.Price.String(), item.Unit),
			Token: ActionAddItem{Item: item.Name}.Token(),
		}})
	}
	rows = append(rows, []notify.Button{
		{Label: "🔙 Back to Categories", Token: ActionBackToCategories{}.Token()},
		{Label: "🛒 View Cart", Token: ActionViewCart{}.Token()},
	})

	e.notifier.SendActionMenu(chatID, fmt.Sprintf("%s\n\nSelect an item to add to cart:", name), rows)
	e.setSession(ctx, chatID, store.Session{Step: store.StepBrowsingCategory, Category: name})
}

func (e *Engine) addToCart(ctx context.Context, chatID int64, itemName string) {
	line, err := e.carts.AddItem(ctx, chatID, itemName)
	if errors.Is(err, store.ErrItemNotFound) {
		e.notifier.Send(chatID, "Item not found. Please select from the menu.")
		return
	}
	if err != nil {
		e.logger.Error("Failed to add item to cart", zap.Int64("chat_id", chatID), zap.Error(err))
		e.notifier.Send(chatID, "❌ Sorry, an error occurred. Please try again.")
		return
	}

	text := fmt.Sprintf("✅ Added to Cart!\n\n%s\n$%s/%s\n\nWhat would you like to do next?",
		line.Item, line.Price.String(), line.Unit)
	rows := [][]string{
		{"🛒 View Cart", "📋 Continue Shopping"},
		{"🚚 Checkout", "🔙 Main Menu"},
	}
	e.notifier.SendReplyMenu(chatID, text, rows)
}

func (e *Engine) showCart(ctx context.Context, chatID int64) {
	cart := e.cart(ctx, chatID)
	if len(cart) == 0 {
		rows := [][]string{{"🛍️ Start Shopping", "🔙 Main Menu"}}
		e.notifier.SendReplyMenu(chatID, "🛒 Your cart is empty!\n\nStart shopping to add some delicious groceries! 🥦", rows)
		return
	}

	rows := [][]string{
		{"➕ Add More Items", "🗑️ Clear Cart"},
		{"🚚 Checkout Now", "📋 Continue Shopping"},
		{"🔙 Main Menu"},
	}
	e.notifier.SendReplyMenu(chatID, cartViewText(cart), rows)
}

func (e *Engine) clearCart(ctx context.Context, chatID int64) {
	if err := e.carts.ClearCart(ctx, chatID); err != nil {
		e.logger.Error("Failed to clear cart", zap.Int64("chat_id", chatID), zap.Error(err))
	}
	e.notifier.Send(chatID, "🛒 Your cart has been cleared!")
	e.showCategories(chatID)
}

func (e *Engine) showOrders(chatID int64) {
	orders := e.tracker.ListForCustomer(chatID)
	if len(orders) == 0 {
		e.notifier.Send(chatID, "📦 You don't have any orders yet. Start shopping! 🛍️")
		return
	}
	e.notifier.Send(chatID, trackOrdersText(orders))
}

func (e *Engine) startCheckout(ctx context.Context, chatID int64) {
	if len(e.cart(ctx, chatID)) == 0 {
		e.notifier.Send(chatID, "Your cart is empty! Please add items first.")
		e.showCategories(chatID)
		return
	}
	e.notifier.Send(chatID, "🚚 Let's get your order delivered!\n\nPlease provide your full name:")
	e.setSession(ctx, chatID, store.Session{Step: store.StepAwaitingName})
}

func (e *Engine) collectName(ctx context.Context, chatID int64, text string) {
	if text == "" {
		e.notifier.Send(chatID, "Please provide your full name:")
		return
	}
	e.setSession(ctx, chatID, store.Session{Step: store.StepAwaitingPhone, Name: text})
	e.notifier.Send(chatID, fmt.Sprintf("👋 Thanks %s! Now please provide your phone number for delivery updates:", text))
}

func (e *Engine) collectPhone(ctx context.Context, chatID int64, sess store.Session, text string) {
	if text == "" {
		e.notifier.Send(chatID, "Please provide your phone number:")
		return
	}
	sess.Step = store.StepAwaitingAddress
	sess.Phone = text
	e.setSession(ctx, chatID, sess)
	e.notifier.Send(chatID, "📦 Great! Now please provide your delivery address:")
}

func (e *Engine) collectAddress(ctx context.Context, chatID int64, sess store.Session, text string) {
	if text == "" {
		e.notifier.Send(chatID, "Please provide your delivery address:")
		return
	}
	sess.Step = store.StepAwaitingInstructions
	sess.Address = text
	e.setSession(ctx, chatID, sess)
	e.notifier.Send(chatID, "📝 Any special delivery instructions?\n\n(e.g., 'Leave at door', 'Call before delivery', or type 'None'):")
}

// finalizeOrder completes the checkout wizard. Order creation, the customer
// confirmation, the admin alert and the cart/session reset all happen even
// when the ledger write fails; that failure reaches only the log and the
// admin channel.
func (e *Engine) finalizeOrder(ctx context.Context, chatID int64, sess store.Session, text string) {
	instructions := text
	if strings.EqualFold(instructions, "none") {
		instructions = ""
	}

	cart := e.cart(ctx, chatID)
	if len(cart) == 0 {
		e.notifier.Send(chatID, "Your cart is empty! Please add items first.")
		e.showCategories(chatID)
		e.setSession(ctx, chatID, store.Session{Step: store.StepMainMenu})
		return
	}

	o := e.tracker.Create(ctx, chatID, sess.Name, sess.Phone, sess.Address, cart, instructions)

	if err := e.ledger.AppendOrder(ctx, ledgerRow(o)); err != nil {
		e.logger.Error("Ledger append failed", zap.String("order_id", o.ID), zap.Error(err))
		if e.adminChatID != 0 {
			e.notifier.Send(e.adminChatID, fmt.Sprintf("⚠️ Order #%s could not be written to the order sheet: %v", o.ID, err))
		}
	}

	e.notifier.Send(chatID, confirmationText(o))
	e.sendAdminAlert(o)

	if err := e.carts.ClearCart(ctx, chatID); err != nil {
		e.logger.Error("Failed to reset cart after checkout", zap.Int64("chat_id", chatID), zap.Error(err))
	}
	e.setSession(ctx, chatID, store.Session{Step: store.StepMainMenu})

	e.logger.Info("Checkout completed",
		zap.String("order_id", o.ID),
		zap.String("customer", o.CustomerName),
		zap.String("total", o.Total.StringFixed(2)))
}

func (e *Engine) sendAdminAlert(o *order.Order) {
	if e.adminChatID == 0 {
		return
	}
	rows := [][]notify.Button{
		{
			{Label: "🚚 Mark as Shipped", Token: ActionShipOrder{OrderID: o.ID}.Token()},
			{Label: "❌ Cancel Order", Token: ActionCancelOrder{OrderID: o.ID}.Token()},
		},
		{
			{Label: "✅ Mark Delivered", Token: ActionDeliverOrder{OrderID: o.ID}.Token()},
			{Label: "📋 View Details", Token: ActionOrderDetails{OrderID: o.ID}.Token()},
		},
	}
	if !e.notifier.SendActionMenu(e.adminChatID, adminAlertText(o), rows) {
		e.logger.Warn("Admin notification failed", zap.String("order_id", o.ID))
	}
}

func (e *Engine) finishCancellation(ctx context.Context, chatID int64, sess store.Session, reason string) {
	if sess.OrderID != "" && e.tracker.UpdateStatus(ctx, sess.OrderID, order.StatusCancelled, reason) {
		e.notifier.Send(chatID, fmt.Sprintf("✅ Order #%s cancelled! Customer notified with your reason.", sess.OrderID))
	} else {
		e.notifier.Send(chatID, fmt.Sprintf("❌ Failed to cancel order #%s", sess.OrderID))
	}
	e.setSession(ctx, chatID, store.Session{Step: store.StepMainMenu})
}

func (e *Engine) session(ctx context.Context, chatID int64) store.Session {
	sess, err := e.sessions.Session(ctx, chatID)
	if err != nil {
		e.logger.Error("Failed to load session", zap.Int64("chat_id", chatID), zap.Error(err))
		return store.Session{}
	}
	return sess
}

func (e *Engine) setSession(ctx context.Context, chatID int64, sess store.Session) {
	if err := e.sessions.SetSession(ctx, chatID, sess); err != nil {
		e.logger.Error("Failed to store session", zap.Int64("chat_id", chatID), zap.Error(err))
	}
}

func (e *Engine) cart(ctx context.Context, chatID int64) store.Cart {
	cart, err := e.carts.Cart(ctx, chatID)
	if err != nil {
		e.logger.Error("Failed to load cart", zap.Int64("chat_id", chatID), zap.Error(err))
		return nil
	}
	return cart
}
