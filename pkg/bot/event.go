package bot

import "strings"

// Action is one of the closed set of button-press actions. Tokens are parsed
// exactly once, at the transport boundary; handlers switch on the concrete
// type instead of re-inspecting strings.
type Action interface {
	// Token renders the wire form carried by the button.
	Token() string
}

type ActionAddItem struct{ Item string }

func (a ActionAddItem) Token() string { return "add_" + a.Item }

type ActionViewCart struct{}

func (ActionViewCart) Token() string { return "view_cart" }

type ActionBackToCategories struct{}

func (ActionBackToCategories) Token() string { return "back_categories" }

type ActionShipOrder struct{ OrderID string }

func (a ActionShipOrder) Token() string { return "ship_" + a.OrderID }

type ActionCancelOrder struct{ OrderID string }

func (a ActionCancelOrder) Token() string { return "cancel_" + a.OrderID }

type ActionDeliverOrder struct{ OrderID string }

func (a ActionDeliverOrder) Token() string { return "deliver_" + a.OrderID }

type ActionOrderDetails struct{ OrderID string }

func (a ActionOrderDetails) Token() string { return "details_" + a.OrderID }

type ActionUnknown struct{ Raw string }

func (a ActionUnknown) Token() string { return a.Raw }

// ParseAction maps an action token to its tagged form. Unrecognized tokens
// come back as ActionUnknown, which the engine treats as the main-menu
// catch-all.
func ParseAction(token string) Action {
	switch {
	case strings.HasPrefix(token, "add_"):
		return ActionAddItem{Item: strings.TrimPrefix(token, "add_")}
	case token == "view_cart":
		return ActionViewCart{}
	case token == "back_categories":
		return ActionBackToCategories{}
	case strings.HasPrefix(token, "ship_"):
		return ActionShipOrder{OrderID: strings.TrimPrefix(token, "ship_")}
	case strings.HasPrefix(token, "cancel_"):
		return ActionCancelOrder{OrderID: strings.TrimPrefix(token, "cancel_")}
	case strings.HasPrefix(token, "deliver_"):
		return ActionDeliverOrder{OrderID: strings.TrimPrefix(token, "deliver_")}
	case strings.HasPrefix(token, "details_"):
		return ActionOrderDetails{OrderID: strings.TrimPrefix(token, "details_")}
	}
	return ActionUnknown{Raw: token}
}

// Event is one inbound chat event: either free text or a parsed action,
// never both.
type Event struct {
	ChatID   int64
	SenderID int64
	Text     string
	Action   Action
}
