// Package notify defines the outbound messaging boundary. Implementations
// deliver over an external chat transport, which is inherently best-effort:
// failures are logged by the implementation and reported only as a boolean.
package notify

// Button is one action-menu entry. Token is the opaque action token routed
// back through the dialogue engine when pressed.
type Button struct {
	Label string
	Token string
}

type Notifier interface {
	Send(recipient int64, text string) bool
	// SendReplyMenu attaches a persistent grid of label buttons.
	SendReplyMenu(recipient int64, text string, rows [][]string) bool
	// SendActionMenu attaches inline buttons carrying action tokens.
	SendActionMenu(recipient int64, text string, rows [][]Button) bool
}
