package output

import (
	"fmt"
	"io"
	"sync"

	"github.com/fatih/color"

	"github.com/yndnr/clockschedule-go/internal/core/domain"
)

// Notifier prints login notifications, one per line.
type Notifier struct {
	mu      sync.Mutex
	w       io.Writer
	success *color.Color
	failure *color.Color
}

// NewNotifier creates a Notifier. Colour is used only when w is a terminal
// and NO_COLOR is unset.
func NewNotifier(w io.Writer) *Notifier {
	n := &Notifier{
		w:       w,
		success: color.New(color.FgGreen, color.Bold),
		failure: color.New(color.FgRed, color.Bold),
	}
	if color.NoColor || !IsTerminal(w) {
		n.success.DisableColor()
		n.failure.DisableColor()
	}
	return n
}

// Notify implements service.Notifier.
func (n *Notifier) Notify(kind domain.NotificationKind, text string) {
	n.mu.Lock()
	defer n.mu.Unlock()

	switch kind {
	case domain.NotifySuccess:
		n.success.Fprint(n.w, "✓ ")
	default:
		n.failure.Fprint(n.w, "✗ ")
	}
	fmt.Fprintln(n.w, text)
}

// DisableColor turns colour off regardless of the terminal.
func (n *Notifier) DisableColor() {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.success.DisableColor()
	n.failure.DisableColor()
}
