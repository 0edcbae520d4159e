package notify

import (
	"fmt"
	"io"
	"sync"

	"github.com/charmbracelet/lipgloss"
)

var (
	colorPending = lipgloss.Color("#2196F3")
	colorSuccess = lipgloss.Color("#8BC34A")
	colorError   = lipgloss.Color("#e53935")
)

type terminalStyles struct {
	pending lipgloss.Style
	success lipgloss.Style
	failure lipgloss.Style
}

// Terminal prints one styled line per notification event.
type Terminal struct {
	mu     sync.Mutex
	w      io.Writer
	styles terminalStyles
}

// NewTerminal creates a Terminal writing to w. Colors are dropped when
// noColor is set or w is not a terminal.
func NewTerminal(w io.Writer, noColor bool) *Terminal {
	r := lipgloss.NewRenderer(w)
	base := r.NewStyle()

	styles := terminalStyles{pending: base, success: base, failure: base}
	if !noColor {
		styles = terminalStyles{
			pending: base.Foreground(colorPending),
			success: base.Foreground(colorSuccess).Bold(true),
			failure: base.Foreground(colorError).Bold(true),
		}
	}
	return &Terminal{w: w, styles: styles}
}

func (t *Terminal) print(style lipgloss.Style, icon, msg string) {
	t.mu.Lock()
	defer t.mu.Unlock()
	_, _ = fmt.Fprintln(t.w, style.Render(icon+" "+msg))
}

// Loading prints the pending message.
func (t *Terminal) Loading(msg string) Handle {
	t.print(t.styles.pending, "…", msg)
	return NewHandle()
}

// Success prints the success message.
func (t *Terminal) Success(_ Handle, msg string) {
	t.print(t.styles.success, "✓", msg)
}

// Error prints the error message.
func (t *Terminal) Error(_ Handle, msg string) {
	t.print(t.styles.failure, "✗", msg)
}
