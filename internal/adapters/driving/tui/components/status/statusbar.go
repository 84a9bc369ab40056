// Package status provides the status line for the chat panel.
package status

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/custodia-labs/lexmap/internal/adapters/driving/tui/keymap"
	"github.com/custodia-labs/lexmap/internal/adapters/driving/tui/styles"
)

// Bar displays mode, connectivity and keybinding hints.
type Bar struct {
	styles    *styles.Styles
	keymap    *keymap.KeyMap
	online    bool
	connected bool
	known     bool
	busy      bool
	document  string
	width     int
}

// NewBar creates a new status bar component.
func NewBar(s *styles.Styles, km *keymap.KeyMap) *Bar {
	if s == nil {
		s = styles.DefaultStyles()
	}
	if km == nil {
		km = keymap.DefaultKeyMap()
	}
	return &Bar{
		styles: s,
		keymap: km,
		width:  80,
	}
}

// View renders the status bar.
func (b *Bar) View() string {
	left := b.renderLeft()
	right := b.renderRight()

	padding := b.width - lipgloss.Width(left) - lipgloss.Width(right) - 2
	if padding < 1 {
		padding = 1
	}
	return b.styles.StatusBar.Width(b.width).Render(left + strings.Repeat(" ", padding) + right)
}

func (b *Bar) renderLeft() string {
	parts := []string{b.modeLabel()}
	if b.document != "" {
		parts = append(parts, b.styles.Muted.Render(b.document))
	}
	if b.busy {
		parts = append(parts, b.styles.Muted.Render("working..."))
	}
	return strings.Join(parts, "  ")
}

func (b *Bar) modeLabel() string {
	switch {
	case !b.online:
		return b.styles.Offline.Render("offline")
	case !b.known:
		return b.styles.Muted.Render("online")
	case b.connected:
		return b.styles.Online.Render("online")
	default:
		return b.styles.Offline.Render("online (unreachable, using local)")
	}
}

func (b *Bar) renderRight() string {
	bindings := b.keymap.ShortHelp()
	hints := make([]string, 0, len(bindings))
	for _, k := range bindings {
		h := k.Help()
		hints = append(hints, fmt.Sprintf("%s: %s", h.Key, h.Desc))
	}
	return b.styles.Muted.Render(strings.Join(hints, " | "))
}

// SetOnline sets the configured mode.
func (b *Bar) SetOnline(online bool) {
	b.online = online
}

// SetConnected records remote reachability.
func (b *Bar) SetConnected(connected bool) {
	b.connected = connected
	b.known = true
}

// Connected reports the last known reachability and whether it is known.
func (b *Bar) Connected() (connected, known bool) {
	return b.connected, b.known
}

// SetBusy marks a command in flight.
func (b *Bar) SetBusy(busy bool) {
	b.busy = busy
}

// Busy reports whether a command is in flight.
func (b *Bar) Busy() bool {
	return b.busy
}

// SetDocument sets the active document title.
func (b *Bar) SetDocument(title string) {
	b.document = title
}

// SetWidth sets the status bar width.
func (b *Bar) SetWidth(width int) {
	b.width = width
}
