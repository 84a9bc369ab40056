// Package transcript renders the scrolling chat history.
package transcript

import (
	"strings"

	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/glamour"

	"github.com/custodia-labs/lexmap/internal/adapters/driving/tui/styles"
)

// Role identifies who produced an entry.
type Role int

// Entry roles.
const (
	RoleUser Role = iota
	RoleAssistant
	RoleError
)

// Entry is one transcript line.
type Entry struct {
	Role Role
	Text string
}

const welcome = "Process a document with /process <file>, then ask questions about it."

// Model is a viewport over rendered entries. Assistant text is markdown.
type Model struct {
	viewport viewport.Model
	styles   *styles.Styles
	markdown *glamour.TermRenderer
	entries  []Entry
	rendered []string
	width    int
}

// New creates an empty transcript.
func New(s *styles.Styles) *Model {
	if s == nil {
		s = styles.DefaultStyles()
	}
	m := &Model{
		viewport: viewport.New(80, 20),
		styles:   s,
	}
	m.setWidth(80)
	m.refresh()
	return m
}

// Update forwards scrolling messages to the viewport.
func (m *Model) Update(msg tea.Msg) (*Model, tea.Cmd) {
	var cmd tea.Cmd
	m.viewport, cmd = m.viewport.Update(msg)
	return m, cmd
}

// View renders the visible part of the transcript.
func (m *Model) View() string {
	return m.viewport.View()
}

// Append adds an entry and scrolls to it.
func (m *Model) Append(e Entry) {
	m.entries = append(m.entries, e)
	m.rendered = append(m.rendered, m.render(e))
	m.refresh()
	m.viewport.GotoBottom()
}

// Entries returns the entries in order.
func (m *Model) Entries() []Entry {
	return m.entries
}

// Clear empties the transcript.
func (m *Model) Clear() {
	m.entries = nil
	m.rendered = nil
	m.refresh()
}

// SetSize resizes the viewport and re-renders for the new width.
func (m *Model) SetSize(width, height int) {
	m.viewport.Height = height
	if width == m.width {
		return
	}
	m.setWidth(width)
	for i, e := range m.entries {
		m.rendered[i] = m.render(e)
	}
	m.refresh()
}

// PageUp scrolls up one page.
func (m *Model) PageUp() {
	m.viewport.PageUp()
}

// PageDown scrolls down one page.
func (m *Model) PageDown() {
	m.viewport.PageDown()
}

func (m *Model) setWidth(width int) {
	m.width = width
	m.viewport.Width = width
	wrap := width - 4
	if wrap < 20 {
		wrap = 20
	}
	r, err := glamour.NewTermRenderer(
		glamour.WithStylePath("dracula"),
		glamour.WithWordWrap(wrap),
	)
	if err != nil {
		m.markdown = nil
		return
	}
	m.markdown = r
}

func (m *Model) render(e Entry) string {
	switch e.Role {
	case RoleUser:
		return m.styles.User.Render("you: ") + e.Text
	case RoleError:
		return m.styles.Error.Render("error: " + e.Text)
	default:
		body := e.Text
		if m.markdown != nil {
			if out, err := m.markdown.Render(e.Text); err == nil {
				body = strings.Trim(out, "\n")
			}
		}
		return m.styles.Assistant.Render("lexmap:") + "\n" + body
	}
}

func (m *Model) refresh() {
	if len(m.rendered) == 0 {
		m.viewport.SetContent(m.styles.Muted.Render(welcome))
		return
	}
	m.viewport.SetContent(strings.Join(m.rendered, "\n\n"))
}
