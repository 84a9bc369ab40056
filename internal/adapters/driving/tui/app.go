package tui

import (
	"context"
	"errors"
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/custodia-labs/lexmap/internal/adapters/driving/tui/components/input"
	"github.com/custodia-labs/lexmap/internal/adapters/driving/tui/components/status"
	"github.com/custodia-labs/lexmap/internal/adapters/driving/tui/components/transcript"
	"github.com/custodia-labs/lexmap/internal/adapters/driving/tui/keymap"
	"github.com/custodia-labs/lexmap/internal/adapters/driving/tui/messages"
	"github.com/custodia-labs/lexmap/internal/adapters/driving/tui/styles"
	"github.com/custodia-labs/lexmap/internal/pubsub"
)

// chromeHeight is the number of lines used by header, input and status bar.
const chromeHeight = 6

// App is the chat panel following the Elm architecture.
// It implements tea.Model for use with Bubbletea.
type App struct {
	ports   *Ports
	session *Session
	ctx     context.Context

	styles     *styles.Styles
	keymap     *keymap.KeyMap
	transcript *transcript.Model
	input      *input.ChatInput
	statusbar  *status.Bar

	conn <-chan pubsub.Event[bool]

	width  int
	height int
	ready  bool
}

// Ensure App implements tea.Model.
var _ tea.Model = (*App)(nil)

// NewApp creates a chat panel with the given ports.
func NewApp(ports *Ports) (*App, error) {
	session, err := NewSession(ports)
	if err != nil {
		return nil, fmt.Errorf("creating app: %w", err)
	}

	s := styles.DefaultStyles()
	km := keymap.DefaultKeyMap()
	bar := status.NewBar(s, km)
	bar.SetOnline(session.Online())

	return &App{
		ports:      ports,
		session:    session,
		ctx:        context.Background(),
		styles:     s,
		keymap:     km,
		transcript: transcript.New(s),
		input:      input.NewChatInput(s),
		statusbar:  bar,
	}, nil
}

// WithContext sets the context used for document operations.
func (a *App) WithContext(ctx context.Context) *App {
	a.ctx = ctx
	return a
}

// Session returns the chat session.
func (a *App) Session() *Session {
	return a.session
}

// Init implements tea.Model.
func (a *App) Init() tea.Cmd {
	if a.conn == nil && a.ports.Connectivity != nil {
		a.conn = a.ports.Connectivity.Subscribe(a.ctx)
	}
	return tea.Batch(
		tea.SetWindowTitle("lexmap"),
		a.input.Init(),
		a.listenConnectivity(),
	)
}

// Update implements tea.Model.
func (a *App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		a.SetDimensions(msg.Width, msg.Height)
		return a, nil

	case tea.KeyMsg:
		return a.handleKey(msg)

	case messages.CommandFinished:
		a.statusbar.SetBusy(false)
		a.statusbar.SetOnline(a.session.Online())
		a.statusbar.SetDocument(a.session.Title())
		if msg.Err != nil {
			a.transcript.Append(transcript.Entry{Role: transcript.RoleError, Text: msg.Err.Error()})
		} else if msg.Output != "" {
			a.transcript.Append(transcript.Entry{Role: transcript.RoleAssistant, Text: msg.Output})
		}
		return a, nil

	case messages.ConnectivityChanged:
		a.statusbar.SetConnected(msg.Connected)
		return a, a.listenConnectivity()

	case messages.ModeChanged:
		a.statusbar.SetOnline(msg.Online)
		return a, nil

	case messages.Quit:
		return a, tea.Quit
	}

	var cmd tea.Cmd
	a.transcript, cmd = a.transcript.Update(msg)
	return a, cmd
}

func (a *App) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	key := msg.String()
	switch {
	case keymap.Matches(key, a.keymap.Quit):
		return a, tea.Quit
	case keymap.Matches(key, a.keymap.ToggleMode):
		return a, a.toggleMode()
	case keymap.Matches(key, a.keymap.Clear):
		a.transcript.Clear()
		return a, nil
	case keymap.Matches(key, a.keymap.ScrollUp):
		a.transcript.PageUp()
		return a, nil
	case keymap.Matches(key, a.keymap.ScrollDown):
		a.transcript.PageDown()
		return a, nil
	case keymap.Matches(key, a.keymap.Send):
		return a.submit()
	}

	var cmd tea.Cmd
	a.input, cmd = a.input.Update(msg)
	return a, cmd
}

// submit runs the input line. Only one command runs at a time.
func (a *App) submit() (tea.Model, tea.Cmd) {
	if a.statusbar.Busy() {
		return a, nil
	}

	line := a.input.Value()
	cmd, err := parseCommand(line)
	if errors.Is(err, ErrEmptyInput) {
		return a, nil
	}
	a.input.Reset()
	if err != nil {
		a.transcript.Append(transcript.Entry{Role: transcript.RoleError, Text: err.Error()})
		return a, nil
	}

	switch cmd.kind {
	case commandQuit:
		return a, tea.Quit
	case commandClear:
		a.transcript.Clear()
		return a, nil
	}

	a.transcript.Append(transcript.Entry{Role: transcript.RoleUser, Text: line})
	a.statusbar.SetBusy(true)
	return a, a.run(line, cmd)
}

func (a *App) run(line string, cmd command) tea.Cmd {
	ctx, session := a.ctx, a.session
	return func() tea.Msg {
		out, err := session.run(ctx, cmd)
		return messages.CommandFinished{Input: line, Output: out, Err: err}
	}
}

func (a *App) toggleMode() tea.Cmd {
	session := a.session
	return func() tea.Msg {
		online := !session.Online()
		if err := session.SetMode(online); err != nil {
			return messages.CommandFinished{Err: err}
		}
		return messages.ModeChanged{Online: online}
	}
}

func (a *App) listenConnectivity() tea.Cmd {
	if a.conn == nil {
		return nil
	}
	ch := a.conn
	return func() tea.Msg {
		ev, ok := <-ch
		if !ok {
			return nil
		}
		return messages.ConnectivityChanged{Connected: ev.Payload}
	}
}

// View implements tea.Model.
func (a *App) View() string {
	if !a.ready {
		return "Initialising..."
	}
	header := a.styles.Title.Render("lexmap") + "  " + a.styles.Muted.Render("legal document explorer")
	return lipgloss.JoinVertical(lipgloss.Left,
		header,
		a.transcript.View(),
		a.input.View(),
		a.statusbar.View(),
	)
}

// SetDimensions lays out the components for a terminal size.
func (a *App) SetDimensions(width, height int) {
	a.width = width
	a.height = height
	a.ready = true

	body := height - chromeHeight
	if body < 3 {
		body = 3
	}
	a.transcript.SetSize(width, body)
	a.input.SetWidth(width)
	a.statusbar.SetWidth(width)
}

// Ready returns whether the app has been sized.
func (a *App) Ready() bool {
	return a.ready
}

// Transcript returns the transcript component.
func (a *App) Transcript() *transcript.Model {
	return a.transcript
}

// Run starts the chat panel on the alternate screen.
func (a *App) Run() error {
	p := tea.NewProgram(a, tea.WithAltScreen(), tea.WithContext(a.ctx))
	_, err := p.Run()
	return err
}
