package tui

import (
	"context"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/lexmap/internal/adapters/driving/tui/components/transcript"
	"github.com/custodia-labs/lexmap/internal/adapters/driving/tui/messages"
	"github.com/custodia-labs/lexmap/internal/pubsub"
)

func newTestApp(t *testing.T, explorer *mockExplorer) *App {
	t.Helper()
	app, err := NewApp(&Ports{Explorer: explorer})
	require.NoError(t, err)
	app.SetDimensions(100, 30)
	return app
}

func typeLine(app *App, line string) tea.Cmd {
	for _, r := range line {
		app.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{r}})
	}
	_, cmd := app.Update(tea.KeyMsg{Type: tea.KeyEnter})
	return cmd
}

func TestNewApp_InvalidPorts(t *testing.T) {
	app, err := NewApp(&Ports{})
	assert.ErrorIs(t, err, ErrMissingExplorer)
	assert.Nil(t, app)
}

func TestApp_ViewBeforeSize(t *testing.T) {
	app, err := NewApp(&Ports{Explorer: &mockExplorer{}})
	require.NoError(t, err)
	assert.Equal(t, "Initialising...", app.View())

	app.Update(tea.WindowSizeMsg{Width: 80, Height: 24})
	assert.True(t, app.Ready())
	assert.Contains(t, app.View(), "lexmap")
}

func TestApp_AskRoundTrip(t *testing.T) {
	explorer := &mockExplorer{answer: "Thirty days."}
	app := newTestApp(t, explorer)

	cmd := typeLine(app, "notice period?")
	require.NotNil(t, cmd)
	assert.True(t, app.statusbar.Busy())
	assert.Empty(t, app.input.Value())

	// A second enter while busy is ignored.
	_, again := app.Update(tea.KeyMsg{Type: tea.KeyEnter})
	assert.Nil(t, again)

	msg := cmd()
	finished, ok := msg.(messages.CommandFinished)
	require.True(t, ok)
	assert.Equal(t, "Thirty days.", finished.Output)

	app.Update(msg)
	assert.False(t, app.statusbar.Busy())

	entries := app.Transcript().Entries()
	require.Len(t, entries, 2)
	assert.Equal(t, transcript.RoleUser, entries[0].Role)
	assert.Equal(t, transcript.Entry{Role: transcript.RoleAssistant, Text: "Thirty days."}, entries[1])
}

func TestApp_ErrorEntry(t *testing.T) {
	app := newTestApp(t, &mockExplorer{})

	cmd := typeLine(app, "/bogus")
	assert.Nil(t, cmd)
	entries := app.Transcript().Entries()
	require.Len(t, entries, 1)
	assert.Equal(t, transcript.RoleError, entries[0].Role)

	app.Update(messages.CommandFinished{Err: assert.AnError})
	assert.Len(t, app.Transcript().Entries(), 2)
}

func TestApp_ClearAndQuit(t *testing.T) {
	app := newTestApp(t, &mockExplorer{})
	app.Transcript().Append(transcript.Entry{Role: transcript.RoleUser, Text: "x"})

	typeLine(app, "/clear")
	assert.Empty(t, app.Transcript().Entries())

	cmd := typeLine(app, "/quit")
	require.NotNil(t, cmd)
	assert.IsType(t, tea.QuitMsg{}, cmd())

	_, cmd = app.Update(tea.KeyMsg{Type: tea.KeyCtrlC})
	require.NotNil(t, cmd)
	assert.IsType(t, tea.QuitMsg{}, cmd())
}

func TestApp_ToggleMode(t *testing.T) {
	explorer := &mockExplorer{online: true}
	app := newTestApp(t, explorer)

	_, cmd := app.Update(tea.KeyMsg{Type: tea.KeyCtrlO})
	require.NotNil(t, cmd)
	msg := cmd()
	assert.Equal(t, messages.ModeChanged{Online: false}, msg)
	assert.False(t, explorer.Mode().IsOnline())

	app.Update(msg)
	assert.Contains(t, app.statusbar.View(), "offline")
}

func TestApp_ConnectivityUpdates(t *testing.T) {
	broker := pubsub.NewBroker[bool]()
	defer broker.Shutdown()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	app, err := NewApp(&Ports{Explorer: &mockExplorer{online: true}, Connectivity: broker})
	require.NoError(t, err)
	app.WithContext(ctx)
	app.SetDimensions(120, 30)
	require.NotNil(t, app.Init())

	broker.Publish(pubsub.ChangedEvent, false)
	msg := app.listenConnectivity()()
	assert.Equal(t, messages.ConnectivityChanged{Connected: false}, msg)

	_, next := app.Update(msg)
	assert.NotNil(t, next)
	assert.Contains(t, app.statusbar.View(), "unreachable")
}
