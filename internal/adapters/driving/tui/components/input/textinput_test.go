package input

import (
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
)

func TestChatInput_Typing(t *testing.T) {
	in := NewChatInput(nil)

	for _, r := range "hi" {
		in, _ = in.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{r}})
	}
	assert.Equal(t, "hi", in.Value())

	in.Reset()
	assert.Empty(t, in.Value())
}

func TestChatInput_SetWidth(t *testing.T) {
	in := NewChatInput(nil)

	in.SetWidth(100)
	assert.Equal(t, 100, in.Width())
	assert.Equal(t, 94, in.textinput.Width)

	in.SetWidth(10)
	assert.Equal(t, 20, in.textinput.Width)
}

func TestChatInput_View(t *testing.T) {
	in := NewChatInput(nil)
	in.SetValue("what is the rent?")
	assert.Contains(t, in.View(), "what is the rent?")
}
