package tui

import (
	"bytes"
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRunREPL(t *testing.T) {
	explorer := &mockExplorer{answer: "Thirty days.", summary: "Rent is monthly."}
	in := strings.NewReader("notice?\n\n/bogus\n/summary payment\n/quit\nnever asked\n")
	var out bytes.Buffer

	err := RunREPL(context.Background(), &Ports{Explorer: explorer}, in, &out)
	require.NoError(t, err)

	text := out.String()
	assert.Contains(t, text, "Thirty days.")
	assert.Contains(t, text, "error: unknown command /bogus")
	assert.Contains(t, text, "Rent is monthly.")
	assert.NotContains(t, explorer.questions, "never asked")
}

func TestRunREPL_EOF(t *testing.T) {
	var out bytes.Buffer
	err := RunREPL(context.Background(), &Ports{Explorer: &mockExplorer{}}, strings.NewReader("/help"), &out)
	require.NoError(t, err)
	assert.Contains(t, out.String(), "/process <file|url>")
}

func TestRunREPL_InvalidPorts(t *testing.T) {
	err := RunREPL(context.Background(), &Ports{}, strings.NewReader(""), &bytes.Buffer{})
	assert.ErrorIs(t, err, ErrMissingExplorer)
}
