package cli

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/lexmap/internal/core/domain"
)

func TestAskCmd_Flags(t *testing.T) {
	flag := askCmd.Flags().Lookup("chat")
	require.NotNil(t, flag)
	assert.Equal(t, "default", flag.DefValue)

	flag = askCmd.Flags().Lookup("file")
	require.NotNil(t, flag)
	assert.Equal(t, "f", flag.Shorthand)

	assert.NotNil(t, askCmd.Flags().Lookup("doc"))
}

func TestAskCmd(t *testing.T) {
	cleanup := setupTestServices()
	defer cleanup()

	out, err := execute(t, "ask", "notice period?")
	require.NoError(t, err)
	assert.Contains(t, out, "Thirty days.")
	assert.NotContains(t, out, "Sources:")
	assert.Equal(t, "default", testExplorer.askedChat)
	assert.Equal(t, "notice period?", testExplorer.question)
	assert.Empty(t, testExplorer.processed)
}

func TestAskCmd_WithFileAndChat(t *testing.T) {
	cleanup := setupTestServices()
	defer cleanup()

	_, err := execute(t, "ask", "--chat", "c1", "--file", writePDF(t), "notice period?")
	require.NoError(t, err)
	assert.Len(t, testExplorer.processed, 1)
	assert.Equal(t, "c1", testExplorer.askedChat)
}

func TestAskCmd_RemoteDocAndSources(t *testing.T) {
	cleanup := setupTestServices()
	defer cleanup()
	testExplorer.ask = &domain.AskResult{Answer: "Yes.", Sources: []string{"clause 4"}}

	out, err := execute(t, "ask", "--doc", "nerv", "is there a break clause?")
	require.NoError(t, err)
	assert.Equal(t, "nerv", testExplorer.usedDoc)
	assert.Contains(t, out, "Sources:")
	assert.Contains(t, out, "- clause 4")
}

func TestAskCmd_JSON(t *testing.T) {
	cleanup := setupTestServices()
	defer cleanup()

	out, err := execute(t, "--json", "ask", "notice period?")
	require.NoError(t, err)

	var result map[string]any
	require.NoError(t, json.Unmarshal([]byte(out), &result))
	assert.Equal(t, "Thirty days.", result["answer"])
	assert.Equal(t, []any{}, result["sources"])
}
