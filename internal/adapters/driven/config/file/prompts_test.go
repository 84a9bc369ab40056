package file

import (
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/lexmap/internal/core/ports/driven"
)

func TestPromptStore_ImplementsInterface(t *testing.T) {
	var _ driven.PromptStore = (*PromptStore)(nil)
}

func TestNewPromptStore_WithCustomDir(t *testing.T) {
	dir := t.TempDir()

	store, err := NewPromptStore(dir)

	require.NoError(t, err)
	assert.Equal(t, dir, store.Dir())
}

func TestNewPromptStore_DefaultDir(t *testing.T) {
	home, err := os.UserHomeDir()
	if err != nil {
		t.Skip("cannot determine home directory")
	}

	store, err := NewPromptStore("")

	require.NoError(t, err)
	assert.Equal(t, filepath.Join(home, ".lexmap", "prompts"), store.Dir())
}

func TestPromptStore_Load_CreatesDefaultFiles(t *testing.T) {
	dir := t.TempDir()
	store, err := NewPromptStore(dir)
	require.NoError(t, err)

	_, err = store.Load(driven.PromptTopicSummary)
	require.NoError(t, err)

	for _, f := range []string{
		"topic_summary.txt",
		"chat_system.txt",
		"document_summary.txt",
		"README.md",
	} {
		_, err := os.Stat(filepath.Join(dir, f))
		assert.NoError(t, err, "expected file %s to exist", f)
	}
}

func TestPromptStore_Load_ReturnsDefaultContent(t *testing.T) {
	tests := []struct {
		name         string
		prompt       string
		contains     string
		placeholders int
	}{
		{"topic summary", driven.PromptTopicSummary, "Topic:", 2},
		{"chat system", driven.PromptChatSystem, "legal document assistant", 0},
		{"document summary", driven.PromptDocumentSummary, "Document:", 1},
	}

	dir := t.TempDir()
	store, err := NewPromptStore(dir)
	require.NoError(t, err)

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			prompt, err := store.Load(tt.prompt)

			require.NoError(t, err)
			assert.Contains(t, prompt, tt.contains)
			assert.Equal(t, tt.placeholders, placeholders(prompt))
		})
	}
}

func TestPromptStore_Load_ReturnsCustomContent(t *testing.T) {
	dir := t.TempDir()

	customContent := "Excerpts:\n%s\nFocus on %s"
	require.NoError(t, os.WriteFile(filepath.Join(dir, "topic_summary.txt"), []byte(customContent), 0600))

	store, err := NewPromptStore(dir)
	require.NoError(t, err)

	prompt, err := store.Load(driven.PromptTopicSummary)

	require.NoError(t, err)
	assert.Equal(t, customContent, prompt)
}

func TestPromptStore_Load_WrongPlaceholdersUsesDefault(t *testing.T) {
	dir := t.TempDir()

	require.NoError(t, os.WriteFile(filepath.Join(dir, "document_summary.txt"), []byte("no verbs here"), 0600))

	store, err := NewPromptStore(dir)
	require.NoError(t, err)

	prompt, err := store.Load(driven.PromptDocumentSummary)

	require.NoError(t, err)
	assert.Equal(t, defaultPrompts[driven.PromptDocumentSummary], prompt)
}

func TestPromptStore_Load_FallsBackToDefault(t *testing.T) {
	dir := t.TempDir()
	store, err := NewPromptStore(dir)
	require.NoError(t, err)

	_, _ = store.Load(driven.PromptChatSystem)
	require.NoError(t, os.Remove(filepath.Join(dir, "chat_system.txt")))
	store.Reload()

	prompt, err := store.Load(driven.PromptChatSystem)

	require.NoError(t, err)
	assert.Equal(t, defaultPrompts[driven.PromptChatSystem], prompt)
}

func TestPromptStore_Load_UnknownPrompt(t *testing.T) {
	dir := t.TempDir()
	store, err := NewPromptStore(dir)
	require.NoError(t, err)

	_, err = store.Load("nonexistent_prompt")

	assert.Error(t, err)
	assert.Contains(t, err.Error(), "nonexistent_prompt")
}

func TestPromptStore_Load_CachesResults(t *testing.T) {
	dir := t.TempDir()
	store, err := NewPromptStore(dir)
	require.NoError(t, err)

	first, err := store.Load(driven.PromptChatSystem)
	require.NoError(t, err)

	require.NoError(t, os.WriteFile(filepath.Join(dir, "chat_system.txt"), []byte("modified"), 0600))

	second, err := store.Load(driven.PromptChatSystem)
	require.NoError(t, err)

	assert.Equal(t, first, second)
}

func TestPromptStore_Reload_ClearsCache(t *testing.T) {
	dir := t.TempDir()
	store, err := NewPromptStore(dir)
	require.NoError(t, err)

	_, err = store.Load(driven.PromptDocumentSummary)
	require.NoError(t, err)

	modified := "Briefly: %s"
	require.NoError(t, os.WriteFile(filepath.Join(dir, "document_summary.txt"), []byte(modified), 0600))

	store.Reload()

	prompt, err := store.Load(driven.PromptDocumentSummary)
	require.NoError(t, err)
	assert.Equal(t, modified, prompt)
}

func TestPromptStore_Load_ConcurrentAccess(t *testing.T) {
	dir := t.TempDir()
	store, err := NewPromptStore(dir)
	require.NoError(t, err)

	const goroutines = 100
	var wg sync.WaitGroup
	wg.Add(goroutines)

	errs := make(chan error, goroutines)
	prompts := make(chan string, goroutines)

	for i := 0; i < goroutines; i++ {
		go func() {
			defer wg.Done()
			prompt, err := store.Load(driven.PromptTopicSummary)
			if err != nil {
				errs <- err
				return
			}
			prompts <- prompt
		}()
	}

	wg.Wait()
	close(errs)
	close(prompts)

	for err := range errs {
		t.Errorf("unexpected error: %v", err)
	}

	var first string
	for prompt := range prompts {
		if first == "" {
			first = prompt
			continue
		}
		assert.Equal(t, first, prompt)
	}
}

func TestPromptStore_DoesNotOverwriteExistingFiles(t *testing.T) {
	dir := t.TempDir()

	custom := "pre-existing %s custom %s prompt"
	require.NoError(t, os.WriteFile(filepath.Join(dir, "topic_summary.txt"), []byte(custom), 0600))

	store, err := NewPromptStore(dir)
	require.NoError(t, err)

	_, _ = store.Load(driven.PromptChatSystem)

	data, err := os.ReadFile(filepath.Join(dir, "topic_summary.txt"))
	require.NoError(t, err)
	assert.Equal(t, custom, string(data))
}

func TestPromptStore_TrimsWhitespace(t *testing.T) {
	dir := t.TempDir()

	require.NoError(t, os.WriteFile(filepath.Join(dir, "chat_system.txt"), []byte("\n\n  be brief  \n\n"), 0600))

	store, err := NewPromptStore(dir)
	require.NoError(t, err)

	prompt, err := store.Load(driven.PromptChatSystem)
	require.NoError(t, err)

	assert.Equal(t, "be brief", prompt)
}

func TestPlaceholders(t *testing.T) {
	assert.Equal(t, 0, placeholders("100%% sure"))
	assert.Equal(t, 1, placeholders("value %s"))
	assert.Equal(t, 2, placeholders("%s and %s, 50%%"))
}
