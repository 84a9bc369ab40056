package file

import (
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewConfigStore_Success(t *testing.T) {
	tmpDir := t.TempDir()

	store, err := NewConfigStore(tmpDir)

	require.NoError(t, err)
	require.NotNil(t, store)
	assert.Equal(t, filepath.Join(tmpDir, "config.toml"), store.Path())
}

func TestNewConfigStoreAt_CreatesParent(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "deep", "lexmap.toml")

	store, err := NewConfigStoreAt(path)
	require.NoError(t, err)
	assert.Equal(t, path, store.Path())

	info, err := os.Stat(filepath.Dir(path))
	require.NoError(t, err)
	assert.True(t, info.IsDir())
	assert.Equal(t, os.FileMode(0700), info.Mode().Perm())
}

func TestNewConfigStore_MkdirAllError(t *testing.T) {
	store, err := NewConfigStore("/dev/null/cannot/create/dirs")

	assert.Error(t, err)
	assert.Nil(t, store)
}

func TestConfigStore_Load_NestedTables(t *testing.T) {
	tmpDir := t.TempDir()
	content := `
[mode]
online = false

[remote]
base_url = "http://docs.internal:5000"
timeout_secs = 30
requests_per_second = 2.5

[chunking]
size = 800
`
	require.NoError(t, os.WriteFile(filepath.Join(tmpDir, "config.toml"), []byte(content), 0600))

	store, err := NewConfigStore(tmpDir)
	require.NoError(t, err)

	_, exists := store.Get("mode.online")
	assert.True(t, exists)
	assert.False(t, store.GetBool("mode.online"))
	assert.Equal(t, "http://docs.internal:5000", store.GetString("remote.base_url"))
	assert.Equal(t, 30, store.GetInt("remote.timeout_secs"))
	assert.InDelta(t, 2.5, store.GetFloat("remote.requests_per_second"), 1e-9)
	assert.Equal(t, 800.0, store.GetFloat("chunking.size"))
}

func TestConfigStore_SaveWritesTables(t *testing.T) {
	tmpDir := t.TempDir()
	store, err := NewConfigStore(tmpDir)
	require.NoError(t, err)

	require.NoError(t, store.Set("llm.provider", "ollama"))
	require.NoError(t, store.Set("llm.model", "llama3.2"))
	require.NoError(t, store.Set("mode.online", true))

	data, err := os.ReadFile(store.Path())
	require.NoError(t, err)
	assert.Contains(t, string(data), "[llm]")
	assert.Contains(t, string(data), "[mode]")

	store2, err := NewConfigStore(tmpDir)
	require.NoError(t, err)
	assert.Equal(t, "ollama", store2.GetString("llm.provider"))
	assert.Equal(t, "llama3.2", store2.GetString("llm.model"))
	assert.True(t, store2.GetBool("mode.online"))
}

func TestConfigStore_Persistence(t *testing.T) {
	tmpDir := t.TempDir()

	store1, err := NewConfigStore(tmpDir)
	require.NoError(t, err)

	require.NoError(t, store1.Set("key1", "value1"))
	require.NoError(t, store1.Set("key2", 42))
	require.NoError(t, store1.Set("key3", true))
	require.NoError(t, store1.Set("key4", 3.14159))
	require.NoError(t, store1.Set("key5", []string{"a", "b"}))

	store2, err := NewConfigStore(tmpDir)
	require.NoError(t, err)

	assert.Equal(t, "value1", store2.GetString("key1"))
	assert.Equal(t, 42, store2.GetInt("key2"))
	assert.True(t, store2.GetBool("key3"))
	assert.InDelta(t, 3.14159, store2.GetFloat("key4"), 1e-5)
	assert.Equal(t, []string{"a", "b"}, store2.GetStringSlice("key5"))
}

func TestConfigStore_TypeMismatch(t *testing.T) {
	store, err := NewConfigStore(t.TempDir())
	require.NoError(t, err)

	require.NoError(t, store.Set("n", 7))
	assert.Equal(t, "", store.GetString("n"))
	assert.False(t, store.GetBool("n"))
	assert.Nil(t, store.GetStringSlice("n"))
	assert.Equal(t, 0, store.GetInt("missing"))
	assert.Equal(t, 0.0, store.GetFloat("missing"))
}

func TestConfigStore_EnvOverrides(t *testing.T) {
	tmpDir := t.TempDir()
	env := map[string]string{
		"remote.base_url":     "LEXMAP_TEST_REMOTE_URL",
		"mode.online":         "LEXMAP_TEST_ONLINE",
		"retrieval.top_k":     "LEXMAP_TEST_TOP_K",
		"remote.requests_sec": "LEXMAP_TEST_RPS",
	}

	store, err := NewConfigStore(tmpDir, WithEnv(env))
	require.NoError(t, err)
	require.NoError(t, store.Set("remote.base_url", "http://from-file:5000"))
	require.NoError(t, store.Set("mode.online", true))

	t.Setenv("LEXMAP_TEST_REMOTE_URL", "http://from-env:5000")
	t.Setenv("LEXMAP_TEST_ONLINE", "false")
	t.Setenv("LEXMAP_TEST_TOP_K", "6")
	t.Setenv("LEXMAP_TEST_RPS", "1.5")

	assert.Equal(t, "http://from-env:5000", store.GetString("remote.base_url"))
	assert.False(t, store.GetBool("mode.online"))
	assert.Equal(t, 6, store.GetInt("retrieval.top_k"))
	assert.InDelta(t, 1.5, store.GetFloat("remote.requests_sec"), 1e-9)

	// Overrides are never written back.
	require.NoError(t, store.Save())
	plain, err := NewConfigStore(tmpDir)
	require.NoError(t, err)
	assert.Equal(t, "http://from-file:5000", plain.GetString("remote.base_url"))
	assert.True(t, plain.GetBool("mode.online"))
}

func TestConfigStore_EmptyEnvIgnored(t *testing.T) {
	store, err := NewConfigStore(t.TempDir(), WithEnv(map[string]string{"llm.model": "LEXMAP_TEST_EMPTY"}))
	require.NoError(t, err)
	require.NoError(t, store.Set("llm.model", "llama3.2"))

	t.Setenv("LEXMAP_TEST_EMPTY", "")
	assert.Equal(t, "llama3.2", store.GetString("llm.model"))
}

func TestConfigStore_EmptyFile(t *testing.T) {
	tmpDir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(tmpDir, "config.toml"), []byte("# Just a comment\n\n"), 0600))

	store, err := NewConfigStore(tmpDir)
	require.NoError(t, err)

	val, ok := store.Get("any_key")
	assert.False(t, ok)
	assert.Nil(t, val)
}

func TestNewConfigStore_LoadCorruptedFile(t *testing.T) {
	tmpDir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(tmpDir, "config.toml"), []byte("this is not valid TOML {{{[["), 0600))

	store, err := NewConfigStore(tmpDir)

	assert.Error(t, err)
	assert.Nil(t, store)
}

func TestConfigStore_FilePermissions(t *testing.T) {
	store, err := NewConfigStore(t.TempDir())
	require.NoError(t, err)
	require.NoError(t, store.Set("test", "value"))

	info, err := os.Stat(store.Path())
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0600), info.Mode().Perm())
}

func TestConfigStore_SetWithUnmarshallableValue(t *testing.T) {
	store, err := NewConfigStore(t.TempDir())
	require.NoError(t, err)

	assert.Error(t, store.Set("channel", make(chan int)))
}

func TestConfigStore_Concurrency(t *testing.T) {
	store, err := NewConfigStore(t.TempDir())
	require.NoError(t, err)

	var wg sync.WaitGroup
	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func(id int) {
			defer wg.Done()
			key := "key" + string(rune('0'+id))
			_ = store.Set(key, id)
			_ = store.GetInt(key)
			_ = store.GetString(key)
			_, _ = store.Get(key)
		}(i)
	}
	wg.Wait()
}

func TestNestMap(t *testing.T) {
	nested := nestMap(map[string]any{
		"a":     1,
		"a.b":   2,
		"x.y.z": "deep",
		"x.w":   true,
	})

	assert.Equal(t, 1, nested["a"])
	x, ok := nested["x"].(map[string]any)
	require.True(t, ok)
	assert.Equal(t, true, x["w"])
	y, ok := x["y"].(map[string]any)
	require.True(t, ok)
	assert.Equal(t, "deep", y["z"])
}
