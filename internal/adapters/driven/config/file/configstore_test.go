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
	assert.Equal(t, filepath.Join(tmpDir, FileName), store.Path())
}

func TestNewConfigStore_DefaultDir(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)

	store, err := NewConfigStore("")

	require.NoError(t, err)
	assert.Equal(t, filepath.Join(home, ".admindesk", FileName), store.Path())
}

func TestNewConfigStore_WithNestedDirectory(t *testing.T) {
	nestedPath := filepath.Join(t.TempDir(), "nested", "deep", "path")

	_, err := NewConfigStore(nestedPath)
	require.NoError(t, err)

	info, err := os.Stat(nestedPath)
	require.NoError(t, err)
	assert.True(t, info.IsDir())
	assert.Equal(t, os.FileMode(0700), info.Mode().Perm())
}

func TestNewConfigStore_MkdirAllError(t *testing.T) {
	store, err := NewConfigStore("/dev/null/cannot/create/dirs")

	assert.Error(t, err)
	assert.Nil(t, store)
}

func TestNewConfigStore_LoadCorruptedFile(t *testing.T) {
	tmpDir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(tmpDir, FileName), []byte("this is not valid TOML {{{[["), 0600))

	store, err := NewConfigStore(tmpDir)

	assert.Error(t, err)
	assert.Nil(t, store)
}

func TestConfigStore_TypedGetters(t *testing.T) {
	store, err := NewConfigStore(t.TempDir())
	require.NoError(t, err)

	require.NoError(t, store.Set("api.base_url", "https://admin.example.com"))
	require.NoError(t, store.Set("api.timeout_seconds", int64(30)))
	require.NoError(t, store.Set("api.rate_limit_rps", 2.5))
	require.NoError(t, store.Set("session.strict_refresh_expiry", true))
	require.NoError(t, store.Set("api.no_retry_paths", []string{"/api/v1/billing", "/api/v1/payments"}))

	assert.Equal(t, "https://admin.example.com", store.GetString("api.base_url"))
	assert.Equal(t, 30, store.GetInt("api.timeout_seconds"))
	assert.InDelta(t, 2.5, store.GetFloat("api.rate_limit_rps"), 0.0001)
	assert.InDelta(t, 30.0, store.GetFloat("api.timeout_seconds"), 0.0001)
	assert.True(t, store.GetBool("session.strict_refresh_expiry"))
	assert.Equal(t, []string{"/api/v1/billing", "/api/v1/payments"}, store.GetStringSlice("api.no_retry_paths"))

	// Wrong types read as zero values.
	assert.Empty(t, store.GetString("api.timeout_seconds"))
	assert.Zero(t, store.GetInt("api.rate_limit_rps"))
	assert.False(t, store.GetBool("api.base_url"))
	assert.Nil(t, store.GetStringSlice("api.base_url"))
	assert.Zero(t, store.GetFloat("missing"))
}

func TestConfigStore_WritesNestedTables(t *testing.T) {
	tmpDir := t.TempDir()
	store, err := NewConfigStore(tmpDir)
	require.NoError(t, err)

	require.NoError(t, store.Set("api.base_url", "https://admin.example.com"))
	require.NoError(t, store.Set("storage.backend", "memory"))

	raw, err := os.ReadFile(store.Path())
	require.NoError(t, err)
	assert.Contains(t, string(raw), "[api]")
	assert.Contains(t, string(raw), "[storage]")
	assert.NotContains(t, string(raw), `"api.base_url"`)
}

func TestConfigStore_SaveReload_PreservesData(t *testing.T) {
	tmpDir := t.TempDir()
	store, err := NewConfigStore(tmpDir)
	require.NoError(t, err)

	require.NoError(t, store.Set("api.base_url", "https://admin.example.com"))
	require.NoError(t, store.Set("api.timeout_seconds", int64(42)))
	require.NoError(t, store.Set("api.rate_limit_rps", 3.14159))
	require.NoError(t, store.Set("session.strict_refresh_expiry", false))
	require.NoError(t, store.Set("api.no_retry_paths", []string{"/billing"}))

	reopened, err := NewConfigStore(tmpDir)
	require.NoError(t, err)

	assert.Equal(t, "https://admin.example.com", reopened.GetString("api.base_url"))
	assert.Equal(t, 42, reopened.GetInt("api.timeout_seconds"))
	assert.InDelta(t, 3.14159, reopened.GetFloat("api.rate_limit_rps"), 0.00001)
	_, ok := reopened.Get("session.strict_refresh_expiry")
	assert.True(t, ok)
	assert.Equal(t, []string{"/billing"}, reopened.GetStringSlice("api.no_retry_paths"))
}

func TestConfigStore_ReadsHandWrittenFile(t *testing.T) {
	tmpDir := t.TempDir()
	content := `
[api]
base_url = "https://admin.example.com"
timeout_seconds = 15

[session]
strict_refresh_expiry = true
`
	require.NoError(t, os.WriteFile(filepath.Join(tmpDir, FileName), []byte(content), 0600))

	store, err := NewConfigStore(tmpDir)
	require.NoError(t, err)

	assert.Equal(t, "https://admin.example.com", store.GetString("api.base_url"))
	assert.Equal(t, 15, store.GetInt("api.timeout_seconds"))
	assert.True(t, store.GetBool("session.strict_refresh_expiry"))
}

func TestConfigStore_ConflictingKeysRejected(t *testing.T) {
	store, err := NewConfigStore(t.TempDir())
	require.NoError(t, err)

	require.NoError(t, store.Set("api", "scalar"))
	err = store.Set("api.base_url", "https://admin.example.com")

	require.Error(t, err)
	_, ok := store.Get("api.base_url")
	assert.False(t, ok, "failed set should be rolled back")
}

func TestConfigStore_FilePermissions(t *testing.T) {
	store, err := NewConfigStore(t.TempDir())
	require.NoError(t, err)
	require.NoError(t, store.Set("api.base_url", "https://admin.example.com"))

	info, err := os.Stat(store.Path())
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0600), info.Mode().Perm())
}

func TestConfigStore_Load_NonExistent(t *testing.T) {
	store, err := NewConfigStore(t.TempDir())
	require.NoError(t, err)

	require.NoError(t, store.Load())
	_, ok := store.Get("anything")
	assert.False(t, ok)
}

func TestConfigStore_Load_EmptyTOMLData(t *testing.T) {
	tmpDir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(tmpDir, FileName), []byte("# Just a comment\n\n"), 0600))

	store, err := NewConfigStore(tmpDir)
	require.NoError(t, err)

	_, ok := store.Get("any_key")
	assert.False(t, ok)
	require.NoError(t, store.Set("api.base_url", "https://admin.example.com"))
}

func TestConfigStore_Load_InvalidTOMLKeepsData(t *testing.T) {
	store, err := NewConfigStore(t.TempDir())
	require.NoError(t, err)
	require.NoError(t, store.Set("api.base_url", "https://admin.example.com"))

	require.NoError(t, os.WriteFile(store.Path(), []byte("invalid toml syntax ][}{"), 0600))

	assert.Error(t, store.Load())
	assert.Equal(t, "https://admin.example.com", store.GetString("api.base_url"))
}

func TestConfigStore_Save_WriteFileError(t *testing.T) {
	store, err := NewConfigStore(t.TempDir())
	require.NoError(t, err)
	require.NoError(t, store.Set("api.base_url", "a"))

	require.NoError(t, os.Remove(store.Path()))
	require.NoError(t, os.Mkdir(store.Path(), 0700))

	assert.Error(t, store.Set("api.timeout_seconds", int64(5)))
	assert.Error(t, store.Save())
}

func TestConfigStore_SetWithUnmarshallableValue(t *testing.T) {
	store, err := NewConfigStore(t.TempDir())
	require.NoError(t, err)

	assert.Error(t, store.Set("channel", make(chan int)))
	_, ok := store.Get("channel")
	assert.False(t, ok)
}

func TestConfigStore_Concurrency(t *testing.T) {
	store, err := NewConfigStore(t.TempDir())
	require.NoError(t, err)

	var wg sync.WaitGroup
	for i := 0; i < 10; i++ {
		wg.Add(2)
		go func() {
			defer wg.Done()
			_ = store.Set("api.base_url", "https://admin.example.com")
		}()
		go func() {
			defer wg.Done()
			_ = store.GetString("api.base_url")
		}()
	}
	wg.Wait()

	assert.Equal(t, "https://admin.example.com", store.GetString("api.base_url"))
}

func TestExpandMap(t *testing.T) {
	tree, err := expandMap(map[string]any{
		"api.base_url":        "u",
		"api.timeout_seconds": int64(5),
		"top":                 true,
	})
	require.NoError(t, err)

	assert.Equal(t, map[string]any{
		"api": map[string]any{"base_url": "u", "timeout_seconds": int64(5)},
		"top": true,
	}, tree)
	assert.Equal(t, map[string]any{"api.base_url": "u", "api.timeout_seconds": int64(5), "top": true}, flattenMap(tree, ""))
}
